//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package transform

import (
	"context"
	"fmt"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestTransformAllKeepsOrder(t *testing.T) {
	var inFlight, peak int32
	gw := &fakeGateway{fn: func(_ context.Context, _ int, prompt string) (string, error) {
		cur := atomic.AddInt32(&inFlight, 1)
		defer atomic.AddInt32(&inFlight, -1)
		for {
			old := atomic.LoadInt32(&peak)
			if cur <= old || atomic.CompareAndSwapInt32(&peak, old, cur) {
				break
			}
		}
		time.Sleep(5 * time.Millisecond)
		return "1. variant", nil
	}}
	svc := New(nil, gw)

	queries := make([]string, 20)
	for i := range queries {
		queries[i] = fmt.Sprintf("query-%02d", i)
	}
	results, err := svc.TransformAll(context.Background(), queries, nil, 3)
	require.NoError(t, err)
	require.Len(t, results, len(queries))
	for i, tc := range results {
		require.NotNil(t, tc)
		assert.Equal(t, queries[i], tc.OriginalQuery())
		assert.Equal(t, []string{queries[i], "variant"}, tc.ExpandedQueries())
		assert.Equal(t, StatusCompleted, tc.Status())
	}
	assert.LessOrEqual(t, atomic.LoadInt32(&peak), int32(3))
	assert.Len(t, gw.Calls(), len(queries))
}

func TestTransformAllEmpty(t *testing.T) {
	results, err := New(nil, replies("a")).TransformAll(context.Background(), nil, nil, 0)
	require.NoError(t, err)
	assert.Empty(t, results)
}

func TestTransformAllDefaultParallelism(t *testing.T) {
	results, err := New(nil, replies("1. a")).TransformAll(context.Background(), []string{"x", "y"}, nil, 0)
	require.NoError(t, err)
	require.Len(t, results, 2)
	assert.Equal(t, []string{"x", "a"}, results[0].ExpandedQueries())
	assert.Equal(t, []string{"y", "a"}, results[1].ExpandedQueries())
}

func TestTransformAllIsolatesFailures(t *testing.T) {
	gw := &fakeGateway{fn: func(_ context.Context, _ int, prompt string) (string, error) {
		if strings.Contains(prompt, "bad") {
			return "", fmt.Errorf("cannot expand")
		}
		return "1. ok", nil
	}}
	results, err := New(nil, gw).TransformAll(context.Background(), []string{"good", "bad", "fine"}, nil, 2)
	require.NoError(t, err)
	assert.Equal(t, StatusCompleted, results[0].Status())
	assert.Equal(t, StatusFailed, results[1].Status())
	assert.Equal(t, []string{"bad"}, results[1].ExpandedQueries())
	assert.Equal(t, StatusCompleted, results[2].Status())
}
