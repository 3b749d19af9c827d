//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package query

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-query-go/intent"
	"trpc.group/trpc-go/trpc-query-go/query/expander"
	"trpc.group/trpc-go/trpc-query-go/query/expansion"
	"trpc.group/trpc-go/trpc-query-go/query/transform"
)

type gateway struct {
	raw string
	err error
}

func (g gateway) GenerateExpansion(context.Context, string, *int64) (string, error) {
	return g.raw, g.err
}

func (g gateway) ParseExpandedQueries(raw string, maxCount int) []string {
	return expander.ParseExpandedQueries(raw, maxCount)
}

var _ Enhancer = (*PassthroughEnhancer)(nil)
var _ Enhancer = (*ExpansionEnhancer)(nil)

func TestPassthroughEnhancer(t *testing.T) {
	got, err := NewPassthroughEnhancer().EnhanceQuery(context.Background(), &Request{Query: "q"})
	require.NoError(t, err)
	assert.Equal(t, "q", got.Enhanced)
	assert.Equal(t, []string{"q"}, got.Queries)

	_, err = NewPassthroughEnhancer().EnhanceQuery(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilRequest)
}

func TestExpansionEnhancer(t *testing.T) {
	classifier := intent.ClassifierFunc(func(context.Context, string, string, string) (map[string]any, error) {
		return map[string]any{intent.KeyIntentCode: intent.CodeComplaint, intent.KeyConfidenceScore: 0.9}, nil
	})
	svc := transform.New(classifier, gateway{raw: "1. 物流延迟怎么处理\n2. 快递丢件赔偿"})
	e := NewExpansionEnhancer(svc, transform.IntentAwareConfig())

	got, err := e.EnhanceQuery(context.Background(), &Request{Query: "快递一直不到"})
	require.NoError(t, err)
	assert.Equal(t, "快递一直不到", got.Enhanced)
	assert.Equal(t, []string{"快递一直不到", "物流延迟怎么处理", "快递丢件赔偿"}, got.Queries)
	assert.Equal(t, expansion.NameProblemFocusedExpansion, got.Strategy)
	assert.Equal(t, intent.CodeComplaint, got.IntentCode)
	assert.False(t, got.Degraded)
}

func TestExpansionEnhancerRequestConfig(t *testing.T) {
	svc := transform.New(nil, gateway{raw: "1. a\n2. b\n3. c"})
	cfg, err := transform.NewConfig(2, false, "web", "t1")
	require.NoError(t, err)

	got, err := NewExpansionEnhancer(svc, nil).EnhanceQuery(context.Background(), &Request{Query: "q", Config: cfg})
	require.NoError(t, err)
	assert.Equal(t, []string{"q", "a", "b"}, got.Queries)
	assert.Equal(t, intent.CodeUnknown, got.IntentCode)
}

func TestExpansionEnhancerDegraded(t *testing.T) {
	svc := transform.New(nil, gateway{err: errors.New("down")})
	got, err := NewExpansionEnhancer(svc, nil).EnhanceQuery(context.Background(), &Request{Query: "q"})
	require.NoError(t, err)
	assert.True(t, got.Degraded)
	assert.Equal(t, []string{"q"}, got.Queries)
}

func TestExpansionEnhancerEdgeCases(t *testing.T) {
	e := NewExpansionEnhancer(transform.New(nil, gateway{}), nil)
	_, err := e.EnhanceQuery(context.Background(), nil)
	assert.ErrorIs(t, err, ErrNilRequest)

	got, err := e.EnhanceQuery(context.Background(), &Request{Query: " "})
	require.NoError(t, err)
	assert.Equal(t, []string{" "}, got.Queries)
}
