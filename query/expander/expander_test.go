//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package expander

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"trpc.group/trpc-go/trpc-query-go/model"
	"trpc.group/trpc-go/trpc-query-go/model/provider"
)

type stubModel struct {
	name    string
	rsps    []*model.Response
	err     error
	block   bool
	lastReq *model.Request
}

func (m *stubModel) GenerateContent(_ context.Context, req *model.Request) (<-chan *model.Response, error) {
	m.lastReq = req
	if m.err != nil {
		return nil, m.err
	}
	ch := make(chan *model.Response, len(m.rsps))
	if m.block {
		return ch, nil
	}
	for _, r := range m.rsps {
		ch <- r
	}
	close(ch)
	return ch, nil
}

func (m *stubModel) Info() model.Info { return model.Info{Name: m.name} }

func reply(text string) []*model.Response {
	return []*model.Response{{
		Choices: []model.Choice{{Message: model.NewAssistantMessage(text)}},
		Done:    true,
	}}
}

func TestGenerateExpansion(t *testing.T) {
	m := &stubModel{name: "default", rsps: reply("1. a\n2. b")}
	g := New(Static(m), WithTemperature(0.2), WithMaxTokens(128), WithStream(true))

	raw, err := g.GenerateExpansion(context.Background(), "expand: q", nil)
	require.NoError(t, err)
	assert.Equal(t, "1. a\n2. b", raw)

	require.NotNil(t, m.lastReq)
	require.Len(t, m.lastReq.Messages, 2)
	assert.Equal(t, model.RoleSystem, m.lastReq.Messages[0].Role)
	assert.Equal(t, "expand: q", m.lastReq.Messages[1].Content)
	assert.Equal(t, 0.2, *m.lastReq.Temperature)
	assert.Equal(t, 128, *m.lastReq.MaxTokens)
	assert.True(t, m.lastReq.Stream)

	assert.Equal(t, []string{"a", "b"}, g.ParseExpandedQueries(raw, 5))
}

func TestGenerateExpansionWithoutSystemPrompt(t *testing.T) {
	m := &stubModel{rsps: reply("x")}
	g := New(Static(m), WithSystemPrompt(""), WithMaxTokens(0))
	_, err := g.GenerateExpansion(context.Background(), "p", nil)
	require.NoError(t, err)
	require.Len(t, m.lastReq.Messages, 1)
	assert.Equal(t, defaultMaxTokens, *m.lastReq.MaxTokens)
}

func TestGenerateExpansionResolvesModelID(t *testing.T) {
	def := &stubModel{name: "default", rsps: reply("from default")}
	seven := &stubModel{name: "seven", rsps: reply("from seven")}
	table := provider.NewTable(def)
	table.Set(7, seven)
	g := New(table)

	id := int64(7)
	raw, err := g.GenerateExpansion(context.Background(), "p", &id)
	require.NoError(t, err)
	assert.Equal(t, "from seven", raw)

	missing := int64(9)
	_, err = g.GenerateExpansion(context.Background(), "p", &missing)
	assert.ErrorIs(t, err, provider.ErrModelNotFound)
}

func TestGenerateExpansionErrors(t *testing.T) {
	code := "500"
	tests := []struct {
		name     string
		m        *stubModel
		sentinel error
	}{
		{"request error", &stubModel{err: errors.New("connection refused")}, nil},
		{"response error", &stubModel{rsps: []*model.Response{{Error: &model.ResponseError{Type: model.ErrorTypeAPIError, Message: "boom", Code: &code}, Done: true}}}, nil},
		{"no content", &stubModel{rsps: nil}, ErrEmptyCompletion},
		{"whitespace", &stubModel{rsps: reply("  \n ")}, ErrEmptyCompletion},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(Static(tt.m)).GenerateExpansion(context.Background(), "p", nil)
			require.Error(t, err)
			if tt.sentinel != nil {
				assert.ErrorIs(t, err, tt.sentinel)
			}
		})
	}

	_, err := New(nil).GenerateExpansion(context.Background(), "p", nil)
	assert.Error(t, err)
}

func TestGenerateExpansionHonoursCancellation(t *testing.T) {
	m := &stubModel{block: true}
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	start := time.Now()
	_, err := New(Static(m)).GenerateExpansion(ctx, "p", nil)
	require.Error(t, err)
	assert.ErrorIs(t, err, context.DeadlineExceeded)
	assert.Less(t, time.Since(start), time.Second)
}
