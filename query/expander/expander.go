//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package expander is the expansion gateway: it sends expansion prompts to a
// language model and turns the completion into candidate queries.
package expander

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"trpc.group/trpc-go/trpc-query-go/log"
	"trpc.group/trpc-go/trpc-query-go/model"
)

// Gateway generates raw expansions and parses them into queries.
type Gateway interface {
	// GenerateExpansion invokes the model identified by modelID (the default
	// model when nil) with prompt and returns the raw completion text.
	GenerateExpansion(ctx context.Context, prompt string, modelID *int64) (string, error)
	// ParseExpandedQueries splits raw into at most maxCount queries.
	ParseExpandedQueries(raw string, maxCount int) []string
}

// Resolver maps a model ID to a model. provider.Table implements it.
type Resolver interface {
	Resolve(id *int64) (model.Model, error)
}

// ResolverFunc adapts a function to the Resolver interface.
type ResolverFunc func(id *int64) (model.Model, error)

// Resolve implements Resolver.
func (f ResolverFunc) Resolve(id *int64) (model.Model, error) { return f(id) }

// Static returns a Resolver that always yields m.
func Static(m model.Model) Resolver {
	return ResolverFunc(func(*int64) (model.Model, error) { return m, nil })
}

// ErrEmptyCompletion is returned when the model answered with no text.
var ErrEmptyCompletion = errors.New("empty expansion completion")

const (
	defaultSystemPrompt = "你是一个专业的搜索查询改写助手，只输出改写后的查询，每行一个。"
	defaultTemperature  = 0.7
	defaultMaxTokens    = 512
)

// LLMGateway implements Gateway on top of model.Model.
type LLMGateway struct {
	resolver     Resolver
	systemPrompt string
	temperature  float64
	maxTokens    int
	stream       bool
}

// Option configures an LLMGateway.
type Option func(*LLMGateway)

// WithSystemPrompt replaces the system message sent with every prompt.
// An empty prompt disables the system message.
func WithSystemPrompt(prompt string) Option {
	return func(g *LLMGateway) {
		g.systemPrompt = prompt
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) Option {
	return func(g *LLMGateway) {
		g.temperature = t
	}
}

// WithMaxTokens caps the completion length. Non-positive values are ignored.
func WithMaxTokens(n int) Option {
	return func(g *LLMGateway) {
		if n > 0 {
			g.maxTokens = n
		}
	}
}

// WithStream requests a streaming completion from the model.
func WithStream(stream bool) Option {
	return func(g *LLMGateway) {
		g.stream = stream
	}
}

// New creates a gateway that resolves models through resolver.
func New(resolver Resolver, opts ...Option) *LLMGateway {
	g := &LLMGateway{
		resolver:     resolver,
		systemPrompt: defaultSystemPrompt,
		temperature:  defaultTemperature,
		maxTokens:    defaultMaxTokens,
	}
	for _, opt := range opts {
		opt(g)
	}
	return g
}

// GenerateExpansion implements Gateway.
func (g *LLMGateway) GenerateExpansion(ctx context.Context, prompt string, modelID *int64) (string, error) {
	if g.resolver == nil {
		return "", errors.New("expander: resolver is nil")
	}
	m, err := g.resolver.Resolve(modelID)
	if err != nil {
		return "", fmt.Errorf("resolve model: %w", err)
	}

	var messages []model.Message
	if g.systemPrompt != "" {
		messages = append(messages, model.NewSystemMessage(g.systemPrompt))
	}
	messages = append(messages, model.NewUserMessage(prompt))
	req := &model.Request{
		Messages: messages,
		GenerationConfig: model.GenerationConfig{
			Temperature: model.Float64Ptr(g.temperature),
			MaxTokens:   model.IntPtr(g.maxTokens),
			Stream:      g.stream,
		},
	}

	ch, err := m.GenerateContent(ctx, req)
	if err != nil {
		return "", fmt.Errorf("generate expansion: %w", err)
	}
	raw, err := model.Collect(ctx, ch)
	if errors.Is(err, model.ErrNoContent) {
		return "", ErrEmptyCompletion
	}
	if err != nil {
		return "", fmt.Errorf("generate expansion: %w", err)
	}
	if strings.TrimSpace(raw) == "" {
		return "", ErrEmptyCompletion
	}
	log.DebugfContext(ctx, "expansion generated: model=%s, chars=%d", m.Info().Name, len(raw))
	return raw, nil
}

// ParseExpandedQueries implements Gateway.
func (g *LLMGateway) ParseExpandedQueries(raw string, maxCount int) []string {
	return ParseExpandedQueries(raw, maxCount)
}
