//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package transform turns a user query into a bounded set of retrieval
// queries. It classifies the query's intent, selects an expansion strategy,
// asks an LLM for variants and degrades to a generic prompt, then to the
// original query alone, when anything along the way fails.
package transform

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"trpc.group/trpc-go/trpc-query-go/intent"
	itelemetry "trpc.group/trpc-go/trpc-query-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-query-go/log"
	"trpc.group/trpc-go/trpc-query-go/query/expander"
	"trpc.group/trpc-go/trpc-query-go/query/expansion"
)

var errNilGateway = errors.New("expansion gateway is nil")

// Service runs query transformations. It holds no per-run state and can be
// used from many goroutines at once.
type Service struct {
	classifier      intent.Classifier
	gateway         expander.Gateway
	selector        *expansion.Selector
	classifyTimeout time.Duration
	expandTimeout   time.Duration
}

// Option configures a Service.
type Option func(*Service)

// WithSelector replaces the default strategy selector.
func WithSelector(selector *expansion.Selector) Option {
	return func(s *Service) {
		if selector != nil {
			s.selector = selector
		}
	}
}

// WithClassifyTimeout bounds each classification call. Zero disables the bound.
func WithClassifyTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.classifyTimeout = d
	}
}

// WithExpandTimeout bounds each expansion call, primary and fallback alike.
// Zero disables the bound.
func WithExpandTimeout(d time.Duration) Option {
	return func(s *Service) {
		s.expandTimeout = d
	}
}

// New creates a Service. classifier may be nil, in which case every run
// uses the default intent.
func New(classifier intent.Classifier, gateway expander.Gateway, opts ...Option) *Service {
	s := &Service{
		classifier: classifier,
		gateway:    gateway,
		selector:   expansion.NewSelector(),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Transform expands query according to cfg. It never fails: errors are
// absorbed into the returned Context's status, failure reason and fallback
// tier, and the expanded queries always contain the original query.
// A nil cfg means DefaultConfig().
func (s *Service) Transform(ctx context.Context, query string, cfg *Config) *Context {
	tc := NewContext(query, cfg)
	ctx, span := itelemetry.Tracer.Start(ctx, itelemetry.SpanNameTransform)
	defer func() {
		run := tc.telemetryRun()
		itelemetry.TraceTransform(span, run)
		span.End()
		itelemetry.RecordTransform(ctx, run, tc.Duration())
	}()

	if strings.TrimSpace(query) == "" {
		_ = tc.SetIntentResult(intent.Default())
		_ = tc.SetStrategy(expansion.NoExpansion)
		tc.expandedQueries = []string{query}
		tc.Complete()
		return tc
	}

	if err := s.run(ctx, tc); err != nil {
		log.WarnfContext(ctx, "query expansion failed, falling back to generic expansion: run=%s, strategy=%s, err=%v",
			tc.RunID(), tc.StrategyName(), err)
		tc.fail(err)
		s.fallback(ctx, tc)
	}
	log.DebugfContext(ctx, "query transformed: run=%s, strategy=%s, status=%s, fallback=%s, queries=%d, cost=%s",
		tc.RunID(), tc.StrategyName(), tc.Status(), tc.Fallback(), len(tc.expandedQueries), tc.Duration())
	return tc
}

// run is the intent-aware path. Any returned error sends the run to the
// fallback tiers.
func (s *Service) run(ctx context.Context, tc *Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("query expansion panic: %v", r)
		}
	}()

	cfg := tc.Config()
	r := s.classify(ctx, tc)
	if err := tc.SetIntentResult(r); err != nil {
		return err
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("classify intent: %w", err)
	}
	strategy := s.selector.Select(r)
	if err := tc.SetStrategy(strategy); err != nil {
		return err
	}
	if strategy.ShouldSkip() {
		tc.SetExpandedQueries([]string{tc.OriginalQuery()}, 1)
		tc.Complete()
		return nil
	}

	prompt := buildPrompt(cfg, strategy, tc.OriginalQuery(), r)
	raw, err := s.generate(ctx, prompt, cfg.ModelID())
	if err != nil {
		return err
	}
	candidates := s.gateway.ParseExpandedQueries(raw, strategy.MaxQueries())
	tc.SetExpandedQueries(candidates, strategy.MaxQueries())
	tc.Complete()
	return nil
}

// classify never fails. Disabled recognition, a missing classifier and any
// classifier error all yield intent.Default().
func (s *Service) classify(ctx context.Context, tc *Context) (r *intent.Result) {
	cfg := tc.Config()
	if !cfg.IntentRecognitionEnabled() || s.classifier == nil {
		return intent.Default()
	}
	defer func() {
		if p := recover(); p != nil {
			log.WarnfContext(ctx, "intent classification panic, using default intent: run=%s, panic=%v", tc.RunID(), p)
			r = intent.Default()
		}
	}()

	cctx, cancel := withTimeout(ctx, s.classifyTimeout)
	defer cancel()
	raw, err := s.classifier.Classify(cctx, tc.OriginalQuery(), cfg.DefaultChannel(), cfg.DefaultTenant())
	if err != nil {
		log.WarnfContext(ctx, "intent classification failed, using default intent: run=%s, err=%v", tc.RunID(), err)
		return intent.Default()
	}
	r = intent.FromRaw(raw)
	log.DebugfContext(ctx, "intent classified: run=%s, %s", tc.RunID(), r)
	return r
}

func (s *Service) generate(ctx context.Context, prompt string, modelID *int64) (string, error) {
	if s.gateway == nil {
		return "", errNilGateway
	}
	ectx, cancel := withTimeout(ctx, s.expandTimeout)
	defer cancel()
	raw, err := s.gateway.GenerateExpansion(ectx, prompt, modelID)
	if err != nil {
		return "", fmt.Errorf("generate expansion: %w", err)
	}
	return raw, nil
}

func buildPrompt(cfg *Config, strategy expansion.Strategy, query string, r *intent.Result) string {
	if tmpl := cfg.CustomPromptTemplate(); tmpl != "" {
		return expansion.RenderTemplate(tmpl, strategy, query, r)
	}
	return strategy.BuildPrompt(query, r)
}

func withTimeout(ctx context.Context, d time.Duration) (context.Context, context.CancelFunc) {
	if d <= 0 {
		return context.WithCancel(ctx)
	}
	return context.WithTimeout(ctx, d)
}
