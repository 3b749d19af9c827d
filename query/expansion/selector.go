//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package expansion

import "trpc.group/trpc-go/trpc-query-go/intent"

// defaultOrder is the evaluation order of the built-in strategies. The order
// is the tie-break: greetings win over everything, then the specific
// strategies, then the catch-all.
var defaultOrder = []Strategy{
	NoExpansion,
	DetailedExpansion,
	TechnicalExpansion,
	ProblemFocusedExpansion,
	StandardExpansion,
}

// Selector picks the first applicable strategy from an ordered list.
type Selector struct {
	strategies []Strategy
	fallback   Strategy
}

// SelectorOption configures a Selector.
type SelectorOption func(*Selector)

// WithStrategies replaces the ordered strategy list. Custom strategies are
// evaluated in the given order after the greeting short-circuit.
func WithStrategies(strategies ...Strategy) SelectorOption {
	return func(s *Selector) {
		s.strategies = append([]Strategy(nil), strategies...)
	}
}

// WithFallback sets the strategy returned when nothing applies.
func WithFallback(fallback Strategy) SelectorOption {
	return func(s *Selector) {
		if fallback != nil {
			s.fallback = fallback
		}
	}
}

// NewSelector creates a selector over the built-in strategies.
func NewSelector(opts ...SelectorOption) *Selector {
	s := &Selector{
		strategies: defaultOrder,
		fallback:   StandardExpansion,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Select returns the strategy for r. A nil r is treated as intent.Default().
// Queries that need no expansion short-circuit to NoExpansion before the
// list is consulted.
func (s *Selector) Select(r *intent.Result) Strategy {
	if r == nil {
		r = intent.Default()
	}
	if !r.RequiresExpansion() {
		return NoExpansion
	}
	for _, strategy := range s.strategies {
		if strategy.IsApplicableFor(r) {
			return strategy
		}
	}
	return s.fallback
}

// Strategies returns a copy of the ordered strategy list.
func (s *Selector) Strategies() []Strategy {
	return append([]Strategy(nil), s.strategies...)
}
