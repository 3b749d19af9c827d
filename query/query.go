//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package query defines the query enhancement contract used by retrieval
// pipelines and its implementations.
package query

import (
	"context"
	"errors"
	"strings"

	"trpc.group/trpc-go/trpc-query-go/query/transform"
)

// Enhancer enhances user queries for better search results.
type Enhancer interface {
	// EnhanceQuery rewrites or expands a user query.
	EnhanceQuery(ctx context.Context, req *Request) (*Enhanced, error)
}

// Request represents a query enhancement request.
type Request struct {
	// Query is the user's current query text.
	Query string
	// Config overrides the enhancer's config for this request when set.
	Config *transform.Config
}

// Enhanced is the result of an enhancement.
type Enhanced struct {
	// Enhanced is the query to search with first. It is always the original.
	Enhanced string
	// Queries holds every query to search with, Enhanced included.
	Queries []string
	// Strategy is the name of the expansion strategy that was applied.
	Strategy string
	// IntentCode is the classified intent, "UNKNOWN" without classification.
	IntentCode string
	// Degraded reports that a fallback tier produced Queries.
	Degraded bool
}

// ErrNilRequest is returned for a nil Request.
var ErrNilRequest = errors.New("query: request is nil")

// PassthroughEnhancer returns the query unchanged.
type PassthroughEnhancer struct{}

// NewPassthroughEnhancer creates a PassthroughEnhancer.
func NewPassthroughEnhancer() *PassthroughEnhancer {
	return &PassthroughEnhancer{}
}

// EnhanceQuery implements Enhancer.
func (*PassthroughEnhancer) EnhanceQuery(_ context.Context, req *Request) (*Enhanced, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	return &Enhanced{Enhanced: req.Query, Queries: []string{req.Query}}, nil
}

// ExpansionEnhancer expands queries with a transform.Service.
type ExpansionEnhancer struct {
	service *transform.Service
	config  *transform.Config
}

// NewExpansionEnhancer creates an enhancer over service. A nil cfg means
// transform.DefaultConfig().
func NewExpansionEnhancer(service *transform.Service, cfg *transform.Config) *ExpansionEnhancer {
	if cfg == nil {
		cfg = transform.DefaultConfig()
	}
	return &ExpansionEnhancer{service: service, config: cfg}
}

// EnhanceQuery implements Enhancer. Expansion failures are not errors; they
// show up as Degraded results.
func (e *ExpansionEnhancer) EnhanceQuery(ctx context.Context, req *Request) (*Enhanced, error) {
	if req == nil {
		return nil, ErrNilRequest
	}
	if strings.TrimSpace(req.Query) == "" {
		return &Enhanced{Enhanced: req.Query, Queries: []string{req.Query}}, nil
	}
	cfg := e.config
	if req.Config != nil {
		cfg = req.Config
	}
	tc := e.service.Transform(ctx, req.Query, cfg)
	out := &Enhanced{
		Enhanced: tc.OriginalQuery(),
		Queries:  tc.ExpandedQueries(),
		Strategy: tc.StrategyName(),
		Degraded: tc.Fallback() != transform.FallbackNone,
	}
	if r := tc.IntentResult(); r != nil {
		out.IntentCode = r.IntentCode()
	}
	return out, nil
}
