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
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"

	"trpc.group/trpc-go/trpc-query-go/intent"
	itelemetry "trpc.group/trpc-go/trpc-query-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-query-go/query/expansion"
)

// Status is the lifecycle state of a transformation.
type Status string

// Transformation statuses.
const (
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
)

// Fallback names the tier that produced the expanded queries.
type Fallback string

// Fallback tiers, from best to worst.
const (
	FallbackNone     Fallback = "none"
	FallbackGeneric  Fallback = "generic"
	FallbackIdentity Fallback = "identity"
)

var (
	// ErrIntentAlreadySet is returned when the intent result is set twice.
	ErrIntentAlreadySet = errors.New("intent result already set")
	// ErrStrategyAlreadySet is returned when the strategy is set twice.
	ErrStrategyAlreadySet = errors.New("strategy already set")
)

// Context carries the state of a single transformation run. It is owned by
// one goroutine and is not safe for concurrent mutation.
type Context struct {
	runID           string
	originalQuery   string
	config          *Config
	intentResult    *intent.Result
	strategy        expansion.Strategy
	expandedQueries []string
	status          Status
	failureReason   string
	fallback        Fallback
	err             error
	startedAt       time.Time
	finishedAt      time.Time
}

// NewContext starts a run for query. A nil cfg means DefaultConfig().
func NewContext(query string, cfg *Config) *Context {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Context{
		runID:         uuid.NewString(),
		originalQuery: query,
		config:        cfg,
		status:        StatusRunning,
		fallback:      FallbackNone,
		startedAt:     time.Now(),
	}
}

// RunID uniquely identifies the run.
func (c *Context) RunID() string { return c.runID }

// OriginalQuery is the literal input.
func (c *Context) OriginalQuery() string { return c.originalQuery }

// Config is the config the run was started with.
func (c *Context) Config() *Config { return c.config }

// IntentResult is nil until classification has finished.
func (c *Context) IntentResult() *intent.Result { return c.intentResult }

// Strategy is nil until a strategy has been selected.
func (c *Context) Strategy() expansion.Strategy { return c.strategy }

// StrategyName returns the selected strategy's name, or "" before selection.
func (c *Context) StrategyName() string {
	if c.strategy == nil {
		return ""
	}
	return c.strategy.Name()
}

// ExpandedQueries returns a copy of the current query list.
func (c *Context) ExpandedQueries() []string {
	return append([]string(nil), c.expandedQueries...)
}

// Status returns the lifecycle state.
func (c *Context) Status() Status { return c.status }

// FailureReason holds the primary failure message of a FAILED run.
func (c *Context) FailureReason() string { return c.failureReason }

// Err returns the primary failure of a FAILED run.
func (c *Context) Err() error { return c.err }

// Fallback reports which tier produced the queries.
func (c *Context) Fallback() Fallback { return c.fallback }

// StartedAt is when the run began.
func (c *Context) StartedAt() time.Time { return c.startedAt }

// FinishedAt is zero while the run is in progress.
func (c *Context) FinishedAt() time.Time { return c.finishedAt }

// Duration is the run time so far, or the total once finished.
func (c *Context) Duration() time.Duration {
	if c.finishedAt.IsZero() {
		return time.Since(c.startedAt)
	}
	return c.finishedAt.Sub(c.startedAt)
}

// SetIntentResult records the classification outcome. It can be set once.
func (c *Context) SetIntentResult(r *intent.Result) error {
	if c.intentResult != nil {
		return ErrIntentAlreadySet
	}
	c.intentResult = r
	return nil
}

// SetStrategy records the selected strategy. It can be set once.
func (c *Context) SetStrategy(s expansion.Strategy) error {
	if c.strategy != nil {
		return ErrStrategyAlreadySet
	}
	c.strategy = s
	return nil
}

// SetExpandedQueries stores queries after normalization: entries are
// trimmed, blanks and duplicates dropped, the original query is placed
// first when it would otherwise be missing, and the list is cut to bound.
// A bound below one is treated as one.
func (c *Context) SetExpandedQueries(queries []string, bound int) {
	if bound < 1 {
		bound = 1
	}
	key := strings.TrimSpace(c.originalQuery)
	out := make([]string, 0, len(queries)+1)
	seen := make(map[string]struct{}, len(queries))
	origIdx := -1
	for _, q := range queries {
		q = strings.TrimSpace(q)
		if q == "" {
			continue
		}
		if _, dup := seen[q]; dup {
			continue
		}
		seen[q] = struct{}{}
		if q == key {
			origIdx = len(out)
			q = c.originalQuery
		}
		out = append(out, q)
	}
	if origIdx < 0 || origIdx >= bound {
		if origIdx >= 0 {
			out = append(out[:origIdx], out[origIdx+1:]...)
		}
		out = append([]string{c.originalQuery}, out...)
	}
	if len(out) > bound {
		out = out[:bound]
	}
	c.expandedQueries = out
}

// Complete marks the run as COMPLETED.
func (c *Context) Complete() {
	c.status = StatusCompleted
	c.finishedAt = time.Now()
}

// Fail marks the run as FAILED with reason.
func (c *Context) Fail(reason string) {
	c.status = StatusFailed
	c.failureReason = reason
	c.finishedAt = time.Now()
}

func (c *Context) fail(err error) {
	c.err = err
	c.Fail(err.Error())
}

func (c *Context) useFallback(tier Fallback, queries []string, bound int) {
	c.fallback = tier
	c.SetExpandedQueries(queries, bound)
	c.finishedAt = time.Now()
}

func (c *Context) identity() {
	c.fallback = FallbackIdentity
	c.expandedQueries = []string{c.originalQuery}
	c.finishedAt = time.Now()
}

func (c *Context) telemetryRun() itelemetry.TransformRun {
	run := itelemetry.TransformRun{
		RunID:      c.runID,
		Channel:    c.config.DefaultChannel(),
		Tenant:     c.config.DefaultTenant(),
		Strategy:   c.StrategyName(),
		Status:     string(c.status),
		Fallback:   string(c.fallback),
		MaxQueries: c.config.MaxQueries(),
		Queries:    c.expandedQueries,
		Err:        c.err,
	}
	if c.intentResult != nil {
		run.IntentCode = c.intentResult.IntentCode()
		run.IntentLevel = c.intentResult.ConfidenceLevel()
	}
	return run
}
