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
	"fmt"
	"strings"
)

// Bounds and defaults of Config.
const (
	MinMaxQueries     = 1
	MaxMaxQueries     = 10
	DefaultMaxQueries = 5
	DefaultChannel    = "default"
	DefaultTenant     = "default"
)

// ErrInvalidConfig is wrapped by every ConfigError.
var ErrInvalidConfig = errors.New("invalid query expansion config")

// ConfigError reports which Config field failed validation.
type ConfigError struct {
	Field  string
	Reason string
}

func (e *ConfigError) Error() string {
	return fmt.Sprintf("%s: %s %s", ErrInvalidConfig, e.Field, e.Reason)
}

// Unwrap returns ErrInvalidConfig.
func (e *ConfigError) Unwrap() error { return ErrInvalidConfig }

// Config controls one transformation run. It is immutable once built and
// safe to share between goroutines.
type Config struct {
	maxQueries     int
	intentEnabled  bool
	channel        string
	tenant         string
	modelID        *int64
	promptTemplate string
}

// ConfigOption configures optional Config fields.
type ConfigOption func(*Config)

// WithModelID selects the expansion model by ID. Without it the gateway's
// default model is used.
func WithModelID(id int64) ConfigOption {
	return func(c *Config) {
		c.modelID = &id
	}
}

// WithCustomPromptTemplate replaces the built-in expansion prompt on the
// intent-aware path. The placeholders {query}, {max_queries}, {intent},
// {confidence}, {reasoning} and {guidance} are substituted.
func WithCustomPromptTemplate(tmpl string) ConfigOption {
	return func(c *Config) {
		c.promptTemplate = tmpl
	}
}

// NewConfig validates its arguments and builds a Config. maxQueries must be
// within [MinMaxQueries, MaxMaxQueries]; channel and tenant must not be blank.
func NewConfig(maxQueries int, intentEnabled bool, channel, tenant string, opts ...ConfigOption) (*Config, error) {
	if maxQueries < MinMaxQueries || maxQueries > MaxMaxQueries {
		return nil, &ConfigError{
			Field:  "maxQueries",
			Reason: fmt.Sprintf("must be between %d and %d, got %d", MinMaxQueries, MaxMaxQueries, maxQueries),
		}
	}
	channel = strings.TrimSpace(channel)
	if channel == "" {
		return nil, &ConfigError{Field: "defaultChannel", Reason: "must not be blank"}
	}
	tenant = strings.TrimSpace(tenant)
	if tenant == "" {
		return nil, &ConfigError{Field: "defaultTenant", Reason: "must not be blank"}
	}
	c := &Config{
		maxQueries:    maxQueries,
		intentEnabled: intentEnabled,
		channel:       channel,
		tenant:        tenant,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c, nil
}

// DefaultConfig returns a config with intent recognition disabled.
func DefaultConfig() *Config {
	return mustConfig(NewConfig(DefaultMaxQueries, false, DefaultChannel, DefaultTenant))
}

// IntentAwareConfig returns a config with intent recognition enabled.
func IntentAwareConfig() *Config {
	return mustConfig(NewConfig(DefaultMaxQueries, true, DefaultChannel, DefaultTenant))
}

func mustConfig(c *Config, err error) *Config {
	if err != nil {
		panic(err)
	}
	return c
}

// WithMaxQueries returns a validated copy of c with a different bound.
func (c *Config) WithMaxQueries(n int) (*Config, error) {
	opts := []ConfigOption{WithCustomPromptTemplate(c.promptTemplate)}
	if c.modelID != nil {
		opts = append(opts, WithModelID(*c.modelID))
	}
	return NewConfig(n, c.intentEnabled, c.channel, c.tenant, opts...)
}

// MaxQueries is the configured upper bound on expanded queries.
func (c *Config) MaxQueries() int { return c.maxQueries }

// IntentRecognitionEnabled reports whether the classifier is consulted.
func (c *Config) IntentRecognitionEnabled() bool { return c.intentEnabled }

// DefaultChannel is passed to the classifier.
func (c *Config) DefaultChannel() string { return c.channel }

// DefaultTenant is passed to the classifier.
func (c *Config) DefaultTenant() string { return c.tenant }

// ModelID returns a copy of the configured model ID, or nil.
func (c *Config) ModelID() *int64 {
	if c.modelID == nil {
		return nil
	}
	id := *c.modelID
	return &id
}

// CustomPromptTemplate returns the custom template, empty when unset.
func (c *Config) CustomPromptTemplate() string { return c.promptTemplate }

func (c *Config) String() string {
	model := "default"
	if c.modelID != nil {
		model = fmt.Sprintf("%d", *c.modelID)
	}
	return fmt.Sprintf("maxQueries=%d intent=%t channel=%s tenant=%s model=%s custom_prompt=%t",
		c.maxQueries, c.intentEnabled, c.channel, c.tenant, model, c.promptTemplate != "")
}
