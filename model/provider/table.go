//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package provider

import (
	"errors"
	"fmt"
	"sync"

	"trpc.group/trpc-go/trpc-query-go/model"
)

// ErrModelNotFound is returned when no model is registered for an ID and
// no default model is configured.
var ErrModelNotFound = errors.New("model not found")

// Table maps numeric model IDs to model instances. A nil ID resolves to the
// default model. Table is safe for concurrent use.
type Table struct {
	mu       sync.RWMutex
	models   map[int64]model.Model
	fallback model.Model
}

// NewTable creates a table whose nil-ID lookups resolve to defaultModel.
// defaultModel may be nil.
func NewTable(defaultModel model.Model) *Table {
	return &Table{
		models:   make(map[int64]model.Model),
		fallback: defaultModel,
	}
}

// Set registers m under id, replacing any previous entry.
func (t *Table) Set(id int64, m model.Model) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.models[id] = m
}

// SetDefault replaces the default model.
func (t *Table) SetDefault(m model.Model) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.fallback = m
}

// Resolve returns the model registered for id, or the default model when id
// is nil. An unknown id is an error; it never silently falls back.
func (t *Table) Resolve(id *int64) (model.Model, error) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	if id == nil {
		if t.fallback == nil {
			return nil, fmt.Errorf("default model: %w", ErrModelNotFound)
		}
		return t.fallback, nil
	}
	m, ok := t.models[*id]
	if !ok {
		return nil, fmt.Errorf("model id %d: %w", *id, ErrModelNotFound)
	}
	return m, nil
}
