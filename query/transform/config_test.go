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
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewConfigValidation(t *testing.T) {
	tests := []struct {
		name    string
		max     int
		channel string
		tenant  string
		field   string
	}{
		{"zero max", 0, "web", "t1", "maxQueries"},
		{"negative max", -3, "web", "t1", "maxQueries"},
		{"max above bound", MaxMaxQueries + 1, "web", "t1", "maxQueries"},
		{"blank channel", 3, "  ", "t1", "defaultChannel"},
		{"blank tenant", 3, "web", "", "defaultTenant"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg, err := NewConfig(tt.max, true, tt.channel, tt.tenant)
			assert.Nil(t, cfg)
			require.Error(t, err)
			assert.True(t, errors.Is(err, ErrInvalidConfig))
			var ce *ConfigError
			require.ErrorAs(t, err, &ce)
			assert.Equal(t, tt.field, ce.Field)
		})
	}
}

func TestNewConfig(t *testing.T) {
	cfg, err := NewConfig(MaxMaxQueries, true, " web ", "t1",
		WithModelID(42), WithCustomPromptTemplate("{query}"))
	require.NoError(t, err)
	assert.Equal(t, MaxMaxQueries, cfg.MaxQueries())
	assert.True(t, cfg.IntentRecognitionEnabled())
	assert.Equal(t, "web", cfg.DefaultChannel())
	assert.Equal(t, "t1", cfg.DefaultTenant())
	require.NotNil(t, cfg.ModelID())
	assert.Equal(t, int64(42), *cfg.ModelID())
	assert.Equal(t, "{query}", cfg.CustomPromptTemplate())
	assert.Contains(t, cfg.String(), "model=42")

	*cfg.ModelID() = 7
	assert.Equal(t, int64(42), *cfg.ModelID())
}

func TestPresets(t *testing.T) {
	def := DefaultConfig()
	assert.Equal(t, DefaultMaxQueries, def.MaxQueries())
	assert.False(t, def.IntentRecognitionEnabled())
	assert.Equal(t, DefaultChannel, def.DefaultChannel())
	assert.Equal(t, DefaultTenant, def.DefaultTenant())
	assert.Nil(t, def.ModelID())
	assert.Empty(t, def.CustomPromptTemplate())

	aware := IntentAwareConfig()
	assert.Equal(t, DefaultMaxQueries, aware.MaxQueries())
	assert.True(t, aware.IntentRecognitionEnabled())
}

func TestWithMaxQueries(t *testing.T) {
	base, err := NewConfig(5, true, "web", "t1", WithModelID(3))
	require.NoError(t, err)

	next, err := base.WithMaxQueries(2)
	require.NoError(t, err)
	assert.Equal(t, 2, next.MaxQueries())
	assert.Equal(t, 5, base.MaxQueries())
	assert.Equal(t, int64(3), *next.ModelID())
	assert.Equal(t, "web", next.DefaultChannel())

	_, err = base.WithMaxQueries(0)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}
