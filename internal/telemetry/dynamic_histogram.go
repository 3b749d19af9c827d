//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package telemetry

import (
	"context"
	"sync"

	"go.opentelemetry.io/otel/metric"
)

// DynamicFloat64Histogram wraps a Float64Histogram whose bucket boundaries
// can be replaced at runtime by recreating the instrument.
type DynamicFloat64Histogram struct {
	mu          sync.RWMutex
	histogram   metric.Float64Histogram
	meter       metric.Meter
	name        string
	description string
	unit        string
	boundaries  []float64
}

// NewDynamicFloat64Histogram creates a histogram on meter.
func NewDynamicFloat64Histogram(
	meter metric.Meter,
	name string,
	description string,
	unit string,
	boundaries []float64,
) (*DynamicFloat64Histogram, error) {
	d := &DynamicFloat64Histogram{
		meter:       meter,
		name:        name,
		description: description,
		unit:        unit,
	}
	if err := d.SetBuckets(boundaries); err != nil {
		return nil, err
	}
	return d, nil
}

// Record records a value with the current histogram.
func (d *DynamicFloat64Histogram) Record(ctx context.Context, value float64, opts ...metric.RecordOption) {
	d.mu.RLock()
	h := d.histogram
	d.mu.RUnlock()
	h.Record(ctx, value, opts...)
}

// SetBuckets updates bucket boundaries by recreating the histogram.
// Old data is not migrated.
func (d *DynamicFloat64Histogram) SetBuckets(boundaries []float64) error {
	d.mu.Lock()
	defer d.mu.Unlock()

	opts := []metric.Float64HistogramOption{
		metric.WithDescription(d.description),
		metric.WithUnit(d.unit),
	}
	if len(boundaries) > 0 {
		opts = append(opts, metric.WithExplicitBucketBoundaries(boundaries...))
	}
	h, err := d.meter.Float64Histogram(d.name, opts...)
	if err != nil {
		return err
	}
	d.histogram = h
	d.boundaries = append([]float64(nil), boundaries...)
	return nil
}

// Boundaries returns the bucket boundaries currently in use.
func (d *DynamicFloat64Histogram) Boundaries() []float64 {
	d.mu.RLock()
	defer d.mu.RUnlock()
	return append([]float64(nil), d.boundaries...)
}
