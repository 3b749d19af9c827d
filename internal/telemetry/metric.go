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
	"fmt"
	"time"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
	"go.opentelemetry.io/otel/metric/noop"
)

// Meter and metric names.
const (
	MeterNameTransform = "trpc_query_go.transform"

	MetricTransformRunCnt      = "trpc_query_go.transform.run.count"
	MetricTransformFallbackCnt = "trpc_query_go.transform.fallback.count"
	MetricTransformDuration    = "trpc_query_go.transform.duration"
	MetricTransformQueryCnt    = "trpc_query_go.transform.expanded_queries"
)

// DefaultDurationBuckets are the default boundaries, in seconds, of the
// transformation duration histogram.
var DefaultDurationBuckets = []float64{0.05, 0.1, 0.25, 0.5, 1, 2, 4, 8, 16, 30}

// Float64Recorder is satisfied by metric.Float64Histogram and DynamicFloat64Histogram.
type Float64Recorder interface {
	Record(ctx context.Context, value float64, opts ...metric.RecordOption)
}

var (
	MeterProvider metric.MeterProvider = noop.NewMeterProvider()

	TransformMeter          metric.Meter          = MeterProvider.Meter(MeterNameTransform)
	TransformRunCnt         metric.Int64Counter   = noop.Int64Counter{}
	TransformFallbackCnt    metric.Int64Counter   = noop.Int64Counter{}
	TransformQueryCnt       metric.Int64Histogram = noop.Int64Histogram{}
	TransformDuration       Float64Recorder       = noop.Float64Histogram{}
	TransformDurationBucket *DynamicFloat64Histogram
)

// InitTransformMetrics creates the transformation instruments on mp.
func InitTransformMetrics(mp metric.MeterProvider) error {
	if mp == nil {
		return fmt.Errorf("transform meter provider is nil")
	}
	meter := mp.Meter(MeterNameTransform)
	runCnt, err := meter.Int64Counter(MetricTransformRunCnt,
		metric.WithDescription("Total number of query transformations"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create transform metric %s: %w", MetricTransformRunCnt, err)
	}
	fallbackCnt, err := meter.Int64Counter(MetricTransformFallbackCnt,
		metric.WithDescription("Number of transformations served by a degraded tier"),
		metric.WithUnit("1"),
	)
	if err != nil {
		return fmt.Errorf("failed to create transform metric %s: %w", MetricTransformFallbackCnt, err)
	}
	queryCnt, err := meter.Int64Histogram(MetricTransformQueryCnt,
		metric.WithDescription("Number of queries produced per transformation"),
		metric.WithUnit("{query}"),
		metric.WithExplicitBucketBoundaries(1, 2, 3, 4, 5, 6, 8, 10),
	)
	if err != nil {
		return fmt.Errorf("failed to create transform metric %s: %w", MetricTransformQueryCnt, err)
	}
	duration, err := NewDynamicFloat64Histogram(meter, MetricTransformDuration,
		"Duration of query transformation", "s", DefaultDurationBuckets)
	if err != nil {
		return fmt.Errorf("failed to create transform metric %s: %w", MetricTransformDuration, err)
	}

	MeterProvider = mp
	TransformMeter = meter
	TransformRunCnt = runCnt
	TransformFallbackCnt = fallbackCnt
	TransformQueryCnt = queryCnt
	TransformDuration = duration
	TransformDurationBucket = duration
	return nil
}

// SetDurationBuckets replaces the boundaries of the duration histogram.
func SetDurationBuckets(boundaries []float64) error {
	if TransformDurationBucket == nil {
		return fmt.Errorf("transform metric %s not initialized", MetricTransformDuration)
	}
	return TransformDurationBucket.SetBuckets(boundaries)
}

// RecordTransform records the counters and histograms for a finished run.
func RecordTransform(ctx context.Context, run TransformRun, duration time.Duration) {
	attrs := metric.WithAttributes(
		attribute.String(KeyOperationName, OperationTransform),
		attribute.String(KeyChannel, run.Channel),
		attribute.String(KeyTenant, run.Tenant),
		attribute.String(KeyStrategy, run.Strategy),
		attribute.String(KeyStatus, run.Status),
	)
	TransformRunCnt.Add(ctx, 1, attrs)
	TransformDuration.Record(ctx, duration.Seconds(), attrs)
	TransformQueryCnt.Record(ctx, int64(len(run.Queries)), attrs)
	if run.Fallback != "" && run.Fallback != "none" {
		TransformFallbackCnt.Add(ctx, 1, metric.WithAttributes(
			attribute.String(KeyChannel, run.Channel),
			attribute.String(KeyTenant, run.Tenant),
			attribute.String(KeyFallback, run.Fallback),
		))
	}
}
