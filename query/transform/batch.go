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
	"context"
	"fmt"
	"sync"

	"github.com/panjf2000/ants/v2"
	"go.opentelemetry.io/otel/attribute"

	itelemetry "trpc.group/trpc-go/trpc-query-go/internal/telemetry"
	"trpc.group/trpc-go/trpc-query-go/log"
)

// DefaultParallelism is used by TransformAll when parallelism is not positive.
const DefaultParallelism = 4

// TransformAll transforms queries concurrently with at most parallelism
// runs in flight. Results are returned in input order. An error is returned
// only when the worker pool cannot be created; individual runs never fail.
func (s *Service) TransformAll(ctx context.Context, queries []string, cfg *Config, parallelism int) ([]*Context, error) {
	results := make([]*Context, len(queries))
	if len(queries) == 0 {
		return results, nil
	}
	if parallelism <= 0 {
		parallelism = DefaultParallelism
	}
	parallelism = min(parallelism, len(queries))

	ctx, span := itelemetry.Tracer.Start(ctx, itelemetry.SpanNameTransformAll)
	defer span.End()
	span.SetAttributes(attribute.Int(itelemetry.KeyBatchSize, len(queries)))

	pool, err := ants.NewPool(parallelism)
	if err != nil {
		return nil, fmt.Errorf("failed to create transform worker pool: %w", err)
	}
	defer pool.Release()

	var wg sync.WaitGroup
	for i, q := range queries {
		wg.Add(1)
		idx, query := i, q
		if err := pool.Submit(func() {
			defer wg.Done()
			results[idx] = s.Transform(ctx, query, cfg)
		}); err != nil {
			wg.Done()
			log.WarnfContext(ctx, "submit transform task failed, running inline: index=%d, err=%v", idx, err)
			results[idx] = s.Transform(ctx, query, cfg)
		}
	}
	wg.Wait()
	return results, nil
}
