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

	"trpc.group/trpc-go/trpc-query-go/log"
)

const genericPromptTemplate = `请将下面的问题改写成 %d 个意思相同、表述不同的检索查询，每行输出一个，不要添加任何解释。
问题：%s`

// GenericPrompt builds the strategy-agnostic prompt used when the
// intent-aware path fails.
func GenericPrompt(query string, count int) string {
	return fmt.Sprintf(genericPromptTemplate, count, query)
}

// FallbackCount is the number of variants requested from the generic tier.
func FallbackCount(cfg *Config) int {
	return max(1, cfg.MaxQueries()-1)
}

// fallback runs at most once per transformation, after the primary path has
// marked tc FAILED. The generic tier is skipped when ctx is already done.
func (s *Service) fallback(ctx context.Context, tc *Context) {
	if err := ctx.Err(); err != nil {
		log.ErrorfContext(ctx, "query expansion aborted, returning original query: run=%s, err=%v", tc.RunID(), err)
		tc.identity()
		return
	}

	cfg := tc.Config()
	count := FallbackCount(cfg)
	candidates, err := s.generic(ctx, tc.OriginalQuery(), count, cfg.ModelID())
	if err != nil {
		log.ErrorfContext(ctx, "generic query expansion failed, returning original query: run=%s, err=%v", tc.RunID(), err)
		tc.identity()
		return
	}
	tc.useFallback(FallbackGeneric, candidates, cfg.MaxQueries())
}

func (s *Service) generic(ctx context.Context, query string, count int, modelID *int64) (candidates []string, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("generic expansion panic: %v", r)
		}
	}()
	raw, err := s.generate(ctx, GenericPrompt(query, count), modelID)
	if err != nil {
		return nil, err
	}
	return s.gateway.ParseExpandedQueries(raw, count), nil
}
