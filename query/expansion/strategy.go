//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package expansion defines the query expansion strategies and the ordered
// rule set that picks one for a classified query.
package expansion

import (
	"fmt"
	"strconv"
	"strings"

	"trpc.group/trpc-go/trpc-query-go/intent"
)

// Strategy decides how many variants to generate for an intent family, whether
// to skip expansion, and how to phrase the expansion prompt. Implementations
// are stateless and safe for concurrent use.
type Strategy interface {
	// Name is the human readable strategy name.
	Name() string
	// MaxQueries bounds the number of queries the strategy produces,
	// including the original query.
	MaxQueries() int
	// ShouldSkip reports whether expansion is pointless for this strategy.
	ShouldSkip() bool
	// PromptGuidance is the strategy-specific instruction embedded in prompts.
	PromptGuidance() string
	// BuildPrompt renders the expansion prompt for query.
	BuildPrompt(query string, r *intent.Result) string
	// IsApplicableFor reports whether the strategy handles r.
	IsApplicableFor(r *intent.Result) bool
}

const promptTemplate = `你是一个检索查询改写助手。请基于用户的原始问题，生成 %d 个不同表述的检索查询，用于提升知识库的召回效果。

原始问题：%s
识别意图：%s（置信度：%s）
意图分析：%s
改写要求：%s

输出要求：
1. 每行输出一个查询，可以使用 "1. " 形式编号，不要输出任何解释
2. 保持原始问题的核心语义，不要编造原问题中没有的事实
3. 各查询之间表述应有明显差异`

// renderPrompt fills the shared prompt template for s.
func renderPrompt(s Strategy, query string, r *intent.Result, guidance string) string {
	r = orDefault(r)
	reasoning := strings.TrimSpace(r.Reasoning())
	if reasoning == "" {
		reasoning = "无"
	}
	return fmt.Sprintf(promptTemplate, s.MaxQueries(), query, intentLabel(r), r.FormattedConfidence(), reasoning, guidance)
}

// Template placeholders understood by RenderTemplate.
const (
	PlaceholderQuery      = "{query}"
	PlaceholderMaxQueries = "{max_queries}"
	PlaceholderIntent     = "{intent}"
	PlaceholderConfidence = "{confidence}"
	PlaceholderReasoning  = "{reasoning}"
	PlaceholderGuidance   = "{guidance}"
)

// RenderTemplate substitutes the placeholders of a caller supplied prompt
// template with the values the strategy would use for its own prompt.
func RenderTemplate(tmpl string, s Strategy, query string, r *intent.Result) string {
	r = orDefault(r)
	return strings.NewReplacer(
		PlaceholderQuery, query,
		PlaceholderMaxQueries, strconv.Itoa(s.MaxQueries()),
		PlaceholderIntent, intentLabel(r),
		PlaceholderConfidence, r.FormattedConfidence(),
		PlaceholderReasoning, r.Reasoning(),
		PlaceholderGuidance, s.PromptGuidance(),
	).Replace(tmpl)
}

func intentLabel(r *intent.Result) string {
	if r.IntentCode() == "" {
		return intent.CodeUnknown
	}
	return r.IntentCode()
}

func orDefault(r *intent.Result) *intent.Result {
	if r == nil {
		return intent.Default()
	}
	return r
}
