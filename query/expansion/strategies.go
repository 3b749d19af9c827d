//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package expansion

import "trpc.group/trpc-go/trpc-query-go/intent"

// Strategy names.
const (
	NameNoExpansion             = "无扩展策略"
	NameDetailedExpansion       = "详细扩展策略"
	NameTechnicalExpansion      = "技术扩展策略"
	NameProblemFocusedExpansion = "问题导向扩展策略"
	NameStandardExpansion       = "标准扩展策略"
)

// Shared strategy instances. They hold no state.
var (
	NoExpansion             Strategy = noExpansion{}
	DetailedExpansion       Strategy = detailedExpansion{}
	TechnicalExpansion      Strategy = technicalExpansion{}
	ProblemFocusedExpansion Strategy = problemFocusedExpansion{}
	StandardExpansion       Strategy = standardExpansion{}
)

// noExpansion keeps greetings and goodbyes as they are.
type noExpansion struct{}

func (noExpansion) Name() string           { return NameNoExpansion }
func (noExpansion) MaxQueries() int        { return 1 }
func (noExpansion) ShouldSkip() bool       { return true }
func (noExpansion) PromptGuidance() string { return "寒暄类输入无需扩展" }

// BuildPrompt returns the query verbatim; it is never sent to a model.
func (noExpansion) BuildPrompt(query string, _ *intent.Result) string { return query }

func (noExpansion) IsApplicableFor(r *intent.Result) bool {
	return r != nil && r.IsGreetingOrGoodbye()
}

// detailedExpansion explores a confidently classified question from several angles.
type detailedExpansion struct{}

func (detailedExpansion) Name() string     { return NameDetailedExpansion }
func (detailedExpansion) MaxQueries() int  { return 5 }
func (detailedExpansion) ShouldSkip() bool { return false }
func (detailedExpansion) PromptGuidance() string {
	return "问题意图明确，请从不同角度细化问题，补充相关的概念、适用条件和具体细节"
}

func (s detailedExpansion) BuildPrompt(query string, r *intent.Result) string {
	return renderPrompt(s, query, r, s.PromptGuidance())
}

func (detailedExpansion) IsApplicableFor(r *intent.Result) bool {
	return r != nil && r.IsInquiry() && r.IsHighConfidence()
}

// technicalExpansion adds diagnostic phrasing for technical support requests.
type technicalExpansion struct{}

func (technicalExpansion) Name() string     { return NameTechnicalExpansion }
func (technicalExpansion) MaxQueries() int  { return 6 }
func (technicalExpansion) ShouldSkip() bool { return false }
func (technicalExpansion) PromptGuidance() string {
	return "请包含可能的错误码、报错信息和诊断排查相关的表述，补充相关的技术术语"
}

func (s technicalExpansion) BuildPrompt(query string, r *intent.Result) string {
	return renderPrompt(s, query, r, s.PromptGuidance())
}

func (technicalExpansion) IsApplicableFor(r *intent.Result) bool {
	return r != nil && r.IsTechnicalSupport()
}

// problemFocusedExpansion rephrases complaints around the underlying problem.
type problemFocusedExpansion struct{}

func (problemFocusedExpansion) Name() string     { return NameProblemFocusedExpansion }
func (problemFocusedExpansion) MaxQueries() int  { return 4 }
func (problemFocusedExpansion) ShouldSkip() bool { return false }
func (problemFocusedExpansion) PromptGuidance() string {
	return "请聚焦用户遇到的问题本身，忽略情绪化表达，生成描述问题现象、原因和解决办法的查询"
}

func (s problemFocusedExpansion) BuildPrompt(query string, r *intent.Result) string {
	return renderPrompt(s, query, r, s.PromptGuidance())
}

func (problemFocusedExpansion) IsApplicableFor(r *intent.Result) bool {
	return r != nil && r.IsComplaint()
}

// standardExpansion is the catch-all for everything not claimed above.
type standardExpansion struct{}

const lowConfidenceGuidance = "；意图不够明确，请覆盖问题的几种常见理解"

func (standardExpansion) Name() string     { return NameStandardExpansion }
func (standardExpansion) MaxQueries() int  { return 3 }
func (standardExpansion) ShouldSkip() bool { return false }
func (standardExpansion) PromptGuidance() string {
	return "请使用同义词和常见的替代说法进行改写，保持简洁"
}

func (s standardExpansion) BuildPrompt(query string, r *intent.Result) string {
	guidance := s.PromptGuidance()
	if r == nil || !r.IsHighConfidence() {
		guidance += lowConfidenceGuidance
	}
	return renderPrompt(s, query, r, guidance)
}

func (standardExpansion) IsApplicableFor(r *intent.Result) bool {
	if r == nil {
		return true
	}
	return !(r.IsGreetingOrGoodbye() || r.IsComplaint() || r.IsTechnicalSupport())
}
