//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package intent models the outcome of classifying a user query and the
// gateway that produces it.
package intent

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Intent codes recognised by the expansion strategies.
const (
	CodeGreeting         = "greeting"
	CodeGoodbye          = "goodbye"
	CodeQuestion         = "question"
	CodeInquiry          = "inquiry"
	CodeComplaint        = "complaint"
	CodeTechnicalSupport = "technical_support"
	// CodeUnknown marks a result produced without a usable classification.
	CodeUnknown = "UNKNOWN"
)

// Confidence tier boundaries. High is strictly above HighThreshold, low is
// at or below LowThreshold, medium is everything in between.
const (
	HighThreshold = 0.7
	LowThreshold  = 0.4
)

// Confidence levels returned by Result.ConfidenceLevel.
const (
	LevelHigh    = "high"
	LevelMedium  = "medium"
	LevelLow     = "low"
	LevelUnknown = "unknown"
)

// Keys of the raw classification map returned by a Classifier.
const (
	KeyIntentCode      = "intent_code"
	KeyCatalogCode     = "catalog_code"
	KeyConfidenceScore = "confidence_score"
	KeyReasoning       = "reasoning"
)

const defaultReasoning = "intent recognition unavailable"

// Result is an immutable snapshot of one classification outcome.
type Result struct {
	intentCode              string
	catalogCode             string
	confidenceScore         *float64
	reasoning               string
	classificationTimestamp int64
}

// NewResult creates a Result stamped with the current time. A nil score
// means the classifier gave no confidence.
func NewResult(intentCode, catalogCode string, score *float64, reasoning string) *Result {
	var s *float64
	if score != nil {
		v := *score
		s = &v
	}
	return &Result{
		intentCode:              intentCode,
		catalogCode:             catalogCode,
		confidenceScore:         s,
		reasoning:               reasoning,
		classificationTimestamp: time.Now().UnixMilli(),
	}
}

// Default returns the degraded result used when classification is disabled
// or unavailable: intent UNKNOWN with confidence 0.
func Default() *Result {
	zero := 0.0
	return NewResult(CodeUnknown, "", &zero, defaultReasoning)
}

// FromRaw wraps a raw classification map. Missing keys become zero values;
// confidence_score accepts any numeric type or a numeric string.
func FromRaw(raw map[string]any) *Result {
	if raw == nil {
		return Default()
	}
	return NewResult(
		stringValue(raw[KeyIntentCode]),
		stringValue(raw[KeyCatalogCode]),
		floatValue(raw[KeyConfidenceScore]),
		stringValue(raw[KeyReasoning]),
	)
}

// IntentCode returns the intent code; empty means unclassified.
func (r *Result) IntentCode() string { return r.intentCode }

// CatalogCode returns the catalog the intent belongs to.
func (r *Result) CatalogCode() string { return r.catalogCode }

// ConfidenceScore returns the score and whether it is present.
func (r *Result) ConfidenceScore() (float64, bool) {
	if r.confidenceScore == nil {
		return 0, false
	}
	return *r.confidenceScore, true
}

// Reasoning returns the classifier's free-text explanation.
func (r *Result) Reasoning() string { return r.reasoning }

// ClassificationTimestamp returns when the result was built, in epoch millis.
func (r *Result) ClassificationTimestamp() int64 { return r.classificationTimestamp }

// IsHighConfidence reports score > 0.7.
func (r *Result) IsHighConfidence() bool {
	return r.confidenceScore != nil && *r.confidenceScore > HighThreshold
}

// IsMediumConfidence reports 0.4 < score <= 0.7.
func (r *Result) IsMediumConfidence() bool {
	return r.confidenceScore != nil && *r.confidenceScore > LowThreshold && *r.confidenceScore <= HighThreshold
}

// IsLowConfidence reports score <= 0.4.
func (r *Result) IsLowConfidence() bool {
	return r.confidenceScore != nil && *r.confidenceScore <= LowThreshold
}

// ConfidenceLevel names the tier of the score.
func (r *Result) ConfidenceLevel() string {
	switch {
	case r.IsHighConfidence():
		return LevelHigh
	case r.IsMediumConfidence():
		return LevelMedium
	case r.IsLowConfidence():
		return LevelLow
	default:
		return LevelUnknown
	}
}

// IsGreetingOrGoodbye reports whether the intent is a greeting or goodbye.
func (r *Result) IsGreetingOrGoodbye() bool {
	return r.intentCode == CodeGreeting || r.intentCode == CodeGoodbye
}

// IsInquiry reports whether the intent is a question or inquiry.
func (r *Result) IsInquiry() bool {
	return r.intentCode == CodeQuestion || r.intentCode == CodeInquiry
}

// IsComplaint reports whether the intent is a complaint.
func (r *Result) IsComplaint() bool {
	return r.intentCode == CodeComplaint
}

// IsTechnicalSupport reports whether the intent is a technical support request.
func (r *Result) IsTechnicalSupport() bool {
	return r.intentCode == CodeTechnicalSupport
}

// RequiresExpansion is false only for greetings and goodbyes.
func (r *Result) RequiresExpansion() bool {
	return !r.IsGreetingOrGoodbye()
}

// IsValid reports whether the result carries a real intent and a score.
func (r *Result) IsValid() bool {
	return r.intentCode != "" && r.intentCode != CodeUnknown && r.confidenceScore != nil
}

// FormattedConfidence renders the score with two decimals, or "N/A".
func (r *Result) FormattedConfidence() string {
	if r.confidenceScore == nil {
		return "N/A"
	}
	return strconv.FormatFloat(*r.confidenceScore, 'f', 2, 64)
}

// String implements fmt.Stringer for logging.
func (r *Result) String() string {
	code := r.intentCode
	if code == "" {
		code = "<none>"
	}
	return fmt.Sprintf("intent=%s catalog=%s confidence=%s", code, r.catalogCode, r.FormattedConfidence())
}

func stringValue(v any) string {
	switch t := v.(type) {
	case nil:
		return ""
	case string:
		return strings.TrimSpace(t)
	default:
		return strings.TrimSpace(fmt.Sprint(t))
	}
}

func floatValue(v any) *float64 {
	var f float64
	switch t := v.(type) {
	case float64:
		f = t
	case float32:
		f = float64(t)
	case int:
		f = float64(t)
	case int64:
		f = float64(t)
	case int32:
		f = float64(t)
	case string:
		parsed, err := strconv.ParseFloat(strings.TrimSpace(t), 64)
		if err != nil {
			return nil
		}
		f = parsed
	case interface{ Float64() (float64, error) }:
		parsed, err := t.Float64()
		if err != nil {
			return nil
		}
		f = parsed
	default:
		return nil
	}
	return &f
}
