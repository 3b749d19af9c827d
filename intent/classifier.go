//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package intent

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/tidwall/gjson"

	"trpc.group/trpc-go/trpc-query-go/log"
	"trpc.group/trpc-go/trpc-query-go/model"
)

// Classifier is the classification gateway. It returns a raw map with the
// keys intent_code, catalog_code, confidence_score and reasoning.
// Implementations enforce their own timeouts and must honour ctx.
type Classifier interface {
	Classify(ctx context.Context, text, channel, tenant string) (map[string]any, error)
}

// ClassifierFunc adapts a function to the Classifier interface.
type ClassifierFunc func(ctx context.Context, text, channel, tenant string) (map[string]any, error)

// Classify implements Classifier.
func (f ClassifierFunc) Classify(ctx context.Context, text, channel, tenant string) (map[string]any, error) {
	return f(ctx, text, channel, tenant)
}

// ErrMalformedOutput is returned when the model reply holds no usable JSON object.
var ErrMalformedOutput = errors.New("malformed classification output")

// Label describes one intent the LLM classifier may choose.
type Label struct {
	Code        string
	Description string
}

// DefaultLabels lists the intents the expansion strategies react to.
var DefaultLabels = []Label{
	{Code: CodeGreeting, Description: "打招呼、问候"},
	{Code: CodeGoodbye, Description: "告别、结束对话"},
	{Code: CodeQuestion, Description: "一般性问题"},
	{Code: CodeInquiry, Description: "业务咨询，如价格、流程、政策"},
	{Code: CodeComplaint, Description: "投诉、不满、抱怨"},
	{Code: CodeTechnicalSupport, Description: "技术故障、报错、系统异常"},
}

const defaultClassifyPrompt = `你是一个意图识别助手。请判断用户输入属于以下哪一种意图：
%s
渠道：%s
租户：%s

只输出一个 JSON 对象，不要输出其他内容，格式如下：
{"intent_code": "<意图编码>", "catalog_code": "<分类编码>", "confidence_score": <0到1之间的小数>, "reasoning": "<简短理由>"}`

// LLMClassifier classifies text by prompting a language model and reading
// the JSON object it replies with.
type LLMClassifier struct {
	model       model.Model
	labels      []Label
	catalogCode string
	temperature float64
}

// LLMClassifierOption configures an LLMClassifier.
type LLMClassifierOption func(*LLMClassifier)

// WithLabels replaces the intent labels offered to the model.
func WithLabels(labels ...Label) LLMClassifierOption {
	return func(c *LLMClassifier) {
		c.labels = append([]Label(nil), labels...)
	}
}

// WithCatalogCode sets the catalog code used when the model omits one.
func WithCatalogCode(code string) LLMClassifierOption {
	return func(c *LLMClassifier) {
		c.catalogCode = code
	}
}

// WithTemperature sets the sampling temperature.
func WithTemperature(t float64) LLMClassifierOption {
	return func(c *LLMClassifier) {
		c.temperature = t
	}
}

// NewLLMClassifier creates a classifier backed by m.
func NewLLMClassifier(m model.Model, opts ...LLMClassifierOption) *LLMClassifier {
	c := &LLMClassifier{
		model:  m,
		labels: DefaultLabels,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Classify implements Classifier.
func (c *LLMClassifier) Classify(ctx context.Context, text, channel, tenant string) (map[string]any, error) {
	if c.model == nil {
		return nil, errors.New("classifier model is nil")
	}
	req := &model.Request{
		Messages: []model.Message{
			model.NewSystemMessage(c.systemPrompt(channel, tenant)),
			model.NewUserMessage(text),
		},
		GenerationConfig: model.GenerationConfig{
			Temperature: model.Float64Ptr(c.temperature),
		},
	}
	ch, err := c.model.GenerateContent(ctx, req)
	if err != nil {
		return nil, fmt.Errorf("classify request: %w", err)
	}
	raw, err := model.Collect(ctx, ch)
	if err != nil {
		return nil, fmt.Errorf("classify response: %w", err)
	}
	result, err := c.parse(raw)
	if err != nil {
		return nil, err
	}
	log.DebugfContext(ctx, "intent classified: model=%s, intent=%v, confidence=%v",
		c.model.Info().Name, result[KeyIntentCode], result[KeyConfidenceScore])
	return result, nil
}

func (c *LLMClassifier) systemPrompt(channel, tenant string) string {
	var sb strings.Builder
	for _, l := range c.labels {
		fmt.Fprintf(&sb, "- %s：%s\n", l.Code, l.Description)
	}
	return fmt.Sprintf(defaultClassifyPrompt, sb.String(), channel, tenant)
}

// parse extracts the classification fields from the model reply. Code
// fences and surrounding prose are tolerated.
func (c *LLMClassifier) parse(raw string) (map[string]any, error) {
	body := extractJSONObject(raw)
	if body == "" || !gjson.Valid(body) {
		return nil, fmt.Errorf("%w: %q", ErrMalformedOutput, truncate(raw, 120))
	}
	code := gjson.Get(body, KeyIntentCode)
	if !code.Exists() || strings.TrimSpace(code.String()) == "" {
		return nil, fmt.Errorf("%w: missing %s", ErrMalformedOutput, KeyIntentCode)
	}
	out := map[string]any{
		KeyIntentCode:  strings.ToLower(strings.TrimSpace(code.String())),
		KeyCatalogCode: c.catalogCode,
		KeyReasoning:   gjson.Get(body, KeyReasoning).String(),
	}
	if catalog := gjson.Get(body, KeyCatalogCode); catalog.String() != "" {
		out[KeyCatalogCode] = catalog.String()
	}
	if score := gjson.Get(body, KeyConfidenceScore); score.Exists() {
		v := score.Float()
		if v < 0 {
			v = 0
		}
		if v > 1 {
			v = 1
		}
		out[KeyConfidenceScore] = v
	}
	return out, nil
}

// extractJSONObject returns the outermost {...} span of s, or "".
func extractJSONObject(s string) string {
	start := strings.Index(s, "{")
	end := strings.LastIndex(s, "}")
	if start < 0 || end <= start {
		return ""
	}
	return s[start : end+1]
}

func truncate(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n]) + "..."
}
