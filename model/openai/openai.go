//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package openai provides OpenAI-compatible model implementations.
package openai

import (
	"context"
	"errors"
	"os"
	"time"

	openai "github.com/openai/openai-go"
	openaiopt "github.com/openai/openai-go/option"
	"github.com/openai/openai-go/shared"
	"trpc.group/trpc-go/trpc-query-go/log"
	"trpc.group/trpc-go/trpc-query-go/model"
)

const (
	//nolint:gosec
	openAIAPIKeyName string = "OPENAI_API_KEY"

	//nolint:gosec
	deepSeekAPIKeyName     string = "DEEPSEEK_API_KEY"
	defaultDeepSeekBaseURL string = "https://api.deepseek.com"

	//nolint:gosec
	qwenAPIKeyName     string = "DASHSCOPE_API_KEY"
	defaultQwenBaseURL string = "https://dashscope.aliyuncs.com/compatible-mode/v1"
)

// Variant represents different OpenAI-compatible vendors.
type Variant string

const (
	// VariantOpenAI is the default OpenAI variant.
	VariantOpenAI Variant = "openai"
	// VariantDeepSeek reads DEEPSEEK_API_KEY and defaults to the DeepSeek endpoint.
	VariantDeepSeek Variant = "deepseek"
	// VariantQwen reads DASHSCOPE_API_KEY and defaults to the DashScope compatible endpoint.
	VariantQwen Variant = "qwen"
)

type variantConfig struct {
	apiKeyName     string
	defaultBaseURL string
}

var variantConfigs = map[Variant]variantConfig{
	VariantOpenAI:   {apiKeyName: openAIAPIKeyName},
	VariantDeepSeek: {apiKeyName: deepSeekAPIKeyName, defaultBaseURL: defaultDeepSeekBaseURL},
	VariantQwen:     {apiKeyName: qwenAPIKeyName, defaultBaseURL: defaultQwenBaseURL},
}

// Model implements the model.Model interface for OpenAI-compatible APIs.
type Model struct {
	client            openai.Client
	name              string
	baseURL           string
	apiKey            string
	channelBufferSize int
	extraFields       map[string]any
	variant           Variant
}

// New creates a new OpenAI-like model.
func New(name string, opts ...Option) *Model {
	o := defaultOptions
	for _, opt := range opts {
		opt(&o)
	}

	if cfg, ok := variantConfigs[o.Variant]; ok {
		if val, ok := os.LookupEnv(cfg.apiKeyName); ok && o.APIKey == "" {
			o.APIKey = val
		}
		if cfg.defaultBaseURL != "" && o.BaseURL == "" {
			o.BaseURL = cfg.defaultBaseURL
		}
	}

	var clientOpts []openaiopt.RequestOption
	if o.APIKey != "" {
		clientOpts = append(clientOpts, openaiopt.WithAPIKey(o.APIKey))
	}
	if o.BaseURL != "" {
		clientOpts = append(clientOpts, openaiopt.WithBaseURL(o.BaseURL))
	}
	clientOpts = append(clientOpts, openaiopt.WithHTTPClient(model.DefaultNewHTTPClient(o.HTTPClientOptions...)))
	// Retries belong to the caller; the transformation pipeline degrades instead.
	clientOpts = append(clientOpts, openaiopt.WithMaxRetries(0))
	clientOpts = append(clientOpts, o.OpenAIOptions...)

	return &Model{
		client:            openai.NewClient(clientOpts...),
		name:              name,
		baseURL:           o.BaseURL,
		apiKey:            o.APIKey,
		channelBufferSize: o.ChannelBufferSize,
		extraFields:       o.ExtraFields,
		variant:           o.Variant,
	}
}

// Info implements the model.Model interface.
func (m *Model) Info() model.Info {
	return model.Info{Name: m.name}
}

// GenerateContent implements the model.Model interface.
func (m *Model) GenerateContent(
	ctx context.Context,
	request *model.Request,
) (<-chan *model.Response, error) {
	if request == nil {
		return nil, errors.New("request cannot be nil")
	}
	if len(request.Messages) == 0 {
		return nil, errors.New("request has no messages")
	}

	responseChan := make(chan *model.Response, m.channelBufferSize)
	chatRequest, opts := m.buildChatRequest(request)

	go func() {
		defer close(responseChan)
		if request.Stream {
			m.handleStreamingResponse(ctx, chatRequest, responseChan, opts...)
		} else {
			m.handleNonStreamingResponse(ctx, chatRequest, responseChan, opts...)
		}
	}()

	return responseChan, nil
}

func (m *Model) buildChatRequest(request *model.Request) (openai.ChatCompletionNewParams, []openaiopt.RequestOption) {
	chatRequest := openai.ChatCompletionNewParams{
		Model:    shared.ChatModel(m.name),
		Messages: convertMessages(request.Messages),
	}
	if request.MaxTokens != nil {
		chatRequest.MaxCompletionTokens = openai.Int(int64(*request.MaxTokens))
	}
	if request.Temperature != nil {
		chatRequest.Temperature = openai.Float(*request.Temperature)
	}
	if request.TopP != nil {
		chatRequest.TopP = openai.Float(*request.TopP)
	}
	if len(request.Stop) > 0 {
		chatRequest.Stop = openai.ChatCompletionNewParamsStopUnion{
			OfString: openai.String(request.Stop[0]),
		}
	}
	var opts []openaiopt.RequestOption
	for key, value := range m.extraFields {
		opts = append(opts, openaiopt.WithJSONSet(key, value))
	}
	if request.Stream {
		chatRequest.StreamOptions = openai.ChatCompletionStreamOptionsParam{
			IncludeUsage: openai.Bool(true),
		}
	}
	return chatRequest, opts
}

func convertMessages(messages []model.Message) []openai.ChatCompletionMessageParamUnion {
	result := make([]openai.ChatCompletionMessageParamUnion, len(messages))
	for i, msg := range messages {
		switch msg.Role {
		case model.RoleSystem:
			result[i] = openai.SystemMessage(msg.Content)
		case model.RoleAssistant:
			result[i] = openai.AssistantMessage(msg.Content)
		default: // Default to user message if role is unknown.
			result[i] = openai.UserMessage(msg.Content)
		}
	}
	return result
}

func (m *Model) handleNonStreamingResponse(
	ctx context.Context,
	chatRequest openai.ChatCompletionNewParams,
	responseChan chan<- *model.Response,
	opts ...openaiopt.RequestOption,
) {
	chatCompletion, err := m.client.Chat.Completions.New(ctx, chatRequest, opts...)
	if err != nil {
		log.DebugfContext(ctx, "openai chat completion failed: model=%s, err=%v", m.name, err)
		sendResponse(ctx, responseChan, errorResponse(err, model.ErrorTypeAPIError))
		return
	}

	response := &model.Response{
		ID:        chatCompletion.ID,
		Object:    string(chatCompletion.Object),
		Created:   chatCompletion.Created,
		Model:     chatCompletion.Model,
		Timestamp: time.Now(),
		Done:      true,
	}
	response.Choices = make([]model.Choice, len(chatCompletion.Choices))
	for i, choice := range chatCompletion.Choices {
		response.Choices[i] = model.Choice{
			Index:   int(choice.Index),
			Message: model.NewAssistantMessage(choice.Message.Content),
		}
		if choice.FinishReason != "" {
			finishReason := choice.FinishReason
			response.Choices[i].FinishReason = &finishReason
		}
	}
	if chatCompletion.Usage.TotalTokens > 0 {
		response.Usage = completionUsageToModelUsage(chatCompletion.Usage)
	}
	sendResponse(ctx, responseChan, response)
}

func (m *Model) handleStreamingResponse(
	ctx context.Context,
	chatRequest openai.ChatCompletionNewParams,
	responseChan chan<- *model.Response,
	opts ...openaiopt.RequestOption,
) {
	stream := m.client.Chat.Completions.NewStreaming(ctx, chatRequest, opts...)
	defer stream.Close()

	acc := openai.ChatCompletionAccumulator{}
	for stream.Next() {
		chunk := stream.Current()
		acc.AddChunk(chunk)
		if len(chunk.Choices) == 0 || chunk.Choices[0].Delta.Content == "" {
			continue
		}
		partial := &model.Response{
			ID:        chunk.ID,
			Object:    model.ObjectTypeChatCompletionChunk,
			Created:   chunk.Created,
			Model:     chunk.Model,
			Timestamp: time.Now(),
			IsPartial: true,
			Choices: []model.Choice{{
				Index: int(chunk.Choices[0].Index),
				Delta: model.NewAssistantMessage(chunk.Choices[0].Delta.Content),
			}},
		}
		if !sendResponse(ctx, responseChan, partial) {
			return
		}
	}

	if err := stream.Err(); err != nil {
		sendResponse(ctx, responseChan, errorResponse(err, model.ErrorTypeStreamError))
		return
	}

	final := &model.Response{
		ID:        acc.ID,
		Object:    model.ObjectTypeChatCompletion,
		Created:   acc.Created,
		Model:     acc.Model,
		Timestamp: time.Now(),
		Done:      true,
		Usage:     completionUsageToModelUsage(acc.Usage),
	}
	for _, choice := range acc.Choices {
		final.Choices = append(final.Choices, model.Choice{
			Index:   int(choice.Index),
			Message: model.NewAssistantMessage(choice.Message.Content),
		})
	}
	sendResponse(ctx, responseChan, final)
}

// sendResponse delivers rsp unless ctx is done first. It reports whether
// the response was delivered.
func sendResponse(ctx context.Context, ch chan<- *model.Response, rsp *model.Response) bool {
	select {
	case ch <- rsp:
		return true
	case <-ctx.Done():
		return false
	}
}

func errorResponse(err error, typ string) *model.Response {
	return &model.Response{
		Error: &model.ResponseError{
			Message: err.Error(),
			Type:    typ,
		},
		Timestamp: time.Now(),
		Done:      true,
	}
}

func completionUsageToModelUsage(usage openai.CompletionUsage) *model.Usage {
	return &model.Usage{
		PromptTokens:     int(usage.PromptTokens),
		CompletionTokens: int(usage.CompletionTokens),
		TotalTokens:      int(usage.TotalTokens),
	}
}
