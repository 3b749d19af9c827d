//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package openai

import (
	"time"

	openaiopt "github.com/openai/openai-go/option"
	"trpc.group/trpc-go/trpc-query-go/model"
)

const (
	// defaultChannelBufferSize is the default channel buffer size.
	defaultChannelBufferSize = 64
)

// options contains configuration options for creating a Model.
type options struct {
	// API key for the OpenAI client.
	APIKey string
	// Base URL for the OpenAI client. It is optional for OpenAI-compatible APIs.
	BaseURL string
	// Buffer size for response channels.
	ChannelBufferSize int
	// Options for the HTTP client.
	HTTPClientOptions []model.HTTPClientOption
	// Options for the OpenAI client.
	OpenAIOptions []openaiopt.RequestOption
	// Extra fields to be added to the HTTP request body.
	ExtraFields map[string]any
	// Variant selects provider defaults (API key env, base URL).
	Variant Variant
}

var defaultOptions = options{
	Variant:           VariantOpenAI,
	ChannelBufferSize: defaultChannelBufferSize,
}

// Option is a function that configures an OpenAI model.
type Option func(*options)

// WithAPIKey sets the API key for the OpenAI client.
func WithAPIKey(key string) Option {
	return func(opts *options) {
		opts.APIKey = key
	}
}

// WithBaseURL sets the base URL for the OpenAI client.
func WithBaseURL(url string) Option {
	return func(opts *options) {
		opts.BaseURL = url
	}
}

// WithChannelBufferSize sets the channel buffer size for the OpenAI client.
func WithChannelBufferSize(size int) Option {
	return func(opts *options) {
		if size <= 0 {
			size = defaultChannelBufferSize
		}
		opts.ChannelBufferSize = size
	}
}

// WithHTTPClientOptions sets the HTTP client options for the OpenAI client.
func WithHTTPClientOptions(httpOpts ...model.HTTPClientOption) Option {
	return func(opts *options) {
		opts.HTTPClientOptions = append(opts.HTTPClientOptions, httpOpts...)
	}
}

// WithTimeout bounds each HTTP request issued by the client.
func WithTimeout(timeout time.Duration) Option {
	return WithHTTPClientOptions(model.WithHTTPClientTimeout(timeout))
}

// WithOpenAIOptions appends raw request options to the underlying client.
func WithOpenAIOptions(openaiOpts ...openaiopt.RequestOption) Option {
	return func(opts *options) {
		opts.OpenAIOptions = append(opts.OpenAIOptions, openaiOpts...)
	}
}

// WithHeaders appends static HTTP headers to all OpenAI requests.
func WithHeaders(headers map[string]string) Option {
	return func(opts *options) {
		for k, v := range headers {
			opts.OpenAIOptions = append(opts.OpenAIOptions, openaiopt.WithHeader(k, v))
		}
	}
}

// WithExtraFields sets extra fields to be added to every request body.
func WithExtraFields(extraFields map[string]any) Option {
	return func(opts *options) {
		if opts.ExtraFields == nil {
			opts.ExtraFields = make(map[string]any)
		}
		for k, v := range extraFields {
			opts.ExtraFields[k] = v
		}
	}
}

// WithVariant sets the model variant.
func WithVariant(variant Variant) Option {
	return func(opts *options) {
		opts.Variant = variant
	}
}
