//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package provider

import (
	"net/http"
	"time"

	"trpc.group/trpc-go/trpc-query-go/model/openai"
)

// Option configures how a model instance should be constructed.
type Option func(*Options)

// Options contains resolved settings used when constructing provider-backed models.
type Options struct {
	ProviderName        string            // ProviderName is the provider identifier passed to Model.
	ModelName           string            // ModelName is the concrete model identifier.
	APIKey              string            // APIKey holds the credential used for downstream SDK initialization.
	BaseURL             string            // BaseURL overrides the default endpoint when specified.
	HTTPClientTransport http.RoundTripper // HTTPClientTransport allows customizing the HTTP transport.
	Timeout             time.Duration     // Timeout bounds every HTTP request.
	ChannelBufferSize   *int              // ChannelBufferSize is the response channel buffer size.
	Headers             map[string]string // Headers are appended to outbound provider requests.
	ExtraFields         map[string]any    // ExtraFields are serialized into provider-specific request payloads.
	OpenAIOption        []openai.Option   // OpenAIOption stores additional OpenAI options.
}

// WithAPIKey sets the API key.
func WithAPIKey(key string) Option {
	return func(o *Options) {
		o.APIKey = key
	}
}

// WithBaseURL sets the endpoint.
func WithBaseURL(url string) Option {
	return func(o *Options) {
		o.BaseURL = url
	}
}

// WithHTTPClientTransport sets a custom HTTP transport.
func WithHTTPClientTransport(transport http.RoundTripper) Option {
	return func(o *Options) {
		o.HTTPClientTransport = transport
	}
}

// WithTimeout bounds every HTTP request made by the model.
func WithTimeout(timeout time.Duration) Option {
	return func(o *Options) {
		o.Timeout = timeout
	}
}

// WithHeaders merges static headers into outbound requests.
func WithHeaders(headers map[string]string) Option {
	return func(o *Options) {
		if o.Headers == nil {
			o.Headers = make(map[string]string, len(headers))
		}
		for k, v := range headers {
			o.Headers[k] = v
		}
	}
}

// WithChannelBufferSize sets the response channel buffer size.
func WithChannelBufferSize(size int) Option {
	return func(o *Options) {
		o.ChannelBufferSize = &size
	}
}

// WithExtraFields merges extra request body fields.
func WithExtraFields(fields map[string]any) Option {
	return func(o *Options) {
		if o.ExtraFields == nil {
			o.ExtraFields = make(map[string]any, len(fields))
		}
		for k, v := range fields {
			o.ExtraFields[k] = v
		}
	}
}

// WithOpenAIOption appends raw openai options.
func WithOpenAIOption(opt ...openai.Option) Option {
	return func(o *Options) {
		o.OpenAIOption = append(o.OpenAIOption, opt...)
	}
}
