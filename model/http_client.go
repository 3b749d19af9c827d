//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package model

import (
	"net/http"
	"time"
)

// HTTPClient is the interface for the HTTP client.
type HTTPClient interface {
	Do(*http.Request) (*http.Response, error)
}

// HTTPClientNewFunc is the function type for creating a new HTTP client.
type HTTPClientNewFunc func(opts ...HTTPClientOption) HTTPClient

// DefaultNewHTTPClient builds the HTTP client used by model providers.
var DefaultNewHTTPClient HTTPClientNewFunc = func(opts ...HTTPClientOption) HTTPClient {
	options := &HTTPClientOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return &http.Client{
		Transport: options.Transport,
		Timeout:   options.Timeout,
	}
}

// HTTPClientOption is the option for the HTTP client.
type HTTPClientOption func(*HTTPClientOptions)

// WithHTTPClientTransport is the option for the HTTP client transport.
func WithHTTPClientTransport(transport http.RoundTripper) HTTPClientOption {
	return func(options *HTTPClientOptions) {
		options.Transport = transport
	}
}

// WithHTTPClientTimeout bounds every request made by the client.
// Zero means no client-side timeout; callers then rely on ctx.
func WithHTTPClientTimeout(timeout time.Duration) HTTPClientOption {
	return func(options *HTTPClientOptions) {
		options.Timeout = timeout
	}
}

// HTTPClientOptions is the options for the HTTP client.
type HTTPClientOptions struct {
	Transport http.RoundTripper
	Timeout   time.Duration
}
