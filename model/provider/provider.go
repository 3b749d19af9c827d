//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package provider builds model.Model instances by provider name and keeps
// the table of models addressable by numeric model ID.
package provider

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"trpc.group/trpc-go/trpc-query-go/model"
	"trpc.group/trpc-go/trpc-query-go/model/openai"
)

func init() {
	Register("openai", variantProvider(openai.VariantOpenAI))
	Register("deepseek", variantProvider(openai.VariantDeepSeek))
	Register("qwen", variantProvider(openai.VariantQwen))
}

// Provider builds a model.Model instance.
type Provider func(opts *Options) (model.Model, error)

var (
	providersMu sync.RWMutex                // providersMu guards providers access.
	providers   = make(map[string]Provider) // providers stores provider name to provider mappings.
)

// Register registers a provider by name.
func Register(name string, provider Provider) {
	providersMu.Lock()
	defer providersMu.Unlock()
	providers[name] = provider
}

// Get returns the provider by name or nil if not found.
func Get(name string) (Provider, bool) {
	providersMu.RLock()
	defer providersMu.RUnlock()
	provider, ok := providers[name]
	return provider, ok
}

// Names returns the registered provider names in sorted order.
func Names() []string {
	providersMu.RLock()
	defer providersMu.RUnlock()
	names := make([]string, 0, len(providers))
	for name := range providers {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Model constructs a model.Model with the given provider name, model name and options.
func Model(providerName, modelName string, opt ...Option) (model.Model, error) {
	opts := &Options{
		ProviderName: providerName,
		ModelName:    modelName,
	}
	for _, o := range opt {
		o(opts)
	}
	provider, ok := Get(providerName)
	if !ok {
		return nil, fmt.Errorf("unknown provider: %s", providerName)
	}
	return provider(opts)
}

// variantProvider builds an OpenAI-compatible model for the given variant.
func variantProvider(variant openai.Variant) Provider {
	return func(opts *Options) (model.Model, error) {
		if opts.ModelName == "" {
			return nil, errors.New("model name is required")
		}
		res := []openai.Option{openai.WithVariant(variant)}
		if opts.APIKey != "" {
			res = append(res, openai.WithAPIKey(opts.APIKey))
		}
		if opts.BaseURL != "" {
			res = append(res, openai.WithBaseURL(opts.BaseURL))
		}
		if opts.HTTPClientTransport != nil {
			res = append(res, openai.WithHTTPClientOptions(model.WithHTTPClientTransport(opts.HTTPClientTransport)))
		}
		if opts.Timeout > 0 {
			res = append(res, openai.WithTimeout(opts.Timeout))
		}
		if len(opts.Headers) > 0 {
			res = append(res, openai.WithHeaders(opts.Headers))
		}
		if opts.ChannelBufferSize != nil {
			res = append(res, openai.WithChannelBufferSize(*opts.ChannelBufferSize))
		}
		if len(opts.ExtraFields) > 0 {
			res = append(res, openai.WithExtraFields(opts.ExtraFields))
		}
		res = append(res, opts.OpenAIOption...)
		return openai.New(opts.ModelName, res...), nil
	}
}
