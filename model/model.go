//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package model provides the LLM invocation contract used to generate
// expansions and to classify intents.
package model

import (
	"context"
	"errors"
	"strings"
)

// Model is the interface for all language models.
type Model interface {
	// GenerateContent sends the request and returns a channel of responses.
	// The channel is closed when generation finishes. A non-nil error means
	// the request never reached the model.
	GenerateContent(ctx context.Context, request *Request) (<-chan *Response, error)

	// Info returns basic information about the model.
	Info() Info
}

// Info describes a model.
type Info struct {
	// Name is the model name sent to the provider.
	Name string
}

// ErrNoContent is returned by Collect when the model produced no text.
var ErrNoContent = errors.New("model returned no content")

// Collect drains the response channel and concatenates the assistant
// content of every choice 0. Streaming deltas and full messages are both
// supported. It stops early when ctx is done.
func Collect(ctx context.Context, ch <-chan *Response) (string, error) {
	var sb strings.Builder
	for {
		select {
		case <-ctx.Done():
			return "", ctx.Err()
		case rsp, ok := <-ch:
			if !ok {
				if sb.Len() == 0 {
					return "", ErrNoContent
				}
				return sb.String(), nil
			}
			if rsp == nil {
				continue
			}
			if rsp.Error != nil {
				return "", rsp.Error
			}
			if len(rsp.Choices) == 0 {
				continue
			}
			choice := rsp.Choices[0]
			if rsp.IsPartial {
				sb.WriteString(choice.Delta.Content)
				continue
			}
			if choice.Message.Content != "" {
				// A final message carries the full text, replacing any deltas.
				sb.Reset()
				sb.WriteString(choice.Message.Content)
			}
		}
	}
}
