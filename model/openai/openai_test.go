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
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"trpc.group/trpc-go/trpc-query-go/model"
)

func TestNew(t *testing.T) {
	tests := []struct {
		name      string
		modelName string
		opts      []Option
		wantURL   string
	}{
		{
			name:      "valid openai model",
			modelName: "gpt-4o-mini",
			opts:      []Option{WithAPIKey("test-key")},
		},
		{
			name:      "custom base url",
			modelName: "custom-model",
			opts:      []Option{WithAPIKey("test-key"), WithBaseURL("https://api.custom.com")},
			wantURL:   "https://api.custom.com",
		},
		{
			name:      "qwen variant default base url",
			modelName: "qwen-plus",
			opts:      []Option{WithAPIKey("test-key"), WithVariant(VariantQwen)},
			wantURL:   defaultQwenBaseURL,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := New(tt.modelName, tt.opts...)
			require.NotNil(t, m)
			assert.Equal(t, tt.modelName, m.Info().Name)
			assert.Equal(t, "test-key", m.apiKey)
			assert.Equal(t, tt.wantURL, m.baseURL)
		})
	}
}

func TestModel_GenerateContent_NilRequest(t *testing.T) {
	m := New("test-model", WithAPIKey("test-key"))
	_, err := m.GenerateContent(context.Background(), nil)
	require.Error(t, err)
	assert.Equal(t, "request cannot be nil", err.Error())

	_, err = m.GenerateContent(context.Background(), &model.Request{})
	require.Error(t, err)
}

func TestModel_GenerateContent_NonStreaming(t *testing.T) {
	var gotBody map[string]any
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/chat/completions", r.URL.Path)
		assert.Equal(t, "Bearer test-key", r.Header.Get("Authorization"))
		body, _ := io.ReadAll(r.Body)
		_ = json.Unmarshal(body, &gotBody)
		w.Header().Set("Content-Type", "application/json")
		_, _ = io.WriteString(w, `{
			"id": "chatcmpl-1",
			"object": "chat.completion",
			"created": 1700000000,
			"model": "gpt-4o-mini",
			"choices": [{
				"index": 0,
				"message": {"role": "assistant", "content": "1. 如何申请退款\n2. 退款流程"},
				"finish_reason": "stop"
			}],
			"usage": {"prompt_tokens": 10, "completion_tokens": 8, "total_tokens": 18}
		}`)
	}))
	defer srv.Close()

	m := New("gpt-4o-mini", WithAPIKey("test-key"), WithBaseURL(srv.URL),
		WithExtraFields(map[string]any{"tenant": "t1"}))
	ch, err := m.GenerateContent(context.Background(), &model.Request{
		Messages: []model.Message{
			model.NewSystemMessage("rewrite queries"),
			model.NewUserMessage("如何退款"),
		},
		GenerationConfig: model.GenerationConfig{Temperature: model.Float64Ptr(0.3)},
	})
	require.NoError(t, err)

	out, err := model.Collect(context.Background(), ch)
	require.NoError(t, err)
	assert.Equal(t, "1. 如何申请退款\n2. 退款流程", out)
	assert.Equal(t, "gpt-4o-mini", gotBody["model"])
	assert.Equal(t, "t1", gotBody["tenant"])
	assert.InDelta(t, 0.3, gotBody["temperature"], 1e-9)
	msgs, ok := gotBody["messages"].([]any)
	require.True(t, ok)
	assert.Len(t, msgs, 2)
}

func TestModel_GenerateContent_APIError(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		_, _ = io.WriteString(w, `{"error": {"message": "bad prompt", "type": "invalid_request_error"}}`)
	}))
	defer srv.Close()

	m := New("gpt-4o-mini", WithAPIKey("test-key"), WithBaseURL(srv.URL))
	ch, err := m.GenerateContent(context.Background(), &model.Request{
		Messages: []model.Message{model.NewUserMessage("hi")},
	})
	require.NoError(t, err)

	_, err = model.Collect(context.Background(), ch)
	require.Error(t, err)
	var rspErr *model.ResponseError
	require.ErrorAs(t, err, &rspErr)
	assert.Equal(t, model.ErrorTypeAPIError, rspErr.Type)
}

func TestModel_GenerateContent_Streaming(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		flusher, _ := w.(http.Flusher)
		for _, piece := range []string{"1. 系统报错500", "\\n2. 服务器内部错误"} {
			fmt.Fprintf(w, "data: {\"id\":\"c1\",\"object\":\"chat.completion.chunk\",\"created\":1,\"model\":\"m\","+
				"\"choices\":[{\"index\":0,\"delta\":{\"content\":\"%s\"}}]}\n\n", piece)
			if flusher != nil {
				flusher.Flush()
			}
		}
		fmt.Fprint(w, "data: [DONE]\n\n")
	}))
	defer srv.Close()

	m := New("m", WithAPIKey("test-key"), WithBaseURL(srv.URL))
	ch, err := m.GenerateContent(context.Background(), &model.Request{
		Messages:         []model.Message{model.NewUserMessage("系统报错500")},
		GenerationConfig: model.GenerationConfig{Stream: true},
	})
	require.NoError(t, err)

	var partials int
	var final *model.Response
	for rsp := range ch {
		if rsp.IsPartial {
			partials++
			continue
		}
		final = rsp
	}
	assert.Equal(t, 2, partials)
	require.NotNil(t, final)
	require.Nil(t, final.Error)
	require.Len(t, final.Choices, 1)
	assert.Equal(t, "1. 系统报错500\n2. 服务器内部错误", final.Choices[0].Message.Content)
}
