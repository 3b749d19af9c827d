//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

package trace

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.opentelemetry.io/otel/attribute"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"go.opentelemetry.io/otel/sdk/trace/tracetest"
	semconv "go.opentelemetry.io/otel/semconv/v1.21.0"

	itelemetry "trpc.group/trpc-go/trpc-query-go/internal/telemetry"
)

func restoreTracer(t *testing.T) {
	orig, origInternal := Tracer, itelemetry.Tracer
	t.Cleanup(func() {
		Tracer, itelemetry.Tracer = orig, origInternal
	})
}

func TestTracesEndpoint(t *testing.T) {
	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "custom-trace:4317")
	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "generic-endpoint:4317")
	assert.Equal(t, "custom-trace:4317", tracesEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_TRACES_ENDPOINT", "")
	assert.Equal(t, "generic-endpoint:4317", tracesEndpoint(itelemetry.ProtocolGRPC))

	t.Setenv("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	assert.Equal(t, "localhost:4317", tracesEndpoint(itelemetry.ProtocolGRPC))
	assert.Equal(t, "localhost:4318", tracesEndpoint(itelemetry.ProtocolHTTP))
}

func TestParseEndpointURL(t *testing.T) {
	cases := []struct {
		name      string
		in        string
		endpoint  string
		urlPath   string
		wantError bool
	}{
		{"with scheme and path", "http://localhost:3000/api/public/otel", "localhost:3000", "/api/public/otel", false},
		{"without scheme", "collector:4318/otlp/v1/traces", "collector:4318", "/otlp/v1/traces", false},
		{"no path implies slash", "example.com", "example.com", "/", false},
		{"no host error", "http:///missing-host", "", "", true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			endpoint, path, err := parseEndpointURL(tc.in)
			if tc.wantError {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tc.endpoint, endpoint)
			assert.Equal(t, tc.urlPath, path)
		})
	}
}

func TestStart(t *testing.T) {
	cases := []struct {
		name string
		opts []Option
	}{
		{"grpc default", []Option{WithEndpoint("localhost:4317")}},
		{"grpc url and headers", []Option{
			WithProtocol(itelemetry.ProtocolGRPC),
			WithEndpointURL("localhost:9999"),
			WithHeaders(map[string]string{"Authorization": "Bearer abc"}),
		}},
		{"http url and headers", []Option{
			WithProtocol(itelemetry.ProtocolHTTP),
			WithEndpointURL("http://localhost:4318/custom/path"),
			WithHeaders(map[string]string{"X-Test": "yes"}),
		}},
		{"http url without scheme", []Option{
			WithProtocol(itelemetry.ProtocolHTTP),
			WithEndpointURL("collector:4318/otlp/v1/traces"),
		}},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			restoreTracer(t)
			clean, err := Start(context.Background(), tc.opts...)
			require.NoError(t, err)
			require.NotNil(t, clean)
			assert.Same(t, Tracer, itelemetry.Tracer)
			// No collector is running in tests.
			_ = clean()
		})
	}
}

func TestStartHTTPInvalidEndpointURL(t *testing.T) {
	_, err := Start(context.Background(),
		WithProtocol(itelemetry.ProtocolHTTP),
		WithEndpointURL("http:///bad"),
	)
	assert.Error(t, err)
}

func TestInitTracerProvider(t *testing.T) {
	restoreTracer(t)
	exp := tracetest.NewInMemoryExporter()
	tp := sdktrace.NewTracerProvider(sdktrace.WithSyncer(exp))
	InitTracerProvider(tp)

	_, span := itelemetry.Tracer.Start(context.Background(), itelemetry.SpanNameTransform)
	span.End()
	require.Len(t, exp.GetSpans(), 1)
	assert.Equal(t, itelemetry.SpanNameTransform, exp.GetSpans()[0].Name)
}

func TestBuildResourceWithEnv(t *testing.T) {
	t.Setenv("OTEL_SERVICE_NAME", "env-service")
	t.Setenv("OTEL_RESOURCE_ATTRIBUTES", "team=ai,env=staging")

	opts := &options{}
	WithServiceName("option-service")(opts)
	WithServiceNamespace("custom-ns")(opts)
	WithServiceVersion("1.2.3")(opts)
	WithResourceAttributes(
		attribute.String("team", "ml"),
		attribute.String("custom", "value"),
	)(opts)

	res, err := buildResource(context.Background(), opts)
	require.NoError(t, err)

	attrs := make(map[string]string)
	iter := res.Iter()
	for iter.Next() {
		kv := iter.Attribute()
		if kv.Value.Type() == attribute.STRING {
			attrs[string(kv.Key)] = kv.Value.AsString()
		}
	}
	assert.Equal(t, "env-service", attrs[string(semconv.ServiceNameKey)])
	assert.Equal(t, "staging", attrs["env"])
	assert.Equal(t, "ml", attrs["team"])
	assert.Equal(t, "value", attrs["custom"])
	assert.Equal(t, "custom-ns", attrs[string(semconv.ServiceNamespaceKey)])
	assert.Equal(t, "1.2.3", attrs[string(semconv.ServiceVersionKey)])
}
