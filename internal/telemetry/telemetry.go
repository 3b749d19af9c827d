//
// Tencent is pleased to support the open source community by making trpc-query-go available.
//
// Copyright (C) 2025 Tencent.  All rights reserved.
//
// trpc-query-go is licensed under the Apache License Version 2.0.
//
//

// Package telemetry holds the tracer and meters used by query transformation.
// Everything defaults to noop until the public telemetry/trace and
// telemetry/metric packages install real providers.
package telemetry

import (
	"fmt"
	"strings"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// grpcDial is a package-level variable to allow test injection of a custom dialer.
var grpcDial = grpc.Dial

// telemetry service constants.
const (
	ServiceName      = "trpc-query-go"
	ServiceVersion   = "v0.1.0"
	ServiceNamespace = "trpc-go-query"
	InstrumentName   = "trpc.query.go"

	SpanNameTransform     = "transform_query"
	SpanNameTransformAll  = "transform_query_batch"
	OperationTransform    = "transform_query"
	ValueDefaultErrorType = "_OTHER"
)

const (
	// ProtocolGRPC uses gRPC protocol for OTLP exporter.
	ProtocolGRPC string = "grpc"
	// ProtocolHTTP uses HTTP protocol for OTLP exporter.
	ProtocolHTTP string = "http"
)

// Span and metric attribute keys.
const (
	KeyOperationName   = "trpc.query.operation.name"
	KeyRunID           = "trpc.query.run_id"
	KeyChannel         = "trpc.query.channel"
	KeyTenant          = "trpc.query.tenant"
	KeyIntentCode      = "trpc.query.intent.code"
	KeyIntentLevel     = "trpc.query.intent.confidence_level"
	KeyStrategy        = "trpc.query.strategy"
	KeyStatus          = "trpc.query.status"
	KeyFallback        = "trpc.query.fallback"
	KeyQueryCount      = "trpc.query.expanded.count"
	KeyMaxQueries      = "trpc.query.max_queries"
	KeyBatchSize       = "trpc.query.batch.size"
	KeyErrorType       = "error.type"
	KeyErrorMessage    = "error.message"
	KeyExpandedQueries = "trpc.query.expanded.queries"
)

// Tracer is the tracer used for query transformation spans.
var Tracer trace.Tracer = noop.NewTracerProvider().Tracer(InstrumentName)

// TransformRun describes a finished transformation for tracing and metrics.
type TransformRun struct {
	RunID       string
	Channel     string
	Tenant      string
	IntentCode  string
	IntentLevel string
	Strategy    string
	Status      string
	Fallback    string
	MaxQueries  int
	Queries     []string
	Err         error
}

// TraceTransform annotates span with the outcome of run.
func TraceTransform(span trace.Span, run TransformRun) {
	span.SetAttributes(
		attribute.String(KeyOperationName, OperationTransform),
		attribute.String(KeyRunID, run.RunID),
		attribute.String(KeyChannel, run.Channel),
		attribute.String(KeyTenant, run.Tenant),
		attribute.String(KeyIntentCode, run.IntentCode),
		attribute.String(KeyIntentLevel, run.IntentLevel),
		attribute.String(KeyStrategy, run.Strategy),
		attribute.String(KeyStatus, run.Status),
		attribute.String(KeyFallback, run.Fallback),
		attribute.Int(KeyMaxQueries, run.MaxQueries),
		attribute.Int(KeyQueryCount, len(run.Queries)),
		attribute.String(KeyExpandedQueries, strings.Join(run.Queries, "\n")),
	)
	if run.Err != nil {
		span.SetStatus(codes.Error, run.Err.Error())
		span.SetAttributes(
			attribute.String(KeyErrorType, ToErrorType(run.Err, ValueDefaultErrorType)),
			attribute.String(KeyErrorMessage, run.Err.Error()),
		)
		return
	}
	span.SetStatus(codes.Ok, "")
}

// NewGRPCConn creates a new gRPC connection to the OpenTelemetry Collector.
func NewGRPCConn(endpoint string) (*grpc.ClientConn, error) {
	// Note the use of insecure transport here. TLS is recommended in production.
	conn, err := grpcDial(endpoint,
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create gRPC connection to collector: %w", err)
	}
	return conn, nil
}
