// Package otel provides span helpers and shared trace attribute keys for the router.
package otel

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// Attribute keys shared by every traced component
const (
	AttrServiceName   = attribute.Key("router.service.name")
	AttrServiceType   = attribute.Key("router.service.type")
	AttrCollections   = attribute.Key("router.request.collections")
	AttrOutputFormat  = attribute.Key("router.output_format")
	AttrMatched       = attribute.Key("router.matched")
	AttrDegraded      = attribute.Key("router.degraded")
	AttrJobID         = attribute.Key("router.job.id")
	AttrJobStatus     = attribute.Key("router.job.status")
	AttrResultCount   = attribute.Key("result.count")
	AttrCatalogSource = attribute.Key("router.catalog.source")
)

// StartSpan starts a new span if the tracer is non-nil, otherwise returns the span
// already in ctx (a no-op span when there is none).
func StartSpan(
	ctx context.Context,
	tracer trace.Tracer,
	name string,
	opts ...trace.SpanStartOption,
) (context.Context, trace.Span) {
	if tracer == nil {
		return ctx, trace.SpanFromContext(ctx)
	}
	return tracer.Start(ctx, name, opts...)
}

// RecordError records err on span and marks it failed. Nil spans and errors are ignored.
// The status description stays generic; details travel in the span event.
func RecordError(span trace.Span, err error) {
	if err != nil && span != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, "operation failed")
	}
}

// AnnotateMatch attaches the outcome of a service selection to span
func AnnotateMatch(span trace.Span, service, outputFormat string, matched, degraded bool) {
	if span == nil {
		return
	}
	span.SetAttributes(
		AttrServiceName.String(service),
		AttrOutputFormat.String(outputFormat),
		AttrMatched.Bool(matched),
		AttrDegraded.Bool(degraded),
	)
}
