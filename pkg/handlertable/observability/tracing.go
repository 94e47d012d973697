package observability

import (
	"context"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
)

// tracer is the handlertable tracer instance.
// Uses the global OTel tracer provider.
var tracer = otel.Tracer("handlertable")

// SpanManager handles trace span lifecycle.
// Use NewSpanManager() for OTel tracing or NoopSpanManager{} when disabled.
type SpanManager interface {
	// StartDispatchSpan starts a span covering one dispatch, handler
	// included. Returns the context with the span and the span itself.
	StartDispatchSpan(ctx context.Context, tableID, event string, index int) (context.Context, trace.Span)

	// EndDispatchSpan records whether a handler ran and completes the span.
	EndDispatchSpan(span trace.Span, handled bool)

	// AddSpanEvent adds an event to the current span in context.
	AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue)
}

// otelSpanManager implements SpanManager using OpenTelemetry.
type otelSpanManager struct{}

// NewSpanManager returns a SpanManager that uses OpenTelemetry.
//
// The span manager uses the global OTel tracer provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetTracerProvider(yourProvider)
func NewSpanManager() SpanManager {
	return &otelSpanManager{}
}

// StartDispatchSpan starts a span for a dispatch.
func (m *otelSpanManager) StartDispatchSpan(ctx context.Context, tableID, event string, index int) (context.Context, trace.Span) {
	return StartDispatchSpan(ctx, tableID, event, index)
}

// EndDispatchSpan completes a dispatch span.
func (m *otelSpanManager) EndDispatchSpan(span trace.Span, handled bool) {
	EndDispatchSpan(span, handled)
}

// AddSpanEvent adds an event to the current span.
func (m *otelSpanManager) AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	AddSpanEvent(ctx, name, attrs...)
}

// StartDispatchSpan starts a span for a dispatch.
// Uses the global OTel tracer.
func StartDispatchSpan(ctx context.Context, tableID, event string, index int) (context.Context, trace.Span) {
	return tracer.Start(ctx, "handlertable.dispatch",
		trace.WithAttributes(
			attribute.String("table.id", tableID),
			attribute.String("event.name", event),
			attribute.Int("event.index", index),
		),
		trace.WithSpanKind(trace.SpanKindInternal),
	)
}

// EndDispatchSpan records whether a handler ran and completes the span.
// A miss is not an error; the span status stays Ok either way.
func EndDispatchSpan(span trace.Span, handled bool) {
	if span == nil {
		return
	}
	span.SetAttributes(attribute.Bool("event.handled", handled))
	span.SetStatus(codes.Ok, "")
	span.End()
}

// AddSpanEvent adds an event to the current span in context.
func AddSpanEvent(ctx context.Context, name string, attrs ...attribute.KeyValue) {
	span := trace.SpanFromContext(ctx)
	if !span.IsRecording() {
		return
	}
	span.AddEvent(name, trace.WithAttributes(attrs...))
}
