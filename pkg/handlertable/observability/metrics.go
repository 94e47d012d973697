package observability

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/metric"
)

// MetricsRecorder records handler table metrics.
// Use NewMetricsRecorder() for OTel metrics or NoopMetrics{} when disabled.
type MetricsRecorder interface {
	// RecordRegister records a registration attempt and whether it took effect.
	RecordRegister(ctx context.Context, event string, index int, ok bool)

	// RecordUnregister records an unregister attempt and whether a handler
	// was removed.
	RecordUnregister(ctx context.Context, event string, index int, removed bool)

	// RecordDispatch records a dispatch. duration is the handler run time and
	// is only recorded when handled is true.
	RecordDispatch(ctx context.Context, event string, index int, handled bool, duration time.Duration)
}

// otelMetrics implements MetricsRecorder using OpenTelemetry.
type otelMetrics struct {
	registrations  metric.Int64Counter
	conflicts      metric.Int64Counter
	unregistration metric.Int64Counter
	dispatches     metric.Int64Counter
	misses         metric.Int64Counter
	handlerLatency metric.Float64Histogram
}

var (
	defaultMetrics     *otelMetrics
	defaultMetricsOnce sync.Once
	defaultMetricsErr  error
)

// getDefaultMetrics lazily creates the shared OTel instruments.
func getDefaultMetrics() (*otelMetrics, error) {
	defaultMetricsOnce.Do(func() {
		defaultMetrics, defaultMetricsErr = newOtelMetrics()
	})
	return defaultMetrics, defaultMetricsErr
}

// newOtelMetrics creates the instruments on the global meter provider.
func newOtelMetrics() (*otelMetrics, error) {
	meter := otel.Meter("handlertable")

	registrations, err := meter.Int64Counter("handlertable.register",
		metric.WithDescription("Number of successful handler registrations"),
	)
	if err != nil {
		return nil, err
	}

	conflicts, err := meter.Int64Counter("handlertable.register.conflicts",
		metric.WithDescription("Number of registrations rejected because the slot was occupied, contended or out of range"),
	)
	if err != nil {
		return nil, err
	}

	unregistration, err := meter.Int64Counter("handlertable.unregister",
		metric.WithDescription("Number of unregister calls"),
	)
	if err != nil {
		return nil, err
	}

	dispatches, err := meter.Int64Counter("handlertable.dispatch",
		metric.WithDescription("Number of events handled"),
	)
	if err != nil {
		return nil, err
	}

	misses, err := meter.Int64Counter("handlertable.dispatch.misses",
		metric.WithDescription("Number of events with no handler bound"),
	)
	if err != nil {
		return nil, err
	}

	handlerLatency, err := meter.Float64Histogram("handlertable.handler.latency_ms",
		metric.WithDescription("Handler run time in milliseconds"),
		metric.WithUnit("ms"),
	)
	if err != nil {
		return nil, err
	}

	return &otelMetrics{
		registrations:  registrations,
		conflicts:      conflicts,
		unregistration: unregistration,
		dispatches:     dispatches,
		misses:         misses,
		handlerLatency: handlerLatency,
	}, nil
}

// NewMetricsRecorder returns a MetricsRecorder that uses OpenTelemetry.
// If metrics initialization fails, returns a no-op recorder.
//
// The recorder uses the global OTel meter provider. Configure the provider
// before calling this function:
//
//	import "go.opentelemetry.io/otel"
//	otel.SetMeterProvider(yourProvider)
func NewMetricsRecorder() MetricsRecorder {
	m, err := getDefaultMetrics()
	if err != nil {
		slog.Warn("metrics initialization failed, using no-op recorder",
			slog.String("error", err.Error()))
		return NoopMetrics{}
	}
	return m
}

func eventAttrs(event string, index int) metric.MeasurementOption {
	return metric.WithAttributes(
		attribute.String("event", event),
		attribute.Int("index", index),
	)
}

// RecordRegister records a registration attempt.
func (m *otelMetrics) RecordRegister(ctx context.Context, event string, index int, ok bool) {
	if ok {
		m.registrations.Add(ctx, 1, eventAttrs(event, index))
		return
	}
	m.conflicts.Add(ctx, 1, eventAttrs(event, index))
}

// RecordUnregister records an unregister attempt.
func (m *otelMetrics) RecordUnregister(ctx context.Context, event string, index int, removed bool) {
	m.unregistration.Add(ctx, 1, metric.WithAttributes(
		attribute.String("event", event),
		attribute.Int("index", index),
		attribute.Bool("removed", removed),
	))
}

// RecordDispatch records a dispatch.
func (m *otelMetrics) RecordDispatch(ctx context.Context, event string, index int, handled bool, duration time.Duration) {
	attrs := eventAttrs(event, index)
	if !handled {
		m.misses.Add(ctx, 1, attrs)
		return
	}
	m.dispatches.Add(ctx, 1, attrs)
	m.handlerLatency.Record(ctx, float64(duration)/float64(time.Millisecond), attrs)
}
