package dispatch

import (
	"log/slog"

	"github.com/randalmurphal/handlertable/pkg/handlertable/observability"
	"github.com/randalmurphal/handlertable/pkg/handlertable/registry"
	"github.com/randalmurphal/handlertable/pkg/handlertable/retry"
)

// dispatchConfig holds configuration for a Dispatcher.
type dispatchConfig struct {
	logger         *slog.Logger
	metricsEnabled bool
	tracingEnabled bool
	names          *registry.Names
	metrics        observability.MetricsRecorder
	spans          observability.SpanManager
	retry          retry.Config
}

// defaultDispatchConfig returns the default configuration.
func defaultDispatchConfig() dispatchConfig {
	return dispatchConfig{
		retry: retry.Default,
	}
}

// Option configures a Dispatcher.
type Option func(*dispatchConfig)

// WithLogger sets the logger for dispatch events.
// Default: nil (no logging)
//
// The logger is enriched with table_id and capacity.
//
// Example:
//
//	logger := slog.New(slog.NewJSONHandler(os.Stdout, nil))
//	d := dispatch.New(table, dispatch.WithLogger(logger))
func WithLogger(logger *slog.Logger) Option {
	return func(c *dispatchConfig) {
		c.logger = logger
	}
}

// WithMetrics enables OpenTelemetry metrics.
// Default: false
//
// Metrics use the global OTel meter provider. Configure it first:
//
//	otel.SetMeterProvider(provider)
func WithMetrics(enabled bool) Option {
	return func(c *dispatchConfig) {
		c.metricsEnabled = enabled
	}
}

// WithTracing enables OpenTelemetry spans around Handle.
// Default: false
//
// Spans use the global OTel tracer provider. Configure it first:
//
//	otel.SetTracerProvider(provider)
func WithTracing(enabled bool) Option {
	return func(c *dispatchConfig) {
		c.tracingEnabled = enabled
	}
}

// WithNames sets the event name bindings used by the *Named methods and
// as the event label in logs, metrics and spans.
// Default: an empty binding set sized to the table.
func WithNames(names *registry.Names) Option {
	return func(c *dispatchConfig) {
		if names != nil {
			c.names = names
		}
	}
}

// WithMetricsRecorder sets a custom recorder. It takes precedence over
// WithMetrics.
func WithMetricsRecorder(m observability.MetricsRecorder) Option {
	return func(c *dispatchConfig) {
		c.metrics = m
	}
}

// WithSpanManager sets a custom span manager. It takes precedence over
// WithTracing.
func WithSpanManager(s observability.SpanManager) Option {
	return func(c *dispatchConfig) {
		c.spans = s
	}
}

// WithRetry sets the configuration returned by RetryConfig.
// Default: retry.Default
func WithRetry(cfg retry.Config) Option {
	return func(c *dispatchConfig) {
		c.retry = cfg
	}
}
