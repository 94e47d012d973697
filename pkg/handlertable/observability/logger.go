// Package observability provides logging, metrics and tracing for the
// service-side handler table front end (package dispatch).
//
// Features:
//   - Structured logging via slog (Go stdlib)
//   - Metrics via OpenTelemetry
//   - Tracing via OpenTelemetry
//
// All features are opt-in and have no-op implementations when disabled. None
// of this is used by the lock-free table itself.
package observability

import (
	"context"
	"log/slog"
	"time"
)

// EnrichLogger adds the table identity to a logger.
//
// Example:
//
//	enriched := EnrichLogger(logger, dispatcher.ID(), 32)
//	enriched.Info("ready") // includes table_id and capacity
func EnrichLogger(logger *slog.Logger, tableID string, capacity int) *slog.Logger {
	if logger == nil {
		return nil
	}
	return logger.With(
		slog.String("table_id", tableID),
		slog.Int("capacity", capacity),
	)
}

// LogTableReady logs a table front end becoming usable.
func LogTableReady(logger *slog.Logger, boundNames int) {
	if logger == nil {
		return
	}
	logger.Info("handler table ready",
		slog.Int("bound_names", boundNames),
	)
}

// LogRegister logs a successful registration.
func LogRegister(logger *slog.Logger, event string, index int) {
	if logger == nil {
		return
	}
	logger.Debug("handler registered",
		slog.String("event", event),
		slog.Int("index", index),
	)
}

// LogRegisterRejected logs a registration that did not take effect.
func LogRegisterRejected(logger *slog.Logger, event string, index int, err error) {
	if logger == nil {
		return
	}
	logger.Warn("handler registration rejected",
		slog.String("event", event),
		slog.Int("index", index),
		slog.String("error", err.Error()),
	)
}

// LogUnregister logs an unregister attempt and whether a handler was removed.
func LogUnregister(logger *slog.Logger, event string, index int, removed bool) {
	if logger == nil {
		return
	}
	logger.Debug("handler unregistered",
		slog.String("event", event),
		slog.Int("index", index),
		slog.Bool("removed", removed),
	)
}

// LogDispatch logs a handled event.
func LogDispatch(logger *slog.Logger, event string, index int, durationMs float64) {
	if logger == nil {
		return
	}
	logger.Debug("event handled",
		slog.String("event", event),
		slog.Int("index", index),
		slog.Float64("duration_ms", durationMs),
	)
}

// LogDispatchMiss logs an event with no handler bound.
func LogDispatchMiss(logger *slog.Logger, event string, index int) {
	if logger == nil {
		return
	}
	logger.Debug("event not handled",
		slog.String("event", event),
		slog.Int("index", index),
	)
}

// LogRetryExhausted logs a registration that gave up retrying.
func LogRetryExhausted(logger *slog.Logger, event string, index int, attempts int, err error) {
	if logger == nil {
		return
	}
	logger.Error("handler registration failed",
		slog.String("event", event),
		slog.Int("index", index),
		slog.Int("attempts", attempts),
		slog.String("error", err.Error()),
	)
}

// TimedOperation measures the duration of an operation.
// Returns a function that, when called, returns the elapsed time in
// fractional milliseconds.
//
// Example:
//
//	done := TimedOperation()
//	table.Handle(i)
//	durationMs := done()
func TimedOperation() func() float64 {
	start := time.Now()
	return func() float64 {
		return float64(time.Since(start)) / float64(time.Millisecond)
	}
}

// WithMinLevel returns a logger that drops records below level before they
// reach logger's handler. A nil logger stays nil.
func WithMinLevel(logger *slog.Logger, level slog.Leveler) *slog.Logger {
	if logger == nil {
		return nil
	}
	return slog.New(&levelHandler{level: level, inner: logger.Handler()})
}

type levelHandler struct {
	level slog.Leveler
	inner slog.Handler
}

func (h *levelHandler) Enabled(ctx context.Context, level slog.Level) bool {
	return level >= h.level.Level() && h.inner.Enabled(ctx, level)
}

func (h *levelHandler) Handle(ctx context.Context, r slog.Record) error {
	return h.inner.Handle(ctx, r)
}

func (h *levelHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithAttrs(attrs)}
}

func (h *levelHandler) WithGroup(name string) slog.Handler {
	return &levelHandler{level: h.level, inner: h.inner.WithGroup(name)}
}
