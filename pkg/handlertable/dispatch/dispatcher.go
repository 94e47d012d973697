package dispatch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"time"

	"github.com/google/uuid"
	"go.opentelemetry.io/otel/attribute"

	"github.com/randalmurphal/handlertable/pkg/handlertable"
	"github.com/randalmurphal/handlertable/pkg/handlertable/config"
	"github.com/randalmurphal/handlertable/pkg/handlertable/observability"
	"github.com/randalmurphal/handlertable/pkg/handlertable/registry"
	"github.com/randalmurphal/handlertable/pkg/handlertable/retry"
)

// Dispatcher is a named, observed view of a handler table.
//
// Dispatcher is safe for concurrent use. It does not own the table: callers
// may keep using the table directly alongside it.
type Dispatcher[H ~func()] struct {
	id      string
	table   *handlertable.Table[H]
	names   *registry.Names
	logger  *slog.Logger
	metrics observability.MetricsRecorder
	spans   observability.SpanManager
	retry   retry.Config
}

// New creates a Dispatcher over table.
// A nil table behaves as a table with no slots.
func New[H ~func()](table *handlertable.Table[H], opts ...Option) *Dispatcher[H] {
	cfg := defaultDispatchConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	d := &Dispatcher[H]{
		id:    uuid.New().String(),
		table: table,
		names: cfg.names,
		retry: cfg.retry,
	}
	if d.names == nil {
		d.names = registry.NewNames(table.Cap())
	}

	switch {
	case cfg.metrics != nil:
		d.metrics = cfg.metrics
	case cfg.metricsEnabled:
		d.metrics = observability.NewMetricsRecorder()
	default:
		d.metrics = observability.NoopMetrics{}
	}

	switch {
	case cfg.spans != nil:
		d.spans = cfg.spans
	case cfg.tracingEnabled:
		d.spans = observability.NewSpanManager()
	default:
		d.spans = observability.NoopSpanManager{}
	}

	d.logger = observability.EnrichLogger(cfg.logger, d.id, table.Cap())
	observability.LogTableReady(d.logger, d.names.Len())
	return d
}

// FromSpec builds a table and its Dispatcher from a validated TableSpec.
//
// The logger is filtered to spec.LogLevel. Explicit opts are applied after
// the ones derived from spec and take precedence.
func FromSpec[H ~func()](spec config.TableSpec, logger *slog.Logger, opts ...Option) (*Dispatcher[H], error) {
	if err := spec.Validate(); err != nil {
		return nil, err
	}
	names, err := spec.Names()
	if err != nil {
		return nil, err
	}

	derived := []Option{
		WithLogger(observability.WithMinLevel(logger, spec.LogLevel)),
		WithMetrics(spec.Metrics),
		WithTracing(spec.Tracing),
		WithNames(names),
		WithRetry(spec.Retry),
	}
	return New(handlertable.New[H](spec.Capacity), append(derived, opts...)...), nil
}

// ID returns the identifier attached to this Dispatcher's logs and spans.
func (d *Dispatcher[H]) ID() string {
	return d.id
}

// Table returns the underlying table.
func (d *Dispatcher[H]) Table() *handlertable.Table[H] {
	return d.table
}

// Names returns the event name bindings.
func (d *Dispatcher[H]) Names() *registry.Names {
	return d.names
}

// RetryConfig returns the retry configuration set with WithRetry.
func (d *Dispatcher[H]) RetryConfig() retry.Config {
	return d.retry
}

// label returns the event name bound to index, or the index in decimal.
func (d *Dispatcher[H]) label(index int) string {
	if name, ok := d.names.Name(index); ok {
		return name
	}
	return strconv.Itoa(index)
}

// Register binds h to index. It has the same outcome as
// Table.RegisterHandler and additionally logs and records the attempt.
func (d *Dispatcher[H]) Register(ctx context.Context, index int, h H) bool {
	return d.tryRegister(ctx, index, h) == nil
}

// Unregister removes and returns the handler bound to index.
func (d *Dispatcher[H]) Unregister(ctx context.Context, index int) (H, bool) {
	h, err := d.tryUnregister(ctx, index)
	return h, err == nil
}

// Handle invokes the handler bound to index and reports whether one ran.
// With tracing enabled the handler runs inside a dispatch span.
func (d *Dispatcher[H]) Handle(ctx context.Context, index int) bool {
	return d.tryHandle(ctx, index) == nil
}

// RegisterNamed binds h to the index bound to name.
// Returns ErrUnknownEvent if name is unbound, otherwise the table's error.
func (d *Dispatcher[H]) RegisterNamed(ctx context.Context, name string, h H) error {
	index, err := d.resolve(name)
	if err != nil {
		return err
	}
	return d.tryRegister(ctx, index, h)
}

// UnregisterNamed removes and returns the handler for name.
func (d *Dispatcher[H]) UnregisterNamed(ctx context.Context, name string) (H, error) {
	index, err := d.resolve(name)
	if err != nil {
		var zero H
		return zero, err
	}
	return d.tryUnregister(ctx, index)
}

// HandleNamed invokes the handler for name.
// Returns ErrUnknownEvent if name is unbound and a wrapped
// handlertable.ErrSlotEmpty if no handler is registered.
func (d *Dispatcher[H]) HandleNamed(ctx context.Context, name string) error {
	index, err := d.resolve(name)
	if err != nil {
		return err
	}
	return d.tryHandle(ctx, index)
}

// RegisterWithRetry registers h, retrying while the slot is occupied.
//
// Out-of-range indices and nil handlers fail on the first attempt. Context
// cancellation stops the retries.
//
// Example:
//
//	res := d.RegisterWithRetry(ctx, 3, h, d.RetryConfig())
//	if res.Err != nil {
//	    return res.Err
//	}
func (d *Dispatcher[H]) RegisterWithRetry(ctx context.Context, index int, h H, cfg retry.Config) retry.Result {
	event := d.label(index)

	res := retry.Do(ctx, cfg, func(ctx context.Context) error {
		return d.register(ctx, event, index, h)
	})

	var exhausted *retry.ExhaustedError
	switch {
	case res.Err == nil:
		observability.LogRegister(d.logger, event, index)
	case errors.As(res.Err, &exhausted):
		observability.LogRetryExhausted(d.logger, event, index, exhausted.Attempts, exhausted.Err)
	default:
		observability.LogRegisterRejected(d.logger, event, index, res.Err)
	}
	return res
}

func (d *Dispatcher[H]) resolve(name string) (int, error) {
	index, ok := d.names.Index(name)
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrUnknownEvent, name)
	}
	return index, nil
}

// register performs one attempt and records it, without logging.
func (d *Dispatcher[H]) register(ctx context.Context, event string, index int, h H) error {
	err := d.table.TryRegister(index, h)
	d.metrics.RecordRegister(ctx, event, index, err == nil)
	return err
}

func (d *Dispatcher[H]) tryRegister(ctx context.Context, index int, h H) error {
	event := d.label(index)
	if err := d.register(ctx, event, index, h); err != nil {
		observability.LogRegisterRejected(d.logger, event, index, err)
		return err
	}
	observability.LogRegister(d.logger, event, index)
	return nil
}

func (d *Dispatcher[H]) tryUnregister(ctx context.Context, index int) (H, error) {
	event := d.label(index)
	h, err := d.table.TryUnregister(index)
	d.metrics.RecordUnregister(ctx, event, index, err == nil)
	observability.LogUnregister(d.logger, event, index, err == nil)
	return h, err
}

func (d *Dispatcher[H]) tryHandle(ctx context.Context, index int) error {
	event := d.label(index)
	ctx, span := d.spans.StartDispatchSpan(ctx, d.id, event, index)

	done := observability.TimedOperation()
	err := d.table.TryHandle(index)
	durationMs := done()

	handled := err == nil
	if !handled {
		d.spans.AddSpanEvent(ctx, "handler.miss",
			attribute.Int("event.index", index),
			attribute.String("reason", missReason(err)),
		)
	}
	d.spans.EndDispatchSpan(span, handled)
	d.metrics.RecordDispatch(ctx, event, index, handled, time.Duration(durationMs*float64(time.Millisecond)))
	if handled {
		observability.LogDispatch(d.logger, event, index, durationMs)
	} else {
		observability.LogDispatchMiss(d.logger, event, index)
	}
	return err
}

// missReason names why TryHandle found no handler.
func missReason(err error) string {
	if errors.Is(err, handlertable.ErrIndexOutOfRange) {
		return "out_of_range"
	}
	return "empty"
}
