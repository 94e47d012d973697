package observability

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"go.opentelemetry.io/otel/attribute"
)

func TestNoopMetrics_ImplementsInterface(t *testing.T) {
	var _ MetricsRecorder = NoopMetrics{}
}

func TestNoopMetrics(t *testing.T) {
	m := NoopMetrics{}
	ctx := context.Background()

	assert.NotPanics(t, func() {
		m.RecordRegister(ctx, "timer", 0, true)
		m.RecordRegister(ctx, "", -1, false)
		m.RecordUnregister(ctx, "timer", 0, true)
		m.RecordDispatch(ctx, "timer", 0, true, time.Millisecond)
		m.RecordDispatch(ctx, "timer", 0, false, 0)
	})
}

func TestNoopSpanManager_ImplementsInterface(t *testing.T) {
	var _ SpanManager = NoopSpanManager{}
}

type ctxKey struct{}

func TestNoopSpanManager(t *testing.T) {
	sm := NoopSpanManager{}

	t.Run("returns context unchanged", func(t *testing.T) {
		ctx := context.WithValue(context.Background(), ctxKey{}, "v")
		got, span := sm.StartDispatchSpan(ctx, "tbl", "timer", 0)
		assert.Equal(t, ctx, got)
		assert.NotNil(t, span)
		assert.False(t, span.IsRecording())
	})

	t.Run("end and events do not panic", func(t *testing.T) {
		_, span := sm.StartDispatchSpan(context.Background(), "tbl", "timer", 0)
		assert.NotPanics(t, func() {
			sm.AddSpanEvent(context.Background(), "x", attribute.String("k", "v"))
			sm.EndDispatchSpan(span, true)
			sm.EndDispatchSpan(nil, false)
		})
	})
}
