package workerpresentation

import (
	"context"
	"maps"
	"slices"

	domoutbox "github.com/Zhima-Mochi/procurement-portal/internal/domain/outbox"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability/logctx"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel/trace"
)

const eventIDKey = "event_id"

// WithEventContext stores an event-scoped logger on ctx. The logger carries an
// event_id (attrs["event_id"] or a fresh uuid), the trace and span ids of sc
// when valid, and every other non-empty attr. Keep attrs low-cardinality.
func WithEventContext(ctx context.Context, base observability.Logger, sc trace.SpanContext, attrs map[string]string) context.Context {
	if base == nil {
		base = observability.NopLogger()
	}
	return logctx.With(ctx, base.With(eventFields(sc, attrs)...))
}

func eventFields(sc trace.SpanContext, attrs map[string]string) []observability.Field {
	id := attrs[eventIDKey]
	if id == "" {
		id = uuid.NewString()
	}
	fields := []observability.Field{observability.F(eventIDKey, id)}
	if sc.HasTraceID() {
		fields = append(fields, observability.F("trace_id", sc.TraceID().String()))
	}
	if sc.HasSpanID() {
		fields = append(fields, observability.F("span_id", sc.SpanID().String()))
	}
	for _, k := range slices.Sorted(maps.Keys(attrs)) {
		if k != eventIDKey && attrs[k] != "" {
			fields = append(fields, observability.F(k, attrs[k]))
		}
	}
	return fields
}

// Middleware runs every delivery with an event-scoped logger derived from the
// logger already on ctx, or base when there is none.
func Middleware(base observability.Logger, worker string) domoutbox.Middleware {
	return func(next domoutbox.Handler) domoutbox.Handler {
		return func(ctx context.Context, e domoutbox.Event) error {
			ctx = WithEventContext(ctx, logctx.FromOr(ctx, base), trace.SpanContextFromContext(ctx), map[string]string{
				"event":  e.EventName(),
				"worker": worker,
			})
			return next(ctx, e)
		}
	}
}
