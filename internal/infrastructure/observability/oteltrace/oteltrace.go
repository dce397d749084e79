// Package oteltrace adapts OpenTelemetry tracers to the observability port.
package oteltrace

import (
	"context"

	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

const instrumentationName = "procurement"

type tracer struct{ t trace.Tracer }

// New uses the global provider, so spans stay non-recording until an SDK
// provider is installed with otel.SetTracerProvider.
func New(name string) observability.Tracer {
	return NewWithProvider(otel.GetTracerProvider(), name)
}

func NewWithProvider(tp trace.TracerProvider, name string) observability.Tracer {
	if tp == nil {
		tp = otel.GetTracerProvider()
	}
	if name == "" {
		name = instrumentationName
	}
	return &tracer{t: tp.Tracer(name)}
}

func (t *tracer) Start(ctx context.Context, name string, attrs ...attribute.KeyValue) (context.Context, trace.Span) {
	return t.t.Start(ctx, name, trace.WithAttributes(attrs...))
}
