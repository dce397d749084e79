package observability

import (
	"context"

	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"
)

// discard satisfies every port in this package and records nothing.
// It backs tests and any dependency a caller leaves unset.
type discard struct{}

var (
	_ Observability = discard{}
	_ Logger        = discard{}
	_ Tracer        = discard{}
	_ Metrics       = discard{}
	_ Counter       = discard{}
	_ Histogram     = discard{}
)

func (discard) Tracer() Tracer   { return discard{} }
func (discard) Logger() Logger   { return discard{} }
func (discard) Metrics() Metrics { return discard{} }

func (discard) With(...Field) Logger   { return discard{} }
func (discard) Debug(string, ...Field) {}
func (discard) Info(string, ...Field)  {}
func (discard) Warn(string, ...Field)  {}
func (discard) Error(string, ...Field) {}

// Start keeps whatever span is already on ctx.
func (discard) Start(ctx context.Context, _ string, _ ...attribute.KeyValue) (context.Context, trace.Span) {
	return ctx, trace.SpanFromContext(ctx)
}

func (discard) Counter(MetricKey) Counter     { return discard{} }
func (discard) Histogram(MetricKey) Histogram { return discard{} }
func (discard) Add(float64, ...Label)         {}
func (discard) Observe(float64, ...Label)     {}

func Nop() Observability      { return discard{} }
func NopLogger() Logger       { return discard{} }
func NopTracer() Tracer       { return discard{} }
func NopMetrics() Metrics     { return discard{} }
func NopCounter() Counter     { return discard{} }
func NopHistogram() Histogram { return discard{} }
