// Package observability assembles the tracer, logger and Prometheus
// instruments into the single provider the use cases depend on.
package observability

import (
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
)

type telemetry struct {
	tracer  observability.Tracer
	logger  observability.Logger
	metrics instruments
}

// instruments resolves metric keys; keys nobody registered get a nop.
type instruments struct {
	counters   map[observability.MetricKey]observability.Counter
	histograms map[observability.MetricKey]observability.Histogram
}

func (in instruments) Counter(k observability.MetricKey) observability.Counter {
	if c := in.counters[k]; c != nil {
		return c
	}
	return observability.NopCounter()
}

func (in instruments) Histogram(k observability.MetricKey) observability.Histogram {
	if h := in.histograms[k]; h != nil {
		return h
	}
	return observability.NopHistogram()
}

// New builds the provider. Nil tracer or logger fall back to nops, and the
// maps are copied so later edits by the caller have no effect.
func New(
	tracer observability.Tracer,
	logger observability.Logger,
	counters map[observability.MetricKey]observability.Counter,
	histograms map[observability.MetricKey]observability.Histogram,
) observability.Observability {
	t := &telemetry{
		tracer: tracer,
		logger: logger,
		metrics: instruments{
			counters:   make(map[observability.MetricKey]observability.Counter, len(counters)),
			histograms: make(map[observability.MetricKey]observability.Histogram, len(histograms)),
		},
	}
	if t.tracer == nil {
		t.tracer = observability.NopTracer()
	}
	if t.logger == nil {
		t.logger = observability.NopLogger()
	}
	for k, c := range counters {
		if c != nil {
			t.metrics.counters[k] = c
		}
	}
	for k, h := range histograms {
		if h != nil {
			t.metrics.histograms[k] = h
		}
	}
	return t
}

func (t *telemetry) Tracer() observability.Tracer   { return t.tracer }
func (t *telemetry) Logger() observability.Logger   { return t.logger }
func (t *telemetry) Metrics() observability.Metrics { return t.metrics }
