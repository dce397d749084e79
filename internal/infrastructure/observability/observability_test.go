package observability

import (
	"testing"

	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/stretchr/testify/assert"
)

type countingCounter struct{ total float64 }

func (c *countingCounter) Add(d float64, _ ...observability.Label) { c.total += d }

func TestNewFallsBackToNops(t *testing.T) {
	p := New(nil, nil, nil, nil)
	assert.NotNil(t, p.Tracer())
	assert.NotNil(t, p.Logger())
	assert.NotPanics(t, func() {
		p.Metrics().Counter(observability.MHTTPRequests).Add(1)
		p.Metrics().Histogram(observability.MHTTPRequestDuration).Observe(1)
	})
}

func TestNewResolvesRegisteredCounters(t *testing.T) {
	c := &countingCounter{}
	p := New(nil, nil, map[observability.MetricKey]observability.Counter{
		observability.MLowStockAlerts: c,
		observability.MHTTPRequests:   nil,
	}, nil)

	p.Metrics().Counter(observability.MLowStockAlerts).Add(2)
	p.Metrics().Counter(observability.MHTTPRequests).Add(5)
	p.Metrics().Counter(observability.MUsecaseRequests).Add(5)
	assert.Equal(t, float64(2), c.total)
}
