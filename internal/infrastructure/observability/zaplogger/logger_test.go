package zaplogger

import (
	"errors"
	"testing"

	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"
)

func TestLoggerBindsFixedAndScopedFields(t *testing.T) {
	core, logs := observer.New(zap.DebugLevel)
	l := New(zap.New(core), observability.F("component", "test"))

	l.With(observability.F("request_id", "r-1")).Info("done", observability.F("count", 2))
	l.Debug("plain")

	entries := logs.All()
	require.Len(t, entries, 2)
	first := entries[0].ContextMap()
	assert.Equal(t, "test", first["component"])
	assert.Equal(t, "r-1", first["request_id"])
	assert.EqualValues(t, 2, first["count"])
	assert.NotContains(t, entries[1].ContextMap(), "request_id")
}

func TestErrorsBecomeNamedErrorFields(t *testing.T) {
	core, logs := observer.New(zap.InfoLevel)
	New(zap.New(core)).Error("boom", observability.F("error", errors.New("disk full")))

	entries := logs.FilterMessage("boom").All()
	require.Len(t, entries, 1)
	assert.Equal(t, "disk full", entries[0].ContextMap()["error"])
}
