package logctx

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/stretchr/testify/assert"
)

type recordingLogger struct {
	observability.Logger
	fields []observability.Field
}

func (r *recordingLogger) With(fields ...observability.Field) observability.Logger {
	return &recordingLogger{Logger: observability.NopLogger(), fields: append(append([]observability.Field{}, r.fields...), fields...)}
}

func TestFromOrFallsBack(t *testing.T) {
	ctx := context.Background()
	assert.Nil(t, From(ctx))
	assert.NotNil(t, FromOr(ctx, nil))

	fallback := &recordingLogger{Logger: observability.NopLogger()}
	assert.Same(t, fallback, FromOr(ctx, fallback))
}

func TestEnrichStoresLoggerOnContext(t *testing.T) {
	base := &recordingLogger{Logger: observability.NopLogger()}
	ctx, logger := Enrich(context.Background(), base, observability.F("request_id", "r-1"))

	assert.Same(t, logger, From(ctx))
	got := logger.(*recordingLogger)
	assert.Equal(t, []observability.Field{observability.F("request_id", "r-1")}, got.fields)
}
