package request

import (
	"context"
	"testing"

	domoutbox "github.com/Zhima-Mochi/procurement-portal/internal/domain/outbox"
	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
	infraobs "github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/observability"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/observability/zaplogger"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type subscriberFunc func(string, domoutbox.Handler)

func (f subscriberFunc) Subscribe(name string, h domoutbox.Handler) { f(name, h) }

func TestAuditWorkerLogsLifecycle(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	tel := infraobs.New(observability.NopTracer(), zaplogger.New(zap.New(core)), nil, nil)

	handlers := map[string]domoutbox.Handler{}
	wrapped := 0
	w := NewAuditWorker(subscriberFunc(func(name string, h domoutbox.Handler) { handlers[name] = h }), tel)
	w.Start(func(h domoutbox.Handler) domoutbox.Handler {
		wrapped++
		return h
	})
	require.Len(t, handlers, 2)
	assert.Equal(t, 2, wrapped)

	req := &domain.PurchaseRequest{ID: 5, ItemID: 1, UserID: "alice@um6p.ma", Quantity: 2, Urgency: domain.UrgencyHigh, Status: domain.StatusPending}
	ctx := context.Background()
	require.NoError(t, handlers["request.submitted"](ctx, domain.NewSubmittedEvent(req)))
	req.Status = domain.StatusRejected
	require.NoError(t, handlers["request.resolved"](ctx, domain.NewResolvedEvent(req, "admin@um6p.ma")))

	audits := logs.FilterMessage("request_audit").All()
	require.Len(t, audits, 2)
	assert.Equal(t, "submitted", audits[0].ContextMap()["action"])
	assert.Equal(t, "rejected", audits[1].ContextMap()["action"])
	assert.Equal(t, "admin@um6p.ma", audits[1].ContextMap()["resolved_by"])
	assert.Equal(t, "request.worker.resolved", audits[1].ContextMap()["use_case"])
}
