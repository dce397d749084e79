package request

import (
	"context"

	"github.com/Zhima-Mochi/procurement-portal/internal/application"
	domoutbox "github.com/Zhima-Mochi/procurement-portal/internal/domain/outbox"
	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	auditWorkerService = "request-audit-worker"

	useCaseAuditSubmitted = "request.worker.submitted"
	useCaseAuditResolved  = "request.worker.resolved"
)

// AuditWorker writes one structured audit line per lifecycle event.
type AuditWorker struct {
	subscriber domoutbox.Subscriber
	inst       *application.Instrument
}

func NewAuditWorker(subscriber domoutbox.Subscriber, tel observability.Observability) *AuditWorker {
	return &AuditWorker{
		subscriber: subscriber,
		inst:       application.NewInstrument(tel, auditWorkerService),
	}
}

// Start subscribes both handlers, each decorated by mws.
func (w *AuditWorker) Start(mws ...domoutbox.Middleware) {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(domain.SubmittedEvent{}.EventName(), domoutbox.Apply(w.HandleSubmitted, mws...))
	w.subscriber.Subscribe(domain.ResolvedEvent{}.EventName(), domoutbox.Apply(w.HandleResolved, mws...))
}

func (w *AuditWorker) HandleSubmitted(ctx context.Context, e domoutbox.Event) (err error) {
	evt, ok := e.(domain.SubmittedEvent)
	ctx, call := w.inst.Start(ctx, useCaseAuditSubmitted, "AuditRequestSubmitted",
		attribute.String("event", e.EventName()),
	)
	defer func() { call.End(err) }()
	if !ok {
		call.Status("IGNORED")
		return nil
	}

	call.Logger().Info("request_audit",
		observability.F("action", "submitted"),
		observability.F("request_id", evt.RequestID),
		observability.F("item_id", evt.ItemID),
		observability.F("user_id", evt.UserID),
		observability.F("quantity", evt.Quantity),
		observability.F("urgency", string(evt.Urgency)),
		observability.F("occurred_at", evt.OccurredAt),
	)
	return ctx.Err()
}

func (w *AuditWorker) HandleResolved(ctx context.Context, e domoutbox.Event) (err error) {
	evt, ok := e.(domain.ResolvedEvent)
	ctx, call := w.inst.Start(ctx, useCaseAuditResolved, "AuditRequestResolved",
		attribute.String("event", e.EventName()),
	)
	defer func() { call.End(err) }()
	if !ok {
		call.Status("IGNORED")
		return nil
	}

	call.Logger().Info("request_audit",
		observability.F("action", string(evt.Status)),
		observability.F("request_id", evt.RequestID),
		observability.F("item_id", evt.ItemID),
		observability.F("user_id", evt.UserID),
		observability.F("resolved_by", evt.ResolvedBy),
		observability.F("occurred_at", evt.OccurredAt),
	)
	return ctx.Err()
}
