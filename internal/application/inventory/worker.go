// Package inventory reacts to stock events raised by request resolution.
package inventory

import (
	"context"

	"github.com/Zhima-Mochi/procurement-portal/internal/application"
	dominventory "github.com/Zhima-Mochi/procurement-portal/internal/domain/inventory"
	domoutbox "github.com/Zhima-Mochi/procurement-portal/internal/domain/outbox"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	workerService   = "stock-alert-worker"
	useCaseLowStock = "inventory.worker.low_stock"
)

// AlertWorker raises a warning and counts low-stock alerts per category.
type AlertWorker struct {
	subscriber domoutbox.Subscriber
	inst       *application.Instrument
	alerts     observability.Counter // inventory_low_stock_alerts_total{category}
}

func NewAlertWorker(subscriber domoutbox.Subscriber, tel observability.Observability) *AlertWorker {
	if tel == nil {
		tel = observability.Nop()
	}
	return &AlertWorker{
		subscriber: subscriber,
		inst:       application.NewInstrument(tel, workerService),
		alerts:     tel.Metrics().Counter(observability.MLowStockAlerts),
	}
}

func (w *AlertWorker) Start(mws ...domoutbox.Middleware) {
	if w.subscriber == nil {
		return
	}
	w.subscriber.Subscribe(dominventory.LowStockEvent{}.EventName(), domoutbox.Apply(w.HandleLowStock, mws...))
}

func (w *AlertWorker) HandleLowStock(ctx context.Context, e domoutbox.Event) (err error) {
	evt, ok := e.(dominventory.LowStockEvent)
	ctx, call := w.inst.Start(ctx, useCaseLowStock, "LowStockAlert",
		attribute.String("event", e.EventName()),
	)
	defer func() { call.End(err) }()
	if !ok {
		call.Status("IGNORED")
		return nil
	}

	call.Span().SetAttributes(
		attribute.Int64("catalog.product_id", evt.ProductID),
		attribute.Int("inventory.quantity", evt.Quantity),
	)
	w.alerts.Add(1, observability.L("category", string(evt.Category)))
	call.Logger().Warn("low_stock_alert",
		observability.F("product_id", evt.ProductID),
		observability.F("product_name", evt.Name),
		observability.F("category", string(evt.Category)),
		observability.F("quantity", evt.Quantity),
		observability.F("threshold", evt.Threshold),
		observability.F("request_id", evt.RequestID),
	)
	return ctx.Err()
}
