package inventory

import (
	"time"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
)

// LowStockEvent is emitted when an acceptance moves a product into low stock.
type LowStockEvent struct {
	ProductID  int64
	Name       string
	Category   catalog.Category
	Quantity   int
	Threshold  int
	RequestID  int64
	OccurredAt time.Time
}

func (LowStockEvent) EventName() string { return "inventory.low_stock" }

func NewLowStockEvent(p *catalog.Product, requestID int64) LowStockEvent {
	return LowStockEvent{
		ProductID:  p.ID,
		Name:       p.Name,
		Category:   p.Category,
		Quantity:   p.Quantity,
		Threshold:  LowStockThreshold,
		RequestID:  requestID,
		OccurredAt: time.Now().UTC(),
	}
}
