// Package inventory holds the stock rule applied when a purchase request is accepted.
package inventory

import (
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
)

// LowStockThreshold is the quantity at or below which a product counts as low stock.
const LowStockThreshold = 10

// IsLowStock reports whether p is at or below the threshold.
func IsLowStock(p *catalog.Product) bool {
	return p != nil && p.Quantity <= LowStockThreshold
}

// Deduction is the outcome of applying an acceptance to a product.
type Deduction struct {
	Before int
	After  int
}

// CrossedLowStock reports a transition from healthy stock into low stock.
func (d Deduction) CrossedLowStock() bool {
	return d.Before > LowStockThreshold && d.After <= LowStockThreshold
}

// Deduct lowers p's quantity by requested, clamping at zero. A nil product
// (the request points at a deleted item) is skipped and reports ok=false.
func Deduct(p *catalog.Product, requested int) (_ Deduction, ok bool) {
	if p == nil {
		return Deduction{}, false
	}
	d := Deduction{Before: p.Quantity}
	p.Quantity = max(0, p.Quantity-requested)
	d.After = p.Quantity
	return d, true
}
