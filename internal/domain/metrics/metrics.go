// Package metrics projects the request and catalog collections into dashboard figures.
package metrics

import (
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/inventory"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
)

type Summary struct {
	TotalRequests     int                `json:"totalRequests"`
	Accepted          int                `json:"accepted"`
	Rejected          int                `json:"rejected"`
	Pending           int                `json:"pending"`
	MostRequestedItem *catalog.Product   `json:"mostRequestedItem"`
	LowStockItems     []*catalog.Product `json:"lowStockItems"`
}

// Compute is recomputed on every call; nothing is cached.
//
// The most requested item is the product referenced by the most requests.
// Ties go to the item first seen while scanning requests in store order. When
// that item no longer exists in the catalog MostRequestedItem is nil.
func Compute(requests []*request.PurchaseRequest, products []*catalog.Product) Summary {
	s := Summary{
		TotalRequests: len(requests),
		LowStockItems: []*catalog.Product{},
	}

	counts := make(map[int64]int, len(requests))
	order := make([]int64, 0, len(requests))
	for _, r := range requests {
		switch r.Status {
		case request.StatusAccepted:
			s.Accepted++
		case request.StatusRejected:
			s.Rejected++
		case request.StatusPending:
			s.Pending++
		}
		if _, seen := counts[r.ItemID]; !seen {
			order = append(order, r.ItemID)
		}
		counts[r.ItemID]++
	}

	var topID int64
	top := 0
	for _, id := range order {
		if counts[id] > top {
			topID, top = id, counts[id]
		}
	}

	for _, p := range products {
		if top > 0 && p.ID == topID {
			s.MostRequestedItem = p.Clone()
		}
		if inventory.IsLowStock(p) {
			s.LowStockItems = append(s.LowStockItems, p.Clone())
		}
	}
	return s
}

// RequesterSummary is one requester's share of the request history.
type RequesterSummary struct {
	UserID   string `json:"userId"`
	Total    int    `json:"total"`
	Accepted int    `json:"accepted"`
	Pending  int    `json:"pending"`
	Rejected int    `json:"rejected"`
}

// ByRequester groups requests per requester, in order of each requester's
// first request.
func ByRequester(requests []*request.PurchaseRequest) []RequesterSummary {
	out := []RequesterSummary{}
	index := make(map[string]int)
	for _, r := range requests {
		i, seen := index[r.UserID]
		if !seen {
			i = len(out)
			index[r.UserID] = i
			out = append(out, RequesterSummary{UserID: r.UserID})
		}
		row := &out[i]
		row.Total++
		switch r.Status {
		case request.StatusAccepted:
			row.Accepted++
		case request.StatusPending:
			row.Pending++
		case request.StatusRejected:
			row.Rejected++
		}
	}
	return out
}
