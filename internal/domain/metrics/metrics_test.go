package metrics

import (
	"testing"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func products(qty ...int) []*catalog.Product {
	out := make([]*catalog.Product, 0, len(qty))
	for i, q := range qty {
		out = append(out, &catalog.Product{ID: int64(i + 1), Quantity: q})
	}
	return out
}

func requests(itemIDs ...int64) []*request.PurchaseRequest {
	out := make([]*request.PurchaseRequest, 0, len(itemIDs))
	for i, id := range itemIDs {
		out = append(out, &request.PurchaseRequest{ID: int64(100 + i), ItemID: id, Status: request.StatusPending})
	}
	return out
}

func TestMostRequestedItem(t *testing.T) {
	s := Compute(requests(1, 1, 2), products(5, 15))
	require.NotNil(t, s.MostRequestedItem)
	assert.Equal(t, int64(1), s.MostRequestedItem.ID)
}

func TestMostRequestedTieGoesToFirstSeen(t *testing.T) {
	s := Compute(requests(2, 1, 1, 2), products(20, 20))
	require.NotNil(t, s.MostRequestedItem)
	assert.Equal(t, int64(2), s.MostRequestedItem.ID)
}

func TestMostRequestedDanglingIsNil(t *testing.T) {
	s := Compute(requests(9, 9, 1), products(20))
	assert.Nil(t, s.MostRequestedItem)

	s = Compute(nil, products(20))
	assert.Nil(t, s.MostRequestedItem)
}

func TestLowStockItems(t *testing.T) {
	s := Compute(nil, products(5, 15, 10))
	require.Len(t, s.LowStockItems, 2)
	assert.Equal(t, int64(1), s.LowStockItems[0].ID)
	assert.Equal(t, int64(3), s.LowStockItems[1].ID)

	s = Compute(nil, products(50))
	assert.NotNil(t, s.LowStockItems)
	assert.Empty(t, s.LowStockItems)
}

func TestStatusCounts(t *testing.T) {
	rs := requests(1, 1, 1, 1)
	rs[0].Status = request.StatusAccepted
	rs[1].Status = request.StatusRejected
	rs[2].Status = request.StatusAccepted

	s := Compute(rs, nil)
	assert.Equal(t, 4, s.TotalRequests)
	assert.Equal(t, 2, s.Accepted)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 1, s.Pending)
}

func TestComputeReturnsCopies(t *testing.T) {
	ps := products(3)
	s := Compute(requests(1), ps)
	s.LowStockItems[0].Quantity = 99
	s.MostRequestedItem.Quantity = 42
	assert.Equal(t, 3, ps[0].Quantity)
}

func TestByRequester(t *testing.T) {
	rs := requests(1, 1, 2, 1)
	rs[0].UserID = "bob@um6p.ma"
	rs[1].UserID = "alice@um6p.ma"
	rs[1].Status = request.StatusAccepted
	rs[2].UserID = "bob@um6p.ma"
	rs[2].Status = request.StatusRejected
	rs[3].UserID = "alice@um6p.ma"

	got := ByRequester(rs)
	assert.Equal(t, []RequesterSummary{
		{UserID: "bob@um6p.ma", Total: 2, Pending: 1, Rejected: 1},
		{UserID: "alice@um6p.ma", Total: 2, Accepted: 1, Pending: 1},
	}, got)

	assert.NotNil(t, ByRequester(nil))
	assert.Empty(t, ByRequester(nil))
}
