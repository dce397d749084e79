package metrics

import (
	"context"
	"testing"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSummary(t *testing.T) {
	store := memory.NewStore()
	store.Restore(memory.Snapshot{
		Products: []*catalog.Product{
			{ID: 1, Name: "A", Category: catalog.CategorySoftware, Price: decimal.NewFromInt(1), Quantity: 5, Description: "a"},
			{ID: 2, Name: "B", Category: catalog.CategoryPrinters, Price: decimal.NewFromInt(1), Quantity: 15, Description: "b"},
		},
		Requests: []*request.PurchaseRequest{
			{ID: 10, ItemID: 1, Status: request.StatusAccepted},
			{ID: 11, ItemID: 1, Status: request.StatusPending},
			{ID: 12, ItemID: 2, Status: request.StatusRejected},
		},
	})
	svc := NewService(store.Products(), store.Requests(), store, observability.Nop())
	ctx := context.Background()

	s, err := svc.Summary(ctx, identity.Identity{ID: "admin@um6p.ma", Role: identity.RoleAdmin})
	require.NoError(t, err)
	assert.Equal(t, 3, s.TotalRequests)
	assert.Equal(t, 1, s.Accepted)
	assert.Equal(t, 1, s.Rejected)
	assert.Equal(t, 1, s.Pending)
	require.NotNil(t, s.MostRequestedItem)
	assert.Equal(t, int64(1), s.MostRequestedItem.ID)
	require.Len(t, s.LowStockItems, 1)
	assert.Equal(t, int64(1), s.LowStockItems[0].ID)

	_, err = svc.Summary(ctx, identity.Identity{ID: "alice@um6p.ma", Role: identity.RoleUser})
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestByRequester(t *testing.T) {
	store := memory.NewStore()
	store.Restore(memory.Snapshot{
		Requests: []*request.PurchaseRequest{
			{ID: 10, ItemID: 1, UserID: "alice@um6p.ma", Status: request.StatusAccepted},
			{ID: 11, ItemID: 1, UserID: "bob@um6p.ma", Status: request.StatusPending},
			{ID: 12, ItemID: 2, UserID: "alice@um6p.ma", Status: request.StatusRejected},
		},
	})
	svc := NewService(store.Products(), store.Requests(), store, observability.Nop())
	ctx := context.Background()

	rows, err := svc.ByRequester(ctx, identity.Identity{ID: "admin@um6p.ma", Role: identity.RoleAdmin})
	require.NoError(t, err)
	require.Len(t, rows, 2)
	assert.Equal(t, "alice@um6p.ma", rows[0].UserID)
	assert.Equal(t, 2, rows[0].Total)
	assert.Equal(t, 1, rows[0].Accepted)
	assert.Equal(t, 1, rows[0].Rejected)
	assert.Equal(t, "bob@um6p.ma", rows[1].UserID)
	assert.Equal(t, 1, rows[1].Pending)

	_, err = svc.ByRequester(ctx, identity.Identity{ID: "alice@um6p.ma", Role: identity.RoleUser})
	assert.ErrorIs(t, err, identity.ErrForbidden)
	_, err = svc.ByRequester(ctx, identity.Identity{})
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}
