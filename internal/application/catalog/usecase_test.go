package catalog

import (
	"context"
	"testing"
	"time"

	"github.com/Zhima-Mochi/procurement-portal/internal/application"
	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/id"
	"github.com/Zhima-Mochi/procurement-portal/internal/infrastructure/memory"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var (
	admin = identity.Identity{ID: "admin@um6p.ma", Role: identity.RoleAdmin}
	user  = identity.Identity{ID: "alice@um6p.ma", Role: identity.RoleUser}
)

func newService() *Service {
	store := memory.NewStore()
	return NewService(store.Products(), store, id.NewSequence(), observability.Nop())
}

func printer() AddProductCommand {
	return AddProductCommand{
		Actor:         admin,
		Name:          "HP LaserJet Pro",
		Category:      domain.CategoryPrinters,
		Price:         decimal.NewFromInt(5000),
		Quantity:      15,
		Description:   "Professional grade laser printer",
		ConfigOptions: domain.ConfigOptions{"warranty": true},
	}
}

func TestAddProductAssignsIncreasingIDs(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	first, err := svc.AddProduct(ctx, printer())
	require.NoError(t, err)
	second, err := svc.AddProduct(ctx, printer())
	require.NoError(t, err)

	assert.Greater(t, second.ID, first.ID)
	assert.InDelta(t, time.Now().UnixMilli(), first.ID, float64(time.Minute.Milliseconds()))

	list, err := svc.ListProducts(ctx, ListProductsQuery{Actor: user})
	require.NoError(t, err)
	require.Len(t, list, 2)
	assert.Equal(t, first.ID, list[0].ID)
}

func TestAddProductRules(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	cmd := printer()
	cmd.Actor = user
	_, err := svc.AddProduct(ctx, cmd)
	assert.ErrorIs(t, err, identity.ErrForbidden)

	cmd = printer()
	cmd.Name = " "
	_, err = svc.AddProduct(ctx, cmd)
	assert.ErrorIs(t, err, application.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrNameRequired)

	cmd = printer()
	cmd.Quantity = -1
	_, err = svc.AddProduct(ctx, cmd)
	assert.ErrorIs(t, err, domain.ErrNegativeQuantity)

	cmd = printer()
	cmd.Category = "Furniture"
	_, err = svc.AddProduct(ctx, cmd)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)

	list, err := svc.ListProducts(ctx, ListProductsQuery{Actor: admin})
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestUpdateProductReplacesWholeRecord(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	p, err := svc.AddProduct(ctx, printer())
	require.NoError(t, err)

	next := *p
	next.Name = "HP LaserJet Pro MFP"
	next.Quantity = 3
	next.ConfigOptions = nil
	updated, err := svc.UpdateProduct(ctx, UpdateProductCommand{Actor: admin, Product: next})
	require.NoError(t, err)
	assert.Equal(t, "HP LaserJet Pro MFP", updated.Name)
	assert.Empty(t, updated.ConfigOptions)

	list, err := svc.ListProducts(ctx, ListProductsQuery{Actor: admin})
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, 3, list[0].Quantity)
	assert.NotContains(t, list[0].ConfigOptions, "warranty")
}

func TestUpdateProductErrors(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	p, err := svc.AddProduct(ctx, printer())
	require.NoError(t, err)

	moved := *p
	moved.Category = domain.CategoryHardware
	_, err = svc.UpdateProduct(ctx, UpdateProductCommand{Actor: admin, Product: moved})
	assert.ErrorIs(t, err, domain.ErrCategoryChanged)
	assert.ErrorIs(t, err, application.ErrValidation)

	ghost := *p
	ghost.ID = p.ID + 1000
	_, err = svc.UpdateProduct(ctx, UpdateProductCommand{Actor: admin, Product: ghost})
	assert.ErrorIs(t, err, domain.ErrNotFound)

	_, err = svc.UpdateProduct(ctx, UpdateProductCommand{Actor: user, Product: *p})
	assert.ErrorIs(t, err, identity.ErrForbidden)
}

func TestDeleteProduct(t *testing.T) {
	svc := newService()
	ctx := context.Background()
	p, err := svc.AddProduct(ctx, printer())
	require.NoError(t, err)

	assert.ErrorIs(t, svc.DeleteProduct(ctx, DeleteProductCommand{Actor: user, ID: p.ID}), identity.ErrForbidden)
	require.NoError(t, svc.DeleteProduct(ctx, DeleteProductCommand{Actor: admin, ID: p.ID}))
	assert.ErrorIs(t, svc.DeleteProduct(ctx, DeleteProductCommand{Actor: admin, ID: p.ID}), domain.ErrNotFound)

	_, err = svc.ListProducts(ctx, ListProductsQuery{})
	assert.ErrorIs(t, err, identity.ErrUnauthenticated)
}

func TestListProductsFilters(t *testing.T) {
	svc := newService()
	ctx := context.Background()

	hp, err := svc.AddProduct(ctx, printer())
	require.NoError(t, err)
	laptop := printer()
	laptop.Name = "Dell XPS 15"
	laptop.Category = domain.CategoryHardware
	laptop.Description = "High-performance laptop for developers"
	xps, err := svc.AddProduct(ctx, laptop)
	require.NoError(t, err)

	ids := func(q ListProductsQuery) []int64 {
		t.Helper()
		q.Actor = user
		list, err := svc.ListProducts(ctx, q)
		require.NoError(t, err)
		out := make([]int64, 0, len(list))
		for _, p := range list {
			out = append(out, p.ID)
		}
		return out
	}

	assert.Equal(t, []int64{hp.ID, xps.ID}, ids(ListProductsQuery{}))
	assert.Equal(t, []int64{xps.ID}, ids(ListProductsQuery{Filter: domain.Filter{Category: domain.CategoryHardware}}))
	assert.Equal(t, []int64{xps.ID}, ids(ListProductsQuery{Filter: domain.Filter{Search: "XPS"}}))
	assert.Equal(t, []int64{hp.ID}, ids(ListProductsQuery{Filter: domain.Filter{Search: "laser"}}))
	assert.Equal(t, []int64{hp.ID}, ids(ListProductsQuery{Filter: domain.Filter{Search: "printers"}}))
	assert.Empty(t, ids(ListProductsQuery{Filter: domain.Filter{Search: "laptop", Category: domain.CategoryPrinters}}))

	_, err = svc.ListProducts(ctx, ListProductsQuery{Actor: user, Filter: domain.Filter{Category: "Furniture"}})
	assert.ErrorIs(t, err, application.ErrValidation)
	assert.ErrorIs(t, err, domain.ErrInvalidCategory)
}
