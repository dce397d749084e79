// Package metrics serves the admin dashboard figures.
package metrics

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/procurement-portal/internal/application"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/metrics"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
)

const (
	metricsService     = "metrics-service"
	useCaseSummary     = "metrics.summary"
	useCaseByRequester = "metrics.by_requester"
)

var ErrRepository = errors.New("metrics: repository failure")

type Service struct {
	products catalog.Repository
	requests request.Repository
	tx       application.Transactor
	inst     *application.Instrument
}

func NewService(products catalog.Repository, requests request.Repository, tx application.Transactor, tel observability.Observability) *Service {
	return &Service{
		products: products,
		requests: requests,
		tx:       tx,
		inst:     application.NewInstrument(tel, metricsService),
	}
}

// Summary recomputes the dashboard from one consistent view of both collections.
func (s *Service) Summary(ctx context.Context, actor identity.Identity) (_ *domain.Summary, err error) {
	ctx, call := s.inst.Start(ctx, useCaseSummary, "MetricsSummary")
	defer func() { call.End(err) }()

	if err := identity.RequireAdmin(actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}

	var (
		requests []*request.PurchaseRequest
		products []*catalog.Product
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		var err error
		if requests, err = s.requests.List(ctx); err != nil {
			return err
		}
		products, err = s.products.List(ctx)
		return err
	})
	if err != nil {
		call.Fail("REPO_LIST_FAILED")
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}

	summary := domain.Compute(requests, products)
	call.Field("total_requests", summary.TotalRequests)
	call.Field("low_stock_items", len(summary.LowStockItems))
	return &summary, nil
}

// ByRequester breaks the request history down per requester for the admin panel.
func (s *Service) ByRequester(ctx context.Context, actor identity.Identity) (_ []domain.RequesterSummary, err error) {
	ctx, call := s.inst.Start(ctx, useCaseByRequester, "MetricsByRequester")
	defer func() { call.End(err) }()

	if err := identity.RequireAdmin(actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}
	requests, err := s.requests.List(ctx)
	if err != nil {
		call.Fail("REPO_LIST_FAILED")
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	rows := domain.ByRequester(requests)
	call.Field("requesters", len(rows))
	return rows, nil
}
