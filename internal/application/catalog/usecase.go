// Package catalog holds the product management use cases.
package catalog

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/procurement-portal/internal/application"
	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"
	"github.com/shopspring/decimal"

	"go.opentelemetry.io/otel/attribute"
)

const (
	catalogService = "catalog-service"

	useCaseAdd    = "catalog.add_product"
	useCaseUpdate = "catalog.update_product"
	useCaseDelete = "catalog.delete_product"
	useCaseList   = "catalog.list_products"
)

var ErrRepository = errors.New("catalog: repository failure")

// Service groups the catalog use cases. Every write requires an admin actor.
type Service struct {
	repo        domain.Repository
	tx          application.Transactor
	idGenerator application.IDGenerator
	inst        *application.Instrument
}

func NewService(repo domain.Repository, tx application.Transactor, idGen application.IDGenerator, tel observability.Observability) *Service {
	return &Service{
		repo:        repo,
		tx:          tx,
		idGenerator: idGen,
		inst:        application.NewInstrument(tel, catalogService),
	}
}

type AddProductCommand struct {
	Actor         identity.Identity
	Name          string
	Category      domain.Category
	Price         decimal.Decimal
	Quantity      int
	Description   string
	ConfigOptions domain.ConfigOptions
}

// AddProduct stores a new product under a fresh id.
func (s *Service) AddProduct(ctx context.Context, cmd AddProductCommand) (_ *domain.Product, err error) {
	ctx, call := s.inst.Start(ctx, useCaseAdd, "AddProduct",
		attribute.String("catalog.category", string(cmd.Category)),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireAdmin(cmd.Actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}

	p := &domain.Product{
		ID:            s.idGenerator.NewID(),
		Name:          cmd.Name,
		Category:      cmd.Category,
		Price:         cmd.Price,
		Quantity:      cmd.Quantity,
		Description:   cmd.Description,
		ConfigOptions: cmd.ConfigOptions,
	}
	if p.ConfigOptions == nil {
		p.ConfigOptions = domain.ConfigOptions{}
	}
	if err := p.Validate(); err != nil {
		call.Fail("PRODUCT_INVALID")
		return nil, application.Invalid(err)
	}
	if err := s.repo.Insert(ctx, p); err != nil {
		call.Fail("REPO_INSERT_FAILED")
		return nil, wrapRepositoryError(err)
	}

	call.Field("product_id", p.ID)
	call.Span().SetAttributes(attribute.Int64("catalog.product_id", p.ID))
	return p, nil
}

type UpdateProductCommand struct {
	Actor   identity.Identity
	Product domain.Product
}

// UpdateProduct fully replaces an existing product. The category is fixed at creation.
func (s *Service) UpdateProduct(ctx context.Context, cmd UpdateProductCommand) (_ *domain.Product, err error) {
	ctx, call := s.inst.Start(ctx, useCaseUpdate, "UpdateProduct",
		attribute.Int64("catalog.product_id", cmd.Product.ID),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireAdmin(cmd.Actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}

	next := cmd.Product.Clone()
	if next.ConfigOptions == nil {
		next.ConfigOptions = domain.ConfigOptions{}
	}
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		current, err := s.repo.Get(ctx, next.ID)
		if err != nil {
			call.Fail("PRODUCT_LOAD_FAILED")
			return wrapRepositoryError(err)
		}
		if err := current.Replace(next); err != nil {
			call.Fail("PRODUCT_INVALID")
			return application.Invalid(err)
		}
		if err := s.repo.Update(ctx, next); err != nil {
			call.Fail("REPO_UPDATE_FAILED")
			return wrapRepositoryError(err)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	call.Field("product_id", next.ID)
	return next, nil
}

type DeleteProductCommand struct {
	Actor identity.Identity
	ID    int64
}

// DeleteProduct removes a product. Requests that reference it keep their id.
func (s *Service) DeleteProduct(ctx context.Context, cmd DeleteProductCommand) (err error) {
	ctx, call := s.inst.Start(ctx, useCaseDelete, "DeleteProduct",
		attribute.Int64("catalog.product_id", cmd.ID),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireAdmin(cmd.Actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return err
	}
	if err := s.repo.Delete(ctx, cmd.ID); err != nil {
		call.Fail("REPO_DELETE_FAILED")
		return wrapRepositoryError(err)
	}
	call.Field("product_id", cmd.ID)
	return nil
}

type ListProductsQuery struct {
	Actor  identity.Identity
	Filter domain.Filter
}

// ListProducts returns the catalog in insertion order to any signed-in user,
// narrowed by the optional search term and category.
func (s *Service) ListProducts(ctx context.Context, q ListProductsQuery) (_ []*domain.Product, err error) {
	ctx, call := s.inst.Start(ctx, useCaseList, "ListProducts",
		attribute.String("catalog.category_filter", string(q.Filter.Category)),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireUser(q.Actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}
	if err := q.Filter.Validate(); err != nil {
		call.Fail("FILTER_INVALID")
		return nil, application.Invalid(err)
	}
	products, err := s.repo.List(ctx)
	if err != nil {
		call.Fail("REPO_LIST_FAILED")
		return nil, wrapRepositoryError(err)
	}
	out := make([]*domain.Product, 0, len(products))
	for _, p := range products {
		if q.Filter.Matches(p) {
			out = append(out, p)
		}
	}
	call.Field("count", len(out))
	return out, nil
}

func wrapRepositoryError(err error) error {
	if err == nil || errors.Is(err, domain.ErrNotFound) {
		return err
	}
	return fmt.Errorf("%w: %w", ErrRepository, err)
}
