// Package request runs the purchase request lifecycle: submission, admin
// resolution with stock deduction, and the scoped history view.
package request

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/Zhima-Mochi/procurement-portal/internal/application"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/inventory"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/notification"
	domoutbox "github.com/Zhima-Mochi/procurement-portal/internal/domain/outbox"
	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	requestService = "request-service"

	useCaseSubmit       = "request.submit"
	useCaseUpdateStatus = "request.update_status"
	useCaseList         = "request.list"
)

var ErrRepository = errors.New("request: repository failure")

// Repositories bundles the stores a request workflow touches.
type Repositories struct {
	Products      catalog.Repository
	Requests      domain.Repository
	Notifications notification.Repository
}

type Service struct {
	repos       Repositories
	tx          application.Transactor
	idGenerator application.IDGenerator
	publisher   domoutbox.Publisher
	now         func() time.Time
	inst        *application.Instrument
}

type Option func(*Service)

// WithClock replaces time.Now, for tests.
func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

func NewService(
	repos Repositories,
	tx application.Transactor,
	idGen application.IDGenerator,
	publisher domoutbox.Publisher,
	tel observability.Observability,
	opts ...Option,
) *Service {
	s := &Service{
		repos:       repos,
		tx:          tx,
		idGenerator: idGen,
		publisher:   publisher,
		now:         time.Now,
		inst:        application.NewInstrument(tel, requestService),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type SubmitCommand struct {
	Actor         identity.Identity
	ItemID        int64
	Quantity      int
	Configuration catalog.Configuration
	Urgency       domain.Urgency
	Justification string
}

// Submit stores a pending request for the actor and notifies the admins.
// Nothing is stored when any check fails.
func (s *Service) Submit(ctx context.Context, cmd SubmitCommand) (_ *domain.PurchaseRequest, err error) {
	ctx, call := s.inst.Start(ctx, useCaseSubmit, "SubmitRequest",
		attribute.Int64("request.item_id", cmd.ItemID),
		attribute.Int("request.quantity", cmd.Quantity),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireUser(cmd.Actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}

	draft := domain.Draft{
		ItemID:        cmd.ItemID,
		UserID:        cmd.Actor.ID,
		Quantity:      cmd.Quantity,
		Configuration: cmd.Configuration,
		Urgency:       cmd.Urgency,
		Justification: cmd.Justification,
	}
	if err := draft.Validate(); err != nil {
		call.Fail("REQUEST_INVALID")
		return nil, application.Invalid(err)
	}

	var created *domain.PurchaseRequest
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		product, err := s.repos.Products.Get(ctx, cmd.ItemID)
		if err != nil && !errors.Is(err, catalog.ErrNotFound) {
			call.Fail("PRODUCT_LOAD_FAILED")
			return wrapRepositoryError(err)
		}

		now := s.now()
		req, err := domain.New(s.idGenerator.NewID(), draft, product, now)
		if err != nil {
			call.Fail("REQUEST_INVALID")
			return application.Invalid(err)
		}
		if err := s.repos.Requests.Insert(ctx, req); err != nil {
			call.Fail("REPO_INSERT_FAILED")
			return wrapRepositoryError(err)
		}

		n := notification.ForAdmins(s.idGenerator.NewID(),
			notification.RequestSubmittedMessage(req.UserID), notification.LinkAdmin, now)
		if err := s.repos.Notifications.Insert(ctx, n); err != nil {
			call.Fail("NOTIFY_FAILED")
			return wrapRepositoryError(err)
		}
		created = req
		return nil
	})
	if err != nil {
		return nil, err
	}

	call.Field("request_id", created.ID)
	call.Span().SetAttributes(
		attribute.Int64("request.id", created.ID),
		attribute.String("request.total_price", created.TotalPrice.String()),
	)
	_ = call.Publish(ctx, s.publisher, domain.NewSubmittedEvent(created))
	return created, nil
}

type UpdateStatusCommand struct {
	Actor     identity.Identity
	RequestID int64
	Status    domain.Status
}

// UpdateStatusResult reports what a resolution changed.
type UpdateStatusResult struct {
	Request *domain.PurchaseRequest
	// Product is the item after deduction; nil when nothing was deducted.
	Product      *catalog.Product
	Notification *notification.Notification
}

// UpdateStatus accepts or rejects a pending request. Acceptance deducts the
// requested quantity from the item, clamped at zero, in the same transaction.
// Exactly one notification goes to the requester.
func (s *Service) UpdateStatus(ctx context.Context, cmd UpdateStatusCommand) (_ *UpdateStatusResult, err error) {
	ctx, call := s.inst.Start(ctx, useCaseUpdateStatus, "UpdateRequestStatus",
		attribute.Int64("request.id", cmd.RequestID),
		attribute.String("request.status", string(cmd.Status)),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireAdmin(cmd.Actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}
	if cmd.Status != domain.StatusAccepted && cmd.Status != domain.StatusRejected {
		call.Fail("STATUS_INVALID")
		return nil, application.Invalid(fmt.Errorf("%w: %q", domain.ErrInvalidStatus, cmd.Status))
	}

	var (
		result   UpdateStatusResult
		crossed  bool
		lowStock *catalog.Product
	)
	err = s.tx.WithTransaction(ctx, func(ctx context.Context) error {
		req, err := s.repos.Requests.Get(ctx, cmd.RequestID)
		if err != nil {
			call.Fail("REQUEST_LOAD_FAILED")
			return wrapRepositoryError(err)
		}
		if err := req.Resolve(cmd.Status); err != nil {
			if errors.Is(err, domain.ErrAlreadyResolved) {
				call.Fail("ALREADY_RESOLVED")
				return err
			}
			call.Fail("STATUS_INVALID")
			return application.Invalid(err)
		}

		product, err := s.repos.Products.Get(ctx, req.ItemID)
		switch {
		case errors.Is(err, catalog.ErrNotFound):
			product = nil
		case err != nil:
			call.Fail("PRODUCT_LOAD_FAILED")
			return wrapRepositoryError(err)
		}

		if req.Status == domain.StatusAccepted {
			if d, ok := inventory.Deduct(product, req.Quantity); ok {
				if err := s.repos.Products.Update(ctx, product); err != nil {
					call.Fail("REPO_UPDATE_FAILED")
					return wrapRepositoryError(err)
				}
				result.Product = product.Clone()
				call.Field("stock_after", d.After)
				if d.CrossedLowStock() {
					crossed, lowStock = true, product.Clone()
				}
			}
		}

		if err := s.repos.Requests.Update(ctx, req); err != nil {
			call.Fail("REPO_UPDATE_FAILED")
			return wrapRepositoryError(err)
		}

		itemName := ""
		if product != nil {
			itemName = product.Name
		}
		n := notification.ForUser(s.idGenerator.NewID(), req.UserID,
			notification.RequestResolvedMessage(itemName, string(req.Status)), notification.LinkHistory, s.now())
		if err := s.repos.Notifications.Insert(ctx, n); err != nil {
			call.Fail("NOTIFY_FAILED")
			return wrapRepositoryError(err)
		}

		result.Request = req
		result.Notification = n
		return nil
	})
	if err != nil {
		return nil, err
	}

	call.Field("request_id", result.Request.ID)
	call.Field("request_status", string(result.Request.Status))
	_ = call.Publish(ctx, s.publisher, domain.NewResolvedEvent(result.Request, cmd.Actor.ID))
	if crossed {
		_ = call.Publish(ctx, s.publisher, inventory.NewLowStockEvent(lowStock, result.Request.ID))
	}
	return &result, nil
}

type ListQuery struct {
	Actor identity.Identity
	// Status filters the history when set.
	Status domain.Status
	// UserID narrows an admin's view to one requester. Users may only name themselves.
	UserID string
}

// List returns every request to admins and only their own to users, in submission order.
func (s *Service) List(ctx context.Context, q ListQuery) (_ []*domain.PurchaseRequest, err error) {
	ctx, call := s.inst.Start(ctx, useCaseList, "ListRequests",
		attribute.String("request.status_filter", string(q.Status)),
		attribute.Bool("request.user_filter", q.UserID != ""),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireUser(q.Actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}
	if q.UserID != "" && !q.Actor.IsAdmin() && q.UserID != q.Actor.ID {
		call.Fail(application.AuthStatus(identity.ErrForbidden))
		return nil, identity.ErrForbidden
	}
	if q.Status != "" && !q.Status.Valid() {
		call.Fail("STATUS_INVALID")
		return nil, application.Invalid(fmt.Errorf("%w: %q", domain.ErrInvalidStatus, q.Status))
	}

	all, err := s.repos.Requests.List(ctx)
	if err != nil {
		call.Fail("REPO_LIST_FAILED")
		return nil, wrapRepositoryError(err)
	}

	out := make([]*domain.PurchaseRequest, 0, len(all))
	for _, r := range all {
		if !q.Actor.IsAdmin() && r.UserID != q.Actor.ID {
			continue
		}
		if q.UserID != "" && r.UserID != q.UserID {
			continue
		}
		if q.Status != "" && r.Status != q.Status {
			continue
		}
		out = append(out, r)
	}
	call.Field("count", len(out))
	return out, nil
}

func wrapRepositoryError(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, domain.ErrNotFound), errors.Is(err, catalog.ErrNotFound):
		return err
	default:
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
}
