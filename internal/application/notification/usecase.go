// Package notification serves the in-app notification feed.
package notification

import (
	"context"
	"errors"
	"fmt"

	"github.com/Zhima-Mochi/procurement-portal/internal/application"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/identity"
	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/notification"
	"github.com/Zhima-Mochi/procurement-portal/internal/observability"

	"go.opentelemetry.io/otel/attribute"
)

const (
	notificationService = "notification-service"

	useCaseList     = "notification.list"
	useCaseMarkRead = "notification.mark_read"
)

var ErrRepository = errors.New("notification: repository failure")

type Service struct {
	repo domain.Repository
	inst *application.Instrument
}

func NewService(repo domain.Repository, tel observability.Observability) *Service {
	return &Service{repo: repo, inst: application.NewInstrument(tel, notificationService)}
}

// Feed is an audience's notifications in creation order plus the unread count.
type Feed struct {
	Items  []*domain.Notification `json:"items"`
	Unread int                    `json:"unread"`
}

// List returns admin-type entries to admins and the caller's own entries to users.
func (s *Service) List(ctx context.Context, actor identity.Identity) (_ *Feed, err error) {
	ctx, call := s.inst.Start(ctx, useCaseList, "ListNotifications",
		attribute.String("identity.role", string(actor.Role)),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireUser(actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return nil, err
	}
	items, err := s.repo.ListFor(ctx, domain.AudienceOf(actor))
	if err != nil {
		call.Fail("REPO_LIST_FAILED")
		return nil, fmt.Errorf("%w: %w", ErrRepository, err)
	}
	feed := &Feed{Items: items, Unread: domain.UnreadCount(items)}
	call.Field("count", len(items))
	call.Field("unread", feed.Unread)
	return feed, nil
}

type MarkReadCommand struct {
	Actor identity.Identity
	ID    int64
}

// MarkRead is idempotent. Unknown ids and entries outside the actor's
// audience are ignored without error.
func (s *Service) MarkRead(ctx context.Context, cmd MarkReadCommand) (err error) {
	ctx, call := s.inst.Start(ctx, useCaseMarkRead, "MarkNotificationRead",
		attribute.Int64("notification.id", cmd.ID),
	)
	defer func() { call.End(err) }()

	if err := identity.RequireUser(cmd.Actor); err != nil {
		call.Fail(application.AuthStatus(err))
		return err
	}
	changed, err := s.repo.MarkRead(ctx, cmd.ID, domain.AudienceOf(cmd.Actor))
	if err != nil {
		call.Fail("REPO_UPDATE_FAILED")
		return fmt.Errorf("%w: %w", ErrRepository, err)
	}
	if !changed {
		call.Status("NO_CHANGE")
	}
	return nil
}
