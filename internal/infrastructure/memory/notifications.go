package memory

import (
	"context"
	"fmt"

	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/notification"
)

type NotificationRepository struct{ store *Store }

var _ domain.Repository = (*NotificationRepository)(nil)

func (r *NotificationRepository) Insert(ctx context.Context, n *domain.Notification) error {
	if n == nil || n.ID == 0 {
		return fmt.Errorf("notification repository: id is required")
	}
	return r.store.write(ctx, func(context.Context) error {
		if r.store.state.notifications.has(n.ID) {
			return fmt.Errorf("notification repository: duplicate id %d", n.ID)
		}
		clone := n.Clone()
		clone.Read = false
		r.store.state.notifications.put(n.ID, clone)
		r.store.touch()
		return nil
	})
}

func (r *NotificationRepository) MarkRead(ctx context.Context, id int64, audience domain.Audience) (bool, error) {
	changed := false
	err := r.store.write(ctx, func(context.Context) error {
		n, ok := r.store.state.notifications.get(id)
		if !ok || !audience.Sees(n) || n.Read {
			return nil
		}
		n.Read = true
		changed = true
		r.store.touch()
		return nil
	})
	return changed, err
}

func (r *NotificationRepository) ListFor(ctx context.Context, audience domain.Audience) ([]*domain.Notification, error) {
	var out []*domain.Notification
	r.store.read(ctx, func() {
		out = make([]*domain.Notification, 0)
		r.store.state.notifications.each(func(n *domain.Notification) {
			if audience.Sees(n) {
				out = append(out, n.Clone())
			}
		})
	})
	return out, nil
}
