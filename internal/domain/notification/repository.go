package notification

import "context"

type Repository interface {
	Insert(ctx context.Context, n *Notification) error
	// MarkRead flags the notification as read when the audience can see it.
	// Unknown or foreign ids are ignored; the returned bool reports whether anything changed.
	MarkRead(ctx context.Context, id int64, audience Audience) (bool, error)
	ListFor(ctx context.Context, audience Audience) ([]*Notification, error)
}
