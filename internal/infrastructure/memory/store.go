package memory

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/notification"
	"github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
)

var ErrPersistence = errors.New("memory: persist snapshot failed")

// Snapshot is a point-in-time copy of every collection, in insertion order.
type Snapshot struct {
	Products      []*catalog.Product
	Requests      []*request.PurchaseRequest
	Notifications []*notification.Notification
}

// Persister writes a snapshot after each committed mutation.
type Persister interface {
	Save(ctx context.Context, snap Snapshot) error
}

// Store owns the product, request and notification collections. All writes
// are serialised behind one lock; a transaction holds it for its whole body
// and restores the previous state when the body or the persister fails.
type Store struct {
	mu        sync.RWMutex
	state     state
	dirty     bool
	persister Persister
}

type Option func(*Store)

// WithPersister saves a snapshot after every committed write.
func WithPersister(p Persister) Option {
	return func(s *Store) { s.persister = p }
}

func NewStore(opts ...Option) *Store {
	s := &Store{state: newState()}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Store) Products() *ProductRepository { return &ProductRepository{store: s} }

func (s *Store) Requests() *RequestRepository { return &RequestRepository{store: s} }

func (s *Store) Notifications() *NotificationRepository { return &NotificationRepository{store: s} }

// Restore replaces the store content with snap without persisting it.
func (s *Store) Restore(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	st := newState()
	for _, p := range snap.Products {
		st.products.put(p.ID, p.Clone())
	}
	for _, r := range snap.Requests {
		st.requests.put(r.ID, r.Clone())
	}
	for _, n := range snap.Notifications {
		st.notifications.put(n.ID, n.Clone())
	}
	s.state = st
}

func (s *Store) Snapshot(ctx context.Context) Snapshot {
	var snap Snapshot
	s.read(ctx, func() { snap = s.snapshotLocked() })
	return snap
}

type txKey struct{}

func (s *Store) inTx(ctx context.Context) bool {
	owner, _ := ctx.Value(txKey{}).(*Store)
	return owner == s
}

// WithTransaction runs fn with exclusive access to the store. Repository
// calls made with the ctx handed to fn join the transaction. Nested calls
// join the outer transaction.
func (s *Store) WithTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	if s.inTx(ctx) {
		return fn(ctx)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	backup := s.state.clone()
	s.dirty = false

	if err := fn(context.WithValue(ctx, txKey{}, s)); err != nil {
		s.state = backup
		return err
	}
	if err := s.persistLocked(ctx); err != nil {
		s.state = backup
		return err
	}
	return nil
}

func (s *Store) read(ctx context.Context, fn func()) {
	if !s.inTx(ctx) {
		s.mu.RLock()
		defer s.mu.RUnlock()
	}
	fn()
}

func (s *Store) write(ctx context.Context, fn func(ctx context.Context) error) error {
	return s.WithTransaction(ctx, fn)
}

// touch marks the current transaction as having changed state.
func (s *Store) touch() { s.dirty = true }

func (s *Store) persistLocked(ctx context.Context) error {
	if !s.dirty || s.persister == nil {
		return nil
	}
	s.dirty = false
	if err := s.persister.Save(ctx, s.snapshotLocked()); err != nil {
		return fmt.Errorf("%w: %w", ErrPersistence, err)
	}
	return nil
}

func (s *Store) snapshotLocked() Snapshot {
	snap := Snapshot{
		Products:      make([]*catalog.Product, 0, s.state.products.len()),
		Requests:      make([]*request.PurchaseRequest, 0, s.state.requests.len()),
		Notifications: make([]*notification.Notification, 0, s.state.notifications.len()),
	}
	s.state.products.each(func(p *catalog.Product) { snap.Products = append(snap.Products, p.Clone()) })
	s.state.requests.each(func(r *request.PurchaseRequest) { snap.Requests = append(snap.Requests, r.Clone()) })
	s.state.notifications.each(func(n *notification.Notification) {
		snap.Notifications = append(snap.Notifications, n.Clone())
	})
	return snap
}

type state struct {
	products      *ordered[catalog.Product]
	requests      *ordered[request.PurchaseRequest]
	notifications *ordered[notification.Notification]
}

func newState() state {
	return state{
		products:      newOrdered[catalog.Product](),
		requests:      newOrdered[request.PurchaseRequest](),
		notifications: newOrdered[notification.Notification](),
	}
}

func (st state) clone() state {
	return state{
		products:      st.products.clone((*catalog.Product).Clone),
		requests:      st.requests.clone((*request.PurchaseRequest).Clone),
		notifications: st.notifications.clone((*notification.Notification).Clone),
	}
}
