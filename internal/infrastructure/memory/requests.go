package memory

import (
	"context"
	"fmt"

	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/request"
)

// RequestRepository is the purchase-request view of a Store. Requests are never deleted.
type RequestRepository struct{ store *Store }

var _ domain.Repository = (*RequestRepository)(nil)

func (r *RequestRepository) Insert(ctx context.Context, req *domain.PurchaseRequest) error {
	if req == nil || req.ID == 0 {
		return fmt.Errorf("request repository: id is required")
	}
	return r.store.write(ctx, func(context.Context) error {
		if r.store.state.requests.has(req.ID) {
			return fmt.Errorf("request repository: duplicate id %d", req.ID)
		}
		r.store.state.requests.put(req.ID, req.Clone())
		r.store.touch()
		return nil
	})
}

func (r *RequestRepository) Get(ctx context.Context, id int64) (*domain.PurchaseRequest, error) {
	var out *domain.PurchaseRequest
	r.store.read(ctx, func() {
		if req, ok := r.store.state.requests.get(id); ok {
			out = req.Clone()
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *RequestRepository) Update(ctx context.Context, req *domain.PurchaseRequest) error {
	if req == nil {
		return fmt.Errorf("request repository: request is required")
	}
	return r.store.write(ctx, func(context.Context) error {
		if !r.store.state.requests.has(req.ID) {
			return domain.ErrNotFound
		}
		r.store.state.requests.put(req.ID, req.Clone())
		r.store.touch()
		return nil
	})
}

func (r *RequestRepository) List(ctx context.Context) ([]*domain.PurchaseRequest, error) {
	var out []*domain.PurchaseRequest
	r.store.read(ctx, func() {
		out = make([]*domain.PurchaseRequest, 0, r.store.state.requests.len())
		r.store.state.requests.each(func(req *domain.PurchaseRequest) { out = append(out, req.Clone()) })
	})
	return out, nil
}
