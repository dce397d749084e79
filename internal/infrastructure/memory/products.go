package memory

import (
	"context"
	"fmt"

	domain "github.com/Zhima-Mochi/procurement-portal/internal/domain/catalog"
)

// ProductRepository is the catalog view of a Store.
type ProductRepository struct{ store *Store }

var _ domain.Repository = (*ProductRepository)(nil)

func (r *ProductRepository) Insert(ctx context.Context, p *domain.Product) error {
	if p == nil || p.ID == 0 {
		return fmt.Errorf("product repository: id is required")
	}
	return r.store.write(ctx, func(context.Context) error {
		if r.store.state.products.has(p.ID) {
			return fmt.Errorf("product repository: duplicate id %d", p.ID)
		}
		r.store.state.products.put(p.ID, p.Clone())
		r.store.touch()
		return nil
	})
}

func (r *ProductRepository) Get(ctx context.Context, id int64) (*domain.Product, error) {
	var out *domain.Product
	r.store.read(ctx, func() {
		if p, ok := r.store.state.products.get(id); ok {
			out = p.Clone()
		}
	})
	if out == nil {
		return nil, domain.ErrNotFound
	}
	return out, nil
}

func (r *ProductRepository) Update(ctx context.Context, p *domain.Product) error {
	if p == nil {
		return fmt.Errorf("product repository: product is required")
	}
	return r.store.write(ctx, func(context.Context) error {
		if !r.store.state.products.has(p.ID) {
			return domain.ErrNotFound
		}
		r.store.state.products.put(p.ID, p.Clone())
		r.store.touch()
		return nil
	})
}

func (r *ProductRepository) Delete(ctx context.Context, id int64) error {
	return r.store.write(ctx, func(context.Context) error {
		if !r.store.state.products.remove(id) {
			return domain.ErrNotFound
		}
		r.store.touch()
		return nil
	})
}

func (r *ProductRepository) List(ctx context.Context) ([]*domain.Product, error) {
	var out []*domain.Product
	r.store.read(ctx, func() {
		out = make([]*domain.Product, 0, r.store.state.products.len())
		r.store.state.products.each(func(p *domain.Product) { out = append(out, p.Clone()) })
	})
	return out, nil
}
