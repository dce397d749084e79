package catalog

import "context"

// Repository stores products in insertion order.
type Repository interface {
	Insert(ctx context.Context, p *Product) error
	Get(ctx context.Context, id int64) (*Product, error)
	Update(ctx context.Context, p *Product) error
	Delete(ctx context.Context, id int64) error
	List(ctx context.Context) ([]*Product, error)
}
