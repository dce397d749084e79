package request

import "context"

type Repository interface {
	Insert(ctx context.Context, r *PurchaseRequest) error
	Get(ctx context.Context, id int64) (*PurchaseRequest, error)
	Update(ctx context.Context, r *PurchaseRequest) error
	List(ctx context.Context) ([]*PurchaseRequest, error)
}
