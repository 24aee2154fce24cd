package review

import "context"

type ReviewRepository interface {
	Create(ctx context.Context, r Review) (Review, error)
	GetByID(ctx context.Context, id string) (Review, error)
	Update(ctx context.Context, r Review) (Review, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]Review, error)
}
