package review

import "context"

type ReviewService interface {
	Create(ctx context.Context, req CreateReviewRequest) (ReviewResponse, error)
	Update(ctx context.Context, req UpdateReviewRequest) (ReviewResponse, error)
	Delete(ctx context.Context, id string) error
	ListByEmployee(ctx context.Context, employeeID string) ([]ReviewResponse, error)
}
