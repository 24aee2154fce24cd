package review

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/attendance"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/auth"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/employee"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/review"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/validator"
)

type ReviewServiceImpl struct {
	reviewRepo   review.ReviewRepository
	employeeRepo employee.EmployeeRepository
	loc          *time.Location
	now          func() time.Time
}

func NewReviewService(reviewRepo review.ReviewRepository, employeeRepo employee.EmployeeRepository, loc *time.Location) review.ReviewService {
	if loc == nil {
		loc = time.UTC
	}
	return &ReviewServiceImpl{
		reviewRepo:   reviewRepo,
		employeeRepo: employeeRepo,
		loc:          loc,
		now:          time.Now,
	}
}

func (s *ReviewServiceImpl) writer(ctx context.Context) (auth.Session, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return auth.Session{}, err
	}
	if !session.Can(employee.PermissionReviewWrite) {
		return auth.Session{}, review.ErrForbidden
	}
	return session, nil
}

// reviewerName prefers the name carried by the token and falls back to the
// directory for tokens issued without one.
func (s *ReviewServiceImpl) reviewerName(ctx context.Context, session auth.Session) string {
	if session.Name != "" {
		return session.Name
	}
	reviewer, err := s.employeeRepo.GetByID(ctx, session.EmployeeID)
	if err != nil {
		slog.WarnContext(ctx, "reviewer lookup failed", "employee_id", session.EmployeeID, "error", err)
		return session.Email
	}
	return reviewer.FullName()
}

// Create implements review.ReviewService.
func (s *ReviewServiceImpl) Create(ctx context.Context, req review.CreateReviewRequest) (review.ReviewResponse, error) {
	session, err := s.writer(ctx)
	if err != nil {
		return review.ReviewResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return review.ReviewResponse{}, err
	}

	if _, err := s.employeeRepo.GetByID(ctx, req.EmployeeID); err != nil {
		if errors.Is(err, employee.ErrEmployeeNotFound) {
			return review.ReviewResponse{}, err
		}
		return review.ReviewResponse{}, fmt.Errorf("failed to get reviewed employee: %w", err)
	}

	reviewDate := attendance.CalendarDate(s.now(), s.loc)
	if req.ReviewDate != nil {
		reviewDate, _ = validator.IsValidDate(*req.ReviewDate)
	}

	reviewerID := session.EmployeeID
	created, err := s.reviewRepo.Create(ctx, review.Review{
		EmployeeID:   req.EmployeeID,
		ReviewerID:   &reviewerID,
		ReviewerName: s.reviewerName(ctx, session),
		Rating:       req.Rating,
		Comment:      req.Comment,
		ReviewDate:   reviewDate,
	})
	if err != nil {
		return review.ReviewResponse{}, err
	}

	slog.InfoContext(ctx, "review created", "review_id", created.ID, "employee_id", created.EmployeeID, "reviewer_id", reviewerID)
	return review.NewReviewResponse(created), nil
}

// Update implements review.ReviewService.
func (s *ReviewServiceImpl) Update(ctx context.Context, req review.UpdateReviewRequest) (review.ReviewResponse, error) {
	if _, err := s.writer(ctx); err != nil {
		return review.ReviewResponse{}, err
	}
	if err := req.Validate(); err != nil {
		return review.ReviewResponse{}, err
	}

	existing, err := s.reviewRepo.GetByID(ctx, req.ID)
	if err != nil {
		return review.ReviewResponse{}, err
	}

	if req.Rating != nil {
		existing.Rating = *req.Rating
	}
	if req.Comment != nil {
		existing.Comment = *req.Comment
	}
	if req.ReviewDate != nil {
		existing.ReviewDate, _ = validator.IsValidDate(*req.ReviewDate)
	}

	updated, err := s.reviewRepo.Update(ctx, existing)
	if err != nil {
		return review.ReviewResponse{}, err
	}
	return review.NewReviewResponse(updated), nil
}

// Delete implements review.ReviewService.
func (s *ReviewServiceImpl) Delete(ctx context.Context, id string) error {
	if _, err := s.writer(ctx); err != nil {
		return err
	}
	return s.reviewRepo.Delete(ctx, id)
}

// ListByEmployee implements review.ReviewService.
func (s *ReviewServiceImpl) ListByEmployee(ctx context.Context, employeeID string) ([]review.ReviewResponse, error) {
	session, err := auth.SessionFromContext(ctx)
	if err != nil {
		return nil, err
	}
	if !session.CanAccess(employeeID, employee.PermissionReviewViewAll) {
		return nil, review.ErrForbidden
	}

	reviews, err := s.reviewRepo.ListByEmployee(ctx, employeeID)
	if err != nil {
		return nil, err
	}

	out := make([]review.ReviewResponse, 0, len(reviews))
	for _, r := range reviews {
		out = append(out, review.NewReviewResponse(r))
	}
	return out, nil
}
