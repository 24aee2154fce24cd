package review

import (
	"time"

	"github.com/hrmanagement/hrm-backend-go/internal/pkg/validator"
)

type CreateReviewRequest struct {
	EmployeeID string  `json:"employee_id"`
	Rating     int     `json:"rating"`
	Comment    string  `json:"comment"`
	ReviewDate *string `json:"review_date,omitempty"`
}

func (r *CreateReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if !validator.IsValidUUID(r.EmployeeID) {
		errs = append(errs, validator.ValidationError{Field: "employee_id", Message: "employee_id must be a valid UUID"})
	}
	if r.Rating < 1 || r.Rating > 5 {
		errs = append(errs, validator.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"})
	}
	if len(r.Comment) > 2000 {
		errs = append(errs, validator.ValidationError{Field: "comment", Message: "comment must not exceed 2000 characters"})
	}
	if r.ReviewDate != nil {
		if _, ok := validator.IsValidDate(*r.ReviewDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "review_date", Message: "review_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type UpdateReviewRequest struct {
	ID         string  `json:"-"`
	Rating     *int    `json:"rating,omitempty"`
	Comment    *string `json:"comment,omitempty"`
	ReviewDate *string `json:"review_date,omitempty"`
}

func (r *UpdateReviewRequest) Validate() error {
	var errs validator.ValidationErrors

	if r.Rating != nil && (*r.Rating < 1 || *r.Rating > 5) {
		errs = append(errs, validator.ValidationError{Field: "rating", Message: "rating must be between 1 and 5"})
	}
	if r.Comment != nil && len(*r.Comment) > 2000 {
		errs = append(errs, validator.ValidationError{Field: "comment", Message: "comment must not exceed 2000 characters"})
	}
	if r.ReviewDate != nil {
		if _, ok := validator.IsValidDate(*r.ReviewDate); !ok {
			errs = append(errs, validator.ValidationError{Field: "review_date", Message: "review_date must be in YYYY-MM-DD format"})
		}
	}

	if len(errs) > 0 {
		return errs
	}
	return nil
}

type ReviewResponse struct {
	ID           string  `json:"id"`
	EmployeeID   string  `json:"employee_id"`
	ReviewerID   *string `json:"reviewer_id,omitempty"`
	ReviewerName string  `json:"reviewer_name"`
	Rating       int     `json:"rating"`
	Comment      string  `json:"comment"`
	ReviewDate   string  `json:"review_date"`
	CreatedAt    string  `json:"created_at"`
	UpdatedAt    string  `json:"updated_at"`
}

func NewReviewResponse(r Review) ReviewResponse {
	return ReviewResponse{
		ID:           r.ID,
		EmployeeID:   r.EmployeeID,
		ReviewerID:   r.ReviewerID,
		ReviewerName: r.ReviewerName,
		Rating:       r.Rating,
		Comment:      r.Comment,
		ReviewDate:   r.ReviewDate.Format("2006-01-02"),
		CreatedAt:    r.CreatedAt.Format(time.RFC3339),
		UpdatedAt:    r.UpdatedAt.Format(time.RFC3339),
	}
}
