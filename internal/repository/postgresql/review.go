package postgresql

import (
	"context"
	"errors"
	"fmt"

	"github.com/hrmanagement/hrm-backend-go/internal/domain/review"
	"github.com/hrmanagement/hrm-backend-go/internal/pkg/database"
	"github.com/jackc/pgx/v5"
)

type reviewRepository struct {
	db *database.DB
}

func NewReviewRepository(db *database.DB) review.ReviewRepository {
	return &reviewRepository{db: db}
}

const reviewColumns = `id, employee_id, reviewer_id, reviewer_name, rating, comment, review_date, created_at, updated_at`

func scanReview(row pgx.Row) (review.Review, error) {
	var rv review.Review
	err := row.Scan(
		&rv.ID, &rv.EmployeeID, &rv.ReviewerID, &rv.ReviewerName, &rv.Rating,
		&rv.Comment, &rv.ReviewDate, &rv.CreatedAt, &rv.UpdatedAt,
	)
	return rv, err
}

// Create implements review.ReviewRepository.
func (r *reviewRepository) Create(ctx context.Context, rv review.Review) (review.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		INSERT INTO reviews (employee_id, reviewer_id, reviewer_name, rating, comment, review_date)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := q.QueryRow(ctx, query,
		rv.EmployeeID, rv.ReviewerID, rv.ReviewerName, rv.Rating, rv.Comment, rv.ReviewDate,
	).Scan(&rv.ID, &rv.CreatedAt, &rv.UpdatedAt)
	if err != nil {
		return review.Review{}, fmt.Errorf("failed to create review: %w", err)
	}
	return rv, nil
}

// GetByID implements review.ReviewRepository.
func (r *reviewRepository) GetByID(ctx context.Context, id string) (review.Review, error) {
	q := GetQuerier(ctx, r.db)

	rv, err := scanReview(q.QueryRow(ctx, `SELECT `+reviewColumns+` FROM reviews WHERE id = $1`, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return review.Review{}, review.ErrReviewNotFound
		}
		return review.Review{}, fmt.Errorf("failed to get review: %w", err)
	}
	return rv, nil
}

// Update implements review.ReviewRepository.
func (r *reviewRepository) Update(ctx context.Context, rv review.Review) (review.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `
		UPDATE reviews
		SET rating = $1, comment = $2, review_date = $3, updated_at = NOW()
		WHERE id = $4
		RETURNING updated_at
	`

	err := q.QueryRow(ctx, query, rv.Rating, rv.Comment, rv.ReviewDate, rv.ID).Scan(&rv.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return review.Review{}, review.ErrReviewNotFound
		}
		return review.Review{}, fmt.Errorf("failed to update review %s: %w", rv.ID, err)
	}
	return rv, nil
}

// Delete implements review.ReviewRepository.
func (r *reviewRepository) Delete(ctx context.Context, id string) error {
	q := GetQuerier(ctx, r.db)

	tag, err := q.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete review %s: %w", id, err)
	}
	if tag.RowsAffected() == 0 {
		return review.ErrReviewNotFound
	}
	return nil
}

// ListByEmployee implements review.ReviewRepository.
func (r *reviewRepository) ListByEmployee(ctx context.Context, employeeID string) ([]review.Review, error) {
	q := GetQuerier(ctx, r.db)

	query := `SELECT ` + reviewColumns + ` FROM reviews WHERE employee_id = $1 ORDER BY review_date DESC, created_at DESC`

	rows, err := q.Query(ctx, query, employeeID)
	if err != nil {
		return nil, fmt.Errorf("failed to list reviews: %w", err)
	}
	defer rows.Close()

	reviews := make([]review.Review, 0)
	for rows.Next() {
		rv, err := scanReview(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan review: %w", err)
		}
		reviews = append(reviews, rv)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	return reviews, nil
}
