package review

import "errors"

var (
	ErrReviewNotFound = errors.New("review not found")
	ErrForbidden      = errors.New("not allowed to access these reviews")
)
