package http

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/hrmanagement/hrm-backend-go/internal/domain/review"
	"github.com/hrmanagement/hrm-backend-go/internal/handler/http/response"
)

type ReviewHandler interface {
	Create(w http.ResponseWriter, r *http.Request)
	Update(w http.ResponseWriter, r *http.Request)
	Delete(w http.ResponseWriter, r *http.Request)
	ListByEmployee(w http.ResponseWriter, r *http.Request)
}

type reviewHandlerImpl struct {
	reviewService review.ReviewService
}

func NewReviewHandler(reviewService review.ReviewService) ReviewHandler {
	return &reviewHandlerImpl{reviewService: reviewService}
}

// Create implements ReviewHandler.
func (h *reviewHandlerImpl) Create(w http.ResponseWriter, r *http.Request) {
	var req review.CreateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}

	created, err := h.reviewService.Create(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Created(w, "Review created", created)
}

// Update implements ReviewHandler.
func (h *reviewHandlerImpl) Update(w http.ResponseWriter, r *http.Request) {
	var req review.UpdateReviewRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		response.BadRequest(w, "Invalid request format", nil)
		return
	}
	req.ID = chi.URLParam(r, "id")

	updated, err := h.reviewService.Update(r.Context(), req)
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review updated", updated)
}

// Delete implements ReviewHandler.
func (h *reviewHandlerImpl) Delete(w http.ResponseWriter, r *http.Request) {
	if err := h.reviewService.Delete(r.Context(), chi.URLParam(r, "id")); err != nil {
		response.HandleError(w, err)
		return
	}
	response.SuccessWithMessage(w, "Review deleted", nil)
}

// ListByEmployee implements ReviewHandler.
func (h *reviewHandlerImpl) ListByEmployee(w http.ResponseWriter, r *http.Request) {
	reviews, err := h.reviewService.ListByEmployee(r.Context(), chi.URLParam(r, "employeeId"))
	if err != nil {
		response.HandleError(w, err)
		return
	}
	response.Success(w, reviews)
}
