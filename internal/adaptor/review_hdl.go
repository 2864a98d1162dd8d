package adaptor

import (
	"net/http"

	"cleaning-hub/internal/dto/request"
	"cleaning-hub/internal/usecase"
	"cleaning-hub/pkg/utils"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

type ReviewHandler struct {
	service usecase.ReviewService
	log     *zap.Logger
}

func NewReviewHandler(service usecase.ReviewService, log *zap.Logger) *ReviewHandler {
	return &ReviewHandler{
		service: service,
		log:     log.With(zap.String("handler", "review")),
	}
}

// CreateReview handles POST /api/reviews
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	resp, err := h.service.CreateReview(r.Context(), userID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "create review")
		return
	}

	utils.ResponseCreated(w, "Review submitted successfully", resp)
}

// GetUserReviews handles GET /api/reviews
func (h *ReviewHandler) GetUserReviews(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}

	reviews, err := h.service.GetUserReviews(r.Context(), userID, paginationFromQuery(r))
	if err != nil {
		handleServiceError(w, h.log, err, "get reviews")
		return
	}

	utils.ResponseSuccess(w, "Reviews retrieved successfully", reviews)
}

// UpdateReview handles PUT /api/reviews/{id}
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := uuidParam(w, chi.URLParam(r, "id"), "id")
	if !ok {
		return
	}

	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), userID, reviewID, &req)
	if err != nil {
		handleServiceError(w, h.log, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "Review updated successfully", review)
}

// DeleteReview handles DELETE /api/reviews/{id}
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	userID, ok := currentUser(w, r)
	if !ok {
		return
	}
	reviewID, ok := uuidParam(w, chi.URLParam(r, "id"), "id")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), userID, reviewID); err != nil {
		handleServiceError(w, h.log, err, "delete review")
		return
	}

	utils.ResponseSuccess(w, "Review deleted successfully", nil)
}
