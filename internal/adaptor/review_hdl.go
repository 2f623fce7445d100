package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

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

// GetTitleReviews handles GET /api/v1/titles/{title_id}/reviews (public)
func (h *ReviewHandler) GetTitleReviews(w http.ResponseWriter, r *http.Request) {
	titleID, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}

	req := paginationFromQuery(r.URL.Query())

	reviews, err := h.service.GetTitleReviews(r.Context(), titleID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "get title reviews")
		return
	}

	utils.ResponseSuccess(w, "success", reviews)
}

// GetReview handles GET /api/v1/titles/{title_id}/reviews/{review_id} (public)
func (h *ReviewHandler) GetReview(w http.ResponseWriter, r *http.Request) {
	titleID, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r, "review_id")
	if !ok {
		return
	}

	review, err := h.service.GetReview(r.Context(), titleID, reviewID)
	if err != nil {
		handleServiceError(h.log, w, err, "get review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// CreateReview handles POST /api/v1/titles/{title_id}/reviews (protected)
func (h *ReviewHandler) CreateReview(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	titleID, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}

	var req request.CreateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.CreateReview(r.Context(), p, titleID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create review")
		return
	}

	utils.ResponseCreated(w, "success", review)
}

// UpdateReview handles PATCH /api/v1/titles/{title_id}/reviews/{review_id} (author, moderator, admin)
func (h *ReviewHandler) UpdateReview(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	titleID, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r, "review_id")
	if !ok {
		return
	}

	var req request.UpdateReviewRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	review, err := h.service.UpdateReview(r.Context(), p, titleID, reviewID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update review")
		return
	}

	utils.ResponseSuccess(w, "success", review)
}

// DeleteReview handles DELETE /api/v1/titles/{title_id}/reviews/{review_id} (author, moderator, admin)
func (h *ReviewHandler) DeleteReview(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	titleID, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}
	reviewID, ok := pathID(w, r, "review_id")
	if !ok {
		return
	}

	if err := h.service.DeleteReview(r.Context(), p, titleID, reviewID); err != nil {
		handleServiceError(h.log, w, err, "delete review")
		return
	}

	utils.ResponseNoContent(w)
}

// GetTitleReviewStats handles GET /api/v1/titles/{title_id}/reviews/stats (public)
func (h *ReviewHandler) GetTitleReviewStats(w http.ResponseWriter, r *http.Request) {
	titleID, ok := pathID(w, r, "title_id")
	if !ok {
		return
	}

	stats, err := h.service.GetTitleReviewStats(r.Context(), titleID)
	if err != nil {
		handleServiceError(h.log, w, err, "get title review stats")
		return
	}

	utils.ResponseSuccess(w, "success", stats)
}
