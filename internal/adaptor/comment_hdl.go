package adaptor

import (
	"net/http"

	"yamdb/internal/dto/request"
	"yamdb/internal/usecase"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

type CommentHandler struct {
	service usecase.CommentService
	log     *zap.Logger
}

func NewCommentHandler(service usecase.CommentService, log *zap.Logger) *CommentHandler {
	return &CommentHandler{
		service: service,
		log:     log.With(zap.String("handler", "comment")),
	}
}

func (h *CommentHandler) GetReviewComments(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := reviewPath(w, r)
	if !ok {
		return
	}

	req := paginationFromQuery(r.URL.Query())

	comments, err := h.service.GetReviewComments(r.Context(), titleID, reviewID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "get review comments")
		return
	}

	utils.ResponseSuccess(w, "success", comments)
}

func (h *CommentHandler) GetComment(w http.ResponseWriter, r *http.Request) {
	titleID, reviewID, ok := reviewPath(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}

	comment, err := h.service.GetComment(r.Context(), titleID, reviewID, commentID)
	if err != nil {
		handleServiceError(h.log, w, err, "get comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

func (h *CommentHandler) CreateComment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	titleID, reviewID, ok := reviewPath(w, r)
	if !ok {
		return
	}

	var req request.CommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.CreateComment(r.Context(), p, titleID, reviewID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "create comment")
		return
	}

	utils.ResponseCreated(w, "success", comment)
}

func (h *CommentHandler) UpdateComment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	titleID, reviewID, ok := reviewPath(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}

	var req request.UpdateCommentRequest
	if !decodeJSON(w, r, &req) {
		return
	}

	comment, err := h.service.UpdateComment(r.Context(), p, titleID, reviewID, commentID, &req)
	if err != nil {
		handleServiceError(h.log, w, err, "update comment")
		return
	}

	utils.ResponseSuccess(w, "success", comment)
}

func (h *CommentHandler) DeleteComment(w http.ResponseWriter, r *http.Request) {
	p, ok := principal(w, r)
	if !ok {
		return
	}

	titleID, reviewID, ok := reviewPath(w, r)
	if !ok {
		return
	}
	commentID, ok := pathID(w, r, "comment_id")
	if !ok {
		return
	}

	if err := h.service.DeleteComment(r.Context(), p, titleID, reviewID, commentID); err != nil {
		handleServiceError(h.log, w, err, "delete comment")
		return
	}

	utils.ResponseNoContent(w)
}

// reviewPath parses the {title_id}/{review_id} prefix shared by comment routes.
func reviewPath(w http.ResponseWriter, r *http.Request) (int64, int64, bool) {
	titleID, ok := pathID(w, r, "title_id")
	if !ok {
		return 0, 0, false
	}
	reviewID, ok := pathID(w, r, "review_id")
	if !ok {
		return 0, 0, false
	}
	return titleID, reviewID, true
}
