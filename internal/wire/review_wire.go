package wire

import (
	"yamdb/internal/adaptor"
	"yamdb/pkg/middleware"

	"github.com/go-chi/chi/v5"
)

func wireReview(r chi.Router, reviewHandler *adaptor.ReviewHandler, commentHandler *adaptor.CommentHandler) {
	const (
		reviews  = "/titles/{title_id}/reviews"
		review   = reviews + "/{review_id}"
		comments = review + "/comments"
		comment  = comments + "/{comment_id}"
	)

	// ==================== PUBLIC ROUTES ====================
	r.Get(reviews, reviewHandler.GetTitleReviews)
	r.Get(reviews+"/stats", reviewHandler.GetTitleReviewStats)
	r.Get(review, reviewHandler.GetReview)
	r.Get(comments, commentHandler.GetReviewComments)
	r.Get(comment, commentHandler.GetComment)

	// ==================== PROTECTED ROUTES ====================
	// Ownership (author, moderator or admin) is checked by the services.
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAuth)

		r.Post(reviews, reviewHandler.CreateReview)
		r.Patch(review, reviewHandler.UpdateReview)
		r.Delete(review, reviewHandler.DeleteReview)

		r.Post(comments, commentHandler.CreateComment)
		r.Patch(comment, commentHandler.UpdateComment)
		r.Delete(comment, commentHandler.DeleteComment)
	})
}
