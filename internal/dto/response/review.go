package response

import (
	"time"

	"yamdb/internal/data/entity"
)

type ReviewResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	Score   int       `json:"score"`
	PubDate time.Time `json:"pub_date"`
}

type CommentResponse struct {
	ID      int64     `json:"id"`
	Text    string    `json:"text"`
	Author  string    `json:"author"`
	PubDate time.Time `json:"pub_date"`
}

type TitleReviewStats struct {
	AverageScore float64 `json:"average_score"`
	ReviewCount  int64   `json:"review_count"`
}

// Helper converters
func ReviewToResponse(review *entity.Review) ReviewResponse {
	return ReviewResponse{
		ID:      review.ID,
		Text:    review.Text,
		Author:  review.AuthorUsername,
		Score:   review.Score,
		PubDate: review.PubDate,
	}
}

func CommentToResponse(comment *entity.Comment) CommentResponse {
	return CommentResponse{
		ID:      comment.ID,
		Text:    comment.Text,
		Author:  comment.AuthorUsername,
		PubDate: comment.PubDate,
	}
}
