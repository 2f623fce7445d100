package usecase

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/sanitize"
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

const alreadyReviewedMessage = "You have already reviewed this title"

type ReviewService interface {
	// Public endpoints
	GetTitleReviews(ctx context.Context, titleID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error)
	GetReview(ctx context.Context, titleID, reviewID int64) (*response.ReviewResponse, error)

	// Authenticated endpoints
	CreateReview(ctx context.Context, p utils.Principal, titleID int64, req *request.CreateReviewRequest) (*response.ReviewResponse, error)
	UpdateReview(ctx context.Context, p utils.Principal, titleID, reviewID int64, req *request.UpdateReviewRequest) (*response.ReviewResponse, error)
	DeleteReview(ctx context.Context, p utils.Principal, titleID, reviewID int64) error

	// Stats
	GetTitleReviewStats(ctx context.Context, titleID int64) (*response.TitleReviewStats, error)
}

type reviewService struct {
	repo *repository.Repository
	log  *zap.Logger
}

func NewReviewService(repo *repository.Repository, log *zap.Logger) ReviewService {
	return &reviewService{
		repo: repo,
		log:  log.With(zap.String("service", "review")),
	}
}

func (s *reviewService) GetTitleReviews(ctx context.Context, titleID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.ReviewResponse], error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	reviews, err := s.repo.Review.FindByTitleID(ctx, titleID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get title reviews: %w", err)
	}

	total, err := s.repo.Review.CountByTitleID(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("count title reviews: %w", err)
	}

	reviewResponses := make([]response.ReviewResponse, len(reviews))
	for i, review := range reviews {
		reviewResponses[i] = response.ReviewToResponse(review)
	}

	return response.NewPaginatedResponse(reviewResponses, req.CurrentPage(), req.Limit(), total), nil
}

func (s *reviewService) GetReview(ctx context.Context, titleID, reviewID int64) (*response.ReviewResponse, error) {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) CreateReview(ctx context.Context, p utils.Principal, titleID int64, req *request.CreateReviewRequest) (*response.ReviewResponse, error) {
	req.Text = sanitize.Prose(req.Text)

	// Validate request
	if err := validate(req); err != nil {
		return nil, err
	}

	// Check if title exists
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	// One review per author and title
	exists, err := s.repo.Review.ExistsByAuthorAndTitle(ctx, p.UserID, titleID)
	if err != nil {
		return nil, fmt.Errorf("check existing review: %w", err)
	}
	if exists {
		return nil, fieldError(NonFieldErrors, alreadyReviewedMessage)
	}

	review := &entity.Review{
		Publication: entity.Publication{
			AuthorID: p.UserID,
			Text:     req.Text,
			PubDate:  now(),
		},
		TitleID:        titleID,
		Score:          req.Score,
		AuthorUsername: p.Username,
	}

	// unique_author_title rejects a concurrent duplicate
	if err := s.repo.Review.Create(ctx, review); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError(NonFieldErrors, alreadyReviewedMessage)
		}
		return nil, fmt.Errorf("create review: %w", err)
	}

	s.log.Info("Review created",
		zap.Int64("review_id", review.ID),
		zap.Int64("user_id", p.UserID),
		zap.Int64("title_id", titleID),
		zap.Int("score", review.Score),
	)

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) UpdateReview(ctx context.Context, p utils.Principal, titleID, reviewID int64, req *request.UpdateReviewRequest) (*response.ReviewResponse, error) {
	sanitize.ProsePtr(req.Text)
	if err := validate(req); err != nil {
		return nil, err
	}

	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return nil, err
	}

	if !canModify(p, review.AuthorID) {
		s.log.Warn("Review update denied", zap.Int64("review_id", reviewID), zap.Int64("user_id", p.UserID))
		return nil, ErrForbidden
	}

	if req.Text != nil {
		review.Text = *req.Text
	}
	if req.Score != nil {
		review.Score = *req.Score
	}

	if err := s.repo.Review.Update(ctx, review); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
		}
		return nil, fmt.Errorf("update review: %w", err)
	}

	s.log.Info("Review updated", zap.Int64("review_id", reviewID), zap.Int64("user_id", p.UserID))

	resp := response.ReviewToResponse(review)
	return &resp, nil
}

func (s *reviewService) DeleteReview(ctx context.Context, p utils.Principal, titleID, reviewID int64) error {
	review, err := s.findReview(ctx, titleID, reviewID)
	if err != nil {
		return err
	}

	if !canModify(p, review.AuthorID) {
		s.log.Warn("Review delete denied", zap.Int64("review_id", reviewID), zap.Int64("user_id", p.UserID))
		return ErrForbidden
	}

	if err := s.repo.Review.Delete(ctx, reviewID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("review %d: %w", reviewID, ErrNotFound)
		}
		return fmt.Errorf("delete review: %w", err)
	}

	return nil
}

func (s *reviewService) GetTitleReviewStats(ctx context.Context, titleID int64) (*response.TitleReviewStats, error) {
	if err := s.ensureTitle(ctx, titleID); err != nil {
		return nil, err
	}

	average, count, err := s.repo.Review.GetTitleReviewStats(ctx, titleID)
	if err != nil {
		return nil, fmt.Errorf("get review stats: %w", err)
	}

	return &response.TitleReviewStats{AverageScore: average, ReviewCount: count}, nil
}

// ==================== HELPER METHODS ====================

func (s *reviewService) ensureTitle(ctx context.Context, titleID int64) error {
	return ensureTitle(ctx, s.repo.Title, titleID)
}

func (s *reviewService) findReview(ctx context.Context, titleID, reviewID int64) (*entity.Review, error) {
	return findReview(ctx, s.repo.Review, titleID, reviewID)
}

func ensureTitle(ctx context.Context, titles repository.TitleRepository, titleID int64) error {
	exists, err := titles.Exists(ctx, titleID)
	if err != nil {
		return fmt.Errorf("check title: %w", err)
	}
	if !exists {
		return fmt.Errorf("title %d: %w", titleID, ErrNotFound)
	}
	return nil
}

// findReview resolves a review only when it belongs to titleID.
func findReview(ctx context.Context, reviews repository.ReviewRepository, titleID, reviewID int64) (*entity.Review, error) {
	review, err := reviews.FindByID(ctx, titleID, reviewID)
	if err != nil {
		return nil, fmt.Errorf("find review: %w", err)
	}
	if review == nil {
		return nil, fmt.Errorf("review %d of title %d: %w", reviewID, titleID, ErrNotFound)
	}
	return review, nil
}
