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

type CommentService interface {
	GetReviewComments(ctx context.Context, titleID, reviewID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error)
	GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*response.CommentResponse, error)
	CreateComment(ctx context.Context, p utils.Principal, titleID, reviewID int64, req *request.CommentRequest) (*response.CommentResponse, error)
	UpdateComment(ctx context.Context, p utils.Principal, titleID, reviewID, commentID int64, req *request.UpdateCommentRequest) (*response.CommentResponse, error)
	DeleteComment(ctx context.Context, p utils.Principal, titleID, reviewID, commentID int64) error
}

type commentService struct {
	repo *repository.Repository // reviews and comments
	log  *zap.Logger
}

func NewCommentService(repo *repository.Repository, log *zap.Logger) CommentService {
	return &commentService{
		repo: repo,
		log:  log.With(zap.String("service", "comment")),
	}
}

func (s *commentService) GetReviewComments(ctx context.Context, titleID, reviewID int64, req *request.PaginatedRequest) (*response.PaginatedResponse[response.CommentResponse], error) {
	if _, err := findReview(ctx, s.repo.Review, titleID, reviewID); err != nil {
		return nil, err
	}

	comments, err := s.repo.Comment.FindByReviewID(ctx, reviewID, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("get review comments: %w", err)
	}

	total, err := s.repo.Comment.CountByReviewID(ctx, reviewID)
	if err != nil {
		return nil, fmt.Errorf("count review comments: %w", err)
	}

	items := make([]response.CommentResponse, len(comments))
	for i, comment := range comments {
		items[i] = response.CommentToResponse(comment)
	}

	return response.NewPaginatedResponse(items, req.CurrentPage(), req.Limit(), total), nil
}

func (s *commentService) GetComment(ctx context.Context, titleID, reviewID, commentID int64) (*response.CommentResponse, error) {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) CreateComment(ctx context.Context, p utils.Principal, titleID, reviewID int64, req *request.CommentRequest) (*response.CommentResponse, error) {
	req.Text = sanitize.Prose(req.Text)
	if err := validate(req); err != nil {
		return nil, err
	}

	if _, err := findReview(ctx, s.repo.Review, titleID, reviewID); err != nil {
		return nil, err
	}

	comment := &entity.Comment{
		Publication: entity.Publication{
			AuthorID: p.UserID,
			Text:     req.Text,
			PubDate:  now(),
		},
		ReviewID:       reviewID,
		AuthorUsername: p.Username,
	}

	if err := s.repo.Comment.Create(ctx, comment); err != nil {
		return nil, fmt.Errorf("create comment: %w", err)
	}

	s.log.Info("Comment created",
		zap.Int64("comment_id", comment.ID),
		zap.Int64("review_id", reviewID),
		zap.Int64("user_id", p.UserID),
	)

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) UpdateComment(ctx context.Context, p utils.Principal, titleID, reviewID, commentID int64, req *request.UpdateCommentRequest) (*response.CommentResponse, error) {
	sanitize.ProsePtr(req.Text)
	if err := validate(req); err != nil {
		return nil, err
	}

	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return nil, err
	}

	if !canModify(p, comment.AuthorID) {
		return nil, ErrForbidden
	}

	if req.Text != nil {
		comment.Text = *req.Text
	}

	if err := s.repo.Comment.Update(ctx, comment); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("comment %d: %w", commentID, ErrNotFound)
		}
		return nil, fmt.Errorf("update comment: %w", err)
	}

	resp := response.CommentToResponse(comment)
	return &resp, nil
}

func (s *commentService) DeleteComment(ctx context.Context, p utils.Principal, titleID, reviewID, commentID int64) error {
	comment, err := s.findComment(ctx, titleID, reviewID, commentID)
	if err != nil {
		return err
	}

	if !canModify(p, comment.AuthorID) {
		return ErrForbidden
	}

	if err := s.repo.Comment.Delete(ctx, commentID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("comment %d: %w", commentID, ErrNotFound)
		}
		return fmt.Errorf("delete comment: %w", err)
	}

	s.log.Info("Comment deleted", zap.Int64("comment_id", commentID), zap.Int64("user_id", p.UserID))
	return nil
}

func (s *commentService) findComment(ctx context.Context, titleID, reviewID, commentID int64) (*entity.Comment, error) {
	if _, err := findReview(ctx, s.repo.Review, titleID, reviewID); err != nil {
		return nil, err
	}

	comment, err := s.repo.Comment.FindByID(ctx, reviewID, commentID)
	if err != nil {
		return nil, fmt.Errorf("find comment: %w", err)
	}
	if comment == nil {
		return nil, fmt.Errorf("comment %d of review %d: %w", commentID, reviewID, ErrNotFound)
	}
	return comment, nil
}
