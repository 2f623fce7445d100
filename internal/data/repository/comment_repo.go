package repository

import (
	"context"
	"errors"
	"fmt"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"github.com/jackc/pgx/v5"
	"go.uber.org/zap"
)

type CommentRepository interface {
	Create(ctx context.Context, comment *entity.Comment) error
	FindByID(ctx context.Context, reviewID, commentID int64) (*entity.Comment, error)
	FindByReviewID(ctx context.Context, reviewID int64, limit, offset int) ([]*entity.Comment, error)
	CountByReviewID(ctx context.Context, reviewID int64) (int64, error)
	Update(ctx context.Context, comment *entity.Comment) error
	Delete(ctx context.Context, id int64) error
}

type commentRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCommentRepository(db database.PgxIface, log *zap.Logger) CommentRepository {
	return &commentRepository{
		db:  db,
		log: log.With(zap.String("repository", "comment")),
	}
}

const commentSelect = `
	SELECT c.id, c.review_id, c.author_id, u.username, c.text, c.pub_date
	FROM comments c
	INNER JOIN users u ON u.id = c.author_id
`

func scanComment(row rowScanner) (*entity.Comment, error) {
	var comment entity.Comment
	err := row.Scan(
		&comment.ID,
		&comment.ReviewID,
		&comment.AuthorID,
		&comment.AuthorUsername,
		&comment.Text,
		&comment.PubDate,
	)
	if err != nil {
		return nil, err
	}
	return &comment, nil
}

func (r *commentRepository) Create(ctx context.Context, comment *entity.Comment) error {
	query := `
		INSERT INTO comments (review_id, author_id, text, pub_date)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		comment.ReviewID,
		comment.AuthorID,
		comment.Text,
		comment.PubDate,
	).Scan(&comment.ID)

	if err != nil {
		r.log.Error("Failed to create comment",
			zap.Error(err),
			zap.Int64("review_id", comment.ReviewID),
			zap.Int64("author_id", comment.AuthorID),
		)
		return fmt.Errorf("create comment on review %d: %w", comment.ReviewID, err)
	}

	return nil
}

func (r *commentRepository) FindByID(ctx context.Context, reviewID, commentID int64) (*entity.Comment, error) {
	query := commentSelect + ` WHERE c.id = $1 AND c.review_id = $2`

	comment, err := scanComment(r.db.QueryRow(ctx, query, commentID, reviewID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find comment by ID",
			zap.Error(err),
			zap.Int64("comment_id", commentID),
		)
		return nil, fmt.Errorf("find comment %d of review %d: %w", commentID, reviewID, err)
	}

	return comment, nil
}

func (r *commentRepository) FindByReviewID(ctx context.Context, reviewID int64, limit, offset int) ([]*entity.Comment, error) {
	query := commentSelect + `
		WHERE c.review_id = $1
		ORDER BY c.pub_date DESC, c.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, reviewID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find comments by review ID",
			zap.Error(err),
			zap.Int64("review_id", reviewID),
		)
		return nil, fmt.Errorf("find comments by review %d: %w", reviewID, err)
	}
	defer rows.Close()

	var comments []*entity.Comment
	for rows.Next() {
		comment, err := scanComment(rows)
		if err != nil {
			r.log.Error("Failed to scan comment row", zap.Error(err))
			return nil, fmt.Errorf("scan comment row: %w", err)
		}
		comments = append(comments, comment)
	}

	return comments, rows.Err()
}

func (r *commentRepository) CountByReviewID(ctx context.Context, reviewID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM comments WHERE review_id = $1`, reviewID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count comments", zap.Error(err), zap.Int64("review_id", reviewID))
		return 0, fmt.Errorf("count comments of review %d: %w", reviewID, err)
	}
	return count, nil
}

func (r *commentRepository) Update(ctx context.Context, comment *entity.Comment) error {
	result, err := r.db.Exec(ctx, `UPDATE comments SET text = $2 WHERE id = $1`, comment.ID, comment.Text)
	if err != nil {
		r.log.Error("Failed to update comment", zap.Error(err), zap.Int64("comment_id", comment.ID))
		return fmt.Errorf("update comment %d: %w", comment.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update comment %d: %w", comment.ID, ErrNotFound)
	}
	return nil
}

func (r *commentRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM comments WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete comment", zap.Error(err), zap.Int64("comment_id", id))
		return fmt.Errorf("delete comment %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete comment %d: %w", id, ErrNotFound)
	}
	return nil
}
