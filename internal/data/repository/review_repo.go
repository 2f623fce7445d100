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

type ReviewRepository interface {
	Create(ctx context.Context, review *entity.Review) error
	FindByID(ctx context.Context, titleID, reviewID int64) (*entity.Review, error)
	FindByTitleID(ctx context.Context, titleID int64, limit, offset int) ([]*entity.Review, error)
	CountByTitleID(ctx context.Context, titleID int64) (int64, error)
	ExistsByAuthorAndTitle(ctx context.Context, authorID, titleID int64) (bool, error)
	Update(ctx context.Context, review *entity.Review) error
	Delete(ctx context.Context, id int64) error

	// Business queries
	GetTitleReviewStats(ctx context.Context, titleID int64) (float64, int64, error) // average, count
}

type reviewRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewReviewRepository(db database.PgxIface, log *zap.Logger) ReviewRepository {
	return &reviewRepository{
		db:  db,
		log: log.With(zap.String("repository", "review")),
	}
}

const reviewSelect = `
	SELECT r.id, r.title_id, r.author_id, u.username, r.text, r.score, r.pub_date
	FROM reviews r
	INNER JOIN users u ON u.id = r.author_id
`

func scanReview(row rowScanner) (*entity.Review, error) {
	var review entity.Review
	err := row.Scan(
		&review.ID,
		&review.TitleID,
		&review.AuthorID,
		&review.AuthorUsername,
		&review.Text,
		&review.Score,
		&review.PubDate,
	)
	if err != nil {
		return nil, err
	}
	return &review, nil
}

func (r *reviewRepository) Create(ctx context.Context, review *entity.Review) error {
	query := `
		INSERT INTO reviews (title_id, author_id, text, score, pub_date)
		VALUES ($1, $2, $3, $4, $5)
		RETURNING id
	`

	err := r.db.QueryRow(ctx, query,
		review.TitleID,
		review.AuthorID,
		review.Text,
		review.Score,
		review.PubDate,
	).Scan(&review.ID)

	if _, ok := uniqueViolation(err); ok {
		return fmt.Errorf("create review for title %d by user %d: %w",
			review.TitleID, review.AuthorID, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create review",
			zap.Error(err),
			zap.Int64("author_id", review.AuthorID),
			zap.Int64("title_id", review.TitleID),
		)
		return fmt.Errorf("create review for title %d by user %d: %w",
			review.TitleID, review.AuthorID, err)
	}

	return nil
}

// FindByID only matches a review that belongs to titleID
func (r *reviewRepository) FindByID(ctx context.Context, titleID, reviewID int64) (*entity.Review, error) {
	query := reviewSelect + ` WHERE r.id = $1 AND r.title_id = $2`

	review, err := scanReview(r.db.QueryRow(ctx, query, reviewID, titleID))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find review by ID",
			zap.Error(err),
			zap.Int64("review_id", reviewID),
			zap.Int64("title_id", titleID),
		)
		return nil, fmt.Errorf("find review %d of title %d: %w", reviewID, titleID, err)
	}

	return review, nil
}

func (r *reviewRepository) FindByTitleID(ctx context.Context, titleID int64, limit, offset int) ([]*entity.Review, error) {
	query := reviewSelect + `
		WHERE r.title_id = $1
		ORDER BY r.pub_date DESC, r.id DESC
		LIMIT $2 OFFSET $3
	`

	rows, err := r.db.Query(ctx, query, titleID, limit, offset)
	if err != nil {
		r.log.Error("Failed to find reviews by title ID",
			zap.Error(err),
			zap.Int64("title_id", titleID),
		)
		return nil, fmt.Errorf("find reviews by title %d: %w", titleID, err)
	}
	defer rows.Close()

	var reviews []*entity.Review
	for rows.Next() {
		review, err := scanReview(rows)
		if err != nil {
			r.log.Error("Failed to scan review row", zap.Error(err))
			return nil, fmt.Errorf("scan review row: %w", err)
		}
		reviews = append(reviews, review)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate review rows: %w", err)
	}
	return reviews, nil
}

func (r *reviewRepository) CountByTitleID(ctx context.Context, titleID int64) (int64, error) {
	var count int64
	err := r.db.QueryRow(ctx, `SELECT COUNT(*) FROM reviews WHERE title_id = $1`, titleID).Scan(&count)
	if err != nil {
		r.log.Error("Failed to count reviews", zap.Error(err), zap.Int64("title_id", titleID))
		return 0, fmt.Errorf("count reviews of title %d: %w", titleID, err)
	}
	return count, nil
}

func (r *reviewRepository) ExistsByAuthorAndTitle(ctx context.Context, authorID, titleID int64) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM reviews WHERE author_id = $1 AND title_id = $2)`

	var exists bool
	if err := r.db.QueryRow(ctx, query, authorID, titleID).Scan(&exists); err != nil {
		r.log.Error("Failed to check existing review",
			zap.Error(err),
			zap.Int64("author_id", authorID),
			zap.Int64("title_id", titleID),
		)
		return false, fmt.Errorf("check review by user %d on title %d: %w", authorID, titleID, err)
	}
	return exists, nil
}

func (r *reviewRepository) Update(ctx context.Context, review *entity.Review) error {
	query := `UPDATE reviews SET text = $2, score = $3 WHERE id = $1`

	result, err := r.db.Exec(ctx, query, review.ID, review.Text, review.Score)
	if err != nil {
		r.log.Error("Failed to update review", zap.Error(err), zap.Int64("review_id", review.ID))
		return fmt.Errorf("update review %d: %w", review.ID, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("update review %d: %w", review.ID, ErrNotFound)
	}
	return nil
}

func (r *reviewRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM reviews WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete review", zap.Error(err), zap.Int64("review_id", id))
		return fmt.Errorf("delete review %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete review %d: %w", id, ErrNotFound)
	}

	r.log.Info("Review deleted", zap.Int64("review_id", id))
	return nil
}

func (r *reviewRepository) GetTitleReviewStats(ctx context.Context, titleID int64) (float64, int64, error) {
	query := `SELECT COALESCE(AVG(score), 0)::float8, COUNT(*) FROM reviews WHERE title_id = $1`

	var (
		average float64
		count   int64
	)
	if err := r.db.QueryRow(ctx, query, titleID).Scan(&average, &count); err != nil {
		r.log.Error("Failed to get review stats", zap.Error(err), zap.Int64("title_id", titleID))
		return 0, 0, fmt.Errorf("review stats of title %d: %w", titleID, err)
	}
	return average, count, nil
}
