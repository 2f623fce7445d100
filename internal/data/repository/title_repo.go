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

type TitleRepository interface {
	CreateWithGenres(ctx context.Context, title *entity.Title, genreIDs []int64) error
	FindByID(ctx context.Context, id int64) (*entity.Title, error)
	FindAll(ctx context.Context, filter entity.TitleFilter, limit, offset int) ([]*entity.Title, error)
	CountAll(ctx context.Context, filter entity.TitleFilter) (int64, error)
	// UpdateWithGenres replaces the link set only when genreIDs is non-nil
	UpdateWithGenres(ctx context.Context, title *entity.Title, genreIDs []int64) error
	Delete(ctx context.Context, id int64) error
	Exists(ctx context.Context, id int64) (bool, error)
}

type titleRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewTitleRepository(db database.PgxIface, log *zap.Logger) TitleRepository {
	return &titleRepository{
		db:  db,
		log: log.With(zap.String("repository", "title")),
	}
}

const titleSelect = `
	SELECT t.id, t.name, t.year, t.description, t.category_id,
	       (SELECT TRUNC(AVG(r.score))::int FROM reviews r WHERE r.title_id = t.id) AS rating,
	       c.name, c.slug
	FROM titles t
	LEFT JOIN categories c ON c.id = t.category_id
`

const titleFilterWhere = `
	WHERE ($1 = '' OR c.slug = $1)
	  AND ($2 = '' OR EXISTS (
	        SELECT 1 FROM genre_titles gt
	        INNER JOIN genres g ON g.id = gt.genre_id
	        WHERE gt.title_id = t.id AND g.slug = $2))
	  AND ($3 = '' OR t.name ILIKE $4)
	  AND ($5::int IS NULL OR t.year = $5)
`

func filterArgs(filter entity.TitleFilter) []any {
	return []any{
		filter.CategorySlug,
		filter.GenreSlug,
		filter.Name,
		likePattern(filter.Name),
		filter.Year,
	}
}

func scanTitle(row rowScanner) (*entity.Title, error) {
	var (
		title        entity.Title
		categoryName *string
		categorySlug *string
	)
	err := row.Scan(
		&title.ID,
		&title.Name,
		&title.Year,
		&title.Description,
		&title.CategoryID,
		&title.Rating,
		&categoryName,
		&categorySlug,
	)
	if err != nil {
		return nil, err
	}

	if title.CategoryID != nil && categorySlug != nil {
		title.Category = &entity.Category{
			Base: entity.Base{ID: *title.CategoryID},
			Name: *categoryName,
			Slug: *categorySlug,
		}
	}
	return &title, nil
}

func (r *titleRepository) insertTitle(ctx context.Context, q database.Querier, title *entity.Title) error {
	query := `
		INSERT INTO titles (name, year, description, category_id)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	return q.QueryRow(ctx, query,
		title.Name,
		title.Year,
		title.Description,
		title.CategoryID,
	).Scan(&title.ID)
}

// CreateWithGenres writes the title and its genre links in one transaction
func (r *titleRepository) CreateWithGenres(ctx context.Context, title *entity.Title, genreIDs []int64) error {
	err := database.InTx(ctx, r.db, func(q database.Querier) error {
		if err := r.insertTitle(ctx, q, title); err != nil {
			return fmt.Errorf("insert title: %w", err)
		}
		return replaceTitleGenres(ctx, q, title.ID, genreIDs)
	})
	if err != nil {
		r.log.Error("Failed to create title",
			zap.Error(err),
			zap.String("name", title.Name),
		)
		return fmt.Errorf("create title %s: %w", title.Name, err)
	}

	return nil
}

func (r *titleRepository) FindByID(ctx context.Context, id int64) (*entity.Title, error) {
	query := titleSelect + ` WHERE t.id = $1`

	title, err := scanTitle(r.db.QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find title by ID", zap.Error(err), zap.Int64("title_id", id))
		return nil, fmt.Errorf("find title by ID %d: %w", id, err)
	}

	return title, nil
}

func (r *titleRepository) FindAll(ctx context.Context, filter entity.TitleFilter, limit, offset int) ([]*entity.Title, error) {
	query := titleSelect + titleFilterWhere + ` ORDER BY t.id LIMIT $6 OFFSET $7`

	args := append(filterArgs(filter), limit, offset)
	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		r.log.Error("Failed to list titles",
			zap.Error(err),
			zap.Int("limit", limit),
			zap.Int("offset", offset),
		)
		return nil, fmt.Errorf("list titles: %w", err)
	}
	defer rows.Close()

	var titles []*entity.Title
	for rows.Next() {
		title, err := scanTitle(rows)
		if err != nil {
			r.log.Error("Failed to scan title row", zap.Error(err))
			return nil, fmt.Errorf("scan title row: %w", err)
		}
		titles = append(titles, title)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate title rows: %w", err)
	}
	return titles, nil
}

func (r *titleRepository) CountAll(ctx context.Context, filter entity.TitleFilter) (int64, error) {
	query := `SELECT COUNT(*) FROM titles t LEFT JOIN categories c ON c.id = t.category_id` + titleFilterWhere

	var count int64
	if err := r.db.QueryRow(ctx, query, filterArgs(filter)...).Scan(&count); err != nil {
		r.log.Error("Failed to count titles", zap.Error(err))
		return 0, fmt.Errorf("count titles: %w", err)
	}
	return count, nil
}

func (r *titleRepository) UpdateWithGenres(ctx context.Context, title *entity.Title, genreIDs []int64) error {
	err := database.InTx(ctx, r.db, func(q database.Querier) error {
		query := `
			UPDATE titles
			SET name = $2, year = $3, description = $4, category_id = $5
			WHERE id = $1
		`
		result, err := q.Exec(ctx, query,
			title.ID,
			title.Name,
			title.Year,
			title.Description,
			title.CategoryID,
		)
		if err != nil {
			return fmt.Errorf("update title row: %w", err)
		}
		if result.RowsAffected() == 0 {
			return ErrNotFound
		}

		if genreIDs == nil {
			return nil
		}
		return replaceTitleGenres(ctx, q, title.ID, genreIDs)
	})

	if errors.Is(err, ErrNotFound) {
		return fmt.Errorf("update title %d: %w", title.ID, err)
	}
	if err != nil {
		r.log.Error("Failed to update title", zap.Error(err), zap.Int64("title_id", title.ID))
		return fmt.Errorf("update title %d: %w", title.ID, err)
	}

	return nil
}

// Delete removes the title; links, reviews and their comments cascade
func (r *titleRepository) Delete(ctx context.Context, id int64) error {
	result, err := r.db.Exec(ctx, `DELETE FROM titles WHERE id = $1`, id)
	if err != nil {
		r.log.Error("Failed to delete title", zap.Error(err), zap.Int64("title_id", id))
		return fmt.Errorf("delete title %d: %w", id, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete title %d: %w", id, ErrNotFound)
	}

	r.log.Info("Title deleted", zap.Int64("title_id", id))
	return nil
}

func (r *titleRepository) Exists(ctx context.Context, id int64) (bool, error) {
	var exists bool
	if err := r.db.QueryRow(ctx, `SELECT EXISTS(SELECT 1 FROM titles WHERE id = $1)`, id).Scan(&exists); err != nil {
		r.log.Error("Failed to check title existence", zap.Error(err), zap.Int64("title_id", id))
		return false, fmt.Errorf("check title %d exists: %w", id, err)
	}
	return exists, nil
}
