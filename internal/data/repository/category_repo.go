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

type CategoryRepository interface {
	Create(ctx context.Context, category *entity.Category) error
	FindBySlug(ctx context.Context, slug string) (*entity.Category, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error)
	CountAll(ctx context.Context, search string) (int64, error)
	DeleteBySlug(ctx context.Context, slug string) error
}

type categoryRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewCategoryRepository(db database.PgxIface, log *zap.Logger) CategoryRepository {
	return &categoryRepository{
		db:  db,
		log: log.With(zap.String("repository", "category")),
	}
}

func (r *categoryRepository) Create(ctx context.Context, category *entity.Category) error {
	query := `INSERT INTO categories (name, slug) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRow(ctx, query, category.Name, category.Slug).Scan(&category.ID)
	if _, ok := uniqueViolation(err); ok {
		return fmt.Errorf("create category %s: %w", category.Slug, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create category", zap.Error(err), zap.String("slug", category.Slug))
		return fmt.Errorf("create category %s: %w", category.Slug, err)
	}

	return nil
}

func (r *categoryRepository) FindBySlug(ctx context.Context, slug string) (*entity.Category, error) {
	query := `SELECT id, name, slug FROM categories WHERE slug = $1`

	var category entity.Category
	err := r.db.QueryRow(ctx, query, slug).Scan(&category.ID, &category.Name, &category.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find category by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("find category %s: %w", slug, err)
	}

	return &category, nil
}

func (r *categoryRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Category, error) {
	query := `
		SELECT id, name, slug
		FROM categories
		WHERE ($1 = '' OR name ILIKE $2)
		ORDER BY name, slug
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, search, likePattern(search), limit, offset)
	if err != nil {
		r.log.Error("Failed to list categories", zap.Error(err), zap.String("search", search))
		return nil, fmt.Errorf("list categories: %w", err)
	}
	defer rows.Close()

	var categories []*entity.Category
	for rows.Next() {
		var category entity.Category
		if err := rows.Scan(&category.ID, &category.Name, &category.Slug); err != nil {
			r.log.Error("Failed to scan category row", zap.Error(err))
			return nil, fmt.Errorf("scan category row: %w", err)
		}
		categories = append(categories, &category)
	}

	return categories, rows.Err()
}

func (r *categoryRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM categories WHERE ($1 = '' OR name ILIKE $2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, search, likePattern(search)).Scan(&count); err != nil {
		r.log.Error("Failed to count categories", zap.Error(err))
		return 0, fmt.Errorf("count categories: %w", err)
	}
	return count, nil
}

// DeleteBySlug removes the category; its titles keep a NULL category
func (r *categoryRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM categories WHERE slug = $1`, slug)
	if err != nil {
		r.log.Error("Failed to delete category", zap.Error(err), zap.String("slug", slug))
		return fmt.Errorf("delete category %s: %w", slug, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete category %s: %w", slug, ErrNotFound)
	}

	r.log.Info("Category deleted", zap.String("slug", slug))
	return nil
}
