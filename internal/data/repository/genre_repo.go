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

type GenreRepository interface {
	Create(ctx context.Context, genre *entity.Genre) error
	FindBySlug(ctx context.Context, slug string) (*entity.Genre, error)
	FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error)
	FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error)
	CountAll(ctx context.Context, search string) (int64, error)
	DeleteBySlug(ctx context.Context, slug string) error

	// FindByTitleIDs groups genres by title for list enrichment
	FindByTitleIDs(ctx context.Context, titleIDs []int64) (map[int64][]*entity.Genre, error)
}

type genreRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewGenreRepository(db database.PgxIface, log *zap.Logger) GenreRepository {
	return &genreRepository{
		db:  db,
		log: log.With(zap.String("repository", "genre")),
	}
}

func (r *genreRepository) Create(ctx context.Context, genre *entity.Genre) error {
	query := `INSERT INTO genres (name, slug) VALUES ($1, $2) RETURNING id`

	err := r.db.QueryRow(ctx, query, genre.Name, genre.Slug).Scan(&genre.ID)
	if _, ok := uniqueViolation(err); ok {
		return fmt.Errorf("create genre %s: %w", genre.Slug, ErrDuplicate)
	}
	if err != nil {
		r.log.Error("Failed to create genre", zap.Error(err), zap.String("slug", genre.Slug))
		return fmt.Errorf("create genre %s: %w", genre.Slug, err)
	}

	return nil
}

func (r *genreRepository) FindBySlug(ctx context.Context, slug string) (*entity.Genre, error) {
	query := `SELECT id, name, slug FROM genres WHERE slug = $1`

	var genre entity.Genre
	err := r.db.QueryRow(ctx, query, slug).Scan(&genre.ID, &genre.Name, &genre.Slug)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		r.log.Error("Failed to find genre by slug", zap.Error(err), zap.String("slug", slug))
		return nil, fmt.Errorf("find genre %s: %w", slug, err)
	}

	return &genre, nil
}

// FindBySlugs returns the genres that exist among slugs; callers compare lengths
func (r *genreRepository) FindBySlugs(ctx context.Context, slugs []string) ([]*entity.Genre, error) {
	if len(slugs) == 0 {
		return nil, nil
	}

	query := `SELECT id, name, slug FROM genres WHERE slug = ANY($1) ORDER BY name`

	rows, err := r.db.Query(ctx, query, slugs)
	if err != nil {
		r.log.Error("Failed to find genres by slugs", zap.Error(err), zap.Strings("slugs", slugs))
		return nil, fmt.Errorf("find genres by slugs: %w", err)
	}
	defer rows.Close()

	return scanGenres(rows)
}

func (r *genreRepository) FindAll(ctx context.Context, search string, limit, offset int) ([]*entity.Genre, error) {
	query := `
		SELECT id, name, slug
		FROM genres
		WHERE ($1 = '' OR name ILIKE $2)
		ORDER BY name, slug
		LIMIT $3 OFFSET $4
	`

	rows, err := r.db.Query(ctx, query, search, likePattern(search), limit, offset)
	if err != nil {
		r.log.Error("Failed to list genres", zap.Error(err), zap.String("search", search))
		return nil, fmt.Errorf("list genres: %w", err)
	}
	defer rows.Close()

	return scanGenres(rows)
}

func (r *genreRepository) CountAll(ctx context.Context, search string) (int64, error) {
	query := `SELECT COUNT(*) FROM genres WHERE ($1 = '' OR name ILIKE $2)`

	var count int64
	if err := r.db.QueryRow(ctx, query, search, likePattern(search)).Scan(&count); err != nil {
		r.log.Error("Failed to count genres", zap.Error(err))
		return 0, fmt.Errorf("count genres: %w", err)
	}
	return count, nil
}

func (r *genreRepository) DeleteBySlug(ctx context.Context, slug string) error {
	result, err := r.db.Exec(ctx, `DELETE FROM genres WHERE slug = $1`, slug)
	if err != nil {
		r.log.Error("Failed to delete genre", zap.Error(err), zap.String("slug", slug))
		return fmt.Errorf("delete genre %s: %w", slug, err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("delete genre %s: %w", slug, ErrNotFound)
	}

	r.log.Info("Genre deleted", zap.String("slug", slug))
	return nil
}

func (r *genreRepository) FindByTitleIDs(ctx context.Context, titleIDs []int64) (map[int64][]*entity.Genre, error) {
	result := make(map[int64][]*entity.Genre, len(titleIDs))
	if len(titleIDs) == 0 {
		return result, nil
	}

	query := `
		SELECT gt.title_id, g.id, g.name, g.slug
		FROM genres g
		INNER JOIN genre_titles gt ON g.id = gt.genre_id
		WHERE gt.title_id = ANY($1)
		ORDER BY g.name
	`

	rows, err := r.db.Query(ctx, query, titleIDs)
	if err != nil {
		r.log.Error("Failed to find genres by title IDs", zap.Error(err), zap.Int("titles", len(titleIDs)))
		return nil, fmt.Errorf("find genres by title ids: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var (
			titleID int64
			genre   entity.Genre
		)
		if err := rows.Scan(&titleID, &genre.ID, &genre.Name, &genre.Slug); err != nil {
			r.log.Error("Failed to scan genre row", zap.Error(err))
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		result[titleID] = append(result[titleID], &genre)
	}

	return result, rows.Err()
}

func scanGenres(rows pgx.Rows) ([]*entity.Genre, error) {
	var genres []*entity.Genre
	for rows.Next() {
		var genre entity.Genre
		if err := rows.Scan(&genre.ID, &genre.Name, &genre.Slug); err != nil {
			return nil, fmt.Errorf("scan genre row: %w", err)
		}
		genres = append(genres, &genre)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate genre rows: %w", err)
	}
	return genres, nil
}
