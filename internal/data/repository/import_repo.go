package repository

import (
	"context"
	"fmt"
	"strings"

	"yamdb/internal/data/entity"
	"yamdb/pkg/database"

	"go.uber.org/zap"
)

// ImportRepository bulk-loads fixture rows with their explicit ids.
// Each call runs in one transaction, skips rows that already exist and
// advances the table's identity sequence past the highest id.
type ImportRepository interface {
	ImportCategories(ctx context.Context, rows []*entity.Category) (int64, error)
	ImportGenres(ctx context.Context, rows []*entity.Genre) (int64, error)
	ImportUsers(ctx context.Context, rows []*entity.User) (int64, error)
	ImportTitles(ctx context.Context, rows []*entity.Title) (int64, error)
	ImportGenreTitles(ctx context.Context, rows []*entity.GenreTitle) (int64, error)
	ImportReviews(ctx context.Context, rows []*entity.Review) (int64, error)
	ImportComments(ctx context.Context, rows []*entity.Comment) (int64, error)
}

type importRepository struct {
	db  database.PgxIface
	log *zap.Logger
}

func NewImportRepository(db database.PgxIface, log *zap.Logger) ImportRepository {
	return &importRepository{
		db:  db,
		log: log.With(zap.String("repository", "import")),
	}
}

func (r *importRepository) ImportCategories(ctx context.Context, rows []*entity.Category) (int64, error) {
	values := make([][]any, 0, len(rows))
	for _, c := range rows {
		values = append(values, []any{c.ID, c.Name, c.Slug})
	}
	return r.load(ctx, "categories", []string{"id", "name", "slug"}, values)
}

func (r *importRepository) ImportGenres(ctx context.Context, rows []*entity.Genre) (int64, error) {
	values := make([][]any, 0, len(rows))
	for _, g := range rows {
		values = append(values, []any{g.ID, g.Name, g.Slug})
	}
	return r.load(ctx, "genres", []string{"id", "name", "slug"}, values)
}

func (r *importRepository) ImportUsers(ctx context.Context, rows []*entity.User) (int64, error) {
	values := make([][]any, 0, len(rows))
	for _, u := range rows {
		values = append(values, []any{
			u.ID, u.Username, u.Email, u.Role, u.Bio, u.FirstName, u.LastName,
			u.IsSuperuser, u.IsActive, u.DateJoined,
		})
	}
	return r.load(ctx, "users", []string{
		"id", "username", "email", "role", "bio", "first_name", "last_name",
		"is_superuser", "is_active", "date_joined",
	}, values)
}

func (r *importRepository) ImportTitles(ctx context.Context, rows []*entity.Title) (int64, error) {
	values := make([][]any, 0, len(rows))
	for _, t := range rows {
		values = append(values, []any{t.ID, t.Name, t.Year, t.Description, t.CategoryID})
	}
	return r.load(ctx, "titles", []string{"id", "name", "year", "description", "category_id"}, values)
}

func (r *importRepository) ImportGenreTitles(ctx context.Context, rows []*entity.GenreTitle) (int64, error) {
	values := make([][]any, 0, len(rows))
	for _, gt := range rows {
		values = append(values, []any{gt.ID, gt.GenreID, gt.TitleID})
	}
	return r.load(ctx, "genre_titles", []string{"id", "genre_id", "title_id"}, values)
}

func (r *importRepository) ImportReviews(ctx context.Context, rows []*entity.Review) (int64, error) {
	values := make([][]any, 0, len(rows))
	for _, rv := range rows {
		values = append(values, []any{rv.ID, rv.TitleID, rv.AuthorID, rv.Text, rv.Score, rv.PubDate})
	}
	return r.load(ctx, "reviews", []string{"id", "title_id", "author_id", "text", "score", "pub_date"}, values)
}

func (r *importRepository) ImportComments(ctx context.Context, rows []*entity.Comment) (int64, error) {
	values := make([][]any, 0, len(rows))
	for _, c := range rows {
		values = append(values, []any{c.ID, c.ReviewID, c.AuthorID, c.Text, c.PubDate})
	}
	return r.load(ctx, "comments", []string{"id", "review_id", "author_id", "text", "pub_date"}, values)
}

// load inserts rows into table; table and columns are package constants, never user input.
func (r *importRepository) load(ctx context.Context, table string, columns []string, rows [][]any) (int64, error) {
	placeholders := make([]string, len(columns))
	for i := range columns {
		placeholders[i] = fmt.Sprintf("$%d", i+1)
	}

	insert := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT DO NOTHING",
		table, strings.Join(columns, ", "), strings.Join(placeholders, ", "),
	)
	setval := fmt.Sprintf(
		"SELECT setval(pg_get_serial_sequence('%s', 'id'), COALESCE((SELECT MAX(id) FROM %s), 0) + 1, false)",
		table, table,
	)

	var inserted int64
	err := database.InTx(ctx, r.db, func(q database.Querier) error {
		for i, row := range rows {
			tag, err := q.Exec(ctx, insert, row...)
			if err != nil {
				return fmt.Errorf("row %d: %w", i+1, err)
			}
			inserted += tag.RowsAffected()
		}

		if _, err := q.Exec(ctx, setval); err != nil {
			return fmt.Errorf("advance sequence: %w", err)
		}
		return nil
	})
	if err != nil {
		r.log.Error("Failed to import rows",
			zap.Error(err),
			zap.String("table", table),
			zap.Int("rows", len(rows)),
		)
		return 0, fmt.Errorf("import %s: %w", table, err)
	}

	return inserted, nil
}
