package repository

import (
	"context"
	"fmt"
	"strings"

	"yamdb/pkg/database"
)

// replaceTitleGenres swaps the link set of a title for genreIDs in one statement pair.
func replaceTitleGenres(ctx context.Context, q database.Querier, titleID int64, genreIDs []int64) error {
	if _, err := q.Exec(ctx, `DELETE FROM genre_titles WHERE title_id = $1`, titleID); err != nil {
		return fmt.Errorf("clear genres of title %d: %w", titleID, err)
	}

	if len(genreIDs) == 0 {
		return nil
	}

	placeholders := make([]string, 0, len(genreIDs))
	args := make([]any, 0, len(genreIDs)*2)
	for i, genreID := range genreIDs {
		placeholders = append(placeholders, fmt.Sprintf("($%d, $%d)", i*2+1, i*2+2))
		args = append(args, genreID, titleID)
	}

	query := `INSERT INTO genre_titles (genre_id, title_id) VALUES ` +
		strings.Join(placeholders, ", ") +
		` ON CONFLICT (genre_id, title_id) DO NOTHING`

	if _, err := q.Exec(ctx, query, args...); err != nil {
		return fmt.Errorf("link genres to title %d: %w", titleID, err)
	}
	return nil
}
