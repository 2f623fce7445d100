package importer

import (
	"context"
	"fmt"
	"strconv"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/pkg/utils"
)

var pubDateLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
}

type slugRow struct {
	ID   int64  `json:"id" validate:"required,min=1"`
	Name string `json:"name" validate:"required,max=256"`
	Slug string `json:"slug" validate:"required,max=50,slug"`
}

type userRow struct {
	ID        int64  `json:"id" validate:"required,min=1"`
	Username  string `json:"username" validate:"required,max=150,username,notme"`
	Email     string `json:"email" validate:"required,email,max=254"`
	Role      string `json:"role" validate:"required,oneof=user moderator admin"`
	Bio       string `json:"bio"`
	FirstName string `json:"first_name" validate:"max=150"`
	LastName  string `json:"last_name" validate:"max=150"`
}

type titleRow struct {
	ID         int64  `json:"id" validate:"required,min=1"`
	Name       string `json:"name" validate:"required,max=256"`
	Year       int    `json:"year" validate:"min=-32768,notfutureyear"`
	CategoryID *int64 `json:"category" validate:"omitempty,min=1"`
}

type genreTitleRow struct {
	ID      int64 `json:"id" validate:"required,min=1"`
	TitleID int64 `json:"title_id" validate:"required,min=1"`
	GenreID int64 `json:"genre_id" validate:"required,min=1"`
}

type reviewRow struct {
	ID       int64     `json:"id" validate:"required,min=1"`
	TitleID  int64     `json:"title_id" validate:"required,min=1"`
	Text     string    `json:"text" validate:"required"`
	AuthorID int64     `json:"author" validate:"required,min=1"`
	Score    int       `json:"score" validate:"min=1,max=10"`
	PubDate  time.Time `json:"pub_date" validate:"required"`
}

type commentRow struct {
	ID       int64     `json:"id" validate:"required,min=1"`
	ReviewID int64     `json:"review_id" validate:"required,min=1"`
	Text     string    `json:"text" validate:"required"`
	AuthorID int64     `json:"author" validate:"required,min=1"`
	PubDate  time.Time `json:"pub_date" validate:"required"`
}

func (im *Importer) loadCategories(ctx context.Context, records []record) (int64, error) {
	rows, err := decodeRows(records, decodeSlugRow)
	if err != nil {
		return 0, err
	}

	categories := make([]*entity.Category, len(rows))
	for i, row := range rows {
		categories[i] = &entity.Category{Base: entity.Base{ID: row.ID}, Name: row.Name, Slug: row.Slug}
	}
	return im.repo.ImportCategories(ctx, categories)
}

func (im *Importer) loadGenres(ctx context.Context, records []record) (int64, error) {
	rows, err := decodeRows(records, decodeSlugRow)
	if err != nil {
		return 0, err
	}

	genres := make([]*entity.Genre, len(rows))
	for i, row := range rows {
		genres[i] = &entity.Genre{Base: entity.Base{ID: row.ID}, Name: row.Name, Slug: row.Slug}
	}
	return im.repo.ImportGenres(ctx, genres)
}

func (im *Importer) loadUsers(ctx context.Context, records []record) (int64, error) {
	rows, err := decodeRows(records, func(rec record) (userRow, error) {
		id, err := parseID(rec, "id")
		if err != nil {
			return userRow{}, err
		}

		role := rec.get("role")
		if role == "" {
			role = string(entity.RoleUser)
		}

		return userRow{
			ID:        id,
			Username:  rec.get("username"),
			Email:     rec.get("email"),
			Role:      role,
			Bio:       rec.get("bio"),
			FirstName: rec.get("first_name"),
			LastName:  rec.get("last_name"),
		}, nil
	})
	if err != nil {
		return 0, err
	}

	joined := im.now()
	users := make([]*entity.User, len(rows))
	for i, row := range rows {
		users[i] = &entity.User{
			Base:       entity.Base{ID: row.ID},
			Username:   row.Username,
			Email:      row.Email,
			Role:       entity.UserRole(row.Role),
			Bio:        row.Bio,
			FirstName:  row.FirstName,
			LastName:   row.LastName,
			IsActive:   true,
			DateJoined: joined,
		}
	}
	return im.repo.ImportUsers(ctx, users)
}

func (im *Importer) loadTitles(ctx context.Context, records []record) (int64, error) {
	rows, err := decodeRows(records, func(rec record) (titleRow, error) {
		id, err := parseID(rec, "id")
		if err != nil {
			return titleRow{}, err
		}
		year, err := strconv.Atoi(rec.get("year"))
		if err != nil {
			return titleRow{}, fmt.Errorf("column year: %q is not a number", rec.get("year"))
		}

		row := titleRow{ID: id, Name: rec.get("name"), Year: year}
		if rec.get("category") != "" {
			categoryID, err := parseID(rec, "category")
			if err != nil {
				return titleRow{}, err
			}
			row.CategoryID = &categoryID
		}
		return row, nil
	})
	if err != nil {
		return 0, err
	}

	titles := make([]*entity.Title, len(rows))
	for i, row := range rows {
		titles[i] = &entity.Title{
			Base:       entity.Base{ID: row.ID},
			Name:       row.Name,
			Year:       row.Year,
			CategoryID: row.CategoryID,
		}
	}
	return im.repo.ImportTitles(ctx, titles)
}

func (im *Importer) loadGenreTitles(ctx context.Context, records []record) (int64, error) {
	rows, err := decodeRows(records, func(rec record) (genreTitleRow, error) {
		ids, err := parseIDs(rec, "id", "title_id", "genre_id")
		if err != nil {
			return genreTitleRow{}, err
		}
		return genreTitleRow{ID: ids[0], TitleID: ids[1], GenreID: ids[2]}, nil
	})
	if err != nil {
		return 0, err
	}

	links := make([]*entity.GenreTitle, len(rows))
	for i, row := range rows {
		links[i] = &entity.GenreTitle{Base: entity.Base{ID: row.ID}, TitleID: row.TitleID, GenreID: row.GenreID}
	}
	return im.repo.ImportGenreTitles(ctx, links)
}

func (im *Importer) loadReviews(ctx context.Context, records []record) (int64, error) {
	rows, err := decodeRows(records, func(rec record) (reviewRow, error) {
		ids, err := parseIDs(rec, "id", "title_id", "author")
		if err != nil {
			return reviewRow{}, err
		}
		score, err := strconv.Atoi(rec.get("score"))
		if err != nil {
			return reviewRow{}, fmt.Errorf("column score: %q is not a number", rec.get("score"))
		}
		pubDate, err := parsePubDate(rec.get("pub_date"))
		if err != nil {
			return reviewRow{}, err
		}

		return reviewRow{
			ID:       ids[0],
			TitleID:  ids[1],
			AuthorID: ids[2],
			Text:     rec.get("text"),
			Score:    score,
			PubDate:  pubDate,
		}, nil
	})
	if err != nil {
		return 0, err
	}

	reviews := make([]*entity.Review, len(rows))
	for i, row := range rows {
		reviews[i] = &entity.Review{
			Publication: entity.Publication{
				Base:     entity.Base{ID: row.ID},
				AuthorID: row.AuthorID,
				Text:     row.Text,
				PubDate:  row.PubDate,
			},
			TitleID: row.TitleID,
			Score:   row.Score,
		}
	}
	return im.repo.ImportReviews(ctx, reviews)
}

func (im *Importer) loadComments(ctx context.Context, records []record) (int64, error) {
	rows, err := decodeRows(records, func(rec record) (commentRow, error) {
		ids, err := parseIDs(rec, "id", "review_id", "author")
		if err != nil {
			return commentRow{}, err
		}
		pubDate, err := parsePubDate(rec.get("pub_date"))
		if err != nil {
			return commentRow{}, err
		}

		return commentRow{
			ID:       ids[0],
			ReviewID: ids[1],
			AuthorID: ids[2],
			Text:     rec.get("text"),
			PubDate:  pubDate,
		}, nil
	})
	if err != nil {
		return 0, err
	}

	comments := make([]*entity.Comment, len(rows))
	for i, row := range rows {
		comments[i] = &entity.Comment{
			Publication: entity.Publication{
				Base:     entity.Base{ID: row.ID},
				AuthorID: row.AuthorID,
				Text:     row.Text,
				PubDate:  row.PubDate,
			},
			ReviewID: row.ReviewID,
		}
	}
	return im.repo.ImportComments(ctx, comments)
}

// ==================== HELPER METHODS ====================

// decodeRows builds and validates every record before anything is written.
func decodeRows[T any](records []record, build func(rec record) (T, error)) ([]T, error) {
	rows := make([]T, 0, len(records))
	for _, rec := range records {
		row, err := build(rec)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", rec.line, err)
		}
		if errs := utils.ValidateStruct(row); len(errs) > 0 {
			return nil, fmt.Errorf("line %d: %s", rec.line, utils.FormatValidationErrors(errs))
		}
		rows = append(rows, row)
	}
	return rows, nil
}

func decodeSlugRow(rec record) (slugRow, error) {
	id, err := parseID(rec, "id")
	if err != nil {
		return slugRow{}, err
	}
	return slugRow{ID: id, Name: rec.get("name"), Slug: rec.get("slug")}, nil
}

func parseID(rec record, column string) (int64, error) {
	raw := rec.get(column)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("column %s: %q is not an id", column, raw)
	}
	return id, nil
}

func parseIDs(rec record, columns ...string) ([]int64, error) {
	ids := make([]int64, len(columns))
	for i, column := range columns {
		id, err := parseID(rec, column)
		if err != nil {
			return nil, err
		}
		ids[i] = id
	}
	return ids, nil
}

func parsePubDate(raw string) (time.Time, error) {
	for _, layout := range pubDateLayouts {
		if t, err := time.Parse(layout, raw); err == nil {
			return t.UTC(), nil
		}
	}
	return time.Time{}, fmt.Errorf("column pub_date: %q is not a timestamp", raw)
}
