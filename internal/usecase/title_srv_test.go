package usecase

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func intPtr(i int) *int { return &i }

func TestGetAllTitles_AttachesGenresAndRating(t *testing.T) {
	tr := newTestRepo()
	svc := NewTitleService(tr.Repository, testLogger())
	ctx := context.Background()

	filter := entity.TitleFilter{GenreSlug: "drama", Year: intPtr(1994)}
	categoryID := int64(1)
	titles := []*entity.Title{
		{
			Base:       entity.Base{ID: 10},
			Name:       "Pulp Fiction",
			Year:       1994,
			CategoryID: &categoryID,
			Rating:     intPtr(8),
			Category:   &entity.Category{Base: entity.Base{ID: 1}, Name: "Movie", Slug: "movie"},
		},
		{Base: entity.Base{ID: 11}, Name: "Unrated", Year: 1994},
	}

	tr.titles.On("FindAll", ctx, filter, 10, 0).Return(titles, nil)
	tr.titles.On("CountAll", ctx, filter).Return(int64(2), nil)
	tr.genres.On("FindByTitleIDs", ctx, []int64{10, 11}).Return(map[int64][]*entity.Genre{
		10: {{Name: "Drama", Slug: "drama"}},
	}, nil)

	resp, err := svc.GetAllTitles(ctx, &request.TitleListRequest{Genre: "drama", Year: intPtr(1994)})
	require.NoError(t, err)
	require.Len(t, resp.Data, 2)

	first := resp.Data[0]
	require.NotNil(t, first.Rating)
	assert.Equal(t, 8, *first.Rating)
	require.NotNil(t, first.Category)
	assert.Equal(t, "movie", first.Category.Slug)
	require.Len(t, first.Genre, 1)
	assert.Equal(t, "drama", first.Genre[0].Slug)

	second := resp.Data[1]
	assert.Nil(t, second.Rating)
	assert.Nil(t, second.Category)
	assert.NotNil(t, second.Genre)
	assert.Empty(t, second.Genre)
}

func TestCreateTitle(t *testing.T) {
	tr := newTestRepo()
	svc := NewTitleService(tr.Repository, testLogger())
	ctx := context.Background()

	category := &entity.Category{Base: entity.Base{ID: 2}, Name: "Book", Slug: "book"}
	tr.categories.On("FindBySlug", ctx, "book").Return(category, nil)
	tr.genres.On("FindBySlugs", ctx, []string{"drama", "novel"}).Return([]*entity.Genre{
		{Base: entity.Base{ID: 4}, Name: "Drama", Slug: "drama"},
		{Base: entity.Base{ID: 5}, Name: "Novel", Slug: "novel"},
	}, nil)
	tr.titles.On("CreateWithGenres", ctx, mock.MatchedBy(func(title *entity.Title) bool {
		return title.Name == "War and Peace" && *title.CategoryID == 2
	}), []int64{4, 5}).Run(func(args mock.Arguments) {
		args.Get(1).(*entity.Title).ID = 30
	}).Return(nil)
	tr.titles.On("FindByID", ctx, int64(30)).Return(&entity.Title{
		Base:     entity.Base{ID: 30},
		Name:     "War and Peace",
		Year:     1869,
		Category: category,
	}, nil)
	tr.genres.On("FindByTitleIDs", ctx, []int64{30}).Return(map[int64][]*entity.Genre{}, nil)

	resp, err := svc.CreateTitle(ctx, &request.CreateTitleRequest{
		Name:     "War and Peace",
		Year:     intPtr(1869),
		Category: "book",
		Genre:    []string{"novel", "drama", "novel"},
	})
	require.NoError(t, err)
	assert.Equal(t, int64(30), resp.ID)
	assert.Nil(t, resp.Rating)
	tr.assertExpectations(t)
}

func TestCreateTitle_ValidationErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("future year", func(t *testing.T) {
		tr := newTestRepo()
		svc := NewTitleService(tr.Repository, testLogger())

		_, err := svc.CreateTitle(ctx, &request.CreateTitleRequest{
			Name:     "Tomorrow",
			Year:     intPtr(time.Now().Year() + 1),
			Category: "book",
			Genre:    []string{"drama"},
		})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "year")
	})

	t.Run("empty genre list", func(t *testing.T) {
		tr := newTestRepo()
		svc := NewTitleService(tr.Repository, testLogger())

		_, err := svc.CreateTitle(ctx, &request.CreateTitleRequest{
			Name:     "Lonely",
			Year:     intPtr(2000),
			Category: "book",
			Genre:    []string{},
		})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "genre")
	})

	t.Run("unknown category", func(t *testing.T) {
		tr := newTestRepo()
		svc := NewTitleService(tr.Repository, testLogger())
		tr.categories.On("FindBySlug", ctx, "ghost").Return(nil, nil)

		_, err := svc.CreateTitle(ctx, &request.CreateTitleRequest{
			Name:     "Haunted",
			Year:     intPtr(2000),
			Category: "ghost",
			Genre:    []string{"drama"},
		})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "category")
	})

	t.Run("unknown genre", func(t *testing.T) {
		tr := newTestRepo()
		svc := NewTitleService(tr.Repository, testLogger())
		tr.categories.On("FindBySlug", ctx, "book").Return(&entity.Category{Base: entity.Base{ID: 2}}, nil)
		tr.genres.On("FindBySlugs", ctx, []string{"drama", "unknown"}).Return([]*entity.Genre{
			{Base: entity.Base{ID: 4}, Slug: "drama"},
		}, nil)

		_, err := svc.CreateTitle(ctx, &request.CreateTitleRequest{
			Name:     "Mystery",
			Year:     intPtr(2000),
			Category: "book",
			Genre:    []string{"drama", "unknown"},
		})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Unknown genre: unknown", verr.Fields["genre"])
		tr.titles.AssertNotCalled(t, "CreateWithGenres", mock.Anything, mock.Anything, mock.Anything)
	})
}

func TestUpdateTitle_PartialKeepsGenres(t *testing.T) {
	tr := newTestRepo()
	svc := NewTitleService(tr.Repository, testLogger())
	ctx := context.Background()

	existing := &entity.Title{Base: entity.Base{ID: 30}, Name: "Old", Year: 1990}
	tr.titles.On("FindByID", ctx, int64(30)).Return(existing, nil)
	tr.titles.On("UpdateWithGenres", ctx, mock.MatchedBy(func(title *entity.Title) bool {
		return title.Name == "New" && title.Year == 1990
	}), []int64(nil)).Return(nil)
	tr.genres.On("FindByTitleIDs", ctx, []int64{30}).Return(map[int64][]*entity.Genre{}, nil)

	resp, err := svc.UpdateTitle(ctx, 30, &request.UpdateTitleRequest{Name: strPtr("New")})
	require.NoError(t, err)
	assert.Equal(t, "New", resp.Name)
	tr.assertExpectations(t)
}

func TestUpdateTitle_ReplacesGenres(t *testing.T) {
	tr := newTestRepo()
	svc := NewTitleService(tr.Repository, testLogger())
	ctx := context.Background()

	existing := &entity.Title{Base: entity.Base{ID: 30}, Name: "Old", Year: 1990}
	comedy := &entity.Genre{Base: entity.Base{ID: 6}, Name: "Comedy", Slug: "comedy"}
	drama := &entity.Genre{Base: entity.Base{ID: 4}, Name: "Drama", Slug: "drama"}

	tr.titles.On("FindByID", ctx, int64(30)).Return(existing, nil)
	tr.genres.On("FindBySlugs", ctx, []string{"comedy", "drama"}).Return([]*entity.Genre{comedy, drama}, nil)
	tr.titles.On("UpdateWithGenres", ctx, existing, []int64{6, 4}).Return(nil)
	tr.genres.On("FindByTitleIDs", ctx, []int64{30}).Return(map[int64][]*entity.Genre{
		30: {comedy, drama},
	}, nil)

	resp, err := svc.UpdateTitle(ctx, 30, &request.UpdateTitleRequest{Genre: []string{"drama", "comedy", "drama"}})
	require.NoError(t, err)
	require.Len(t, resp.Genre, 2)
	assert.Equal(t, "comedy", resp.Genre[0].Slug)
	tr.assertExpectations(t)
}

func TestUpdateTitle_GenreErrors(t *testing.T) {
	ctx := context.Background()

	t.Run("empty genre list", func(t *testing.T) {
		tr := newTestRepo()
		svc := NewTitleService(tr.Repository, testLogger())

		_, err := svc.UpdateTitle(ctx, 30, &request.UpdateTitleRequest{Genre: []string{}})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "genre")
		tr.titles.AssertNotCalled(t, "UpdateWithGenres", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("unknown genre", func(t *testing.T) {
		tr := newTestRepo()
		svc := NewTitleService(tr.Repository, testLogger())
		tr.titles.On("FindByID", ctx, int64(30)).Return(&entity.Title{Base: entity.Base{ID: 30}, Name: "Old"}, nil)
		tr.genres.On("FindBySlugs", ctx, []string{"ghost"}).Return([]*entity.Genre{}, nil)

		_, err := svc.UpdateTitle(ctx, 30, &request.UpdateTitleRequest{Genre: []string{"ghost"}})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Equal(t, "Unknown genre: ghost", verr.Fields["genre"])
		tr.titles.AssertNotCalled(t, "UpdateWithGenres", mock.Anything, mock.Anything, mock.Anything)
	})

	t.Run("name empty once markup is stripped", func(t *testing.T) {
		tr := newTestRepo()
		svc := NewTitleService(tr.Repository, testLogger())

		_, err := svc.UpdateTitle(ctx, 30, &request.UpdateTitleRequest{Name: strPtr("<b></b>")})
		var verr *ValidationError
		require.True(t, errors.As(err, &verr))
		assert.Contains(t, verr.Fields, "name")
	})
}

func TestGetTitle_NotFound(t *testing.T) {
	tr := newTestRepo()
	svc := NewTitleService(tr.Repository, testLogger())
	ctx := context.Background()

	tr.titles.On("FindByID", ctx, int64(404)).Return(nil, nil)

	_, err := svc.GetTitle(ctx, 404)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteTitle(t *testing.T) {
	tr := newTestRepo()
	svc := NewTitleService(tr.Repository, testLogger())
	ctx := context.Background()

	tr.titles.On("Delete", ctx, int64(1)).Return(nil)
	tr.titles.On("Delete", ctx, int64(2)).Return(fmt.Errorf("delete title 2: %w", repository.ErrNotFound))

	assert.NoError(t, svc.DeleteTitle(ctx, 1))
	assert.ErrorIs(t, svc.DeleteTitle(ctx, 2), ErrNotFound)
}
