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

	"go.uber.org/zap"
)

type GenreService interface {
	GetAllGenres(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.SlugResponse], error)
	CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.SlugResponse, error)
	DeleteGenre(ctx context.Context, slug string) error
}

type genreService struct {
	genreRepo repository.GenreRepository
	log       *zap.Logger
}

func NewGenreService(genreRepo repository.GenreRepository, log *zap.Logger) GenreService {
	return &genreService{
		genreRepo: genreRepo,
		log:       log.With(zap.String("service", "genre")),
	}
}

func (s *genreService) GetAllGenres(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.SlugResponse], error) {
	genres, err := s.genreRepo.FindAll(ctx, req.Search, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list genres: %w", err)
	}

	total, err := s.genreRepo.CountAll(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count genres: %w", err)
	}

	items := make([]response.SlugResponse, len(genres))
	for i, genre := range genres {
		items[i] = response.GenreToResponse(genre)
	}

	return response.NewPaginatedResponse(items, req.CurrentPage(), req.Limit(), total), nil
}

func (s *genreService) CreateGenre(ctx context.Context, req *request.GenreRequest) (*response.SlugResponse, error) {
	req.Name = sanitize.Text(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}

	name := req.Name
	slug, err := resolveSlug(name, req.Slug)
	if err != nil {
		return nil, err
	}

	genre := &entity.Genre{Name: name, Slug: slug}
	if err := s.genreRepo.Create(ctx, genre); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("slug", "A genre with this slug already exists")
		}
		return nil, fmt.Errorf("create genre: %w", err)
	}

	s.log.Info("Genre created", zap.Int64("genre_id", genre.ID), zap.String("slug", slug))

	resp := response.GenreToResponse(genre)
	return &resp, nil
}

// DeleteGenre removes the genre and, by cascade, its title links.
func (s *genreService) DeleteGenre(ctx context.Context, slug string) error {
	if err := s.genreRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("genre %s: %w", slug, ErrNotFound)
		}
		return fmt.Errorf("delete genre: %w", err)
	}
	return nil
}
