package usecase

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"yamdb/internal/data/entity"
	"yamdb/internal/data/repository"
	"yamdb/internal/dto/request"
	"yamdb/internal/dto/response"
	"yamdb/pkg/sanitize"

	"go.uber.org/zap"
)

type TitleService interface {
	GetAllTitles(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error)
	GetTitle(ctx context.Context, id int64) (*response.TitleResponse, error)
	CreateTitle(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error)
	UpdateTitle(ctx context.Context, id int64, req *request.UpdateTitleRequest) (*response.TitleResponse, error)
	DeleteTitle(ctx context.Context, id int64) error
}

type titleService struct {
	repo *repository.Repository // titles, categories and genres
	log  *zap.Logger
}

func NewTitleService(repo *repository.Repository, log *zap.Logger) TitleService {
	return &titleService{
		repo: repo,
		log:  log.With(zap.String("service", "title")),
	}
}

func (s *titleService) GetAllTitles(ctx context.Context, req *request.TitleListRequest) (*response.PaginatedResponse[response.TitleResponse], error) {
	filter := entity.TitleFilter{
		CategorySlug: req.Category,
		GenreSlug:    req.Genre,
		Name:         req.Name,
		Year:         req.Year,
	}

	titles, err := s.repo.Title.FindAll(ctx, filter, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list titles: %w", err)
	}

	total, err := s.repo.Title.CountAll(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("count titles: %w", err)
	}

	if err := s.attachGenres(ctx, titles...); err != nil {
		return nil, err
	}

	items := make([]response.TitleResponse, len(titles))
	for i, title := range titles {
		items[i] = response.TitleToResponse(title)
	}

	s.log.Debug("Titles retrieved",
		zap.Int("count", len(titles)),
		zap.Int64("total", total),
		zap.Any("filter", filter),
	)

	return response.NewPaginatedResponse(items, req.CurrentPage(), req.Limit(), total), nil
}

func (s *titleService) GetTitle(ctx context.Context, id int64) (*response.TitleResponse, error) {
	title, err := s.findTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if err := s.attachGenres(ctx, title); err != nil {
		return nil, err
	}

	resp := response.TitleToResponse(title)
	return &resp, nil
}

func (s *titleService) CreateTitle(ctx context.Context, req *request.CreateTitleRequest) (*response.TitleResponse, error) {
	req.Name = sanitize.Text(req.Name)
	req.Description = sanitize.Prose(req.Description)

	if err := validate(req); err != nil {
		return nil, err
	}

	category, err := s.resolveCategory(ctx, req.Category)
	if err != nil {
		return nil, err
	}

	genreIDs, err := s.resolveGenres(ctx, req.Genre)
	if err != nil {
		return nil, err
	}

	title := &entity.Title{
		Name:        req.Name,
		Year:        *req.Year,
		Description: req.Description,
		CategoryID:  &category.ID,
	}

	if err := s.repo.Title.CreateWithGenres(ctx, title, genreIDs); err != nil {
		return nil, fmt.Errorf("create title: %w", err)
	}

	s.log.Info("Title created",
		zap.Int64("title_id", title.ID),
		zap.String("name", title.Name),
		zap.Int("genres", len(genreIDs)),
	)

	return s.GetTitle(ctx, title.ID)
}

func (s *titleService) UpdateTitle(ctx context.Context, id int64, req *request.UpdateTitleRequest) (*response.TitleResponse, error) {
	sanitize.TextPtr(req.Name)
	sanitize.ProsePtr(req.Description)

	if err := validate(req); err != nil {
		return nil, err
	}

	title, err := s.findTitle(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		title.Name = *req.Name
	}
	if req.Year != nil {
		title.Year = *req.Year
	}
	if req.Description != nil {
		title.Description = *req.Description
	}
	if req.Category != nil {
		category, err := s.resolveCategory(ctx, *req.Category)
		if err != nil {
			return nil, err
		}
		title.CategoryID = &category.ID
	}

	var genreIDs []int64
	if req.Genre != nil {
		if genreIDs, err = s.resolveGenres(ctx, req.Genre); err != nil {
			return nil, err
		}
	}

	if err := s.repo.Title.UpdateWithGenres(ctx, title, genreIDs); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, fmt.Errorf("title %d: %w", id, ErrNotFound)
		}
		return nil, fmt.Errorf("update title: %w", err)
	}

	s.log.Info("Title updated", zap.Int64("title_id", id))

	return s.GetTitle(ctx, id)
}

func (s *titleService) DeleteTitle(ctx context.Context, id int64) error {
	if err := s.repo.Title.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("title %d: %w", id, ErrNotFound)
		}
		return fmt.Errorf("delete title: %w", err)
	}
	return nil
}

// ==================== HELPER METHODS ====================

func (s *titleService) findTitle(ctx context.Context, id int64) (*entity.Title, error) {
	title, err := s.repo.Title.FindByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("find title: %w", err)
	}
	if title == nil {
		return nil, fmt.Errorf("title %d: %w", id, ErrNotFound)
	}
	return title, nil
}

func (s *titleService) attachGenres(ctx context.Context, titles ...*entity.Title) error {
	if len(titles) == 0 {
		return nil
	}

	ids := make([]int64, len(titles))
	for i, title := range titles {
		ids[i] = title.ID
	}

	genres, err := s.repo.Genre.FindByTitleIDs(ctx, ids)
	if err != nil {
		return fmt.Errorf("load title genres: %w", err)
	}

	for _, title := range titles {
		title.Genres = genres[title.ID]
	}
	return nil
}

func (s *titleService) resolveCategory(ctx context.Context, slug string) (*entity.Category, error) {
	category, err := s.repo.Category.FindBySlug(ctx, slug)
	if err != nil {
		return nil, fmt.Errorf("find category: %w", err)
	}
	if category == nil {
		return nil, fieldError("category", fmt.Sprintf("Category %q does not exist", slug))
	}
	return category, nil
}

// resolveGenres maps slugs to ids and reports every unknown slug.
func (s *titleService) resolveGenres(ctx context.Context, slugs []string) ([]int64, error) {
	unique := make(map[string]struct{}, len(slugs))
	for _, slug := range slugs {
		unique[slug] = struct{}{}
	}
	wanted := make([]string, 0, len(unique))
	for slug := range unique {
		wanted = append(wanted, slug)
	}
	sort.Strings(wanted)

	genres, err := s.repo.Genre.FindBySlugs(ctx, wanted)
	if err != nil {
		return nil, fmt.Errorf("find genres: %w", err)
	}

	ids := make([]int64, 0, len(genres))
	for _, genre := range genres {
		ids = append(ids, genre.ID)
		delete(unique, genre.Slug)
	}

	if len(unique) > 0 {
		missing := make([]string, 0, len(unique))
		for slug := range unique {
			missing = append(missing, slug)
		}
		sort.Strings(missing)
		return nil, fieldError("genre", "Unknown genre: "+strings.Join(missing, ", "))
	}

	return ids, nil
}
