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
	"yamdb/pkg/utils"

	"go.uber.org/zap"
)

type CategoryService interface {
	GetAllCategories(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.SlugResponse], error)
	CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.SlugResponse, error)
	DeleteCategory(ctx context.Context, slug string) error
}

type categoryService struct {
	categoryRepo repository.CategoryRepository
	log          *zap.Logger
}

func NewCategoryService(categoryRepo repository.CategoryRepository, log *zap.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		log:          log.With(zap.String("service", "category")),
	}
}

func (s *categoryService) GetAllCategories(ctx context.Context, req *request.SearchRequest) (*response.PaginatedResponse[response.SlugResponse], error) {
	categories, err := s.categoryRepo.FindAll(ctx, req.Search, req.Limit(), req.Offset())
	if err != nil {
		return nil, fmt.Errorf("list categories: %w", err)
	}

	total, err := s.categoryRepo.CountAll(ctx, req.Search)
	if err != nil {
		return nil, fmt.Errorf("count categories: %w", err)
	}

	items := make([]response.SlugResponse, len(categories))
	for i, category := range categories {
		items[i] = response.CategoryToResponse(category)
	}

	return response.NewPaginatedResponse(items, req.CurrentPage(), req.Limit(), total), nil
}

func (s *categoryService) CreateCategory(ctx context.Context, req *request.CategoryRequest) (*response.SlugResponse, error) {
	req.Name = sanitize.Text(req.Name)
	if err := validate(req); err != nil {
		return nil, err
	}

	name := req.Name
	slug, err := resolveSlug(name, req.Slug)
	if err != nil {
		return nil, err
	}

	category := &entity.Category{Name: name, Slug: slug}
	if err := s.categoryRepo.Create(ctx, category); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, fieldError("slug", "A category with this slug already exists")
		}
		return nil, fmt.Errorf("create category: %w", err)
	}

	s.log.Info("Category created", zap.Int64("category_id", category.ID), zap.String("slug", slug))

	resp := response.CategoryToResponse(category)
	return &resp, nil
}

func (s *categoryService) DeleteCategory(ctx context.Context, slug string) error {
	if err := s.categoryRepo.DeleteBySlug(ctx, slug); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("category %s: %w", slug, ErrNotFound)
		}
		return fmt.Errorf("delete category: %w", err)
	}
	return nil
}

// resolveSlug keeps an explicit slug or derives one from name.
func resolveSlug(name, slug string) (string, error) {
	if slug != "" {
		return slug, nil
	}

	derived := utils.Slugify(name)
	if derived == "" || !utils.IsValidSlug(derived) {
		return "", fieldError("slug", "Cannot derive a slug from this name, provide one explicitly")
	}
	return derived, nil
}
