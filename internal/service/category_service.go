package service

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// categoryService implements CategoryService.
type categoryService struct {
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
}

// NewCategoryService creates a new category service.
func NewCategoryService(categoryRepo repository.CategoryRepository, logger zerolog.Logger) CategoryService {
	return &categoryService{
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("service", "category").Logger(),
	}
}

// ListActive retrieves all active categories.
func (s *categoryService) ListActive(ctx context.Context) ([]model.Category, error) {
	categories, err := s.categoryRepo.ListActive(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list categories")
		return nil, fmt.Errorf("failed to list categories: %w", err)
	}
	return categories, nil
}

// Create adds a category, rejecting duplicate slugs.
func (s *categoryService) Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error) {
	existing, err := s.categoryRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create category: %w", err)
	}
	if existing != nil {
		return nil, model.ErrCategorySlugExists
	}

	category := &model.Category{
		ID:        uuid.New(),
		Name:      req.Name,
		Slug:      req.Slug,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		s.logger.Error().Err(err).Str("slug", req.Slug).Msg("failed to create category")
		return nil, fmt.Errorf("failed to create category: %w", err)
	}

	s.logger.Info().Str("category_id", category.ID.String()).Str("slug", category.Slug).Msg("category created")
	return category, nil
}
