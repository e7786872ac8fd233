package seed

import (
	"context"
	"fmt"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// Seeder upserts seed records into the catalogue. Existing products and
// categories (matched by slug) are left untouched, so seeding is idempotent.
type Seeder struct {
	productRepo  repository.ProductRepository
	categoryRepo repository.CategoryRepository
	logger       zerolog.Logger
}

// NewSeeder creates a new catalogue seeder.
func NewSeeder(
	productRepo repository.ProductRepository,
	categoryRepo repository.CategoryRepository,
	logger zerolog.Logger,
) *Seeder {
	return &Seeder{
		productRepo:  productRepo,
		categoryRepo: categoryRepo,
		logger:       logger.With().Str("component", "seeder").Logger(),
	}
}

// Result summarises one seeding run.
type Result struct {
	CategoriesCreated int
	ProductsCreated   int
	Skipped           int
}

// Run inserts the given records, creating their categories as needed.
func (s *Seeder) Run(ctx context.Context, records []ProductRecord) (*Result, error) {
	result := &Result{}
	categories := make(map[string]uuid.UUID)

	for _, record := range records {
		categoryID, err := s.ensureCategory(ctx, record.Category, categories, result)
		if err != nil {
			return nil, err
		}

		existing, err := s.productRepo.GetBySlug(ctx, record.Slug)
		if err != nil {
			return nil, fmt.Errorf("failed to look up product %s: %w", record.Slug, err)
		}
		if existing != nil {
			s.logger.Debug().Str("slug", record.Slug).Msg("product already exists, skipping")
			result.Skipped++
			continue
		}

		isActive := true
		if record.IsActive != nil {
			isActive = *record.IsActive
		}

		now := time.Now()
		product := &model.Product{
			ID:          uuid.New(),
			Name:        record.Name,
			Slug:        record.Slug,
			Description: record.Description,
			Images:      record.Images,
			CategoryID:  categoryID,
			Price:       record.Price,
			Stock:       record.Stock,
			IsActive:    isActive,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		if err := s.productRepo.Create(ctx, product); err != nil {
			return nil, fmt.Errorf("failed to create product %s: %w", record.Slug, err)
		}
		result.ProductsCreated++
	}

	s.logger.Info().
		Int("categories_created", result.CategoriesCreated).
		Int("products_created", result.ProductsCreated).
		Int("skipped", result.Skipped).
		Msg("seeding completed")

	return result, nil
}

// ensureCategory resolves the category ID for a record, creating the
// category on first sight.
func (s *Seeder) ensureCategory(ctx context.Context, record CategoryRecord, cache map[string]uuid.UUID, result *Result) (uuid.UUID, error) {
	if record.Slug == "" {
		return uuid.Nil, fmt.Errorf("seed record has no category slug")
	}

	if id, ok := cache[record.Slug]; ok {
		return id, nil
	}

	existing, err := s.categoryRepo.GetBySlug(ctx, record.Slug)
	if err != nil {
		return uuid.Nil, fmt.Errorf("failed to look up category %s: %w", record.Slug, err)
	}
	if existing != nil {
		cache[record.Slug] = existing.ID
		return existing.ID, nil
	}

	category := &model.Category{
		ID:        uuid.New(),
		Name:      record.Name,
		Slug:      record.Slug,
		IsActive:  true,
		CreatedAt: time.Now(),
	}

	if err := s.categoryRepo.Create(ctx, category); err != nil {
		return uuid.Nil, fmt.Errorf("failed to create category %s: %w", record.Slug, err)
	}

	result.CategoriesCreated++
	cache[record.Slug] = category.ID
	return category.ID, nil
}
