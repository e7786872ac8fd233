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

const (
	defaultPageLimit = 12
	maxPageLimit     = 100
)

// productService implements ProductService.
type productService struct {
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewProductService creates a new product service.
func NewProductService(productRepo repository.ProductRepository, logger zerolog.Logger) ProductService {
	return &productService{
		productRepo: productRepo,
		logger:      logger.With().Str("service", "product").Logger(),
	}
}

// List retrieves sellable products matching the filter, paginated.
func (s *productService) List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 {
		filter.Limit = defaultPageLimit
	}
	if filter.Limit > maxPageLimit {
		filter.Limit = maxPageLimit
	}

	products, total, err := s.productRepo.List(ctx, filter)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list products")
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	if totalPages < 1 {
		totalPages = 1
	}

	if products == nil {
		products = []model.Product{}
	}

	return &model.ProductPage{
		Items: products,
		Pagination: model.Pagination{
			Total:      total,
			Page:       filter.Page,
			Limit:      filter.Limit,
			TotalPages: totalPages,
		},
	}, nil
}

// ListAdmin retrieves every product including inactive and out-of-stock.
func (s *productService) ListAdmin(ctx context.Context) ([]model.Product, error) {
	products, err := s.productRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all products")
		return nil, fmt.Errorf("failed to list all products: %w", err)
	}
	return products, nil
}

// GetByID retrieves a product by ID.
func (s *productService) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to get product")
		return nil, fmt.Errorf("failed to get product: %w", err)
	}
	return product, nil
}

// GetBySlug retrieves a product by slug.
func (s *productService) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	product, err := s.productRepo.GetBySlug(ctx, slug)
	if err != nil {
		s.logger.Error().Err(err).Str("slug", slug).Msg("failed to get product by slug")
		return nil, fmt.Errorf("failed to get product by slug: %w", err)
	}
	return product, nil
}

// Create adds a product to the catalogue, rejecting duplicate slugs.
func (s *productService) Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error) {
	existing, err := s.productRepo.GetBySlug(ctx, req.Slug)
	if err != nil {
		return nil, fmt.Errorf("failed to create product: %w", err)
	}
	if existing != nil {
		return nil, model.ErrProductSlugExists
	}

	isActive := true
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	now := time.Now()
	product := &model.Product{
		ID:          uuid.New(),
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    isActive,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.productRepo.Create(ctx, product); err != nil {
		s.logger.Error().Err(err).Str("slug", req.Slug).Msg("failed to create product")
		return nil, fmt.Errorf("failed to create product: %w", err)
	}

	s.logger.Info().Str("product_id", product.ID.String()).Str("slug", product.Slug).Msg("product created")
	return product, nil
}

// Update replaces a product's fields.
func (s *productService) Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error) {
	current, err := s.productRepo.GetByID(ctx, id)
	if err != nil {
		return nil, fmt.Errorf("failed to update product: %w", err)
	}
	if current == nil {
		return nil, nil
	}

	if req.Slug != current.Slug {
		other, err := s.productRepo.GetBySlug(ctx, req.Slug)
		if err != nil {
			return nil, fmt.Errorf("failed to update product: %w", err)
		}
		if other != nil {
			return nil, model.ErrProductSlugExists
		}
	}

	isActive := current.IsActive
	if req.IsActive != nil {
		isActive = *req.IsActive
	}

	updated := &model.Product{
		ID:          id,
		Name:        req.Name,
		Slug:        req.Slug,
		Description: req.Description,
		Images:      req.Images,
		CategoryID:  req.CategoryID,
		Price:       req.Price,
		Stock:       req.Stock,
		IsActive:    isActive,
	}

	result, err := s.productRepo.Update(ctx, updated)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return result, nil
}

// SetStock sets a product's stock to an absolute value.
func (s *productService) SetStock(ctx context.Context, id uuid.UUID, stock int) (*model.Product, error) {
	if stock < 0 {
		return nil, model.NewDomainError(model.ErrCodeValidation, "Stock cannot be negative")
	}

	product, err := s.productRepo.SetStock(ctx, id, stock)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to set stock")
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}

	if product != nil {
		s.logger.Info().
			Str("product_id", id.String()).
			Int("stock", stock).
			Msg("stock updated")
	}

	return product, nil
}

// ToggleActive flips a product's active flag.
func (s *productService) ToggleActive(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	product, err := s.productRepo.ToggleActive(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to toggle product status")
		return nil, fmt.Errorf("failed to toggle product status: %w", err)
	}

	if product != nil {
		s.logger.Info().
			Str("product_id", id.String()).
			Bool("is_active", product.IsActive).
			Msg("product status toggled")
	}

	return product, nil
}
