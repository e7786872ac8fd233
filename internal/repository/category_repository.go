package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// categoryRepository implements the CategoryRepository interface using PostgreSQL.
type categoryRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewCategoryRepository creates a new PostgreSQL-backed category repository.
func NewCategoryRepository(pool *pgxpool.Pool, logger zerolog.Logger) CategoryRepository {
	return &categoryRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "category").Logger(),
	}
}

// ListActive retrieves all active categories.
func (r *categoryRepository) ListActive(ctx context.Context) ([]model.Category, error) {
	query := `
		SELECT id, name, slug, is_active, created_at
		FROM categories
		WHERE is_active = TRUE
		ORDER BY name
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query categories")
		return nil, fmt.Errorf("failed to query categories: %w", err)
	}
	defer rows.Close()

	var categories []model.Category
	for rows.Next() {
		var c model.Category
		if err := rows.Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.CreatedAt); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan category row")
			return nil, fmt.Errorf("failed to scan category: %w", err)
		}
		categories = append(categories, c)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating category rows")
		return nil, fmt.Errorf("error iterating categories: %w", err)
	}

	return categories, nil
}

// GetBySlug retrieves a category by slug.
func (r *categoryRepository) GetBySlug(ctx context.Context, slug string) (*model.Category, error) {
	query := `
		SELECT id, name, slug, is_active, created_at
		FROM categories
		WHERE slug = $1
	`

	var c model.Category
	err := r.pool.QueryRow(ctx, query, slug).Scan(&c.ID, &c.Name, &c.Slug, &c.IsActive, &c.CreatedAt)
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to query category by slug")
		return nil, fmt.Errorf("failed to query category by slug: %w", err)
	}

	return &c, nil
}

// Create inserts a new category.
func (r *categoryRepository) Create(ctx context.Context, category *model.Category) error {
	query := `
		INSERT INTO categories (id, name, slug, is_active, created_at)
		VALUES ($1, $2, $3, $4, $5)
	`

	_, err := r.pool.Exec(ctx, query,
		category.ID, category.Name, category.Slug, category.IsActive, category.CreatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("slug", category.Slug).Msg("failed to create category")
		return fmt.Errorf("failed to create category: %w", err)
	}

	r.logger.Debug().Str("category_id", category.ID.String()).Msg("category created")
	return nil
}
