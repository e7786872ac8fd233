package repository

import (
	"context"
	"fmt"
	"strings"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

const productColumns = `id, name, slug, description, images, category_id, price, rating, rating_count, stock, is_active, created_at, updated_at`

// sortColumns whitelists the sortable fields exposed by the listing API.
var sortColumns = map[string]string{
	"createdAt": "created_at",
	"name":      "name",
	"price":     "price",
	"rating":    "rating",
}

// productRepository implements the ProductRepository interface using PostgreSQL.
type productRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewProductRepository creates a new PostgreSQL-backed product repository.
func NewProductRepository(pool *pgxpool.Pool, logger zerolog.Logger) ProductRepository {
	return &productRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "product").Logger(),
	}
}

func scanProduct(row pgx.Row) (*model.Product, error) {
	var p model.Product
	err := row.Scan(&p.ID, &p.Name, &p.Slug, &p.Description, &p.Images, &p.CategoryID,
		&p.Price, &p.Rating, &p.RatingCount, &p.Stock, &p.IsActive, &p.CreatedAt, &p.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

func (r *productRepository) collectProducts(rows pgx.Rows) ([]model.Product, error) {
	defer rows.Close()

	var products []model.Product
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan product row")
			return nil, fmt.Errorf("failed to scan product: %w", err)
		}
		products = append(products, *p)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating product rows")
		return nil, fmt.Errorf("error iterating products: %w", err)
	}

	return products, nil
}

// List retrieves sellable products matching the filter plus the total match count.
func (r *productRepository) List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error) {
	where := []string{"is_active = TRUE", "stock > 0"}
	var args []any

	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		where = append(where, fmt.Sprintf("(name ILIKE $%d OR slug ILIKE $%d)", len(args), len(args)))
	}
	if filter.CategoryID != nil {
		args = append(args, *filter.CategoryID)
		where = append(where, fmt.Sprintf("category_id = $%d", len(args)))
	}
	if filter.MinPrice != nil {
		args = append(args, *filter.MinPrice)
		where = append(where, fmt.Sprintf("price >= $%d", len(args)))
	}
	if filter.MaxPrice != nil {
		args = append(args, *filter.MaxPrice)
		where = append(where, fmt.Sprintf("price <= $%d", len(args)))
	}
	if filter.MinRating != nil {
		args = append(args, *filter.MinRating)
		where = append(where, fmt.Sprintf("rating >= $%d", len(args)))
	}

	whereClause := strings.Join(where, " AND ")

	countQuery := fmt.Sprintf("SELECT COUNT(*) FROM products WHERE %s", whereClause)
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		r.logger.Error().Err(err).Msg("failed to count products")
		return nil, 0, fmt.Errorf("failed to count products: %w", err)
	}

	sortColumn, ok := sortColumns[filter.Sort]
	if !ok {
		sortColumn = "created_at"
	}
	direction := "DESC"
	if strings.EqualFold(filter.Order, "asc") {
		direction = "ASC"
	}

	args = append(args, filter.Limit)
	limitPos := len(args)
	args = append(args, (filter.Page-1)*filter.Limit)
	offsetPos := len(args)

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE %s
		ORDER BY %s %s
		LIMIT $%d OFFSET $%d
	`, productColumns, whereClause, sortColumn, direction, limitPos, offsetPos)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query products")
		return nil, 0, fmt.Errorf("failed to query products: %w", err)
	}

	products, err := r.collectProducts(rows)
	if err != nil {
		return nil, 0, err
	}

	return products, total, nil
}

// ListAll retrieves every product including inactive and out-of-stock ones.
func (r *productRepository) ListAll(ctx context.Context) ([]model.Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		ORDER BY created_at DESC
	`, productColumns)

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query all products")
		return nil, fmt.Errorf("failed to query all products: %w", err)
	}

	return r.collectProducts(rows)
}

// GetByID retrieves a single product by its ID.
func (r *productRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE id = $1`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("product_id", id.String()).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to query product")
		return nil, fmt.Errorf("failed to query product: %w", err)
	}

	return p, nil
}

// GetBySlug retrieves a single product by its unique slug.
func (r *productRepository) GetBySlug(ctx context.Context, slug string) (*model.Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM products WHERE slug = $1`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, slug))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("slug", slug).Msg("product not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("slug", slug).Msg("failed to query product by slug")
		return nil, fmt.Errorf("failed to query product by slug: %w", err)
	}

	return p, nil
}

// FindActiveByIDs retrieves the active products among the given IDs within a transaction.
func (r *productRepository) FindActiveByIDs(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]model.Product, error) {
	if len(ids) == 0 {
		return []model.Product{}, nil
	}

	query := fmt.Sprintf(`
		SELECT %s
		FROM products
		WHERE id = ANY($1) AND is_active = TRUE
	`, productColumns)

	rows, err := tx.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Int("count", len(ids)).Msg("failed to query active products by IDs")
		return nil, fmt.Errorf("failed to query active products by IDs: %w", err)
	}

	return r.collectProducts(rows)
}

// DecrementStock atomically decrements stock when sufficient units remain.
// The conditional update is the authoritative stock check, so two concurrent
// checkouts can never both take the last unit.
func (r *productRepository) DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (bool, error) {
	query := `
		UPDATE products
		SET stock = stock - $2, updated_at = NOW()
		WHERE id = $1 AND is_active = TRUE AND stock >= $2
	`

	tag, err := tx.Exec(ctx, query, id, qty)
	if err != nil {
		r.logger.Error().Err(err).
			Str("product_id", id.String()).
			Int("quantity", qty).
			Msg("failed to decrement stock")
		return false, fmt.Errorf("failed to decrement stock: %w", err)
	}

	return tag.RowsAffected() == 1, nil
}

// Create inserts a new product.
func (r *productRepository) Create(ctx context.Context, product *model.Product) error {
	query := `
		INSERT INTO products (id, name, slug, description, images, category_id, price, rating, rating_count, stock, is_active, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
	`

	_, err := r.pool.Exec(ctx, query,
		product.ID, product.Name, product.Slug, product.Description, product.Images,
		product.CategoryID, product.Price, product.Rating, product.RatingCount,
		product.Stock, product.IsActive, product.CreatedAt, product.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).Str("slug", product.Slug).Msg("failed to create product")
		return fmt.Errorf("failed to create product: %w", err)
	}

	r.logger.Debug().Str("product_id", product.ID.String()).Msg("product created")
	return nil
}

// Update replaces the mutable fields of a product.
func (r *productRepository) Update(ctx context.Context, product *model.Product) (*model.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET name = $2, slug = $3, description = $4, images = $5, category_id = $6,
			price = $7, stock = $8, is_active = $9, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query,
		product.ID, product.Name, product.Slug, product.Description, product.Images,
		product.CategoryID, product.Price, product.Stock, product.IsActive))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", product.ID.String()).Msg("failed to update product")
		return nil, fmt.Errorf("failed to update product: %w", err)
	}

	return p, nil
}

// SetStock sets a product's stock to an absolute value.
func (r *productRepository) SetStock(ctx context.Context, id uuid.UUID, stock int) (*model.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET stock = $2, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id, stock))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to set stock")
		return nil, fmt.Errorf("failed to set stock: %w", err)
	}

	return p, nil
}

// ToggleActive flips a product's active flag.
func (r *productRepository) ToggleActive(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	query := fmt.Sprintf(`
		UPDATE products
		SET is_active = NOT is_active, updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, productColumns)

	p, err := scanProduct(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			return nil, nil
		}
		r.logger.Error().Err(err).Str("product_id", id.String()).Msg("failed to toggle product status")
		return nil, fmt.Errorf("failed to toggle product status: %w", err)
	}

	return p, nil
}
