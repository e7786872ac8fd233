package repository

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
)

// ProductRepository defines the interface for catalogue data access.
type ProductRepository interface {
	// List retrieves sellable products (active, stock > 0) matching the
	// filter, along with the total number of matches before pagination.
	List(ctx context.Context, filter model.ProductFilter) ([]model.Product, int, error)

	// ListAll retrieves every product including inactive and out-of-stock
	// ones, newest first.
	ListAll(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a single product by its ID.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetBySlug retrieves a single product by its unique slug.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// FindActiveByIDs retrieves the active products among the given IDs,
	// within the provided transaction.
	FindActiveByIDs(ctx context.Context, tx pgx.Tx, ids []uuid.UUID) ([]model.Product, error)

	// DecrementStock atomically decrements a product's stock by qty, only
	// when the product is active and has at least qty units. Returns false
	// when the conditional update matched no row.
	DecrementStock(ctx context.Context, tx pgx.Tx, id uuid.UUID, qty int) (bool, error)

	// Create inserts a new product.
	Create(ctx context.Context, product *model.Product) error

	// Update replaces the mutable fields of a product. Returns the updated
	// product, or nil when it does not exist.
	Update(ctx context.Context, product *model.Product) (*model.Product, error)

	// SetStock sets a product's stock to an absolute value. Returns nil when
	// the product does not exist.
	SetStock(ctx context.Context, id uuid.UUID, stock int) (*model.Product, error)

	// ToggleActive flips a product's active flag. Returns nil when the
	// product does not exist.
	ToggleActive(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// OrderRepository defines the interface for order data access.
type OrderRepository interface {
	// BeginTx starts a new database transaction.
	BeginTx(ctx context.Context) (pgx.Tx, error)

	// Insert persists a new order and its line items within the provided
	// transaction.
	Insert(ctx context.Context, tx pgx.Tx, order *model.Order) error

	// GetByID retrieves an order with its items. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error)

	// ListByUser retrieves a user's orders, newest first.
	ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus sets the status and/or payment status of an order.
	// Nil fields are left unchanged. Returns nil when the order is absent.
	UpdateStatus(ctx context.Context, id uuid.UUID, status *model.OrderStatus, paymentStatus *model.PaymentStatus) (*model.Order, error)
}

// CategoryRepository defines the interface for category data access.
type CategoryRepository interface {
	// ListActive retrieves all active categories.
	ListActive(ctx context.Context) ([]model.Category, error)

	// GetBySlug retrieves a category by slug. Returns nil when absent.
	GetBySlug(ctx context.Context, slug string) (*model.Category, error)

	// Create inserts a new category.
	Create(ctx context.Context, category *model.Category) error
}

// UserRepository defines the interface for account data access.
type UserRepository interface {
	// Create inserts a new user.
	Create(ctx context.Context, user *model.User) error

	// GetByEmail retrieves a user by email. Returns nil when absent.
	GetByEmail(ctx context.Context, email string) (*model.User, error)

	// GetByID retrieves a user by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.User, error)
}
