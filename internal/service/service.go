package service

import (
	"context"

	"storefront/internal/model"

	"github.com/google/uuid"
)

// CheckoutService places orders against the catalogue.
type CheckoutService interface {
	// PlaceOrder validates the cart, snapshots prices, decrements stock and
	// persists the order as a single unit of work.
	PlaceOrder(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error)
}

// OrderService defines order queries and lifecycle transitions.
type OrderService interface {
	// GetByID retrieves an order when the requester owns it or is an admin.
	GetByID(ctx context.Context, requester *model.User, id uuid.UUID) (*model.Order, error)

	// ListMine retrieves the requester's orders, newest first.
	ListMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error)

	// ListAll retrieves every order, newest first.
	ListAll(ctx context.Context) ([]model.Order, error)

	// UpdateStatus applies a status and/or payment-status transition.
	// Returns nil when the order does not exist.
	UpdateStatus(ctx context.Context, id uuid.UUID, req *model.StatusUpdateRequest) (*model.Order, error)
}

// ProductService defines operations for catalogue management.
type ProductService interface {
	// List retrieves sellable products matching the filter, paginated.
	List(ctx context.Context, filter model.ProductFilter) (*model.ProductPage, error)

	// ListAdmin retrieves every product including inactive and out-of-stock.
	ListAdmin(ctx context.Context) ([]model.Product, error)

	// GetByID retrieves a product by ID. Returns nil when absent.
	GetByID(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetBySlug retrieves a product by slug. Returns nil when absent.
	GetBySlug(ctx context.Context, slug string) (*model.Product, error)

	// Create adds a product to the catalogue.
	Create(ctx context.Context, req *model.ProductRequest) (*model.Product, error)

	// Update replaces a product's fields. Returns nil when absent.
	Update(ctx context.Context, id uuid.UUID, req *model.ProductRequest) (*model.Product, error)

	// SetStock sets a product's stock to an absolute value.
	SetStock(ctx context.Context, id uuid.UUID, stock int) (*model.Product, error)

	// ToggleActive flips a product's active flag.
	ToggleActive(ctx context.Context, id uuid.UUID) (*model.Product, error)
}

// CategoryService defines operations for category management.
type CategoryService interface {
	// ListActive retrieves all active categories.
	ListActive(ctx context.Context) ([]model.Category, error)

	// Create adds a category, rejecting duplicate slugs.
	Create(ctx context.Context, req *model.CategoryRequest) (*model.Category, error)
}

// AuthService defines account registration, login and token resolution.
type AuthService interface {
	// Register creates an account and returns it with a bearer token.
	Register(ctx context.Context, req *model.RegisterRequest) (*model.AuthResponse, error)

	// Login verifies credentials and returns the user with a bearer token.
	Login(ctx context.Context, req *model.LoginRequest) (*model.AuthResponse, error)

	// ResolveToken verifies a bearer token and loads its user.
	ResolveToken(ctx context.Context, token string) (*model.User, error)
}
