package integration

import (
	"context"
	"testing"
	"time"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/modules/postgres"
	"github.com/testcontainers/testcontainers-go/wait"
)

// TestDB represents a test database instance.
type TestDB struct {
	Container *postgres.PostgresContainer
	Pool      *pgxpool.Pool
	ConnStr   string
}

// SetupTestDB creates a PostgreSQL test container and connection pool.
func SetupTestDB(t *testing.T) *TestDB {
	t.Helper()

	ctx := context.Background()

	postgresContainer, err := postgres.Run(ctx,
		"postgres:16-alpine",
		postgres.WithDatabase("testdb"),
		postgres.WithUsername("testuser"),
		postgres.WithPassword("testpass"),
		testcontainers.WithWaitStrategy(
			wait.ForLog("database system is ready to accept connections").
				WithOccurrence(2).
				WithStartupTimeout(30*time.Second)),
	)
	if err != nil {
		t.Fatalf("failed to start postgres container: %v", err)
	}

	connStr, err := postgresContainer.ConnectionString(ctx, "sslmode=disable")
	if err != nil {
		t.Fatalf("failed to get connection string: %v", err)
	}

	poolConfig, err := pgxpool.ParseConfig(connStr)
	if err != nil {
		t.Fatalf("failed to parse connection string: %v", err)
	}
	poolConfig.MaxConns = 10

	pool, err := pgxpool.NewWithConfig(ctx, poolConfig)
	if err != nil {
		t.Fatalf("failed to create connection pool: %v", err)
	}

	if err := pool.Ping(ctx); err != nil {
		t.Fatalf("failed to ping database: %v", err)
	}

	createSchema(t, pool)

	t.Cleanup(func() {
		pool.Close()
		if err := postgresContainer.Terminate(ctx); err != nil {
			t.Logf("failed to terminate container: %v", err)
		}
	})

	return &TestDB{
		Container: postgresContainer,
		Pool:      pool,
		ConnStr:   connStr,
	}
}

// createSchema creates the database schema for testing.
func createSchema(t *testing.T, pool *pgxpool.Pool) {
	t.Helper()

	ctx := context.Background()

	schema := `
		CREATE TABLE IF NOT EXISTS categories (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS products (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			slug VARCHAR(255) NOT NULL UNIQUE,
			description TEXT NOT NULL DEFAULT '',
			images TEXT[] NOT NULL DEFAULT '{}',
			category_id UUID NOT NULL,
			price DECIMAL(10, 2) NOT NULL CHECK (price >= 0),
			rating DECIMAL(3, 2) NOT NULL DEFAULT 0,
			rating_count INTEGER NOT NULL DEFAULT 0,
			stock INTEGER NOT NULL CHECK (stock >= 0),
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS users (
			id UUID PRIMARY KEY,
			name VARCHAR(255) NOT NULL,
			email VARCHAR(255) NOT NULL UNIQUE,
			password_hash VARCHAR(255) NOT NULL,
			role VARCHAR(20) NOT NULL DEFAULT 'user',
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS orders (
			id UUID PRIMARY KEY,
			user_id UUID NOT NULL,
			total_amount DECIMAL(10, 2) NOT NULL,
			status VARCHAR(20) NOT NULL,
			payment_status VARCHAR(20) NOT NULL,
			customer_name VARCHAR(255) NOT NULL,
			customer_email VARCHAR(255) NOT NULL,
			ship_line1 VARCHAR(255) NOT NULL,
			ship_line2 VARCHAR(255) NOT NULL DEFAULT '',
			ship_city VARCHAR(255) NOT NULL,
			ship_country VARCHAR(100) NOT NULL,
			ship_postal_code VARCHAR(20) NOT NULL,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		);

		CREATE TABLE IF NOT EXISTS order_items (
			order_id UUID NOT NULL REFERENCES orders(id) ON DELETE CASCADE,
			position INTEGER NOT NULL,
			product_id UUID NOT NULL,
			name VARCHAR(255) NOT NULL,
			quantity INTEGER NOT NULL CHECK (quantity > 0),
			price DECIMAL(10, 2) NOT NULL,
			PRIMARY KEY (order_id, position)
		);

		CREATE INDEX IF NOT EXISTS idx_products_category_id ON products(category_id);
		CREATE INDEX IF NOT EXISTS idx_orders_user_id ON orders(user_id);
		CREATE INDEX IF NOT EXISTS idx_order_items_product_id ON order_items(product_id);
	`

	_, err := pool.Exec(ctx, schema)
	if err != nil {
		t.Fatalf("failed to create schema: %v", err)
	}
}

// SeedCatalogue inserts a category and test products, returning the products
// keyed by slug.
func SeedCatalogue(t *testing.T, pool *pgxpool.Pool) map[string]model.Product {
	t.Helper()

	ctx := context.Background()
	now := time.Now()

	categoryID := uuid.New()
	_, err := pool.Exec(ctx,
		`INSERT INTO categories (id, name, slug) VALUES ($1, $2, $3)`,
		categoryID, "Peripherals", "peripherals")
	if err != nil {
		t.Fatalf("failed to seed category: %v", err)
	}

	products := []model.Product{
		{ID: uuid.New(), Name: "Mechanical Keyboard", Slug: "mechanical-keyboard", CategoryID: categoryID,
			Price: 100.00, Stock: 10, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Name: "Wireless Mouse", Slug: "wireless-mouse", CategoryID: categoryID,
			Price: 25.50, Stock: 4, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Name: "Last Unit Webcam", Slug: "last-unit-webcam", CategoryID: categoryID,
			Price: 59.99, Stock: 1, IsActive: true, CreatedAt: now, UpdatedAt: now},
		{ID: uuid.New(), Name: "Retired Headset", Slug: "retired-headset", CategoryID: categoryID,
			Price: 80.00, Stock: 3, IsActive: false, CreatedAt: now, UpdatedAt: now},
	}

	byID := make(map[string]model.Product, len(products))
	for _, p := range products {
		_, err := pool.Exec(ctx, `
			INSERT INTO products (id, name, slug, description, images, category_id, price, rating, rating_count, stock, is_active, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)
		`, p.ID, p.Name, p.Slug, p.Description, p.Images, p.CategoryID, p.Price,
			p.Rating, p.RatingCount, p.Stock, p.IsActive, p.CreatedAt, p.UpdatedAt)
		if err != nil {
			t.Fatalf("failed to seed product %s: %v", p.Slug, err)
		}
		byID[p.Slug] = p
	}

	return byID
}

// SeedUser inserts a user row and returns it.
func SeedUser(t *testing.T, pool *pgxpool.Pool, role string) *model.User {
	t.Helper()

	ctx := context.Background()

	user := &model.User{
		ID:           uuid.New(),
		Name:         "Test User",
		Email:        uuid.NewString() + "@example.com",
		PasswordHash: "$2a$04$notachecksum",
		Role:         role,
		CreatedAt:    time.Now(),
	}

	_, err := pool.Exec(ctx, `
		INSERT INTO users (id, name, email, password_hash, role, created_at)
		VALUES ($1, $2, $3, $4, $5, $6)
	`, user.ID, user.Name, user.Email, user.PasswordHash, user.Role, user.CreatedAt)
	if err != nil {
		t.Fatalf("failed to seed user: %v", err)
	}

	return user
}

// CheckoutAddress is a valid shipping address for checkout requests.
func CheckoutAddress() model.Address {
	return model.Address{
		Line1:      "12 High Street",
		City:       "Oxford",
		Country:    "GB",
		PostalCode: "OX1 1AA",
	}
}
