package repository

import (
	"context"
	"fmt"

	"storefront/internal/model"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// orderRepository implements the OrderRepository interface using PostgreSQL.
type orderRepository struct {
	pool   *pgxpool.Pool
	logger zerolog.Logger
}

// NewOrderRepository creates a new PostgreSQL-backed order repository.
func NewOrderRepository(pool *pgxpool.Pool, logger zerolog.Logger) OrderRepository {
	return &orderRepository{
		pool:   pool,
		logger: logger.With().Str("repository", "order").Logger(),
	}
}

// BeginTx starts a new database transaction.
func (r *orderRepository) BeginTx(ctx context.Context) (pgx.Tx, error) {
	tx, err := r.pool.Begin(ctx)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to begin transaction: %w", err)
	}
	return tx, nil
}

// Insert persists a new order and its line items within the provided transaction.
func (r *orderRepository) Insert(ctx context.Context, tx pgx.Tx, order *model.Order) error {
	orderQuery := `
		INSERT INTO orders (id, user_id, total_amount, status, payment_status,
			customer_name, customer_email,
			ship_line1, ship_line2, ship_city, ship_country, ship_postal_code,
			created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
	`

	_, err := tx.Exec(ctx, orderQuery,
		order.ID, order.UserID, order.TotalAmount, order.Status, order.PaymentStatus,
		order.CustomerName, order.CustomerEmail,
		order.ShippingAddress.Line1, order.ShippingAddress.Line2,
		order.ShippingAddress.City, order.ShippingAddress.Country,
		order.ShippingAddress.PostalCode,
		order.CreatedAt, order.UpdatedAt)
	if err != nil {
		r.logger.Error().Err(err).
			Str("order_id", order.ID.String()).
			Msg("failed to insert order")
		return fmt.Errorf("failed to insert order: %w", err)
	}

	itemQuery := `
		INSERT INTO order_items (order_id, position, product_id, name, quantity, price)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	batch := &pgx.Batch{}
	for i, item := range order.Items {
		batch.Queue(itemQuery, order.ID, i, item.ProductID, item.Name, item.Quantity, item.Price)
	}

	results := tx.SendBatch(ctx, batch)
	defer results.Close()

	for i := 0; i < len(order.Items); i++ {
		if _, err := results.Exec(); err != nil {
			r.logger.Error().Err(err).
				Str("order_id", order.ID.String()).
				Str("product_id", order.Items[i].ProductID.String()).
				Msg("failed to insert order item")
			return fmt.Errorf("failed to insert order item: %w", err)
		}
	}

	r.logger.Debug().
		Str("order_id", order.ID.String()).
		Int("item_count", len(order.Items)).
		Msg("order inserted")

	return nil
}

const orderColumns = `id, user_id, total_amount, status, payment_status,
	customer_name, customer_email,
	ship_line1, ship_line2, ship_city, ship_country, ship_postal_code,
	created_at, updated_at`

func scanOrder(row pgx.Row) (*model.Order, error) {
	var o model.Order
	err := row.Scan(&o.ID, &o.UserID, &o.TotalAmount, &o.Status, &o.PaymentStatus,
		&o.CustomerName, &o.CustomerEmail,
		&o.ShippingAddress.Line1, &o.ShippingAddress.Line2,
		&o.ShippingAddress.City, &o.ShippingAddress.Country,
		&o.ShippingAddress.PostalCode,
		&o.CreatedAt, &o.UpdatedAt)
	if err != nil {
		return nil, err
	}
	return &o, nil
}

// loadItems attaches line items to each order, preserving line order.
func (r *orderRepository) loadItems(ctx context.Context, orders []model.Order) error {
	if len(orders) == 0 {
		return nil
	}

	ids := make([]uuid.UUID, len(orders))
	index := make(map[uuid.UUID]*model.Order, len(orders))
	for i := range orders {
		ids[i] = orders[i].ID
		index[orders[i].ID] = &orders[i]
	}

	query := `
		SELECT order_id, product_id, name, quantity, price
		FROM order_items
		WHERE order_id = ANY($1)
		ORDER BY order_id, position
	`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query order items")
		return fmt.Errorf("failed to query order items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var orderID uuid.UUID
		var item model.OrderItem
		if err := rows.Scan(&orderID, &item.ProductID, &item.Name, &item.Quantity, &item.Price); err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order item row")
			return fmt.Errorf("failed to scan order item: %w", err)
		}
		if o, ok := index[orderID]; ok {
			o.Items = append(o.Items, item)
		}
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order item rows")
		return fmt.Errorf("error iterating order items: %w", err)
	}

	return nil
}

// GetByID retrieves an order with its items.
func (r *orderRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Order, error) {
	query := fmt.Sprintf(`SELECT %s FROM orders WHERE id = $1`, orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to query order")
		return nil, fmt.Errorf("failed to query order: %w", err)
	}

	orders := []model.Order{*order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}

func (r *orderRepository) list(ctx context.Context, query string, args ...any) ([]model.Order, error) {
	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		r.logger.Error().Err(err).Msg("failed to query orders")
		return nil, fmt.Errorf("failed to query orders: %w", err)
	}
	defer rows.Close()

	var orders []model.Order
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			r.logger.Error().Err(err).Msg("failed to scan order row")
			return nil, fmt.Errorf("failed to scan order: %w", err)
		}
		orders = append(orders, *o)
	}

	if err := rows.Err(); err != nil {
		r.logger.Error().Err(err).Msg("error iterating order rows")
		return nil, fmt.Errorf("error iterating orders: %w", err)
	}

	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return orders, nil
}

// ListByUser retrieves a user's orders, newest first.
func (r *orderRepository) ListByUser(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		WHERE user_id = $1
		ORDER BY created_at DESC
	`, orderColumns)
	return r.list(ctx, query, userID)
}

// ListAll retrieves every order, newest first.
func (r *orderRepository) ListAll(ctx context.Context) ([]model.Order, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM orders
		ORDER BY created_at DESC
	`, orderColumns)
	return r.list(ctx, query)
}

// UpdateStatus sets the status and/or payment status of an order.
func (r *orderRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status *model.OrderStatus, paymentStatus *model.PaymentStatus) (*model.Order, error) {
	query := fmt.Sprintf(`
		UPDATE orders
		SET status = COALESCE($2, status),
			payment_status = COALESCE($3, payment_status),
			updated_at = NOW()
		WHERE id = $1
		RETURNING %s
	`, orderColumns)

	order, err := scanOrder(r.pool.QueryRow(ctx, query, id, status, paymentStatus))
	if err != nil {
		if err == pgx.ErrNoRows {
			r.logger.Debug().Str("order_id", id.String()).Msg("order not found")
			return nil, nil
		}
		r.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	orders := []model.Order{*order}
	if err := r.loadItems(ctx, orders); err != nil {
		return nil, err
	}

	return &orders[0], nil
}
