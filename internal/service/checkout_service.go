package service

import (
	"bytes"
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// checkoutService implements CheckoutService.
type checkoutService struct {
	orderRepo   repository.OrderRepository
	productRepo repository.ProductRepository
	logger      zerolog.Logger
}

// NewCheckoutService creates a new checkout service.
func NewCheckoutService(
	orderRepo repository.OrderRepository,
	productRepo repository.ProductRepository,
	logger zerolog.Logger,
) CheckoutService {
	return &checkoutService{
		orderRepo:   orderRepo,
		productRepo: productRepo,
		logger:      logger.With().Str("service", "checkout").Logger(),
	}
}

// PlaceOrder validates the cart against the catalogue, snapshots prices,
// decrements stock and persists the order. Order insert and stock decrements
// share one transaction, so a failure anywhere leaves both aggregates
// untouched. The stock decrement is conditional on sufficient stock, so
// concurrent checkouts for the same product cannot oversell it.
func (s *checkoutService) PlaceOrder(ctx context.Context, userID uuid.UUID, req *model.CheckoutRequest) (*model.Order, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	// Deduplicate product IDs while keeping first-seen order, and aggregate
	// quantities so each product is decremented exactly once.
	quantities := make(map[uuid.UUID]int, len(req.Items))
	ids := make([]uuid.UUID, 0, len(req.Items))
	for _, item := range req.Items {
		if quantities[item.ProductID] == 0 {
			ids = append(ids, item.ProductID)
		}
		quantities[item.ProductID] += item.Quantity
	}

	tx, err := s.orderRepo.BeginTx(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to begin transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	defer func() {
		if err != nil {
			if rbErr := tx.Rollback(ctx); rbErr != nil {
				s.logger.Error().Err(rbErr).Msg("failed to rollback transaction")
			}
		}
	}()

	products, err := s.productRepo.FindActiveByIDs(ctx, tx, ids)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to fetch products")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	productMap := make(map[uuid.UUID]*model.Product, len(products))
	for i := range products {
		productMap[products[i].ID] = &products[i]
	}

	var missing []uuid.UUID
	for _, id := range ids {
		if productMap[id] == nil {
			missing = append(missing, id)
		}
	}
	if len(missing) > 0 {
		s.logger.Warn().
			Str("user_id", userID.String()).
			Int("missing_count", len(missing)).
			Msg("checkout references invalid or inactive products")
		err = &model.InvalidProductError{ProductIDs: missing}
		return nil, err
	}

	// Decrement in a deterministic ID order so concurrent checkouts touching
	// the same products acquire row locks in the same sequence and cannot
	// deadlock each other.
	locked := make([]uuid.UUID, len(ids))
	copy(locked, ids)
	slices.SortFunc(locked, func(a, b uuid.UUID) int {
		return bytes.Compare(a[:], b[:])
	})

	for _, id := range locked {
		product := productMap[id]
		requested := quantities[id]

		// Conditional decrement is the authoritative stock check.
		var ok bool
		ok, err = s.productRepo.DecrementStock(ctx, tx, product.ID, requested)
		if err != nil {
			s.logger.Error().Err(err).
				Str("product_id", product.ID.String()).
				Msg("stock decrement failed")
			return nil, fmt.Errorf("failed to place order: %w", err)
		}
		if !ok {
			s.logger.Warn().
				Str("product_id", product.ID.String()).
				Int("requested", requested).
				Int("available", product.Stock).
				Msg("insufficient stock")
			err = &model.InsufficientStockError{
				ProductID: product.ID,
				Name:      product.Name,
				Requested: requested,
				Available: product.Stock,
			}
			return nil, err
		}
	}

	var totalAmount float64
	items := make([]model.OrderItem, 0, len(req.Items))

	// Snapshot name and price at validation time, one order line per cart
	// line in request order. These are frozen on the order even if the
	// product is later renamed or repriced.
	for _, line := range req.Items {
		product := productMap[line.ProductID]
		items = append(items, model.OrderItem{
			ProductID: product.ID,
			Name:      product.Name,
			Quantity:  line.Quantity,
			Price:     product.Price,
		})
		totalAmount += product.Price * float64(line.Quantity)
	}

	now := time.Now()
	order := &model.Order{
		ID:              uuid.New(),
		UserID:          userID,
		Items:           items,
		TotalAmount:     totalAmount,
		Status:          model.OrderStatusPending,
		PaymentStatus:   model.PaymentStatusPending,
		CustomerName:    req.CustomerName,
		CustomerEmail:   req.CustomerEmail,
		ShippingAddress: req.ShippingAddress,
		CreatedAt:       now,
		UpdatedAt:       now,
	}

	if err = s.orderRepo.Insert(ctx, tx, order); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to insert order")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	if err = tx.Commit(ctx); err != nil {
		s.logger.Error().Err(err).Str("order_id", order.ID.String()).Msg("failed to commit transaction")
		return nil, fmt.Errorf("failed to place order: %w", err)
	}

	s.logger.Info().
		Str("order_id", order.ID.String()).
		Str("user_id", userID.String()).
		Int("item_count", len(items)).
		Float64("total_amount", totalAmount).
		Msg("order placed")

	return order, nil
}

// validateRequest checks the cart shape before touching the database.
func (s *checkoutService) validateRequest(req *model.CheckoutRequest) error {
	if req == nil {
		return model.NewDomainError(model.ErrCodeValidation, "Checkout request is required")
	}

	if len(req.Items) == 0 {
		return model.ErrEmptyCart
	}

	for i, item := range req.Items {
		if item.ProductID == uuid.Nil {
			return model.NewDomainError(model.ErrCodeValidation,
				fmt.Sprintf("Item %d: product ID is required", i))
		}
		if item.Quantity < 1 {
			s.logger.Warn().
				Int("item_index", i).
				Str("product_id", item.ProductID.String()).
				Int("quantity", item.Quantity).
				Msg("invalid quantity")
			return model.ErrInvalidQuantity
		}
	}

	if strings.TrimSpace(req.CustomerName) == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Customer name is required")
	}
	if strings.TrimSpace(req.CustomerEmail) == "" {
		return model.NewDomainError(model.ErrCodeValidation, "Customer email is required")
	}

	addr := req.ShippingAddress
	if addr.Line1 == "" || addr.City == "" || addr.Country == "" || addr.PostalCode == "" {
		return model.NewDomainError(model.ErrCodeValidation,
			"Shipping address must include line1, city, country and postal code")
	}

	return nil
}
