package service

import (
	"context"
	"fmt"

	"storefront/internal/model"
	"storefront/internal/repository"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// orderService implements OrderService.
type orderService struct {
	orderRepo repository.OrderRepository
	logger    zerolog.Logger
}

// NewOrderService creates a new order service.
func NewOrderService(orderRepo repository.OrderRepository, logger zerolog.Logger) OrderService {
	return &orderService{
		orderRepo: orderRepo,
		logger:    logger.With().Str("service", "order").Logger(),
	}
}

// GetByID retrieves an order when the requester owns it or is an admin.
func (s *orderService) GetByID(ctx context.Context, requester *model.User, id uuid.UUID) (*model.Order, error) {
	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order")
		return nil, fmt.Errorf("failed to get order: %w", err)
	}

	if order == nil {
		return nil, nil
	}

	if order.UserID != requester.ID && !requester.IsAdmin() {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("user_id", requester.ID.String()).
			Msg("order access denied")
		return nil, model.ErrNotOrderOwner
	}

	return order, nil
}

// ListMine retrieves the requester's orders, newest first.
func (s *orderService) ListMine(ctx context.Context, userID uuid.UUID) ([]model.Order, error) {
	orders, err := s.orderRepo.ListByUser(ctx, userID)
	if err != nil {
		s.logger.Error().Err(err).Str("user_id", userID.String()).Msg("failed to list orders")
		return nil, fmt.Errorf("failed to list orders: %w", err)
	}
	return orders, nil
}

// ListAll retrieves every order, newest first.
func (s *orderService) ListAll(ctx context.Context) ([]model.Order, error) {
	orders, err := s.orderRepo.ListAll(ctx)
	if err != nil {
		s.logger.Error().Err(err).Msg("failed to list all orders")
		return nil, fmt.Errorf("failed to list all orders: %w", err)
	}
	return orders, nil
}

// UpdateStatus applies a status and/or payment-status transition. Fulfilment
// status moves are gated by the transition table; payment status only needs
// to be a valid enum value.
func (s *orderService) UpdateStatus(ctx context.Context, id uuid.UUID, req *model.StatusUpdateRequest) (*model.Order, error) {
	if req == nil || (req.Status == nil && req.PaymentStatus == nil) {
		return nil, model.NewDomainError(model.ErrCodeValidation,
			"Either status or paymentStatus must be provided")
	}

	if req.Status != nil && !req.Status.Valid() {
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus,
			fmt.Sprintf("Invalid status value: %s", *req.Status))
	}
	if req.PaymentStatus != nil && !req.PaymentStatus.Valid() {
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus,
			fmt.Sprintf("Invalid paymentStatus value: %s", *req.PaymentStatus))
	}

	order, err := s.orderRepo.GetByID(ctx, id)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to get order for status update")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}
	if order == nil {
		return nil, nil
	}

	if req.Status != nil && !order.Status.CanTransitionTo(*req.Status) {
		s.logger.Warn().
			Str("order_id", id.String()).
			Str("from", string(order.Status)).
			Str("to", string(*req.Status)).
			Msg("disallowed status transition")
		return nil, model.NewDomainError(model.ErrCodeInvalidStatus,
			fmt.Sprintf("Cannot transition order from %s to %s", order.Status, *req.Status))
	}

	updated, err := s.orderRepo.UpdateStatus(ctx, id, req.Status, req.PaymentStatus)
	if err != nil {
		s.logger.Error().Err(err).Str("order_id", id.String()).Msg("failed to update order status")
		return nil, fmt.Errorf("failed to update order status: %w", err)
	}

	if updated != nil {
		s.logger.Info().
			Str("order_id", id.String()).
			Str("status", string(updated.Status)).
			Str("payment_status", string(updated.PaymentStatus)).
			Msg("order status updated")
	}

	return updated, nil
}
