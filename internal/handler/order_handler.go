package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// OrderHandler handles checkout and order HTTP requests.
type OrderHandler struct {
	checkout service.CheckoutService
	orders   service.OrderService
	validate *validatorv10.Validate
	logger   zerolog.Logger
}

// NewOrderHandler creates a new order handler.
func NewOrderHandler(
	checkout service.CheckoutService,
	orders service.OrderService,
	validate *validatorv10.Validate,
	logger zerolog.Logger,
) *OrderHandler {
	return &OrderHandler{
		checkout: checkout,
		orders:   orders,
		validate: validate,
		logger:   logger.With().Str("handler", "order").Logger(),
	}
}

// Checkout handles POST /api/orders/checkout requests.
func (h *OrderHandler) Checkout(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	var req model.CheckoutRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	order, err := h.checkout.PlaceOrder(r.Context(), user.ID, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, order)
}

// ListMine handles GET /api/orders/my requests.
func (h *OrderHandler) ListMine(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	orders, err := h.orders.ListMine(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// ListAll handles GET /api/orders requests (admin).
func (h *OrderHandler) ListAll(w http.ResponseWriter, r *http.Request) {
	orders, err := h.orders.ListAll(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if orders == nil {
		orders = []model.Order{}
	}
	writeJSON(w, http.StatusOK, orders)
}

// GetByID handles GET /api/orders/{id} requests.
func (h *OrderHandler) GetByID(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID format", h.logger)
		return
	}

	order, err := h.orders.GetByID(r.Context(), user, id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}

// UpdateStatus handles PATCH /api/orders/{id}/status requests (admin).
func (h *OrderHandler) UpdateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid order ID format", h.logger)
		return
	}

	var req model.StatusUpdateRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	order, err := h.orders.UpdateStatus(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if order == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "order not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, order)
}
