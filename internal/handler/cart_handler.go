package handler

import (
	"net/http"

	"storefront/internal/cart"
	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// CartAddRequest is the payload for adding a product to the cart.
type CartAddRequest struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CartQuantityRequest is the payload for setting a line's quantity.
type CartQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0"`
}

// CartResponse is the cart state returned by every cart endpoint.
type CartResponse struct {
	Items    []cart.Item `json:"items"`
	Subtotal float64     `json:"subtotal"`
}

// CartHandler handles session-cart HTTP requests for the authenticated user.
type CartHandler struct {
	store    cart.Store
	products service.ProductService
	validate *validatorv10.Validate
	logger   zerolog.Logger
}

// NewCartHandler creates a new cart handler.
func NewCartHandler(
	store cart.Store,
	products service.ProductService,
	validate *validatorv10.Validate,
	logger zerolog.Logger,
) *CartHandler {
	return &CartHandler{
		store:    store,
		products: products,
		validate: validate,
		logger:   logger.With().Str("handler", "cart").Logger(),
	}
}

func cartResponse(c *cart.Cart) CartResponse {
	return CartResponse{
		Items:    c.Items(),
		Subtotal: c.Subtotal(),
	}
}

// Get handles GET /api/cart requests.
func (h *CartHandler) Get(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	c, err := h.store.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(c))
}

// AddItem handles POST /api/cart/items requests. The product must be
// currently sellable; its name and price are snapshotted into the cart line.
func (h *CartHandler) AddItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	var req CartAddRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	product, err := h.products.GetByID(r.Context(), req.ProductID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}
	if product == nil || !product.Sellable() {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidProduct,
			"product is invalid or inactive", h.logger)
		return
	}

	c, err := h.store.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	c.Add(cart.Item{
		ProductID: product.ID,
		Slug:      product.Slug,
		Name:      product.Name,
		Price:     product.Price,
		Quantity:  req.Quantity,
	})

	if err := h.store.Save(r.Context(), user.ID, c); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(c))
}

// UpdateItem handles PATCH /api/cart/items/{productId} requests.
func (h *CartHandler) UpdateItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	productID, err := uuid.Parse(r.PathValue("productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid product ID format", h.logger)
		return
	}

	var req CartQuantityRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	c, err := h.store.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if !c.UpdateQuantity(productID, req.Quantity) && req.Quantity > 0 {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "product not in cart", h.logger)
		return
	}

	if err := h.store.Save(r.Context(), user.ID, c); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(c))
}

// RemoveItem handles DELETE /api/cart/items/{productId} requests.
func (h *CartHandler) RemoveItem(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	productID, err := uuid.Parse(r.PathValue("productId"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid product ID format", h.logger)
		return
	}

	c, err := h.store.Get(r.Context(), user.ID)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	c.Remove(productID)

	if err := h.store.Save(r.Context(), user.ID, c); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(c))
}

// Clear handles DELETE /api/cart requests.
func (h *CartHandler) Clear(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	if err := h.store.Delete(r.Context(), user.ID); err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, cartResponse(cart.New()))
}
