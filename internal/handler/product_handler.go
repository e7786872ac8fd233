package handler

import (
	"net/http"
	"strconv"

	"storefront/internal/model"
	"storefront/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/google/uuid"
	"github.com/rs/zerolog"
)

// ProductHandler handles catalogue HTTP requests.
type ProductHandler struct {
	service  service.ProductService
	validate *validatorv10.Validate
	logger   zerolog.Logger
}

// NewProductHandler creates a new product handler.
func NewProductHandler(service service.ProductService, validate *validatorv10.Validate, logger zerolog.Logger) *ProductHandler {
	return &ProductHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("handler", "product").Logger(),
	}
}

// parseFilter extracts the catalogue listing parameters from the query string.
// Unparseable numeric values are ignored rather than rejected.
func parseFilter(r *http.Request) model.ProductFilter {
	q := r.URL.Query()

	filter := model.ProductFilter{
		Search: q.Get("search"),
		Sort:   q.Get("sort"),
		Order:  q.Get("order"),
	}

	if page, err := strconv.Atoi(q.Get("page")); err == nil {
		filter.Page = page
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil {
		filter.Limit = limit
	}
	if categoryID, err := uuid.Parse(q.Get("category")); err == nil {
		filter.CategoryID = &categoryID
	}
	if minPrice, err := strconv.ParseFloat(q.Get("minPrice"), 64); err == nil {
		filter.MinPrice = &minPrice
	}
	if maxPrice, err := strconv.ParseFloat(q.Get("maxPrice"), 64); err == nil {
		filter.MaxPrice = &maxPrice
	}
	if minRating, err := strconv.ParseFloat(q.Get("minRating"), 64); err == nil {
		filter.MinRating = &minRating
	}

	return filter
}

// List handles GET /api/products requests.
func (h *ProductHandler) List(w http.ResponseWriter, r *http.Request) {
	page, err := h.service.List(r.Context(), parseFilter(r))
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, page)
}

// ListAdmin handles GET /api/products/admin requests.
func (h *ProductHandler) ListAdmin(w http.ResponseWriter, r *http.Request) {
	products, err := h.service.ListAdmin(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if products == nil {
		products = []model.Product{}
	}
	writeJSON(w, http.StatusOK, products)
}

// GetBySlug handles GET /api/products/{slug} requests.
func (h *ProductHandler) GetBySlug(w http.ResponseWriter, r *http.Request) {
	slug := r.PathValue("slug")
	if slug == "" {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "product slug is required", h.logger)
		return
	}

	product, err := h.service.GetBySlug(r.Context(), slug)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// Create handles POST /api/products requests.
func (h *ProductHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.ProductRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	product, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, product)
}

// Update handles PUT /api/products/{id} requests.
func (h *ProductHandler) Update(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req model.ProductRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	product, err := h.service.Update(r.Context(), id, &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// SetStock handles PATCH /api/products/{id}/stock requests.
func (h *ProductHandler) SetStock(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	var req model.StockUpdateRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	product, err := h.service.SetStock(r.Context(), id, req.Stock)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// ToggleActive handles PATCH /api/products/{id}/toggle requests.
func (h *ProductHandler) ToggleActive(w http.ResponseWriter, r *http.Request) {
	id, ok := h.pathID(w, r)
	if !ok {
		return
	}

	product, err := h.service.ToggleActive(r.Context(), id)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if product == nil {
		writeError(w, http.StatusNotFound, model.ErrCodeNotFound, "product not found", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, product)
}

// pathID parses the {id} path segment, writing a 400 on failure.
func (h *ProductHandler) pathID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeValidation, "invalid product ID format", h.logger)
		return uuid.Nil, false
	}
	return id, true
}
