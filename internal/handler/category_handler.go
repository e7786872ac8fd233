package handler

import (
	"net/http"

	"storefront/internal/model"
	"storefront/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// CategoryHandler handles category HTTP requests.
type CategoryHandler struct {
	service  service.CategoryService
	validate *validatorv10.Validate
	logger   zerolog.Logger
}

// NewCategoryHandler creates a new category handler.
func NewCategoryHandler(service service.CategoryService, validate *validatorv10.Validate, logger zerolog.Logger) *CategoryHandler {
	return &CategoryHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("handler", "category").Logger(),
	}
}

// List handles GET /api/categories requests.
func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.service.ListActive(r.Context())
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	if categories == nil {
		categories = []model.Category{}
	}
	writeJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/categories requests.
func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req model.CategoryRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	category, err := h.service.Create(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, category)
}
