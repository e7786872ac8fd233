package handler

import (
	"net/http"

	"storefront/internal/middleware"
	"storefront/internal/model"
	"storefront/internal/service"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// AuthHandler handles registration, login and profile requests.
type AuthHandler struct {
	service  service.AuthService
	validate *validatorv10.Validate
	logger   zerolog.Logger
}

// NewAuthHandler creates a new auth handler.
func NewAuthHandler(service service.AuthService, validate *validatorv10.Validate, logger zerolog.Logger) *AuthHandler {
	return &AuthHandler{
		service:  service,
		validate: validate,
		logger:   logger.With().Str("handler", "auth").Logger(),
	}
}

// Register handles POST /api/auth/register requests.
func (h *AuthHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req model.RegisterRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	resp, err := h.service.Register(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusCreated, resp)
}

// Login handles POST /api/auth/login requests.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req model.LoginRequest
	if !bindAndValidate(w, r, &req, h.validate, h.logger) {
		return
	}

	resp, err := h.service.Login(r.Context(), &req)
	if err != nil {
		writeServiceError(w, err, h.logger)
		return
	}

	writeJSON(w, http.StatusOK, resp)
}

// Me handles GET /api/user/me requests.
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	user := middleware.UserFromContext(r.Context())
	if user == nil {
		writeError(w, http.StatusUnauthorized, model.ErrCodeUnauthorised, "not authorized", h.logger)
		return
	}

	writeJSON(w, http.StatusOK, user)
}
