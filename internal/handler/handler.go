package handler

import (
	"encoding/json"
	"errors"
	"net/http"

	"storefront/internal/model"

	validatorv10 "github.com/go-playground/validator/v10"
	"github.com/rs/zerolog"
)

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	// The status line is already on the wire; an encode failure here can
	// only truncate the body.
	_ = json.NewEncoder(w).Encode(data)
}

// writeError writes an error response with the given status code and message.
func writeError(w http.ResponseWriter, status int, code, message string, logger zerolog.Logger) {
	logger.Error().Str("error", message).Int("status", status).Msg("handler error")
	writeJSON(w, status, model.ErrorResponse{Error: code, Message: message})
}

// writeServiceError maps a service error onto an HTTP response.
func writeServiceError(w http.ResponseWriter, err error, logger zerolog.Logger) {
	var domainErr *model.DomainError
	if errors.As(err, &domainErr) {
		writeError(w, statusForCode(domainErr.Code), domainErr.Code, domainErr.Message, logger)
		return
	}

	var invalidProduct *model.InvalidProductError
	if errors.As(err, &invalidProduct) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidProduct, invalidProduct.Error(), logger)
		return
	}

	var insufficientStock *model.InsufficientStockError
	if errors.As(err, &insufficientStock) {
		writeError(w, http.StatusBadRequest, model.ErrCodeInsufficientStock, insufficientStock.Error(), logger)
		return
	}

	writeError(w, http.StatusInternalServerError, model.ErrCodeInternalError, "internal server error", logger)
}

// statusForCode maps domain error codes onto HTTP status codes.
func statusForCode(code string) int {
	switch code {
	case model.ErrCodeValidation, model.ErrCodeInvalidJSON, model.ErrCodeInvalidProduct,
		model.ErrCodeInsufficientStock, model.ErrCodeInvalidStatus, model.ErrCodeSlugExists,
		model.ErrCodeEmailTaken:
		return http.StatusBadRequest
	case model.ErrCodeBadCredentials, model.ErrCodeUnauthorised:
		return http.StatusUnauthorized
	case model.ErrCodeForbidden:
		return http.StatusForbidden
	case model.ErrCodeNotFound:
		return http.StatusNotFound
	default:
		return http.StatusInternalServerError
	}
}

// bindAndValidate decodes the JSON request body into out and runs tag-based
// validation. On failure it writes a 400 response and returns false.
func bindAndValidate(w http.ResponseWriter, r *http.Request, out interface{}, validate *validatorv10.Validate, logger zerolog.Logger) bool {
	if err := json.NewDecoder(r.Body).Decode(out); err != nil {
		writeError(w, http.StatusBadRequest, model.ErrCodeInvalidJSON, "invalid request body", logger)
		return false
	}

	if err := validate.Struct(out); err != nil {
		fields := map[string]string{}
		var validationErrs validatorv10.ValidationErrors
		if errors.As(err, &validationErrs) {
			for _, fe := range validationErrs {
				fields[fe.StructNamespace()] = fe.Tag()
			}
		}
		logger.Warn().Err(err).Msg("request validation failed")
		writeJSON(w, http.StatusBadRequest, model.ErrorResponse{
			Error:   model.ErrCodeValidation,
			Message: "request validation failed",
			Fields:  fields,
		})
		return false
	}

	return true
}
