package model

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

// Standard error codes for API responses
const (
	ErrCodeInvalidJSON       = "INVALID_JSON"
	ErrCodeValidation        = "VALIDATION_ERROR"
	ErrCodeInvalidProduct    = "INVALID_PRODUCT"
	ErrCodeInsufficientStock = "INSUFFICIENT_STOCK"
	ErrCodeInvalidStatus     = "INVALID_STATUS"
	ErrCodeSlugExists        = "SLUG_EXISTS"
	ErrCodeEmailTaken        = "EMAIL_TAKEN"
	ErrCodeBadCredentials    = "INVALID_CREDENTIALS"
	ErrCodeUnauthorised      = "UNAUTHORIZED"
	ErrCodeForbidden         = "FORBIDDEN"
	ErrCodeNotFound          = "NOT_FOUND"
	ErrCodeInternalError     = "INTERNAL_ERROR"
)

// DomainError is a business-rule violation carrying a stable code.
type DomainError struct {
	Code    string
	Message string
}

func (e *DomainError) Error() string {
	return e.Message
}

// NewDomainError creates a new domain error
func NewDomainError(code, message string) *DomainError {
	return &DomainError{
		Code:    code,
		Message: message,
	}
}

// Common domain errors
var (
	ErrEmptyCart          = NewDomainError(ErrCodeValidation, "Order must contain at least one item")
	ErrInvalidQuantity    = NewDomainError(ErrCodeValidation, "Quantity must be greater than zero")
	ErrCategorySlugExists = NewDomainError(ErrCodeSlugExists, "Slug already exists")
	ErrProductSlugExists  = NewDomainError(ErrCodeSlugExists, "A product with this slug already exists")
	ErrEmailTaken         = NewDomainError(ErrCodeEmailTaken, "An account with this email already exists")
	ErrInvalidCredentials = NewDomainError(ErrCodeBadCredentials, "Invalid email or password")
	ErrNotOrderOwner      = NewDomainError(ErrCodeForbidden, "Not authorized to view this order")
)

// InvalidProductError reports cart lines referencing products that are
// missing from the catalogue or inactive. The checkout aborts before any
// mutation when this is returned.
type InvalidProductError struct {
	ProductIDs []uuid.UUID
}

func (e *InvalidProductError) Error() string {
	ids := make([]string, len(e.ProductIDs))
	for i, id := range e.ProductIDs {
		ids[i] = id.String()
	}
	return fmt.Sprintf("one or more products are invalid or inactive: %s", strings.Join(ids, ", "))
}

// InsufficientStockError reports a cart line requesting more units than the
// product has in stock.
type InsufficientStockError struct {
	ProductID uuid.UUID
	Name      string
	Requested int
	Available int
}

func (e *InsufficientStockError) Error() string {
	return fmt.Sprintf("insufficient stock for product %s: requested %d, available %d",
		e.Name, e.Requested, e.Available)
}

// ErrorResponse represents a standardised error response.
type ErrorResponse struct {
	Error   string            `json:"error"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
}
