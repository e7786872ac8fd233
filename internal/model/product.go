package model

import (
	"time"

	"github.com/google/uuid"
)

// Product represents a catalogue product.
type Product struct {
	ID          uuid.UUID `json:"id" db:"id"`
	Name        string    `json:"name" db:"name"`
	Slug        string    `json:"slug" db:"slug"`
	Description string    `json:"description,omitempty" db:"description"`
	Images      []string  `json:"images,omitempty" db:"images"`
	CategoryID  uuid.UUID `json:"categoryId" db:"category_id"`
	Price       float64   `json:"price" db:"price"`
	Rating      float64   `json:"rating" db:"rating"`
	RatingCount int       `json:"ratingCount" db:"rating_count"`
	Stock       int       `json:"stock" db:"stock"`
	IsActive    bool      `json:"isActive" db:"is_active"`
	CreatedAt   time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt   time.Time `json:"updatedAt" db:"updated_at"`
}

// Sellable reports whether the product may be displayed and purchased.
func (p *Product) Sellable() bool {
	return p.IsActive && p.Stock > 0
}

// ProductFilter captures the public catalogue listing parameters.
type ProductFilter struct {
	Search     string
	CategoryID *uuid.UUID
	MinPrice   *float64
	MaxPrice   *float64
	MinRating  *float64
	Sort       string
	Order      string
	Page       int
	Limit      int
}

// Pagination describes the page window of a listing response.
type Pagination struct {
	Total      int `json:"total"`
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	TotalPages int `json:"totalPages"`
}

// ProductPage is the paginated catalogue listing response.
type ProductPage struct {
	Items      []Product  `json:"items"`
	Pagination Pagination `json:"pagination"`
}

// ProductRequest is the payload for creating or updating a product.
type ProductRequest struct {
	Name        string    `json:"name" validate:"required"`
	Slug        string    `json:"slug" validate:"required"`
	Description string    `json:"description"`
	Images      []string  `json:"images"`
	CategoryID  uuid.UUID `json:"categoryId" validate:"required"`
	Price       float64   `json:"price" validate:"gte=0"`
	Stock       int       `json:"stock" validate:"gte=0"`
	IsActive    *bool     `json:"isActive"`
}

// StockUpdateRequest is the payload for the admin stock endpoint.
type StockUpdateRequest struct {
	Stock int `json:"stock" validate:"gte=0"`
}
