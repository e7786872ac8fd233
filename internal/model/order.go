package model

import (
	"time"

	"github.com/google/uuid"
)

// OrderStatus is the fulfilment state of an order.
type OrderStatus string

const (
	OrderStatusPending   OrderStatus = "pending"
	OrderStatusPaid      OrderStatus = "paid"
	OrderStatusShipped   OrderStatus = "shipped"
	OrderStatusCompleted OrderStatus = "completed"
	OrderStatusCancelled OrderStatus = "cancelled"
)

// Valid reports whether s is a known order status.
func (s OrderStatus) Valid() bool {
	switch s {
	case OrderStatusPending, OrderStatusPaid, OrderStatusShipped,
		OrderStatusCompleted, OrderStatusCancelled:
		return true
	}
	return false
}

// Terminal reports whether no further transitions are allowed from s.
func (s OrderStatus) Terminal() bool {
	return s == OrderStatusCompleted || s == OrderStatusCancelled
}

// statusTransitions is the allowed forward move per status. Cancellation is
// reachable from every non-terminal status.
var statusTransitions = map[OrderStatus]OrderStatus{
	OrderStatusPending: OrderStatusPaid,
	OrderStatusPaid:    OrderStatusShipped,
	OrderStatusShipped: OrderStatusCompleted,
}

// CanTransitionTo reports whether an order in status s may move to next.
// Setting the current status again is a no-op and always allowed.
func (s OrderStatus) CanTransitionTo(next OrderStatus) bool {
	if !next.Valid() {
		return false
	}
	if s == next {
		return true
	}
	if s.Terminal() {
		return false
	}
	if next == OrderStatusCancelled {
		return true
	}
	return statusTransitions[s] == next
}

// PaymentStatus is the payment state of an order, tracked independently of
// the fulfilment status.
type PaymentStatus string

const (
	PaymentStatusPending PaymentStatus = "pending"
	PaymentStatusPaid    PaymentStatus = "paid"
	PaymentStatusFailed  PaymentStatus = "failed"
)

// Valid reports whether s is a known payment status.
func (s PaymentStatus) Valid() bool {
	switch s {
	case PaymentStatusPending, PaymentStatusPaid, PaymentStatusFailed:
		return true
	}
	return false
}

// Address is a structured shipping address.
type Address struct {
	Line1      string `json:"line1" validate:"required"`
	Line2      string `json:"line2,omitempty"`
	City       string `json:"city" validate:"required"`
	Country    string `json:"country" validate:"required"`
	PostalCode string `json:"postalCode" validate:"required"`
}

// OrderItem is a line item within an order. Name and Price are snapshots
// taken at order time and never change afterwards, even if the underlying
// product is renamed or repriced.
type OrderItem struct {
	ProductID uuid.UUID `json:"productId" db:"product_id"`
	Name      string    `json:"name" db:"name"`
	Quantity  int       `json:"quantity" db:"quantity"`
	Price     float64   `json:"price" db:"price"`
}

// Order is an immutable record of a checkout. After creation only Status and
// PaymentStatus may change.
type Order struct {
	ID              uuid.UUID     `json:"id" db:"id"`
	UserID          uuid.UUID     `json:"userId" db:"user_id"`
	Items           []OrderItem   `json:"items"`
	TotalAmount     float64       `json:"totalAmount" db:"total_amount"`
	Status          OrderStatus   `json:"status" db:"status"`
	PaymentStatus   PaymentStatus `json:"paymentStatus" db:"payment_status"`
	CustomerName    string        `json:"customerName" db:"customer_name"`
	CustomerEmail   string        `json:"customerEmail" db:"customer_email"`
	ShippingAddress Address       `json:"shippingAddress"`
	CreatedAt       time.Time     `json:"createdAt" db:"created_at"`
	UpdatedAt       time.Time     `json:"updatedAt" db:"updated_at"`
}

// CheckoutItem is a single cart line in a checkout request.
type CheckoutItem struct {
	ProductID uuid.UUID `json:"productId" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,min=1"`
}

// CheckoutRequest is the payload for placing an order.
type CheckoutRequest struct {
	Items           []CheckoutItem `json:"items" validate:"required,min=1,dive"`
	CustomerName    string         `json:"customerName" validate:"required"`
	CustomerEmail   string         `json:"customerEmail" validate:"required,email"`
	ShippingAddress Address        `json:"shippingAddress" validate:"required"`
}

// StatusUpdateRequest is the payload for the admin status endpoint. Either
// field may be omitted to leave it unchanged.
type StatusUpdateRequest struct {
	Status        *OrderStatus   `json:"status,omitempty"`
	PaymentStatus *PaymentStatus `json:"paymentStatus,omitempty"`
}
