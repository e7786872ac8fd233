// Package cart provides a session-scoped shopping cart aggregate keyed by
// product id, with a pluggable persistence boundary.
package cart

import (
	"github.com/google/uuid"
)

// Item is a cart line. Name, Slug and Price are display snapshots taken when
// the product was added; the checkout re-reads live catalogue prices.
type Item struct {
	ProductID uuid.UUID `json:"productId"`
	Slug      string    `json:"slug"`
	Name      string    `json:"name"`
	Price     float64   `json:"price"`
	Quantity  int       `json:"quantity"`
}

// Cart is an ordered collection of items, at most one line per product.
// Cart is not safe for concurrent use; the Store serialises access.
type Cart struct {
	items []Item
}

// New creates an empty cart.
func New() *Cart {
	return &Cart{}
}

// FromItems creates a cart from a stored item snapshot.
func FromItems(items []Item) *Cart {
	c := &Cart{items: make([]Item, len(items))}
	copy(c.items, items)
	return c
}

// Items returns a copy of the cart lines in insertion order.
func (c *Cart) Items() []Item {
	out := make([]Item, len(c.items))
	copy(out, c.items)
	return out
}

// Len returns the number of cart lines.
func (c *Cart) Len() int {
	return len(c.items)
}

// Add merges the item into the cart. An existing line for the same product
// has its quantity increased; otherwise the item is appended.
func (c *Cart) Add(item Item) {
	if item.Quantity < 1 {
		item.Quantity = 1
	}
	for i := range c.items {
		if c.items[i].ProductID == item.ProductID {
			c.items[i].Quantity += item.Quantity
			return
		}
	}
	c.items = append(c.items, item)
}

// UpdateQuantity sets the quantity of a line. A quantity of zero or below
// removes the line. Returns false when no line exists for the product.
func (c *Cart) UpdateQuantity(productID uuid.UUID, quantity int) bool {
	if quantity <= 0 {
		return c.Remove(productID)
	}
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items[i].Quantity = quantity
			return true
		}
	}
	return false
}

// Remove deletes the line for the product. Returns false when absent.
func (c *Cart) Remove(productID uuid.UUID) bool {
	for i := range c.items {
		if c.items[i].ProductID == productID {
			c.items = append(c.items[:i], c.items[i+1:]...)
			return true
		}
	}
	return false
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.items = nil
}

// Subtotal returns the sum of price times quantity across all lines.
func (c *Cart) Subtotal() float64 {
	var total float64
	for _, item := range c.items {
		total += item.Price * float64(item.Quantity)
	}
	return total
}
