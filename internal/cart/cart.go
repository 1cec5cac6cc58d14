// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package cart implements the storefront shopping cart: an aggregate of
// line items, a pure reconciliation against live stock, and a Valkey-backed
// store keyed by an opaque cart id.
package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamestore/internal/apperr"
)

// MaxItemQuantity caps the units of a single product in one cart.
const MaxItemQuantity = 99

// Item is a single cart line. UnitPrice is the price seen when the item was
// added or last reconciled.
type Item struct {
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	UnitPrice decimal.Decimal `json:"unit_price"`
	Quantity  int             `json:"quantity"`
}

// LineTotal returns UnitPrice × Quantity.
func (it Item) LineTotal() decimal.Decimal {
	return it.UnitPrice.Mul(decimal.NewFromInt(int64(it.Quantity)))
}

// Cart is an ordered list of items, at most one per product.
type Cart struct {
	ID    string `json:"id"`
	Items []Item `json:"items"`
}

// New returns an empty cart with the given id.
func New(id string) *Cart {
	return &Cart{ID: id, Items: []Item{}}
}

// Add puts qty units of a product in the cart, merging with an existing line.
// The unit price and name of an existing line are refreshed.
func (c *Cart) Add(productID uuid.UUID, name string, unitPrice decimal.Decimal, qty int) error {
	if qty <= 0 {
		return apperr.New(apperr.KindInvalid, "cart.Add", "quantity must be positive")
	}
	if i := c.index(productID); i >= 0 {
		if c.Items[i].Quantity+qty > MaxItemQuantity {
			return apperr.New(apperr.KindInvalid, "cart.Add", "quantity exceeds the per-item limit")
		}
		c.Items[i].Quantity += qty
		c.Items[i].Name = name
		c.Items[i].UnitPrice = unitPrice
		return nil
	}
	if qty > MaxItemQuantity {
		return apperr.New(apperr.KindInvalid, "cart.Add", "quantity exceeds the per-item limit")
	}
	c.Items = append(c.Items, Item{ProductID: productID, Name: name, UnitPrice: unitPrice, Quantity: qty})
	return nil
}

// SetQuantity replaces the quantity of an existing line. A quantity of zero
// or less removes the line.
func (c *Cart) SetQuantity(productID uuid.UUID, qty int) error {
	i := c.index(productID)
	if i < 0 {
		return apperr.New(apperr.KindNotFound, "cart.SetQuantity", "product is not in the cart")
	}
	if qty <= 0 {
		c.removeAt(i)
		return nil
	}
	if qty > MaxItemQuantity {
		return apperr.New(apperr.KindInvalid, "cart.SetQuantity", "quantity exceeds the per-item limit")
	}
	c.Items[i].Quantity = qty
	return nil
}

// Remove drops a product's line and reports whether it was present.
func (c *Cart) Remove(productID uuid.UUID) bool {
	i := c.index(productID)
	if i < 0 {
		return false
	}
	c.removeAt(i)
	return true
}

// Clear empties the cart.
func (c *Cart) Clear() {
	c.Items = []Item{}
}

// Subtotal is the sum of all line totals.
func (c *Cart) Subtotal() decimal.Decimal {
	total := decimal.Zero
	for _, it := range c.Items {
		total = total.Add(it.LineTotal())
	}
	return total
}

// Count is the total number of units across all lines.
func (c *Cart) Count() int {
	n := 0
	for _, it := range c.Items {
		n += it.Quantity
	}
	return n
}

// Empty reports whether the cart has no lines.
func (c *Cart) Empty() bool {
	return len(c.Items) == 0
}

// ProductIDs returns the distinct product ids in line order.
func (c *Cart) ProductIDs() []uuid.UUID {
	ids := make([]uuid.UUID, 0, len(c.Items))
	for _, it := range c.Items {
		ids = append(ids, it.ProductID)
	}
	return ids
}

func (c *Cart) index(productID uuid.UUID) int {
	for i, it := range c.Items {
		if it.ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) removeAt(i int) {
	c.Items = append(c.Items[:i:i], c.Items[i+1:]...)
}
