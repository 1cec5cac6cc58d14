// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cart

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamestore/internal/models"
)

// NoticeKind classifies an adjustment made by Reconcile.
type NoticeKind string

const (
	// NoticeUnavailable means the product no longer exists and was removed.
	NoticeUnavailable NoticeKind = "unavailable"
	// NoticeOutOfStock means the product has no stock and was removed.
	NoticeOutOfStock NoticeKind = "out_of_stock"
	// NoticeReduced means the quantity was clamped to the stock on hand.
	NoticeReduced NoticeKind = "reduced"
	// NoticePriceChanged means the unit price was refreshed.
	NoticePriceChanged NoticeKind = "price_changed"
)

// Notice describes one adjustment to one cart line.
type Notice struct {
	Kind      NoticeKind      `json:"kind"`
	ProductID uuid.UUID       `json:"product_id"`
	Name      string          `json:"name"`
	Requested int             `json:"requested,omitempty"`
	Available int             `json:"available,omitempty"`
	OldPrice  decimal.Decimal `json:"old_price,omitzero"`
	NewPrice  decimal.Decimal `json:"new_price,omitzero"`
}

// Stock is the live state of a product used for reconciliation.
type Stock struct {
	Name    string
	Price   decimal.Decimal
	Count   int
	InStock bool
}

// StockFromProduct builds the live stock view of a product. A nil stock
// count is zero and a nil in-stock flag is false.
func StockFromProduct(p models.Product) Stock {
	return Stock{Name: p.Name, Price: p.Price, Count: p.Stock(), InStock: p.Available()}
}

// Reconcile adjusts a cart against live stock and returns the adjusted copy
// together with one notice per change. The input cart is never modified.
//
// A line is removed when its product is missing from live, or when the
// product is flagged out of stock or has no units. A line asking for more
// units than are on hand is clamped. A line whose unit price differs from
// the live price takes the live price; this may accompany a clamp.
func Reconcile(c Cart, live map[uuid.UUID]Stock) (Cart, []Notice) {
	out := Cart{ID: c.ID, Items: make([]Item, 0, len(c.Items))}
	var notices []Notice

	for _, it := range c.Items {
		st, ok := live[it.ProductID]
		if !ok {
			notices = append(notices, Notice{Kind: NoticeUnavailable, ProductID: it.ProductID, Name: it.Name, Requested: it.Quantity})
			continue
		}
		if !st.InStock || st.Count <= 0 {
			notices = append(notices, Notice{Kind: NoticeOutOfStock, ProductID: it.ProductID, Name: st.Name, Requested: it.Quantity})
			continue
		}

		adjusted := it
		if st.Name != "" {
			adjusted.Name = st.Name
		}
		if it.Quantity > st.Count {
			adjusted.Quantity = st.Count
			notices = append(notices, Notice{
				Kind:      NoticeReduced,
				ProductID: it.ProductID,
				Name:      adjusted.Name,
				Requested: it.Quantity,
				Available: st.Count,
			})
		}
		if !it.UnitPrice.Equal(st.Price) {
			adjusted.UnitPrice = st.Price
			notices = append(notices, Notice{
				Kind:      NoticePriceChanged,
				ProductID: it.ProductID,
				Name:      adjusted.Name,
				OldPrice:  it.UnitPrice,
				NewPrice:  st.Price,
			})
		}
		out.Items = append(out.Items, adjusted)
	}

	return out, notices
}
