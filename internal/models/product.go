// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a sellable item. ParentCategory and ChildCategory are resolved
// by the store when the product is loaded with its associations.
type Product struct {
	ID               uuid.UUID       `json:"id"`
	Name             string          `json:"name"`
	Slug             string          `json:"slug"`
	Description      string          `json:"description"`
	Platform         string          `json:"platform"`
	Price            decimal.Decimal `json:"price"`
	StockCount       *int            `json:"stock_count"`
	InStock          *bool           `json:"in_stock"`
	ImageURL         string          `json:"image_url"`
	ParentCategoryID *uuid.UUID      `json:"parent_category_id"`
	ChildCategoryID  *uuid.UUID      `json:"child_category_id"`
	CreatedAt        time.Time       `json:"created_at"`
	UpdatedAt        time.Time       `json:"updated_at"`

	// Resolved associations, nil when not loaded or not assigned.
	ParentCategory *Category `json:"parent_category,omitempty"`
	ChildCategory  *Category `json:"child_category,omitempty"`
}

// Stock returns the recorded stock count, treating a missing value as 0.
func (p *Product) Stock() int {
	if p.StockCount == nil {
		return 0
	}
	return *p.StockCount
}

// Available returns the in-stock flag, treating a missing value as false.
func (p *Product) Available() bool {
	return p.InStock != nil && *p.InStock
}
