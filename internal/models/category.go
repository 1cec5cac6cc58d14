// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package models defines the records shared by the catalog, order and
// dashboard layers. They map one-to-one to database rows; nullable columns
// are pointers.
package models

import (
	"time"

	"github.com/google/uuid"
)

// Category is a catalog category. Root categories have a nil ParentID.
type Category struct {
	ID          uuid.UUID  `json:"id"`
	Name        string     `json:"name"`
	Slug        string     `json:"slug"`
	Description string     `json:"description"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order"`
	IsActive    bool       `json:"is_active"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`
}

// Order returns the sort order, treating a missing value as 0.
func (c *Category) Order() int {
	if c.SortOrder == nil {
		return 0
	}
	return *c.SortOrder
}

// IsRoot reports whether the category has no parent reference.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}
