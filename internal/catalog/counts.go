// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"github.com/google/uuid"

	"gamestore/internal/models"
)

// AggregateProductCounts returns, for every category, its direct product
// count plus the aggregate of all its descendants. direct maps a category
// id to the number of products assigned to it directly; ids missing from
// the map count as zero.
//
// Each call has its own memo table. A cyclic parent graph terminates but
// the totals inside the cycle are not meaningful.
func AggregateProductCounts(categories []models.Category, direct map[uuid.UUID]int) map[uuid.UUID]int {
	children := make(map[uuid.UUID][]uuid.UUID, len(categories))
	for _, c := range categories {
		if c.ParentID != nil && *c.ParentID != c.ID {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	f := &countFold{children: children, direct: direct, memo: make(map[uuid.UUID]int, len(categories))}
	for _, c := range categories {
		f.total(c.ID)
	}
	return f.memo
}

type countFold struct {
	children map[uuid.UUID][]uuid.UUID
	direct   map[uuid.UUID]int
	memo     map[uuid.UUID]int
}

func (f *countFold) total(id uuid.UUID) int {
	if v, ok := f.memo[id]; ok {
		return v
	}
	// Provisional entry so a revisit during descent stops here.
	sum := f.direct[id]
	f.memo[id] = sum
	for _, child := range f.children[id] {
		sum += f.total(child)
	}
	f.memo[id] = sum
	return sum
}

// WithCounts pairs a category with its aggregate product count.
type WithCounts struct {
	models.Category
	DirectProducts int `json:"direct_products"`
	TotalProducts  int `json:"total_products"`
}

// AnnotateCounts returns the categories in their original order with direct
// and aggregate product counts attached.
func AnnotateCounts(categories []models.Category, direct map[uuid.UUID]int) []WithCounts {
	totals := AggregateProductCounts(categories, direct)
	out := make([]WithCounts, 0, len(categories))
	for _, c := range categories {
		out = append(out, WithCounts{
			Category:       c,
			DirectProducts: direct[c.ID],
			TotalProducts:  totals[c.ID],
		})
	}
	return out
}
