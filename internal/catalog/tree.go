// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package catalog turns flat category rows into the navigation hierarchy
// used by the storefront menu and the admin category screens.
package catalog

import (
	"sort"

	"github.com/google/uuid"

	"gamestore/internal/models"
	"gamestore/internal/slug"
)

// Node is one category in the navigation tree.
type Node struct {
	ID        uuid.UUID  `json:"id"`
	Name      string     `json:"name"`
	Slug      string     `json:"slug"`
	ParentID  *uuid.UUID `json:"parent_id"`
	SortOrder int        `json:"sort_order"`
	Children  []*Node    `json:"children"`
}

// NewNode maps a category row to a node without children. A missing slug
// is derived from the name.
func NewNode(c models.Category) *Node {
	return &Node{
		ID:        c.ID,
		Name:      c.Name,
		Slug:      slug.Or(c.Slug, c.Name),
		ParentID:  c.ParentID,
		SortOrder: c.Order(),
		Children:  []*Node{},
	}
}

// HasChildren reports whether children are already attached.
func (n *Node) HasChildren() bool {
	return len(n.Children) > 0
}

// BuildTree converts category rows into root nodes with their children
// attached. A row becomes a root when it has no parent, when its parent is
// not among the rows, or when following its parents leads back to itself.
// Roots and every sibling list are ordered by (sort order, name).
// Duplicate ids resolve to the last row seen.
func BuildTree(rows []models.Category) []*Node {
	byID := make(map[uuid.UUID]models.Category, len(rows))
	order := make([]uuid.UUID, 0, len(rows))
	for _, r := range rows {
		if _, seen := byID[r.ID]; !seen {
			order = append(order, r.ID)
		}
		byID[r.ID] = r
	}

	nodes := make(map[uuid.UUID]*Node, len(byID))
	for _, id := range order {
		nodes[id] = NewNode(byID[id])
	}

	roots := []*Node{}
	for _, id := range order {
		n := nodes[id]
		if parent, ok := resolvableParent(byID, id); ok {
			nodes[parent].Children = append(nodes[parent].Children, n)
			continue
		}
		roots = append(roots, n)
	}

	sortNodes(roots)
	for _, n := range nodes {
		sortNodes(n.Children)
	}
	return roots
}

// resolvableParent returns the parent id of the row when the parent is
// present and the chain of parents above it never leads back to the row.
func resolvableParent(byID map[uuid.UUID]models.Category, id uuid.UUID) (uuid.UUID, bool) {
	row := byID[id]
	if row.ParentID == nil {
		return uuid.Nil, false
	}
	parent := *row.ParentID
	if _, ok := byID[parent]; !ok {
		return uuid.Nil, false
	}

	visited := map[uuid.UUID]bool{}
	for cur := parent; ; {
		if cur == id {
			return uuid.Nil, false
		}
		if visited[cur] {
			// A cycle above the row: its members become roots, the row hangs below them.
			return parent, true
		}
		visited[cur] = true
		next := byID[cur].ParentID
		if next == nil {
			return parent, true
		}
		if _, ok := byID[*next]; !ok {
			return parent, true
		}
		cur = *next
	}
}

// sortNodes orders siblings by sort order, then by name (byte-wise).
func sortNodes(nodes []*Node) {
	sort.SliceStable(nodes, func(i, j int) bool {
		return less(nodes[i], nodes[j])
	})
}

func less(a, b *Node) bool {
	if a.SortOrder != b.SortOrder {
		return a.SortOrder < b.SortOrder
	}
	return a.Name < b.Name
}

// Flatten walks the tree depth-first and returns every node with its depth.
// Useful for admin <select> options.
func Flatten(roots []*Node) []FlatNode {
	var out []FlatNode
	var walk func(nodes []*Node, depth int)
	walk = func(nodes []*Node, depth int) {
		for _, n := range nodes {
			out = append(out, FlatNode{Node: n, Depth: depth})
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
	return out
}

// FlatNode is a node paired with its depth in the tree.
type FlatNode struct {
	*Node
	Depth int `json:"depth"`
}
