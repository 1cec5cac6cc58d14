// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package catalog

import (
	"context"
	"log/slog"

	"github.com/google/uuid"

	"gamestore/internal/apperr"
	"gamestore/internal/models"
)

// ChildFetcher loads the active categories whose parent is the given id.
type ChildFetcher interface {
	ActiveChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
}

// ChildFetcherFunc adapts a function to ChildFetcher.
type ChildFetcherFunc func(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)

// ActiveChildren calls f.
func (f ChildFetcherFunc) ActiveChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	return f(ctx, parentID)
}

// EnsureChildren attaches the node's children on first use. A node that
// already has children is returned as is, without fetching. Fetched rows
// are attached in the order the fetcher returned them and replace any
// previous child list, so attaching twice for the same node is harmless.
//
// When the fetch fails the node comes back with no children together with
// an apperr.KindUnavailable error; callers that only render navigation can
// ignore the error and show no subcategories.
func EnsureChildren(ctx context.Context, node *Node, fetcher ChildFetcher) (*Node, error) {
	const op = "catalog.EnsureChildren"

	if node.HasChildren() {
		return node, nil
	}

	rows, err := fetcher.ActiveChildren(ctx, node.ID)
	if err != nil {
		slog.Warn("fetch category children failed", "category_id", node.ID, "error", err)
		node.Children = []*Node{}
		return node, apperr.E(apperr.KindUnavailable, op, err)
	}

	children := make([]*Node, 0, len(rows))
	for _, r := range rows {
		children = append(children, NewNode(r))
	}
	node.Children = children
	return node, nil
}
