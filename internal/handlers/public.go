// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"gamestore/internal/apperr"
	"gamestore/internal/cache"
	"gamestore/internal/catalog"
	"gamestore/internal/markdown"
	"gamestore/internal/models"
	"gamestore/internal/store"
)

// maxSearchResults caps a storefront product listing.
const maxSearchResults = 60

// Public groups the storefront catalog handlers.
type Public struct {
	categories CategoryRepo
	products   ProductRepo
	cache      CatalogCache
}

// NewPublic creates the storefront catalog handlers.
func NewPublic(categories CategoryRepo, products ProductRepo, catalogCache CatalogCache) *Public {
	return &Public{categories: categories, products: products, cache: catalogCache}
}

// tree returns the active category tree, from the cache when possible.
func (p *Public) tree(r *http.Request) ([]*catalog.Node, error) {
	ctx := r.Context()

	var roots []*catalog.Node
	if p.cache.GetJSON(ctx, cache.TreeKey(), &roots) {
		return roots, nil
	}

	rows, err := p.categories.ListActive(ctx)
	if err != nil {
		return nil, err
	}
	roots = catalog.BuildTree(rows)
	p.cache.SetJSON(ctx, cache.TreeKey(), roots)
	return roots, nil
}

// CategoryTree serves the active category hierarchy for the storefront menu.
func (p *Public) CategoryTree(w http.ResponseWriter, r *http.Request) {
	roots, err := p.tree(r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"categories": roots})
}

// CategoryChildren serves the active subcategories of one category. Children
// already present in the tree are returned as is; otherwise they are fetched.
// A failed fetch degrades to an empty list rather than an error.
func (p *Public) CategoryChildren(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	ctx := r.Context()

	var children []*catalog.Node
	if p.cache.GetJSON(ctx, cache.ChildrenKey(id.String()), &children) {
		writeJSON(w, http.StatusOK, map[string]any{"children": children})
		return
	}

	node, err := p.findNode(r, id)
	if err != nil {
		writeError(w, r, err)
		return
	}

	node, err = catalog.EnsureChildren(ctx, node, p.categories)
	if err != nil {
		// Logged by EnsureChildren; the menu shows no subcategories.
		writeJSON(w, http.StatusOK, map[string]any{"children": node.Children})
		return
	}

	p.cache.SetJSON(ctx, cache.ChildrenKey(id.String()), node.Children)
	writeJSON(w, http.StatusOK, map[string]any{"children": node.Children})
}

// findNode locates id in the active tree, falling back to a direct lookup
// for categories the tree does not hold.
func (p *Public) findNode(r *http.Request, id uuid.UUID) (*catalog.Node, error) {
	const op = "handlers.findNode"

	if roots, err := p.tree(r); err == nil {
		for _, n := range catalog.Flatten(roots) {
			if n.ID == id {
				return n.Node, nil
			}
		}
	} else {
		slog.Warn("category tree unavailable", "error", err)
	}

	c, err := p.categories.FindByID(r.Context(), id)
	if err != nil {
		return nil, err
	}
	if c == nil || !c.IsActive {
		return nil, apperr.New(apperr.KindNotFound, op, "category not found")
	}
	return catalog.NewNode(*c), nil
}

// Products serves the storefront listing, filtered by ?q= and ?category=.
func (p *Public) Products(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	q := strings.TrimSpace(r.URL.Query().Get("q"))
	cat := r.URL.Query().Get("category")

	filter := store.ProductFilter{Query: q, Limit: maxSearchResults}
	if cat != "" {
		id, err := uuid.Parse(cat)
		if err != nil {
			writeError(w, r, invalidField("category", "must be a category id"))
			return
		}
		filter.CategoryID = &id
	}

	key := cache.ProductsKey(q, cat)
	var items []models.Product
	if p.cache.GetJSON(ctx, key, &items) {
		writeJSON(w, http.StatusOK, map[string]any{"products": items})
		return
	}

	items, err := p.products.List(ctx, filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Product{}
	}
	p.cache.SetJSON(ctx, key, items)
	writeJSON(w, http.StatusOK, map[string]any{"products": items})
}

// Product serves a single product.
func (p *Public) Product(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	product, err := p.products.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if product == nil {
		writeError(w, r, apperr.New(apperr.KindNotFound, "handlers.Product", "product not found"))
		return
	}
	writeJSON(w, http.StatusOK, detailOf(product))
}

// productDetail adds the rendered description to a product.
type productDetail struct {
	*models.Product
	DescriptionHTML string `json:"description_html"`
}

func detailOf(p *models.Product) productDetail {
	body, err := markdown.ToHTML(p.Description)
	if err != nil {
		slog.Warn("description render failed", "product_id", p.ID, "error", err)
	}
	return productDetail{Product: p, DescriptionHTML: body}
}
