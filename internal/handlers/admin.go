// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package handlers contains the JSON HTTP handlers of the gamestore API.
// Handlers are grouped by concern (storefront catalog, cart, checkout,
// admin, auth) and receive their dependencies through the group struct.
package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamestore/internal/apperr"
	"gamestore/internal/catalog"
	"gamestore/internal/dashboard"
	"gamestore/internal/models"
	"gamestore/internal/slug"
	"gamestore/internal/store"
)

// Admin groups the back-office handlers.
type Admin struct {
	categories CategoryRepo
	products   ProductRepo
	orders     OrderRepo
	cache      CatalogCache
	limits     dashboard.Limits
}

// NewAdmin creates the back-office handlers.
func NewAdmin(categories CategoryRepo, products ProductRepo, orders OrderRepo, catalogCache CatalogCache, limits dashboard.Limits) *Admin {
	return &Admin{
		categories: categories,
		products:   products,
		orders:     orders,
		cache:      catalogCache,
		limits:     limits,
	}
}

// Dashboard serves the sales and inventory metrics.
func (a *Admin) Dashboard(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	products, err := a.products.List(r.Context(), store.ProductFilter{})
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, dashboard.Compute(orders, products, a.limits))
}

// --- Categories ---

// Categories serves every category (active or not) with direct and
// aggregate product counts, plus the tree they form.
func (a *Admin) Categories(w http.ResponseWriter, r *http.Request) {
	rows, err := a.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	direct, err := a.categories.DirectProductCounts(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{
		"categories": catalog.AnnotateCounts(rows, direct),
		"tree":       catalog.BuildTree(rows),
	})
}

type categoryRequest struct {
	Name        string     `json:"name" validate:"required,max=120"`
	Slug        string     `json:"slug" validate:"max=140"`
	Description string     `json:"description" validate:"max=2000"`
	ParentID    *uuid.UUID `json:"parent_id"`
	SortOrder   *int       `json:"sort_order" validate:"omitnil,gte=0"`
	IsActive    *bool      `json:"is_active"`
}

// decodeCategory reads and validates a category body.
func decodeCategory(w http.ResponseWriter, r *http.Request) (*categoryRequest, error) {
	var req categoryRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return nil, err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return nil, err
	}
	return &req, nil
}

func (req *categoryRequest) apply(c *models.Category) {
	c.Name = req.Name
	c.Slug = slug.Generate(slug.Or(strings.TrimSpace(req.Slug), req.Name))
	c.Description = req.Description
	c.ParentID = req.ParentID
	if req.SortOrder != nil {
		c.SortOrder = req.SortOrder
	}
	if req.IsActive != nil {
		c.IsActive = *req.IsActive
	}
}

// CreateCategory adds a category. The sort order defaults to the end of its
// sibling list and the category starts active.
func (a *Admin) CreateCategory(w http.ResponseWriter, r *http.Request) {
	req, err := decodeCategory(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if req.ParentID != nil {
		if err := a.requireCategory(r, *req.ParentID, "parent_id"); err != nil {
			writeError(w, r, err)
			return
		}
	}

	c := &models.Category{IsActive: true}
	req.apply(c)
	if c.SortOrder == nil {
		next, err := a.categories.NextSortOrder(r.Context(), c.ParentID)
		if err != nil {
			writeError(w, r, err)
			return
		}
		c.SortOrder = &next
	}

	created, err := a.categories.Create(r.Context(), c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.cache.InvalidateAll(r.Context())
	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateCategory replaces a category's fields. Moving a category under
// itself or one of its descendants is rejected.
func (a *Admin) UpdateCategory(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateCategory"

	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	req, err := decodeCategory(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := a.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	byID := indexCategories(rows)
	current, ok := byID[id]
	if !ok {
		writeError(w, r, apperr.New(apperr.KindNotFound, op, "category not found"))
		return
	}
	if req.ParentID != nil {
		if _, ok := byID[*req.ParentID]; !ok {
			writeError(w, r, invalidField("parent_id", "category does not exist"))
			return
		}
	}

	updated := current
	req.apply(&updated)
	byID[id] = updated
	if createsCycle(byID, id) {
		writeError(w, r, invalidField("parent_id", "would make the category its own ancestor"))
		return
	}

	found, err := a.categories.Update(r.Context(), &updated)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, apperr.New(apperr.KindNotFound, op, "category not found"))
		return
	}
	a.cache.InvalidateAll(r.Context())
	writeJSON(w, http.StatusOK, updated)
}

// DeleteCategory removes a category. Its children become roots.
func (a *Admin) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	found, err := a.categories.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, apperr.New(apperr.KindNotFound, "handlers.DeleteCategory", "category not found"))
		return
	}
	a.cache.InvalidateAll(r.Context())
	slog.Info("category deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

type reorderRequest struct {
	Items []store.ReorderItem `json:"items" validate:"required,min=1,dive"`
}

// ReorderCategories moves and re-sorts several categories at once, as sent
// by the drag-and-drop tree editor.
func (a *Admin) ReorderCategories(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}

	rows, err := a.categories.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	byID := indexCategories(rows)
	for _, it := range req.Items {
		c, ok := byID[it.ID]
		if !ok {
			writeError(w, r, invalidField("items", "unknown category "+it.ID.String()))
			return
		}
		if it.ParentID != nil {
			if _, ok := byID[*it.ParentID]; !ok {
				writeError(w, r, invalidField("items", "unknown parent "+it.ParentID.String()))
				return
			}
		}
		c.ParentID = it.ParentID
		byID[it.ID] = c
	}
	for _, it := range req.Items {
		if createsCycle(byID, it.ID) {
			writeError(w, r, invalidField("items", "would make "+it.ID.String()+" its own ancestor"))
			return
		}
	}

	if err := a.categories.Reorder(r.Context(), req.Items); err != nil {
		writeError(w, r, err)
		return
	}
	a.cache.InvalidateAll(r.Context())
	w.WriteHeader(http.StatusNoContent)
}

func (a *Admin) requireCategory(r *http.Request, id uuid.UUID, field string) error {
	c, err := a.categories.FindByID(r.Context(), id)
	if err != nil {
		return err
	}
	if c == nil {
		return invalidField(field, "category does not exist")
	}
	return nil
}

func indexCategories(rows []models.Category) map[uuid.UUID]models.Category {
	byID := make(map[uuid.UUID]models.Category, len(rows))
	for _, c := range rows {
		byID[c.ID] = c
	}
	return byID
}

// createsCycle reports whether following parents from id leads back to id.
func createsCycle(byID map[uuid.UUID]models.Category, id uuid.UUID) bool {
	seen := map[uuid.UUID]bool{}
	cur := byID[id].ParentID
	for cur != nil {
		if *cur == id {
			return true
		}
		if seen[*cur] {
			// A cycle above id that id itself is not part of.
			return false
		}
		seen[*cur] = true
		parent, ok := byID[*cur]
		if !ok {
			return false
		}
		cur = parent.ParentID
	}
	return false
}

// --- Products ---

// Products serves the admin product listing, filtered by ?q= and ?category=.
func (a *Admin) Products(w http.ResponseWriter, r *http.Request) {
	filter := store.ProductFilter{Query: r.URL.Query().Get("q")}
	if cat := r.URL.Query().Get("category"); cat != "" {
		id, err := uuid.Parse(cat)
		if err != nil {
			writeError(w, r, invalidField("category", "must be a category id"))
			return
		}
		filter.CategoryID = &id
	}
	items, err := a.products.List(r.Context(), filter)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if items == nil {
		items = []models.Product{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"products": items})
}

type productRequest struct {
	Name             string          `json:"name" validate:"required,max=200"`
	Slug             string          `json:"slug" validate:"max=220"`
	Description      string          `json:"description" validate:"max=5000"`
	Platform         string          `json:"platform" validate:"max=60"`
	Price            decimal.Decimal `json:"price" validate:"gte=0"`
	StockCount       *int            `json:"stock_count" validate:"omitnil,gte=0"`
	InStock          *bool           `json:"in_stock"`
	ImageURL         string          `json:"image_url" validate:"omitempty,url,max=500"`
	ParentCategoryID *uuid.UUID      `json:"parent_category_id"`
	ChildCategoryID  *uuid.UUID      `json:"child_category_id"`
}

// decodeProduct reads, validates and resolves a product body into p. The
// subcategory must belong to the parent category; when only a subcategory
// is given its parent is filled in. A missing in-stock flag follows the
// stock count.
func (a *Admin) decodeProduct(w http.ResponseWriter, r *http.Request, p *models.Product) error {
	var req productRequest
	if err := decodeJSON(w, r, &req); err != nil {
		return err
	}
	req.Name = strings.TrimSpace(req.Name)
	if err := validateStruct(req); err != nil {
		return err
	}

	if req.ChildCategoryID != nil {
		child, err := a.categories.FindByID(r.Context(), *req.ChildCategoryID)
		if err != nil {
			return err
		}
		if child == nil {
			return invalidField("child_category_id", "category does not exist")
		}
		if child.ParentID == nil {
			return invalidField("child_category_id", "must be a subcategory")
		}
		if req.ParentCategoryID == nil {
			req.ParentCategoryID = child.ParentID
		} else if *req.ParentCategoryID != *child.ParentID {
			return invalidField("child_category_id", "does not belong to the parent category")
		}
	}
	if req.ParentCategoryID != nil && req.ChildCategoryID == nil {
		if err := a.requireCategory(r, *req.ParentCategoryID, "parent_category_id"); err != nil {
			return err
		}
	}

	p.Name = req.Name
	p.Slug = slug.Generate(slug.Or(strings.TrimSpace(req.Slug), req.Name))
	p.Description = req.Description
	p.Platform = strings.TrimSpace(req.Platform)
	p.Price = req.Price.Round(2)
	p.StockCount = req.StockCount
	p.InStock = req.InStock
	if p.InStock == nil && p.StockCount != nil {
		in := *p.StockCount > 0
		p.InStock = &in
	}
	p.ImageURL = req.ImageURL
	p.ParentCategoryID = req.ParentCategoryID
	p.ChildCategoryID = req.ChildCategoryID
	return nil
}

// CreateProduct adds a product.
func (a *Admin) CreateProduct(w http.ResponseWriter, r *http.Request) {
	var p models.Product
	if err := a.decodeProduct(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	created, err := a.products.Create(r.Context(), &p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	a.cache.InvalidateAll(r.Context())
	slog.Info("product created", "id", created.ID, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// UpdateProduct replaces a product's fields.
func (a *Admin) UpdateProduct(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.UpdateProduct"

	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	p := models.Product{ID: id}
	if err := a.decodeProduct(w, r, &p); err != nil {
		writeError(w, r, err)
		return
	}
	found, err := a.products.Update(r.Context(), &p)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, apperr.New(apperr.KindNotFound, op, "product not found"))
		return
	}
	a.cache.InvalidateAll(r.Context())

	updated, err := a.products.FindByID(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if updated == nil {
		writeError(w, r, apperr.New(apperr.KindNotFound, op, "product not found"))
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

// DeleteProduct removes a product. Its orders are kept.
func (a *Admin) DeleteProduct(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	found, err := a.products.Delete(r.Context(), id)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, apperr.New(apperr.KindNotFound, "handlers.DeleteProduct", "product not found"))
		return
	}
	a.cache.InvalidateAll(r.Context())
	slog.Info("product deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}

// --- Orders ---

// Orders serves every order, newest first.
func (a *Admin) Orders(w http.ResponseWriter, r *http.Request) {
	orders, err := a.orders.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	if orders == nil {
		orders = []models.Order{}
	}
	writeJSON(w, http.StatusOK, map[string]any{"orders": orders})
}

type orderStatusRequest struct {
	Status string `json:"status" validate:"required,oneof=pendiente enviada completada cancelada"`
}

// UpdateOrderStatus moves an order through its lifecycle. Cancelling
// returns the units to stock and un-cancelling takes them back.
func (a *Admin) UpdateOrderStatus(w http.ResponseWriter, r *http.Request) {
	id, err := uuidParam(r, "id")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req orderStatusRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Status = strings.ToLower(strings.TrimSpace(req.Status))
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}

	found, err := a.orders.UpdateStatus(r.Context(), id, req.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !found {
		writeError(w, r, apperr.New(apperr.KindNotFound, "handlers.UpdateOrderStatus", "order not found"))
		return
	}
	// Cancelling and un-cancelling both move stock.
	a.cache.InvalidateAll(r.Context())
	slog.Info("order status updated", "id", id, "status", req.Status)
	writeJSON(w, http.StatusOK, map[string]any{"id": id, "status": req.Status})
}
