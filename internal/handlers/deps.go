// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"net/http"

	"github.com/google/uuid"

	"gamestore/internal/cart"
	"gamestore/internal/models"
	"gamestore/internal/session"
	"gamestore/internal/store"
)

// The handlers depend on the narrow sets of store methods below so they can
// be exercised without PostgreSQL or Valkey. The concrete stores satisfy
// them (see the assertions at the bottom of this file).

// CategoryRepo is implemented by store.CategoryStore.
type CategoryRepo interface {
	List(ctx context.Context) ([]models.Category, error)
	ListActive(ctx context.Context) ([]models.Category, error)
	ActiveChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error)
	DirectProductCounts(ctx context.Context) (map[uuid.UUID]int, error)
	Create(ctx context.Context, c *models.Category) (*models.Category, error)
	Update(ctx context.Context, c *models.Category) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
	Reorder(ctx context.Context, items []store.ReorderItem) error
	NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error)
}

// ProductRepo is implemented by store.ProductStore.
type ProductRepo interface {
	List(ctx context.Context, f store.ProductFilter) ([]models.Product, error)
	FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error)
	FindMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error)
	Create(ctx context.Context, p *models.Product) (*models.Product, error)
	Update(ctx context.Context, p *models.Product) (bool, error)
	Delete(ctx context.Context, id uuid.UUID) (bool, error)
}

// OrderRepo is implemented by store.OrderStore.
type OrderRepo interface {
	List(ctx context.Context) ([]models.Order, error)
	CreateCheckout(ctx context.Context, c store.Checkout) (*store.CheckoutResult, error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error)
	UpdatePaymentStatus(ctx context.Context, checkoutID uuid.UUID, paymentStatus string) (int64, error)
}

// CatalogCache is implemented by cache.Catalog. Cache failures are logged by
// the implementation and behave as misses.
type CatalogCache interface {
	GetJSON(ctx context.Context, key string, v any) bool
	SetJSON(ctx context.Context, key string, v any)
	InvalidateAll(ctx context.Context)
}

// CartRepo is implemented by cart.Store.
type CartRepo interface {
	Load(ctx context.Context, id string) (*cart.Cart, error)
	Save(ctx context.Context, c *cart.Cart) error
	Delete(ctx context.Context, id string) error
}

// SessionManager is implemented by session.Store.
type SessionManager interface {
	Create(ctx context.Context, w http.ResponseWriter, email string) (*session.Data, error)
	Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error
}

var (
	_ CategoryRepo   = (*store.CategoryStore)(nil)
	_ ProductRepo    = (*store.ProductStore)(nil)
	_ OrderRepo      = (*store.OrderStore)(nil)
	_ CartRepo       = (*cart.Store)(nil)
	_ SessionManager = (*session.Store)(nil)
)
