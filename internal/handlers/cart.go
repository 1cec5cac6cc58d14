// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamestore/internal/apperr"
	"gamestore/internal/cart"
)

// Carts groups the shopping cart handlers. The cart id travels in the
// gs_cart cookie and the cart itself lives in Valkey.
type Carts struct {
	carts    CartRepo
	products ProductRepo
	ttl      time.Duration
	secure   bool
}

// NewCarts creates the cart handlers. ttl sets the cookie lifetime and
// should match the cart store's.
func NewCarts(carts CartRepo, products ProductRepo, ttl time.Duration, secure bool) *Carts {
	if ttl <= 0 {
		ttl = cart.DefaultTTL
	}
	return &Carts{carts: carts, products: products, ttl: ttl, secure: secure}
}

// cartView is the JSON shape of a cart response.
type cartView struct {
	ID       string          `json:"id"`
	Items    []cart.Item     `json:"items"`
	Count    int             `json:"count"`
	Subtotal decimal.Decimal `json:"subtotal"`
	Notices  []cart.Notice   `json:"notices"`
}

func viewOf(c *cart.Cart, notices []cart.Notice) cartView {
	items := c.Items
	if items == nil {
		items = []cart.Item{}
	}
	if notices == nil {
		notices = []cart.Notice{}
	}
	return cartView{ID: c.ID, Items: items, Count: c.Count(), Subtotal: c.Subtotal(), Notices: notices}
}

// load returns the cart named by the request cookie, issuing a new id and
// cookie when there is none.
func (h *Carts) load(w http.ResponseWriter, r *http.Request) (*cart.Cart, error) {
	const op = "handlers.loadCart"

	if cookie, err := r.Cookie(cart.CookieName); err == nil && cookie.Value != "" {
		c, err := h.carts.Load(r.Context(), cookie.Value)
		if err != nil {
			return nil, apperr.E(apperr.KindUnavailable, op, err)
		}
		return c, nil
	}

	id, err := cart.NewID()
	if err != nil {
		return nil, apperr.E(apperr.KindInternal, op, err)
	}
	http.SetCookie(w, &http.Cookie{
		Name:     cart.CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   h.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(h.ttl.Seconds()),
	})
	return cart.New(id), nil
}

// reconcile checks every line of c against live stock and prices.
func (h *Carts) reconcile(r *http.Request, c *cart.Cart) (*cart.Cart, []cart.Notice, error) {
	if c.Empty() {
		return c, nil, nil
	}
	products, err := h.products.FindMany(r.Context(), c.ProductIDs())
	if err != nil {
		return nil, nil, err
	}
	live := make(map[uuid.UUID]cart.Stock, len(products))
	for id, p := range products {
		live[id] = cart.StockFromProduct(p)
	}
	next, notices := cart.Reconcile(*c, live)
	return &next, notices, nil
}

// settle reconciles c, persists it and writes the cart response.
func (h *Carts) settle(w http.ResponseWriter, r *http.Request, c *cart.Cart, status int) {
	next, notices, err := h.reconcile(r, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.carts.Save(r.Context(), next); err != nil {
		writeError(w, r, apperr.E(apperr.KindUnavailable, "handlers.saveCart", err))
		return
	}
	writeJSON(w, status, viewOf(next, notices))
}

// Get serves the current cart, reconciled against live stock. Adjustments
// are saved and reported as notices.
func (h *Carts) Get(w http.ResponseWriter, r *http.Request) {
	c, err := h.load(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	next, notices, err := h.reconcile(r, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(notices) > 0 {
		if err := h.carts.Save(r.Context(), next); err != nil {
			slog.Warn("save reconciled cart failed", "cart_id", next.ID, "error", err)
		}
	}
	writeJSON(w, http.StatusOK, viewOf(next, notices))
}

type addItemRequest struct {
	ProductID uuid.UUID `json:"product_id" validate:"required"`
	Quantity  int       `json:"quantity" validate:"required,gte=1,lte=99"`
}

// AddItem adds units of a product to the cart. The product must exist and
// be in stock; a request for more than is on hand is clamped.
func (h *Carts) AddItem(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.AddItem"

	var req addItemRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}

	product, err := h.products.FindByID(r.Context(), req.ProductID)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if product == nil {
		writeError(w, r, apperr.New(apperr.KindNotFound, op, "product not found"))
		return
	}
	if !product.Available() || product.Stock() <= 0 {
		writeError(w, r, apperr.New(apperr.KindConflict, op, "product is out of stock"))
		return
	}

	c, err := h.load(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.Add(product.ID, product.Name, product.Price, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	h.settle(w, r, c, http.StatusOK)
}

type setQuantityRequest struct {
	Quantity int `json:"quantity" validate:"gte=0,lte=99"`
}

// SetQuantity replaces the quantity of a cart line; zero removes it.
func (h *Carts) SetQuantity(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	var req setQuantityRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.load(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := c.SetQuantity(productID, req.Quantity); err != nil {
		writeError(w, r, err)
		return
	}
	h.settle(w, r, c, http.StatusOK)
}

// RemoveItem drops a product from the cart.
func (h *Carts) RemoveItem(w http.ResponseWriter, r *http.Request) {
	productID, err := uuidParam(r, "productID")
	if err != nil {
		writeError(w, r, err)
		return
	}
	c, err := h.load(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if !c.Remove(productID) {
		writeError(w, r, apperr.New(apperr.KindNotFound, "handlers.RemoveItem", "product is not in the cart"))
		return
	}
	h.settle(w, r, c, http.StatusOK)
}

// Clear empties the cart.
func (h *Carts) Clear(w http.ResponseWriter, r *http.Request) {
	c, err := h.load(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if err := h.carts.Delete(r.Context(), c.ID); err != nil {
		writeError(w, r, apperr.E(apperr.KindUnavailable, "handlers.ClearCart", err))
		return
	}
	c.Clear()
	writeJSON(w, http.StatusOK, viewOf(c, nil))
}
