// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"gamestore/internal/apperr"
	"gamestore/internal/cart"
	"gamestore/internal/store"
)

// SignatureHeader carries the hex HMAC-SHA256 of a payment callback body.
const SignatureHeader = "X-Signature"

// Checkout turns carts into orders and receives payment status callbacks.
type Checkout struct {
	carts  *Carts
	orders OrderRepo
	cache  CatalogCache
	secret []byte
}

// NewCheckout creates the checkout handlers. An empty secret disables the
// payment callback.
func NewCheckout(carts *Carts, orders OrderRepo, catalogCache CatalogCache, callbackSecret string) *Checkout {
	return &Checkout{carts: carts, orders: orders, cache: catalogCache, secret: []byte(callbackSecret)}
}

type checkoutRequest struct {
	CustomerName  string `json:"customer_name" validate:"required,max=120"`
	CustomerPhone string `json:"customer_phone" validate:"required,min=8,max=20"`
	Address       string `json:"address" validate:"required,max=500"`
	PaymentMethod string `json:"payment_method" validate:"required,oneof=cash_on_delivery card"`
}

// reviewBody is answered when reconciliation changed the cart: the
// customer must confirm the adjusted cart before ordering.
type reviewBody struct {
	Error string   `json:"error"`
	Cart  cartView `json:"cart"`
}

// Place checks out the current cart. The cart is reconciled first; when
// anything changed the adjusted cart is saved and returned with 409 so the
// customer can review it. Otherwise one order row per line is written and
// stock decremented in a single transaction, and the cart is deleted.
func (h *Checkout) Place(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Checkout"

	var req checkoutRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.CustomerName = strings.TrimSpace(req.CustomerName)
	req.CustomerPhone = strings.TrimSpace(req.CustomerPhone)
	req.Address = strings.TrimSpace(req.Address)
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}

	c, err := h.carts.load(w, r)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if c.Empty() {
		writeError(w, r, apperr.New(apperr.KindInvalid, op, "cart is empty"))
		return
	}

	next, notices, err := h.carts.reconcile(r, c)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if len(notices) > 0 {
		if err := h.carts.carts.Save(r.Context(), next); err != nil {
			slog.Warn("save reconciled cart failed", "cart_id", next.ID, "error", err)
		}
		writeJSON(w, http.StatusConflict, reviewBody{
			Error: "cart changed, please review it",
			Cart:  viewOf(next, notices),
		})
		return
	}

	result, err := h.orders.CreateCheckout(r.Context(), store.Checkout{
		CustomerName:  req.CustomerName,
		CustomerPhone: req.CustomerPhone,
		Address:       req.Address,
		PaymentMethod: req.PaymentMethod,
		Lines:         checkoutLines(next),
	})
	if err != nil {
		writeError(w, r, err)
		return
	}

	slog.Info("checkout placed",
		"checkout_id", result.CheckoutID,
		"orders", len(result.Orders),
		"total", result.Total.StringFixed(2),
		"payment_method", req.PaymentMethod,
	)

	if err := h.carts.carts.Delete(r.Context(), next.ID); err != nil {
		slog.Warn("delete cart after checkout failed", "cart_id", next.ID, "error", err)
	}
	// Stock changed, so cached listings are stale.
	h.cache.InvalidateAll(r.Context())

	writeJSON(w, http.StatusCreated, result)
}

func checkoutLines(c *cart.Cart) []store.CheckoutLine {
	lines := make([]store.CheckoutLine, 0, len(c.Items))
	for _, it := range c.Items {
		lines = append(lines, store.CheckoutLine{ProductID: it.ProductID, Quantity: it.Quantity})
	}
	return lines
}

type paymentCallback struct {
	CheckoutID uuid.UUID `json:"checkout_id" validate:"required"`
	Status     string    `json:"status" validate:"required,oneof=PENDING APPROVED DECLINED"`
}

// PaymentCallback applies a payment status pushed by the card processor.
// The body must be signed with the shared secret in the X-Signature header.
func (h *Checkout) PaymentCallback(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.PaymentCallback"

	if len(h.secret) == 0 {
		writeError(w, r, apperr.New(apperr.KindUnavailable, op, "payment callbacks are not configured"))
		return
	}

	body, err := io.ReadAll(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	if err != nil {
		writeError(w, r, apperr.New(apperr.KindInvalid, op, "unreadable body"))
		return
	}
	if !h.validSignature(body, r.Header.Get(SignatureHeader)) {
		slog.Warn("payment callback rejected", "reason", "bad signature", "remote", r.RemoteAddr)
		writeError(w, r, apperr.New(apperr.KindUnauthorized, op, "invalid signature"))
		return
	}

	var cb paymentCallback
	if err := json.Unmarshal(body, &cb); err != nil {
		writeError(w, r, apperr.New(apperr.KindInvalid, op, "malformed JSON"))
		return
	}
	cb.Status = strings.ToUpper(strings.TrimSpace(cb.Status))
	if err := validateStruct(cb); err != nil {
		writeError(w, r, err)
		return
	}

	n, err := h.orders.UpdatePaymentStatus(r.Context(), cb.CheckoutID, cb.Status)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if n == 0 {
		writeError(w, r, apperr.New(apperr.KindNotFound, op, "checkout not found"))
		return
	}

	slog.Info("payment status updated", "checkout_id", cb.CheckoutID, "status", cb.Status, "orders", n)
	writeJSON(w, http.StatusOK, map[string]any{"checkout_id": cb.CheckoutID, "status": cb.Status, "updated": n})
}

// Sign returns the hex HMAC-SHA256 of body under secret, as expected in
// the X-Signature header.
func Sign(secret, body []byte) string {
	mac := hmac.New(sha256.New, secret)
	mac.Write(body)
	return hex.EncodeToString(mac.Sum(nil))
}

func (h *Checkout) validSignature(body []byte, signature string) bool {
	got, err := hex.DecodeString(strings.TrimSpace(signature))
	if err != nil || len(got) == 0 {
		return false
	}
	mac := hmac.New(sha256.New, h.secret)
	mac.Write(body)
	return hmac.Equal(got, mac.Sum(nil))
}
