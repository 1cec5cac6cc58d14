// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package router sets up all HTTP routes and middleware chains of the
// gamestore API. Routes are organized into a public storefront group and an
// admin group with session and CSRF middleware.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"gamestore/internal/handlers"
	"gamestore/internal/middleware"
)

// healthTimeout bounds the dependency checks of /health.
const healthTimeout = 2 * time.Second

// Check reports whether one dependency is reachable.
type Check func(ctx context.Context) error

// Deps holds everything the routes need.
type Deps struct {
	Sessions middleware.SessionLoader
	Public   *handlers.Public
	Carts    *handlers.Carts
	Checkout *handlers.Checkout
	Admin    *handlers.Admin
	Auth     *handlers.Auth

	// LoginLimiter guards admin login, CheckoutLimiter guards order placement.
	LoginLimiter    *middleware.RateLimiter
	CheckoutLimiter *middleware.RateLimiter

	SecureCookies bool

	// Checks are run by /health, keyed by dependency name.
	Checks map[string]Check
}

// New creates the chi router with all middleware and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(d.Checks))

	// Storefront API.
	r.Route("/api", func(r chi.Router) {
		r.Get("/categories", d.Public.CategoryTree)
		r.Get("/categories/{id}/children", d.Public.CategoryChildren)
		r.Get("/products", d.Public.Products)
		r.Get("/products/{id}", d.Public.Product)

		r.Group(func(r chi.Router) {
			r.Use(middleware.NoStore)

			r.Route("/cart", func(r chi.Router) {
				r.Get("/", d.Carts.Get)
				r.Delete("/", d.Carts.Clear)
				r.Post("/items", d.Carts.AddItem)
				r.Put("/items/{productID}", d.Carts.SetQuantity)
				r.Delete("/items/{productID}", d.Carts.RemoveItem)
			})

			r.With(d.CheckoutLimiter.Middleware).Post("/checkout", d.Checkout.Place)
		})

		// Signed server-to-server call; no cookies involved.
		r.Post("/payments/callback", d.Checkout.PaymentCallback)
	})

	// Back-office API.
	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.NoStore)
		r.Use(middleware.LoadSession(d.Sessions))
		r.Use(middleware.NewCSRF(d.SecureCookies))

		r.Get("/session", d.Auth.Session)
		r.With(d.LoginLimiter.Middleware).Post("/login", d.Auth.Login)
		r.Post("/logout", d.Auth.Logout)

		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAdmin)

			r.Get("/dashboard", d.Admin.Dashboard)

			r.Route("/categories", func(r chi.Router) {
				r.Get("/", d.Admin.Categories)
				r.Post("/", d.Admin.CreateCategory)
				r.Post("/reorder", d.Admin.ReorderCategories)
				r.Put("/{id}", d.Admin.UpdateCategory)
				r.Delete("/{id}", d.Admin.DeleteCategory)
			})

			r.Route("/products", func(r chi.Router) {
				r.Get("/", d.Admin.Products)
				r.Post("/", d.Admin.CreateProduct)
				r.Put("/{id}", d.Admin.UpdateProduct)
				r.Delete("/{id}", d.Admin.DeleteProduct)
			})

			r.Get("/orders", d.Admin.Orders)
			r.Put("/orders/{id}/status", d.Admin.UpdateOrderStatus)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusNotFound, map[string]string{"error": "not found"})
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
	})

	return r
}

// healthHandler runs every check and answers 200 when all pass, 503
// otherwise, listing each dependency's state.
func healthHandler(checks map[string]Check) http.HandlerFunc {
	names := make([]string, 0, len(checks))
	for name := range checks {
		names = append(names, name)
	}
	sort.Strings(names)

	return func(w http.ResponseWriter, r *http.Request) {
		ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
		defer cancel()

		status := http.StatusOK
		deps := make(map[string]string, len(names))
		for _, name := range names {
			if err := checks[name](ctx); err != nil {
				deps[name] = err.Error()
				status = http.StatusServiceUnavailable
				continue
			}
			deps[name] = "ok"
		}

		body := map[string]any{"status": "ok", "checks": deps}
		if status != http.StatusOK {
			body["status"] = "degraded"
		}
		writeJSON(w, status, body)
	}
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(v)
}
