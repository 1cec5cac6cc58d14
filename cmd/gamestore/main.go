// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package main is the entry point for the gamestore server.
// It loads configuration, connects to PostgreSQL and Valkey, wires the
// handlers and starts the HTTP server with graceful shutdown support.
package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"gamestore/internal/cache"
	"gamestore/internal/cart"
	"gamestore/internal/config"
	"gamestore/internal/database"
	"gamestore/internal/handlers"
	"gamestore/internal/middleware"
	"gamestore/internal/router"
	"gamestore/internal/session"
	"gamestore/internal/store"
)

// Rate limits per client IP.
const (
	loginAttempts    = 5
	loginWindow      = time.Minute
	checkoutAttempts = 10
	checkoutWindow   = time.Minute
)

func main() {
	if err := run(); err != nil {
		slog.Error("server exited", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		// The logger is not configured yet; fall back to the default handler.
		slog.Error("failed to load configuration", "error", err)
		return err
	}

	// Text output in development, JSON everywhere else.
	var handler slog.Handler = slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelInfo})
	if cfg.IsDev() {
		handler = slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelDebug})
	}
	slog.SetDefault(slog.New(handler))

	slog.Info("configuration loaded",
		"env", cfg.Env,
		"addr", cfg.Addr(),
		"timezone", cfg.Dashboard.Location.String(),
	)

	db, err := database.Connect(cfg.DSN())
	if err != nil {
		return err
	}
	defer db.Close()

	if err := database.Migrate(db); err != nil {
		return err
	}

	// Sample catalog for local work (no-op when data exists).
	if cfg.IsDev() {
		if err := database.Seed(db); err != nil {
			return err
		}
	}

	valkey, err := cache.ConnectValkey(cfg.ValkeyHost, cfg.ValkeyPort, cfg.ValkeyPassword, cfg.ValkeyDB)
	if err != nil {
		return err
	}
	defer valkey.Close()

	categories := store.NewCategoryStore(db)
	products := store.NewProductStore(db)
	orders := store.NewOrderStore(db)

	sessions := session.NewStore(valkey, cfg.SecureCookies, cfg.SessionTTL)
	carts := cart.NewStore(valkey, cfg.CartTTL)
	catalog := cache.NewCatalog(valkey, cfg.CatalogCacheTTL)

	if cfg.PaymentCallbackSecret == "" {
		slog.Warn("payment callback secret not set, callbacks disabled")
	}

	cartHandlers := handlers.NewCarts(carts, products, cfg.CartTTL, cfg.SecureCookies)

	loginLimiter := middleware.NewRateLimiter(loginAttempts, loginWindow)
	defer loginLimiter.Stop()
	checkoutLimiter := middleware.NewRateLimiter(checkoutAttempts, checkoutWindow)
	defer checkoutLimiter.Stop()

	r := router.New(router.Deps{
		Sessions:        sessions,
		Public:          handlers.NewPublic(categories, products, catalog),
		Carts:           cartHandlers,
		Checkout:        handlers.NewCheckout(cartHandlers, orders, catalog, cfg.PaymentCallbackSecret),
		Admin:           handlers.NewAdmin(categories, products, orders, catalog, cfg.Dashboard),
		Auth:            handlers.NewAuth(sessions, cfg.AdminEmail, cfg.AdminPasswordHash),
		LoginLimiter:    loginLimiter,
		CheckoutLimiter: checkoutLimiter,
		SecureCookies:   cfg.SecureCookies,
		Checks: map[string]router.Check{
			"postgres": db.PingContext,
			"valkey": func(ctx context.Context) error {
				return valkey.Ping(ctx).Err()
			},
		},
	})

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("server starting", "addr", cfg.Addr())
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)

	select {
	case err, ok := <-errCh:
		if ok {
			return err
		}
		return nil
	case sig := <-quit:
		slog.Info("shutdown signal received", "signal", sig)
	}

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return err
	}

	slog.Info("server stopped gracefully")
	return nil
}
