// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package middleware

import (
	"context"
	"log/slog"
	"net/http"

	"gamestore/internal/session"
)

// contextKey is an unexported type for context keys to prevent collisions.
type contextKey string

// SessionKey is the context key for the admin session data.
const SessionKey contextKey = "admin_session"

// SessionLoader is the part of session.Store the middleware needs.
type SessionLoader interface {
	Get(ctx context.Context, r *http.Request) (*session.Data, error)
	Refresh(ctx context.Context, w http.ResponseWriter, r *http.Request, data *session.Data) (bool, error)
}

// LoadSession reads the admin session, slides its expiry when it is close
// to running out, and stores it in the request context. It does not enforce
// authentication; a Valkey failure is logged and the request continues as
// anonymous.
func LoadSession(store SessionLoader) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			data, err := store.Get(r.Context(), r)
			if err != nil {
				slog.Warn("session load failed", "error", err, "path", r.URL.Path)
				next.ServeHTTP(w, r)
				return
			}
			if data == nil {
				next.ServeHTTP(w, r)
				return
			}

			if _, err := store.Refresh(r.Context(), w, r, data); err != nil {
				slog.Warn("session refresh failed", "error", err, "email", data.Email)
			}

			next.ServeHTTP(w, r.WithContext(WithSession(r.Context(), data)))
		})
	}
}

// RequireAdmin rejects requests without an admin session with a JSON 401.
// Must be applied after LoadSession in the middleware chain.
func RequireAdmin(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if SessionFromCtx(r.Context()) == nil {
			writeError(w, http.StatusUnauthorized, "authentication required")
			return
		}
		next.ServeHTTP(w, r)
	})
}

// WithSession returns a copy of ctx carrying data.
func WithSession(ctx context.Context, data *session.Data) context.Context {
	return context.WithValue(ctx, SessionKey, data)
}

// SessionFromCtx extracts the session data from the request context.
// Returns nil if no session is loaded.
func SessionFromCtx(ctx context.Context) *session.Data {
	data, _ := ctx.Value(SessionKey).(*session.Data)
	return data
}
