// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"
	"strings"

	"golang.org/x/crypto/bcrypt"

	"gamestore/internal/apperr"
	"gamestore/internal/middleware"
)

// Auth groups the admin login handlers. There is a single administrator
// whose e-mail and bcrypt password hash come from configuration.
type Auth struct {
	sessions SessionManager
	email    string
	hash     []byte
}

// NewAuth creates the login handlers for the configured administrator.
func NewAuth(sessions SessionManager, adminEmail, passwordHash string) *Auth {
	return &Auth{
		sessions: sessions,
		email:    strings.TrimSpace(adminEmail),
		hash:     []byte(passwordHash),
	}
}

type loginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,max=72"`
}

// Login checks the administrator credentials and starts a session.
func (a *Auth) Login(w http.ResponseWriter, r *http.Request) {
	const op = "handlers.Login"

	var req loginRequest
	if err := decodeJSON(w, r, &req); err != nil {
		writeError(w, r, err)
		return
	}
	req.Email = strings.TrimSpace(req.Email)
	if err := validateStruct(req); err != nil {
		writeError(w, r, err)
		return
	}

	// The hash is always compared so a wrong e-mail costs the same time.
	passwordOK := bcrypt.CompareHashAndPassword(a.hash, []byte(req.Password)) == nil
	if !strings.EqualFold(req.Email, a.email) || !passwordOK {
		slog.Warn("admin login failed", "email", req.Email, "remote", r.RemoteAddr)
		writeError(w, r, apperr.New(apperr.KindUnauthorized, op, "invalid e-mail or password"))
		return
	}

	data, err := a.sessions.Create(r.Context(), w, a.email)
	if err != nil {
		writeError(w, r, apperr.E(apperr.KindUnavailable, op, err))
		return
	}

	slog.Info("admin logged in", "email", data.Email)
	writeJSON(w, http.StatusOK, map[string]any{
		"email":      data.Email,
		"expires_at": data.ExpiresAt,
	})
}

// Logout ends the admin session.
func (a *Auth) Logout(w http.ResponseWriter, r *http.Request) {
	if err := a.sessions.Destroy(r.Context(), w, r); err != nil {
		writeError(w, r, apperr.E(apperr.KindUnavailable, "handlers.Logout", err))
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Session reports whether the caller is logged in and hands out the CSRF
// token the admin client must echo on writes.
func (a *Auth) Session(w http.ResponseWriter, r *http.Request) {
	body := map[string]any{
		"authenticated": false,
		"csrf_token":    middleware.CSRFToken(r),
	}
	if sess := middleware.SessionFromCtx(r.Context()); sess != nil {
		body["authenticated"] = true
		body["email"] = sess.Email
		body["expires_at"] = sess.ExpiresAt
	}
	writeJSON(w, http.StatusOK, body)
}
