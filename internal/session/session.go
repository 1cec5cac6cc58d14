// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package session provides Valkey-backed admin session management.
// Sessions are identified by a secure cookie and stored as JSON in Valkey.
// Each session carries an explicit expiry that is checked on every read and
// slid forward by Refresh while the administrator stays active.
package session

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the name of the session cookie sent to the browser.
	CookieName = "gs_admin"

	// DefaultTTL is how long an idle admin session stays valid.
	DefaultTTL = 8 * time.Hour

	// keyPrefix namespaces session keys in Valkey to avoid collisions.
	keyPrefix = "session:"

	// idLength is the byte length of the random session ID (32 bytes = 64 hex chars).
	idLength = 32
)

// ErrNoSession is returned by operations that need an existing session cookie.
var ErrNoSession = errors.New("session: no cookie")

// Data holds the session payload stored in Valkey.
type Data struct {
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
	ExpiresAt time.Time `json:"expires_at"`
}

// Expired reports whether the session is no longer valid at now.
func (d *Data) Expired(now time.Time) bool {
	return !now.Before(d.ExpiresAt)
}

// NeedsRefresh reports whether less than half of ttl remains at now.
func (d *Data) NeedsRefresh(now time.Time, ttl time.Duration) bool {
	return d.ExpiresAt.Sub(now) < ttl/2
}

// Store manages session lifecycle in Valkey.
type Store struct {
	client *redis.Client
	ttl    time.Duration
	secure bool
	now    func() time.Time
}

// NewStore creates a session store backed by the given Valkey client.
// secure marks the cookie Secure (set it when serving over TLS). A zero ttl
// uses DefaultTTL.
func NewStore(client *redis.Client, secure bool, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{
		client: client,
		ttl:    ttl,
		secure: secure,
		now:    time.Now,
	}
}

// TTL returns the configured session lifetime.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Create starts a session for email, stores it in Valkey, and sets the
// session cookie on the response. Returns the session data.
func (s *Store) Create(ctx context.Context, w http.ResponseWriter, email string) (*Data, error) {
	id, err := generateID()
	if err != nil {
		return nil, fmt.Errorf("session create: %w", err)
	}

	now := s.now()
	data := &Data{
		Email:     email,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	if err := s.save(ctx, id, data); err != nil {
		return nil, err
	}

	s.setCookie(w, id)
	return data, nil
}

// Get retrieves session data from Valkey using the session ID from the
// request cookie. Returns nil if no valid session exists. An expired
// payload is deleted and treated as absent.
func (s *Store) Get(ctx context.Context, r *http.Request) (*Data, error) {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil, nil
	}

	payload, err := s.client.Get(ctx, keyPrefix+cookie.Value).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("session get: %w", err)
	}

	var data Data
	if err := json.Unmarshal(payload, &data); err != nil {
		return nil, fmt.Errorf("session unmarshal: %w", err)
	}

	if data.Expired(s.now()) {
		s.client.Del(ctx, keyPrefix+cookie.Value)
		return nil, nil
	}

	return &data, nil
}

// Refresh slides the expiry of an active session forward by a full TTL when
// less than half of it remains. It reports whether the session was extended;
// data is updated in place.
func (s *Store) Refresh(ctx context.Context, w http.ResponseWriter, r *http.Request, data *Data) (bool, error) {
	now := s.now()
	if !data.NeedsRefresh(now, s.ttl) {
		return false, nil
	}

	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false, ErrNoSession
	}

	data.ExpiresAt = now.Add(s.ttl)
	if err := s.save(ctx, cookie.Value, data); err != nil {
		return false, err
	}

	s.setCookie(w, cookie.Value)
	return true, nil
}

// Destroy removes the session from Valkey and clears the cookie.
func (s *Store) Destroy(ctx context.Context, w http.ResponseWriter, r *http.Request) error {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return nil
	}

	if err := s.client.Del(ctx, keyPrefix+cookie.Value).Err(); err != nil {
		return fmt.Errorf("session destroy: %w", err)
	}

	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    "",
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		MaxAge:   -1,
	})

	return nil
}

func (s *Store) save(ctx context.Context, id string, data *Data) error {
	payload, err := json.Marshal(data)
	if err != nil {
		return fmt.Errorf("session marshal: %w", err)
	}

	ttl := data.ExpiresAt.Sub(s.now())
	if ttl <= 0 {
		ttl = time.Second
	}
	if err := s.client.Set(ctx, keyPrefix+id, payload, ttl).Err(); err != nil {
		return fmt.Errorf("session store: %w", err)
	}
	return nil
}

func (s *Store) setCookie(w http.ResponseWriter, id string) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		Secure:   s.secure,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int(s.ttl.Seconds()),
	})
}

// generateID creates a cryptographically random session identifier.
func generateID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return hex.EncodeToString(b), nil
}
