// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cart

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// CookieName is the cookie carrying the anonymous cart id.
	CookieName = "gs_cart"

	// DefaultTTL is how long an untouched cart is kept.
	DefaultTTL = 7 * 24 * time.Hour

	keyPrefix = "cart:"
	idLength  = 16
)

// Store persists carts in Valkey as JSON. Every save resets the TTL.
type Store struct {
	client *redis.Client
	ttl    time.Duration
}

// NewStore creates a cart store. A zero ttl uses DefaultTTL.
func NewStore(client *redis.Client, ttl time.Duration) *Store {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Store{client: client, ttl: ttl}
}

// TTL returns how long a saved cart is kept.
func (s *Store) TTL() time.Duration {
	return s.ttl
}

// Load returns the cart stored under id, or an empty cart with that id when
// nothing is stored.
func (s *Store) Load(ctx context.Context, id string) (*Cart, error) {
	payload, err := s.client.Get(ctx, keyPrefix+id).Bytes()
	if err == redis.Nil {
		return New(id), nil
	}
	if err != nil {
		return nil, fmt.Errorf("cart load: %w", err)
	}

	var c Cart
	if err := json.Unmarshal(payload, &c); err != nil {
		return nil, fmt.Errorf("cart unmarshal: %w", err)
	}
	c.ID = id
	if c.Items == nil {
		c.Items = []Item{}
	}
	return &c, nil
}

// Save writes the cart and refreshes its TTL. An empty cart is deleted.
func (s *Store) Save(ctx context.Context, c *Cart) error {
	if c.Empty() {
		return s.Delete(ctx, c.ID)
	}
	payload, err := json.Marshal(c)
	if err != nil {
		return fmt.Errorf("cart marshal: %w", err)
	}
	if err := s.client.Set(ctx, keyPrefix+c.ID, payload, s.ttl).Err(); err != nil {
		return fmt.Errorf("cart save: %w", err)
	}
	return nil
}

// Delete removes a stored cart.
func (s *Store) Delete(ctx context.Context, id string) error {
	if err := s.client.Del(ctx, keyPrefix+id).Err(); err != nil {
		return fmt.Errorf("cart delete: %w", err)
	}
	return nil
}

// NewID creates a random cart id.
func NewID() (string, error) {
	b := make([]byte, idLength)
	if _, err := rand.Read(b); err != nil {
		return "", fmt.Errorf("cart id: %w", err)
	}
	return hex.EncodeToString(b), nil
}
