// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cache

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/url"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// catalogKeyPrefix namespaces every cached catalog response.
	catalogKeyPrefix = "catalog:"

	// DefaultCatalogTTL is how long a catalog response stays cached.
	DefaultCatalogTTL = 5 * time.Minute
)

// Catalog caches serialized catalog responses (category tree, children,
// product listings) in Valkey. Errors are logged and treated as misses so a
// Valkey outage only costs a database round trip.
type Catalog struct {
	client *redis.Client
	ttl    time.Duration
}

// NewCatalog creates a catalog cache. A zero ttl uses DefaultCatalogTTL.
func NewCatalog(client *redis.Client, ttl time.Duration) *Catalog {
	if ttl == 0 {
		ttl = DefaultCatalogTTL
	}
	return &Catalog{client: client, ttl: ttl}
}

// Get returns the raw cached payload for key.
func (c *Catalog) Get(ctx context.Context, key string) ([]byte, bool) {
	val, err := c.client.Get(ctx, catalogKeyPrefix+key).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		slog.Warn("catalog cache get error", "key", key, "error", err)
		return nil, false
	}
	slog.Debug("catalog cache hit", "key", key)
	return val, true
}

// GetJSON decodes the cached payload for key into v. A payload that no longer
// decodes is reported as a miss.
func (c *Catalog) GetJSON(ctx context.Context, key string, v any) bool {
	raw, ok := c.Get(ctx, key)
	if !ok {
		return false
	}
	if err := json.Unmarshal(raw, v); err != nil {
		slog.Warn("catalog cache decode error", "key", key, "error", err)
		return false
	}
	return true
}

// Set stores payload under key with the configured TTL.
func (c *Catalog) Set(ctx context.Context, key string, payload []byte) {
	if err := c.client.Set(ctx, catalogKeyPrefix+key, payload, c.ttl).Err(); err != nil {
		slog.Warn("catalog cache set error", "key", key, "error", err)
	}
}

// SetJSON encodes v and stores it under key.
func (c *Catalog) SetJSON(ctx context.Context, key string, v any) {
	payload, err := json.Marshal(v)
	if err != nil {
		slog.Warn("catalog cache encode error", "key", key, "error", err)
		return
	}
	c.Set(ctx, key, payload)
}

// Invalidate removes a single cached response.
func (c *Catalog) Invalidate(ctx context.Context, key string) {
	if err := c.client.Del(ctx, catalogKeyPrefix+key).Err(); err != nil {
		slog.Warn("catalog cache invalidate error", "key", key, "error", err)
	}
}

// InvalidateAll removes every cached catalog response. Called after any
// admin write to categories or products since the tree, the children lists
// and the listings all embed that data.
func (c *Catalog) InvalidateAll(ctx context.Context) {
	var cursor uint64
	var deleted int
	for {
		keys, next, err := c.client.Scan(ctx, cursor, catalogKeyPrefix+"*", 100).Result()
		if err != nil {
			slog.Warn("catalog cache scan error", "error", err)
			return
		}
		if len(keys) > 0 {
			if err := c.client.Del(ctx, keys...).Err(); err != nil {
				slog.Warn("catalog cache bulk delete error", "error", err)
			}
			deleted += len(keys)
		}
		cursor = next
		if cursor == 0 {
			break
		}
	}
	if deleted > 0 {
		slog.Info("catalog cache cleared", "deleted", deleted)
	}
}

// TreeKey is the key of the full active category tree.
func TreeKey() string {
	return "tree"
}

// ChildrenKey is the key of a category's active children.
func ChildrenKey(categoryID string) string {
	return "children:" + categoryID
}

// ProductsKey is the key of a product listing for a search term and
// category filter. The query string encoding keeps distinct inputs distinct.
func ProductsKey(query, categoryID string) string {
	v := url.Values{}
	v.Set("q", query)
	v.Set("category", categoryID)
	return "products:" + v.Encode()
}
