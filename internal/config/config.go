// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package config handles application configuration loading from environment
// variables, optionally seeded from a .env file. It provides a centralized
// Config struct used across the application.
package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
	"golang.org/x/crypto/bcrypt"

	"gamestore/internal/dashboard"
)

// Development defaults that production refuses to run with.
const (
	defaultDBPassword    = "changeme"
	defaultAdminEmail    = "admin@gamestore.local"
	defaultAdminPassword = "admin"
)

// Config holds all application configuration values loaded from the environment.
type Config struct {
	// Server settings
	Host string
	Port string
	Env  string // "development", "production", "testing"

	// PostgreSQL connection
	DBHost     string
	DBPort     string
	DBUser     string
	DBPassword string
	DBName     string

	// Valkey (Redis-compatible cache)
	ValkeyHost     string
	ValkeyPort     string
	ValkeyPassword string
	ValkeyDB       int

	// Admin back-office
	AdminEmail        string
	AdminPasswordHash string // bcrypt
	SessionTTL        time.Duration
	SecureCookies     bool

	// PaymentCallbackSecret signs payment gateway status callbacks (HMAC-SHA256).
	PaymentCallbackSecret string

	// Storefront caching
	CatalogCacheTTL time.Duration
	CartTTL         time.Duration

	// Dashboard holds the metric thresholds and list sizes.
	Dashboard dashboard.Limits
}

// Load reads an optional .env file from the working directory and then the
// environment. See LoadFile.
func Load() (*Config, error) {
	return LoadFile(".env")
}

// LoadFile reads the dotenv file at path when it exists (variables already
// set in the environment win), then builds the Config from the environment,
// applying development defaults. Returns an error when a value does not
// parse or when production would run with a development default.
func LoadFile(path string) (*Config, error) {
	if path != "" {
		if err := godotenv.Load(path); err != nil && !errors.Is(err, fs.ErrNotExist) {
			return nil, fmt.Errorf("load %s: %w", path, err)
		}
	}

	p := &parser{}
	cfg := &Config{
		Host: envOrDefault("APP_HOST", "0.0.0.0"),
		Port: envOrDefault("APP_PORT", "8080"),
		Env:  envOrDefault("APP_ENV", "development"),

		DBHost:     envOrDefault("POSTGRES_HOST", "localhost"),
		DBPort:     envOrDefault("POSTGRES_PORT", "5432"),
		DBUser:     envOrDefault("POSTGRES_USER", "gamestore"),
		DBPassword: envOrDefault("POSTGRES_PASSWORD", defaultDBPassword),
		DBName:     envOrDefault("POSTGRES_DB", "gamestore"),

		ValkeyHost:     envOrDefault("VALKEY_HOST", "localhost"),
		ValkeyPort:     envOrDefault("VALKEY_PORT", "6379"),
		ValkeyPassword: os.Getenv("VALKEY_PASSWORD"),
		ValkeyDB:       p.int("VALKEY_DB", 0),

		AdminEmail:        envOrDefault("ADMIN_EMAIL", defaultAdminEmail),
		AdminPasswordHash: os.Getenv("ADMIN_PASSWORD_HASH"),
		SessionTTL:        p.duration("SESSION_TTL", 8*time.Hour),

		PaymentCallbackSecret: os.Getenv("PAYMENT_CALLBACK_SECRET"),

		CatalogCacheTTL: p.duration("CATALOG_CACHE_TTL", 5*time.Minute),
		CartTTL:         p.duration("CART_TTL", 7*24*time.Hour),

		Dashboard: dashboard.Limits{
			LowStockThreshold: p.int("DASHBOARD_LOW_STOCK_THRESHOLD", dashboard.DefaultLowStockThreshold),
			TopProducts:       p.int("DASHBOARD_TOP_PRODUCTS", dashboard.DefaultTopProducts),
			LowStockList:      p.int("DASHBOARD_LOW_STOCK_LIST", dashboard.DefaultLowStockList),
			LowStockPreview:   p.int("DASHBOARD_LOW_STOCK_PREVIEW", dashboard.DefaultLowStockPreview),
			RecentOrders:      p.int("DASHBOARD_RECENT_ORDERS", dashboard.DefaultRecentOrders),
			Location:          p.location("STORE_TIMEZONE"),
		},
	}
	cfg.SecureCookies = p.bool("SECURE_COOKIES", cfg.Env == "production")

	if err := errors.Join(p.errs...); err != nil {
		return nil, err
	}

	if cfg.Env == "production" {
		if cfg.DBPassword == defaultDBPassword {
			return nil, fmt.Errorf("POSTGRES_PASSWORD must be set in production")
		}
		if cfg.AdminPasswordHash == "" {
			return nil, fmt.Errorf("ADMIN_PASSWORD_HASH must be set in production")
		}
		if cfg.PaymentCallbackSecret == "" {
			return nil, fmt.Errorf("PAYMENT_CALLBACK_SECRET must be set in production")
		}
	}

	if cfg.AdminPasswordHash == "" {
		hash, err := bcrypt.GenerateFromPassword([]byte(defaultAdminPassword), bcrypt.MinCost)
		if err != nil {
			return nil, fmt.Errorf("hash default admin password: %w", err)
		}
		cfg.AdminPasswordHash = string(hash)
	} else if _, err := bcrypt.Cost([]byte(cfg.AdminPasswordHash)); err != nil {
		return nil, fmt.Errorf("ADMIN_PASSWORD_HASH is not a bcrypt hash: %w", err)
	}

	return cfg, nil
}

// DSN returns the PostgreSQL connection string.
func (c *Config) DSN() string {
	return fmt.Sprintf(
		"postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser, c.DBPassword, c.DBHost, c.DBPort, c.DBName,
	)
}

// Addr returns the server listen address (host:port).
func (c *Config) Addr() string {
	return fmt.Sprintf("%s:%s", c.Host, c.Port)
}

// IsDev returns true if the application is running in development mode.
func (c *Config) IsDev() bool {
	return c.Env == "development"
}

// envOrDefault reads an environment variable, returning a fallback if unset or empty.
func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// parser reads typed variables and collects every parse error so Load can
// report them together.
type parser struct {
	errs []error
}

func (p *parser) int(key string, fallback int) int {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	n, err := strconv.Atoi(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return n
}

func (p *parser) bool(key string, fallback bool) bool {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	b, err := strconv.ParseBool(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	return b
}

func (p *parser) duration(key string, fallback time.Duration) time.Duration {
	v := os.Getenv(key)
	if v == "" {
		return fallback
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return fallback
	}
	if d <= 0 {
		p.errs = append(p.errs, fmt.Errorf("%s: must be positive", key))
		return fallback
	}
	return d
}

func (p *parser) location(key string) *time.Location {
	v := os.Getenv(key)
	if v == "" {
		return time.UTC
	}
	loc, err := time.LoadLocation(v)
	if err != nil {
		p.errs = append(p.errs, fmt.Errorf("%s: %w", key, err))
		return time.UTC
	}
	return loc
}
