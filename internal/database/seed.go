// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamestore/internal/slug"
)

type seedCategory struct {
	name     string
	children []string
}

type seedProduct struct {
	name     string
	platform string
	price    string
	stock    int
	parent   string
	child    string
}

var seedCategories = []seedCategory{
	{name: "Consolas", children: []string{"PlayStation", "Xbox", "Nintendo"}},
	{name: "Videojuegos", children: []string{"PlayStation", "Xbox", "Nintendo", "PC"}},
	{name: "Accesorios", children: []string{"Controles", "Audífonos"}},
	{name: "Coleccionables"},
}

var seedProducts = []seedProduct{
	{name: "PlayStation 5 Slim", platform: "PS5", price: "499.99", stock: 4, parent: "Consolas", child: "PlayStation"},
	{name: "Xbox Series S", platform: "Xbox", price: "299.99", stock: 7, parent: "Consolas", child: "Xbox"},
	{name: "Nintendo Switch OLED", platform: "Switch", price: "349.99", stock: 2, parent: "Consolas", child: "Nintendo"},
	{name: "The Legend of Zelda: Tears of the Kingdom", platform: "Switch", price: "69.99", stock: 12, parent: "Videojuegos", child: "Nintendo"},
	{name: "God of War Ragnarök", platform: "PS5", price: "59.99", stock: 0, parent: "Videojuegos", child: "PlayStation"},
	{name: "Halo Infinite", platform: "Xbox", price: "39.99", stock: 9, parent: "Videojuegos", child: "Xbox"},
	{name: "Control DualSense", platform: "PS5", price: "74.99", stock: 15, parent: "Accesorios", child: "Controles"},
	{name: "Audífonos Pulse 3D", platform: "PS5", price: "99.99", stock: 3, parent: "Accesorios", child: "Audífonos"},
	{name: "Figura amiibo Link", platform: "Switch", price: "24.99", stock: 5, parent: "Coleccionables"},
}

// Seed populates an empty catalog with sample categories and products for
// development. It does nothing when any category exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	roots := map[string]uuid.UUID{}
	children := map[string]uuid.UUID{}
	for i, sc := range seedCategories {
		var rootID uuid.UUID
		if err := tx.QueryRow(`
			INSERT INTO categories (name, slug, sort_order) VALUES ($1, $2, $3) RETURNING id
		`, sc.name, slug.Generate(sc.name), i).Scan(&rootID); err != nil {
			return fmt.Errorf("seed category %q: %w", sc.name, err)
		}
		roots[sc.name] = rootID

		for j, child := range sc.children {
			var childID uuid.UUID
			if err := tx.QueryRow(`
				INSERT INTO categories (name, slug, parent_id, sort_order) VALUES ($1, $2, $3, $4) RETURNING id
			`, child, slug.Generate(child), rootID, j).Scan(&childID); err != nil {
				return fmt.Errorf("seed category %q/%q: %w", sc.name, child, err)
			}
			children[sc.name+"/"+child] = childID
		}
	}

	for _, sp := range seedProducts {
		parentID := roots[sp.parent]
		var childID *uuid.UUID
		if sp.child != "" {
			id := children[sp.parent+"/"+sp.child]
			childID = &id
		}
		_, err := tx.Exec(`
			INSERT INTO products (name, slug, platform, price, stock_count, in_stock, parent_category_id, child_category_id)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		`, sp.name, slug.Generate(sp.name), sp.platform, decimal.RequireFromString(sp.price),
			sp.stock, sp.stock > 0, parentID, childID)
		if err != nil {
			return fmt.Errorf("seed product %q: %w", sp.name, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded with sample catalog",
		"categories", len(roots)+len(children),
		"products", len(seedProducts),
	)
	return nil
}
