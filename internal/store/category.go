// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"gamestore/internal/models"
)

// CategoryStore manages categories in the database.
type CategoryStore struct {
	db *sql.DB
}

// NewCategoryStore returns a new CategoryStore.
func NewCategoryStore(db *sql.DB) *CategoryStore {
	return &CategoryStore{db: db}
}

const categoryColumns = `id, name, slug, description, parent_id, sort_order, is_active, created_at, updated_at`

// scanCategory scans a row into a Category struct.
func scanCategory(row scanner) (*models.Category, error) {
	var c models.Category
	var sortOrder sql.NullInt64
	err := row.Scan(
		&c.ID, &c.Name, &c.Slug, &c.Description,
		&c.ParentID, &sortOrder, &c.IsActive, &c.CreatedAt, &c.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	if sortOrder.Valid {
		v := int(sortOrder.Int64)
		c.SortOrder = &v
	}
	return &c, nil
}

func (s *CategoryStore) query(ctx context.Context, op, q string, args ...any) ([]models.Category, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Category{}
	for rows.Next() {
		c, err := scanCategory(rows)
		if err != nil {
			return nil, fmt.Errorf("scan category: %w", err)
		}
		items = append(items, *c)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// List returns every category, active or not.
func (s *CategoryStore) List(ctx context.Context) ([]models.Category, error) {
	return s.query(ctx, "list categories",
		`SELECT `+categoryColumns+` FROM categories ORDER BY COALESCE(sort_order, 0), name`)
}

// ListActive returns the active categories. Children of an inactive parent
// are still returned; the tree builder promotes them to roots.
func (s *CategoryStore) ListActive(ctx context.Context) ([]models.Category, error) {
	return s.query(ctx, "list active categories",
		`SELECT `+categoryColumns+` FROM categories WHERE is_active ORDER BY COALESCE(sort_order, 0), name`)
}

// ActiveChildren returns the active direct children of a category in
// display order.
func (s *CategoryStore) ActiveChildren(ctx context.Context, parentID uuid.UUID) ([]models.Category, error) {
	return s.query(ctx, "list category children",
		`SELECT `+categoryColumns+` FROM categories
		 WHERE parent_id = $1 AND is_active
		 ORDER BY COALESCE(sort_order, 0), name`, parentID)
}

// FindByID retrieves a category by ID. Returns nil if not found.
func (s *CategoryStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `SELECT `+categoryColumns+` FROM categories WHERE id = $1`, id)
	c, err := scanCategory(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find category by id: %w", err)
	}
	return c, nil
}

// DirectProductCounts returns, per category id, the number of products
// filed directly under it. A product counts toward its subcategory when it
// has one and toward its category otherwise, so rolling the counts up the
// tree counts every product once.
func (s *CategoryStore) DirectProductCounts(ctx context.Context) (map[uuid.UUID]int, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT COALESCE(child_category_id, parent_category_id) AS category_id, COUNT(*)
		FROM products
		WHERE COALESCE(child_category_id, parent_category_id) IS NOT NULL
		GROUP BY 1
	`)
	if err != nil {
		return nil, fmt.Errorf("count products per category: %w", err)
	}
	defer rows.Close()

	counts := map[uuid.UUID]int{}
	for rows.Next() {
		var id uuid.UUID
		var n int
		if err := rows.Scan(&id, &n); err != nil {
			return nil, fmt.Errorf("scan product count: %w", err)
		}
		counts[id] = n
	}
	return counts, rows.Err()
}

// Create inserts a new category and returns it.
func (s *CategoryStore) Create(ctx context.Context, c *models.Category) (*models.Category, error) {
	row := s.db.QueryRowContext(ctx, `
		INSERT INTO categories (name, slug, description, parent_id, sort_order, is_active)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING `+categoryColumns,
		c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.IsActive,
	)
	result, err := scanCategory(row)
	if err != nil {
		return nil, fmt.Errorf("create category: %w", classify("store.CreateCategory", err))
	}
	return result, nil
}

// Update modifies an existing category. It reports false when no row
// matched the id.
func (s *CategoryStore) Update(ctx context.Context, c *models.Category) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE categories SET
			name = $1, slug = $2, description = $3, parent_id = $4,
			sort_order = $5, is_active = $6, updated_at = NOW()
		WHERE id = $7
	`, c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder, c.IsActive, c.ID)
	if err != nil {
		return false, fmt.Errorf("update category: %w", classify("store.UpdateCategory", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update category: %w", err)
	}
	return n > 0, nil
}

// Delete removes a category by ID. Children become roots and products lose
// the reference (ON DELETE SET NULL). It reports false when no row matched.
func (s *CategoryStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM categories WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete category: %w", err)
	}
	return n > 0, nil
}

// ReorderItem represents a single item in a reorder request.
type ReorderItem struct {
	ID       uuid.UUID  `json:"id" validate:"required"`
	ParentID *uuid.UUID `json:"parent_id"`
	Order    int        `json:"order" validate:"gte=0"`
}

// Reorder updates sort_order and parent_id for multiple categories in a transaction.
func (s *CategoryStore) Reorder(ctx context.Context, items []ReorderItem) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, `
		UPDATE categories SET parent_id = $1, sort_order = $2, updated_at = $3
		WHERE id = $4`)
	if err != nil {
		return fmt.Errorf("prepare reorder: %w", err)
	}
	defer stmt.Close()

	now := time.Now()
	for _, item := range items {
		if _, err := stmt.ExecContext(ctx, item.ParentID, item.Order, now, item.ID); err != nil {
			return fmt.Errorf("reorder category %s: %w", item.ID, classify("store.Reorder", err))
		}
	}

	return tx.Commit()
}

// NextSortOrder returns the next sort_order value for a given parent.
func (s *CategoryStore) NextSortOrder(ctx context.Context, parentID *uuid.UUID) (int, error) {
	var maxOrder sql.NullInt64
	var err error
	if parentID == nil {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id IS NULL`).Scan(&maxOrder)
	} else {
		err = s.db.QueryRowContext(ctx, `SELECT MAX(sort_order) FROM categories WHERE parent_id = $1`, *parentID).Scan(&maxOrder)
	}
	if err != nil {
		return 0, fmt.Errorf("next sort order: %w", err)
	}
	if maxOrder.Valid {
		return int(maxOrder.Int64) + 1, nil
	}
	return 0, nil
}
