// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"gamestore/internal/models"
)

// ProductStore manages products in the database.
type ProductStore struct {
	db *sql.DB
}

// NewProductStore returns a new ProductStore.
func NewProductStore(db *sql.DB) *ProductStore {
	return &ProductStore{db: db}
}

// productSelect joins both category associations so a single scan resolves
// them.
const productSelect = `
	SELECT p.id, p.name, p.slug, p.description, p.platform, p.price,
	       p.stock_count, p.in_stock, p.image_url,
	       p.parent_category_id, p.child_category_id, p.created_at, p.updated_at,
	       pc.name, pc.slug, cc.name, cc.slug
	FROM products p
	LEFT JOIN categories pc ON pc.id = p.parent_category_id
	LEFT JOIN categories cc ON cc.id = p.child_category_id`

// scanProduct scans a productSelect row and resolves the associations.
func scanProduct(row scanner) (*models.Product, error) {
	var p models.Product
	var stock sql.NullInt64
	var inStock sql.NullBool
	var pcName, pcSlug, ccName, ccSlug sql.NullString
	err := row.Scan(
		&p.ID, &p.Name, &p.Slug, &p.Description, &p.Platform, &p.Price,
		&stock, &inStock, &p.ImageURL,
		&p.ParentCategoryID, &p.ChildCategoryID, &p.CreatedAt, &p.UpdatedAt,
		&pcName, &pcSlug, &ccName, &ccSlug,
	)
	if err != nil {
		return nil, err
	}
	if stock.Valid {
		v := int(stock.Int64)
		p.StockCount = &v
	}
	if inStock.Valid {
		v := inStock.Bool
		p.InStock = &v
	}
	if p.ParentCategoryID != nil && pcName.Valid {
		p.ParentCategory = &models.Category{ID: *p.ParentCategoryID, Name: pcName.String, Slug: pcSlug.String}
	}
	if p.ChildCategoryID != nil && ccName.Valid {
		p.ChildCategory = &models.Category{ID: *p.ChildCategoryID, Name: ccName.String, Slug: ccSlug.String, ParentID: p.ParentCategoryID}
	}
	return &p, nil
}

// ProductFilter narrows a product listing. Zero values match everything.
type ProductFilter struct {
	// Query matches name or platform, case-insensitively.
	Query string
	// CategoryID matches either association.
	CategoryID *uuid.UUID
	// InStockOnly drops products without positive stock.
	InStockOnly bool
	// Limit caps the result; zero means no cap.
	Limit int
}

// where builds the WHERE clause and arguments for f.
func (f ProductFilter) where() (string, []any) {
	var clauses []string
	var args []any
	if q := strings.TrimSpace(f.Query); q != "" {
		args = append(args, "%"+escapeLike(q)+"%")
		clauses = append(clauses, fmt.Sprintf("(p.name ILIKE $%d OR p.platform ILIKE $%d)", len(args), len(args)))
	}
	if f.CategoryID != nil {
		args = append(args, *f.CategoryID)
		clauses = append(clauses, fmt.Sprintf("(p.parent_category_id = $%d OR p.child_category_id = $%d)", len(args), len(args)))
	}
	if f.InStockOnly {
		clauses = append(clauses, "(p.in_stock AND p.stock_count > 0)")
	}
	if len(clauses) == 0 {
		return "", nil
	}
	return " WHERE " + strings.Join(clauses, " AND "), args
}

// escapeLike escapes LIKE wildcards in user input.
func escapeLike(s string) string {
	return strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`).Replace(s)
}

func (s *ProductStore) query(ctx context.Context, op, q string, args ...any) ([]models.Product, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Product{}
	for rows.Next() {
		p, err := scanProduct(rows)
		if err != nil {
			return nil, fmt.Errorf("scan product: %w", err)
		}
		items = append(items, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// List returns products matching f ordered by name.
func (s *ProductStore) List(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	where, args := f.where()
	q := productSelect + where + " ORDER BY p.name"
	if f.Limit > 0 {
		args = append(args, f.Limit)
		q += fmt.Sprintf(" LIMIT $%d", len(args))
	}
	return s.query(ctx, "list products", q, args...)
}

// FindByID retrieves a product by ID. Returns nil if not found.
func (s *ProductStore) FindByID(ctx context.Context, id uuid.UUID) (*models.Product, error) {
	row := s.db.QueryRowContext(ctx, productSelect+` WHERE p.id = $1`, id)
	p, err := scanProduct(row)
	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find product by id: %w", err)
	}
	return p, nil
}

// FindMany returns the products with the given ids, keyed by id. Unknown ids
// are absent from the map.
func (s *ProductStore) FindMany(ctx context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := make(map[uuid.UUID]models.Product, len(ids))
	if len(ids) == 0 {
		return out, nil
	}
	keys := make([]string, len(ids))
	for i, id := range ids {
		keys[i] = id.String()
	}
	// Sent as an array literal so the argument is a plain string.
	literal := "{" + strings.Join(keys, ",") + "}"
	items, err := s.query(ctx, "find products", productSelect+` WHERE p.id = ANY($1::uuid[])`, literal)
	if err != nil {
		return nil, err
	}
	for _, p := range items {
		out[p.ID] = p
	}
	return out, nil
}

// Create inserts a product and returns it with its associations resolved.
func (s *ProductStore) Create(ctx context.Context, p *models.Product) (*models.Product, error) {
	var id uuid.UUID
	err := s.db.QueryRowContext(ctx, `
		INSERT INTO products (name, slug, description, platform, price, stock_count, in_stock,
		                      image_url, parent_category_id, child_category_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`,
		p.Name, p.Slug, p.Description, p.Platform, p.Price, p.StockCount, p.InStock,
		p.ImageURL, p.ParentCategoryID, p.ChildCategoryID,
	).Scan(&id)
	if err != nil {
		return nil, fmt.Errorf("create product: %w", classify("store.CreateProduct", err))
	}
	return s.FindByID(ctx, id)
}

// Update modifies an existing product. It reports false when no row matched.
func (s *ProductStore) Update(ctx context.Context, p *models.Product) (bool, error) {
	res, err := s.db.ExecContext(ctx, `
		UPDATE products SET
			name = $1, slug = $2, description = $3, platform = $4, price = $5,
			stock_count = $6, in_stock = $7, image_url = $8,
			parent_category_id = $9, child_category_id = $10, updated_at = NOW()
		WHERE id = $11`,
		p.Name, p.Slug, p.Description, p.Platform, p.Price,
		p.StockCount, p.InStock, p.ImageURL,
		p.ParentCategoryID, p.ChildCategoryID, p.ID,
	)
	if err != nil {
		return false, fmt.Errorf("update product: %w", classify("store.UpdateProduct", err))
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("update product: %w", err)
	}
	return n > 0, nil
}

// Delete removes a product. Orders keep their rows with a null product.
func (s *ProductStore) Delete(ctx context.Context, id uuid.UUID) (bool, error) {
	res, err := s.db.ExecContext(ctx, `DELETE FROM products WHERE id = $1`, id)
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("delete product: %w", err)
	}
	return n > 0, nil
}
