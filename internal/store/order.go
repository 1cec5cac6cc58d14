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
	"github.com/shopspring/decimal"

	"gamestore/internal/apperr"
	"gamestore/internal/models"
)

// OrderStore manages orders in the database.
type OrderStore struct {
	db *sql.DB
}

// NewOrderStore returns a new OrderStore.
func NewOrderStore(db *sql.DB) *OrderStore {
	return &OrderStore{db: db}
}

const orderColumns = `id, checkout_id, product_id, customer_name, customer_phone, address,
	total_amount, quantity, status, payment_status, payment_method, created_at`

// scanOrder scans a row into an Order. created_at is rendered as an
// RFC 3339 UTC string.
func scanOrder(row scanner) (*models.Order, error) {
	var o models.Order
	var createdAt time.Time
	err := row.Scan(
		&o.ID, &o.CheckoutID, &o.ProductID, &o.CustomerName, &o.CustomerPhone, &o.Address,
		&o.TotalAmount, &o.Quantity, &o.Status, &o.PaymentStatus, &o.PaymentMethod, &createdAt,
	)
	if err != nil {
		return nil, err
	}
	o.CreatedAt = createdAt.UTC().Format(time.RFC3339Nano)
	return &o, nil
}

func (s *OrderStore) query(ctx context.Context, op, q string, args ...any) ([]models.Order, error) {
	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer rows.Close()

	items := []models.Order{}
	for rows.Next() {
		o, err := scanOrder(rows)
		if err != nil {
			return nil, fmt.Errorf("scan order: %w", err)
		}
		items = append(items, *o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return items, nil
}

// List returns every order, newest first.
func (s *OrderStore) List(ctx context.Context) ([]models.Order, error) {
	return s.query(ctx, "list orders", `SELECT `+orderColumns+` FROM orders ORDER BY created_at DESC`)
}

// ListByCheckout returns the order rows created by one checkout.
func (s *OrderStore) ListByCheckout(ctx context.Context, checkoutID uuid.UUID) ([]models.Order, error) {
	return s.query(ctx, "list checkout orders",
		`SELECT `+orderColumns+` FROM orders WHERE checkout_id = $1 ORDER BY created_at, id`, checkoutID)
}

// CheckoutLine is one product and quantity being purchased.
type CheckoutLine struct {
	ProductID uuid.UUID
	Quantity  int
}

// Checkout is a purchase request. One order row is written per line.
type Checkout struct {
	CustomerName  string
	CustomerPhone string
	Address       string
	PaymentMethod string
	Lines         []CheckoutLine
}

// CheckoutResult is what CreateCheckout wrote.
type CheckoutResult struct {
	CheckoutID uuid.UUID       `json:"checkout_id"`
	Orders     []models.Order  `json:"orders"`
	Total      decimal.Decimal `json:"total"`
}

// CreateCheckout writes one pending order per line and decrements stock, all
// in one transaction. Each product row is locked and re-checked: a product
// that vanished or no longer has enough stock aborts the whole checkout with
// a conflict. Line totals use the price stored at the time of purchase.
func (s *OrderStore) CreateCheckout(ctx context.Context, c Checkout) (*CheckoutResult, error) {
	if len(c.Lines) == 0 {
		return nil, apperr.New(apperr.KindInvalid, "store.CreateCheckout", "checkout has no items")
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	result := &CheckoutResult{CheckoutID: uuid.New(), Orders: []models.Order{}}
	for _, line := range c.Lines {
		var name string
		var price decimal.Decimal
		var stock sql.NullInt64
		var inStock sql.NullBool
		err := tx.QueryRowContext(ctx,
			`SELECT name, price, stock_count, in_stock FROM products WHERE id = $1 FOR UPDATE`,
			line.ProductID,
		).Scan(&name, &price, &stock, &inStock)
		if err == sql.ErrNoRows {
			return nil, apperr.New(apperr.KindConflict, "store.CreateCheckout", "a product is no longer available")
		}
		if err != nil {
			return nil, fmt.Errorf("lock product %s: %w", line.ProductID, err)
		}
		if !inStock.Bool || stock.Int64 < int64(line.Quantity) {
			return nil, apperr.New(apperr.KindConflict, "store.CreateCheckout",
				fmt.Sprintf("not enough stock for %s", name))
		}

		if _, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_count = stock_count - $1, in_stock = stock_count - $1 > 0, updated_at = NOW()
			WHERE id = $2`, line.Quantity, line.ProductID); err != nil {
			return nil, fmt.Errorf("decrement stock %s: %w", line.ProductID, err)
		}

		total := price.Mul(decimal.NewFromInt(int64(line.Quantity)))
		row := tx.QueryRowContext(ctx, `
			INSERT INTO orders (checkout_id, product_id, customer_name, customer_phone, address,
			                    total_amount, quantity, status, payment_status, payment_method)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING `+orderColumns,
			result.CheckoutID, line.ProductID, c.CustomerName, c.CustomerPhone, c.Address,
			total, line.Quantity, models.OrderStatusPending, models.PaymentStatusPending, c.PaymentMethod,
		)
		o, err := scanOrder(row)
		if err != nil {
			return nil, fmt.Errorf("insert order: %w", classify("store.CreateCheckout", err))
		}
		result.Orders = append(result.Orders, *o)
		result.Total = result.Total.Add(total)
	}

	if err := tx.Commit(); err != nil {
		return nil, fmt.Errorf("commit checkout: %w", err)
	}
	return result, nil
}

// UpdateStatus sets an order's status. Moving an order into a cancelled
// status returns its units to stock; moving it out of one takes them back.
// It reports false when no order matched the id.
func (s *OrderStore) UpdateStatus(ctx context.Context, id uuid.UUID, status string) (bool, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return false, fmt.Errorf("begin tx: %w", err)
	}
	defer tx.Rollback()

	var current string
	var productID *uuid.UUID
	var quantity int
	err = tx.QueryRowContext(ctx,
		`SELECT status, product_id, quantity FROM orders WHERE id = $1 FOR UPDATE`, id,
	).Scan(&current, &productID, &quantity)
	if err == sql.ErrNoRows {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("lock order: %w", err)
	}

	if _, err := tx.ExecContext(ctx, `UPDATE orders SET status = $1 WHERE id = $2`, status, id); err != nil {
		return false, fmt.Errorf("update order status: %w", err)
	}

	wasCancelled, isCancelled := models.IsCancelledStatus(current), models.IsCancelledStatus(status)
	if productID != nil && wasCancelled != isCancelled {
		delta := quantity
		if wasCancelled {
			delta = -quantity
		}
		if _, err := tx.ExecContext(ctx, `
			UPDATE products
			SET stock_count = GREATEST(COALESCE(stock_count, 0) + $1, 0),
			    in_stock = GREATEST(COALESCE(stock_count, 0) + $1, 0) > 0,
			    updated_at = NOW()
			WHERE id = $2`, delta, *productID); err != nil {
			return false, fmt.Errorf("adjust stock: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return false, fmt.Errorf("commit order status: %w", err)
	}
	return true, nil
}

// UpdatePaymentStatus sets the payment status of every order row of a
// checkout and returns the number of rows changed.
func (s *OrderStore) UpdatePaymentStatus(ctx context.Context, checkoutID uuid.UUID, paymentStatus string) (int64, error) {
	res, err := s.db.ExecContext(ctx,
		`UPDATE orders SET payment_status = $1 WHERE checkout_id = $2`, paymentStatus, checkoutID)
	if err != nil {
		return 0, fmt.Errorf("update payment status: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("update payment status: %w", err)
	}
	return n, nil
}
