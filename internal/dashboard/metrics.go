// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package dashboard reduces order and product snapshots into the revenue,
// sales and inventory figures shown on the admin dashboard. Computation is
// in-memory and side-effect free apart from warning logs.
package dashboard

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Metrics is the full dashboard view model.
type Metrics struct {
	Summary            Summary           `json:"summary"`
	RevenueTrend       []TrendPoint      `json:"revenue_trend"`
	SalesByCategory    []CategorySales   `json:"sales_by_category"`
	SalesBySubcategory []SubcategorySales `json:"sales_by_subcategory"`
	PaymentMethods     []MethodSales     `json:"payment_methods"`
	TopProducts        []ProductSales    `json:"top_products"`
	LowStock           []StockItem       `json:"low_stock"`
	RecentOrders       []RecentOrder     `json:"recent_orders"`
}

// Summary holds the headline figures.
type Summary struct {
	TotalRevenue    decimal.Decimal `json:"total_revenue"`
	TotalOrders     int             `json:"total_orders"`
	AvgOrderValue   decimal.Decimal `json:"avg_order_value"`
	PendingOrders   int             `json:"pending_orders"`
	CancelledOrders int             `json:"cancelled_orders"`
	TotalProducts   int             `json:"total_products"`
	LowStockCount   int             `json:"low_stock_count"`
	OutOfStockCount int             `json:"out_of_stock_count"`
	InventoryValue  decimal.Decimal `json:"inventory_value"`
	LowStockPreview []StockItem     `json:"low_stock_preview"`
}

// UnknownMonth is the trend bucket for orders whose date cannot be parsed.
const UnknownMonth = "unknown"

// TrendPoint is the revenue of one calendar month (YYYY-MM).
type TrendPoint struct {
	Month   string          `json:"month"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// Uncategorized names the bucket for products without a parent category.
const Uncategorized = "Sin categoría"

// CategorySales aggregates paid orders per parent category.
type CategorySales struct {
	Category string          `json:"category"`
	Revenue  decimal.Decimal `json:"revenue"`
	Orders   int             `json:"orders"`
	Quantity int             `json:"quantity"`
}

// SubcategorySales aggregates paid orders per (category, subcategory).
type SubcategorySales struct {
	Category    string          `json:"category"`
	Subcategory string          `json:"subcategory"`
	Revenue     decimal.Decimal `json:"revenue"`
	Orders      int             `json:"orders"`
	Quantity    int             `json:"quantity"`
}

// MethodSales aggregates paid orders per canonical payment method.
type MethodSales struct {
	Method  string          `json:"method"`
	Label   string          `json:"label"`
	Revenue decimal.Decimal `json:"revenue"`
	Orders  int             `json:"orders"`
}

// ProductSales aggregates paid orders per product. Stock fields come from
// the current product snapshot, not from the time of purchase.
type ProductSales struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	Revenue    decimal.Decimal `json:"revenue"`
	Orders     int             `json:"orders"`
	Quantity   int             `json:"quantity"`
	StockCount int             `json:"stock_count"`
	InStock    bool            `json:"in_stock"`
}

// StockItem is a product in the low-stock list.
type StockItem struct {
	ProductID  uuid.UUID       `json:"product_id"`
	Name       string          `json:"name"`
	StockCount int             `json:"stock_count"`
	InStock    bool            `json:"in_stock"`
	Revenue    decimal.Decimal `json:"revenue"`
}

// RecentOrder is a compact row of the latest orders table.
type RecentOrder struct {
	OrderID       uuid.UUID       `json:"order_id"`
	ProductName   string          `json:"product_name"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     string          `json:"created_at"`
}
