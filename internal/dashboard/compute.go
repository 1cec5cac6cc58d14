// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"log/slog"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"gamestore/internal/models"
)

// timestampLayouts are the created_at forms accepted, most specific first.
var timestampLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05.999999999",
	"2006-01-02 15:04:05.999999999Z07:00",
	"2006-01-02 15:04:05.999999999Z07",
	"2006-01-02 15:04:05.999999999",
	"2006-01-02",
}

// parseTimestamp parses an ISO-8601 style timestamp.
func parseTimestamp(s string) (time.Time, bool) {
	s = strings.TrimSpace(s)
	if s == "" {
		return time.Time{}, false
	}
	for _, layout := range timestampLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}

// Compute reduces orders and products into dashboard metrics. Orders whose
// product is not in products still count toward the summary and revenue
// trend but are left out of category and product breakdowns.
func Compute(orders []models.Order, products []models.Product, limits Limits) Metrics {
	limits = limits.withDefaults()

	byID := make(map[uuid.UUID]*models.Product, len(products))
	for i := range products {
		byID[products[i].ID] = &products[i]
	}

	a := newAccumulator(limits.Location)
	var summary Summary
	for _, o := range orders {
		if IsPending(o) {
			summary.PendingOrders++
		}
		if IsCancelled(o) {
			summary.CancelledOrders++
		}
		if !IsPaid(o) {
			continue
		}

		summary.TotalRevenue = summary.TotalRevenue.Add(o.TotalAmount)
		summary.TotalOrders++
		a.addTrend(o)
		a.addMethod(o)

		if o.ProductID == nil {
			continue
		}
		if p, ok := byID[*o.ProductID]; ok {
			a.addCategory(o, p)
			a.addProduct(o, p)
		}
	}

	if summary.TotalOrders > 0 {
		summary.AvgOrderValue = summary.TotalRevenue.
			Div(decimal.NewFromInt(int64(summary.TotalOrders))).
			Round(2)
	}

	inv := summarizeInventory(products, a.products, limits)
	summary.TotalProducts = len(products)
	summary.LowStockCount = len(inv.lowStock)
	summary.OutOfStockCount = inv.outOfStock
	summary.InventoryValue = inv.value
	lowStock := truncate(inv.lowStock, limits.LowStockList)
	summary.LowStockPreview = truncate(lowStock, limits.LowStockPreview)

	return Metrics{
		Summary:            summary,
		RevenueTrend:       a.trend(),
		SalesByCategory:    a.categoryList(),
		SalesBySubcategory: a.subcategoryList(),
		PaymentMethods:     a.methodList(),
		TopProducts:        truncate(a.productList(), limits.TopProducts),
		LowStock:           lowStock,
		RecentOrders:       recentOrders(orders, byID, limits.RecentOrders),
	}
}

// accumulator holds the grouping buckets of the paid-orders pass. Each
// bucket is created on first encounter; the key slices keep that order so
// equal-revenue buckets sort deterministically.
type accumulator struct {
	loc *time.Location

	months      map[string]*TrendPoint
	monthKeys   []string
	categories  map[string]*CategorySales
	catKeys     []string
	subcats     map[subcategoryKey]*SubcategorySales
	subcatKeys  []subcategoryKey
	methods     map[string]*MethodSales
	methodKeys  []string
	products    map[uuid.UUID]*ProductSales
	productKeys []uuid.UUID
}

// subcategoryKey keeps same-named subcategories of different parents apart.
type subcategoryKey struct {
	category    string
	subcategory string
}

func newAccumulator(loc *time.Location) *accumulator {
	return &accumulator{
		loc:        loc,
		months:     map[string]*TrendPoint{},
		categories: map[string]*CategorySales{},
		subcats:    map[subcategoryKey]*SubcategorySales{},
		methods:    map[string]*MethodSales{},
		products:   map[uuid.UUID]*ProductSales{},
	}
}

func (a *accumulator) addTrend(o models.Order) {
	key := UnknownMonth
	if t, ok := parseTimestamp(o.CreatedAt); ok {
		key = t.In(a.loc).Format("2006-01")
	} else {
		slog.Warn("dashboard: unparsable order date", "order_id", o.ID, "created_at", o.CreatedAt)
	}

	b, ok := a.months[key]
	if !ok {
		b = &TrendPoint{Month: key}
		a.months[key] = b
		a.monthKeys = append(a.monthKeys, key)
	}
	b.Revenue = b.Revenue.Add(o.TotalAmount)
	b.Orders++
}

func (a *accumulator) addCategory(o models.Order, p *models.Product) {
	cat := Uncategorized
	if p.ParentCategory != nil && p.ParentCategory.Name != "" {
		cat = p.ParentCategory.Name
	}
	sub := cat
	if p.ChildCategory != nil && p.ChildCategory.Name != "" {
		sub = p.ChildCategory.Name
	}

	c, ok := a.categories[cat]
	if !ok {
		c = &CategorySales{Category: cat}
		a.categories[cat] = c
		a.catKeys = append(a.catKeys, cat)
	}
	c.Revenue = c.Revenue.Add(o.TotalAmount)
	c.Orders++
	c.Quantity += o.Quantity

	key := subcategoryKey{category: cat, subcategory: sub}
	s, ok := a.subcats[key]
	if !ok {
		s = &SubcategorySales{Category: cat, Subcategory: sub}
		a.subcats[key] = s
		a.subcatKeys = append(a.subcatKeys, key)
	}
	s.Revenue = s.Revenue.Add(o.TotalAmount)
	s.Orders++
	s.Quantity += o.Quantity
}

func (a *accumulator) addMethod(o models.Order) {
	method := NormalizeMethod(o.PaymentMethod)
	m, ok := a.methods[method]
	if !ok {
		m = &MethodSales{Method: method, Label: MethodLabel(method)}
		a.methods[method] = m
		a.methodKeys = append(a.methodKeys, method)
	}
	m.Revenue = m.Revenue.Add(o.TotalAmount)
	m.Orders++
}

func (a *accumulator) addProduct(o models.Order, p *models.Product) {
	ps, ok := a.products[p.ID]
	if !ok {
		ps = &ProductSales{
			ProductID:  p.ID,
			Name:       p.Name,
			StockCount: p.Stock(),
			InStock:    p.Available(),
		}
		a.products[p.ID] = ps
		a.productKeys = append(a.productKeys, p.ID)
	}
	ps.Revenue = ps.Revenue.Add(o.TotalAmount)
	ps.Orders++
	ps.Quantity += o.Quantity
}

func (a *accumulator) trend() []TrendPoint {
	out := make([]TrendPoint, 0, len(a.monthKeys))
	for _, k := range a.monthKeys {
		out = append(out, *a.months[k])
	}
	// Zero-padded YYYY-MM sorts chronologically; "unknown" sorts last.
	sort.SliceStable(out, func(i, j int) bool { return out[i].Month < out[j].Month })
	return out
}

func (a *accumulator) categoryList() []CategorySales {
	out := make([]CategorySales, 0, len(a.catKeys))
	for _, k := range a.catKeys {
		out = append(out, *a.categories[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out
}

func (a *accumulator) subcategoryList() []SubcategorySales {
	out := make([]SubcategorySales, 0, len(a.subcatKeys))
	for _, k := range a.subcatKeys {
		out = append(out, *a.subcats[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out
}

func (a *accumulator) methodList() []MethodSales {
	out := make([]MethodSales, 0, len(a.methodKeys))
	for _, k := range a.methodKeys {
		out = append(out, *a.methods[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out
}

func (a *accumulator) productList() []ProductSales {
	out := make([]ProductSales, 0, len(a.productKeys))
	for _, k := range a.productKeys {
		out = append(out, *a.products[k])
	}
	sort.SliceStable(out, func(i, j int) bool { return out[i].Revenue.GreaterThan(out[j].Revenue) })
	return out
}

type inventory struct {
	lowStock   []StockItem
	outOfStock int
	value      decimal.Decimal
}

// summarizeInventory walks every product, sold or not. Low stock uses the
// in-stock flag OR the threshold; out of stock looks only at the count.
func summarizeInventory(products []models.Product, sales map[uuid.UUID]*ProductSales, limits Limits) inventory {
	var inv inventory
	for i := range products {
		p := &products[i]
		stock := p.Stock()

		inv.value = inv.value.Add(p.Price.Mul(decimal.NewFromInt(int64(stock))))
		if stock == 0 {
			inv.outOfStock++
		}
		if !p.Available() || stock <= limits.LowStockThreshold {
			item := StockItem{
				ProductID:  p.ID,
				Name:       p.Name,
				StockCount: stock,
				InStock:    p.Available(),
			}
			if s, ok := sales[p.ID]; ok {
				item.Revenue = s.Revenue
			}
			inv.lowStock = append(inv.lowStock, item)
		}
	}

	sort.SliceStable(inv.lowStock, func(i, j int) bool {
		a, b := inv.lowStock[i], inv.lowStock[j]
		if a.StockCount != b.StockCount {
			return a.StockCount < b.StockCount
		}
		return a.Revenue.LessThan(b.Revenue)
	})
	if inv.lowStock == nil {
		inv.lowStock = []StockItem{}
	}
	return inv
}

// recentOrders returns the newest orders first; unparsable dates go last.
func recentOrders(orders []models.Order, products map[uuid.UUID]*models.Product, n int) []RecentOrder {
	type dated struct {
		order models.Order
		at    time.Time
		ok    bool
	}
	rows := make([]dated, 0, len(orders))
	for _, o := range orders {
		t, ok := parseTimestamp(o.CreatedAt)
		rows = append(rows, dated{order: o, at: t, ok: ok})
	}
	sort.SliceStable(rows, func(i, j int) bool {
		if rows[i].ok != rows[j].ok {
			return rows[i].ok
		}
		return rows[i].at.After(rows[j].at)
	})

	rows = truncate(rows, n)
	out := make([]RecentOrder, 0, len(rows))
	for _, r := range rows {
		ro := RecentOrder{
			OrderID:       r.order.ID,
			TotalAmount:   r.order.TotalAmount,
			Status:        r.order.Status,
			PaymentStatus: r.order.PaymentStatus,
			PaymentMethod: r.order.PaymentMethod,
			CreatedAt:     r.order.CreatedAt,
		}
		if r.order.ProductID != nil {
			if p, ok := products[*r.order.ProductID]; ok {
				ro.ProductName = p.Name
			}
		}
		out = append(out, ro)
	}
	return out
}

func truncate[T any](items []T, n int) []T {
	if len(items) > n {
		return items[:n]
	}
	return items
}
