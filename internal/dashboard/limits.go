// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import "time"

// Default thresholds and slice sizes for the admin dashboard.
const (
	DefaultLowStockThreshold = 5
	DefaultTopProducts       = 5
	DefaultLowStockList      = 8
	DefaultLowStockPreview   = 4
	DefaultRecentOrders      = 10
)

// Limits controls the thresholds and list sizes of a computation.
type Limits struct {
	// LowStockThreshold is the stock count at or below which a product is low.
	LowStockThreshold int
	TopProducts       int
	LowStockList      int
	// LowStockPreview is the number of low-stock items copied into the summary.
	LowStockPreview int
	RecentOrders    int
	// Location is used to derive calendar months from order timestamps.
	Location *time.Location
}

// DefaultLimits returns the limits used by the admin dashboard.
func DefaultLimits() Limits {
	return Limits{
		LowStockThreshold: DefaultLowStockThreshold,
		TopProducts:       DefaultTopProducts,
		LowStockList:      DefaultLowStockList,
		LowStockPreview:   DefaultLowStockPreview,
		RecentOrders:      DefaultRecentOrders,
		Location:          time.UTC,
	}
}

// withDefaults fills unset (non-positive) sizes and a nil location.
// A zero threshold is kept because "only empty shelves" is meaningful.
func (l Limits) withDefaults() Limits {
	d := DefaultLimits()
	if l.LowStockThreshold < 0 {
		l.LowStockThreshold = d.LowStockThreshold
	}
	if l.TopProducts <= 0 {
		l.TopProducts = d.TopProducts
	}
	if l.LowStockList <= 0 {
		l.LowStockList = d.LowStockList
	}
	if l.LowStockPreview <= 0 {
		l.LowStockPreview = d.LowStockPreview
	}
	if l.RecentOrders <= 0 {
		l.RecentOrders = d.RecentOrders
	}
	if l.Location == nil {
		l.Location = d.Location
	}
	return l
}
