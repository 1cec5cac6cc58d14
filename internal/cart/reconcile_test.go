// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package cart

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/models"
)

func TestReconcileNoChanges(t *testing.T) {
	id := uuid.New()
	c := Cart{ID: "c", Items: []Item{{ProductID: id, Name: "Mario", UnitPrice: price("49.99"), Quantity: 2}}}
	live := map[uuid.UUID]Stock{id: {Name: "Mario", Price: price("49.99"), Count: 10, InStock: true}}

	got, notices := Reconcile(c, live)

	assert.Empty(t, notices)
	assert.Equal(t, c.Items, got.Items)
	assert.Equal(t, "c", got.ID)
}

func TestReconcileAdjustments(t *testing.T) {
	gone, empty, flagged, short, repriced := uuid.New(), uuid.New(), uuid.New(), uuid.New(), uuid.New()
	c := Cart{ID: "c", Items: []Item{
		{ProductID: gone, Name: "Gone", UnitPrice: price("1"), Quantity: 1},
		{ProductID: empty, Name: "Empty", UnitPrice: price("1"), Quantity: 1},
		{ProductID: flagged, Name: "Flagged", UnitPrice: price("1"), Quantity: 1},
		{ProductID: short, Name: "Short", UnitPrice: price("20"), Quantity: 5},
		{ProductID: repriced, Name: "Repriced", UnitPrice: price("30"), Quantity: 1},
	}}
	live := map[uuid.UUID]Stock{
		empty:    {Name: "Empty", Price: price("1"), Count: 0, InStock: true},
		flagged:  {Name: "Flagged", Price: price("1"), Count: 9, InStock: false},
		short:    {Name: "Short", Price: price("25"), Count: 2, InStock: true},
		repriced: {Name: "Repriced", Price: price("27.50"), Count: 4, InStock: true},
	}

	got, notices := Reconcile(c, live)

	require.Len(t, got.Items, 2)
	assert.Equal(t, short, got.Items[0].ProductID)
	assert.Equal(t, 2, got.Items[0].Quantity)
	assert.True(t, got.Items[0].UnitPrice.Equal(price("25")))
	assert.Equal(t, repriced, got.Items[1].ProductID)
	assert.True(t, got.Items[1].UnitPrice.Equal(price("27.50")))

	kinds := make([]NoticeKind, 0, len(notices))
	for _, n := range notices {
		kinds = append(kinds, n.Kind)
	}
	assert.Equal(t, []NoticeKind{
		NoticeUnavailable,
		NoticeOutOfStock,
		NoticeOutOfStock,
		NoticeReduced,
		NoticePriceChanged,
		NoticePriceChanged,
	}, kinds)

	reduced := notices[3]
	assert.Equal(t, 5, reduced.Requested)
	assert.Equal(t, 2, reduced.Available)
	assert.True(t, notices[5].OldPrice.Equal(price("30")))
	assert.True(t, notices[5].NewPrice.Equal(price("27.50")))
}

func TestReconcileDoesNotMutateInput(t *testing.T) {
	id := uuid.New()
	c := Cart{ID: "c", Items: []Item{{ProductID: id, Name: "A", UnitPrice: price("10"), Quantity: 8}}}
	live := map[uuid.UUID]Stock{id: {Name: "A", Price: price("12"), Count: 3, InStock: true}}

	_, _ = Reconcile(c, live)

	assert.Equal(t, 8, c.Items[0].Quantity)
	assert.True(t, c.Items[0].UnitPrice.Equal(price("10")))
}

func TestReconcileIsIdempotent(t *testing.T) {
	id := uuid.New()
	c := Cart{ID: "c", Items: []Item{{ProductID: id, Name: "A", UnitPrice: price("10"), Quantity: 8}}}
	live := map[uuid.UUID]Stock{id: {Name: "A", Price: price("12"), Count: 3, InStock: true}}

	once, _ := Reconcile(c, live)
	twice, notices := Reconcile(once, live)

	assert.Empty(t, notices)
	assert.Equal(t, once, twice)
}

func TestReconcileEmptyCart(t *testing.T) {
	got, notices := Reconcile(Cart{ID: "c"}, nil)
	assert.Empty(t, got.Items)
	assert.NotNil(t, got.Items)
	assert.Empty(t, notices)
}

func TestStockFromProduct(t *testing.T) {
	n := 3
	in := true
	st := StockFromProduct(models.Product{Name: "PS5", Price: price("499"), StockCount: &n, InStock: &in})
	assert.Equal(t, Stock{Name: "PS5", Price: price("499"), Count: 3, InStock: true}, st)

	nulls := StockFromProduct(models.Product{Name: "Null"})
	assert.Equal(t, 0, nulls.Count)
	assert.False(t, nulls.InStock)
}
