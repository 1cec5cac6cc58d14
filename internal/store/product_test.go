// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/models"
)

var productCols = []string{
	"id", "name", "slug", "description", "platform", "price",
	"stock_count", "in_stock", "image_url",
	"parent_category_id", "child_category_id", "created_at", "updated_at",
	"pc_name", "pc_slug", "cc_name", "cc_slug",
}

func TestProductFilterWhere(t *testing.T) {
	cat := uuid.New()
	tests := []struct {
		name     string
		filter   ProductFilter
		wantSQL  string
		wantArgs []any
	}{
		{name: "empty", filter: ProductFilter{}, wantSQL: "", wantArgs: nil},
		{name: "blank query", filter: ProductFilter{Query: "   "}, wantSQL: "", wantArgs: nil},
		{
			name:     "query",
			filter:   ProductFilter{Query: " zelda "},
			wantSQL:  " WHERE (p.name ILIKE $1 OR p.platform ILIKE $1)",
			wantArgs: []any{"%zelda%"},
		},
		{
			name:     "wildcards escaped",
			filter:   ProductFilter{Query: "100%_off"},
			wantSQL:  " WHERE (p.name ILIKE $1 OR p.platform ILIKE $1)",
			wantArgs: []any{`%100\%\_off%`},
		},
		{
			name:     "category and stock",
			filter:   ProductFilter{Query: "ps5", CategoryID: &cat, InStockOnly: true},
			wantSQL:  " WHERE (p.name ILIKE $1 OR p.platform ILIKE $1) AND (p.parent_category_id = $2 OR p.child_category_id = $2) AND (p.in_stock AND p.stock_count > 0)",
			wantArgs: []any{"%ps5%", cat},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sqlText, args := tt.filter.where()
			assert.Equal(t, tt.wantSQL, sqlText)
			assert.Equal(t, tt.wantArgs, args)
		})
	}
}

func TestProductListResolvesCategories(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	parent, child := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`FROM products p LEFT JOIN categories pc (.+) WHERE \(p.name ILIKE \$1 OR p.platform ILIKE \$1\) ORDER BY p.name LIMIT \$2`).
		WithArgs("%halo%", 20).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(uuid.NewString(), "Halo Infinite", "halo-infinite", "", "Xbox", "39.99",
				9, true, "", parent.String(), child.String(), now, now,
				"Videojuegos", "videojuegos", "Xbox", "xbox").
			AddRow(uuid.NewString(), "Halo MCC", "halo-mcc", "", "Xbox", "19.99",
				nil, nil, "", nil, nil, now, now,
				nil, nil, nil, nil))

	got, err := s.List(context.Background(), ProductFilter{Query: "halo", Limit: 20})
	require.NoError(t, err)
	require.Len(t, got, 2)

	first := got[0]
	assert.True(t, first.Price.Equal(decimal.RequireFromString("39.99")))
	assert.Equal(t, 9, first.Stock())
	assert.True(t, first.Available())
	require.NotNil(t, first.ParentCategory)
	assert.Equal(t, "Videojuegos", first.ParentCategory.Name)
	require.NotNil(t, first.ChildCategory)
	assert.Equal(t, "Xbox", first.ChildCategory.Name)
	require.NotNil(t, first.ChildCategory.ParentID)
	assert.Equal(t, parent, *first.ChildCategory.ParentID)

	second := got[1]
	assert.Nil(t, second.StockCount)
	assert.Nil(t, second.InStock)
	assert.Nil(t, second.ParentCategory)
	assert.Nil(t, second.ChildCategory)
}

func TestProductFindByIDNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	id := uuid.New()
	mock.ExpectQuery(`WHERE p.id = \$1`).WithArgs(id).WillReturnError(sql.ErrNoRows)

	p, err := s.FindByID(context.Background(), id)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestProductFindMany(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	a, b := uuid.New(), uuid.New()
	now := time.Now()
	mock.ExpectQuery(`WHERE p.id = ANY\(\$1::uuid\[\]\)`).
		WithArgs("{" + a.String() + "," + b.String() + "}").
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(a.String(), "A", "a", "", "", "1.00", 1, true, "", nil, nil, now, now, nil, nil, nil, nil))

	got, err := s.FindMany(context.Background(), []uuid.UUID{a, b})
	require.NoError(t, err)
	assert.Len(t, got, 1)
	assert.Contains(t, got, a)
	assert.NotContains(t, got, b)
}

func TestProductFindManyEmpty(t *testing.T) {
	db, _ := newMock(t)
	s := NewProductStore(db)

	got, err := s.FindMany(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestProductCreate(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	id := uuid.New()
	stock := 3
	in := true
	p := &models.Product{
		Name: "Mario Kart 8", Slug: "mario-kart-8", Platform: "Switch",
		Price: decimal.RequireFromString("59.99"), StockCount: &stock, InStock: &in,
	}
	now := time.Now()
	mock.ExpectQuery(`INSERT INTO products`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}).AddRow(id.String()))
	mock.ExpectQuery(`WHERE p.id = \$1`).WithArgs(id).
		WillReturnRows(sqlmock.NewRows(productCols).
			AddRow(id.String(), "Mario Kart 8", "mario-kart-8", "", "Switch", "59.99",
				3, true, "", nil, nil, now, now, nil, nil, nil, nil))

	got, err := s.Create(context.Background(), p)
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Equal(t, id, got.ID)
}

func TestProductUpdateNotFound(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	mock.ExpectExec(`UPDATE products SET`).WillReturnResult(sqlmock.NewResult(0, 0))

	ok, err := s.Update(context.Background(), &models.Product{ID: uuid.New(), Name: "x", Slug: "x"})
	require.NoError(t, err)
	assert.False(t, ok)
}

func TestProductDelete(t *testing.T) {
	db, mock := newMock(t)
	s := NewProductStore(db)

	id := uuid.New()
	mock.ExpectExec(`DELETE FROM products WHERE id = \$1`).WithArgs(id).WillReturnResult(sqlmock.NewResult(0, 1))

	ok, err := s.Delete(context.Background(), id)
	require.NoError(t, err)
	assert.True(t, ok)
}
