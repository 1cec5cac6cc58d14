// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides in-memory fakes of the stores and caches the
// handlers depend on, plus request helpers shared by the handler tests.
package handlers

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"

	"gamestore/internal/apperr"
	"gamestore/internal/cart"
	"gamestore/internal/models"
	"gamestore/internal/session"
	"gamestore/internal/store"
)

var errBackend = errors.New("backend down")

func intPtr(v int) *int    { return &v }
func boolPtr(v bool) *bool { return &v }

func money(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// --- categories ---

type fakeCategories struct {
	rows          []models.Category
	direct        map[uuid.UUID]int
	listErr       error
	childrenErr   error
	childrenCalls int
	reordered     []store.ReorderItem
}

func (f *fakeCategories) add(name string, parent *uuid.UUID, active bool) uuid.UUID {
	id := uuid.New()
	f.rows = append(f.rows, models.Category{
		ID: id, Name: name, ParentID: parent, IsActive: active, SortOrder: intPtr(len(f.rows)),
	})
	return id
}

func (f *fakeCategories) List(context.Context) ([]models.Category, error) {
	return slices.Clone(f.rows), f.listErr
}

func (f *fakeCategories) ListActive(context.Context) ([]models.Category, error) {
	var out []models.Category
	for _, c := range f.rows {
		if c.IsActive {
			out = append(out, c)
		}
	}
	return out, f.listErr
}

func (f *fakeCategories) ActiveChildren(_ context.Context, parentID uuid.UUID) ([]models.Category, error) {
	f.childrenCalls++
	if f.childrenErr != nil {
		return nil, f.childrenErr
	}
	var out []models.Category
	for _, c := range f.rows {
		if c.IsActive && c.ParentID != nil && *c.ParentID == parentID {
			out = append(out, c)
		}
	}
	return out, nil
}

func (f *fakeCategories) FindByID(_ context.Context, id uuid.UUID) (*models.Category, error) {
	for _, c := range f.rows {
		if c.ID == id {
			return &c, nil
		}
	}
	return nil, nil
}

func (f *fakeCategories) DirectProductCounts(context.Context) (map[uuid.UUID]int, error) {
	return f.direct, nil
}

func (f *fakeCategories) Create(_ context.Context, c *models.Category) (*models.Category, error) {
	for _, existing := range f.rows {
		if existing.Slug == c.Slug {
			return nil, apperr.New(apperr.KindConflict, "fake.Create", "already exists")
		}
	}
	created := *c
	created.ID = uuid.New()
	f.rows = append(f.rows, created)
	return &created, nil
}

func (f *fakeCategories) Update(_ context.Context, c *models.Category) (bool, error) {
	for i := range f.rows {
		if f.rows[i].ID == c.ID {
			f.rows[i] = *c
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	for i := range f.rows {
		if f.rows[i].ID == id {
			f.rows = slices.Delete(f.rows, i, i+1)
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeCategories) Reorder(_ context.Context, items []store.ReorderItem) error {
	f.reordered = items
	return nil
}

func (f *fakeCategories) NextSortOrder(_ context.Context, parentID *uuid.UUID) (int, error) {
	n := 0
	for _, c := range f.rows {
		if (c.ParentID == nil && parentID == nil) || (c.ParentID != nil && parentID != nil && *c.ParentID == *parentID) {
			n = max(n, c.Order()+1)
		}
	}
	return n, nil
}

// --- products ---

type fakeProducts struct {
	items   map[uuid.UUID]models.Product
	listErr error
	lists   int
}

func newFakeProducts() *fakeProducts {
	return &fakeProducts{items: map[uuid.UUID]models.Product{}}
}

func (f *fakeProducts) add(name, price string, stock int) models.Product {
	p := models.Product{
		ID:         uuid.New(),
		Name:       name,
		Price:      money(price),
		StockCount: intPtr(stock),
		InStock:    boolPtr(stock > 0),
	}
	f.items[p.ID] = p
	return p
}

func (f *fakeProducts) List(_ context.Context, filter store.ProductFilter) ([]models.Product, error) {
	f.lists++
	if f.listErr != nil {
		return nil, f.listErr
	}
	var out []models.Product
	for _, p := range f.items {
		if filter.Query != "" && !strings.Contains(strings.ToLower(p.Name), strings.ToLower(filter.Query)) {
			continue
		}
		if filter.CategoryID != nil {
			inParent := p.ParentCategoryID != nil && *p.ParentCategoryID == *filter.CategoryID
			inChild := p.ChildCategoryID != nil && *p.ChildCategoryID == *filter.CategoryID
			if !inParent && !inChild {
				continue
			}
		}
		out = append(out, p)
	}
	slices.SortFunc(out, func(a, b models.Product) int { return strings.Compare(a.Name, b.Name) })
	return out, nil
}

func (f *fakeProducts) FindByID(_ context.Context, id uuid.UUID) (*models.Product, error) {
	p, ok := f.items[id]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

func (f *fakeProducts) FindMany(_ context.Context, ids []uuid.UUID) (map[uuid.UUID]models.Product, error) {
	out := map[uuid.UUID]models.Product{}
	for _, id := range ids {
		if p, ok := f.items[id]; ok {
			out[id] = p
		}
	}
	return out, nil
}

func (f *fakeProducts) Create(_ context.Context, p *models.Product) (*models.Product, error) {
	created := *p
	created.ID = uuid.New()
	f.items[created.ID] = created
	return &created, nil
}

func (f *fakeProducts) Update(_ context.Context, p *models.Product) (bool, error) {
	if _, ok := f.items[p.ID]; !ok {
		return false, nil
	}
	f.items[p.ID] = *p
	return true, nil
}

func (f *fakeProducts) Delete(_ context.Context, id uuid.UUID) (bool, error) {
	if _, ok := f.items[id]; !ok {
		return false, nil
	}
	delete(f.items, id)
	return true, nil
}

// --- orders ---

type fakeOrders struct {
	orders       []models.Order
	checkoutErr  error
	lastCheckout *store.Checkout
}

func (f *fakeOrders) List(context.Context) ([]models.Order, error) {
	return slices.Clone(f.orders), nil
}

func (f *fakeOrders) CreateCheckout(_ context.Context, c store.Checkout) (*store.CheckoutResult, error) {
	f.lastCheckout = &c
	if f.checkoutErr != nil {
		return nil, f.checkoutErr
	}
	res := &store.CheckoutResult{CheckoutID: uuid.New()}
	for _, line := range c.Lines {
		o := models.Order{
			ID:            uuid.New(),
			CheckoutID:    res.CheckoutID,
			ProductID:     &line.ProductID,
			CustomerName:  c.CustomerName,
			Quantity:      line.Quantity,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			PaymentMethod: c.PaymentMethod,
		}
		f.orders = append(f.orders, o)
		res.Orders = append(res.Orders, o)
	}
	return res, nil
}

func (f *fakeOrders) UpdateStatus(_ context.Context, id uuid.UUID, status string) (bool, error) {
	for i := range f.orders {
		if f.orders[i].ID == id {
			f.orders[i].Status = status
			return true, nil
		}
	}
	return false, nil
}

func (f *fakeOrders) UpdatePaymentStatus(_ context.Context, checkoutID uuid.UUID, status string) (int64, error) {
	var n int64
	for i := range f.orders {
		if f.orders[i].CheckoutID == checkoutID {
			f.orders[i].PaymentStatus = status
			n++
		}
	}
	return n, nil
}

// --- caches ---

type fakeCache struct {
	entries       map[string][]byte
	invalidations int
}

func newFakeCache() *fakeCache { return &fakeCache{entries: map[string][]byte{}} }

func (f *fakeCache) GetJSON(_ context.Context, key string, v any) bool {
	raw, ok := f.entries[key]
	if !ok {
		return false
	}
	return json.Unmarshal(raw, v) == nil
}

func (f *fakeCache) SetJSON(_ context.Context, key string, v any) {
	raw, err := json.Marshal(v)
	if err == nil {
		f.entries[key] = raw
	}
}

func (f *fakeCache) InvalidateAll(context.Context) {
	f.invalidations++
	clear(f.entries)
}

// fakeCarts stores carts as JSON so handlers never share memory with it.
type fakeCarts struct {
	saved   map[string][]byte
	loadErr error
}

func newFakeCarts() *fakeCarts { return &fakeCarts{saved: map[string][]byte{}} }

func (f *fakeCarts) Load(_ context.Context, id string) (*cart.Cart, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	raw, ok := f.saved[id]
	if !ok {
		return cart.New(id), nil
	}
	var c cart.Cart
	if err := json.Unmarshal(raw, &c); err != nil {
		return nil, err
	}
	return &c, nil
}

func (f *fakeCarts) Save(_ context.Context, c *cart.Cart) error {
	if c.Empty() {
		delete(f.saved, c.ID)
		return nil
	}
	raw, err := json.Marshal(c)
	if err != nil {
		return err
	}
	f.saved[c.ID] = raw
	return nil
}

func (f *fakeCarts) Delete(_ context.Context, id string) error {
	delete(f.saved, id)
	return nil
}

func (f *fakeCarts) put(t *testing.T, c *cart.Cart) *http.Cookie {
	t.Helper()
	require.NoError(t, f.Save(context.Background(), c))
	return &http.Cookie{Name: cart.CookieName, Value: c.ID}
}

func (f *fakeCarts) get(t *testing.T, id string) *cart.Cart {
	t.Helper()
	c, err := f.Load(context.Background(), id)
	require.NoError(t, err)
	return c
}

type fakeSessions struct {
	created   []string
	createErr error
	destroyed int
}

func (f *fakeSessions) Create(_ context.Context, w http.ResponseWriter, email string) (*session.Data, error) {
	if f.createErr != nil {
		return nil, f.createErr
	}
	f.created = append(f.created, email)
	now := time.Now()
	http.SetCookie(w, &http.Cookie{Name: session.CookieName, Value: "sid"})
	return &session.Data{Email: email, CreatedAt: now, ExpiresAt: now.Add(time.Hour)}, nil
}

func (f *fakeSessions) Destroy(context.Context, http.ResponseWriter, *http.Request) error {
	f.destroyed++
	return nil
}

// --- requests ---

// serve routes a single request through a chi router holding one route so
// URL parameters resolve as in production.
func serve(t *testing.T, method, pattern string, h http.HandlerFunc, target string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case nil:
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(b))
	}

	r := chi.NewRouter()
	r.Method(method, pattern, h)

	req := httptest.NewRequest(method, target, &buf)
	req.Header.Set("Content-Type", "application/json")
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	r.ServeHTTP(rr, req)
	return rr
}

// decode unmarshals a JSON response body.
func decode[T any](t *testing.T, rr *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &v), "body: %s", rr.Body.String())
	return v
}

// cookieNamed returns the response cookie with the given name, or nil.
func cookieNamed(rr *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, c := range rr.Result().Cookies() {
		if c.Name == name {
			return c
		}
	}
	return nil
}
