// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gamestore/internal/apperr"
	"gamestore/internal/store"
)

// fieldsOf extracts the per-field messages of a validation error.
func fieldsOf(t *testing.T, err error) map[string]string {
	t.Helper()
	require.Error(t, err)
	require.True(t, apperr.Is(err, apperr.KindInvalid), "got %v", err)
	var ve *validationError
	require.True(t, errors.As(err, &ve))
	return ve.fields
}

func TestValidateCheckout(t *testing.T) {
	ok := checkoutRequest{
		CustomerName:  "Ana Martínez",
		CustomerPhone: "+503 7012-3456",
		Address:       "Col. Escalón, San Salvador",
		PaymentMethod: "cash_on_delivery",
	}
	require.NoError(t, validateStruct(ok))

	bad := ok
	bad.CustomerName = ""
	bad.CustomerPhone = "123"
	bad.PaymentMethod = "bitcoin"
	fields := fieldsOf(t, validateStruct(bad))

	assert.Equal(t, "is required", fields["customer_name"])
	assert.Equal(t, "must be at least 8 characters", fields["customer_phone"])
	assert.Equal(t, "must be one of: cash_on_delivery card", fields["payment_method"])
	assert.NotContains(t, fields, "address")
}

func TestValidateProductPrice(t *testing.T) {
	req := productRequest{Name: "Mando DualSense", Price: money("69.99")}
	require.NoError(t, validateStruct(req))

	req.Price = money("-1")
	fields := fieldsOf(t, validateStruct(req))
	assert.Equal(t, "must be greater than or equal to 0", fields["price"])

	req.Price = money("0")
	req.StockCount = intPtr(-3)
	req.ImageURL = "not a url"
	fields = fieldsOf(t, validateStruct(req))
	assert.Contains(t, fields, "stock_count")
	assert.Equal(t, "must be a valid URL", fields["image_url"])
}

func TestValidateReorderDives(t *testing.T) {
	req := reorderRequest{Items: []store.ReorderItem{
		{ID: uuid.New(), Order: 0},
		{ID: uuid.Nil, Order: -1},
	}}
	fields := fieldsOf(t, validateStruct(req))
	assert.Equal(t, "is required", fields["items[1].id"])
	assert.Equal(t, "must be greater than or equal to 0", fields["items[1].order"])
	assert.NotContains(t, fields, "items[0].id")

	fields = fieldsOf(t, validateStruct(reorderRequest{}))
	assert.Contains(t, fields, "items")
}

func TestValidationErrorString(t *testing.T) {
	err := &validationError{fields: map[string]string{"b": "is invalid", "a": "is required"}}
	assert.Equal(t, "a: is required; b: is invalid", err.Error())
}
