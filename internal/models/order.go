// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import (
	"strings"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Order lifecycle labels written by the storefront and the back-office.
// Status and PaymentStatus are free text; other writers (the payment
// gateway, manual edits) may store different spellings.
const (
	OrderStatusPending   = "pendiente"
	OrderStatusShipped   = "enviada"
	OrderStatusCompleted = "completada"
	OrderStatusCancelled = "cancelada"

	PaymentStatusPending  = "PENDING"
	PaymentStatusApproved = "APPROVED"
	PaymentStatusDeclined = "DECLINED"
)

// Payment methods accepted at checkout.
const (
	PaymentMethodCashOnDelivery = "cash_on_delivery"
	PaymentMethodCard           = "card"
)

// Order is a single purchased line: one product with a quantity.
// CreatedAt is kept as the ISO-8601 string the snapshot boundary delivers,
// so malformed legacy values survive until the dashboard buckets them.
type Order struct {
	ID            uuid.UUID       `json:"id"`
	CheckoutID    uuid.UUID       `json:"checkout_id"`
	ProductID     *uuid.UUID      `json:"product_id"`
	CustomerName  string          `json:"customer_name"`
	CustomerPhone string          `json:"customer_phone"`
	Address       string          `json:"address"`
	TotalAmount   decimal.Decimal `json:"total_amount"`
	Quantity      int             `json:"quantity"`
	Status        string          `json:"status"`
	PaymentStatus string          `json:"payment_status"`
	PaymentMethod string          `json:"payment_method"`
	CreatedAt     string          `json:"created_at"`
}

// IsCancelledStatus reports whether an order status marks a cancellation.
// Both grammatical genders occur in stored data.
func IsCancelledStatus(status string) bool {
	s := strings.ToLower(status)
	return s == OrderStatusCancelled || s == "cancelado"
}
