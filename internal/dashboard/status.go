// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import (
	"strings"

	"gamestore/internal/models"
)

// Card payments update payment_status; cash-on-delivery orders are closed
// by moving status. Either field alone admits an order.
var (
	approvedPaymentStatuses = map[string]bool{"APPROVED": true, "PAID": true, "COMPLETED": true}
	completedOrderStatuses  = map[string]bool{"completada": true, "enviada": true, "completado": true}
)

const pendingOrderStatus = "pendiente"

// IsPaid reports whether an order counts toward revenue.
func IsPaid(o models.Order) bool {
	return approvedPaymentStatuses[strings.ToUpper(o.PaymentStatus)] ||
		completedOrderStatuses[strings.ToLower(o.Status)]
}

// IsPending reports whether the order status is pending.
func IsPending(o models.Order) bool {
	return strings.ToLower(o.Status) == pendingOrderStatus
}

// IsCancelled reports whether the order status is cancelled.
func IsCancelled(o models.Order) bool {
	return models.IsCancelledStatus(o.Status)
}
