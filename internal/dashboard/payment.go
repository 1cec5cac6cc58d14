// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package dashboard

import "strings"

// Canonical payment method tokens.
const (
	MethodCard     = "card"
	MethodCash     = "cash"
	MethodTransfer = "transfer"
	MethodOther    = "other"
)

// methodSynonyms maps raw spellings found in orders to canonical tokens.
var methodSynonyms = map[string]string{
	"card":             MethodCard,
	"credit_card":      MethodCard,
	"debit_card":       MethodCard,
	"tarjeta":          MethodCard,
	"wompi":            MethodCard,
	"cash":             MethodCash,
	"cash_on_delivery": MethodCash,
	"contra_entrega":   MethodCash,
	"contraentrega":    MethodCash,
	"efectivo":         MethodCash,
	"cod":              MethodCash,
	"transfer":         MethodTransfer,
	"bank_transfer":    MethodTransfer,
	"transferencia":    MethodTransfer,
}

var methodLabels = map[string]string{
	MethodCard:     "Tarjeta",
	MethodCash:     "Pago contra entrega",
	MethodTransfer: "Transferencia",
}

// fallbackMethodLabel is shown when neither the label map nor the method has text.
const fallbackMethodLabel = "Otros"

// NormalizeMethod collapses a raw payment method into a canonical token.
// Unknown and empty methods become MethodOther.
func NormalizeMethod(raw string) string {
	key := strings.ToLower(strings.TrimSpace(raw))
	key = strings.NewReplacer("-", "_", " ", "_").Replace(key)
	if m, ok := methodSynonyms[key]; ok {
		return m
	}
	return MethodOther
}

// MethodLabel returns the display label for a canonical method: the fixed
// label, else the method itself, else "Otros".
func MethodLabel(method string) string {
	if l, ok := methodLabels[method]; ok {
		return l
	}
	if method != "" && method != MethodOther {
		return method
	}
	return fallbackMethodLabel
}
