// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from display names.
package slug

import (
	"regexp"
	"strings"
)

// nonAlphanumeric matches every maximal run of characters outside [a-z0-9].
var nonAlphanumeric = regexp.MustCompile(`[^a-z0-9]+`)

// Generate derives a slug from a name: lowercase, then each run of
// characters outside [a-z0-9] becomes a single hyphen. Leading and trailing
// runs are kept as hyphens, and no uniqueness is implied.
// Example: "Nintendo Switch 2" → "nintendo-switch-2"
func Generate(name string) string {
	return nonAlphanumeric.ReplaceAllString(strings.ToLower(name), "-")
}

// Or returns explicit when it is set, otherwise the slug generated from name.
func Or(explicit, name string) string {
	if explicit != "" {
		return explicit
	}
	return Generate(name)
}
