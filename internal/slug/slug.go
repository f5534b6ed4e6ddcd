// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package slug provides URL-friendly slug generation from arbitrary strings.
package slug

import (
	"regexp"
	"strings"
)

var (
	// nonWord matches anything that isn't a word character or a space.
	nonWord = regexp.MustCompile(`[^\w ]+`)
	// whitespace matches runs of whitespace to be replaced by one hyphen.
	whitespace = regexp.MustCompile(`\s+`)
)

// Generate creates a URL-friendly slug from the given string.
// The derivation is deterministic: lowercase, strip non-word characters,
// collapse whitespace into hyphens. Example: "Tech & Co" → "tech-co".
func Generate(s string) string {
	result := strings.ToLower(strings.TrimSpace(s))
	result = nonWord.ReplaceAllString(result, "")
	result = whitespace.ReplaceAllString(result, "-")
	return strings.Trim(result, "-")
}
