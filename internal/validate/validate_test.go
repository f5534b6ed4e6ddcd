// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package validate

import (
	"regexp"
	"strings"
	"testing"
)

func containsError(errs []string, want string) bool {
	for _, e := range errs {
		if e == want {
			return true
		}
	}
	return false
}

func TestCheckRequired(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{
			{Field: "title", Label: "Title", Required: true},
			{Field: "content", Label: "Content", Required: true},
		},
	}

	_, errs := schema.Check(map[string]string{})
	if len(errs) != 2 {
		t.Fatalf("expected 2 errors, got %d: %v", len(errs), errs)
	}
	if !containsError(errs, "Title is required") {
		t.Errorf("missing title error in %v", errs)
	}
	if !containsError(errs, "Content is required") {
		t.Errorf("missing content error in %v", errs)
	}
}

func TestCheckWhitespaceOnlyIsMissing(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{{Field: "name", Label: "Name", Required: true}},
	}

	_, errs := schema.Check(map[string]string{"name": "   "})
	if !containsError(errs, "Name is required") {
		t.Errorf("expected required error for whitespace value, got %v", errs)
	}
}

func TestCheckMinMax(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{{Field: "title", Label: "Title", Required: true, Min: 3, Max: 10}},
	}

	_, errs := schema.Check(map[string]string{"title": "ab"})
	if !containsError(errs, "Title must be at least 3 characters") {
		t.Errorf("expected min error, got %v", errs)
	}

	_, errs = schema.Check(map[string]string{"title": strings.Repeat("a", 11)})
	if !containsError(errs, "Title cannot exceed 10 characters") {
		t.Errorf("expected max error, got %v", errs)
	}

	cleaned, errs := schema.Check(map[string]string{"title": "  valid  "})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if cleaned["title"] != "valid" {
		t.Errorf("expected trimmed value, got %q", cleaned["title"])
	}
}

func TestCheckMinCountsRunes(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{{Field: "name", Label: "Name", Required: true, Min: 3}},
	}

	// Three runes, more than three bytes.
	_, errs := schema.Check(map[string]string{"name": "日本語"})
	if len(errs) != 0 {
		t.Errorf("expected multibyte value to satisfy min, got %v", errs)
	}
}

func TestCheckPattern(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{{
			Field: "email", Label: "Email", Required: true,
			Pattern:        regexp.MustCompile(`^\S+@\S+$`),
			PatternMessage: "Please fill a valid email address",
		}},
	}

	_, errs := schema.Check(map[string]string{"email": "not-an-email"})
	if !containsError(errs, "Please fill a valid email address") {
		t.Errorf("expected pattern error, got %v", errs)
	}

	_, errs = schema.Check(map[string]string{"email": "a@b.com"})
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestCheckID(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{{Field: "category", Label: "Category", Required: true, ID: true, IDMessage: "Invalid category ID"}},
	}

	_, errs := schema.Check(map[string]string{"category": "not-a-uuid"})
	if !containsError(errs, "Invalid category ID") {
		t.Errorf("expected ID error, got %v", errs)
	}

	_, errs = schema.Check(map[string]string{"category": "6ba7b810-9dad-11d1-80b4-00c04fd430c8"})
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}
}

func TestCheckStrictRejectsUnknown(t *testing.T) {
	schema := &Schema{
		Rules:  []Rule{{Field: "title", Label: "Title", Required: true}},
		Strict: true,
		Allow:  []string{"tags"},
	}

	_, errs := schema.Check(map[string]string{
		"title":  "ok",
		"tags":   "a,b",
		"author": "sneaky",
	})
	if !containsError(errs, `"author" is not allowed`) {
		t.Errorf("expected unknown-field error, got %v", errs)
	}
}

func TestCheckRequireOne(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{
			{Field: "title", Label: "Title", Min: 3},
			{Field: "content", Label: "Content"},
		},
		RequireOne: true,
	}

	_, errs := schema.Check(map[string]string{})
	if !containsError(errs, "At least one field must be provided") {
		t.Errorf("expected require-one error, got %v", errs)
	}

	_, errs = schema.Check(map[string]string{"title": "New title"})
	if len(errs) != 0 {
		t.Errorf("unexpected errors: %v", errs)
	}

	// A provided but invalid field fails its own rule, not the presence rule.
	_, errs = schema.Check(map[string]string{"title": "ab"})
	if !containsError(errs, "Title must be at least 3 characters") {
		t.Errorf("expected min error, got %v", errs)
	}
	if containsError(errs, "At least one field must be provided") {
		t.Errorf("presence rule should not fire when a field was given: %v", errs)
	}
}

func TestCheckAllowEmpty(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{{Field: "description", Label: "Description", Max: 10, AllowEmpty: true}},
	}

	cleaned, errs := schema.Check(map[string]string{"description": ""})
	if len(errs) != 0 {
		t.Fatalf("unexpected errors: %v", errs)
	}
	if v, ok := cleaned["description"]; !ok || v != "" {
		t.Errorf("expected empty cleaned value to be preserved, got %v", cleaned)
	}
}

func TestCheckCollectsAllErrors(t *testing.T) {
	schema := &Schema{
		Rules: []Rule{
			{Field: "title", Label: "Title", Required: true, Min: 3},
			{Field: "content", Label: "Content", Required: true, Min: 10},
			{Field: "category", Label: "Category", Required: true, ID: true},
		},
	}

	_, errs := schema.Check(map[string]string{
		"title":    "ab",
		"category": "nope",
	})
	if len(errs) != 3 {
		t.Errorf("expected 3 errors (min, required, id), got %d: %v", len(errs), errs)
	}
}

func TestIsID(t *testing.T) {
	if !IsID("6ba7b810-9dad-11d1-80b4-00c04fd430c8") {
		t.Error("valid UUID rejected")
	}
	if IsID("hello") {
		t.Error("invalid string accepted")
	}
	if IsID("") {
		t.Error("empty string accepted")
	}
}
