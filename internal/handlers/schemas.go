// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"regexp"
	"strings"
	"unicode/utf8"

	"inkwell/internal/validate"
)

// emailPattern matches the address format accepted at registration.
var emailPattern = regexp.MustCompile(`^\w+([\.-]?\w+)*@\w+([\.-]?\w+)*(\.\w{2,3})+$`)

// maxTagLen bounds a single tag's rune count.
const maxTagLen = 50

var registerSchema = &validate.Schema{
	Rules: []validate.Rule{
		{Field: "name", Label: "Name", Required: true, Min: 2, Max: 100},
		{
			Field: "email", Label: "Email", Required: true,
			Pattern:        emailPattern,
			PatternMessage: "Please fill a valid email address",
		},
		{Field: "password", Label: "Password", Required: true, Min: 6, Max: 128},
	},
}

var loginSchema = &validate.Schema{
	Rules: []validate.Rule{
		{Field: "email", Label: "Email", Required: true},
		{Field: "password", Label: "Password", Required: true},
	},
}

var categorySchema = &validate.Schema{
	Rules: []validate.Rule{
		{Field: "name", Label: "Category name", Required: true, Max: 50},
		{Field: "description", Label: "Description", Max: 200, AllowEmpty: true},
	},
}

// postCreateSchema is strict: unknown fields are rejected so nothing sneaks
// into the document. An author field is tolerated but never read; the stored
// author is always the authenticated caller.
var postCreateSchema = &validate.Schema{
	Rules: []validate.Rule{
		{Field: "title", Label: "Title", Required: true, Min: 3, Max: 200},
		{Field: "content", Label: "Content", Required: true, Min: 10},
		{Field: "category", Label: "Category", Required: true, ID: true, IDMessage: "Invalid category ID"},
	},
	Strict: true,
	Allow:  []string{"tags", "featuredImage", "author"},
}

var postUpdateSchema = &validate.Schema{
	Rules: []validate.Rule{
		{Field: "title", Label: "Title", Min: 3, Max: 200},
		{Field: "content", Label: "Content", Min: 10},
		{Field: "category", Label: "Category", ID: true, IDMessage: "Invalid category ID"},
		{Field: "tags", Label: "Tags"},
		{Field: "featuredImage", Label: "Featured image"},
	},
	RequireOne: true,
}

var commentSchema = &validate.Schema{
	Rules: []validate.Rule{
		{Field: "content", Label: "Comment", Required: true, Max: 500},
	},
}

// normalizeTags flattens the tags field into a trimmed, non-empty list.
// Clients may send a single comma-separated string or a repeated form
// field; both collapse to the same result.
func normalizeTags(raw []string) []string {
	tags := []string{}
	for _, value := range raw {
		for _, t := range strings.Split(value, ",") {
			t = strings.TrimSpace(t)
			if t != "" {
				tags = append(tags, t)
			}
		}
	}
	return tags
}

// validateTags checks each normalized tag's length.
func validateTags(tags []string) []string {
	var errs []string
	for _, t := range tags {
		if utf8.RuneCountInString(t) > maxTagLen {
			errs = append(errs, "Tag cannot exceed 50 characters")
			break
		}
	}
	return errs
}
