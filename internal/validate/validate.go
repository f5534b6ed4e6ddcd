// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package validate checks request bodies against declarative field schemas.
// A schema is a list of per-field rules; checking a candidate collects the
// complete list of human-readable error messages rather than stopping at
// the first failure, so clients can show every problem at once.
package validate

import (
	"fmt"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// Rule describes the constraints for one field.
type Rule struct {
	Field    string // form/body key, e.g. "title"
	Label    string // human label used in messages, e.g. "Title"
	Required bool

	// Min and Max bound the trimmed value's rune count. Zero means unbounded.
	Min int
	Max int

	// Pattern, when set, must match the whole value. PatternMessage is the
	// error reported on mismatch.
	Pattern        *regexp.Regexp
	PatternMessage string

	// Enum restricts the value to a fixed set.
	Enum []string

	// ID requires the value to be a syntactically valid store identifier.
	ID        bool
	IDMessage string // defaults to "Invalid <label> ID"

	// AllowEmpty accepts an explicitly empty value for optional fields
	// (e.g. clearing a description).
	AllowEmpty bool
}

// Schema is an ordered set of rules plus object-level constraints.
type Schema struct {
	Rules []Rule

	// Strict rejects any field not named by a rule or listed in Allow.
	// Used for post create to prevent silent data pollution.
	Strict bool
	Allow  []string

	// RequireOne demands at least one recognized field be present.
	// Used for partial updates.
	RequireOne bool
}

// Check validates candidate values against the schema. Each known value is
// trimmed; the returned map holds the cleaned values. The error slice is
// empty when the candidate is valid.
func (s *Schema) Check(values map[string]string) (map[string]string, []string) {
	cleaned := make(map[string]string, len(values))
	var errs []string

	known := make(map[string]bool, len(s.Rules)+len(s.Allow))
	for _, r := range s.Rules {
		known[r.Field] = true
	}
	for _, f := range s.Allow {
		known[f] = true
	}

	if s.Strict {
		for key := range values {
			if !known[key] {
				errs = append(errs, fmt.Sprintf("%q is not allowed", key))
			}
		}
	}

	recognized := 0
	for _, r := range s.Rules {
		raw, present := values[r.Field]
		value := strings.TrimSpace(raw)

		if !present || (value == "" && !r.Required && !r.AllowEmpty) {
			if r.Required {
				errs = append(errs, r.Label+" is required")
			}
			continue
		}
		recognized++
		cleaned[r.Field] = value

		if value == "" {
			if r.Required {
				errs = append(errs, r.Label+" is required")
			}
			continue
		}

		if msg := r.check(value); msg != "" {
			errs = append(errs, msg)
		}
	}

	if s.RequireOne && recognized == 0 && len(errs) == 0 {
		errs = append(errs, "At least one field must be provided")
	}

	return cleaned, errs
}

// check applies the value-level constraints of a single rule.
func (r *Rule) check(value string) string {
	n := utf8.RuneCountInString(value)
	if r.Min > 0 && n < r.Min {
		return fmt.Sprintf("%s must be at least %d characters", r.Label, r.Min)
	}
	if r.Max > 0 && n > r.Max {
		return fmt.Sprintf("%s cannot exceed %d characters", r.Label, r.Max)
	}

	if r.Pattern != nil && !r.Pattern.MatchString(value) {
		return r.PatternMessage
	}

	if len(r.Enum) > 0 {
		found := false
		for _, e := range r.Enum {
			if value == e {
				found = true
				break
			}
		}
		if !found {
			return fmt.Sprintf("%s must be one of: %s", r.Label, strings.Join(r.Enum, ", "))
		}
	}

	if r.ID && !IsID(value) {
		if r.IDMessage != "" {
			return r.IDMessage
		}
		return "Invalid " + strings.ToLower(r.Label) + " ID"
	}

	return ""
}

// IsID reports whether s is a syntactically valid store identifier.
func IsID(s string) bool {
	_, err := uuid.Parse(s)
	return err == nil
}
