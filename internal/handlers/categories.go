// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkwell/internal/models"
	"inkwell/internal/store"
)

// Categories groups the category listing and creation handlers.
type Categories struct {
	categories *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categories *store.CategoryStore) *Categories {
	return &Categories{categories: categories}
}

// categoryListResponse includes the count the client's dropdown uses.
type categoryListResponse struct {
	Success bool              `json:"success"`
	Count   int               `json:"count"`
	Data    []models.Category `json:"data"`
}

// List handles GET /api/categories: all categories, alphabetical by name.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	items, err := h.categories.List()
	if err != nil {
		respondServerError(w, "list categories failed", err)
		return
	}
	if items == nil {
		items = []models.Category{}
	}

	respond(w, http.StatusOK, categoryListResponse{
		Success: true,
		Count:   len(items),
		Data:    items,
	})
}

// Create handles POST /api/categories. Duplicate names conflict; the slug
// is derived server-side from the name.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string `json:"name"`
		Description string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, http.StatusBadRequest, "Invalid request body")
		return
	}

	cleaned, errs := categorySchema.Check(map[string]string{
		"name":        body.Name,
		"description": body.Description,
	})
	if len(errs) > 0 {
		respondValidation(w, errs)
		return
	}

	existing, err := h.categories.FindByName(cleaned["name"])
	if err != nil {
		respondServerError(w, "category lookup failed", err)
		return
	}
	if existing != nil {
		respondError(w, http.StatusConflict, "Category already exists")
		return
	}

	category, err := h.categories.Create(cleaned["name"], cleaned["description"])
	if err != nil {
		// Identical name or slug racing past the pre-check loses to the
		// unique index and lands here.
		if store.IsUniqueViolation(err) {
			respondError(w, http.StatusConflict, "Category already exists")
			return
		}
		respondServerError(w, "category create failed", err)
		return
	}

	respond(w, http.StatusCreated, struct {
		Success bool             `json:"success"`
		Message string           `json:"message"`
		Data    *models.Category `json:"data"`
	}{true, "Category created successfully", category})
}
