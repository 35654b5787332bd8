// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"net/http"

	"inkwell/internal/store"
)

// Categories groups the category HTTP handlers.
type Categories struct {
	store *store.CategoryStore
}

// NewCategories creates a new Categories handler group.
func NewCategories(categoryStore *store.CategoryStore) *Categories {
	return &Categories{store: categoryStore}
}

// List handles GET /api/categories.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	categories, err := h.store.List()
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusOK, categories)
}

// Create handles POST /api/categories. The name must come from the fixed
// category set and be unused.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	var body struct {
		Name        string  `json:"name"`
		Description *string `json:"description"`
	}
	if err := decodeJSON(r, &body); err != nil {
		respondError(w, err)
		return
	}

	category, err := h.store.Create(body.Name, body.Description)
	if err != nil {
		respondError(w, err)
		return
	}
	respondJSON(w, http.StatusCreated, category)
}
