// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"log/slog"
	"net/http"

	"folio/internal/category"
)

// Categories groups the JSON handlers for the category hierarchy. Reads go
// through the service cache; writes clear it.
type Categories struct {
	svc *category.Service
}

// NewCategories creates a new Categories handler group.
func NewCategories(svc *category.Service) *Categories {
	return &Categories{svc: svc}
}

// List returns the validated flat category list.
func (h *Categories) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.svc.GetCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

// Tree returns the category forest.
func (h *Categories) Tree(w http.ResponseWriter, r *http.Request) {
	roots, err := h.svc.Tree(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, roots)
}

// Get returns a single category.
func (h *Categories) Get(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	list, err := h.svc.GetCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	c := category.FindByID(id, list)
	if c == nil {
		writeError(w, r, category.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Path returns the breadcrumb for a category, root first.
func (h *Categories) Path(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}

	list, err := h.svc.GetCategories(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	c := category.FindByID(id, list)
	if c == nil {
		writeError(w, r, category.ErrNotFound)
		return
	}
	writeJSON(w, http.StatusOK, h.svc.GetCategoryPath(c, list))
}

// Create adds a category. A missing slug is generated from the name.
func (h *Categories) Create(w http.ResponseWriter, r *http.Request) {
	in, err := decodeCategoryInput(w, r)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}
	if err := category.ValidateInput(in); err != nil {
		writeError(w, r, err)
		return
	}

	created, err := h.svc.CreateCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("category created", "id", created.ID, "slug", created.Slug)
	writeJSON(w, http.StatusCreated, created)
}

// Update replaces a category's fields, including its parent.
func (h *Categories) Update(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	in, err := decodeCategoryInput(w, r)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, codeBadRequest, "invalid JSON body")
		return
	}
	if err := category.ValidateInput(in); err != nil {
		writeError(w, r, err)
		return
	}

	updated, err := h.svc.UpdateCategory(r.Context(), id, in)
	if err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("category updated", "id", updated.ID, "slug", updated.Slug)
	writeJSON(w, http.StatusOK, updated)
}

// Delete removes a category. Its children become roots.
func (h *Categories) Delete(w http.ResponseWriter, r *http.Request) {
	id, err := parseID(r)
	if err != nil {
		writeErrorCode(w, http.StatusBadRequest, codeBadRequest, err.Error())
		return
	}
	if err := h.svc.DeleteCategory(r.Context(), id); err != nil {
		writeError(w, r, err)
		return
	}
	slog.Info("category deleted", "id", id)
	w.WriteHeader(http.StatusNoContent)
}
