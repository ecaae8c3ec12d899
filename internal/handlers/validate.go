package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"

	"folio/internal/models"
	"folio/internal/slug"
)

// Request limits.
const (
	maxBodyBytes    = 64 << 10
	defaultLogLimit = 50
	maxLogLimit     = 200
)

var errBadID = errors.New("id must be a positive integer")

// parseID reads the {id} URL parameter.
func parseID(r *http.Request) (int64, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 64)
	if err != nil || id <= 0 {
		return 0, errBadID
	}
	return id, nil
}

// queryLimit reads ?limit=n. Missing or malformed values yield def; values
// above max are capped.
func queryLimit(r *http.Request, def, max int) int {
	n, err := strconv.Atoi(r.URL.Query().Get("limit"))
	if err != nil || n <= 0 {
		return def
	}
	return min(n, max)
}

// decodeCategoryInput reads a category payload from the request body and
// normalizes it: names and descriptions are trimmed, an empty description
// becomes nil, and a missing slug is generated from the name.
func decodeCategoryInput(w http.ResponseWriter, r *http.Request) (models.CategoryInput, error) {
	var in models.CategoryInput
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return in, err
	}

	in.Name = strings.TrimSpace(in.Name)
	in.Slug = strings.TrimSpace(in.Slug)
	if in.Slug == "" {
		in.Slug = slug.Generate(in.Name)
	}
	if in.Description != nil {
		d := strings.TrimSpace(*in.Description)
		if d == "" {
			in.Description = nil
		} else {
			in.Description = &d
		}
	}
	return in, nil
}
