// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"

	"folio/internal/category"
)

// Error codes that are not category kinds.
const (
	codeBadRequest = "BAD_REQUEST"
	codeNotFound   = "NOT_FOUND"
	codeInternal   = "INTERNAL_ERROR"
)

type errorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type errorResponse struct {
	Error errorDetail `json:"error"`
}

// writeJSON writes a JSON response with the given status code.
func writeJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		slog.Debug("write json response failed", "status", status, "error", err)
	}
}

// writeErrorCode writes the standard error envelope.
func writeErrorCode(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, errorResponse{Error: errorDetail{Code: code, Message: message}})
}

// writeError maps err to a status code and error envelope. Server-side
// failures are logged and their details kept out of the response.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	if errors.Is(err, category.ErrNotFound) {
		writeErrorCode(w, http.StatusNotFound, codeNotFound, "category not found")
		return
	}

	var ce *category.Error
	if !errors.As(err, &ce) {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "error", err)
		writeErrorCode(w, http.StatusInternalServerError, codeInternal, "internal server error")
		return
	}

	status := statusForKind(ce.Kind)
	if status >= http.StatusInternalServerError {
		slog.Error("request failed", "method", r.Method, "path", r.URL.Path, "kind", ce.Kind, "error", err)
		writeErrorCode(w, status, string(ce.Kind), "category service unavailable")
		return
	}
	writeErrorCode(w, status, string(ce.Kind), ce.Message)
}

// statusForKind maps a category error kind to its HTTP status.
func statusForKind(k category.Kind) int {
	switch k {
	case category.KindInvalidCategory:
		return http.StatusUnprocessableEntity
	case category.KindCircularReference:
		return http.StatusConflict
	case category.KindFetch, category.KindCreate, category.KindUpdate, category.KindDelete:
		return http.StatusBadGateway
	default:
		return http.StatusInternalServerError
	}
}
