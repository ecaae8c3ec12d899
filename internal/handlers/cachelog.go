package handlers

import (
	"context"
	"net/http"

	"folio/internal/store"
)

// InvalidationLog reads recorded cache invalidations.
type InvalidationLog interface {
	RecentEntries(ctx context.Context, limit int) ([]store.CacheLogEntry, error)
}

// CacheLog serves the cache invalidation audit trail.
type CacheLog struct {
	log InvalidationLog
}

// NewCacheLog creates a new CacheLog handler.
func NewCacheLog(log InvalidationLog) *CacheLog {
	return &CacheLog{log: log}
}

// Recent returns the latest invalidations, newest first.
func (h *CacheLog) Recent(w http.ResponseWriter, r *http.Request) {
	entries, err := h.log.RecentEntries(r.Context(), queryLimit(r, defaultLogLimit, maxLogLimit))
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
