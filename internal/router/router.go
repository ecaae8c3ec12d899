// Package router sets up all HTTP routes and middleware chains for the
// folio API. Reads are open; category writes sit behind the rate limiter.
package router

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"folio/internal/handlers"
	"folio/internal/middleware"
)

// healthTimeout bounds each dependency check made by /health.
const healthTimeout = 2 * time.Second

// HealthCheck reports whether a dependency is reachable.
type HealthCheck func(ctx context.Context) error

// Deps are the handler groups and middleware the router wires together.
type Deps struct {
	Categories *handlers.Categories
	Posts      *handlers.Posts
	CacheLog   *handlers.CacheLog

	// WriteLimiter guards category mutations. Nil disables limiting.
	WriteLimiter *middleware.RateLimiter

	// Checks are run by /health, keyed by dependency name.
	Checks map[string]HealthCheck
}

// New creates and returns the configured Chi router with all middleware
// and route groups wired up.
func New(d Deps) chi.Router {
	r := chi.NewRouter()

	// Global middleware, applied to every request. RequestID runs first so
	// the logger and recoverer can report the id.
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Logger)
	r.Use(middleware.SecureHeaders)

	r.Get("/health", healthHandler(d.Checks))

	r.Route("/api", func(r chi.Router) {
		r.Route("/categories", func(r chi.Router) {
			r.Get("/", d.Categories.List)
			r.Get("/tree", d.Categories.Tree)
			r.Get("/{id}", d.Categories.Get)
			r.Get("/{id}/path", d.Categories.Path)

			r.Group(func(r chi.Router) {
				if d.WriteLimiter != nil {
					r.Use(d.WriteLimiter.Middleware)
				}
				r.Post("/", d.Categories.Create)
				r.Put("/{id}", d.Categories.Update)
				r.Delete("/{id}", d.Categories.Delete)
			})
		})

		r.Route("/posts", func(r chi.Router) {
			r.Get("/", d.Posts.List)
			r.Get("/{slug}", d.Posts.Get)
			r.Get("/{slug}/related", d.Posts.Related)
		})

		r.Get("/tags", d.Posts.Tags)

		if d.CacheLog != nil {
			r.Get("/cache/invalidations", d.CacheLog.Recent)
		}
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeStatus(w, http.StatusNotFound, map[string]any{
			"error": map[string]string{"code": "NOT_FOUND", "message": "no such endpoint"},
		})
	})

	return r
}

// healthHandler runs every check and answers 200 when all pass, 503
// otherwise. The body lists each dependency's state.
func healthHandler(checks map[string]HealthCheck) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		status := "ok"
		deps := map[string]string{}
		for name, check := range checks {
			ctx, cancel := context.WithTimeout(r.Context(), healthTimeout)
			err := check(ctx)
			cancel()
			if err != nil {
				status = "degraded"
				deps[name] = err.Error()
				continue
			}
			deps[name] = "ok"
		}

		code := http.StatusOK
		if status != "ok" {
			code = http.StatusServiceUnavailable
		}
		body := map[string]any{"status": status}
		if len(deps) > 0 {
			body["checks"] = deps
		}
		writeStatus(w, code, body)
	}
}

func writeStatus(w http.ResponseWriter, code int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(code)
	json.NewEncoder(w).Encode(body)
}
