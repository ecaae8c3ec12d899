// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"context"
	"log/slog"
	"net/http"
	"slices"

	"github.com/go-chi/chi/v5"

	"folio/internal/category"
	"folio/internal/markdown"
	"folio/internal/models"
	"folio/internal/related"
)

// excerptLen is the length of excerpts derived from post bodies.
const excerptLen = 200

// PostReader reads published posts.
type PostReader interface {
	ListPublished(ctx context.Context) ([]models.Post, error)
	FindBySlug(ctx context.Context, slug string) (*models.Post, error)
}

// TagLister lists tags.
type TagLister interface {
	List(ctx context.Context) ([]models.Tag, error)
}

// Posts groups the JSON handlers for blog posts and tags. Category
// filtering, breadcrumbs and related posts use the category service.
type Posts struct {
	posts      PostReader
	tags       TagLister
	categories *category.Service
}

// NewPosts creates a new Posts handler group.
func NewPosts(posts PostReader, tags TagLister, categories *category.Service) *Posts {
	return &Posts{posts: posts, tags: tags, categories: categories}
}

// postDetail is a post with its rendered body and category breadcrumb.
type postDetail struct {
	models.Post
	HTML       string            `json:"html"`
	Breadcrumb []models.Category `json:"breadcrumb"`
}

// List returns published posts. With ?category=slug only posts filed under
// that category or one of its descendants are returned.
func (h *Posts) List(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	posts, err := h.posts.ListPublished(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	if catSlug := r.URL.Query().Get("category"); catSlug != "" {
		list, err := h.categories.GetCategories(ctx)
		if err != nil {
			writeError(w, r, err)
			return
		}
		idx := slices.IndexFunc(list, func(c models.Category) bool { return c.Slug == catSlug })
		if idx < 0 {
			writeError(w, r, category.ErrNotFound)
			return
		}
		subtree := category.Descendants(list[idx].ID, list)
		posts = slices.DeleteFunc(posts, func(p models.Post) bool {
			return p.CategoryID == nil || !slices.Contains(subtree, *p.CategoryID)
		})
	}

	for i := range posts {
		if posts[i].Excerpt == nil {
			if s := markdown.Summary(posts[i].Body, excerptLen); s != "" {
				posts[i].Excerpt = &s
			}
		}
	}
	writeJSON(w, http.StatusOK, posts)
}

// Get returns a single post with its body rendered to HTML and the ancestor
// path of its category.
func (h *Posts) Get(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	post, err := h.posts.FindBySlug(ctx, slugParam)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if post == nil {
		writeErrorCode(w, http.StatusNotFound, codeNotFound, "post not found")
		return
	}

	rendered, err := markdown.ToHTML(post.Body)
	if err != nil {
		slog.Error("render post body failed", "error", err, "slug", slugParam)
		writeErrorCode(w, http.StatusInternalServerError, codeInternal, "internal server error")
		return
	}

	writeJSON(w, http.StatusOK, postDetail{
		Post:       *post,
		HTML:       rendered,
		Breadcrumb: h.breadcrumb(ctx, post),
	})
}

// breadcrumb resolves a post's category path. Category failures degrade to
// an empty breadcrumb rather than failing the page.
func (h *Posts) breadcrumb(ctx context.Context, post *models.Post) []models.Category {
	if post.CategoryID == nil {
		return []models.Category{}
	}
	list, err := h.categories.GetCategories(ctx)
	if err != nil {
		slog.Warn("breadcrumb unavailable", "post", post.Slug, "error", err)
		return []models.Category{}
	}
	return category.Path(category.FindByID(*post.CategoryID, list), list)
}

// Related returns the posts most closely related to the given post.
func (h *Posts) Related(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	slugParam := chi.URLParam(r, "slug")

	target, err := h.posts.FindBySlug(ctx, slugParam)
	if err != nil {
		writeError(w, r, err)
		return
	}
	if target == nil {
		writeErrorCode(w, http.StatusNotFound, codeNotFound, "post not found")
		return
	}

	candidates, err := h.posts.ListPublished(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}
	list, err := h.categories.GetCategories(ctx)
	if err != nil {
		writeError(w, r, err)
		return
	}

	limit := queryLimit(r, related.DefaultLimit, related.MaxLimit)
	writeJSON(w, http.StatusOK, related.Rank(*target, candidates, list, limit))
}

// Tags returns all tags.
func (h *Posts) Tags(w http.ResponseWriter, r *http.Request) {
	tags, err := h.tags.List(r.Context())
	if err != nil {
		writeError(w, r, err)
		return
	}
	writeJSON(w, http.StatusOK, tags)
}
