// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// handler_test.go provides shared in-memory fakes and a test router for the
// JSON handler tests.
package handlers

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"slices"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"folio/internal/category"
	"folio/internal/models"
	"folio/internal/store"
)

// memSource is an in-memory category.Source that enforces the same write
// rules as the PostgreSQL store.
type memSource struct {
	mu         sync.Mutex
	categories []models.Category
	nextID     int64
	listErr    error
}

func (m *memSource) List(_ context.Context) ([]models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	return slices.Clone(m.categories), nil
}

func (m *memSource) Create(_ context.Context, in models.CategoryInput) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if err := m.checkWrite(0, in); err != nil {
		return nil, err
	}
	m.nextID++
	c := models.Category{ID: m.nextID, Name: in.Name, Slug: in.Slug, Description: in.Description, ParentID: in.ParentID, SortOrder: in.SortOrder}
	m.categories = append(m.categories, c)
	return &c, nil
}

func (m *memSource) Update(_ context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return nil, fmt.Errorf("update category %d: %w", id, category.ErrNotFound)
	}
	if err := m.checkWrite(id, in); err != nil {
		return nil, err
	}
	if in.ParentID != nil && slices.Contains(category.Descendants(id, m.categories), *in.ParentID) {
		return nil, &category.Error{Kind: category.KindCircularReference, CategoryID: id, Message: "category would become its own ancestor"}
	}
	c := &m.categories[i]
	c.Name, c.Slug, c.Description, c.ParentID, c.SortOrder = in.Name, in.Slug, in.Description, in.ParentID, in.SortOrder
	out := *c
	return &out, nil
}

func (m *memSource) Delete(_ context.Context, id int64) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := slices.IndexFunc(m.categories, func(c models.Category) bool { return c.ID == id })
	if i < 0 {
		return fmt.Errorf("delete category %d: %w", id, category.ErrNotFound)
	}
	m.categories = slices.Delete(m.categories, i, i+1)
	for j := range m.categories {
		if p := m.categories[j].ParentID; p != nil && *p == id {
			m.categories[j].ParentID = nil
		}
	}
	return nil
}

func (m *memSource) checkWrite(id int64, in models.CategoryInput) error {
	for _, c := range m.categories {
		if c.ID != id && c.Slug == in.Slug {
			return &category.Error{Kind: category.KindInvalidCategory, Message: "slug is already in use"}
		}
	}
	if in.ParentID != nil && category.FindByID(*in.ParentID, m.categories) == nil {
		return &category.Error{Kind: category.KindInvalidCategory, Message: "parent category does not exist"}
	}
	return nil
}

// fakePosts is an in-memory PostReader.
type fakePosts struct {
	posts []models.Post
	err   error
}

func (f *fakePosts) ListPublished(_ context.Context) ([]models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	return slices.Clone(f.posts), nil
}

func (f *fakePosts) FindBySlug(_ context.Context, slug string) (*models.Post, error) {
	if f.err != nil {
		return nil, f.err
	}
	for _, p := range f.posts {
		if p.Slug == slug {
			return &p, nil
		}
	}
	return nil, nil
}

type fakeTags []models.Tag

func (f fakeTags) List(_ context.Context) ([]models.Tag, error) { return f, nil }

type fakeLog struct {
	entries   []store.CacheLogEntry
	lastLimit int
}

func (f *fakeLog) RecentEntries(_ context.Context, limit int) ([]store.CacheLogEntry, error) {
	f.lastLimit = limit
	if limit < len(f.entries) {
		return f.entries[:limit], nil
	}
	return f.entries, nil
}

func ptr[T any](v T) *T { return &v }

// seedCategories returns tech(1) > web(2) > frontend(4), tech(1) > go(3),
// life(5).
func seedCategories() *memSource {
	return &memSource{
		nextID: 5,
		categories: []models.Category{
			{ID: 1, Name: "Tech", Slug: "tech", SortOrder: 0},
			{ID: 2, Name: "Web", Slug: "web", ParentID: ptr[int64](1), SortOrder: 0},
			{ID: 3, Name: "Go", Slug: "go", ParentID: ptr[int64](1), SortOrder: 1},
			{ID: 4, Name: "Frontend", Slug: "frontend", ParentID: ptr[int64](2)},
			{ID: 5, Name: "Life", Slug: "life", SortOrder: 1},
		},
	}
}

func seedPosts() *fakePosts {
	day := func(n int) *time.Time {
		t := time.Date(2026, 3, n, 9, 0, 0, 0, time.UTC)
		return &t
	}
	tagGo := models.Tag{ID: 1, Name: "Go", Slug: "go"}
	tagCache := models.Tag{ID: 2, Name: "Caching", Slug: "caching"}
	return &fakePosts{posts: []models.Post{
		{ID: 1, Title: "Valkey caching", Slug: "valkey-caching", Body: "# Valkey\n\nCaching *categories* in Valkey.", Status: models.PostStatusPublished, CategoryID: ptr[int64](3), PublishedAt: day(10), Tags: []models.Tag{tagGo, tagCache}},
		{ID: 2, Title: "Generics", Slug: "generics", Body: "Type parameters.", Status: models.PostStatusPublished, CategoryID: ptr[int64](3), PublishedAt: day(8), Tags: []models.Tag{tagGo}},
		{ID: 3, Title: "CSS grids", Slug: "css-grids", Body: "Grids.", Status: models.PostStatusPublished, CategoryID: ptr[int64](4), PublishedAt: day(6), Tags: []models.Tag{}},
		{ID: 4, Title: "Hiking", Slug: "hiking", Body: "Mountains.", Status: models.PostStatusPublished, CategoryID: ptr[int64](5), PublishedAt: day(4), Tags: []models.Tag{}},
		{ID: 5, Title: "Uncategorized", Slug: "uncategorized", Body: "Misc.", Status: models.PostStatusPublished, PublishedAt: day(2), Tags: []models.Tag{tagCache}},
	}}
}

// testEnv wires handlers to in-memory fakes behind a chi router.
type testEnv struct {
	source *memSource
	posts  *fakePosts
	log    *fakeLog
	svc    *category.Service
	router http.Handler
}

func newTestEnv(t *testing.T) *testEnv {
	t.Helper()
	env := &testEnv{source: seedCategories(), posts: seedPosts(), log: &fakeLog{}}
	env.svc = category.NewService(env.source, category.NewMemoryCache[[]models.Category](0))

	cats := NewCategories(env.svc)
	posts := NewPosts(env.posts, fakeTags{{ID: 1, Name: "Go", Slug: "go"}}, env.svc)
	cacheLog := NewCacheLog(env.log)

	r := chi.NewRouter()
	r.Get("/api/categories", cats.List)
	r.Get("/api/categories/tree", cats.Tree)
	r.Get("/api/categories/{id}", cats.Get)
	r.Get("/api/categories/{id}/path", cats.Path)
	r.Post("/api/categories", cats.Create)
	r.Put("/api/categories/{id}", cats.Update)
	r.Delete("/api/categories/{id}", cats.Delete)
	r.Get("/api/posts", posts.List)
	r.Get("/api/posts/{slug}", posts.Get)
	r.Get("/api/posts/{slug}/related", posts.Related)
	r.Get("/api/tags", posts.Tags)
	r.Get("/api/cache/invalidations", cacheLog.Recent)
	env.router = r
	return env
}

// do sends a request through the test router. body may be empty.
func (e *testEnv) do(t *testing.T, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	rec := httptest.NewRecorder()
	e.router.ServeHTTP(rec, req)
	return rec
}

// decode unmarshals the recorder body into v.
func decode(t *testing.T, rec *httptest.ResponseRecorder, v any) {
	t.Helper()
	if err := json.Unmarshal(rec.Body.Bytes(), v); err != nil {
		t.Fatalf("decode response %q: %v", rec.Body.String(), err)
	}
}

// errorCode extracts the error code from an error envelope.
func errorCode(t *testing.T, rec *httptest.ResponseRecorder) string {
	t.Helper()
	var resp errorResponse
	decode(t, rec, &resp)
	return resp.Error.Code
}

var errBoom = errors.New("boom")
