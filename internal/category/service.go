// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// Package category owns the category hierarchy: validation of flat category
// lists, tree construction, ancestor paths, and a read-through cache in front
// of the category source.
package category

import (
	"context"
	"log/slog"
	"slices"
	"sync"
	"sync/atomic"

	"golang.org/x/sync/singleflight"

	"folio/internal/models"
)

// Source is the store categories are read from and written to.
type Source interface {
	List(ctx context.Context) ([]models.Category, error)
	Create(ctx context.Context, in models.CategoryInput) (*models.Category, error)
	Update(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error)
	Delete(ctx context.Context, id int64) error
}

// Service is the entry point for category consumers. It validates what it
// reads, caches validated lists, and clears the cache after every write.
type Service struct {
	source Source
	cache  Cache
	group  singleflight.Group

	// generation is bumped by every successful write. A fetch only caches
	// its result if no write happened while it was in flight.
	generation atomic.Uint64

	// cacheMu serializes the fetch's generation check and Set against
	// invalidate, so a stale list cannot land after a Clear.
	cacheMu sync.Mutex

	onInvalidate []InvalidateFunc
}

// InvalidateFunc is called after a write has cleared the cache.
type InvalidateFunc func(ctx context.Context, action string, id int64)

// Option configures a Service.
type Option func(*Service)

// OnInvalidate registers fn to run after every cache invalidation.
func OnInvalidate(fn InvalidateFunc) Option {
	return func(s *Service) {
		s.onInvalidate = append(s.onInvalidate, fn)
	}
}

// NewService returns a Service reading from source and caching in cache.
func NewService(source Source, cache Cache, opts ...Option) *Service {
	s := &Service{source: source, cache: cache}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// GetCategories returns the validated category list, from cache when fresh.
// Concurrent calls share a single fetch. The shared fetch is not cancelled
// with any one caller; a caller whose ctx ends stops waiting and gets the
// context error.
func (s *Service) GetCategories(ctx context.Context) ([]models.Category, error) {
	if cached, ok := s.cache.Get(ctx, CacheKey); ok {
		slog.Debug("category cache hit", "count", len(cached))
		return slices.Clone(cached), nil
	}

	ch := s.group.DoChan(CacheKey, func() (any, error) {
		return s.fetch(context.WithoutCancel(ctx))
	})
	select {
	case <-ctx.Done():
		return nil, Wrap(KindUnknown, ctx.Err())
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		if res.Shared {
			slog.Debug("category fetch shared with concurrent caller")
		}
		return slices.Clone(res.Val.([]models.Category)), nil
	}
}

func (s *Service) fetch(ctx context.Context) ([]models.Category, error) {
	gen := s.generation.Load()

	list, err := s.source.List(ctx)
	if err != nil {
		return nil, Wrap(KindUnknown, err)
	}
	if list == nil {
		return nil, newError(KindFetch, 0, "category source returned no payload")
	}
	if err := Validate(list); err != nil {
		slog.Warn("category list rejected", "error", err)
		return nil, err
	}

	s.cacheMu.Lock()
	if s.generation.Load() == gen {
		s.cache.Set(ctx, CacheKey, slices.Clone(list))
	} else {
		slog.Debug("category list changed during fetch, not caching")
	}
	s.cacheMu.Unlock()
	return list, nil
}

// CreateCategory creates a category and clears the cache.
func (s *Service) CreateCategory(ctx context.Context, in models.CategoryInput) (*models.Category, error) {
	created, err := s.source.Create(ctx, in)
	if err != nil {
		return nil, Wrap(KindUnknown, err)
	}
	if created == nil {
		return nil, newError(KindCreate, 0, "category source returned no payload")
	}
	s.invalidate(ctx, "create", created.ID)
	return created, nil
}

// UpdateCategory updates a category and clears the cache.
func (s *Service) UpdateCategory(ctx context.Context, id int64, in models.CategoryInput) (*models.Category, error) {
	updated, err := s.source.Update(ctx, id, in)
	if err != nil {
		return nil, Wrap(KindUnknown, err)
	}
	if updated == nil {
		return nil, newError(KindUpdate, id, "category source returned no payload")
	}
	s.invalidate(ctx, "update", id)
	return updated, nil
}

// DeleteCategory deletes a category and clears the cache.
func (s *Service) DeleteCategory(ctx context.Context, id int64) error {
	if err := s.source.Delete(ctx, id); err != nil {
		return Wrap(KindUnknown, err)
	}
	s.invalidate(ctx, "delete", id)
	return nil
}

func (s *Service) invalidate(ctx context.Context, action string, id int64) {
	s.cacheMu.Lock()
	s.generation.Add(1)
	s.group.Forget(CacheKey)
	s.cache.Clear(ctx)
	s.cacheMu.Unlock()
	slog.Info("category cache invalidated", "action", action, "category_id", id)
	for _, fn := range s.onInvalidate {
		fn(ctx, action, id)
	}
}

// BuildCategoryTree builds a forest from categories without fetching.
func (s *Service) BuildCategoryTree(categories []models.Category) ([]*models.CategoryNode, error) {
	return BuildTree(categories)
}

// GetCategoryPath returns the ancestor path of c within categories.
func (s *Service) GetCategoryPath(c *models.Category, categories []models.Category) []models.Category {
	return Path(c, categories)
}

// Tree fetches the category list and returns it as a forest.
func (s *Service) Tree(ctx context.Context) ([]*models.CategoryNode, error) {
	list, err := s.GetCategories(ctx)
	if err != nil {
		return nil, err
	}
	return BuildTree(list)
}
