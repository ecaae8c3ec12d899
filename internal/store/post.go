// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"folio/internal/models"
)

// PostStore reads blog posts and their tags.
type PostStore struct {
	db *sql.DB
}

// NewPostStore returns a new PostStore.
func NewPostStore(db *sql.DB) *PostStore {
	return &PostStore{db: db}
}

const postColumns = `id, title, slug, body, excerpt, status, category_id, published_at, created_at, updated_at`

// scanPost scans a row into a Post struct.
func scanPost(scanner interface{ Scan(...any) error }) (*models.Post, error) {
	var p models.Post
	err := scanner.Scan(
		&p.ID, &p.Title, &p.Slug, &p.Body, &p.Excerpt, &p.Status,
		&p.CategoryID, &p.PublishedAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &p, nil
}

// ListPublished returns published posts, newest first, with tags loaded.
func (s *PostStore) ListPublished(ctx context.Context) ([]models.Post, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE status = 'published'
		ORDER BY published_at DESC NULLS LAST, id DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("list published posts: %w", err)
	}
	defer rows.Close()

	posts := []models.Post{}
	for rows.Next() {
		p, err := scanPost(rows)
		if err != nil {
			return nil, fmt.Errorf("scan post: %w", err)
		}
		posts = append(posts, *p)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if err := s.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return posts, nil
}

// FindBySlug returns a published post by slug. Returns nil if not found.
func (s *PostStore) FindBySlug(ctx context.Context, slug string) (*models.Post, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT `+postColumns+` FROM posts
		WHERE slug = $1 AND status = 'published'
	`, slug)
	p, err := scanPost(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("find post by slug: %w", err)
	}

	posts := []models.Post{*p}
	if err := s.loadTags(ctx, posts); err != nil {
		return nil, err
	}
	return &posts[0], nil
}

// loadTags fills the Tags field of every post in one query.
func (s *PostStore) loadTags(ctx context.Context, posts []models.Post) error {
	if len(posts) == 0 {
		return nil
	}

	index := make(map[int64]int, len(posts))
	ids := make([]int64, len(posts))
	for i := range posts {
		index[posts[i].ID] = i
		ids[i] = posts[i].ID
		posts[i].Tags = []models.Tag{}
	}

	rows, err := s.db.QueryContext(ctx, `
		SELECT pt.post_id, t.id, t.name, t.slug
		FROM post_tags pt
		JOIN tags t ON t.id = pt.tag_id
		WHERE pt.post_id = ANY($1)
		ORDER BY t.name
	`, ids)
	if err != nil {
		return fmt.Errorf("load post tags: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var postID int64
		var t models.Tag
		if err := rows.Scan(&postID, &t.ID, &t.Name, &t.Slug); err != nil {
			return fmt.Errorf("scan post tag: %w", err)
		}
		if i, ok := index[postID]; ok {
			posts[i].Tags = append(posts[i].Tags, t)
		}
	}
	return rows.Err()
}
