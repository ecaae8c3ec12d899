// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// PostStatus represents the publishing state of a blog post.
type PostStatus string

const (
	PostStatusDraft     PostStatus = "draft"
	PostStatusPublished PostStatus = "published"
)

// Post is a blog article. Posts can have at most one category and any
// number of tags.
type Post struct {
	ID          int64      `json:"id"`
	Title       string     `json:"title"`
	Slug        string     `json:"slug"`
	Body        string     `json:"body"`
	Excerpt     *string    `json:"excerpt,omitempty"`
	Status      PostStatus `json:"status"`
	CategoryID  *int64     `json:"category_id"`
	PublishedAt *time.Time `json:"published_at,omitempty"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at"`

	// Tags is populated by store methods.
	Tags []Tag `json:"tags"`
}

// IsPublished returns true if the post is in published status.
func (p *Post) IsPublished() bool {
	return p.Status == PostStatusPublished
}

// HasTag reports whether the post carries a tag with the given id.
func (p *Post) HasTag(id int64) bool {
	for _, t := range p.Tags {
		if t.ID == id {
			return true
		}
	}
	return false
}

// Tag is a flat, non-hierarchical label for posts.
type Tag struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
	Slug string `json:"slug"`
}
