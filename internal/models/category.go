// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package models

import "time"

// Category represents a hierarchical blog category. A nil ParentID marks a
// root category.
type Category struct {
	ID          int64     `json:"id"`
	Name        string    `json:"name"`
	Slug        string    `json:"slug"`
	Description *string   `json:"description"`
	ParentID    *int64    `json:"parent_id"`
	SortOrder   int       `json:"sort_order"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// IsRoot returns true if the category declares no parent. A category whose
// parent cannot be resolved is also treated as a root by the tree builder.
func (c *Category) IsRoot() bool {
	return c.ParentID == nil
}

// CategoryNode is a category together with its ordered children. Nodes are
// built fresh for every tree request and are never persisted.
type CategoryNode struct {
	Category
	Children []*CategoryNode `json:"children"`
}

// CategoryInput is the payload accepted by create and update operations.
type CategoryInput struct {
	Name        string  `json:"name"`
	Slug        string  `json:"slug"`
	Description *string `json:"description"`
	ParentID    *int64  `json:"parent_id"`
	SortOrder   int     `json:"sort_order"`
}
