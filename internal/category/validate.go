// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"strings"
	"unicode/utf8"

	"folio/internal/models"
	"folio/internal/slug"
)

// Field limits for category mutation payloads.
const (
	maxNameLen        = 100
	maxSlugLen        = 120
	maxDescriptionLen = 1_000
)

// Validate rejects a flat category list that violates structural invariants:
// missing id, name or slug, duplicate ids, or a parent chain that revisits a
// category. A parent reference to an unknown id is allowed; the tree builder
// treats such categories as roots.
func Validate(categories []models.Category) error {
	byID := make(map[int64]*models.Category, len(categories))
	for i := range categories {
		c := &categories[i]
		if c.ID == 0 {
			return newError(KindInvalidCategory, 0, "category at position %d has no id", i)
		}
		if strings.TrimSpace(c.Name) == "" {
			return newError(KindInvalidCategory, c.ID, "category %d has no name", c.ID)
		}
		if strings.TrimSpace(c.Slug) == "" {
			return newError(KindInvalidCategory, c.ID, "category %d has no slug", c.ID)
		}
		if _, dup := byID[c.ID]; dup {
			return newError(KindInvalidCategory, c.ID, "duplicate category id %d", c.ID)
		}
		byID[c.ID] = c
	}

	for i := range categories {
		if err := checkAncestors(&categories[i], byID); err != nil {
			return err
		}
	}
	return nil
}

// checkAncestors follows the parent chain of c. The visited set belongs to
// this walk only. The walk is bounded by the number of known categories.
func checkAncestors(c *models.Category, byID map[int64]*models.Category) error {
	if c.ParentID == nil {
		return nil
	}
	visited := map[int64]struct{}{c.ID: {}}
	current := c
	for steps := 0; steps <= len(byID); steps++ {
		if current.ParentID == nil {
			return nil
		}
		parentID := *current.ParentID
		if _, seen := visited[parentID]; seen {
			if parentID == c.ID && current == c {
				return newError(KindCircularReference, c.ID, "category %d is its own parent", c.ID)
			}
			return newError(KindCircularReference, c.ID, "parent chain of category %d revisits category %d", c.ID, parentID)
		}
		parent, ok := byID[parentID]
		if !ok {
			return nil
		}
		visited[parentID] = struct{}{}
		current = parent
	}
	return newError(KindCircularReference, c.ID, "parent chain of category %d does not terminate", c.ID)
}

// ValidateInput checks a create or update payload. The slug must already be
// generated when the caller derives it from the name.
func ValidateInput(in models.CategoryInput) error {
	name := strings.TrimSpace(in.Name)
	if name == "" {
		return newError(KindInvalidCategory, 0, "name is required")
	}
	if utf8.RuneCountInString(name) > maxNameLen {
		return newError(KindInvalidCategory, 0, "name is too long (max %d characters)", maxNameLen)
	}
	if in.Slug == "" {
		return newError(KindInvalidCategory, 0, "slug is required")
	}
	if utf8.RuneCountInString(in.Slug) > maxSlugLen {
		return newError(KindInvalidCategory, 0, "slug is too long (max %d characters)", maxSlugLen)
	}
	if !slug.Valid(in.Slug) {
		return newError(KindInvalidCategory, 0, "slug %q may only contain lowercase letters, digits and single hyphens", in.Slug)
	}
	if in.Description != nil && utf8.RuneCountInString(*in.Description) > maxDescriptionLen {
		return newError(KindInvalidCategory, 0, "description is too long (max %d characters)", maxDescriptionLen)
	}
	if in.ParentID != nil && *in.ParentID <= 0 {
		return newError(KindInvalidCategory, 0, "parent_id must be a positive id")
	}
	return nil
}
