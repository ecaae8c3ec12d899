// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import (
	"slices"

	"folio/internal/models"
)

// Path returns the ancestor chain of c, starting with the outermost ancestor
// and ending with c itself. A nil category yields an empty path. The walk
// stops at a parent id that is not in all, and at the first revisited id,
// so it terminates even on input that bypassed Validate.
func Path(c *models.Category, all []models.Category) []models.Category {
	if c == nil {
		return []models.Category{}
	}

	byID := make(map[int64]models.Category, len(all))
	for _, cat := range all {
		byID[cat.ID] = cat
	}

	path := []models.Category{*c}
	seen := map[int64]struct{}{c.ID: {}}
	current := *c
	for steps := 0; steps < len(all) && current.ParentID != nil; steps++ {
		parent, ok := byID[*current.ParentID]
		if !ok {
			break
		}
		if _, loop := seen[parent.ID]; loop {
			break
		}
		seen[parent.ID] = struct{}{}
		path = append(path, parent)
		current = parent
	}

	slices.Reverse(path)
	return path
}

// FindByID returns the category with the given id, or nil.
func FindByID(id int64, all []models.Category) *models.Category {
	for i := range all {
		if all[i].ID == id {
			c := all[i]
			return &c
		}
	}
	return nil
}
