// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

package category

import "folio/internal/models"

// BuildTree converts a flat category list into a forest. Children keep the
// order they have in the input, and so do roots. A category whose parent is
// not in the list becomes a root. An empty list yields an empty forest.
//
// BuildTree fails with BUILD_TREE_ERROR on input that should have been
// rejected by Validate: duplicate ids or a parent cycle.
func BuildTree(categories []models.Category) ([]*models.CategoryNode, error) {
	nodes := make(map[int64]*models.CategoryNode, len(categories))
	for _, c := range categories {
		if _, dup := nodes[c.ID]; dup {
			return nil, newError(KindBuildTree, c.ID, "duplicate category id %d", c.ID)
		}
		nodes[c.ID] = &models.CategoryNode{
			Category: c,
			Children: []*models.CategoryNode{},
		}
	}

	roots := []*models.CategoryNode{}
	for _, c := range categories {
		node := nodes[c.ID]
		if c.ParentID == nil {
			roots = append(roots, node)
			continue
		}
		parent, ok := nodes[*c.ParentID]
		if !ok {
			roots = append(roots, node)
			continue
		}
		parent.Children = append(parent.Children, node)
	}

	// Nodes on a parent cycle are unreachable from any root.
	if n := countNodes(roots, len(nodes)); n != len(nodes) {
		return nil, newError(KindBuildTree, 0, "%d of %d categories are unreachable from a root", len(nodes)-n, len(nodes))
	}
	return roots, nil
}

// countNodes counts the nodes reachable from roots, stopping once limit is
// exceeded.
func countNodes(roots []*models.CategoryNode, limit int) int {
	stack := append([]*models.CategoryNode(nil), roots...)
	count := 0
	for len(stack) > 0 && count <= limit {
		n := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		count++
		stack = append(stack, n.Children...)
	}
	return count
}

// Flatten walks a forest depth-first and returns the categories in display
// order with their depth. Useful for indented <select> options.
func Flatten(roots []*models.CategoryNode) []FlatEntry {
	var result []FlatEntry
	var walk func(nodes []*models.CategoryNode, depth int)
	walk = func(nodes []*models.CategoryNode, depth int) {
		for _, n := range nodes {
			result = append(result, FlatEntry{Category: n.Category, Depth: depth})
			walk(n.Children, depth+1)
		}
	}
	walk(roots, 0)
	return result
}

// FlatEntry is a category with its depth in the tree.
type FlatEntry struct {
	models.Category
	Depth int `json:"depth"`
}

// Descendants returns the ids of the category and every category below it.
func Descendants(id int64, categories []models.Category) []int64 {
	children := make(map[int64][]int64, len(categories))
	for _, c := range categories {
		if c.ParentID != nil {
			children[*c.ParentID] = append(children[*c.ParentID], c.ID)
		}
	}

	result := []int64{id}
	seen := map[int64]struct{}{id: {}}
	for i := 0; i < len(result); i++ {
		for _, child := range children[result[i]] {
			if _, ok := seen[child]; ok {
				continue
			}
			seen[child] = struct{}{}
			result = append(result, child)
		}
	}
	return result
}
