// Package related ranks posts by how closely they relate to a given post,
// using the category hierarchy and shared tags.
package related

import (
	"cmp"
	"slices"
	"time"

	"folio/internal/category"
	"folio/internal/models"
)

const (
	// DefaultLimit is used when the caller asks for zero or fewer results.
	DefaultLimit = 3
	// MaxLimit caps the number of results.
	MaxLimit = 10

	sameCategoryWeight   = 3
	sharedAncestorWeight = 1
	sharedTagWeight      = 2
)

// Scored is a candidate post with its relevance score.
type Scored struct {
	Post  models.Post `json:"post"`
	Score int         `json:"score"`
}

// Rank scores every candidate other than target and returns the best
// matches. Posts sharing nothing with target are left out.
func Rank(target models.Post, candidates []models.Post, categories []models.Category, limit int) []Scored {
	if limit <= 0 {
		limit = DefaultLimit
	}
	limit = min(limit, MaxLimit)

	paths := map[int64][]int64{}
	ancestry := func(id *int64) []int64 {
		if id == nil {
			return nil
		}
		if p, ok := paths[*id]; ok {
			return p
		}
		var ids []int64
		if c := category.FindByID(*id, categories); c != nil {
			for _, a := range category.Path(c, categories) {
				ids = append(ids, a.ID)
			}
		}
		paths[*id] = ids
		return ids
	}

	targetPath := ancestry(target.CategoryID)
	out := []Scored{}
	for _, p := range candidates {
		if p.ID == target.ID {
			continue
		}
		score := categoryScore(target.CategoryID, targetPath, p.CategoryID, ancestry(p.CategoryID))
		for _, t := range target.Tags {
			if p.HasTag(t.ID) {
				score += sharedTagWeight
			}
		}
		if score > 0 {
			out = append(out, Scored{Post: p, Score: score})
		}
	}

	slices.SortStableFunc(out, func(a, b Scored) int {
		if c := cmp.Compare(b.Score, a.Score); c != 0 {
			return c
		}
		if c := comparePublished(b.Post.PublishedAt, a.Post.PublishedAt); c != 0 {
			return c
		}
		return cmp.Compare(a.Post.ID, b.Post.ID)
	})

	if len(out) > limit {
		out = out[:limit]
	}
	return out
}

// categoryScore rewards a shared category and every shared ancestor above it.
func categoryScore(aID *int64, aPath []int64, bID *int64, bPath []int64) int {
	if aID == nil || bID == nil {
		return 0
	}
	score := 0
	if *aID == *bID {
		score += sameCategoryWeight
	}
	for _, id := range aPath {
		if id != *aID && id != *bID && slices.Contains(bPath, id) {
			score += sharedAncestorWeight
		}
	}
	return score
}

// comparePublished orders unpublished (nil) dates before any real date.
func comparePublished(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	}
	return a.Compare(*b)
}
