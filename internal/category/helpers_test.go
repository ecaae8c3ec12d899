package category

import "folio/internal/models"

// cat builds a category fixture. A parent of 0 means no parent.
func cat(id int64, name string, parent int64) models.Category {
	c := models.Category{ID: id, Name: name, Slug: slugOf(name)}
	if parent != 0 {
		p := parent
		c.ParentID = &p
	}
	return c
}

func slugOf(name string) string {
	b := []byte(name)
	for i, ch := range b {
		if ch >= 'A' && ch <= 'Z' {
			b[i] = ch + ('a' - 'A')
		}
		if ch == ' ' {
			b[i] = '-'
		}
	}
	return string(b)
}

func ids(categories []models.Category) []int64 {
	out := make([]int64, len(categories))
	for i, c := range categories {
		out[i] = c.ID
	}
	return out
}
