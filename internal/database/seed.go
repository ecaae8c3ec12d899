package database

import (
	"database/sql"
	"fmt"
	"log/slog"
)

// seedCategory describes a development category. Parent refers to another
// seed entry by slug.
type seedCategory struct {
	name, slug, description, parent string
}

var seedCategories = []seedCategory{
	{"Tech", "tech", "Software, tooling and infrastructure", ""},
	{"Web", "web", "Building for the browser", "tech"},
	{"Go", "go", "Notes on the Go language", "tech"},
	{"Caching", "caching", "", "web"},
	{"Life", "life", "Everything that is not a terminal", ""},
	{"Travel", "travel", "", "life"},
}

var seedTags = []struct{ name, slug string }{
	{"Go", "go"},
	{"HTTP", "http"},
	{"Performance", "performance"},
	{"Trains", "trains"},
}

var seedPosts = []struct {
	title, slug, body, category string
	tags                        []string
}{
	{"Hello, World", "hello-world", "# Hello\n\nThis blog is written in **Go**.", "tech", []string{"go"}},
	{"Read-through caches", "read-through-caches", "Cache the list, clear it on every write.", "caching", []string{"performance", "http"}},
	{"Routing with chi", "routing-with-chi", "```go\nr := chi.NewRouter()\n```", "web", []string{"go", "http"}},
	{"Night train to Vienna", "night-train-to-vienna", "Sleeper cars are underrated.", "travel", []string{"trains"}},
}

// Seed populates the database with development data. It does nothing if
// any category already exists.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}
	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	tx, err := db.Begin()
	if err != nil {
		return fmt.Errorf("seed begin tx: %w", err)
	}
	defer tx.Rollback()

	categoryIDs := make(map[string]int64, len(seedCategories))
	for i, c := range seedCategories {
		var parentID, description any
		if c.parent != "" {
			parentID = categoryIDs[c.parent]
		}
		if c.description != "" {
			description = c.description
		}
		var id int64
		err := tx.QueryRow(`
			INSERT INTO categories (name, slug, description, parent_id, sort_order)
			VALUES ($1, $2, $3, $4, $5)
			RETURNING id
		`, c.name, c.slug, description, parentID, i).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed category %s: %w", c.slug, err)
		}
		categoryIDs[c.slug] = id
	}

	tagIDs := make(map[string]int64, len(seedTags))
	for _, tg := range seedTags {
		var id int64
		if err := tx.QueryRow(`INSERT INTO tags (name, slug) VALUES ($1, $2) RETURNING id`, tg.name, tg.slug).Scan(&id); err != nil {
			return fmt.Errorf("seed tag %s: %w", tg.slug, err)
		}
		tagIDs[tg.slug] = id
	}

	for _, p := range seedPosts {
		var id int64
		err := tx.QueryRow(`
			INSERT INTO posts (title, slug, body, status, category_id, published_at)
			VALUES ($1, $2, $3, 'published', $4, NOW())
			RETURNING id
		`, p.title, p.slug, p.body, categoryIDs[p.category]).Scan(&id)
		if err != nil {
			return fmt.Errorf("seed post %s: %w", p.slug, err)
		}
		for _, tg := range p.tags {
			if _, err := tx.Exec(`INSERT INTO post_tags (post_id, tag_id) VALUES ($1, $2)`, id, tagIDs[tg]); err != nil {
				return fmt.Errorf("seed post tag %s/%s: %w", p.slug, tg, err)
			}
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("seed commit: %w", err)
	}

	slog.Info("database seeded",
		"categories", len(seedCategories),
		"tags", len(seedTags),
		"posts", len(seedPosts),
	)
	return nil
}
