package database

import (
	"database/sql"
	"fmt"
	"log/slog"

	"inkwell/internal/slug"
)

// defaultCategories is the starter category set inserted on first run so
// the post form has something to offer in its category dropdown.
var defaultCategories = []struct {
	Name        string
	Description string
}{
	{"Technology", "Posts about modern tech trends"},
	{"Health", "Wellness and fitness topics"},
	{"Education", "Learning and skill development"},
	{"Travel", "Travel experiences and tips"},
	{"Food", "Culinary delights and recipes"},
	{"Politics", "News and discussions about political issues"},
	{"Entertainment", "Movies, music, and more"},
}

// Seed populates the database with initial development data.
// It inserts the default categories if none exist yet.
func Seed(db *sql.DB) error {
	var count int
	if err := db.QueryRow("SELECT COUNT(*) FROM categories").Scan(&count); err != nil {
		return fmt.Errorf("seed check categories: %w", err)
	}

	if count > 0 {
		slog.Info("database already seeded, skipping")
		return nil
	}

	for _, c := range defaultCategories {
		_, err := db.Exec(`
			INSERT INTO categories (name, slug, description)
			VALUES ($1, $2, $3)
		`, c.Name, slug.Generate(c.Name), c.Description)
		if err != nil {
			return fmt.Errorf("seed insert category %q: %w", c.Name, err)
		}
	}

	slog.Info("database seeded with default categories", "count", len(defaultCategories))
	return nil
}
