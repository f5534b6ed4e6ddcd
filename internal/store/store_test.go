// store_test.go provides a shared test database helper for all store
// integration tests. Tests are skipped if PostgreSQL is not available.
package store

import (
	"database/sql"
	"os"
	"testing"

	"github.com/google/uuid"
	_ "github.com/jackc/pgx/v5/stdlib"
	"github.com/pressly/goose/v3"

	"inkwell/internal/database"
	"inkwell/internal/models"
)

// testDSN returns the PostgreSQL connection string for testing.
// Uses environment variables with defaults matching docker-compose.yml.
func testDSN() string {
	host := envOr("POSTGRES_HOST", "localhost")
	port := envOr("POSTGRES_PORT", "5432")
	user := envOr("POSTGRES_USER", "inkwell")
	pass := envOr("POSTGRES_PASSWORD", "changeme")
	name := envOr("POSTGRES_DB", "inkwell")
	return "postgres://" + user + ":" + pass + "@" + host + ":" + port + "/" + name + "?sslmode=disable"
}

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

// testDB opens a connection to the test database and runs migrations.
// If the database is unavailable, the test is skipped. A cleanup
// function is registered to close the connection when the test finishes.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	dsn := testDSN()
	db, err := sql.Open("pgx", dsn)
	if err != nil {
		t.Skipf("skipping integration test: cannot open DB: %v", err)
	}

	if err := db.Ping(); err != nil {
		db.Close()
		t.Skipf("skipping integration test: DB not reachable: %v", err)
	}

	// Run migrations to ensure the schema is current.
	if err := database.Migrate(db); err != nil {
		db.Close()
		t.Fatalf("failed to run migrations: %v", err)
	}

	// Downgrade goose global state.
	goose.SetBaseFS(nil)

	t.Cleanup(func() { db.Close() })
	return db
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanCategories removes test categories by name. Call in t.Cleanup().
func cleanCategories(t *testing.T, db *sql.DB, names ...string) {
	t.Helper()
	for _, name := range names {
		db.Exec("DELETE FROM categories WHERE name = $1", name)
	}
}

// cleanPosts removes test posts by title. Call in t.Cleanup().
func cleanPosts(t *testing.T, db *sql.DB, titles ...string) {
	t.Helper()
	for _, title := range titles {
		db.Exec("DELETE FROM posts WHERE title = $1", title)
	}
}

// cleanUploads removes test uploads by stored filename. Call in t.Cleanup().
func cleanUploads(t *testing.T, db *sql.DB, filenames ...string) {
	t.Helper()
	for _, filename := range filenames {
		db.Exec("DELETE FROM uploads WHERE filename = $1", filename)
	}
}

// fixtureUser creates a user for tests that need an author or commenter.
func fixtureUser(t *testing.T, db *sql.DB, email string) *models.User {
	t.Helper()
	user, err := NewUserStore(db).Create("Fixture User", email, "fixturepass")
	if err != nil {
		t.Fatalf("fixture user: %v", err)
	}
	t.Cleanup(func() { cleanUsers(t, db, email) })
	return user
}

// fixtureCategory creates a category for tests that need one.
func fixtureCategory(t *testing.T, db *sql.DB, name string) *models.Category {
	t.Helper()
	cat, err := NewCategoryStore(db).Create(name, "test category")
	if err != nil {
		t.Fatalf("fixture category: %v", err)
	}
	t.Cleanup(func() { cleanCategories(t, db, name) })
	return cat
}

// fixturePost creates a post owned by the given author in the given category.
func fixturePost(t *testing.T, db *sql.DB, title string, authorID, categoryID uuid.UUID) *models.Post {
	t.Helper()
	post, err := NewPostStore(db).Create(&models.Post{
		Title:         title,
		Content:       "Fixture content long enough to pass validation.",
		CategoryID:    categoryID,
		AuthorID:      authorID,
		Tags:          []string{"fixture"},
		FeaturedImage: models.DefaultFeaturedImage,
	})
	if err != nil {
		t.Fatalf("fixture post: %v", err)
	}
	t.Cleanup(func() { cleanPosts(t, db, title) })
	return post
}
