// Shared helpers for the store integration tests. Every test skips when
// PostgreSQL is not reachable with the POSTGRES_* settings.
package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"testing"
	"time"

	"aicms/internal/database"
	"aicms/internal/models"
)

func testDSN() string {
	env := func(key, fallback string) string {
		if v := os.Getenv(key); v != "" {
			return v
		}
		return fallback
	}
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		env("POSTGRES_USER", "aicms"), env("POSTGRES_PASSWORD", "changeme"),
		env("POSTGRES_HOST", "localhost"), env("POSTGRES_PORT", "5432"),
		env("POSTGRES_DB", "aicms"))
}

// testDB returns a migrated pool that is closed when the test ends.
func testDB(t *testing.T) *sql.DB {
	t.Helper()

	db, err := database.Connect(testDSN())
	if err != nil {
		t.Skipf("skipping integration test: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := database.Migrate(db); err != nil {
		t.Fatalf("migrate: %v", err)
	}
	return db
}

// uniqueName returns a name that will not collide across test runs.
func uniqueName(prefix string) string {
	return fmt.Sprintf("%s-%d", prefix, time.Now().UnixNano())
}

// cleanUsers removes test users by email. Call in t.Cleanup().
func cleanUsers(t *testing.T, db *sql.DB, emails ...string) {
	t.Helper()
	for _, email := range emails {
		db.Exec("DELETE FROM users WHERE email = $1", email)
	}
}

// cleanContentType removes a test content type and every item using it.
func cleanContentType(t *testing.T, db *sql.DB, id int64) {
	t.Helper()
	db.Exec("DELETE FROM content_items WHERE content_type_id = $1", id)
	db.Exec("DELETE FROM content_types WHERE id = $1", id)
}

// cleanMedia removes test media rows by id.
func cleanMedia(t *testing.T, db *sql.DB, ids ...int64) {
	t.Helper()
	for _, id := range ids {
		db.Exec("DELETE FROM media_files WHERE id = $1", id)
	}
}

// testContentType creates a throwaway content type with a text and a
// number field and registers its cleanup.
func testContentType(t *testing.T, db *sql.DB) *models.ContentType {
	t.Helper()
	ct, err := NewContentTypeStore(db).Create(context.Background(), uniqueName("Type"), []models.FieldDefinition{
		{Name: "body", Type: models.FieldTypeText, Required: true},
		{Name: "rating", Type: models.FieldTypeNumber},
	})
	if err != nil {
		t.Fatalf("create content type: %v", err)
	}
	t.Cleanup(func() { cleanContentType(t, db, ct.ID) })
	return ct
}
