package sqlite_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/kmareda/regdesk/internal/domain"
	"github.com/kmareda/regdesk/internal/repository/sqlite"
)

func newTestDB(t *testing.T) *sqlite.DB {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	db, err := sqlite.New(dbPath)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("Migrate: %v", err)
	}
	t.Cleanup(func() { db.Close() })
	return db
}

func testUser(email string) *domain.User {
	return &domain.User{
		Name:    "Test User",
		Email:   email,
		DOB:     time.Date(1990, 6, 15, 0, 0, 0, 0, time.UTC),
		Contact: "5551234567",
		State:   "Oregon",
		Country: "USA",
	}
}

func TestMigrate_Idempotent(t *testing.T) {
	db := newTestDB(t)

	// A second run must be a no-op, not an error.
	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("second Migrate: %v", err)
	}
}
