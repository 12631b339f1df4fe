// Package testutil provides disposable stores for tests.
package testutil

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/rs/zerolog"

	"schoolapi/internal/config"
	"schoolapi/internal/database"
	"schoolapi/internal/database/migration"
)

// TestDatabase is a migrated SQLite store living in a per-test temporary directory.
// It is closed and its file removed when the test finishes.
type TestDatabase struct {
	*database.Store
	URL string
}

// NewTestDatabase opens and migrates a fresh store scoped to t.
func NewTestDatabase(t testing.TB) *TestDatabase {
	t.Helper()

	url := filepath.Join(t.TempDir(), "test.sqlite")
	store, err := database.Open(config.DatabaseConfig{URL: url})
	if err != nil {
		t.Fatalf("open test database: %v", err)
	}
	t.Cleanup(func() { _ = store.Close() })

	if err := migration.Run(context.Background(), store.DB, store.Dialect, zerolog.Nop()); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	return &TestDatabase{Store: store, URL: url}
}
