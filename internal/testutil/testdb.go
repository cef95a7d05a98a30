// Package testutil provides utilities for testing
package testutil

import (
	"context"
	"testing"

	"github.com/buzzwatch/buzzwatch/internal/database"
)

// NewTestDB opens an in-memory SQLite database with the schema applied.
// The single-connection pool keeps every query on the same in-memory
// database.
func NewTestDB(t *testing.T) *database.DB {
	t.Helper()

	cfg := database.DefaultConfig()
	cfg.Driver = database.DriverSQLite
	cfg.Path = ":memory:"
	cfg.MaxOpenConns = 1
	cfg.MaxIdleConns = 1

	db, err := database.New(cfg)
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := db.Migrate(context.Background()); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	return db
}
