package shared

import (
	"testing"
)

func TestRunMigrations(t *testing.T) {
	t.Run("applies migrations to fresh database", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("expected no error, got %v", err)
		}

		var name string
		row := db.QueryRow("SELECT name FROM sqlite_master WHERE type='table' AND name='track_cache'")
		if err := row.Scan(&name); err != nil {
			t.Fatalf("expected track_cache table to exist: %v", err)
		}
	})

	t.Run("is idempotent", func(t *testing.T) {
		db, err := NewDatabase(":memory:")
		if err != nil {
			t.Fatalf("failed to open database: %v", err)
		}
		defer db.Close()

		if err := RunMigrations(db); err != nil {
			t.Fatalf("first run failed: %v", err)
		}
		if err := RunMigrations(db); err != nil {
			t.Fatalf("second run failed: %v", err)
		}

		var count int
		row := db.QueryRow("SELECT COUNT(*) FROM schema_migrations")
		if err := row.Scan(&count); err != nil {
			t.Fatalf("failed to count migrations: %v", err)
		}
		if count != 1 {
			t.Errorf("expected 1 applied migration, got %d", count)
		}
	})
}
