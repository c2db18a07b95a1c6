package testutil

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/ndewijer/stock-market-api/internal/config"
	"github.com/ndewijer/stock-market-api/internal/database"
)

// SetupTestDB creates a SQLite database in a per-test temporary directory with
// the production migrations applied.
// The database is automatically closed when the test completes.
//
// Example usage:
//
//	func TestSomething(t *testing.T) {
//	    db := testutil.SetupTestDB(t)
//	    // db is ready to use with schema created
//	}
func SetupTestDB(t *testing.T) *sqlx.DB {
	t.Helper()

	cfg := config.DatabaseConfig{
		Driver:          config.DriverSQLite,
		Path:            filepath.Join(t.TempDir(), "stock_test.db"),
		MaxOpenConns:    4,
		MaxIdleConns:    4,
		ConnMaxLifetime: time.Hour,
	}

	ctx := context.Background()

	db, err := database.Open(ctx, cfg, config.LoggingConfig{})
	if err != nil {
		t.Fatalf("Failed to open test database: %v", err)
	}

	if err := database.Migrate(ctx, db, cfg.Driver); err != nil {
		db.Close()
		t.Fatalf("Failed to create test schema: %v", err)
	}

	// Cleanup when test ends
	t.Cleanup(func() {
		db.Close()
	})

	return db
}

// CountStockRows returns the number of rows in stock_data, bypassing the repository.
func CountStockRows(t *testing.T, db *sqlx.DB) int {
	t.Helper()

	var count int
	if err := db.Get(&count, "SELECT COUNT(*) FROM stock_data"); err != nil {
		t.Fatalf("Failed to count stock_data rows: %v", err)
	}
	return count
}
