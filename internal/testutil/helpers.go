package testutil

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"

	"github.com/ndewijer/stock-market-api/internal/repository"
	"github.com/ndewijer/stock-market-api/internal/service"
)

func NewTestStockService(t *testing.T, db *sqlx.DB) *service.StockService {
	t.Helper()

	return service.NewStockService(repository.NewSQLStockRepository(db))
}

func NewTestSystemService(t *testing.T, db *sqlx.DB) *service.SystemService {
	t.Helper()

	return service.NewSystemService(repository.NewSQLStockRepository(db), "database")
}

// NewTestStaticStore builds a static source from an in-memory document.
func NewTestStaticStore(t *testing.T, document string) *repository.StaticStockRepository {
	t.Helper()

	store, err := repository.NewStaticStockRepository([]byte(document))
	if err != nil {
		t.Fatalf("Failed to load static document: %v", err)
	}
	return store
}

// MakeTradeCode generates a unique trade code for testing.
//
// Example usage:
//
//	code := testutil.MakeTradeCode("ACI") // "ACI-1A2B3C4D"
func MakeTradeCode(base string) string {
	suffix := strings.ToUpper(strings.ReplaceAll(uuid.New().String(), "-", "")[:8])
	return base + "-" + suffix
}
