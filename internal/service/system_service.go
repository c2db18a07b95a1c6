package service

import (
	"context"

	"github.com/ndewijer/stock-market-api/internal/repository"
)

// SystemService handles system-related operations
type SystemService struct {
	store      repository.StockStore
	sourceKind string
}

// NewSystemService creates a new SystemService
func NewSystemService(store repository.StockStore, sourceKind string) *SystemService {
	return &SystemService{
		store:      store,
		sourceKind: sourceKind,
	}
}

// SourceKind reports which data source is configured.
func (s *SystemService) SourceKind() string {
	return s.sourceKind
}

// CheckHealth checks the health of the system
func (s *SystemService) CheckHealth(ctx context.Context) error {
	return s.store.Ping(ctx)
}
