package service

import (
	"context"
	"fmt"

	"github.com/rs/zerolog/log"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/model"
	"github.com/ndewijer/stock-market-api/internal/repository"
)

// exportPageSize is the page size used when walking every record.
const exportPageSize = 1000

// StockService handles stock record operations on top of the configured source.
type StockService struct {
	store repository.StockStore
}

// NewStockService creates a new StockService backed by the given store.
func NewStockService(store repository.StockStore) *StockService {
	return &StockService{
		store: store,
	}
}

// ListStockData returns one page of records. Missing pagination values fall
// back to page 1 and a limit of 50.
func (s *StockService) ListStockData(ctx context.Context, filter model.StockFilter) (model.StockPage, error) {
	page, err := s.store.ListRecords(ctx, filter.Normalize())
	if err != nil {
		return model.StockPage{}, fmt.Errorf("failed to list stock records: %w", err)
	}
	return page, nil
}

// GetTradeCodes returns the distinct trade codes.
func (s *StockService) GetTradeCodes(ctx context.Context) ([]string, error) {
	codes, err := s.store.DistinctTradeCodes(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list trade codes: %w", err)
	}
	return codes, nil
}

// RawDocument returns the loaded document when the source is a static file.
func (s *StockService) RawDocument() ([]byte, bool) {
	src, ok := s.store.(repository.RawDocumentSource)
	if !ok {
		return nil, false
	}
	return src.RawDocument(), true
}

// CreateStockRecord inserts a record.
func (s *StockService) CreateStockRecord(ctx context.Context, rec model.StockRecord) error {
	if err := s.store.InsertRecord(ctx, rec); err != nil {
		return fmt.Errorf("failed to create stock record: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("trade_code", rec.TradeCode).
		Str("date", rec.Date.String()).
		Msg("Stock record created")

	return nil
}

// UpdateStockRecord overwrites the records keyed by (date, trade_code). A key
// with no matching record is not an error; the affected count is logged.
func (s *StockService) UpdateStockRecord(ctx context.Context, rec model.StockRecord) error {
	affected, err := s.store.UpdateRecord(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to update stock record: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("trade_code", rec.TradeCode).
		Str("date", rec.Date.String()).
		Int64("rows_affected", affected).
		Msg("Stock record updated")

	return nil
}

// DeleteStockRecord removes the records keyed by (date, trade_code). A key
// with no matching record is not an error; the affected count is logged.
func (s *StockService) DeleteStockRecord(ctx context.Context, rec model.StockRecord) error {
	affected, err := s.store.DeleteRecord(ctx, rec)
	if err != nil {
		return fmt.Errorf("failed to delete stock record: %w", err)
	}

	log.Ctx(ctx).Info().
		Str("trade_code", rec.TradeCode).
		Str("date", rec.Date.String()).
		Int64("rows_affected", affected).
		Msg("Stock record deleted")

	return nil
}

// ImportStockRecords inserts all records atomically. Only sources that
// support bulk inserts accept imports.
func (s *StockService) ImportStockRecords(ctx context.Context, recs []model.StockRecord) (int, error) {
	bulk, ok := s.store.(repository.BulkInserter)
	if !ok {
		return 0, apperrors.ErrReadOnlySource
	}

	n, err := bulk.InsertRecords(ctx, recs)
	if err != nil {
		return 0, fmt.Errorf("failed to import stock records: %w", err)
	}
	return n, nil
}

// AllStockRecords walks every page of the source and returns all records.
func (s *StockService) AllStockRecords(ctx context.Context) ([]model.StockRecord, error) {
	var all []model.StockRecord

	for page := 1; ; page++ {
		result, err := s.store.ListRecords(ctx, model.StockFilter{Page: page, Limit: exportPageSize})
		if err != nil {
			return nil, fmt.Errorf("failed to read stock records: %w", err)
		}

		all = append(all, result.Data...)
		if len(result.Data) < exportPageSize || len(all) >= result.Total {
			return all, nil
		}
	}
}
