package repository

import (
	"context"

	"github.com/ndewijer/stock-market-api/internal/model"
)

// StockStore is the data access contract shared by the database-backed and
// the static JSON sources.
type StockStore interface {
	// CountRecords counts records matching the filter's trade code.
	CountRecords(ctx context.Context, filter model.StockFilter) (int, error)

	// ListRecords returns one page of records together with the number of
	// records matching the filter.
	ListRecords(ctx context.Context, filter model.StockFilter) (model.StockPage, error)

	// DistinctTradeCodes returns every trade code present, without duplicates.
	DistinctTradeCodes(ctx context.Context) ([]string, error)

	// InsertRecord stores one record. Duplicate keys are permitted.
	InsertRecord(ctx context.Context, rec model.StockRecord) error

	// UpdateRecord overwrites every record whose (date, trade_code) equals the
	// submitted one and reports how many matched. Zero matches is not an error.
	UpdateRecord(ctx context.Context, rec model.StockRecord) (int64, error)

	// DeleteRecord removes every record whose (date, trade_code) equals the
	// submitted one and reports how many matched. Zero matches is not an error.
	DeleteRecord(ctx context.Context, rec model.StockRecord) (int64, error)

	// Ping reports whether the source is reachable.
	Ping(ctx context.Context) error
}

// RawDocumentSource is implemented by sources that were loaded from a
// document and can hand it back byte for byte.
type RawDocumentSource interface {
	RawDocument() []byte
}

// BulkInserter is implemented by sources that can insert many records in a
// single transaction.
type BulkInserter interface {
	InsertRecords(ctx context.Context, recs []model.StockRecord) (int, error)
}
