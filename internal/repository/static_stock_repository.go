package repository

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/model"
)

// StaticStockRepository serves stock records from a JSON document loaded once
// at startup. The snapshot is never modified, so concurrent reads need no
// locking; mutations are rejected with apperrors.ErrReadOnlySource.
type StaticStockRepository struct {
	raw     []byte
	records []model.StockRecord
}

// LoadStaticStockRepository reads and decodes the document at path.
func LoadStaticStockRepository(path string) (*StaticStockRepository, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read stock data file: %w", err)
	}

	repo, err := NewStaticStockRepository(raw)
	if err != nil {
		return nil, fmt.Errorf("failed to load %s: %w", path, err)
	}

	return repo, nil
}

// NewStaticStockRepository decodes raw, which is either an array of records
// or an object holding them under "data".
func NewStaticStockRepository(raw []byte) (*StaticStockRepository, error) {
	records, err := DecodeStockDocument(raw)
	if err != nil {
		return nil, err
	}

	return &StaticStockRepository{
		raw:     append([]byte(nil), raw...),
		records: records,
	}, nil
}

// DecodeStockDocument parses a JSON stock document. Both a bare array and an
// object with a "data" array are accepted.
func DecodeStockDocument(raw []byte) ([]model.StockRecord, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 {
		return nil, fmt.Errorf("%w: empty document", apperrors.ErrMalformedSnapshot)
	}

	var records []model.StockRecord

	switch trimmed[0] {
	case '[':
		if err := json.Unmarshal(trimmed, &records); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedSnapshot, err)
		}
	case '{':
		var doc struct {
			Data *[]model.StockRecord `json:"data"`
		}
		if err := json.Unmarshal(trimmed, &doc); err != nil {
			return nil, fmt.Errorf("%w: %v", apperrors.ErrMalformedSnapshot, err)
		}
		if doc.Data == nil {
			return nil, fmt.Errorf("%w: object has no data array", apperrors.ErrMalformedSnapshot)
		}
		records = *doc.Data
	default:
		return nil, fmt.Errorf("%w: expected a JSON array or object", apperrors.ErrMalformedSnapshot)
	}

	if records == nil {
		records = []model.StockRecord{}
	}
	return records, nil
}

// RawDocument returns the loaded document exactly as it was read.
func (r *StaticStockRepository) RawDocument() []byte {
	return r.raw
}

func (r *StaticStockRepository) matching(tradeCode string) []model.StockRecord {
	if tradeCode == "" {
		return r.records
	}

	var out []model.StockRecord
	for _, rec := range r.records {
		if rec.TradeCode == tradeCode {
			out = append(out, rec)
		}
	}
	return out
}

// CountRecords counts snapshot records matching the filter's trade code.
func (r *StaticStockRepository) CountRecords(_ context.Context, filter model.StockFilter) (int, error) {
	return len(r.matching(filter.TradeCode)), nil
}

// ListRecords pages through the snapshot in document order.
func (r *StaticStockRepository) ListRecords(ctx context.Context, filter model.StockFilter) (model.StockPage, error) {
	filter = filter.Normalize()
	matched := r.matching(filter.TradeCode)

	total, _ := r.CountRecords(ctx, filter)
	page := model.StockPage{
		Total: total,
		Data:  []model.StockRecord{},
	}

	start := filter.Offset()
	if start >= len(matched) {
		return page, nil
	}
	end := min(start+filter.Limit, len(matched))

	// Copy so callers cannot alias the snapshot.
	page.Data = append(page.Data, matched[start:end]...)
	return page, nil
}

// DistinctTradeCodes returns the sorted set of trade codes in the snapshot.
func (r *StaticStockRepository) DistinctTradeCodes(_ context.Context) ([]string, error) {
	seen := make(map[string]struct{})
	codes := []string{}

	for _, rec := range r.records {
		if _, ok := seen[rec.TradeCode]; ok {
			continue
		}
		seen[rec.TradeCode] = struct{}{}
		codes = append(codes, rec.TradeCode)
	}

	sort.Strings(codes)
	return codes, nil
}

func (r *StaticStockRepository) InsertRecord(context.Context, model.StockRecord) error {
	return apperrors.ErrReadOnlySource
}

func (r *StaticStockRepository) UpdateRecord(context.Context, model.StockRecord) (int64, error) {
	return 0, apperrors.ErrReadOnlySource
}

func (r *StaticStockRepository) DeleteRecord(context.Context, model.StockRecord) (int64, error) {
	return 0, apperrors.ErrReadOnlySource
}

// Ping always succeeds; the snapshot lives in memory.
func (r *StaticStockRepository) Ping(context.Context) error {
	return nil
}
