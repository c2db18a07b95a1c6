// Package snapshot reads and writes stock record files for the import and
// export commands. The format is chosen by file extension.
package snapshot

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/parquet-go/parquet-go"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/model"
	"github.com/ndewijer/stock-market-api/internal/repository"
)

const (
	FormatJSON    = ".json"
	FormatParquet = ".parquet"
)

// stockRow is the Parquet layout of a stock record. Dates are stored as
// YYYY-MM-DD strings.
type stockRow struct {
	Date      string  `parquet:"date"`
	TradeCode string  `parquet:"trade_code,dict"`
	High      float64 `parquet:"high"`
	Low       float64 `parquet:"low"`
	Open      float64 `parquet:"open"`
	Close     float64 `parquet:"close"`
	Volume    int64   `parquet:"volume"`
}

func toRow(rec model.StockRecord) stockRow {
	return stockRow{
		Date:      rec.Date.String(),
		TradeCode: rec.TradeCode,
		High:      rec.High,
		Low:       rec.Low,
		Open:      rec.Open,
		Close:     rec.Close,
		Volume:    rec.Volume,
	}
}

func (r stockRow) record() (model.StockRecord, error) {
	date, err := model.ParseDate(r.Date)
	if err != nil {
		return model.StockRecord{}, err
	}
	return model.StockRecord{
		Date:      date,
		TradeCode: r.TradeCode,
		High:      r.High,
		Low:       r.Low,
		Open:      r.Open,
		Close:     r.Close,
		Volume:    r.Volume,
	}, nil
}

// Format returns the normalized extension of path, or
// apperrors.ErrUnsupportedFileFormat.
func Format(path string) (string, error) {
	ext := strings.ToLower(filepath.Ext(path))
	switch ext {
	case FormatJSON, FormatParquet:
		return ext, nil
	default:
		return "", fmt.Errorf("%w: %q", apperrors.ErrUnsupportedFileFormat, ext)
	}
}

// ReadFile loads every record from a .json or .parquet file.
func ReadFile(path string) ([]model.StockRecord, error) {
	format, err := Format(path)
	if err != nil {
		return nil, err
	}

	if format == FormatJSON {
		raw, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return repository.DecodeStockDocument(raw)
	}

	rows, err := parquet.ReadFile[stockRow](path)
	if err != nil {
		return nil, fmt.Errorf("failed to read parquet file %s: %w", path, err)
	}

	recs := make([]model.StockRecord, 0, len(rows))
	for i, row := range rows {
		rec, err := row.record()
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", i, err)
		}
		recs = append(recs, rec)
	}
	return recs, nil
}

// WriteFile writes recs to a .json or .parquet file, replacing any existing file.
func WriteFile(path string, recs []model.StockRecord) (err error) {
	format, err := Format(path)
	if err != nil {
		return err
	}

	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("failed to create output directory: %w", err)
		}
	}

	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("failed to create file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("failed to close file: %w", cerr)
		}
	}()

	if format == FormatJSON {
		if recs == nil {
			recs = []model.StockRecord{}
		}
		enc := json.NewEncoder(f)
		enc.SetIndent("", "  ")
		if err := enc.Encode(recs); err != nil {
			return fmt.Errorf("failed to encode records: %w", err)
		}
		return nil
	}

	pw := parquet.NewGenericWriter[stockRow](f,
		parquet.Compression(&parquet.Snappy),
		parquet.PageBufferSize(64*1024),
	)

	rows := make([]stockRow, len(recs))
	for i, rec := range recs {
		rows[i] = toRow(rec)
	}

	if _, err := pw.Write(rows); err != nil {
		pw.Close()
		return fmt.Errorf("failed to write parquet rows: %w", err)
	}

	// Close writes the footer.
	if err := pw.Close(); err != nil {
		return fmt.Errorf("failed to close parquet writer: %w", err)
	}
	return nil
}
