package testutil

import (
	"testing"

	"github.com/jmoiron/sqlx"

	"github.com/ndewijer/stock-market-api/internal/model"
)

// StockRecordBuilder provides a fluent interface for creating test stock records.
//
// Example usage:
//
//	// Simple creation with defaults
//	rec := testutil.NewStockRecord().Build(t, db)
//
//	// Customized record
//	rec := testutil.NewStockRecord().
//	    WithTradeCode("ACI").
//	    WithDate("2020-08-10").
//	    WithVolume(1000).
//	    Build(t, db)
type StockRecordBuilder struct {
	rec model.StockRecord
}

// NewStockRecord creates a StockRecordBuilder with sensible defaults and a
// unique trade code.
func NewStockRecord() *StockRecordBuilder {
	return &StockRecordBuilder{
		rec: model.StockRecord{
			Date:      model.MustParseDate("2020-08-10"),
			TradeCode: MakeTradeCode("TC"),
			High:      104.5,
			Low:       98.25,
			Open:      100.0,
			Close:     102.75,
			Volume:    150000,
		},
	}
}

// WithDate sets the trading day (YYYY-MM-DD).
func (b *StockRecordBuilder) WithDate(date string) *StockRecordBuilder {
	b.rec.Date = model.MustParseDate(date)
	return b
}

// WithTradeCode sets a custom trade code.
func (b *StockRecordBuilder) WithTradeCode(code string) *StockRecordBuilder {
	b.rec.TradeCode = code
	return b
}

// WithPrices sets open, high, low and close.
func (b *StockRecordBuilder) WithPrices(open, high, low, closePrice float64) *StockRecordBuilder {
	b.rec.Open = open
	b.rec.High = high
	b.rec.Low = low
	b.rec.Close = closePrice
	return b
}

// WithVolume sets the traded volume.
func (b *StockRecordBuilder) WithVolume(volume int64) *StockRecordBuilder {
	b.rec.Volume = volume
	return b
}

// Record returns the record without storing it.
func (b *StockRecordBuilder) Record() model.StockRecord {
	return b.rec
}

// Build inserts the record into stock_data and returns it.
func (b *StockRecordBuilder) Build(t *testing.T, db *sqlx.DB) model.StockRecord {
	t.Helper()

	query := `
		INSERT INTO stock_data (date, trade_code, high, low, open, close, volume)
		VALUES (?, ?, ?, ?, ?, ?, ?)
	`

	_, err := db.Exec(query, b.rec.Date, b.rec.TradeCode, b.rec.High, b.rec.Low, b.rec.Open, b.rec.Close, b.rec.Volume)
	if err != nil {
		t.Fatalf("Failed to create test stock record: %v", err)
	}

	return b.rec
}

// Convenience functions

// CreateStockSeries creates one record per day for a trade code, starting at
// 2020-08-01.
//
// Example usage:
//
//	recs := testutil.CreateStockSeries(t, db, "ACI", 5)
func CreateStockSeries(t *testing.T, db *sqlx.DB, tradeCode string, days int) []model.StockRecord {
	t.Helper()

	start := model.MustParseDate("2020-08-01")
	recs := make([]model.StockRecord, 0, days)

	for i := range days {
		day := model.NewDate(start.AddDate(0, 0, i))
		recs = append(recs, NewStockRecord().
			WithTradeCode(tradeCode).
			WithDate(day.String()).
			WithVolume(int64(1000*(i+1))).
			Build(t, db))
	}

	return recs
}
