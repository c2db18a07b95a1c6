package request

import (
	"strings"

	"github.com/ndewijer/stock-market-api/internal/model"
)

// StockRecordRequest represents the request body for /add, /update and /delete.
// All fields are required; pointers let validation tell a missing field from a zero value.
type StockRecordRequest struct {
	Date      *string  `json:"date"`
	TradeCode *string  `json:"trade_code"`
	High      *float64 `json:"high"`
	Low       *float64 `json:"low"`
	Open      *float64 `json:"open"`
	Close     *float64 `json:"close"`
	Volume    *int64   `json:"volume"`
}

// Record converts a validated request into a model.StockRecord.
// Callers must validate the request first; Record panics on missing fields.
// The trade code is trimmed the same way as the trade_code query filter.
func (r StockRecordRequest) Record() model.StockRecord {
	return model.StockRecord{
		Date:      model.MustParseDate(*r.Date),
		TradeCode: strings.TrimSpace(*r.TradeCode),
		High:      *r.High,
		Low:       *r.Low,
		Open:      *r.Open,
		Close:     *r.Close,
		Volume:    *r.Volume,
	}
}
