package validation

import (
	"github.com/ndewijer/stock-market-api/internal/model"
)

// MaxTradeCodeLength matches the trade_code column width.
const MaxTradeCodeLength = 50

// ValidateDate checks that s is a YYYY-MM-DD calendar date.
func ValidateDate(s string) error {
	_, err := model.ParseDate(s)
	return err
}
