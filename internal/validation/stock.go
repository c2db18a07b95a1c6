package validation

import (
	"fmt"
	"math"
	"strings"

	"github.com/ndewijer/stock-market-api/internal/api/request"
	"github.com/ndewijer/stock-market-api/internal/apperrors"
)

// ValidateStockRecord validates the body of /add, /update and /delete.
// Every field is required; the JSON decoder has already enforced the types.
//
// Required fields:
//   - date: Must be in YYYY-MM-DD format
//   - trade_code: Non-blank, at most MaxTradeCodeLength characters once trimmed
//   - high, low, open, close: Finite numbers
//   - volume: Non-negative integer
//
// Returns a validation Error with field-specific error messages if validation fails.
func ValidateStockRecord(req request.StockRecordRequest) error {
	errors := make(map[string]string)

	if req.Date == nil {
		errors["date"] = "date is required"
	} else if err := ValidateDate(*req.Date); err != nil {
		errors["date"] = err.Error()
	}

	if req.TradeCode == nil || strings.TrimSpace(*req.TradeCode) == "" {
		errors["trade_code"] = apperrors.ErrInvalidTradeCode.Error()
	} else if len(strings.TrimSpace(*req.TradeCode)) > MaxTradeCodeLength {
		errors["trade_code"] = fmt.Sprintf("trade_code must be at most %d characters", MaxTradeCodeLength)
	}

	prices := []struct {
		name  string
		value *float64
	}{
		{"high", req.High},
		{"low", req.Low},
		{"open", req.Open},
		{"close", req.Close},
	}
	for _, p := range prices {
		if p.value == nil {
			errors[p.name] = p.name + " is required"
			continue
		}
		if math.IsNaN(*p.value) || math.IsInf(*p.value, 0) {
			errors[p.name] = p.name + " must be a finite number"
		}
	}

	if req.Volume == nil {
		errors["volume"] = "volume is required"
	} else if *req.Volume < 0 {
		errors["volume"] = "volume must be non-negative"
	}

	if len(errors) > 0 {
		return &Error{Fields: errors}
	}

	return nil
}
