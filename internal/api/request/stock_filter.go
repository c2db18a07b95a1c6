package request

import (
	"fmt"
	"math"
	"net/url"
	"strconv"
	"strings"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
	"github.com/ndewijer/stock-market-api/internal/model"
)

// ParseStockFilter extracts and validates the /data query parameters.
//
// Validation rules:
//   - page: integer >= 1 (defaults to 1) whose offset fits in an int
//   - limit: integer between 1 and model.MaxLimit (defaults to 50)
//   - trade_code: optional exact-match filter, surrounding whitespace trimmed
func ParseStockFilter(query url.Values) (model.StockFilter, error) {
	filter := model.StockFilter{
		Page:      model.DefaultPage,
		Limit:     model.DefaultLimit,
		TradeCode: strings.TrimSpace(query.Get("trade_code")),
	}

	if raw := query.Get("page"); raw != "" {
		page, err := strconv.Atoi(raw)
		if err != nil || page < 1 {
			return model.StockFilter{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidPage, raw)
		}
		filter.Page = page
	}

	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 1 {
			return model.StockFilter{}, fmt.Errorf("%w: %q", apperrors.ErrInvalidLimit, raw)
		}
		if limit > model.MaxLimit {
			return model.StockFilter{}, fmt.Errorf("%w: %d > %d", apperrors.ErrLimitTooLarge, limit, model.MaxLimit)
		}
		filter.Limit = limit
	}

	if filter.Page-1 > math.MaxInt/filter.Limit {
		return model.StockFilter{}, fmt.Errorf("%w: page %d is out of range", apperrors.ErrInvalidPage, filter.Page)
	}

	return filter, nil
}
