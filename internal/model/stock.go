package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"math"
	"time"

	"github.com/ndewijer/stock-market-api/internal/apperrors"
)

// DateLayout is the wire and storage format of a trading day.
const DateLayout = "2006-01-02"

// Pagination defaults applied when the client omits page or limit.
const (
	DefaultPage  = 1
	DefaultLimit = 50
	MaxLimit     = 1000
)

// Date is a calendar day without time-of-day. It is serialized as YYYY-MM-DD
// both over the wire and when bound as a SQL parameter.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(t time.Time) Date {
	y, m, d := t.Date()
	return Date{Time: time.Date(y, m, d, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, fmt.Errorf("%w: got %q", apperrors.ErrInvalidDate, s)
	}
	return Date{Time: t}, nil
}

// MustParseDate is ParseDate for literals known to be valid.
func MustParseDate(s string) Date {
	d, err := ParseDate(s)
	if err != nil {
		panic(err)
	}
	return d
}

func (d Date) String() string {
	return d.Format(DateLayout)
}

// MarshalJSON implements json.Marshaler.
func (d Date) MarshalJSON() ([]byte, error) {
	return json.Marshal(d.String())
}

// UnmarshalJSON implements json.Unmarshaler.
func (d *Date) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return fmt.Errorf("date must be a string: %w", err)
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// Value implements driver.Valuer. Dates are bound as text so that equality
// against a DATE column behaves the same on SQLite and PostgreSQL.
func (d Date) Value() (driver.Value, error) {
	return d.String(), nil
}

// Scan implements sql.Scanner.
func (d *Date) Scan(src any) error {
	switch v := src.(type) {
	case time.Time:
		*d = NewDate(v)
		return nil
	case string:
		return d.scanString(v)
	case []byte:
		return d.scanString(string(v))
	case nil:
		return fmt.Errorf("cannot scan NULL into Date")
	default:
		return fmt.Errorf("cannot scan %T into Date", src)
	}
}

func (d *Date) scanString(s string) error {
	// SQLite may hand back the full timestamp text for DATE columns.
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

// StockRecord is one daily price observation for a traded instrument.
// (Date, TradeCode) acts as the natural key but is not enforced as unique.
type StockRecord struct {
	Date      Date    `json:"date" db:"date"`
	TradeCode string  `json:"trade_code" db:"trade_code"`
	High      float64 `json:"high" db:"high"`
	Low       float64 `json:"low" db:"low"`
	Open      float64 `json:"open" db:"open"`
	Close     float64 `json:"close" db:"close"`
	Volume    int64   `json:"volume" db:"volume"`
}

// StockFilter narrows a listing of stock records.
type StockFilter struct {
	Page      int
	Limit     int
	TradeCode string // exact match, empty means no filter
}

// Offset returns the number of rows to skip for the requested page. It
// saturates at math.MaxInt instead of overflowing.
func (f StockFilter) Offset() int {
	if f.Page < 1 || f.Limit < 1 {
		return 0
	}
	if f.Page-1 > math.MaxInt/f.Limit {
		return math.MaxInt
	}
	return (f.Page - 1) * f.Limit
}

// Normalize fills in the pagination defaults.
func (f StockFilter) Normalize() StockFilter {
	if f.Page < 1 {
		f.Page = DefaultPage
	}
	if f.Limit < 1 {
		f.Limit = DefaultLimit
	}
	return f
}

// StockPage is the response envelope of a paginated listing. Total counts
// every record matching the filter, not only the ones on this page.
type StockPage struct {
	Total int           `json:"total"`
	Data  []StockRecord `json:"data"`
}

// TradeCodesResponse lists the distinct trade codes present.
type TradeCodesResponse struct {
	TradeCodes []string `json:"trade_codes"`
}

// MessageResponse is returned by the mutation endpoints.
type MessageResponse struct {
	Message string `json:"message"`
}
