package repository

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/ndewijer/stock-market-api/internal/model"
)

const stockColumns = "date, trade_code, high, low, open, close, volume"

// SQLStockRepository provides data access methods for the stock_data table.
// Queries are written with "?" placeholders and rebound for the driver in use.
type SQLStockRepository struct {
	db *sqlx.DB
	tx *sqlx.Tx
}

// NewSQLStockRepository creates a new SQLStockRepository with the provided database connection.
func NewSQLStockRepository(db *sqlx.DB) *SQLStockRepository {
	return &SQLStockRepository{db: db}
}

// WithTx returns a new SQLStockRepository scoped to the provided transaction.
func (r *SQLStockRepository) WithTx(tx *sqlx.Tx) *SQLStockRepository {
	return &SQLStockRepository{
		db: r.db,
		tx: tx,
	}
}

// getQuerier returns the active transaction if one is set, otherwise the database connection.
func (r *SQLStockRepository) getQuerier() sqlx.ExtContext {
	if r.tx != nil {
		return r.tx
	}
	return r.db
}

// inTx runs fn inside the active transaction, or inside a new one that is
// committed when fn succeeds and rolled back otherwise.
func (r *SQLStockRepository) inTx(ctx context.Context, fn func(q sqlx.ExtContext) error) error {
	if r.tx != nil {
		return fn(r.tx)
	}

	tx, err := r.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback() //nolint:errcheck // no-op after Commit

	if err := fn(tx); err != nil {
		return err
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// countQuery builds the COUNT query for the filter.
func countQuery(filter model.StockFilter) (string, []any) {
	query := `SELECT COUNT(*) FROM stock_data`
	var args []any

	if filter.TradeCode != "" {
		query += ` WHERE trade_code = ?`
		args = append(args, filter.TradeCode)
	}

	return query, args
}

// CountRecords returns the number of records matching the filter's trade code.
// ListRecords runs the same count inside its read transaction.
func (r *SQLStockRepository) CountRecords(ctx context.Context, filter model.StockFilter) (int, error) {
	return countRecords(ctx, r.getQuerier(), filter)
}

func countRecords(ctx context.Context, q sqlx.ExtContext, filter model.StockFilter) (int, error) {
	query, args := countQuery(filter)

	var total int
	if err := sqlx.GetContext(ctx, q, &total, q.Rebind(query), args...); err != nil {
		return 0, fmt.Errorf("failed to count stock_data rows: %w", err)
	}

	return total, nil
}

// ListRecords returns one page of records and the number of records matching
// the filter. Both statements run in one transaction so the total agrees
// with the page.
func (r *SQLStockRepository) ListRecords(ctx context.Context, filter model.StockFilter) (model.StockPage, error) {
	filter = filter.Normalize()
	page := model.StockPage{Data: []model.StockRecord{}}

	err := r.inTx(ctx, func(q sqlx.ExtContext) error {
		total, err := countRecords(ctx, q, filter)
		if err != nil {
			return err
		}
		page.Total = total

		query := `SELECT ` + stockColumns + ` FROM stock_data`
		var args []any

		if filter.TradeCode != "" {
			query += ` WHERE trade_code = ?`
			args = append(args, filter.TradeCode)
		}

		// Total order: rows that tie on every column are indistinguishable.
		query += ` ORDER BY date, trade_code, open, high, low, close, volume LIMIT ? OFFSET ?`
		args = append(args, filter.Limit, filter.Offset())

		if err := sqlx.SelectContext(ctx, q, &page.Data, q.Rebind(query), args...); err != nil {
			return fmt.Errorf("failed to query stock_data table: %w", err)
		}

		return nil
	})
	if err != nil {
		return model.StockPage{}, err
	}

	return page, nil
}

// DistinctTradeCodes returns every trade code present in stock_data.
func (r *SQLStockRepository) DistinctTradeCodes(ctx context.Context) ([]string, error) {
	codes := []string{}

	err := sqlx.SelectContext(ctx, r.getQuerier(), &codes,
		`SELECT DISTINCT trade_code FROM stock_data ORDER BY trade_code`)
	if err != nil {
		return nil, fmt.Errorf("failed to query distinct trade codes: %w", err)
	}

	return codes, nil
}

const insertStockQuery = `
	INSERT INTO stock_data (` + stockColumns + `)
	VALUES (:date, :trade_code, :high, :low, :open, :close, :volume)
`

// InsertRecord inserts one row. No duplicate check is made.
func (r *SQLStockRepository) InsertRecord(ctx context.Context, rec model.StockRecord) error {
	if _, err := sqlx.NamedExecContext(ctx, r.getQuerier(), insertStockQuery, rec); err != nil {
		return fmt.Errorf("failed to insert stock_data row: %w", err)
	}
	return nil
}

// InsertRecords inserts all records in a single transaction. Either every
// record is stored or none is.
func (r *SQLStockRepository) InsertRecords(ctx context.Context, recs []model.StockRecord) (int, error) {
	err := r.inTx(ctx, func(q sqlx.ExtContext) error {
		for i, rec := range recs {
			if _, err := sqlx.NamedExecContext(ctx, q, insertStockQuery, rec); err != nil {
				return fmt.Errorf("failed to insert stock_data row %d: %w", i, err)
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	return len(recs), nil
}

// UpdateRecord overwrites every row keyed by the record's (date, trade_code).
func (r *SQLStockRepository) UpdateRecord(ctx context.Context, rec model.StockRecord) (int64, error) {
	q := r.getQuerier()
	query := `
		UPDATE stock_data
		SET open = ?, close = ?, high = ?, low = ?, volume = ?, date = ?, trade_code = ?
		WHERE date = ? AND trade_code = ?
	`

	result, err := q.ExecContext(ctx, q.Rebind(query),
		rec.Open, rec.Close, rec.High, rec.Low, rec.Volume, rec.Date, rec.TradeCode,
		rec.Date, rec.TradeCode,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to update stock_data: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// DeleteRecord removes every row keyed by the record's (date, trade_code).
func (r *SQLStockRepository) DeleteRecord(ctx context.Context, rec model.StockRecord) (int64, error) {
	q := r.getQuerier()
	query := `DELETE FROM stock_data WHERE date = ? AND trade_code = ?`

	result, err := q.ExecContext(ctx, q.Rebind(query), rec.Date, rec.TradeCode)
	if err != nil {
		return 0, fmt.Errorf("failed to delete from stock_data: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}

	return rowsAffected, nil
}

// Ping checks database connectivity.
func (r *SQLStockRepository) Ping(ctx context.Context) error {
	return r.db.PingContext(ctx)
}
