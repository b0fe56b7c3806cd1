package index

import (
	"context"
	"database/sql"
	"fmt"
	"strings"
	"time"

	"github.com/stockscreen/screener/internal/dataset"
	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/logger"
	"github.com/stockscreen/screener/internal/sqlutil"
)

// Stock is a stored stock with its non-null field values.
type Stock struct {
	Symbol string             `json:"symbol"`
	Name   string             `json:"name"`
	Values map[string]float64 `json:"values,omitempty"`
}

// ScreenOptions narrows a screen.
type ScreenOptions struct {
	Symbols []string // restrict to these symbols when non-empty
	Limit   int      // 0 means no limit
}

// UpsertStocks inserts or replaces rows in one transaction and returns how
// many were written. Values outside the vocabulary are ignored and
// non-numeric values are stored as NULL.
func (d *Database) UpsertStocks(ctx context.Context, rows []dataset.Row) (int, error) {
	fields := d.vocab.Fields()

	cols := append([]string{"symbol", "name", "updated_at"}, fields...)
	updates := make([]string, 0, len(cols)-1)
	for _, c := range cols[1:] {
		updates = append(updates, c+" = excluded."+c)
	}
	stmtSQL := fmt.Sprintf(
		"INSERT INTO %s (%s) VALUES (%s) ON CONFLICT(symbol) DO UPDATE SET %s",
		StocksTable,
		strings.Join(cols, ", "),
		strings.TrimSuffix(strings.Repeat("?, ", len(cols)), ", "),
		strings.Join(updates, ", "),
	)

	tx, err := d.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, err
	}
	defer tx.Rollback()

	stmt, err := tx.PrepareContext(ctx, stmtSQL)
	if err != nil {
		return 0, fmt.Errorf("failed to prepare upsert: %w", err)
	}
	defer stmt.Close()

	now := time.Now().Unix()
	args := make([]any, len(cols))
	for _, row := range rows {
		args[0], args[1], args[2] = row.Symbol, row.Name, now
		for i, f := range fields {
			if v, ok := row.Values.Number(f); ok {
				args[3+i] = v
			} else {
				args[3+i] = nil
			}
		}
		if _, err := stmt.ExecContext(ctx, args...); err != nil {
			return 0, fmt.Errorf("failed to upsert %s: %w", row.Symbol, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit upsert: %w", err)
	}
	return len(rows), nil
}

// Screen runs the conditions as a WHERE clause and returns matching stocks
// ordered by symbol. Each result carries the fields the conditions use.
func (d *Database) Screen(ctx context.Context, conds filter.Conditions, opts ScreenOptions) ([]Stock, error) {
	limit := uint(0)
	if opts.Limit > 0 {
		limit = uint(opts.Limit)
	}
	query, args, err := filter.BuildSelect(conds, filter.DialectSQLite, filter.SelectOptions{
		Table:   StocksTable,
		Columns: []string{"symbol", "name"},
		Symbols: opts.Symbols,
		OrderBy: "symbol",
		Limit:   limit,
	})
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := d.db.QueryContext(ctx, query, sqlutil.NormalizeArgs(args)...)
	if err != nil {
		return nil, fmt.Errorf("screen query failed: %w", err)
	}

	stocks, err := scanStocks(rows)
	if err != nil {
		return nil, err
	}
	logger.Debug("sqlite screen", "sql", query, "args", len(args), "matched", len(stocks), "took", time.Since(start))
	return stocks, nil
}

// Count returns the number of stored stocks.
func (d *Database) Count(ctx context.Context) (int, error) {
	var n int
	if err := d.db.QueryRowContext(ctx, "SELECT COUNT(*) FROM "+StocksTable).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}

// Get returns one stock with every stored field.
func (d *Database) Get(ctx context.Context, symbol string) (*Stock, error) {
	stocks, err := d.Stocks(ctx, symbol)
	if err != nil {
		return nil, err
	}
	if len(stocks) == 0 {
		return nil, fmt.Errorf("%w: %s", ErrStockNotFound, symbol)
	}
	return &stocks[0], nil
}

// Stocks returns the listed stocks with every stored field, ordered by symbol.
// Unknown symbols are skipped.
func (d *Database) Stocks(ctx context.Context, symbols ...string) ([]Stock, error) {
	cols := append([]string{"symbol", "name"}, d.vocab.Fields()...)
	ph, args := sqlutil.InClauseArgs(symbols)
	query := fmt.Sprintf("SELECT %s FROM %s WHERE symbol IN (%s) ORDER BY symbol",
		strings.Join(cols, ", "), StocksTable, ph)

	rows, err := d.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("failed to load stocks: %w", err)
	}
	return scanStocks(rows)
}

// Delete removes stocks by symbol and returns how many rows went away.
func (d *Database) Delete(ctx context.Context, symbols ...string) (int, error) {
	ph, args := sqlutil.InClauseArgs(symbols)
	res, err := d.db.ExecContext(ctx, "DELETE FROM "+StocksTable+" WHERE symbol IN ("+ph+")", args...)
	if err != nil {
		return 0, fmt.Errorf("failed to delete stocks: %w", err)
	}
	n, err := res.RowsAffected()
	return int(n), err
}

// scanStocks reads rows whose first two columns are symbol and name and whose
// remaining columns are numeric fields.
func scanStocks(rows *sql.Rows) ([]Stock, error) {
	cols, err := rows.Columns()
	if err != nil {
		rows.Close()
		return nil, err
	}
	fieldCols := cols[2:]

	return sqlutil.ScanRows(rows, func(rows *sql.Rows) (Stock, error) {
		var s Stock
		values := make([]sql.NullFloat64, len(fieldCols))
		dest := make([]any, 0, len(cols))
		dest = append(dest, &s.Symbol, &s.Name)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return Stock{}, err
		}
		for i, v := range values {
			if !v.Valid {
				continue
			}
			if s.Values == nil {
				s.Values = make(map[string]float64)
			}
			s.Values[fieldCols[i]] = v.Float64
		}
		return s, nil
	})
}

// Record converts the stock back into an evaluator record.
func (s Stock) Record() filter.Record {
	rec := make(filter.Record, len(s.Values))
	for k, v := range s.Values {
		rec[k] = v
	}
	return rec
}
