// Package pgstore runs compiled screens against a postgres table.
package pgstore

import (
	"context"
	"fmt"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/index"
	"github.com/stockscreen/screener/internal/logger"
	"github.com/stockscreen/screener/internal/sqlutil"
)

// ConnectTimeout bounds pool creation and the initial ping.
const ConnectTimeout = 5 * time.Second

// Store wraps a postgres connection pool and the table holding stocks.
// The table needs symbol and name text columns plus one numeric column per
// field a screen references. Use double precision or numeric columns: literals
// are cast to double, but field / field on integer columns divides as integers.
type Store struct {
	Pool  *pgxpool.Pool
	table string
}

// Connect creates a pool for dsn and pings it.
func Connect(ctx context.Context, dsn, table string) (*Store, error) {
	if table == "" {
		return nil, fmt.Errorf("postgres table is required")
	}

	config, err := pgxpool.ParseConfig(dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to parse config: %w", err)
	}

	ctx, cancel := context.WithTimeout(ctx, ConnectTimeout)
	defer cancel()

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("failed to create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &Store{Pool: pool, table: table}, nil
}

// Close closes the connection pool.
func (s *Store) Close() {
	s.Pool.Close()
}

// Table returns the screened table.
func (s *Store) Table() string {
	return s.table
}

// BuildQuery renders the postgres statement for a screen: symbol, name and the
// used fields, filtered by the compiled conditions and ordered by symbol.
func BuildQuery(conds filter.Conditions, table string, opts index.ScreenOptions) (string, []any, error) {
	limit := uint(0)
	if opts.Limit > 0 {
		limit = uint(opts.Limit)
	}
	query, args, err := filter.BuildSelect(conds, filter.DialectPostgres, filter.SelectOptions{
		Table:   table,
		Columns: []string{"symbol", "name"},
		Symbols: opts.Symbols,
		OrderBy: "symbol",
		Limit:   limit,
	})
	if err != nil {
		return "", nil, err
	}
	return query, sqlutil.NormalizeArgs(args), nil
}

// Screen runs the conditions against the table.
func (s *Store) Screen(ctx context.Context, conds filter.Conditions, opts index.ScreenOptions) ([]index.Stock, error) {
	query, args, err := BuildQuery(conds, s.table, opts)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	rows, err := s.Pool.Query(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("screen query failed: %w", err)
	}
	defer rows.Close()

	stocks, err := scanStocks(rows)
	if err != nil {
		return nil, err
	}
	logger.Debug("postgres screen", "sql", query, "args", len(args), "matched", len(stocks), "took", time.Since(start))
	return stocks, nil
}

func scanStocks(rows pgx.Rows) ([]index.Stock, error) {
	descs := rows.FieldDescriptions()
	if len(descs) < 2 {
		return nil, fmt.Errorf("screen query returned %d columns, want at least 2", len(descs))
	}
	fieldCols := make([]string, 0, len(descs)-2)
	for _, d := range descs[2:] {
		fieldCols = append(fieldCols, d.Name)
	}

	var out []index.Stock
	for rows.Next() {
		var symbol string
		var name *string
		values := make([]*float64, len(fieldCols))
		dest := make([]any, 0, len(descs))
		dest = append(dest, &symbol, &name)
		for i := range values {
			dest = append(dest, &values[i])
		}
		if err := rows.Scan(dest...); err != nil {
			return nil, fmt.Errorf("failed to scan row: %w", err)
		}

		st := index.Stock{Symbol: symbol}
		if name != nil {
			st.Name = *name
		}
		for i, v := range values {
			if v == nil {
				continue
			}
			if st.Values == nil {
				st.Values = make(map[string]float64)
			}
			st.Values[fieldCols[i]] = *v
		}
		out = append(out, st)
	}
	return out, rows.Err()
}
