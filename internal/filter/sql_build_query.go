package filter

import (
	"errors"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"
	_ "github.com/doug-martin/goqu/v9/dialect/sqlite3"
	"github.com/doug-martin/goqu/v9/exp"
)

// SelectOptions describes the statement BuildSelect produces around a
// compiled screen.
type SelectOptions struct {
	Table        string   // required
	Columns      []string // leading columns, e.g. symbol and name
	SymbolColumn string   // column matched by Symbols (default "symbol")
	Symbols      []string // restrict to these symbols when non-empty
	OrderBy      string   // ascending order column (optional)
	Limit        uint     // 0 means no limit
}

// BuildSelect builds a parameterized SELECT for the conditions. The projection
// is opts.Columns followed by the fields the conditions use. Placeholders are
// rendered for the dialect ($n for postgres, ? for sqlite).
func BuildSelect(conds Conditions, d Dialect, opts SelectOptions) (string, []any, error) {
	if opts.Table == "" {
		return "", nil, errors.New("select: table is required")
	}

	ds := goqu.Dialect(goquDialect(d)).From(opts.Table).Prepared(true)

	seen := make(map[string]bool)
	var cols []any
	for _, col := range append(append([]string{}, opts.Columns...), UsedFields(conds)...) {
		if seen[col] {
			continue
		}
		seen[col] = true
		cols = append(cols, goqu.C(col))
	}
	if len(cols) > 0 {
		ds = ds.Select(cols...)
	}

	compiled := CompileSQLDialect(conds, d)
	where := []exp.Expression{goqu.L(compiled.Where, compiled.Args...)}
	if len(opts.Symbols) > 0 {
		symbolCol := opts.SymbolColumn
		if symbolCol == "" {
			symbolCol = "symbol"
		}
		where = append(where, goqu.C(symbolCol).In(opts.Symbols))
	}
	ds = ds.Where(where...)

	if opts.OrderBy != "" {
		ds = ds.Order(goqu.C(opts.OrderBy).Asc())
	}
	if opts.Limit > 0 {
		ds = ds.Limit(opts.Limit)
	}

	return ds.ToSQL()
}

func goquDialect(d Dialect) string {
	if d == DialectPostgres {
		return "postgres"
	}
	return "sqlite3"
}
