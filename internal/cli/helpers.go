package cli

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/stockscreen/screener/internal/audit"
	"github.com/stockscreen/screener/internal/dataset"
	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/index"
	"github.com/stockscreen/screener/internal/lastresults"
	"github.com/stockscreen/screener/internal/logger"
	"github.com/stockscreen/screener/internal/screens"
	"github.com/stockscreen/screener/internal/ui"
)

// handleParseError reports a query parse failure with its kind, token and clause.
func handleParseError(err error) error {
	var perr *filter.ParseError
	if !errors.As(err, &perr) {
		return handleError(ErrQueryInvalid, err, "")
	}

	suggestion := ""
	switch {
	case errors.Is(err, filter.ErrInvalidField):
		suggestion = "Run 'screener fields' to list valid field names"
	case errors.Is(err, filter.ErrInvalidOperator):
		suggestion = "Comparators are >, <, >=, <=, = and !="
	case errors.Is(err, filter.ErrMalformedClause):
		suggestion = "Each clause needs the form <expression> <comparator> <expression>"
	}

	details := map[string]interface{}{
		"kind":   perr.KindName(),
		"token":  perr.Token,
		"clause": perr.Clause,
		"pos":    perr.Pos,
	}
	return handleErrorWithDetails(ErrQueryInvalid, "invalid query: "+perr.Error(), suggestion, details)
}

// looksLikeScreenRef reports whether arg could be a saved screen id rather
// than a query: a single token without comparator characters.
func looksLikeScreenRef(arg string) bool {
	arg = strings.TrimSpace(arg)
	return arg != "" && !strings.ContainsAny(arg, " \t<>=!")
}

// resolveQuery returns the query text for a command argument, which may be a
// query or the id of a saved screen.
func resolveQuery(arg string) (string, *screens.Screen) {
	if !looksLikeScreenRef(arg) {
		return arg, nil
	}
	store, err := loadScreenStore()
	if err != nil {
		return arg, nil
	}
	sc, err := store.Get(arg)
	if err != nil {
		return arg, nil
	}
	return sc.Query, &sc
}

func loadScreenStore() (*screens.Store, error) {
	return screens.Load(getConfig().ScreensPath())
}

// screenAuditLog returns the change log kept next to the screens file.
func screenAuditLog() *audit.Logger {
	return audit.New(filepath.Join(filepath.Dir(getConfig().ScreensPath()), "screens-audit.log"), true)
}

// dataDir is where per-run state such as the last results lives.
func dataDir() string {
	return filepath.Dir(getDatabasePath())
}

// rememberResults saves the matched symbols for 'screener last' and
// 'run --from-last'. Failures are logged, not reported.
func rememberResults(source lastresults.Source, query string, sc *screens.Screen, backend string, stocks []index.Stock) {
	symbols := make([]string, 0, len(stocks))
	for _, st := range stocks {
		symbols = append(symbols, st.Symbol)
	}
	lr := lastresults.New(source, query, symbols)
	lr.Backend = backend
	if sc != nil {
		lr.Screen = sc.ID
	}
	if err := lastresults.Write(dataDir(), lr); err != nil {
		logger.Warn("failed to save last results", "error", err)
	}
}

func openIndex() (*index.Database, error) {
	return index.Open(getDatabasePath())
}

// handleDatasetError maps dataset.Load failures to error codes.
func handleDatasetError(path string, err error) error {
	switch {
	case errors.Is(err, os.ErrNotExist):
		return handleErrorMsg(ErrFileNotFound, fmt.Sprintf("dataset not found: %s", path), "Check the file path")
	case errors.Is(err, dataset.ErrUnsupportedFormat):
		return handleError(ErrDatasetInvalid, err, "Use a .csv, .json or .parquet file")
	default:
		return handleError(ErrFileReadError, err, "")
	}
}

// rowToStock projects a dataset row onto the given fields.
func rowToStock(row dataset.Row, fields []string) index.Stock {
	st := index.Stock{Symbol: row.Symbol, Name: row.Name, Values: make(map[string]float64, len(fields))}
	for _, f := range fields {
		if v, ok := row.Values.Number(f); ok {
			st.Values[f] = v
		}
	}
	return st
}

// parseSymbols splits a comma separated symbol list, upper-casing each symbol.
func parseSymbols(list string) []string {
	var out []string
	for _, s := range strings.Split(list, ",") {
		if s = strings.ToUpper(strings.TrimSpace(s)); s != "" {
			out = append(out, s)
		}
	}
	return out
}

func elapsedMs(start time.Time) int64 {
	return time.Since(start).Milliseconds()
}

// printStocks renders stocks as a results table with one column per field.
func printStocks(stocks []index.Stock, fields []string) {
	if len(stocks) == 0 {
		fmt.Println(ui.Hint("No matching stocks"))
		return
	}

	tbl := ui.NewResultsTable(ui.NewDisplayContext(), ui.StockLayout(fields)).WithHeaders()
	nameWidth := tbl.ColumnWidth(2)
	for i, st := range stocks {
		cells := []string{ui.Symbol(st.Symbol), ui.TruncateWithEllipsis(st.Name, nameWidth)}
		for _, f := range fields {
			v, ok := st.Values[f]
			cells = append(cells, ui.FormatValue(v, ok))
		}
		tbl.AddRow(ui.ResultRow{Num: i + 1, Cells: cells})
	}
	fmt.Println(tbl.Render())
	fmt.Println(ui.Hint(ui.Plural(len(stocks), "stock")))
}

// missingValueWarnings flags used fields that are absent for every result.
func missingValueWarnings(stocks []index.Stock, fields []string) []Warning {
	if len(stocks) == 0 {
		return nil
	}
	var warnings []Warning
	for _, f := range fields {
		present := false
		for _, st := range stocks {
			if _, ok := st.Values[f]; ok {
				present = true
				break
			}
		}
		if !present {
			warnings = append(warnings, Warning{
				Code:    WarnMissingValues,
				Message: fmt.Sprintf("no result has a value for %s", f),
				Field:   f,
			})
		}
	}
	return warnings
}
