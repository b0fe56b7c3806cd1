package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/index"
	"github.com/stockscreen/screener/internal/lastresults"
	"github.com/stockscreen/screener/internal/pgstore"
	"github.com/stockscreen/screener/internal/ui"
)

var (
	runLimitFlag    int
	runSymbolsFlag  string
	runPostgresFlag bool
	runFromLastFlag bool
)

var runCmd = &cobra.Command{
	Use:   "run <query|screen-id>",
	Short: "Run a screen against the stock index",
	Long: `Compile a query (or a saved screen) to SQL and run it against the local
sqlite index, or against postgres with --postgres.

Examples:
  screener run "market_cap > 500 AND roe_per + roce_per > 30"
  screener run quality-large-caps --limit 25
  screener run "stock_p_e < 15" --symbols TCS,INFY,WIPRO
  screener run "debt_to_equity < 0.5" --postgres
  screener run "beta < 1" --from-last     # narrow the previous results`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if runLimitFlag < 0 {
			return handleErrorMsg(ErrInvalidInput, "--limit must not be negative", "")
		}
		start := time.Now()

		query, sc := resolveQuery(args[0])
		conds, err := filter.Parse(query)
		if err != nil {
			return handleParseError(err)
		}
		opts := index.ScreenOptions{Symbols: parseSymbols(runSymbolsFlag), Limit: runLimitFlag}

		var (
			stocks   []index.Stock
			warnings []Warning
			backend  = "sqlite"
			noop     bool
		)
		if runFromLastFlag {
			last, err := lastresults.Read(dataDir())
			if err != nil {
				return handleError(ErrInvalidInput, err, "Run a screen first")
			}
			opts.Symbols = restrictSymbols(last.Symbols, opts.Symbols)
			// Nothing left to narrow; an empty symbol list would mean no restriction.
			noop = len(opts.Symbols) == 0
		}
		if runPostgresFlag {
			backend = "postgres"
		}

		switch {
		case noop:
		case runPostgresFlag:
			stocks, err = runPostgres(cmd, conds, opts)
			if err != nil {
				return err
			}
			if stocks == nil && jsonOutput {
				return nil // error already written
			}
		default:
			db, err := openIndex()
			if err != nil {
				return handleError(ErrDatabaseError, err, "Check the database path in config or pass --db")
			}
			defer db.Close()

			stocks, err = db.Screen(cmd.Context(), conds, opts)
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
			if len(stocks) == 0 {
				if n, err := db.Count(cmd.Context()); err == nil && n == 0 {
					warnings = append(warnings, Warning{Code: WarnEmptyIndex, Message: "the stock index is empty; run 'screener import <file>' first"})
				}
			}
		}
		if stocks == nil {
			stocks = []index.Stock{}
		}
		rememberResults(lastresults.SourceRun, query, sc, backend, stocks)

		fields := filter.UsedFields(conds)
		warnings = append(warnings, missingValueWarnings(stocks, fields)...)

		if isJSONOutput() {
			data := map[string]interface{}{
				"query":   query,
				"backend": backend,
				"fields":  fields,
				"stocks":  stocks,
			}
			if sc != nil {
				data["screen"] = sc.ID
			}
			outputSuccessWithWarnings(data, warnings, &Meta{Count: len(stocks), QueryTimeMs: elapsedMs(start)})
			return nil
		}

		if sc != nil {
			fmt.Println(ui.Header(sc.Title))
			fmt.Println(ui.Hint(sc.Query))
			fmt.Println()
		}
		for _, w := range warnings {
			fmt.Println(ui.Warning(w.Message))
		}
		printStocks(stocks, fields)
		return nil
	},
}

// runPostgres screens against the configured postgres table. It returns nil
// stocks and a nil error when the failure was already reported as JSON.
func runPostgres(cmd *cobra.Command, conds filter.Conditions, opts index.ScreenOptions) ([]index.Stock, error) {
	pg := getConfig().Postgres
	if strings.TrimSpace(pg.DSN) == "" {
		return nil, handleErrorMsg(ErrConfigInvalid, "postgres.dsn is not configured", "Set [postgres] dsn in "+getConfigPath())
	}

	store, err := pgstore.Connect(cmd.Context(), pg.DSN, getConfig().PostgresTable())
	if err != nil {
		return nil, handleError(ErrPostgresError, err, "Check that postgres is reachable")
	}
	defer store.Close()

	stocks, err := store.Screen(cmd.Context(), conds, opts)
	if err != nil {
		return nil, handleError(ErrPostgresError, err, "")
	}
	if stocks == nil {
		stocks = []index.Stock{}
	}
	return stocks, nil
}

// restrictSymbols narrows last to the explicit list, when one was given.
func restrictSymbols(last, explicit []string) []string {
	if len(explicit) == 0 {
		return last
	}
	keep := make(map[string]bool, len(explicit))
	for _, s := range explicit {
		keep[s] = true
	}
	var out []string
	for _, s := range last {
		if keep[s] {
			out = append(out, s)
		}
	}
	return out
}

func init() {
	runCmd.Flags().IntVarP(&runLimitFlag, "limit", "n", 0, "Maximum number of results (0 = all)")
	runCmd.Flags().StringVar(&runSymbolsFlag, "symbols", "", "Comma separated symbols to restrict the screen to")
	runCmd.Flags().BoolVar(&runPostgresFlag, "postgres", false, "Run against the postgres table from config")
	runCmd.Flags().BoolVar(&runFromLastFlag, "from-last", false, "Only screen the symbols matched by the previous run or eval")
	rootCmd.AddCommand(runCmd)
}
