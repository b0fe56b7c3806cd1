package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/dataset"
	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/index"
	"github.com/stockscreen/screener/internal/lastresults"
	"github.com/stockscreen/screener/internal/screen"
)

var (
	evalFileFlag  string
	evalLimitFlag int
)

var evalCmd = &cobra.Command{
	Use:   "eval <query|screen-id> --file <dataset>",
	Short: "Screen a dataset file in memory",
	Long: `Evaluate a query against every row of a CSV, JSON or Parquet file.

Rows are screened in parallel by a bounded worker pool (workers in config).
A field that is missing or not numeric makes its condition false.

Examples:
  screener eval "market_cap > 500 AND stock_p_e < 20" --file stocks.csv
  screener eval graham-value --file universe.parquet --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		if evalFileFlag == "" {
			return handleErrorMsg(ErrMissingArgument, "--file is required", "Pass a .csv, .json or .parquet dataset")
		}
		start := time.Now()

		query, sc := resolveQuery(args[0])
		conds, err := filter.Parse(query)
		if err != nil {
			return handleParseError(err)
		}

		rows, err := dataset.Load(evalFileFlag)
		if err != nil {
			return handleDatasetError(evalFileFlag, err)
		}

		screener, err := screen.New(getConfig().WorkerCount())
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		defer screener.Release()

		matched, err := screener.Filter(cmd.Context(), conds, rows)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		if evalLimitFlag > 0 && len(matched) > evalLimitFlag {
			matched = matched[:evalLimitFlag]
		}

		fields := filter.UsedFields(conds)
		stocks := make([]index.Stock, 0, len(matched))
		for _, row := range matched {
			stocks = append(stocks, rowToStock(row, fields))
		}
		rememberResults(lastresults.SourceEval, query, sc, evalFileFlag, stocks)

		if isJSONOutput() {
			var warnings []Warning
			if len(rows) == 0 {
				warnings = append(warnings, Warning{Code: WarnNoRows, Message: "dataset has no rows with a symbol"})
			}
			data := map[string]interface{}{
				"query":   query,
				"file":    evalFileFlag,
				"scanned": len(rows),
				"fields":  fields,
				"stocks":  stocks,
			}
			if sc != nil {
				data["screen"] = sc.ID
			}
			outputSuccessWithWarnings(data, warnings, &Meta{Count: len(stocks), QueryTimeMs: elapsedMs(start)})
			return nil
		}

		printStocks(stocks, fields)
		fmt.Printf("scanned %d rows in %dms\n", len(rows), elapsedMs(start))
		return nil
	},
}

func init() {
	evalCmd.Flags().StringVarP(&evalFileFlag, "file", "f", "", "Dataset to screen (.csv, .json, .parquet)")
	evalCmd.Flags().IntVar(&evalLimitFlag, "limit", 0, "Maximum number of results (0 = all)")
	rootCmd.AddCommand(evalCmd)
}
