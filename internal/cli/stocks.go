package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/index"
	"github.com/stockscreen/screener/internal/ui"
)

var stocksCheckFlag string

var stocksCmd = &cobra.Command{
	Use:   "stocks",
	Short: "Inspect the sqlite stock index",
}

var stocksShowCmd = &cobra.Command{
	Use:   "show <symbol>",
	Short: "Show every stored value for a stock",
	Long: `Show every stored value for a stock.

With --check, also report whether the stock passes a query.

Example:
  screener stocks show TCS --check "roe_per > 20 AND debt_to_equity < 0.5"`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		var conds filter.Conditions
		if stocksCheckFlag != "" {
			query, _ := resolveQuery(stocksCheckFlag)
			var err error
			if conds, err = filter.Parse(query); err != nil {
				return handleParseError(err)
			}
		}

		db, err := openIndex()
		if err != nil {
			return handleError(ErrDatabaseError, err, "Check the database path in config or pass --db")
		}
		defer db.Close()

		symbol := strings.ToUpper(strings.TrimSpace(args[0]))
		st, err := db.Get(cmd.Context(), symbol)
		if err != nil {
			if errors.Is(err, index.ErrStockNotFound) {
				return handleError(ErrStockNotFound, err, "Import a dataset containing it with 'screener import'")
			}
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			data := map[string]interface{}{"stock": st}
			if conds != nil {
				data["matches"] = conds.Match(st.Record())
			}
			outputSuccess(data, nil)
			return nil
		}

		fmt.Printf("%s  %s\n\n", ui.Symbol(st.Symbol), st.Name)
		names := make([]string, 0, len(st.Values))
		for name := range st.Values {
			names = append(names, name)
		}
		sort.Strings(names)
		tbl := ui.NewTable(2)
		for _, name := range names {
			tbl.AddRow(ui.Hint(name), ui.FormatValue(st.Values[name], true))
		}
		fmt.Print(tbl.String())

		if conds != nil {
			fmt.Println()
			if conds.Match(st.Record()) {
				fmt.Println(ui.Successf("passes %s", conds.String()))
			} else {
				fmt.Println(ui.Errorf("fails %s", conds.String()))
			}
		}
		return nil
	},
}

var stocksCountCmd = &cobra.Command{
	Use:   "count",
	Short: "Count stocks in the index",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openIndex()
		if err != nil {
			return handleError(ErrDatabaseError, err, "Check the database path in config or pass --db")
		}
		defer db.Close()

		n, err := db.Count(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"stocks": n, "database": getDatabasePath()}, &Meta{Count: n})
			return nil
		}
		fmt.Println(ui.Plural(n, "stock"))
		return nil
	},
}

var stocksRmCmd = &cobra.Command{
	Use:   "rm <symbol>...",
	Short: "Remove stocks from the index",
	Args:  cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		db, err := openIndex()
		if err != nil {
			return handleError(ErrDatabaseError, err, "Check the database path in config or pass --db")
		}
		defer db.Close()

		symbols := parseSymbols(strings.Join(args, ","))
		n, err := db.Delete(cmd.Context(), symbols...)
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}
		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"removed": n}, &Meta{Count: n})
			return nil
		}
		fmt.Println(ui.Successf("Removed %s", ui.Plural(n, "stock")))
		return nil
	},
}

func init() {
	stocksShowCmd.Flags().StringVar(&stocksCheckFlag, "check", "", "Query or screen id to test the stock against")
	stocksCmd.AddCommand(stocksShowCmd, stocksCountCmd, stocksRmCmd)
	rootCmd.AddCommand(stocksCmd)
}
