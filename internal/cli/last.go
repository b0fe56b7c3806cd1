package cli

import (
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/lastresults"
	"github.com/stockscreen/screener/internal/ui"
)

var lastCmd = &cobra.Command{
	Use:   "last [numbers...]",
	Short: "Show or select stocks from the last run",
	Long: `Show or select the stocks matched by the most recent run or eval.

Without arguments, lists the stocks with their result numbers.
With numbers, prints the selected symbols one per line.

Number formats:
  2         Single result
  1,4       Several results
  1-5       A range
  1,3-5 8   Mixed

Examples:
  screener last
  screener last 1-3
  screener run "beta < 1" --from-last`,
	RunE: func(cmd *cobra.Command, args []string) error {
		last, err := lastresults.Read(dataDir())
		if err != nil {
			if errors.Is(err, lastresults.ErrNoLastResults) {
				return handleErrorMsg(ErrMissingArgument, "no results to show",
					"Run 'screener run <query>' or 'screener eval' first")
			}
			return handleError(ErrFileReadError, err, "")
		}

		if len(args) == 0 {
			return displayLastResults(last)
		}

		nums, err := lastresults.ParseSelection(args...)
		if err != nil {
			return handleErrorMsg(ErrInvalidInput, err.Error(), fmt.Sprintf("Valid range: 1-%d", len(last.Symbols)))
		}
		symbols, err := last.GetByNumbers(nums)
		if err != nil {
			return handleErrorMsg(ErrInvalidInput, err.Error(), fmt.Sprintf("The last run matched %s", ui.Plural(len(last.Symbols), "stock")))
		}

		if isJSONOutput() {
			items := make([]map[string]interface{}, len(symbols))
			for i, sym := range symbols {
				items[i] = map[string]interface{}{"num": nums[i], "symbol": sym}
			}
			outputSuccess(map[string]interface{}{"selected": items}, &Meta{Count: len(items)})
			return nil
		}
		for _, sym := range symbols {
			fmt.Println(sym)
		}
		return nil
	},
}

func displayLastResults(last *lastresults.LastResults) error {
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"last": last}, &Meta{Count: len(last.Symbols)})
		return nil
	}

	title := last.Query
	if last.Screen != "" {
		title = last.Screen
	}
	fmt.Println(ui.Header(title))
	fmt.Println(ui.Hint(fmt.Sprintf("%s via %s, %s", last.Source, last.Backend, formatTimeAgo(last.Timestamp))))
	if len(last.Symbols) == 0 {
		fmt.Println(ui.Hint("No matching stocks"))
		return nil
	}

	tbl := ui.NewResultsTable(ui.NewDisplayContext(), []ui.ColumnDef{ui.ColNum, ui.ColSymbol})
	for i, sym := range last.Symbols {
		tbl.AddRow(ui.ResultRow{Num: i + 1, Cells: []string{ui.Symbol(sym)}})
	}
	fmt.Println(tbl.Render())
	return nil
}

// formatTimeAgo renders a timestamp as "just now", "5 minutes ago" and so on.
func formatTimeAgo(t time.Time) string {
	diff := time.Since(t)
	switch {
	case diff < time.Minute:
		return "just now"
	case diff < time.Hour:
		return ui.Plural(int(diff.Minutes()), "minute") + " ago"
	case diff < 24*time.Hour:
		return ui.Plural(int(diff.Hours()), "hour") + " ago"
	}
	return ui.Plural(int(diff.Hours()/24), "day") + " ago"
}

func init() {
	rootCmd.AddCommand(lastCmd)
}
