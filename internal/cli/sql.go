package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/index"
	"github.com/stockscreen/screener/internal/sqlutil"
	"github.com/stockscreen/screener/internal/ui"
)

var (
	sqlDialectFlag string
	sqlInlineFlag  bool
	sqlSelectFlag  bool
	sqlTableFlag   string
	sqlLimitFlag   int
)

var sqlCmd = &cobra.Command{
	Use:   "sql <query|screen-id>",
	Short: "Compile a query to a SQL WHERE clause",
	Long: `Compile a query to a parameterized SQL boolean expression.

Division is guarded so that a zero divisor yields NULL instead of an error.
Numeric literals are bound parameters; --inline writes them into the text
for reading only.

Examples:
  screener sql "market_cap / ent_value > 1"
  screener sql "roe_per >= 20%" --dialect postgres
  screener sql quality-large-caps --select --limit 20`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dialect, err := filter.ParseDialect(sqlDialectFlag)
		if err != nil {
			return handleError(ErrInvalidInput, err, "Use --dialect sqlite or --dialect postgres")
		}
		if sqlInlineFlag && sqlSelectFlag {
			return handleErrorMsg(ErrInvalidInput, "--inline cannot be combined with --select", "Inline the WHERE clause alone, or bind the SELECT arguments")
		}
		if sqlLimitFlag < 0 {
			return handleErrorMsg(ErrInvalidInput, "--limit must not be negative", "")
		}

		query, _ := resolveQuery(args[0])
		conds, err := filter.Parse(query)
		if err != nil {
			return handleParseError(err)
		}

		if sqlSelectFlag {
			return runSelect(conds, dialect)
		}

		compiled := filter.CompileSQLDialect(conds, dialect)
		where := compiled.Where
		bound := compiled.Args
		if sqlInlineFlag {
			where = compiled.Inline()
			bound = nil
		}

		if isJSONOutput() {
			data := map[string]interface{}{
				"dialect": dialect.String(),
				"where":   where,
				"fields":  filter.UsedFields(conds),
			}
			if !sqlInlineFlag {
				data["args"] = bound
			}
			outputSuccess(data, nil)
			return nil
		}

		fmt.Println(where)
		if len(bound) > 0 {
			fmt.Println(ui.Hint(fmt.Sprintf("args: %v", bound)))
		}
		return nil
	},
}

func runSelect(conds filter.Conditions, dialect filter.Dialect) error {
	query, args, err := filter.BuildSelect(conds, dialect, filter.SelectOptions{
		Table:   sqlTableFlag,
		Columns: []string{"symbol", "name"},
		OrderBy: "symbol",
		Limit:   uint(sqlLimitFlag),
	})
	if err != nil {
		return handleError(ErrInvalidInput, err, "Pass --table")
	}
	args = sqlutil.NormalizeArgs(args)

	if isJSONOutput() {
		outputSuccess(map[string]interface{}{
			"dialect": dialect.String(),
			"sql":     query,
			"args":    args,
		}, nil)
		return nil
	}

	fmt.Println(query)
	if len(args) > 0 {
		fmt.Println(ui.Hint(fmt.Sprintf("args: %v", args)))
	}
	return nil
}

func init() {
	sqlCmd.Flags().StringVar(&sqlDialectFlag, "dialect", "sqlite", "SQL dialect: sqlite or postgres")
	sqlCmd.Flags().BoolVar(&sqlInlineFlag, "inline", false, "Write numeric literals into the SQL text (display only)")
	sqlCmd.Flags().BoolVar(&sqlSelectFlag, "select", false, "Print the full SELECT statement")
	sqlCmd.Flags().StringVar(&sqlTableFlag, "table", index.StocksTable, "Table for --select")
	sqlCmd.Flags().IntVar(&sqlLimitFlag, "limit", 0, "LIMIT for --select (0 = none)")
	rootCmd.AddCommand(sqlCmd)
}
