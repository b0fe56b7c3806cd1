package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/ui"
)

type exprJSON struct {
	Type  string    `json:"type"` // number, field or arithmetic
	Value *float64  `json:"value,omitempty"`
	Text  string    `json:"text,omitempty"`
	Name  string    `json:"name,omitempty"`
	Op    string    `json:"op,omitempty"`
	Left  *exprJSON `json:"left,omitempty"`
	Right *exprJSON `json:"right,omitempty"`
}

type conditionJSON struct {
	Logical    string   `json:"logical,omitempty"`
	Left       exprJSON `json:"left"`
	Comparator string   `json:"comparator"`
	Right      exprJSON `json:"right"`
	Clause     string   `json:"clause"`
}

func toExprJSON(e filter.Expr) exprJSON {
	switch x := e.(type) {
	case filter.NumberLiteral:
		v := x.Value
		return exprJSON{Type: "number", Value: &v, Text: x.Text}
	case filter.FieldRef:
		return exprJSON{Type: "field", Name: x.Name}
	case filter.ArithmeticExpr:
		left := toExprJSON(x.Left)
		right := toExprJSON(x.Right)
		return exprJSON{Type: "arithmetic", Op: x.Op.String(), Left: &left, Right: &right}
	default:
		return exprJSON{Type: "unknown", Text: e.String()}
	}
}

func toConditionsJSON(conds filter.Conditions) []conditionJSON {
	out := make([]conditionJSON, 0, len(conds))
	for _, c := range conds {
		out = append(out, conditionJSON{
			Logical:    c.Logical.String(),
			Left:       toExprJSON(c.Left),
			Comparator: c.Comparator.String(),
			Right:      toExprJSON(c.Right),
			Clause:     c.Clause,
		})
	}
	return out
}

var parseCmd = &cobra.Command{
	Use:   "parse <query>",
	Short: "Parse a query and show its conditions",
	Long: `Parse a query into its condition list without running it.

Conditions are combined strictly left to right, so the output shows exactly
how a query such as "a > 1 OR b > 1 AND c > 1" will be evaluated.

Examples:
  screener parse "market_cap > 500 AND roe_per + roce_per > 30"
  screener parse "current_price < high_52w * 0.8" --json`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		query, _ := resolveQuery(args[0])
		conds, err := filter.Parse(query)
		if err != nil {
			return handleParseError(err)
		}
		fields := filter.UsedFields(conds)

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"query":      query,
				"normalized": conds.String(),
				"conditions": toConditionsJSON(conds),
				"fields":     fields,
			}, &Meta{Count: len(conds)})
			return nil
		}

		for i, c := range conds {
			prefix := "   "
			if c.Logical != filter.LogicalNone {
				prefix = fmt.Sprintf("%-3s", c.Logical.String())
			}
			fmt.Printf("%s  %s %s\n", ui.FormatRowNum(i+1, len(conds)), ui.Bold.Render(prefix), c.String())
		}
		fmt.Println()
		fmt.Printf("%s %s\n", ui.Hint("fields:"), strings.Join(fields, ", "))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(parseCmd)
}
