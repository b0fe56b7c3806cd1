package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/ui"
)

var fieldsMarkdownFlag bool

type fieldInfo struct {
	Name  string `json:"name"`
	Label string `json:"label"`
}

var fieldsCmd = &cobra.Command{
	Use:   "fields [query|screen-id]",
	Short: "List the fields a query uses, or the whole field catalog",
	Long: `Without arguments, list every field a query may reference.
With a query, list the distinct fields it references, sorted.

Examples:
  screener fields
  screener fields --markdown
  screener fields "market_cap / ent_value > 1 AND roe_per > 15"`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		vocab := filter.DefaultVocabulary()

		var names []string
		title := "Field catalog"
		if len(args) == 1 {
			query, _ := resolveQuery(args[0])
			conds, err := vocab.Parse(query)
			if err != nil {
				return handleParseError(err)
			}
			names = filter.UsedFields(conds)
			title = "Fields used by `" + conds.String() + "`"
		} else {
			names = vocab.Fields()
		}

		fields := make([]fieldInfo, 0, len(names))
		for _, n := range names {
			fields = append(fields, fieldInfo{Name: n, Label: vocab.Describe(n)})
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"fields": fields}, &Meta{Count: len(fields)})
			return nil
		}

		if fieldsMarkdownFlag {
			out, err := ui.RenderMarkdown(fieldsMarkdown(title, fields), ui.NewDisplayContext().TermWidth)
			if err != nil {
				return handleError(ErrInternal, err, "")
			}
			fmt.Print(out)
			return nil
		}

		if len(fields) == 0 {
			fmt.Println(ui.Hint("The query references no fields"))
			return nil
		}
		tbl := ui.NewTable(2)
		for _, f := range fields {
			label := f.Label
			if label == f.Name {
				label = ""
			}
			tbl.AddRow(ui.Accent.Render(f.Name), ui.Hint(label))
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func fieldsMarkdown(title string, fields []fieldInfo) string {
	var sb strings.Builder
	sb.WriteString("# " + title + "\n\n")
	if len(fields) == 0 {
		sb.WriteString("_No fields._\n")
		return sb.String()
	}
	sb.WriteString("| Field | Description |\n|---|---|\n")
	for _, f := range fields {
		fmt.Fprintf(&sb, "| `%s` | %s |\n", f.Name, strings.ReplaceAll(f.Label, "|", "\\|"))
	}
	return sb.String()
}

func init() {
	fieldsCmd.Flags().BoolVar(&fieldsMarkdownFlag, "markdown", false, "Render as a markdown table")
	rootCmd.AddCommand(fieldsCmd)
}
