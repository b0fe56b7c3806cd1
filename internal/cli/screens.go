package cli

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"

	"github.com/stockscreen/screener/internal/audit"
	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/logger"
	"github.com/stockscreen/screener/internal/screens"
	"github.com/stockscreen/screener/internal/ui"
)

var (
	screenTitleFlag       string
	screenDescriptionFlag string
	screenQueryFlag       string
	screenPublishFlag     bool
	screenOwnerFlag       string
	screensUserOnlyFlag   bool
)

var screensCmd = &cobra.Command{
	Use:   "screens",
	Short: "Manage saved screens",
	Long: `Saved screens are named queries kept in screens_file (YAML).
Prebuilt screens ship with screener and cannot be edited or removed.

A screen id can be passed anywhere a query is accepted:
  screener run quality-large-caps`,
}

// handleScreenError maps screens package errors to error codes.
func handleScreenError(err error) error {
	var perr *filter.ParseError
	switch {
	case errors.As(err, &perr):
		return handleParseError(perr)
	case errors.Is(err, screens.ErrScreenNotFound):
		return handleError(ErrScreenNotFound, err, "Run 'screener screens list' to see available screens")
	case errors.Is(err, screens.ErrScreenExists):
		return handleError(ErrScreenExists, err, "Choose a different title")
	case errors.Is(err, screens.ErrReadOnly):
		return handleError(ErrScreenReadOnly, err, "Save a copy with 'screener screens add'")
	case errors.Is(err, screens.ErrInvalidScreen):
		return handleError(ErrScreenInvalid, err, "")
	default:
		return handleError(ErrFileReadError, err, "")
	}
}

func saveScreenStore(store *screens.Store) error {
	if err := store.Save(); err != nil {
		return handleError(ErrFileWriteError, err, "")
	}
	return nil
}

// logScreenChange records a change in the screens audit log. The screen
// file is already saved at this point, so a failed append only warns.
func logScreenChange(write func(*audit.Logger) error) {
	if err := write(screenAuditLog()); err != nil {
		logger.Warn("failed to write screens audit log", "error", err)
	}
}

// screenChanges lists the fields a patch actually changed.
func screenChanges(before, after screens.Screen) map[string]interface{} {
	changes := make(map[string]interface{})
	if before.Title != after.Title {
		changes["title"] = audit.Change(before.Title, after.Title)
	}
	if before.Description != after.Description {
		changes["description"] = audit.Change(before.Description, after.Description)
	}
	if before.Query != after.Query {
		changes["query"] = audit.Change(before.Query, after.Query)
	}
	if before.Publish != after.Publish {
		changes["publish"] = audit.Change(before.Publish, after.Publish)
	}
	return changes
}

var screensListCmd = &cobra.Command{
	Use:   "list",
	Short: "List saved and prebuilt screens",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadScreenStore()
		if err != nil {
			return handleScreenError(err)
		}
		list := store.List()
		if screensUserOnlyFlag {
			user := list[:0]
			for _, sc := range list {
				if !sc.Prebuilt() {
					user = append(user, sc)
				}
			}
			list = user
		}
		return printScreens(list)
	},
}

var screensSearchCmd = &cobra.Command{
	Use:   "search <term>",
	Short: "Search published screens by title or description",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadScreenStore()
		if err != nil {
			return handleScreenError(err)
		}
		found, err := store.Search(args[0])
		if err != nil {
			return handleScreenError(err)
		}
		return printScreens(found)
	},
}

func printScreens(list []screens.Screen) error {
	if list == nil {
		list = []screens.Screen{}
	}
	if isJSONOutput() {
		outputSuccess(map[string]interface{}{"screens": list}, &Meta{Count: len(list)})
		return nil
	}
	if len(list) == 0 {
		fmt.Println(ui.Hint("No screens"))
		return nil
	}

	tbl := ui.NewResultsTable(ui.NewDisplayContext(), ui.ScreenLayout)
	titleWidth := tbl.ColumnWidth(2)
	for i, sc := range list {
		tbl.AddRow(ui.ResultRow{Num: i + 1, Cells: []string{ui.ScreenID(sc.ID), ui.TruncateWithEllipsis(sc.Title, titleWidth), sc.Category}})
	}
	fmt.Println(tbl.Render())
	return nil
}

var screensShowCmd = &cobra.Command{
	Use:   "show <screen-id>",
	Short: "Show a screen and its query",
	Args:  cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadScreenStore()
		if err != nil {
			return handleScreenError(err)
		}
		sc, err := store.Get(args[0])
		if err != nil {
			return handleScreenError(err)
		}
		conds, err := sc.Conditions()
		if err != nil {
			return handleParseError(err)
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"screen": sc,
				"fields": filter.UsedFields(conds),
				"where":  filter.InlineSQL(conds),
			}, nil)
			return nil
		}

		out, err := ui.RenderMarkdown(screenMarkdown(sc, conds), ui.NewDisplayContext().TermWidth)
		if err != nil {
			return handleError(ErrInternal, err, "")
		}
		fmt.Print(out)
		return nil
	},
}

func screenMarkdown(sc screens.Screen, conds filter.Conditions) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "# %s\n\n", sc.Title)
	fmt.Fprintf(&sb, "%s\n\n", sc.Description)
	fmt.Fprintf(&sb, "```\n%s\n```\n\n", sc.Query)
	fmt.Fprintf(&sb, "```sql\n%s\n```\n\n", filter.InlineSQL(conds))
	fmt.Fprintf(&sb, "- **id:** `%s`\n", sc.ID)
	fmt.Fprintf(&sb, "- **category:** %s\n", sc.Category)
	fmt.Fprintf(&sb, "- **fields:** %s\n", strings.Join(filter.UsedFields(conds), ", "))
	if !sc.CreatedAt.IsZero() {
		fmt.Fprintf(&sb, "- **created:** %s\n", sc.CreatedAt.Format("2006-01-02"))
	}
	return sb.String()
}

var screensAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Save a new screen",
	Long: `Save a query as a named screen. The id is derived from the title.

Example:
  screener screens add --title "Cheap banks" \
    --description "Low P/B lenders" --query "price_to_book_value < 1"`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadScreenStore()
		if err != nil {
			return handleScreenError(err)
		}
		sc, err := store.Add(screens.Screen{
			Title:       screenTitleFlag,
			Description: screenDescriptionFlag,
			Query:       screenQueryFlag,
			Publish:     screenPublishFlag,
			Owner:       screenOwnerFlag,
		})
		if err != nil {
			return handleScreenError(err)
		}
		if err := saveScreenStore(store); err != nil {
			return err
		}
		logScreenChange(func(l *audit.Logger) error { return l.LogAdd(sc.ID, sc.Title, sc.Query) })

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"screen": sc}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Saved screen %s", ui.ScreenID(sc.ID)))
		return nil
	},
}

var screensEditCmd = &cobra.Command{
	Use:   "edit <screen-id>",
	Short: "Change a saved screen",
	Long: `Change the title, description, query or publish flag of a saved screen.
Only flags that are passed are changed.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadScreenStore()
		if err != nil {
			return handleScreenError(err)
		}

		patch := screenPatch(cmd.Flags())
		before, err := store.Get(args[0])
		if err != nil {
			return handleScreenError(err)
		}
		sc, err := store.Update(args[0], patch)
		if err != nil {
			return handleScreenError(err)
		}
		if err := saveScreenStore(store); err != nil {
			return err
		}
		if changes := screenChanges(before, sc); len(changes) > 0 {
			logScreenChange(func(l *audit.Logger) error { return l.LogUpdate(sc.ID, changes) })
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"screen": sc}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Updated screen %s", ui.ScreenID(sc.ID)))
		return nil
	},
}

var screensRmCmd = &cobra.Command{
	Use:     "rm <screen-id>",
	Aliases: []string{"delete"},
	Short:   "Remove a saved screen",
	Args:    cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		store, err := loadScreenStore()
		if err != nil {
			return handleScreenError(err)
		}
		sc, err := store.Get(args[0])
		if err != nil {
			return handleScreenError(err)
		}
		if err := store.Delete(sc.ID); err != nil {
			return handleScreenError(err)
		}
		if err := saveScreenStore(store); err != nil {
			return err
		}
		logScreenChange(func(l *audit.Logger) error { return l.LogDelete(sc.ID) })

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"removed": sc.ID}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Removed screen %s", ui.ScreenID(sc.ID)))
		return nil
	},
}

var screensHistorySinceFlag string

var screensHistoryCmd = &cobra.Command{
	Use:   "history [screen-id]",
	Short: "Show changes made to saved screens",
	Long: `Show the add, edit and remove history kept in screens-audit.log,
next to the screens file.

Examples:
  screener screens history
  screener screens history cheap-banks
  screener screens history --since 2026-01-01`,
	Args: cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		auditLog := screenAuditLog()

		var (
			entries []audit.Entry
			err     error
		)
		switch {
		case len(args) == 1:
			entries, err = auditLog.ReadForScreen(args[0])
		case screensHistorySinceFlag != "":
			since, perr := time.Parse("2006-01-02", screensHistorySinceFlag)
			if perr != nil {
				return handleErrorMsg(ErrInvalidInput, "--since must be a date like 2026-01-31", "")
			}
			entries, err = auditLog.ReadSince(since)
		default:
			entries, err = auditLog.Read()
		}
		if err != nil {
			return handleError(ErrFileReadError, err, "")
		}
		if entries == nil {
			entries = []audit.Entry{}
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"entries": entries}, &Meta{Count: len(entries)})
			return nil
		}
		if len(entries) == 0 {
			fmt.Println(ui.Hint("No screen changes recorded"))
			return nil
		}

		tbl := ui.NewTable(4)
		for _, e := range entries {
			tbl.AddRow(ui.Muted.Render(e.Timestamp.Local().Format("2006-01-02 15:04")), e.Operation, ui.ScreenID(e.Screen), historyDetail(e))
		}
		fmt.Print(tbl.String())
		return nil
	},
}

func historyDetail(e audit.Entry) string {
	switch e.Operation {
	case audit.OpAdd:
		return e.Query
	case audit.OpUpdate:
		fields := make([]string, 0, len(e.Changes))
		for f := range e.Changes {
			fields = append(fields, f)
		}
		sort.Strings(fields)
		return "changed " + strings.Join(fields, ", ")
	}
	return ""
}

func addScreenFlags(fs *pflag.FlagSet) {
	fs.StringVar(&screenTitleFlag, "title", "", "Screen title")
	fs.StringVar(&screenDescriptionFlag, "description", "", "What the screen looks for")
	fs.StringVar(&screenQueryFlag, "query", "", "Screen query")
	fs.BoolVar(&screenPublishFlag, "publish", false, "Make the screen searchable")
}

// screenPatch builds a patch from the flags passed on the command line.
func screenPatch(fs *pflag.FlagSet) screens.Patch {
	var patch screens.Patch
	if fs.Changed("title") {
		patch.Title = &screenTitleFlag
	}
	if fs.Changed("description") {
		patch.Description = &screenDescriptionFlag
	}
	if fs.Changed("query") {
		patch.Query = &screenQueryFlag
	}
	if fs.Changed("publish") {
		patch.Publish = &screenPublishFlag
	}
	return patch
}

func init() {
	addScreenFlags(screensAddCmd.Flags())
	screensAddCmd.Flags().StringVar(&screenOwnerFlag, "owner", "", "Owner name")
	addScreenFlags(screensEditCmd.Flags())
	screensListCmd.Flags().BoolVar(&screensUserOnlyFlag, "user", false, "Only list user made screens")
	screensHistoryCmd.Flags().StringVar(&screensHistorySinceFlag, "since", "", "Only show changes on or after this date (YYYY-MM-DD)")

	screensCmd.AddCommand(screensListCmd, screensShowCmd, screensAddCmd, screensEditCmd, screensRmCmd, screensSearchCmd, screensHistoryCmd)
	rootCmd.AddCommand(screensCmd)
}
