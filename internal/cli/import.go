package cli

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/dataset"
	"github.com/stockscreen/screener/internal/logger"
	"github.com/stockscreen/screener/internal/ui"
)

type importedFile struct {
	File string `json:"file"`
	Rows int    `json:"rows"`
}

var importCmd = &cobra.Command{
	Use:   "import <file>...",
	Short: "Load datasets into the sqlite stock index",
	Long: `Load one or more CSV, JSON or Parquet files into the local stock index.

Rows are upserted by symbol. Columns outside the field vocabulary are
ignored and values that are not numeric are stored as NULL.

Examples:
  screener import stocks.csv
  screener import fundamentals.parquet prices.json`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		start := time.Now()

		db, err := openIndex()
		if err != nil {
			return handleError(ErrDatabaseError, err, "Check the database path in config or pass --db")
		}
		defer db.Close()

		var progress *ui.Progress
		if !isJSONOutput() && len(args) > 1 {
			progress = ui.NewProgress("Importing", len(args))
		}

		files := make([]importedFile, 0, len(args))
		total := 0
		for _, path := range args {
			spinner := ui.NewSpinner("Loading " + filepath.Base(path))
			if !isJSONOutput() && progress == nil {
				spinner.Start()
			}
			rows, err := dataset.Load(path)
			spinner.Stop()
			if err != nil {
				return handleDatasetError(path, err)
			}

			n, err := db.UpsertStocks(cmd.Context(), rows)
			if err != nil {
				return handleError(ErrDatabaseError, err, "")
			}
			logger.Info("imported dataset", "file", path, "rows", n)
			files = append(files, importedFile{File: path, Rows: n})
			total += n
			if progress != nil {
				progress.Increment()
			}
		}
		if progress != nil {
			progress.Done()
		}

		stored, err := db.Count(cmd.Context())
		if err != nil {
			return handleError(ErrDatabaseError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{
				"database": getDatabasePath(),
				"files":    files,
				"imported": total,
				"stocks":   stored,
			}, &Meta{Count: total, QueryTimeMs: elapsedMs(start)})
			return nil
		}

		for _, f := range files {
			fmt.Println(ui.Successf("%s %s", f.File, ui.Hint(fmt.Sprintf("(%s)", ui.Plural(f.Rows, "row")))))
		}
		fmt.Printf("%s in the index %s\n", ui.Plural(stored, "stock"), ui.Hint(getDatabasePath()))
		return nil
	},
}

func init() {
	rootCmd.AddCommand(importCmd)
}
