package cli

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/config"
	"github.com/stockscreen/screener/internal/ui"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show or change the global configuration",
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create a commented default config file",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		var path string
		var err error
		if strings.TrimSpace(configPath) != "" {
			path = configPath
			if _, statErr := os.Stat(path); os.IsNotExist(statErr) {
				err = config.SaveTo(path, &config.Config{})
			}
		} else {
			path, err = config.CreateDefault()
		}
		if err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"path": path}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Config at %s", ui.Accent.Render(path)))
		return nil
	},
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show the effective configuration",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		c := getConfig()
		data := map[string]interface{}{
			"config_path":  getConfigPath(),
			"database":     getDatabasePath(),
			"screens_file": c.ScreensPath(),
			"workers":      c.WorkerCount(),
			"postgres": map[string]interface{}{
				"configured": strings.TrimSpace(c.Postgres.DSN) != "",
				"table":      c.PostgresTable(),
			},
			"log": map[string]string{"level": c.Log.Level, "format": c.Log.Format},
			"ui":  map[string]string{"accent": c.UI.Accent},
		}
		if isJSONOutput() {
			outputSuccess(data, nil)
			return nil
		}

		tbl := ui.NewTable(2)
		tbl.AddRow(ui.Hint("config"), getConfigPath())
		tbl.AddRow(ui.Hint("database"), getDatabasePath())
		tbl.AddRow(ui.Hint("screens_file"), c.ScreensPath())
		tbl.AddRow(ui.Hint("workers"), strconv.Itoa(c.WorkerCount()))
		if strings.TrimSpace(c.Postgres.DSN) != "" {
			tbl.AddRow(ui.Hint("postgres.table"), c.PostgresTable())
		}
		if c.Log.Level != "" {
			tbl.AddRow(ui.Hint("log.level"), c.Log.Level)
		}
		if c.UI.Accent != "" {
			tbl.AddRow(ui.Hint("ui.accent"), c.UI.Accent)
		}
		fmt.Print(tbl.String())
		return nil
	},
}

var configSetCmd = &cobra.Command{
	Use:   "set <key> <value>",
	Short: "Set a config value",
	Long: `Set a config value and save the file.

Keys: database, screens_file, workers, postgres.dsn, postgres.table,
log.level, log.format, ui.accent`,
	Args: cobra.ExactArgs(2),
	RunE: func(cmd *cobra.Command, args []string) error {
		c := *getConfig()
		if err := applyConfigValue(&c, args[0], args[1]); err != nil {
			return handleError(ErrInvalidInput, err, "")
		}
		if err := config.SaveTo(getConfigPath(), &c); err != nil {
			return handleError(ErrFileWriteError, err, "")
		}

		if isJSONOutput() {
			outputSuccess(map[string]interface{}{"key": args[0], "value": args[1], "path": getConfigPath()}, nil)
			return nil
		}
		fmt.Println(ui.Successf("Set %s", args[0]))
		return nil
	},
}

func applyConfigValue(c *config.Config, key, value string) error {
	switch key {
	case "database":
		c.Database = value
	case "screens_file":
		c.ScreensFile = value
	case "workers":
		n, err := strconv.Atoi(value)
		if err != nil || n < 0 {
			return fmt.Errorf("workers must be a non-negative integer, got %q", value)
		}
		c.Workers = n
	case "postgres.dsn":
		c.Postgres.DSN = value
	case "postgres.table":
		c.Postgres.Table = value
	case "log.level":
		c.Log.Level = strings.ToUpper(value)
	case "log.format":
		if value != "text" && value != "json" {
			return fmt.Errorf("log.format must be text or json, got %q", value)
		}
		c.Log.Format = value
	case "ui.accent":
		c.UI.Accent = value
	default:
		return fmt.Errorf("unknown config key %q", key)
	}
	return nil
}

func init() {
	configCmd.AddCommand(configInitCmd, configShowCmd, configSetCmd)
	rootCmd.AddCommand(configCmd)
}
