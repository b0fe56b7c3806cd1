// Package cli implements the command-line interface.
package cli

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/config"
	"github.com/stockscreen/screener/internal/logger"
	"github.com/stockscreen/screener/internal/ui"
)

var (
	// Global flags
	configPath   string
	dbPathFlag   string
	logLevelFlag string

	// Resolved values
	resolvedConfigPath string
	cfg                *config.Config
)

// rootCmd represents the base command
var rootCmd = &cobra.Command{
	Use:   "screener",
	Short: "Screener - filter stocks with a small query language",
	Long: `Screener filters a stock universe with queries such as

  market_cap > 500 AND roe_per + roce_per > 30

Queries are evaluated in memory against CSV, JSON or Parquet datasets, or
compiled to SQL and pushed down to the local sqlite index or to Postgres.
Conditions combine strictly left to right: "a OR b AND c" is "(a OR b) AND c".`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		switch cmd.Name() {
		case "completion", "help", "version":
			return nil
		}
		// config init creates the file the other commands load.
		if cmd.Name() == "init" && cmd.Parent() != nil && cmd.Parent().Name() == "config" {
			return nil
		}

		var err error
		cfg, resolvedConfigPath, err = loadGlobalConfigWithPath()
		if err != nil {
			return handleError(ErrConfigInvalid, fmt.Errorf("failed to load config: %w", err), "Check the TOML syntax of your config file")
		}
		ui.ConfigureTheme(cfg.UI.Accent)

		level := cfg.Log.Level
		if strings.TrimSpace(logLevelFlag) != "" {
			level = logLevelFlag
		}
		logger.Init(logger.Config{Level: level, Format: cfg.Log.Format})
		logger.Debug("config loaded", "path", resolvedConfigPath, "database", getDatabasePath())

		return nil
	},
}

// Execute runs the CLI.
func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "Path to config file")
	rootCmd.PersistentFlags().StringVar(&dbPathFlag, "db", "", "Path to the sqlite stock index (overrides database in config)")
	rootCmd.PersistentFlags().StringVar(&logLevelFlag, "log-level", "", "Log level: DEBUG, INFO, WARN, ERROR")
	rootCmd.PersistentFlags().BoolVar(&jsonOutput, "json", false, "Output in JSON format (for agent/script use)")
}

// getConfig returns the loaded config.
func getConfig() *config.Config {
	if cfg == nil {
		return &config.Config{}
	}
	return cfg
}

// getConfigPath returns the resolved global config path.
func getConfigPath() string {
	return resolvedConfigPath
}

// getDatabasePath returns the sqlite index path: --db first, then config.
func getDatabasePath() string {
	if strings.TrimSpace(dbPathFlag) != "" {
		return dbPathFlag
	}
	return getConfig().DatabasePath()
}

func loadGlobalConfigWithPath() (*config.Config, string, error) {
	resolvedPath := configPath
	if strings.TrimSpace(resolvedPath) == "" {
		resolvedPath = config.DefaultPath()
	}

	var loadedCfg *config.Config
	var err error
	if strings.TrimSpace(configPath) != "" {
		loadedCfg, err = config.LoadFrom(configPath)
	} else {
		loadedCfg, err = config.Load()
	}
	if err != nil {
		return nil, "", err
	}
	if loadedCfg == nil {
		loadedCfg = &config.Config{}
	}

	return loadedCfg, resolvedPath, nil
}
