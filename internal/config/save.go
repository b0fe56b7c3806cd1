package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"

	"github.com/stockscreen/screener/internal/atomicfile"
)

type persistedConfig struct {
	Database    *string              `toml:"database,omitempty"`
	ScreensFile *string              `toml:"screens_file,omitempty"`
	Workers     *int                 `toml:"workers,omitempty"`
	Postgres    *persistedPostgres   `toml:"postgres,omitempty"`
	Log         *persistedLog        `toml:"log,omitempty"`
	UI          *persistedUISettings `toml:"ui,omitempty"`
}

type persistedPostgres struct {
	DSN   *string `toml:"dsn,omitempty"`
	Table *string `toml:"table,omitempty"`
}

type persistedLog struct {
	Level  *string `toml:"level,omitempty"`
	Format *string `toml:"format,omitempty"`
}

type persistedUISettings struct {
	Accent *string `toml:"accent,omitempty"`
}

func nonEmptyPtr(value string) *string {
	trimmed := strings.TrimSpace(value)
	if trimmed == "" {
		return nil
	}
	return &trimmed
}

// Save writes the global config to the default config path.
func Save(cfg *Config) error {
	return SaveTo(DefaultPath(), cfg)
}

// SaveTo writes the global config to a specific path atomically.
// Empty settings are omitted so defaults keep applying.
func SaveTo(path string, cfg *Config) error {
	if strings.TrimSpace(path) == "" {
		return fmt.Errorf("config path is required")
	}
	if cfg == nil {
		cfg = &Config{}
	}

	out := persistedConfig{
		Database:    nonEmptyPtr(cfg.Database),
		ScreensFile: nonEmptyPtr(cfg.ScreensFile),
	}
	if cfg.Workers > 0 {
		workers := cfg.Workers
		out.Workers = &workers
	}

	dsn, table := nonEmptyPtr(cfg.Postgres.DSN), nonEmptyPtr(cfg.Postgres.Table)
	if dsn != nil || table != nil {
		out.Postgres = &persistedPostgres{DSN: dsn, Table: table}
	}
	level, format := nonEmptyPtr(cfg.Log.Level), nonEmptyPtr(cfg.Log.Format)
	if level != nil || format != nil {
		out.Log = &persistedLog{Level: level, Format: format}
	}
	if accent := nonEmptyPtr(cfg.UI.Accent); accent != nil {
		out.UI = &persistedUISettings{Accent: accent}
	}

	var buf bytes.Buffer
	if err := toml.NewEncoder(&buf).Encode(out); err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("failed to create config directory: %w", err)
	}

	if err := atomicfile.WriteFile(path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to write config %s: %w", path, err)
	}

	return nil
}
