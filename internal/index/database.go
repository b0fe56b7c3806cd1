// Package index stores the stock universe in SQLite and runs compiled
// screens against it.
package index

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	_ "modernc.org/sqlite"

	"github.com/stockscreen/screener/internal/filter"
)

// StocksTable is the table holding one row per stock.
const StocksTable = "stocks"

// Database is the SQLite database handle.
type Database struct {
	db    *sql.DB
	vocab *filter.Vocabulary
}

var (
	// ErrStockNotFound indicates the requested symbol is not in the index.
	ErrStockNotFound = errors.New("stock not found in index")
)

// DB returns the underlying sql.DB for advanced queries.
func (d *Database) DB() *sql.DB {
	return d.db
}

// Vocabulary returns the fields stored as columns.
func (d *Database) Vocabulary() *filter.Vocabulary {
	return d.vocab
}

// Open opens or creates the database at path with the default vocabulary.
func Open(path string) (*Database, error) {
	return OpenWithVocabulary(path, filter.DefaultVocabulary())
}

// OpenWithVocabulary opens or creates the database at path, adding a column
// for every vocabulary field the stocks table lacks.
func OpenWithVocabulary(path string, vocab *filter.Vocabulary) (*Database, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	d := &Database{db: db, vocab: vocab}
	if err := d.initialize(true); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// OpenInMemory opens an in-memory database (for testing).
func OpenInMemory() (*Database, error) {
	return OpenInMemoryWithVocabulary(filter.DefaultVocabulary())
}

// OpenInMemoryWithVocabulary opens an in-memory database with custom columns.
func OpenInMemoryWithVocabulary(vocab *filter.Vocabulary) (*Database, error) {
	db, err := sql.Open("sqlite", ":memory:")
	if err != nil {
		return nil, err
	}
	// Every pooled connection would get its own empty in-memory database.
	db.SetMaxOpenConns(1)

	d := &Database{db: db, vocab: vocab}
	if err := d.initialize(false); err != nil {
		db.Close()
		return nil, err
	}

	return d, nil
}

// Close closes the database.
func (d *Database) Close() error {
	return d.db.Close()
}

// CurrentDBVersion is the current database schema version.
const CurrentDBVersion = 1

// initialize creates the database schema.
func (d *Database) initialize(onDisk bool) error {
	if onDisk {
		pragmas := `
			PRAGMA journal_mode = WAL;
			PRAGMA synchronous = NORMAL;
			PRAGMA temp_store = MEMORY;
		`
		if _, err := d.db.Exec(pragmas); err != nil {
			return fmt.Errorf("failed to configure database: %w", err)
		}
	}

	var cols strings.Builder
	for _, f := range d.vocab.Fields() {
		cols.WriteString(",\n\t\t\t")
		cols.WriteString(f)
		// REAL affinity keeps integer columns from truncating division.
		cols.WriteString(" REAL")
	}

	schema := `
		CREATE TABLE IF NOT EXISTS meta (
			key TEXT PRIMARY KEY,
			value TEXT NOT NULL
		);

		CREATE TABLE IF NOT EXISTS ` + StocksTable + ` (
			symbol TEXT PRIMARY KEY,
			name TEXT NOT NULL DEFAULT '',
			updated_at INTEGER` + cols.String() + `
		);
	`
	if _, err := d.db.Exec(schema); err != nil {
		return fmt.Errorf("failed to initialize database schema: %w", err)
	}

	if err := d.addMissingColumns(); err != nil {
		return err
	}

	_, err := d.db.Exec(`INSERT OR REPLACE INTO meta (key, value) VALUES ('version', ?)`,
		fmt.Sprintf("%d", CurrentDBVersion))
	if err != nil {
		return fmt.Errorf("failed to set database version: %w", err)
	}

	return nil
}

// addMissingColumns brings a table created with an older vocabulary up to date.
func (d *Database) addMissingColumns() error {
	existing, err := d.columns(context.Background())
	if err != nil {
		return err
	}
	for _, f := range d.vocab.Fields() {
		if existing[f] {
			continue
		}
		if _, err := d.db.Exec("ALTER TABLE " + StocksTable + " ADD COLUMN " + f + " REAL"); err != nil {
			return fmt.Errorf("failed to add column %s: %w", f, err)
		}
	}
	return nil
}

func (d *Database) columns(ctx context.Context) (map[string]bool, error) {
	rows, err := d.db.QueryContext(ctx, "PRAGMA table_info("+StocksTable+")")
	if err != nil {
		return nil, fmt.Errorf("failed to read table info: %w", err)
	}
	defer rows.Close()

	cols := make(map[string]bool)
	for rows.Next() {
		var cid int
		var name, colType string
		var notNull, pk int
		var dfltValue interface{}
		if err := rows.Scan(&cid, &name, &colType, &notNull, &dfltValue, &pk); err != nil {
			return nil, err
		}
		cols[name] = true
	}
	return cols, rows.Err()
}
