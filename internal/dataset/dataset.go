// Package dataset loads stock rows from CSV, JSON and Parquet files.
package dataset

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/stockscreen/screener/internal/filter"
	"github.com/stockscreen/screener/internal/logger"
)

// ErrUnsupportedFormat is returned for files that are not .csv, .json or .parquet.
var ErrUnsupportedFormat = errors.New("unsupported dataset format")

// Row is one stock: its identity plus the raw column values.
type Row struct {
	Symbol string
	Name   string
	Values filter.Record
}

var (
	symbolColumns = []string{"symbol", "nse_code", "ticker"}
	nameColumns   = []string{"name", "company_name"}
)

// Format is a dataset file format.
type Format string

const (
	FormatCSV     Format = "csv"
	FormatJSON    Format = "json"
	FormatParquet Format = "parquet"
)

// DetectFormat maps a file extension to a Format.
func DetectFormat(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".csv":
		return FormatCSV, nil
	case ".json":
		return FormatJSON, nil
	case ".parquet", ".pq":
		return FormatParquet, nil
	}
	return "", fmt.Errorf("%w: %s", ErrUnsupportedFormat, filepath.Base(path))
}

// Load reads every row of the file at path. Rows without a symbol are
// skipped with a warning.
func Load(path string) ([]Row, error) {
	format, err := DetectFormat(path)
	if err != nil {
		return nil, err
	}

	switch format {
	case FormatParquet:
		return LoadParquet(path)
	case FormatJSON:
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read %s: %w", path, err)
		}
		return ParseJSON(data)
	default:
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open %s: %w", path, err)
		}
		defer f.Close()
		return ReadCSV(f)
	}
}

// toRows turns raw records into rows, dropping records without a symbol.
func toRows(source string, records []filter.Record) []Row {
	rows := make([]Row, 0, len(records))
	for i, rec := range records {
		symbol := firstString(rec, symbolColumns)
		if symbol == "" {
			logger.Warn("skipping row without symbol", "source", source, "row", i+1)
			continue
		}
		rows = append(rows, Row{
			Symbol: symbol,
			Name:   firstString(rec, nameColumns),
			Values: rec,
		})
	}
	return rows
}

func firstString(rec filter.Record, keys []string) string {
	for _, k := range keys {
		v, ok := rec[k]
		if !ok || v == nil {
			continue
		}
		var s string
		switch t := v.(type) {
		case string:
			s = t
		case []byte:
			s = string(t)
		case int64:
			s = strconv.FormatInt(t, 10)
		case float64:
			s = strconv.FormatFloat(t, 'f', -1, 64)
		default:
			s = fmt.Sprint(t)
		}
		if s = strings.TrimSpace(s); s != "" {
			return s
		}
	}
	return ""
}
