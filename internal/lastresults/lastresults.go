// Package lastresults persists the symbols matched by the most recent run or
// eval so follow-up commands can refer to them by number or narrow them with
// another screen.
package lastresults

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/stockscreen/screener/internal/atomicfile"
)

// FileName is the file written inside the data directory.
const FileName = "last-results.json"

// Source identifies the command that produced the results.
type Source string

const (
	SourceRun  Source = "run"
	SourceEval Source = "eval"
)

// LastResults stores the results of the most recent screen.
type LastResults struct {
	Source    Source    `json:"source"`
	Query     string    `json:"query"`
	Screen    string    `json:"screen,omitempty"`
	Backend   string    `json:"backend,omitempty"` // sqlite, postgres, or the dataset file for eval
	Timestamp time.Time `json:"timestamp"`
	Symbols   []string  `json:"symbols"`
}

// Errors
var (
	ErrNoLastResults    = errors.New("no last results available")
	ErrNumberOutOfRange = errors.New("result number out of range")
)

// Path returns the path to the last-results file in dir.
func Path(dir string) string {
	return filepath.Join(dir, FileName)
}

// New builds a LastResults stamped with the current time.
func New(source Source, query string, symbols []string) *LastResults {
	if symbols == nil {
		symbols = []string{}
	}
	return &LastResults{
		Source:    source,
		Query:     query,
		Timestamp: time.Now().UTC().Truncate(time.Second),
		Symbols:   symbols,
	}
}

// Write saves the last results to dir.
func Write(dir string, lr *LastResults) error {
	data, err := json.MarshalIndent(lr, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to marshal last results: %w", err)
	}
	if err := atomicfile.WriteFile(Path(dir), data, 0o644); err != nil {
		return fmt.Errorf("failed to write last results: %w", err)
	}
	return nil
}

// Read loads the last results from dir.
func Read(dir string) (*LastResults, error) {
	data, err := os.ReadFile(Path(dir))
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, ErrNoLastResults
		}
		return nil, fmt.Errorf("failed to read last results: %w", err)
	}

	var lr LastResults
	if err := json.Unmarshal(data, &lr); err != nil {
		return nil, fmt.Errorf("failed to parse last results: %w", err)
	}
	return &lr, nil
}

// GetByNumbers returns the symbols at the given 1-indexed positions.
func (lr *LastResults) GetByNumbers(nums []int) ([]string, error) {
	out := make([]string, 0, len(nums))
	for _, num := range nums {
		if num < 1 || num > len(lr.Symbols) {
			return nil, fmt.Errorf("%w: %d (valid range: 1-%d)", ErrNumberOutOfRange, num, len(lr.Symbols))
		}
		out = append(out, lr.Symbols[num-1])
	}
	return out, nil
}
