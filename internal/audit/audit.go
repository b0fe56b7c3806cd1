// Package audit provides an append-only log of changes to saved screens.
package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"
)

// Operations recorded in the log.
const (
	OpAdd    = "add"
	OpUpdate = "update"
	OpDelete = "delete"
)

// Entry represents a single audit log entry.
type Entry struct {
	Timestamp time.Time              `json:"ts"`
	Operation string                 `json:"op"` // add, update, delete
	Screen    string                 `json:"screen"`
	Title     string                 `json:"title,omitempty"`
	Query     string                 `json:"query,omitempty"`
	Changes   map[string]interface{} `json:"changes,omitempty"` // {field: {old: x, new: y}}
}

// Logger handles writing to the audit log.
type Logger struct {
	path    string
	enabled bool
	mu      sync.Mutex
}

// New creates a logger appending to path. If enabled is false, the logger
// is a no-op.
func New(path string, enabled bool) *Logger {
	if !enabled {
		return &Logger{enabled: false}
	}
	return &Logger{path: path, enabled: true}
}

// Path returns the log file.
func (l *Logger) Path() string {
	return l.path
}

// Log writes an entry to the audit log.
func (l *Logger) Log(entry Entry) error {
	if !l.enabled {
		return nil
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now().UTC()
	}

	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("failed to marshal audit entry: %w", err)
	}

	if err := os.MkdirAll(filepath.Dir(l.path), 0o755); err != nil {
		return fmt.Errorf("failed to create audit directory: %w", err)
	}

	f, err := os.OpenFile(l.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return fmt.Errorf("failed to open audit log: %w", err)
	}
	defer f.Close()

	if _, err := f.Write(append(data, '\n')); err != nil {
		return fmt.Errorf("failed to write audit entry: %w", err)
	}
	return nil
}

// LogAdd records a newly saved screen.
func (l *Logger) LogAdd(id, title, query string) error {
	return l.Log(Entry{Operation: OpAdd, Screen: id, Title: title, Query: query})
}

// LogUpdate records an edit. Changes maps field names to {old, new} pairs.
func (l *Logger) LogUpdate(id string, changes map[string]interface{}) error {
	return l.Log(Entry{Operation: OpUpdate, Screen: id, Changes: changes})
}

// LogDelete records a removed screen.
func (l *Logger) LogDelete(id string) error {
	return l.Log(Entry{Operation: OpDelete, Screen: id})
}

// Change builds a {old, new} pair for LogUpdate.
func Change(old, new interface{}) map[string]interface{} {
	return map[string]interface{}{"old": old, "new": new}
}

// Read reads all entries from the audit log. Malformed lines are skipped.
func (l *Logger) Read() ([]Entry, error) {
	if !l.enabled {
		return nil, nil
	}

	data, err := os.ReadFile(l.path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to read audit log: %w", err)
	}

	var entries []Entry
	scanner := bufio.NewScanner(bytes.NewReader(data))
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var entry Entry
		if err := json.Unmarshal(line, &entry); err != nil {
			continue
		}
		entries = append(entries, entry)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("failed to scan audit log: %w", err)
	}
	return entries, nil
}

// ReadSince reads entries logged at or after since.
func (l *Logger) ReadSince(since time.Time) ([]Entry, error) {
	return l.filter(func(e Entry) bool {
		return !e.Timestamp.Before(since)
	})
}

// ReadForScreen reads entries for one screen id.
func (l *Logger) ReadForScreen(id string) ([]Entry, error) {
	return l.filter(func(e Entry) bool {
		return e.Screen == id
	})
}

func (l *Logger) filter(keep func(Entry) bool) ([]Entry, error) {
	all, err := l.Read()
	if err != nil {
		return nil, err
	}
	var filtered []Entry
	for _, entry := range all {
		if keep(entry) {
			filtered = append(filtered, entry)
		}
	}
	return filtered, nil
}

// Enabled returns true if the audit logger is enabled.
func (l *Logger) Enabled() bool {
	return l.enabled
}
