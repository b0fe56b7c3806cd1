package testutil

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

// TestWorkspace is a temporary directory holding a config file, a sqlite
// database path, a screens file and any dataset files a test needs.
type TestWorkspace struct {
	Path        string
	ConfigPath  string
	DBPath      string
	ScreensPath string

	t           *testing.T
	extraConfig string
	files       map[string]string
}

// NewTestWorkspace creates a new test workspace builder.
// Call Build() to create the actual directory.
func NewTestWorkspace(t *testing.T) *TestWorkspace {
	t.Helper()
	return &TestWorkspace{
		t:     t,
		files: make(map[string]string),
	}
}

// WithFile adds a file to the workspace.
// The path is relative to the workspace root.
func (w *TestWorkspace) WithFile(path, content string) *TestWorkspace {
	w.files[path] = content
	return w
}

// WithSampleCSV writes the sample universe to stocks.csv.
func (w *TestWorkspace) WithSampleCSV() *TestWorkspace {
	return w.WithFile("stocks.csv", SampleCSV())
}

// WithConfig appends TOML sections to the generated config file.
func (w *TestWorkspace) WithConfig(toml string) *TestWorkspace {
	w.extraConfig = toml
	return w
}

// Build creates the workspace directory, config file and all configured files.
func (w *TestWorkspace) Build() *TestWorkspace {
	w.t.Helper()

	w.Path = w.t.TempDir()
	w.ConfigPath = filepath.Join(w.Path, "config.toml")
	w.DBPath = filepath.Join(w.Path, "data", "stocks.db")
	w.ScreensPath = filepath.Join(w.Path, "screens.yaml")

	config := "database = " + quote(w.DBPath) + "\n" +
		"screens_file = " + quote(w.ScreensPath) + "\n" +
		"workers = 2\n"
	if w.extraConfig != "" {
		config += "\n" + strings.TrimSpace(w.extraConfig) + "\n"
	}
	w.writeFile("config.toml", config)

	for path, content := range w.files {
		w.writeFile(path, content)
	}

	return w
}

// FilePath returns the absolute path of a workspace file.
func (w *TestWorkspace) FilePath(relPath string) string {
	return filepath.Join(w.Path, relPath)
}

// ReadFile reads a file from the workspace.
func (w *TestWorkspace) ReadFile(relPath string) string {
	w.t.Helper()
	content, err := os.ReadFile(w.FilePath(relPath))
	if err != nil {
		w.t.Fatalf("failed to read %s: %v", relPath, err)
	}
	return string(content)
}

func (w *TestWorkspace) writeFile(relPath, content string) {
	w.t.Helper()
	fullPath := w.FilePath(relPath)
	if err := os.MkdirAll(filepath.Dir(fullPath), 0755); err != nil {
		w.t.Fatalf("failed to create directory for %s: %v", relPath, err)
	}
	if err := os.WriteFile(fullPath, []byte(content), 0644); err != nil {
		w.t.Fatalf("failed to write %s: %v", relPath, err)
	}
}

// quote writes a TOML basic string. Windows paths need their backslashes escaped.
func quote(s string) string {
	return `"` + strings.ReplaceAll(s, `\`, `\\`) + `"`
}
