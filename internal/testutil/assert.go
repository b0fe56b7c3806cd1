package testutil

import (
	"os"
	"reflect"
	"sort"
	"strings"
	"testing"
)

// AssertFileExists fails the test if the file does not exist.
func (w *TestWorkspace) AssertFileExists(relPath string) {
	w.t.Helper()
	if _, err := os.Stat(w.FilePath(relPath)); os.IsNotExist(err) {
		w.t.Errorf("expected file to exist: %s", relPath)
	}
}

// AssertFileContains fails the test if the file does not contain the substring.
func (w *TestWorkspace) AssertFileContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if !strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertFileNotContains fails the test if the file contains the substring.
func (w *TestWorkspace) AssertFileNotContains(relPath, substr string) {
	w.t.Helper()
	content := w.ReadFile(relPath)
	if strings.Contains(content, substr) {
		w.t.Errorf("expected file %s to not contain %q, got:\n%s", relPath, substr, content)
	}
}

// AssertScreenSymbols runs a screen and compares the matched symbols.
func (w *TestWorkspace) AssertScreenSymbols(query string, want []string) {
	w.t.Helper()
	result := w.RunCLI("run", query)
	result.MustSucceed(w.t)
	result.AssertSymbols(w.t, "stocks", want)
}

// AssertHasWarning checks that the result contains a warning with the given code.
func (r *CLIResult) AssertHasWarning(t *testing.T, code string) {
	t.Helper()
	for _, w := range r.Warnings {
		if w.Code == code {
			return
		}
	}
	t.Errorf("expected warning with code %s, got warnings: %+v", code, r.Warnings)
}

// AssertResultCount checks that a result list has the expected length.
func (r *CLIResult) AssertResultCount(t *testing.T, key string, expected int) {
	t.Helper()
	results := r.DataList(key)
	if len(results) != expected {
		t.Errorf("expected %d %s, got %d\nRaw: %s", expected, key, len(results), r.RawJSON)
	}
}

// AssertSymbols checks the sorted "symbol" values of a result list.
func (r *CLIResult) AssertSymbols(t *testing.T, key string, want []string) {
	t.Helper()
	got := []string{}
	for _, item := range r.DataList(key) {
		if m, ok := item.(map[string]interface{}); ok {
			if s, ok := m["symbol"].(string); ok {
				got = append(got, s)
			}
		}
	}
	sort.Strings(got)
	if want == nil {
		want = []string{}
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("symbols = %v, want %v\nRaw: %s", got, want, r.RawJSON)
	}
}
