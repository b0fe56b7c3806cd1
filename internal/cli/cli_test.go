package cli

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"

	"github.com/spf13/cobra"

	"github.com/stockscreen/screener/internal/config"
)

var captureStdoutMu sync.Mutex

func captureStdout(t *testing.T, fn func()) string {
	t.Helper()
	captureStdoutMu.Lock()
	defer captureStdoutMu.Unlock()

	orig := os.Stdout
	r, w, err := os.Pipe()
	if err != nil {
		t.Fatalf("os.Pipe: %v", err)
	}

	os.Stdout = w

	outputCh := make(chan string, 1)
	errCh := make(chan error, 1)
	go func() {
		var buf bytes.Buffer
		_, copyErr := io.Copy(&buf, r)
		_ = r.Close()
		if copyErr != nil {
			errCh <- copyErr
			return
		}
		outputCh <- buf.String()
	}()

	fn()

	os.Stdout = orig
	_ = w.Close()
	select {
	case err := <-errCh:
		t.Fatalf("io.Copy: %v", err)
		return ""
	case output := <-outputCh:
		return output
	}
}

type testResponse struct {
	OK       bool                   `json:"ok"`
	Data     map[string]interface{} `json:"data"`
	Error    *struct {
		Code       string                 `json:"code"`
		Message    string                 `json:"message"`
		Details    map[string]interface{} `json:"details"`
		Suggestion string                 `json:"suggestion"`
	} `json:"error"`
	Warnings []Warning `json:"warnings"`
	Meta     *Meta     `json:"meta"`
}

// useTestEnv points the CLI globals at a temp directory and enables JSON
// output. Everything is restored when the test ends.
func useTestEnv(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()

	prevCfg, prevDB, prevJSON, prevConfigPath := cfg, dbPathFlag, jsonOutput, resolvedConfigPath
	t.Cleanup(func() {
		cfg, dbPathFlag, jsonOutput, resolvedConfigPath = prevCfg, prevDB, prevJSON, prevConfigPath
	})

	cfg = &config.Config{
		ScreensFile: filepath.Join(dir, "screens.yaml"),
		Workers:     2,
	}
	dbPathFlag = filepath.Join(dir, "stocks.db")
	resolvedConfigPath = filepath.Join(dir, "config.toml")
	jsonOutput = true
	return dir
}

// runJSON runs a command's RunE and decodes the JSON envelope it prints.
func runJSON(t *testing.T, cmd *cobra.Command, args ...string) testResponse {
	t.Helper()
	cmd.SetContext(context.Background())

	out := captureStdout(t, func() {
		if err := cmd.RunE(cmd, args); err != nil {
			t.Fatalf("%s RunE: %v", cmd.Name(), err)
		}
	})

	var resp testResponse
	if err := json.Unmarshal([]byte(out), &resp); err != nil {
		t.Fatalf("expected JSON output from %s, got %v; out=%s", cmd.Name(), err, out)
	}
	return resp
}

func mustOK(t *testing.T, resp testResponse) testResponse {
	t.Helper()
	if !resp.OK {
		t.Fatalf("expected ok response, got error %+v", resp.Error)
	}
	return resp
}

func mustErrorCode(t *testing.T, resp testResponse, code string) testResponse {
	t.Helper()
	if resp.OK || resp.Error == nil {
		t.Fatalf("expected error %s, got ok response: %+v", code, resp.Data)
	}
	if resp.Error.Code != code {
		t.Fatalf("error code = %s, want %s (%s)", resp.Error.Code, code, resp.Error.Message)
	}
	return resp
}

func symbolsOf(t *testing.T, resp testResponse) []string {
	t.Helper()
	items, ok := resp.Data["stocks"].([]interface{})
	if !ok {
		t.Fatalf("response has no stocks list: %+v", resp.Data)
	}
	out := []string{}
	for _, item := range items {
		out = append(out, item.(map[string]interface{})["symbol"].(string))
	}
	sort.Strings(out)
	return out
}

func stringList(v interface{}) []string {
	items, _ := v.([]interface{})
	out := []string{}
	for _, item := range items {
		if s, ok := item.(string); ok {
			out = append(out, s)
		}
	}
	return out
}
