package logging

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func readEntries(t *testing.T, path string) []map[string]any {
	t.Helper()
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	var entries []map[string]any
	for _, line := range strings.Split(strings.TrimSpace(string(data)), "\n") {
		if line == "" {
			continue
		}
		var entry map[string]any
		if err := json.Unmarshal([]byte(line), &entry); err != nil {
			t.Fatalf("non-JSON log line %q: %v", line, err)
		}
		entries = append(entries, entry)
	}
	return entries
}

func TestLogger_WritesJSONEntries(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatal(err)
	}

	logger.Info("run finished", "exit_code", 0)
	if err := logger.Close(); err != nil {
		t.Fatal(err)
	}

	entries := readEntries(t, filepath.Join(dir, "spyglass.log"))
	if len(entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(entries))
	}
	if entries[0]["msg"] != "run finished" {
		t.Errorf("msg = %v", entries[0]["msg"])
	}
	if entries[0]["exit_code"] != float64(0) {
		t.Errorf("exit_code = %v", entries[0]["exit_code"])
	}
	if entries[0]["level"] != "INFO" {
		t.Errorf("level = %v", entries[0]["level"])
	}
}

func TestLogger_LevelFiltering(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelWarn)
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("dropped")
	logger.Info("also dropped")
	logger.Warn("kept")
	logger.Error("also kept")
	logger.Close()

	entries := readEntries(t, filepath.Join(dir, "spyglass.log"))
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0]["msg"] != "kept" || entries[1]["msg"] != "also kept" {
		t.Errorf("entries = %v", entries)
	}
}

func TestLogger_UnknownLevelDefaultsToInfo(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, "chatty")
	if err != nil {
		t.Fatal(err)
	}

	logger.Debug("dropped")
	logger.Info("kept")
	logger.Close()

	entries := readEntries(t, filepath.Join(dir, "spyglass.log"))
	if len(entries) != 1 || entries[0]["msg"] != "kept" {
		t.Errorf("entries = %v, want just the info entry", entries)
	}
}

func TestLogger_ChildAttributes(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelDebug)
	if err != nil {
		t.Fatal(err)
	}

	child := logger.WithRun("run-42").WithWatcher("input_wait")
	child.Debug("state changed", "waiting", true)
	logger.Info("no inherited attrs")
	logger.Close()

	entries := readEntries(t, filepath.Join(dir, "spyglass.log"))
	if len(entries) != 2 {
		t.Fatalf("entries = %d, want 2", len(entries))
	}
	if entries[0]["run_id"] != "run-42" || entries[0]["watcher"] != "input_wait" {
		t.Errorf("child entry missing attrs: %v", entries[0])
	}
	if entries[0]["waiting"] != true {
		t.Errorf("waiting = %v", entries[0]["waiting"])
	}
	if _, has := entries[1]["run_id"]; has {
		t.Error("parent logger inherited the child's run_id")
	}
}

func TestLogger_With(t *testing.T) {
	dir := t.TempDir()
	logger, err := NewLogger(dir, LevelInfo)
	if err != nil {
		t.Fatal(err)
	}

	logger.With("target", "session:0.1").Info("attached")
	logger.Close()

	entries := readEntries(t, filepath.Join(dir, "spyglass.log"))
	if len(entries) != 1 || entries[0]["target"] != "session:0.1" {
		t.Errorf("entries = %v", entries)
	}
}

func TestNopLogger(t *testing.T) {
	logger := NopLogger()
	logger.Debug("x")
	logger.Info("x")
	logger.Warn("x")
	logger.Error("x")
	logger.WithRun("r").WithWatcher("w").Info("x")
	if err := logger.Close(); err != nil {
		t.Errorf("Close() = %v, want nil", err)
	}
}

func TestLogger_CloseIdempotent(t *testing.T) {
	logger, err := NewLogger(t.TempDir(), LevelInfo)
	if err != nil {
		t.Fatal(err)
	}

	if err := logger.Close(); err != nil {
		t.Fatalf("first Close() = %v", err)
	}
	if err := logger.Close(); err != nil {
		t.Errorf("second Close() = %v, want nil", err)
	}
}
