package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"ludotheque/internal/config"
	"ludotheque/internal/logging"
	"ludotheque/internal/services"
)

func readLog(t *testing.T, path string) string {
	t.Helper()
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	return string(content)
}

func TestNewFromConfigCreatesLogFile(t *testing.T) {
	cfg := config.Default()
	cfg.Paths.LogDir = filepath.Join(t.TempDir(), "logs")

	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	logger.Info("hello")

	if got := readLog(t, filepath.Join(cfg.Paths.LogDir, "ludotheque.log")); !strings.Contains(got, "hello") {
		t.Fatalf("expected message in log file, got %q", got)
	}
}

func TestConsoleLoggerFormatsComponentAndFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{Format: "console", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.NewComponentLogger(logger, "scanner").Info("identified", logging.Uint64(logging.FieldGameID, 1026), logging.String("title", "The Legend"))

	got := readLog(t, logPath)
	if !strings.Contains(got, "INFO scanner: identified") {
		t.Fatalf("expected component prefix, got %q", got)
	}
	if !strings.Contains(got, "game_id=1026") || !strings.Contains(got, `title="The Legend"`) {
		t.Fatalf("expected formatted fields, got %q", got)
	}
	if strings.Contains(got, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", got)
	}
	if strings.Contains(got, "\x1b[") {
		t.Fatalf("expected no color codes in file output, got %q", got)
	}
}

func TestJSONLoggerIncludesContextFields(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithRunID(context.Background(), "run-1")
	ctx = services.WithStage(ctx, "persist")
	ctx = services.WithPath(ctx, "/games/zelda.zip")
	logging.WithContext(ctx, logger).Info("saved")

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	for key, want := range map[string]string{"run_id": "run-1", "stage": "persist", "path": "/games/zelda.zip", "level": "info", "msg": "saved"} {
		if entry[key] != want {
			t.Fatalf("expected %s=%q, got %v", key, want, entry[key])
		}
	}
}

func TestWarnWithContextInjectsDefaults(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "warn.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	logging.WarnWithContext(logger, "translation failed", "translation_failed", logging.String(logging.FieldImpact, "base metadata kept"))

	var entry map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(readLog(t, logPath))), &entry); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	if entry[logging.FieldEventType] != "translation_failed" {
		t.Fatalf("expected event_type, got %v", entry)
	}
	if entry[logging.FieldErrorHint] == nil {
		t.Fatalf("expected default error hint, got %v", entry)
	}
	if entry[logging.FieldImpact] != "base metadata kept" {
		t.Fatalf("expected caller impact to be kept, got %v", entry[logging.FieldImpact])
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unknown format")
	}
}
