package logging_test

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ascesc/internal/config"
	"ascesc/internal/logging"
	"ascesc/internal/services"
)

func TestNewFromConfigConsole(t *testing.T) {
	cfg := config.Default()
	logger, err := logging.NewFromConfig(&cfg)
	if err != nil {
		t.Fatalf("NewFromConfig returned error: %v", err)
	}
	if logger == nil {
		t.Fatal("expected logger instance")
	}
}

func TestNewRejectsUnknownFormat(t *testing.T) {
	if _, err := logging.New(logging.Options{Format: "xml"}); err == nil {
		t.Fatal("expected error for unsupported format")
	}
}

func TestConsoleLoggerHeaderCarriesPeriodAndStage(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "console.log")
	logger, err := logging.New(logging.Options{
		Format:      "console",
		Level:       "info",
		OutputPaths: []string{logPath},
	})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}

	ctx := services.WithPeriod(services.WithStage(context.Background(), "ingest"), "2023-06")
	logger = logging.WithContext(ctx, logging.NewComponentLogger(logger, "ingest"))
	logging.WarnWithContext(logger, "start time unparsable; left empty", "time_unparsable",
		logging.Int(logging.FieldRow, 12),
		logging.String(logging.FieldColumn, "HEURE Début"),
		logging.String(logging.FieldRaw, "25:00"),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	text := string(content)
	for _, fragment := range []string{`WARN [ingest] Period 2023-06 (ingest) row 12, column "HEURE Début" – start time unparsable`, "- raw: 25:00", "- error_hint:"} {
		if !strings.Contains(text, fragment) {
			t.Fatalf("expected %q in console output:\n%s", fragment, text)
		}
	}
	if strings.Contains(text, ".go:") {
		t.Fatalf("expected no caller information at info level, got %q", text)
	}
	if strings.Contains(text, "- row:") {
		t.Fatalf("expected row moved into the header, got %q", text)
	}
	if strings.Contains(text, "event_type") {
		t.Fatalf("expected event_type hidden at info level, got %q", text)
	}
}

func TestJSONLoggerUsesShortKeys(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Info("run complete", logging.Int("survivors", 4))

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	var payload map[string]any
	if err := json.Unmarshal([]byte(strings.TrimSpace(string(content))), &payload); err != nil {
		t.Fatalf("decode json log: %v", err)
	}
	for _, key := range []string{"ts", "level", "msg", "survivors"} {
		if _, ok := payload[key]; !ok {
			t.Fatalf("expected key %q in %v", key, payload)
		}
	}
	if payload["level"] != "info" {
		t.Fatalf("expected lower-case level, got %v", payload["level"])
	}
}

func TestJSONLoggerWritesDatesWithoutClock(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "json.log")
	logger, err := logging.New(logging.Options{Format: "json", Level: "info", OutputPaths: []string{logPath}})
	if err != nil {
		t.Fatalf("New returned error: %v", err)
	}
	logger.Warn("negative duration",
		logging.Any("start_date", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC)),
		logging.Any("seen_at", time.Date(2024, 3, 1, 9, 30, 0, 0, time.UTC)),
	)

	content, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("read log file: %v", err)
	}
	for _, fragment := range []string{`"start_date":"2024-03-01"`, `"seen_at":"2024-03-01T09:30:00Z"`} {
		if !strings.Contains(string(content), fragment) {
			t.Fatalf("expected %s in %s", fragment, content)
		}
	}
}

func TestRunLogHandlerWritesFile(t *testing.T) {
	dir := t.TempDir()
	handler, closer, path, err := logging.NewRunLogHandler(dir, "0f8fad5b-d9cb-469f-a165-70867728950e", "debug", time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC))
	if err != nil {
		t.Fatalf("NewRunLogHandler: %v", err)
	}
	if filepath.Base(path) != "run-20240301T080000-0f8fad5b.log" {
		t.Fatalf("unexpected run log name %q", filepath.Base(path))
	}
	logger := logging.TeeLogger(logging.NewNop(), handler)
	logger.Debug("row dropped", logging.String(logging.FieldPeriod, "2023-07"))
	if err := closer.Close(); err != nil {
		t.Fatalf("close run log: %v", err)
	}
	content, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read run log: %v", err)
	}
	if !strings.Contains(string(content), `"period":"2023-07"`) {
		t.Fatalf("expected period in run log, got %q", content)
	}
	if matched, _ := filepath.Match(logging.RunLogPattern, filepath.Base(path)); !matched {
		t.Fatalf("run log %q does not match retention pattern", path)
	}
}

func TestPruneRunLogsUsesNameStamp(t *testing.T) {
	dir := t.TempDir()
	now := time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)
	expired := filepath.Join(dir, "run-20231201T000000-aaaa.log")
	recent := filepath.Join(dir, "run-20240225T120000-bbbb.log")
	current := filepath.Join(dir, "run-20200101T000000-cccc.log")
	unstamped := filepath.Join(dir, "run-manual.log")
	notes := filepath.Join(dir, "notes.txt")
	for _, p := range []string{expired, recent, current, unstamped, notes} {
		if err := os.WriteFile(p, []byte("x"), 0o644); err != nil {
			t.Fatalf("write %s: %v", p, err)
		}
	}
	old := now.AddDate(0, 0, -90)
	for _, p := range []string{unstamped, notes} {
		if err := os.Chtimes(p, old, old); err != nil {
			t.Fatalf("chtimes: %v", err)
		}
	}
	// A recent mtime must not rescue a log whose name says it is old.
	if err := os.Chtimes(expired, now, now); err != nil {
		t.Fatalf("chtimes: %v", err)
	}

	removed := logging.PruneRunLogs(logging.NewNop(), dir, 30, now, current)
	if removed != 2 {
		t.Fatalf("expected 2 logs removed, got %d", removed)
	}
	for _, p := range []string{expired, unstamped} {
		if _, err := os.Stat(p); !os.IsNotExist(err) {
			t.Fatalf("expected %s removed, stat err=%v", p, err)
		}
	}
	for _, p := range []string{recent, current, notes} {
		if _, err := os.Stat(p); err != nil {
			t.Fatalf("expected %s kept: %v", p, err)
		}
	}
}

func TestPruneRunLogsDisabled(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "run-20000101T000000-aaaa.log")
	if err := os.WriteFile(path, []byte("x"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	if removed := logging.PruneRunLogs(logging.NewNop(), dir, 0, time.Now()); removed != 0 {
		t.Fatalf("expected pruning disabled, removed %d", removed)
	}
}
