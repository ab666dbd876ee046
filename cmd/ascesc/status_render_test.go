package main

import (
	"bytes"
	"io"
	"strings"
	"testing"
)

func TestStatusWriterPlainLines(t *testing.T) {
	var buf bytes.Buffer
	w := newStatusWriter(&buf)
	w.section("Checks")
	w.line("Database", statusError, "locked")
	w.line("Output directory", statusOK, "")

	lines := strings.Split(strings.TrimRight(buf.String(), "\n"), "\n")
	want := []string{
		"== Checks ==",
		"------------",
		"  Database:            [ERROR] locked",
		"  Output directory:    [OK]",
	}
	if len(lines) != len(want) {
		t.Fatalf("unexpected output:\n%s", buf.String())
	}
	for i := range want {
		if lines[i] != want[i] {
			t.Fatalf("line %d mismatch\n got: %q\nwant: %q", i, lines[i], want[i])
		}
	}
	if w.failures != 1 {
		t.Fatalf("expected 1 failure counted, got %d", w.failures)
	}
}

func TestStatusWriterColor(t *testing.T) {
	w := &statusWriter{out: io.Discard, color: true, labelWidth: 20}
	got := w.format("Output directory", statusOK, "ok")
	if !strings.HasPrefix(got, ansiGreen) || !strings.HasSuffix(got, ansiReset) {
		t.Fatalf("expected green line, got %q", got)
	}
}

func TestShouldColorizeNonFile(t *testing.T) {
	if shouldColorize(io.Discard) {
		t.Fatalf("expected non-file writer to disable color")
	}
}

func TestRenderTableFooter(t *testing.T) {
	out := renderTable([]string{"A", "B"}, [][]string{{"1"}}, []columnAlignment{alignLeft, alignRight}, "", "total")
	if !strings.Contains(out, "TOTAL") && !strings.Contains(out, "total") {
		t.Fatalf("expected footer in table:\n%s", out)
	}
	if renderTable(nil, nil, nil) != "" {
		t.Fatal("expected empty render without headers")
	}
}
