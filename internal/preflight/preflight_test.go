package preflight

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"ascesc/internal/config"
	"ascesc/internal/testsupport"
)

var pointsHeader = []any{"DATE Début", "HEURE Début", "DATE Fin", "HEURE Fin", "LIGNE", "STATION", "N° EQUIP.", "COMMENTAIRE", "Motifs"}

func TestCheckDirectoryAccess_OK(t *testing.T) {
	dir := t.TempDir()
	result := CheckDirectoryAccess("test", dir)
	if !result.Passed {
		t.Fatalf("expected pass for temp dir, got: %s", result.Detail)
	}
}

func TestCheckDirectoryAccess_NotExist(t *testing.T) {
	result := CheckDirectoryAccess("test", filepath.Join(t.TempDir(), "nope"))
	if result.Passed {
		t.Fatal("expected failure for missing dir")
	}
	if result.Detail == "" {
		t.Fatal("expected non-empty detail")
	}
}

func TestCheckDirectoryAccess_NotDir(t *testing.T) {
	f := filepath.Join(t.TempDir(), "file.txt")
	if err := os.WriteFile(f, []byte("x"), 0o644); err != nil {
		t.Fatal(err)
	}
	result := CheckDirectoryAccess("test", f)
	if result.Passed {
		t.Fatal("expected failure for file path")
	}
}

func TestCheckDatabase(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	result := CheckDatabase(context.Background(), cfg)
	if !result.Passed {
		t.Fatalf("expected pass, got: %s", result.Detail)
	}
	if !strings.Contains(result.Detail, "0001_init") {
		t.Fatalf("expected schema version in detail, got %q", result.Detail)
	}
}

func TestCheckExtract(t *testing.T) {
	cfg := testsupport.NewConfig(t)
	dir := testsupport.ExtractsDir(cfg)
	testsupport.WriteXLSX(t, filepath.Join(dir, "good.xlsx"), testsupport.Sheet{
		Name: "Feuil1",
		Rows: [][]any{
			pointsHeader,
			{time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "08:00", nil, nil, "A", "Bellecour", "Asc1", nil, nil},
		},
	})
	testsupport.WriteXLSX(t, filepath.Join(dir, "bad.xlsx"), testsupport.Sheet{
		Name: "Feuil1",
		Rows: [][]any{pointsHeader[:8]},
	})

	tests := []struct {
		name    string
		extract config.Extract
		pass    bool
		detail  string
	}{
		{"ok", config.Extract{Period: "2024-03", Path: "good.xlsx"}, true, "1 rows"},
		{"missing column", config.Extract{Period: "2024-04", Path: "bad.xlsx"}, false, "Motifs"},
		{"missing file", config.Extract{Period: "2024-05", Path: "absent.xlsx"}, false, "not readable"},
		{"unknown profile", config.Extract{Period: "2024-06", Path: "good.xlsx", Profile: "nope"}, false, "nope"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := CheckExtract(cfg, tt.extract)
			if result.Passed != tt.pass {
				t.Fatalf("expected passed=%v, got %+v", tt.pass, result)
			}
			if !strings.Contains(result.Detail, tt.detail) {
				t.Fatalf("expected detail to mention %q, got %q", tt.detail, result.Detail)
			}
		})
	}
}

func TestRunAll(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithExtract("2024-03", "absent.xlsx", ""))
	results := RunAll(context.Background(), cfg)
	if len(results) != 4 {
		t.Fatalf("expected 4 results, got %d: %+v", len(results), results)
	}
	for _, r := range results[:3] {
		if !r.Passed {
			t.Fatalf("expected %s to pass: %s", r.Name, r.Detail)
		}
	}
	if results[3].Passed || results[3].Name != "Extract 2024-03" {
		t.Fatalf("unexpected extract result %+v", results[3])
	}

	cfg.Output.Store = false
	cfg.Extracts = nil
	results = RunAll(context.Background(), cfg)
	if len(results) != 3 || results[2].Name != "Extracts" || results[2].Passed {
		t.Fatalf("expected a failing extracts entry, got %+v", results)
	}
}
