package export_test

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/xuri/excelize/v2"

	"ascesc/internal/config"
	"ascesc/internal/duration"
	"ascesc/internal/export"
	"ascesc/internal/incident"
	"ascesc/internal/testsupport"
)

func sample() []incident.Incident {
	id := 12
	end := incident.NewDate(2024, 3, 5)
	return duration.Annotate([]incident.Incident{
		{
			StartDate:     incident.NewDate(2024, 3, 1),
			StartTime:     "08:00",
			EndDate:       &end,
			EndTime:       "10:30",
			Line:          "T1",
			Station:       "Hôtel de Ville",
			EquipmentCode: "Asc12",
			EquipmentID:   &id,
			Comment:       "porte; bloquée",
			Reason:        "Panne",
			SourcePeriod:  "2024-03",
		},
		{
			StartDate:     incident.NewDate(2024, 3, 2),
			EquipmentCode: "Esc-A",
			SourcePeriod:  "2024-03",
		},
	})
}

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	if err := export.WriteCSV(&buf, sample(), ';'); err != nil {
		t.Fatalf("WriteCSV: %v", err)
	}

	reader := csv.NewReader(&buf)
	reader.Comma = ';'
	rows, err := reader.ReadAll()
	if err != nil {
		t.Fatalf("read back csv: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows, got %d", len(rows))
	}
	if strings.Join(rows[0], ",") != strings.Join(export.Columns, ",") {
		t.Fatalf("unexpected header %v", rows[0])
	}

	first := rows[1]
	want := map[string]string{
		"start_date":     "01/03/2024",
		"end_date":       "05/03/2024",
		"equipment_type": "elevator",
		"equipment_id":   "12",
		"comment":        "porte; bloquée",
		"duration_hours": "98.5",
		"start_year":     "2024",
		"source_period":  "2024-03",
	}
	for i, col := range export.Columns {
		if expected, ok := want[col]; ok && first[i] != expected {
			t.Fatalf("column %s = %q, want %q", col, first[i], expected)
		}
	}

	second := rows[2]
	for i, col := range export.Columns {
		switch col {
		case "end_date", "end_time", "start_time", "equipment_id", "duration_hours", "duration_days":
			if second[i] != "" {
				t.Fatalf("expected empty %s for open incident, got %q", col, second[i])
			}
		case "equipment_type":
			if second[i] != "escalator" {
				t.Fatalf("expected escalator, got %q", second[i])
			}
		}
	}
}

func TestWriterProducesCSVAndXLSX(t *testing.T) {
	cfg := testsupport.NewConfig(t, testsupport.WithFormats(config.FormatCSV, config.FormatXLSX))
	paths, err := export.NewWriter(cfg).Write("incidents", sample())
	if err != nil {
		t.Fatalf("Write: %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("expected two files, got %v", paths)
	}
	if paths[0] != filepath.Join(cfg.Paths.OutputDir, "incidents.csv") {
		t.Fatalf("unexpected csv path %q", paths[0])
	}
	if _, err := os.Stat(paths[0]); err != nil {
		t.Fatalf("csv not written: %v", err)
	}

	f, err := excelize.OpenFile(paths[1])
	if err != nil {
		t.Fatalf("open xlsx: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(export.SheetName)
	if err != nil {
		t.Fatalf("read xlsx: %v", err)
	}
	if len(rows) != 3 {
		t.Fatalf("expected header + 2 rows in xlsx, got %d", len(rows))
	}
	if rows[0][0] != "start_date" || rows[1][0] != "01/03/2024" {
		t.Fatalf("unexpected xlsx content %v", rows[:2])
	}
	idCell, err := f.GetCellType(export.SheetName, "I2")
	if err != nil {
		t.Fatalf("cell type: %v", err)
	}
	if idCell == excelize.CellTypeSharedString || idCell == excelize.CellTypeInlineString {
		t.Fatal("expected equipment_id stored as a number")
	}
}

func TestPeriodName(t *testing.T) {
	if got := export.PeriodName("incidents", "Alertes 2023"); got != "incidents_alertes_2023" {
		t.Fatalf("unexpected period name %q", got)
	}
}
