package testsupport

import (
	"bytes"
	"encoding/csv"
	"os"
	"path/filepath"
	"testing"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/encoding/charmap"
)

// Sheet is a named worksheet for WriteXLSX. Nil cells are left blank.
type Sheet struct {
	Name string
	Rows [][]any
}

// WriteCSV writes a ';'-separated UTF-8 CSV file.
func WriteCSV(t testing.TB, path string, rows [][]string) {
	t.Helper()
	writeCSV(t, path, rows, false)
}

// WriteLatin1CSV writes a ';'-separated ISO-8859-1 CSV file, as produced by
// the open-data alert exports.
func WriteLatin1CSV(t testing.TB, path string, rows [][]string) {
	t.Helper()
	writeCSV(t, path, rows, true)
}

func writeCSV(t testing.TB, path string, rows [][]string, latin1 bool) {
	t.Helper()

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)
	w.Comma = ';'
	if err := w.WriteAll(rows); err != nil {
		t.Fatalf("encode csv %s: %v", path, err)
	}
	data := buf.Bytes()
	if latin1 {
		encoded, err := charmap.ISO8859_1.NewEncoder().Bytes(data)
		if err != nil {
			t.Fatalf("encode latin1 %s: %v", path, err)
		}
		data = encoded
	}
	mkdirFor(t, path)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteXLSX writes a workbook with the given sheets in order.
func WriteXLSX(t testing.TB, path string, sheets ...Sheet) {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	for i, sheet := range sheets {
		if i == 0 {
			if err := f.SetSheetName(f.GetSheetName(0), sheet.Name); err != nil {
				t.Fatalf("rename sheet: %v", err)
			}
		} else if _, err := f.NewSheet(sheet.Name); err != nil {
			t.Fatalf("new sheet %s: %v", sheet.Name, err)
		}
		for r, row := range sheet.Rows {
			for c, value := range row {
				if value == nil {
					continue
				}
				cell, err := excelize.CoordinatesToCellName(c+1, r+1)
				if err != nil {
					t.Fatalf("cell name: %v", err)
				}
				if err := f.SetCellValue(sheet.Name, cell, value); err != nil {
					t.Fatalf("set %s!%s: %v", sheet.Name, cell, err)
				}
			}
		}
	}

	mkdirFor(t, path)
	if err := f.SaveAs(path); err != nil {
		t.Fatalf("save %s: %v", path, err)
	}
}

func mkdirFor(t testing.TB, path string) {
	t.Helper()
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
}
