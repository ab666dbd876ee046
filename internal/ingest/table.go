package ingest

import (
	"fmt"
	"path/filepath"
	"strings"
)

// AllSheets selects every sheet of a workbook, concatenated in workbook order.
const AllSheets = "*"

// table is one header row plus its data rows, cells already typed:
// float64 for numeric spreadsheet cells, string for text, nil for blanks.
// lines holds the 1-based physical line of each data row.
type table struct {
	sheet  string
	header []string
	rows   [][]any
	lines  []int
}

func (t table) rowNumber(index int) int {
	return t.lines[index]
}

type loadOptions struct {
	sheet     string
	skipRows  int
	delimiter rune
	encoding  string
}

func loadTables(path string, opts loadOptions) ([]table, error) {
	switch ext := strings.ToLower(filepath.Ext(path)); ext {
	case ".xlsx", ".xlsm":
		return loadWorkbook(path, opts)
	case ".csv", ".txt":
		t, err := loadCSV(path, opts)
		if err != nil {
			return nil, err
		}
		return []table{t}, nil
	default:
		return nil, fmt.Errorf("unsupported extract format %q", ext)
	}
}

// splitHeader takes the first row past skipRows physical lines as the header.
// lines gives the physical line of each raw row; nil means raw has one entry
// per line, as in a worksheet. Row numbers are 1-based, as shown by
// spreadsheet software and text editors.
func splitHeader(sheet string, raw [][]any, lines []int, skipRows int) (table, error) {
	if lines == nil {
		lines = make([]int, len(raw))
		for i := range raw {
			lines[i] = i + 1
		}
	}
	start := -1
	for i, line := range lines {
		if line > skipRows {
			start = i
			break
		}
	}
	if start < 0 {
		return table{}, fmt.Errorf("no header row after skipping %d rows", skipRows)
	}
	t := table{sheet: sheet, rows: raw[start:], lines: lines[start:]}
	// A blank line where the header belongs leaves the header empty.
	if lines[start] == skipRows+1 {
		for _, cell := range raw[start] {
			t.header = append(t.header, cellText(cell))
		}
		t.rows, t.lines = t.rows[1:], t.lines[1:]
	}
	return t, nil
}

func blankRow(row []any) bool {
	for _, cell := range row {
		if strings.TrimSpace(cellText(cell)) != "" {
			return false
		}
	}
	return true
}

func cellAt(row []any, idx int) any {
	if idx < 0 || idx >= len(row) {
		return nil
	}
	return row[idx]
}
