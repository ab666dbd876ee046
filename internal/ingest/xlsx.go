package ingest

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"
)

func loadWorkbook(path string, opts loadOptions) ([]table, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook: %w", err)
	}
	defer f.Close()

	sheets, err := selectSheets(f, opts.sheet)
	if err != nil {
		return nil, err
	}

	tables := make([]table, 0, len(sheets))
	for _, sheet := range sheets {
		raw, err := readSheet(f, sheet)
		if err != nil {
			return nil, err
		}
		if len(raw) == 0 && len(sheets) > 1 {
			continue
		}
		t, err := splitHeader(sheet, raw, nil, opts.skipRows)
		if err != nil {
			return nil, fmt.Errorf("sheet %q: %w", sheet, err)
		}
		tables = append(tables, t)
	}
	if len(tables) == 0 {
		return nil, fmt.Errorf("workbook has no rows")
	}
	return tables, nil
}

func selectSheets(f *excelize.File, sheet string) ([]string, error) {
	list := f.GetSheetList()
	if len(list) == 0 {
		return nil, fmt.Errorf("workbook has no sheets")
	}
	switch strings.TrimSpace(sheet) {
	case "":
		return list[:1], nil
	case AllSheets:
		return list, nil
	}
	for _, name := range list {
		if name == sheet {
			return []string{name}, nil
		}
	}
	return nil, fmt.Errorf("sheet %q not found (have %s)", sheet, strings.Join(list, ", "))
}

// readSheet returns the sheet's rows with numeric cells surfaced as float64.
// Raw values are used so date cells arrive as serial numbers rather than
// locale-formatted text.
func readSheet(f *excelize.File, sheet string) ([][]any, error) {
	rows, err := f.GetRows(sheet, excelize.Options{RawCellValue: true})
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	out := make([][]any, len(rows))
	for r, row := range rows {
		cells := make([]any, len(row))
		for c, value := range row {
			cells[c] = typedCell(f, sheet, c+1, r+1, value)
		}
		out[r] = cells
	}
	return out, nil
}

func typedCell(f *excelize.File, sheet string, col, row int, value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	number, err := strconv.ParseFloat(strings.TrimSpace(value), 64)
	if err != nil {
		return value
	}
	name, err := excelize.CoordinatesToCellName(col, row)
	if err != nil {
		return value
	}
	kind, err := f.GetCellType(sheet, name)
	if err != nil {
		return value
	}
	switch kind {
	case excelize.CellTypeSharedString, excelize.CellTypeInlineString, excelize.CellTypeFormula:
		return value
	default:
		return number
	}
}
