package export

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"ascesc/internal/incident"
)

// SheetName is the worksheet holding exported incidents.
const SheetName = "incidents"

// WriteXLSX writes a single-sheet workbook. Rows are streamed so large sets
// do not build the whole sheet in memory.
func WriteXLSX(w io.Writer, incidents []incident.Incident) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SheetName); err != nil {
		return fmt.Errorf("rename sheet: %w", err)
	}
	sw, err := f.NewStreamWriter(SheetName)
	if err != nil {
		return fmt.Errorf("open stream writer: %w", err)
	}

	header := make([]any, len(Columns))
	for i, c := range Columns {
		header[i] = c
	}
	if err := sw.SetRow("A1", header); err != nil {
		return fmt.Errorf("write header: %w", err)
	}
	for i, inc := range incidents {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := sw.SetRow(cell, Values(inc)); err != nil {
			return fmt.Errorf("write row %s: %w", inc.Key(), err)
		}
	}
	if err := sw.Flush(); err != nil {
		return fmt.Errorf("flush sheet: %w", err)
	}
	if _, err := f.WriteTo(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}
