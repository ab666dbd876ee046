package ingest

import "ascesc/internal/services"

// CheckHeader loads ex and verifies its header against the profile without
// coercing any row. It returns the number of data rows found.
func CheckHeader(ex Extract) (int, error) {
	tables, err := loadTables(ex.Path, loadOptions{
		sheet:     ex.Sheet,
		skipRows:  ex.SkipRows,
		delimiter: ex.Delimiter,
		encoding:  ex.Encoding,
	})
	if err != nil {
		return 0, services.Wrap(services.ErrExtractUnreadable, "check", "load", ex.Path, err)
	}
	layouts, err := resolveTables(ex, tables)
	if err != nil {
		return 0, err
	}
	rows := 0
	for _, lt := range layouts {
		if lt.skipped {
			continue
		}
		for _, row := range lt.table.rows {
			if !blankRow(row) {
				rows++
			}
		}
	}
	return rows, nil
}
