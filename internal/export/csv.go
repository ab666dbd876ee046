package export

import (
	"encoding/csv"
	"fmt"
	"io"

	"ascesc/internal/incident"
)

// WriteCSV writes the header and one line per incident.
func WriteCSV(w io.Writer, incidents []incident.Incident, delimiter rune) error {
	cw := csv.NewWriter(w)
	if delimiter != 0 {
		cw.Comma = delimiter
	}
	if err := cw.Write(Columns); err != nil {
		return fmt.Errorf("write csv header: %w", err)
	}
	for _, inc := range incidents {
		if err := cw.Write(Record(inc)); err != nil {
			return fmt.Errorf("write csv row %s: %w", inc.Key(), err)
		}
	}
	cw.Flush()
	return cw.Error()
}
