package ingest

import (
	"encoding/csv"
	"errors"
	"fmt"
	"io"
	"os"

	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"ascesc/internal/config"
)

func loadCSV(path string, opts loadOptions) (table, error) {
	file, err := os.Open(path)
	if err != nil {
		return table{}, fmt.Errorf("open csv: %w", err)
	}
	defer file.Close()

	var src io.Reader
	switch opts.encoding {
	case config.EncodingLatin1:
		src = charmap.ISO8859_1.NewDecoder().Reader(file)
	default:
		src = transform.NewReader(file, unicode.BOMOverride(transform.Nop))
	}

	reader := csv.NewReader(src)
	reader.Comma = opts.delimiter
	if reader.Comma == 0 {
		reader.Comma = ';'
	}
	reader.FieldsPerRecord = -1
	reader.LazyQuotes = true

	// The reader skips blank lines, so each record keeps the line it started on.
	var (
		raw   [][]any
		lines []int
	)
	for {
		record, err := reader.Read()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return table{}, fmt.Errorf("parse csv: %w", err)
		}
		line, _ := reader.FieldPos(0)
		row := make([]any, len(record))
		for j, value := range record {
			if value != "" {
				row[j] = value
			}
		}
		raw = append(raw, row)
		lines = append(lines, line)
	}
	return splitHeader("", raw, lines, opts.skipRows)
}
