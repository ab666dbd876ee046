package export

import (
	"fmt"
	"io"
	"path/filepath"

	"ascesc/internal/config"
	"ascesc/internal/fileutil"
	"ascesc/internal/incident"
	"ascesc/internal/services"
	"ascesc/internal/textutil"
)

// Writer places exported files in one output directory.
type Writer struct {
	dir       string
	formats   []string
	delimiter rune
}

// NewWriter builds a Writer from the output configuration.
func NewWriter(cfg *config.Config) *Writer {
	delimiter := ';'
	if r := []rune(cfg.Output.CSVDelimiter); len(r) > 0 {
		delimiter = r[0]
	}
	return &Writer{
		dir:       cfg.Paths.OutputDir,
		formats:   append([]string(nil), cfg.Output.Formats...),
		delimiter: delimiter,
	}
}

// Write exports incidents under name in every configured format and returns
// the written paths. Each file replaces any previous one atomically.
func (w *Writer) Write(name string, incidents []incident.Incident) ([]string, error) {
	base := textutil.FileStem(name)
	if base == "" {
		return nil, services.Wrap(services.ErrExport, "export", "name", fmt.Sprintf("invalid file name %q", name), nil)
	}
	paths := make([]string, 0, len(w.formats))
	for _, format := range w.formats {
		path := filepath.Join(w.dir, base+"."+format)
		var write func(io.Writer) error
		switch format {
		case config.FormatCSV:
			write = func(out io.Writer) error { return WriteCSV(out, incidents, w.delimiter) }
		case config.FormatXLSX:
			write = func(out io.Writer) error { return WriteXLSX(out, incidents) }
		default:
			return paths, services.Wrap(services.ErrExport, "export", format, "unsupported format", nil)
		}
		if err := fileutil.WriteAtomic(path, 0o644, write); err != nil {
			return paths, services.Wrap(services.ErrExport, "export", format, path, err)
		}
		paths = append(paths, path)
	}
	return paths, nil
}

// PeriodName is the file name used for a period's normalized copy.
func PeriodName(base, period string) string {
	return base + "_" + textutil.Token(period)
}
