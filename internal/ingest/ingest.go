package ingest

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"
	"time"

	"ascesc/internal/config"
	"ascesc/internal/equipment"
	"ascesc/internal/incident"
	"ascesc/internal/logging"
	"ascesc/internal/services"
	"ascesc/internal/textnorm"
	"ascesc/internal/timefield"
)

var errBlank = errors.New("blank")

// Extract describes one period extract to ingest.
type Extract struct {
	Period    string
	Path      string
	Profile   config.Profile
	Sheet     string
	SkipRows  int
	Delimiter rune
	Encoding  string
}

// SchemaError reports the profiled columns missing from an extract header.
type SchemaError struct {
	Period  string
	Sheet   string
	Missing []string
}

func (e *SchemaError) Error() string {
	where := e.Period
	if e.Sheet != "" {
		where = fmt.Sprintf("%s (sheet %q)", e.Period, e.Sheet)
	}
	return fmt.Sprintf("extract %s: missing columns %s", where, strings.Join(e.Missing, ", "))
}

func (e *SchemaError) Unwrap() error { return services.ErrSchema }

// FieldError records a cell that could not be coerced. The field is left empty.
type FieldError struct {
	Sheet  string
	Row    int
	Column string
	Raw    string
	Reason string
}

// DroppedRow records a row excluded because it lacks an identity field.
type DroppedRow struct {
	Sheet         string
	Row           int
	Reason        string
	StartDate     string
	EquipmentCode string
}

// Result is the outcome of ingesting one extract.
type Result struct {
	Period      string
	RowsRead    int
	Incidents   []incident.Incident
	Dropped     []DroppedRow
	FieldErrors []FieldError
}

// Ingestor reads extracts into incident records.
type Ingestor struct {
	logger *slog.Logger
	lines  textnorm.LineNormalizer
}

// New constructs an Ingestor. Line aliases are applied to the line column
// before whitespace cleanup.
func New(logger *slog.Logger, lineAliases map[string]string) *Ingestor {
	return &Ingestor{
		logger: logging.NewComponentLogger(logger, "ingest"),
		lines:  textnorm.NewLineNormalizer(lineAliases),
	}
}

// FromConfig builds the reader options for a configured extract.
func FromConfig(cfg *config.Config, e config.Extract) (Extract, error) {
	profile, err := cfg.Profile(e.Profile)
	if err != nil {
		return Extract{}, err
	}
	path, err := cfg.ExtractPath(e)
	if err != nil {
		return Extract{}, err
	}
	delimiter := ';'
	if r := []rune(e.Delimiter); len(r) > 0 {
		delimiter = r[0]
	}
	return Extract{
		Period:    e.Period,
		Path:      path,
		Profile:   profile,
		Sheet:     e.Sheet,
		SkipRows:  e.SkipRows,
		Delimiter: delimiter,
		Encoding:  e.Encoding,
	}, nil
}

// Ingest reads one extract. A missing profiled column rejects the whole
// extract with a *SchemaError; an unreadable file fails with
// services.ErrExtractUnreadable. Row and field problems are reported in the
// Result and never returned as errors.
func (i *Ingestor) Ingest(ctx context.Context, ex Extract) (Result, error) {
	ctx = services.WithStage(services.WithPeriod(ctx, ex.Period), "ingest")
	logger := logging.WithContext(ctx, i.logger)
	result := Result{Period: ex.Period}

	tables, err := loadTables(ex.Path, loadOptions{
		sheet:     ex.Sheet,
		skipRows:  ex.SkipRows,
		delimiter: ex.Delimiter,
		encoding:  ex.Encoding,
	})
	if err != nil {
		return result, services.Wrap(services.ErrExtractUnreadable, "ingest", "load", ex.Path, err)
	}

	layouts, err := resolveTables(ex, tables)
	if err != nil {
		return result, err
	}

	for _, lt := range layouts {
		if lt.skipped {
			logger.Info("sheet skipped; no profiled columns",
				logging.String(logging.FieldSheet, lt.table.sheet),
				logging.String(logging.FieldEventType, "sheet_skipped"),
			)
			continue
		}
		for idx, row := range lt.table.rows {
			if err := ctx.Err(); err != nil {
				return Result{Period: ex.Period}, err
			}
			if blankRow(row) {
				continue
			}
			result.RowsRead++
			i.ingestRow(logger, &result, lt, idx, row)
		}
	}

	logger.Debug("extract ingested",
		logging.String("path", ex.Path),
		logging.Int("rows_read", result.RowsRead),
		logging.Int("incidents", len(result.Incidents)),
		logging.Int("dropped", len(result.Dropped)),
		logging.Int("field_errors", len(result.FieldErrors)),
	)
	return result, nil
}

type layout struct {
	table   table
	columns columnIndex
	skipped bool
}

type columnIndex struct {
	startDate, startTime, endDate, endTime int
	line, station, code, comment, reason   int
	combinedStart, combinedEnd             bool
}

// resolveTables checks every table against the profile. With several sheets,
// a sheet sharing no header with the profile is skipped; a sheet sharing only
// some headers rejects the extract.
func resolveTables(ex Extract, tables []table) ([]layout, error) {
	out := make([]layout, 0, len(tables))
	var firstErr *SchemaError
	matched := 0
	for _, t := range tables {
		cols, missing, hits := resolveColumns(t.header, ex.Profile)
		if len(missing) == 0 {
			out = append(out, layout{table: t, columns: cols})
			matched++
			continue
		}
		schemaErr := &SchemaError{Period: ex.Period, Sheet: t.sheet, Missing: missing}
		if hits > 0 || len(tables) == 1 {
			return nil, schemaErr
		}
		if firstErr == nil {
			firstErr = schemaErr
		}
		out = append(out, layout{table: t, skipped: true})
	}
	if matched == 0 {
		return nil, firstErr
	}
	return out, nil
}

func resolveColumns(header []string, p config.Profile) (columnIndex, []string, int) {
	positions := make(map[string]int, len(header))
	for i, h := range header {
		key := textnorm.HeaderKey(h)
		if key == "" {
			continue
		}
		if _, dup := positions[key]; !dup {
			positions[key] = i
		}
	}

	var missing []string
	seenMissing := make(map[string]struct{})
	hits := 0
	lookup := func(name string) int {
		key := textnorm.HeaderKey(name)
		if idx, ok := positions[key]; ok {
			hits++
			return idx
		}
		if _, dup := seenMissing[key]; !dup {
			seenMissing[key] = struct{}{}
			missing = append(missing, name)
		}
		return -1
	}

	cols := columnIndex{
		startDate: lookup(p.StartDate),
		startTime: lookup(p.StartTime),
		endDate:   lookup(p.EndDate),
		endTime:   lookup(p.EndTime),
		line:      lookup(p.Line),
		station:   lookup(p.Station),
		code:      lookup(p.EquipmentCode),
		comment:   lookup(p.Comment),
		reason:    lookup(p.Reason),
	}
	cols.combinedStart = textnorm.HeaderKey(p.StartTime) == textnorm.HeaderKey(p.StartDate)
	cols.combinedEnd = textnorm.HeaderKey(p.EndTime) == textnorm.HeaderKey(p.EndDate)
	return cols, missing, hits
}

func (i *Ingestor) ingestRow(logger *slog.Logger, result *Result, lt layout, idx int, row []any) {
	t := lt.table
	cols := lt.columns
	rowNum := t.rowNumber(idx)
	rec := incident.Incident{SourcePeriod: result.Period, SourceRow: rowNum}

	fail := func(col int, raw any, reason string) {
		fe := FieldError{
			Sheet:  t.sheet,
			Row:    rowNum,
			Column: t.header[col],
			Raw:    timefield.Raw(raw),
			Reason: reason,
		}
		result.FieldErrors = append(result.FieldErrors, fe)
		attrs := append(logging.Cell(fe.Sheet, fe.Row, fe.Column),
			logging.String(logging.FieldRaw, fe.Raw),
			logging.String("reason", reason),
			logging.String(logging.FieldErrorHint, "fix the cell in the source extract or extend the accepted formats"),
			logging.String(logging.FieldImpact, "field left empty; duration not computed for this record"),
		)
		logging.WarnWithContext(logger, "cell value unparsable; field left empty", "field_unparsable", attrs...)
	}

	start, startOK := i.date(cols.startDate, row, fail)
	if startOK {
		rec.StartDate = incident.Date(start.At)
		rec.StartTime = i.clock(cols.startTime, cols.combinedStart, start, row, fail)
	} else if !cols.combinedStart {
		rec.StartTime = i.clock(cols.startTime, false, coercedDate{}, row, fail)
	}

	end, endOK := i.date(cols.endDate, row, fail)
	if endOK {
		endDate := incident.Date(end.At)
		rec.EndDate = &endDate
		rec.EndTime = i.clock(cols.endTime, cols.combinedEnd, end, row, fail)
	} else if !cols.combinedEnd {
		rec.EndTime = i.clock(cols.endTime, false, coercedDate{}, row, fail)
	}

	rec.Line = i.lines.Normalize(cellText(cellAt(row, cols.line)))
	rec.Station = textnorm.Clean(cellText(cellAt(row, cols.station)))
	rec.EquipmentCode = textnorm.Clean(cellText(cellAt(row, cols.code)))
	rec.Comment = textnorm.Clean(cellText(cellAt(row, cols.comment)))
	rec.Reason = textnorm.Clean(cellText(cellAt(row, cols.reason)))
	if id, ok := equipment.ExtractID(rec.EquipmentCode); ok {
		rec.EquipmentID = &id
	}

	if !rec.Identifiable() {
		reason := "missing start_date"
		if rec.EquipmentCode == "" {
			reason = "missing equipment_code"
		}
		dropped := DroppedRow{
			Sheet:         t.sheet,
			Row:           rowNum,
			Reason:        reason,
			StartDate:     timefield.Raw(cellAt(row, cols.startDate)),
			EquipmentCode: rec.EquipmentCode,
		}
		result.Dropped = append(result.Dropped, dropped)
		attrs := append(logging.Cell(t.sheet, rowNum, ""),
			logging.String("reason", reason),
			logging.String("raw_start_date", dropped.StartDate),
			logging.String("raw_equipment_code", dropped.EquipmentCode),
			logging.String(logging.FieldErrorHint, "complete the start date and equipment code in the source extract"),
			logging.String(logging.FieldImpact, "incident excluded from the canonical set"),
		)
		logging.WarnWithContext(logger, "row dropped; identity field missing", "row_dropped", attrs...)
		return
	}
	result.Incidents = append(result.Incidents, rec)
}

func (i *Ingestor) date(col int, row []any, fail func(int, any, string)) (coercedDate, bool) {
	raw := cellAt(row, col)
	d, err := coerceDate(raw)
	if err != nil {
		if !errors.Is(err, errBlank) {
			fail(col, raw, err.Error())
		}
		return coercedDate{}, false
	}
	return d, true
}

func (i *Ingestor) clock(col int, combined bool, parsed coercedDate, row []any, fail func(int, any, string)) string {
	if combined {
		return parsed.TimeOfDay()
	}
	raw := cellAt(row, col)
	value, err := timefield.Normalize(raw)
	if err != nil {
		if !errors.Is(err, timefield.ErrEmpty) {
			fail(col, raw, err.Error())
		}
		return ""
	}
	return value
}

// cellText renders a typed cell as text for string fields.
func cellText(cell any) string {
	switch v := cell.(type) {
	case nil:
		return ""
	case string:
		return v
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	case time.Time:
		return v.Format(incident.DateLayout)
	default:
		return fmt.Sprint(v)
	}
}
