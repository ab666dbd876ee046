package logging

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"strconv"
	"strings"
	"sync"
	"time"
)

// prettyHandler renders one header line per record followed by an indented
// field list. Component, period, stage and the row/column location of a
// cell-level diagnostic go into the header; run and event identifiers are
// only listed at debug level.
type prettyHandler struct {
	mu        *sync.Mutex
	writer    io.Writer
	level     *slog.LevelVar
	preset    fieldList
	groups    []string
	addSource bool
}

func newPrettyHandler(w io.Writer, lvl *slog.LevelVar, addSource bool) slog.Handler {
	return &prettyHandler{mu: &sync.Mutex{}, writer: w, level: lvl, addSource: addSource}
}

func (h *prettyHandler) Enabled(_ context.Context, level slog.Level) bool {
	return level >= h.level.Level()
}

func (h *prettyHandler) Handle(_ context.Context, record slog.Record) error {
	if !h.Enabled(context.Background(), record.Level) {
		return nil
	}

	fields := h.preset.clone()
	record.Attrs(func(attr slog.Attr) bool {
		fields.add(h.groups, attr)
		return true
	})

	head := header{
		level:     record.Level,
		time:      record.Time,
		component: fields.takeString(FieldComponent),
		period:    fields.takeString(FieldPeriod),
		stage:     fields.takeString(FieldStage),
		row:       fields.takeString(FieldRow),
		column:    fields.takeString(FieldColumn),
		message:   strings.TrimSpace(record.Message),
	}
	if h.addSource {
		head.source = record.Source()
	}
	if record.Level >= slog.LevelInfo {
		fields.take(FieldRunID)
		fields.take(FieldEventType)
	}

	var buf bytes.Buffer
	buf.Grow(128 + 32*len(fields))
	head.write(&buf)
	for _, f := range fields {
		buf.WriteString("    - ")
		buf.WriteString(f.key)
		buf.WriteString(": ")
		buf.WriteString(formatValue(f.value))
		buf.WriteByte('\n')
	}

	h.mu.Lock()
	defer h.mu.Unlock()
	_, err := h.writer.Write(buf.Bytes())
	return err
}

func (h *prettyHandler) WithAttrs(attrs []slog.Attr) slog.Handler {
	next := *h
	next.preset = h.preset.clone()
	for _, attr := range attrs {
		next.preset.add(h.groups, attr)
	}
	return &next
}

func (h *prettyHandler) WithGroup(name string) slog.Handler {
	next := *h
	next.groups = append(append([]string(nil), h.groups...), name)
	return &next
}

type header struct {
	level     slog.Level
	time      time.Time
	component string
	period    string
	stage     string
	row       string
	column    string
	message   string
	source    *slog.Source
}

// write emits "<ts> LEVEL [component] Period P (stage) row R, column C – msg".
func (hd header) write(buf *bytes.Buffer) {
	ts := hd.time
	if ts.IsZero() {
		ts = time.Now()
	}
	buf.WriteString(formatTimestamp(ts))
	buf.WriteByte(' ')
	buf.WriteString(levelLabel(hd.level))
	if hd.component != "" {
		buf.WriteString(" [" + hd.component + "]")
	}
	if subject := hd.subject(); subject != "" {
		buf.WriteByte(' ')
		buf.WriteString(subject)
	}
	if hd.message == "" {
		hd.message = "(no message)"
	}
	buf.WriteString(" – ")
	buf.WriteString(hd.message)
	if hd.source != nil {
		buf.WriteString(" [" + filepath.Base(hd.source.File) + ":" + strconv.Itoa(hd.source.Line) + "]")
	}
	buf.WriteByte('\n')
}

func (hd header) subject() string {
	var parts []string
	switch period, stage := strings.TrimSpace(hd.period), strings.TrimSpace(hd.stage); {
	case period != "" && stage != "":
		parts = append(parts, "Period "+period+" ("+stage+")")
	case period != "":
		parts = append(parts, "Period "+period)
	case stage != "":
		parts = append(parts, stage)
	}
	var location []string
	if hd.row != "" {
		location = append(location, "row "+hd.row)
	}
	if hd.column != "" {
		location = append(location, "column "+strconv.Quote(hd.column))
	}
	if len(location) > 0 {
		parts = append(parts, strings.Join(location, ", "))
	}
	return strings.Join(parts, " ")
}

type field struct {
	key   string
	value slog.Value
}

// fieldList keeps attributes in first-seen order; a repeated key overwrites
// the earlier value in place.
type fieldList []field

func (l fieldList) clone() fieldList {
	return append(fieldList(nil), l...)
}

func (l *fieldList) add(prefix []string, attr slog.Attr) {
	if attr.Equal(slog.Attr{}) {
		return
	}
	value := attr.Value.Resolve()
	if value.Kind() == slog.KindGroup {
		nested := prefix
		if attr.Key != "" {
			nested = append(append([]string(nil), prefix...), attr.Key)
		}
		for _, member := range value.Group() {
			l.add(nested, member)
		}
		return
	}
	key := attr.Key
	if len(prefix) > 0 {
		key = strings.Join(append(append([]string(nil), prefix...), attr.Key), ".")
		key = strings.TrimSuffix(key, ".")
	}
	if key == "" {
		return
	}
	for i := range *l {
		if (*l)[i].key == key {
			(*l)[i].value = value
			return
		}
	}
	*l = append(*l, field{key: key, value: value})
}

// take removes key from the list and returns its value.
func (l *fieldList) take(key string) (slog.Value, bool) {
	for i, f := range *l {
		if f.key == key {
			*l = append((*l)[:i], (*l)[i+1:]...)
			return f.value, true
		}
	}
	return slog.Value{}, false
}

func (l *fieldList) takeString(key string) string {
	value, ok := l.take(key)
	if !ok {
		return ""
	}
	return attrString(value)
}

func levelLabel(level slog.Level) string {
	switch {
	case level >= slog.LevelError:
		return "ERROR"
	case level >= slog.LevelWarn:
		return "WARN"
	case level >= slog.LevelInfo:
		return "INFO"
	default:
		return "DEBUG"
	}
}
