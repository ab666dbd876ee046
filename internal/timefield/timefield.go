// Package timefield canonicalizes heterogeneous time-of-day encodings found in
// maintenance extracts into "HH:MM" strings.
package timefield

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

// ErrEmpty reports a blank value. It is not a parse failure.
var ErrEmpty = errors.New("empty time value")

// ParseError describes a raw value that matched none of the accepted forms.
type ParseError struct {
	Raw    any
	Reason string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("unparsable time %q: %s", Raw(e.Raw), e.Reason)
}

const minutesPerDay = 24 * 60

// Normalize returns the canonical "HH:MM" form of raw.
//
// Accepted forms, in priority order: time.Time values; numeric day fractions
// in [0,1]; strings using h/H as separator ("9h", "14h30", "17H"); strings
// using ":" ("08:15", "08:15:00"); bare hours "0".."23". Numbers outside
// [0,1] are retried as their decimal text.
func Normalize(raw any) (string, error) {
	switch v := raw.(type) {
	case nil:
		return "", ErrEmpty
	case time.Time:
		if v.IsZero() {
			return "", ErrEmpty
		}
		return format(v.Hour(), v.Minute()), nil
	case *time.Time:
		if v == nil {
			return "", ErrEmpty
		}
		return Normalize(*v)
	case float64:
		return fromNumber(raw, v)
	case float32:
		return fromNumber(raw, float64(v))
	case int:
		return fromNumber(raw, float64(v))
	case int64:
		return fromNumber(raw, float64(v))
	case string:
		return fromString(raw, v)
	case fmt.Stringer:
		return fromString(raw, v.String())
	default:
		return "", &ParseError{Raw: raw, Reason: fmt.Sprintf("unsupported type %T", raw)}
	}
}

// Parse splits a canonical "HH:MM" string into hour and minute.
func Parse(canonical string) (hour, minute int, err error) {
	h, m, ok := strings.Cut(canonical, ":")
	if !ok || len(h) != 2 || len(m) != 2 {
		return 0, 0, fmt.Errorf("not a canonical time: %q", canonical)
	}
	hour, err = strconv.Atoi(h)
	if err != nil || hour < 0 || hour > 23 {
		return 0, 0, fmt.Errorf("hour out of range: %q", canonical)
	}
	minute, err = strconv.Atoi(m)
	if err != nil || minute < 0 || minute > 59 {
		return 0, 0, fmt.Errorf("minute out of range: %q", canonical)
	}
	return hour, minute, nil
}

// Raw renders a raw cell value for log output.
func Raw(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	case time.Time:
		return val.Format(time.RFC3339)
	default:
		return fmt.Sprint(v)
	}
}

func fromNumber(raw any, v float64) (string, error) {
	if math.IsNaN(v) || math.IsInf(v, 0) {
		return "", &ParseError{Raw: raw, Reason: "not a finite number"}
	}
	if v >= 0 && v <= 1 {
		minutes := int(math.Round(v*minutesPerDay)) % minutesPerDay
		return format(minutes/60, minutes%60), nil
	}
	return fromString(raw, strconv.FormatFloat(v, 'f', -1, 64))
}

func fromString(raw any, s string) (string, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return "", ErrEmpty
	}
	if strings.ContainsAny(s, "hH") {
		s = strings.NewReplacer("h", ":", "H", ":").Replace(s)
		if strings.HasSuffix(s, ":") {
			s += "00"
		}
	}
	if strings.Contains(s, ":") {
		return fromColon(raw, s)
	}
	hour, err := strconv.Atoi(s)
	if err != nil {
		return "", &ParseError{Raw: raw, Reason: "not a recognised time form"}
	}
	if hour < 0 || hour > 23 {
		return "", &ParseError{Raw: raw, Reason: "hour out of range"}
	}
	return format(hour, 0), nil
}

func fromColon(raw any, s string) (string, error) {
	parts := strings.Split(s, ":")
	if len(parts) < 2 || len(parts) > 3 {
		return "", &ParseError{Raw: raw, Reason: "unexpected number of components"}
	}
	hour, err := strconv.Atoi(strings.TrimSpace(parts[0]))
	if err != nil || hour < 0 || hour > 23 {
		return "", &ParseError{Raw: raw, Reason: "hour out of range"}
	}
	minute, err := strconv.Atoi(strings.TrimSpace(parts[1]))
	if err != nil || minute < 0 || minute > 59 {
		return "", &ParseError{Raw: raw, Reason: "minute out of range"}
	}
	if len(parts) == 3 {
		if sec, err := strconv.Atoi(strings.TrimSpace(parts[2])); err != nil || sec < 0 || sec > 59 {
			return "", &ParseError{Raw: raw, Reason: "second out of range"}
		}
	}
	return format(hour, minute), nil
}

func format(hour, minute int) string {
	return fmt.Sprintf("%02d:%02d", hour, minute)
}
