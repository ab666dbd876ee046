package ingest

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"

	"github.com/xuri/excelize/v2"
)

// Serial numbers past 9999-12-31 are not dates.
const maxExcelSerial = 2958465

type dateLayout struct {
	layout string
	clock  bool
}

var dateLayouts = []dateLayout{
	{"02/01/2006 15:04:05", true},
	{"02/01/2006 15:04", true},
	{"02/01/2006", false},
	{"2/1/2006 15:04:05", true},
	{"2/1/2006 15:04", true},
	{"2/1/2006", false},
	{"2006-01-02T15:04:05Z07:00", true},
	{"2006-01-02T15:04:05", true},
	{"2006-01-02 15:04:05", true},
	{"2006-01-02 15:04", true},
	{"2006-01-02", false},
}

// coercedDate is a parsed date cell. Clock reports whether the source carried
// a time of day (a datetime column) rather than a bare date.
type coercedDate struct {
	At    time.Time
	Clock bool
}

// TimeOfDay renders the clock part as canonical HH:MM, or "" for bare dates.
func (d coercedDate) TimeOfDay() string {
	if !d.Clock {
		return ""
	}
	return d.At.Format("15:04")
}

func coerceDate(raw any) (coercedDate, error) {
	switch v := raw.(type) {
	case time.Time:
		return fromTime(v), nil
	case *time.Time:
		if v == nil {
			return coercedDate{}, errBlank
		}
		return fromTime(*v), nil
	case float64:
		return fromSerial(v)
	case int:
		return fromSerial(float64(v))
	case int64:
		return fromSerial(float64(v))
	case string:
		return fromText(v)
	case nil:
		return coercedDate{}, errBlank
	default:
		return fromText(fmt.Sprint(v))
	}
}

func fromTime(t time.Time) coercedDate {
	at := time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), 0, time.UTC)
	return coercedDate{At: at, Clock: at.Hour() != 0 || at.Minute() != 0 || at.Second() != 0}
}

func fromSerial(serial float64) (coercedDate, error) {
	if math.IsNaN(serial) || serial <= 0 || serial > maxExcelSerial {
		return coercedDate{}, fmt.Errorf("serial %v out of range", serial)
	}
	t, err := excelize.ExcelDateToTime(serial, false)
	if err != nil {
		return coercedDate{}, err
	}
	_, frac := math.Modf(serial)
	d := fromTime(t.Round(time.Minute))
	d.Clock = frac != 0
	return d, nil
}

func fromText(s string) (coercedDate, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return coercedDate{}, errBlank
	}
	if serial, err := strconv.ParseFloat(s, 64); err == nil {
		return fromSerial(serial)
	}
	for _, l := range dateLayouts {
		if t, err := time.Parse(l.layout, s); err == nil {
			d := fromTime(t)
			d.Clock = l.clock
			return d, nil
		}
	}
	return coercedDate{}, fmt.Errorf("unrecognized date %q", s)
}
