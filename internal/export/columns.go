package export

import (
	"strconv"
	"time"

	"ascesc/internal/incident"
)

// Columns is the header of every exported file, in order.
var Columns = []string{
	"start_date",
	"start_time",
	"end_date",
	"end_time",
	"line",
	"station",
	"equipment_code",
	"equipment_type",
	"equipment_id",
	"comment",
	"reason",
	"duration_hours",
	"duration_days",
	"start_year",
	"source_period",
}

// Values returns the typed cell values of one record in Columns order.
// Absent values are nil; numbers stay numeric for spreadsheet output.
func Values(inc incident.Incident) []any {
	values := []any{
		formatDate(inc.StartDate),
		optional(inc.StartTime),
		nil,
		optional(inc.EndTime),
		optional(inc.Line),
		optional(inc.Station),
		inc.EquipmentCode,
		string(inc.EquipmentType()),
		nil,
		optional(inc.Comment),
		optional(inc.Reason),
		nil,
		nil,
		inc.StartYear(),
		optional(inc.SourcePeriod),
	}
	if inc.EndDate != nil {
		values[2] = formatDate(*inc.EndDate)
	}
	if inc.EquipmentID != nil {
		values[8] = *inc.EquipmentID
	}
	if inc.HasDuration() {
		values[11] = *inc.DurationHours
		values[12] = *inc.DurationDays
	}
	return values
}

// Record returns the text cells of one record in Columns order.
func Record(inc incident.Incident) []string {
	values := Values(inc)
	out := make([]string, len(values))
	for i, v := range values {
		out[i] = text(v)
	}
	return out
}

func text(v any) string {
	switch val := v.(type) {
	case nil:
		return ""
	case string:
		return val
	case int:
		return strconv.Itoa(val)
	case float64:
		return strconv.FormatFloat(val, 'f', -1, 64)
	default:
		return ""
	}
}

func optional(s string) any {
	if s == "" {
		return nil
	}
	return s
}

func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(incident.DateLayout)
}
