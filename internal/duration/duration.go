// Package duration computes how long a piece of equipment stayed unavailable.
//
// Missing inputs are the common case in historical extracts (many incidents
// have no recorded end time), so Compute never fails: it returns nil values
// instead. Negative durations are returned unchanged.
package duration

import (
	"time"

	"ascesc/internal/incident"
	"ascesc/internal/timefield"
)

// Compute returns the elapsed duration between the start and end instants in
// hours and days. Both results are nil when any input is missing or does not
// combine into a valid instant.
func Compute(startDate time.Time, startTime string, endDate *time.Time, endTime string) (hours, days *float64) {
	if startDate.IsZero() || endDate == nil || endDate.IsZero() {
		return nil, nil
	}
	start, ok := instant(startDate, startTime)
	if !ok {
		return nil, nil
	}
	end, ok := instant(*endDate, endTime)
	if !ok {
		return nil, nil
	}
	h := end.Sub(start).Seconds() / 3600
	d := h / 24
	return &h, &d
}

// Annotate returns copies of incidents with DurationHours and DurationDays
// filled in. The input slice is not modified.
func Annotate(incidents []incident.Incident) []incident.Incident {
	out := make([]incident.Incident, len(incidents))
	for i, inc := range incidents {
		annotated := inc.Clone()
		annotated.DurationHours, annotated.DurationDays = Compute(inc.StartDate, inc.StartTime, inc.EndDate, inc.EndTime)
		out[i] = annotated
	}
	return out
}

// Negative reports whether the incident carries a duration below zero, which
// means its end instant precedes its start instant.
func Negative(inc incident.Incident) bool {
	return inc.DurationHours != nil && *inc.DurationHours < 0
}

func instant(date time.Time, clock string) (time.Time, bool) {
	if clock == "" {
		return time.Time{}, false
	}
	hour, minute, err := timefield.Parse(clock)
	if err != nil {
		return time.Time{}, false
	}
	y, m, d := date.Date()
	return time.Date(y, m, d, hour, minute, 0, 0, time.UTC), true
}
