package incident

import (
	"time"

	"ascesc/internal/equipment"
)

// DateLayout is the textual date convention used at the output boundary.
const DateLayout = "02/01/2006"

// Incident is one reported elevator or escalator unavailability event.
type Incident struct {
	StartDate time.Time
	StartTime string
	EndDate   *time.Time
	EndTime   string

	Line          string
	Station       string
	EquipmentCode string
	EquipmentID   *int
	Comment       string
	Reason        string

	DurationHours *float64
	DurationDays  *float64

	SourcePeriod string
	SourceRow    int
}

// Key identifies the same reported event across overlapping extracts.
type Key struct {
	StartDate     time.Time
	EquipmentCode string
}

// String renders the key for logs.
func (k Key) String() string {
	return k.StartDate.Format(time.DateOnly) + "/" + k.EquipmentCode
}

// Key returns the identity key of the incident.
func (i Incident) Key() Key {
	return Key{StartDate: i.StartDate, EquipmentCode: i.EquipmentCode}
}

// EquipmentType derives the equipment type from the equipment code.
func (i Incident) EquipmentType() equipment.Type {
	return equipment.Classify(i.EquipmentCode)
}

// Identifiable reports whether the incident can take part in identity and
// duration logic.
func (i Incident) Identifiable() bool {
	return !i.StartDate.IsZero() && i.EquipmentCode != ""
}

// HasDuration reports whether both duration fields are set.
func (i Incident) HasDuration() bool {
	return i.DurationHours != nil && i.DurationDays != nil
}

// StartYear returns the calendar year of the start date.
func (i Incident) StartYear() int {
	return i.StartDate.Year()
}

// Date truncates t to its calendar date at midnight UTC. Wall-clock fields
// are kept as-is regardless of the location of t.
func Date(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

// NewDate builds a calendar date at midnight UTC.
func NewDate(year int, month time.Month, day int) time.Time {
	return time.Date(year, month, day, 0, 0, 0, 0, time.UTC)
}

// Clone returns a deep copy of the incident so callers can annotate it
// without aliasing pointer fields of the original.
func (i Incident) Clone() Incident {
	out := i
	if i.EndDate != nil {
		v := *i.EndDate
		out.EndDate = &v
	}
	if i.EquipmentID != nil {
		v := *i.EquipmentID
		out.EquipmentID = &v
	}
	if i.DurationHours != nil {
		v := *i.DurationHours
		out.DurationHours = &v
	}
	if i.DurationDays != nil {
		v := *i.DurationDays
		out.DurationDays = &v
	}
	return out
}
