package config

import (
	"fmt"
	"sort"
	"strings"
)

// Built-in profile names.
const (
	ProfilePointsMarquants = "points_marquants"
	ProfileAlertesTCL      = "alertes_tcl"
)

// Profile maps canonical incident fields to extract column headers.
//
// A time field naming the same column as its date field marks a combined
// date-time column; the time of day is then read from the parsed timestamp.
type Profile struct {
	StartDate     string `toml:"start_date"`
	StartTime     string `toml:"start_time"`
	EndDate       string `toml:"end_date"`
	EndTime       string `toml:"end_time"`
	Line          string `toml:"line"`
	Station       string `toml:"station"`
	EquipmentCode string `toml:"equipment_code"`
	Comment       string `toml:"comment"`
	Reason        string `toml:"reason"`
}

var builtinProfiles = map[string]Profile{
	ProfilePointsMarquants: {
		StartDate:     "DATE Début",
		StartTime:     "HEURE Début",
		EndDate:       "DATE Fin",
		EndTime:       "HEURE Fin",
		Line:          "LIGNE",
		Station:       "STATION",
		EquipmentCode: "N° EQUIP.",
		Comment:       "COMMENTAIRE",
		Reason:        "Motifs",
	},
	ProfileAlertesTCL: {
		StartDate:     "Début indispo",
		StartTime:     "Début indispo",
		EndDate:       "Fin indispo",
		EndTime:       "Fin indispo",
		Line:          "Code lieu",
		Station:       "Nom station",
		EquipmentCode: "Code équipement",
		Comment:       "Conséquence",
		Reason:        "Cause",
	},
}

// BuiltinProfile returns a copy of a built-in profile.
func BuiltinProfile(name string) (Profile, bool) {
	p, ok := builtinProfiles[name]
	return p, ok
}

// Columns lists the profile's field names and headers in canonical order.
func (p Profile) Columns() []ProfileColumn {
	return []ProfileColumn{
		{Field: "start_date", Header: p.StartDate},
		{Field: "start_time", Header: p.StartTime},
		{Field: "end_date", Header: p.EndDate},
		{Field: "end_time", Header: p.EndTime},
		{Field: "line", Header: p.Line},
		{Field: "station", Header: p.Station},
		{Field: "equipment_code", Header: p.EquipmentCode},
		{Field: "comment", Header: p.Comment},
		{Field: "reason", Header: p.Reason},
	}
}

// ProfileColumn pairs a canonical field with its extract header.
type ProfileColumn struct {
	Field  string
	Header string
}

func (p Profile) validate() error {
	var missing []string
	for _, col := range p.Columns() {
		if strings.TrimSpace(col.Header) == "" {
			missing = append(missing, col.Field)
		}
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing columns for %s", strings.Join(missing, ", "))
	}
	return nil
}

// Profile resolves a profile by name. Profiles declared in the config file
// take precedence over built-ins of the same name.
func (c *Config) Profile(name string) (Profile, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		name = c.Ingest.DefaultProfile
	}
	if p, ok := c.Profiles[name]; ok {
		return p, nil
	}
	if p, ok := builtinProfiles[name]; ok {
		return p, nil
	}
	return Profile{}, fmt.Errorf("unknown profile %q (known: %s)", name, strings.Join(c.ProfileNames(), ", "))
}

// ProfileNames returns every resolvable profile name, sorted.
func (c *Config) ProfileNames() []string {
	seen := make(map[string]struct{}, len(builtinProfiles)+len(c.Profiles))
	for name := range builtinProfiles {
		seen[name] = struct{}{}
	}
	for name := range c.Profiles {
		seen[name] = struct{}{}
	}
	names := make([]string, 0, len(seen))
	for name := range seen {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
