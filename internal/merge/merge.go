package merge

import (
	"fmt"
	"slices"
	"sort"
	"strings"

	"ascesc/internal/duration"
	"ascesc/internal/incident"
)

// AnomalyKind classifies conditions flagged for review.
type AnomalyKind string

const (
	AnomalyNegativeDuration  AnomalyKind = "negative_duration"
	AnomalyIDCollision       AnomalyKind = "id_collision"
	// AnomalyStartTimeConflict marks a key whose records started at different
	// times of day. They may be distinct incidents; only one survives.
	AnomalyStartTimeConflict AnomalyKind = "start_time_conflict"
)

// Anomaly is a data condition the merge preserves but reports.
type Anomaly struct {
	Kind    AnomalyKind
	Key     incident.Key
	Periods []string
	Detail  string
}

// Discard records an incident removed during the merge.
type Discard struct {
	Incident incident.Incident
	// Survivor is the key of the record that won, zero for rejected records.
	Survivor incident.Key
	Reason   string
}

// Result is the outcome of one merge.
type Result struct {
	Incidents []incident.Incident
	// Rejected holds records lacking a start date or equipment code.
	Rejected   []Discard
	Duplicates []Discard
	Anomalies  []Anomaly
}

// Input returns the number of records considered by the merge.
func (r Result) Input() int {
	return len(r.Incidents) + len(r.Rejected) + len(r.Duplicates)
}

type partition struct {
	survivor int
	members  []int
}

// Merge concatenates periods in argument order and keeps one incident per
// identity key. The survivor is the member with the latest non-nil EndDate;
// a nil EndDate always loses to a non-nil one, and ties keep the member seen
// first. Survivors are returned in order of first appearance of their key.
func Merge(periods ...[]incident.Incident) Result {
	var all []incident.Incident
	for _, p := range periods {
		all = append(all, p...)
	}

	var result Result
	working := make([]incident.Incident, 0, len(all))
	for _, inc := range all {
		if !inc.Identifiable() {
			result.Rejected = append(result.Rejected, Discard{Incident: inc.Clone(), Reason: missingReason(inc)})
			continue
		}
		working = append(working, inc)
	}

	order := make([]incident.Key, 0, len(working))
	partitions := make(map[incident.Key]*partition, len(working))
	for idx, inc := range working {
		key := inc.Key()
		p, ok := partitions[key]
		if !ok {
			p = &partition{survivor: idx}
			partitions[key] = p
			order = append(order, key)
		} else if newer(inc, working[p.survivor]) {
			p.survivor = idx
		}
		p.members = append(p.members, idx)
	}

	var conflicts []Anomaly
	result.Incidents = make([]incident.Incident, 0, len(order))
	for _, key := range order {
		p := partitions[key]
		if a, ok := startTimeConflict(key, working, p); ok {
			conflicts = append(conflicts, a)
		}
		result.Incidents = append(result.Incidents, working[p.survivor].Clone())
		for _, idx := range p.members {
			if idx == p.survivor {
				continue
			}
			result.Duplicates = append(result.Duplicates, Discard{
				Incident: working[idx].Clone(),
				Survivor: key,
				Reason:   duplicateReason(working[idx], working[p.survivor]),
			})
		}
	}

	result.Anomalies = append(detectAnomalies(result.Incidents), conflicts...)
	return result
}

// startTimeConflict reports a partition whose members carry more than one
// known start time. Blank start times are ignored.
func startTimeConflict(key incident.Key, working []incident.Incident, p *partition) (Anomaly, bool) {
	if len(p.members) < 2 {
		return Anomaly{}, false
	}
	var times, periods []string
	for _, idx := range p.members {
		inc := working[idx]
		periods = append(periods, inc.SourcePeriod)
		if inc.StartTime != "" && !slices.Contains(times, inc.StartTime) {
			times = append(times, inc.StartTime)
		}
	}
	if len(times) < 2 {
		return Anomaly{}, false
	}
	kept := working[p.survivor].StartTime
	if kept == "" {
		kept = "unknown"
	}
	return Anomaly{
		Kind:    AnomalyStartTimeConflict,
		Key:     key,
		Periods: periods,
		Detail:  fmt.Sprintf("%d records start at %s; kept the one starting at %s", len(p.members), strings.Join(times, ", "), kept),
	}, true
}

// newer reports whether candidate should replace current as survivor.
func newer(candidate, current incident.Incident) bool {
	if candidate.EndDate == nil {
		return false
	}
	if current.EndDate == nil {
		return true
	}
	return candidate.EndDate.After(*current.EndDate)
}

func missingReason(inc incident.Incident) string {
	var missing []string
	if inc.StartDate.IsZero() {
		missing = append(missing, "start_date")
	}
	if inc.EquipmentCode == "" {
		missing = append(missing, "equipment_code")
	}
	return "missing " + strings.Join(missing, ", ")
}

func duplicateReason(loser, winner incident.Incident) string {
	switch {
	case loser.EndDate == nil && winner.EndDate != nil:
		return "superseded by a record with a known end date"
	case loser.EndDate != nil && winner.EndDate != nil && winner.EndDate.After(*loser.EndDate):
		return "superseded by a later end date"
	default:
		return "same end date as an earlier record"
	}
}

type idKey struct {
	date string
	id   int
}

func detectAnomalies(survivors []incident.Incident) []Anomaly {
	var anomalies []Anomaly
	codesByID := make(map[idKey][]incident.Incident)
	var idOrder []idKey
	for _, inc := range survivors {
		if duration.Negative(inc) {
			anomalies = append(anomalies, Anomaly{
				Kind:    AnomalyNegativeDuration,
				Key:     inc.Key(),
				Periods: []string{inc.SourcePeriod},
				Detail:  fmt.Sprintf("end precedes start by %.2f hours", -*inc.DurationHours),
			})
		}
		if inc.EquipmentID == nil {
			continue
		}
		k := idKey{date: inc.StartDate.Format("2006-01-02"), id: *inc.EquipmentID}
		if _, seen := codesByID[k]; !seen {
			idOrder = append(idOrder, k)
		}
		codesByID[k] = append(codesByID[k], inc)
	}

	for _, k := range idOrder {
		group := codesByID[k]
		if len(group) < 2 {
			continue
		}
		types := make(map[string]struct{}, len(group))
		codes := make([]string, 0, len(group))
		periods := make([]string, 0, len(group))
		for _, inc := range group {
			types[string(inc.EquipmentType())] = struct{}{}
			codes = append(codes, inc.EquipmentCode)
			periods = append(periods, inc.SourcePeriod)
		}
		if len(types) < 2 {
			continue
		}
		sort.Strings(codes)
		anomalies = append(anomalies, Anomaly{
			Kind:    AnomalyIDCollision,
			Key:     group[0].Key(),
			Periods: periods,
			Detail:  fmt.Sprintf("equipment id %d reported as %s", k.id, strings.Join(codes, ", ")),
		})
	}
	return anomalies
}
