package merge_test

import (
	"reflect"
	"testing"
	"time"

	"ascesc/internal/duration"
	"ascesc/internal/incident"
	"ascesc/internal/merge"
)

func date(y int, m time.Month, d int) *time.Time {
	v := incident.NewDate(y, m, d)
	return &v
}

func record(code string, start time.Time, end *time.Time, period string) incident.Incident {
	return incident.Incident{
		StartDate:     start,
		StartTime:     "08:00",
		EndDate:       end,
		EndTime:       "18:00",
		EquipmentCode: code,
		SourcePeriod:  period,
	}
}

func TestMergeKeepsLatestEndDate(t *testing.T) {
	start := incident.NewDate(2024, 3, 1)
	early := record("Asc12", start, date(2024, 3, 2), "2024-03")
	late := record("Asc12", start, date(2024, 3, 5), "2024-04")

	for _, order := range [][]incident.Incident{{early, late}, {late, early}} {
		res := merge.Merge(order)
		if len(res.Incidents) != 1 {
			t.Fatalf("expected 1 survivor, got %d", len(res.Incidents))
		}
		if got := res.Incidents[0].EndDate; !got.Equal(*date(2024, 3, 5)) {
			t.Fatalf("expected end date 2024-03-05, got %v", got)
		}
		if len(res.Duplicates) != 1 {
			t.Fatalf("expected 1 duplicate, got %d", len(res.Duplicates))
		}
	}
}

func TestMergeNilEndDateLoses(t *testing.T) {
	start := incident.NewDate(2024, 3, 1)
	open := record("Esc07", start, nil, "2024-03")
	closed := record("Esc07", start, date(2024, 3, 1), "2024-04")

	for _, periods := range [][][]incident.Incident{
		{{open}, {closed}},
		{{closed}, {open}},
	} {
		res := merge.Merge(periods...)
		if len(res.Incidents) != 1 || res.Incidents[0].EndDate == nil {
			t.Fatalf("expected the closed record to survive, got %+v", res.Incidents)
		}
		if res.Incidents[0].SourcePeriod != "2024-04" {
			t.Fatalf("unexpected survivor period %q", res.Incidents[0].SourcePeriod)
		}
	}
}

func TestMergeTiesKeepFirst(t *testing.T) {
	start := incident.NewDate(2024, 3, 1)
	a := record("Asc1", start, nil, "a")
	b := record("Asc1", start, nil, "b")
	c := record("Asc2", start, date(2024, 3, 3), "a")
	d := record("Asc2", start, date(2024, 3, 3), "b")

	res := merge.Merge([]incident.Incident{a, c}, []incident.Incident{b, d})
	if len(res.Incidents) != 2 {
		t.Fatalf("expected 2 survivors, got %d", len(res.Incidents))
	}
	for _, inc := range res.Incidents {
		if inc.SourcePeriod != "a" {
			t.Fatalf("expected first-seen survivor for %s, got period %q", inc.EquipmentCode, inc.SourcePeriod)
		}
	}
}

func TestMergeKeyUniquenessAndOrder(t *testing.T) {
	d1 := incident.NewDate(2024, 3, 1)
	d2 := incident.NewDate(2024, 3, 2)
	in := []incident.Incident{
		record("Esc3", d2, nil, "p1"),
		record("Asc1", d1, date(2024, 3, 1), "p1"),
		record("Esc3", d2, date(2024, 3, 4), "p2"),
		record("Asc1", d2, nil, "p2"),
		record("Asc1", d1, nil, "p2"),
	}
	res := merge.Merge(in)

	seen := map[incident.Key]bool{}
	var keys []string
	for _, inc := range res.Incidents {
		if seen[inc.Key()] {
			t.Fatalf("duplicate key %v in canonical set", inc.Key())
		}
		seen[inc.Key()] = true
		keys = append(keys, inc.Key().String())
	}
	want := []string{"2024-03-02/Esc3", "2024-03-01/Asc1", "2024-03-02/Asc1"}
	if !reflect.DeepEqual(keys, want) {
		t.Fatalf("unexpected order %v, want %v", keys, want)
	}
	if res.Input() != len(in) {
		t.Fatalf("Input() = %d, want %d", res.Input(), len(in))
	}
}

func TestMergeIsIdempotent(t *testing.T) {
	start := incident.NewDate(2024, 3, 1)
	in := []incident.Incident{
		record("Asc12", start, date(2024, 3, 2), "p1"),
		record("Asc12", start, date(2024, 3, 5), "p2"),
		record("Esc7", start, nil, "p1"),
		record("Esc7", incident.NewDate(2024, 3, 9), nil, "p2"),
	}
	first := merge.Merge(in)
	second := merge.Merge(first.Incidents, first.Incidents)
	if !reflect.DeepEqual(first.Incidents, second.Incidents) {
		t.Fatalf("merge is not idempotent:\nfirst  %+v\nsecond %+v", first.Incidents, second.Incidents)
	}
	if len(second.Duplicates) != len(first.Incidents) {
		t.Fatalf("expected every re-merged record to be discarded once, got %d", len(second.Duplicates))
	}
}

func TestMergeEmpty(t *testing.T) {
	res := merge.Merge()
	if len(res.Incidents) != 0 || len(res.Duplicates) != 0 || len(res.Anomalies) != 0 {
		t.Fatalf("expected empty result, got %+v", res)
	}
}

func TestMergeRejectsUnidentifiable(t *testing.T) {
	in := []incident.Incident{
		{EquipmentCode: "Asc1", SourcePeriod: "p"},
		{StartDate: incident.NewDate(2024, 1, 1), SourcePeriod: "p"},
		record("Asc1", incident.NewDate(2024, 1, 1), nil, "p"),
	}
	res := merge.Merge(in)
	if len(res.Incidents) != 1 {
		t.Fatalf("expected 1 survivor, got %d", len(res.Incidents))
	}
	if len(res.Rejected) != 2 {
		t.Fatalf("expected 2 rejected, got %d", len(res.Rejected))
	}
	if res.Rejected[0].Reason != "missing start_date" || res.Rejected[1].Reason != "missing equipment_code" {
		t.Fatalf("unexpected reasons %q / %q", res.Rejected[0].Reason, res.Rejected[1].Reason)
	}
}

func TestMergeDoesNotMutateInput(t *testing.T) {
	start := incident.NewDate(2024, 3, 1)
	in := []incident.Incident{record("Asc12", start, date(2024, 3, 2), "p1")}
	res := merge.Merge(in)
	*res.Incidents[0].EndDate = incident.NewDate(2030, 1, 1)
	if !in[0].EndDate.Equal(*date(2024, 3, 2)) {
		t.Fatal("merge result aliases its input")
	}
}

func TestMergeFlagsAnomalies(t *testing.T) {
	start := incident.NewDate(2024, 3, 1)
	backwards := record("Asc5", start, date(2024, 2, 28), "p1")
	asc := record("Asc12", start, nil, "p1")
	esc := record("Esc12", start, nil, "p2")
	id := 12
	asc.EquipmentID = &id
	esc.EquipmentID = &id

	annotated := duration.Annotate([]incident.Incident{backwards, asc, esc})
	res := merge.Merge(annotated)

	if len(res.Incidents) != 3 {
		t.Fatalf("anomalies must not remove records, got %d survivors", len(res.Incidents))
	}
	kinds := map[merge.AnomalyKind]int{}
	for _, a := range res.Anomalies {
		kinds[a.Kind]++
	}
	if kinds[merge.AnomalyNegativeDuration] != 1 {
		t.Fatalf("expected one negative duration anomaly, got %+v", res.Anomalies)
	}
	if kinds[merge.AnomalyIDCollision] != 1 {
		t.Fatalf("expected one id collision anomaly, got %+v", res.Anomalies)
	}
	if !duration.Negative(res.Incidents[0]) {
		t.Fatal("negative duration must be preserved")
	}
}

func TestMergeFlagsSameDayStartTimeConflict(t *testing.T) {
	start := incident.NewDate(2024, 3, 1)
	morning := record("Asc12", start, date(2024, 3, 1), "alertes")
	morning.StartTime, morning.EndTime = "08:15", "09:00"
	afternoon := record("Asc12", start, date(2024, 3, 1), "alertes")
	afternoon.StartTime, afternoon.EndTime = "14:00", "16:00"
	afternoon.Reason = "Vandalisme"

	res := merge.Merge([]incident.Incident{morning, afternoon})

	if len(res.Incidents) != 1 || len(res.Duplicates) != 1 {
		t.Fatalf("expected the date-level key to keep one record, got %d survivors and %d duplicates", len(res.Incidents), len(res.Duplicates))
	}
	if len(res.Anomalies) != 1 {
		t.Fatalf("expected one anomaly, got %+v", res.Anomalies)
	}
	a := res.Anomalies[0]
	if a.Kind != merge.AnomalyStartTimeConflict {
		t.Fatalf("expected start time conflict, got %s", a.Kind)
	}
	if a.Key != morning.Key() || !reflect.DeepEqual(a.Periods, []string{"alertes", "alertes"}) {
		t.Fatalf("unexpected anomaly %+v", a)
	}
	if res.Duplicates[0].Incident.StartTime != "14:00" {
		t.Fatalf("expected the later-listed tie to be discarded, got %+v", res.Duplicates[0].Incident)
	}
}

func TestMergeIgnoresBlankStartTimes(t *testing.T) {
	start := incident.NewDate(2024, 3, 1)
	known := record("Esc3", start, date(2024, 3, 2), "p1")
	blank := record("Esc3", start, nil, "p2")
	blank.StartTime = ""

	res := merge.Merge([]incident.Incident{known, blank})
	if len(res.Anomalies) != 0 {
		t.Fatalf("blank start time must not count as a conflict, got %+v", res.Anomalies)
	}
}
