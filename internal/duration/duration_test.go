package duration_test

import (
	"math"
	"testing"
	"time"

	"ascesc/internal/duration"
	"ascesc/internal/incident"
)

func ptr[T any](v T) *T { return &v }

func TestComputeExample(t *testing.T) {
	day := incident.NewDate(2024, 1, 1)
	hours, days := duration.Compute(day, "08:00", &day, "10:30")
	if hours == nil || days == nil {
		t.Fatal("expected durations")
	}
	if *hours != 2.5 {
		t.Fatalf("hours = %v, want 2.5", *hours)
	}
	if math.Abs(*days-0.104166) > 0.001 {
		t.Fatalf("days = %v, want about 0.104", *days)
	}
	if math.Abs(*hours-*days*24) > 1e-9 {
		t.Fatalf("hours %v and days %v are inconsistent", *hours, *days)
	}
}

func TestComputeAcrossDays(t *testing.T) {
	hours, _ := duration.Compute(incident.NewDate(2024, 2, 28), "22:00", ptr(incident.NewDate(2024, 3, 1)), "02:00")
	if hours == nil || *hours != 28 {
		t.Fatalf("unexpected hours %v", hours)
	}
}

func TestComputeMissingInputs(t *testing.T) {
	day := incident.NewDate(2024, 1, 1)
	cases := []struct {
		name      string
		start     time.Time
		startTime string
		end       *time.Time
		endTime   string
	}{
		{"no start date", time.Time{}, "08:00", &day, "10:00"},
		{"no start time", day, "", &day, "10:00"},
		{"no end date", day, "08:00", nil, "10:00"},
		{"no end time", day, "08:00", &day, ""},
		{"bad clock", day, "8h", &day, "10:00"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			hours, days := duration.Compute(tc.start, tc.startTime, tc.end, tc.endTime)
			if hours != nil || days != nil {
				t.Fatalf("expected nil durations, got %v %v", hours, days)
			}
		})
	}
}

func TestComputeKeepsNegative(t *testing.T) {
	hours, days := duration.Compute(incident.NewDate(2024, 1, 2), "08:00", ptr(incident.NewDate(2024, 1, 1)), "08:00")
	if hours == nil || *hours != -24 || days == nil || *days != -1 {
		t.Fatalf("expected -24h/-1d, got %v %v", hours, days)
	}
}

func TestAnnotateDoesNotMutateInput(t *testing.T) {
	day := incident.NewDate(2024, 1, 1)
	in := []incident.Incident{
		{StartDate: day, StartTime: "08:00", EndDate: &day, EndTime: "09:00", EquipmentCode: "Asc1"},
		{StartDate: incident.NewDate(2024, 1, 3), StartTime: "08:00", EndDate: &day, EndTime: "08:00", EquipmentCode: "Esc2"},
		{StartDate: day, EquipmentCode: "Esc3"},
	}
	out := duration.Annotate(in)
	if in[0].DurationHours != nil {
		t.Fatal("input was mutated")
	}
	if out[0].DurationHours == nil || *out[0].DurationHours != 1 {
		t.Fatalf("unexpected duration %v", out[0].DurationHours)
	}
	if !duration.Negative(out[1]) {
		t.Fatal("expected negative duration to be reported")
	}
	if out[2].HasDuration() || duration.Negative(out[2]) {
		t.Fatal("expected no duration for incomplete record")
	}
}
