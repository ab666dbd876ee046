package ingest

import (
	"testing"
	"time"
)

func TestCoerceDate(t *testing.T) {
	tests := []struct {
		name  string
		raw   any
		want  time.Time
		clock string
	}{
		{"serial date", 45352.0, time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ""},
		{"serial datetime", 45352.5, time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC), "12:00"},
		{"serial text", "45352", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ""},
		{"french date", "01/03/2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ""},
		{"french datetime", "01/03/2024 08:15:00", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC), "08:15"},
		{"unpadded date", "1/3/2024", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ""},
		{"unpadded datetime", "1/3/2024 8:15", time.Date(2024, 3, 1, 8, 15, 0, 0, time.UTC), "08:15"},
		{"unpadded day only", "9/12/2023 14:05:30", time.Date(2023, 12, 9, 14, 5, 30, 0, time.UTC), "14:05"},
		{"iso date", "2024-03-01", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), ""},
		{"iso datetime", "2024-03-01T23:59:00", time.Date(2024, 3, 1, 23, 59, 0, 0, time.UTC), "23:59"},
		{"explicit midnight", "01/03/2024 00:00", time.Date(2024, 3, 1, 0, 0, 0, 0, time.UTC), "00:00"},
		{"time value", time.Date(2024, 3, 1, 7, 5, 0, 0, time.UTC), time.Date(2024, 3, 1, 7, 5, 0, 0, time.UTC), "07:05"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := coerceDate(tt.raw)
			if err != nil {
				t.Fatalf("coerceDate(%v) returned error: %v", tt.raw, err)
			}
			if !got.At.Equal(tt.want) {
				t.Fatalf("coerceDate(%v) = %v, want %v", tt.raw, got.At, tt.want)
			}
			if got.TimeOfDay() != tt.clock {
				t.Fatalf("coerceDate(%v) clock = %q, want %q", tt.raw, got.TimeOfDay(), tt.clock)
			}
		})
	}
}

func TestCoerceDateRejects(t *testing.T) {
	for _, raw := range []any{"hier", "31/02/2024", -3.0, 9e9, "2024/03/01"} {
		if _, err := coerceDate(raw); err == nil {
			t.Fatalf("expected error for %v", raw)
		}
	}
	for _, raw := range []any{nil, "", "   "} {
		if _, err := coerceDate(raw); err != errBlank {
			t.Fatalf("expected errBlank for %q, got %v", raw, err)
		}
	}
}
