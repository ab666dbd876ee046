package timefield_test

import (
	"errors"
	"testing"
	"time"

	"ascesc/internal/timefield"
)

func TestNormalize(t *testing.T) {
	cases := []struct {
		name string
		raw  any
		want string
	}{
		{"h suffix", "9h", "09:00"},
		{"h separator", "14h30", "14:30"},
		{"upper H", "17H", "17:00"},
		{"fraction half", 0.5, "12:00"},
		{"fraction zero", 0.0, "00:00"},
		{"fraction one wraps", 1.0, "00:00"},
		{"fraction quarter past eight", 0.34375, "08:15"},
		{"colon", "08:15", "08:15"},
		{"colon seconds", "08:15:42", "08:15"},
		{"padded", " 7:05 ", "07:05"},
		{"bare hour", "23", "23:00"},
		{"bare zero", "0", "00:00"},
		{"integer number", 9.0, "09:00"},
		{"timestamp", time.Date(2024, 1, 1, 10, 30, 0, 0, time.UTC), "10:30"},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := timefield.Normalize(tc.raw)
			if err != nil {
				t.Fatalf("Normalize(%v) returned error: %v", tc.raw, err)
			}
			if got != tc.want {
				t.Fatalf("Normalize(%v) = %q, want %q", tc.raw, got, tc.want)
			}
		})
	}
}

func TestNormalizeRejects(t *testing.T) {
	cases := []struct {
		name string
		raw  any
	}{
		{"hour too large", "25"},
		{"letters", "abc"},
		{"colon hour", "24:00"},
		{"colon minute", "10:60"},
		{"negative", "-1"},
		{"large number", 25.0},
		{"datetime serial", 45352.5},
		{"many parts", "1:2:3:4"},
		{"unsupported type", []byte("9h")},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := timefield.Normalize(tc.raw)
			if err == nil {
				t.Fatalf("Normalize(%v) = %q, expected error", tc.raw, got)
			}
			var perr *timefield.ParseError
			if !errors.As(err, &perr) {
				t.Fatalf("expected ParseError, got %T", err)
			}
		})
	}
}

func TestNormalizeEmpty(t *testing.T) {
	for _, raw := range []any{nil, "", "   ", time.Time{}} {
		if _, err := timefield.Normalize(raw); !errors.Is(err, timefield.ErrEmpty) {
			t.Fatalf("Normalize(%#v) error = %v, want ErrEmpty", raw, err)
		}
	}
}

func TestParse(t *testing.T) {
	h, m, err := timefield.Parse("14:30")
	if err != nil || h != 14 || m != 30 {
		t.Fatalf("Parse returned %d %d %v", h, m, err)
	}
	for _, bad := range []string{"", "9:00", "14h30", "24:00", "12:75"} {
		if _, _, err := timefield.Parse(bad); err == nil {
			t.Fatalf("expected error for %q", bad)
		}
	}
}
