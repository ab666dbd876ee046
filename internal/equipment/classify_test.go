package equipment_test

import (
	"testing"

	"ascesc/internal/equipment"
)

func TestClassifyAndExtractID(t *testing.T) {
	cases := []struct {
		code  string
		typ   equipment.Type
		id    int
		hasID bool
	}{
		{"Asc014", equipment.Elevator, 14, true},
		{"Esc07", equipment.Escalator, 7, true},
		{"Esc-A", equipment.Escalator, 0, false},
		{"asc12", equipment.Escalator, 12, true},
		{"ASC12", equipment.Escalator, 12, true},
		{"Asc", equipment.Elevator, 0, false},
		{"", equipment.Escalator, 0, false},
		{"Asc 3 bis 12", equipment.Elevator, 3, true},
		{"Esc99999999999999999999999", equipment.Escalator, 0, false},
	}
	for _, tc := range cases {
		t.Run(tc.code, func(t *testing.T) {
			if got := equipment.Classify(tc.code); got != tc.typ {
				t.Fatalf("Classify(%q) = %q, want %q", tc.code, got, tc.typ)
			}
			id, ok := equipment.ExtractID(tc.code)
			if ok != tc.hasID {
				t.Fatalf("ExtractID(%q) ok = %v, want %v", tc.code, ok, tc.hasID)
			}
			if ok && id != tc.id {
				t.Fatalf("ExtractID(%q) = %d, want %d", tc.code, id, tc.id)
			}
		})
	}
}

func TestTypeLabel(t *testing.T) {
	if got := equipment.Elevator.Label(); got != "ascenseur" {
		t.Fatalf("unexpected elevator label %q", got)
	}
	if got := equipment.Escalator.Label(); got != "escalier" {
		t.Fatalf("unexpected escalator label %q", got)
	}
}
