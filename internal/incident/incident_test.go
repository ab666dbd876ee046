package incident_test

import (
	"testing"
	"time"

	"ascesc/internal/equipment"
	"ascesc/internal/incident"
)

func TestEquipmentTypeFollowsCode(t *testing.T) {
	inc := incident.Incident{EquipmentCode: "Asc12"}
	if inc.EquipmentType() != equipment.Elevator {
		t.Fatalf("expected elevator, got %q", inc.EquipmentType())
	}
	inc.EquipmentCode = "Esc12"
	if inc.EquipmentType() != equipment.Escalator {
		t.Fatalf("expected escalator after code change, got %q", inc.EquipmentType())
	}
}

func TestKeyUsesDateAndCode(t *testing.T) {
	a := incident.Incident{StartDate: incident.NewDate(2024, 3, 1), EquipmentCode: "Asc12", SourcePeriod: "2024-03"}
	b := incident.Incident{StartDate: incident.NewDate(2024, 3, 1), EquipmentCode: "Asc12", SourcePeriod: "2024-04"}
	if a.Key() != b.Key() {
		t.Fatalf("expected equal keys, got %v and %v", a.Key(), b.Key())
	}
	if got := a.Key().String(); got != "2024-03-01/Asc12" {
		t.Fatalf("unexpected key string %q", got)
	}
}

func TestDateDropsClockAndLocation(t *testing.T) {
	paris := time.FixedZone("CET", 3600)
	got := incident.Date(time.Date(2024, 1, 31, 23, 30, 0, 0, paris))
	if !got.Equal(incident.NewDate(2024, 1, 31)) {
		t.Fatalf("unexpected date %v", got)
	}
}

func TestCloneDoesNotAlias(t *testing.T) {
	end := incident.NewDate(2024, 3, 5)
	id := 12
	orig := incident.Incident{EndDate: &end, EquipmentID: &id}
	cp := orig.Clone()
	*cp.EndDate = incident.NewDate(2025, 1, 1)
	*cp.EquipmentID = 99
	if !orig.EndDate.Equal(incident.NewDate(2024, 3, 5)) || *orig.EquipmentID != 12 {
		t.Fatal("clone aliased original pointers")
	}
}

func TestIdentifiable(t *testing.T) {
	if (incident.Incident{EquipmentCode: "Asc1"}).Identifiable() {
		t.Fatal("expected missing start date to be unidentifiable")
	}
	if (incident.Incident{StartDate: incident.NewDate(2024, 1, 1)}).Identifiable() {
		t.Fatal("expected missing code to be unidentifiable")
	}
	if !(incident.Incident{StartDate: incident.NewDate(2024, 1, 1), EquipmentCode: "Asc1"}).Identifiable() {
		t.Fatal("expected complete record to be identifiable")
	}
}
