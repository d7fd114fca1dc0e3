package Models

import (
	"testing"
	"time"
)

func TestComputeInspectionStatsNoHistory(t *testing.T) {
	db := newTestDB(t)
	vehicle := newTestVehicle(t, db)

	stats, err := ComputeInspectionStats(db, vehicle.ID)
	if err != nil {
		t.Fatalf("ComputeInspectionStats() error = %v", err)
	}
	if stats.InspectionCount != 0 {
		t.Errorf("expected 0 inspections, got %d", stats.InspectionCount)
	}
	if stats.DaysSinceInspection != NoInspectionSentinel {
		t.Errorf("expected sentinel %d, got %d", NoInspectionSentinel, stats.DaysSinceInspection)
	}
	if !stats.InspectionDue {
		t.Error("vehicles with no history are due")
	}
	if stats.HasDraftInspection {
		t.Error("no draft expected")
	}
}

func TestComputeInspectionStatsWithHistory(t *testing.T) {
	db := newTestDB(t)
	vehicle := newTestVehicle(t, db)

	old := Inspection{
		VehicleID:      vehicle.ID,
		DriverID:       1,
		InspectionDate: time.Now().AddDate(0, 0, -31),
		State:          StateCompleted,
		OverallStatus:  OverallMaintenance,
	}
	if err := db.Create(&old).Error; err != nil {
		t.Fatalf("failed to create inspection: %v", err)
	}

	stats, err := ComputeInspectionStats(db, vehicle.ID)
	if err != nil {
		t.Fatalf("ComputeInspectionStats() error = %v", err)
	}
	if stats.InspectionCount != 1 {
		t.Errorf("expected 1 inspection, got %d", stats.InspectionCount)
	}
	if stats.DaysSinceInspection < InspectionDueDays {
		t.Errorf("expected at least %d days, got %d", InspectionDueDays, stats.DaysSinceInspection)
	}
	if !stats.InspectionDue {
		t.Error("31-day-old inspection should flag the vehicle due")
	}

	// A newer completed inspection wins and clears the due flag.
	recent := Inspection{
		VehicleID:      vehicle.ID,
		DriverID:       1,
		InspectionDate: time.Now().AddDate(0, 0, -2),
		State:          StateCompleted,
		OverallStatus:  OverallGood,
	}
	if err := db.Create(&recent).Error; err != nil {
		t.Fatalf("failed to create inspection: %v", err)
	}

	stats, err = ComputeInspectionStats(db, vehicle.ID)
	if err != nil {
		t.Fatalf("ComputeInspectionStats() error = %v", err)
	}
	if stats.InspectionCount != 2 {
		t.Errorf("expected 2 inspections, got %d", stats.InspectionCount)
	}
	if stats.LastInspectionID != recent.ID {
		t.Errorf("expected latest inspection %d, got %d", recent.ID, stats.LastInspectionID)
	}
	if stats.LastInspectionStatus != OverallGood {
		t.Errorf("expected latest status %q, got %q", OverallGood, stats.LastInspectionStatus)
	}
	if stats.InspectionDue {
		t.Error("recently inspected vehicle should not be due")
	}
}

func TestComputeInspectionStatsIgnoresCancelled(t *testing.T) {
	db := newTestDB(t)
	vehicle := newTestVehicle(t, db)

	cancelled := Inspection{
		VehicleID:      vehicle.ID,
		DriverID:       1,
		InspectionDate: time.Now(),
		State:          StateCancelled,
	}
	if err := db.Create(&cancelled).Error; err != nil {
		t.Fatalf("failed to create inspection: %v", err)
	}

	stats, err := ComputeInspectionStats(db, vehicle.ID)
	if err != nil {
		t.Fatalf("ComputeInspectionStats() error = %v", err)
	}
	if stats.InspectionCount != 0 {
		t.Errorf("cancelled inspections must not count, got %d", stats.InspectionCount)
	}
	if stats.DaysSinceInspection != NoInspectionSentinel {
		t.Errorf("expected sentinel, got %d", stats.DaysSinceInspection)
	}
}

func TestStartVehicleInspectionResumesDraft(t *testing.T) {
	db := newTestDB(t)
	newTestTemplate(t, db)
	vehicle := newTestVehicle(t, db)
	settings := DefaultInspectionSettings()

	first, resumed, err := StartVehicleInspection(db, settings, vehicle.ID, 1)
	if err != nil {
		t.Fatalf("StartVehicleInspection() error = %v", err)
	}
	if resumed {
		t.Error("first start should create, not resume")
	}

	second, resumed, err := StartVehicleInspection(db, settings, vehicle.ID, 1)
	if err != nil {
		t.Fatalf("StartVehicleInspection() error = %v", err)
	}
	if !resumed {
		t.Error("second start should resume the open draft")
	}
	if second.ID != first.ID {
		t.Errorf("expected the same draft back, got %d and %d", first.ID, second.ID)
	}

	var count int64
	db.Model(&Inspection{}).Where("vehicle_id = ?", vehicle.ID).Count(&count)
	if count != 1 {
		t.Errorf("expected a single inspection, got %d", count)
	}

	// Once the draft is gone a new one is created.
	if err := first.Cancel(db); err != nil {
		t.Fatalf("Cancel() error = %v", err)
	}
	third, resumed, err := StartVehicleInspection(db, settings, vehicle.ID, 1)
	if err != nil {
		t.Fatalf("StartVehicleInspection() error = %v", err)
	}
	if resumed || third.ID == first.ID {
		t.Error("cancelling should free the vehicle for a fresh inspection")
	}
}

func TestListInspectableVehicles(t *testing.T) {
	db := newTestDB(t)
	vehicles := []Vehicle{
		{Name: "Truck 1", LicensePlate: "AB123CD", ModelName: "Ranger", Active: true},
		{Name: "Truck 2", LicensePlate: "XY987ZT", ModelName: "Hilux", ChassisNumber: "CHS-778", Active: true},
		{Name: "Retired", LicensePlate: "AB999CD", ModelName: "Ranger", Active: false},
	}
	for i := range vehicles {
		if err := db.Create(&vehicles[i]).Error; err != nil {
			t.Fatalf("failed to create vehicle: %v", err)
		}
	}

	tests := []struct {
		name   string
		search string
		want   []string
	}{
		{"empty search lists active", "", []string{"AB123CD", "XY987ZT"}},
		{"plate lowercase", "ab123", []string{"AB123CD"}},
		{"model substring", "hilux", []string{"XY987ZT"}},
		{"chassis number", "chs-77", []string{"XY987ZT"}},
		{"shared model skips inactive", "ranger", []string{"AB123CD"}},
		{"no match", "zzzz", nil},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := ListInspectableVehicles(db, tt.search, 0)
			if err != nil {
				t.Fatalf("ListInspectableVehicles() error = %v", err)
			}
			if len(result) != len(tt.want) {
				t.Fatalf("expected %d vehicles, got %d", len(tt.want), len(result))
			}
			for i, plate := range tt.want {
				if result[i].LicensePlate != plate {
					t.Errorf("position %d: expected %q, got %q", i, plate, result[i].LicensePlate)
				}
			}
		})
	}

	// Listing attaches inspection stats.
	result, err := ListInspectableVehicles(db, "ab123", 0)
	if err != nil {
		t.Fatalf("ListInspectableVehicles() error = %v", err)
	}
	if result[0].DaysSinceInspection != NoInspectionSentinel || !result[0].InspectionDue {
		t.Errorf("expected fresh-vehicle stats, got %+v", result[0].VehicleInspectionStats)
	}
}

func TestRecentInspectedVehiclesDeduplicates(t *testing.T) {
	db := newTestDB(t)
	vehicle := newTestVehicle(t, db)

	for i := 0; i < 3; i++ {
		inspection := Inspection{
			VehicleID:      vehicle.ID,
			DriverID:       1,
			CreatedBy:      9,
			InspectionDate: time.Now().AddDate(0, 0, -i),
			State:          StateCompleted,
		}
		if err := db.Create(&inspection).Error; err != nil {
			t.Fatalf("failed to create inspection: %v", err)
		}
	}

	result, err := RecentInspectedVehicles(db, 9, 5)
	if err != nil {
		t.Fatalf("RecentInspectedVehicles() error = %v", err)
	}
	if len(result) != 1 {
		t.Fatalf("expected one entry per vehicle, got %d", len(result))
	}
	if result[0].ID != vehicle.ID {
		t.Errorf("unexpected vehicle %d", result[0].ID)
	}

	// Other users see nothing.
	result, err = RecentInspectedVehicles(db, 10, 5)
	if err != nil {
		t.Fatalf("RecentInspectedVehicles() error = %v", err)
	}
	if len(result) != 0 {
		t.Errorf("expected no vehicles for another user, got %d", len(result))
	}
}

func TestVehicleDisplayName(t *testing.T) {
	tests := []struct {
		name    string
		vehicle Vehicle
		want    string
	}{
		{"plate and name", Vehicle{Name: "Truck 1", LicensePlate: "AB123CD"}, "AB123CD (Truck 1)"},
		{"name only", Vehicle{Name: "Truck 1"}, "Truck 1"},
		{"nothing", Vehicle{}, "Unnamed Vehicle"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.vehicle.DisplayName(); got != tt.want {
				t.Errorf("DisplayName() = %q, want %q", got, tt.want)
			}
		})
	}
}
