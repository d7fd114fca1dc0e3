package Models

import (
	"testing"
)

func TestValidStatus(t *testing.T) {
	for _, status := range []string{StatusGood, StatusRegular, StatusBad, StatusNA} {
		if !ValidStatus(status) {
			t.Errorf("%q should be valid", status)
		}
	}
	for _, status := range []string{"", "good", "BIEN", "broken"} {
		if ValidStatus(status) {
			t.Errorf("%q should not be valid", status)
		}
	}
}

func TestUpdateItemStatus(t *testing.T) {
	db := newTestDB(t)
	_, lines := startedInspection(t, db)
	settings := DefaultInspectionSettings()

	view, err := UpdateItemStatus(db, settings, lines[0].ID, StatusBad, "flat tyre")
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if view.Status != StatusBad || view.Observations != "flat tyre" {
		t.Errorf("unexpected view %+v", view)
	}
	if !view.PhotoRequired {
		t.Error("bad status with photo policy on should require a photo")
	}
	if view.PhotoCount != 0 {
		t.Errorf("expected 0 photos, got %d", view.PhotoCount)
	}

	var line InspectionLine
	db.First(&line, lines[0].ID)
	if line.InspectedAt == nil {
		t.Fatal("inspected-at should be stamped on a rated write")
	}
	firstStamp := *line.InspectedAt
	if !line.IsCompleted() {
		t.Error("rated line should be completed")
	}

	// Re-rating re-stamps and recomputes the photo requirement.
	view, err = UpdateItemStatus(db, settings, lines[0].ID, StatusGood, "")
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if view.PhotoRequired {
		t.Error("good status should not require a photo")
	}
	db.First(&line, lines[0].ID)
	if line.InspectedAt == nil || line.InspectedAt.Before(firstStamp) {
		t.Error("re-rating should re-stamp inspected-at")
	}

	// Clearing the status reopens the line without touching the stamp.
	if _, err := UpdateItemStatus(db, settings, lines[0].ID, "", ""); err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	db.First(&line, lines[0].ID)
	if line.IsCompleted() {
		t.Error("cleared line should be incomplete again")
	}

	var inspection Inspection
	db.First(&inspection, line.InspectionID)
	if inspection.CompletionPercentage != 0 {
		t.Errorf("summary should track the cleared line, got %v%%", inspection.CompletionPercentage)
	}
}

func TestUpdateItemStatusUnknownValue(t *testing.T) {
	db := newTestDB(t)
	_, lines := startedInspection(t, db)

	_, err := UpdateItemStatus(db, DefaultInspectionSettings(), lines[0].ID, "broken", "")
	if err == nil {
		t.Fatal("expected ValidationError for an unknown status")
	}
	if _, ok := err.(*ValidationError); !ok {
		t.Errorf("expected *ValidationError, got %T: %v", err, err)
	}
}

func TestUpdateItemStatusMissingLine(t *testing.T) {
	db := newTestDB(t)

	_, err := UpdateItemStatus(db, DefaultInspectionSettings(), 4242, StatusGood, "")
	if err == nil {
		t.Fatal("expected NotFoundError")
	}
	if _, ok := err.(*NotFoundError); !ok {
		t.Errorf("expected *NotFoundError, got %T: %v", err, err)
	}
}

func TestRegularStatusPhotoAllowed(t *testing.T) {
	db := newTestDB(t)
	_, lines := startedInspection(t, db)

	settings := DefaultInspectionSettings()
	view, err := UpdateItemStatus(db, settings, lines[0].ID, StatusRegular, "")
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if !view.PhotoRequired {
		t.Error("regular with the allow-photo policy should flag the photo")
	}

	settings.AllowPhotoForRegular = false
	view, err = UpdateItemStatus(db, settings, lines[0].ID, StatusRegular, "")
	if err != nil {
		t.Fatalf("UpdateItemStatus() error = %v", err)
	}
	if view.PhotoRequired {
		t.Error("regular without the policy should not flag the photo")
	}
}
