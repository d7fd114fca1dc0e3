package Controllers

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"strings"
	"testing"

	"Inspector/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// newMobileTestApp wires the mobile endpoints against a fresh in-memory
// database with one started inspection. Auth middleware is left off; it is
// exercised separately.
func newMobileTestApp(t *testing.T) (*fiber.App, []Models.InspectionLine) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test database: %v", err)
	}
	if err := Models.Migrate(db); err != nil {
		t.Fatalf("failed to migrate test database: %v", err)
	}
	Models.DB = db

	template := Models.InspectionTemplate{Name: "Checklist", Active: true}
	if err := db.Create(&template).Error; err != nil {
		t.Fatalf("failed to create template: %v", err)
	}
	section := Models.InspectionSection{TemplateID: template.ID, Name: "A", Sequence: 10}
	if err := db.Create(&section).Error; err != nil {
		t.Fatalf("failed to create section: %v", err)
	}
	for i, name := range []string{"A1", "A2"} {
		item := Models.InspectionTemplateItem{
			TemplateID:      template.ID,
			SectionID:       section.ID,
			Name:            name,
			Sequence:        (i + 1) * 10,
			SectionSequence: 10,
			SectionName:     "A",
		}
		if err := db.Create(&item).Error; err != nil {
			t.Fatalf("failed to create item: %v", err)
		}
	}

	vehicle := Models.Vehicle{Name: "Truck", LicensePlate: "AA111BB", Active: true}
	if err := db.Create(&vehicle).Error; err != nil {
		t.Fatalf("failed to create vehicle: %v", err)
	}
	if _, err := Models.CreateFromVehicle(db, Models.DefaultInspectionSettings(), vehicle.ID, 0, 1); err != nil {
		t.Fatalf("failed to start inspection: %v", err)
	}

	var lines []Models.InspectionLine
	if err := db.Order("id ASC").Find(&lines).Error; err != nil {
		t.Fatalf("failed to load lines: %v", err)
	}

	app := fiber.New()
	app.Post("/api/mobile/update-item-status", UpdateItemStatus)
	app.Post("/api/mobile/upload-photo", UploadPhoto)
	return app, lines
}

func postJSON(t *testing.T, app *fiber.App, path, body string) (int, map[string]interface{}) {
	t.Helper()
	req, err := http.NewRequest(http.MethodPost, path, bytes.NewReader([]byte(body)))
	if err != nil {
		t.Fatalf("failed to build request: %v", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req, -1)
	if err != nil {
		t.Fatalf("request failed: %v", err)
	}
	defer resp.Body.Close()

	var payload map[string]interface{}
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		t.Fatalf("failed to decode response: %v", err)
	}
	return resp.StatusCode, payload
}

func TestUpdateItemStatusEndpoint(t *testing.T) {
	app, lines := newMobileTestApp(t)

	body := fmt.Sprintf(`{"line_id": %d, "status": "mal", "observations": "cracked"}`, lines[0].ID)
	status, payload := postJSON(t, app, "/api/mobile/update-item-status", body)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if payload["success"] != true {
		t.Fatalf("expected success, got %v", payload)
	}
	item, ok := payload["item"].(map[string]interface{})
	if !ok {
		t.Fatalf("expected item in payload, got %v", payload)
	}
	if item["status"] != "mal" || item["observations"] != "cracked" {
		t.Errorf("unexpected item payload %v", item)
	}
	if item["photo_required"] != true {
		t.Errorf("bad status should require a photo, got %v", item["photo_required"])
	}
}

func TestUpdateItemStatusEndpointMissingLine(t *testing.T) {
	app, _ := newMobileTestApp(t)

	status, payload := postJSON(t, app, "/api/mobile/update-item-status",
		`{"line_id": 9999, "status": "bien"}`)
	if status != http.StatusOK {
		t.Fatalf("domain failures ride a 200, got %d", status)
	}
	if payload["error"] != "Item not found" {
		t.Errorf("unexpected error payload %v", payload)
	}
	if _, ok := payload["success"]; ok {
		t.Error("failed update must not claim success")
	}
}

func TestUpdateItemStatusEndpointUnknownStatus(t *testing.T) {
	app, lines := newMobileTestApp(t)

	body := fmt.Sprintf(`{"line_id": %d, "status": "broken"}`, lines[0].ID)
	status, payload := postJSON(t, app, "/api/mobile/update-item-status", body)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	message, _ := payload["error"].(string)
	if !strings.Contains(message, "unknown status value") {
		t.Errorf("unexpected error payload %v", payload)
	}
}

func TestUpdateItemStatusEndpointMalformedBody(t *testing.T) {
	app, _ := newMobileTestApp(t)

	status, _ := postJSON(t, app, "/api/mobile/update-item-status", `{"line_id": `)
	if status != http.StatusBadRequest {
		t.Errorf("malformed JSON should be rejected with 400, got %d", status)
	}
}

func TestUploadPhotoEndpoint(t *testing.T) {
	app, lines := newMobileTestApp(t)

	body := fmt.Sprintf(`{"line_id": %d, "image_data": "aW1hZ2UtYnl0ZXM="}`, lines[0].ID)
	status, payload := postJSON(t, app, "/api/mobile/upload-photo", body)
	if status != http.StatusOK {
		t.Fatalf("expected 200, got %d", status)
	}
	if payload["success"] != true {
		t.Fatalf("expected success, got %v", payload)
	}
	if payload["photo_name"] != "Photo 1" {
		t.Errorf("unexpected photo name %v", payload["photo_name"])
	}
}

func TestUploadPhotoEndpointEmptyData(t *testing.T) {
	app, lines := newMobileTestApp(t)

	body := fmt.Sprintf(`{"line_id": %d, "image_data": ""}`, lines[0].ID)
	status, payload := postJSON(t, app, "/api/mobile/upload-photo", body)
	if status != http.StatusOK {
		t.Fatalf("domain failures ride a 200, got %d", status)
	}
	if payload["error"] != "no image data provided" {
		t.Errorf("unexpected error payload %v", payload)
	}
}
