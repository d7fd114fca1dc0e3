package Models

import (
	"encoding/base64"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// InspectionPhoto is evidence attached to one inspection line. The image
// payload is stored opaquely; only the annotation fields may change after
// creation.
type InspectionPhoto struct {
	gorm.Model
	LineID       uint `json:"line_id" gorm:"not null;index"`
	InspectionID uint `json:"inspection_id" gorm:"index"`

	Name        string `json:"name" gorm:"size:255"`
	Description string `json:"description" gorm:"type:text"`
	Sequence    int    `json:"sequence" gorm:"default:10"`

	Image         []byte `json:"-"`
	ImageFilename string `json:"image_filename" gorm:"size:255"`
	ImageSize     int    `json:"image_size"`

	TakenAt    time.Time `json:"taken_at"`
	DeviceInfo string    `json:"device_info" gorm:"size:255"`
	// Nullable on purpose: an absent GPS fix stays NULL instead of the
	// ambiguous (0,0).
	GPSLatitude  *float64 `json:"gps_latitude"`
	GPSLongitude *float64 `json:"gps_longitude"`

	HasAnnotations  bool           `json:"has_annotations"`
	AnnotationsData datatypes.JSON `json:"annotations_data,omitempty"`
}

// BeforeCreate fills in derived fields: payload size, a "Photo N" name and
// a generated filename when the client sent none.
func (p *InspectionPhoto) BeforeCreate(tx *gorm.DB) error {
	p.ImageSize = len(p.Image)

	if p.Name == "" {
		var count int64
		if err := tx.Model(&InspectionPhoto{}).Where("line_id = ?", p.LineID).Count(&count).Error; err != nil {
			return err
		}
		p.Name = fmt.Sprintf("Photo %d", count+1)
	}

	if p.ImageFilename == "" {
		p.ImageFilename = "photo_" + uuid.NewString() + ".jpg"
	}

	if p.TakenAt.IsZero() {
		p.TakenAt = time.Now()
	}
	return nil
}

// GPSLocation renders the coordinates for display, empty when there was
// no fix.
func (p *InspectionPhoto) GPSLocation() string {
	if p.GPSLatitude == nil || p.GPSLongitude == nil {
		return ""
	}
	return fmt.Sprintf("%.6f, %.6f", *p.GPSLatitude, *p.GPSLongitude)
}

// PhotoMetadata is the optional capture context sent by the mobile client.
type PhotoMetadata struct {
	DeviceInfo string   `json:"device_info"`
	Latitude   *float64 `json:"latitude"`
	Longitude  *float64 `json:"longitude"`
	Filename   string   `json:"filename"`
}

// UploadResult is the structured outcome of a photo upload. Boundary
// callers get either an error message or the created photo, never a
// raised fault.
type UploadResult struct {
	Success   bool   `json:"success,omitempty"`
	PhotoID   uint   `json:"photo_id,omitempty"`
	PhotoName string `json:"photo_name,omitempty"`
	Error     string `json:"error,omitempty"`
}

// UploadPhoto stores a base64-encoded photo against a line. All failures
// are reported through the result payload so the mobile client can
// degrade gracefully.
func UploadPhoto(db *gorm.DB, settings InspectionSettings, lineID uint, imageData string, metadata *PhotoMetadata) UploadResult {
	if imageData == "" {
		return UploadResult{Error: "no image data provided"}
	}

	var line InspectionLine
	if err := db.First(&line, lineID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return UploadResult{Error: "inspection item not found"}
		}
		return UploadResult{Error: "upload failed: " + err.Error()}
	}

	payload, err := base64.StdEncoding.DecodeString(imageData)
	if err != nil {
		return UploadResult{Error: "invalid image data: " + err.Error()}
	}
	if len(payload) == 0 {
		return UploadResult{Error: "no image data provided"}
	}

	if settings.MaxPhotosPerItem > 0 {
		var count int64
		if err := db.Model(&InspectionPhoto{}).Where("line_id = ?", lineID).Count(&count).Error; err != nil {
			return UploadResult{Error: "upload failed: " + err.Error()}
		}
		if int(count) >= settings.MaxPhotosPerItem {
			return UploadResult{Error: fmt.Sprintf("maximum of %d photos per item reached", settings.MaxPhotosPerItem)}
		}
	}

	photo := InspectionPhoto{
		LineID:       line.ID,
		InspectionID: line.InspectionID,
		Image:        payload,
		TakenAt:      time.Now(),
	}
	if metadata != nil {
		photo.DeviceInfo = metadata.DeviceInfo
		photo.ImageFilename = metadata.Filename
		photo.GPSLatitude = metadata.Latitude
		photo.GPSLongitude = metadata.Longitude
	}

	if err := db.Create(&photo).Error; err != nil {
		return UploadResult{Error: "upload failed: " + err.Error()}
	}

	return UploadResult{Success: true, PhotoID: photo.ID, PhotoName: photo.Name}
}
