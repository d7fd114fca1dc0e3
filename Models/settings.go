package Models

import (
	"gorm.io/gorm"
)

// InspectionSettings is the per-company inspection policy. Exactly one row
// is kept per company and it always loads complete: absent rows fall back
// to DefaultInspectionSettings so the engine never probes for optional
// fields at runtime.
type InspectionSettings struct {
	gorm.Model
	CompanyID             uint `json:"company_id" gorm:"uniqueIndex;default:1"`
	RequirePhotoForBad    bool `json:"require_photo_for_bad"`
	AllowPhotoForRegular  bool `json:"allow_photo_for_regular"`
	MaxPhotosPerItem      int  `json:"max_photos_per_item"`
	EnableGPS             bool `json:"enable_gps"`
	RequireSignature      bool `json:"require_signature"`
	RequireOdometer       bool `json:"require_odometer"`
	AutoCreateMaintenance bool `json:"auto_create_maintenance"`
	RetentionDays         int  `json:"retention_days"`
	DefaultTemplateID     uint `json:"default_template_id"`
}

func DefaultInspectionSettings() InspectionSettings {
	return InspectionSettings{
		CompanyID:             1,
		RequirePhotoForBad:    true,
		AllowPhotoForRegular:  true,
		MaxPhotosPerItem:      3,
		RequireSignature:      true,
		RequireOdometer:       true,
		AutoCreateMaintenance: true,
		RetentionDays:         1825, // 5 years
	}
}

// GetInspectionSettings loads the company policy, creating the default row
// on first use.
func GetInspectionSettings(db *gorm.DB, companyID uint) (InspectionSettings, error) {
	if companyID == 0 {
		companyID = 1
	}
	var settings InspectionSettings
	err := db.Where("company_id = ?", companyID).First(&settings).Error
	if err == gorm.ErrRecordNotFound {
		settings = DefaultInspectionSettings()
		settings.CompanyID = companyID
		if err := db.Create(&settings).Error; err != nil {
			return settings, err
		}
		return settings, nil
	}
	return settings, err
}
