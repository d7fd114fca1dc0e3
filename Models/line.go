package Models

import (
	"time"

	"gorm.io/gorm"
)

// Line statuses. The wire values stay in Spanish for compatibility with
// the deployed mobile client; an empty string means not yet inspected.
const (
	StatusGood    = "bien"
	StatusRegular = "regular"
	StatusBad     = "mal"
	StatusNA      = "na"
)

// ValidStatus reports whether s is one of the recognised line statuses.
func ValidStatus(s string) bool {
	switch s {
	case StatusGood, StatusRegular, StatusBad, StatusNA:
		return true
	}
	return false
}

// InspectionLine is one checklist item instance within an inspection,
// bound to exactly one template item. Name, section and ordering are
// copied read-only from the template item at expansion time.
type InspectionLine struct {
	gorm.Model
	InspectionID   uint `json:"inspection_id" gorm:"not null;index"`
	TemplateItemID uint `json:"template_item_id" gorm:"not null;index"`

	Name            string `json:"name" gorm:"size:500"`
	SectionName     string `json:"section" gorm:"size:255"`
	Sequence        int    `json:"sequence" gorm:"index"`
	SectionSequence int    `json:"section_sequence" gorm:"index"`

	Status       string     `json:"status" gorm:"size:20;default:''"`
	Observations string     `json:"observations" gorm:"type:text"`
	InspectedAt  *time.Time `json:"inspected_at"`
	TimeSpent    float64    `json:"time_spent"`

	PhotoRequired bool `json:"photo_required"`

	Photos []InspectionPhoto `json:"photos,omitempty" gorm:"foreignKey:LineID;constraint:OnDelete:CASCADE"`
}

// IsCompleted reports whether the line has been rated.
func (l *InspectionLine) IsCompleted() bool {
	return l.Status != ""
}

// computePhotoRequired derives the evidence requirement from the current
// status and the company policy.
func (l *InspectionLine) computePhotoRequired(settings InspectionSettings) bool {
	return (l.Status == StatusBad && settings.RequirePhotoForBad) ||
		(l.Status == StatusRegular && settings.AllowPhotoForRegular)
}

// ItemStatusView is the public projection returned to the mobile client
// after a status update.
type ItemStatusView struct {
	ID            uint   `json:"id"`
	Status        string `json:"status"`
	Observations  string `json:"observations"`
	PhotoRequired bool   `json:"photo_required"`
	PhotoCount    int    `json:"photo_count"`
}

// UpdateItemStatus writes the driver's rating on a line. The inspected-at
// timestamp is stamped on every write that carries a status, and the
// parent inspection's derived summary is recomputed in the same
// transaction so follow-up reads observe consistent values.
func UpdateItemStatus(db *gorm.DB, settings InspectionSettings, lineID uint, status, observations string) (*ItemStatusView, error) {
	var line InspectionLine
	if err := db.First(&line, lineID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Entity: "inspection item", ID: lineID}
		}
		return nil, err
	}

	if status != "" && !ValidStatus(status) {
		return nil, &ValidationError{Reason: "unknown status value: " + status}
	}

	line.Status = status
	line.Observations = observations
	if status != "" {
		now := time.Now()
		line.InspectedAt = &now
	}
	line.PhotoRequired = line.computePhotoRequired(settings)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&line).Error; err != nil {
			return err
		}
		inspection := Inspection{Model: gorm.Model{ID: line.InspectionID}}
		return inspection.RefreshSummary(tx)
	})
	if err != nil {
		return nil, err
	}

	var photoCount int64
	if err := db.Model(&InspectionPhoto{}).Where("line_id = ?", line.ID).Count(&photoCount).Error; err != nil {
		return nil, err
	}

	return &ItemStatusView{
		ID:            line.ID,
		Status:        line.Status,
		Observations:  line.Observations,
		PhotoRequired: line.PhotoRequired,
		PhotoCount:    int(photoCount),
	}, nil
}
