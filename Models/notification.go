package Models

import (
	"fmt"
	"log"

	"gorm.io/gorm"
)

// Notification is a stored event for the web dashboard. Delivery is
// fire-and-forget: failures are logged and never surface to the
// triggering operation.
type Notification struct {
	gorm.Model
	Title    string `json:"title" gorm:"size:255"`
	Message  string `json:"message" gorm:"type:text"`
	Severity string `json:"severity" gorm:"size:20;default:info"`
	UserID   uint   `json:"user_id" gorm:"index"`
	Read     bool   `json:"read" gorm:"default:false"`
}

// NotifyInspectionCompleted records a completion event for the inspecting
// user.
func NotifyInspectionCompleted(db *gorm.DB, inspection *Inspection) {
	notification := Notification{
		Title:    "Inspection Completed",
		Message:  fmt.Sprintf("Inspection for %s has been completed successfully.", inspection.VehicleName),
		Severity: "success",
		UserID:   inspection.CreatedBy,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("failed to store completion notification for inspection %d: %v", inspection.ID, err)
	}
}

// NotifyInspectionDue records an overdue reminder for a vehicle. Used by
// the daily sweep.
func NotifyInspectionDue(db *gorm.DB, vehicle *Vehicle, daysSince int) {
	message := fmt.Sprintf("%s has not been inspected for %d days.", vehicle.DisplayName(), daysSince)
	if daysSince >= NoInspectionSentinel {
		message = fmt.Sprintf("%s has never been inspected.", vehicle.DisplayName())
	}
	notification := Notification{
		Title:    "Inspection Due",
		Message:  message,
		Severity: "warning",
		UserID:   vehicle.DriverID,
	}
	if err := db.Create(&notification).Error; err != nil {
		log.Printf("failed to store due notification for vehicle %d: %v", vehicle.ID, err)
	}
}
