package Models

import (
	"gorm.io/gorm"
)

const MaintenanceStateNew = "new"

// ServiceType categorizes maintenance work. Requests created from
// inspections resolve against the "service" category.
type ServiceType struct {
	gorm.Model
	Name     string `json:"name" gorm:"size:255;not null"`
	Category string `json:"category" gorm:"size:50;index"`
}

// MaintenanceRequest is the follow-up record opened for checklist items
// found in bad condition.
type MaintenanceRequest struct {
	gorm.Model
	VehicleID     uint   `json:"vehicle_id" gorm:"not null;index"`
	InspectionID  uint   `json:"inspection_id" gorm:"index"`
	ServiceTypeID uint   `json:"service_type_id" gorm:"not null;index"`
	Description   string `json:"description" gorm:"size:500"`
	Notes         string `json:"notes" gorm:"type:text"`
	State         string `json:"state" gorm:"size:20;default:new"`

	ServiceType ServiceType `json:"service_type,omitempty" gorm:"foreignKey:ServiceTypeID"`
}

// ResolveMaintenanceServiceType finds a service type usable for
// inspection follow-ups.
func ResolveMaintenanceServiceType(db *gorm.DB) (*ServiceType, error) {
	var serviceType ServiceType
	err := db.Where("category = ?", "service").Order("id ASC").First(&serviceType).Error
	if err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &ConfigurationError{Reason: "no maintenance service type configured"}
		}
		return nil, err
	}
	return &serviceType, nil
}
