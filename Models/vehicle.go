package Models

import (
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"
)

// NoInspectionSentinel is reported as days-since-inspection when a vehicle
// has no completed inspection on file.
const NoInspectionSentinel = 999

// InspectionDueDays is the interval after which a vehicle is due again.
const InspectionDueDays = 30

type Vehicle struct {
	gorm.Model
	Name          string  `json:"name" gorm:"size:255;not null"`
	LicensePlate  string  `json:"license_plate" gorm:"size:50;not null;index"`
	ChassisNumber string  `json:"chassis_number" gorm:"size:100"`
	ModelName     string  `json:"model_name" gorm:"size:255"`
	Color         string  `json:"color" gorm:"size:50"`
	Odometer      float64 `json:"odometer"`
	OdometerUnit  string  `json:"odometer_unit" gorm:"size:12;default:kilometers"`
	DriverID      uint    `json:"driver_id" gorm:"index"`
	Active        bool    `json:"active" gorm:"default:true"`

	Inspections []Inspection `json:"inspections,omitempty" gorm:"foreignKey:VehicleID;constraint:OnDelete:CASCADE"`
}

// DisplayName renders "PLATE (Name)" like the mobile client shows it.
func (v *Vehicle) DisplayName() string {
	if v.LicensePlate != "" {
		return fmt.Sprintf("%s (%s)", v.LicensePlate, v.Name)
	}
	if v.Name != "" {
		return v.Name
	}
	return "Unnamed Vehicle"
}

// VehicleInspectionStats is the recomputed per-vehicle inspection summary.
// It is a pure function of the vehicle's inspection history, safe to
// recompute lazily on read.
type VehicleInspectionStats struct {
	InspectionCount      int        `json:"inspection_count"`
	LastInspectionID     uint       `json:"last_inspection_id,omitempty"`
	LastInspectionDate   *time.Time `json:"last_inspection_date,omitempty"`
	LastInspectionStatus string     `json:"last_inspection_status,omitempty"`
	DaysSinceInspection  int        `json:"days_since_inspection"`
	InspectionDue        bool       `json:"inspection_due"`
	HasDraftInspection   bool       `json:"has_draft_inspection"`
}

// ComputeInspectionStats aggregates the vehicle's completed inspections.
// Ties on inspection_date break by id so recomputation is stable.
func ComputeInspectionStats(db *gorm.DB, vehicleID uint) (VehicleInspectionStats, error) {
	stats := VehicleInspectionStats{DaysSinceInspection: NoInspectionSentinel}

	var count int64
	err := db.Model(&Inspection{}).
		Where("vehicle_id = ? AND state = ?", vehicleID, StateCompleted).
		Count(&count).Error
	if err != nil {
		return stats, err
	}
	stats.InspectionCount = int(count)

	if count > 0 {
		var latest Inspection
		err = db.Where("vehicle_id = ? AND state = ?", vehicleID, StateCompleted).
			Order("inspection_date DESC, id DESC").
			First(&latest).Error
		if err != nil {
			return stats, err
		}
		stats.LastInspectionID = latest.ID
		stats.LastInspectionStatus = latest.OverallStatus
		if !latest.InspectionDate.IsZero() {
			date := latest.InspectionDate
			stats.LastInspectionDate = &date
			stats.DaysSinceInspection = int(time.Since(latest.InspectionDate).Hours() / 24)
		}
	}

	stats.InspectionDue = stats.DaysSinceInspection >= InspectionDueDays

	var draftCount int64
	err = db.Model(&Inspection{}).
		Where("vehicle_id = ? AND state = ?", vehicleID, StateDraft).
		Count(&draftCount).Error
	if err != nil {
		return stats, err
	}
	stats.HasDraftInspection = draftCount > 0

	return stats, nil
}

// StartVehicleInspection resumes the vehicle's open draft when one exists,
// otherwise creates and starts a fresh inspection. At most one draft per
// vehicle is the intended invariant; concurrent starts are out of scope
// for the single-writer session model.
func StartVehicleInspection(db *gorm.DB, settings InspectionSettings, vehicleID, actingUserID uint) (*Inspection, bool, error) {
	var draft Inspection
	err := db.Where("vehicle_id = ? AND state = ?", vehicleID, StateDraft).
		Order("id ASC").
		First(&draft).Error
	if err == nil {
		if err := draft.Resume(); err != nil {
			return nil, false, err
		}
		return &draft, true, nil
	}
	if err != gorm.ErrRecordNotFound {
		return nil, false, err
	}

	inspection, err := CreateFromVehicle(db, settings, vehicleID, 0, actingUserID)
	if err != nil {
		return nil, false, err
	}
	return inspection, false, nil
}

// InspectableVehicle is one row of the mobile vehicle-search listing.
type InspectableVehicle struct {
	ID           uint   `json:"id"`
	Name         string `json:"name"`
	LicensePlate string `json:"license_plate"`
	ModelName    string `json:"model"`
	Color        string `json:"color"`
	VehicleInspectionStats
}

// ListInspectableVehicles searches active vehicles by license plate,
// chassis number or model name (case-insensitive substring) and attaches
// each vehicle's inspection summary.
func ListInspectableVehicles(db *gorm.DB, searchTerm string, limit int) ([]InspectableVehicle, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	query := db.Where("active = ?", true)
	if searchTerm != "" {
		pattern := "%" + strings.ToLower(searchTerm) + "%"
		query = query.Where(
			"LOWER(license_plate) LIKE ? OR LOWER(chassis_number) LIKE ? OR LOWER(model_name) LIKE ?",
			pattern, pattern, pattern,
		)
	}

	var vehicles []Vehicle
	if err := query.Limit(limit).Find(&vehicles).Error; err != nil {
		return nil, err
	}

	result := make([]InspectableVehicle, 0, len(vehicles))
	for _, vehicle := range vehicles {
		stats, err := ComputeInspectionStats(db, vehicle.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, InspectableVehicle{
			ID:                     vehicle.ID,
			Name:                   vehicle.Name,
			LicensePlate:           vehicle.LicensePlate,
			ModelName:              vehicle.ModelName,
			Color:                  vehicle.Color,
			VehicleInspectionStats: stats,
		})
	}
	return result, nil
}

// RecentInspectedVehicles lists vehicles the user completed inspections on
// most recently, one entry per vehicle.
func RecentInspectedVehicles(db *gorm.DB, userID uint, limit int) ([]InspectableVehicle, error) {
	if limit <= 0 {
		limit = 5
	}

	var inspections []Inspection
	err := db.Where("created_by = ? AND state = ?", userID, StateCompleted).
		Order("inspection_date DESC").
		Limit(limit * 3).
		Find(&inspections).Error
	if err != nil {
		return nil, err
	}

	seen := make(map[uint]bool)
	result := make([]InspectableVehicle, 0, limit)
	for _, inspection := range inspections {
		if seen[inspection.VehicleID] || len(result) >= limit {
			continue
		}
		seen[inspection.VehicleID] = true

		var vehicle Vehicle
		if err := db.First(&vehicle, inspection.VehicleID).Error; err != nil {
			continue
		}
		stats, err := ComputeInspectionStats(db, vehicle.ID)
		if err != nil {
			return nil, err
		}
		result = append(result, InspectableVehicle{
			ID:                     vehicle.ID,
			Name:                   vehicle.Name,
			LicensePlate:           vehicle.LicensePlate,
			ModelName:              vehicle.ModelName,
			Color:                  vehicle.Color,
			VehicleInspectionStats: stats,
		})
	}
	return result, nil
}
