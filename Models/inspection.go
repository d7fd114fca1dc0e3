package Models

import (
	"fmt"
	"log"
	"strings"
	"time"

	"gorm.io/gorm"
)

// Inspection lifecycle states. Completed and cancelled are terminal.
const (
	StateDraft     = "draft"
	StateCompleted = "completed"
	StateCancelled = "cancelled"
)

// Aggregate verdict derived from the line statuses.
const (
	OverallGood        = "good"
	OverallAttention   = "attention"
	OverallMaintenance = "maintenance"
)

type Inspection struct {
	gorm.Model
	Name           string    `json:"name" gorm:"size:255;index"`
	VehicleID      uint      `json:"vehicle_id" gorm:"not null;index"`
	VehicleName    string    `json:"vehicle_name" gorm:"size:255"`
	DriverID       uint      `json:"driver_id" gorm:"not null;index"`
	CreatedBy      uint      `json:"created_by" gorm:"index"`
	InspectionDate time.Time `json:"inspection_date" gorm:"not null;index"`
	Odometer       float64   `json:"odometer"`
	State          string    `json:"state" gorm:"size:20;not null;default:draft;index"`

	// Driver snapshot at inspection time
	LicenseNumber   string     `json:"license_number" gorm:"size:100"`
	LicenseType     string     `json:"license_type" gorm:"size:50"`
	LicenseExpiry   *time.Time `json:"license_expiry"`
	DefensiveCourse bool       `json:"defensive_course"`
	CourseExpiry    *time.Time `json:"course_expiry"`

	// Insurance snapshot
	InsurancePolicy string     `json:"insurance_policy" gorm:"size:100"`
	InsuranceExpiry *time.Time `json:"insurance_expiry"`

	// Derived summary, recomputed on every line mutation
	ItemsGood            int     `json:"items_good"`
	ItemsRegular         int     `json:"items_regular"`
	ItemsBad             int     `json:"items_bad"`
	ItemsNA              int     `json:"items_na"`
	TotalItems           int     `json:"total_items"`
	CompletionPercentage float64 `json:"completion_percentage"`
	OverallStatus        string  `json:"overall_status" gorm:"size:20"`

	DriverSignature     []byte `json:"driver_signature,omitempty"`
	SupervisorSignature []byte `json:"supervisor_signature,omitempty"`
	Observations        string `json:"observations" gorm:"type:text"`

	DeviceInfo        string     `json:"device_info" gorm:"size:255"`
	StartTime         *time.Time `json:"start_time"`
	EndTime           *time.Time `json:"end_time"`
	CompletionMinutes float64    `json:"completion_minutes"`

	TemplateID uint `json:"template_id" gorm:"index"`

	Lines []InspectionLine `json:"lines,omitempty" gorm:"foreignKey:InspectionID;constraint:OnDelete:CASCADE"`
}

// ComputeName derives the record name from the vehicle plate and the
// inspection date.
func (i *Inspection) ComputeName(vehicle *Vehicle) {
	if vehicle == nil || i.InspectionDate.IsZero() {
		i.Name = "New Inspection"
		return
	}
	label := vehicle.LicensePlate
	if label == "" {
		label = vehicle.Name
	}
	i.Name = fmt.Sprintf("INS/%s/%s", label, i.InspectionDate.Format("2006-01-02"))
}

// CreateFromVehicle creates a draft inspection for the vehicle and starts
// it immediately. The driver defaults to the acting user when omitted and
// the odometer is seeded from the vehicle's current reading. Create and
// start run in one transaction so a failed start never leaves an orphaned
// draft behind.
func CreateFromVehicle(db *gorm.DB, settings InspectionSettings, vehicleID, driverID, actingUserID uint) (*Inspection, error) {
	var vehicle Vehicle
	if err := db.First(&vehicle, vehicleID).Error; err != nil {
		if err == gorm.ErrRecordNotFound {
			return nil, &NotFoundError{Entity: "vehicle", ID: vehicleID}
		}
		return nil, err
	}

	if driverID == 0 {
		driverID = actingUserID
	}

	inspection := Inspection{
		VehicleID:      vehicle.ID,
		VehicleName:    vehicle.DisplayName(),
		DriverID:       driverID,
		CreatedBy:      actingUserID,
		InspectionDate: time.Now(),
		Odometer:       vehicle.Odometer,
		State:          StateDraft,
	}
	inspection.ComputeName(&vehicle)

	err := db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&inspection).Error; err != nil {
			return err
		}
		return inspection.Start(tx, settings)
	})
	if err != nil {
		return nil, err
	}
	return &inspection, nil
}

// Start stamps the start time, binds the template and expands its items
// into lines. Safe to call more than once: the start time is only stamped
// while unset and lines are only expanded while none exist.
func (i *Inspection) Start(db *gorm.DB, settings InspectionSettings) error {
	if i.StartTime == nil {
		now := time.Now()
		i.StartTime = &now
	}

	if i.TemplateID == 0 {
		template, err := i.resolveTemplate(db, settings)
		if err != nil {
			return err
		}
		i.TemplateID = template.ID
	}

	var lineCount int64
	if err := db.Model(&InspectionLine{}).Where("inspection_id = ?", i.ID).Count(&lineCount).Error; err != nil {
		return err
	}

	return db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(i).Error; err != nil {
			return err
		}
		if lineCount > 0 {
			return nil
		}
		if err := i.expandTemplate(tx); err != nil {
			return err
		}
		return i.RefreshSummary(tx)
	})
}

// resolveTemplate prefers the company default, falling back to the single
// active template.
func (i *Inspection) resolveTemplate(db *gorm.DB, settings InspectionSettings) (*InspectionTemplate, error) {
	if settings.DefaultTemplateID != 0 {
		var template InspectionTemplate
		err := db.First(&template, settings.DefaultTemplateID).Error
		if err == nil {
			return &template, nil
		}
		if err != gorm.ErrRecordNotFound {
			return nil, err
		}
		log.Printf("default template %d missing, falling back to active template", settings.DefaultTemplateID)
	}
	return FindActiveTemplate(db)
}

// expandTemplate creates one unset line per template item, preserving the
// template display order. Runs inside the caller's transaction so a
// partial expansion never survives.
func (i *Inspection) expandTemplate(tx *gorm.DB) error {
	items, err := TemplateItemsInOrder(tx, i.TemplateID)
	if err != nil {
		return err
	}
	if len(items) == 0 {
		return nil
	}

	lines := make([]InspectionLine, 0, len(items))
	for _, item := range items {
		lines = append(lines, InspectionLine{
			InspectionID:    i.ID,
			TemplateItemID:  item.ID,
			Name:            item.Name,
			SectionName:     item.SectionName,
			Sequence:        item.Sequence,
			SectionSequence: item.SectionSequence,
		})
	}
	return tx.Create(&lines).Error
}

// RefreshSummary recomputes the status counters, completion percentage and
// overall status from the current lines and persists them.
func (i *Inspection) RefreshSummary(tx *gorm.DB) error {
	var lines []InspectionLine
	if err := tx.Where("inspection_id = ?", i.ID).Find(&lines).Error; err != nil {
		return err
	}

	i.ItemsGood, i.ItemsRegular, i.ItemsBad, i.ItemsNA = 0, 0, 0, 0
	for _, line := range lines {
		switch line.Status {
		case StatusGood:
			i.ItemsGood++
		case StatusRegular:
			i.ItemsRegular++
		case StatusBad:
			i.ItemsBad++
		case StatusNA:
			i.ItemsNA++
		}
	}
	i.TotalItems = len(lines)

	completed := i.ItemsGood + i.ItemsRegular + i.ItemsBad + i.ItemsNA
	if i.TotalItems > 0 {
		i.CompletionPercentage = float64(completed) / float64(i.TotalItems) * 100
	} else {
		i.CompletionPercentage = 0
	}

	switch {
	case i.ItemsBad > 0:
		i.OverallStatus = OverallMaintenance
	case i.ItemsRegular > 0:
		i.OverallStatus = OverallAttention
	default:
		i.OverallStatus = OverallGood
	}

	return tx.Model(&Inspection{}).Where("id = ?", i.ID).Updates(map[string]interface{}{
		"items_good":            i.ItemsGood,
		"items_regular":         i.ItemsRegular,
		"items_bad":             i.ItemsBad,
		"items_na":              i.ItemsNA,
		"total_items":           i.TotalItems,
		"completion_percentage": i.CompletionPercentage,
		"overall_status":        i.OverallStatus,
	}).Error
}

// GetNextItem returns the first incomplete line after the current one in
// display order, or the first incomplete line when no current item is
// given. Completed lines are skipped during forward navigation.
func (i *Inspection) GetNextItem(db *gorm.DB, currentItemID uint) (*InspectionLine, error) {
	var incomplete []InspectionLine
	err := db.Where("inspection_id = ? AND (status IS NULL OR status = '')", i.ID).
		Order("section_sequence ASC, sequence ASC, name ASC, id ASC").
		Find(&incomplete).Error
	if err != nil {
		return nil, err
	}
	if len(incomplete) == 0 {
		return nil, nil
	}

	if currentItemID == 0 {
		return &incomplete[0], nil
	}

	for idx, line := range incomplete {
		if line.ID == currentItemID {
			if idx < len(incomplete)-1 {
				return &incomplete[idx+1], nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

// GetPreviousItem returns the line immediately before the current one in
// full display order, including completed lines.
func (i *Inspection) GetPreviousItem(db *gorm.DB, currentItemID uint) (*InspectionLine, error) {
	var lines []InspectionLine
	err := db.Where("inspection_id = ?", i.ID).
		Order("section_sequence ASC, sequence ASC, name ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return nil, err
	}

	for idx, line := range lines {
		if line.ID == currentItemID {
			if idx > 0 {
				return &lines[idx-1], nil
			}
			return nil, nil
		}
	}
	return nil, nil
}

// Complete validates the inspection and marks it completed. The gates run
// in order and the first failure wins, leaving the state untouched. The
// returned warning reports a failed best-effort maintenance-request pass;
// it never blocks completion.
func (i *Inspection) Complete(db *gorm.DB, settings InspectionSettings) (string, error) {
	if i.State != StateDraft {
		return "", &InvalidStateError{Operation: "complete", State: i.State}
	}

	if i.TemplateID == 0 {
		return "", &ConfigurationError{Reason: "an inspection template is required, please configure one before completing"}
	}

	if settings.RequireOdometer && i.Odometer == 0 {
		return "", &ValidationError{Reason: "an odometer reading is required to complete the inspection"}
	}

	var lines []InspectionLine
	err := db.Where("inspection_id = ?", i.ID).
		Order("section_sequence ASC, sequence ASC, name ASC, id ASC").
		Find(&lines).Error
	if err != nil {
		return "", err
	}

	var incomplete []string
	for _, line := range lines {
		if line.Status == "" {
			incomplete = append(incomplete, line.Name)
		}
	}
	if len(incomplete) > 0 {
		sample := incomplete
		suffix := ""
		if len(sample) > 3 {
			sample = sample[:3]
			suffix = "..."
		}
		return "", &ValidationError{
			Reason: fmt.Sprintf("please complete all inspection items, %d items remaining: %s%s",
				len(incomplete), strings.Join(sample, ", "), suffix),
			Items: incomplete,
		}
	}

	if settings.RequirePhotoForBad {
		var missingPhotos []string
		for _, line := range lines {
			if line.Status != StatusBad || !line.PhotoRequired {
				continue
			}
			var photoCount int64
			if err := db.Model(&InspectionPhoto{}).Where("line_id = ?", line.ID).Count(&photoCount).Error; err != nil {
				return "", err
			}
			if photoCount == 0 {
				missingPhotos = append(missingPhotos, line.Name)
			}
		}
		if len(missingPhotos) > 0 {
			return "", &ValidationError{
				Reason: fmt.Sprintf("photos are required for items marked as bad: %s", strings.Join(missingPhotos, ", ")),
				Items:  missingPhotos,
			}
		}
	}

	now := time.Now()
	i.State = StateCompleted
	i.EndTime = &now
	if i.StartTime != nil {
		i.CompletionMinutes = now.Sub(*i.StartTime).Minutes()
	}
	if err := db.Save(i).Error; err != nil {
		return "", err
	}

	var warning string
	if settings.AutoCreateMaintenance {
		if err := i.createMaintenanceRequests(db, lines); err != nil {
			log.Printf("inspection %d: failed to create maintenance requests: %v", i.ID, err)
			warning = "maintenance requests could not be created: " + err.Error()
		}
	}
	return warning, nil
}

// createMaintenanceRequests opens one maintenance request per section that
// has bad items. Sections without a resolvable service type are skipped.
func (i *Inspection) createMaintenanceRequests(db *gorm.DB, lines []InspectionLine) error {
	sections := make(map[string][]InspectionLine)
	var order []string
	for _, line := range lines {
		if line.Status != StatusBad {
			continue
		}
		section := line.SectionName
		if section == "" {
			section = "General"
		}
		if _, ok := sections[section]; !ok {
			order = append(order, section)
		}
		sections[section] = append(sections[section], line)
	}
	if len(sections) == 0 {
		return nil
	}

	serviceType, err := ResolveMaintenanceServiceType(db)
	if err != nil {
		log.Printf("inspection %d: no maintenance service type available, skipping requests: %v", i.ID, err)
		return nil
	}

	for _, section := range order {
		var notes strings.Builder
		fmt.Fprintf(&notes, "Issues found during inspection %s:\n\n", i.Name)
		for _, line := range sections[section] {
			notes.WriteString("- " + line.Name)
			if line.Observations != "" {
				notes.WriteString(": " + line.Observations)
			}
			notes.WriteString("\n")
		}

		request := MaintenanceRequest{
			VehicleID:     i.VehicleID,
			InspectionID:  i.ID,
			ServiceTypeID: serviceType.ID,
			Description:   "Maintenance Required - " + section,
			Notes:         notes.String(),
			State:         MaintenanceStateNew,
		}
		if err := db.Create(&request).Error; err != nil {
			return err
		}
	}
	return nil
}

// Resume checks that the inspection can still be edited. Only drafts can
// be resumed.
func (i *Inspection) Resume() error {
	if i.State != StateDraft {
		return &InvalidStateError{Operation: "resume", State: i.State}
	}
	return nil
}

// Cancel aborts a draft inspection. Cancelled is terminal.
func (i *Inspection) Cancel(db *gorm.DB) error {
	if i.State != StateDraft {
		return &InvalidStateError{Operation: "cancel", State: i.State}
	}
	i.State = StateCancelled
	return db.Save(i).Error
}
