package Controllers

import (
	"encoding/base64"
	"log"
	"strconv"

	"Inspector/Models"
	"Inspector/email"
	"Inspector/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// InspectionController drives the inspection lifecycle: creation,
// checklist navigation, completion and cancellation.
type InspectionController struct {
	DB *gorm.DB
}

func NewInspectionController(db *gorm.DB) *InspectionController {
	return &InspectionController{DB: db}
}

func (ic *InspectionController) settings(ctx *fiber.Ctx) (Models.InspectionSettings, error) {
	settings, err := Models.GetInspectionSettings(ic.DB, 0)
	if err != nil {
		return settings, ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{
			"error": "Failed to load inspection settings",
		})
	}
	return settings, nil
}

func (ic *InspectionController) load(ctx *fiber.Ctx) (*Models.Inspection, error) {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return nil, ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}
	var inspection Models.Inspection
	if err := ic.DB.First(&inspection, id).Error; err != nil {
		return nil, ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}
	return &inspection, nil
}

type createInspectionRequest struct {
	VehicleID uint `json:"vehicle_id" validate:"required"`
	DriverID  uint `json:"driver_id"`
}

// CreateInspection creates and starts an inspection for a vehicle
// POST /api/inspections
func (ic *InspectionController) CreateInspection(ctx *fiber.Ctx) error {
	var req createInspectionRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "vehicle_id is required"})
	}

	settings, err := ic.settings(ctx)
	if err != nil {
		return err
	}

	inspection, err := Models.CreateFromVehicle(ic.DB, settings, req.VehicleID, req.DriverID, middleware.CurrentUserID(ctx))
	if err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.Status(fiber.StatusCreated).JSON(fiber.Map{
		"message": "Inspection created successfully",
		"data":    inspection,
	})
}

// GetInspection returns an inspection with its lines in display order
// GET /api/inspections/:id
func (ic *InspectionController) GetInspection(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid inspection ID"})
	}

	var inspection Models.Inspection
	err = ic.DB.Preload("Lines", func(db *gorm.DB) *gorm.DB {
		return db.Order("section_sequence ASC, sequence ASC, name ASC, id ASC")
	}).Preload("Lines.Photos", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC, id ASC")
	}).First(&inspection, id).Error
	if err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection not found"})
	}
	return ctx.JSON(inspection)
}

// GetInspections lists inspections with optional vehicle/state filters
// GET /api/inspections?vehicle_id=&state=&page=&limit=
func (ic *InspectionController) GetInspections(ctx *fiber.Ctx) error {
	page, _ := strconv.Atoi(ctx.Query("page", "1"))
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > 100 {
		limit = 20
	}

	query := ic.DB.Model(&Models.Inspection{})
	if vehicleID := ctx.Query("vehicle_id"); vehicleID != "" {
		query = query.Where("vehicle_id = ?", vehicleID)
	}
	if state := ctx.Query("state"); state != "" {
		query = query.Where("state = ?", state)
	}

	var total int64
	query.Count(&total)

	var inspections []Models.Inspection
	err := query.Order("inspection_date DESC").
		Offset((page - 1) * limit).
		Limit(limit).
		Find(&inspections).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return ctx.JSON(fiber.Map{
		"data": inspections,
		"pagination": fiber.Map{
			"page":  page,
			"limit": limit,
			"total": total,
		},
	})
}

// StartInspection stamps the start time and expands the checklist
// POST /api/inspections/:id/start
func (ic *InspectionController) StartInspection(ctx *fiber.Ctx) error {
	inspection, err := ic.load(ctx)
	if err != nil {
		return err
	}
	settings, err := ic.settings(ctx)
	if err != nil {
		return err
	}

	if err := inspection.Start(ic.DB, settings); err != nil {
		return mapDomainError(ctx, err)
	}

	return ctx.JSON(fiber.Map{
		"message": "Inspection started",
		"view":    "inspection_mobile",
		"data":    inspection,
	})
}

// CompleteInspection runs the validation gates and finalizes
// POST /api/inspections/:id/complete
func (ic *InspectionController) CompleteInspection(ctx *fiber.Ctx) error {
	inspection, err := ic.load(ctx)
	if err != nil {
		return err
	}
	settings, err := ic.settings(ctx)
	if err != nil {
		return err
	}

	warning, err := inspection.Complete(ic.DB, settings)
	if err != nil {
		return mapDomainError(ctx, err)
	}

	Models.NotifyInspectionCompleted(ic.DB, inspection)
	go sendCompletionEmail(inspection)

	response := fiber.Map{
		"message": "Inspection completed successfully",
		"data":    inspection,
	}
	if warning != "" {
		response["warning"] = warning
	}
	return ctx.JSON(response)
}

// sendCompletionEmail is best-effort: without SMTP configuration it does
// nothing, and failures only log.
func sendCompletionEmail(inspection *Models.Inspection) {
	config, ok := Models.EmailConfigFromEnv()
	if !ok {
		return
	}
	recipient := config.FromEmail
	message := Models.EmailMessage{
		To:      []string{recipient},
		Subject: "Inspection Completed - " + inspection.Name,
		Body:    "Inspection " + inspection.Name + " for " + inspection.VehicleName + " has been completed.",
	}
	if err := email.SendEmail(config, message); err != nil {
		log.Printf("failed to send completion email for inspection %d: %v", inspection.ID, err)
	}
}

// ResumeInspection reopens the checklist UI for a draft
// POST /api/inspections/:id/resume
func (ic *InspectionController) ResumeInspection(ctx *fiber.Ctx) error {
	inspection, err := ic.load(ctx)
	if err != nil {
		return err
	}
	if err := inspection.Resume(); err != nil {
		return mapDomainError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"message": "Inspection resumed",
		"view":    "inspection_mobile",
		"data":    inspection,
	})
}

// CancelInspection aborts a draft
// POST /api/inspections/:id/cancel
func (ic *InspectionController) CancelInspection(ctx *fiber.Ctx) error {
	inspection, err := ic.load(ctx)
	if err != nil {
		return err
	}
	if err := inspection.Cancel(ic.DB); err != nil {
		return mapDomainError(ctx, err)
	}
	return ctx.JSON(fiber.Map{
		"message": "Inspection cancelled",
		"data":    inspection,
	})
}

// GetNextItem returns the next incomplete checklist item
// GET /api/inspections/:id/next-item?current=
func (ic *InspectionController) GetNextItem(ctx *fiber.Ctx) error {
	inspection, err := ic.load(ctx)
	if err != nil {
		return err
	}

	currentID, _ := strconv.Atoi(ctx.Query("current", "0"))
	line, err := inspection.GetNextItem(ic.DB, uint(currentID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if line == nil {
		return ctx.JSON(fiber.Map{"item": nil})
	}
	return ctx.JSON(fiber.Map{"item": line})
}

// GetPreviousItem returns the preceding checklist item in full order
// GET /api/inspections/:id/previous-item?current=
func (ic *InspectionController) GetPreviousItem(ctx *fiber.Ctx) error {
	inspection, err := ic.load(ctx)
	if err != nil {
		return err
	}

	currentID, _ := strconv.Atoi(ctx.Query("current", "0"))
	line, err := inspection.GetPreviousItem(ic.DB, uint(currentID))
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if line == nil {
		return ctx.JSON(fiber.Map{"item": nil})
	}
	return ctx.JSON(fiber.Map{"item": line})
}

type inspectionDetailsRequest struct {
	Observations        string  `json:"observations"`
	Odometer            float64 `json:"odometer"`
	DriverSignature     string  `json:"driver_signature"`
	SupervisorSignature string  `json:"supervisor_signature"`
	DeviceInfo          string  `json:"device_info"`
}

// UpdateInspectionDetails saves observations, odometer and signatures on
// a draft
// PATCH /api/inspections/:id
func (ic *InspectionController) UpdateInspectionDetails(ctx *fiber.Ctx) error {
	inspection, err := ic.load(ctx)
	if err != nil {
		return err
	}
	if inspection.State != Models.StateDraft {
		return mapDomainError(ctx, &Models.InvalidStateError{Operation: "edit", State: inspection.State})
	}

	var req inspectionDetailsRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	inspection.Observations = req.Observations
	if req.Odometer > 0 {
		inspection.Odometer = req.Odometer
	}
	if req.DeviceInfo != "" {
		inspection.DeviceInfo = req.DeviceInfo
	}
	if req.DriverSignature != "" {
		signature, err := base64.StdEncoding.DecodeString(req.DriverSignature)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid driver signature data"})
		}
		inspection.DriverSignature = signature
	}
	if req.SupervisorSignature != "" {
		signature, err := base64.StdEncoding.DecodeString(req.SupervisorSignature)
		if err != nil {
			return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid supervisor signature data"})
		}
		inspection.SupervisorSignature = signature
	}

	if err := ic.DB.Save(inspection).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update inspection"})
	}
	return ctx.JSON(fiber.Map{
		"message": "Inspection updated successfully",
		"data":    inspection,
	})
}

// DeleteInspection removes an inspection with its lines and photos
// DELETE /api/inspections/:id
func (ic *InspectionController) DeleteInspection(ctx *fiber.Ctx) error {
	inspection, err := ic.load(ctx)
	if err != nil {
		return err
	}

	err = ic.DB.Transaction(func(tx *gorm.DB) error {
		var lineIDs []uint
		if err := tx.Model(&Models.InspectionLine{}).Where("inspection_id = ?", inspection.ID).Pluck("id", &lineIDs).Error; err != nil {
			return err
		}
		if len(lineIDs) > 0 {
			if err := tx.Where("line_id IN ?", lineIDs).Delete(&Models.InspectionPhoto{}).Error; err != nil {
				return err
			}
		}
		if err := tx.Where("inspection_id = ?", inspection.ID).Delete(&Models.InspectionLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(inspection).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete inspection"})
	}
	return ctx.JSON(fiber.Map{"message": "Inspection deleted successfully"})
}
