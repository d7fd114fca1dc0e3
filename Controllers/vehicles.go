package Controllers

import (
	"strconv"

	"Inspector/Models"
	"Inspector/middleware"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// VehicleController exposes the vehicle registry and the per-vehicle
// inspection summary.
type VehicleController struct {
	DB *gorm.DB
}

func NewVehicleController(db *gorm.DB) *VehicleController {
	return &VehicleController{DB: db}
}

type vehicleRequest struct {
	Name          string  `json:"name" validate:"required"`
	LicensePlate  string  `json:"license_plate" validate:"required"`
	ChassisNumber string  `json:"chassis_number"`
	ModelName     string  `json:"model_name"`
	Color         string  `json:"color"`
	Odometer      float64 `json:"odometer"`
	DriverID      uint    `json:"driver_id"`
}

// RegisterVehicle adds a vehicle to the registry
// POST /api/vehicles
func (vc *VehicleController) RegisterVehicle(ctx *fiber.Ctx) error {
	var req vehicleRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{
			"error":   "Validation failed",
			"message": err.Error(),
		})
	}

	vehicle := Models.Vehicle{
		Name:          req.Name,
		LicensePlate:  req.LicensePlate,
		ChassisNumber: req.ChassisNumber,
		ModelName:     req.ModelName,
		Color:         req.Color,
		Odometer:      req.Odometer,
		DriverID:      req.DriverID,
		Active:        true,
	}
	if err := vc.DB.Create(&vehicle).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to register vehicle"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(vehicle)
}

// GetVehicle returns a vehicle with its inspection summary
// GET /api/vehicles/:id
func (vc *VehicleController) GetVehicle(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	var vehicle Models.Vehicle
	if err := vc.DB.First(&vehicle, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Vehicle not found"})
	}

	stats, err := Models.ComputeInspectionStats(vc.DB, vehicle.ID)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return ctx.JSON(fiber.Map{
		"vehicle": vehicle,
		"stats":   stats,
	})
}

// SearchVehicles is the mobile vehicle-search endpoint
// GET /api/vehicles/search?q=&limit=
func (vc *VehicleController) SearchVehicles(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "20"))

	vehicles, err := Models.ListInspectableVehicles(vc.DB, ctx.Query("q"), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return ctx.JSON(fiber.Map{
		"data":  vehicles,
		"count": len(vehicles),
	})
}

// RecentVehicles lists the user's recently inspected vehicles
// GET /api/vehicles/recent?limit=
func (vc *VehicleController) RecentVehicles(ctx *fiber.Ctx) error {
	limit, _ := strconv.Atoi(ctx.Query("limit", "5"))

	vehicles, err := Models.RecentInspectedVehicles(vc.DB, middleware.CurrentUserID(ctx), limit)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return ctx.JSON(fiber.Map{
		"data":  vehicles,
		"count": len(vehicles),
	})
}

// StartInspection resumes the vehicle's draft or creates a fresh
// inspection
// POST /api/vehicles/:id/start-inspection
func (vc *VehicleController) StartInspection(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	settings, err := Models.GetInspectionSettings(vc.DB, 0)
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load inspection settings"})
	}

	inspection, resumed, err := Models.StartVehicleInspection(vc.DB, settings, uint(id), middleware.CurrentUserID(ctx))
	if err != nil {
		return mapDomainError(ctx, err)
	}

	message := "Inspection created successfully"
	if resumed {
		message = "Resuming existing draft inspection"
	}
	return ctx.JSON(fiber.Map{
		"message": message,
		"resumed": resumed,
		"view":    "inspection_mobile",
		"data":    inspection,
	})
}

// GetMaintenanceRequests lists the maintenance follow-ups for a vehicle
// GET /api/vehicles/:id/maintenance-requests
func (vc *VehicleController) GetMaintenanceRequests(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid vehicle ID"})
	}

	var requests []Models.MaintenanceRequest
	err = vc.DB.Preload("ServiceType").
		Where("vehicle_id = ?", id).
		Order("created_at DESC").
		Find(&requests).Error
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return ctx.JSON(fiber.Map{
		"data":  requests,
		"count": len(requests),
	})
}
