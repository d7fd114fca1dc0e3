package Controllers

import (
	"Inspector/Models"
	"Inspector/middleware"

	"github.com/gofiber/fiber/v2"
)

// GetInspectionSettings returns the company inspection policy
// GET /api/settings/inspection
func GetInspectionSettings(c *fiber.Ctx) error {
	settings, err := Models.GetInspectionSettings(Models.DB, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load inspection settings"})
	}
	return c.JSON(settings)
}

// UpdateInspectionSettings replaces the company inspection policy
// PUT /api/settings/inspection
func UpdateInspectionSettings(c *fiber.Ctx) error {
	settings, err := Models.GetInspectionSettings(Models.DB, 0)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to load inspection settings"})
	}

	var req Models.InspectionSettings
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	settings.RequirePhotoForBad = req.RequirePhotoForBad
	settings.AllowPhotoForRegular = req.AllowPhotoForRegular
	settings.MaxPhotosPerItem = req.MaxPhotosPerItem
	settings.EnableGPS = req.EnableGPS
	settings.RequireSignature = req.RequireSignature
	settings.RequireOdometer = req.RequireOdometer
	settings.AutoCreateMaintenance = req.AutoCreateMaintenance
	settings.DefaultTemplateID = req.DefaultTemplateID
	if req.RetentionDays > 0 {
		settings.RetentionDays = req.RetentionDays
	}

	if err := Models.DB.Save(&settings).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update inspection settings"})
	}
	return c.JSON(settings)
}

// GetNotifications lists the authenticated user's notifications
// GET /api/notifications
func GetNotifications(c *fiber.Ctx) error {
	var notifications []Models.Notification
	err := Models.DB.Where("user_id = ?", middleware.CurrentUserID(c)).
		Order("created_at DESC").
		Limit(50).
		Find(&notifications).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	return c.JSON(fiber.Map{
		"data":  notifications,
		"count": len(notifications),
	})
}
