package Controllers

import (
	"errors"

	"Inspector/Models"

	"github.com/gofiber/fiber/v2"
)

type updateItemStatusRequest struct {
	LineID       uint   `json:"line_id"`
	Status       string `json:"status"`
	Observations string `json:"observations"`
}

// UpdateItemStatus is the mobile status-update endpoint. Domain failures
// come back as an {error} payload with HTTP 200 so the client can queue
// and retry on its side; only a malformed request is rejected outright.
// POST /api/mobile/update-item-status
func UpdateItemStatus(c *fiber.Ctx) error {
	var req updateItemStatusRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	settings, err := Models.GetInspectionSettings(Models.DB, 0)
	if err != nil {
		return c.JSON(fiber.Map{"error": "Failed to load inspection settings"})
	}

	item, err := Models.UpdateItemStatus(Models.DB, settings, req.LineID, req.Status, req.Observations)
	if err != nil {
		var notFound *Models.NotFoundError
		if errors.As(err, &notFound) {
			return c.JSON(fiber.Map{"error": "Item not found"})
		}
		var validation *Models.ValidationError
		if errors.As(err, &validation) {
			return c.JSON(fiber.Map{"error": validation.Error()})
		}
		return c.JSON(fiber.Map{"error": "Update failed: " + err.Error()})
	}

	return c.JSON(fiber.Map{
		"success": true,
		"item":    item,
	})
}
