package Controllers

import (
	"strconv"

	"Inspector/Models"

	"github.com/gofiber/fiber/v2"
)

type uploadPhotoRequest struct {
	LineID    uint                  `json:"line_id"`
	ImageData string                `json:"image_data"`
	Metadata  *Models.PhotoMetadata `json:"metadata"`
}

// UploadPhoto is the mobile photo-upload endpoint. Like the status
// endpoint it reports domain failures in the payload instead of raising.
// POST /api/mobile/upload-photo
func UploadPhoto(c *fiber.Ctx) error {
	var req uploadPhotoRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid request body"})
	}

	settings, err := Models.GetInspectionSettings(Models.DB, 0)
	if err != nil {
		return c.JSON(fiber.Map{"error": "Failed to load inspection settings"})
	}

	result := Models.UploadPhoto(Models.DB, settings, req.LineID, req.ImageData, req.Metadata)
	if result.Error != "" {
		return c.JSON(fiber.Map{"error": result.Error})
	}

	return c.JSON(fiber.Map{
		"success":    true,
		"photo_id":   result.PhotoID,
		"photo_name": result.PhotoName,
	})
}

// GetLinePhotos lists the photos of a line without their payloads
// GET /api/lines/:id/photos
func GetLinePhotos(c *fiber.Ctx) error {
	lineID, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid line ID"})
	}

	var line Models.InspectionLine
	if err := Models.DB.First(&line, lineID).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Inspection item not found"})
	}

	var photos []Models.InspectionPhoto
	err = Models.DB.Omit("image").
		Where("line_id = ?", line.ID).
		Order("sequence ASC, id ASC").
		Find(&photos).Error
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	return c.JSON(fiber.Map{
		"data":  photos,
		"count": len(photos),
	})
}

// GetPhotoImage serves one photo's binary payload
// GET /api/photos/:id/image
func GetPhotoImage(c *fiber.Ctx) error {
	id, err := strconv.Atoi(c.Params("id"))
	if err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid photo ID"})
	}

	var photo Models.InspectionPhoto
	if err := Models.DB.First(&photo, id).Error; err != nil {
		return c.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Photo not found"})
	}

	c.Set("Content-Type", "image/jpeg")
	return c.Send(photo.Image)
}
