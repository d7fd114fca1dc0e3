package Controllers

import (
	"strconv"

	"Inspector/Models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/gorm"
)

// TemplateController handles the inspection template catalog
type TemplateController struct {
	DB *gorm.DB
}

func NewTemplateController(db *gorm.DB) *TemplateController {
	return &TemplateController{DB: db}
}

type templateRequest struct {
	Name        string `json:"name" validate:"required"`
	Description string `json:"description"`
	Active      *bool  `json:"active"`
	Sequence    int    `json:"sequence"`
}

// GetTemplates lists all templates with their item counts
func (tc *TemplateController) GetTemplates(ctx *fiber.Ctx) error {
	var templates []Models.InspectionTemplate
	result := tc.DB.Order("sequence ASC, name ASC").Find(&templates)
	if result.Error != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to retrieve templates"})
	}
	return ctx.JSON(templates)
}

// GetTemplate returns a single template with sections and items in
// display order
func (tc *TemplateController) GetTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var template Models.InspectionTemplate
	result := tc.DB.Preload("Sections", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC, name ASC")
	}).Preload("Sections.Items", func(db *gorm.DB) *gorm.DB {
		return db.Order("sequence ASC, name ASC")
	}).First(&template, id)
	if result.Error != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}
	return ctx.JSON(template)
}

// CreateTemplate creates an empty template
func (tc *TemplateController) CreateTemplate(ctx *fiber.Ctx) error {
	var req templateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}
	if err := validate.Struct(req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "name is required"})
	}

	template := Models.InspectionTemplate{
		Name:        req.Name,
		Description: req.Description,
		Active:      true,
		Sequence:    req.Sequence,
	}
	if req.Active != nil {
		template.Active = *req.Active
	}
	if template.Sequence == 0 {
		template.Sequence = 10
	}

	if err := tc.DB.Create(&template).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to create template"})
	}
	return ctx.Status(fiber.StatusCreated).JSON(template)
}

// UpdateTemplate updates name/description/active/sequence
func (tc *TemplateController) UpdateTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var template Models.InspectionTemplate
	if err := tc.DB.First(&template, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	var req templateRequest
	if err := ctx.BodyParser(&req); err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": err.Error()})
	}

	if req.Name != "" {
		template.Name = req.Name
	}
	template.Description = req.Description
	if req.Active != nil {
		template.Active = *req.Active
	}
	if req.Sequence != 0 {
		template.Sequence = req.Sequence
	}

	if err := tc.DB.Save(&template).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to update template"})
	}
	return ctx.JSON(template)
}

// DeleteTemplate removes a template with its sections and items
func (tc *TemplateController) DeleteTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var template Models.InspectionTemplate
	if err := tc.DB.First(&template, id).Error; err != nil {
		return ctx.Status(fiber.StatusNotFound).JSON(fiber.Map{"error": "Template not found"})
	}

	err = tc.DB.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("template_id = ?", template.ID).Delete(&Models.InspectionTemplateItem{}).Error; err != nil {
			return err
		}
		if err := tx.Where("template_id = ?", template.ID).Delete(&Models.InspectionSection{}).Error; err != nil {
			return err
		}
		return tx.Delete(&template).Error
	})
	if err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to delete template"})
	}
	return ctx.JSON(fiber.Map{"message": "Template deleted successfully"})
}

// SeedDefaultItems fills a template with the canonical checklist. Refuses
// to seed twice since the model-level operation duplicates sections.
func (tc *TemplateController) SeedDefaultItems(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	var sectionCount int64
	if err := tc.DB.Model(&Models.InspectionSection{}).Where("template_id = ?", id).Count(&sectionCount).Error; err != nil {
		return ctx.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}
	if sectionCount > 0 {
		return ctx.Status(fiber.StatusConflict).JSON(fiber.Map{
			"error": "Template already has sections, seeding again would duplicate them",
		})
	}

	if err := Models.CreateDefaultItems(tc.DB, uint(id)); err != nil {
		return mapDomainError(ctx, err)
	}
	return ctx.JSON(fiber.Map{"message": "Default items created successfully"})
}

// DuplicateTemplate deep-copies a template
func (tc *TemplateController) DuplicateTemplate(ctx *fiber.Ctx) error {
	id, err := strconv.Atoi(ctx.Params("id"))
	if err != nil {
		return ctx.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "Invalid template ID"})
	}

	duplicate, err := Models.DuplicateTemplate(tc.DB, uint(id))
	if err != nil {
		return mapDomainError(ctx, err)
	}
	return ctx.Status(fiber.StatusCreated).JSON(duplicate)
}
