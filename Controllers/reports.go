package Controllers

import (
	"fmt"
	"time"

	"Inspector/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/xuri/excelize/v2"
)

// ExportInspectionsReport writes completed inspections to an Excel
// workbook, one row per inspection
// GET /api/reports/inspections?from=&to=
func ExportInspectionsReport(c *fiber.Ctx) error {
	query := Models.DB.Where("state = ?", Models.StateCompleted)

	if from := c.Query("from"); from != "" {
		date, err := time.Parse("2006-01-02", from)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "from must be in YYYY-MM-DD format"})
		}
		query = query.Where("inspection_date >= ?", date)
	}
	if to := c.Query("to"); to != "" {
		date, err := time.Parse("2006-01-02", to)
		if err != nil {
			return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "to must be in YYYY-MM-DD format"})
		}
		query = query.Where("inspection_date < ?", date.AddDate(0, 0, 1))
	}

	var inspections []Models.Inspection
	if err := query.Order("inspection_date ASC").Find(&inspections).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	file := excelize.NewFile()
	defer file.Close()

	sheet := "Inspections"
	index, err := file.NewSheet(sheet)
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}
	file.SetActiveSheet(index)
	file.DeleteSheet("Sheet1")

	headers := []string{
		"Inspection", "Vehicle", "Date", "Odometer", "Good", "Regular",
		"Bad", "N/A", "Total", "Completion %", "Overall Status", "Minutes",
	}
	for col, header := range headers {
		cell, _ := excelize.CoordinatesToCellName(col+1, 1)
		file.SetCellValue(sheet, cell, header)
	}

	for row, inspection := range inspections {
		values := []interface{}{
			inspection.Name,
			inspection.VehicleName,
			inspection.InspectionDate.Format("2006-01-02"),
			inspection.Odometer,
			inspection.ItemsGood,
			inspection.ItemsRegular,
			inspection.ItemsBad,
			inspection.ItemsNA,
			inspection.TotalItems,
			inspection.CompletionPercentage,
			inspection.OverallStatus,
			inspection.CompletionMinutes,
		}
		for col, value := range values {
			cell, _ := excelize.CoordinatesToCellName(col+1, row+2)
			file.SetCellValue(sheet, cell, value)
		}
	}

	buffer, err := file.WriteToBuffer()
	if err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Failed to build report"})
	}

	filename := fmt.Sprintf("inspections_%s.xlsx", time.Now().Format("20060102"))
	c.Set("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Set("Content-Disposition", `attachment; filename="`+filename+`"`)
	return c.Send(buffer.Bytes())
}

// GetInspectionStatistics returns fleet-wide inspection counters for the
// dashboard widgets
// GET /api/reports/statistics
func GetInspectionStatistics(c *fiber.Ctx) error {
	var completed, drafts, overdueRequests int64
	Models.DB.Model(&Models.Inspection{}).Where("state = ?", Models.StateCompleted).Count(&completed)
	Models.DB.Model(&Models.Inspection{}).Where("state = ?", Models.StateDraft).Count(&drafts)
	Models.DB.Model(&Models.MaintenanceRequest{}).Where("state = ?", Models.MaintenanceStateNew).Count(&overdueRequests)

	var vehicles []Models.Vehicle
	if err := Models.DB.Where("active = ?", true).Find(&vehicles).Error; err != nil {
		return c.Status(fiber.StatusInternalServerError).JSON(fiber.Map{"error": "Database error"})
	}

	due := 0
	for _, vehicle := range vehicles {
		stats, err := Models.ComputeInspectionStats(Models.DB, vehicle.ID)
		if err != nil {
			continue
		}
		if stats.InspectionDue {
			due++
		}
	}

	return c.JSON(fiber.Map{
		"completed_inspections": completed,
		"draft_inspections":     drafts,
		"open_maintenance":      overdueRequests,
		"vehicles_due":          due,
		"active_vehicles":       len(vehicles),
	})
}
