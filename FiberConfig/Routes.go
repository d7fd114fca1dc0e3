package FiberConfig

import (
	"fmt"
	"os"

	"Inspector/Controllers"
	"Inspector/middleware"
	"Inspector/Models"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/compress"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"gorm.io/gorm"
)

func SetupRoutes(app *fiber.App, db *gorm.DB) {
	// Initialize handlers
	templateController := Controllers.NewTemplateController(db)
	inspectionController := Controllers.NewInspectionController(db)
	vehicleController := Controllers.NewVehicleController(db)

	api := app.Group("/api")

	// Auth
	api.Post("/RegisterUser", middleware.Verify(4), Controllers.RegisterUser)
	api.Post("/Login", Controllers.Login)
	api.Post("/Logout", Controllers.Logout)
	api.Get("/User", middleware.Verify(1), Controllers.CurrentUser)
	api.Get("/validate-token", Controllers.ValidateToken)

	// Template catalog
	templates := api.Group("/templates", middleware.Verify(3))
	templates.Get("/", templateController.GetTemplates)
	templates.Post("/", templateController.CreateTemplate)
	templates.Get("/:id", templateController.GetTemplate)
	templates.Put("/:id", templateController.UpdateTemplate)
	templates.Delete("/:id", templateController.DeleteTemplate)
	templates.Post("/:id/default-items", templateController.SeedDefaultItems)
	templates.Post("/:id/duplicate", templateController.DuplicateTemplate)

	// Vehicles - fixed paths before the ID routes
	vehicles := api.Group("/vehicles", middleware.Verify(1))
	vehicles.Get("/search", vehicleController.SearchVehicles)
	vehicles.Get("/recent", vehicleController.RecentVehicles)
	vehicles.Post("/", middleware.Verify(3), vehicleController.RegisterVehicle)
	vehicles.Get("/:id", vehicleController.GetVehicle)
	vehicles.Post("/:id/start-inspection", vehicleController.StartInspection)
	vehicles.Get("/:id/maintenance-requests", vehicleController.GetMaintenanceRequests)

	// Inspection lifecycle
	inspections := api.Group("/inspections", middleware.Verify(1))
	inspections.Get("/", inspectionController.GetInspections)
	inspections.Post("/", inspectionController.CreateInspection)
	inspections.Get("/:id", inspectionController.GetInspection)
	inspections.Patch("/:id", inspectionController.UpdateInspectionDetails)
	inspections.Delete("/:id", middleware.Verify(3), inspectionController.DeleteInspection)
	inspections.Post("/:id/start", inspectionController.StartInspection)
	inspections.Post("/:id/complete", inspectionController.CompleteInspection)
	inspections.Post("/:id/resume", inspectionController.ResumeInspection)
	inspections.Post("/:id/cancel", inspectionController.CancelInspection)
	inspections.Get("/:id/next-item", inspectionController.GetNextItem)
	inspections.Get("/:id/previous-item", inspectionController.GetPreviousItem)

	// Mobile boundary endpoints - domain failures come back in the payload
	mobile := api.Group("/mobile", middleware.Verify(1))
	mobile.Post("/update-item-status", Controllers.UpdateItemStatus)
	mobile.Post("/upload-photo", Controllers.UploadPhoto)

	// Photos
	api.Get("/lines/:id/photos", middleware.Verify(1), Controllers.GetLinePhotos)
	api.Get("/photos/:id/image", middleware.Verify(1), Controllers.GetPhotoImage)

	// Settings and notifications
	api.Get("/settings/inspection", middleware.Verify(3), Controllers.GetInspectionSettings)
	api.Put("/settings/inspection", middleware.Verify(4), Controllers.UpdateInspectionSettings)
	api.Get("/notifications", middleware.Verify(1), Controllers.GetNotifications)

	// Reports
	api.Get("/reports/inspections", middleware.Verify(3), Controllers.ExportInspectionsReport)
	api.Get("/reports/statistics", middleware.Verify(1), Controllers.GetInspectionStatistics)

	app.Get("/health", func(c *fiber.Ctx) error {
		return c.JSON(fiber.Map{"status": "ok"})
	})
}

func FiberConfig() {
	fmt.Println("Server Up...")
	app := fiber.New()
	app.Use(middleware.RequestLogger())
	app.Use(compress.New(compress.Config{
		Level: compress.LevelBestCompression,
	}))
	app.Use(cors.New(cors.Config{
		AllowOrigins:     "*",
		AllowMethods:     "GET,POST,PUT,DELETE,OPTIONS,PATCH",
		AllowHeaders:     "Origin, Content-Type, Accept, Authorization, X-Requested-With",
		AllowCredentials: true,
		MaxAge:           300,
	}))

	SetupRoutes(app, Models.DB)

	port := os.Getenv("PORT")
	if port == "" {
		port = "3001"
	}
	app.Listen(":" + port)
}
