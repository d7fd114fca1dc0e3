package Models

import (
	"log"
	"os"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
)

var DB *gorm.DB

func Connect() {
	path := os.Getenv("DB_PATH")
	if path == "" {
		path = "database.db"
	}

	connection, err := gorm.Open(sqlite.Open(path))
	if err != nil {
		log.Fatal("failed to open database:", err)
	}
	DB = connection

	if err := Migrate(DB); err != nil {
		log.Fatal("failed to migrate database:", err)
	}
}

// Migrate runs AutoMigrate in dependency order: base records first, then
// the template catalog, then the inspection records that reference both.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&User{},
		&Vehicle{},
		&ServiceType{},
		&InspectionSettings{},
		&Notification{},
	); err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&InspectionTemplate{},
		&InspectionSection{},
		&InspectionTemplateItem{},
	); err != nil {
		return err
	}

	if err := db.AutoMigrate(
		&Inspection{},
		&InspectionLine{},
		&InspectionPhoto{},
		&MaintenanceRequest{},
	); err != nil {
		return err
	}

	return seedServiceTypes(db)
}

// seedServiceTypes makes sure inspection follow-ups have a service type to
// resolve against on a fresh database.
func seedServiceTypes(db *gorm.DB) error {
	var count int64
	if err := db.Model(&ServiceType{}).Where("category = ?", "service").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	return db.Create(&ServiceType{Name: "Corrective Maintenance", Category: "service"}).Error
}
