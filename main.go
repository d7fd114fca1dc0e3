package main

import (
	"log"

	"Inspector/CronJobs"
	"Inspector/FiberConfig"
	"Inspector/Models"

	"github.com/joho/godotenv"
)

func main() {
	if err := godotenv.Load(".env"); err != nil {
		log.Println("no .env file found, using environment defaults")
	}

	Models.Connect()

	dueChecker := CronJobs.NewDueChecker(true)
	if err := dueChecker.Start(); err != nil {
		log.Printf("Failed to start due checker: %v", err)
	}

	FiberConfig.FiberConfig()
}
