package CronJobs

import (
	"fmt"
	"log"

	"Inspector/Models"

	"github.com/robfig/cron/v3"
)

// DueChecker is the scheduled sweep that flags vehicles overdue for
// inspection.
type DueChecker struct {
	cronScheduler  *cron.Cron
	runImmediately bool
	jobID          cron.EntryID
}

// NewDueChecker creates a due checker. With runImmediately set the first
// sweep happens at startup instead of waiting for the schedule.
func NewDueChecker(runImmediately bool) *DueChecker {
	return &DueChecker{
		cronScheduler:  cron.New(cron.WithSeconds()),
		runImmediately: runImmediately,
	}
}

// Start schedules the daily sweep at 06:00.
func (d *DueChecker) Start() error {
	var err error
	d.jobID, err = d.cronScheduler.AddFunc("0 0 6 * * *", func() {
		log.Println("Running scheduled inspection due check")
		d.runDueCheck()
	})
	if err != nil {
		return fmt.Errorf("error scheduling cron job: %w", err)
	}

	d.cronScheduler.Start()
	log.Println("Inspection due scheduler started - will run daily at 6:00 AM")

	if d.runImmediately {
		d.runDueCheck()
	}
	return nil
}

// Stop terminates the scheduler.
func (d *DueChecker) Stop() {
	if d.cronScheduler != nil {
		d.cronScheduler.Remove(d.jobID)
		d.cronScheduler.Stop()
	}
}

// runDueCheck recomputes each active vehicle's inspection summary and
// stores a reminder for every vehicle that is due. Failures only log; the
// next sweep picks up whatever this one missed.
func (d *DueChecker) runDueCheck() {
	var vehicles []Models.Vehicle
	if err := Models.DB.Where("active = ?", true).Find(&vehicles).Error; err != nil {
		log.Printf("due check: failed to list vehicles: %v", err)
		return
	}

	due := 0
	for _, vehicle := range vehicles {
		stats, err := Models.ComputeInspectionStats(Models.DB, vehicle.ID)
		if err != nil {
			log.Printf("due check: failed to compute stats for vehicle %d: %v", vehicle.ID, err)
			continue
		}
		if !stats.InspectionDue || stats.HasDraftInspection {
			continue
		}
		Models.NotifyInspectionDue(Models.DB, &vehicle, stats.DaysSinceInspection)
		due++
	}
	log.Printf("due check completed: %d of %d vehicles due for inspection", due, len(vehicles))
}
