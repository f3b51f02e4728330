package worker

import (
	"context"
	"log"
	"time"

	"gorm.io/gorm"

	"fieldpulse/analytics"
	"fieldpulse/config"
	"fieldpulse/models"
	"fieldpulse/utils"
)

// ReminderWorker emails agents about appointments coming up within the
// configured horizon. Each visit is reminded at most once.
type ReminderWorker struct {
	DB     *gorm.DB
	Logger *log.Logger
}

func NewReminderWorker(db *gorm.DB, logger *log.Logger) *ReminderWorker {
	return &ReminderWorker{
		DB:     db,
		Logger: logger,
	}
}

func (rw *ReminderWorker) Start(ctx context.Context) {
	// Initial delay to let the server start up
	time.Sleep(10 * time.Second)

	rw.Logger.Println("Reminder worker started")

	ticker := time.NewTicker(1 * time.Hour)
	defer ticker.Stop()

	rw.processDueReminders()
	for {
		select {
		case <-ctx.Done():
			rw.Logger.Println("Reminder worker shutting down...")
			return
		case <-ticker.C:
			rw.processDueReminders()
		}
	}
}

func (rw *ReminderWorker) processDueReminders() {
	var visits []models.Visit
	if err := rw.DB.Where("appointment <> '' AND reminder_sent_at IS NULL").Find(&visits).Error; err != nil {
		rw.Logger.Printf("Error fetching appointment candidates: %v", err)
		return
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	horizon := today.AddDate(0, 0, config.AppConfig.ReminderHorizonDays)

	for _, visit := range visits {
		appt, ok := analytics.ParseDate(visit.Appointment, now.Location())
		if !ok {
			// Unparseable appointments are simply never reminded.
			continue
		}
		if appt.Before(today) || appt.After(horizon) {
			continue
		}

		if err := rw.sendReminder(visit, appt); err != nil {
			rw.Logger.Printf("Error sending reminder for visit %d: %v", visit.ID, err)
			continue
		}

		if err := rw.DB.Model(&visit).Update("reminder_sent_at", time.Now()).Error; err != nil {
			rw.Logger.Printf("Error marking visit %d reminded: %v", visit.ID, err)
		}
	}
}

func (rw *ReminderWorker) sendReminder(visit models.Visit, appt time.Time) error {
	return utils.SendAppointmentReminder(visit.Agent, utils.ReminderEmail{
		AgentName: analytics.AgentDisplayName(visit.Agent),
		StoreName: visit.StoreName,
		City:      visit.City,
		Address:   visit.Address,
		Date:      appt.Format("2006-01-02"),
	})
}
