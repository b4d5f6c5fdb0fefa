// Package scheduler runs the background jobs: lazy expiry of stale pending
// transfers and payment reminder notifications. It lives outside utils so it
// can call into the ledger core without an import cycle.
package scheduler

import (
	"finvoice/database"
	"finvoice/ledger"
	"finvoice/models"
	"finvoice/utils"
	"fmt"
	"log"
	"time"

	"github.com/robfig/cron/v3"
)

// logScheduler logs scheduler events with timestamp
func logScheduler(message string) {
	log.Printf("[REMINDER-SCHEDULER %s] %s", time.Now().Format(time.RFC3339), message)
}

// InitializeReminderScheduler starts the cron jobs in IST.
func InitializeReminderScheduler() *cron.Cron {
	logScheduler("Initializing reminder scheduler...")

	loc, err := time.LoadLocation("Asia/Kolkata")
	if err != nil {
		loc = time.FixedZone("IST", 5*60*60+30*60)
	}

	c := cron.New(cron.WithLocation(loc))

	// Reap staged transfers whose OTP window has passed. Confirmation
	// rejects them regardless; this only keeps the table tidy.
	c.AddFunc("*/10 * * * *", func() {
		expired, err := ledger.ExpireStalePending(database.Database.Db)
		if err != nil {
			logScheduler("Error expiring stale pending transfers: " + err.Error())
			return
		}
		if expired > 0 {
			logScheduler(fmt.Sprintf("Expired %d stale pending transfers", expired))
		}
	})

	// Daily at 9 AM IST notify users about payments due in the next 2 days
	c.AddFunc("0 9 * * *", func() {
		logScheduler("Running daily reminder check...")
		ProcessDueReminders()
	})

	c.Start()

	logScheduler("Reminder scheduler started - runs daily at 9 AM IST")
	return c
}

// ProcessDueReminders emails users whose ACTIVE reminders fall due within
// the next 2 days and marks them NOTIFIED.
func ProcessDueReminders() {
	db := database.Database.Db
	now := time.Now()
	twoDaysFromNow := now.AddDate(0, 0, 2)

	var dueReminders []models.PaymentReminder
	if err := db.
		Where("status = ? AND is_deleted = false", models.ReminderStatusActive).
		Where("due_date BETWEEN ? AND ?", now, twoDaysFromNow).
		Find(&dueReminders).Error; err != nil {
		logScheduler("Error fetching due reminders: " + err.Error())
		return
	}

	logScheduler(fmt.Sprintf("Found %d reminders due soon", len(dueReminders)))

	for _, reminder := range dueReminders {
		var user models.User
		if err := db.Where("id = ?", reminder.UserID).First(&user).Error; err != nil {
			logScheduler("Error fetching user for reminder: " + err.Error())
			continue
		}

		if user.Email != "" {
			if err := utils.SendReminderEmail(user.Email, user.Name, reminder.ReminderType, reminder.Amount, reminder.DueDate); err != nil {
				logScheduler("Error sending reminder email: " + err.Error())
				continue
			}
		}

		if err := db.Model(&models.PaymentReminder{}).
			Where("id = ? AND status = ?", reminder.ID, models.ReminderStatusActive).
			Update("status", models.ReminderStatusNotified).Error; err != nil {
			logScheduler("Error updating reminder status: " + err.Error())
		}
	}
}
