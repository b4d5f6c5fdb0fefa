package reminderController

import (
	"finvoice/database"
	"finvoice/ledger"
	"finvoice/middleware"
	"finvoice/models"
	"time"

	"github.com/gofiber/fiber/v2"
)

func CreateReminder(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedReminder").(*struct {
		ReminderType string  `json:"reminderType"`
		Amount       float64 `json:"amount"`
		DueDate      string  `json:"dueDate"`
		Description  string  `json:"description"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	// Validator has already checked the format
	dueDate, _ := time.Parse("2006-01-02", reqData.DueDate)

	reminder := models.PaymentReminder{
		ReminderType: reqData.ReminderType,
		Amount:       reqData.Amount,
		DueDate:      dueDate,
		Description:  reqData.Description,
	}

	if err := ledger.CreateReminder(database.Database.Db, userId, &reminder); err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to create reminder!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Reminder created successfully.", reminder)
}

func UpcomingReminders(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	days := c.QueryInt("days", 7)

	reminders, totalDue, err := ledger.UpcomingReminders(database.Database.Db, userId, days)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch reminders!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Upcoming Reminders.", fiber.Map{
		"reminders": reminders,
		"totalDue":  totalDue,
	})
}
