package reminderRoutes

import (
	reminderController "finvoice/controllers/reminder"
	"finvoice/middleware"
	reminderValidator "finvoice/validators/reminder"

	"github.com/gofiber/fiber/v2"
)

func SetupReminderRoutes(app *fiber.App) {
	reminderGroup := app.Group("/reminder")

	reminderGroup.Post("/create", middleware.JWTMiddleware, reminderValidator.CreateReminder(), reminderController.CreateReminder)
	reminderGroup.Get("/upcoming", middleware.JWTMiddleware, reminderController.UpcomingReminders)
}
