package reminderValidator

import (
	"finvoice/middleware"
	"strings"
	"time"

	"github.com/gofiber/fiber/v2"
)

// CreateReminder validator middleware
func CreateReminder() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			ReminderType string  `json:"reminderType"`
			Amount       float64 `json:"amount"`
			DueDate      string  `json:"dueDate"`
			Description  string  `json:"description"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Reminder Type
		if strings.TrimSpace(reqData.ReminderType) == "" {
			errors["reminderType"] = "Reminder type is required!"
		}

		// Validate Amount
		if reqData.Amount < 0 {
			errors["amount"] = "Amount cannot be negative!"
		}

		// Validate Due Date
		if dueDate, err := time.Parse("2006-01-02", reqData.DueDate); err != nil {
			errors["dueDate"] = "Due date must be in YYYY-MM-DD format!"
		} else if dueDate.Before(time.Now().Truncate(24 * time.Hour)) {
			errors["dueDate"] = "Due date cannot be in the past!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedReminder", reqData)
		return c.Next()
	}
}
