package voiceValidator

import (
	"encoding/json"
	"finvoice/middleware"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// LogInteraction validator middleware
func LogInteraction() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			SessionID      string  `json:"sessionId"`
			Transcript     string  `json:"transcript"`
			DetectedIntent string  `json:"detectedIntent"`
			Confidence     float32 `json:"confidence"`
			ResponseText   string  `json:"responseText"`
			Language       string  `json:"language"`
			AudioPath      string  `json:"audioPath"`
			Entities       string  `json:"entities"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Session ID
		if strings.TrimSpace(reqData.SessionID) == "" {
			errors["sessionId"] = "Session id is required!"
		}

		// Validate Transcript
		if strings.TrimSpace(reqData.Transcript) == "" {
			errors["transcript"] = "Transcript is required!"
		}

		// Validate Confidence
		if reqData.Confidence < 0 || reqData.Confidence > 1 {
			errors["confidence"] = "Confidence must be between 0 and 1!"
		}

		// Validate Entities payload
		if reqData.Entities != "" && !json.Valid([]byte(reqData.Entities)) {
			errors["entities"] = "Entities must be valid JSON!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedVoiceLog", reqData)
		return c.Next()
	}
}
