package voiceController

import (
	"errors"
	"finvoice/database"
	"finvoice/ledger"
	"finvoice/middleware"
	"finvoice/models"

	"github.com/gofiber/fiber/v2"
	"gorm.io/datatypes"
)

func LogInteraction(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedVoiceLog").(*struct {
		SessionID      string  `json:"sessionId"`
		Transcript     string  `json:"transcript"`
		DetectedIntent string  `json:"detectedIntent"`
		Confidence     float32 `json:"confidence"`
		ResponseText   string  `json:"responseText"`
		Language       string  `json:"language"`
		AudioPath      string  `json:"audioPath"`
		Entities       string  `json:"entities"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	turn := models.ConversationHistory{
		Transcript:     reqData.Transcript,
		DetectedIntent: reqData.DetectedIntent,
		Confidence:     reqData.Confidence,
		ResponseText:   reqData.ResponseText,
		Language:       reqData.Language,
		AudioPath:      reqData.AudioPath,
	}
	if reqData.Entities != "" {
		turn.Entities = datatypes.JSON(reqData.Entities)
	}

	if err := ledger.LogVoiceInteraction(database.Database.Db, userId, reqData.SessionID, &turn); err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session belongs to another user!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to log interaction!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Interaction logged.", turn)
}

func ConversationList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	limit := c.QueryInt("limit", 20)

	turns, err := ledger.ListConversations(database.Database.Db, userId, limit)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch conversations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Conversation History.", turns)
}

func SessionConversationList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	sessionId := c.Params("sessionId")
	if sessionId == "" {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Session id is required!", nil)
	}

	turns, err := ledger.ListSessionConversations(database.Database.Db, userId, sessionId)
	if err != nil {
		if errors.Is(err, ledger.ErrNotFound) {
			return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Session not found!", nil)
		}
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch conversations!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Session Conversation History.", turns)
}
