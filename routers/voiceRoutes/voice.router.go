package voiceRoutes

import (
	voiceController "finvoice/controllers/voice"
	"finvoice/middleware"
	voiceValidator "finvoice/validators/voice"

	"github.com/gofiber/fiber/v2"
)

func SetupVoiceRoutes(app *fiber.App) {
	voiceGroup := app.Group("/voice")

	voiceGroup.Post("/log", middleware.JWTMiddleware, voiceValidator.LogInteraction(), voiceController.LogInteraction)
	voiceGroup.Get("/conversations", middleware.JWTMiddleware, voiceController.ConversationList)
	voiceGroup.Get("/conversations/:sessionId", middleware.JWTMiddleware, voiceController.SessionConversationList)
}
