package authRoutes

import (
	authController "finvoice/controllers/auth"
	"finvoice/middleware"
	authValidator "finvoice/validators/auth"

	"github.com/gofiber/fiber/v2"
)

func SetupAuthRoutes(app *fiber.App) {
	authGroup := app.Group("/auth")

	authGroup.Post("/signup", authValidator.Signup(), authController.Signup)
	authGroup.Post("/login", authValidator.Login(), authController.Login)
	authGroup.Post("/refresh", authValidator.RefreshToken(), authController.RefreshToken)
	authGroup.Post("/logout", middleware.JWTMiddleware, authController.Logout)
	authGroup.Get("/me", middleware.JWTMiddleware, authController.Profile)
	authGroup.Get("/security-events", middleware.JWTMiddleware, authController.SecurityEventList)
	authGroup.Delete("/account", middleware.JWTMiddleware, authValidator.DeleteAccount(), authController.DeleteAccount)
}
