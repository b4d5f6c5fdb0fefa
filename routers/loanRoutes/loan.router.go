package loanRoutes

import (
	loanController "finvoice/controllers/loan"
	"finvoice/middleware"

	"github.com/gofiber/fiber/v2"
)

func SetupLoanRoutes(app *fiber.App) {
	loanGroup := app.Group("/loan")

	loanGroup.Get("/list", middleware.JWTMiddleware, loanController.LoanList)
	loanGroup.Get("/eligibility", middleware.JWTMiddleware, loanController.LoanEligibility)
}
