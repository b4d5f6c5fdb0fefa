package bankingRoutes

import (
	bankingController "finvoice/controllers/banking"
	"finvoice/middleware"
	bankingValidator "finvoice/validators/banking"

	"github.com/gofiber/fiber/v2"
)

func SetupBankingRoutes(app *fiber.App) {
	bankingGroup := app.Group("/banking")

	bankingGroup.Get("/balance", middleware.JWTMiddleware, bankingController.GetBalance)
	bankingGroup.Get("/transactions", middleware.JWTMiddleware, bankingController.TransactionHistory)
	bankingGroup.Get("/beneficiaries", middleware.JWTMiddleware, bankingController.BeneficiaryList)
	bankingGroup.Post("/beneficiaries", middleware.JWTMiddleware, bankingValidator.AddBeneficiary(), bankingController.AddBeneficiary)
	bankingGroup.Post("/transfer/initiate", middleware.JWTMiddleware, bankingValidator.Transfer(), bankingController.InitiateTransfer)
	bankingGroup.Post("/transfer/confirm", middleware.JWTMiddleware, bankingValidator.ConfirmTransfer(), bankingController.ConfirmTransfer)
	bankingGroup.Post("/bills/pay", middleware.JWTMiddleware, bankingValidator.PayBill(), bankingController.PayBill)
}
