package loanController

import (
	"finvoice/database"
	"finvoice/ledger"
	"finvoice/middleware"
	"finvoice/utils"

	"github.com/gofiber/fiber/v2"
)

// Pre-approved offer terms applied to every eligibility check.
const (
	eligibilityMultiplier = 10
	offerInterestRate     = 8.5
	offerTenureMonths     = 60
)

func LoanList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	loans, totalOutstanding, err := ledger.ListActiveLoans(database.Database.Db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Failed to fetch loans!", nil)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Active Loan List.", fiber.Map{
		"loans":            loans,
		"totalOutstanding": totalOutstanding,
	})
}

func LoanEligibility(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	account, err := ledger.GetBalance(database.Database.Db, userId)
	if err != nil {
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Account not found!", nil)
	}

	maxAmount := account.Balance * eligibilityMultiplier
	eligible := maxAmount > 0

	var monthlyEMI float64
	if eligible {
		monthlyEMI = utils.CalculateEMI(maxAmount, offerInterestRate, offerTenureMonths)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Loan eligibility.", fiber.Map{
		"eligible":     eligible,
		"maxAmount":    maxAmount,
		"interestRate": offerInterestRate,
		"tenureMonths": offerTenureMonths,
		"monthlyEmi":   monthlyEMI,
	})
}
