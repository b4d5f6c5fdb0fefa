package bankingValidator

import (
	"finvoice/middleware"
	"finvoice/models"
	"regexp"
	"strings"

	"github.com/gofiber/fiber/v2"
)

// Helper to validate an account number (9 to 18 digits)
func isValidAccountNumber(accountNumber string) bool {
	re := regexp.MustCompile(`^\d{9,18}$`)
	return re.MatchString(accountNumber)
}

// Helper to validate a 6-digit OTP
func isValidOTP(otp string) bool {
	re := regexp.MustCompile(`^\d{6}$`)
	return re.MatchString(otp)
}

// Helper to validate the originating channel
func isValidChannel(channel string) bool {
	switch models.TransactionChannel(channel) {
	case models.ChannelVoice, models.ChannelApp, models.ChannelWeb:
		return true
	}
	return false
}

// AddBeneficiary validator middleware
func AddBeneficiary() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Nickname      string `json:"nickname"`
			FullName      string `json:"fullName"`
			AccountNumber string `json:"accountNumber"`
			BankName      string `json:"bankName"`
			IFSCCode      string `json:"ifscCode"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Nickname
		if strings.TrimSpace(reqData.Nickname) == "" {
			errors["nickname"] = "Nickname is required!"
		}

		// Validate Full Name
		if len(strings.TrimSpace(reqData.FullName)) < 3 {
			errors["fullName"] = "Full name must be at least 3 characters long!"
		}

		// Validate Account Number
		if !isValidAccountNumber(reqData.AccountNumber) {
			errors["accountNumber"] = "Invalid account number!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBeneficiary", reqData)
		return c.Next()
	}
}

// Transfer validator middleware
func Transfer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			Recipient string  `json:"recipient"`
			Amount    float64 `json:"amount"`
			Channel   string  `json:"channel"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Recipient
		if strings.TrimSpace(reqData.Recipient) == "" {
			errors["recipient"] = "Recipient is required!"
		}

		// Validate Amount
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		// Validate Channel
		if reqData.Channel != "" && !isValidChannel(reqData.Channel) {
			errors["channel"] = "Channel must be VOICE, APP or WEB!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedTransfer", reqData)
		return c.Next()
	}
}

// ConfirmTransfer validator middleware
func ConfirmTransfer() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			PendingTransactionID uint   `json:"pendingTransactionId"`
			OTP                  string `json:"otp"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Pending Transaction ID
		if reqData.PendingTransactionID == 0 {
			errors["pendingTransactionId"] = "Pending transaction id is required!"
		}

		// Validate OTP
		if !isValidOTP(reqData.OTP) {
			errors["otp"] = "OTP must be exactly 6 digits!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedConfirm", reqData)
		return c.Next()
	}
}

// PayBill validator middleware
func PayBill() fiber.Handler {
	return func(c *fiber.Ctx) error {
		reqData := new(struct {
			BillType   string  `json:"billType"`
			BillerName string  `json:"billerName"`
			Amount     float64 `json:"amount"`
			Channel    string  `json:"channel"`
		})
		if err := c.BodyParser(reqData); err != nil {
			return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request body!", nil)
		}

		errors := make(map[string]string)

		// Validate Bill Type
		if strings.TrimSpace(reqData.BillType) == "" {
			errors["billType"] = "Bill type is required!"
		}

		// Validate Biller Name
		if strings.TrimSpace(reqData.BillerName) == "" {
			errors["billerName"] = "Biller name is required!"
		}

		// Validate Amount
		if reqData.Amount <= 0 {
			errors["amount"] = "Amount must be greater than 0!"
		}

		// Validate Channel
		if reqData.Channel != "" && !isValidChannel(reqData.Channel) {
			errors["channel"] = "Channel must be VOICE, APP or WEB!"
		}

		// Respond with errors if any exist
		if len(errors) > 0 {
			return middleware.ValidationErrorResponse(c, errors)
		}

		c.Locals("validatedBill", reqData)
		return c.Next()
	}
}
