package bankingController

import (
	"errors"
	"finvoice/database"
	"finvoice/ledger"
	"finvoice/middleware"
	"finvoice/models"
	"finvoice/utils"
	"fmt"
	"log"

	"github.com/gofiber/fiber/v2"
)

// ledgerErrorResponse maps the ledger's sentinel errors onto HTTP responses.
func ledgerErrorResponse(c *fiber.Ctx, err error) error {
	switch {
	case errors.Is(err, ledger.ErrNotFound):
		return middleware.JsonResponse(c, fiber.StatusNotFound, false, "Account not found!", nil)
	case errors.Is(err, ledger.ErrAccountInactive):
		return middleware.JsonResponse(c, fiber.StatusForbidden, false, "Account is inactive!", nil)
	case errors.Is(err, ledger.ErrInsufficientFunds):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Insufficient funds!", nil)
	case errors.Is(err, ledger.ErrInvalidBeneficiary):
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Beneficiary not found!", nil)
	case errors.Is(err, ledger.ErrOtpMismatch):
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Invalid OTP. Please initiate the transfer again.", nil)
	case errors.Is(err, ledger.ErrOtpExpired):
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "OTP has expired. Please initiate the transfer again.", nil)
	case errors.Is(err, ledger.ErrAlreadyConfirmed):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transfer already confirmed!", nil)
	case errors.Is(err, ledger.ErrConcurrentModification):
		return middleware.JsonResponse(c, fiber.StatusConflict, false, "Transfer could not be applied. Please try again.", nil)
	default:
		log.Printf("Ledger error: %v", err)
		return middleware.JsonResponse(c, fiber.StatusInternalServerError, false, "Something went wrong!", nil)
	}
}

func GetBalance(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	account, err := ledger.GetBalance(database.Database.Db, userId)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Account balance.", fiber.Map{
		"accountNumber": account.AccountNumber,
		"accountType":   account.AccountType,
		"balance":       account.Balance,
		"currency":      account.Currency,
	})
}

func TransactionHistory(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	page := c.QueryInt("page", 1)
	limit := c.QueryInt("limit", 10)
	if page < 1 {
		page = 1
	}
	offset := (page - 1) * limit

	transactions, total, err := ledger.ListTransactions(database.Database.Db, userId, limit, offset)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	response := map[string]interface{}{
		"transactions": transactions,
		"pagination": map[string]interface{}{
			"total": total,
			"page":  page,
			"limit": limit,
		},
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transaction History.", response)
}

func BeneficiaryList(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	beneficiaries, err := ledger.ListBeneficiaries(database.Database.Db, userId)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Beneficiary List.", beneficiaries)
}

func AddBeneficiary(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedBeneficiary").(*struct {
		Nickname      string `json:"nickname"`
		FullName      string `json:"fullName"`
		AccountNumber string `json:"accountNumber"`
		BankName      string `json:"bankName"`
		IFSCCode      string `json:"ifscCode"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	beneficiary := models.Beneficiary{
		Nickname:      reqData.Nickname,
		FullName:      reqData.FullName,
		AccountNumber: reqData.AccountNumber,
		BankName:      reqData.BankName,
		IFSCCode:      reqData.IFSCCode,
	}

	if err := ledger.AddBeneficiary(database.Database.Db, userId, &beneficiary); err != nil {
		if errors.Is(err, ledger.ErrInvalidBeneficiary) {
			return middleware.JsonResponse(c, fiber.StatusConflict, false, "Nickname already exists!", nil)
		}
		return ledgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "Beneficiary added successfully.", beneficiary)
}

func InitiateTransfer(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedTransfer").(*struct {
		Recipient string  `json:"recipient"`
		Amount    float64 `json:"amount"`
		Channel   string  `json:"channel"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	channel := models.TransactionChannel(reqData.Channel)
	if channel == "" {
		channel = models.ChannelVoice
	}

	pending, otp, err := ledger.CreatePendingTransfer(db, userId, reqData.Recipient, reqData.Amount, channel)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	// OTP goes out of band only; it is never part of the response
	var user models.User
	if err := db.Where("id = ?", userId).First(&user).Error; err == nil {
		go func(phone, email, code string) {
			if phone != "" {
				if err := utils.SendOTPToMobile(phone, code); err != nil {
					log.Printf("Error sending OTP SMS: %v", err)
				}
			}
			if email != "" {
				if err := utils.SendOTPEmail(code, email); err != nil {
					log.Printf("Error sending OTP email: %v", err)
				}
			}
		}(user.Phone, user.Email, otp)
	}

	if err := ledger.RecordSecurityEvent(db, userId, models.EventOTPGenerated, c.IP(), c.Get("User-Agent"),
		fmt.Sprintf("OTP generated for pending transfer %d", pending.ID)); err != nil {
		log.Printf("Error recording security event: %v", err)
	}

	return middleware.JsonResponse(c, fiber.StatusCreated, true, "OTP sent. Confirm the transfer to proceed.", fiber.Map{
		"pendingTransactionId": pending.ID,
		"recipientName":        pending.RecipientName,
		"amount":               pending.Amount,
		"otpExpiresAt":         pending.OTPExpiresAt,
	})
}

func ConfirmTransfer(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedConfirm").(*struct {
		PendingTransactionID uint   `json:"pendingTransactionId"`
		OTP                  string `json:"otp"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	transaction, err := ledger.ConfirmTransfer(db, userId, reqData.PendingTransactionID, reqData.OTP)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	if err := ledger.RecordSecurityEvent(db, userId, models.EventOTPVerified, c.IP(), c.Get("User-Agent"),
		fmt.Sprintf("Transfer %s confirmed", transaction.ReferenceNumber)); err != nil {
		log.Printf("Error recording security event: %v", err)
	}

	account, err := ledger.GetBalance(db, userId)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Transfer completed successfully.", fiber.Map{
		"transaction": transaction,
		"newBalance":  account.Balance,
	})
}

func PayBill(c *fiber.Ctx) error {
	userId, ok := c.Locals("userId").(uint)
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusUnauthorized, false, "Unauthorized!", nil)
	}

	reqData, ok := c.Locals("validatedBill").(*struct {
		BillType   string  `json:"billType"`
		BillerName string  `json:"billerName"`
		Amount     float64 `json:"amount"`
		Channel    string  `json:"channel"`
	})
	if !ok {
		return middleware.JsonResponse(c, fiber.StatusBadRequest, false, "Invalid request data!", nil)
	}

	db := database.Database.Db

	channel := models.TransactionChannel(reqData.Channel)
	if channel == "" {
		channel = models.ChannelVoice
	}

	transaction, err := ledger.PayBill(db, userId, reqData.BillType, reqData.BillerName, reqData.Amount, channel)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	account, err := ledger.GetBalance(db, userId)
	if err != nil {
		return ledgerErrorResponse(c, err)
	}

	return middleware.JsonResponse(c, fiber.StatusOK, true, "Bill paid successfully.", fiber.Map{
		"transaction": transaction,
		"newBalance":  account.Balance,
	})
}
