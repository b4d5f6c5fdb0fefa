package ledger

import (
	"errors"
	"fmt"
	"time"

	"finvoice/models"
	"finvoice/utils"

	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

// OTPValidity is the window within which a staged transfer must be
// confirmed. main overrides it from configuration.
var OTPValidity = 5 * time.Minute

func storageErr(err error) error {
	return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
}

// activeUser loads the owning user, treating missing, deleted and
// deactivated users alike as not found.
func activeUser(db *gorm.DB, userID uint) (*models.User, error) {
	var user models.User
	if err := db.Where("id = ? AND is_active = true AND is_deleted = false", userID).First(&user).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	return &user, nil
}

// primaryAccount loads the user's primary account.
func primaryAccount(db *gorm.DB, userID uint) (*models.Account, error) {
	var account models.Account
	err := db.Where("user_id = ? AND is_primary = true AND is_deleted = false", userID).First(&account).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}
	if !account.IsActive {
		return nil, ErrAccountInactive
	}
	return &account, nil
}

// GetBalance returns the user's primary account with its current balance.
func GetBalance(db *gorm.DB, userID uint) (*models.Account, error) {
	if _, err := activeUser(db, userID); err != nil {
		return nil, err
	}
	return primaryAccount(db, userID)
}

// ListTransactions returns the user's ledger entries most recent first.
// Read-only; no side effects.
func ListTransactions(db *gorm.DB, userID uint, limit, offset int) ([]models.Transaction, int64, error) {
	if limit < 1 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	query := db.Model(&models.Transaction{}).Where("user_id = ? AND is_deleted = false", userID)

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	var transactions []models.Transaction
	if err := query.
		Order("timestamp DESC").
		Offset(offset).
		Limit(limit).
		Find(&transactions).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	return transactions, total, nil
}

// ListBeneficiaries returns the user's active beneficiaries.
func ListBeneficiaries(db *gorm.DB, userID uint) ([]models.Beneficiary, error) {
	var beneficiaries []models.Beneficiary
	if err := db.Where("user_id = ? AND is_active = true AND is_deleted = false", userID).
		Find(&beneficiaries).Error; err != nil {
		return nil, storageErr(err)
	}
	return beneficiaries, nil
}

// FindBeneficiary resolves a beneficiary by nickname, case-insensitively.
func FindBeneficiary(db *gorm.DB, userID uint, nickname string) (*models.Beneficiary, error) {
	var beneficiary models.Beneficiary
	err := db.Where("user_id = ? AND LOWER(nickname) = LOWER(?) AND is_active = true AND is_deleted = false",
		userID, nickname).First(&beneficiary).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrInvalidBeneficiary
		}
		return nil, storageErr(err)
	}
	return &beneficiary, nil
}

// AddBeneficiary saves a new transfer recipient for the user. Nicknames are
// unique per user among active beneficiaries.
func AddBeneficiary(db *gorm.DB, userID uint, beneficiary *models.Beneficiary) error {
	if _, err := activeUser(db, userID); err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Beneficiary{}).
		Where("user_id = ? AND LOWER(nickname) = LOWER(?) AND is_active = true AND is_deleted = false",
			userID, beneficiary.Nickname).
		Count(&count).Error; err != nil {
		return storageErr(err)
	}
	if count > 0 {
		return fmt.Errorf("%w: nickname %q already exists", ErrInvalidBeneficiary, beneficiary.Nickname)
	}

	beneficiary.UserID = userID
	beneficiary.IsActive = true
	if err := db.Create(beneficiary).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// CreatePendingTransfer validates and stages an OTP-gated transfer. On
// success it returns the pending row together with the plaintext OTP for
// out-of-band delivery; nothing is persisted on validation failure.
func CreatePendingTransfer(db *gorm.DB, userID uint, recipient string, amount float64, channel models.TransactionChannel) (*models.PendingTransaction, string, error) {
	if amount <= 0 {
		return nil, "", fmt.Errorf("%w: amount must be positive", ErrInsufficientFunds)
	}
	if _, err := activeUser(db, userID); err != nil {
		return nil, "", err
	}

	account, err := primaryAccount(db, userID)
	if err != nil {
		return nil, "", err
	}

	beneficiary, err := FindBeneficiary(db, userID, recipient)
	if err != nil {
		return nil, "", err
	}

	if account.Balance < amount {
		return nil, "", ErrInsufficientFunds
	}

	otp := utils.GenerateOTP()
	otpHash, err := bcrypt.GenerateFromPassword([]byte(otp), bcrypt.DefaultCost)
	if err != nil {
		return nil, "", storageErr(err)
	}

	pending := models.PendingTransaction{
		UserID:        userID,
		FromAccount:   account.AccountNumber,
		ToAccount:     beneficiary.AccountNumber,
		RecipientName: beneficiary.FullName,
		BankName:      beneficiary.BankName,
		Amount:        amount,
		OTPHash:       string(otpHash),
		OTPExpiresAt:  time.Now().Add(OTPValidity),
		Status:        models.PendingStatusAwaitingOTP,
		Channel:       channel,
	}

	if err := db.Create(&pending).Error; err != nil {
		return nil, "", storageErr(err)
	}

	return &pending, otp, nil
}

// ConfirmTransfer verifies the OTP and commits the staged transfer. The
// debit, the ledger entry, the optional internal credit and the CONFIRMED
// status change happen in one database transaction: either all of them
// commit or none does. A pending row leaves PENDING_OTP exactly once —
// concurrent or repeated submissions get ErrAlreadyConfirmed and the account
// is debited exactly once.
func ConfirmTransfer(db *gorm.DB, userID, pendingID uint, otp string) (*models.Transaction, error) {
	var record *models.Transaction
	var opErr error

	err := db.Transaction(func(tx *gorm.DB) error {
		var pending models.PendingTransaction
		if err := tx.Where("id = ? AND user_id = ? AND is_deleted = false", pendingID, userID).
			First(&pending).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				opErr = ErrNotFound
				return nil
			}
			return err
		}

		// Already-resolved rows report how they were resolved.
		switch pending.Status {
		case models.PendingStatusConfirmed:
			opErr = ErrAlreadyConfirmed
			return nil
		case models.PendingStatusExpired:
			opErr = ErrOtpExpired
			return nil
		case models.PendingStatusFailed:
			opErr = ErrOtpMismatch
			return nil
		}

		// Stored expiry is authoritative; no background sweep needed.
		if time.Now().After(pending.OTPExpiresAt) {
			if err := resolvePending(tx, pending.ID, models.PendingStatusExpired); err != nil {
				return err
			}
			opErr = ErrOtpExpired
			return nil
		}

		// One verification attempt: a mismatch burns the staged transfer.
		if bcrypt.CompareHashAndPassword([]byte(pending.OTPHash), []byte(otp)) != nil {
			if err := resolvePending(tx, pending.ID, models.PendingStatusFailed); err != nil {
				return err
			}
			event := models.SecurityEvent{
				UserID:    userID,
				EventType: models.EventOTPFailed,
				Details:   fmt.Sprintf("Invalid OTP for pending transfer %d", pending.ID),
			}
			if err := tx.Create(&event).Error; err != nil {
				return err
			}
			opErr = ErrOtpMismatch
			return nil
		}

		// Claim the row. The status guard serializes concurrent confirms:
		// at most one submission gets past this point.
		claim := tx.Model(&models.PendingTransaction{}).
			Where("id = ? AND status = ?", pending.ID, models.PendingStatusAwaitingOTP).
			Update("status", models.PendingStatusConfirmed)
		if claim.Error != nil {
			return claim.Error
		}
		if claim.RowsAffected == 0 {
			opErr = claimFailureReason(tx, pending.ID)
			return nil
		}

		// Debit under a balance guard so concurrent transfers on the same
		// account cannot produce a lost update or a negative balance.
		debit := tx.Model(&models.Account{}).
			Where("account_number = ? AND user_id = ? AND is_active = true AND balance >= ?",
				pending.FromAccount, userID, pending.Amount).
			Update("balance", gorm.Expr("balance - ?", pending.Amount))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			if err := tx.Model(&models.PendingTransaction{}).
				Where("id = ?", pending.ID).
				Update("status", models.PendingStatusFailed).Error; err != nil {
				return err
			}
			opErr = debitFailureReason(tx, pending)
			return nil
		}

		ref := utils.GenerateReferenceNumber("TXN")
		entry := models.Transaction{
			UserID:          userID,
			FromAccount:     pending.FromAccount,
			ToAccount:       pending.ToAccount,
			RecipientName:   pending.RecipientName,
			Amount:          pending.Amount,
			Type:            models.TransactionTypeDebit,
			Status:          models.TransactionStatusSuccess,
			ReferenceNumber: ref,
			Channel:         pending.Channel,
			Description:     "Transfer to " + pending.RecipientName,
			Timestamp:       time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		// Internal destinations are credited in the same commit. Cross-bank
		// account numbers have no matching row and only the debit is kept.
		if err := creditInternal(tx, &pending, ref); err != nil {
			return err
		}

		if err := tx.Model(&models.PendingTransaction{}).
			Where("id = ?", pending.ID).
			Update("transaction_ref", ref).Error; err != nil {
			return err
		}

		event := models.SecurityEvent{
			UserID:    userID,
			EventType: models.EventTransactionSuccess,
			Details:   fmt.Sprintf("Transfer %s of %.2f to %s", ref, pending.Amount, pending.RecipientName),
		}
		if err := tx.Create(&event).Error; err != nil {
			return err
		}

		record = &entry
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if opErr != nil {
		return nil, opErr
	}
	return record, nil
}

// resolvePending moves a pending row out of PENDING_OTP. The status guard
// keeps the transition single-shot.
func resolvePending(tx *gorm.DB, pendingID uint, status models.PendingStatus) error {
	return tx.Model(&models.PendingTransaction{}).
		Where("id = ? AND status = ?", pendingID, models.PendingStatusAwaitingOTP).
		Update("status", status).Error
}

// claimFailureReason classifies why the status claim affected no rows: the
// row left PENDING_OTP between the initial read and the claim (a concurrent
// confirm, or the reaper marking it EXPIRED).
func claimFailureReason(tx *gorm.DB, pendingID uint) error {
	var pending models.PendingTransaction
	if err := tx.First(&pending, pendingID).Error; err != nil {
		return ErrAlreadyConfirmed
	}
	switch pending.Status {
	case models.PendingStatusExpired:
		return ErrOtpExpired
	case models.PendingStatusFailed:
		return ErrOtpMismatch
	default:
		return ErrAlreadyConfirmed
	}
}

// debitFailureReason classifies why a guarded debit affected no rows.
func debitFailureReason(tx *gorm.DB, pending models.PendingTransaction) error {
	var account models.Account
	err := tx.Where("account_number = ? AND user_id = ? AND is_deleted = false",
		pending.FromAccount, pending.UserID).First(&account).Error
	if err != nil {
		return ErrNotFound
	}
	if !account.IsActive {
		return ErrAccountInactive
	}
	if account.Balance < pending.Amount {
		return ErrInsufficientFunds
	}
	return ErrConcurrentModification
}

// creditInternal credits the destination when the beneficiary account number
// belongs to an internal account, and records the matching CREDIT entry.
func creditInternal(tx *gorm.DB, pending *models.PendingTransaction, ref string) error {
	if pending.ToAccount == "" {
		return nil
	}

	var dest models.Account
	err := tx.Where("account_number = ? AND is_active = true AND is_deleted = false", pending.ToAccount).
		First(&dest).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil
		}
		return err
	}

	if err := tx.Model(&models.Account{}).
		Where("id = ?", dest.ID).
		Update("balance", gorm.Expr("balance + ?", pending.Amount)).Error; err != nil {
		return err
	}

	credit := models.Transaction{
		UserID:          dest.UserID,
		FromAccount:     pending.FromAccount,
		ToAccount:       dest.AccountNumber,
		RecipientName:   pending.RecipientName,
		Amount:          pending.Amount,
		Type:            models.TransactionTypeCredit,
		Status:          models.TransactionStatusSuccess,
		ReferenceNumber: ref + "-CR",
		Channel:         pending.Channel,
		Description:     "Received from account " + pending.FromAccount,
		Timestamp:       time.Now(),
	}
	return tx.Create(&credit).Error
}

// PayBill debits the primary account and records a BILL_PAYMENT entry in one
// transaction.
func PayBill(db *gorm.DB, userID uint, billType, billerName string, amount float64, channel models.TransactionChannel) (*models.Transaction, error) {
	if amount <= 0 {
		return nil, fmt.Errorf("%w: amount must be positive", ErrInsufficientFunds)
	}

	account, err := GetBalance(db, userID)
	if err != nil {
		return nil, err
	}
	if account.Balance < amount {
		return nil, ErrInsufficientFunds
	}

	var record *models.Transaction
	var opErr error

	err = db.Transaction(func(tx *gorm.DB) error {
		debit := tx.Model(&models.Account{}).
			Where("id = ? AND is_active = true AND balance >= ?", account.ID, amount).
			Update("balance", gorm.Expr("balance - ?", amount))
		if debit.Error != nil {
			return debit.Error
		}
		if debit.RowsAffected == 0 {
			opErr = ErrInsufficientFunds
			return nil
		}

		ref := utils.GenerateReferenceNumber("BILL")
		entry := models.Transaction{
			UserID:          userID,
			FromAccount:     account.AccountNumber,
			RecipientName:   billerName,
			Amount:          amount,
			Type:            models.TransactionTypeBillPayment,
			Status:          models.TransactionStatusSuccess,
			ReferenceNumber: ref,
			Channel:         channel,
			Description:     fmt.Sprintf("%s bill payment to %s", billType, billerName),
			Timestamp:       time.Now(),
		}
		if err := tx.Create(&entry).Error; err != nil {
			return err
		}

		record = &entry
		return nil
	})
	if err != nil {
		return nil, storageErr(err)
	}
	if opErr != nil {
		return nil, opErr
	}
	return record, nil
}

// RecordSecurityEvent appends a row to the security audit log.
func RecordSecurityEvent(db *gorm.DB, userID uint, eventType models.SecurityEventType, ip, device, details string) error {
	event := models.SecurityEvent{
		UserID:     userID,
		EventType:  eventType,
		IPAddress:  ip,
		DeviceInfo: device,
		Details:    details,
	}
	if err := db.Create(&event).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// LogVoiceInteraction appends one conversation turn, creating the voice
// session row on first use.
func LogVoiceInteraction(db *gorm.DB, userID uint, sessionID string, turn *models.ConversationHistory) error {
	if _, err := activeUser(db, userID); err != nil {
		return err
	}

	session := models.VoiceSession{
		SessionID: sessionID,
		UserID:    userID,
		Language:  turn.Language,
	}
	if err := db.Where("session_id = ?", sessionID).FirstOrCreate(&session).Error; err != nil {
		return storageErr(err)
	}
	if session.UserID != userID {
		return ErrNotFound
	}

	turn.UserID = userID
	turn.VoiceSessionID = session.ID
	if err := db.Create(turn).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// ListConversations returns the user's conversation turns, newest first.
func ListConversations(db *gorm.DB, userID uint, limit int) ([]models.ConversationHistory, error) {
	if limit < 1 {
		limit = 20
	}
	var turns []models.ConversationHistory
	if err := db.Where("user_id = ? AND is_deleted = false", userID).
		Order("created_at DESC").
		Limit(limit).
		Find(&turns).Error; err != nil {
		return nil, storageErr(err)
	}
	return turns, nil
}

// ListSessionConversations returns the turns of one voice session in order.
func ListSessionConversations(db *gorm.DB, userID uint, sessionID string) ([]models.ConversationHistory, error) {
	var session models.VoiceSession
	err := db.Where("session_id = ? AND user_id = ?", sessionID, userID).First(&session).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, storageErr(err)
	}

	var turns []models.ConversationHistory
	if err := db.Where("voice_session_id = ? AND is_deleted = false", session.ID).
		Order("created_at ASC").
		Find(&turns).Error; err != nil {
		return nil, storageErr(err)
	}
	return turns, nil
}

// ListActiveLoans returns the user's active loans and their combined
// outstanding balance.
func ListActiveLoans(db *gorm.DB, userID uint) ([]models.Loan, float64, error) {
	var loans []models.Loan
	if err := db.Where("user_id = ? AND status = ? AND is_deleted = false", userID, models.LoanStatusActive).
		Find(&loans).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	var total float64
	for _, loan := range loans {
		total += loan.OutstandingBalance
	}
	return loans, total, nil
}

// CreateReminder stores a payment reminder for the user.
func CreateReminder(db *gorm.DB, userID uint, reminder *models.PaymentReminder) error {
	if _, err := activeUser(db, userID); err != nil {
		return err
	}
	reminder.UserID = userID
	reminder.Status = models.ReminderStatusActive
	if err := db.Create(reminder).Error; err != nil {
		return storageErr(err)
	}
	return nil
}

// UpcomingReminders returns reminders due within the next `days` days,
// soonest first.
func UpcomingReminders(db *gorm.DB, userID uint, days int) ([]models.PaymentReminder, float64, error) {
	if days < 1 {
		days = 7
	}

	now := time.Now()
	until := now.AddDate(0, 0, days)

	var reminders []models.PaymentReminder
	if err := db.Where("user_id = ? AND status IN ? AND due_date BETWEEN ? AND ? AND is_deleted = false",
		userID, []models.ReminderStatus{models.ReminderStatusActive, models.ReminderStatusNotified}, now, until).
		Order("due_date ASC").
		Find(&reminders).Error; err != nil {
		return nil, 0, storageErr(err)
	}

	var total float64
	for _, reminder := range reminders {
		total += reminder.Amount
	}
	return reminders, total, nil
}

// ExpireStalePending lazily resolves staged transfers whose OTP window has
// passed. Expiry at confirm time does not depend on this; it only keeps the
// table tidy.
func ExpireStalePending(db *gorm.DB) (int64, error) {
	result := db.Model(&models.PendingTransaction{}).
		Where("status = ? AND otp_expires_at < ?", models.PendingStatusAwaitingOTP, time.Now()).
		Update("status", models.PendingStatusExpired)
	if result.Error != nil {
		return 0, storageErr(result.Error)
	}
	return result.RowsAffected, nil
}

// DeleteUser removes the user and every dependent row in one transaction so
// no orphans survive, mirroring the schema's cascade constraints on
// databases where they are not enforced.
func DeleteUser(db *gorm.DB, userID uint) error {
	err := db.Transaction(func(tx *gorm.DB) error {
		children := []interface{}{
			&models.ConversationHistory{},
			&models.VoiceSession{},
			&models.SecurityEvent{},
			&models.Session{},
			&models.PendingTransaction{},
			&models.Transaction{},
			&models.Beneficiary{},
			&models.PaymentReminder{},
			&models.Loan{},
			&models.Account{},
		}
		for _, child := range children {
			if err := tx.Unscoped().Where("user_id = ?", userID).Delete(child).Error; err != nil {
				return err
			}
		}

		result := tx.Unscoped().Where("id = ?", userID).Delete(&models.User{})
		if result.Error != nil {
			return result.Error
		}
		if result.RowsAffected == 0 {
			return ErrNotFound
		}
		return nil
	})
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return ErrNotFound
		}
		return storageErr(err)
	}
	return nil
}
