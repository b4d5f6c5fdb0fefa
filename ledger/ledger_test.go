package ledger

import (
	"errors"
	"fmt"
	"testing"
	"time"

	"finvoice/database"
	"finvoice/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// setupTestDB opens an isolated in-memory database per test. The shared-cache
// DSN keeps gorm's pooled connections on the same database.
func setupTestDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	require.NoError(t, database.Migrate(db))
	return db
}

// seedUser creates an active user with a primary account holding the given
// opening balance.
func seedUser(t *testing.T, db *gorm.DB, email, phone, accountNumber string, balance float64) (models.User, models.Account) {
	t.Helper()

	user := models.User{
		Name:     "Test User",
		Email:    email,
		Phone:    phone,
		Password: "not-a-real-hash",
		IsActive: true,
	}
	require.NoError(t, db.Create(&user).Error)

	account := models.Account{
		UserID:        user.ID,
		AccountNumber: accountNumber,
		AccountType:   "SAVINGS",
		Balance:       balance,
		Currency:      "INR",
		IsPrimary:     true,
		IsActive:      true,
	}
	require.NoError(t, db.Create(&account).Error)

	return user, account
}

func seedBeneficiary(t *testing.T, db *gorm.DB, userID uint, nickname, accountNumber string) models.Beneficiary {
	t.Helper()

	beneficiary := models.Beneficiary{
		UserID:        userID,
		Nickname:      nickname,
		FullName:      nickname + " Kumar",
		AccountNumber: accountNumber,
		BankName:      "SBI",
		IsActive:      true,
	}
	require.NoError(t, db.Create(&beneficiary).Error)
	return beneficiary
}

func currentBalance(t *testing.T, db *gorm.DB, accountID uint) float64 {
	t.Helper()

	var account models.Account
	require.NoError(t, db.First(&account, accountID).Error)
	return account.Balance
}

func TestConfirmTransferDebitsAndRecords(t *testing.T) {
	db := setupTestDB(t)
	user, account := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 75230.50)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	pending, otp, err := CreatePendingTransfer(db, user.ID, "Mom", 5000, models.ChannelVoice)
	require.NoError(t, err)
	require.Len(t, otp, 6)
	assert.Equal(t, models.PendingStatusAwaitingOTP, pending.Status)

	transaction, err := ConfirmTransfer(db, user.ID, pending.ID, otp)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypeDebit, transaction.Type)
	assert.Equal(t, models.TransactionStatusSuccess, transaction.Status)
	assert.Equal(t, 5000.0, transaction.Amount)
	assert.NotEmpty(t, transaction.ReferenceNumber)
	assert.InDelta(t, 70230.50, currentBalance(t, db, account.ID), 0.001)

	var stored models.PendingTransaction
	require.NoError(t, db.First(&stored, pending.ID).Error)
	assert.Equal(t, models.PendingStatusConfirmed, stored.Status)
	assert.Equal(t, transaction.ReferenceNumber, stored.TransactionRef)
}

func TestConfirmTransferTwiceDebitsOnce(t *testing.T) {
	db := setupTestDB(t)
	user, account := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 10000)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	pending, otp, err := CreatePendingTransfer(db, user.ID, "Mom", 2500, models.ChannelVoice)
	require.NoError(t, err)

	_, err = ConfirmTransfer(db, user.ID, pending.ID, otp)
	require.NoError(t, err)

	_, err = ConfirmTransfer(db, user.ID, pending.ID, otp)
	assert.ErrorIs(t, err, ErrAlreadyConfirmed)

	// Exactly one debit
	var count int64
	db.Model(&models.Transaction{}).Where("user_id = ? AND type = ?", user.ID, models.TransactionTypeDebit).Count(&count)
	assert.Equal(t, int64(1), count)
	assert.InDelta(t, 7500, currentBalance(t, db, account.ID), 0.001)
}

func TestInitiateTransferInsufficientFunds(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 100)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	_, _, err := CreatePendingTransfer(db, user.ID, "Mom", 5000, models.ChannelVoice)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	// Nothing is staged on validation failure
	var count int64
	db.Model(&models.PendingTransaction{}).Where("user_id = ?", user.ID).Count(&count)
	assert.Equal(t, int64(0), count)
}

func TestInitiateTransferUnknownBeneficiary(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 10000)

	_, _, err := CreatePendingTransfer(db, user.ID, "Stranger", 100, models.ChannelVoice)
	assert.ErrorIs(t, err, ErrInvalidBeneficiary)
}

func TestConfirmTransferExpiredOTP(t *testing.T) {
	db := setupTestDB(t)
	user, account := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 10000)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	pending, otp, err := CreatePendingTransfer(db, user.ID, "Mom", 1000, models.ChannelVoice)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.PendingTransaction{}).
		Where("id = ?", pending.ID).
		Update("otp_expires_at", time.Now().Add(-time.Second)).Error)

	_, err = ConfirmTransfer(db, user.ID, pending.ID, otp)
	assert.ErrorIs(t, err, ErrOtpExpired)
	assert.InDelta(t, 10000, currentBalance(t, db, account.ID), 0.001)

	// The expiry resolution committed even though the confirm failed
	var stored models.PendingTransaction
	require.NoError(t, db.First(&stored, pending.ID).Error)
	assert.Equal(t, models.PendingStatusExpired, stored.Status)

	// A correct OTP cannot revive an expired transfer
	_, err = ConfirmTransfer(db, user.ID, pending.ID, otp)
	assert.ErrorIs(t, err, ErrOtpExpired)
}

func TestConfirmTransferWrongOTPBurnsPending(t *testing.T) {
	db := setupTestDB(t)
	user, account := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 10000)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	pending, otp, err := CreatePendingTransfer(db, user.ID, "Mom", 1000, models.ChannelVoice)
	require.NoError(t, err)

	wrong := "000000"
	if wrong == otp {
		wrong = "000001"
	}

	_, err = ConfirmTransfer(db, user.ID, pending.ID, wrong)
	assert.ErrorIs(t, err, ErrOtpMismatch)
	assert.InDelta(t, 10000, currentBalance(t, db, account.ID), 0.001)

	// One attempt only: the right OTP no longer works
	_, err = ConfirmTransfer(db, user.ID, pending.ID, otp)
	assert.ErrorIs(t, err, ErrOtpMismatch)

	var events int64
	db.Model(&models.SecurityEvent{}).
		Where("user_id = ? AND event_type = ?", user.ID, models.EventOTPFailed).
		Count(&events)
	assert.Equal(t, int64(1), events)
}

func TestConfirmTransferCreditsInternalDestination(t *testing.T) {
	db := setupTestDB(t)
	sender, senderAccount := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 10000)
	_, receiverAccount := seedUser(t, db, "priya@example.com", "9123456780", "444455556666", 500)
	seedBeneficiary(t, db, sender.ID, "Priya", receiverAccount.AccountNumber)

	pending, otp, err := CreatePendingTransfer(db, sender.ID, "Priya", 3000, models.ChannelApp)
	require.NoError(t, err)

	transaction, err := ConfirmTransfer(db, sender.ID, pending.ID, otp)
	require.NoError(t, err)

	assert.InDelta(t, 7000, currentBalance(t, db, senderAccount.ID), 0.001)
	assert.InDelta(t, 3500, currentBalance(t, db, receiverAccount.ID), 0.001)

	var credit models.Transaction
	require.NoError(t, db.Where("reference_number = ?", transaction.ReferenceNumber+"-CR").First(&credit).Error)
	assert.Equal(t, models.TransactionTypeCredit, credit.Type)
	assert.Equal(t, receiverAccount.UserID, credit.UserID)
}

func TestBalanceEqualsOpeningPlusSignedSum(t *testing.T) {
	db := setupTestDB(t)
	user, account := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 50000)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	amounts := []float64{1200.50, 300, 4999.99, 75.25}
	var debited float64
	for _, amount := range amounts {
		pending, otp, err := CreatePendingTransfer(db, user.ID, "Mom", amount, models.ChannelVoice)
		require.NoError(t, err)
		_, err = ConfirmTransfer(db, user.ID, pending.ID, otp)
		require.NoError(t, err)
		debited += amount
	}

	assert.InDelta(t, 50000-debited, currentBalance(t, db, account.ID), 0.001)

	transactions, total, err := ListTransactions(db, user.ID, 50, 0)
	require.NoError(t, err)
	assert.Equal(t, int64(len(amounts)), total)

	// Newest first
	for i := 1; i < len(transactions); i++ {
		assert.False(t, transactions[i].Timestamp.After(transactions[i-1].Timestamp))
	}
}

func TestPayBillDebitsAndRecords(t *testing.T) {
	db := setupTestDB(t)
	user, account := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 2000)

	transaction, err := PayBill(db, user.ID, "ELECTRICITY", "MSEB", 750, models.ChannelVoice)
	require.NoError(t, err)

	assert.Equal(t, models.TransactionTypeBillPayment, transaction.Type)
	assert.InDelta(t, 1250, currentBalance(t, db, account.ID), 0.001)

	_, err = PayBill(db, user.ID, "ELECTRICITY", "MSEB", 5000, models.ChannelVoice)
	assert.ErrorIs(t, err, ErrInsufficientFunds)
}

func TestAddBeneficiaryRejectsDuplicateNickname(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 1000)

	first := models.Beneficiary{Nickname: "Mom", FullName: "Sunita Kumar", AccountNumber: "999988887777"}
	require.NoError(t, AddBeneficiary(db, user.ID, &first))

	// Nickname matching is case-insensitive
	duplicate := models.Beneficiary{Nickname: "mom", FullName: "Someone Else", AccountNumber: "111100002222"}
	err := AddBeneficiary(db, user.ID, &duplicate)
	assert.ErrorIs(t, err, ErrInvalidBeneficiary)

	found, err := FindBeneficiary(db, user.ID, "MOM")
	require.NoError(t, err)
	assert.Equal(t, first.ID, found.ID)
}

func TestExpireStalePending(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 10000)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	stale, _, err := CreatePendingTransfer(db, user.ID, "Mom", 100, models.ChannelVoice)
	require.NoError(t, err)
	fresh, _, err := CreatePendingTransfer(db, user.ID, "Mom", 200, models.ChannelVoice)
	require.NoError(t, err)

	require.NoError(t, db.Model(&models.PendingTransaction{}).
		Where("id = ?", stale.ID).
		Update("otp_expires_at", time.Now().Add(-time.Minute)).Error)

	expired, err := ExpireStalePending(db)
	require.NoError(t, err)
	assert.Equal(t, int64(1), expired)

	// A populated destination carries its primary key into the next query,
	// so each lookup gets its own struct.
	var staleStored models.PendingTransaction
	require.NoError(t, db.First(&staleStored, stale.ID).Error)
	assert.Equal(t, models.PendingStatusExpired, staleStored.Status)

	var freshStored models.PendingTransaction
	require.NoError(t, db.First(&freshStored, fresh.ID).Error)
	assert.Equal(t, models.PendingStatusAwaitingOTP, freshStored.Status)
}

func TestClaimFailureReasonReportsActualStatus(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 10000)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	// The reaper can move a row to EXPIRED between the confirm's initial
	// read and its status claim; the lost claim must not masquerade as an
	// already-confirmed transfer.
	for _, tc := range []struct {
		status models.PendingStatus
		want   error
	}{
		{models.PendingStatusExpired, ErrOtpExpired},
		{models.PendingStatusFailed, ErrOtpMismatch},
		{models.PendingStatusConfirmed, ErrAlreadyConfirmed},
	} {
		pending, _, err := CreatePendingTransfer(db, user.ID, "Mom", 100, models.ChannelVoice)
		require.NoError(t, err)

		require.NoError(t, db.Model(&models.PendingTransaction{}).
			Where("id = ?", pending.ID).
			Update("status", tc.status).Error)

		assert.ErrorIs(t, claimFailureReason(db, pending.ID), tc.want)
	}
}

func TestTransactionUserTimestampIndex(t *testing.T) {
	db := setupTestDB(t)

	// The history read path pages by user and timestamp
	assert.True(t, db.Migrator().HasIndex(&models.Transaction{}, "idx_transactions_user_ts"))
}

func TestUpcomingRemindersWindow(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 1000)

	soon := models.PaymentReminder{ReminderType: "EMI", Amount: 4500, DueDate: time.Now().AddDate(0, 0, 3)}
	require.NoError(t, CreateReminder(db, user.ID, &soon))

	far := models.PaymentReminder{ReminderType: "RENT", Amount: 15000, DueDate: time.Now().AddDate(0, 0, 30)}
	require.NoError(t, CreateReminder(db, user.ID, &far))

	reminders, totalDue, err := UpcomingReminders(db, user.ID, 7)
	require.NoError(t, err)
	require.Len(t, reminders, 1)
	assert.Equal(t, "EMI", reminders[0].ReminderType)
	assert.InDelta(t, 4500, totalDue, 0.001)
}

func TestListActiveLoansTotalsOutstanding(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 1000)

	require.NoError(t, db.Create(&models.Loan{
		UserID: user.ID, LoanType: "HOME", LoanAmount: 2500000,
		OutstandingBalance: 1800000, InterestRate: 8.5, Status: models.LoanStatusActive,
	}).Error)
	require.NoError(t, db.Create(&models.Loan{
		UserID: user.ID, LoanType: "CAR", LoanAmount: 600000,
		OutstandingBalance: 0, InterestRate: 9.2, Status: models.LoanStatusClosed,
	}).Error)

	loans, total, err := ListActiveLoans(db, user.ID)
	require.NoError(t, err)
	require.Len(t, loans, 1)
	assert.Equal(t, "HOME", loans[0].LoanType)
	assert.InDelta(t, 1800000, total, 0.001)
}

func TestLogVoiceInteractionSessionOwnership(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 1000)
	other, _ := seedUser(t, db, "priya@example.com", "9123456780", "444455556666", 1000)

	turn := models.ConversationHistory{
		Transcript:     "check my balance",
		DetectedIntent: "BALANCE_INQUIRY",
		Confidence:     0.94,
		ResponseText:   "Your balance is 1000 rupees",
		Language:       "en-IN",
	}
	require.NoError(t, LogVoiceInteraction(db, user.ID, "sess-1", &turn))

	second := models.ConversationHistory{Transcript: "send money to mom", DetectedIntent: "TRANSFER", Confidence: 0.88}
	require.NoError(t, LogVoiceInteraction(db, user.ID, "sess-1", &second))

	// Another user cannot append to the session
	hijack := models.ConversationHistory{Transcript: "what is my balance"}
	assert.ErrorIs(t, LogVoiceInteraction(db, other.ID, "sess-1", &hijack), ErrNotFound)

	turns, err := ListSessionConversations(db, user.ID, "sess-1")
	require.NoError(t, err)
	require.Len(t, turns, 2)
	assert.Equal(t, "check my balance", turns[0].Transcript)

	_, err = ListSessionConversations(db, other.ID, "sess-1")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestDeleteUserLeavesNoOrphans(t *testing.T) {
	db := setupTestDB(t)
	user, _ := seedUser(t, db, "ravi@example.com", "9876543210", "111122223333", 10000)
	seedBeneficiary(t, db, user.ID, "Mom", "999988887777")

	pending, otp, err := CreatePendingTransfer(db, user.ID, "Mom", 500, models.ChannelVoice)
	require.NoError(t, err)
	_, err = ConfirmTransfer(db, user.ID, pending.ID, otp)
	require.NoError(t, err)

	turn := models.ConversationHistory{Transcript: "send money"}
	require.NoError(t, LogVoiceInteraction(db, user.ID, "sess-1", &turn))
	require.NoError(t, CreateReminder(db, user.ID, &models.PaymentReminder{ReminderType: "EMI", DueDate: time.Now().AddDate(0, 0, 5)}))

	require.NoError(t, DeleteUser(db, user.ID))

	tables := []interface{}{
		&models.Account{}, &models.Beneficiary{}, &models.Transaction{},
		&models.PendingTransaction{}, &models.SecurityEvent{}, &models.Session{},
		&models.VoiceSession{}, &models.ConversationHistory{}, &models.PaymentReminder{}, &models.Loan{},
	}
	for _, table := range tables {
		var count int64
		require.NoError(t, db.Model(table).Where("user_id = ?", user.ID).Count(&count).Error)
		assert.Equal(t, int64(0), count, "orphan rows in %T", table)
	}

	assert.True(t, errors.Is(DeleteUser(db, user.ID), ErrNotFound))
}
