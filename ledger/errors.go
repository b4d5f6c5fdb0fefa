// Package ledger implements the transactional banking store behind the
// voice assistant: balances, transaction history, beneficiaries, OTP-gated
// transfers, reminders and the audit trail. All functions take the *gorm.DB
// they should run against so handlers, schedulers and tests share one code
// path. Validation failures are reported as the sentinel errors below and
// are never coerced into generic failures.
package ledger

import "errors"

// ErrNotFound is returned when the user, account or requested record does
// not exist (or the owning user is inactive).
var ErrNotFound = errors.New("not found")

// ErrAccountInactive is returned when the account exists but is frozen.
var ErrAccountInactive = errors.New("account inactive")

// ErrInsufficientFunds is returned when a debit would overdraw the account.
var ErrInsufficientFunds = errors.New("insufficient funds")

// ErrInvalidBeneficiary is returned when the named beneficiary does not
// exist for this user or is inactive.
var ErrInvalidBeneficiary = errors.New("invalid beneficiary")

// ErrOtpMismatch is returned when the submitted OTP does not match. The
// pending transfer is burned; the caller must initiate a new one.
var ErrOtpMismatch = errors.New("otp mismatch")

// ErrOtpExpired is returned when the OTP validity window has passed.
var ErrOtpExpired = errors.New("otp expired")

// ErrAlreadyConfirmed is returned when a pending transfer was already
// confirmed; the duplicate submission has no effect.
var ErrAlreadyConfirmed = errors.New("transfer already confirmed")

// ErrConcurrentModification is returned when a guarded balance update loses
// against a concurrent writer and the operation cannot be applied safely.
var ErrConcurrentModification = errors.New("concurrent modification")

// ErrStorageUnavailable wraps unexpected infrastructure failures. Reads may
// be retried by the caller; ConfirmTransfer must be re-submitted explicitly
// with the same pending id.
var ErrStorageUnavailable = errors.New("storage unavailable")
