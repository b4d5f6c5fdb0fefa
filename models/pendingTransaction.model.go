package models

import (
	"time"

	"gorm.io/gorm"
)

// PendingStatus is the state of a staged transfer awaiting OTP confirmation.
// A row leaves PENDING_OTP exactly once.
type PendingStatus string

const (
	PendingStatusAwaitingOTP PendingStatus = "PENDING_OTP"
	PendingStatusConfirmed   PendingStatus = "CONFIRMED"
	PendingStatusExpired     PendingStatus = "EXPIRED"
	PendingStatusFailed      PendingStatus = "FAILED"
)

// PendingTransaction stages an OTP-gated transfer. The OTP is stored bcrypt
// hashed and is invalidated after expiry or one verification attempt.
type PendingTransaction struct {
	gorm.Model
	UserID         uint               `gorm:"not null;index" json:"userId"`
	FromAccount    string             `gorm:"size:30;not null" json:"fromAccount"`
	ToAccount      string             `gorm:"size:30" json:"toAccount"`
	RecipientName  string             `gorm:"size:255" json:"recipientName"`
	BankName       string             `gorm:"size:100" json:"bankName"`
	Amount         float64            `gorm:"type:decimal(15,2);not null" json:"amount"`
	OTPHash        string             `gorm:"not null" json:"-"`
	OTPExpiresAt   time.Time          `gorm:"not null" json:"otpExpiresAt"`
	Status         PendingStatus      `gorm:"type:varchar(20);not null;default:'PENDING_OTP';index" json:"status"`
	Channel        TransactionChannel `gorm:"type:varchar(10);default:'VOICE'" json:"channel"`
	TransactionRef string             `gorm:"size:50" json:"transactionRef"`
	IsDeleted      bool               `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
