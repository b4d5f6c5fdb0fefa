package models

import (
	"time"

	"gorm.io/gorm"
)

// TransactionType defines the direction of a ledger entry
type TransactionType string

const (
	TransactionTypeDebit       TransactionType = "DEBIT"
	TransactionTypeCredit      TransactionType = "CREDIT"
	TransactionTypeBillPayment TransactionType = "BILL_PAYMENT"
)

// TransactionStatus defines the status of a ledger entry
type TransactionStatus string

const (
	TransactionStatusSuccess TransactionStatus = "SUCCESS"
	TransactionStatusFailed  TransactionStatus = "FAILED"
	TransactionStatusPending TransactionStatus = "PENDING"
)

// TransactionChannel records which surface initiated the transaction
type TransactionChannel string

const (
	ChannelVoice TransactionChannel = "VOICE"
	ChannelApp   TransactionChannel = "APP"
	ChannelWeb   TransactionChannel = "WEB"
)

// Transaction is an append-only ledger entry. Rows are never mutated after
// creation; corrections are new rows.
type Transaction struct {
	gorm.Model
	UserID          uint               `gorm:"not null;index:idx_transactions_user_ts,priority:1" json:"userId"`
	FromAccount     string             `gorm:"size:30" json:"fromAccount"`
	ToAccount       string             `gorm:"size:30" json:"toAccount"`
	RecipientName   string             `gorm:"size:255" json:"recipientName"`
	Amount          float64            `gorm:"type:decimal(15,2);not null" json:"amount"`
	Type            TransactionType    `gorm:"type:varchar(20);not null" json:"type"`
	Status          TransactionStatus  `gorm:"type:varchar(20);not null" json:"status"`
	ReferenceNumber string             `gorm:"unique;size:50" json:"referenceNumber"`
	Channel         TransactionChannel `gorm:"type:varchar(10);default:'VOICE'" json:"channel"`
	Description     string             `gorm:"type:text" json:"description"`
	Timestamp       time.Time          `gorm:"not null;index:idx_transactions_user_ts,priority:2,sort:desc" json:"timestamp"`
	IsDeleted       bool               `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
