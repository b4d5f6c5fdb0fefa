package models

import (
	"gorm.io/gorm"
)

// Account holds a user's bank account. Balance is authoritative only under
// the ledger's transactional boundary; it always equals opening balance plus
// the sum of committed signed transactions.
type Account struct {
	gorm.Model
	UserID        uint    `gorm:"not null;index" json:"userId"`
	AccountNumber string  `gorm:"unique;not null" json:"accountNumber"`
	AccountType   string  `gorm:"type:varchar(20);default:'SAVINGS'" json:"accountType"`
	Balance       float64 `gorm:"type:decimal(15,2);not null;default:0" json:"balance"`
	Currency      string  `gorm:"size:5;default:'INR'" json:"currency"`
	IsPrimary     bool    `gorm:"default:false" json:"isPrimary"`
	HasLoan       bool    `gorm:"default:false" json:"hasLoan"`
	IsActive      bool    `gorm:"default:true" json:"isActive"`
	IsDeleted     bool    `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
