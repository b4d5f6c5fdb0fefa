package models

import (
	"gorm.io/gorm"
)

// Beneficiary is a saved transfer recipient. The account number is not
// required to reference an internal Account row (cross-bank transfers).
type Beneficiary struct {
	gorm.Model
	UserID        uint   `gorm:"not null;index" json:"userId"`
	Nickname      string `gorm:"size:100;not null" json:"nickname"`
	FullName      string `gorm:"size:255;not null" json:"fullName"`
	AccountNumber string `gorm:"not null" json:"accountNumber"`
	BankName      string `gorm:"size:100;default:'SBI'" json:"bankName"`
	IFSCCode      string `gorm:"size:20;default:''" json:"ifscCode"`
	IsActive      bool   `gorm:"default:true" json:"isActive"`
	IsDeleted     bool   `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
