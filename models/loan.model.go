package models

import (
	"time"

	"gorm.io/gorm"
)

// LoanStatus defines the lifecycle of a loan
type LoanStatus string

const (
	LoanStatusActive LoanStatus = "ACTIVE"
	LoanStatusClosed LoanStatus = "CLOSED"
)

// Loan models a disbursed loan. OutstandingBalance only decreases under
// normal repayment.
type Loan struct {
	gorm.Model
	UserID             uint       `gorm:"not null;index" json:"userId"`
	LoanType           string     `gorm:"size:30;not null" json:"loanType"` // HOME, PERSONAL, CAR, ...
	LoanAmount         float64    `gorm:"type:decimal(15,2);not null" json:"loanAmount"`
	OutstandingBalance float64    `gorm:"type:decimal(15,2);not null" json:"outstandingBalance"`
	InterestRate       float64    `gorm:"type:decimal(5,2)" json:"interestRate"`
	MonthlyEMI         float64    `gorm:"type:decimal(12,2)" json:"monthlyEmi"`
	TenureMonths       int        `json:"tenureMonths"`
	NextDueDate        *time.Time `json:"nextDueDate"`
	Status             LoanStatus `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`
	DisbursedAt        time.Time  `json:"disbursedAt"`
	IsDeleted          bool       `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
