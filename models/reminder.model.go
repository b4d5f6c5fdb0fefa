package models

import (
	"time"

	"gorm.io/gorm"
)

// ReminderStatus defines the lifecycle of a payment reminder
type ReminderStatus string

const (
	ReminderStatusActive    ReminderStatus = "ACTIVE"
	ReminderStatusNotified  ReminderStatus = "NOTIFIED"
	ReminderStatusCompleted ReminderStatus = "COMPLETED"
	ReminderStatusCancelled ReminderStatus = "CANCELLED"
)

// PaymentReminder is a user-set reminder for an upcoming payment.
type PaymentReminder struct {
	gorm.Model
	UserID       uint           `gorm:"not null;index" json:"userId"`
	ReminderType string         `gorm:"size:30;not null" json:"reminderType"` // BILL, EMI, RENT, ...
	Amount       float64        `gorm:"type:decimal(15,2)" json:"amount"`
	DueDate      time.Time      `gorm:"not null;index" json:"dueDate"`
	Description  string         `gorm:"type:text" json:"description"`
	Status       ReminderStatus `gorm:"type:varchar(20);default:'ACTIVE';index" json:"status"`
	IsDeleted    bool           `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
