package models

import (
	"gorm.io/gorm"
)

// SecurityEventType enumerates audited security events
type SecurityEventType string

const (
	EventLoginSuccess       SecurityEventType = "LOGIN_SUCCESS"
	EventLoginFailed        SecurityEventType = "LOGIN_FAILED"
	EventLogout             SecurityEventType = "LOGOUT"
	EventOTPGenerated       SecurityEventType = "OTP_GENERATED"
	EventOTPVerified        SecurityEventType = "OTP_VERIFIED"
	EventOTPFailed          SecurityEventType = "OTP_FAILED"
	EventTransactionSuccess SecurityEventType = "TRANSACTION_SUCCESS"
	EventAccountDeleted     SecurityEventType = "ACCOUNT_DELETED"
)

// SecurityEvent is an append-only audit row.
type SecurityEvent struct {
	gorm.Model
	UserID     uint              `gorm:"not null;index" json:"userId"`
	EventType  SecurityEventType `gorm:"type:varchar(30);not null;index" json:"eventType"`
	IPAddress  string            `gorm:"size:45" json:"ipAddress"`
	DeviceInfo string            `gorm:"type:text" json:"deviceInfo"`
	Details    string            `gorm:"type:text" json:"details"`
	IsDeleted  bool              `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
