package models

import (
	"time"

	"gorm.io/gorm"
)

// Session tracks an issued login session. Expiry is authoritative; IsActive
// only marks explicit logout or policy-driven deactivation.
type Session struct {
	gorm.Model
	Token      string    `gorm:"unique;not null" json:"token"`
	UserID     uint      `gorm:"not null;index" json:"userId"`
	DeviceInfo string    `gorm:"type:text" json:"deviceInfo"`
	IPAddress  string    `gorm:"size:45" json:"ipAddress"`
	ExpiresAt  time.Time `gorm:"not null" json:"expiresAt"`
	IsActive   bool      `gorm:"default:true" json:"isActive"`
	IsDeleted  bool      `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
