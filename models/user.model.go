package models

import (
	"time"

	"gorm.io/gorm"
)

type User struct {
	gorm.Model
	Name                string `gorm:"default:''"`
	Email               string `gorm:"unique;not null;index"`
	Phone               string `gorm:"unique;not null;index"`
	Password            string `gorm:"not null"`
	PinHash             string `gorm:"default:''"` // 4-digit transaction PIN, bcrypt hashed
	VoiceSignature      string `gorm:"type:text;default:''"`
	PreferredLanguage   string `gorm:"size:10;default:'en-IN'"`
	LastLogin           time.Time
	FailedLoginAttempts int        `gorm:"default:0"`
	LastFailedLogin     *time.Time `json:"last_failed_login"`
	IsBlocked           bool       `gorm:"default:false"`
	BlockedUntil        *time.Time `json:"blocked_until"`
	IsActive            bool       `gorm:"default:true"`
	IsDeleted           bool       `gorm:"default:false"`
}
