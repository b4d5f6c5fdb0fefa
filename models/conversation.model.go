package models

import (
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// VoiceSession groups the conversation turns of one voice interaction.
type VoiceSession struct {
	gorm.Model
	SessionID string `gorm:"unique;not null" json:"sessionId"`
	UserID    uint   `gorm:"not null;index" json:"userId"`
	Language  string `gorm:"size:10;default:'en-IN'" json:"language"`
	IsDeleted bool   `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}

// ConversationHistory is one append-only turn of a voice interaction: what
// was heard, what intent was detected and what was answered. The store never
// parses audio or language itself; the voice layer posts these rows.
type ConversationHistory struct {
	gorm.Model
	UserID         uint           `gorm:"not null;index" json:"userId"`
	VoiceSessionID uint           `gorm:"index" json:"voiceSessionId"`
	Transcript     string         `gorm:"type:text" json:"transcript"`
	DetectedIntent string         `gorm:"size:50;index" json:"detectedIntent"`
	Confidence     float32        `json:"confidence"`
	ResponseText   string         `gorm:"type:text" json:"responseText"`
	Language       string         `gorm:"size:10" json:"language"`
	AudioPath      string         `gorm:"size:255" json:"audioPath"`
	Entities       datatypes.JSON `json:"entities"` // extracted slots (amount, recipient, ...)
	IsDeleted      bool           `gorm:"default:false" json:"isDeleted"`

	User User `gorm:"foreignKey:UserID;constraint:OnDelete:CASCADE" json:"-"`
}
