package entity

import (
	"gorm.io/gorm"
)

const (
	BotSimple = "simple"
	BotAI     = "ai"
)

// ChatMessage is append-only. Bot replies point at the user message they answer,
// which keeps a re-delivered reply task from writing a second answer.
type ChatMessage struct {
	gorm.Model
	UserID    uint   `gorm:"index;not null" json:"userId"`
	Message   string `gorm:"type:text;not null" json:"message"`
	IsBot     bool   `gorm:"not null;default:false" json:"isBot"`
	BotType   string `gorm:"not null" json:"botType"`
	ReplyToID *uint  `gorm:"uniqueIndex" json:"replyToId,omitempty"`
}
