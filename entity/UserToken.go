package entity

import (
	"gorm.io/gorm"
)

// UserToken is the per-user AI chat allowance. LastRefill is unix milliseconds.
type UserToken struct {
	gorm.Model
	UserID     uint  `gorm:"uniqueIndex;not null" json:"userId"`
	Tokens     int   `gorm:"not null" json:"tokens"`
	LastRefill int64 `gorm:"not null" json:"lastRefill"`
}
