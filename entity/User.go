package entity

import (
	"gorm.io/gorm"
)

// User mirrors the identity handed to us by the auth provider. ID is the
// provider's user id, not an autoincrement.
type User struct {
	gorm.Model
	Name string `json:"name"`
	Role string `gorm:"not null;default:customer" json:"role"`
}
