package entity

import (
	"gorm.io/gorm"
)

type Review struct {
	gorm.Model
	MenuItemID uint   `gorm:"index;uniqueIndex:ux_review_user_item,priority:2;not null" json:"menuItemId"`
	UserID     uint   `gorm:"uniqueIndex:ux_review_user_item,priority:1;not null" json:"userId"`
	Rating     int    `gorm:"not null;check:rating >= 1 AND rating <= 5" json:"rating"`
	Comment    string `json:"comment,omitempty"`
}
