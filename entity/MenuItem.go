package entity

import (
	"gorm.io/gorm"
)

// MenuItem is a dish in the catalog. Price is kept in minor units (899 = 8.99).
type MenuItem struct {
	gorm.Model
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Price       int64  `gorm:"not null" json:"price"`
	Category    string `gorm:"index:idx_menu_items_category;not null" json:"category"`
	Image       string `json:"image,omitempty"`
}
