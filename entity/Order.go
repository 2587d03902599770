package entity

import (
	"gorm.io/gorm"
)

const (
	OrderDelivery = "delivery"
	OrderBooking  = "booking"

	OrderPending = "pending"
)

// Order keeps a snapshot of the dish name and price taken when it was placed,
// so later catalog edits do not rewrite history.
type Order struct {
	gorm.Model
	UserID uint `gorm:"index;not null" json:"userId"`

	MenuItemID    uint   `gorm:"index;not null" json:"menuItemId"`
	MenuItemName  string `gorm:"not null" json:"menuItemName"`
	MenuItemPrice int64  `gorm:"not null" json:"menuItemPrice"`

	Quantity   int   `gorm:"not null" json:"quantity"`
	TotalPrice int64 `gorm:"not null" json:"totalPrice"`

	OrderType   string `gorm:"not null" json:"orderType"`
	Address     string `json:"address,omitempty"`
	BookingDate string `json:"bookingDate,omitempty"`
	BookingTime string `json:"bookingTime,omitempty"`

	// demo payment form; the full number and CVV are never stored
	CardLast4       string `json:"cardLast4"`
	CardExpiry      string `json:"cardExpiry"`
	CardFingerprint string `json:"-"`

	Status string `gorm:"not null;default:pending" json:"status"`
}
