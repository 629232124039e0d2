package models

import "gorm.io/gorm"

// Order is created once checkout succeeds and is immutable afterwards.
// Total is the amount the gateway reports as charged, in minor units, and
// must equal the sum of price×quantity over the order items. ChargeID is
// the gateway's opaque charge reference; at most one order per charge.
type Order struct {
	gorm.Model
	UserID   uint   `gorm:"not null;index"              json:"userId"`
	Total    int    `gorm:"not null"                    json:"total"`
	ChargeID string `gorm:"uniqueIndex;size:255;not null" json:"charge"`

	Items []OrderItem `gorm:"foreignKey:OrderID" json:"items"`
}

// OrderItem is a point-in-time copy of the purchased item. It carries the
// fields of the catalogue entry as they were at purchase, so later item
// edits or deletions never alter past orders.
type OrderItem struct {
	gorm.Model
	OrderID     uint   `gorm:"not null;index"     json:"orderId"`
	Title       string `gorm:"size:255;not null"  json:"title"`
	Description string `gorm:"type:text"          json:"description"`
	Price       int    `gorm:"not null"           json:"price"`
	Image       string `gorm:"size:512"           json:"image"`
	LargeImage  string `gorm:"size:512"           json:"largeImage"`
	Quantity    int    `gorm:"not null"           json:"quantity"`
}
