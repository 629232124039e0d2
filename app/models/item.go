package models

import "gorm.io/gorm"

// Item is a catalogue entry. Price is in minor currency units (cents)
// and never negative. Each item is owned by the user who created it.
type Item struct {
	gorm.Model
	Title       string `gorm:"size:255;not null;index" json:"title"`
	Description string `gorm:"type:text"               json:"description"`
	Price       int    `gorm:"not null;default:0"      json:"price"`
	Image       string `gorm:"size:512"                json:"image"`
	LargeImage  string `gorm:"size:512"                json:"largeImage"`
	UserID      uint   `gorm:"not null;index"          json:"userId"`
}

// CartItem links a user to an item with a quantity. Rows are ephemeral:
// created on add-to-cart, incremented on repeat add, and deleted when an
// order is finalised.
type CartItem struct {
	gorm.Model
	UserID   uint `gorm:"not null;index"           json:"userId"`
	ItemID   uint `gorm:"not null;index"           json:"itemId"`
	Quantity int  `gorm:"not null;default:1"       json:"quantity"`

	Item *Item `gorm:"foreignKey:ItemID" json:"item,omitempty"`
}
