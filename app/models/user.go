package models

import (
	"time"

	"gorm.io/gorm"
)

// User is the account record. Email is unique and stored lowercased.
// ResetToken and ResetTokenExpiry are either both set or both null; they
// are written by the reset flow and cleared together on a successful
// password change.
type User struct {
	gorm.Model
	Name        string   `gorm:"size:255;not null"              json:"name"`
	Email       string   `gorm:"uniqueIndex;size:255;not null"  json:"email"`
	Password    string   `gorm:"size:255;not null"              json:"-"` // bcrypt hash, never serialised
	Permissions []string `gorm:"serializer:json"                json:"permissions"`

	ResetToken       *string    `gorm:"size:64;index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
}
