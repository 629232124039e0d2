package seeders

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"github.com/shashiranjanraj/vastra/pkg/auth"
	"gorm.io/gorm"
)

func init() {
	Register("admin_user", SeedAdminUser)
	Register("items", SeedItems)
}

// SeedAdminUser creates the bootstrap admin account if it is missing.
func SeedAdminUser(db *gorm.DB) error {
	var count int64
	if err := db.Model(&models.User{}).Where("email = ?", "admin@vastra.app").Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	hash, err := auth.HashPassword("admin-change-me")
	if err != nil {
		return err
	}

	return db.Create(&models.User{
		Name:        "Store Admin",
		Email:       "admin@vastra.app",
		Password:    hash,
		Permissions: []string{auth.PermUser, auth.PermAdmin},
	}).Error
}

// SeedItems loads a few catalogue entries owned by the admin account.
func SeedItems(db *gorm.DB) error {
	var admin models.User
	if err := db.Where("email = ?", "admin@vastra.app").First(&admin).Error; err != nil {
		return err
	}

	var count int64
	if err := db.Model(&models.Item{}).Count(&count).Error; err != nil {
		return err
	}
	if count > 0 {
		return nil
	}

	items := []models.Item{
		{Title: "Linen Kurta", Description: "Hand-loomed linen, natural dye.", Price: 4500, UserID: admin.ID},
		{Title: "Silk Dupatta", Description: "Mulberry silk with zari border.", Price: 7900, UserID: admin.ID},
		{Title: "Cotton Saree", Description: "Block-printed mul cotton.", Price: 12500, UserID: admin.ID},
	}
	return db.Create(&items).Error
}
