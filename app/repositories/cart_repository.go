package repositories

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"gorm.io/gorm"
)

// CartRepository handles database operations for cart rows.
type CartRepository struct {
	db *gorm.DB
}

func NewCartRepository(db *gorm.DB) *CartRepository {
	return &CartRepository{db: db}
}

// ForUser returns the user's current cart with item records preloaded,
// read in one query so checkout sees a single point-in-time snapshot.
func (r *CartRepository) ForUser(userID uint) ([]models.CartItem, error) {
	var rows []models.CartItem
	err := r.db.Preload("Item").
		Where("user_id = ?", userID).
		Order("id").
		Find(&rows).Error
	return rows, err
}

// FindForUserAndItem returns the cart row for a (user, item) pair if any.
func (r *CartRepository) FindForUserAndItem(userID, itemID uint) (*models.CartItem, error) {
	var row models.CartItem
	err := r.db.Where("user_id = ? AND item_id = ?", userID, itemID).First(&row).Error
	if err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CartRepository) FindByID(id uint) (*models.CartItem, error) {
	var row models.CartItem
	if err := r.db.Preload("Item").First(&row, id).Error; err != nil {
		return nil, err
	}
	return &row, nil
}

func (r *CartRepository) Create(row *models.CartItem) error {
	return r.db.Create(row).Error
}

func (r *CartRepository) UpdateQuantity(id uint, quantity int) error {
	return r.db.Model(&models.CartItem{}).Where("id = ?", id).Update("quantity", quantity).Error
}

func (r *CartRepository) Delete(id uint) error {
	return r.db.Delete(&models.CartItem{}, id).Error
}

// DeleteByIDs removes exactly the captured rows, not "the current cart",
// so a concurrent add-to-cart cannot lose items it added after checkout
// snapshotted.
func (r *CartRepository) DeleteByIDs(ids []uint) error {
	if len(ids) == 0 {
		return nil
	}
	return r.db.Delete(&models.CartItem{}, ids).Error
}
