package repositories

import (
	"github.com/shashiranjanraj/vastra/app/models"
	"gorm.io/gorm"
)

// ItemRepository handles database operations for catalogue items.
type ItemRepository struct {
	db *gorm.DB
}

func NewItemRepository(db *gorm.DB) *ItemRepository {
	return &ItemRepository{db: db}
}

func (r *ItemRepository) FindByID(id uint) (*models.Item, error) {
	var item models.Item
	if err := r.db.First(&item, id).Error; err != nil {
		return nil, err
	}
	return &item, nil
}

func (r *ItemRepository) Create(item *models.Item) error {
	return r.db.Create(item).Error
}

// UpdateFields applies a whitelisted column map to an item. Callers build
// the map from the set of mutable fields only, so a generic update can
// never touch ownership or bookkeeping columns.
func (r *ItemRepository) UpdateFields(id uint, fields map[string]interface{}) error {
	return r.db.Model(&models.Item{}).Where("id = ?", id).Updates(fields).Error
}

func (r *ItemRepository) Delete(id uint) error {
	return r.db.Delete(&models.Item{}, id).Error
}

// List returns a page of items, newest first.
func (r *ItemRepository) List(skip, first int) ([]models.Item, error) {
	q := r.db.Order("created_at desc")
	if skip > 0 {
		q = q.Offset(skip)
	}
	if first > 0 {
		q = q.Limit(first)
	}
	var items []models.Item
	err := q.Find(&items).Error
	return items, err
}

func (r *ItemRepository) Count() (int64, error) {
	var n int64
	err := r.db.Model(&models.Item{}).Count(&n).Error
	return n, err
}
