package repositories

import (
	"time"

	"github.com/shashiranjanraj/vastra/app/models"
	"gorm.io/gorm"
)

// UserRepository handles database operations for User.
type UserRepository struct {
	db *gorm.DB
}

func NewUserRepository(db *gorm.DB) *UserRepository {
	return &UserRepository{db: db}
}

// FindByID looks up a user by primary key.
func (r *UserRepository) FindByID(id uint) (*models.User, error) {
	var user models.User
	if err := r.db.First(&user, id).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByEmail looks up a user by their (lowercased) email address.
func (r *UserRepository) FindByEmail(email string) (*models.User, error) {
	var user models.User
	if err := r.db.Where("email = ?", email).First(&user).Error; err != nil {
		return nil, err
	}
	return &user, nil
}

// FindByResetToken returns the user holding the exact token whose expiry
// is still in the future relative to now. Expired or unknown tokens are a
// plain record-not-found.
func (r *UserRepository) FindByResetToken(token string, now time.Time) (*models.User, error) {
	var user models.User
	err := r.db.
		Where("reset_token = ? AND reset_token_expiry > ?", token, now).
		First(&user).Error
	if err != nil {
		return nil, err
	}
	return &user, nil
}

// Create persists a new user record.
func (r *UserRepository) Create(user *models.User) error {
	return r.db.Create(user).Error
}

// All returns every user. Caller is responsible for authorization.
func (r *UserRepository) All() ([]models.User, error) {
	var users []models.User
	err := r.db.Order("id").Find(&users).Error
	return users, err
}

// SetResetToken stores the token/expiry pair on the user, overwriting any
// prior unconsumed token.
func (r *UserRepository) SetResetToken(userID uint, token string, expiry time.Time) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"reset_token":        token,
			"reset_token_expiry": expiry,
		}).Error
}

// ConsumeResetToken writes the new password hash and clears the
// token/expiry pair in a single update, making the token single-use.
func (r *UserRepository) ConsumeResetToken(userID uint, passwordHash string) error {
	return r.db.Model(&models.User{}).
		Where("id = ?", userID).
		Updates(map[string]interface{}{
			"password":           passwordHash,
			"reset_token":        nil,
			"reset_token_expiry": nil,
		}).Error
}

// UpdatePermissions replaces the user's permission set.
func (r *UserRepository) UpdatePermissions(userID uint, permissions []string) error {
	var user models.User
	if err := r.db.First(&user, userID).Error; err != nil {
		return err
	}
	user.Permissions = permissions
	return r.db.Save(&user).Error
}
