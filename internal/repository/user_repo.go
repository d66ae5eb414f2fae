package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/aula-labs/aula-api/internal/models"
)

// UserRepository persists platform accounts.
type UserRepository interface {
	Create(ctx context.Context, user *models.User) error
	FindByID(ctx context.Context, id uint) (models.User, error)
	// UpdateStatus transitions id from one exact status to another in a single
	// conditional write. It reports whether a row actually moved.
	UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error)
	SoftDelete(ctx context.Context, id uint) (bool, error)
	// Anonymize copies the identifiers into the backup columns, overwrites
	// them with placeholders and marks the row DELETED.
	Anonymize(ctx context.Context, id uint, placeholderEmail, placeholderUsername string) (bool, error)
	// RestoreIdentity reverses Anonymize for a row still in DELETED state.
	RestoreIdentity(ctx context.Context, id uint) (bool, error)
}

type userRepository struct {
	db *gorm.DB
}

// NewUserRepository constructs the user repository.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepository{db: db}
}

func (r *userRepository) Create(ctx context.Context, user *models.User) error {
	return r.db.WithContext(ctx).Create(user).Error
}

func (r *userRepository) FindByID(ctx context.Context, id uint) (models.User, error) {
	var user models.User
	if err := r.db.WithContext(ctx).First(&user, id).Error; err != nil {
		return models.User{}, err
	}
	return user, nil
}

func (r *userRepository) UpdateStatus(ctx context.Context, id uint, from, to string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND status = ?", id, from).
		Update("status", to)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) SoftDelete(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Update("status", models.StatusDeleted)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) Anonymize(ctx context.Context, id uint, placeholderEmail, placeholderUsername string) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND status <> ?", id, models.StatusDeleted).
		Updates(map[string]interface{}{
			"backup_email":    gorm.Expr("email"),
			"backup_username": gorm.Expr("username"),
			"email":           placeholderEmail,
			"username":        placeholderUsername,
			"status":          models.StatusDeleted,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}

func (r *userRepository) RestoreIdentity(ctx context.Context, id uint) (bool, error) {
	result := r.db.WithContext(ctx).Model(&models.User{}).
		Where("id = ? AND status = ? AND backup_email <> ''", id, models.StatusDeleted).
		Updates(map[string]interface{}{
			"email":           gorm.Expr("backup_email"),
			"username":        gorm.Expr("backup_username"),
			"backup_email":    "",
			"backup_username": "",
			"status":          models.StatusActive,
		})
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
