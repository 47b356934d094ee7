package store

import (
	"context"

	"gorm.io/gorm"

	"Alumni_Network/internal/model"
)

type UserRepository struct {
	DB *gorm.DB
}

// Create inserts the account together with its empty profile.
func (r *UserRepository) Create(ctx context.Context, user *model.User) error {
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(user).Error; err != nil {
			return err
		}
		return tx.Create(&model.Profile{UserID: user.ID, Visibility: model.VisibilityAlumni}).Error
	})
	return duplicate(err)
}

// FindByUsername accepts either the username or the email.
func (r *UserRepository) FindByUsername(ctx context.Context, username string) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).Where("(username = ? OR email = ?)", username, username).First(&user).Error
	return &user, notFound(err)
}

func (r *UserRepository) FindByID(ctx context.Context, id uint64) (*model.User, error) {
	var user model.User
	err := r.DB.WithContext(ctx).First(&user, id).Error
	return &user, notFound(err)
}

func (r *UserRepository) FindByEmail(ctx context.Context, email string) (*model.User, error) {
	var usr model.User
	err := r.DB.WithContext(ctx).Where("email = ?", email).First(&usr).Error
	return &usr, notFound(err)
}

func (r *UserRepository) Exists(ctx context.Context, username, email string) (bool, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.User{}).
		Where("(username = ? OR email = ?)", username, email).
		Count(&n).Error
	return n > 0, err
}

func (r *UserRepository) UpdatePassword(ctx context.Context, user *model.User, newPassword string) error {
	return r.DB.WithContext(ctx).Model(user).Update("password", newPassword).Error
}
