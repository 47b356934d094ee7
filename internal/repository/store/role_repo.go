package store

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Alumni_Network/internal/model"
)

type RoleRepository struct {
	DB *gorm.DB
}

func (r *RoleRepository) Create(ctx context.Context, role *model.Role) error {
	return duplicate(r.DB.WithContext(ctx).Create(role).Error)
}

func (r *RoleRepository) FindByName(ctx context.Context, name string) (*model.Role, error) {
	var role model.Role
	err := r.DB.WithContext(ctx).Where("name = ?", name).First(&role).Error
	return &role, notFound(err)
}

func (r *RoleRepository) List(ctx context.Context) ([]model.Role, error) {
	var list []model.Role
	err := r.DB.WithContext(ctx).Order("name ASC").Find(&list).Error
	return list, err
}

// Assign is idempotent: an existing (user, role) pair is not an error.
func (r *RoleRepository) Assign(ctx context.Context, userID, roleID uint64) error {
	return r.DB.WithContext(ctx).Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}, {Name: "role_id"}},
		DoNothing: true,
	}).Create(&model.UserRole{UserID: userID, RoleID: roleID}).Error
}

// Revoke is idempotent as well.
func (r *RoleRepository) Revoke(ctx context.Context, userID, roleID uint64) error {
	return r.DB.WithContext(ctx).
		Where("user_id = ? AND role_id = ?", userID, roleID).
		Delete(&model.UserRole{}).Error
}

// RolesOf joins user_roles to roles for one user.
func (r *RoleRepository) RolesOf(ctx context.Context, userID uint64) ([]model.Role, error) {
	var list []model.Role
	err := r.DB.WithContext(ctx).
		Model(&model.Role{}).
		Joins("JOIN user_roles ur ON ur.role_id = roles.id").
		Where("ur.user_id = ?", userID).
		Order("roles.name ASC").
		Find(&list).Error
	return list, err
}
