package store

import (
	"context"

	"gorm.io/gorm"

	"Alumni_Network/internal/model"
)

type AchievementRepository struct {
	DB *gorm.DB
}

func (r *AchievementRepository) Create(ctx context.Context, a *model.Achievement) error {
	return r.DB.WithContext(ctx).Create(a).Error
}

func (r *AchievementRepository) FindByID(ctx context.Context, id uint64) (*model.Achievement, error) {
	var a model.Achievement
	err := r.DB.WithContext(ctx).First(&a, id).Error
	return &a, notFound(err)
}

func (r *AchievementRepository) ListByUser(ctx context.Context, userID uint64) ([]model.Achievement, error) {
	var list []model.Achievement
	err := r.DB.WithContext(ctx).Where("user_id = ?", userID).
		Order("achieved_on DESC, id DESC").Find(&list).Error
	return list, err
}

// Delete removes the row only if userID owns it.
func (r *AchievementRepository) Delete(ctx context.Context, id, userID uint64) error {
	res := r.DB.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Achievement{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (r *AchievementRepository) Verify(ctx context.Context, id, verifierID uint64) error {
	res := r.DB.WithContext(ctx).Model(&model.Achievement{}).Where("id = ?", id).
		Updates(map[string]any{"verified": true, "verified_by": verifierID})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
