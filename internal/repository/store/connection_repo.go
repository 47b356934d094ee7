package store

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"Alumni_Network/internal/model"
)

type ConnectionRepository struct {
	DB *gorm.DB
}

type ConnectionCountReconcilerRepo struct {
	DB *gorm.DB
}

// Pair is one user's stored counters, as read by the reconciler.
type Pair struct {
	ID             uint64
	FollowingCount int64
	FollowerCount  int64
}

// Connect sets the relation to connected. changed is true only when the
// state actually flipped, so repeated calls are harmless.
func (r *ConnectionRepository) Connect(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rel model.Connection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			First(&rel).Error; err != nil {
			if !errors.Is(err, gorm.ErrRecordNotFound) {
				return err
			}
			rel = model.Connection{FollowerID: followerID, FolloweeID: followeeID, Status: model.ConnectionActive}
			if err = tx.Create(&rel).Error; err != nil {
				return err
			}
		} else {
			if rel.Status == model.ConnectionActive {
				return nil
			}
			res := tx.Model(&model.Connection{}).
				Where("id = ? AND status = ?", rel.ID, model.ConnectionInactive).
				Update("status", model.ConnectionActive)
			if res.Error != nil {
				return res.Error
			}
			if res.RowsAffected == 0 {
				return nil
			}
		}
		changed = true
		if err := adjustCounts(tx, followerID, followeeID, +1); err != nil {
			return err
		}
		return insertOutbox(tx, "connection.created", followeeID, map[string]any{
			"follower": followerID,
			"followee": followeeID,
		})
	})
	return changed, err
}

func (r *ConnectionRepository) Disconnect(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var changed bool
	err := r.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var rel model.Connection
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("follower_id = ? AND followee_id = ?", followerID, followeeID).
			First(&rel).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil
			}
			return err
		}
		if rel.Status == model.ConnectionInactive {
			return nil
		}
		res := tx.Model(&model.Connection{}).
			Where("id = ? AND status = ?", rel.ID, model.ConnectionActive).
			Update("status", model.ConnectionInactive)
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		if err := adjustCounts(tx, followerID, followeeID, -1); err != nil {
			return err
		}
		return insertOutbox(tx, "connection.removed", followeeID, map[string]any{
			"follower": followerID,
			"followee": followeeID,
		})
	})
	return changed, err
}

func (r *ConnectionRepository) IsConnected(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	var n int64
	if err := r.DB.WithContext(ctx).
		Model(&model.Connection{}).
		Where("follower_id = ? AND followee_id = ? AND status = ?", followerID, followeeID, model.ConnectionActive).
		Count(&n).Error; err != nil {
		return false, err
	}
	return n > 0, nil
}

// ListFollowing pages through the users userID follows, newest first.
func (r *ConnectionRepository) ListFollowing(ctx context.Context, userID, cursor uint64, limit int) ([]model.Connection, uint64, error) {
	return r.list(ctx, "follower_id", userID, cursor, limit)
}

// ListFollowers pages through the users following userID, newest first.
func (r *ConnectionRepository) ListFollowers(ctx context.Context, userID, cursor uint64, limit int) ([]model.Connection, uint64, error) {
	return r.list(ctx, "followee_id", userID, cursor, limit)
}

func (r *ConnectionRepository) list(ctx context.Context, column string, userID, cursor uint64, limit int) ([]model.Connection, uint64, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	q := r.DB.WithContext(ctx).Model(&model.Connection{}).
		Where(column+" = ? AND status = ?", userID, model.ConnectionActive)
	if cursor > 0 {
		q = q.Where("id < ?", cursor)
	}
	var rows []model.Connection
	// one extra row tells whether another page exists
	if err := q.Order("id DESC").Limit(limit + 1).Find(&rows).Error; err != nil {
		return nil, 0, err
	}
	var next uint64
	if len(rows) > limit {
		next = rows[limit-1].ID
		rows = rows[:limit]
	}
	return rows, next, nil
}

func adjustCounts(tx *gorm.DB, followerID, followeeID uint64, delta int64) error {
	if err := tx.Model(&model.User{}).
		Where("id = ?", followerID).
		UpdateColumn("following_count", gorm.Expr("CASE WHEN following_count + ? < 0 THEN 0 ELSE following_count + ? END", delta, delta)).Error; err != nil {
		return err
	}
	return tx.Model(&model.User{}).
		Where("id = ?", followeeID).
		UpdateColumn("follower_count", gorm.Expr("CASE WHEN follower_count + ? < 0 THEN 0 ELSE follower_count + ? END", delta, delta)).Error
}

// ReconcileList reads a batch of users after lastID.
func (r *ConnectionCountReconcilerRepo) ReconcileList(ctx context.Context, batchSize int, lastID uint64) ([]Pair, uint64, error) {
	var list []Pair
	if err := r.DB.WithContext(ctx).Model(&model.User{}).
		Select("id", "following_count", "follower_count").
		Where("id > ?", lastID).
		Order("id ASC").
		Limit(batchSize).
		Find(&list).Error; err != nil {
		return nil, lastID, err
	}
	if len(list) == 0 {
		return nil, lastID, nil
	}
	return list, list[len(list)-1].ID, nil
}

// RealFollowing counts active edges where userID is the follower.
func (r *ConnectionCountReconcilerRepo) RealFollowing(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Connection{}).
		Where("follower_id = ? AND status = ?", userID, model.ConnectionActive).
		Count(&n).Error
	return n, err
}

// RealFollowers counts active edges where userID is followed.
func (r *ConnectionCountReconcilerRepo) RealFollowers(ctx context.Context, userID uint64) (int64, error) {
	var n int64
	err := r.DB.WithContext(ctx).Model(&model.Connection{}).
		Where("followee_id = ? AND status = ?", userID, model.ConnectionActive).
		Count(&n).Error
	return n, err
}

func (r *ConnectionCountReconcilerRepo) FixFollowing(ctx context.Context, userID uint64, n int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("following_count", n).Error
}

func (r *ConnectionCountReconcilerRepo) FixFollowers(ctx context.Context, userID uint64, n int64) error {
	return r.DB.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).
		UpdateColumn("follower_count", n).Error
}
