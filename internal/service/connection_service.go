package service

import (
	"context"
	"time"

	"go.uber.org/zap"

	"Alumni_Network/internal/model"
	"Alumni_Network/internal/repository/store"
)

type ConnectionService struct {
	repo   *store.ConnectionRepository
	users  *store.UserRepository
	notify *NotificationService
}

func NewConnectionService(repo *store.ConnectionRepository, users *store.UserRepository, notify *NotificationService) *ConnectionService {
	return &ConnectionService{repo: repo, users: users, notify: notify}
}

func (s *ConnectionService) validate(ctx context.Context, followerID, followeeID uint64) error {
	if followerID == 0 || followeeID == 0 {
		return invalid("invalid user id")
	}
	if followerID == followeeID {
		return invalid("cannot connect to yourself")
	}
	_, err := s.users.FindByID(ctx, followeeID)
	return err
}

func (s *ConnectionService) Connect(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if err := s.validate(ctx, followerID, followeeID); err != nil {
		return false, err
	}
	changed, err := s.repo.Connect(ctx, followerID, followeeID)
	if err == nil && changed {
		s.notify.Notify(ctx, followeeID, NotifyConnection, "New connection",
			"Someone connected with you.", "", map[string]any{"user_id": followerID})
	}
	return changed, err
}

func (s *ConnectionService) Disconnect(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 || followerID == followeeID {
		return false, invalid("invalid user id")
	}
	return s.repo.Disconnect(ctx, followerID, followeeID)
}

func (s *ConnectionService) IsConnected(ctx context.Context, followerID, followeeID uint64) (bool, error) {
	if followerID == 0 || followeeID == 0 {
		return false, invalid("invalid user id")
	}
	return s.repo.IsConnected(ctx, followerID, followeeID)
}

func (s *ConnectionService) ListFollowing(ctx context.Context, userID, cursor uint64, limit int) ([]model.Connection, uint64, error) {
	return s.repo.ListFollowing(ctx, userID, cursor, limit)
}

func (s *ConnectionService) ListFollowers(ctx context.Context, userID, cursor uint64, limit int) ([]model.Connection, uint64, error) {
	return s.repo.ListFollowers(ctx, userID, cursor, limit)
}

// ConnectionCountReconciler rewrites users.following_count/follower_count
// from the connections table.
type ConnectionCountReconciler struct {
	repo      *store.ConnectionCountReconcilerRepo
	log       *zap.Logger
	batchSize int
	interval  time.Duration
}

func NewConnectionCountReconciler(repo *store.ConnectionCountReconcilerRepo, log *zap.Logger, interval time.Duration) *ConnectionCountReconciler {
	return &ConnectionCountReconciler{repo: repo, log: log, batchSize: 500, interval: interval}
}

func (r *ConnectionCountReconciler) Run(ctx context.Context) {
	t := time.NewTicker(r.interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if _, err := r.ReconcileOnce(ctx); err != nil && ctx.Err() == nil {
				r.log.Warn("reconcile connection counts", zap.Error(err))
			}
		}
	}
}

// ReconcileOnce walks every user in id order and returns how many rows it
// corrected.
func (r *ConnectionCountReconciler) ReconcileOnce(ctx context.Context) (int, error) {
	fixed := 0
	var lastID uint64
	for {
		users, next, err := r.repo.ReconcileList(ctx, r.batchSize, lastID)
		if err != nil {
			return fixed, err
		}
		if len(users) == 0 {
			return fixed, nil
		}
		lastID = next
		for _, u := range users {
			following, err := r.repo.RealFollowing(ctx, u.ID)
			if err != nil {
				return fixed, err
			}
			followers, err := r.repo.RealFollowers(ctx, u.ID)
			if err != nil {
				return fixed, err
			}
			if following != u.FollowingCount {
				if err := r.repo.FixFollowing(ctx, u.ID, following); err != nil {
					return fixed, err
				}
				fixed++
			}
			if followers != u.FollowerCount {
				if err := r.repo.FixFollowers(ctx, u.ID, followers); err != nil {
					return fixed, err
				}
				fixed++
			}
		}
	}
}
