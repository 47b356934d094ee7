package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

var (
	ErrTokenNotFound    = errors.New("token not found")
	ErrRedisUnavailable = errors.New("redis unavailable")
)

const (
	UserTokenPrefix   = "login:user:token"
	UserRefreshPrefix = "login:user:refresh"
)

// TokenRepository keeps the one live access token per user together with
// the jti of the refresh token issued alongside it.
type TokenRepository struct {
	RDB *redis.Client
	TTL time.Duration
	// RefreshTTL bounds the stored refresh jti; it matches the refresh token lifetime.
	RefreshTTL time.Duration
}

func (r *TokenRepository) key(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserTokenPrefix, userID)
}

func (r *TokenRepository) refreshKey(userID uint64) string {
	return fmt.Sprintf("%s:%d", UserRefreshPrefix, userID)
}

// SetSession stores a freshly issued pair, replacing any earlier session.
func (r *TokenRepository) SetSession(ctx context.Context, userID uint64, access, refreshID string) error {
	refreshTTL := r.RefreshTTL
	if refreshTTL <= 0 {
		refreshTTL = r.TTL
	}
	_, err := r.RDB.TxPipelined(ctx, func(p redis.Pipeliner) error {
		p.Set(ctx, r.key(userID), access, r.TTL)
		p.Set(ctx, r.refreshKey(userID), refreshID, refreshTTL)
		return nil
	})
	if err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

// ConsumeRefresh deletes the stored refresh jti if it equals refreshID, so a
// refresh token works once and only while its session is live.
func (r *TokenRepository) ConsumeRefresh(ctx context.Context, userID uint64, refreshID string) error {
	n, err := release.Run(ctx, r.RDB, []string{r.refreshKey(userID)}, refreshID).Int64()
	if err != nil {
		return ErrRedisUnavailable
	}
	if n == 0 {
		return ErrTokenNotFound
	}
	return nil
}

func (r *TokenRepository) Get(ctx context.Context, userID uint64) (string, error) {
	token, err := r.RDB.Get(ctx, r.key(userID)).Result()
	if errors.Is(err, redis.Nil) {
		return "", ErrTokenNotFound
	}
	if err != nil {
		return "", ErrRedisUnavailable
	}
	return token, nil
}

// Extend slides the session window after a successful request.
func (r *TokenRepository) Extend(ctx context.Context, userID uint64) error {
	if err := r.RDB.Expire(ctx, r.key(userID), r.TTL).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}

func (r *TokenRepository) Delete(ctx context.Context, userID uint64) error {
	if err := r.RDB.Del(ctx, r.key(userID), r.refreshKey(userID)).Err(); err != nil {
		return ErrRedisUnavailable
	}
	return nil
}
