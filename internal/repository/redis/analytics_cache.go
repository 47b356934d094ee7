package redis

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	AnalyticsKey = "analytics:dashboard"
	AnalyticsTTL = 5 * time.Minute
)

// AnalyticsCache holds the serialized dashboard.
type AnalyticsCache struct {
	RDB *redis.Client
}

func (c *AnalyticsCache) Get(ctx context.Context) ([]byte, bool, error) {
	b, err := c.RDB.Get(ctx, AnalyticsKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, err
	}
	return b, true, nil
}

func (c *AnalyticsCache) Set(ctx context.Context, b []byte) error {
	return c.RDB.Set(ctx, AnalyticsKey, b, AnalyticsTTL).Err()
}
