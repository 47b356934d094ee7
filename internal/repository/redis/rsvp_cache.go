package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	AttendeeCntTTL    = 24 * time.Hour
	LockTTL           = 300 * time.Millisecond
	AttendeeCntPrefix = "event:attendees:cnt"
	LockKeyPrefix     = "lock:event:attendees"
)

var release = redis.NewScript(`
if redis.call("get", KEYS[1]) == ARGV[1] then
  return redis.call("del", KEYS[1])
else
  return 0
end`)

// AttendeeCache caches attendee_count per event. The database row stays
// authoritative; writers drop the key after committing.
type AttendeeCache struct {
	RDB *redis.Client
	TTL time.Duration
}

func (r *AttendeeCache) key(eventID uint64) string {
	return fmt.Sprintf("%s:%d", AttendeeCntPrefix, eventID)
}

// Get reports (count, hit, err).
func (r *AttendeeCache) Get(ctx context.Context, eventID uint64) (int64, bool, error) {
	val, err := r.RDB.Get(ctx, r.key(eventID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	return val, true, nil
}

func (r *AttendeeCache) Set(ctx context.Context, eventID uint64, cnt int64) error {
	ttl := r.TTL
	if ttl <= 0 {
		ttl = AttendeeCntTTL
	}
	return r.RDB.Set(ctx, r.key(eventID), cnt, ttl).Err()
}

// Invalidate deletes the key now and, when delay > 0, once more after delay
// to drop a value refilled by a reader that raced the write.
func (r *AttendeeCache) Invalidate(ctx context.Context, eventID uint64, delay time.Duration) error {
	key := r.key(eventID)
	if err := r.RDB.Del(ctx, key).Err(); err != nil {
		return err
	}
	if delay > 0 {
		go func() {
			t := time.NewTimer(delay)
			defer t.Stop()
			<-t.C
			_ = r.RDB.Del(context.Background(), key).Err()
		}()
	}
	return nil
}

// DistLock is a SET NX lock released only by its holder.
type DistLock struct {
	RDB *redis.Client
}

func (l *DistLock) key(eventID uint64) string {
	return fmt.Sprintf("%s:%d", LockKeyPrefix, eventID)
}

func (l *DistLock) Acquire(ctx context.Context, eventID uint64, token string) (bool, error) {
	return l.RDB.SetNX(ctx, l.key(eventID), token, LockTTL).Result()
}

func (l *DistLock) Release(ctx context.Context, eventID uint64, token string) error {
	return release.Run(ctx, l.RDB, []string{l.key(eventID)}, token).Err()
}
