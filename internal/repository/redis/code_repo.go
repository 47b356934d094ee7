package redis

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	DefaultEmailCodeTTL = 5 * time.Minute
	EmailCodePrefix     = "email:code"

	ScopeRegister = "register"
	ScopeReset    = "reset"

	pendingSuffix   = "pending"
	confirmedSuffix = "confirmed"
)

var (
	ErrCodeNotFound      = errors.New("code not found")
	ErrCodePending       = errors.New("code pending failed")
	ErrCodeConfirmFailed = errors.New("code confirm failed")
)

// promote moves the pending value to the confirmed key and resets its TTL.
var promote = redis.NewScript(`
local val = redis.call("GET", KEYS[1])
if not val then
  return 0
end
redis.call("SET", KEYS[2], val, "PX", ARGV[1])
redis.call("DEL", KEYS[1])
return 1
`)

// consume deletes the confirmed key only if it holds the given code.
var consume = redis.NewScript(`
if redis.call("GET", KEYS[1]) == ARGV[1] then
  return redis.call("DEL", KEYS[1])
end
return 0
`)

// CodeRepository stores email verification codes in two phases: pending
// until the mail went out, confirmed afterwards.
type CodeRepository struct {
	RDB *redis.Client
	TTL time.Duration
}

func (r *CodeRepository) ttl() time.Duration {
	if r.TTL > 0 {
		return r.TTL
	}
	return DefaultEmailCodeTTL
}

func codeKey(scope, phase, email string) string {
	return fmt.Sprintf("%s:%s:%s:%s", EmailCodePrefix, scope, phase, email)
}

func (r *CodeRepository) SetPending(ctx context.Context, scope, email, code string) error {
	if err := r.RDB.Set(ctx, codeKey(scope, pendingSuffix, email), code, r.ttl()).Err(); err != nil {
		return ErrCodePending
	}
	return nil
}

func (r *CodeRepository) Confirm(ctx context.Context, scope, email string) error {
	px := int64(r.ttl() / time.Millisecond)
	ok, err := promote.Run(ctx, r.RDB,
		[]string{codeKey(scope, pendingSuffix, email), codeKey(scope, confirmedSuffix, email)}, px).Int()
	if err != nil || ok != 1 {
		return ErrCodeConfirmFailed
	}
	return nil
}

// DeletePending is idempotent.
func (r *CodeRepository) DeletePending(ctx context.Context, scope, email string) error {
	return r.RDB.Del(ctx, codeKey(scope, pendingSuffix, email)).Err()
}

// Consume checks the code and deletes it atomically, so a code works once.
func (r *CodeRepository) Consume(ctx context.Context, scope, email, code string) error {
	n, err := consume.Run(ctx, r.RDB, []string{codeKey(scope, confirmedSuffix, email)}, code).Int()
	if err != nil {
		return err
	}
	if n != 1 {
		return ErrCodeNotFound
	}
	return nil
}
