package lock

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/bsm/redislock"
	"github.com/redis/go-redis/v9"
)

// ErrNotObtained is returned when another holder owns the lock.
var ErrNotObtained = errors.New("lock is held by another pass")

// Lock is a held lease.
type Lock interface {
	Release(ctx context.Context) error
}

// Locker obtains named leases.
type Locker interface {
	Obtain(ctx context.Context, key string) (Lock, error)
}

// Key returns the pass lock key of an account.
func Key(accountID string) string {
	return "reconcile:" + accountID
}

// RedisLocker obtains leases with redislock.
type RedisLocker struct {
	client *redislock.Client
	ttl    time.Duration
}

// NewRedisLocker creates a locker on an existing redis client.
func NewRedisLocker(rdb redis.UniversalClient, ttl time.Duration) *RedisLocker {
	return &RedisLocker{client: redislock.New(rdb), ttl: ttl}
}

// Obtain tries once to take the lease.
func (l *RedisLocker) Obtain(ctx context.Context, key string) (Lock, error) {
	held, err := l.client.Obtain(ctx, key, l.ttl, nil)
	if errors.Is(err, redislock.ErrNotObtained) {
		return nil, fmt.Errorf("%w: %s", ErrNotObtained, key)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to obtain lock %s: %w", key, err)
	}
	return held, nil
}

// Noop grants every lease.
type Noop struct{}

type noopLock struct{}

func (noopLock) Release(context.Context) error { return nil }

// Obtain always succeeds.
func (Noop) Obtain(context.Context, string) (Lock, error) {
	return noopLock{}, nil
}

// New builds the Locker described by cfg. The returned close function
// releases the Redis connection.
func New(cfg Config) (Locker, func() error, error) {
	if cfg.Address == "" {
		return Noop{}, func() error { return nil }, nil
	}

	ttl := time.Duration(cfg.LockTTLSeconds) * time.Second
	if ttl <= 0 {
		return nil, nil, fmt.Errorf("lock_ttl_seconds must be positive, got %d", cfg.LockTTLSeconds)
	}

	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Address,
		Password: cfg.Password,
		DB:       cfg.DB,
	})
	return NewRedisLocker(rdb, ttl), rdb.Close, nil
}
