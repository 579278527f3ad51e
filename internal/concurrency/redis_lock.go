package concurrency

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

var releaseScript = redis.NewScript(`
	if redis.call("GET", KEYS[1]) == ARGV[1] then
		return redis.call("DEL", KEYS[1])
	else
		return 0
	end
`)

// RedisLockConfig configures the distributed lock.
type RedisLockConfig struct {
	Addr       string
	Password   string
	DB         int
	KeyPrefix  string
	Lease      time.Duration // how long a crashed holder keeps the key
	RetryDelay time.Duration
}

// RedisLocker is a lease lock shared by every instance using the same Redis.
type RedisLocker struct {
	client     redis.UniversalClient
	prefix     string
	lease      time.Duration
	retryDelay time.Duration
}

var _ Locker = (*RedisLocker)(nil)

// NewRedisLocker connects to Redis and verifies the connection.
func NewRedisLocker(ctx context.Context, cfg RedisLockConfig) (*RedisLocker, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         cfg.Addr,
		Password:     cfg.Password,
		DB:           cfg.DB,
		PoolSize:     10,
		MinIdleConns: 2,
	})
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}
	return NewRedisLockerWithClient(client, cfg), nil
}

// NewRedisLockerWithClient wraps an existing client.
func NewRedisLockerWithClient(client redis.UniversalClient, cfg RedisLockConfig) *RedisLocker {
	l := &RedisLocker{
		client:     client,
		prefix:     cfg.KeyPrefix,
		lease:      cfg.Lease,
		retryDelay: cfg.RetryDelay,
	}
	if l.prefix == "" {
		l.prefix = DefaultRedisKeyPrefix
	}
	if l.lease <= 0 {
		l.lease = DefaultRedisLease
	}
	if l.retryDelay <= 0 {
		l.retryDelay = DefaultRedisRetryDelay
	}
	return l
}

// Lock polls SET NX PX until the key is free or ctx is done.
func (l *RedisLocker) Lock(ctx context.Context, key string) (func(), error) {
	redisKey := l.prefix + ":" + key
	token := uuid.NewString()

	ticker := time.NewTicker(l.retryDelay)
	defer ticker.Stop()
	for {
		ok, err := l.client.SetNX(ctx, redisKey, token, l.lease).Result()
		if err != nil {
			if ctx.Err() != nil {
				return nil, fmt.Errorf("%w: %s: %w", domain.ErrLockNotAcquired, key, ctx.Err())
			}
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrLockNotAcquired, key, err)
		}
		if ok {
			break
		}
		select {
		case <-ctx.Done():
			return nil, fmt.Errorf("%w: %s: %w", domain.ErrLockNotAcquired, key, ctx.Err())
		case <-ticker.C:
		}
	}

	return func() {
		// Release must succeed even if the caller's context is already cancelled.
		rctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), DefaultRedisReleaseTimeout)
		defer cancel()
		if err := releaseScript.Run(rctx, l.client, []string{redisKey}, token).Err(); err != nil && !errors.Is(err, redis.Nil) {
			slog.Default().Warn(LogMsgRedisReleaseFailed, "key", redisKey, "error", err)
		}
	}, nil
}

// Close closes the underlying client.
func (l *RedisLocker) Close() error {
	return l.client.Close()
}
