package concurrency

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/osse101/FumoBot_Go/internal/domain"
)

func setupRedis(t *testing.T) *redis.Client {
	t.Helper()
	if testing.Short() {
		t.Skip("Skipping integration test in short mode")
	}

	ctx := context.Background()
	container, err := testcontainers.GenericContainer(ctx, testcontainers.GenericContainerRequest{
		ContainerRequest: testcontainers.ContainerRequest{
			Image:        "redis:7-alpine",
			ExposedPorts: []string{"6379/tcp"},
			WaitingFor:   wait.ForLog("Ready to accept connections"),
		},
		Started: true,
	})
	if err != nil {
		t.Skipf("failed to start redis container: %v", err)
	}
	t.Cleanup(func() { _ = container.Terminate(ctx) })

	host, err := container.Host(ctx)
	require.NoError(t, err)
	port, err := container.MappedPort(ctx, "6379")
	require.NoError(t, err)

	client := redis.NewClient(&redis.Options{Addr: fmt.Sprintf("%s:%s", host, port.Port())})
	t.Cleanup(func() { _ = client.Close() })
	return client
}

func TestRedisLocker_MutualExclusion(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	l := NewRedisLockerWithClient(client, RedisLockConfig{Lease: 5 * time.Second, RetryDelay: 5 * time.Millisecond})

	unlock, err := l.Lock(ctx, UserKey("u1"))
	require.NoError(t, err)

	waitCtx, cancel := context.WithTimeout(ctx, 50*time.Millisecond)
	defer cancel()
	_, err = l.Lock(waitCtx, UserKey("u1"))
	assert.ErrorIs(t, err, domain.ErrLockNotAcquired)

	unlock()

	unlock2, err := l.Lock(ctx, UserKey("u1"))
	require.NoError(t, err)
	unlock2()
}

func TestRedisLocker_StaleUnlockKeepsNewHolder(t *testing.T) {
	client := setupRedis(t)
	ctx := context.Background()
	l := NewRedisLockerWithClient(client, RedisLockConfig{Lease: 100 * time.Millisecond, RetryDelay: 5 * time.Millisecond})

	staleUnlock, err := l.Lock(ctx, "k")
	require.NoError(t, err)
	time.Sleep(150 * time.Millisecond)

	l2 := NewRedisLockerWithClient(client, RedisLockConfig{Lease: 5 * time.Second})
	unlock, err := l2.Lock(ctx, "k")
	require.NoError(t, err)
	defer unlock()

	staleUnlock()

	exists, err := client.Exists(ctx, DefaultRedisKeyPrefix+":k").Result()
	require.NoError(t, err)
	assert.Equal(t, int64(1), exists)
}
