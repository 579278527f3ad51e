package bootstrap

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/osse101/FumoBot_Go/internal/concurrency"
	"github.com/osse101/FumoBot_Go/internal/config"
	"github.com/osse101/FumoBot_Go/internal/database"
	"github.com/osse101/FumoBot_Go/internal/database/memory"
	"github.com/osse101/FumoBot_Go/internal/database/postgres"
	"github.com/osse101/FumoBot_Go/internal/handler"
	"github.com/osse101/FumoBot_Go/internal/repository"
)

// Repositories holds the repository implementations selected by STORAGE_BACKEND.
type Repositories struct {
	Economy   repository.Economy
	Boosts    repository.Boosts
	Inventory repository.Inventory
	Health    handler.Pinger

	close func()
}

// Close releases the underlying connection pool, if any.
func (r *Repositories) Close() {
	if r.close != nil {
		r.close()
	}
}

// InitializeRepositories opens the configured storage backend. The postgres
// backend runs pending migrations before returning.
func InitializeRepositories(ctx context.Context, cfg *config.Config) (*Repositories, error) {
	switch cfg.StorageBackend {
	case config.StorageBackendMemory:
		store := memory.NewStore()
		slog.Info(LogMsgStorageInitialized, "backend", cfg.StorageBackend)
		return &Repositories{
			Economy:   store,
			Boosts:    store,
			Inventory: store,
			Health:    store,
		}, nil

	case config.StorageBackendPostgres:
		dbPool, err := database.NewPool(ctx, database.PoolConfig{
			URL:         cfg.GetDBConnString(),
			MaxConns:    cfg.DBMaxConns,
			MaxConnIdle: cfg.DBMaxConnIdleTime,
			MaxConnLife: cfg.DBMaxConnLifetime,
		})
		if err != nil {
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedOpenDatabase, err)
		}
		if err := postgres.Migrate(ctx, dbPool); err != nil {
			dbPool.Close()
			return nil, fmt.Errorf("%s: %w", ErrMsgFailedMigrate, err)
		}
		slog.Info(LogMsgStorageInitialized, "backend", cfg.StorageBackend, "host", cfg.DBHost, "db", cfg.DBName)
		return &Repositories{
			Economy:   postgres.NewEconomyRepository(dbPool),
			Boosts:    postgres.NewBoostRepository(dbPool),
			Inventory: postgres.NewInventoryRepository(dbPool),
			Health:    dbPool,
			close:     dbPool.Close,
		}, nil
	}
	return nil, fmt.Errorf("%s: storage %q", ErrMsgUnknownBackend, cfg.StorageBackend)
}

// InitializeLocker builds the per-user lock selected by LOCK_BACKEND.
// The returned closer is non-nil only for backends holding connections.
func InitializeLocker(ctx context.Context, cfg *config.Config) (concurrency.Locker, io.Closer, error) {
	switch cfg.LockBackend {
	case config.LockBackendMemory:
		slog.Info(LogMsgLockerInitialized, "backend", cfg.LockBackend)
		return concurrency.NewLockManager(), nil, nil

	case config.LockBackendRedis:
		locker, err := concurrency.NewRedisLocker(ctx, concurrency.RedisLockConfig{
			Addr:       cfg.RedisAddr,
			Password:   cfg.RedisPassword,
			DB:         cfg.RedisDB,
			KeyPrefix:  RedisLockKeyPrefix,
			Lease:      cfg.LockTTL,
			RetryDelay: RedisLockRetryDelay,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedConnectRedis, err)
		}
		slog.Info(LogMsgLockerInitialized, "backend", cfg.LockBackend, "addr", cfg.RedisAddr)
		return locker, locker, nil
	}
	return nil, nil, fmt.Errorf("%s: lock %q", ErrMsgUnknownBackend, cfg.LockBackend)
}
