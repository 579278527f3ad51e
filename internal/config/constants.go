package config

import "time"

// Configuration file paths
const (
	ConfigPathCatalog = "configs/catalog.json"
	ConfigPathBoosts  = "configs/boosts.yaml"
	DeadLetterPath    = "logs/deadletter.jsonl"
)

// Backends
const (
	StorageBackendPostgres = "postgres"
	StorageBackendMemory   = "memory"
	LockBackendMemory      = "memory"
	LockBackendRedis       = "redis"
)

// Defaults
const (
	DefaultPort                 = "8080"
	DefaultDBMaxConns           = 20
	DefaultDBMaxConnIdleTime    = 5 * time.Minute
	DefaultDBMaxConnLifetime    = 30 * time.Minute
	DefaultRedisAddr            = "localhost:6379"
	DefaultLockTTL              = 30 * time.Second
	DefaultRollCost             = 100
	DefaultStartingCoins        = 1000
	DefaultInventoryCapacity    = 100000
	DefaultMaxBatchSize         = 100
	DefaultBoostChargeThreshold = 1000
	DefaultBoostedModeRolls     = 250
	DefaultBoostedModeLuck      = 3.0
	DefaultAutoRollBatchSize    = 100
	DefaultAutoRollInterval     = 2 * time.Second
	DefaultAutoRollSummaryTTL   = 30 * time.Minute
	DefaultBoostPruneInterval   = 10 * time.Minute
	DefaultShutdownTimeout      = 30 * time.Second
	DefaultEventMaxRetries      = 3
	DefaultEventRetryDelay      = 2 * time.Second
	DefaultRateLimitPerIP       = 1000
	DefaultMaxRequestBytes      = 1 << 20
)
