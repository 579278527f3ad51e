package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds the application configuration
type Config struct {
	Port        int
	LogLevel    string
	LogFormat   string
	LogDir      string
	Environment string
	APIKey      string // API key for authentication

	TrustedProxies  []string
	RateLimitPerIP  int
	MaxRequestBytes int64

	StorageBackend    string
	DBUser            string
	DBPassword        string
	DBHost            string
	DBPort            string
	DBName            string
	DBMaxConns        int
	DBMaxConnIdleTime time.Duration
	DBMaxConnLifetime time.Duration

	LockBackend   string
	RedisAddr     string
	RedisPassword string
	RedisDB       int
	LockTTL       time.Duration

	RollCost             int64
	StartingCoins        int64
	InventoryCapacity    int
	MaxBatchSize         int
	BoostChargeThreshold int
	BoostedModeRolls     int
	BoostedModeLuck      float64

	AutoRollBatchSize  int
	AutoRollInterval   time.Duration
	AutoRollSummaryTTL time.Duration

	CatalogPath        string
	BoostsPath         string
	DeadLetterPath     string
	BoostPruneInterval time.Duration
	EventMaxRetries    int
	EventRetryDelay    time.Duration
	ShutdownTimeout    time.Duration
}

// Load loads the configuration from environment variables
func Load() (*Config, error) {
	// Load .env file if it exists, but don't fail if it doesn't (could be real env vars)
	_ = godotenv.Load()

	cfg := &Config{
		LogLevel:    getEnv("LOG_LEVEL", "info"),
		LogFormat:   getEnv("LOG_FORMAT", "text"),
		LogDir:      getEnv("LOG_DIR", "logs"),
		Environment: getEnv("ENVIRONMENT", "dev"),
		APIKey:      getEnv("API_KEY", ""),

		TrustedProxies:  splitList(getEnv("TRUSTED_PROXIES", "")),
		RateLimitPerIP:  getEnvAsInt("RATE_LIMIT_PER_IP", DefaultRateLimitPerIP),
		MaxRequestBytes: int64(getEnvAsInt("MAX_REQUEST_BYTES", DefaultMaxRequestBytes)),

		StorageBackend:    getEnv("STORAGE_BACKEND", StorageBackendPostgres),
		DBUser:            getEnv("DB_USER", "postgres"),
		DBPassword:        getEnv("DB_PASSWORD", "postgres"),
		DBHost:            getEnv("DB_HOST", "localhost"),
		DBPort:            getEnv("DB_PORT", "5432"),
		DBName:            getEnv("DB_NAME", "fumobot"),
		DBMaxConns:        getEnvAsInt("DB_MAX_CONNS", DefaultDBMaxConns),
		DBMaxConnIdleTime: getEnvAsDuration("DB_MAX_CONN_IDLE_TIME", DefaultDBMaxConnIdleTime),
		DBMaxConnLifetime: getEnvAsDuration("DB_MAX_CONN_LIFETIME", DefaultDBMaxConnLifetime),

		LockBackend:   getEnv("LOCK_BACKEND", LockBackendMemory),
		RedisAddr:     getEnv("REDIS_ADDR", DefaultRedisAddr),
		RedisPassword: getEnv("REDIS_PASSWORD", ""),
		RedisDB:       getEnvAsInt("REDIS_DB", 0),
		LockTTL:       getEnvAsDuration("LOCK_TTL", DefaultLockTTL),

		RollCost:             int64(getEnvAsInt("ROLL_COST", DefaultRollCost)),
		StartingCoins:        int64(getEnvAsInt("STARTING_COINS", DefaultStartingCoins)),
		InventoryCapacity:    getEnvAsInt("INVENTORY_CAPACITY", DefaultInventoryCapacity),
		MaxBatchSize:         getEnvAsInt("MAX_BATCH_SIZE", DefaultMaxBatchSize),
		BoostChargeThreshold: getEnvAsInt("BOOST_CHARGE_THRESHOLD", DefaultBoostChargeThreshold),
		BoostedModeRolls:     getEnvAsInt("BOOSTED_MODE_ROLLS", DefaultBoostedModeRolls),
		BoostedModeLuck:      getEnvAsFloat("BOOSTED_MODE_LUCK", DefaultBoostedModeLuck),

		AutoRollBatchSize:  getEnvAsInt("AUTOROLL_BATCH_SIZE", DefaultAutoRollBatchSize),
		AutoRollInterval:   getEnvAsDuration("AUTOROLL_INTERVAL", DefaultAutoRollInterval),
		AutoRollSummaryTTL: getEnvAsDuration("AUTOROLL_SUMMARY_TTL", DefaultAutoRollSummaryTTL),

		CatalogPath:        getEnv("CATALOG_PATH", ConfigPathCatalog),
		BoostsPath:         getEnv("BOOSTS_PATH", ConfigPathBoosts),
		DeadLetterPath:     getEnv("DEAD_LETTER_PATH", DeadLetterPath),
		BoostPruneInterval: getEnvAsDuration("BOOST_PRUNE_INTERVAL", DefaultBoostPruneInterval),
		EventMaxRetries:    getEnvAsInt("EVENT_MAX_RETRIES", DefaultEventMaxRetries),
		EventRetryDelay:    getEnvAsDuration("EVENT_RETRY_DELAY", DefaultEventRetryDelay),
		ShutdownTimeout:    getEnvAsDuration("SHUTDOWN_TIMEOUT", DefaultShutdownTimeout),
	}

	port, err := strconv.Atoi(getEnv("PORT", DefaultPort))
	if err != nil {
		return nil, fmt.Errorf("invalid PORT value: %w", err)
	}
	cfg.Port = port

	// Validate API key is set
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API_KEY environment variable must be set for security")
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Validate checks the engine settings for values the roll engine cannot run with
func (c *Config) Validate() error {
	switch c.StorageBackend {
	case StorageBackendPostgres, StorageBackendMemory:
	default:
		return fmt.Errorf("invalid STORAGE_BACKEND %q: must be %s or %s", c.StorageBackend, StorageBackendPostgres, StorageBackendMemory)
	}
	switch c.LockBackend {
	case LockBackendMemory, LockBackendRedis:
	default:
		return fmt.Errorf("invalid LOCK_BACKEND %q: must be %s or %s", c.LockBackend, LockBackendMemory, LockBackendRedis)
	}
	if c.RollCost <= 0 {
		return fmt.Errorf("ROLL_COST must be positive, got %d", c.RollCost)
	}
	if c.StartingCoins < 0 {
		return fmt.Errorf("STARTING_COINS must not be negative, got %d", c.StartingCoins)
	}
	if c.InventoryCapacity <= 0 {
		return fmt.Errorf("INVENTORY_CAPACITY must be positive, got %d", c.InventoryCapacity)
	}
	if c.MaxBatchSize <= 0 {
		return fmt.Errorf("MAX_BATCH_SIZE must be positive, got %d", c.MaxBatchSize)
	}
	if c.AutoRollBatchSize <= 0 || c.AutoRollBatchSize > c.MaxBatchSize {
		return fmt.Errorf("AUTOROLL_BATCH_SIZE must be between 1 and MAX_BATCH_SIZE (%d), got %d", c.MaxBatchSize, c.AutoRollBatchSize)
	}
	if c.BoostChargeThreshold <= 0 || c.BoostedModeRolls <= 0 {
		return fmt.Errorf("BOOST_CHARGE_THRESHOLD and BOOSTED_MODE_ROLLS must be positive")
	}
	if c.RateLimitPerIP <= 0 {
		return fmt.Errorf("RATE_LIMIT_PER_IP must be positive, got %d", c.RateLimitPerIP)
	}
	if c.BoostPruneInterval <= 0 {
		return fmt.Errorf("BOOST_PRUNE_INTERVAL must be positive, got %s", c.BoostPruneInterval)
	}
	if c.BoostedModeLuck < 1 {
		return fmt.Errorf("BOOSTED_MODE_LUCK must be at least 1, got %g", c.BoostedModeLuck)
	}
	return nil
}

// getEnv retrieves an environment variable or returns a default value
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

// getEnvAsInt parses an integer variable, falling back to the default when unset or invalid
func getEnvAsInt(key string, defaultValue int) int {
	value, err := strconv.Atoi(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

func getEnvAsFloat(key string, defaultValue float64) float64 {
	value, err := strconv.ParseFloat(getEnv(key, ""), 64)
	if err != nil {
		return defaultValue
	}
	return value
}

// getEnvAsDuration parses a Go duration string such as "30s" or "1h30m"
func getEnvAsDuration(key string, defaultValue time.Duration) time.Duration {
	value, err := time.ParseDuration(getEnv(key, ""))
	if err != nil {
		return defaultValue
	}
	return value
}

// splitList parses a comma-separated variable, dropping empty items
func splitList(raw string) []string {
	var out []string
	for _, item := range strings.Split(raw, ",") {
		if item = strings.TrimSpace(item); item != "" {
			out = append(out, item)
		}
	}
	return out
}

// GetDBConnString returns the PostgreSQL connection string
func (c *Config) GetDBConnString() string {
	return fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=disable",
		c.DBUser,
		c.DBPassword,
		c.DBHost,
		c.DBPort,
		c.DBName,
	)
}
