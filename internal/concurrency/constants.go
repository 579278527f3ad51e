package concurrency

import "time"

// Redis lock defaults
const (
	DefaultRedisKeyPrefix      = "fumobot:lock"
	DefaultRedisLease          = 30 * time.Second
	DefaultRedisRetryDelay     = 25 * time.Millisecond
	DefaultRedisReleaseTimeout = 2 * time.Second
)

// Log messages
const (
	LogMsgRedisReleaseFailed = "Failed to release redis lock"
)
