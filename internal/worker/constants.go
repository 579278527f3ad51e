package worker

import "time"

// ============================================================================
// Log Messages - Worker Pool
// ============================================================================

// Log messages for pool operations
const (
	LogMsgWorkerJobFailed   = "Worker job failed"
	LogMsgWorkerJobPanicked = "Worker job panicked"
	LogMsgWorkerQueueFull   = "Worker queue full, dropping job"
	LogMsgWorkerPoolStopped = "Worker pool stopped"
)

// ============================================================================
// Log Messages - Boost Prune Job
// ============================================================================

// Log messages for the boost prune job
const (
	LogMsgBoostPruneStarting  = "Pruning expired boosts"
	LogMsgBoostPruneCompleted = "Expired boosts pruned"
	LogMsgBoostPruneFailed    = "Failed to prune expired boosts"
)

// ============================================================================
// Defaults
// ============================================================================

// DefaultJobTimeout bounds a single job run
const DefaultJobTimeout = 30 * time.Second

// ============================================================================
// Test Configuration
// ============================================================================

// Test pool configuration values used in pool_test.go
const (
	TestWorkerCount      = 2
	TestQueueSize        = 10
	TestExpectedJobCount = 2
	TestWaitTimeout      = time.Second
)
