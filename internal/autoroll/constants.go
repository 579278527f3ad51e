package autoroll

import (
	"errors"
	"time"
)

// Defaults used when Config fields are unset.
const (
	DefaultBatchSize        = 100
	DefaultInterval         = 2 * time.Second
	DefaultSummaryTTL       = 30 * time.Minute
	DefaultSummaryCacheSize = 1024
)

// Log messages
const (
	LogMsgSessionStarted      = "Auto-roll session started"
	LogMsgSessionStopped      = "Auto-roll session stopped"
	LogMsgBatchFailed         = "Auto-roll batch failed"
	LogMsgPresentFailed       = "Failed to present auto-roll notification"
	LogMsgPublishFailed       = "Failed to publish auto-roll event"
	LogMsgShuttingDown        = "Shutting down auto-roll manager..."
	LogMsgShutdownDone        = "Auto-roll manager shutdown complete"
	LogMsgShutdownForced      = "Auto-roll manager shutdown forced by context cancellation"
	LogMsgInvalidTransition   = "Ignored auto-roll event in current state"
	LogMsgNotificationPresent = "Auto-roll notification"
)

// ErrManagerClosed is returned by Start after Shutdown.
var ErrManagerClosed = errors.New("auto-roll manager is shut down")

var (
	errStopRequested = errors.New("stop requested")
	errShutdown      = errors.New("manager shutdown")
)
