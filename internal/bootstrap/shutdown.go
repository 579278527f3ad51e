package bootstrap

import (
	"context"
	"io"
	"log/slog"

	"github.com/osse101/FumoBot_Go/internal/autoroll"
	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/scheduler"
	"github.com/osse101/FumoBot_Go/internal/server"
	"github.com/osse101/FumoBot_Go/internal/worker"
)

// ShutdownComponents holds all components that need graceful shutdown.
// Nil fields are skipped.
type ShutdownComponents struct {
	Server             *server.Server
	AutoRoll           *autoroll.Manager
	Scheduler          *scheduler.Scheduler
	WorkerPool         *worker.Pool
	ResilientPublisher *event.ResilientPublisher
	Locker             io.Closer
	Repositories       *Repositories
}

// GracefulShutdown stops components in dependency order:
// 1. HTTP server (stop accepting new requests)
// 2. Auto-roll sessions (finish the in-flight batch of each)
// 3. Background jobs
// 4. Event publisher (flush pending retries)
// 5. Lock and storage connections
//
// Errors during shutdown are logged but do not stop the shutdown sequence.
func GracefulShutdown(ctx context.Context, c ShutdownComponents) {
	slog.Info(LogMsgShuttingDownServer)

	if c.Server != nil {
		if err := c.Server.Stop(ctx); err != nil {
			slog.Error(LogMsgServerForcedShutdown, "error", err)
		}
	}

	if c.AutoRoll != nil {
		if err := c.AutoRoll.Shutdown(ctx); err != nil {
			slog.Error(LogMsgAutoRollShutdownFailed, "error", err)
		}
	}

	if c.Scheduler != nil {
		c.Scheduler.Stop()
	}
	if c.WorkerPool != nil {
		c.WorkerPool.Stop()
	}

	if c.ResilientPublisher != nil {
		slog.Info(LogMsgShuttingDownEventPublisher)
		if err := c.ResilientPublisher.Shutdown(ctx); err != nil {
			slog.Error(LogMsgResilientPublisherFailed, "error", err)
		}
	}

	if c.Locker != nil {
		if err := c.Locker.Close(); err != nil {
			slog.Error(LogMsgResourceCloseFailed, "resource", "locker", "error", err)
		}
	}
	if c.Repositories != nil {
		c.Repositories.Close()
	}

	slog.Info(LogMsgServerStopped)
}
