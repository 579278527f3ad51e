package worker

import (
	"context"
	"fmt"
	"time"

	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/logger"
	"github.com/osse101/FumoBot_Go/internal/repository"
)

// BoostPruneJob deletes boost rows whose expiry has passed.
// Reads already ignore expired rows, so pruning only reclaims storage.
type BoostPruneJob struct {
	boosts repository.Boosts
	bus    event.Bus
	now    func() time.Time
}

// NewBoostPruneJob creates the job. A nil bus discards the pruned event.
func NewBoostPruneJob(boosts repository.Boosts, bus event.Bus) *BoostPruneJob {
	if bus == nil {
		bus = event.NopBus{}
	}
	return &BoostPruneJob{boosts: boosts, bus: bus, now: time.Now}
}

// Process implements Job
func (j *BoostPruneJob) Process(ctx context.Context) error {
	log := logger.FromContext(ctx)
	now := j.now()
	log.Debug(LogMsgBoostPruneStarting, "before", now)

	deleted, err := j.boosts.DeleteExpiredBoosts(ctx, now)
	if err != nil {
		log.Error(LogMsgBoostPruneFailed, "error", err)
		return fmt.Errorf("failed to prune boosts: %w", err)
	}

	if deleted > 0 {
		log.Info(LogMsgBoostPruneCompleted, "deleted", deleted)
	}
	return j.bus.Publish(ctx, event.NewBoostsPrunedEvent(deleted, now))
}
