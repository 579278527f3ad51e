package bootstrap

import (
	"fmt"
	"log/slog"

	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/catalog"
	"github.com/osse101/FumoBot_Go/internal/config"
	"github.com/osse101/FumoBot_Go/internal/event"
	"github.com/osse101/FumoBot_Go/internal/repository"
	"github.com/osse101/FumoBot_Go/internal/scheduler"
	"github.com/osse101/FumoBot_Go/internal/worker"
)

// LoadContent reads the fumo catalog and the boost definitions from disk.
func LoadContent(cfg *config.Config) (*catalog.Catalog, boost.Definitions, error) {
	cat, err := catalog.Load(cfg.CatalogPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadCatalog, err)
	}
	defs, err := boost.LoadDefinitions(cfg.BoostsPath)
	if err != nil {
		return nil, nil, fmt.Errorf("%s: %w", ErrMsgFailedLoadBoosts, err)
	}
	slog.Info(LogMsgContentLoaded,
		"catalog", cfg.CatalogPath,
		"boost_definitions", len(defs))
	return cat, defs, nil
}

// StartBackgroundJobs starts the worker pool and schedules the periodic jobs.
func StartBackgroundJobs(cfg *config.Config, boosts repository.Boosts, bus event.Bus) (*worker.Pool, *scheduler.Scheduler) {
	pool := worker.NewPool(WorkerPoolSize, WorkerQueueSize)
	pool.Start()

	sched := scheduler.New(pool)
	sched.Schedule(BoostPruneJobName, cfg.BoostPruneInterval, worker.NewBoostPruneJob(boosts, bus))

	slog.Info(LogMsgBackgroundJobsInit, "boost_prune_interval", cfg.BoostPruneInterval)
	return pool, sched
}
