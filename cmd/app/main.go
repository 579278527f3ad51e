package main

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/osse101/FumoBot_Go/internal/autoroll"
	"github.com/osse101/FumoBot_Go/internal/boost"
	"github.com/osse101/FumoBot_Go/internal/bootstrap"
	"github.com/osse101/FumoBot_Go/internal/config"
	"github.com/osse101/FumoBot_Go/internal/inventory"
	"github.com/osse101/FumoBot_Go/internal/roll"
	"github.com/osse101/FumoBot_Go/internal/server"
)

// Version is set at build time via -ldflags "-X main.Version=...".
var Version = "dev"

func main() {
	if err := run(); err != nil {
		slog.Error("FumoBot failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}

	logFile, err := bootstrap.SetupLogger(cfg, Version)
	if err != nil {
		return err
	}
	defer logFile.Close()

	warnings, err := config.ValidateEnvWithWarnings()
	if err != nil {
		return err
	}
	for _, w := range warnings {
		slog.Warn("Configuration warning", "warning", w)
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	repos, err := bootstrap.InitializeRepositories(ctx, cfg)
	if err != nil {
		return err
	}
	locker, lockCloser, err := bootstrap.InitializeLocker(ctx, cfg)
	if err != nil {
		repos.Close()
		return err
	}

	cat, defs, err := bootstrap.LoadContent(cfg)
	if err != nil {
		repos.Close()
		return err
	}

	_, publisher, err := bootstrap.InitializeEventSystem(cfg)
	if err != nil {
		repos.Close()
		return err
	}

	boosts := boost.NewLedger(repos.Boosts, defs, locker)
	guard := inventory.NewGuard(repos.Inventory, cfg.InventoryCapacity)
	items := inventory.NewLedger(repos.Inventory)

	rolls := roll.NewService(roll.Deps{
		Economy: repos.Economy,
		Boosts:  boosts,
		Guard:   guard,
		Ledger:  items,
		Locker:  locker,
		Bus:     publisher,
	}, roll.Config{
		Cost:                 cfg.RollCost,
		MaxBatchSize:         cfg.MaxBatchSize,
		BoostChargeThreshold: cfg.BoostChargeThreshold,
		BoostedModeRolls:     cfg.BoostedModeRolls,
		BoostedModeLuck:      cfg.BoostedModeLuck,
	})

	autoRoll := autoroll.NewManager(rolls, nil, publisher, autoroll.Config{
		BatchSize:  cfg.AutoRollBatchSize,
		Interval:   cfg.AutoRollInterval,
		SummaryTTL: cfg.AutoRollSummaryTTL,
	})

	pool, sched := bootstrap.StartBackgroundJobs(cfg, repos.Boosts, publisher)

	srv := server.NewServer(server.Options{
		Port:            cfg.Port,
		APIKey:          cfg.APIKey,
		TrustedProxies:  cfg.TrustedProxies,
		RateLimitPerIP:  cfg.RateLimitPerIP,
		MaxRequestBytes: cfg.MaxRequestBytes,
	}, server.Deps{
		Store:         repos.Health,
		Economy:       repos.Economy,
		Rolls:         rolls,
		AutoRoll:      autoRoll,
		Boosts:        boosts,
		Inventory:     items,
		Capacity:      guard,
		Catalog:       cat,
		Bus:           publisher,
		StartingCoins: cfg.StartingCoins,
	})

	serveErr := make(chan error, 1)
	go func() {
		if err := srv.Start(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
		}
		close(serveErr)
	}()

	select {
	case <-ctx.Done():
	case err = <-serveErr:
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	bootstrap.GracefulShutdown(shutdownCtx, bootstrap.ShutdownComponents{
		Server:             srv,
		AutoRoll:           autoRoll,
		Scheduler:          sched,
		WorkerPool:         pool,
		ResilientPublisher: publisher,
		Locker:             lockCloser,
		Repositories:       repos,
	})
	return err
}
