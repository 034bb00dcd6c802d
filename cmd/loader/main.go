package main

import (
	"context"
	"errors"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/wicketlabs/scorebook/internal/app"
	"github.com/wicketlabs/scorebook/internal/config"
	"github.com/wicketlabs/scorebook/internal/observability"
	"github.com/wicketlabs/scorebook/internal/platform/id"
	"github.com/wicketlabs/scorebook/internal/platform/logging"
)

func main() {
	os.Exit(run())
}

func run() int {
	cfg, err := config.Load()
	if err != nil {
		panic(err)
	}

	logger := logging.NewJSON(cfg.LogLevel)
	if runID, idErr := id.NewRandomGenerator().NewID(); idErr == nil {
		logger = logger.With("run_id", runID)
	}
	logging.SetDefault(logger)
	defer func() {
		_ = logger.Sync()
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	shutdownUptrace, err := observability.InitUptrace(cfg, logger)
	if err != nil {
		logger.Error("init uptrace", "error", err)
		return 1
	}
	defer func() {
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := shutdownUptrace(shutdownCtx); err != nil {
			logger.Warn("uptrace shutdown failed", "error", err)
		}
	}()

	stopProfiler, err := observability.InitPyroscope(cfg, logger)
	if err != nil {
		logger.Error("init pyroscope", "error", err)
		return 1
	}
	defer func() {
		if err := stopProfiler(); err != nil {
			logger.Warn("pyroscope stop failed", "error", err)
		}
	}()

	pprofSrv, err := observability.StartPprofServer(cfg, logger)
	if err != nil {
		logger.Error("start pprof server", "error", err)
		return 1
	}
	defer func() {
		if err := observability.StopPprofServer(pprofSrv, logger, 5*time.Second); err != nil {
			logger.Warn("pprof shutdown failed", "error", err)
		}
	}()

	svc, db, err := app.NewLoader(ctx, cfg, logger)
	if err != nil {
		logger.Error("build loader", "error", err)
		return 1
	}
	defer func() {
		_ = db.Close()
	}()

	report, err := svc.Run(ctx)
	if err != nil {
		if errors.Is(err, context.Canceled) {
			logger.Warn("load cancelled",
				"documents_processed", report.Processed,
				"documents_loaded", report.Loaded,
			)
			return 1
		}
		logger.Error("load failed",
			"error", err,
			"documents_processed", report.Processed,
			"documents_loaded", report.Loaded,
			"documents_skipped", len(report.Skipped),
		)
		return 1
	}

	for _, warning := range report.Warnings {
		logger.Warn("scorecard warning", "warning", warning)
	}

	logger.Info("load finished",
		"documents_processed", report.Processed,
		"documents_loaded", report.Loaded,
		"documents_skipped", len(report.Skipped),
		"teams", report.Counts.Teams,
		"players", report.Counts.Players,
		"matches", report.Counts.Matches,
		"innings", report.Counts.Innings,
		"deliveries", report.Counts.Deliveries,
	)

	return 0
}
