package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/2beens/rehabtracker/internal"
	"github.com/2beens/rehabtracker/internal/config"
	"github.com/2beens/rehabtracker/internal/logging"

	log "github.com/sirupsen/logrus"
)

// rebuilds progress and pain stats of stored plans from their ledgers, raises no alerts

func main() {
	env := flag.String("env", "development", "environment [prod | production | dev | development]")
	configPath := flag.String("config", "./config.toml", "path for the TOML config file")
	planID := flag.String("plan", "", "recompute only this plan (all plans if empty)")
	timeout := flag.Duration("timeout", 10*time.Minute, "max run duration")
	flag.Parse()

	cfg, err := config.Load(*env, *configPath)
	if err != nil {
		panic(err)
	}

	logging.Setup(logging.LoggerSetupParams{
		LogToStdout:      true,
		LogLevel:         cfg.LogLevel,
		LogFormatJSON:    cfg.LogFormatJSON,
		Environment:      cfg.Environment,
		SentryEnabled:    cfg.SentryEnabled,
		SentryDSN:        os.Getenv("SENTRY_DSN"),
		SentryServerName: "rehab-recompute",
	})

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer cancel()
	ctx, timeoutCancel := context.WithTimeout(ctx, *timeout)
	defer timeoutCancel()

	deps, err := internal.NewServiceDeps(ctx, internal.NewServerParams{
		Config:           cfg,
		PostgresUser:     os.Getenv("REHAB_POSTGRES_USER"),
		PostgresPassword: os.Getenv("REHAB_POSTGRES_PASS"),
		RedisPassword:    os.Getenv("REHAB_REDIS_PASS"),
	}, "recompute")
	if err != nil {
		log.Fatalf("setup: %s", err)
	}

	err = run(ctx, deps, *planID)
	deps.Close()
	if err != nil {
		log.Errorf("%s", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, deps *internal.ServiceDeps, planID string) error {
	if planID != "" {
		res, err := deps.Service.Recompute(ctx, planID)
		if err != nil {
			return fmt.Errorf("recompute plan [%s]: %w", planID, err)
		}
		log.Infof("plan [%s] recomputed, streak %d", res.PlanID, res.Progress.ConsecutiveCompletedDays)
		return nil
	}

	report, err := deps.Service.RecomputeAll(ctx)
	if report != nil && len(report.Failed) > 0 {
		log.Warnf("failed plans: %v", report.Failed)
	}
	if err != nil {
		return fmt.Errorf("recompute all: %w", err)
	}
	return nil
}
