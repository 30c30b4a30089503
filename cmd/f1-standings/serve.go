package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/f1-standings/internal/api"
	"github.com/yourusername/f1-standings/internal/health"
	"github.com/yourusername/f1-standings/internal/scheduler"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the API, websocket push, health probes and scheduled refreshes",
	RunE: func(cmd *cobra.Command, args []string) error {
		return runServer(cmd.Context())
	},
}

func runServer(parent context.Context) error {
	ctx, stop := signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
	defer stop()

	appLog.WithFields(logrus.Fields{
		"environment": cfg.App.Environment,
		"season":      cfg.Season,
		"version":     Version,
	}).Info("F1 standings service starting")

	hub := api.NewHub(appLog)
	defer hub.Close()

	router := api.NewRouter(dashboards, hub, appLog, api.RouterConfig{
		MetricsEnabled: cfg.Metrics.Enabled,
		MetricsPath:    cfg.Metrics.Path,
	})
	apiDone := api.NewServer(cfg.Server, router, appLog).Start(ctx)

	var checkers []health.Checker
	if db != nil {
		checkers = append(checkers, health.DatabaseCheck(db))
	}
	if cfg.Scheduler.Enabled {
		maxAge := 3 * time.Duration(max(cfg.Scheduler.RefreshIntervalSeconds, scheduler.MinRefreshInterval)) * time.Second
		checkers = append(checkers, health.FreshnessCheck("dashboard", dashboards.LastRefresh, maxAge))
	}

	healthSrv := health.NewServer(health.Config{
		ServiceName: cfg.App.Name,
		Version:     Version,
		Commit:      GitCommit,
		Port:        cfg.Health.Port,
		GRPCPort:    cfg.Health.GRPCPort,
		Logger:      appLog,
		Checkers:    checkers,
	})
	healthDone, err := healthSrv.Start(ctx)
	if err != nil {
		return err
	}

	sched := scheduler.NewScheduler(dashboards, hub, cfg.Season, appLog)
	sched.OnRefresh(func() {
		if ctx.Err() == nil && !healthSrv.IsReady() {
			appLog.Info("First dashboard built, marking service ready")
			healthSrv.SetReady(true)
		}
	})
	if cfg.Scheduler.Enabled {
		if err := sched.ScheduleRefresh(cfg.Scheduler.RefreshIntervalSeconds); err != nil {
			return err
		}
		if cfg.Scheduler.HistoryWarmupCron != "" {
			if err := sched.ScheduleHistoryWarmup(cfg.Scheduler.HistoryWarmupCron); err != nil {
				return err
			}
		}
		if err := sched.Start(); err != nil {
			return err
		}
	}

	go func() {
		refreshCtx, cancel := context.WithTimeout(ctx, time.Minute)
		defer cancel()
		if err := sched.RunRefresh(refreshCtx); err != nil {
			appLog.WithError(err).Warn("Initial dashboard refresh failed, staying unready until a refresh succeeds")
		}
	}()

	<-ctx.Done()
	appLog.Info("Shutdown signal received")
	healthSrv.SetReady(false)

	if err := sched.Stop(); err != nil {
		appLog.WithError(err).Warn("Scheduler did not stop cleanly")
	}
	<-apiDone
	<-healthDone
	appLog.Info("F1 standings service stopped")
	return nil
}
