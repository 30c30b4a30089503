// Package scheduler runs periodic dashboard refreshes and history warm-ups.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/f1-standings/internal/dashboard"
)

// MinRefreshInterval is the shortest allowed refresh period
const MinRefreshInterval = 30

// Refresher rebuilds dashboards and preloads history
type Refresher interface {
	Load(ctx context.Context, season int) (*dashboard.Dashboard, error)
	WarmHistory(ctx context.Context, season int) (int, error)
}

// Broadcaster receives every refreshed dashboard
type Broadcaster interface {
	Broadcast(d *dashboard.Dashboard) error
}

// Scheduler manages scheduled refresh jobs
type Scheduler struct {
	cron            *cron.Cron
	refresher       Refresher
	broadcaster     Broadcaster
	season          int
	logger          *logrus.Logger
	mu              sync.RWMutex
	isRunning       bool
	jobIDs          []cron.EntryID
	gracefulTimeout time.Duration
	onRefresh       func()
}

// NewScheduler creates a scheduler for season. broadcaster may be nil.
func NewScheduler(refresher Refresher, broadcaster Broadcaster, season int, logger *logrus.Logger) *Scheduler {
	cronLogger := cron.PrintfLogger(logger)
	return &Scheduler{
		cron: cron.New(
			cron.WithLocation(time.UTC),
			cron.WithLogger(cronLogger),
			cron.WithChain(cron.Recover(cronLogger), cron.SkipIfStillRunning(cronLogger)),
		),
		refresher:       refresher,
		broadcaster:     broadcaster,
		season:          season,
		logger:          logger,
		jobIDs:          make([]cron.EntryID, 0),
		gracefulTimeout: 30 * time.Second,
	}
}

// ScheduleRefresh reloads the dashboard every intervalSeconds, never more
// often than MinRefreshInterval.
func (s *Scheduler) ScheduleRefresh(intervalSeconds int) error {
	if intervalSeconds < MinRefreshInterval {
		intervalSeconds = MinRefreshInterval
	}
	timeout := time.Duration(intervalSeconds-1) * time.Second

	return s.addJob(fmt.Sprintf("@every %ds", intervalSeconds), "refresh", func() {
		ctx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()
		_ = s.RunRefresh(ctx)
	})
}

// ScheduleHistoryWarmup preloads per-round snapshots on a cron schedule
func (s *Scheduler) ScheduleHistoryWarmup(cronExpression string) error {
	return s.addJob(cronExpression, "history_warmup", func() {
		ctx, cancel := context.WithTimeout(context.Background(), 30*time.Minute)
		defer cancel()
		_ = s.RunHistoryWarmup(ctx)
	})
}

func (s *Scheduler) addJob(spec, name string, job func()) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("cannot schedule job while scheduler is running")
	}

	entryID, err := s.cron.AddFunc(spec, job)
	if err != nil {
		return fmt.Errorf("failed to add %s job: %w", name, err)
	}

	s.jobIDs = append(s.jobIDs, entryID)
	s.logger.WithFields(logrus.Fields{"job": name, "schedule": spec}).Info("Scheduled job")
	return nil
}

// OnRefresh registers fn to run after every refresh that produced a dashboard
func (s *Scheduler) OnRefresh(fn func()) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.onRefresh = fn
}

// RunRefresh rebuilds the dashboard once and broadcasts it
func (s *Scheduler) RunRefresh(ctx context.Context) error {
	d, err := s.refresher.Load(ctx, s.season)
	if err != nil {
		s.logger.WithError(err).Warn("Scheduled dashboard refresh failed")
		return err
	}

	s.mu.RLock()
	hook := s.onRefresh
	s.mu.RUnlock()
	if hook != nil {
		hook()
	}
	if s.broadcaster == nil {
		return nil
	}
	if err := s.broadcaster.Broadcast(d); err != nil {
		s.logger.WithError(err).Warn("Dashboard broadcast failed")
		return err
	}
	return nil
}

// RunHistoryWarmup loads snapshots for every completed round once
func (s *Scheduler) RunHistoryWarmup(ctx context.Context) error {
	start := time.Now()
	n, err := s.refresher.WarmHistory(ctx, s.season)
	if err != nil {
		s.logger.WithError(err).Warn("History warm-up failed")
		return err
	}
	s.logger.WithFields(logrus.Fields{
		"rounds":      n,
		"duration_ms": time.Since(start).Milliseconds(),
	}).Info("History warm-up completed")
	return nil
}

// Start starts the scheduler
func (s *Scheduler) Start() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.isRunning {
		return fmt.Errorf("scheduler is already running")
	}

	if len(s.jobIDs) == 0 {
		return fmt.Errorf("no jobs scheduled")
	}

	s.cron.Start()
	s.isRunning = true
	s.logger.WithField("jobs", len(s.jobIDs)).Info("Scheduler started")

	return nil
}

// Stop waits for running jobs to finish, up to the graceful timeout
func (s *Scheduler) Stop() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.isRunning {
		return nil
	}

	stopped := s.cron.Stop()
	s.isRunning = false

	select {
	case <-stopped.Done():
		s.logger.Info("Scheduler stopped")
		return nil
	case <-time.After(s.gracefulTimeout):
		return fmt.Errorf("scheduler jobs did not finish within %s", s.gracefulTimeout)
	}
}

// IsRunning returns whether the scheduler is currently running
func (s *Scheduler) IsRunning() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.isRunning
}

// GetNextRun returns the time of the next scheduled job run
func (s *Scheduler) GetNextRun() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if !s.isRunning || len(s.jobIDs) == 0 {
		return time.Time{}
	}

	nextRun := time.Time{}
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			nextTime := entry.Next
			if nextRun.IsZero() || nextTime.Before(nextRun) {
				nextRun = nextTime
			}
		}
	}

	return nextRun
}

// Entries returns information about scheduled entries
func (s *Scheduler) Entries() []cron.Entry {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries := make([]cron.Entry, 0, len(s.jobIDs))
	for _, jobID := range s.jobIDs {
		entry := s.cron.Entry(jobID)
		if entry.Valid() {
			entries = append(entries, entry)
		}
	}

	return entries
}
