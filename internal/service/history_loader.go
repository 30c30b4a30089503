package service

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/yourusername/f1-standings/internal/datasource"
	"github.com/yourusername/f1-standings/internal/logger"
	"github.com/yourusername/f1-standings/internal/metrics"
	"github.com/yourusername/f1-standings/internal/models"
	"github.com/yourusername/f1-standings/internal/repository"
)

// Snapshot origins reported to metrics and logs
const (
	OriginStore    = "store"
	OriginUpstream = "upstream"
)

// HistoryLoader collects one standings snapshot per round. Stored
// snapshots are reused; missing ones are fetched one at a time with a
// fixed delay between upstream requests.
type HistoryLoader struct {
	source    datasource.StandingsSource
	repo      repository.SnapshotRepository
	limiter   *rate.Limiter
	validator *DataValidator
	logger    *logger.AnalyticsLogger
	now       func() time.Time
}

// NewHistoryLoader creates a loader. A non-positive delay disables throttling.
func NewHistoryLoader(source datasource.StandingsSource, repo repository.SnapshotRepository, delay time.Duration, log *logrus.Logger) *HistoryLoader {
	limit := rate.Inf
	if delay > 0 {
		limit = rate.Every(delay)
	}
	if repo == nil {
		repo = repository.NewMemorySnapshotRepository()
	}
	return &HistoryLoader{
		source:    source,
		repo:      repo,
		limiter:   rate.NewLimiter(limit, 1),
		validator: NewDataValidator(log),
		logger:    logger.NewAnalyticsLogger(log),
		now:       time.Now,
	}
}

// Load returns snapshots for rounds in the given order. season addresses
// the upstream API; label keys the stored snapshots. Cancelling ctx
// abandons the remaining rounds and returns the context error.
func (h *HistoryLoader) Load(ctx context.Context, season int, label string, rounds []int) ([]models.StandingsSnapshot, error) {
	start := time.Now()
	defer func() { metrics.RecordHistoryLoad(time.Since(start).Seconds()) }()

	snapshots := make([]models.StandingsSnapshot, 0, len(rounds))
	for _, round := range rounds {
		if err := ctx.Err(); err != nil {
			return nil, err
		}

		snap, err := h.loadRound(ctx, season, label, round)
		if err != nil {
			return nil, err
		}
		snapshots = append(snapshots, *snap)
	}
	return snapshots, nil
}

func (h *HistoryLoader) loadRound(ctx context.Context, season int, label string, round int) (*models.StandingsSnapshot, error) {
	stored, err := h.repo.Get(ctx, label, round)
	switch {
	case err == nil:
		metrics.RecordSnapshotFetch(OriginStore)
		h.logger.LogHistoryFetch(label, round, OriginStore)
		return stored, nil
	case !errors.Is(err, models.ErrNotFound):
		return nil, fmt.Errorf("failed to read snapshot %s/%d: %w", label, round, err)
	}

	if err := h.limiter.Wait(ctx); err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		// the next request slot falls after the deadline
		return nil, context.DeadlineExceeded
	}

	standings, err := h.source.DriverStandingsByRound(ctx, season, round)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return nil, ctxErr
		}
		return nil, fmt.Errorf("failed to fetch standings for round %d: %w", round, err)
	}
	metrics.RecordSnapshotFetch(OriginUpstream)
	h.logger.LogHistoryFetch(label, round, OriginUpstream)

	snap := &models.StandingsSnapshot{
		Season:          label,
		Round:           strconv.Itoa(round),
		DriverStandings: standings,
		FetchedAt:       h.now().UTC(),
	}
	// An empty table is usually a round whose results are not yet published.
	subject := fmt.Sprintf("standings %s/%d", label, round)
	if len(standings) > 0 && h.validator.Report(subject, h.validator.ValidateStandings(standings)) {
		if err := h.repo.Save(ctx, snap); err != nil {
			h.logger.WithError(err).WithField("round", round).Warn("Failed to store standings snapshot")
		}
	}
	return snap, nil
}
