// Package service orchestrates upstream fetches, analytics and history
// loading into dashboards and progression charts.
package service

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/yourusername/f1-standings/internal/analytics"
	"github.com/yourusername/f1-standings/internal/dashboard"
	"github.com/yourusername/f1-standings/internal/datasource"
	"github.com/yourusername/f1-standings/internal/logger"
	"github.com/yourusername/f1-standings/internal/metrics"
	"github.com/yourusername/f1-standings/internal/models"
)

// ErrUnknownDriver is returned when a driver id is not in the standings
var ErrUnknownDriver = errors.New("unknown driver")

// Option configures a DashboardService
type Option func(*DashboardService)

// WithClock replaces the wall clock used to classify races
func WithClock(now func() time.Time) Option {
	return func(s *DashboardService) {
		s.now = now
		if s.history != nil {
			s.history.now = now
		}
	}
}

// DashboardService builds dashboards from upstream data. Every call
// recomputes from freshly fetched inputs.
type DashboardService struct {
	standings datasource.StandingsSource
	calendar  datasource.CalendarSource
	colors    datasource.TeamColorSource
	history   *HistoryLoader
	validator *DataValidator
	logger    *logger.AnalyticsLogger
	now       func() time.Time

	mu          sync.RWMutex
	latest      *dashboard.Dashboard
	lastRefresh time.Time
}

// NewDashboardService creates a dashboard service
func NewDashboardService(
	standings datasource.StandingsSource,
	calendar datasource.CalendarSource,
	colors datasource.TeamColorSource,
	history *HistoryLoader,
	log *logrus.Logger,
	opts ...Option,
) *DashboardService {
	s := &DashboardService{
		standings: standings,
		calendar:  calendar,
		colors:    colors,
		history:   history,
		validator: NewDataValidator(log),
		logger:    logger.NewAnalyticsLogger(log),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Load fetches standings, team colours and the calendar concurrently and
// builds the dashboard. The first failure cancels the other fetches and
// is returned; no partial dashboard is produced.
func (s *DashboardService) Load(ctx context.Context, season int) (*dashboard.Dashboard, error) {
	runID := uuid.NewString()
	start := time.Now()

	var (
		standings []models.DriverStanding
		races     []models.Race
		drivers   []models.SessionDriver
	)

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		var err error
		if standings, err = s.standings.DriverStandings(gctx, season); err != nil {
			return fmt.Errorf("failed to fetch standings: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if races, err = s.calendar.Races(gctx, season); err != nil {
			return fmt.Errorf("failed to fetch calendar: %w", err)
		}
		return nil
	})
	g.Go(func() error {
		var err error
		if drivers, err = s.colors.LatestSessionDrivers(gctx); err != nil {
			return fmt.Errorf("failed to fetch session drivers: %w", err)
		}
		return nil
	})

	err := g.Wait()
	label := seasonLabel(season, races)
	if err != nil {
		metrics.RecordDashboardRefresh(time.Since(start).Seconds(), err)
		s.logger.LogRefresh(runID, label, time.Since(start), err)
		return nil, err
	}

	s.validator.Report("standings "+label, s.validator.ValidateStandings(standings))
	s.validator.Report("calendar "+label, s.validator.ValidateCalendar(races))

	d := dashboard.Build(dashboard.Input{
		Season:    label,
		Now:       s.now(),
		Standings: standings,
		Races:     races,
		Drivers:   drivers,
	})

	metrics.UpdateChampionship(d.RemainingPoints, d.RemainingRaces, d.Probabilities)
	metrics.RecordDashboardRefresh(time.Since(start).Seconds(), nil)
	s.logger.LogProbabilities(label, d.RemainingPoints, d.RemainingRaces, d.Probabilities)
	s.logger.LogRefresh(runID, label, time.Since(start), nil)

	s.mu.Lock()
	s.latest = d
	s.lastRefresh = s.now()
	s.mu.Unlock()

	return d, nil
}

// Latest returns the most recently built dashboard, or nil
func (s *DashboardService) Latest() *dashboard.Dashboard {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.latest
}

// LastRefresh returns when the last dashboard was built
func (s *DashboardService) LastRefresh() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.lastRefresh
}

// Explanation returns the dashboard entry for driverID, including its
// probability and explanation text.
func (s *DashboardService) Explanation(ctx context.Context, season int, driverID string) (dashboard.Entry, error) {
	d, err := s.Load(ctx, season)
	if err != nil {
		return dashboard.Entry{}, err
	}
	entry, ok := d.Find(driverID)
	if !ok {
		return dashboard.Entry{}, fmt.Errorf("%w: %s", ErrUnknownDriver, driverID)
	}
	return entry, nil
}

// Progression builds a points chart for driverIDs from one standings
// snapshot per completed round. Unknown drivers yield no series.
func (s *DashboardService) Progression(ctx context.Context, season int, driverIDs []string) (analytics.Chart, error) {
	races, err := s.calendar.Races(ctx, season)
	if err != nil {
		return analytics.Chart{}, fmt.Errorf("failed to fetch calendar: %w", err)
	}

	now := s.now()
	label := seasonLabel(season, races)
	rounds := completedRounds(races, now)

	var snapshots []models.StandingsSnapshot
	if len(rounds) > 0 {
		if snapshots, err = s.history.Load(ctx, season, label, rounds); err != nil {
			return analytics.Chart{}, err
		}
	}

	chart := analytics.BuildChart(driverIDs, snapshots, races, now)
	for _, series := range chart.Series {
		s.logProjection(series)
	}
	return chart, nil
}

// WarmHistory loads snapshots for every completed round so later
// progression requests are served from the store. It returns the number
// of rounds loaded.
func (s *DashboardService) WarmHistory(ctx context.Context, season int) (int, error) {
	races, err := s.calendar.Races(ctx, season)
	if err != nil {
		return 0, fmt.Errorf("failed to fetch calendar: %w", err)
	}

	rounds := completedRounds(races, s.now())
	if len(rounds) == 0 {
		return 0, nil
	}
	if _, err := s.history.Load(ctx, season, seasonLabel(season, races), rounds); err != nil {
		return 0, err
	}
	return len(rounds), nil
}

func (s *DashboardService) logProjection(series analytics.DriverSeries) {
	actual, projected := 0, 0
	var last, final float64
	for _, pt := range series.Progression {
		if pt.IsProjected {
			projected++
		} else {
			actual++
			last = pt.Points
		}
		final = pt.Points
	}
	s.logger.LogProjection(series.DriverID, actual, projected, last, final)
}

// completedRounds returns the distinct round numbers of races finished
// before now, ascending.
func completedRounds(races []models.Race, now time.Time) []int {
	seen := make(map[int]bool)
	var rounds []int
	for _, race := range analytics.Classify(races, now).Completed {
		round, ok := race.RoundNumber()
		if !ok || seen[round] {
			continue
		}
		seen[round] = true
		rounds = append(rounds, round)
	}
	sort.Ints(rounds)
	return rounds
}

// seasonLabel names a season for storage and display. The current season
// takes its year from the calendar when available.
func seasonLabel(season int, races []models.Race) string {
	if season != datasource.CurrentSeason {
		return strconv.Itoa(season)
	}
	for _, race := range races {
		if race.Season != "" {
			return race.Season
		}
	}
	return "current"
}
