package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/f1-standings/internal/datasource"
	"github.com/yourusername/f1-standings/internal/models"
	"github.com/yourusername/f1-standings/internal/repository"
)

var testNow = time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

func newTestService(up *fakeUpstream, repo repository.SnapshotRepository) *DashboardService {
	history := NewHistoryLoader(up, repo, 0, quietLogger())
	return NewDashboardService(up, up, up, history, quietLogger(),
		WithClock(func() time.Time { return testNow }))
}

func threeRoundSeason() *fakeUpstream {
	return &fakeUpstream{
		standings: []models.DriverStanding{
			standing(1, "leader", "100"),
			standing(2, "chaser", "80"),
			standing(3, "third", "40"),
		},
		races: []models.Race{
			race(1, "2024-05-05"),
			race(2, "2024-05-19"),
			race(3, "2024-06-09"),
		},
		drivers: []models.SessionDriver{{DriverNumber: 1, TeamColour: "3671C6"}},
		byRound: map[int][]models.DriverStanding{
			1: {standing(1, "leader", "25"), standing(2, "chaser", "18")},
			2: {standing(1, "leader", "50"), standing(2, "chaser", "36")},
		},
	}
}

func TestLoadBuildsDashboard(t *testing.T) {
	up := threeRoundSeason()
	svc := newTestService(up, nil)

	d, err := svc.Load(context.Background(), datasource.CurrentSeason)
	require.NoError(t, err)

	assert.Equal(t, "2024", d.Season)
	assert.Equal(t, 2, d.CompletedRaces)
	assert.Equal(t, 1, d.RemainingRaces)
	assert.Equal(t, 25, d.RemainingPoints)
	require.Len(t, d.Entries, 3)

	// margin 20 of 25: 50 + 0.8*49
	assert.InDelta(t, 89.2, d.Entries[0].Probability, 0.001)
	// deficit ratio 0.8: (1-0.8)*30
	assert.InDelta(t, 6.0, d.Entries[1].Probability, 0.001)
	assert.Zero(t, d.Entries[2].Probability)
	assert.NotEmpty(t, d.Entries[0].Explanation)

	assert.Same(t, d, svc.Latest())
	assert.Equal(t, testNow, svc.LastRefresh())
}

func TestLoadFailsFastWithoutPartialResult(t *testing.T) {
	errSessions := errors.New("openf1 unavailable")
	up := threeRoundSeason()
	up.blockStandings = true
	up.driversErr = errSessions
	svc := newTestService(up, nil)

	done := make(chan struct{})
	var err error
	go func() {
		defer close(done)
		_, err = svc.Load(context.Background(), 2024)
	}()

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatal("Load did not cancel the blocked fetch")
	}
	assert.ErrorIs(t, err, errSessions)
	assert.Nil(t, svc.Latest())
	assert.True(t, svc.LastRefresh().IsZero())
}

func TestLoadPropagatesStandingsError(t *testing.T) {
	up := threeRoundSeason()
	up.standingsErr = datasource.NewDataSourceError("jolpica", datasource.ErrCodeServerError, "boom", nil)
	svc := newTestService(up, nil)

	_, err := svc.Load(context.Background(), 2024)
	require.Error(t, err)
	assert.Equal(t, datasource.ErrCodeServerError, datasource.ErrorCode(err))
}

func TestExplanation(t *testing.T) {
	svc := newTestService(threeRoundSeason(), nil)

	entry, err := svc.Explanation(context.Background(), 2024, "chaser")
	require.NoError(t, err)
	assert.Equal(t, "chaser", entry.DriverID)
	assert.Contains(t, entry.Explanation, "20-point deficit")

	_, err = svc.Explanation(context.Background(), 2024, "nobody")
	assert.ErrorIs(t, err, ErrUnknownDriver)
}

func TestProgressionUsesCompletedRoundsAndStore(t *testing.T) {
	up := threeRoundSeason()
	repo := repository.NewMemorySnapshotRepository()
	svc := newTestService(up, repo)

	chart, err := svc.Progression(context.Background(), datasource.CurrentSeason, []string{"leader", "ghost"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, up.calls())

	require.Len(t, chart.Series, 1)
	series := chart.Series[0]
	assert.Equal(t, "leader", series.DriverID)
	require.Len(t, series.Progression, 3)
	assert.Equal(t, 25.0, series.Progression[0].Points)
	assert.Equal(t, 50.0, series.Progression[1].Points)
	assert.True(t, series.Progression[2].IsProjected)
	// gains 25, 25 weighted 1 and 2
	assert.InDelta(t, 75.0, series.Progression[2].Points, 0.001)
	assert.Equal(t, []string{"Grand Prix 1", "Grand Prix 2", "Grand Prix 3"}, chart.Labels())

	stored, err := repo.ListBySeason(context.Background(), "2024")
	require.NoError(t, err)
	assert.Len(t, stored, 2)

	_, err = svc.Progression(context.Background(), datasource.CurrentSeason, []string{"leader"})
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2}, up.calls(), "second request served from the store")
}

func TestProgressionWithoutCompletedRaces(t *testing.T) {
	up := threeRoundSeason()
	up.races = []models.Race{race(1, "2024-09-01")}
	svc := newTestService(up, nil)

	chart, err := svc.Progression(context.Background(), 2024, []string{"leader"})
	require.NoError(t, err)
	assert.Empty(t, chart.Series)
	assert.Empty(t, chart.Axis)
	assert.Empty(t, up.calls())
}

func TestProgressionCalendarError(t *testing.T) {
	up := threeRoundSeason()
	up.racesErr = errors.New("calendar down")
	svc := newTestService(up, nil)

	_, err := svc.Progression(context.Background(), 2024, []string{"leader"})
	assert.Error(t, err)
}

func TestWarmHistory(t *testing.T) {
	up := threeRoundSeason()
	repo := repository.NewMemorySnapshotRepository()
	svc := newTestService(up, repo)

	n, err := svc.WarmHistory(context.Background(), 2024)
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	snap, err := repo.Get(context.Background(), "2024", 2)
	require.NoError(t, err)
	assert.Equal(t, "50", snap.DriverStandings[0].Points)
}

func TestCompletedRounds(t *testing.T) {
	races := []models.Race{
		race(3, "2024-05-19"),
		race(1, "2024-04-01"),
		race(1, "2024-04-01"),
		race(4, "2024-07-01"),
		{Round: "x", Date: "2024-01-01"},
	}
	assert.Equal(t, []int{1, 3}, completedRounds(races, testNow))
}

func TestSeasonLabel(t *testing.T) {
	assert.Equal(t, "2021", seasonLabel(2021, nil))
	assert.Equal(t, "2024", seasonLabel(datasource.CurrentSeason, []models.Race{{}, {Season: "2024"}}))
	assert.Equal(t, "current", seasonLabel(datasource.CurrentSeason, nil))
}
