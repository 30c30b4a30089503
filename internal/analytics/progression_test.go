package analytics

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/yourusername/f1-standings/internal/models"
)

func fiveRoundCalendar() []models.Race {
	return []models.Race{
		race("1", "Bahrain Grand Prix", "2024-03-02", "15:00:00Z"),
		race("2", "Saudi Arabian Grand Prix", "2024-03-09", "17:00:00Z"),
		race("3", "Australian Grand Prix", "2024-03-24", "04:00:00Z"),
		race("4", "Japanese Grand Prix", "2024-04-07", "05:00:00Z"),
		race("5", "Chinese Grand Prix", "2024-04-21", "07:00:00Z"),
	}
}

// TestBuildProgressionProjection tests actual history followed by a weighted projection
func TestBuildProgressionProjection(t *testing.T) {
	now := time.Date(2024, 3, 30, 0, 0, 0, 0, time.UTC)
	snapshots := []models.StandingsSnapshot{
		snapshot("1", standing("1", "ver", "Max", "10")),
		snapshot("2", standing("1", "ver", "Max", "18")),
		snapshot("3", standing("1", "ver", "Max", "25")),
	}

	points := BuildProgression("ver", snapshots, fiveRoundCalendar(), now)

	require.Len(t, points, 5)
	for i, want := range []float64{10, 18, 25} {
		assert.Equal(t, i+1, points[i].Round)
		assert.Equal(t, want, points[i].Points)
		assert.False(t, points[i].IsProjected)
	}
	assert.Equal(t, "Australian Grand Prix", points[2].RaceName)

	assert.True(t, points[3].IsProjected)
	assert.Equal(t, 4, points[3].Round)
	assert.Equal(t, "Japanese Grand Prix", points[3].RaceName)
	assert.InDelta(t, 32.83, points[3].Points, 0.01)

	assert.True(t, points[4].IsProjected)
	assert.Equal(t, 5, points[4].Round)
	assert.InDelta(t, 40.67, points[4].Points, 0.01)
}

// TestBuildProgressionSortsAndNamesRounds tests ordering and the "Round N" fallback
func TestBuildProgressionSortsAndNamesRounds(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []models.StandingsSnapshot{
		snapshot("3", standing("1", "ver", "Max", "25")),
		snapshot("1", standing("1", "ver", "Max", "10")),
		snapshot("7", standing("1", "ver", "Max", "60")),
		snapshot("x", standing("1", "ver", "Max", "99")),
	}

	points := BuildProgression("ver", snapshots, fiveRoundCalendar(), now)

	require.Len(t, points, 3)
	assert.Equal(t, []int{1, 3, 7}, []int{points[0].Round, points[1].Round, points[2].Round})
	assert.Equal(t, "Bahrain Grand Prix", points[0].RaceName)
	assert.Equal(t, "Round 7", points[2].RaceName)
}

// TestBuildProgressionDuplicateRounds tests that the last snapshot of a round wins
func TestBuildProgressionDuplicateRounds(t *testing.T) {
	now := time.Date(2025, 1, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []models.StandingsSnapshot{
		snapshot("1", standing("1", "ver", "Max", "10")),
		snapshot("2", standing("1", "ver", "Max", "18")),
		snapshot("1", standing("1", "ver", "Max", "12")),
	}

	points := BuildProgression("ver", snapshots, fiveRoundCalendar(), now)

	require.Len(t, points, 2)
	assert.Equal(t, 1, points[0].Round)
	assert.Equal(t, 12.0, points[0].Points)
	assert.Equal(t, 2, points[1].Round)
	for i := 1; i < len(points); i++ {
		assert.Greater(t, points[i].Round, points[i-1].Round)
	}
}

// TestBuildProgressionUnknownDriver tests a driver absent from every snapshot
func TestBuildProgressionUnknownDriver(t *testing.T) {
	snapshots := []models.StandingsSnapshot{
		snapshot("1", standing("1", "ver", "Max", "25")),
	}

	points := BuildProgression("nobody", snapshots, fiveRoundCalendar(), time.Now())

	require.NotNil(t, points)
	assert.Empty(t, points)
}

// TestBuildProgressionWindow tests that only the most recent rounds drive the projection
func TestBuildProgressionWindow(t *testing.T) {
	races := []models.Race{
		race("7", "Round Seven", "2024-05-19", "13:00:00Z"),
	}
	now := time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)
	snapshots := []models.StandingsSnapshot{
		snapshot("1", standing("1", "d", "D", "100")),
		snapshot("2", standing("1", "d", "D", "100")),
		snapshot("3", standing("1", "d", "D", "110")),
		snapshot("4", standing("1", "d", "D", "120")),
		snapshot("5", standing("1", "d", "D", "130")),
		snapshot("6", standing("1", "d", "D", "140")),
	}

	points := BuildProgression("d", snapshots, races, now)

	require.Len(t, points, 7)
	projected := points[6]
	assert.True(t, projected.IsProjected)
	assert.InDelta(t, 140+140.0/15.0, projected.Points, 1e-9)
}

// TestBuildProgressionSkipsPastAndCurrentRounds tests which races get projected
func TestBuildProgressionSkipsPastAndCurrentRounds(t *testing.T) {
	now := time.Date(2024, 4, 7, 5, 0, 0, 0, time.UTC)
	snapshots := []models.StandingsSnapshot{
		snapshot("1", standing("1", "ver", "Max", "25")),
		snapshot("2", standing("1", "ver", "Max", "50")),
	}

	points := BuildProgression("ver", snapshots, fiveRoundCalendar(), now)

	// round 3 already ran and round 4 starts exactly now
	require.Len(t, points, 3)
	assert.Equal(t, 5, points[2].Round)
	assert.True(t, points[2].IsProjected)
	assert.InDelta(t, 75.0, points[2].Points, 1e-9)
}

// TestBuildProgressionSeasonOver tests that nothing is projected once all races ran
func TestBuildProgressionSeasonOver(t *testing.T) {
	now := time.Date(2024, 12, 31, 0, 0, 0, 0, time.UTC)
	snapshots := []models.StandingsSnapshot{
		snapshot("1", standing("1", "ver", "Max", "25")),
		snapshot("2", standing("1", "ver", "Max", "44")),
	}

	points := BuildProgression("ver", snapshots, fiveRoundCalendar(), now)

	require.Len(t, points, 2)
	for _, p := range points {
		assert.False(t, p.IsProjected)
	}
}

// TestBuildProgressionMonotonicProjection tests that non-negative gains never project a drop
func TestBuildProgressionMonotonicProjection(t *testing.T) {
	now := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
	snapshots := []models.StandingsSnapshot{
		snapshot("1", standing("1", "ver", "Max", "0")),
		snapshot("2", standing("1", "ver", "Max", "12")),
	}

	points := BuildProgression("ver", snapshots, fiveRoundCalendar(), now)

	require.Len(t, points, 5)
	for i := 1; i < len(points); i++ {
		assert.GreaterOrEqual(t, points[i].Points, points[i-1].Points)
	}
}

// TestBuildChart tests aligning several drivers on a shared axis
func TestBuildChart(t *testing.T) {
	races := []models.Race{
		race("1", "Bahrain Grand Prix", "2024-03-02", "15:00:00Z"),
		race("2", "Saudi Arabian Grand Prix", "2024-03-09", "17:00:00Z"),
		race("3", "Australian Grand Prix", "2024-03-24", "04:00:00Z"),
	}
	now := time.Date(2024, 3, 15, 0, 0, 0, 0, time.UTC)
	snapshots := []models.StandingsSnapshot{
		snapshot("1", standing("1", "ver", "Max", "25"), standing("2", "per", "Sergio", "18")),
		snapshot("2", standing("1", "per", "Sergio", "44"), standing("2", "ver", "Max", "43"), standing("3", "lec", "Charles", "27")),
	}

	chart := BuildChart([]string{"ver", "lec", "ver", "ghost"}, snapshots, races, now)

	require.Len(t, chart.Axis, 3)
	assert.Equal(t, []string{"Bahrain Grand Prix", "Saudi Arabian Grand Prix", "Australian Grand Prix"}, chart.Labels())

	require.Len(t, chart.Series, 2)
	ver := chart.Series[0]
	assert.Equal(t, "ver", ver.DriverID)
	require.NotNil(t, ver.Actual[0])
	require.NotNil(t, ver.Actual[1])
	assert.Nil(t, ver.Actual[2])
	assert.Equal(t, 25.0, *ver.Actual[0])
	assert.Equal(t, 43.0, *ver.Actual[1])

	assert.Nil(t, ver.Projected[0])
	require.NotNil(t, ver.Projected[1])
	assert.Equal(t, 43.0, *ver.Projected[1])
	require.NotNil(t, ver.Projected[2])
	assert.InDelta(t, 43+61.0/3.0, *ver.Projected[2], 1e-9)

	lec := chart.Series[1]
	assert.Equal(t, "lec", lec.DriverID)
	assert.Nil(t, lec.Actual[0])
	require.NotNil(t, lec.Actual[1])
	assert.Equal(t, 27.0, *lec.Actual[1])
}

// TestBuildChartEmpty tests a chart without any history
func TestBuildChartEmpty(t *testing.T) {
	chart := BuildChart([]string{"ver"}, nil, fiveRoundCalendar(), time.Now())
	assert.Empty(t, chart.Axis)
	assert.Empty(t, chart.Series)
}
