package analytics

import (
	"fmt"
	"sort"
	"time"

	"github.com/samber/lo"
	"github.com/yourusername/f1-standings/internal/models"
)

// ProjectionWindow is the number of most recent rounds used to estimate
// future scoring.
const ProjectionWindow = 5

// AxisLabel is one round on a shared chart axis.
type AxisLabel struct {
	Round    int    `json:"round"`
	RaceName string `json:"raceName"`
}

// DriverSeries is a driver's progression aligned to a chart axis. Actual
// and Projected have one slot per axis label; nil means no value. The
// projected line starts at the last actual point so both lines join.
type DriverSeries struct {
	DriverID    string                    `json:"driverId"`
	Progression []models.ProgressionPoint `json:"progression"`
	Actual      []*float64                `json:"actual"`
	Projected   []*float64                `json:"projected"`
}

// Chart is a multi-driver progression over a union round axis.
type Chart struct {
	Axis   []AxisLabel    `json:"axis"`
	Series []DriverSeries `json:"series"`
}

// Labels returns the race names along the axis.
func (c Chart) Labels() []string {
	return lo.Map(c.Axis, func(a AxisLabel, _ int) string { return a.RaceName })
}

// BuildProgression returns the driver's cumulative points per completed
// round followed by projected points for each upcoming round. Projection
// adds a recency-weighted average of recent per-round gains to the last
// actual total. A driver absent from every snapshot yields an empty result.
func BuildProgression(driverID string, snapshots []models.StandingsSnapshot, races []models.Race, now time.Time) []models.ProgressionPoint {
	names := raceNames(races)

	points := make([]models.ProgressionPoint, 0, len(snapshots))
	seen := make(map[int]int, len(snapshots))
	for _, snap := range snapshots {
		round, ok := snap.RoundNumber()
		if !ok {
			continue
		}
		standing, found := snap.Find(driverID)
		if !found {
			continue
		}
		point := models.ProgressionPoint{
			Round:    round,
			Points:   standing.PointsValue(),
			RaceName: nameFor(names, round),
		}
		// A later snapshot of the same round replaces the earlier one.
		if idx, dup := seen[round]; dup {
			points[idx] = point
			continue
		}
		seen[round] = len(points)
		points = append(points, point)
	}
	if len(points) == 0 {
		return points
	}
	sort.SliceStable(points, func(i, j int) bool { return points[i].Round < points[j].Round })

	last := points[len(points)-1]
	upcoming := upcomingRounds(races, last.Round, now)
	if len(upcoming) == 0 {
		return points
	}

	perRace := weightedRecentGain(points)
	cursor := last.Points
	for _, race := range upcoming {
		round, _ := race.RoundNumber()
		cursor += perRace
		points = append(points, models.ProgressionPoint{
			Round:       round,
			Points:      cursor,
			RaceName:    race.RaceName,
			IsProjected: true,
		})
	}
	return points
}

// BuildChart builds progressions for several drivers and aligns them on
// the union of their rounds. The first race name seen for a round wins.
// Drivers without any history are left out.
func BuildChart(driverIDs []string, snapshots []models.StandingsSnapshot, races []models.Race, now time.Time) Chart {
	chart := Chart{Axis: []AxisLabel{}, Series: []DriverSeries{}}

	progressions := make([][]models.ProgressionPoint, 0, len(driverIDs))
	ids := make([]string, 0, len(driverIDs))
	for _, id := range lo.Uniq(driverIDs) {
		p := BuildProgression(id, snapshots, races, now)
		if len(p) == 0 {
			continue
		}
		progressions = append(progressions, p)
		ids = append(ids, id)
	}

	seen := make(map[int]bool)
	for _, p := range progressions {
		for _, pt := range p {
			if seen[pt.Round] {
				continue
			}
			seen[pt.Round] = true
			chart.Axis = append(chart.Axis, AxisLabel{Round: pt.Round, RaceName: pt.RaceName})
		}
	}
	sort.SliceStable(chart.Axis, func(i, j int) bool { return chart.Axis[i].Round < chart.Axis[j].Round })

	slot := make(map[int]int, len(chart.Axis))
	for i, a := range chart.Axis {
		slot[a.Round] = i
	}

	for i, p := range progressions {
		series := DriverSeries{
			DriverID:    ids[i],
			Progression: p,
			Actual:      make([]*float64, len(chart.Axis)),
			Projected:   make([]*float64, len(chart.Axis)),
		}
		var anchor *models.ProgressionPoint
		hasProjection := false
		for j := range p {
			pt := p[j]
			v := pt.Points
			if pt.IsProjected {
				series.Projected[slot[pt.Round]] = &v
				hasProjection = true
				continue
			}
			series.Actual[slot[pt.Round]] = &v
			anchor = &p[j]
		}
		if hasProjection && anchor != nil {
			v := anchor.Points
			series.Projected[slot[anchor.Round]] = &v
		}
		chart.Series = append(chart.Series, series)
	}
	return chart
}

// weightedRecentGain averages the per-round gains of the last
// ProjectionWindow points, the most recent weighted highest. The gain of
// the very first point is measured from zero.
func weightedRecentGain(points []models.ProgressionPoint) float64 {
	k := min(ProjectionWindow, len(points))
	var weighted, total float64
	for i := 0; i < k; i++ {
		idx := len(points) - 1 - i
		prev := 0.0
		if idx > 0 {
			prev = points[idx-1].Points
		}
		w := float64(k - i)
		weighted += (points[idx].Points - prev) * w
		total += w
	}
	if total == 0 {
		return 0
	}
	return weighted / total
}

func upcomingRounds(races []models.Race, after int, now time.Time) []models.Race {
	upcoming := lo.Filter(races, func(r models.Race, _ int) bool {
		round, ok := r.RoundNumber()
		return ok && round > after && isUpcoming(r, now)
	})
	sort.SliceStable(upcoming, func(i, j int) bool {
		a, _ := upcoming[i].RoundNumber()
		b, _ := upcoming[j].RoundNumber()
		return a < b
	})
	return upcoming
}

func raceNames(races []models.Race) map[int]string {
	names := make(map[int]string, len(races))
	for _, r := range races {
		round, ok := r.RoundNumber()
		if !ok {
			continue
		}
		if _, exists := names[round]; !exists {
			names[round] = r.RaceName
		}
	}
	return names
}

func nameFor(names map[int]string, round int) string {
	if name := names[round]; name != "" {
		return name
	}
	return fmt.Sprintf("Round %d", round)
}
