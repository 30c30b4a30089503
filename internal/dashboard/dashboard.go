// Package dashboard composes championship standings, team colours and
// analytics into the view served to clients.
package dashboard

import (
	"strings"
	"time"

	"github.com/samber/lo"
	"github.com/yourusername/f1-standings/internal/analytics"
	"github.com/yourusername/f1-standings/internal/models"
)

// Entry is one driver row of the dashboard
type Entry struct {
	DriverID    string  `json:"driverId"`
	Position    string  `json:"position"`
	Number      string  `json:"permanentNumber,omitempty"`
	Code        string  `json:"code,omitempty"`
	FullName    string  `json:"fullName"`
	TeamName    string  `json:"teamName"`
	TeamColor   string  `json:"teamColor"`
	Nationality string  `json:"nationality,omitempty"`
	Flag        string  `json:"flag"`
	Points      float64 `json:"points"`
	Wins        int     `json:"wins"`
	Probability float64 `json:"probability"`
	Explanation string  `json:"explanation"`
}

// Dashboard is the full championship view at a point in time
type Dashboard struct {
	Season          string       `json:"season"`
	GeneratedAt     time.Time    `json:"generatedAt"`
	CompletedRaces  int          `json:"completedRaces"`
	RemainingRaces  int          `json:"remainingRaces"`
	RemainingPoints int          `json:"remainingPoints"`
	NextRace        *models.Race `json:"nextRace,omitempty"`
	Entries         []Entry      `json:"entries"`

	Probabilities analytics.ProbabilityMap `json:"-"`
}

// Input holds everything needed to build a dashboard
type Input struct {
	Season    string
	Now       time.Time
	Standings []models.DriverStanding
	Races     []models.Race
	Drivers   []models.SessionDriver
}

// Build derives every dashboard value from its inputs. Nothing is carried
// over from earlier builds.
func Build(in Input) *Dashboard {
	calendar := analytics.Classify(in.Races, in.Now)
	budget := analytics.RemainingPoints(calendar.Remaining)
	probs := analytics.EstimateProbabilities(in.Standings, budget)
	colors := NewColorLookup(in.Drivers)

	d := &Dashboard{
		Season:          in.Season,
		GeneratedAt:     in.Now,
		CompletedRaces:  len(calendar.Completed),
		RemainingRaces:  len(calendar.Remaining),
		RemainingPoints: budget,
		NextRace:        nextRace(calendar.Remaining, in.Now),
		Entries:         make([]Entry, 0, len(in.Standings)),
		Probabilities:   probs,
	}

	for _, s := range in.Standings {
		p := probs[s.Driver.DriverID]
		d.Entries = append(d.Entries, Entry{
			DriverID:    s.Driver.DriverID,
			Position:    s.Position,
			Number:      s.Driver.PermanentNumber,
			Code:        s.Driver.Code,
			FullName:    s.FullName(),
			TeamName:    s.TeamName(),
			TeamColor:   colors.For(s),
			Nationality: s.Driver.Nationality,
			Flag:        CountryFlag(s.Driver.Nationality),
			Points:      s.PointsValue(),
			Wins:        s.WinsValue(),
			Probability: p,
			Explanation: analytics.Explain(s, p, in.Standings),
		})
	}
	return d
}

// Find returns the entry for driverID
func (d *Dashboard) Find(driverID string) (Entry, bool) {
	return lo.Find(d.Entries, func(e Entry) bool { return e.DriverID == driverID })
}

// Filtered returns a copy of the dashboard keeping only entries matching query
func (d *Dashboard) Filtered(query string) *Dashboard {
	out := *d
	out.Entries = Filter(d.Entries, query)
	return &out
}

// Filter keeps entries whose full name, code or team contains query,
// ignoring case and surrounding whitespace. An empty query keeps all.
func Filter(entries []Entry, query string) []Entry {
	q := strings.ToLower(strings.TrimSpace(query))
	if q == "" {
		return entries
	}
	return lo.Filter(entries, func(e Entry, _ int) bool {
		return strings.Contains(strings.ToLower(e.FullName), q) ||
			strings.Contains(strings.ToLower(e.Code), q) ||
			strings.Contains(strings.ToLower(e.TeamName), q)
	})
}

// nextRace picks the earliest upcoming race with a readable start time.
func nextRace(remaining []models.Race, now time.Time) *models.Race {
	var next *models.Race
	var nextStart time.Time
	for i := range remaining {
		start, ok := analytics.ResolveRaceTime(remaining[i])
		if !ok || start.Before(now) {
			continue
		}
		if next == nil || start.Before(nextStart) {
			next, nextStart = &remaining[i], start
		}
	}
	return next
}
