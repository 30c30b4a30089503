// Package analytics derives championship insight from standings and the
// race calendar: which rounds are left, how many points they carry, how
// likely each driver is to take the title and how their points may evolve.
package analytics

import (
	"regexp"
	"strings"
	"time"

	"github.com/yourusername/f1-standings/internal/models"
)

// DefaultRaceTime is assumed when a race has no start time published.
const DefaultRaceTime = "00:00:00"

// Matches a time string that already carries a zone designator.
var zoneSuffix = regexp.MustCompile(`[zZ]|[+\-]\d{2}:\d{2}$`)

var instantLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04Z07:00",
}

// Classification splits a calendar into completed and remaining races.
type Classification struct {
	Completed []models.Race
	Remaining []models.Race
}

// ResolveRaceTime returns the UTC start instant of a race. A missing time
// defaults to midnight and a time without a zone is read as UTC. If the
// combined value cannot be parsed, the race date at midnight UTC is used.
// The boolean is false only when the date itself is unusable.
func ResolveRaceTime(race models.Race) (time.Time, bool) {
	clock := strings.TrimSpace(race.Time)
	if clock == "" {
		clock = DefaultRaceTime
	}
	if !zoneSuffix.MatchString(clock) {
		clock += "Z"
	}

	date := strings.TrimSpace(race.Date)
	if t, ok := parseInstant(date + "T" + clock); ok {
		return t, true
	}
	return parseInstant(date + "T00:00:00Z")
}

func parseInstant(value string) (time.Time, bool) {
	for _, layout := range instantLayouts {
		if t, err := time.Parse(layout, value); err == nil {
			return t.UTC(), true
		}
	}
	return time.Time{}, false
}

// Classify partitions races around now. A race is completed only when its
// start instant is strictly before now; everything else, including races
// starting exactly at now and races whose date cannot be read, remains.
// Input order is kept within each partition. Undated races stay in
// Remaining but carry no points budget and are never projected.
func Classify(races []models.Race, now time.Time) Classification {
	c := Classification{
		Completed: make([]models.Race, 0, len(races)),
		Remaining: make([]models.Race, 0, len(races)),
	}
	for _, race := range races {
		if start, ok := ResolveRaceTime(race); ok && start.Before(now) {
			c.Completed = append(c.Completed, race)
			continue
		}
		c.Remaining = append(c.Remaining, race)
	}
	return c
}

// isUpcoming reports whether a race starts strictly after now. A race with
// an unreadable date has no start and is never upcoming.
func isUpcoming(race models.Race, now time.Time) bool {
	start, ok := ResolveRaceTime(race)
	return ok && start.After(now)
}
