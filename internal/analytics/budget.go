package analytics

import "github.com/yourusername/f1-standings/internal/models"

// Points available to a single driver per event.
const (
	MaxRacePoints   = 25
	MaxSprintPoints = 8
)

// RemainingPoints is the most points any one driver can still score over
// the given races. Races whose date cannot be resolved are not counted.
func RemainingPoints(remaining []models.Race) int {
	total := 0
	for _, race := range remaining {
		if _, ok := ResolveRaceTime(race); !ok {
			continue
		}
		total += MaxRacePoints
		if race.HasSprint() {
			total += MaxSprintPoints
		}
	}
	return total
}
