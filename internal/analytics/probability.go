package analytics

import (
	"math"

	"github.com/yourusername/f1-standings/internal/models"
)

// Tuning of the title heuristic. These are not calibrated probabilities.
const (
	leaderFloor     = 50.0
	leaderCeiling   = 99.0
	leaderSpan      = 49.0
	challengerCap   = 45.0
	minimumLongShot = 0.1
	clinched        = 100.0
	eliminated      = 0.0
)

// ProbabilityMap holds a championship percentage per driverId.
type ProbabilityMap map[string]float64

// EstimateProbabilities scores every driver's title chances given the
// points still available. Values are percentages rounded half-up to one
// decimal place.
func EstimateProbabilities(standings []models.DriverStanding, budget int) ProbabilityMap {
	probs := make(ProbabilityMap, len(standings))
	if len(standings) == 0 {
		return probs
	}

	leaderIdx, secondIdx := contenders(standings)
	leaderPoints := standings[leaderIdx].PointsValue()
	secondPoints := 0.0
	if secondIdx >= 0 {
		secondPoints = standings[secondIdx].PointsValue()
	}
	remaining := float64(budget)

	for i, standing := range standings {
		var p float64
		if i == leaderIdx {
			p = leaderProbability(leaderPoints-secondPoints, remaining)
		} else {
			p = challengerProbability(standing.PointsValue(), leaderPoints, remaining)
		}
		probs[standing.Driver.DriverID] = roundTenth(p)
	}
	return probs
}

// contenders locates the leader (position "1", else the first entry) and
// the runner-up (position "2", else the first other entry). secondIdx is -1
// when there is only one driver.
func contenders(standings []models.DriverStanding) (leaderIdx, secondIdx int) {
	leaderIdx, secondIdx = -1, -1
	for i, s := range standings {
		if s.Position == "1" && leaderIdx < 0 {
			leaderIdx = i
		}
	}
	if leaderIdx < 0 {
		leaderIdx = 0
	}
	for i, s := range standings {
		if i != leaderIdx && s.Position == "2" {
			return leaderIdx, i
		}
	}
	for i := range standings {
		if i != leaderIdx {
			return leaderIdx, i
		}
	}
	return leaderIdx, secondIdx
}

func leaderProbability(margin, budget float64) float64 {
	if margin > budget {
		return clinched
	}
	security := 0.0
	if budget > 0 {
		security = margin / budget
	}
	return math.Min(leaderCeiling, math.Max(leaderFloor, leaderFloor+security*leaderSpan))
}

func challengerProbability(points, leaderPoints, budget float64) float64 {
	if points+budget < leaderPoints {
		return eliminated
	}

	deficit := leaderPoints - points
	ratio := 0.0
	switch {
	case budget > 0:
		ratio = deficit / budget
	case deficit > 0:
		ratio = math.Inf(1)
	}

	switch {
	case ratio > 1:
		return eliminated
	case ratio > 0.9:
		return math.Max(minimumLongShot, (1-ratio)*10)
	case ratio > 0.7:
		return (1 - ratio) * 30
	case ratio > 0.5:
		return (1 - ratio) * 50
	default:
		return math.Min(challengerCap, (1-ratio)*60)
	}
}

func roundTenth(v float64) float64 {
	return math.Floor(v*10+0.5) / 10
}
