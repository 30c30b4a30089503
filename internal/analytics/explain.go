package analytics

import (
	"fmt"
	"strconv"

	"github.com/shopspring/decimal"
	"github.com/yourusername/f1-standings/internal/models"
)

// Explain renders the reasoning behind a driver's championship probability.
// It returns "" when there are no standings to compare against.
func Explain(standing models.DriverStanding, probability float64, standings []models.DriverStanding) string {
	if len(standings) == 0 {
		return ""
	}

	leaderIdx, secondIdx := contenders(standings)
	leader := standings[leaderIdx]
	given := standing.Driver.GivenName
	points := standing.PointsDecimal()
	pct := strconv.FormatFloat(probability, 'f', -1, 64)

	if standing.Driver.DriverID == leader.Driver.DriverID {
		if probability == clinched {
			return fmt.Sprintf("As the championship leader with %s points, %s has mathematically secured the championship!",
				points, given)
		}
		second := decimal.Zero
		if secondIdx >= 0 {
			second = standings[secondIdx].PointsDecimal()
		}
		margin := points.Sub(second)
		return fmt.Sprintf("As the championship leader with %s points, %s has a %s-point lead. "+
			"The probability (%s%%) is based on how secure %s's lead is relative to the remaining points available.",
			points, given, margin, pct, given)
	}

	deficit := leader.PointsDecimal().Sub(points)
	if probability == eliminated {
		return fmt.Sprintf("With %s points and a %s-point deficit, %s has been mathematically eliminated from championship contention. "+
			"Even winning all remaining races wouldn't be enough to catch the leader.",
			points, deficit, given)
	}

	return fmt.Sprintf("With %s points and a %s-point deficit from the leader, %s's probability (%s%%) is calculated based on:\n\n"+
		"Points deficit vs remaining possible points,\n"+
		"Maximum points per race (%d),\n"+
		"Maximum points per sprint (%d),\n\n"+
		"The larger the deficit relative to remaining points, the lower the probability.",
		points, deficit, given, pct, MaxRacePoints, MaxSprintPoints)
}
