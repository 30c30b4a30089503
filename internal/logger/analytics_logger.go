package logger

import (
	"time"

	"github.com/sirupsen/logrus"
)

// AnalyticsLogger provides dedicated logging for championship computations.
type AnalyticsLogger struct {
	*logrus.Entry
}

// NewAnalyticsLogger creates a new analytics logger.
func NewAnalyticsLogger(baseLogger *logrus.Logger) *AnalyticsLogger {
	return &AnalyticsLogger{
		Entry: baseLogger.WithField("component", "analytics"),
	}
}

// LogProbabilities logs the outcome of a probability estimate.
func (al *AnalyticsLogger) LogProbabilities(season string, budget, remainingRaces int, probabilities map[string]float64) {
	contenders := 0
	leader, leaderProb := "", -1.0
	for id, p := range probabilities {
		if p > 0 {
			contenders++
		}
		if p > leaderProb || (p == leaderProb && id < leader) {
			leader, leaderProb = id, p
		}
	}

	al.WithFields(logrus.Fields{
		"season":           season,
		"remaining_points": budget,
		"remaining_races":  remainingRaces,
		"drivers":          len(probabilities),
		"contenders":       contenders,
		"favourite":        leader,
		"favourite_pct":    leaderProb,
	}).Info("Championship probabilities computed")
}

// LogProjection logs a driver's points projection.
func (al *AnalyticsLogger) LogProjection(driverID string, actualRounds, projectedRounds int, lastPoints, projectedFinal float64) {
	al.WithFields(logrus.Fields{
		"driver_id":        driverID,
		"actual_rounds":    actualRounds,
		"projected_rounds": projectedRounds,
		"last_points":      lastPoints,
		"projected_final":  projectedFinal,
	}).Debug("Points progression built")
}

// LogRefresh logs a dashboard refresh.
func (al *AnalyticsLogger) LogRefresh(runID, season string, duration time.Duration, err error) {
	entry := al.WithFields(logrus.Fields{
		"run_id":      runID,
		"season":      season,
		"duration_ms": duration.Milliseconds(),
	})
	if err != nil {
		entry.WithError(err).Error("Dashboard refresh failed")
		return
	}
	entry.Info("Dashboard refreshed")
}

// LogHistoryFetch logs one per-round standings lookup.
func (al *AnalyticsLogger) LogHistoryFetch(season string, round int, origin string) {
	al.WithFields(logrus.Fields{
		"season": season,
		"round":  round,
		"origin": origin,
	}).Debug("Standings snapshot loaded")
}
