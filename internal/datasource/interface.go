// Package datasource fetches championship data from the Jolpica (Ergast
// compatible) and OpenF1 REST APIs.
package datasource

import (
	"context"
	"errors"

	"github.com/yourusername/f1-standings/internal/models"
)

// CurrentSeason selects the season in progress.
const CurrentSeason = 0

// StandingsSource provides driver championship tables
type StandingsSource interface {
	// DriverStandings returns the latest table for a season
	DriverStandings(ctx context.Context, season int) ([]models.DriverStanding, error)

	// DriverStandingsByRound returns the table as it stood after a round
	DriverStandingsByRound(ctx context.Context, season, round int) ([]models.DriverStanding, error)
}

// CalendarSource provides the race schedule of a season
type CalendarSource interface {
	Races(ctx context.Context, season int) ([]models.Race, error)
}

// TeamColorSource provides session driver entries carrying team colours
type TeamColorSource interface {
	LatestSessionDrivers(ctx context.Context) ([]models.SessionDriver, error)
}

// DataSourceError represents errors from data source operations
type DataSourceError struct {
	Source  string // Data source name
	Code    string // Error code (e.g., "rate_limit_exceeded")
	Message string // Error message
	Err     error  // Underlying error
}

func (e DataSourceError) Error() string {
	if e.Err != nil {
		return e.Source + ": " + e.Code + ": " + e.Message + " (" + e.Err.Error() + ")"
	}
	return e.Source + ": " + e.Code + ": " + e.Message
}

// Unwrap returns the underlying error
func (e DataSourceError) Unwrap() error {
	return e.Err
}

// Common error codes
const (
	ErrCodeRateLimitExceeded = "rate_limit_exceeded"
	ErrCodeNotFound          = "not_found"
	ErrCodeInvalidData       = "invalid_data"
	ErrCodeNetworkError      = "network_error"
	ErrCodeServerError       = "server_error"
	ErrCodeCircuitOpen       = "circuit_open"
)

// ErrCircuitOpen is returned while the client refuses requests after repeated failures
var ErrCircuitOpen = errors.New("circuit breaker open")

// NewDataSourceError creates a new data source error
func NewDataSourceError(source, code, message string, err error) DataSourceError {
	return DataSourceError{
		Source:  source,
		Code:    code,
		Message: message,
		Err:     err,
	}
}

// ErrorCode extracts the data source error code from err, or "" if err
// did not come from a data source
func ErrorCode(err error) string {
	var dsErr DataSourceError
	if errors.As(err, &dsErr) {
		return dsErr.Code
	}
	return ""
}
