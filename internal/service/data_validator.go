package service

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/f1-standings/internal/analytics"
	"github.com/yourusername/f1-standings/internal/models"
)

// DataValidator checks upstream standings and calendar data for problems
// that would skew the analytics
type DataValidator struct {
	logger *logrus.Logger
}

// NewDataValidator creates a new data validator
func NewDataValidator(logger *logrus.Logger) *DataValidator {
	return &DataValidator{logger: logger}
}

// ValidateStandings validates a championship table
func (v *DataValidator) ValidateStandings(standings []models.DriverStanding) []string {
	var errors []string

	seen := make(map[string]bool, len(standings))
	leaders := 0
	for i, s := range standings {
		id := s.Driver.DriverID
		if id == "" {
			errors = append(errors, fmt.Sprintf("row %d: driver id is required", i+1))
		} else if seen[id] {
			errors = append(errors, fmt.Sprintf("driver %s listed more than once", id))
		}
		seen[id] = true

		if s.IsLeader() {
			leaders++
		}
		if !v.IsValidPoints(s.Points) {
			errors = append(errors, fmt.Sprintf("driver %s: points %q are not a non-negative number", id, s.Points))
		}
	}

	if len(standings) > 0 && leaders == 0 {
		errors = append(errors, "no driver holds position 1")
	}
	if leaders > 1 {
		errors = append(errors, fmt.Sprintf("%d drivers hold position 1", leaders))
	}

	return errors
}

// ValidateRace validates one calendar entry
func (v *DataValidator) ValidateRace(race models.Race) []string {
	var errors []string

	if _, ok := race.RoundNumber(); !ok {
		errors = append(errors, fmt.Sprintf("round %q is not a number", race.Round))
	}

	if strings.TrimSpace(race.RaceName) == "" {
		errors = append(errors, fmt.Sprintf("round %s: race name is required", race.Round))
	}

	if _, ok := analytics.ResolveRaceTime(race); !ok {
		errors = append(errors, fmt.Sprintf("round %s: date %q is not readable", race.Round, race.Date))
	}

	return errors
}

// ValidateCalendar validates every race and reports repeated rounds
func (v *DataValidator) ValidateCalendar(races []models.Race) []string {
	var errors []string

	rounds := make(map[int]bool, len(races))
	for _, race := range races {
		errors = append(errors, v.ValidateRace(race)...)
		if round, ok := race.RoundNumber(); ok {
			if rounds[round] {
				errors = append(errors, fmt.Sprintf("round %d scheduled more than once", round))
			}
			rounds[round] = true
		}
	}

	return errors
}

// IsValidPoints checks that a points value parses and is not negative
func (v *DataValidator) IsValidPoints(points string) bool {
	d, err := decimal.NewFromString(strings.TrimSpace(points))
	return err == nil && !d.IsNegative()
}

// Report logs validation problems, if any, and returns whether the data was clean
func (v *DataValidator) Report(subject string, problems []string) bool {
	if len(problems) == 0 {
		return true
	}
	if v.logger != nil {
		v.logger.WithFields(logrus.Fields{
			"subject":  subject,
			"problems": problems,
		}).Warn("Upstream data failed validation")
	}
	return false
}
