package models

import "time"

// StandingsSnapshot is the championship table as it stood after one round
type StandingsSnapshot struct {
	Season          string           `json:"season"`
	Round           string           `json:"round"`
	DriverStandings []DriverStanding `json:"DriverStandings"`
	FetchedAt       time.Time        `json:"fetchedAt,omitempty"`
}

// RoundNumber parses Round
func (s StandingsSnapshot) RoundNumber() (int, bool) {
	return ParseRound(s.Round)
}

// Find returns the standing for driverID
func (s StandingsSnapshot) Find(driverID string) (DriverStanding, bool) {
	for _, st := range s.DriverStandings {
		if st.Driver.DriverID == driverID {
			return st, true
		}
	}
	return DriverStanding{}, false
}

// ProgressionPoint is one point on a driver's cumulative points curve
type ProgressionPoint struct {
	Round       int     `json:"round"`
	Points      float64 `json:"points"`
	RaceName    string  `json:"raceName"`
	IsProjected bool    `json:"isProjected"`
}

// SessionDriver is a driver entry from the OpenF1 drivers endpoint
type SessionDriver struct {
	DriverNumber  int    `json:"driver_number"`
	BroadcastName string `json:"broadcast_name,omitempty"`
	FullName      string `json:"full_name,omitempty"`
	NameAcronym   string `json:"name_acronym,omitempty"`
	TeamName      string `json:"team_name,omitempty"`
	TeamColour    string `json:"team_colour,omitempty"`
	CountryCode   string `json:"country_code,omitempty"`
	HeadshotURL   string `json:"headshot_url,omitempty"`
	SessionKey    int    `json:"session_key,omitempty"`
	MeetingKey    int    `json:"meeting_key,omitempty"`
}
