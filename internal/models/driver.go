package models

import (
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// UnknownTeam is shown when a standing carries no constructor.
const UnknownTeam = "Unknown Team"

// Driver represents a driver record as published by the Ergast-compatible API
type Driver struct {
	DriverID        string `json:"driverId"`
	PermanentNumber string `json:"permanentNumber,omitempty"`
	Code            string `json:"code,omitempty"`
	URL             string `json:"url,omitempty"`
	GivenName       string `json:"givenName"`
	FamilyName      string `json:"familyName"`
	DateOfBirth     string `json:"dateOfBirth,omitempty"`
	Nationality     string `json:"nationality,omitempty"`
}

// FullName returns "given family"
func (d Driver) FullName() string {
	return strings.TrimSpace(d.GivenName + " " + d.FamilyName)
}

// Constructor represents a team entry
type Constructor struct {
	ConstructorID string `json:"constructorId"`
	URL           string `json:"url,omitempty"`
	Name          string `json:"name"`
	Nationality   string `json:"nationality,omitempty"`
}

// DriverStanding is one row of a championship table. Numeric fields keep
// the upstream string encoding; use the accessors for numeric values.
type DriverStanding struct {
	Position     string        `json:"position"`
	PositionText string        `json:"positionText,omitempty"`
	Points       string        `json:"points"`
	Wins         string        `json:"wins"`
	Driver       Driver        `json:"Driver"`
	Constructors []Constructor `json:"Constructors"`
}

// PointsDecimal parses Points. Unparsable values count as zero.
func (s DriverStanding) PointsDecimal() decimal.Decimal {
	d, err := decimal.NewFromString(strings.TrimSpace(s.Points))
	if err != nil {
		return decimal.Zero
	}
	return d
}

// PointsValue returns Points as a float64
func (s DriverStanding) PointsValue() float64 {
	return s.PointsDecimal().InexactFloat64()
}

// WinsValue returns Wins as an int, zero when unparsable
func (s DriverStanding) WinsValue() int {
	n, err := strconv.Atoi(strings.TrimSpace(s.Wins))
	if err != nil {
		return 0
	}
	return n
}

// IsLeader reports whether the standing holds position "1"
func (s DriverStanding) IsLeader() bool {
	return s.Position == "1"
}

// FullName returns the driver's display name
func (s DriverStanding) FullName() string {
	return s.Driver.FullName()
}

// TeamName returns the first constructor's name or UnknownTeam
func (s DriverStanding) TeamName() string {
	if len(s.Constructors) == 0 || s.Constructors[0].Name == "" {
		return UnknownTeam
	}
	return s.Constructors[0].Name
}
