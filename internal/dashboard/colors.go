package dashboard

import (
	"strconv"
	"strings"

	"github.com/yourusername/f1-standings/internal/models"
)

// DefaultColor is used when no team colour is known for a driver.
const DefaultColor = "#667eea"

// ColorLookup maps a driver's permanent number to a hex colour without "#".
type ColorLookup map[string]string

// NewColorLookup indexes session drivers by car number. Later entries for
// the same number win.
func NewColorLookup(drivers []models.SessionDriver) ColorLookup {
	lookup := make(ColorLookup, len(drivers))
	for _, d := range drivers {
		colour := strings.TrimPrefix(strings.TrimSpace(d.TeamColour), "#")
		if colour == "" {
			continue
		}
		lookup[strconv.Itoa(d.DriverNumber)] = colour
	}
	return lookup
}

// For returns the colour for a standing, "#"-prefixed.
func (c ColorLookup) For(standing models.DriverStanding) string {
	if colour, ok := c[standing.Driver.PermanentNumber]; ok {
		return "#" + colour
	}
	return DefaultColor
}
