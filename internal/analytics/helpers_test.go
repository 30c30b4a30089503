package analytics

import (
	"github.com/yourusername/f1-standings/internal/models"
)

func standing(position, driverID, given, points string) models.DriverStanding {
	return models.DriverStanding{
		Position: position,
		Points:   points,
		Wins:     "0",
		Driver: models.Driver{
			DriverID:   driverID,
			GivenName:  given,
			FamilyName: "Test",
		},
		Constructors: []models.Constructor{{ConstructorID: "team", Name: "Team"}},
	}
}

func race(round, name, date, clock string) models.Race {
	return models.Race{Season: "2024", Round: round, RaceName: name, Date: date, Time: clock}
}

func sprintRace(round, name, date, clock string) models.Race {
	r := race(round, name, date, clock)
	r.Sprint = &models.RaceSession{Date: date}
	return r
}

func snapshot(round string, standings ...models.DriverStanding) models.StandingsSnapshot {
	return models.StandingsSnapshot{Season: "2024", Round: round, DriverStandings: standings}
}
