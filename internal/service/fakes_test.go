package service

import (
	"context"
	"io"
	"strconv"
	"sync"
	"sync/atomic"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/f1-standings/internal/models"
)

// fakeUpstream implements the standings, calendar and team colour sources.
type fakeUpstream struct {
	standings    []models.DriverStanding
	races        []models.Race
	drivers      []models.SessionDriver
	byRound      map[int][]models.DriverStanding
	standingsErr error
	racesErr     error
	driversErr   error

	// blockStandings makes DriverStandings wait for cancellation.
	blockStandings bool

	mu           sync.Mutex
	roundCalls   []int
	standingsHit atomic.Int32
}

func (f *fakeUpstream) DriverStandings(ctx context.Context, _ int) ([]models.DriverStanding, error) {
	f.standingsHit.Add(1)
	if f.blockStandings {
		<-ctx.Done()
		return nil, ctx.Err()
	}
	return f.standings, f.standingsErr
}

func (f *fakeUpstream) DriverStandingsByRound(_ context.Context, _ int, round int) ([]models.DriverStanding, error) {
	f.mu.Lock()
	f.roundCalls = append(f.roundCalls, round)
	f.mu.Unlock()
	return f.byRound[round], nil
}

func (f *fakeUpstream) Races(_ context.Context, _ int) ([]models.Race, error) {
	return f.races, f.racesErr
}

func (f *fakeUpstream) LatestSessionDrivers(_ context.Context) ([]models.SessionDriver, error) {
	return f.drivers, f.driversErr
}

func (f *fakeUpstream) calls() []int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]int(nil), f.roundCalls...)
}

func quietLogger() *logrus.Logger {
	l := logrus.New()
	l.SetOutput(io.Discard)
	return l
}

func standing(pos int, id, points string) models.DriverStanding {
	return models.DriverStanding{
		Position: strconv.Itoa(pos),
		Points:   points,
		Wins:     "0",
		Driver:   models.Driver{DriverID: id, GivenName: "Driver", FamilyName: id},
	}
}

func race(round int, date string) models.Race {
	return models.Race{
		Season:   "2024",
		Round:    strconv.Itoa(round),
		RaceName: "Grand Prix " + strconv.Itoa(round),
		Date:     date,
		Time:     "13:00:00Z",
	}
}
