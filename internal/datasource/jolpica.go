package datasource

import (
	"context"
	"fmt"
	"strconv"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/f1-standings/internal/models"
)

const (
	jolpicaSourceName = "jolpica"

	// DefaultJolpicaBaseURL is the public Ergast-compatible endpoint
	DefaultJolpicaBaseURL = "https://api.jolpi.ca/ergast/f1"
)

// JolpicaClient implements StandingsSource and CalendarSource against the
// Jolpica mirror of the Ergast API
type JolpicaClient struct {
	fetcher jsonFetcher
}

type standingsEnvelope struct {
	MRData struct {
		StandingsTable struct {
			Season         string `json:"season"`
			Round          string `json:"round"`
			StandingsLists []struct {
				Season          string                  `json:"season"`
				Round           string                  `json:"round"`
				DriverStandings []models.DriverStanding `json:"DriverStandings"`
			} `json:"StandingsLists"`
		} `json:"StandingsTable"`
	} `json:"MRData"`
}

type scheduleEnvelope struct {
	MRData struct {
		RaceTable struct {
			Season string        `json:"season"`
			Races  []models.Race `json:"Races"`
		} `json:"RaceTable"`
	} `json:"MRData"`
}

// NewJolpicaClient creates a new Jolpica API client
func NewJolpicaClient(httpClient *RateLimitedHTTPClient, baseURL string, respCache *ResponseCache, logger *logrus.Logger) *JolpicaClient {
	if baseURL == "" {
		baseURL = DefaultJolpicaBaseURL
	}
	return &JolpicaClient{
		fetcher: newJSONFetcher(jolpicaSourceName, baseURL, httpClient, respCache, logger),
	}
}

// Name returns the data source name
func (c *JolpicaClient) Name() string {
	return jolpicaSourceName
}

// DriverStandings returns the latest driver standings of a season
func (c *JolpicaClient) DriverStandings(ctx context.Context, season int) ([]models.DriverStanding, error) {
	return c.standings(ctx, fmt.Sprintf("/%s/driverStandings.json", seasonPath(season)))
}

// DriverStandingsByRound returns the driver standings after a round
func (c *JolpicaClient) DriverStandingsByRound(ctx context.Context, season, round int) ([]models.DriverStanding, error) {
	if round <= 0 {
		return nil, NewDataSourceError(jolpicaSourceName, ErrCodeInvalidData, fmt.Sprintf("round %d", round), models.ErrInvalidRound)
	}
	return c.standings(ctx, fmt.Sprintf("/%s/%d/driverStandings.json", seasonPath(season), round))
}

// Races returns the race calendar of a season
func (c *JolpicaClient) Races(ctx context.Context, season int) ([]models.Race, error) {
	var env scheduleEnvelope
	if err := c.fetcher.getJSON(ctx, fmt.Sprintf("/%s.json", seasonPath(season)), &env); err != nil {
		return nil, err
	}
	races := env.MRData.RaceTable.Races
	if races == nil {
		races = []models.Race{}
	}
	return races, nil
}

func (c *JolpicaClient) standings(ctx context.Context, path string) ([]models.DriverStanding, error) {
	var env standingsEnvelope
	if err := c.fetcher.getJSON(ctx, path, &env); err != nil {
		return nil, err
	}
	lists := env.MRData.StandingsTable.StandingsLists
	if len(lists) == 0 || lists[0].DriverStandings == nil {
		return []models.DriverStanding{}, nil
	}
	return lists[0].DriverStandings, nil
}

func seasonPath(season int) string {
	if season <= CurrentSeason {
		return "current"
	}
	return strconv.Itoa(season)
}
