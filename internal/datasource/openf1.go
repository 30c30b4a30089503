package datasource

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"github.com/yourusername/f1-standings/internal/models"
)

const (
	openF1SourceName = "openf1"

	// DefaultOpenF1BaseURL is the public OpenF1 endpoint
	DefaultOpenF1BaseURL = "https://api.openf1.org/v1"
)

// OpenF1Client implements TeamColorSource against the OpenF1 API
type OpenF1Client struct {
	fetcher jsonFetcher
}

// NewOpenF1Client creates a new OpenF1 API client
func NewOpenF1Client(httpClient *RateLimitedHTTPClient, baseURL string, respCache *ResponseCache, logger *logrus.Logger) *OpenF1Client {
	if baseURL == "" {
		baseURL = DefaultOpenF1BaseURL
	}
	return &OpenF1Client{
		fetcher: newJSONFetcher(openF1SourceName, baseURL, httpClient, respCache, logger),
	}
}

// Name returns the data source name
func (c *OpenF1Client) Name() string {
	return openF1SourceName
}

// LatestSessionDrivers returns the drivers entered in the most recent session
func (c *OpenF1Client) LatestSessionDrivers(ctx context.Context) ([]models.SessionDriver, error) {
	return c.drivers(ctx, "/drivers?session_key=latest")
}

// DriversBySessionKey returns the drivers entered in a given session
func (c *OpenF1Client) DriversBySessionKey(ctx context.Context, sessionKey int) ([]models.SessionDriver, error) {
	return c.drivers(ctx, fmt.Sprintf("/drivers?session_key=%d", sessionKey))
}

func (c *OpenF1Client) drivers(ctx context.Context, path string) ([]models.SessionDriver, error) {
	var drivers []models.SessionDriver
	if err := c.fetcher.getJSON(ctx, path, &drivers); err != nil {
		return nil, err
	}
	if drivers == nil {
		drivers = []models.SessionDriver{}
	}
	return drivers, nil
}
