package datasource

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testHTTPClient(retries int) *RateLimitedHTTPClient {
	return NewRateLimitedHTTPClient(HTTPClientConfig{
		Timeout:           2 * time.Second,
		MaxRetries:        retries,
		RetryWaitMin:      time.Millisecond,
		RetryWaitMax:      5 * time.Millisecond,
		RateLimit:         1000,
		CircuitBreakerMax: 3,
		CircuitCooldown:   time.Hour,
	}, nil)
}

// fixtureServer serves testdata files by request path and counts hits
func fixtureServer(t *testing.T, routes map[string]string) (*httptest.Server, *int32) {
	t.Helper()
	var hits int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&hits, 1)
		file, ok := routes[r.URL.RequestURI()]
		if !ok {
			http.NotFound(w, r)
			return
		}
		data, err := os.ReadFile(file)
		require.NoError(t, err)
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write(data)
	}))
	t.Cleanup(srv.Close)
	return srv, &hits
}

// TestJolpicaDriverStandings tests decoding the standings envelope
func TestJolpicaDriverStandings(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{
		"/current/driverStandings.json": "testdata/driver_standings.json",
		"/2024/20/driverStandings.json": "testdata/driver_standings.json",
	})
	client := NewJolpicaClient(testHTTPClient(0), srv.URL, nil, nil)

	standings, err := client.DriverStandings(context.Background(), CurrentSeason)
	require.NoError(t, err)
	require.Len(t, standings, 3)
	assert.Equal(t, "max_verstappen", standings[0].Driver.DriverID)
	assert.Equal(t, "33", standings[0].Driver.PermanentNumber)
	assert.Equal(t, 331.0, standings[1].PointsValue())
	assert.Equal(t, "Ferrari", standings[2].TeamName())

	byRound, err := client.DriverStandingsByRound(context.Background(), 2024, 20)
	require.NoError(t, err)
	assert.Len(t, byRound, 3)
}

// TestJolpicaEmptyStandings tests a season with no published table
func TestJolpicaEmptyStandings(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"MRData":{"StandingsTable":{"season":"2025","StandingsLists":[]}}}`))
	}))
	defer srv.Close()
	client := NewJolpicaClient(testHTTPClient(0), srv.URL, nil, nil)

	standings, err := client.DriverStandings(context.Background(), 2025)
	require.NoError(t, err)
	assert.NotNil(t, standings)
	assert.Empty(t, standings)
}

// TestJolpicaRaces tests decoding the schedule envelope
func TestJolpicaRaces(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{
		"/2024.json": "testdata/schedule.json",
	})
	client := NewJolpicaClient(testHTTPClient(0), srv.URL, nil, nil)

	races, err := client.Races(context.Background(), 2024)
	require.NoError(t, err)
	require.Len(t, races, 2)
	assert.Equal(t, "Mexico City Grand Prix", races[0].RaceName)
	assert.False(t, races[0].HasSprint())
	assert.True(t, races[1].HasSprint())
	assert.Equal(t, "17:00:00Z", races[1].Time)
	assert.Equal(t, "Brazil", races[1].Circuit.Location.Country)
}

// TestJolpicaInvalidRound tests rejecting a non-positive round
func TestJolpicaInvalidRound(t *testing.T) {
	client := NewJolpicaClient(testHTTPClient(0), "http://127.0.0.1:1", nil, nil)

	_, err := client.DriverStandingsByRound(context.Background(), 2024, 0)
	assert.Equal(t, ErrCodeInvalidData, ErrorCode(err))
}

// TestFetcherStatusMapping tests translating HTTP failures into error codes
func TestFetcherStatusMapping(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		wantCode string
	}{
		{"not found", http.StatusNotFound, "", ErrCodeNotFound},
		{"rate limited", http.StatusTooManyRequests, "", ErrCodeRateLimitExceeded},
		{"server error", http.StatusServiceUnavailable, "maintenance", ErrCodeServerError},
		{"bad request", http.StatusBadRequest, "bad", ErrCodeServerError},
		{"malformed body", http.StatusOK, "{not json", ErrCodeInvalidData},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()
			client := NewJolpicaClient(testHTTPClient(0), srv.URL, nil, nil)

			_, err := client.Races(context.Background(), CurrentSeason)
			require.Error(t, err)
			assert.Equal(t, tt.wantCode, ErrorCode(err))
		})
	}
}

// TestFetcherRetriesServerErrors tests that transient failures are retried
func TestFetcherRetriesServerErrors(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if atomic.AddInt32(&calls, 1) < 3 {
			w.WriteHeader(http.StatusBadGateway)
			return
		}
		_, _ = w.Write([]byte(`{"MRData":{"RaceTable":{"Races":[{"round":"1","raceName":"Bahrain Grand Prix","date":"2024-03-02"}]}}}`))
	}))
	defer srv.Close()
	client := NewJolpicaClient(testHTTPClient(3), srv.URL, nil, nil)

	races, err := client.Races(context.Background(), CurrentSeason)
	require.NoError(t, err)
	assert.Len(t, races, 1)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
}

// TestFetcherUsesCache tests that a cached body is reused
func TestFetcherUsesCache(t *testing.T) {
	srv, hits := fixtureServer(t, map[string]string{
		"/current.json": "testdata/schedule.json",
	})
	respCache := NewResponseCache(time.Minute)
	client := NewJolpicaClient(testHTTPClient(0), srv.URL, respCache, nil)

	for i := 0; i < 3; i++ {
		races, err := client.Races(context.Background(), CurrentSeason)
		require.NoError(t, err)
		assert.Len(t, races, 2)
	}

	assert.Equal(t, int32(1), atomic.LoadInt32(hits))
	stats := respCache.Stats()
	assert.Equal(t, uint64(2), stats.Hits)
	assert.Equal(t, uint64(1), stats.Misses)
	assert.Equal(t, 1, stats.Size)
}

// TestCircuitBreakerOpens tests that repeated failures stop further requests
func TestCircuitBreakerOpens(t *testing.T) {
	var calls int32
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		atomic.AddInt32(&calls, 1)
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer srv.Close()

	httpClient := testHTTPClient(0)
	var trips int32
	httpClient.OnCircuitTrip(func() { atomic.AddInt32(&trips, 1) })
	client := NewJolpicaClient(httpClient, srv.URL, nil, nil)

	for i := 0; i < 3; i++ {
		_, err := client.Races(context.Background(), CurrentSeason)
		assert.Equal(t, ErrCodeServerError, ErrorCode(err))
	}

	_, err := client.Races(context.Background(), CurrentSeason)
	assert.Equal(t, ErrCodeCircuitOpen, ErrorCode(err))
	assert.ErrorIs(t, err, ErrCircuitOpen)
	assert.Equal(t, int32(3), atomic.LoadInt32(&calls))
	assert.Equal(t, int32(1), atomic.LoadInt32(&trips))
}

// TestOpenF1LatestSessionDrivers tests decoding OpenF1 driver entries
func TestOpenF1LatestSessionDrivers(t *testing.T) {
	srv, _ := fixtureServer(t, map[string]string{
		"/drivers?session_key=latest": "testdata/openf1_drivers.json",
		"/drivers?session_key=9636":   "testdata/openf1_drivers.json",
	})
	client := NewOpenF1Client(testHTTPClient(0), srv.URL, nil, nil)

	drivers, err := client.LatestSessionDrivers(context.Background())
	require.NoError(t, err)
	require.Len(t, drivers, 3)
	assert.Equal(t, 4, drivers[1].DriverNumber)
	assert.Equal(t, "FF8000", drivers[1].TeamColour)

	bySession, err := client.DriversBySessionKey(context.Background(), 9636)
	require.NoError(t, err)
	assert.Len(t, bySession, 3)
}

// TestContextCancellation tests that a cancelled context aborts the request
func TestContextCancellation(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(200 * time.Millisecond)
	}))
	defer srv.Close()
	client := NewOpenF1Client(testHTTPClient(0), srv.URL, nil, nil)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()

	_, err := client.LatestSessionDrivers(ctx)
	require.Error(t, err)
	assert.Equal(t, ErrCodeNetworkError, ErrorCode(err))
}
