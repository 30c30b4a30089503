// Package api exposes dashboards, explanations and progression charts
// over HTTP and pushes recomputed dashboards to websocket clients.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/samber/lo"

	"github.com/yourusername/f1-standings/internal/analytics"
	"github.com/yourusername/f1-standings/internal/dashboard"
	"github.com/yourusername/f1-standings/internal/datasource"
	"github.com/yourusername/f1-standings/internal/service"
)

// earliestSeason is the first world championship season
const earliestSeason = 1950

// Sentinel kinds for API errors.
var (
	ErrBadSeason  = errors.New("season must be a year or \"current\"")
	ErrNoDrivers  = errors.New("at least one driver id is required")
	ErrUnexpected = errors.New("unexpected error")
)

// DashboardProvider is the read side used by the handlers
type DashboardProvider interface {
	Load(ctx context.Context, season int) (*dashboard.Dashboard, error)
	Explanation(ctx context.Context, season int, driverID string) (dashboard.Entry, error)
	Progression(ctx context.Context, season int, driverIDs []string) (analytics.Chart, error)
}

type errorResponse struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

type explanationResponse struct {
	DriverID    string  `json:"driverId"`
	FullName    string  `json:"fullName"`
	Probability float64 `json:"probability"`
	Explanation string  `json:"explanation"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, code string, err error) {
	msg := http.StatusText(status)
	if err != nil {
		msg = err.Error()
	}
	writeJSON(w, status, errorResponse{Code: code, Message: msg})
}

// statusFor maps service and upstream errors to an HTTP status and code.
func statusFor(err error) (int, string) {
	switch {
	case errors.Is(err, service.ErrUnknownDriver):
		return http.StatusNotFound, "unknown_driver"
	case errors.Is(err, context.DeadlineExceeded), errors.Is(err, context.Canceled):
		return http.StatusGatewayTimeout, "timeout"
	}

	switch datasource.ErrorCode(err) {
	case "":
		return http.StatusInternalServerError, "internal_error"
	case datasource.ErrCodeNotFound:
		return http.StatusNotFound, "not_found"
	case datasource.ErrCodeCircuitOpen, datasource.ErrCodeRateLimitExceeded:
		return http.StatusServiceUnavailable, "upstream_unavailable"
	default:
		return http.StatusBadGateway, "upstream_error"
	}
}

// parseSeason reads the season query parameter. Empty and "current"
// select the season in progress.
func parseSeason(r *http.Request) (int, error) {
	raw := strings.TrimSpace(r.URL.Query().Get("season"))
	if raw == "" || strings.EqualFold(raw, "current") {
		return datasource.CurrentSeason, nil
	}
	year, err := strconv.Atoi(raw)
	if err != nil || year < earliestSeason {
		return 0, ErrBadSeason
	}
	return year, nil
}

// parseDriverIDs splits a comma separated list, dropping blanks and repeats.
func parseDriverIDs(raw string) []string {
	ids := lo.Map(strings.Split(raw, ","), func(s string, _ int) string { return strings.TrimSpace(s) })
	return lo.Uniq(lo.Compact(ids))
}
