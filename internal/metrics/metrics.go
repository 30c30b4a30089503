// Package metrics provides the centralized Prometheus metrics registry for the standings service.
package metrics

import (
	"net/http"
	"sync"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const namespace = "f1_standings"

// Global registry instance
var (
	registry *prometheus.Registry
	once     sync.Once
)

// Counter metrics
var (
	UpstreamRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "upstream_requests_total",
		Help:      "Total number of requests to upstream data sources",
	}, []string{"source", "outcome"})
	CacheRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "cache_requests_total",
		Help:      "Total number of response cache lookups",
	}, []string{"result"})
	DashboardRefreshTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "dashboard_refresh_total",
		Help:      "Total number of dashboard recomputations",
	}, []string{"result"})
	SnapshotFetchTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "snapshot_fetch_total",
		Help:      "Total number of per-round standings snapshots loaded",
	}, []string{"origin"})
	CircuitBreakerTripsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "circuit_breaker_trips_total",
		Help:      "Total number of upstream circuit breaker trips",
	}, []string{"source"})
	HTTPRequestsTotal = prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "http_requests_total",
		Help:      "Total number of API requests",
	}, []string{"route", "method", "status"})
)

// Gauge metrics
var (
	RemainingPointsBudget = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "remaining_points_budget",
		Help:      "Maximum points a single driver can still score this season",
	})
	RemainingRaces = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "remaining_races",
		Help:      "Number of races not yet started",
	})
	ChampionshipProbability = prometheus.NewGaugeVec(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "championship_probability",
		Help:      "Heuristic championship probability percentage per driver",
	}, []string{"driver_id"})
	WebsocketClients = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "websocket_clients",
		Help:      "Number of connected dashboard websocket clients",
	})
	CacheHitRatio = prometheus.NewGauge(prometheus.GaugeOpts{
		Namespace: namespace,
		Name:      "cache_hit_ratio",
		Help:      "Upstream response cache hit ratio",
	})
)

// Histogram metrics
var (
	HTTPRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "http_request_duration_seconds",
		Help:      "Latency of API requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"route"})
	UpstreamRequestDuration = prometheus.NewHistogramVec(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "upstream_request_duration_seconds",
		Help:      "Latency of upstream requests in seconds",
		Buckets:   prometheus.DefBuckets,
	}, []string{"source"})
	DashboardRefreshDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "dashboard_refresh_duration_seconds",
		Help:      "Duration of dashboard recomputation in seconds",
		Buckets:   prometheus.DefBuckets,
	})
	HistoryLoadDuration = prometheus.NewHistogram(prometheus.HistogramOpts{
		Namespace: namespace,
		Name:      "history_load_duration_seconds",
		Help:      "Duration of per-round standings history loads in seconds",
		Buckets:   []float64{0.1, 0.5, 1, 2, 5, 10, 30, 60},
	})
)

// InitRegistry initializes the global Prometheus registry.
func InitRegistry() *prometheus.Registry {
	once.Do(func() {
		registry = prometheus.NewRegistry()

		// Register counter metrics
		registry.MustRegister(UpstreamRequestsTotal)
		registry.MustRegister(CacheRequestsTotal)
		registry.MustRegister(DashboardRefreshTotal)
		registry.MustRegister(SnapshotFetchTotal)
		registry.MustRegister(CircuitBreakerTripsTotal)
		registry.MustRegister(HTTPRequestsTotal)

		// Register gauge metrics
		registry.MustRegister(RemainingPointsBudget)
		registry.MustRegister(RemainingRaces)
		registry.MustRegister(ChampionshipProbability)
		registry.MustRegister(WebsocketClients)
		registry.MustRegister(CacheHitRatio)

		// Register histogram metrics
		registry.MustRegister(HTTPRequestDuration)
		registry.MustRegister(UpstreamRequestDuration)
		registry.MustRegister(DashboardRefreshDuration)
		registry.MustRegister(HistoryLoadDuration)
	})
	return registry
}

// GetRegistry returns the global Prometheus registry.
func GetRegistry() *prometheus.Registry {
	return InitRegistry()
}

// Handler returns the Prometheus HTTP handler.
func Handler() http.Handler {
	return promhttp.HandlerFor(GetRegistry(), promhttp.HandlerOpts{})
}

// RecordUpstreamRequest records one upstream call and its latency.
func RecordUpstreamRequest(source, outcome string, durationSeconds float64) {
	UpstreamRequestsTotal.WithLabelValues(source, outcome).Inc()
	UpstreamRequestDuration.WithLabelValues(source).Observe(durationSeconds)
}

// RecordHTTPRequest records one API request.
func RecordHTTPRequest(route, method, status string, durationSeconds float64) {
	HTTPRequestsTotal.WithLabelValues(route, method, status).Inc()
	HTTPRequestDuration.WithLabelValues(route).Observe(durationSeconds)
}

// RecordCacheLookup records a response cache hit or miss.
func RecordCacheLookup(hit bool, ratio float64) {
	result := "miss"
	if hit {
		result = "hit"
	}
	CacheRequestsTotal.WithLabelValues(result).Inc()
	CacheHitRatio.Set(ratio)
}

// RecordCircuitBreakerTrip records a circuit breaker trip event.
func RecordCircuitBreakerTrip(source string) {
	CircuitBreakerTripsTotal.WithLabelValues(source).Inc()
}

// RecordDashboardRefresh records a dashboard recomputation.
func RecordDashboardRefresh(durationSeconds float64, err error) {
	result := "success"
	if err != nil {
		result = "error"
	}
	DashboardRefreshTotal.WithLabelValues(result).Inc()
	DashboardRefreshDuration.Observe(durationSeconds)
}

// RecordSnapshotFetch records where a per-round snapshot came from.
func RecordSnapshotFetch(origin string) {
	SnapshotFetchTotal.WithLabelValues(origin).Inc()
}

// RecordHistoryLoad records the duration of a history load.
func RecordHistoryLoad(durationSeconds float64) {
	HistoryLoadDuration.Observe(durationSeconds)
}

// UpdateChampionship replaces the budget and per-driver probability gauges.
func UpdateChampionship(budget, remainingRaces int, probabilities map[string]float64) {
	RemainingPointsBudget.Set(float64(budget))
	RemainingRaces.Set(float64(remainingRaces))
	ChampionshipProbability.Reset()
	for driverID, p := range probabilities {
		ChampionshipProbability.WithLabelValues(driverID).Set(p)
	}
}

// UpdateWebsocketClients sets the connected client gauge.
func UpdateWebsocketClients(count int) {
	WebsocketClients.Set(float64(count))
}
