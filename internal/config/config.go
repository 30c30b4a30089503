// Package config provides configuration management for the F1 standings service.
package config

import "time"

// Config represents the complete application configuration
type Config struct {
	App       AppConfig       `mapstructure:"app" validate:"required"`
	Season    int             `mapstructure:"season" validate:"gte=0"`
	Upstream  UpstreamConfig  `mapstructure:"upstream" validate:"required"`
	Database  DatabaseConfig  `mapstructure:"database"`
	Server    ServerConfig    `mapstructure:"server" validate:"required"`
	Scheduler SchedulerConfig `mapstructure:"scheduler"`
	Health    HealthConfig    `mapstructure:"health" validate:"required"`
	Metrics   MetricsConfig   `mapstructure:"metrics"`
}

// AppConfig represents application-level configuration
type AppConfig struct {
	Name        string `mapstructure:"name" validate:"required"`
	Environment string `mapstructure:"environment" validate:"required,environment"`
	LogLevel    string `mapstructure:"log_level" validate:"required,loglevel"`
}

// UpstreamConfig configures the Jolpica and OpenF1 clients
type UpstreamConfig struct {
	JolpicaBaseURL    string  `mapstructure:"jolpica_base_url" validate:"required,url"`
	OpenF1BaseURL     string  `mapstructure:"openf1_base_url" validate:"required,url"`
	TimeoutSeconds    int     `mapstructure:"timeout_seconds" validate:"required,gt=0"`
	MaxRetries        int     `mapstructure:"max_retries" validate:"gte=0"`
	RetryWaitMinMS    int     `mapstructure:"retry_wait_min_ms" validate:"gte=0"`
	RetryWaitMaxMS    int     `mapstructure:"retry_wait_max_ms" validate:"gte=0"`
	RateLimit         float64 `mapstructure:"rate_limit" validate:"required,gt=0"`
	CircuitBreakerMax int     `mapstructure:"circuit_breaker_max" validate:"required,gt=0"`
	RequestDelayMS    int     `mapstructure:"request_delay_ms" validate:"gte=0"`
	CacheTTLSeconds   int     `mapstructure:"cache_ttl_seconds" validate:"gte=0"`
}

// DatabaseConfig represents database connection configuration
type DatabaseConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	Host           string `mapstructure:"host"`
	Port           int    `mapstructure:"port" validate:"omitempty,min=1,max=65535"`
	Name           string `mapstructure:"name"`
	User           string `mapstructure:"user"`
	Password       string `mapstructure:"password"`
	SSLMode        string `mapstructure:"ssl_mode" validate:"omitempty,oneof=disable require verify-full"`
	MaxConnections int    `mapstructure:"max_connections" validate:"gte=0"`
}

// ServerConfig represents the HTTP API listener
type ServerConfig struct {
	Port                int `mapstructure:"port" validate:"required,min=1,max=65535"`
	ReadTimeoutSeconds  int `mapstructure:"read_timeout_seconds" validate:"gte=0"`
	WriteTimeoutSeconds int `mapstructure:"write_timeout_seconds" validate:"gte=0"`
}

// SchedulerConfig represents background refresh scheduling
type SchedulerConfig struct {
	Enabled                bool   `mapstructure:"enabled"`
	RefreshIntervalSeconds int    `mapstructure:"refresh_interval_seconds" validate:"gte=0"`
	HistoryWarmupCron      string `mapstructure:"history_warmup_cron" validate:"omitempty,cronspec"`
}

// HealthConfig represents health probe listeners
type HealthConfig struct {
	Port     int `mapstructure:"port" validate:"required,min=1,max=65535"`
	GRPCPort int `mapstructure:"grpc_port" validate:"omitempty,min=1,max=65535"`
}

// MetricsConfig represents metrics and monitoring configuration
type MetricsConfig struct {
	Enabled bool   `mapstructure:"enabled"`
	Path    string `mapstructure:"path"`
}

// IsProduction checks if the application is running in production mode
func (c *Config) IsProduction() bool {
	return c.App.Environment == "production"
}

// RequestDelay is the pause between sequential per-round standings requests
func (u UpstreamConfig) RequestDelay() time.Duration {
	return time.Duration(u.RequestDelayMS) * time.Millisecond
}

// CacheTTL is how long upstream responses are reused
func (u UpstreamConfig) CacheTTL() time.Duration {
	return time.Duration(u.CacheTTLSeconds) * time.Second
}

// Timeout is the per-request HTTP timeout
func (u UpstreamConfig) Timeout() time.Duration {
	return time.Duration(u.TimeoutSeconds) * time.Second
}
