// Package main provides the f1-standings command line and server.
package main

import (
	"context"
	"fmt"
	"log"
	"os"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/yourusername/f1-standings/internal/config"
	"github.com/yourusername/f1-standings/internal/database"
	"github.com/yourusername/f1-standings/internal/datasource"
	"github.com/yourusername/f1-standings/internal/logger"
	"github.com/yourusername/f1-standings/internal/metrics"
	"github.com/yourusername/f1-standings/internal/repository"
	"github.com/yourusername/f1-standings/internal/service"
)

// Build information - set via ldflags
var (
	Version   = "dev"
	GitCommit = "unknown"
	BuildDate = "unknown"
)

var (
	configFile string
	seasonFlag int
	appLog     *logrus.Logger
	cfg        *config.Config
	db         *database.DB
	httpClient *datasource.RateLimitedHTTPClient
	dashboards *service.DashboardService
)

func init() {
	rootCmd.PersistentFlags().StringVarP(&configFile, "config", "c", "./config/config.yaml", "Path to configuration file")
	rootCmd.PersistentFlags().IntVar(&seasonFlag, "season", 0, "Championship year (0 for the current season)")

	rootCmd.AddCommand(serveCmd, standingsCmd, explainCmd, progressionCmd, versionCmd)
}

var rootCmd = &cobra.Command{
	Use:   "f1-standings",
	Short: "Formula 1 driver championship standings and analytics",
	Long: `Fetches driver standings and the race calendar, estimates each driver's
championship chances and projects points progression.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if cmd == versionCmd {
			return nil
		}
		if err := loadConfig(cmd.Context(), cmd.Flags().Changed("season")); err != nil {
			return fmt.Errorf("failed to load configuration: %w", err)
		}
		if err := setupDependencies(cmd.Context()); err != nil {
			return fmt.Errorf("failed to setup dependencies: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		teardown()
	},
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Print build information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("f1-standings %s (commit %s, built %s)\n", Version, GitCommit, BuildDate)
	},
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		log.Fatalf("Error: %v", err)
	}
}

func loadConfig(ctx context.Context, seasonSet bool) error {
	var err error
	cfg, err = config.LoadWithDefaults(configFile)
	if err != nil {
		return err
	}

	if os.Getenv("AWS_SECRETS_ENABLED") == "true" {
		region := os.Getenv("AWS_REGION")
		secretName := os.Getenv("AWS_SECRET_NAME")
		if region == "" || secretName == "" {
			return fmt.Errorf("AWS_REGION and AWS_SECRET_NAME must be set when AWS_SECRETS_ENABLED is true")
		}
		if err := config.LoadSecretsFromAWS(ctx, cfg, region, secretName); err != nil {
			return fmt.Errorf("failed to load secrets: %w", err)
		}
	}

	if seasonSet {
		cfg.Season = seasonFlag
	}

	return config.Validate(cfg)
}

func setupDependencies(ctx context.Context) error {
	appLog = logger.NewLoggerForEnvironment(cfg.App.LogLevel, cfg.App.Environment)

	if cfg.Metrics.Enabled {
		metrics.InitRegistry()
	}

	var repos *repository.Repositories
	if cfg.Database.Enabled {
		connectCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
		defer cancel()

		var err error
		db, err = database.Initialize(connectCtx, cfg)
		if err != nil {
			return fmt.Errorf("failed to connect to database: %w", err)
		}
		appLog.Info("Database connection established")
	}
	repos = repository.NewRepositories(db)

	up := cfg.Upstream
	httpClient = datasource.NewRateLimitedHTTPClient(datasource.HTTPClientConfig{
		Timeout:           up.Timeout(),
		MaxRetries:        up.MaxRetries,
		RetryWaitMin:      time.Duration(up.RetryWaitMinMS) * time.Millisecond,
		RetryWaitMax:      time.Duration(up.RetryWaitMaxMS) * time.Millisecond,
		RateLimit:         up.RateLimit,
		CircuitBreakerMax: up.CircuitBreakerMax,
		CircuitCooldown:   datasource.DefaultHTTPClientConfig().CircuitCooldown,
	}, appLog)
	httpClient.OnCircuitTrip(func() { metrics.RecordCircuitBreakerTrip("upstream") })

	cache := datasource.NewResponseCache(up.CacheTTL())
	jolpica := datasource.NewJolpicaClient(httpClient, up.JolpicaBaseURL, cache, appLog)
	openF1 := datasource.NewOpenF1Client(httpClient, up.OpenF1BaseURL, cache, appLog)

	history := service.NewHistoryLoader(jolpica, repos.Snapshot, up.RequestDelay(), appLog)
	dashboards = service.NewDashboardService(jolpica, jolpica, openF1, history, appLog)
	return nil
}

func teardown() {
	if httpClient != nil {
		_ = httpClient.Close()
	}
	if db != nil {
		db.Close()
	}
}
