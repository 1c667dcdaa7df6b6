package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"bookingapp/internal/adapter/database/postgres"
	"bookingapp/internal/adapter/database/sqlite"
	api "bookingapp/internal/adapter/http"
	"bookingapp/pkg/config"
	"bookingapp/pkg/tracing"
)

const version = "1.0.0"

func NewRootCmd() *cobra.Command {
	var configPath string

	rootCmd := &cobra.Command{
		Use:          "booking",
		Short:        "Property and user services of the booking platform",
		SilenceUsage: true,
	}

	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "path to a config file (yaml, json or toml)")

	rootCmd.AddCommand(
		newServeCommand(config.ServiceProperty, &configPath),
		newServeCommand(config.ServiceUser, &configPath),
		newMigrateCommand(&configPath),
	)

	return rootCmd
}

func newServeCommand(service string, configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   service,
		Args:  cobra.NoArgs,
		Short: fmt.Sprintf("Run the %s service", service),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)

			if err != nil {
				return err
			}

			cfg.Service = service

			return serve(cmd.Context(), cfg)
		},
	}
}

func serve(ctx context.Context, cfg *config.AppConfig) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	serviceName := cfg.Service + "-service"

	logger, err := config.NewLokiLogger(serviceName, cfg.LokiURL)

	if err != nil {
		return fmt.Errorf("initialize logger: %w", err)
	}

	defer logger.Sync()

	telemetry, err := tracing.InitTelemetry(tracing.TelemetryConfig{
		ServiceName:    serviceName,
		ServiceVersion: version,
		Environment:    cfg.Environment,
		MetricsPort:    cfg.Telemetry.MetricsPort,
		OTLPEndpoint:   cfg.Telemetry.OTLPEndpoint,
		ExportTraces:   cfg.Telemetry.Enabled,
	})

	if err != nil {
		return fmt.Errorf("initialize telemetry: %w", err)
	}

	defer telemetry.Shutdown(context.Background())

	go func() {
		if err := telemetry.ServeMetrics(); err != nil {
			logger.Logger.Error("Metrics server failed", zap.Error(err))
		}
	}()

	metrics := tracing.NewAppMetrics(telemetry.PrometheusRegistry)
	metrics.StartSystemMetrics(ctx)

	return api.StartServer(ctx, cfg, metrics, logger)
}

func newMigrateCommand(configPath *string) *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Args:  cobra.NoArgs,
		Short: "Apply the database schema and exit",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(*configPath)

			if err != nil {
				return err
			}

			switch cfg.Database.Driver {
			case config.DriverPostgres:
				err = postgres.RunMigrations(cfg.Database.URL)
			default:
				var db *sqlite.DB

				db, err = sqlite.NewDB(sqlite.Config{
					Path:        cfg.Database.Path,
					QueryLogger: config.NewQueryLogger(os.Stdout, cfg.SQLLogLevel),
				})

				if err == nil {
					db.Close()
				}
			}

			if err != nil {
				return fmt.Errorf("migrate %s: %w", cfg.Database.Driver, err)
			}

			cmd.Printf("%s schema is up to date\n", cfg.Database.Driver)

			return nil
		},
	}
}
