package main

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	_ "time/tzdata"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/i474232898/dwd-pollen/internal/config"
	"github.com/i474232898/dwd-pollen/internal/logging"
	"github.com/i474232898/dwd-pollen/internal/observability"
	"github.com/i474232898/dwd-pollen/internal/pollen"
	"github.com/i474232898/dwd-pollen/internal/pollen/providers"
)

const appName = "dwd-pollen"

var version = "dev"

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		slog.Error("dwd-pollen failed", "error", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:           appName,
		Short:         "Expose DWD pollen forecasts as normalized exposure sensors",
		Version:       version,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
	root.AddCommand(newServeCmd(), newShowCmd())
	return root
}

// app bundles what both commands need.
type app struct {
	cfg     *config.AppConfig
	logger  *slog.Logger
	metrics *observability.Metrics
	fetcher *providers.DWDProvider
}

func setup() (*app, error) {
	if err := godotenv.Load(); err != nil {
		slog.Info("no .env file found or error loading it", "error", err)
	}

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		return nil, err
	}

	logger := logging.New(cfg, version, appName)
	metrics := observability.NewMetrics()

	// Shared HTTP client for outbound feed requests.
	httpClient := &http.Client{
		Timeout: cfg.HTTPTimeout,
	}

	return &app{
		cfg:     cfg,
		logger:  logger,
		metrics: metrics,
		fetcher: providers.NewDWDProvider(httpClient, logger, metrics),
	}, nil
}

func (a *app) newSensors() []*pollen.Sensor {
	sensors := make([]*pollen.Sensor, 0, len(a.cfg.PollenTypes))
	for _, key := range a.cfg.Keys() {
		sensors = append(sensors, pollen.NewSensor(pollen.SensorConfig{
			DisplayName: a.cfg.SensorName,
			Key:         key,
			Throttle:    a.cfg.RefreshThrottle,
			Location:    a.cfg.Location,
		}, a.fetcher, a.logger, a.metrics))
	}
	return sensors
}
