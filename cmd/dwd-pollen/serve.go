package main

import (
	"context"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	httpapi "github.com/i474232898/dwd-pollen/internal/api/http"
	"github.com/i474232898/dwd-pollen/internal/mqtt"
	"github.com/i474232898/dwd-pollen/internal/pollen"
	"github.com/i474232898/dwd-pollen/internal/scheduler"
	"github.com/i474232898/dwd-pollen/internal/store"
)

func newServeCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Poll the feed on a schedule and serve sensors over HTTP",
		RunE: func(cmd *cobra.Command, _ []string) error {
			return runServe(cmd.Context())
		},
	}
}

func runServe(parent context.Context) error {
	a, err := setup()
	if err != nil {
		return err
	}
	cfg, logger := a.cfg, a.logger

	logger.Info("config loaded",
		"app_env", cfg.AppEnv,
		"log_level", cfg.LogLevel.String(),
		"partregion_id", cfg.PartregionID,
		"pollen_types", cfg.PollenTypes,
		"scheduler_interval", cfg.SchedulerInterval,
		"refresh_throttle", cfg.RefreshThrottle,
		"timezone", cfg.Location.String(),
		"mqtt_enabled", cfg.MQTTEnabled(),
	)

	ctx, stop := signal.NotifyContext(parent, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// MQTT is optional; a broker that is down must not block the HTTP API.
	var publisher pollen.Publisher
	if cfg.MQTTEnabled() {
		p := mqtt.NewPublisher(cfg, logger)
		connectCtx, connectCancel := context.WithTimeout(ctx, 5*time.Second)
		if err := p.Connect(connectCtx); err != nil {
			logger.Warn("mqtt broker not reachable yet, retrying in background", "error", err)
		}
		connectCancel()
		defer p.Disconnect()
		publisher = p
	}

	service := pollen.NewService(store.NewMemoryStore(), publisher, logger)
	for _, sensor := range a.newSensors() {
		if err := service.AddSensor(sensor); err != nil {
			return err
		}
		logger.Info("sensor registered", "name", sensor.Name())
	}

	sched := scheduler.New(cfg.SchedulerInterval, service, logger, a.metrics)
	if err := sched.Start(); err != nil {
		logger.Error("failed to start scheduler", "error", err)
		return err
	}
	defer sched.Stop()

	app := httpapi.NewApp(service)

	errCh := make(chan error, 1)
	go func() {
		logger.Info("http listening", "port", cfg.Port)
		errCh <- app.Listen(":" + cfg.Port)
	}()

	select {
	case <-ctx.Done():
	case err := <-errCh:
		if err != nil {
			logger.Error("fiber server stopped", "error", err)
		}
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	logger.Info("shutting down")
	if err := app.ShutdownWithContext(shutdownCtx); err != nil {
		logger.Error("error during shutdown", "error", err)
		return err
	}
	logger.Info("shutdown complete")
	return nil
}
