package config

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"

	"github.com/i474232898/dwd-pollen/internal/common"
	"github.com/i474232898/dwd-pollen/internal/pollen"
)

var validate = validator.New()

type AppConfig struct {
	AppEnv   string `validate:"oneof=dev prod"`
	LogLevel slog.Level

	// PartregionID is the DWD sub-region to track.
	PartregionID int               `validate:"gt=0"`
	SensorName   string            `validate:"required"`
	PollenTypes  []pollen.Category `validate:"min=1,unique"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// SchedulerInterval controls how often the scheduler ticks; each sensor
	// still refreshes at most once per RefreshThrottle.
	SchedulerInterval time.Duration `validate:"gt=0"`
	RefreshThrottle   time.Duration `validate:"gt=0"`

	Location *time.Location `validate:"required"`

	Port string `validate:"required"`

	// MQTT publishing is disabled when MQTTBroker is empty.
	MQTTBroker      string
	MQTTPort        int    `validate:"gt=0,lte=65535"`
	MQTTClientID    string `validate:"required"`
	MQTTTopicPrefix string `validate:"required"`
}

// MQTTEnabled reports whether entities should be published over MQTT.
func (c *AppConfig) MQTTEnabled() bool {
	return c.MQTTBroker != ""
}

// Keys returns one sensor key per configured pollen category.
func (c *AppConfig) Keys() []pollen.Key {
	keys := make([]pollen.Key, 0, len(c.PollenTypes))
	for _, t := range c.PollenTypes {
		keys = append(keys, pollen.Key{PartregionID: c.PartregionID, Category: t})
	}
	return keys
}

// Load reads configuration from the environment with sensible defaults.
// Callers load any .env file beforehand.
func Load() (*AppConfig, error) {
	cfg := &AppConfig{}

	cfg.AppEnv = getenvDefault("APP_ENV", "dev")
	level, err := parseLogLevel(getenvDefault("LOG_LEVEL", "info"))
	if err != nil {
		return nil, err
	}
	cfg.LogLevel = level

	idStr := strings.TrimSpace(os.Getenv("DWD_PARTREGION_ID"))
	if idStr == "" {
		return nil, errors.New("DWD_PARTREGION_ID is required")
	}
	id, err := strconv.Atoi(idStr)
	if err != nil {
		return nil, fmt.Errorf("invalid DWD_PARTREGION_ID: %w", err)
	}
	cfg.PartregionID = id

	cfg.SensorName = getenvDefault("DWD_SENSOR_NAME", pollen.DefaultName)
	for _, t := range common.SplitList(getenvDefault("DWD_POLLEN_TYPES", "ambrosia,grass,tree")) {
		c, ok := pollen.ParseCategory(strings.ToLower(t))
		if !ok {
			return nil, fmt.Errorf("invalid DWD_POLLEN_TYPES: unknown pollen type %q", t)
		}
		cfg.PollenTypes = append(cfg.PollenTypes, c)
	}

	if cfg.HTTPTimeout, err = getenvDuration("HTTP_TIMEOUT", "10s"); err != nil {
		return nil, err
	}
	if cfg.SchedulerInterval, err = getenvDuration("SCHEDULER_INTERVAL", "5m"); err != nil {
		return nil, err
	}
	if cfg.RefreshThrottle, err = getenvDuration("REFRESH_THROTTLE", "60m"); err != nil {
		return nil, err
	}

	tz := getenvDefault("TIMEZONE", "Europe/Berlin")
	loc, err := time.LoadLocation(tz)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", tz, err)
	}
	cfg.Location = loc

	cfg.Port = getenvDefault("PORT", "8080")

	cfg.MQTTBroker = strings.TrimSpace(os.Getenv("MQTT_BROKER"))
	cfg.MQTTPort = getenvInt("MQTT_PORT", 1883)
	cfg.MQTTClientID = getenvDefault("MQTT_CLIENT_ID", "dwd-pollen")
	cfg.MQTTTopicPrefix = getenvDefault("MQTT_TOPIC_PREFIX", "dwd_pollen")

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	return cfg, nil
}

func getenvDefault(key, def string) string {
	if v := strings.TrimSpace(os.Getenv(key)); v != "" {
		return v
	}
	return def
}

func getenvInt(key string, def int) int {
	if v := os.Getenv(key); v != "" {
		n, err := strconv.Atoi(v)
		if err == nil {
			return n
		}
	}
	return def
}

func getenvDuration(key, def string) (time.Duration, error) {
	s := getenvDefault(key, def)
	d, err := time.ParseDuration(s)
	if err != nil {
		return 0, fmt.Errorf("invalid %s: %w", key, err)
	}
	return d, nil
}

func parseLogLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	default:
		return slog.LevelInfo, fmt.Errorf("invalid LOG_LEVEL %q (allowed: debug, info, warn, error)", s)
	}
}
