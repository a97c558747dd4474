package logging

import (
	"bytes"
	"encoding/json"
	"log/slog"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/i474232898/dwd-pollen/internal/config"
)

func TestNewLogger_ProdWritesJSON(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.AppConfig{AppEnv: "prod", LogLevel: slog.LevelInfo}, "1.2.3", "dwd-pollen")

	logger.Debug("hidden")
	logger.Info("exposure resolved", "partregion_id", 112)

	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	require.Len(t, lines, 1)

	var record map[string]any
	require.NoError(t, json.Unmarshal([]byte(lines[0]), &record))
	assert.Equal(t, "exposure resolved", record["msg"])
	assert.Equal(t, "INFO", record["level"])
	assert.Equal(t, "dwd-pollen", record["app"])
	assert.Equal(t, "1.2.3", record["version"])
	assert.Equal(t, "prod", record["env"])
	assert.Equal(t, float64(112), record["partregion_id"])
}

func TestNewLogger_DevUsesTint(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.AppConfig{AppEnv: "dev", LogLevel: slog.LevelDebug}, "dev", "dwd-pollen")

	logger.Debug("refresh throttled")

	out := buf.String()
	assert.Contains(t, out, "refresh throttled")
	assert.Contains(t, out, "dwd-pollen")
	assert.False(t, json.Valid([]byte(strings.TrimSpace(out))))
}

func TestNewLogger_RespectsLevel(t *testing.T) {
	var buf bytes.Buffer
	logger := newLogger(&buf, &config.AppConfig{AppEnv: "prod", LogLevel: slog.LevelError}, "1.2.3", "dwd-pollen")

	logger.Warn("publish entity failed")
	assert.Empty(t, buf.String())

	logger.Error("refresh failed, no data this cycle")
	assert.Contains(t, buf.String(), "refresh failed")
}
