package logger_test

import (
	"net/http/httptest"
	"testing"

	"hikvision-sync/core/logger"

	"github.com/gofiber/fiber/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

func TestNew_Levels(t *testing.T) {
	tests := []struct {
		name    string
		cfg     logger.Config
		enabled zapcore.Level
		muted   []zapcore.Level
	}{
		{"DebugConsole", logger.Config{Level: "debug", Format: "console"}, zapcore.DebugLevel, nil},
		{"InfoJSON", logger.Config{Level: "info", Format: "json"}, zapcore.InfoLevel, []zapcore.Level{zapcore.DebugLevel}},
		{"EmptyIsInfo", logger.Config{}, zapcore.InfoLevel, []zapcore.Level{zapcore.DebugLevel}},
		{"Warn", logger.Config{Level: "warn"}, zapcore.WarnLevel, []zapcore.Level{zapcore.DebugLevel, zapcore.InfoLevel}},
		{"Error", logger.Config{Level: "error", Format: "console"}, zapcore.ErrorLevel, []zapcore.Level{zapcore.InfoLevel, zapcore.WarnLevel}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			l, err := logger.New(&tt.cfg)
			require.NoError(t, err)
			require.NotNil(t, l)

			assert.True(t, l.Core().Enabled(tt.enabled))
			for _, lvl := range tt.muted {
				assert.False(t, l.Core().Enabled(lvl), "%s must be muted", lvl)
			}
		})
	}
}

func TestNew_InvalidConfig(t *testing.T) {
	_, err := logger.New(&logger.Config{Level: "verbose"})
	assert.ErrorContains(t, err, `invalid log level "verbose"`)

	_, err = logger.New(&logger.Config{Level: "info", Format: "xml"})
	assert.ErrorContains(t, err, `invalid log format "xml"`)
}

func TestWithRayID(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	base := zap.New(core)

	app := fiber.New()
	app.Get("/", func(c *fiber.Ctx) error {
		c.Locals("ray_id", "ray-123")
		logger.WithRayID(base, c).Info("with ray")
		return c.SendStatus(fiber.StatusOK)
	})
	app.Get("/none", func(c *fiber.Ctx) error {
		logger.WithRayID(base, c).Info("without ray")
		return c.SendStatus(fiber.StatusOK)
	})

	_, err := app.Test(httptest.NewRequest("GET", "/", nil))
	require.NoError(t, err)
	_, err = app.Test(httptest.NewRequest("GET", "/none", nil))
	require.NoError(t, err)

	entries := logs.All()
	require.Len(t, entries, 2)
	assert.Equal(t, "ray-123", entries[0].ContextMap()["ray_id"])
	assert.NotContains(t, entries[1].ContextMap(), "ray_id")
}
