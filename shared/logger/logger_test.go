package logger_test

import (
	"bytes"
	"encoding/json"
	"errors"
	"hotel/config"
	"hotel/shared/constant"
	"hotel/shared/logger"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func restore(t *testing.T) {
	t.Helper()

	original := log.Logger
	level := zerolog.GlobalLevel()
	format := zerolog.TimeFieldFormat

	t.Cleanup(func() {
		log.Logger = original
		zerolog.SetGlobalLevel(level)
		zerolog.TimeFieldFormat = format
	})
}

func TestInitLogger(t *testing.T) {
	restore(t)

	logger.InitLogger()

	assert.Equal(t, zerolog.TimeFormatUnix, zerolog.TimeFieldFormat)
	assert.Equal(t, zerolog.TraceLevel, zerolog.GlobalLevel())
}

func TestNew_ProductionWritesJSON(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction
	cfg.App.Name = "hotel"

	var buf bytes.Buffer
	l := logger.New(&buf, cfg)
	l.Info().Str("booking_id", "b-1").Msg("booking confirmed")

	var line map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &line))

	assert.Equal(t, "hotel", line["service"])
	assert.Equal(t, constant.ServerEnvProduction, line["env"])
	assert.Equal(t, "b-1", line["booking_id"])
	assert.Equal(t, "booking confirmed", line["message"])
}

func TestNew_DevelopmentWritesConsole(t *testing.T) {
	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvDevelopment

	var buf bytes.Buffer
	l := logger.New(&buf, cfg)
	l.Warn().Msg("room under maintenance")

	assert.Contains(t, buf.String(), "room under maintenance")
	assert.False(t, json.Valid(buf.Bytes()))
}

func TestErrorWithStack(t *testing.T) {
	restore(t)

	var buf bytes.Buffer
	log.Logger = log.Output(&buf)
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	logger.ErrorWithStack(nil)
	assert.Empty(t, buf.String())

	logger.ErrorWithStack(errors.New("payment insert failed"))
	assert.Contains(t, buf.String(), "payment insert failed")
}

func TestSetLogLevel(t *testing.T) {
	tests := []struct {
		name     string
		env      string
		level    string
		expected zerolog.Level
	}{
		{name: "explicit debug", env: constant.ServerEnvProduction, level: "debug", expected: zerolog.DebugLevel},
		{name: "explicit error", env: constant.ServerEnvDevelopment, level: "error", expected: zerolog.ErrorLevel},
		{name: "disabled", env: constant.ServerEnvProduction, level: "disabled", expected: zerolog.Disabled},
		{name: "empty in development", env: constant.ServerEnvDevelopment, level: "", expected: zerolog.TraceLevel},
		{name: "empty in production", env: constant.ServerEnvProduction, level: "", expected: zerolog.InfoLevel},
		{name: "invalid in production", env: constant.ServerEnvProduction, level: "loud", expected: zerolog.InfoLevel},
		{name: "invalid without env", env: "", level: "loud", expected: zerolog.TraceLevel},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			restore(t)

			cfg := &config.Config{}
			cfg.Server.Env = tt.env
			cfg.Server.LogLevel = tt.level

			logger.SetLogLevel(cfg)

			assert.Equal(t, tt.expected, zerolog.GlobalLevel())
		})
	}
}

func TestConfigure(t *testing.T) {
	restore(t)

	cfg := &config.Config{}
	cfg.Server.Env = constant.ServerEnvProduction
	cfg.Server.LogLevel = "warn"

	logger.Configure(cfg)

	assert.Equal(t, zerolog.WarnLevel, zerolog.GlobalLevel())
}
