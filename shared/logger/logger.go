package logger

import (
	"hotel/config"
	"hotel/shared/constant"
	"io"
	"os"
	"time"

	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// InitLogger installs a trace level console logger so that output produced
// while the configuration is still loading is not lost.
func InitLogger() {
	zerolog.TimeFieldFormat = zerolog.TimeFormatUnix
	zerolog.SetGlobalLevel(zerolog.TraceLevel)

	log.Logger = log.Output(zerolog.ConsoleWriter{Out: os.Stdout, TimeFormat: time.RFC3339})
	log.Trace().Msg("Zerolog initialized.")
}

// Configure replaces the bootstrap logger with the one matching the
// configured environment and applies the configured level.
func Configure(config *config.Config) {
	log.Logger = New(os.Stdout, config)

	SetLogLevel(config)
}

// New builds a logger writing to out. Development keeps the human readable
// console format; every other environment emits one JSON object per line.
func New(out io.Writer, config *config.Config) zerolog.Logger {
	writer := out
	if isDevelopment(config) {
		writer = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339, NoColor: out != os.Stdout}
	}

	fields := zerolog.New(writer).With().Timestamp()

	if config.App.Name != "" {
		fields = fields.Str("service", config.App.Name)
	}

	if config.Server.Env != "" {
		fields = fields.Str("env", config.Server.Env)
	}

	return fields.Logger()
}

func ErrorWithStack(err error) {
	if err == nil {
		return
	}

	log.Error().Msgf("%+v", errors.WithStack(err))
}

// SetLogLevel applies Server.LogLevel. An empty or unknown level falls back
// to trace in development and info everywhere else.
func SetLogLevel(config *config.Config) {
	level, err := zerolog.ParseLevel(config.Server.LogLevel)
	if err != nil || config.Server.LogLevel == "" {
		level = defaultLevel(config)
		log.Trace().Str("loglevel", level.String()).Msg("Environment has no valid log level set up, using default.")
	} else {
		log.Trace().Str("loglevel", level.String()).Msg("Desired log level detected.")
	}

	zerolog.SetGlobalLevel(level)
}

func defaultLevel(config *config.Config) zerolog.Level {
	if isDevelopment(config) {
		return zerolog.TraceLevel
	}

	return zerolog.InfoLevel
}

func isDevelopment(config *config.Config) bool {
	return config.Server.Env == "" || config.Server.Env == constant.ServerEnvDevelopment
}
