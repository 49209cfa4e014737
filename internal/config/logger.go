package config

import (
	"io"
	"os"
	"time"

	"github.com/rs/zerolog"
)

// NewLogger creates a new logger based on the configuration, writing to stdout.
func NewLogger(cfg LoggerConfig) zerolog.Logger {
	return NewLoggerTo(cfg, os.Stdout)
}

// NewLoggerTo creates a logger writing to w. The CLI uses stderr so command
// output stays clean.
func NewLoggerTo(cfg LoggerConfig, w io.Writer) zerolog.Logger {
	// Set log level
	var level zerolog.Level
	switch cfg.Level {
	case "debug":
		level = zerolog.DebugLevel
	case "info":
		level = zerolog.InfoLevel
	case "warn":
		level = zerolog.WarnLevel
	case "error":
		level = zerolog.ErrorLevel
	default:
		level = zerolog.InfoLevel
	}

	zerolog.SetGlobalLevel(level)

	// Configure output format
	var logger zerolog.Logger
	if cfg.Format == "console" {
		logger = zerolog.New(zerolog.ConsoleWriter{
			Out:        w,
			TimeFormat: time.RFC3339,
		}).With().Timestamp().Logger()
	} else {
		logger = zerolog.New(w).With().Timestamp().Logger()
	}

	return logger
}
