// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

// Package logger builds the application's zerolog logger: human-readable or
// JSON lines on stderr, optionally teed to a size-rotated log file.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"gopkg.in/natefinch/lumberjack.v2"

	"github.com/pdiddy/movie-tracker/pkg/types"
)

// FileName is the log file created under LoggingConfig.Path.
const FileName = "movie-tracker.log"

// Logger wraps zerolog and owns the rotating file, if any.
type Logger struct {
	zerolog.Logger
	rotator *lumberjack.Logger
}

// New creates a logger writing to stderr. Stdout is left to command output.
func New(cfg types.LoggingConfig) *Logger {
	return newWithWriter(cfg, os.Stderr)
}

func newWithWriter(cfg types.LoggingConfig, w io.Writer) *Logger {
	var console io.Writer = w
	if cfg.Format != "json" {
		console = zerolog.ConsoleWriter{Out: w, TimeFormat: time.Kitchen}
	}

	output := console
	var rotator *lumberjack.Logger
	if cfg.Path != "" {
		if err := os.MkdirAll(cfg.Path, 0o755); err == nil {
			rotator = &lumberjack.Logger{
				Filename:   filepath.Join(cfg.Path, FileName),
				MaxSize:    orDefault(cfg.MaxSizeMB, 10),
				MaxBackups: orDefault(cfg.MaxBackups, 5),
				MaxAge:     orDefault(cfg.MaxAgeDays, 30),
				Compress:   cfg.Compress,
				LocalTime:  true,
			}
			output = io.MultiWriter(console, rotator)
		}
	}

	l := zerolog.New(output).
		Level(ParseLevel(cfg.Level)).
		With().
		Timestamp().
		Logger()
	return &Logger{Logger: l, rotator: rotator}
}

// Close closes the log file if one is open.
func (l *Logger) Close() error {
	if l.rotator != nil {
		return l.rotator.Close()
	}
	return nil
}

// WithComponent returns a child logger tagged with component.
func (l *Logger) WithComponent(component string) zerolog.Logger {
	return l.Logger.With().Str("component", component).Logger()
}

// ParseLevel converts a level name to a zerolog.Level. Unknown names map to
// warn so a CLI stays quiet by default.
func ParseLevel(level string) zerolog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "trace":
		return zerolog.TraceLevel
	case "debug":
		return zerolog.DebugLevel
	case "info":
		return zerolog.InfoLevel
	case "error":
		return zerolog.ErrorLevel
	case "off", "disabled":
		return zerolog.Disabled
	default:
		return zerolog.WarnLevel
	}
}

func orDefault(v, def int) int {
	if v <= 0 {
		return def
	}
	return v
}
