// Package logger builds the service's zerolog logger.
package logger

import (
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/glowmatch/backend/config"
	"github.com/natefinch/lumberjack"
	"github.com/rs/zerolog"
)

// New returns a logger writing to stdout, and to a rotating file when
// cfg.File is set. Unknown levels fall back to info.
func New(cfg config.LogConfig) zerolog.Logger {
	return newLogger(cfg, os.Stdout)
}

func newLogger(cfg config.LogConfig, stdout io.Writer) zerolog.Logger {
	var out io.Writer = stdout
	if cfg.Format != "json" {
		out = zerolog.ConsoleWriter{Out: stdout, TimeFormat: time.RFC3339}
	}

	var dirErr error
	if cfg.File != "" {
		dirErr = os.MkdirAll(filepath.Dir(cfg.File), 0o755)
		file := &lumberjack.Logger{
			Filename:   cfg.File,
			MaxSize:    50, // MB
			MaxBackups: 5,
			MaxAge:     30, // days
			Compress:   true,
		}
		out = zerolog.MultiLevelWriter(out, file)
	}

	logger := zerolog.New(out).Level(ParseLevel(cfg.Level)).With().Timestamp().Logger()
	if dirErr != nil {
		logger.Warn().Err(dirErr).Str("file", cfg.File).Msg("cannot create log directory, file logging may fail")
	}
	return logger
}

// ParseLevel parses a level name, defaulting to info
func ParseLevel(level string) zerolog.Level {
	lvl, err := zerolog.ParseLevel(level)
	if err != nil || level == "" {
		return zerolog.InfoLevel
	}
	return lvl
}
