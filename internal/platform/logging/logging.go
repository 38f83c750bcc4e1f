// Package logging builds the process slog logger.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/lmittmann/tint"
)

// Config controls logger construction.
type Config struct {
	Level   string `env:"LOG_LEVEL" envDefault:"info"`
	NoColor bool   `env:"LOG_NO_COLOR" envDefault:"false"`
}

// ParseLevel maps a level name to a slog level, defaulting to info.
func ParseLevel(value string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(value)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

// New returns a tint-backed logger writing to w. A nil writer means stderr.
func New(w io.Writer, cfg Config) *slog.Logger {
	if w == nil {
		w = os.Stderr
	}
	return slog.New(tint.NewHandler(w, &tint.Options{
		Level:      ParseLevel(cfg.Level),
		TimeFormat: time.Kitchen,
		NoColor:    cfg.NoColor,
	}))
}

// Setup builds a logger for service and installs it as the slog default.
func Setup(service string, cfg Config) *slog.Logger {
	logger := New(os.Stderr, cfg)
	if service = strings.TrimSpace(service); service != "" {
		logger = logger.With(slog.String("service", service))
	}
	slog.SetDefault(logger)
	return logger
}

// OrDefault returns logger, or the slog default when logger is nil.
func OrDefault(logger *slog.Logger) *slog.Logger {
	if logger != nil {
		return logger
	}
	return slog.Default()
}
