package logger

import (
	"io"
	"os"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"fedauth/internal/config"
)

// Init configures the global zerolog logger from config.
// Unknown levels fall back to info.
func Init(cfg config.LogConfig) zerolog.Logger {
	return InitWriter(cfg, os.Stderr)
}

// InitWriter is Init with an explicit output, used by tests.
func InitWriter(cfg config.LogConfig, out io.Writer) zerolog.Logger {
	level, err := zerolog.ParseLevel(strings.ToLower(cfg.Level))
	if err != nil || level == zerolog.NoLevel {
		level = zerolog.InfoLevel
	}
	zerolog.SetGlobalLevel(level)
	zerolog.TimeFieldFormat = time.RFC3339

	w := out
	if cfg.Format != "json" {
		w = zerolog.ConsoleWriter{Out: out, TimeFormat: time.RFC3339}
	}

	l := zerolog.New(w).With().Timestamp().Logger()
	log.Logger = l
	zerolog.DefaultContextLogger = &log.Logger
	return l
}
