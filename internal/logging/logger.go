package logging

import (
	"io"
	"os"

	"github.com/rs/zerolog"

	"github.com/edvin/subnets/internal/config"
)

// NewLogger creates a structured JSON logger on stdout tagged with the
// service name and store backend.
func NewLogger(cfg *config.Config) zerolog.Logger {
	return newLogger(os.Stdout, cfg)
}

func newLogger(w io.Writer, cfg *config.Config) zerolog.Logger {
	ctx := zerolog.New(w).With().Timestamp()

	if cfg.ServiceName != "" {
		ctx = ctx.Str("service", cfg.ServiceName)
	}
	if cfg.StoreBackend != "" {
		ctx = ctx.Str("store", cfg.StoreBackend)
	}

	level, err := zerolog.ParseLevel(cfg.LogLevel)
	if err != nil || cfg.LogLevel == "" {
		level = zerolog.InfoLevel
	}

	return ctx.Logger().Level(level)
}
