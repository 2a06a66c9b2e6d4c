package logging

import (
	"log/slog"
	"os"
	"strings"

	"github.com/chainseed-org/chainseed/internal/config"
)

// NewLogger creates a logger based on runtime configuration. The level can
// be forced through CHAINSEED_LOG_LEVEL independently of --debug.
func NewLogger(cfg *config.RuntimeConfig) *slog.Logger {
	level := slog.LevelWarn
	if cfg.Debug {
		level = slog.LevelDebug
	}

	switch strings.ToLower(os.Getenv("CHAINSEED_LOG_LEVEL")) {
	case "debug":
		level = slog.LevelDebug
	case "info":
		level = slog.LevelInfo
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	}

	opts := &slog.HandlerOptions{
		Level: level,
		ReplaceAttr: func(groups []string, a slog.Attr) slog.Attr {
			// Drop timestamps; runs are short and interactive.
			if a.Key == slog.TimeKey {
				return slog.Attr{}
			}
			return a
		},
	}

	return slog.New(slog.NewTextHandler(os.Stderr, opts))
}
