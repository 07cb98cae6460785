package config

import (
	"fmt"
	"io"
	"log/slog"
	"strings"
)

// ParseLevel maps debug, info, warn and error to slog levels.
func ParseLevel(s string) (slog.Level, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug, nil
	case "", "info":
		return slog.LevelInfo, nil
	case "warn", "warning":
		return slog.LevelWarn, nil
	case "error":
		return slog.LevelError, nil
	}
	return slog.LevelInfo, fmt.Errorf("unknown log level %q (want debug, info, warn or error)", s)
}

// Level is the configured log level. Unknown levels fall back to info.
func (c Config) Level() slog.Level {
	level, _ := ParseLevel(c.LogLevel)
	return level
}

// NewLogger returns a text logger writing to w. The level is read from
// leveler on every record, so a *slog.LevelVar can change it later; nil
// means the configured level.
func (c Config) NewLogger(w io.Writer, leveler slog.Leveler) *slog.Logger {
	if leveler == nil {
		leveler = c.Level()
	}
	return slog.New(slog.NewTextHandler(w, &slog.HandlerOptions{Level: leveler}))
}
