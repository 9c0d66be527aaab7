package cli

import (
	"io"
	"log/slog"
	"strings"
)

// NewLogger - builds the JSON logger for the level name, info when the name is unknown.
func NewLogger(level string, w io.Writer) *slog.Logger {
	var lvl slog.Level

	switch strings.ToLower(level) {
	case "debug":
		lvl = slog.LevelDebug
	case "warn":
		lvl = slog.LevelWarn
	case "error":
		lvl = slog.LevelError
	default:
		lvl = slog.LevelInfo
	}

	return slog.New(slog.NewJSONHandler(w, &slog.HandlerOptions{Level: lvl}))
}
