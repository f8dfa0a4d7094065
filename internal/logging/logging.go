// Package logging configures the process-wide slog logger from the
// LOG_LEVEL and LOG_FORMAT settings.
package logging

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Init installs the default logger. level is one of debug, info, warn or
// error; anything else means info. format "json" selects the JSON handler,
// any other value the text handler. Output goes to w, or stderr when w is
// omitted.
func Init(level, format string, w ...io.Writer) {
	var out io.Writer = os.Stderr
	if len(w) > 0 && w[0] != nil {
		out = w[0]
	}
	opts := &slog.HandlerOptions{Level: parseLevel(level)}

	var handler slog.Handler
	if strings.EqualFold(strings.TrimSpace(format), "json") {
		handler = slog.NewJSONHandler(out, opts)
	} else {
		handler = slog.NewTextHandler(out, opts)
	}
	slog.SetDefault(slog.New(handler))
}

func parseLevel(s string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	}
	return slog.LevelInfo
}

// New returns the default logger tagged with component. Call it after Init
// so the component logger picks up the configured handler.
func New(component string) *slog.Logger {
	return slog.Default().With("component", component)
}
