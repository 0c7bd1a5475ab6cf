package util

import (
	"io"
	"log/slog"
)

// SetupLogging installs the default slog logger according to opt. Records are written to w as text, or as JSON
// if opt.JSON is set. Debug records are only emitted in verbose mode.
func SetupLogging(opt Options, w io.Writer) *slog.Logger {
	level := slog.LevelInfo
	if opt.Verbose {
		level = slog.LevelDebug
	}
	hopt := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	if opt.JSON {
		handler = slog.NewJSONHandler(w, hopt)
	} else {
		handler = slog.NewTextHandler(w, hopt)
	}
	logger := slog.New(handler)
	slog.SetDefault(logger)
	return logger
}
