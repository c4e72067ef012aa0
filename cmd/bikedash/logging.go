package main

import (
	"fmt"
	"io"
	"log/slog"
)

// setupLogging installs the default slog logger writing to out.
func setupLogging(out io.Writer, level, format string) error {
	handler, err := newLogHandler(out, level, format)
	if err != nil {
		return err
	}
	slog.SetDefault(slog.New(handler))
	return nil
}

func newLogHandler(out io.Writer, level, format string) (slog.Handler, error) {
	var slogLevel slog.Level
	switch level {
	case "debug":
		slogLevel = slog.LevelDebug
	case "info":
		slogLevel = slog.LevelInfo
	case "warn":
		slogLevel = slog.LevelWarn
	case "error":
		slogLevel = slog.LevelError
	default:
		return nil, fmt.Errorf("invalid log level: %s", level)
	}

	opts := &slog.HandlerOptions{
		Level: slogLevel,
	}
	switch format {
	case "console":
		return slog.NewTextHandler(out, opts), nil
	case "json":
		return slog.NewJSONHandler(out, opts), nil
	default:
		return nil, fmt.Errorf("invalid log format: %s", format)
	}
}
