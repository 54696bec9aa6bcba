package main

import (
	"io"
	"log/slog"
	"os"
)

// logger receives debug logs and codec diagnostics. It discards everything
// unless --verbose or --log-file is set.
var logger = slog.New(slog.NewTextHandler(io.Discard, nil))

var logCloser io.Closer

func setupLogger() error {
	switch {
	case logFile != "":
		f, err := os.OpenFile(logFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
		if err != nil {
			return err
		}
		logCloser = f
		logger = slog.New(slog.NewJSONHandler(f, &slog.HandlerOptions{Level: slog.LevelDebug}))
	case verbose:
		logger = slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
	default:
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return nil
}

func closeLogger() error {
	if logCloser == nil {
		return nil
	}
	err := logCloser.Close()
	logCloser = nil
	return err
}
