// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package logger builds the process-wide structured logger.
package logger

import (
	"io"
	"log/slog"
	"os"
	"strings"
)

// Config selects the handler and verbosity of the root logger.
type Config struct {
	App         string
	Version     string
	Environment string // "development", "production", ...
	Level       string // "debug", "info", "warn", "error"
	Format      string // "json" or "text"

	// Output defaults to stdout.
	Output io.Writer
}

// New returns a configured [*slog.Logger] tagged with app/version/env attributes.
// It does not touch the global default; callers decide whether to call [slog.SetDefault].
func New(cfg Config) *slog.Logger {
	output := cfg.Output
	if output == nil {
		output = os.Stdout
	}

	options := &slog.HandlerOptions{
		AddSource: cfg.Environment == "development",
		Level:     ParseLevel(cfg.Level),
	}

	var handler slog.Handler
	switch strings.ToLower(cfg.Format) {
	case "text":
		handler = slog.NewTextHandler(output, options)
	default:
		handler = slog.NewJSONHandler(output, options)
	}

	return slog.New(handler).With(
		slog.String("app", cfg.App),
		slog.String("version", cfg.Version),
		slog.String("env", cfg.Environment),
	)
}

// ParseLevel maps a level name to [slog.Level]. Unknown names fall back to info.
func ParseLevel(level string) slog.Level {
	switch strings.ToLower(strings.TrimSpace(level)) {
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
