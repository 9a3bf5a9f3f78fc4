// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxutil provides helpers for interacting with values stored in [context.Context].
package ctxutil

import (
	"context"
	"log/slog"

	"github.com/taibuivan/storekeep/internal/platform/ctxkey"
)

// # Request Tracing

// WithRequestID returns a new context with the provided request ID attached.
func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, ctxkey.KeyRequestID, id)
}

// GetRequestID retrieves the request ID from the context.
// Returns an empty string if not found.
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(ctxkey.KeyRequestID).(string)
	return id
}

// # Structured Logging

// WithLogger returns a new context with the provided logger attached.
func WithLogger(ctx context.Context, logger *slog.Logger) context.Context {
	return context.WithValue(ctx, ctxkey.KeyLogger, logger)
}

// GetLogger retrieves the logger from the context.
// If no logger is found, it returns the global default logger.
func GetLogger(ctx context.Context) *slog.Logger {
	logger, ok := ctx.Value(ctxkey.KeyLogger).(*slog.Logger)
	if !ok {
		return slog.Default()
	}
	return logger
}

// # Identity & Access

// subjectSlot is filled in by the session gate once a request is authenticated.
// It is allocated by the outermost middleware so that the value stays visible
// after inner handlers return.
type subjectSlot struct {
	id string
}

// WithSubjectSlot returns a new context carrying an empty subject slot.
func WithSubjectSlot(ctx context.Context) context.Context {
	return context.WithValue(ctx, ctxkey.KeySubject, &subjectSlot{})
}

// SetSubject records the authenticated subject ID in the slot, if one exists.
func SetSubject(ctx context.Context, id string) {
	if slot, ok := ctx.Value(ctxkey.KeySubject).(*subjectSlot); ok {
		slot.id = id
	}
}

// GetSubject returns the authenticated subject ID, or an empty string for anonymous requests.
func GetSubject(ctx context.Context) string {
	if slot, ok := ctx.Value(ctxkey.KeySubject).(*subjectSlot); ok {
		return slot.id
	}
	return ""
}
