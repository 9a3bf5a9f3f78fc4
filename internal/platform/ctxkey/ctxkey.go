// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package ctxkey holds the typed keys for request-scoped context values.
//
// The key type is unexported, so no other package can build a colliding key.
// Read and write values through ctxutil and session rather than directly.
package ctxkey

type key uint8

const (
	// KeyRequestID stores the X-Request-ID correlation value.
	KeyRequestID key = iota + 1

	// KeyLogger stores the per-request [*log/slog.Logger].
	KeyLogger

	// KeySubject stores the mutable subject slot read by the access log.
	KeySubject

	// KeySession stores the resolved session of the request.
	KeySession
)
