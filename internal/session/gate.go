// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"errors"
	"fmt"
	"log/slog"
	"net/http"

	"github.com/taibuivan/storekeep/internal/platform/constants"
	"github.com/taibuivan/storekeep/internal/platform/ctxutil"
	"github.com/taibuivan/storekeep/internal/platform/respond"
	"github.com/taibuivan/storekeep/internal/platform/sec"
)

// Gate decides, per request, whether the caller may proceed and with which identity.
//
// # State Machine
//
//	START → CLASSIFIED → PASSED | NEEDS_REFRESH | REJECTED
//
// Public paths pass anonymously. Protected paths need both cookies, and both
// credentials must verify. An access credential that has merely expired moves to
// NEEDS_REFRESH, which runs [RefreshFlow] inside the same request. A rejection
// is written before any domain handler runs.
//
// The gate holds no mutable state and is safe for concurrent use.
type Gate struct {
	routes        *RouteTable
	issuer        *Issuer
	refresh       *RefreshFlow
	clearOnReject map[string]struct{}
}

// GateOption configures a [Gate].
type GateOption func(*Gate)

// WithClearOnReject makes a rejection on any of paths also expire both cookies,
// so that logging out with dead credentials still leaves the client clean.
func WithClearOnReject(paths ...string) GateOption {
	return func(gate *Gate) {
		for _, path := range paths {
			gate.clearOnReject[normalizePath(path)] = struct{}{}
		}
	}
}

// NewGate constructs a [Gate].
func NewGate(routes *RouteTable, issuer *Issuer, refresh *RefreshFlow, options ...GateOption) *Gate {
	gate := &Gate{
		routes:        routes,
		issuer:        issuer,
		refresh:       refresh,
		clearOnReject: make(map[string]struct{}),
	}
	for _, option := range options {
		option(gate)
	}
	return gate
}

// Middleware classifies the route, authenticates protected requests, and
// attaches the resulting [Session] to the request context.
func (gate *Gate) Middleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {

		// ── 1. Classification ─────────────────────────────────────────────
		if gate.routes.Classify(request.URL.Path) == Public {
			ctx := WithSession(request.Context(), Anonymous)
			next.ServeHTTP(writer, request.WithContext(ctx))
			return
		}

		// ── 2. Authentication ─────────────────────────────────────────────
		session, err := gate.Authenticate(writer, request)
		if err != nil {
			if _, clear := gate.clearOnReject[normalizePath(request.URL.Path)]; clear {
				gate.refresh.sink.ClearAll(writer)
			}
			respond.Error(writer, request, err)
			return
		}

		// ── 3. Context Injection ──────────────────────────────────────────
		ctxutil.SetSubject(request.Context(), session.Identity.ID)
		ctx := WithSession(request.Context(), session)
		next.ServeHTTP(writer, request.WithContext(ctx))
	})
}

/*
Authenticate evaluates the request cookies regardless of route class.

Description: On success with an expired access credential, the new access cookie
has already been written to writer. On failure, the returned error is one of the
session rejection kinds and the reason has been logged.

Parameters:
  - writer: http.ResponseWriter
  - request: *http.Request

Returns:
  - Session: Authenticated session
  - error: ErrMissingCredential, ErrInvalidCredential, ErrUnknownSubject or ErrRefreshFailed
*/
func (gate *Gate) Authenticate(writer http.ResponseWriter, request *http.Request) (Session, error) {
	logger := ctxutil.GetLogger(request.Context())

	accessToken := readCookie(request, constants.AccessTokenCookieName)
	refreshToken := readCookie(request, constants.RefreshTokenCookieName)

	if accessToken == "" || refreshToken == "" {
		logger.DebugContext(request.Context(), "session_rejected",
			slog.String("reason", "missing_credential"),
			slog.Bool("has_access", accessToken != ""),
			slog.Bool("has_refresh", refreshToken != ""),
		)
		return Anonymous, ErrMissingCredential
	}

	accessClaims, accessErr := gate.issuer.VerifyAccess(accessToken)

	switch {

	// PASSED: both live and issued to the same subject.
	case accessErr == nil:
		refreshClaims, err := gate.issuer.VerifyRefresh(refreshToken)
		if err != nil {
			return Anonymous, gate.reject(request, "refresh_invalid", err)
		}
		if refreshClaims.Subject != accessClaims.Subject {
			return Anonymous, gate.reject(request, "subject_mismatch",
				fmt.Errorf("access=%s refresh=%s", accessClaims.Subject, refreshClaims.Subject))
		}
		return Session{Identity: identityFromClaims(accessClaims), IsAuthenticated: true}, nil

	// NEEDS_REFRESH: access expired, refresh must still verify.
	case errors.Is(accessErr, sec.ErrExpired):
		refreshClaims, err := gate.issuer.VerifyRefresh(refreshToken)
		if err != nil {
			return Anonymous, gate.reject(request, "refresh_invalid", err)
		}

		identity, err := gate.refresh.Execute(request.Context(), writer, refreshClaims)
		if err != nil {
			logger.WarnContext(request.Context(), "session_refresh_failed",
				slog.String("subject", refreshClaims.Subject),
				slog.Any("error", err),
			)
			return Anonymous, err
		}

		logger.InfoContext(request.Context(), "session_refreshed", slog.String("subject", identity.ID))
		return Session{Identity: identity, IsAuthenticated: true, Refreshed: true}, nil

	// REJECTED: bad signature or malformed access credential.
	default:
		return Anonymous, gate.reject(request, "access_invalid", accessErr)
	}
}

// reject logs the internal reason and returns the client-facing error.
func (gate *Gate) reject(request *http.Request, reason string, cause error) error {
	ctxutil.GetLogger(request.Context()).WarnContext(request.Context(), "session_rejected",
		slog.String("reason", reason),
		slog.Any("error", cause),
	)
	return ErrInvalidCredential
}

func readCookie(request *http.Request, name string) string {
	cookie, err := request.Cookie(name)
	if err != nil {
		return ""
	}
	return cookie.Value
}
