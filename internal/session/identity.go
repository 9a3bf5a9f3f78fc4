// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package session implements the dual-token authentication core.

Every authenticated client holds two HttpOnly cookies:

  - access_token: short-lived, carries the full identity, signed with the access secret.
  - refresh_token: long-lived, carries the subject ID only, signed with a distinct refresh secret.

# Components

  - [Issuer] mints and verifies both credential types on top of [sec.Codec].
  - [CookieSink] writes and clears the cookies.
  - [RouteTable] classifies request paths as public or protected.
  - [RefreshFlow] re-derives the identity from a refresh credential and reissues the access credential.
  - [Gate] runs the per-request state machine and attaches a [Session] to the context.

There is no server-side session store. Logout clears the cookies; a stolen
refresh credential stays valid until it expires.
*/
package session

import (
	"context"

	"github.com/taibuivan/storekeep/internal/platform/ctxkey"
	"github.com/taibuivan/storekeep/internal/platform/sec"
)

// # Domain Entities

// Identity is the minimal user record the core needs. It is owned by the
// [UserDirectory] and never mutated here.
type Identity struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"name"`
}

// Session is the per-request authentication outcome handed to domain handlers.
// It is never persisted.
type Session struct {
	Identity        *Identity
	IsAuthenticated bool

	// Refreshed is true when the access credential was reissued during this request.
	Refreshed bool
}

// Anonymous is the session attached to public routes.
var Anonymous = Session{}

// identityFromClaims rebuilds an identity from a verified access credential.
func identityFromClaims(claims *sec.Claims) *Identity {
	return &Identity{
		ID:          claims.Subject,
		Email:       claims.Email,
		DisplayName: claims.DisplayName,
	}
}

// # Context Helpers

// WithSession returns a new context carrying the session.
func WithSession(ctx context.Context, session Session) context.Context {
	return context.WithValue(ctx, ctxkey.KeySession, session)
}

// FromContext returns the session attached by the gate, or [Anonymous] if none.
func FromContext(ctx context.Context) Session {
	session, ok := ctx.Value(ctxkey.KeySession).(Session)
	if !ok {
		return Anonymous
	}
	return session
}

// IdentityFromContext returns the authenticated identity, or nil for anonymous requests.
func IdentityFromContext(ctx context.Context) *Identity {
	session := FromContext(ctx)
	if !session.IsAuthenticated {
		return nil
	}
	return session.Identity
}
