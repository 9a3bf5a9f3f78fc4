// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/taibuivan/storekeep/internal/platform/sec"
)

// RefreshFlow turns a verified refresh credential into a fresh access credential.
type RefreshFlow struct {
	directory UserDirectory
	issuer    *Issuer
	sink      *CookieSink
	timeout   time.Duration
}

// NewRefreshFlow constructs a [RefreshFlow]. lookupTimeout bounds the directory
// call; the request deadline still applies when it is shorter.
func NewRefreshFlow(directory UserDirectory, issuer *Issuer, sink *CookieSink, lookupTimeout time.Duration) *RefreshFlow {
	return &RefreshFlow{
		directory: directory,
		issuer:    issuer,
		sink:      sink,
		timeout:   lookupTimeout,
	}
}

/*
Execute re-derives the identity for the refresh subject and writes a new access cookie.

Description: The identity is looked up again rather than copied from the expired
access credential, so profile changes and deletions take effect at the next
refresh. Lookup failures of any kind fail closed.

Parameters:
  - ctx: context.Context
  - writer: http.ResponseWriter (receives the new access cookie)
  - refreshClaims: *sec.Claims (already verified under the refresh secret)

Returns:
  - *Identity: The current identity
  - error: ErrUnknownSubject or ErrRefreshFailed, wrapping the cause
*/
func (flow *RefreshFlow) Execute(ctx context.Context, writer http.ResponseWriter, refreshClaims *sec.Claims) (*Identity, error) {

	// ── 1. Bounded Lookup ─────────────────────────────────────────────────
	lookupCtx := ctx
	if flow.timeout > 0 {
		var cancel context.CancelFunc
		lookupCtx, cancel = context.WithTimeout(ctx, flow.timeout)
		defer cancel()
	}

	identity, err := flow.directory.FindByID(lookupCtx, refreshClaims.Subject)
	if err != nil {
		if errors.Is(err, ErrNotFound) {
			return nil, fmt.Errorf("%w: subject %s: %v", ErrUnknownSubject, refreshClaims.Subject, err)
		}
		return nil, fmt.Errorf("%w: lookup: %v", ErrRefreshFailed, err)
	}
	if identity == nil || identity.ID != refreshClaims.Subject {
		return nil, fmt.Errorf("%w: directory returned a different subject", ErrRefreshFailed)
	}

	// ── 2. Reissue Access Only ────────────────────────────────────────────
	access, err := flow.issuer.ReissueAccess(identity)
	if err != nil {
		return nil, fmt.Errorf("%w: reissue: %v", ErrRefreshFailed, err)
	}

	// ── 3. Deliver ────────────────────────────────────────────────────────
	flow.sink.SetAccess(writer, access)

	return identity, nil
}
