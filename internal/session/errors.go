// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"errors"

	"github.com/taibuivan/storekeep/internal/platform/apperr"
)

// # Rejection Kinds

// All rejections are 401 with a stable code. Messages are deliberately terse;
// the underlying decode reason is logged, never returned.
var (
	ErrMissingCredential = apperr.Unauthorized("MISSING_CREDENTIAL", "Authentication required")
	ErrInvalidCredential = apperr.Unauthorized("INVALID_CREDENTIAL", "Invalid credentials")
	ErrUnknownSubject    = apperr.Unauthorized("UNKNOWN_SUBJECT", "Account no longer exists")
	ErrRefreshFailed     = apperr.Unauthorized("REFRESH_FAILED", "Session could not be renewed")
)

// # Directory Errors

// Errors a [UserDirectory] implementation must return so the core can classify lookups.
var (
	ErrNotFound    = errors.New("session: subject not found")
	ErrWrongSecret = errors.New("session: wrong secret")
)
