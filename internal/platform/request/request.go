// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package requestutil reads what handlers need from an incoming request: the JSON
body, URL parameters, the caller address and the authenticated identity.
*/
package requestutil

import (
	"encoding/json"
	"errors"
	"io"
	"net"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/storekeep/internal/platform/validate"
	"github.com/taibuivan/storekeep/internal/session"
)

// MaxBodyBytes caps JSON request bodies.
const MaxBodyBytes = 1 << 20

/*
DecodeJSON decodes a single JSON value from the request body into target.

Bodies larger than [MaxBodyBytes], malformed JSON and trailing data after the
value all fail with validate.ErrInvalidJSON.
*/
func DecodeJSON(request *http.Request, target any) error {
	decoder := json.NewDecoder(io.LimitReader(request.Body, MaxBodyBytes+1))

	if err := decoder.Decode(target); err != nil {
		return validate.ErrInvalidJSON
	}
	if err := decoder.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return validate.ErrInvalidJSON
	}
	return nil
}

// Param returns a named URL parameter.
func Param(request *http.Request, name string) string {
	return chi.URLParam(request, name)
}

/*
RequiredIdentity returns the identity the session gate attached.

Returns:
  - *session.Identity: The authenticated identity
  - error: session.ErrMissingCredential if the request is anonymous
*/
func RequiredIdentity(request *http.Request) (*session.Identity, error) {
	identity := session.IdentityFromContext(request.Context())

	// The gate normally rejects first; this guards handlers mounted outside it
	if identity == nil {
		return nil, session.ErrMissingCredential
	}
	return identity, nil
}

// RequiredUserID is [RequiredIdentity] narrowed to the user ID.
func RequiredUserID(request *http.Request) (string, error) {
	identity, err := RequiredIdentity(request)
	if err != nil {
		return "", err
	}
	return identity.ID, nil
}

// ClientIP returns the caller address as resolved by the RealIP middleware.
func ClientIP(request *http.Request) string {
	host, _, err := net.SplitHostPort(request.RemoteAddr)
	if err != nil {
		return request.RemoteAddr
	}
	return host
}
