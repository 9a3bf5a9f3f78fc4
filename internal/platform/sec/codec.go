// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package sec provides cryptographic primitives and token encoding.
//
// # Architecture
//
// This package isolates security-sensitive code (Hashing, JWT Signing) from
// the domain logic. It knows nothing about users or sessions: it signs a set of
// claims under a secret and tells the caller precisely why a token was refused.
package sec

import (
	"errors"
	"fmt"
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// # Failure Kinds

// Decode failures. Callers branch on these with [errors.Is]; the wrapped jwt
// error is kept for server-side logging only.
var (
	// ErrMalformed means the token could not be parsed or lacks a required claim.
	ErrMalformed = errors.New("sec: malformed token")

	// ErrBadSignature means the token was not signed with the expected secret and algorithm.
	ErrBadSignature = errors.New("sec: bad token signature")

	// ErrExpired means the signature is valid but the expiry instant has passed.
	ErrExpired = errors.New("sec: token expired")

	// ErrEmptySecret is returned by [Codec.Encode] and [Codec.Decode] when no key material is supplied.
	ErrEmptySecret = errors.New("sec: empty signing secret")
)

// # Claims

// TokenKind distinguishes access credentials from refresh credentials inside the payload.
type TokenKind string

const (
	KindAccess  TokenKind = "access"
	KindRefresh TokenKind = "refresh"
)

// Claims is the payload carried by every credential.
//
// Access tokens carry the full identity; refresh tokens carry the subject only.
// Claim names are kept short to keep cookies small.
type Claims struct {
	jwt.RegisteredClaims

	Email       string    `json:"email,omitempty"`
	DisplayName string    `json:"name,omitempty"`
	Kind        TokenKind `json:"typ"`
}

// # Codec

// Codec signs and verifies HS256 tokens.
//
// A Codec holds no key material; the secret is passed on every call so that one
// instance can serve both credential types without ever mixing their keys.
type Codec struct {
	now    func() time.Time
	issuer string
}

// CodecOption configures a [Codec].
type CodecOption func(*Codec)

// WithClock overrides the time source used for iat/exp stamping and expiry checks.
func WithClock(now func() time.Time) CodecOption {
	return func(codec *Codec) {
		if now != nil {
			codec.now = now
		}
	}
}

// WithIssuer sets the 'iss' claim stamped on encoded tokens.
func WithIssuer(issuer string) CodecOption {
	return func(codec *Codec) {
		codec.issuer = issuer
	}
}

// NewCodec constructs a [Codec] using the wall clock unless overridden.
func NewCodec(options ...CodecOption) *Codec {
	codec := &Codec{now: time.Now}
	for _, option := range options {
		option(codec)
	}
	return codec
}

// Now returns the codec's current time.
func (codec *Codec) Now() time.Time {
	return codec.now()
}

/*
Encode stamps iat/exp on the claims and signs them with HMAC-SHA256.

Parameters:
  - claims: Claims (subject and kind must already be set)
  - secret: []byte
  - ttl: time.Duration (a non-positive ttl yields a token that is already expired)

Returns:
  - string: Compact JWS
  - error: ErrEmptySecret or signing failures
*/
func (codec *Codec) Encode(claims Claims, secret []byte, ttl time.Duration) (string, error) {
	if len(secret) == 0 {
		return "", ErrEmptySecret
	}

	issuedAt := codec.now()
	claims.IssuedAt = jwt.NewNumericDate(issuedAt)
	claims.ExpiresAt = jwt.NewNumericDate(issuedAt.Add(ttl))
	if codec.issuer != "" {
		claims.Issuer = codec.issuer
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString(secret)
	if err != nil {
		return "", fmt.Errorf("sec: failed to sign token: %w", err)
	}

	return signed, nil
}

/*
Decode verifies the signature first and the expiry second.

A token signed under a different secret is always [ErrBadSignature], even when
it is also past its expiry.

Parameters:
  - token: string
  - secret: []byte

Returns:
  - *Claims: Verified payload
  - error: ErrMalformed, ErrBadSignature, ErrExpired or ErrEmptySecret
*/
func (codec *Codec) Decode(token string, secret []byte) (*Claims, error) {
	if len(secret) == 0 {
		return nil, ErrEmptySecret
	}

	claims := &Claims{}
	parsed, err := jwt.ParseWithClaims(token, claims,
		func(*jwt.Token) (any, error) { return secret, nil },
		jwt.WithValidMethods([]string{jwt.SigningMethodHS256.Alg()}),
		jwt.WithTimeFunc(codec.now),
		jwt.WithExpirationRequired(),
	)
	if err != nil {
		return nil, classify(err)
	}

	if !parsed.Valid || claims.Subject == "" {
		return nil, ErrMalformed
	}

	return claims, nil
}

// classify maps the jwt error chain onto the three failure kinds.
func classify(err error) error {
	switch {
	case errors.Is(err, jwt.ErrTokenMalformed):
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	case errors.Is(err, jwt.ErrTokenSignatureInvalid), errors.Is(err, jwt.ErrTokenUnverifiable):
		return fmt.Errorf("%w: %v", ErrBadSignature, err)
	case errors.Is(err, jwt.ErrTokenExpired):
		return fmt.Errorf("%w: %v", ErrExpired, err)
	default:
		// Missing exp, premature nbf and similar claim defects.
		return fmt.Errorf("%w: %v", ErrMalformed, err)
	}
}
