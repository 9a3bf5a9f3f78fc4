// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"errors"
	"fmt"
	"time"

	"github.com/taibuivan/storekeep/internal/platform/sec"
)

// IssuerConfig carries the key material and lifetimes of both credential types.
type IssuerConfig struct {
	AccessSecret  string
	RefreshSecret string
	AccessTTL     time.Duration
	RefreshTTL    time.Duration
}

// IssuedToken is a signed credential plus its lifetime.
type IssuedToken struct {
	Value     string
	TTL       time.Duration
	ExpiresAt time.Time
}

// TokenPair is the output of a successful login or registration.
type TokenPair struct {
	Access  IssuedToken
	Refresh IssuedToken
}

// Issuer mints and verifies access and refresh credentials.
//
// The access secret only ever signs access credentials and the refresh secret
// only ever signs refresh credentials. The kind claim is checked as well, so a
// configuration mistake cannot make the two interchangeable.
type Issuer struct {
	codec         *sec.Codec
	accessSecret  []byte
	refreshSecret []byte
	accessTTL     time.Duration
	refreshTTL    time.Duration
}

// NewIssuer validates the configuration and constructs an [Issuer].
func NewIssuer(codec *sec.Codec, cfg IssuerConfig) (*Issuer, error) {
	if cfg.AccessSecret == "" || cfg.RefreshSecret == "" {
		return nil, errors.New("session: both signing secrets are required")
	}
	if cfg.AccessSecret == cfg.RefreshSecret {
		return nil, errors.New("session: access and refresh secrets must differ")
	}
	if cfg.AccessTTL <= 0 || cfg.RefreshTTL <= 0 {
		return nil, errors.New("session: token lifetimes must be positive")
	}

	return &Issuer{
		codec:         codec,
		accessSecret:  []byte(cfg.AccessSecret),
		refreshSecret: []byte(cfg.RefreshSecret),
		accessTTL:     cfg.AccessTTL,
		refreshTTL:    cfg.RefreshTTL,
	}, nil
}

// # Issuance

// Issue mints both credentials for a freshly authenticated identity.
func (issuer *Issuer) Issue(identity *Identity) (*TokenPair, error) {
	access, err := issuer.ReissueAccess(identity)
	if err != nil {
		return nil, err
	}

	refreshClaims := sec.Claims{Kind: sec.KindRefresh}
	refreshClaims.Subject = identity.ID

	refresh, err := issuer.encode(refreshClaims, issuer.refreshSecret, issuer.refreshTTL)
	if err != nil {
		return nil, fmt.Errorf("session: issue refresh token: %w", err)
	}

	return &TokenPair{Access: *access, Refresh: *refresh}, nil
}

// ReissueAccess mints only the access credential. The refresh credential is never rotated.
func (issuer *Issuer) ReissueAccess(identity *Identity) (*IssuedToken, error) {
	if identity == nil || identity.ID == "" {
		return nil, errors.New("session: identity without subject")
	}

	accessClaims := sec.Claims{
		Email:       identity.Email,
		DisplayName: identity.DisplayName,
		Kind:        sec.KindAccess,
	}
	accessClaims.Subject = identity.ID

	token, err := issuer.encode(accessClaims, issuer.accessSecret, issuer.accessTTL)
	if err != nil {
		return nil, fmt.Errorf("session: issue access token: %w", err)
	}

	return token, nil
}

func (issuer *Issuer) encode(claims sec.Claims, secret []byte, ttl time.Duration) (*IssuedToken, error) {
	issuedAt := issuer.codec.Now()

	value, err := issuer.codec.Encode(claims, secret, ttl)
	if err != nil {
		return nil, err
	}

	return &IssuedToken{Value: value, TTL: ttl, ExpiresAt: issuedAt.Add(ttl)}, nil
}

// # Verification

// VerifyAccess decodes an access credential under the access secret.
func (issuer *Issuer) VerifyAccess(token string) (*sec.Claims, error) {
	return issuer.verify(token, issuer.accessSecret, sec.KindAccess)
}

// VerifyRefresh decodes a refresh credential under the refresh secret.
func (issuer *Issuer) VerifyRefresh(token string) (*sec.Claims, error) {
	return issuer.verify(token, issuer.refreshSecret, sec.KindRefresh)
}

func (issuer *Issuer) verify(token string, secret []byte, kind sec.TokenKind) (*sec.Claims, error) {
	claims, err := issuer.codec.Decode(token, secret)
	if err != nil {
		return nil, err
	}

	if claims.Kind != kind {
		return nil, fmt.Errorf("%w: expected %s credential, got %q", sec.ErrMalformed, kind, claims.Kind)
	}

	return claims, nil
}
