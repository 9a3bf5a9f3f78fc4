// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storekeep/internal/platform/sec"
	"github.com/taibuivan/storekeep/internal/session"
)

/*
TestNewIssuer_RejectsBadConfig covers secret and lifetime validation.
*/
func TestNewIssuer_RejectsBadConfig(t *testing.T) {
	codec := sec.NewCodec()

	tests := []struct {
		name string
		cfg  session.IssuerConfig
	}{
		{"same_secret", session.IssuerConfig{AccessSecret: testAccessSecret, RefreshSecret: testAccessSecret, AccessTTL: time.Hour, RefreshTTL: time.Hour}},
		{"missing_refresh_secret", session.IssuerConfig{AccessSecret: testAccessSecret, AccessTTL: time.Hour, RefreshTTL: time.Hour}},
		{"zero_access_ttl", session.IssuerConfig{AccessSecret: testAccessSecret, RefreshSecret: testRefreshSecret, RefreshTTL: time.Hour}},
		{"negative_refresh_ttl", session.IssuerConfig{AccessSecret: testAccessSecret, RefreshSecret: testRefreshSecret, AccessTTL: time.Hour, RefreshTTL: -time.Hour}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			issuer, err := session.NewIssuer(codec, tt.cfg)
			assert.Error(t, err)
			assert.Nil(t, issuer)
		})
	}
}

/*
TestIssuer_Issue verifies both halves of the pair and their payloads.
*/
func TestIssuer_Issue(t *testing.T) {
	h := newHarness(t)
	identity, pair := h.login(t, "ana@example.com")

	assert.Equal(t, testAccessTTL, pair.Access.TTL)
	assert.Equal(t, epoch.Add(testAccessTTL), pair.Access.ExpiresAt)
	assert.Equal(t, testRefreshTTL, pair.Refresh.TTL)
	assert.Equal(t, epoch.Add(testRefreshTTL), pair.Refresh.ExpiresAt)

	access, err := h.issuer.VerifyAccess(pair.Access.Value)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, access.Subject)
	assert.Equal(t, identity.Email, access.Email)
	assert.Equal(t, identity.DisplayName, access.DisplayName)
	assert.Equal(t, sec.KindAccess, access.Kind)

	refresh, err := h.issuer.VerifyRefresh(pair.Refresh.Value)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, refresh.Subject)
	assert.Empty(t, refresh.Email, "refresh credential carries the subject only")
	assert.Equal(t, sec.KindRefresh, refresh.Kind)
}

/*
TestIssuer_SecretsNotInterchangeable verifies access and refresh credentials never
verify under each other's secret.
*/
func TestIssuer_SecretsNotInterchangeable(t *testing.T) {
	h := newHarness(t)
	_, pair := h.login(t, "ana@example.com")

	_, err := h.issuer.VerifyAccess(pair.Refresh.Value)
	assert.ErrorIs(t, err, sec.ErrBadSignature)

	_, err = h.issuer.VerifyRefresh(pair.Access.Value)
	assert.ErrorIs(t, err, sec.ErrBadSignature)
}

/*
TestIssuer_KindClaimChecked guards against swapped secrets between two deployments:
even when the signature verifies, the kind claim must match.
*/
func TestIssuer_KindClaimChecked(t *testing.T) {
	h := newHarness(t)
	_, pair := h.login(t, "ana@example.com")

	swapped, err := session.NewIssuer(h.codec, session.IssuerConfig{
		AccessSecret:  testRefreshSecret,
		RefreshSecret: testAccessSecret,
		AccessTTL:     testAccessTTL,
		RefreshTTL:    testRefreshTTL,
	})
	require.NoError(t, err)

	_, err = swapped.VerifyRefresh(pair.Access.Value)
	assert.ErrorIs(t, err, sec.ErrMalformed)

	_, err = swapped.VerifyAccess(pair.Refresh.Value)
	assert.ErrorIs(t, err, sec.ErrMalformed)
}

/*
TestIssuer_ReissueAccess verifies only an access credential is produced.
*/
func TestIssuer_ReissueAccess(t *testing.T) {
	h := newHarness(t)
	identity, _ := h.login(t, "ana@example.com")

	h.clock.Advance(time.Hour)
	token, err := h.issuer.ReissueAccess(identity)
	require.NoError(t, err)
	assert.Equal(t, epoch.Add(time.Hour+testAccessTTL), token.ExpiresAt)

	claims, err := h.issuer.VerifyAccess(token.Value)
	require.NoError(t, err)
	assert.Equal(t, identity.ID, claims.Subject)

	_, err = h.issuer.ReissueAccess(&session.Identity{})
	assert.Error(t, err)
}
