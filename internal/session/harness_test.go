// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strconv"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storekeep/internal/platform/constants"
	"github.com/taibuivan/storekeep/internal/platform/sec"
	"github.com/taibuivan/storekeep/internal/session"
)

const (
	testAccessSecret  = "access-secret-0123456789-abcdefghijklmnop"
	testRefreshSecret = "refresh-secret-9876543210-zyxwvutsrqponml"
	testAccessTTL     = 8 * time.Hour
	testRefreshTTL    = 480 * time.Hour
)

var epoch = time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

// # Test Clock

type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (clock *testClock) Now() time.Time {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	return clock.now
}

func (clock *testClock) Advance(d time.Duration) {
	clock.mu.Lock()
	defer clock.mu.Unlock()
	clock.now = clock.now.Add(d)
}

// # In-Memory Directory

type memoryUser struct {
	identity session.Identity
	secret   string
}

type memoryDirectory struct {
	mu     sync.RWMutex
	users  map[string]*memoryUser
	nextID int

	// lookupDelay makes FindByID block until the delay passes or the context ends.
	lookupDelay time.Duration
}

func newMemoryDirectory() *memoryDirectory {
	return &memoryDirectory{users: make(map[string]*memoryUser)}
}

func (directory *memoryDirectory) Register(_ context.Context, registration session.Registration) (*session.Identity, error) {
	directory.mu.Lock()
	defer directory.mu.Unlock()

	directory.nextID++
	user := &memoryUser{
		identity: session.Identity{
			ID:          "user-" + strconv.Itoa(directory.nextID),
			Email:       registration.Email,
			DisplayName: registration.DisplayName,
		},
		secret: registration.Secret,
	}
	directory.users[user.identity.ID] = user

	identity := user.identity
	return &identity, nil
}

func (directory *memoryDirectory) Verify(_ context.Context, email, secret string) (*session.Identity, error) {
	directory.mu.RLock()
	defer directory.mu.RUnlock()

	for _, user := range directory.users {
		if user.identity.Email != email {
			continue
		}
		if user.secret != secret {
			return nil, session.ErrWrongSecret
		}
		identity := user.identity
		return &identity, nil
	}
	return nil, session.ErrNotFound
}

func (directory *memoryDirectory) FindByID(ctx context.Context, id string) (*session.Identity, error) {
	if directory.lookupDelay > 0 {
		select {
		case <-time.After(directory.lookupDelay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	directory.mu.RLock()
	defer directory.mu.RUnlock()

	user, ok := directory.users[id]
	if !ok {
		return nil, session.ErrNotFound
	}
	identity := user.identity
	return &identity, nil
}

func (directory *memoryDirectory) Delete(id string) {
	directory.mu.Lock()
	defer directory.mu.Unlock()
	delete(directory.users, id)
}

func (directory *memoryDirectory) Rename(id, displayName string) {
	directory.mu.Lock()
	defer directory.mu.Unlock()
	directory.users[id].identity.DisplayName = displayName
}

// # Harness

type harness struct {
	clock     *testClock
	codec     *sec.Codec
	issuer    *session.Issuer
	sink      *session.CookieSink
	directory *memoryDirectory
	refresh   *session.RefreshFlow
	gate      *session.Gate
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	clock := &testClock{now: epoch}
	codec := sec.NewCodec(sec.WithClock(clock.Now), sec.WithIssuer(constants.AuthIssuer))

	issuer, err := session.NewIssuer(codec, session.IssuerConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     testAccessTTL,
		RefreshTTL:    testRefreshTTL,
	})
	require.NoError(t, err)

	sink := session.NewCookieSink(session.CookieConfig{
		Path:     "/api",
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	directory := newMemoryDirectory()
	refresh := session.NewRefreshFlow(directory, issuer, sink, time.Second)
	gate := session.NewGate(session.NewRouteTable(session.DefaultPublicPaths()...), issuer, refresh)

	return &harness{
		clock:     clock,
		codec:     codec,
		issuer:    issuer,
		sink:      sink,
		directory: directory,
		refresh:   refresh,
		gate:      gate,
	}
}

// login registers a user and returns the issued pair.
func (h *harness) login(t *testing.T, email string) (*session.Identity, *session.TokenPair) {
	t.Helper()

	identity, err := h.directory.Register(context.Background(), session.Registration{
		Email: email, DisplayName: "Ana", Secret: "correct horse",
	})
	require.NoError(t, err)

	pair, err := h.issuer.Issue(identity)
	require.NoError(t, err)

	return identity, pair
}

// request builds a request carrying the given cookie values. Empty values are omitted.
func request(method, path, access, refresh string) *http.Request {
	req := httptest.NewRequest(method, path, nil)
	if access != "" {
		req.AddCookie(&http.Cookie{Name: constants.AccessTokenCookieName, Value: access})
	}
	if refresh != "" {
		req.AddCookie(&http.Cookie{Name: constants.RefreshTokenCookieName, Value: refresh})
	}
	return req
}

// responseCookie finds a Set-Cookie entry by name.
func responseCookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
