// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account_test

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/go-chi/chi/v5"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storekeep/internal/account"
	"github.com/taibuivan/storekeep/internal/platform/constants"
	"github.com/taibuivan/storekeep/internal/platform/middleware"
	"github.com/taibuivan/storekeep/internal/platform/dberr"
	"github.com/taibuivan/storekeep/internal/platform/sec"
	"github.com/taibuivan/storekeep/internal/session"
)

const (
	testAccessSecret  = "access-secret-0123456789-abcdefghijklmnop"
	testRefreshSecret = "refresh-secret-9876543210-zyxwvutsrqponml"
	testMaxAttempts   = 3
	testLockout       = 15 * time.Minute
)

// # In-Memory Repository

type memoryRepository struct {
	mu    sync.RWMutex
	users map[string]*account.User
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{users: make(map[string]*account.User)}
}

func (repository *memoryRepository) FindByID(_ context.Context, id string) (*account.User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	clone := *user
	return &clone, nil
}

func (repository *memoryRepository) FindByEmail(_ context.Context, email string) (*account.User, error) {
	repository.mu.RLock()
	defer repository.mu.RUnlock()

	for _, user := range repository.users {
		if strings.EqualFold(user.Email, email) {
			clone := *user
			return &clone, nil
		}
	}
	return nil, dberr.ErrNotFound
}

func (repository *memoryRepository) Create(_ context.Context, user *account.User) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.users {
		if strings.EqualFold(existing.Email, user.Email) {
			return account.ErrEmailTaken
		}
	}
	clone := *user
	repository.users[user.ID] = &clone
	return nil
}

func (repository *memoryRepository) UpdateDisplayName(_ context.Context, id, displayName string) (*account.User, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	user, ok := repository.users[id]
	if !ok {
		return nil, dberr.ErrNotFound
	}
	user.DisplayName = displayName
	clone := *user
	return &clone, nil
}

func (repository *memoryRepository) SoftDelete(_ context.Context, id string) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	if _, ok := repository.users[id]; !ok {
		return dberr.ErrNotFound
	}
	delete(repository.users, id)
	return nil
}

// # Harness

type harness struct {
	redis      *miniredis.Miniredis
	repository *memoryRepository
	directory  *account.Directory
	issuer     *session.Issuer
	service    *account.Service
	router     http.Handler
}

func newRedis(t *testing.T) (*miniredis.Miniredis, *redis.Client) {
	t.Helper()

	server := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: server.Addr()})
	t.Cleanup(func() { _ = client.Close() })

	return server, client
}

func newHarness(t *testing.T) *harness {
	t.Helper()

	server, client := newRedis(t)

	issuer, err := session.NewIssuer(sec.NewCodec(sec.WithIssuer(constants.AuthIssuer)), session.IssuerConfig{
		AccessSecret:  testAccessSecret,
		RefreshSecret: testRefreshSecret,
		AccessTTL:     time.Hour,
		RefreshTTL:    24 * time.Hour,
	})
	require.NoError(t, err)

	sink := session.NewCookieSink(session.CookieConfig{
		Path:     constants.DefaultCookiePath,
		Secure:   true,
		SameSite: http.SameSiteStrictMode,
	})

	repository := newMemoryRepository()
	directory := account.NewDirectory(repository)
	refresh := session.NewRefreshFlow(directory, issuer, sink, time.Second)
	gate := session.NewGate(session.NewRouteTable(session.DefaultPublicPaths()...), issuer, refresh,
		session.WithClearOnReject(constants.LogoutPath))

	limiter := account.NewRedisLoginLimiter(client, testMaxAttempts, testLockout)
	service := account.NewService(directory, repository, issuer, limiter)
	handler := account.NewHandler(service, issuer, sink, gate, refresh)

	router := chi.NewRouter()
	router.Use(middleware.RealIP(false))
	router.Route("/api", func(api chi.Router) {
		api.Use(gate.Middleware)
		api.Mount("/user", handler.Routes())
	})

	return &harness{
		redis:      server,
		repository: repository,
		directory:  directory,
		issuer:     issuer,
		service:    service,
		router:     router,
	}
}

// do sends a JSON request with the given cookies and returns the recorder.
func (h *harness) do(t *testing.T, method, path string, body any, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	t.Helper()

	request := newJSONRequest(t, method, path, body)
	for _, cookie := range cookies {
		request.AddCookie(cookie)
	}

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)
	return recorder
}

// doFrom sends a JSON request from remoteAddr carrying a client-chosen X-Forwarded-For.
func (h *harness) doFrom(t *testing.T, remoteAddr, forwardedFor, method, path string, body any) *httptest.ResponseRecorder {
	t.Helper()

	request := newJSONRequest(t, method, path, body)
	request.RemoteAddr = remoteAddr
	request.Header.Set(constants.HeaderXForwardedFor, forwardedFor)

	recorder := httptest.NewRecorder()
	h.router.ServeHTTP(recorder, request)
	return recorder
}

func newJSONRequest(t *testing.T, method, path string, body any) *http.Request {
	t.Helper()

	var payload bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&payload).Encode(body))
	}

	request := httptest.NewRequest(method, path, &payload)
	request.Header.Set("Content-Type", "application/json")
	return request
}

// register creates an account through the HTTP surface and returns its cookies.
func (h *harness) register(t *testing.T, email string) []*http.Cookie {
	t.Helper()

	recorder := h.do(t, http.MethodPost, "/api/user/register", map[string]string{
		"name": "Ana", "email": email, "password": "correct-horse",
	})
	require.Equal(t, http.StatusCreated, recorder.Code, recorder.Body.String())

	return recorder.Result().Cookies()
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error string          `json:"error"`
	Code  string          `json:"code"`
}

func decode(t *testing.T, recorder *httptest.ResponseRecorder) envelope {
	t.Helper()

	var body envelope
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	return body
}

func responseCookie(recorder *httptest.ResponseRecorder, name string) *http.Cookie {
	for _, cookie := range recorder.Result().Cookies() {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}

func cookieNamed(cookies []*http.Cookie, name string) *http.Cookie {
	for _, cookie := range cookies {
		if cookie.Name == name {
			return cookie
		}
	}
	return nil
}
