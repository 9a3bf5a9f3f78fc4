// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storekeep/internal/platform/constants"
	"github.com/taibuivan/storekeep/internal/platform/ctxutil"
	"github.com/taibuivan/storekeep/internal/platform/middleware"
	requestutil "github.com/taibuivan/storekeep/internal/platform/request"
	"github.com/taibuivan/storekeep/pkg/uuid"
)

func chain(handler http.Handler, middlewares ...func(http.Handler) http.Handler) http.Handler {
	for index := len(middlewares) - 1; index >= 0; index-- {
		handler = middlewares[index](handler)
	}
	return handler
}

func TestRequestID(t *testing.T) {
	tests := []struct {
		name     string
		incoming string
		keep     bool
	}{
		{"generated", "", false},
		{"propagated", "req-42", true},
		{"oversized", strings.Repeat("x", 129), false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RequestID()(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				seen = ctxutil.GetRequestID(request.Context())
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.incoming != "" {
				request.Header.Set(constants.HeaderXRequestID, tt.incoming)
			}
			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, seen, recorder.Header().Get(constants.HeaderXRequestID))
			if tt.keep {
				assert.Equal(t, tt.incoming, seen)
			} else {
				assert.True(t, uuid.Valid(seen), seen)
			}
		})
	}
}

func TestRealIP(t *testing.T) {
	tests := []struct {
		name    string
		trusted bool
		headers map[string]string
		want    string
	}{
		{"no_headers", true, nil, "192.0.2.1"},
		{"real_ip", true, map[string]string{constants.HeaderXRealIP: "203.0.113.7"}, "203.0.113.7"},
		{"forwarded_first_hop", true, map[string]string{constants.HeaderXForwardedFor: "198.51.100.2, 10.0.0.1"}, "198.51.100.2"},
		{"garbage_ignored", true, map[string]string{constants.HeaderXRealIP: "not-an-ip"}, "192.0.2.1"},
		{"ipv6", true, map[string]string{constants.HeaderXRealIP: "2001:db8::1"}, "2001:db8::1"},
		{"untrusted_real_ip", false, map[string]string{constants.HeaderXRealIP: "203.0.113.7"}, "192.0.2.1"},
		{"untrusted_forwarded", false, map[string]string{constants.HeaderXForwardedFor: "198.51.100.2"}, "192.0.2.1"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var seen string
			handler := middleware.RealIP(tt.trusted)(http.HandlerFunc(func(_ http.ResponseWriter, request *http.Request) {
				seen = requestutil.ClientIP(request)
			}))

			request := httptest.NewRequest(http.MethodGet, "/", nil)
			for key, value := range tt.headers {
				request.Header.Set(key, value)
			}
			handler.ServeHTTP(httptest.NewRecorder(), request)

			assert.Equal(t, tt.want, seen)
		})
	}
}

/*
TestRateLimit_RotatingForwardedFor sends every request from one peer with a
new X-Forwarded-For value. Unless proxy headers are trusted, the bucket is
keyed on the peer and only the burst gets through.
*/
func TestRateLimit_RotatingForwardedFor(t *testing.T) {
	tests := []struct {
		name    string
		trusted bool
		allowed int
	}{
		{"untrusted_headers_share_one_bucket", false, 1},
		{"trusted_headers_split_buckets", true, 20},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()

			limiter := middleware.NewIPRateLimiter(0.001, 1, time.Minute)
			handler := chain(http.HandlerFunc(func(writer http.ResponseWriter, _ *http.Request) {
				writer.WriteHeader(http.StatusNoContent)
			}), middleware.RealIP(tt.trusted), middleware.RateLimit(ctx, limiter))

			allowed := 0
			for i := 0; i < 20; i++ {
				request := httptest.NewRequest(http.MethodGet, "/", nil)
				request.Header.Set(constants.HeaderXForwardedFor, fmt.Sprintf("10.0.0.%d", i+1))

				recorder := httptest.NewRecorder()
				handler.ServeHTTP(recorder, request)
				if recorder.Code == http.StatusNoContent {
					allowed++
				}
			}

			assert.Equal(t, tt.allowed, allowed)
		})
	}
}

/*
TestStructuredLogger_Subject checks that a subject recorded deep in the chain
shows up on the access log line written by the outer middleware.
*/
func TestStructuredLogger_Subject(t *testing.T) {
	var output bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&output, nil))

	handler := chain(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		ctxutil.SetSubject(request.Context(), "user-7")
		writer.WriteHeader(http.StatusTeapot)
	}), middleware.RequestID(), middleware.StructuredLogger(logger))

	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/api/product", nil))

	var entry map[string]any
	require.NoError(t, json.Unmarshal(output.Bytes(), &entry))
	assert.Equal(t, "http_request_finished", entry["msg"])
	assert.Equal(t, "user-7", entry["user_id"])
	assert.Equal(t, "WARN", entry["level"])
	assert.EqualValues(t, http.StatusTeapot, entry["status"])
	assert.Equal(t, "/api/product", entry["path"])
	assert.NotEmpty(t, entry["request_id"])
}

func TestIPRateLimiter(t *testing.T) {
	limiter := middleware.NewIPRateLimiter(1, 2, time.Minute)
	now := time.Date(2026, time.March, 1, 9, 0, 0, 0, time.UTC)

	allowed, _ := limiter.Allow("a", now)
	assert.True(t, allowed)
	allowed, _ = limiter.Allow("a", now)
	assert.True(t, allowed)

	allowed, wait := limiter.Allow("a", now)
	assert.False(t, allowed)
	assert.Equal(t, time.Second, wait)

	allowed, _ = limiter.Allow("b", now)
	assert.True(t, allowed, "buckets are per address")

	allowed, _ = limiter.Allow("a", now.Add(time.Second))
	assert.True(t, allowed, "a rejected attempt does not consume a token")

	assert.Equal(t, 2, limiter.Len())
	limiter.Sweep(now.Add(30 * time.Second))
	assert.Equal(t, 2, limiter.Len())
	limiter.Sweep(now.Add(2 * time.Minute))
	assert.Equal(t, 0, limiter.Len())
}

func TestPanicRecovery(t *testing.T) {
	handler := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	recorder := httptest.NewRecorder()
	require.NotPanics(t, func() {
		handler.ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))
	})
	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.NotContains(t, recorder.Body.String(), "boom")

	aborting := middleware.PanicRecovery()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic(http.ErrAbortHandler)
	}))
	assert.Panics(t, func() {
		aborting.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	})
}
