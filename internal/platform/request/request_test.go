// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package requestutil_test

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	requestutil "github.com/taibuivan/storekeep/internal/platform/request"
	"github.com/taibuivan/storekeep/internal/platform/validate"
	"github.com/taibuivan/storekeep/internal/session"
)

func TestDecodeJSON(t *testing.T) {
	type payload struct {
		Name string `json:"name"`
	}

	tests := []struct {
		name    string
		body    string
		wantErr bool
	}{
		{"valid", `{"name":"Rice"}`, false},
		{"unknown_fields_ignored", `{"name":"Rice","extra":1}`, false},
		{"malformed", `{"name":`, true},
		{"trailing_value", `{"name":"Rice"}{"name":"Oil"}`, true},
		{"empty", ``, true},
		{"oversized", `{"name":"` + strings.Repeat("x", requestutil.MaxBodyBytes) + `"}`, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var target payload
			err := requestutil.DecodeJSON(httptest.NewRequest(http.MethodPost, "/", strings.NewReader(tt.body)), &target)

			if tt.wantErr {
				assert.ErrorIs(t, err, validate.ErrInvalidJSON)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, "Rice", target.Name)
		})
	}
}

func TestRequiredIdentity(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/api/user/me", nil)

	_, err := requestutil.RequiredUserID(request)
	assert.ErrorIs(t, err, session.ErrMissingCredential)

	identity := &session.Identity{ID: "user-1", Email: "ana@storekeep.dev", DisplayName: "Ana"}
	ctx := session.WithSession(request.Context(), session.Session{Identity: identity, IsAuthenticated: true})

	id, err := requestutil.RequiredUserID(request.WithContext(ctx))
	require.NoError(t, err)
	assert.Equal(t, "user-1", id)
}

func TestClientIP(t *testing.T) {
	request := httptest.NewRequest(http.MethodGet, "/", nil)
	request.RemoteAddr = "203.0.113.9:51234"
	assert.Equal(t, "203.0.113.9", requestutil.ClientIP(request))

	request.RemoteAddr = "pipe"
	assert.Equal(t, "pipe", requestutil.ClientIP(request))
}
