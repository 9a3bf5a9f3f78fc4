// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package respond_test

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/storekeep/internal/platform/apperr"
	"github.com/taibuivan/storekeep/internal/platform/respond"
	"github.com/taibuivan/storekeep/pkg/pagination"
)

/*
TestError covers the mapping from Go errors onto the error envelope.
*/
func TestError(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantCode   string
		retryAfter string
	}{
		{"app_error", apperr.Conflict("taken"), http.StatusConflict, "CONFLICT", ""},
		{"wrapped_app_error", fmt.Errorf("create: %w", apperr.NotFound("Product")), http.StatusNotFound, "NOT_FOUND", ""},
		{"plain_error", errors.New("dial tcp: refused"), http.StatusInternalServerError, "INTERNAL_ERROR", ""},
		{"rate_limited", apperr.RateLimited(42), http.StatusTooManyRequests, "RATE_LIMITED", "42"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			respond.Error(recorder, httptest.NewRequest(http.MethodGet, "/", nil), tt.err)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.retryAfter, recorder.Header().Get("Retry-After"))

			var envelope respond.ErrorEnvelope
			require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &envelope))
			assert.Equal(t, tt.wantCode, envelope.Code)
			assert.NotContains(t, envelope.Error, "dial tcp")
		})
	}
}

func TestError_Details(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Error(recorder, httptest.NewRequest(http.MethodPost, "/", nil),
		apperr.ValidationError("Validation failed", apperr.FieldError{Field: "quantity", Message: "Must be greater than zero"}))

	assert.JSONEq(t, `{"error":"Validation failed","code":"VALIDATION_ERROR","details":[{"field":"quantity","message":"Must be greater than zero"}]}`, recorder.Body.String())
}

func TestSuccessEnvelopes(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.Created(recorder, map[string]int{"stock": 3})
	assert.Equal(t, http.StatusCreated, recorder.Code)
	assert.Equal(t, "application/json; charset=utf-8", recorder.Header().Get("Content-Type"))
	assert.JSONEq(t, `{"data":{"stock":3}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.Paginated(recorder, []string{"a"}, pagination.Params{Page: 2, Limit: 1}.Meta(3))
	assert.JSONEq(t, `{"data":["a"],"meta":{"page":2,"limit":1,"total":3,"total_pages":3,"has_next":true}}`, recorder.Body.String())

	recorder = httptest.NewRecorder()
	respond.NoContent(recorder)
	assert.Equal(t, http.StatusNoContent, recorder.Code)
	assert.Empty(t, recorder.Body.String())
}

func TestJSON_Unencodable(t *testing.T) {
	recorder := httptest.NewRecorder()
	respond.OK(recorder, map[string]any{"bad": make(chan int)})

	assert.Equal(t, http.StatusInternalServerError, recorder.Code)
	assert.Contains(t, recorder.Body.String(), "INTERNAL_ERROR")
}
