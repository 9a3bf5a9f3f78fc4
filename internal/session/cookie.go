// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import (
	"net/http"
	"time"

	"github.com/taibuivan/storekeep/internal/platform/constants"
)

// CookieConfig holds the attributes shared by both credential cookies.
type CookieConfig struct {
	Domain   string
	Path     string
	Secure   bool
	SameSite http.SameSite
}

// CookieSink writes credential cookies onto a response.
//
// Every cookie is HttpOnly, scoped to the API path, and lives exactly as long
// as the token it carries: Max-Age and Expires come from the [IssuedToken].
type CookieSink struct {
	config CookieConfig
}

// NewCookieSink constructs a [CookieSink]. An empty path falls back to the API root.
func NewCookieSink(config CookieConfig) *CookieSink {
	if config.Path == "" {
		config.Path = constants.DefaultCookiePath
	}
	if config.SameSite == http.SameSiteNoneMode {
		// Browsers drop SameSite=None cookies that are not Secure.
		config.Secure = true
	}

	return &CookieSink{config: config}
}

// SetAccess attaches the access credential.
func (sink *CookieSink) SetAccess(writer http.ResponseWriter, token *IssuedToken) {
	http.SetCookie(writer, sink.tokenCookie(constants.AccessTokenCookieName, token))
}

// SetRefresh attaches the refresh credential.
func (sink *CookieSink) SetRefresh(writer http.ResponseWriter, token *IssuedToken) {
	http.SetCookie(writer, sink.tokenCookie(constants.RefreshTokenCookieName, token))
}

// SetPair attaches both credentials.
func (sink *CookieSink) SetPair(writer http.ResponseWriter, pair *TokenPair) {
	sink.SetAccess(writer, &pair.Access)
	sink.SetRefresh(writer, &pair.Refresh)
}

// ClearAll instructs the client to drop both credential cookies.
func (sink *CookieSink) ClearAll(writer http.ResponseWriter) {
	http.SetCookie(writer, sink.cookie(constants.AccessTokenCookieName, "", -1))
	http.SetCookie(writer, sink.cookie(constants.RefreshTokenCookieName, "", -1))
}

func (sink *CookieSink) tokenCookie(name string, token *IssuedToken) *http.Cookie {
	cookie := sink.cookie(name, token.Value, maxAge(token.TTL))
	if cookie.MaxAge > 0 {
		cookie.Expires = token.ExpiresAt.UTC()
	}
	return cookie
}

func (sink *CookieSink) cookie(name, value string, maxAge int) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     sink.config.Path,
		Domain:   sink.config.Domain,
		MaxAge:   maxAge,
		Secure:   sink.config.Secure,
		HttpOnly: true,
		SameSite: sink.config.SameSite,
	}
}

// maxAge converts a TTL to whole seconds, never returning 0 (which would mean a session cookie).
func maxAge(ttl time.Duration) int {
	seconds := int(ttl / time.Second)
	if seconds < 1 {
		return -1
	}
	return seconds
}
