// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/httprate"

	"github.com/taibuivan/storekeep/internal/platform/apperr"
	"github.com/taibuivan/storekeep/internal/platform/constants"
	requestutil "github.com/taibuivan/storekeep/internal/platform/request"
	"github.com/taibuivan/storekeep/internal/platform/respond"
	"github.com/taibuivan/storekeep/internal/session"
)

// Handler implements the /api/user endpoints.
//
// # Scope
//
// Credential entry points (register, login, refresh, check) are public routes;
// logout and the profile endpoints sit behind the session gate.
type Handler struct {
	service *Service
	issuer  *session.Issuer
	sink    *session.CookieSink
	gate    *session.Gate
	refresh *session.RefreshFlow
}

// NewHandler constructs a new [Handler].
func NewHandler(
	service *Service,
	issuer *session.Issuer,
	sink *session.CookieSink,
	gate *session.Gate,
	refresh *session.RefreshFlow,
) *Handler {
	return &Handler{
		service: service,
		issuer:  issuer,
		sink:    sink,
		gate:    gate,
		refresh: refresh,
	}
}

// Routes returns a [chi.Router] configured with the account routes.
//
// # Endpoints
//   - POST   /register : Creates an account and sets both cookies.
//   - POST   /login    : Authenticates and sets both cookies.
//   - GET    /check    : Reports whether the cookies authenticate.
//   - POST   /refresh  : Reissues the access cookie from the refresh cookie.
//   - POST   /logout   : Clears both cookies.
//   - GET    /me       : Returns the current identity.
//   - PATCH  /me       : Updates the display name.
//   - DELETE /me       : Deletes the account.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	credentialLimit := httprate.Limit(
		constants.CredentialRequestLimit,
		constants.CredentialRequestWindow,
		httprate.WithKeyFuncs(httprate.KeyByIP),
		httprate.WithLimitHandler(func(writer http.ResponseWriter, request *http.Request) {
			respond.Error(writer, request, apperr.RateLimited(int(constants.CredentialRequestWindow.Seconds())))
		}),
	)

	router.With(credentialLimit).Post("/register", handler.register)
	router.With(credentialLimit).Post("/login", handler.login)
	router.Get("/check", handler.check)
	router.Post("/refresh", handler.refreshAccess)
	router.Post("/logout", handler.logout)

	router.Get("/me", handler.me)
	router.Patch("/me", handler.updateMe)
	router.Delete("/me", handler.deleteMe)

	return router
}

// registerRequest represents the JSON payload expected for account creation.
type registerRequest struct {
	Name     string `json:"name"`
	Email    string `json:"email"`
	Password string `json:"password"`
}

// register handles POST /api/user/register.
//
// # Returns
//   - 201 Created with the identity, both cookies set.
//   - 400 on validation failure, 409 if the email is taken.
func (handler *Handler) register(writer http.ResponseWriter, request *http.Request) {

	// ── 1. Payload Extraction ─────────────────────────────────────────────
	var input registerRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────
	identity, pair, err := handler.service.Register(request.Context(), RegisterInput{
		Name:     input.Name,
		Email:    input.Email,
		Password: input.Password,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────
	handler.sink.SetPair(writer, pair)
	respond.Created(writer, identity)
}

// loginRequest represents the JSON payload expected for authentication.
type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login handles POST /api/user/login.
//
// # Returns
//   - 200 OK with the identity, both cookies set.
//   - 401 for bad credentials without revealing which part was wrong.
//   - 429 once the failed-attempt limit is reached.
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {

	// ── 1. Payload Extraction ─────────────────────────────────────────────
	var input loginRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 2. Application Execution ──────────────────────────────────────────
	identity, pair, err := handler.service.Login(request.Context(), LoginInput{
		Email:     input.Email,
		Password:  input.Password,
		IPAddress: requestutil.ClientIP(request),
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	// ── 3. Presentation Output ────────────────────────────────────────────
	handler.sink.SetPair(writer, pair)
	respond.OK(writer, identity)
}

// check handles GET /api/user/check. The route is public so the gate does not
// reject it; the same state machine is run here and may refresh the access cookie.
func (handler *Handler) check(writer http.ResponseWriter, request *http.Request) {
	current, err := handler.gate.Authenticate(writer, request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, map[string]any{
		FieldAuthenticated: current.IsAuthenticated,
		FieldRefreshed:     current.Refreshed,
		FieldUser:          current.Identity,
	})
}

// refreshAccess handles POST /api/user/refresh, a pre-emptive refresh driven by
// the client before the access credential expires.
func (handler *Handler) refreshAccess(writer http.ResponseWriter, request *http.Request) {
	cookie, err := request.Cookie(constants.RefreshTokenCookieName)
	if err != nil || cookie.Value == "" {
		respond.Error(writer, request, session.ErrMissingCredential)
		return
	}

	claims, err := handler.issuer.VerifyRefresh(cookie.Value)
	if err != nil {
		respond.Error(writer, request, session.ErrInvalidCredential)
		return
	}

	identity, err := handler.refresh.Execute(request.Context(), writer, claims)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, identity)
}

// logout handles POST /api/user/logout.
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.sink.ClearAll(writer)
	respond.OK(writer, map[string]string{FieldMessage: "Logged out"})
}

// me handles GET /api/user/me.
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}
	respond.OK(writer, identity)
}

type updateMeRequest struct {
	Name string `json:"name"`
}

// updateMe handles PATCH /api/user/me and rewrites the access cookie so the
// new display name is visible without waiting for a refresh.
func (handler *Handler) updateMe(writer http.ResponseWriter, request *http.Request) {
	identity, err := requestutil.RequiredIdentity(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	var input updateMeRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	updated, access, err := handler.service.UpdateProfile(request.Context(), identity.ID, input.Name)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.sink.SetAccess(writer, access)
	respond.OK(writer, updated)
}

// deleteMe handles DELETE /api/user/me.
func (handler *Handler) deleteMe(writer http.ResponseWriter, request *http.Request) {
	userID, err := requestutil.RequiredUserID(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := handler.service.DeleteAccount(request.Context(), userID); err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.sink.ClearAll(writer)
	respond.NoContent(writer)
}
