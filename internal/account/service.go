// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"github.com/taibuivan/storekeep/internal/platform/apperr"
	"github.com/taibuivan/storekeep/internal/platform/constants"
	"github.com/taibuivan/storekeep/internal/platform/ctxutil"
	"github.com/taibuivan/storekeep/internal/platform/validate"
	"github.com/taibuivan/storekeep/internal/session"
)

// Service implements the account use cases on top of the session core.
//
// It never touches cookies; handlers deliver the issued [session.TokenPair].
type Service struct {
	directory  session.UserDirectory
	repository Repository
	issuer     *session.Issuer
	limiter    LoginLimiter
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	directory session.UserDirectory,
	repository Repository,
	issuer *session.Issuer,
	limiter LoginLimiter,
) *Service {
	return &Service{
		directory:  directory,
		repository: repository,
		issuer:     issuer,
		limiter:    limiter,
	}
}

// RegisterInput holds the data required to enroll a new operator.
type RegisterInput struct {
	Name     string
	Email    string
	Password string
}

// LoginInput defines credentials for an authentication attempt.
type LoginInput struct {
	Email     string
	Password  string
	IPAddress string
}

/*
Register validates input, creates the account, and issues a credential pair.

Parameters:
  - context: context.Context
  - input: RegisterInput

Returns:
  - *session.Identity: The new identity
  - *session.TokenPair: Credentials to deliver as cookies
  - error: Validation, Conflict or persistence failures
*/
func (service *Service) Register(context context.Context, input RegisterInput) (*session.Identity, *session.TokenPair, error) {

	// ── 1. Validation ─────────────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.
		Required(FieldName, input.Name).
		MaxLen(FieldName, input.Name, NameMaxLength).
		Required(FieldEmail, input.Email).
		Email(FieldEmail, input.Email).
		MaxLen(FieldEmail, input.Email, EmailMaxLength).
		MinLen(FieldPassword, input.Password, constants.PasswordMinLength).
		MaxBytes(FieldPassword, input.Password, PasswordMaxLength)
	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	// ── 2. Persistence ────────────────────────────────────────────────────
	identity, err := service.directory.Register(context, session.Registration{
		Email:       input.Email,
		DisplayName: input.Name,
		Secret:      input.Password,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("account_service_register_failed: %w", err)
	}

	// ── 3. Token Issuance ─────────────────────────────────────────────────
	pair, err := service.issuer.Issue(identity)
	if err != nil {
		return nil, nil, fmt.Errorf("account_service_issue_failed: %w", err)
	}

	return identity, pair, nil
}

/*
Login verifies credentials and issues a credential pair.

Description: Unknown email and wrong password are indistinguishable to the
caller. Failures are counted per normalised email, whatever address they come
from; once the limit is reached every caller receives 429 for that email until
the window ends.

Parameters:
  - context: context.Context
  - input: LoginInput

Returns:
  - *session.Identity: The authenticated identity
  - *session.TokenPair: Credentials to deliver as cookies
  - error: Validation, RateLimited or [session.ErrInvalidCredential]
*/
func (service *Service) Login(context context.Context, input LoginInput) (*session.Identity, *session.TokenPair, error) {
	logger := ctxutil.GetLogger(context)

	// ── 1. Validation ─────────────────────────────────────────────────────
	validator := &validate.Validator{}
	validator.
		Required(FieldEmail, input.Email).
		Required(FieldPassword, input.Password)
	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	// ── 2. Throttling ─────────────────────────────────────────────────────
	limiterKey := strings.ToLower(strings.TrimSpace(input.Email))
	if err := service.limiter.Check(context, limiterKey); err != nil {
		if apperr.IsAppError(err) {
			return nil, nil, err
		}
		// Limiter outage must not lock every operator out.
		logger.WarnContext(context, "login_limiter_unavailable", slog.Any("error", err))
	}

	// ── 3. Verification ───────────────────────────────────────────────────
	identity, err := service.directory.Verify(context, input.Email, input.Password)
	if err != nil {
		if errors.Is(err, session.ErrNotFound) || errors.Is(err, session.ErrWrongSecret) {
			if recordErr := service.limiter.RecordFailure(context, limiterKey); recordErr != nil {
				logger.WarnContext(context, "login_limiter_record_failed", slog.Any("error", recordErr))
			}
			logger.InfoContext(context, "login_rejected", slog.String("ip", input.IPAddress))
			return nil, nil, session.ErrInvalidCredential
		}
		return nil, nil, fmt.Errorf("account_service_verify_failed: %w", err)
	}

	if err := service.limiter.Reset(context, limiterKey); err != nil {
		logger.WarnContext(context, "login_limiter_reset_failed", slog.Any("error", err))
	}

	// ── 4. Token Issuance ─────────────────────────────────────────────────
	pair, err := service.issuer.Issue(identity)
	if err != nil {
		return nil, nil, fmt.Errorf("account_service_issue_failed: %w", err)
	}

	logger.InfoContext(context, "login_succeeded", slog.String("user_id", identity.ID))
	return identity, pair, nil
}

/*
UpdateProfile changes the display name and mints an access credential that
carries it.

Parameters:
  - context: context.Context
  - id: string
  - name: string

Returns:
  - *session.Identity: The updated identity
  - *session.IssuedToken: Fresh access credential
  - error: Validation, NotFound or persistence failures
*/
func (service *Service) UpdateProfile(context context.Context, id, name string) (*session.Identity, *session.IssuedToken, error) {
	name = strings.TrimSpace(name)

	validator := &validate.Validator{}
	validator.
		Required(FieldName, name).
		MaxLen(FieldName, name, NameMaxLength)
	if err := validator.Err(); err != nil {
		return nil, nil, err
	}

	user, err := service.repository.UpdateDisplayName(context, id, name)
	if err != nil {
		return nil, nil, fmt.Errorf("account_service_update_profile_failed: %w", err)
	}

	identity := user.Identity()
	access, err := service.issuer.ReissueAccess(identity)
	if err != nil {
		return nil, nil, fmt.Errorf("account_service_issue_failed: %w", err)
	}

	return identity, access, nil
}

// DeleteAccount soft-deletes the account. Existing refresh credentials fail at
// their next use because the subject no longer resolves.
func (service *Service) DeleteAccount(context context.Context, id string) error {
	if err := service.repository.SoftDelete(context, id); err != nil {
		return fmt.Errorf("account_service_delete_failed: %w", err)
	}
	return nil
}
