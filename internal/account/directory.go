// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"

	"github.com/taibuivan/storekeep/internal/platform/dberr"
	"github.com/taibuivan/storekeep/internal/platform/sec"
	"github.com/taibuivan/storekeep/internal/session"
	"github.com/taibuivan/storekeep/pkg/uuid"
)

// Directory adapts a [Repository] and the password hasher to [session.UserDirectory].
type Directory struct {
	repository Repository
}

var _ session.UserDirectory = (*Directory)(nil)

// NewDirectory constructs a [Directory] over the given repository.
func NewDirectory(repository Repository) *Directory {
	return &Directory{repository: repository}
}

/*
Register hashes the secret and persists a new account.

Parameters:
  - context: context.Context
  - registration: session.Registration

Returns:
  - *session.Identity: Identity of the new account
  - error: apperr.Conflict when the email is taken, or persistence failures
*/
func (directory *Directory) Register(context context.Context, registration session.Registration) (*session.Identity, error) {
	hashed, err := sec.HashPassword(registration.Secret)
	if err != nil {
		return nil, fmt.Errorf("account_directory_hash_failed: %w", err)
	}

	user := &User{
		ID:           uuid.New(),
		Email:        normalizeEmail(registration.Email),
		PasswordHash: hashed,
		DisplayName:  strings.TrimSpace(registration.DisplayName),
	}

	if err := directory.repository.Create(context, user); err != nil {
		return nil, err
	}

	return user.Identity(), nil
}

// Verify checks the secret against the stored hash.
func (directory *Directory) Verify(context context.Context, email, secret string) (*session.Identity, error) {
	user, err := directory.repository.FindByEmail(context, normalizeEmail(email))
	if err != nil {
		if dberr.IsNotFound(err) {
			sec.BurnPasswordCheck(secret)
			return nil, session.ErrNotFound
		}
		return nil, err
	}

	if !sec.CheckPasswordHash(secret, user.PasswordHash) {
		return nil, session.ErrWrongSecret
	}

	return user.Identity(), nil
}

// FindByID resolves a live account by ID.
func (directory *Directory) FindByID(context context.Context, id string) (*session.Identity, error) {
	user, err := directory.repository.FindByID(context, id)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, fmt.Errorf("%w: %v", session.ErrNotFound, err)
		}
		return nil, err
	}
	return user.Identity(), nil
}

func normalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
