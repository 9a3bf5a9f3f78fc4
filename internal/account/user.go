// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account implements user registration, login, and profile management.

It owns the users.account table and provides the [session.UserDirectory] the
authentication core consumes.

# Architecture

  - Entity: [User] (with password hash), projected to [session.Identity] for the core.
  - Repository: Postgres-backed account storage.
  - Directory: adapts the repository and the password hasher to [session.UserDirectory].
  - Limiter: Redis-backed failed-login counter.
  - Handler: register, login, check, refresh, logout, me.
*/
package account

import (
	"time"

	"github.com/taibuivan/storekeep/internal/platform/apperr"
	"github.com/taibuivan/storekeep/internal/session"
)

// # Domain Entities

// User represents a registered operator of the inventory.
type User struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Explicitly omitted from JSON for security.
	DisplayName  string    `json:"name"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// Identity projects the user onto the minimal record the session core carries.
func (user *User) Identity() *session.Identity {
	return &session.Identity{
		ID:          user.ID,
		Email:       user.Email,
		DisplayName: user.DisplayName,
	}
}

// # Field Identifiers

// Field names for validation and JSON payloads in the account domain.
const (
	FieldEmail         = "email"
	FieldPassword      = "password"
	FieldName          = "name"
	FieldUser          = "user"
	FieldAuthenticated = "authenticated"
	FieldRefreshed     = "refreshed"
	FieldMessage       = "message"
)

// Limits on user-provided profile data.
const (
	NameMaxLength     = 100
	EmailMaxLength    = 254
	PasswordMaxLength = 72 // bcrypt ignores input beyond 72 bytes
)

// ErrEmailTaken is returned when a live account already uses the address.
var ErrEmailTaken = apperr.Conflict("Email is already registered")
