// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import "context"

// # User Data Access

// Repository defines the data access contract for user accounts.
//
// Lookups return [dberr.ErrNotFound] when no live row matches.
type Repository interface {

	/*
		FindByID returns the account with the given ID.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail returns the account with the given email (case-insensitive).

		Parameters:
		  - context: context.Context
		  - email: string

		Returns:
		  - *User: Hydrated entity
		  - error: dberr.ErrNotFound or database retrieval failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	/*
		Create persists a brand-new user account.

		Parameters:
		  - context: context.Context
		  - user: *User

		Returns:
		  - error: apperr.Conflict when the email is taken, or persistence failures
	*/
	Create(context context.Context, user *User) error

	/*
		UpdateDisplayName replaces the user's display name.

		Parameters:
		  - context: context.Context
		  - id: string
		  - displayName: string

		Returns:
		  - *User: Updated entity
		  - error: dberr.ErrNotFound or persistence failures
	*/
	UpdateDisplayName(context context.Context, id, displayName string) (*User, error)

	/*
		SoftDelete marks the account as deleted without removing the row.

		Parameters:
		  - context: context.Context
		  - id: string

		Returns:
		  - error: dberr.ErrNotFound or persistence failures
	*/
	SoftDelete(context context.Context, id string) error
}
