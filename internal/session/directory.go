// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package session

import "context"

// Registration is the input to [UserDirectory.Register].
type Registration struct {
	Email       string
	DisplayName string
	Secret      string
}

// UserDirectory is the user store the core consumes. Implementations must be
// safe for concurrent reads.
type UserDirectory interface {
	// Register creates a user and returns its identity.
	Register(ctx context.Context, registration Registration) (*Identity, error)

	// Verify checks a login secret. It returns [ErrNotFound] or [ErrWrongSecret] on failure.
	Verify(ctx context.Context, email, secret string) (*Identity, error)

	// FindByID resolves a subject ID. It returns [ErrNotFound] when the user is gone.
	FindByID(ctx context.Context, id string) (*Identity, error)
}
