// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storekeep/internal/platform/database/schema"
	"github.com/taibuivan/storekeep/internal/platform/dberr"
)

// # User Repository

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new PostgreSQL implementation of [Repository].
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var userTable = schema.UserAccount

/*
Create persists a new user record into the users.account table.

Description: The unique index on lower(email) is the source of truth for
duplicate detection, so concurrent registrations cannot both succeed.

Parameters:
  - context: context.Context
  - user: *User (Entity to persist)

Returns:
  - error: ErrEmailTaken on duplicate email, or connectivity errors
*/
func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6)`,
		userTable.Table,
		userTable.ID, userTable.Email, userTable.Password, userTable.DisplayName, userTable.CreatedAt, userTable.UpdatedAt,
	)

	now := time.Now().UTC()
	if user.CreatedAt.IsZero() {
		user.CreatedAt = now
	}
	user.UpdatedAt = now

	_, err := repository.pool.Exec(context, query,
		user.ID,
		user.Email,
		user.PasswordHash,
		user.DisplayName,
		user.CreatedAt,
		user.UpdatedAt,
	)

	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrEmailTaken.WithCause(err)
		}
		return fmt.Errorf("postgres_user_repo_create_failed: %w", err)
	}

	return nil
}

/*
FindByEmail retrieves a user record by email address.

Parameters:
  - context: context.Context
  - email: string

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE lower(%s) = lower($1) AND %s IS NULL`,
		userTable.Select(), userTable.Table, userTable.Email, userTable.DeletedAt)

	user, err := scanUser(repository.pool.QueryRow(context, query, strings.TrimSpace(email)))
	if err != nil {
		return nil, wrapLookup(err, "postgres_user_repo_find_by_email_failed")
	}

	return user, nil
}

/*
FindByID retrieves a user record by its unique ID.

Parameters:
  - context: context.Context
  - id: string (UUIDv7)

Returns:
  - *User: Hydrated account entity
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 AND %s IS NULL`,
		userTable.Select(), userTable.Table, userTable.ID, userTable.DeletedAt)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, wrapLookup(err, "postgres_user_repo_find_by_id_failed")
	}

	return user, nil
}

// UpdateDisplayName changes the display name of a live account and returns the updated row.
func (repository *PostgresRepository) UpdateDisplayName(context context.Context, id, displayName string) (*User, error) {
	query := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = $3
		WHERE %s = $1 AND %s IS NULL
		RETURNING %s`,
		userTable.Table, userTable.DisplayName, userTable.UpdatedAt,
		userTable.ID, userTable.DeletedAt,
		userTable.Select(),
	)

	user, err := scanUser(repository.pool.QueryRow(context, query, id, displayName, time.Now().UTC()))
	if err != nil {
		return nil, wrapLookup(err, "postgres_user_repo_update_display_name_failed")
	}

	return user, nil
}

/*
SoftDelete marks a user account as deleted.

Description: Retention-friendly deletion by setting deletedat. Outstanding
refresh credentials stop working at the next refresh because the subject can
no longer be resolved.

Parameters:
  - context: context.Context
  - id: string

Returns:
  - error: dberr.ErrNotFound or database errors
*/
func (repository *PostgresRepository) SoftDelete(context context.Context, id string) error {
	query := fmt.Sprintf(`UPDATE %s SET %s = $2 WHERE %s = $1 AND %s IS NULL`,
		userTable.Table, userTable.DeletedAt, userTable.ID, userTable.DeletedAt)

	tag, err := repository.pool.Exec(context, query, id, time.Now().UTC())
	if err != nil {
		return fmt.Errorf("postgres_user_repo_soft_delete_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return dberr.ErrNotFound
	}

	return nil
}

// scanUser reads one row in [schema.UserAccountTable.Columns] order.
func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.PasswordHash,
		&user.DisplayName,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return user, nil
}

// wrapLookup maps a missing row to [dberr.ErrNotFound] and keeps other errors wrapped.
func wrapLookup(err error, action string) error {
	if dberr.IsNotFound(err) {
		return dberr.ErrNotFound
	}
	return fmt.Errorf("%s: %w", action, err)
}
