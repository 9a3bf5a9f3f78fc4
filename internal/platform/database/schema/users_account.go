// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

// Package schema names the tables and columns used by the Postgres repositories.
package schema

import "strings"

// UserAccountTable represents the 'users.account' table
type UserAccountTable struct {
	Table       string
	ID          string
	Email       string
	Password    string
	DisplayName string
	CreatedAt   string
	UpdatedAt   string
	DeletedAt   string
}

// UserAccount is the schema definition for users.account
var UserAccount = UserAccountTable{
	Table:       "users.account",
	ID:          "id",
	Email:       "email",
	Password:    "passwordhash",
	DisplayName: "displayname",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
	DeletedAt:   "deletedat",
}

// Columns returns the columns scanned into a user entity, in scan order.
func (t UserAccountTable) Columns() []string {
	return []string{t.ID, t.Email, t.Password, t.DisplayName, t.CreatedAt, t.UpdatedAt}
}

// Select returns the comma-separated column list for SELECT/RETURNING clauses.
func (t UserAccountTable) Select() string {
	return strings.Join(t.Columns(), ", ")
}
