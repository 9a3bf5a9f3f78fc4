// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package uuid provides time-ordered identifiers for primary keys.

Version 7 values sort by creation time, which keeps B-tree indexes on
users.account, inventory.product and inventory.record append-mostly.
*/
package uuid

import "github.com/google/uuid"

// New generates a new UUIDv7 string.
//
// It panics only when the system entropy source fails.
func New() string {
	id, err := uuid.NewV7()
	if err != nil {
		panic("uuid: failed to generate UUIDv7: " + err.Error())
	}
	return id.String()
}

// Valid reports whether s is a UUID of any version in the canonical
// 36-character hyphenated form. URN and braced forms are rejected.
func Valid(s string) bool {
	return len(s) == 36 && uuid.Validate(s) == nil
}
