// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// InventoryRecordTable represents the 'inventory.record' table
type InventoryRecordTable struct {
	Table      string
	ID         string
	ProductID  string
	UserID     string
	Kind       string
	Quantity   string
	RecordedOn string
	Note       string
	CreatedAt  string
}

// InventoryRecord is the schema definition for inventory.record
var InventoryRecord = InventoryRecordTable{
	Table:      "inventory.record",
	ID:         "id",
	ProductID:  "productid",
	UserID:     "userid",
	Kind:       "kind",
	Quantity:   "quantity",
	RecordedOn: "recordedon",
	Note:       "note",
	CreatedAt:  "createdat",
}

// Columns returns the columns scanned into a record entity, in scan order.
func (t InventoryRecordTable) Columns() []string {
	return []string{t.ID, t.ProductID, t.UserID, t.Kind, t.Quantity, t.RecordedOn, t.Note, t.CreatedAt}
}

// Select returns the comma-separated column list for SELECT/RETURNING clauses.
func (t InventoryRecordTable) Select() string {
	return strings.Join(t.Columns(), ", ")
}
