// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

import "strings"

// InventoryProductTable represents the 'inventory.product' table
type InventoryProductTable struct {
	Table     string
	ID        string
	Name      string
	Slug      string
	Unit      string
	Stock     string
	CreatedBy string
	CreatedAt string
	UpdatedAt string
}

// InventoryProduct is the schema definition for inventory.product
var InventoryProduct = InventoryProductTable{
	Table:     "inventory.product",
	ID:        "id",
	Name:      "name",
	Slug:      "slug",
	Unit:      "unit",
	Stock:     "stock",
	CreatedBy: "createdby",
	CreatedAt: "createdat",
	UpdatedAt: "updatedat",
}

// Columns returns the columns scanned into a product entity, in scan order.
func (t InventoryProductTable) Columns() []string {
	return []string{t.ID, t.Name, t.Slug, t.Unit, t.Stock, t.CreatedBy, t.CreatedAt, t.UpdatedAt}
}

// Select returns the comma-separated column list for SELECT/RETURNING clauses.
func (t InventoryProductTable) Select() string {
	return strings.Join(t.Columns(), ", ")
}
