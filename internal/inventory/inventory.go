// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package inventory manages products and the stock movements recorded against them.

Every handler in this package runs behind the session gate and reads the
acting identity from the request context; nothing here inspects credentials.

# Stock Invariant

Creating, updating or deleting a record adjusts the product stock in the same
transaction, and no movement may leave the stock negative. An update that moves
a record to another product reverts it on the old product first. A manual stock
correction through the product update endpoint is not recorded as a movement.
*/
package inventory

import (
	"time"

	"github.com/taibuivan/storekeep/internal/platform/apperr"
)

// # Domain Entities

// Product is a stocked item.
type Product struct {
	ID        string    `json:"id"`
	Name      string    `json:"name"`
	Slug      string    `json:"slug"`
	Unit      string    `json:"unit"`
	Stock     int64     `json:"stock"`
	CreatedBy string    `json:"created_by"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// RecordKind distinguishes stock entering from stock leaving.
type RecordKind string

const (
	KindIncome  RecordKind = "income"
	KindOutcome RecordKind = "outcome"
)

// Valid reports whether k is a known kind.
func (k RecordKind) Valid() bool {
	return k == KindIncome || k == KindOutcome
}

// Delta returns the signed stock change for a quantity of this kind.
func (k RecordKind) Delta(quantity int64) int64 {
	if k == KindOutcome {
		return -quantity
	}
	return quantity
}

// Record is a single stock movement.
type Record struct {
	ID         string     `json:"id"`
	ProductID  string     `json:"product_id"`
	UserID     string     `json:"user_id"`
	Kind       RecordKind `json:"kind"`
	Quantity   int64      `json:"quantity"`
	RecordedOn time.Time  `json:"date"`
	Note       string     `json:"note,omitempty"`
	CreatedAt  time.Time  `json:"created_at"`
}

// ProductTotal aggregates movement quantity per product.
type ProductTotal struct {
	ProductID string `json:"product_id"`
	Name      string `json:"name"`
	Quantity  int64  `json:"quantity"`
}

// MonthlySummary totals the movements of one calendar month per product.
type MonthlySummary struct {
	Year    int             `json:"year"`
	Month   int             `json:"month"`
	Income  []*ProductTotal `json:"income"`
	Outcome []*ProductTotal `json:"outcome"`
}

// RecordFilter narrows record listings. An empty Kind lists every kind.
type RecordFilter struct {
	Kind RecordKind
}

// # Limits

const (
	// SearchResultLimit caps name search results.
	SearchResultLimit = 4

	// TopProductsLimit caps the most-consumed and most-entered rankings.
	TopProductsLimit = 5

	NameMaxLength = 120
	UnitMaxLength = 20
	NoteMaxLength = 500

	// Years accepted by the monthly summary.
	MinSummaryYear = 2000
	MaxSummaryYear = 2100

	// DateLayout is the wire format of a record date.
	DateLayout = time.DateOnly
)

// # Field Identifiers

const (
	FieldName      = "name"
	FieldUnit      = "unit"
	FieldStock     = "stock"
	FieldProductID = "product_id"
	FieldQuantity  = "quantity"
	FieldDate      = "date"
	FieldNote      = "note"
	FieldID        = "id"
	FieldYear      = "year"
	FieldMonth     = "month"
)

// # Errors

var (
	ErrProductNotFound   = apperr.NotFound("Product")
	ErrRecordNotFound    = apperr.NotFound("Record")
	ErrDuplicateProduct  = apperr.Conflict("A product with this name already exists")
	ErrInsufficientStock = apperr.Unprocessable("Not enough stock for this movement")
)
