// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"context"
	"time"
)

// # Data Access

// Repository defines the persistence contract for products and records.
type Repository interface {

	// ListProducts returns a page of products ordered by name, plus the total count.
	ListProducts(context context.Context, limit, offset int) ([]*Product, int, error)

	// SearchProducts returns up to limit products whose name contains term, case-insensitively.
	SearchProducts(context context.Context, term string, limit int) ([]*Product, error)

	// FindProduct returns [ErrProductNotFound] when no product matches.
	FindProduct(context context.Context, id string) (*Product, error)

	// CreateProduct returns [ErrDuplicateProduct] when the slug is taken.
	CreateProduct(context context.Context, product *Product) error

	// UpdateProduct replaces name, slug, unit and stock.
	UpdateProduct(context context.Context, product *Product) error

	// ListRecords returns a page of records, newest date first, plus the total count.
	ListRecords(context context.Context, filter RecordFilter, limit, offset int) ([]*Record, int, error)

	/*
		CreateRecord inserts the movement and applies it to the product stock atomically.

		Returns:
		  - *Product: The product with its new stock
		  - error: ErrProductNotFound, ErrInsufficientStock or persistence failures
	*/
	CreateRecord(context context.Context, record *Record) (*Product, error)

	/*
		DeleteRecord removes the movement and reverts its effect on stock atomically.

		Returns:
		  - *Product: The product with its reverted stock
		  - error: ErrRecordNotFound, ErrInsufficientStock or persistence failures
	*/
	DeleteRecord(context context.Context, id string) (*Product, error)

	/*
		UpdateRecord replaces product, quantity, date and note of a movement and
		moves its stock effect accordingly, atomically. Kind, author and creation
		time are kept and written back into record.

		Returns:
		  - *Product: The product the record now belongs to
		  - error: ErrRecordNotFound, ErrProductNotFound, ErrInsufficientStock or persistence failures
	*/
	UpdateRecord(context context.Context, record *Record) (*Product, error)

	// ProductTotalsBetween sums quantity per product for one kind with from <= date < to, ordered by name.
	ProductTotalsBetween(context context.Context, kind RecordKind, from, to time.Time) ([]*ProductTotal, error)

	// TopProducts ranks products by total quantity moved in the given kind.
	TopProducts(context context.Context, kind RecordKind, limit int) ([]*ProductTotal, error)
}
