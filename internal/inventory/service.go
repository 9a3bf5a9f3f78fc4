// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"context"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/storekeep/internal/platform/validate"
	"github.com/taibuivan/storekeep/pkg/slug"
	"github.com/taibuivan/storekeep/pkg/uuid"
)

// # Service Layer

// Service orchestrates product and stock movement rules.
type Service struct {
	repo   Repository
	logger *slog.Logger
}

// NewService constructs a new inventory [Service].
func NewService(repo Repository, logger *slog.Logger) *Service {
	return &Service{
		repo:   repo,
		logger: logger,
	}
}

// ProductInput is the mutable part of a product.
type ProductInput struct {
	Name  string
	Unit  string
	Stock int64
}

// RecordInput describes a stock movement as submitted by a client.
type RecordInput struct {
	ProductID string
	Quantity  int64
	Date      string
	Note      string
}

// # Products

// ListProducts returns a page of products and the total count.
func (service *Service) ListProducts(context context.Context, limit, offset int) ([]*Product, int, error) {
	return service.repo.ListProducts(context, limit, offset)
}

// SearchProducts returns at most [SearchResultLimit] products matching the name.
func (service *Service) SearchProducts(context context.Context, name string) ([]*Product, error) {
	name = strings.TrimSpace(name)

	v := &validate.Validator{}
	v.Required(FieldName, name).MaxLen(FieldName, name, NameMaxLength)
	if err := v.Err(); err != nil {
		return nil, err
	}

	return service.repo.SearchProducts(context, name, SearchResultLimit)
}

/*
CreateProduct validates and persists a new product owned by creatorID.

Description: The slug is derived from the name, so two products whose names
differ only in case, accents or punctuation collide.

Parameters:
  - context: context.Context
  - input: ProductInput
  - creatorID: string

Returns:
  - *Product: The created product
  - error: Validation, ErrDuplicateProduct or persistence failures
*/
func (service *Service) CreateProduct(context context.Context, input ProductInput, creatorID string) (*Product, error) {
	product := &Product{
		ID:        uuid.New(),
		Name:      strings.TrimSpace(input.Name),
		Unit:      strings.TrimSpace(input.Unit),
		Stock:     input.Stock,
		CreatedBy: creatorID,
	}
	product.Slug = slug.From(product.Name)

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := service.repo.CreateProduct(context, product); err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "product_created",
		slog.String("product_id", product.ID),
		slog.String("user_id", creatorID),
	)
	return product, nil
}

// UpdateProduct replaces the mutable fields of an existing product.
func (service *Service) UpdateProduct(context context.Context, id string, input ProductInput) (*Product, error) {
	if !uuid.Valid(id) {
		return nil, ErrProductNotFound
	}

	product := &Product{
		ID:    id,
		Name:  strings.TrimSpace(input.Name),
		Unit:  strings.TrimSpace(input.Unit),
		Stock: input.Stock,
	}
	product.Slug = slug.From(product.Name)

	if err := validateProduct(product); err != nil {
		return nil, err
	}

	if err := service.repo.UpdateProduct(context, product); err != nil {
		return nil, err
	}
	return product, nil
}

func validateProduct(product *Product) error {
	v := &validate.Validator{}
	v.
		Required(FieldName, product.Name).
		MaxLen(FieldName, product.Name, NameMaxLength).
		Custom(FieldName, product.Name != "" && product.Slug == "", "Must contain at least one letter or digit").
		MaxLen(FieldUnit, product.Unit, UnitMaxLength).
		NonNegative(FieldStock, product.Stock)
	return v.Err()
}

// # Records

// ListRecords returns a page of records of the given kind, or all kinds when empty.
func (service *Service) ListRecords(context context.Context, filter RecordFilter, limit, offset int) ([]*Record, int, error) {
	return service.repo.ListRecords(context, filter, limit, offset)
}

/*
RecordMovement validates and applies an income or outcome movement.

Parameters:
  - context: context.Context
  - kind: RecordKind
  - input: RecordInput
  - userID: string (acting user, taken from the session)

Returns:
  - *Record: The persisted movement
  - *Product: The product with its new stock
  - error: Validation, ErrProductNotFound, ErrInsufficientStock or persistence failures
*/
func (service *Service) RecordMovement(context context.Context, kind RecordKind, input RecordInput, userID string) (*Record, *Product, error) {
	record, err := parseRecordInput(input)
	if err != nil {
		return nil, nil, err
	}
	record.ID = uuid.New()
	record.UserID = userID
	record.Kind = kind

	product, err := service.repo.CreateRecord(context, record)
	if err != nil {
		return nil, nil, err
	}

	service.logger.InfoContext(context, "stock_movement_recorded",
		slog.String("record_id", record.ID),
		slog.String("product_id", record.ProductID),
		slog.String("kind", string(kind)),
		slog.Int64("quantity", record.Quantity),
		slog.Int64("stock", product.Stock),
		slog.String("user_id", userID),
	)
	return record, product, nil
}

/*
UpdateRecord changes the product, quantity, date or note of an existing movement.

Description: The kind of a movement never changes; an income stays an income.
The stock effect of the old values is reverted and the new one applied in the
same transaction, so an update is refused when either product would go negative.

Parameters:
  - context: context.Context
  - id: string
  - input: RecordInput
  - userID: string (acting user, for the audit log only)

Returns:
  - *Record: The movement as stored
  - *Product: The product the movement now belongs to
  - error: Validation, ErrRecordNotFound, ErrProductNotFound, ErrInsufficientStock or persistence failures
*/
func (service *Service) UpdateRecord(context context.Context, id string, input RecordInput, userID string) (*Record, *Product, error) {
	if !uuid.Valid(id) {
		return nil, nil, ErrRecordNotFound
	}

	record, err := parseRecordInput(input)
	if err != nil {
		return nil, nil, err
	}
	record.ID = id

	product, err := service.repo.UpdateRecord(context, record)
	if err != nil {
		return nil, nil, err
	}

	service.logger.InfoContext(context, "stock_movement_updated",
		slog.String("record_id", record.ID),
		slog.String("product_id", record.ProductID),
		slog.String("kind", string(record.Kind)),
		slog.Int64("quantity", record.Quantity),
		slog.Int64("stock", product.Stock),
		slog.String("user_id", userID),
	)
	return record, product, nil
}

func parseRecordInput(input RecordInput) (*Record, error) {
	note := strings.TrimSpace(input.Note)

	v := &validate.Validator{}
	v.
		UUID(FieldProductID, input.ProductID).
		Positive(FieldQuantity, input.Quantity).
		MaxLen(FieldNote, note, NoteMaxLength)
	recordedOn := v.Date(FieldDate, input.Date, DateLayout)

	if err := v.Err(); err != nil {
		return nil, err
	}

	return &Record{
		ProductID:  input.ProductID,
		Quantity:   input.Quantity,
		RecordedOn: recordedOn,
		Note:       note,
	}, nil
}

// DeleteRecord removes a movement and reverts its stock effect.
func (service *Service) DeleteRecord(context context.Context, id, userID string) (*Product, error) {
	if !uuid.Valid(id) {
		return nil, ErrRecordNotFound
	}

	product, err := service.repo.DeleteRecord(context, id)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "stock_movement_deleted",
		slog.String("record_id", id),
		slog.String("product_id", product.ID),
		slog.Int64("stock", product.Stock),
		slog.String("user_id", userID),
	)
	return product, nil
}

// MonthlySummary totals income and outcome per product for one calendar month.
func (service *Service) MonthlySummary(context context.Context, year, month int) (*MonthlySummary, error) {
	v := &validate.Validator{}
	v.
		Custom(FieldYear, year < MinSummaryYear || year > MaxSummaryYear, "Must be a four-digit year").
		Custom(FieldMonth, month < 1 || month > 12, "Must be between 1 and 12")
	if err := v.Err(); err != nil {
		return nil, err
	}

	from := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	to := from.AddDate(0, 1, 0)

	income, err := service.repo.ProductTotalsBetween(context, KindIncome, from, to)
	if err != nil {
		return nil, err
	}
	outcome, err := service.repo.ProductTotalsBetween(context, KindOutcome, from, to)
	if err != nil {
		return nil, err
	}

	return &MonthlySummary{Year: year, Month: month, Income: income, Outcome: outcome}, nil
}

// TopProducts ranks products by quantity moved in the given kind.
func (service *Service) TopProducts(context context.Context, kind RecordKind) ([]*ProductTotal, error) {
	return service.repo.TopProducts(context, kind, TopProductsLimit)
}
