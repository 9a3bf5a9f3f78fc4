// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/storekeep/internal/platform/database/schema"
	"github.com/taibuivan/storekeep/internal/platform/dberr"
)

// PostgresRepository implements [Repository] using pgx.
type PostgresRepository struct {
	db *pgxpool.Pool
}

// NewPostgresRepository constructs a PostgreSQL backed inventory store.
func NewPostgresRepository(db *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{db: db}
}

var (
	productTable = schema.InventoryProduct
	recordTable  = schema.InventoryRecord
)

// likeEscaper neutralises LIKE wildcards in user search terms.
var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// # Products

/*
ListProducts returns a page of products ordered by name.

Description: Uses COUNT(*) OVER() so the total comes back with the page.

Parameters:
  - context: context.Context
  - limit: int
  - offset: int

Returns:
  - []*Product: Page of products
  - int: Total product count
  - error: Database retrieval failures
*/
func (repository *PostgresRepository) ListProducts(context context.Context, limit, offset int) ([]*Product, int, error) {
	query := fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM %s
		ORDER BY %s ASC
		LIMIT $1 OFFSET $2`,
		productTable.Select(), productTable.Table, productTable.Name)

	rows, err := repository.db.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_products")
	}
	defer rows.Close()

	products := []*Product{}
	var total int
	for rows.Next() {
		product := &Product{}
		if err := rows.Scan(productFields(product, &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_product")
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_products")
	}

	return products, total, nil
}

// SearchProducts implements [Repository].
func (repository *PostgresRepository) SearchProducts(context context.Context, term string, limit int) ([]*Product, error) {
	query := fmt.Sprintf(`
		SELECT %s
		FROM %s
		WHERE %s ILIKE '%%' || $1 || '%%'
		ORDER BY %s ASC
		LIMIT $2`,
		productTable.Select(), productTable.Table, productTable.Name, productTable.Name)

	rows, err := repository.db.Query(context, query, likeEscaper.Replace(term), limit)
	if err != nil {
		return nil, dberr.Wrap(err, "search_products")
	}
	defer rows.Close()

	products := []*Product{}
	for rows.Next() {
		product := &Product{}
		if err := rows.Scan(productFields(product)...); err != nil {
			return nil, dberr.Wrap(err, "scan_product")
		}
		products = append(products, product)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_products")
	}

	return products, nil
}

// FindProduct implements [Repository].
func (repository *PostgresRepository) FindProduct(context context.Context, id string) (*Product, error) {
	query := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1`,
		productTable.Select(), productTable.Table, productTable.ID)

	product := &Product{}
	err := repository.db.QueryRow(context, query, id).Scan(productFields(product)...)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, dberr.Wrap(err, "get_product_by_id")
	}
	return product, nil
}

/*
CreateProduct persists a new product.

Parameters:
  - context: context.Context
  - product: *Product (ID, Slug and CreatedBy already set)

Returns:
  - error: ErrDuplicateProduct on slug collision, or persistence failures
*/
func (repository *PostgresRepository) CreateProduct(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $7)`,
		productTable.Table,
		productTable.ID, productTable.Name, productTable.Slug, productTable.Unit,
		productTable.Stock, productTable.CreatedBy, productTable.CreatedAt, productTable.UpdatedAt,
	)

	now := time.Now().UTC()
	_, err := repository.db.Exec(context, query,
		product.ID, product.Name, product.Slug, product.Unit, product.Stock, product.CreatedBy, now)
	if err != nil {
		if dberr.IsUniqueViolation(err) {
			return ErrDuplicateProduct
		}
		return dberr.Wrap(err, "insert_product")
	}

	product.CreatedAt = now
	product.UpdatedAt = now
	return nil
}

// UpdateProduct implements [Repository].
func (repository *PostgresRepository) UpdateProduct(context context.Context, product *Product) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		productTable.Table,
		productTable.Name, productTable.Slug, productTable.Unit, productTable.Stock, productTable.UpdatedAt,
		productTable.ID,
		productTable.Select(),
	)

	err := repository.db.QueryRow(context, query,
		product.ID, product.Name, product.Slug, product.Unit, product.Stock,
	).Scan(productFields(product)...)
	if err != nil {
		switch {
		case dberr.IsNotFound(err):
			return ErrProductNotFound
		case dberr.IsUniqueViolation(err):
			return ErrDuplicateProduct
		case dberr.IsCheckViolation(err):
			return ErrInsufficientStock
		}
		return dberr.Wrap(err, "update_product")
	}
	return nil
}

// # Records

// ListRecords implements [Repository].
func (repository *PostgresRepository) ListRecords(context context.Context, filter RecordFilter, limit, offset int) ([]*Record, int, error) {
	var queryBuilder strings.Builder
	queryBuilder.WriteString(fmt.Sprintf(`
		SELECT %s, COUNT(*) OVER() AS total
		FROM %s
		WHERE TRUE`,
		recordTable.Select(), recordTable.Table))

	args := []any{}
	argID := 1

	if filter.Kind != "" {
		queryBuilder.WriteString(fmt.Sprintf(" AND %s = $%d", recordTable.Kind, argID))
		args = append(args, string(filter.Kind))
		argID++
	}

	queryBuilder.WriteString(fmt.Sprintf(" ORDER BY %s DESC, %s DESC LIMIT $%d OFFSET $%d",
		recordTable.RecordedOn, recordTable.CreatedAt, argID, argID+1))
	args = append(args, limit, offset)

	rows, err := repository.db.Query(context, queryBuilder.String(), args...)
	if err != nil {
		return nil, 0, dberr.Wrap(err, "list_records")
	}
	defer rows.Close()

	records := []*Record{}
	var total int
	for rows.Next() {
		record := &Record{}
		if err := rows.Scan(recordFields(record, &total)...); err != nil {
			return nil, 0, dberr.Wrap(err, "scan_record")
		}
		records = append(records, record)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, dberr.Wrap(err, "iterate_records")
	}

	return records, total, nil
}

/*
CreateRecord inserts a movement and applies it to stock.

Description: The product row is locked with SELECT ... FOR UPDATE so concurrent
movements on the same product serialise; the stock check and the update see
the same value.

Parameters:
  - context: context.Context
  - record: *Record (ID, UserID and Kind already set)

Returns:
  - *Product: Product with updated stock
  - error: ErrProductNotFound, ErrInsufficientStock or transactional failures
*/
func (repository *PostgresRepository) CreateRecord(context context.Context, record *Record) (*Product, error) {

	// Establish Transactional Boundary
	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_create_record_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Apply Stock Delta
	product, err := applyStockDelta(context, transaction, record.ProductID, record.Kind.Delta(record.Quantity))
	if err != nil {
		return nil, err
	}

	// Step 2: Persist Movement
	insertQuery := fmt.Sprintf(`
		INSERT INTO %s (%s, %s, %s, %s, %s, %s, %s, %s)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		recordTable.Table,
		recordTable.ID, recordTable.ProductID, recordTable.UserID, recordTable.Kind,
		recordTable.Quantity, recordTable.RecordedOn, recordTable.Note, recordTable.CreatedAt,
	)

	record.CreatedAt = time.Now().UTC()
	_, err = transaction.Exec(context, insertQuery,
		record.ID, record.ProductID, record.UserID, string(record.Kind),
		record.Quantity, record.RecordedOn, record.Note, record.CreatedAt,
	)
	if err != nil {
		return nil, dberr.Wrap(err, "insert_record")
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_create_record_tx")
	}
	return product, nil
}

// DeleteRecord implements [Repository].
func (repository *PostgresRepository) DeleteRecord(context context.Context, id string) (*Product, error) {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_delete_record_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Remove Movement
	deleteQuery := fmt.Sprintf(`DELETE FROM %s WHERE %s = $1 RETURNING %s, %s, %s`,
		recordTable.Table, recordTable.ID,
		recordTable.ProductID, recordTable.Kind, recordTable.Quantity)

	var (
		productID string
		kind      string
		quantity  int64
	)
	err = transaction.QueryRow(context, deleteQuery, id).Scan(&productID, &kind, &quantity)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrRecordNotFound
		}
		return nil, dberr.Wrap(err, "delete_record")
	}

	// Step 2: Revert Stock
	product, err := applyStockDelta(context, transaction, productID, -RecordKind(kind).Delta(quantity))
	if err != nil {
		return nil, err
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_delete_record_tx")
	}
	return product, nil
}

/*
UpdateRecord rewrites a movement and moves its stock effect.

Description: The record row is locked first, then every affected product in id
order so that two updates touching the same pair of products cannot deadlock.
When the product is unchanged the old and new effects are netted into a single
delta before the stock check.

Parameters:
  - context: context.Context
  - record: *Record (ID, ProductID, Quantity, RecordedOn and Note set)

Returns:
  - *Product: Product the record now belongs to
  - error: ErrRecordNotFound, ErrProductNotFound, ErrInsufficientStock or transactional failures
*/
func (repository *PostgresRepository) UpdateRecord(context context.Context, record *Record) (*Product, error) {

	transaction, err := repository.db.Begin(context)
	if err != nil {
		return nil, dberr.Wrap(err, "begin_update_record_tx")
	}
	defer transaction.Rollback(context)

	// Step 1: Lock Movement
	lockQuery := fmt.Sprintf(`SELECT %s, %s, %s FROM %s WHERE %s = $1 FOR UPDATE`,
		recordTable.ProductID, recordTable.Kind, recordTable.Quantity,
		recordTable.Table, recordTable.ID)

	var (
		previousProductID string
		previousQuantity  int64
	)
	err = transaction.QueryRow(context, lockQuery, record.ID).Scan(&previousProductID, &record.Kind, &previousQuantity)
	if err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrRecordNotFound
		}
		return nil, dberr.Wrap(err, "lock_record")
	}

	// Step 2: Move Stock Effect
	deltas := map[string]int64{
		previousProductID: -record.Kind.Delta(previousQuantity),
	}
	deltas[record.ProductID] += record.Kind.Delta(record.Quantity)

	productIDs := slices.Sorted(maps.Keys(deltas))

	var product *Product
	for _, productID := range productIDs {
		adjusted, err := applyStockDelta(context, transaction, productID, deltas[productID])
		if err != nil {
			return nil, err
		}
		if productID == record.ProductID {
			product = adjusted
		}
	}

	// Step 3: Rewrite Movement
	updateQuery := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5
		WHERE %s = $1
		RETURNING %s`,
		recordTable.Table,
		recordTable.ProductID, recordTable.Quantity, recordTable.RecordedOn, recordTable.Note,
		recordTable.ID,
		recordTable.Select(),
	)

	err = transaction.QueryRow(context, updateQuery,
		record.ID, record.ProductID, record.Quantity, record.RecordedOn, record.Note,
	).Scan(recordFields(record)...)
	if err != nil {
		return nil, dberr.Wrap(err, "update_record")
	}

	if err := transaction.Commit(context); err != nil {
		return nil, dberr.Wrap(err, "commit_update_record_tx")
	}
	return product, nil
}

// ProductTotalsBetween implements [Repository].
func (repository *PostgresRepository) ProductTotalsBetween(context context.Context, kind RecordKind, from, to time.Time) ([]*ProductTotal, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, SUM(r.%s) AS quantity
		FROM %s r
		JOIN %s p ON p.%s = r.%s
		WHERE r.%s = $1 AND r.%s >= $2 AND r.%s < $3
		GROUP BY p.%s, p.%s
		ORDER BY p.%s ASC`,
		productTable.ID, productTable.Name, recordTable.Quantity,
		recordTable.Table,
		productTable.Table, productTable.ID, recordTable.ProductID,
		recordTable.Kind, recordTable.RecordedOn, recordTable.RecordedOn,
		productTable.ID, productTable.Name,
		productTable.Name,
	)

	rows, err := repository.db.Query(context, query, string(kind), from, to)
	if err != nil {
		return nil, dberr.Wrap(err, "product_totals_between")
	}
	return scanProductTotals(rows)
}

// TopProducts implements [Repository].
func (repository *PostgresRepository) TopProducts(context context.Context, kind RecordKind, limit int) ([]*ProductTotal, error) {
	query := fmt.Sprintf(`
		SELECT p.%s, p.%s, SUM(r.%s) AS quantity
		FROM %s r
		JOIN %s p ON p.%s = r.%s
		WHERE r.%s = $1
		GROUP BY p.%s, p.%s
		ORDER BY quantity DESC, p.%s ASC
		LIMIT $2`,
		productTable.ID, productTable.Name, recordTable.Quantity,
		recordTable.Table,
		productTable.Table, productTable.ID, recordTable.ProductID,
		recordTable.Kind,
		productTable.ID, productTable.Name,
		productTable.Name,
	)

	rows, err := repository.db.Query(context, query, string(kind), limit)
	if err != nil {
		return nil, dberr.Wrap(err, "top_products")
	}
	return scanProductTotals(rows)
}

// # Helpers

// applyStockDelta locks the product row, checks the resulting stock and writes it.
func applyStockDelta(context context.Context, transaction pgx.Tx, productID string, delta int64) (*Product, error) {
	lockQuery := fmt.Sprintf(`SELECT %s FROM %s WHERE %s = $1 FOR UPDATE`,
		productTable.Stock, productTable.Table, productTable.ID)

	var stock int64
	if err := transaction.QueryRow(context, lockQuery, productID).Scan(&stock); err != nil {
		if dberr.IsNotFound(err) {
			return nil, ErrProductNotFound
		}
		return nil, dberr.Wrap(err, "lock_product")
	}

	if stock+delta < 0 {
		return nil, ErrInsufficientStock
	}

	updateQuery := fmt.Sprintf(`
		UPDATE %s SET %s = $2, %s = NOW()
		WHERE %s = $1
		RETURNING %s`,
		productTable.Table, productTable.Stock, productTable.UpdatedAt,
		productTable.ID,
		productTable.Select(),
	)

	product := &Product{}
	if err := transaction.QueryRow(context, updateQuery, productID, stock+delta).Scan(productFields(product)...); err != nil {
		if dberr.IsCheckViolation(err) {
			return nil, ErrInsufficientStock
		}
		return nil, dberr.Wrap(err, "update_product_stock")
	}
	return product, nil
}

func scanProductTotals(rows pgx.Rows) ([]*ProductTotal, error) {
	defer rows.Close()

	totals := []*ProductTotal{}
	for rows.Next() {
		total := &ProductTotal{}
		if err := rows.Scan(&total.ProductID, &total.Name, &total.Quantity); err != nil {
			return nil, dberr.Wrap(err, "scan_product_total")
		}
		totals = append(totals, total)
	}
	if err := rows.Err(); err != nil {
		return nil, dberr.Wrap(err, "iterate_product_totals")
	}

	return totals, nil
}

// productFields returns scan targets in [schema.InventoryProductTable.Columns] order.
func productFields(product *Product, extra ...any) []any {
	return append([]any{
		&product.ID, &product.Name, &product.Slug, &product.Unit,
		&product.Stock, &product.CreatedBy, &product.CreatedAt, &product.UpdatedAt,
	}, extra...)
}

// recordFields returns scan targets in [schema.InventoryRecordTable.Columns] order.
func recordFields(record *Record, extra ...any) []any {
	return append([]any{
		&record.ID, &record.ProductID, &record.UserID, &record.Kind,
		&record.Quantity, &record.RecordedOn, &record.Note, &record.CreatedAt,
	}, extra...)
}
