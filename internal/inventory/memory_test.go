// Copyright (c) 2026 Storekeep. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package inventory_test

import (
	"context"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/taibuivan/storekeep/internal/inventory"
)

// memoryRepository mirrors the Postgres store's transactional rules in memory.
type memoryRepository struct {
	mu       sync.Mutex
	products map[string]*inventory.Product
	records  map[string]*inventory.Record
}

func newMemoryRepository() *memoryRepository {
	return &memoryRepository{
		products: make(map[string]*inventory.Product),
		records:  make(map[string]*inventory.Record),
	}
}

func (repository *memoryRepository) ListProducts(_ context.Context, limit, offset int) ([]*inventory.Product, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	all := make([]*inventory.Product, 0, len(repository.products))
	for _, product := range repository.products {
		clone := *product
		all = append(all, &clone)
	}
	sort.Slice(all, func(i, j int) bool { return all[i].Name < all[j].Name })

	return page(all, limit, offset), len(all), nil
}

func (repository *memoryRepository) SearchProducts(_ context.Context, term string, limit int) ([]*inventory.Product, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matches := []*inventory.Product{}
	for _, product := range repository.products {
		if strings.Contains(strings.ToLower(product.Name), strings.ToLower(term)) {
			clone := *product
			matches = append(matches, &clone)
		}
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].Name < matches[j].Name })

	return page(matches, limit, 0), nil
}

func (repository *memoryRepository) FindProduct(_ context.Context, id string) (*inventory.Product, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	product, ok := repository.products[id]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	clone := *product
	return &clone, nil
}

func (repository *memoryRepository) CreateProduct(_ context.Context, product *inventory.Product) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	for _, existing := range repository.products {
		if existing.Slug == product.Slug {
			return inventory.ErrDuplicateProduct
		}
	}
	clone := *product
	repository.products[product.ID] = &clone
	return nil
}

func (repository *memoryRepository) UpdateProduct(_ context.Context, product *inventory.Product) error {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	existing, ok := repository.products[product.ID]
	if !ok {
		return inventory.ErrProductNotFound
	}
	for id, other := range repository.products {
		if id != product.ID && other.Slug == product.Slug {
			return inventory.ErrDuplicateProduct
		}
	}
	existing.Name, existing.Slug, existing.Unit, existing.Stock = product.Name, product.Slug, product.Unit, product.Stock
	*product = *existing
	return nil
}

func (repository *memoryRepository) ListRecords(_ context.Context, filter inventory.RecordFilter, limit, offset int) ([]*inventory.Record, int, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	matches := []*inventory.Record{}
	for _, record := range repository.records {
		if filter.Kind != "" && record.Kind != filter.Kind {
			continue
		}
		clone := *record
		matches = append(matches, &clone)
	}
	sort.Slice(matches, func(i, j int) bool { return matches[i].RecordedOn.After(matches[j].RecordedOn) })

	return page(matches, limit, offset), len(matches), nil
}

func (repository *memoryRepository) CreateRecord(_ context.Context, record *inventory.Record) (*inventory.Product, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	product, err := repository.applyDelta(record.ProductID, record.Kind.Delta(record.Quantity))
	if err != nil {
		return nil, err
	}
	clone := *record
	repository.records[record.ID] = &clone
	return product, nil
}

func (repository *memoryRepository) DeleteRecord(_ context.Context, id string) (*inventory.Product, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	record, ok := repository.records[id]
	if !ok {
		return nil, inventory.ErrRecordNotFound
	}
	product, err := repository.applyDelta(record.ProductID, -record.Kind.Delta(record.Quantity))
	if err != nil {
		return nil, err
	}
	delete(repository.records, id)
	return product, nil
}

func (repository *memoryRepository) UpdateRecord(_ context.Context, record *inventory.Record) (*inventory.Product, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	stored, ok := repository.records[record.ID]
	if !ok {
		return nil, inventory.ErrRecordNotFound
	}

	deltas := map[string]int64{stored.ProductID: -stored.Kind.Delta(stored.Quantity)}
	deltas[record.ProductID] += stored.Kind.Delta(record.Quantity)

	// Check every product before touching any, as the transaction would.
	for productID, delta := range deltas {
		product, ok := repository.products[productID]
		if !ok {
			return nil, inventory.ErrProductNotFound
		}
		if product.Stock+delta < 0 {
			return nil, inventory.ErrInsufficientStock
		}
	}
	for productID, delta := range deltas {
		repository.products[productID].Stock += delta
	}

	stored.ProductID, stored.Quantity, stored.RecordedOn, stored.Note = record.ProductID, record.Quantity, record.RecordedOn, record.Note
	*record = *stored

	product := *repository.products[record.ProductID]
	return &product, nil
}

func (repository *memoryRepository) ProductTotalsBetween(_ context.Context, kind inventory.RecordKind, from, to time.Time) ([]*inventory.ProductTotal, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	totals := repository.totals(func(record *inventory.Record) bool {
		return record.Kind == kind && !record.RecordedOn.Before(from) && record.RecordedOn.Before(to)
	})
	sort.Slice(totals, func(i, j int) bool { return totals[i].Name < totals[j].Name })

	return totals, nil
}

func (repository *memoryRepository) TopProducts(_ context.Context, kind inventory.RecordKind, limit int) ([]*inventory.ProductTotal, error) {
	repository.mu.Lock()
	defer repository.mu.Unlock()

	totals := repository.totals(func(record *inventory.Record) bool { return record.Kind == kind })
	sort.Slice(totals, func(i, j int) bool { return totals[i].Quantity > totals[j].Quantity })

	return page(totals, limit, 0), nil
}

// totals must be called with the lock held.
func (repository *memoryRepository) totals(include func(*inventory.Record) bool) []*inventory.ProductTotal {
	byProduct := map[string]*inventory.ProductTotal{}
	for _, record := range repository.records {
		if !include(record) {
			continue
		}
		total, ok := byProduct[record.ProductID]
		if !ok {
			total = &inventory.ProductTotal{ProductID: record.ProductID, Name: repository.products[record.ProductID].Name}
			byProduct[record.ProductID] = total
		}
		total.Quantity += record.Quantity
	}

	totals := make([]*inventory.ProductTotal, 0, len(byProduct))
	for _, total := range byProduct {
		totals = append(totals, total)
	}
	return totals
}

// applyDelta must be called with the lock held.
func (repository *memoryRepository) applyDelta(productID string, delta int64) (*inventory.Product, error) {
	product, ok := repository.products[productID]
	if !ok {
		return nil, inventory.ErrProductNotFound
	}
	if product.Stock+delta < 0 {
		return nil, inventory.ErrInsufficientStock
	}
	product.Stock += delta
	clone := *product
	return &clone, nil
}

func page[T any](items []T, limit, offset int) []T {
	if offset >= len(items) {
		return []T{}
	}
	end := offset + limit
	if end > len(items) {
		end = len(items)
	}
	return items[offset:end]
}
