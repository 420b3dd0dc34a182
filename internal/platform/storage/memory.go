package storage

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/souktrack/souktrack/internal/platform"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/souktrack/souktrack/internal/platform/urlnorm"
)

// Memory is an in-process catalog and price ledger. It backs tests and
// DATABASE_URL-less runs with the same contract as Postgres: one product
// per canonical URL, serialized writes per URL, append-only history.
type Memory struct {
	mu       sync.RWMutex
	byURL    map[string]*models.Product
	order    []string
	history  map[string][]models.PricePoint
	urlLocks map[string]*sync.Mutex
}

// NewMemory returns new empty Memory.
func NewMemory() *Memory {
	return &Memory{
		byURL:    map[string]*models.Product{},
		history:  map[string][]models.PricePoint{},
		urlLocks: map[string]*sync.Mutex{},
	}
}

// Upsert inserts or refreshes the product behind the snapshot's URL,
// keyed by its canonical form. Writes to the same canonical URL are
// serialized; writes to different URLs proceed independently.
func (m *Memory) Upsert(ctx context.Context, snapshot models.Snapshot) (*models.Product, models.Outcome, error) {
	canonical, err := urlnorm.Canonicalize(snapshot.URL)
	if err != nil {
		return nil, 0, err
	}
	host, err := urlnorm.Host(snapshot.URL)
	if err != nil {
		return nil, 0, err
	}

	// the per-URL lock serializes the read-modify-write cycle for one
	// canonical URL; the store mutex guards only map access, so upserts
	// of unrelated products proceed concurrently
	urlLock := m.lockFor(canonical)
	urlLock.Lock()
	defer urlLock.Unlock()

	m.mu.RLock()
	existing := m.byURL[canonical]
	m.mu.RUnlock()

	if existing == nil {
		product := productFromSnapshot(snapshot, canonical, host)

		m.mu.Lock()
		m.byURL[canonical] = product
		m.order = append(m.order, canonical)
		m.mu.Unlock()

		copied := *product
		return &copied, models.OutcomeCreated, nil
	}

	outcome := models.OutcomeUnchanged
	if priceChanged(existing.CurrentPrice, existing.Currency, snapshot.Price, snapshot.Currency) {
		outcome = models.OutcomePriceChanged
	}

	// swap in a fresh record instead of mutating in place, so readers
	// holding the old pointer never observe a torn write
	updated := *existing
	applySnapshot(&updated, snapshot)

	m.mu.Lock()
	m.byURL[canonical] = &updated
	m.mu.Unlock()

	copied := updated
	return &copied, outcome, nil
}

// Get returns the product with the provided id or platform.ErrNotFound.
func (m *Memory) Get(ctx context.Context, id string) (*models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	for _, canonical := range m.order {
		if m.byURL[canonical].ID == id {
			copied := *m.byURL[canonical]
			return &copied, nil
		}
	}

	return nil, fmt.Errorf("%w: %s", platform.ErrNotFound, id)
}

// List returns all tracked products in insertion order.
func (m *Memory) List(ctx context.Context) ([]models.Product, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	products := make([]models.Product, 0, len(m.order))
	for _, canonical := range m.order {
		products = append(products, *m.byURL[canonical])
	}

	return products, nil
}

// Append records a price observation for a product. It is idempotent
// with respect to retried ingestions: when the latest recorded point
// carries the identical price and currency, no duplicate is written.
func (m *Memory) Append(ctx context.Context, point models.PricePoint) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	points := m.history[point.ProductID]
	if len(points) > 0 {
		last := points[len(points)-1]
		if last.Price == point.Price && last.Currency == point.Currency {
			return nil
		}
		if point.ObservedAt.Before(last.ObservedAt) {
			point.ObservedAt = last.ObservedAt
		}
	}

	m.history[point.ProductID] = append(points, point)
	return nil
}

// History returns all price observations of a product, oldest first.
func (m *Memory) History(ctx context.Context, productID string) ([]models.PricePoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()

	points := make([]models.PricePoint, len(m.history[productID]))
	copy(points, m.history[productID])

	sort.SliceStable(points, func(i, j int) bool {
		return points[i].ObservedAt.Before(points[j].ObservedAt)
	})

	return points, nil
}

func (m *Memory) lockFor(canonical string) *sync.Mutex {
	m.mu.Lock()
	defer m.mu.Unlock()

	lock, ok := m.urlLocks[canonical]
	if !ok {
		lock = &sync.Mutex{}
		m.urlLocks[canonical] = lock
	}

	return lock
}

func productFromSnapshot(snapshot models.Snapshot, canonical, host string) *models.Product {
	return &models.Product{
		ID:           uuid.NewString(),
		URL:          canonical,
		Website:      host,
		Name:         snapshot.Name,
		Brand:        snapshot.Brand,
		Description:  snapshot.Description,
		Keywords:     snapshot.Keywords,
		ImageURL:     snapshot.ImageURL,
		CurrentPrice: snapshot.Price,
		Currency:     snapshot.Currency,
		Stock:        snapshot.Stock,
		Rating:       snapshot.Rating,
		ReviewCount:  snapshot.ReviewCount,
		CreatedAt:    snapshot.FetchedAt,
		UpdatedAt:    snapshot.FetchedAt,
	}
}

// applySnapshot overwrites the mutable descriptive fields of product,
// preserving ID and CreatedAt.
func applySnapshot(product *models.Product, snapshot models.Snapshot) {
	product.Name = snapshot.Name
	product.Brand = snapshot.Brand
	product.Description = snapshot.Description
	product.Keywords = snapshot.Keywords
	product.ImageURL = snapshot.ImageURL
	product.Stock = snapshot.Stock
	product.Rating = snapshot.Rating
	product.ReviewCount = snapshot.ReviewCount
	product.UpdatedAt = snapshot.FetchedAt

	if snapshot.Price != nil {
		product.CurrentPrice = snapshot.Price
		product.Currency = snapshot.Currency
	}
}

// priceChanged reports whether a snapshot observes a different price
// than the one stored. A snapshot without a price never counts as a
// change; the last observed price is kept.
func priceChanged(storedPrice *float64, storedCurrency string, newPrice *float64, newCurrency string) bool {
	if newPrice == nil {
		return false
	}
	if storedPrice == nil {
		return true
	}
	return *storedPrice != *newPrice || storedCurrency != newCurrency
}
