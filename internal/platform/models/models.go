package models

import "time"

// StockStatus is product stock availability.
type StockStatus string

// Known stock statuses.
const (
	StockInStock    StockStatus = "in_stock"
	StockOutOfStock StockStatus = "out_of_stock"
	StockUnknown    StockStatus = "unknown"
)

// Snapshot is a single extraction result for one fetched page,
// not merged into persistent state yet.
type Snapshot struct {
	URL         string
	Name        string
	Brand       string
	Description string
	Keywords    []string
	ImageURL    string
	Price       *float64
	Currency    string
	Stock       StockStatus
	Rating      *float64
	ReviewCount *int
	FetchedAt   time.Time
}

// Product is tracked product model.
type Product struct {
	ID          string
	URL         string
	Website     string
	Name        string
	Brand       string
	Description string
	Keywords    []string
	ImageURL    string

	CurrentPrice *float64
	Currency     string
	Stock        StockStatus
	Rating       *float64
	ReviewCount  *int

	CreatedAt time.Time
	UpdatedAt time.Time
}

// PricePoint is a single price observation of a product.
type PricePoint struct {
	ProductID  string
	Price      float64
	Currency   string
	ObservedAt time.Time
}

// Outcome describes what an upsert did to the catalog.
type Outcome int

// Upsert outcomes.
const (
	// OutcomeCreated means a new product was added to the catalog.
	OutcomeCreated Outcome = iota
	// OutcomePriceChanged means an existing product was refreshed and its price changed.
	OutcomePriceChanged
	// OutcomeUnchanged means an existing product was refreshed without a price change.
	OutcomeUnchanged
)

// BatchResult is per-URL result of batch processing.
// Exactly one of Product and Err is set.
type BatchResult struct {
	URL     string
	Product *Product
	Message string
	Err     error
}
