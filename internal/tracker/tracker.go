package tracker

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/souktrack/souktrack/internal/fetcher"
	"github.com/souktrack/souktrack/internal/platform"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/souktrack/souktrack/internal/platform/urlnorm"
	"golang.org/x/sync/errgroup"
	"golang.org/x/sync/semaphore"
)

// MaxBatchSize is the most URLs one batch may carry.
const MaxBatchSize = 10

// perHostLimit caps concurrent requests against a single shop host,
// so one batch can't hammer one store.
const perHostLimit = 2

// Fetcher fetches raw product pages.
type Fetcher interface {
	Fetch(ctx context.Context, pageURL string) (*fetcher.Page, error)
}

// Extractor parses raw page content into product snapshots.
type Extractor interface {
	Extract(body []byte, contentType, pageURL string) (*models.Snapshot, error)
}

// Clock provides times.
type Clock interface {
	// Now returns current UTC time.
	Now() time.Time
}

// Catalog is the product store.
type Catalog interface {
	// Upsert inserts or refreshes the product behind the snapshot's URL
	// and reports whether it was created and whether its price changed.
	Upsert(ctx context.Context, snapshot models.Snapshot) (*models.Product, models.Outcome, error)
}

// Ledger is the append-only price history.
type Ledger interface {
	// Append records a price observation for a product.
	Append(ctx context.Context, point models.PricePoint) error
}

// Option is custom configuration of Tracker.
type Option func(t *Tracker)

// Tracker fetches, extracts and stores batches of product pages.
type Tracker struct {
	fetcher   Fetcher
	extractor Extractor
	catalog   Catalog
	ledger    Ledger
	poolSize  int
	clock     Clock
}

// NewTracker returns new Tracker. poolSize caps how many pages of one
// batch are processed concurrently.
func NewTracker(fetcher Fetcher, extractor Extractor, catalog Catalog, ledger Ledger, poolSize int, ops ...Option) *Tracker {
	tra := &Tracker{
		fetcher:   fetcher,
		extractor: extractor,
		catalog:   catalog,
		ledger:    ledger,
		poolSize:  poolSize,
		clock:     systemClock{},
	}

	for _, op := range ops {
		op(tra)
	}

	return tra
}

// ProcessBatch ingests every URL of the batch and returns one result per
// URL, in the batch's order. A failing URL never aborts the others; its
// failure is carried in its result. The batch as a whole is rejected
// before any network call when it is empty or exceeds MaxBatchSize.
func (t *Tracker) ProcessBatch(ctx context.Context, urls []string) ([]models.BatchResult, error) {
	batch := make([]string, 0, len(urls))
	for _, rawURL := range urls {
		if trimmed := strings.TrimSpace(rawURL); trimmed != "" {
			batch = append(batch, trimmed)
		}
	}

	if len(batch) == 0 {
		return nil, platform.ErrEmptyBatch
	}
	if len(batch) > MaxBatchSize {
		return nil, fmt.Errorf("%w: got %d URLs, limit is %d", platform.ErrTooManyURLs, len(batch), MaxBatchSize)
	}

	results := make([]models.BatchResult, len(batch))
	hostLimits := hostLimits(batch)

	errGroup, egCtx := errgroup.WithContext(ctx)
	errGroup.SetLimit(t.poolSize)

	for ix, rawURL := range batch {
		ix, rawURL := ix, rawURL
		errGroup.Go(func() error {
			results[ix] = t.processURL(egCtx, rawURL, hostLimits)
			return nil
		})
	}

	// per-URL failures live in the results, not in the group error
	_ = errGroup.Wait()

	return results, nil
}

func (t *Tracker) processURL(ctx context.Context, rawURL string, hostLimits map[string]*semaphore.Weighted) models.BatchResult {
	result := models.BatchResult{URL: rawURL}

	host, err := urlnorm.Host(rawURL)
	if err != nil {
		result.Err = err
		return result
	}

	if err := hostLimits[host].Acquire(ctx, 1); err != nil {
		result.Err = fmt.Errorf("can't process page: %w", err)
		return result
	}
	defer hostLimits[host].Release(1)

	fetchedAt := t.clock.Now()

	page, err := t.fetcher.Fetch(ctx, rawURL)
	if err != nil {
		result.Err = fmt.Errorf("can't fetch page: %w", err)
		return result
	}

	snapshot, err := t.extractor.Extract(page.Body, page.ContentType, rawURL)
	if err != nil {
		result.Err = fmt.Errorf("can't extract product: %w", err)
		return result
	}
	snapshot.URL = rawURL
	snapshot.FetchedAt = fetchedAt

	product, outcome, err := t.catalog.Upsert(ctx, *snapshot)
	if err != nil {
		result.Err = fmt.Errorf("can't store product: %w", err)
		return result
	}

	if err := t.recordPrice(ctx, product, outcome, fetchedAt); err != nil {
		result.Err = err
		return result
	}

	result.Product = product
	result.Message = outcomeMessage(outcome)

	return result
}

// recordPrice appends a history point when a product is first seen or
// its price moved. Products observed without a price leave no point.
func (t *Tracker) recordPrice(ctx context.Context, product *models.Product, outcome models.Outcome, fetchedAt time.Time) error {
	if outcome == models.OutcomeUnchanged || product.CurrentPrice == nil {
		return nil
	}

	point := models.PricePoint{
		ProductID:  product.ID,
		Price:      *product.CurrentPrice,
		Currency:   product.Currency,
		ObservedAt: fetchedAt,
	}

	if err := t.ledger.Append(ctx, point); err != nil {
		return fmt.Errorf("can't record price: %w", err)
	}

	return nil
}

func hostLimits(batch []string) map[string]*semaphore.Weighted {
	limits := map[string]*semaphore.Weighted{}
	for _, rawURL := range batch {
		host, err := urlnorm.Host(rawURL)
		if err != nil {
			continue
		}
		if _, ok := limits[host]; !ok {
			limits[host] = semaphore.NewWeighted(perHostLimit)
		}
	}

	return limits
}

func outcomeMessage(outcome models.Outcome) string {
	switch outcome {
	case models.OutcomeCreated:
		return "created"
	case models.OutcomePriceChanged:
		return "updated, price changed"
	default:
		return "updated, no price change"
	}
}

// WithClock sets Tracker's custom Clock.
func WithClock(c Clock) Option {
	return func(t *Tracker) {
		t.clock = c
	}
}
