// Package extractor parses raw page content into product snapshots.
//
// Site-specific extraction lives in strategies selected by URL host or
// content signature; pages no strategy claims fall through to a generic
// structured-data strategy. Extraction is deterministic for identical
// input bytes and has no side effects.
package extractor

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/souktrack/souktrack/internal/platform"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/souktrack/souktrack/internal/platform/urlnorm"
)

// page is decoded input handed to strategies.
type page struct {
	url         string
	host        string
	contentType string
	body        []byte
	doc         *goquery.Document
}

// strategy extracts a product snapshot from one kind of page.
type strategy interface {
	// name identifies the strategy in errors.
	name() string
	// matches reports whether the strategy claims the page.
	matches(p *page) bool
	// extract parses the page into a snapshot. Missing optional fields
	// are left zero; the required name field is validated centrally.
	extract(p *page) (*models.Snapshot, error)
}

// Extractor dispatches pages to extraction strategies.
type Extractor struct {
	strategies []strategy
	fallback   strategy
}

// NewExtractor returns an Extractor with all site strategies registered.
func NewExtractor() *Extractor {
	return &Extractor{
		strategies: []strategy{
			jsonStrategy{},
			regineStrategy{},
			darenStrategy{},
			woocommerceStrategy{},
		},
		fallback: genericStrategy{},
	}
}

// Extract parses raw page content fetched from pageURL into a snapshot.
// It fails with platform.MissingFieldError when no usable product name
// can be resolved; a page that loads but yields no product identity is
// not a silent success.
func (e *Extractor) Extract(body []byte, contentType, pageURL string) (*models.Snapshot, error) {
	pg, err := decodePage(body, contentType, pageURL)
	if err != nil {
		return nil, err
	}

	str := e.fallback
	for _, candidate := range e.strategies {
		if candidate.matches(pg) {
			str = candidate
			break
		}
	}

	snapshot, err := str.extract(pg)
	if err != nil {
		return nil, fmt.Errorf("strategy %s: %w", str.name(), err)
	}

	normalizeSnapshot(snapshot, pg)

	if snapshot.Name == "" {
		return nil, fmt.Errorf("strategy %s: %w", str.name(), &platform.MissingFieldError{Field: "name"})
	}

	return snapshot, nil
}

func decodePage(body []byte, contentType, pageURL string) (*page, error) {
	host, err := urlnorm.Host(pageURL)
	if err != nil {
		return nil, err
	}

	pg := &page{
		url:         pageURL,
		host:        host,
		contentType: contentType,
		body:        body,
	}

	if !strings.Contains(contentType, "json") {
		doc, err := goquery.NewDocumentFromReader(bytes.NewReader(body))
		if err != nil {
			return nil, fmt.Errorf("can't parse html: %w", err)
		}
		pg.doc = doc
	}

	return pg, nil
}

// normalizeSnapshot applies field policies shared by all strategies.
func normalizeSnapshot(snapshot *models.Snapshot, pg *page) {
	snapshot.URL = pg.url
	snapshot.Name = strings.TrimSpace(snapshot.Name)
	snapshot.Brand = strings.TrimSpace(snapshot.Brand)
	snapshot.Description = strings.TrimSpace(snapshot.Description)

	if snapshot.Stock == "" {
		snapshot.Stock = models.StockUnknown
	}

	// out-of-bounds ratings are clamped, not rejected
	if snapshot.Rating != nil {
		clamped := min(max(*snapshot.Rating, 0), 5)
		snapshot.Rating = &clamped
	}

	if snapshot.ReviewCount != nil && *snapshot.ReviewCount < 0 {
		snapshot.ReviewCount = nil
	}

	if snapshot.Price != nil && *snapshot.Price < 0 {
		snapshot.Price = nil
		snapshot.Currency = ""
	}
}

// splitKeywords splits a comma-separated keyword list, dropping blanks.
func splitKeywords(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}

	parts := strings.Split(raw, ",")
	keywords := make([]string, 0, len(parts))
	for _, part := range parts {
		if trimmed := strings.TrimSpace(part); trimmed != "" {
			keywords = append(keywords, trimmed)
		}
	}

	return keywords
}
