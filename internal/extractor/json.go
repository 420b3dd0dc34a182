package extractor

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/souktrack/souktrack/internal/platform/models"
)

// jsonProduct is the payload shape of JSON product endpoints.
// Aliases cover the common field spellings seen across storefront APIs.
type jsonProduct struct {
	Name        string   `json:"name"`
	Title       string   `json:"title"`
	Brand       string   `json:"brand"`
	Description string   `json:"description"`
	Keywords    []string `json:"keywords"`
	Tags        []string `json:"tags"`
	Image       string   `json:"image"`
	ImageURL    string   `json:"image_url"`
	Price       *float64 `json:"price"`
	Currency    string   `json:"currency"`
	InStock     *bool    `json:"in_stock"`
	Rating      *float64 `json:"rating"`
	ReviewCount *int     `json:"review_count"`
}

// jsonStrategy handles product endpoints which respond with JSON
// instead of HTML.
type jsonStrategy struct{}

func (jsonStrategy) name() string { return "json" }

func (jsonStrategy) matches(p *page) bool {
	return strings.Contains(p.contentType, "json")
}

func (jsonStrategy) extract(p *page) (*models.Snapshot, error) {
	var payload jsonProduct
	if err := json.Unmarshal(p.body, &payload); err != nil {
		return nil, fmt.Errorf("can't decode json payload: %w", err)
	}

	snapshot := models.Snapshot{
		Name:        firstNonEmpty(payload.Name, payload.Title),
		Brand:       payload.Brand,
		Description: payload.Description,
		Keywords:    payload.Keywords,
		ImageURL:    firstNonEmpty(payload.ImageURL, payload.Image),
		Price:       payload.Price,
		Currency:    strings.ToUpper(payload.Currency),
		Rating:      payload.Rating,
		ReviewCount: payload.ReviewCount,
	}

	if len(snapshot.Keywords) == 0 {
		snapshot.Keywords = payload.Tags
	}

	if payload.InStock != nil {
		if *payload.InStock {
			snapshot.Stock = models.StockInStock
		} else {
			snapshot.Stock = models.StockOutOfStock
		}
	}

	if snapshot.Price != nil && snapshot.Currency == "" {
		snapshot.Currency = "SAR"
	}

	return &snapshot, nil
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value)
		}
	}
	return ""
}
