package extractor

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/souktrack/souktrack/internal/platform/models"
)

// ldProduct is the schema.org Product subset read from JSON-LD blocks.
// Numeric fields arrive as numbers or strings depending on the
// storefront, so they are decoded leniently.
type ldProduct struct {
	Type        string          `json:"@type"`
	Graph       []ldProduct     `json:"@graph"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	Image       ldStringOrList  `json:"image"`
	Brand       ldBrand         `json:"brand"`
	Keywords    string          `json:"keywords"`
	Offers      ldOffers        `json:"offers"`
	Rating      ldAggregateRate `json:"aggregateRating"`
}

type ldBrand struct {
	Name string `json:"name"`
}

func (b *ldBrand) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err == nil {
		b.Name = name
		return nil
	}

	var obj struct {
		Name string `json:"name"`
	}
	if err := json.Unmarshal(data, &obj); err != nil {
		return nil // tolerate unknown brand shapes
	}
	b.Name = obj.Name
	return nil
}

type ldOffers struct {
	Price        ldNumber `json:"price"`
	Currency     string   `json:"priceCurrency"`
	Availability string   `json:"availability"`
}

func (o *ldOffers) UnmarshalJSON(data []byte) error {
	type plain ldOffers
	var single plain
	if err := json.Unmarshal(data, &single); err == nil {
		*o = ldOffers(single)
		return nil
	}

	var list []plain
	if err := json.Unmarshal(data, &list); err != nil || len(list) == 0 {
		return nil
	}
	*o = ldOffers(list[0])
	return nil
}

type ldAggregateRate struct {
	RatingValue ldNumber `json:"ratingValue"`
	ReviewCount ldNumber `json:"reviewCount"`
}

// ldNumber decodes a JSON number or a numeric string.
type ldNumber string

func (n *ldNumber) UnmarshalJSON(data []byte) error {
	var num json.Number
	if err := json.Unmarshal(data, &num); err == nil {
		*n = ldNumber(num.String())
		return nil
	}

	var str string
	if err := json.Unmarshal(data, &str); err == nil {
		*n = ldNumber(str)
	}
	return nil
}

func (n ldNumber) float64() (float64, bool) {
	value, err := strconv.ParseFloat(strings.TrimSpace(string(n)), 64)
	return value, err == nil
}

type ldStringOrList string

func (s *ldStringOrList) UnmarshalJSON(data []byte) error {
	var single string
	if err := json.Unmarshal(data, &single); err == nil {
		*s = ldStringOrList(single)
		return nil
	}

	var list []string
	if err := json.Unmarshal(data, &list); err != nil || len(list) == 0 {
		return nil
	}
	*s = ldStringOrList(list[0])
	return nil
}

// fillFromJSONLD fills snapshot fields from the first schema.org
// Product found in the document's JSON-LD blocks.
func fillFromJSONLD(snapshot *models.Snapshot, doc *goquery.Document) {
	doc.Find(`script[type="application/ld+json"]`).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
		var block ldProduct
		if err := json.Unmarshal([]byte(sel.Text()), &block); err != nil {
			return true
		}

		product, found := findLDProduct(block)
		if !found {
			return true
		}

		applyLDProduct(snapshot, product)
		return false
	})
}

func findLDProduct(block ldProduct) (ldProduct, bool) {
	if strings.EqualFold(block.Type, "Product") {
		return block, true
	}
	for _, nested := range block.Graph {
		if strings.EqualFold(nested.Type, "Product") {
			return nested, true
		}
	}
	return ldProduct{}, false
}

func applyLDProduct(snapshot *models.Snapshot, product ldProduct) {
	snapshot.Name = product.Name
	snapshot.Description = product.Description
	snapshot.Brand = product.Brand.Name
	snapshot.ImageURL = string(product.Image)
	snapshot.Keywords = splitKeywords(product.Keywords)

	if amount, ok := product.Offers.Price.float64(); ok && amount >= 0 {
		currency := strings.ToUpper(product.Offers.Currency)
		if currency == "" {
			currency = "SAR"
		}
		snapshot.Price = &amount
		snapshot.Currency = currency
	}

	switch {
	case strings.Contains(product.Offers.Availability, "InStock"):
		snapshot.Stock = models.StockInStock
	case strings.Contains(product.Offers.Availability, "OutOfStock"):
		snapshot.Stock = models.StockOutOfStock
	}

	if rating, ok := product.Rating.RatingValue.float64(); ok {
		snapshot.Rating = &rating
	}
	if count, ok := product.Rating.ReviewCount.float64(); ok {
		reviewCount := int(count)
		snapshot.ReviewCount = &reviewCount
	}
}
