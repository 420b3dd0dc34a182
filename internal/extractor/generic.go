package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/souktrack/souktrack/internal/platform/models"
)

// genericStrategy is the fallback for hosts without a dedicated
// strategy. It reads structured data first (JSON-LD, then Open Graph
// and meta tags), falls back to visible markup for the name and scans
// page text for a currency-marked price as a last resort.
type genericStrategy struct{}

func (genericStrategy) name() string { return "generic" }

func (genericStrategy) matches(*page) bool { return true }

func (genericStrategy) extract(p *page) (*models.Snapshot, error) {
	snapshot := models.Snapshot{}

	fillFromJSONLD(&snapshot, p.doc)
	fillFromMeta(&snapshot, p.doc)

	if snapshot.Name == "" {
		snapshot.Name = firstNonEmpty(
			p.doc.Find("h1").First().Text(),
			p.doc.Find("title").First().Text(),
		)
	}

	if snapshot.Price == nil {
		if amount, currency, ok := findPrice(p.doc.Text()); ok {
			snapshot.Price = &amount
			snapshot.Currency = currency
		}
	}

	return &snapshot, nil
}

// fillFromMeta fills still-empty snapshot fields from Open Graph,
// product and plain meta tags. Shared by all html strategies.
func fillFromMeta(snapshot *models.Snapshot, doc *goquery.Document) {
	if snapshot.Name == "" {
		snapshot.Name = metaContent(doc, `meta[property="og:title"]`)
	}
	if snapshot.Description == "" {
		snapshot.Description = firstNonEmpty(
			metaContent(doc, `meta[property="og:description"]`),
			metaContent(doc, `meta[name="description"]`),
		)
	}
	if snapshot.ImageURL == "" {
		snapshot.ImageURL = metaContent(doc, `meta[property="og:image"]`)
	}
	if snapshot.Brand == "" {
		snapshot.Brand = metaContent(doc, `meta[property="product:brand"]`)
	}
	if len(snapshot.Keywords) == 0 {
		snapshot.Keywords = splitKeywords(metaContent(doc, `meta[name="keywords"]`))
	}

	if snapshot.Price == nil {
		amountText := metaContent(doc, `meta[property="product:price:amount"]`)
		if amount, ok := parseAmount(amountText); ok && amountText != "" {
			currency := strings.ToUpper(metaContent(doc, `meta[property="product:price:currency"]`))
			if currency == "" {
				currency = "SAR"
			}
			snapshot.Price = &amount
			snapshot.Currency = currency
		}
	}

	if snapshot.Stock == "" {
		switch metaContent(doc, `meta[property="product:availability"]`) {
		case "in stock", "instock":
			snapshot.Stock = models.StockInStock
		case "out of stock", "oos":
			snapshot.Stock = models.StockOutOfStock
		}
	}
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}
