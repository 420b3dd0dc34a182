package extractor

import (
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/souktrack/souktrack/internal/platform/models"
)

// regineStrategy handles regine-sa.com product pages.
// The product name is the first h1; the price is rendered in a
// dedicated h1 carrying the riyal marker.
type regineStrategy struct{}

func (regineStrategy) name() string { return "regine-sa" }

func (regineStrategy) matches(p *page) bool {
	return strings.HasSuffix(p.host, "regine-sa.com")
}

func (regineStrategy) extract(p *page) (*models.Snapshot, error) {
	snapshot := models.Snapshot{}

	p.doc.Find("h1").Each(func(_ int, sel *goquery.Selection) {
		text := strings.TrimSpace(sel.Text())
		if text == "" {
			return
		}
		if hasPriceMarker(text) {
			if snapshot.Price == nil {
				if amount, currency, ok := parsePriceText(text); ok {
					snapshot.Price = &amount
					snapshot.Currency = currency
				}
			}
			return
		}
		if snapshot.Name == "" {
			snapshot.Name = text
		}
	})

	fillFromMeta(&snapshot, p.doc)

	return &snapshot, nil
}
