package extractor

import (
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/souktrack/souktrack/internal/platform/models"
)

// wooPriceSelectors are tried in order; the first element carrying a
// currency marker wins. Sale prices (.price ins) come first so that
// discounted pages pick the active price, not the struck-through one.
var wooPriceSelectors = []string{
	".price ins .woocommerce-Price-amount",
	".price ins",
	".woocommerce-Price-amount",
	"span.price",
	"p.price",
	"div.price",
	".product-price",
	"bdi",
	".amount",
}

// leadingAmountPattern trims runaway digit runs down to a plausible price.
var leadingAmountPattern = regexp.MustCompile(`\d+\.?\d{0,2}`)

// wooSanityLimit is the amount above which a parsed price is assumed to
// have swallowed neighbouring digits (e.g. a struck-through old price).
const wooSanityLimit = 10000

// woocommerceStrategy handles WooCommerce storefronts, selected for
// factory-moon.com and for any page with the WooCommerce markup signature.
type woocommerceStrategy struct{}

func (woocommerceStrategy) name() string { return "woocommerce" }

func (woocommerceStrategy) matches(p *page) bool {
	if strings.HasSuffix(p.host, "factory-moon.com") {
		return true
	}
	return p.doc != nil && p.doc.Find(".woocommerce-Price-amount").Length() > 0
}

func (woocommerceStrategy) extract(p *page) (*models.Snapshot, error) {
	snapshot := models.Snapshot{}

	snapshot.Name = firstNonEmpty(
		p.doc.Find("h1.product_title").First().Text(),
		p.doc.Find("h1").First().Text(),
		metaContent(p.doc, `meta[property="og:title"]`),
		p.doc.Find("title").First().Text(),
	)

	for _, selector := range wooPriceSelectors {
		text := ""
		p.doc.Find(selector).EachWithBreak(func(_ int, sel *goquery.Selection) bool {
			candidate := strings.TrimSpace(sel.Text())
			if candidate != "" && hasPriceMarker(candidate) {
				text = candidate
				return false
			}
			return true
		})
		if text == "" {
			continue
		}

		amount, currency, ok := parsePriceText(text)
		if !ok {
			continue
		}
		if amount > wooSanityLimit {
			if lead := leadingAmountPattern.FindString(text); lead != "" {
				if trimmed, trimmedOK := parseAmount(lead); trimmedOK {
					amount = trimmed
				}
			}
		}

		snapshot.Price = &amount
		snapshot.Currency = currency
		break
	}

	switch {
	case p.doc.Find(".stock.in-stock").Length() > 0:
		snapshot.Stock = models.StockInStock
	case p.doc.Find(".stock.out-of-stock").Length() > 0:
		snapshot.Stock = models.StockOutOfStock
	}

	fillFromMeta(&snapshot, p.doc)

	return &snapshot, nil
}
