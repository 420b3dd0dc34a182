package extractor

import (
	"regexp"
	"strings"

	"github.com/souktrack/souktrack/internal/platform/models"
)

// darenPricePattern matches runs of Arabic-Indic digits; darenfactory.com
// renders prices with Eastern Arabic numerals and no currency symbol.
var darenPricePattern = regexp.MustCompile(`[٠-٩]+`)

// darenStrategy handles darenfactory.com product pages.
type darenStrategy struct{}

func (darenStrategy) name() string { return "darenfactory" }

func (darenStrategy) matches(p *page) bool {
	return strings.HasSuffix(p.host, "darenfactory.com")
}

func (darenStrategy) extract(p *page) (*models.Snapshot, error) {
	snapshot := models.Snapshot{}

	// product name is the leading segment of the page title
	if title := strings.TrimSpace(p.doc.Find("title").First().Text()); title != "" {
		snapshot.Name = strings.TrimSpace(strings.SplitN(title, "-", 2)[0])
	}
	if snapshot.Name == "" {
		if ogTitle, exists := p.doc.Find(`meta[property="og:title"]`).Attr("content"); exists {
			snapshot.Name = strings.TrimSpace(strings.SplitN(ogTitle, "-", 2)[0])
		}
	}

	// first plausible numeral run of 2-4 digits is the price, in riyals
	for _, match := range darenPricePattern.FindAllString(string(p.body), -1) {
		digits := []rune(match)
		if len(digits) < 2 || len(digits) > 4 {
			continue
		}
		if amount, ok := parseAmount(match); ok {
			snapshot.Price = &amount
			snapshot.Currency = "SAR"
			break
		}
	}

	fillFromMeta(&snapshot, p.doc)

	return &snapshot, nil
}
