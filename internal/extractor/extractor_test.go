package extractor_test

import (
	"testing"

	"github.com/samber/lo"
	"github.com/souktrack/souktrack/internal/extractor"
	"github.com/souktrack/souktrack/internal/platform"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const htmlContentType = "text/html; charset=utf-8"

func TestUnitExtractRegine(t *testing.T) {
	body := `<html><head><title>Regine</title></head><body>
		<h1>فستان سهرة مطرز</h1>
		<h1>480 ر.س</h1>
	</body></html>`

	snapshot, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://regine-sa.com/products/evening-dress")

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "فستان سهرة مطرز", snapshot.Name, "should extract name from first non-price h1")
	require.NotNil(t, snapshot.Price, "should extract price")
	assert.InDelta(t, 480, *snapshot.Price, 0.001, "should extract correct price")
	assert.Equal(t, "SAR", snapshot.Currency, "should resolve riyal currency")
	assert.Equal(t, models.StockUnknown, snapshot.Stock, "stock should default to unknown")
}

func TestUnitExtractDaren(t *testing.T) {
	body := `<html><head>
		<title>عباية كلاسيكية - متجر دارن</title>
		<meta property="og:image" content="https://darenfactory.com/img/abaya.jpg">
	</head><body><div class="price">٣٥٠</div></body></html>`

	snapshot, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://darenfactory.com/p/991")

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "عباية كلاسيكية", snapshot.Name, "should take leading title segment as name")
	require.NotNil(t, snapshot.Price, "should extract price")
	assert.InDelta(t, 350, *snapshot.Price, 0.001, "should translate arabic numerals")
	assert.Equal(t, "SAR", snapshot.Currency, "price should be in riyals")
	assert.Equal(t, "https://darenfactory.com/img/abaya.jpg", snapshot.ImageURL, "should pick og:image")
}

func TestUnitExtractWooCommerce(t *testing.T) {
	body := `<html><head><title>Moon Lamp - Factory Moon</title></head><body>
		<h1 class="product_title">مصباح القمر</h1>
		<p class="price">
			<del><span class="woocommerce-Price-amount">٤٥٠ ر.س</span></del>
			<ins><span class="woocommerce-Price-amount">٣٢٠ ر.س</span></ins>
		</p>
		<p class="stock in-stock">متوفر</p>
	</body></html>`

	snapshot, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://factory-moon.com/product/moon-lamp")

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "مصباح القمر", snapshot.Name, "should extract name from product title heading")
	require.NotNil(t, snapshot.Price, "should extract price")
	assert.InDelta(t, 320, *snapshot.Price, 0.001, "should pick the sale price, not the struck-through one")
	assert.Equal(t, "SAR", snapshot.Currency, "should resolve riyal currency")
	assert.Equal(t, models.StockInStock, snapshot.Stock, "should read woocommerce stock badge")
}

func TestUnitExtractGenericJSONLD(t *testing.T) {
	body := `<html><head>
		<script type="application/ld+json">
		{
			"@type": "Product",
			"name": "Wireless Headphones",
			"description": "Over-ear, noise cancelling.",
			"brand": {"name": "Soundry"},
			"image": "https://shop.example.com/img/headphones.jpg",
			"keywords": "audio, headphones, wireless",
			"offers": {"price": "149.00", "priceCurrency": "usd", "availability": "https://schema.org/InStock"},
			"aggregateRating": {"ratingValue": "4.6", "reviewCount": 213}
		}
		</script>
	</head><body><h1>ignored</h1></body></html>`

	snapshot, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://shop.example.com/p/headphones")

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "Wireless Headphones", snapshot.Name, "should prefer structured data name")
	assert.Equal(t, "Soundry", snapshot.Brand, "should read brand object")
	assert.Equal(t, "Over-ear, noise cancelling.", snapshot.Description, "should read description")
	assert.Equal(t, []string{"audio", "headphones", "wireless"}, snapshot.Keywords, "should split keywords")
	require.NotNil(t, snapshot.Price, "should extract price")
	assert.InDelta(t, 149, *snapshot.Price, 0.001, "should parse string price")
	assert.Equal(t, "USD", snapshot.Currency, "should uppercase currency code")
	assert.Equal(t, models.StockInStock, snapshot.Stock, "should map schema.org availability")
	require.NotNil(t, snapshot.Rating, "should extract rating")
	assert.InDelta(t, 4.6, *snapshot.Rating, 0.001, "should parse rating value")
	assert.Equal(t, lo.ToPtr(213), snapshot.ReviewCount, "should parse review count")
}

func TestUnitExtractGenericMetaFallback(t *testing.T) {
	body := `<html><head>
		<title>Some Shop</title>
		<meta property="og:title" content="Leather Tote Bag">
		<meta property="og:description" content="Full grain leather.">
		<meta property="og:image" content="https://shop.example.com/tote.jpg">
		<meta property="product:price:amount" content="320.00">
		<meta property="product:price:currency" content="sar">
		<meta name="keywords" content="bags, leather">
	</head><body></body></html>`

	snapshot, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://shop.example.com/p/tote")

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "Leather Tote Bag", snapshot.Name, "should read og:title")
	assert.Equal(t, "Full grain leather.", snapshot.Description, "should read og:description")
	require.NotNil(t, snapshot.Price, "should read product price meta")
	assert.InDelta(t, 320, *snapshot.Price, 0.001, "should parse price meta")
	assert.Equal(t, "SAR", snapshot.Currency, "should uppercase meta currency")
	assert.Equal(t, []string{"bags", "leather"}, snapshot.Keywords, "should split keywords meta")
}

func TestUnitExtractGenericTextPrice(t *testing.T) {
	body := `<html><head><title>Plain Shop</title></head><body>
		<h1>Ceramic Mug</h1>
		<div>Our best seller, only $12.50 with free shipping.</div>
	</body></html>`

	snapshot, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://plain.example.com/p/mug")

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "Ceramic Mug", snapshot.Name, "should fall back to h1 for name")
	require.NotNil(t, snapshot.Price, "should find price in page text")
	assert.InDelta(t, 12.50, *snapshot.Price, 0.001, "should parse text price")
	assert.Equal(t, "USD", snapshot.Currency, "should resolve dollar currency")
}

func TestUnitExtractJSONPayload(t *testing.T) {
	body := `{
		"title": "Smart Kettle",
		"brand": "Brewy",
		"price": 89.9,
		"currency": "eur",
		"in_stock": false,
		"rating": 6.2,
		"review_count": 18,
		"tags": ["kitchen", "smart-home"]
	}`

	snapshot, err := extractor.NewExtractor().
		Extract([]byte(body), "application/json", "https://api.example.com/products/kettle")

	require.NoError(t, err, "shouldn't return any error")
	assert.Equal(t, "Smart Kettle", snapshot.Name, "should accept title alias")
	assert.Equal(t, "Brewy", snapshot.Brand, "should read brand")
	require.NotNil(t, snapshot.Price, "should read price")
	assert.InDelta(t, 89.9, *snapshot.Price, 0.001, "should read numeric price")
	assert.Equal(t, "EUR", snapshot.Currency, "should uppercase currency")
	assert.Equal(t, models.StockOutOfStock, snapshot.Stock, "should map in_stock flag")
	require.NotNil(t, snapshot.Rating, "should read rating")
	assert.InDelta(t, 5, *snapshot.Rating, 0.001, "out-of-bounds rating should be clamped to 5")
	assert.Equal(t, []string{"kitchen", "smart-home"}, snapshot.Keywords, "should fall back to tags")
}

func TestUnitExtractMissingName(t *testing.T) {
	tests := map[string]struct {
		body        string
		contentType string
	}{
		"price but no name": {
			body:        `<html><head></head><body><div class="price">$19.99</div></body></html>`,
			contentType: htmlContentType,
		},
		"empty page": {
			body:        `<html><head></head><body></body></html>`,
			contentType: htmlContentType,
		},
		"json without name": {
			body:        `{"price": 10, "currency": "USD"}`,
			contentType: "application/json",
		},
	}

	for name, tt := range tests {
		t.Run(name, func(t *testing.T) {
			snapshot, err := extractor.NewExtractor().
				Extract([]byte(tt.body), tt.contentType, "https://shop.example.com/p/1")

			var missingErr *platform.MissingFieldError
			require.ErrorAs(t, err, &missingErr, "should return missing field error")
			assert.Equal(t, "name", missingErr.Field, "missing field should be name")
			assert.Nil(t, snapshot, "shouldn't return any snapshot")
		})
	}
}

func TestUnitExtractPricelessPageKeepsName(t *testing.T) {
	body := `<html><head><title>No Price Shop</title></head><body>
		<h1>Handwoven Rug</h1>
	</body></html>`

	snapshot, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://shop.example.com/p/rug")

	require.NoError(t, err, "a priceless page with a name is still a product")
	assert.Equal(t, "Handwoven Rug", snapshot.Name, "should extract name")
	assert.Nil(t, snapshot.Price, "price should stay unset")
}

func TestUnitExtractIsDeterministic(t *testing.T) {
	body := `<html><head><title>Det Shop</title></head><body>
		<h1>Desk Lamp</h1><div>only €30</div>
	</body></html>`

	first, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://shop.example.com/p/lamp")
	require.NoError(t, err, "first pass shouldn't fail")

	second, err := extractor.NewExtractor().
		Extract([]byte(body), htmlContentType, "https://shop.example.com/p/lamp")
	require.NoError(t, err, "second pass shouldn't fail")

	assert.Equal(t, first, second, "identical input bytes should yield identical snapshots")
}
