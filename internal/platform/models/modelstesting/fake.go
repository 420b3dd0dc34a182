package modelstesting

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/go-faker/faker/v4"
	"github.com/samber/lo"
	"github.com/souktrack/souktrack/internal/platform/models"
)

// FakeSnapshot returns models.Snapshot with fake data.
func FakeSnapshot(ops ...func(s *models.Snapshot)) models.Snapshot {
	snapshot := models.Snapshot{
		URL:         fakeURL(),
		Name:        faker.Word(),
		Brand:       faker.Word(),
		Description: faker.Sentence(),
		Keywords:    fakeKeywords(),
		ImageURL:    fakeURL(),
		Price:       lo.ToPtr(fakePrice()),
		Currency:    "SAR",
		Stock:       models.StockInStock,
		Rating:      lo.ToPtr(float64(rand.Intn(50)) / 10),
		ReviewCount: lo.ToPtr(rand.Intn(500)),
		FetchedAt:   time.Now().UTC().Truncate(time.Second),
	}

	for _, op := range ops {
		op(&snapshot)
	}

	return snapshot
}

// FakeProduct returns models.Product with fake data.
func FakeProduct(ops ...func(p *models.Product)) models.Product {
	now := time.Now().UTC().Truncate(time.Second)
	product := models.Product{
		ID:           faker.UUIDHyphenated(),
		URL:          fakeURL(),
		Website:      fmt.Sprintf("%s.com", faker.Word()),
		Name:         faker.Word(),
		Brand:        faker.Word(),
		Description:  faker.Sentence(),
		Keywords:     fakeKeywords(),
		ImageURL:     fakeURL(),
		CurrentPrice: lo.ToPtr(fakePrice()),
		Currency:     "SAR",
		Stock:        models.StockInStock,
		Rating:       lo.ToPtr(float64(rand.Intn(50)) / 10),
		ReviewCount:  lo.ToPtr(rand.Intn(500)),
		CreatedAt:    now,
		UpdatedAt:    now,
	}

	for _, op := range ops {
		op(&product)
	}

	return product
}

// FakePricePoint returns models.PricePoint with fake data.
func FakePricePoint(ops ...func(p *models.PricePoint)) models.PricePoint {
	point := models.PricePoint{
		ProductID:  faker.UUIDHyphenated(),
		Price:      fakePrice(),
		Currency:   "SAR",
		ObservedAt: time.Now().UTC().Truncate(time.Second),
	}

	for _, op := range ops {
		op(&point)
	}

	return point
}

func fakeURL() string {
	return fmt.Sprintf("https://%s.com/products/%s", faker.Word(), faker.Word())
}

func fakePrice() float64 {
	return float64(rand.Intn(99900)+100) / 100
}

func fakeKeywords() []string {
	keywordsLen := rand.Intn(4)
	keywords := make([]string, 0, keywordsLen)
	for i := 0; i < keywordsLen; i++ {
		keywords = append(keywords, faker.Word())
	}

	return keywords
}
