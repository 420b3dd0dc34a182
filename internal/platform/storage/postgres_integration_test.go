package storage_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"github.com/samber/lo"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/souktrack/souktrack/internal/platform/models/modelstesting"
	"github.com/souktrack/souktrack/internal/platform/storage"
	"github.com/souktrack/souktrack/internal/platform/storage/storagetesting"
	"github.com/stretchr/testify/suite"

	_ "github.com/lib/pq"
)

func TestPostgresIntegration(t *testing.T) {
	suite.Run(t, new(PostgresTestSuite))
}

type PostgresTestSuite struct {
	suite.Suite
	DB *sql.DB
}

func (s *PostgresTestSuite) SetupSuite() {
	s.DB = storagetesting.Open(s.T())
	if err := storage.CreateTables(context.Background(), s.DB); err != nil {
		s.FailNow("create tables", err)
	}
	storagetesting.CleanupData(s.T(), s.DB)
}

func (s *PostgresTestSuite) TearDownSuite() {
	storagetesting.CleanupData(s.T(), s.DB)
	if err := s.DB.Close(); err != nil {
		s.FailNow("close DB", err)
	}
}

func (s *PostgresTestSuite) TestIntegrationUpsert() {
	storagetesting.CleanupData(s.T(), s.DB)
	store := storage.NewPostgres(s.DB)

	snapshot := modelstesting.FakeSnapshot(func(sn *models.Snapshot) {
		sn.URL = "https://shop.example.com/item/42?utm_source=mail"
		sn.Price = lo.ToPtr(100.0)
		sn.Currency = "SAR"
	})

	created, outcome, err := store.Upsert(context.Background(), snapshot)
	s.Require().NoError(err, "upserting a new product shouldn't return errors")
	s.Equal(models.OutcomeCreated, outcome, "first upsert of a URL should create the product")
	s.Equal("https://shop.example.com/item/42", created.URL, "product URL should be canonicalized")

	update := snapshot
	update.Price = lo.ToPtr(80.0)
	update.FetchedAt = snapshot.FetchedAt.Add(time.Hour)

	refreshed, outcome, err := store.Upsert(context.Background(), update)
	s.Require().NoError(err, "refreshing the product shouldn't return errors")
	s.Equal(models.OutcomePriceChanged, outcome, "changed price should be reported")
	s.Equal(created.ID, refreshed.ID, "refresh should keep the product id")
	s.Require().NotNil(refreshed.CurrentPrice, "refreshed product should keep a price")
	s.Equal(80.0, *refreshed.CurrentPrice, "refresh should store the new price")

	dbProducts := storagetesting.GetProducts(s.T(), s.DB)
	s.Len(dbProducts, 1, "both upserts should write to the same row")
}

func (s *PostgresTestSuite) TestIntegrationGetAndList() {
	storagetesting.CleanupData(s.T(), s.DB)
	store := storage.NewPostgres(s.DB)

	first, _, err := store.Upsert(context.Background(), modelstesting.FakeSnapshot())
	s.Require().NoError(err, "seeding the first product shouldn't return errors")

	// identical creation timestamp: insertion order must still hold
	second, _, err := store.Upsert(context.Background(), modelstesting.FakeSnapshot(func(sn *models.Snapshot) {
		sn.FetchedAt = first.CreatedAt
	}))
	s.Require().NoError(err, "seeding the second product shouldn't return errors")

	product, err := store.Get(context.Background(), first.ID)
	s.Require().NoError(err, "getting a stored product shouldn't return errors")
	s.Equal(first.ID, product.ID, "get should return the requested product")

	products, err := store.List(context.Background())
	s.Require().NoError(err, "listing products shouldn't return errors")
	s.Require().Len(products, 2, "both products should be listed")
	s.Equal(first.ID, products[0].ID, "products should be listed oldest first")
	s.Equal(second.ID, products[1].ID, "products should be listed oldest first")
}

func (s *PostgresTestSuite) TestIntegrationAppendAndHistory() {
	storagetesting.CleanupData(s.T(), s.DB)
	store := storage.NewPostgres(s.DB)

	product, _, err := store.Upsert(context.Background(), modelstesting.FakeSnapshot())
	s.Require().NoError(err, "seeding the product shouldn't return errors")

	observedAt := time.Date(2026, 5, 11, 10, 30, 0, 0, time.UTC)
	point := models.PricePoint{ProductID: product.ID, Price: 100, Currency: "SAR", ObservedAt: observedAt}
	s.Require().NoError(store.Append(context.Background(), point), "appending a point shouldn't return errors")

	retried := point
	retried.ObservedAt = observedAt.Add(time.Hour)
	s.Require().NoError(store.Append(context.Background(), retried), "retried append shouldn't return errors")

	drop := point
	drop.Price = 80
	drop.ObservedAt = observedAt.Add(2 * time.Hour)
	s.Require().NoError(store.Append(context.Background(), drop), "appending a price drop shouldn't return errors")

	history, err := store.History(context.Background(), product.ID)
	s.Require().NoError(err, "getting history shouldn't return errors")
	s.Require().Len(history, 2, "identical consecutive prices should be recorded once")
	s.Equal(100.0, history[0].Price, "history should start with the first observed price")
	s.Equal(80.0, history[1].Price, "history should end with the latest observed price")
}
