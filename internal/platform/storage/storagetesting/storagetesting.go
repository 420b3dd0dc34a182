package storagetesting

import (
	"database/sql"
	"os"
	"testing"

	"github.com/go-jet/jet/v2/qrm"
	pgmodels "github.com/souktrack/souktrack/internal/platform/storage/gen/postgres/public/model"
	"github.com/souktrack/souktrack/internal/platform/storage/gen/postgres/public/table"

	_ "github.com/lib/pq"
)

// Open opens connection to DB or skips the test when DATABASE_URL is not set.
func Open(t *testing.T) *sql.DB {
	t.Helper()

	dbURL := os.Getenv("DATABASE_URL")
	if dbURL == "" {
		t.Skip("set DATABASE_URL to run storage integration tests")
	}

	db, err := sql.Open("postgres", dbURL)
	if err != nil {
		t.Fatalf("can't open connection to %q: %s", dbURL, err)
	}

	return db
}

// InsertProducts is a helper test function to insert products.
func InsertProducts(t *testing.T, exc qrm.Executable, products ...pgmodels.Product) {
	t.Helper()

	if len(products) == 0 {
		return
	}

	toInsert := make([]pgmodels.Product, 0, len(products))
	toInsert = append(toInsert, products...)

	_, err := table.Product.INSERT(table.Product.AllColumns.Except(table.Product.Seq)).MODELS(toInsert).Exec(exc)
	if err != nil {
		t.Fatal("can't insert products", err)
	}
}

// InsertPricePoints is a helper test function to insert price points.
func InsertPricePoints(t *testing.T, exc qrm.Executable, points ...pgmodels.PricePoint) {
	t.Helper()

	if len(points) == 0 {
		return
	}

	toInsert := make([]pgmodels.PricePoint, 0, len(points))
	toInsert = append(toInsert, points...)

	_, err := table.PricePoint.INSERT(table.PricePoint.MutableColumns).MODELS(toInsert).Exec(exc)
	if err != nil {
		t.Fatal("can't insert price points", err)
	}
}

// GetProducts is a helper test function to get all products.
func GetProducts(t *testing.T, queryable qrm.Queryable) []pgmodels.Product {
	t.Helper()

	products := []pgmodels.Product{}
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.ID.IS_NOT_NULL()).
		Query(queryable, &products)
	if err != nil {
		t.Fatal("can't get products", err)
	}

	return products
}

// GetPricePoints is a helper test function to get all price points.
func GetPricePoints(t *testing.T, queryable qrm.Queryable) []pgmodels.PricePoint {
	t.Helper()

	points := []pgmodels.PricePoint{}
	err := table.PricePoint.SELECT(table.PricePoint.AllColumns).
		WHERE(table.PricePoint.ID.IS_NOT_NULL()).
		Query(queryable, &points)
	if err != nil {
		t.Fatal("can't get price points", err)
	}

	return points
}

// CleanupData removes all rows from the product and price_point tables.
func CleanupData(t *testing.T, exc qrm.Executable) {
	t.Helper()

	_, err := table.PricePoint.DELETE().WHERE(table.PricePoint.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete price points data", err)
	}

	_, err = table.Product.DELETE().WHERE(table.Product.ID.IS_NOT_NULL()).Exec(exc)
	if err != nil {
		t.Fatal("can't delete products data", err)
	}
}
