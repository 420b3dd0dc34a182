package storage

import (
	"strings"

	"github.com/samber/lo"
	"github.com/souktrack/souktrack/internal/platform/models"

	pgmodels "github.com/souktrack/souktrack/internal/platform/storage/gen/postgres/public/model"
)

func toDBProduct(product *models.Product) *pgmodels.Product {
	dbProduct := &pgmodels.Product{
		ID:           product.ID,
		URL:          product.URL,
		Website:      product.Website,
		Name:         product.Name,
		Brand:        product.Brand,
		Description:  product.Description,
		Keywords:     strings.Join(product.Keywords, ","),
		ImageURL:     product.ImageURL,
		CurrentPrice: product.CurrentPrice,
		Currency:     product.Currency,
		StockStatus:  string(product.Stock),
		Rating:       product.Rating,
		CreatedAt:    product.CreatedAt,
		UpdatedAt:    product.UpdatedAt,
	}

	if product.ReviewCount != nil {
		dbProduct.ReviewCount = lo.ToPtr(int32(*product.ReviewCount))
	}

	return dbProduct
}

func fromDBProduct(dbProduct *pgmodels.Product) *models.Product {
	product := &models.Product{
		ID:           dbProduct.ID,
		URL:          dbProduct.URL,
		Website:      dbProduct.Website,
		Name:         dbProduct.Name,
		Brand:        dbProduct.Brand,
		Description:  dbProduct.Description,
		Keywords:     splitKeywords(dbProduct.Keywords),
		ImageURL:     dbProduct.ImageURL,
		CurrentPrice: dbProduct.CurrentPrice,
		Currency:     dbProduct.Currency,
		Stock:        models.StockStatus(dbProduct.StockStatus),
		Rating:       dbProduct.Rating,
		CreatedAt:    dbProduct.CreatedAt,
		UpdatedAt:    dbProduct.UpdatedAt,
	}

	if dbProduct.ReviewCount != nil {
		product.ReviewCount = lo.ToPtr(int(*dbProduct.ReviewCount))
	}

	return product
}

func toDBPricePoint(point *models.PricePoint) *pgmodels.PricePoint {
	return &pgmodels.PricePoint{
		ProductID:  point.ProductID,
		Price:      point.Price,
		Currency:   point.Currency,
		ObservedAt: point.ObservedAt,
	}
}

func fromDBPricePoint(dbPoint *pgmodels.PricePoint) *models.PricePoint {
	return &models.PricePoint{
		ProductID:  dbPoint.ProductID,
		Price:      dbPoint.Price,
		Currency:   dbPoint.Currency,
		ObservedAt: dbPoint.ObservedAt,
	}
}

func splitKeywords(joined string) []string {
	if joined == "" {
		return nil
	}

	keywords := lo.Map(strings.Split(joined, ","), func(keyword string, _ int) string {
		return strings.TrimSpace(keyword)
	})

	return lo.Compact(keywords)
}
