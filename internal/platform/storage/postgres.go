package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/souktrack/souktrack/internal/platform"
	"github.com/souktrack/souktrack/internal/platform/models"
	"github.com/souktrack/souktrack/internal/platform/storage/gen/postgres/public/table"
	"github.com/souktrack/souktrack/internal/platform/urlnorm"

	pgmodels "github.com/souktrack/souktrack/internal/platform/storage/gen/postgres/public/model"
	pg "github.com/go-jet/jet/v2/postgres"
	"github.com/go-jet/jet/v2/qrm"
)

// Postgres is the durable catalog and price ledger.
type Postgres struct {
	db *sql.DB
}

// NewPostgres returns new Postgres.
func NewPostgres(db *sql.DB) Postgres {
	return Postgres{db: db}
}

// Upsert inserts or refreshes the product behind the snapshot's URL,
// keyed by its canonical form. Same-URL writes are serialized by a row
// lock on the product row, so overlapping batches can't lose updates.
func (p Postgres) Upsert(ctx context.Context, snapshot models.Snapshot) (*models.Product, models.Outcome, error) {
	canonical, err := urlnorm.Canonicalize(snapshot.URL)
	if err != nil {
		return nil, 0, err
	}
	host, err := urlnorm.Host(snapshot.URL)
	if err != nil {
		return nil, 0, err
	}

	var (
		product *models.Product
		outcome models.Outcome
	)

	err = runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		existing, err := getProductForUpdate(ctx, tx, canonical)
		if err != nil && !errors.Is(err, qrm.ErrNoRows) {
			return fmt.Errorf("can't get product from database: %w", err)
		}

		if existing == nil {
			created, inserted, err := insertProduct(ctx, tx, snapshot, canonical, host)
			if err != nil {
				return fmt.Errorf("can't insert product into database: %w", err)
			}
			if inserted {
				product = created
				outcome = models.OutcomeCreated
				return nil
			}

			// lost an insert race with a concurrent upsert for the same
			// URL; lock the winner's row and refresh it instead
			if existing, err = getProductForUpdate(ctx, tx, canonical); err != nil {
				return fmt.Errorf("can't get product from database: %w", err)
			}
		}

		refreshed := fromDBProduct(existing)
		outcome = models.OutcomeUnchanged
		if priceChanged(refreshed.CurrentPrice, refreshed.Currency, snapshot.Price, snapshot.Currency) {
			outcome = models.OutcomePriceChanged
		}
		applySnapshot(refreshed, snapshot)

		if err := updateProduct(ctx, tx, refreshed); err != nil {
			return fmt.Errorf("can't update product in database: %w", err)
		}

		product = refreshed
		return nil
	})
	if err != nil {
		return nil, 0, fmt.Errorf("can't upsert product: %w", err)
	}

	return product, outcome, nil
}

// Get returns the product with the provided id or platform.ErrNotFound.
func (p Postgres) Get(ctx context.Context, id string) (*models.Product, error) {
	var dbProduct pgmodels.Product
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.ID.EQ(pg.String(id))).
		QueryContext(ctx, p.db, &dbProduct)

	if errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("%w: %s", platform.ErrNotFound, id)
	}
	if err != nil {
		return nil, fmt.Errorf("can't get product: %w", err)
	}

	return fromDBProduct(&dbProduct), nil
}

// List returns all tracked products in insertion order, decided by the
// seq sequence so same-timestamp creations still order exactly.
func (p Postgres) List(ctx context.Context) ([]models.Product, error) {
	var dbProducts []pgmodels.Product
	err := table.Product.SELECT(table.Product.AllColumns).
		ORDER_BY(table.Product.Seq.ASC()).
		QueryContext(ctx, p.db, &dbProducts)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("can't list products: %w", err)
	}

	products := make([]models.Product, 0, len(dbProducts))
	for ix := range dbProducts {
		products = append(products, *fromDBProduct(&dbProducts[ix]))
	}

	return products, nil
}

// Append records a price observation for a product. When the latest
// recorded point carries the identical price and currency, no duplicate
// point is written.
func (p Postgres) Append(ctx context.Context, point models.PricePoint) error {
	err := runInTransaction(ctx, p.db, func(tx *sql.Tx) error {
		var last pgmodels.PricePoint
		err := table.PricePoint.SELECT(table.PricePoint.AllColumns).
			WHERE(table.PricePoint.ProductID.EQ(pg.String(point.ProductID))).
			ORDER_BY(table.PricePoint.ObservedAt.DESC(), table.PricePoint.ID.DESC()).
			LIMIT(1).
			FOR(pg.UPDATE()).
			QueryContext(ctx, tx, &last)

		if err != nil && !errors.Is(err, qrm.ErrNoRows) {
			return fmt.Errorf("can't get last price point: %w", err)
		}

		if err == nil && last.Price == point.Price && last.Currency == point.Currency {
			return nil
		}

		if err == nil && point.ObservedAt.Before(last.ObservedAt) {
			point.ObservedAt = last.ObservedAt
		}

		_, err = table.PricePoint.INSERT(table.PricePoint.MutableColumns).
			MODEL(toDBPricePoint(&point)).
			ExecContext(ctx, tx)
		if err != nil {
			return fmt.Errorf("can't insert price point: %w", err)
		}

		return nil
	})
	if err != nil {
		return fmt.Errorf("can't append price point: %w", err)
	}

	return nil
}

// History returns all price observations of a product, oldest first.
func (p Postgres) History(ctx context.Context, productID string) ([]models.PricePoint, error) {
	var dbPoints []pgmodels.PricePoint
	err := table.PricePoint.SELECT(table.PricePoint.AllColumns).
		WHERE(table.PricePoint.ProductID.EQ(pg.String(productID))).
		ORDER_BY(table.PricePoint.ObservedAt.ASC(), table.PricePoint.ID.ASC()).
		QueryContext(ctx, p.db, &dbPoints)
	if err != nil && !errors.Is(err, qrm.ErrNoRows) {
		return nil, fmt.Errorf("can't get price history: %w", err)
	}

	points := make([]models.PricePoint, 0, len(dbPoints))
	for ix := range dbPoints {
		points = append(points, *fromDBPricePoint(&dbPoints[ix]))
	}

	return points, nil
}

func getProductForUpdate(ctx context.Context, tx *sql.Tx, canonical string) (*pgmodels.Product, error) {
	var dbProduct pgmodels.Product
	err := table.Product.SELECT(table.Product.AllColumns).
		WHERE(table.Product.URL.EQ(pg.String(canonical))).
		FOR(pg.UPDATE()).
		QueryContext(ctx, tx, &dbProduct)
	if err != nil {
		return nil, err
	}

	return &dbProduct, nil
}

func insertProduct(
	ctx context.Context,
	tx *sql.Tx,
	snapshot models.Snapshot,
	canonical string,
	host string,
) (*models.Product, bool, error) {
	product := productFromSnapshot(snapshot, canonical, host)

	result, err := table.Product.INSERT(table.Product.AllColumns.Except(table.Product.Seq)).
		MODEL(toDBProduct(product)).
		ON_CONFLICT(table.Product.URL).
		DO_NOTHING().
		ExecContext(ctx, tx)
	if err != nil {
		return nil, false, err
	}

	inserted, err := result.RowsAffected()
	if err != nil {
		return nil, false, err
	}

	return product, inserted == 1, nil
}

func updateProduct(ctx context.Context, tx *sql.Tx, product *models.Product) error {
	columnList := table.Product.MutableColumns.Except(table.Product.URL, table.Product.Website, table.Product.CreatedAt, table.Product.Seq)

	result, err := table.Product.UPDATE(columnList).
		MODEL(toDBProduct(product)).
		WHERE(table.Product.ID.EQ(pg.String(product.ID))).
		ExecContext(ctx, tx)
	if err != nil {
		return err
	}

	if rowsAffected, err := result.RowsAffected(); rowsAffected == 0 || err != nil {
		return fmt.Errorf("no product row updated: %w", err)
	}

	return nil
}

func runInTransaction(ctx context.Context, db *sql.DB, fn func(tx *sql.Tx) error) error {
	var (
		tx  *sql.Tx
		err error
	)

	if tx, err = db.BeginTx(ctx, nil); err != nil {
		return fmt.Errorf("can't begin transaction: %w", err)
	}

	if err = fn(tx); err != nil {
		if rbErr := tx.Rollback(); rbErr != nil {
			return fmt.Errorf("can't rollback transaction: %w (rollback reason: %w)", rbErr, err)
		}
		return err
	}

	if err = tx.Commit(); err != nil {
		return fmt.Errorf("can't commit transaction: %w", err)
	}

	return nil
}
