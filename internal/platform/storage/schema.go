package storage

import (
	"context"
	"database/sql"
	"fmt"
)

const schemaSQL = `
CREATE TABLE IF NOT EXISTS product (
	id TEXT PRIMARY KEY,
	url TEXT NOT NULL UNIQUE,
	website TEXT NOT NULL DEFAULT '',
	name TEXT NOT NULL,
	brand TEXT NOT NULL DEFAULT '',
	description TEXT NOT NULL DEFAULT '',
	keywords TEXT NOT NULL DEFAULT '',
	image_url TEXT NOT NULL DEFAULT '',
	current_price DOUBLE PRECISION,
	currency TEXT NOT NULL DEFAULT '',
	stock_status TEXT NOT NULL DEFAULT 'unknown',
	rating DOUBLE PRECISION,
	review_count INTEGER,
	created_at TIMESTAMPTZ NOT NULL,
	updated_at TIMESTAMPTZ NOT NULL,
	seq SERIAL
);

CREATE TABLE IF NOT EXISTS price_point (
	id SERIAL PRIMARY KEY,
	product_id TEXT NOT NULL REFERENCES product (id) ON DELETE CASCADE,
	price DOUBLE PRECISION NOT NULL,
	currency TEXT NOT NULL DEFAULT '',
	observed_at TIMESTAMPTZ NOT NULL
);

CREATE INDEX IF NOT EXISTS price_point_product_observed_idx
	ON price_point (product_id, observed_at);
`

// CreateTables creates the product and price_point tables if they don't
// exist yet. It is safe to run on every startup.
func CreateTables(ctx context.Context, db *sql.DB) error {
	if _, err := db.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("can't create database schema: %w", err)
	}

	return nil
}
