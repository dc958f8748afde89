// Package database archives finished orders to Postgres. Live state never
// reads from it.
package database

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

const connectTimeout = 10 * time.Second

func Connect(ctx context.Context, dbURL string, logger *zap.Logger) (*sqlx.DB, error) {
	logger.Info("connecting to database", zap.Int("url_length", len(dbURL)))

	ctx, cancel := context.WithTimeout(ctx, connectTimeout)
	defer cancel()

	db, err := sqlx.ConnectContext(ctx, "postgres", dbURL)
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}
	if err := db.PingContext(ctx); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}
	db.SetMaxOpenConns(10)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(30 * time.Minute)

	logger.Info("database connection established")
	return db, nil
}

var migrations = []string{
	`CREATE TABLE IF NOT EXISTS order_archive (
		id TEXT PRIMARY KEY,
		type TEXT NOT NULL CHECK(type IN ('DINE_IN', 'DELIVERY', 'PICKUP')),
		status TEXT NOT NULL CHECK(status IN ('COMPLETED', 'CANCELLED')),
		total_amount NUMERIC(12, 2) NOT NULL,
		note TEXT NOT NULL DEFAULT '',
		table_id INT,
		customer_name TEXT NOT NULL DEFAULT '',
		delivery_address TEXT NOT NULL DEFAULT '',
		driver_id TEXT NOT NULL DEFAULT '',
		pickup_code TEXT NOT NULL DEFAULT '',
		placed_at TIMESTAMPTZ NOT NULL,
		closed_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE TABLE IF NOT EXISTS order_archive_items (
		order_id TEXT NOT NULL,
		line_no INT NOT NULL,
		menu_item_id TEXT NOT NULL,
		name TEXT NOT NULL,
		price NUMERIC(12, 2) NOT NULL,
		quantity INT NOT NULL CHECK(quantity > 0),
		PRIMARY KEY (order_id, line_no),
		FOREIGN KEY (order_id) REFERENCES order_archive(id) ON DELETE CASCADE
	)`,

	// Append-only; orders here may not be archived yet
	`CREATE TABLE IF NOT EXISTS order_status_log (
		id BIGSERIAL PRIMARY KEY,
		order_id TEXT NOT NULL,
		from_status TEXT NOT NULL DEFAULT '',
		to_status TEXT NOT NULL,
		changed_at TIMESTAMPTZ NOT NULL
	)`,

	`CREATE INDEX IF NOT EXISTS idx_order_archive_closed_at ON order_archive(closed_at DESC)`,
	`CREATE INDEX IF NOT EXISTS idx_order_archive_type ON order_archive(type)`,
	`CREATE INDEX IF NOT EXISTS idx_order_status_log_order_id ON order_status_log(order_id, changed_at)`,
}

// Migrate creates the archive schema. Every statement is idempotent.
func Migrate(ctx context.Context, db *sqlx.DB) error {
	for i, m := range migrations {
		if _, err := db.ExecContext(ctx, m); err != nil {
			return fmt.Errorf("migration %d failed: %w", i, err)
		}
	}
	return nil
}
