package sqlite

import (
	"fmt"

	"github.com/jmoiron/sqlx"
)

// schema contains the SQL statements to set up the database schema.
// These run on startup to ensure tables exist.
// Purchasers and purchases must exist before purchasers_purchases references them.
var schema = []string{
	`CREATE TABLE IF NOT EXISTS users (
		id TEXT PRIMARY KEY,
		email TEXT NOT NULL UNIQUE,
		display_name TEXT NOT NULL,
		password_hash TEXT NOT NULL,
		created_at INTEGER NOT NULL,
		updated_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchasers (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		name TEXT NOT NULL,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		title TEXT NOT NULL,
		purchase_date TEXT,
		note TEXT,
		is_settled INTEGER NOT NULL DEFAULT 0,
		created_at INTEGER NOT NULL
	)`,
	`CREATE TABLE IF NOT EXISTS purchasers_purchases (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		purchase_id INTEGER NOT NULL,
		purchaser_id INTEGER NOT NULL,
		amount_paid INTEGER,
		amount_to_pay INTEGER,
		UNIQUE (purchase_id, purchaser_id),
		FOREIGN KEY (purchase_id) REFERENCES purchases(id) ON DELETE CASCADE,
		FOREIGN KEY (purchaser_id) REFERENCES purchasers(id) ON DELETE CASCADE
	)`,
	`CREATE INDEX IF NOT EXISTS idx_purchases_settled_created ON purchases(is_settled, created_at)`,
	`CREATE INDEX IF NOT EXISTS idx_purchasers_purchases_purchase_id ON purchasers_purchases(purchase_id)`,
}

// runMigrations executes the schema setup.
func runMigrations(db *sqlx.DB) error {
	for _, stmt := range schema {
		if _, err := db.Exec(stmt); err != nil {
			return fmt.Errorf("migration failed: %w", err)
		}
	}
	return nil
}
