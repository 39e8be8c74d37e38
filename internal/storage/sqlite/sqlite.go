// Package sqlite provides a SQLite-backed implementation of the storage.Store interface.
package sqlite

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite" // Pure Go SQLite driver (no CGO)

	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/storage"
)

// Ensure SQLiteStore implements the storage interfaces
var (
	_ storage.Store     = (*SQLiteStore)(nil)
	_ storage.UserStore = (*SQLiteStore)(nil)
)

// SQLiteStore implements storage.Store using SQLite.
type SQLiteStore struct {
	db *sqlx.DB
}

// New creates a new SQLiteStore with the given database path.
// It creates the parent directories and runs migrations automatically.
func New(dbPath string) (*SQLiteStore, error) {
	// Create parent directory if it doesn't exist
	dir := filepath.Dir(dbPath)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}

	// Foreign keys are a per-connection pragma, so set them in the DSN
	dsn := fmt.Sprintf("file:%s?_pragma=foreign_keys(1)&_pragma=busy_timeout(5000)", dbPath)
	db, err := sqlx.Connect("sqlite", dsn)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	// SQLite allows a single writer; one connection keeps writes serialized.
	// Never query through s.db while a transaction or result set is open.
	db.SetMaxOpenConns(1)

	if err := runMigrations(db); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to run migrations: %w", err)
	}

	return &SQLiteStore{db: db}, nil
}

// Ping checks that the database answers.
func (s *SQLiteStore) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

// Close closes the database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// ListPurchasers returns every purchaser, oldest first.
func (s *SQLiteStore) ListPurchasers(ctx context.Context) ([]models.Purchaser, error) {
	var rows []struct {
		ID        int64  `db:"id"`
		Name      string `db:"name"`
		CreatedAt int64  `db:"created_at"`
	}
	if err := s.db.SelectContext(ctx, &rows,
		"SELECT id, name, created_at FROM purchasers ORDER BY created_at, id",
	); err != nil {
		return nil, fmt.Errorf("failed to list purchasers: %w", err)
	}

	purchasers := make([]models.Purchaser, len(rows))
	for i, r := range rows {
		purchasers[i] = models.Purchaser{ID: r.ID, Name: r.Name, CreatedAt: r.CreatedAt}
	}
	return purchasers, nil
}

// CreatePurchasers inserts one purchaser per name in a single transaction.
func (s *SQLiteStore) CreatePurchasers(ctx context.Context, names []string) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	now := time.Now().Unix()
	for _, name := range names {
		if _, err := tx.ExecContext(ctx,
			"INSERT INTO purchasers (name, created_at) VALUES (?, ?)",
			name, now,
		); err != nil {
			return fmt.Errorf("failed to insert purchaser: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}
