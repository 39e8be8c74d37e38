// Package storage provides abstractions for persistent data storage.
package storage

import (
	"context"
	"errors"

	"github.com/mmynk/warikan/internal/models"
)

// ErrNotFound is wrapped by every lookup or mutation that targets a missing row.
var ErrNotFound = errors.New("not found")

// Store defines the interface for purchase storage operations.
// This abstraction allows swapping storage backends (SQLite, PostgreSQL, etc.)
// without changing the service layer.
type Store interface {
	// ListPurchasers returns all purchasers ordered by creation time.
	ListPurchasers(ctx context.Context) ([]models.Purchaser, error)

	// CreatePurchasers inserts one purchaser per name.
	CreatePurchasers(ctx context.Context, names []string) error

	// ListPurchases returns the purchases of one view, with allocations,
	// ordered by creation time.
	ListPurchases(ctx context.Context, filter models.SettledFilter) ([]models.Purchase, error)

	// GetPurchase retrieves a purchase with its allocations.
	GetPurchase(ctx context.Context, purchaseID int64) (*models.Purchase, error)

	// CreatePurchase inserts the purchase row only. Allocations in the draft
	// are not written; use UpsertAllocations.
	CreatePurchase(ctx context.Context, draft *models.PurchaseDraft) (*models.Purchase, error)

	// UpdatePurchase rewrites title, date and note of an existing purchase.
	UpdatePurchase(ctx context.Context, purchaseID int64, draft *models.PurchaseDraft) error

	// UpsertAllocations inserts or replaces the allocation of each purchaser
	// on the purchase. All allocations of one call are written together.
	UpsertAllocations(ctx context.Context, purchaseID int64, allocations []models.Allocation) error

	// SetSettled marks a purchase settled or unsettled.
	SetSettled(ctx context.Context, purchaseID int64, settled bool) error

	// DeletePurchase removes a purchase and its allocations.
	DeletePurchase(ctx context.Context, purchaseID int64) error

	// Close releases any resources held by the store.
	Close() error
}

// UserStore persists user accounts.
type UserStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUserByEmail(ctx context.Context, email string) (*models.User, error)
	GetUserByID(ctx context.Context, id string) (*models.User, error)
}
