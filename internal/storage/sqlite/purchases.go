package sqlite

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/storage"
)

const dateLayout = "2006-01-02"

type purchaseRow struct {
	ID           int64          `db:"id"`
	Title        string         `db:"title"`
	PurchaseDate sql.NullString `db:"purchase_date"`
	Note         sql.NullString `db:"note"`
	IsSettled    bool           `db:"is_settled"`
	CreatedAt    int64          `db:"created_at"`
}

type allocationRow struct {
	PurchaseID  int64         `db:"purchase_id"`
	PurchaserID int64         `db:"purchaser_id"`
	AmountPaid  sql.NullInt64 `db:"amount_paid"`
	AmountToPay sql.NullInt64 `db:"amount_to_pay"`
}

func (r purchaseRow) toModel() models.Purchase {
	p := models.Purchase{
		ID:        r.ID,
		Title:     r.Title,
		Note:      r.Note.String,
		IsSettled: r.IsSettled,
		CreatedAt: r.CreatedAt,
	}
	if r.PurchaseDate.Valid {
		// Unparseable dates are left unset
		if d, err := time.Parse(dateLayout, r.PurchaseDate.String); err == nil {
			p.Date = d
		}
	}
	return p
}

func (r allocationRow) toModel() models.Allocation {
	a := models.Allocation{PurchaserID: r.PurchaserID}
	if r.AmountPaid.Valid {
		a.AmountPaid = models.Amount(r.AmountPaid.Int64)
	}
	if r.AmountToPay.Valid {
		a.AmountToPay = models.Amount(r.AmountToPay.Int64)
	}
	return a
}

func nullDate(d time.Time) sql.NullString {
	if d.IsZero() {
		return sql.NullString{}
	}
	return sql.NullString{String: d.Format(dateLayout), Valid: true}
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullAmount(v *int64) sql.NullInt64 {
	if v == nil {
		return sql.NullInt64{}
	}
	return sql.NullInt64{Int64: *v, Valid: true}
}

// ListPurchases returns the purchases of one view with their allocations, oldest first.
func (s *SQLiteStore) ListPurchases(ctx context.Context, filter models.SettledFilter) ([]models.Purchase, error) {
	var rows []purchaseRow
	if err := s.db.SelectContext(ctx, &rows,
		`SELECT id, title, purchase_date, note, is_settled, created_at
		 FROM purchases WHERE is_settled = ? ORDER BY created_at, id`,
		filter.IsSettled(),
	); err != nil {
		return nil, fmt.Errorf("failed to list purchases: %w", err)
	}
	if len(rows) == 0 {
		return []models.Purchase{}, nil
	}

	ids := make([]int64, len(rows))
	for i, r := range rows {
		ids[i] = r.ID
	}
	allocations, err := s.loadAllocations(ctx, ids)
	if err != nil {
		return nil, err
	}

	purchases := make([]models.Purchase, len(rows))
	for i, r := range rows {
		purchases[i] = r.toModel()
		purchases[i].Allocations = allocations[r.ID]
	}
	return purchases, nil
}

// GetPurchase retrieves a purchase by ID, including its allocations.
func (s *SQLiteStore) GetPurchase(ctx context.Context, purchaseID int64) (*models.Purchase, error) {
	var row purchaseRow
	err := s.db.GetContext(ctx, &row,
		`SELECT id, title, purchase_date, note, is_settled, created_at
		 FROM purchases WHERE id = ?`,
		purchaseID,
	)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("purchase %d: %w", purchaseID, storage.ErrNotFound)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get purchase: %w", err)
	}

	allocations, err := s.loadAllocations(ctx, []int64{purchaseID})
	if err != nil {
		return nil, err
	}

	purchase := row.toModel()
	purchase.Allocations = allocations[purchaseID]
	return &purchase, nil
}

// loadAllocations fetches the allocations of the given purchases, keyed by
// purchase ID and ordered by purchaser creation order.
func (s *SQLiteStore) loadAllocations(ctx context.Context, purchaseIDs []int64) (map[int64][]models.Allocation, error) {
	query, args, err := sqlx.In(
		`SELECT pp.purchase_id, pp.purchaser_id, pp.amount_paid, pp.amount_to_pay
		 FROM purchasers_purchases pp
		 JOIN purchasers p ON p.id = pp.purchaser_id
		 WHERE pp.purchase_id IN (?)
		 ORDER BY p.created_at, p.id`,
		purchaseIDs,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to build allocations query: %w", err)
	}

	var rows []allocationRow
	if err := s.db.SelectContext(ctx, &rows, s.db.Rebind(query), args...); err != nil {
		return nil, fmt.Errorf("failed to get allocations: %w", err)
	}

	allocations := make(map[int64][]models.Allocation, len(purchaseIDs))
	for _, r := range rows {
		allocations[r.PurchaseID] = append(allocations[r.PurchaseID], r.toModel())
	}
	return allocations, nil
}

// CreatePurchase inserts the purchase row. Allocations are written separately.
func (s *SQLiteStore) CreatePurchase(ctx context.Context, draft *models.PurchaseDraft) (*models.Purchase, error) {
	now := time.Now().Unix()
	res, err := s.db.ExecContext(ctx,
		`INSERT INTO purchases (title, purchase_date, note, is_settled, created_at)
		 VALUES (?, ?, ?, 0, ?)`,
		draft.Title, nullDate(draft.Date), nullString(draft.Note), now,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to insert purchase: %w", err)
	}

	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("failed to read purchase id: %w", err)
	}

	return &models.Purchase{
		ID:        id,
		Title:     draft.Title,
		Date:      draft.Date,
		Note:      draft.Note,
		CreatedAt: now,
	}, nil
}

// UpdatePurchase rewrites title, date and note of a purchase.
func (s *SQLiteStore) UpdatePurchase(ctx context.Context, purchaseID int64, draft *models.PurchaseDraft) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE purchases SET title = ?, purchase_date = ?, note = ? WHERE id = ?",
		draft.Title, nullDate(draft.Date), nullString(draft.Note), purchaseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update purchase: %w", err)
	}
	return requireAffected(res, purchaseID)
}

// UpsertAllocations writes all allocations of the call in one transaction.
func (s *SQLiteStore) UpsertAllocations(ctx context.Context, purchaseID int64, allocations []models.Allocation) error {
	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer tx.Rollback()

	var exists int
	err = tx.GetContext(ctx, &exists, "SELECT 1 FROM purchases WHERE id = ?", purchaseID)
	if errors.Is(err, sql.ErrNoRows) {
		return fmt.Errorf("purchase %d: %w", purchaseID, storage.ErrNotFound)
	}
	if err != nil {
		return fmt.Errorf("failed to check purchase existence: %w", err)
	}

	for _, a := range allocations {
		if _, err := tx.ExecContext(ctx,
			`INSERT INTO purchasers_purchases (purchase_id, purchaser_id, amount_paid, amount_to_pay)
			 VALUES (?, ?, ?, ?)
			 ON CONFLICT (purchase_id, purchaser_id)
			 DO UPDATE SET amount_paid = excluded.amount_paid, amount_to_pay = excluded.amount_to_pay`,
			purchaseID, a.PurchaserID, nullAmount(a.AmountPaid), nullAmount(a.AmountToPay),
		); err != nil {
			return fmt.Errorf("failed to upsert allocation for purchaser %d: %w", a.PurchaserID, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("failed to commit transaction: %w", err)
	}
	return nil
}

// SetSettled marks a purchase settled or unsettled.
func (s *SQLiteStore) SetSettled(ctx context.Context, purchaseID int64, settled bool) error {
	res, err := s.db.ExecContext(ctx,
		"UPDATE purchases SET is_settled = ? WHERE id = ?",
		settled, purchaseID,
	)
	if err != nil {
		return fmt.Errorf("failed to update settlement: %w", err)
	}
	return requireAffected(res, purchaseID)
}

// DeletePurchase removes a purchase; allocations go with it via ON DELETE CASCADE.
func (s *SQLiteStore) DeletePurchase(ctx context.Context, purchaseID int64) error {
	res, err := s.db.ExecContext(ctx, "DELETE FROM purchases WHERE id = ?", purchaseID)
	if err != nil {
		return fmt.Errorf("failed to delete purchase: %w", err)
	}
	return requireAffected(res, purchaseID)
}

func requireAffected(res sql.Result, purchaseID int64) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("purchase %d: %w", purchaseID, storage.ErrNotFound)
	}
	return nil
}
