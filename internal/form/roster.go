package form

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"github.com/mmynk/warikan/internal/models"
)

// ErrRefreshInProgress is returned when Refresh is called while a fetch is
// already running.
var ErrRefreshInProgress = errors.New("roster refresh already in progress")

// Entry is one purchaser's sub-form.
type Entry struct {
	PurchaserID int64
	Name        string
	AmountPaid  AmountField
	AmountToPay AmountField
}

// newEntry returns an entry for p with empty amounts.
func newEntry(p models.Purchaser) Entry {
	return Entry{PurchaserID: p.ID, Name: p.Name}
}

// EntriesFor builds a fresh entry list for purchasers.
func EntriesFor(purchasers []models.Purchaser) []Entry {
	entries := make([]Entry, len(purchasers))
	for i, p := range purchasers {
		entries[i] = newEntry(p)
	}
	return entries
}

// SyncPolicy reconciles the current entries with a fetched purchaser list.
type SyncPolicy func(current []Entry, fetched []models.Purchaser) []Entry

// SyncRoster is the length-based policy. When the number of fetched
// purchasers differs from the number of entries, the entries are rebuilt
// from scratch in fetched order with empty amounts. When the counts match
// the entries are returned untouched, even if names or IDs differ.
//
// The rebuild removes index 0 once per existing entry, because every
// removal shifts the remaining entries down, then inserts the fetched
// purchasers one by one.
func SyncRoster(current []Entry, fetched []models.Purchaser) []Entry {
	if len(current) == len(fetched) {
		return current
	}

	entries := current[:len(current):len(current)]
	for range len(current) {
		entries = removeAt(entries, 0)
	}
	for i, p := range fetched {
		entries = insertAt(entries, i, newEntry(p))
	}
	return entries
}

// ReconcileByID matches entries to purchasers by ID. The result follows the
// fetched order; entries of purchasers that still exist keep their amounts
// and pick up the fetched name, new purchasers get empty amounts and
// entries of removed purchasers are dropped.
func ReconcileByID(current []Entry, fetched []models.Purchaser) []Entry {
	byID := make(map[int64]Entry, len(current))
	for _, e := range current {
		byID[e.PurchaserID] = e
	}

	entries := make([]Entry, 0, len(fetched))
	for _, p := range fetched {
		e, ok := byID[p.ID]
		if !ok {
			entries = append(entries, newEntry(p))
			continue
		}
		e.Name = p.Name
		entries = append(entries, e)
	}
	return entries
}

func removeAt(entries []Entry, i int) []Entry {
	return append(entries[:i:i], entries[i+1:]...)
}

func insertAt(entries []Entry, i int, e Entry) []Entry {
	entries = append(entries, Entry{})
	copy(entries[i+1:], entries[i:])
	entries[i] = e
	return entries
}

// RosterState is the fetch state of a Roster.
type RosterState int

const (
	Idle RosterState = iota
	Fetching
	Synced
)

func (s RosterState) String() string {
	switch s {
	case Fetching:
		return "fetching"
	case Synced:
		return "synced"
	default:
		return "idle"
	}
}

// PurchaserLister fetches the current purchaser roster.
type PurchaserLister interface {
	ListPurchasers(ctx context.Context) ([]models.Purchaser, error)
}

// Roster owns the entry list of a purchase form and refreshes it from a
// PurchaserLister.
type Roster struct {
	entries []Entry
	state   RosterState
	policy  SyncPolicy
}

// NewRoster creates an idle roster over entries. A nil policy means SyncRoster.
func NewRoster(entries []Entry, policy SyncPolicy) *Roster {
	if policy == nil {
		policy = SyncRoster
	}
	return &Roster{entries: entries, policy: policy}
}

// State returns the current fetch state.
func (r *Roster) State() RosterState {
	return r.state
}

// Entries returns the entry list. Callers may edit amounts in place.
func (r *Roster) Entries() []Entry {
	return r.entries
}

// Len returns the number of entries.
func (r *Roster) Len() int {
	return len(r.entries)
}

// Entry returns a pointer to the entry at index i, or nil when out of range.
func (r *Roster) Entry(i int) *Entry {
	if i < 0 || i >= len(r.entries) {
		return nil
	}
	return &r.entries[i]
}

// Refresh fetches the purchaser list and reconciles the entries with it.
// On failure the entries are left as they were, the roster goes back to
// Idle and the fetch error is returned.
func (r *Roster) Refresh(ctx context.Context, lister PurchaserLister) error {
	if r.state == Fetching {
		return ErrRefreshInProgress
	}
	r.state = Fetching

	purchasers, err := lister.ListPurchasers(ctx)
	if err != nil {
		r.state = Idle
		slog.Warn("Roster refresh failed", "error", err)
		return fmt.Errorf("failed to fetch purchasers: %w", err)
	}

	before := len(r.entries)
	r.entries = r.policy(r.entries, purchasers)
	r.state = Synced
	slog.Debug("Roster synced", "entries_before", before, "entries_after", len(r.entries))
	return nil
}
