package models

import "time"

// Purchaser represents a person who takes part in shared purchases.
type Purchaser struct {
	// ID is the store-assigned identifier.
	ID int64

	// Name is the display name shown next to the amount fields.
	Name string

	// CreatedAt is the Unix timestamp when the purchaser was created.
	// Purchaser lists are ordered by this field.
	CreatedAt int64
}

// Allocation is one purchaser's share of a purchase.
type Allocation struct {
	// PurchaserID references the purchaser this allocation belongs to.
	PurchaserID int64

	// AmountPaid is how much this purchaser paid at the till. Nil means not entered.
	AmountPaid *int64

	// AmountToPay is how much this purchaser owes. Nil means not entered.
	AmountToPay *int64
}

// PurchaseDraft is a purchase being composed by a user.
// It only lives in form state until it is submitted.
type PurchaseDraft struct {
	Title string

	// Date is the purchase date. The zero value means no date was given.
	Date time.Time

	Note string

	// Allocations are ordered like the purchaser roster of the form.
	Allocations []Allocation
}

// Purchase is a persisted shared purchase.
type Purchase struct {
	ID    int64
	Title string

	// Date is the purchase date. The zero value means no date was given.
	Date time.Time

	Note      string
	IsSettled bool

	// Allocations are ordered by purchaser creation order.
	Allocations []Allocation

	// CreatedAt is the Unix timestamp when the purchase was recorded.
	// Purchase lists are ordered by this field.
	CreatedAt int64
}

// TotalAmount returns the displayed total of the purchase: the sum of all
// amounts paid. Allocations without an amount paid count as 0.
func (p *Purchase) TotalAmount() int64 {
	var total int64
	for _, a := range p.Allocations {
		if a.AmountPaid != nil {
			total += *a.AmountPaid
		}
	}
	return total
}

// SettledFilter selects one of the two fixed purchase views.
type SettledFilter int

const (
	// Unsettled selects purchases whose allocations have not been paid out.
	Unsettled SettledFilter = iota
	// Settled selects purchases that were marked as settled.
	Settled
)

// IsSettled reports the settlement flag the filter selects.
func (f SettledFilter) IsSettled() bool {
	return f == Settled
}

func (f SettledFilter) String() string {
	if f == Settled {
		return "settled"
	}
	return "unsettled"
}

// Amount returns a pointer to v. Handy for building allocations.
func Amount(v int64) *int64 {
	return &v
}
