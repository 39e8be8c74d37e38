package form

import (
	"fmt"
	"math/rand/v2"
	"sort"
	"strings"
	"time"

	"github.com/mmynk/warikan/internal/calculator"
	"github.com/mmynk/warikan/internal/models"
)

// DateLayout is the format of the purchase date field.
const DateLayout = "2006-01-02"

// ValidationErrors maps a field path (e.g. "title", "purchasers.1.amountPaid")
// to the problem with it.
type ValidationErrors map[string]string

func (e ValidationErrors) Error() string {
	fields := make([]string, 0, len(e))
	for f := range e {
		fields = append(fields, f)
	}
	sort.Strings(fields)

	parts := make([]string, len(fields))
	for i, f := range fields {
		parts[i] = f + ": " + e[f]
	}
	return "invalid purchase: " + strings.Join(parts, "; ")
}

// PurchaseForm is the state of a purchase being entered or edited.
type PurchaseForm struct {
	Title string
	Date  string
	Note  string

	roster     *Roster
	equalSplit bool
	rng        *rand.Rand
}

// NewPurchaseForm creates a form over roster. rng drives the equal split;
// nil uses the global source.
func NewPurchaseForm(roster *Roster, rng *rand.Rand) *PurchaseForm {
	return &PurchaseForm{roster: roster, rng: rng}
}

// Roster returns the purchaser roster of the form.
func (f *PurchaseForm) Roster() *Roster {
	return f.roster
}

// EqualSplit reports whether the equal-split toggle is on.
func (f *PurchaseForm) EqualSplit() bool {
	return f.equalSplit
}

// SetEqualSplit flips the equal-split toggle. Switching it on distributes
// the current amount-paid sum right away; switching it off leaves the
// amounts to pay as they are.
func (f *PurchaseForm) SetEqualSplit(on bool) {
	wasOn := f.equalSplit
	f.equalSplit = on
	if on && !wasOn {
		f.distribute()
	}
}

// SetAmountPaid stores the text typed into purchaser i's amount-paid field.
// With equal split on, every amount to pay is recomputed.
func (f *PurchaseForm) SetAmountPaid(i int, raw string) {
	e := f.roster.Entry(i)
	if e == nil {
		return
	}
	e.AmountPaid.Set(raw)
	if f.equalSplit {
		f.distribute()
	}
}

// SetAmountToPay stores the text typed into purchaser i's amount-to-pay field.
// A later amount-paid edit overwrites it while equal split is on.
func (f *PurchaseForm) SetAmountToPay(i int, raw string) {
	if e := f.roster.Entry(i); e != nil {
		e.AmountToPay.Set(raw)
	}
}

// AmountPaidSum adds up every amount paid, unparseable entries counting as 0.
func (f *PurchaseForm) AmountPaidSum() int64 {
	var sum int64
	for _, e := range f.roster.Entries() {
		sum += e.AmountPaid.Number()
	}
	return sum
}

// FillRemainder sets purchaser i's amount to pay to whatever the other
// purchasers' amounts to pay leave uncovered of the amount-paid sum.
func (f *PurchaseForm) FillRemainder(i int) {
	e := f.roster.Entry(i)
	if e == nil {
		return
	}

	others := make([]int64, 0, f.roster.Len())
	for j, other := range f.roster.Entries() {
		if j != i {
			others = append(others, other.AmountToPay.Number())
		}
	}
	e.AmountToPay = NewAmountField(calculator.FillRemainder(f.AmountPaidSum(), others))
}

func (f *PurchaseForm) distribute() {
	shares := calculator.DistributeRemainderRandomly(f.AmountPaidSum(), f.roster.Len(), f.rng)
	for i, share := range shares {
		f.roster.Entry(i).AmountToPay = NewAmountField(share)
	}
}

// Validate checks the form and converts it into a draft. Empty amount
// fields become unset allocations.
func (f *PurchaseForm) Validate() (*models.PurchaseDraft, error) {
	errs := make(ValidationErrors)

	title := strings.TrimSpace(f.Title)
	if title == "" {
		errs["title"] = "required"
	}

	var date time.Time
	if d := strings.TrimSpace(f.Date); d != "" {
		parsed, err := time.Parse(DateLayout, d)
		if err != nil {
			errs["date"] = fmt.Sprintf("must be a date like %s", DateLayout)
		} else {
			date = parsed
		}
	}

	entries := f.roster.Entries()
	if len(entries) == 0 {
		errs["purchasers"] = "at least one purchaser is required"
	}

	allocations := make([]models.Allocation, len(entries))
	for i, e := range entries {
		allocations[i].PurchaserID = e.PurchaserID
		allocations[i].AmountPaid = validateAmount(errs, fmt.Sprintf("purchasers.%d.amountPaid", i), e.AmountPaid)
		allocations[i].AmountToPay = validateAmount(errs, fmt.Sprintf("purchasers.%d.amountToPay", i), e.AmountToPay)
	}

	if len(errs) > 0 {
		return nil, errs
	}

	return &models.PurchaseDraft{
		Title:       title,
		Date:        date,
		Note:        strings.TrimSpace(f.Note),
		Allocations: allocations,
	}, nil
}

func validateAmount(errs ValidationErrors, path string, field AmountField) *int64 {
	if field.IsEmpty() {
		return nil
	}
	v, ok := field.Value()
	if !ok {
		errs[path] = "must be a whole number"
		return nil
	}
	if v < 0 {
		errs[path] = "must be 0 or greater"
		return nil
	}
	return &v
}
