package form

import (
	"errors"
	"math/rand/v2"
	"slices"
	"testing"
	"time"

	"github.com/mmynk/warikan/internal/models"
)

func newTestForm(names ...string) *PurchaseForm {
	return NewPurchaseForm(NewRoster(EntriesFor(purchasers(names...)), nil), rand.New(rand.NewPCG(1, 1)))
}

func amountsToPay(f *PurchaseForm) []int64 {
	var out []int64
	for _, e := range f.Roster().Entries() {
		out = append(out, e.AmountToPay.Number())
	}
	return out
}

func sortedDesc(v []int64) []int64 {
	s := slices.Clone(v)
	slices.Sort(s)
	slices.Reverse(s)
	return s
}

func TestPurchaseForm_EqualSplitOnToggle(t *testing.T) {
	f := newTestForm("Alice", "Bob", "Carol")
	f.SetAmountPaid(0, "100")

	if got := amountsToPay(f); !slices.Equal(got, []int64{0, 0, 0}) {
		t.Fatalf("amounts to pay before toggle = %v, want untouched", got)
	}

	f.SetEqualSplit(true)

	if got := sortedDesc(amountsToPay(f)); !slices.Equal(got, []int64{34, 33, 33}) {
		t.Errorf("amounts to pay = %v, want permutation of [34 33 33]", amountsToPay(f))
	}
}

func TestPurchaseForm_EqualSplitFollowsAmountPaid(t *testing.T) {
	f := newTestForm("Alice", "Bob", "Carol")
	f.SetEqualSplit(true)

	f.SetAmountPaid(0, "60")
	f.SetAmountPaid(1, "30")

	if got := amountsToPay(f); !slices.Equal(got, []int64{30, 30, 30}) {
		t.Errorf("amounts to pay = %v, want [30 30 30]", got)
	}
	if f.Roster().Entry(0).AmountPaid.Raw != "60" {
		t.Errorf("amount paid was overwritten: %q", f.Roster().Entry(0).AmountPaid.Raw)
	}
}

func TestPurchaseForm_ProvisionalTextCountsAsZero(t *testing.T) {
	f := newTestForm("Alice", "Bob")
	f.SetEqualSplit(true)

	f.SetAmountPaid(0, "50")
	f.SetAmountPaid(1, "1x")

	if f.Roster().Entry(1).AmountPaid.Raw != "1x" {
		t.Errorf("raw text = %q, want it kept as typed", f.Roster().Entry(1).AmountPaid.Raw)
	}
	if got := amountsToPay(f); !slices.Equal(got, []int64{25, 25}) {
		t.Errorf("amounts to pay = %v, want [25 25]", got)
	}
}

func TestPurchaseForm_ManualEditsKeptWhenOff(t *testing.T) {
	f := newTestForm("Alice", "Bob")
	f.SetAmountToPay(0, "70")
	f.SetAmountToPay(1, "30")

	f.SetAmountPaid(0, "100")

	if got := amountsToPay(f); !slices.Equal(got, []int64{70, 30}) {
		t.Errorf("amounts to pay = %v, want manual [70 30]", got)
	}

	f.SetEqualSplit(true)
	f.SetEqualSplit(false)
	f.SetAmountToPay(0, "80")
	f.SetAmountPaid(1, "10")

	if f.Roster().Entry(0).AmountToPay.Raw != "80" {
		t.Errorf("manual edit lost after toggle off: %q", f.Roster().Entry(0).AmountToPay.Raw)
	}
}

func TestPurchaseForm_FillRemainder(t *testing.T) {
	f := newTestForm("Alice", "Bob", "Carol")
	f.SetAmountPaid(0, "1000")
	f.SetAmountToPay(0, "300")
	f.SetAmountToPay(1, "abc")

	f.FillRemainder(2)

	if got := f.Roster().Entry(2).AmountToPay.Raw; got != "700" {
		t.Errorf("filled amount = %q, want 700", got)
	}
	if got := f.Roster().Entry(1).AmountToPay.Raw; got != "abc" {
		t.Errorf("other entry changed to %q", got)
	}
}

func TestPurchaseForm_OutOfRangeIndexIgnored(t *testing.T) {
	f := newTestForm("Alice")
	f.SetAmountPaid(5, "10")
	f.SetAmountToPay(-1, "10")
	f.FillRemainder(3)

	if f.AmountPaidSum() != 0 {
		t.Errorf("sum = %d, want 0", f.AmountPaidSum())
	}
}

func TestPurchaseForm_Validate(t *testing.T) {
	t.Run("valid form produces draft", func(t *testing.T) {
		f := newTestForm("Alice", "Bob")
		f.Title = "  Groceries "
		f.Date = "2024-05-01"
		f.Note = "weekly"
		f.SetAmountPaid(0, "1000")
		f.SetAmountToPay(0, "500")
		f.SetAmountToPay(1, "500")

		draft, err := f.Validate()
		if err != nil {
			t.Fatalf("Validate failed: %v", err)
		}

		if draft.Title != "Groceries" {
			t.Errorf("title = %q, want Groceries", draft.Title)
		}
		if !draft.Date.Equal(time.Date(2024, 5, 1, 0, 0, 0, 0, time.UTC)) {
			t.Errorf("date = %v", draft.Date)
		}
		if len(draft.Allocations) != 2 {
			t.Fatalf("allocations = %d, want 2", len(draft.Allocations))
		}
		if draft.Allocations[1].AmountPaid != nil {
			t.Errorf("empty amount paid should be unset, got %d", *draft.Allocations[1].AmountPaid)
		}
		if *draft.Allocations[0].AmountPaid != 1000 || *draft.Allocations[1].AmountToPay != 500 {
			t.Errorf("unexpected allocations: %+v", draft.Allocations)
		}
		if draft.Allocations[1].PurchaserID != 2 {
			t.Errorf("purchaser id = %d, want 2", draft.Allocations[1].PurchaserID)
		}
	})

	t.Run("reports each bad field", func(t *testing.T) {
		f := newTestForm("Alice", "Bob")
		f.Date = "May 1st"
		f.SetAmountPaid(0, "-5")
		f.SetAmountToPay(1, "1.5")

		_, err := f.Validate()

		var verrs ValidationErrors
		if !errors.As(err, &verrs) {
			t.Fatalf("error = %v, want ValidationErrors", err)
		}
		for _, field := range []string{"title", "date", "purchasers.0.amountPaid", "purchasers.1.amountToPay"} {
			if _, ok := verrs[field]; !ok {
				t.Errorf("missing error for %s in %v", field, verrs)
			}
		}
		if len(verrs) != 4 {
			t.Errorf("got %d errors, want 4: %v", len(verrs), verrs)
		}
	})

	t.Run("no purchasers", func(t *testing.T) {
		f := NewPurchaseForm(NewRoster(nil, nil), nil)
		f.Title = "Lunch"

		_, err := f.Validate()

		var verrs ValidationErrors
		if !errors.As(err, &verrs) || verrs["purchasers"] == "" {
			t.Errorf("error = %v, want purchasers error", err)
		}
	})
}

func TestValidationErrors_Error(t *testing.T) {
	err := ValidationErrors{"title": "required", "date": "bad"}
	want := "invalid purchase: date: bad; title: required"
	if err.Error() != want {
		t.Errorf("Error() = %q, want %q", err.Error(), want)
	}
}

func TestPurchaseForm_RosterGrowthResetsAmounts(t *testing.T) {
	f := newTestForm("Alice", "Bob")
	f.SetAmountPaid(0, "100")
	f.SetAmountPaid(1, "200")

	lister := &fakeLister{purchasers: []models.Purchaser{
		{ID: 1, Name: "Alice"}, {ID: 2, Name: "Bob"}, {ID: 3, Name: "Carol"},
	}}
	if err := f.Roster().Refresh(t.Context(), lister); err != nil {
		t.Fatalf("Refresh failed: %v", err)
	}

	if f.Roster().Len() != 3 {
		t.Fatalf("entries = %d, want 3", f.Roster().Len())
	}
	if f.AmountPaidSum() != 0 {
		t.Errorf("amount paid sum = %d, want 0 after rebuild", f.AmountPaidSum())
	}
}
