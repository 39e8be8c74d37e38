// Package form holds purchase-form state: the per-purchaser amount entries,
// the roster that keeps them in line with the stored purchasers, and the
// equal-split logic that fills amounts to pay.
//
// Form values are owned by a single caller at a time. None of the types in
// this package are safe for concurrent use.
package form

import (
	"strconv"
	"strings"

	"github.com/mmynk/warikan/internal/calculator"
)

// AmountField is an amount input. It keeps whatever text was typed so that
// half-typed values survive until they parse.
type AmountField struct {
	Raw string
}

// NewAmountField returns a field showing v.
func NewAmountField(v int64) AmountField {
	return AmountField{Raw: strconv.FormatInt(v, 10)}
}

// Set replaces the field text.
func (f *AmountField) Set(raw string) {
	f.Raw = raw
}

// IsEmpty reports whether nothing was entered.
func (f AmountField) IsEmpty() bool {
	return strings.TrimSpace(f.Raw) == ""
}

// Value returns the parsed amount and whether the text is a valid integer.
func (f AmountField) Value() (int64, bool) {
	return calculator.ParseAmountStrict(f.Raw)
}

// Number coerces the field for computation. Unparseable text counts as 0.
func (f AmountField) Number() int64 {
	return calculator.ParseAmount(f.Raw)
}
