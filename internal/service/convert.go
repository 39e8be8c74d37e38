package service

import (
	"errors"
	"math/rand/v2"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/internal/form"
	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/storage"
	"github.com/mmynk/warikan/pkg/api"
)

func toAPIPurchaser(p models.Purchaser) api.Purchaser {
	return api.Purchaser{ID: p.ID, Name: p.Name, CreatedAt: p.CreatedAt}
}

func toAPIPurchasers(ps []models.Purchaser) []api.Purchaser {
	out := make([]api.Purchaser, len(ps))
	for i, p := range ps {
		out[i] = toAPIPurchaser(p)
	}
	return out
}

func toAPIPurchase(p *models.Purchase) api.Purchase {
	allocs := make([]api.Allocation, len(p.Allocations))
	for i, a := range p.Allocations {
		allocs[i] = api.Allocation{
			PurchaserID: a.PurchaserID,
			AmountPaid:  a.AmountPaid,
			AmountToPay: a.AmountToPay,
		}
	}

	var date string
	if !p.Date.IsZero() {
		date = p.Date.Format(form.DateLayout)
	}

	return api.Purchase{
		ID:          p.ID,
		Title:       p.Title,
		Date:        date,
		Note:        p.Note,
		IsSettled:   p.IsSettled,
		Allocations: allocs,
		TotalAmount: p.TotalAmount(),
		CreatedAt:   p.CreatedAt,
	}
}

func toFormEntries(entries []api.Entry) []form.Entry {
	out := make([]form.Entry, len(entries))
	for i, e := range entries {
		out[i] = form.Entry{
			PurchaserID: e.PurchaserID,
			Name:        e.Name,
			AmountPaid:  form.AmountField{Raw: e.AmountPaid},
			AmountToPay: form.AmountField{Raw: e.AmountToPay},
		}
	}
	return out
}

func toAPIEntries(entries []form.Entry) []api.Entry {
	out := make([]api.Entry, len(entries))
	for i, e := range entries {
		out[i] = api.Entry{
			PurchaserID: e.PurchaserID,
			Name:        e.Name,
			AmountPaid:  e.AmountPaid.Raw,
			AmountToPay: e.AmountToPay.Raw,
		}
	}
	return out
}

// newPurchaseForm loads a submitted form into a PurchaseForm value.
func newPurchaseForm(in api.PurchaseInput, rng *rand.Rand) *form.PurchaseForm {
	f := form.NewPurchaseForm(form.NewRoster(toFormEntries(in.Entries), nil), rng)
	f.Title = in.Title
	f.Date = in.Date
	f.Note = in.Note
	return f
}

// parseView maps the wire view name onto a filter. Empty means unsettled.
func parseView(view string) (models.SettledFilter, error) {
	switch view {
	case "", api.ViewUnsettled:
		return models.Unsettled, nil
	case api.ViewSettled:
		return models.Settled, nil
	default:
		return 0, connect.NewError(connect.CodeInvalidArgument, errors.New("view must be \"unsettled\" or \"settled\""))
	}
}

// storeError maps a store failure onto a Connect error.
func storeError(err error) error {
	if errors.Is(err, storage.ErrNotFound) {
		return connect.NewError(connect.CodeNotFound, err)
	}
	return connect.NewError(connect.CodeInternal, err)
}
