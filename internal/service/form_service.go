package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"math/rand/v2"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/internal/form"
	"github.com/mmynk/warikan/pkg/api"
	"github.com/mmynk/warikan/pkg/api/apiconnect"
)

// FormService implements the Connect FormService. Each call loads the
// submitted entries into a fresh form, so no state is kept between calls.
type FormService struct {
	apiconnect.UnimplementedFormServiceHandler
	purchasers form.PurchaserLister

	// newRand returns the source for one equal split. Nil uses the global source.
	newRand func() *rand.Rand
}

// NewFormService creates a FormService that syncs rosters against purchasers.
func NewFormService(purchasers form.PurchaserLister) *FormService {
	return &FormService{purchasers: purchasers}
}

func (s *FormService) rng() *rand.Rand {
	if s.newRand == nil {
		return nil
	}
	return s.newRand()
}

// DistributeEqually splits the amount-paid sum over the entries.
func (s *FormService) DistributeEqually(ctx context.Context, req *connect.Request[api.DistributeEquallyRequest]) (*connect.Response[api.DistributeEquallyResponse], error) {
	f := form.NewPurchaseForm(form.NewRoster(toFormEntries(req.Msg.Entries), nil), s.rng())
	f.SetEqualSplit(true)

	slog.Debug("Distributed equally", "entries", len(req.Msg.Entries), "total", f.AmountPaidSum())
	return connect.NewResponse(&api.DistributeEquallyResponse{
		Entries: toAPIEntries(f.Roster().Entries()),
		Total:   f.AmountPaidSum(),
	}), nil
}

// FillRemainder computes the amount to pay that balances entry Index.
func (s *FormService) FillRemainder(ctx context.Context, req *connect.Request[api.FillRemainderRequest]) (*connect.Response[api.FillRemainderResponse], error) {
	i := req.Msg.Index
	if i < 0 || i >= len(req.Msg.Entries) {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("index %d out of range for %d entries", i, len(req.Msg.Entries)))
	}

	f := form.NewPurchaseForm(form.NewRoster(toFormEntries(req.Msg.Entries), nil), nil)
	f.FillRemainder(i)
	return connect.NewResponse(&api.FillRemainderResponse{
		AmountToPay: f.Roster().Entry(i).AmountToPay.Number(),
	}), nil
}

// SyncRoster refreshes the submitted entries against the stored purchasers.
func (s *FormService) SyncRoster(ctx context.Context, req *connect.Request[api.SyncRosterRequest]) (*connect.Response[api.SyncRosterResponse], error) {
	var policy form.SyncPolicy
	switch req.Msg.Policy {
	case "", api.PolicyLength:
		policy = form.SyncRoster
	case api.PolicyID:
		policy = form.ReconcileByID
	default:
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("unknown sync policy %q", req.Msg.Policy))
	}

	roster := form.NewRoster(toFormEntries(req.Msg.Entries), policy)
	if err := roster.Refresh(ctx, s.purchasers); err != nil {
		slog.Error("SyncRoster failed", "error", err)
		return nil, connect.NewError(connect.CodeUnavailable, err)
	}
	return connect.NewResponse(&api.SyncRosterResponse{Entries: toAPIEntries(roster.Entries())}), nil
}

// ValidatePurchase reports per-field problems of a purchase form without
// saving anything.
func (s *FormService) ValidatePurchase(ctx context.Context, req *connect.Request[api.ValidatePurchaseRequest]) (*connect.Response[api.ValidatePurchaseResponse], error) {
	_, err := newPurchaseForm(req.Msg.Purchase, nil).Validate()
	if err == nil {
		return connect.NewResponse(&api.ValidatePurchaseResponse{Valid: true}), nil
	}

	var fieldErrs form.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.ValidatePurchaseResponse{FieldErrors: fieldErrs}), nil
}
