package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/internal/calculator"
	"github.com/mmynk/warikan/internal/middleware"
	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/internal/storage"
	"github.com/mmynk/warikan/pkg/api"
	"github.com/mmynk/warikan/pkg/api/apiconnect"
)

// PurchaseService implements the Connect PurchaseService
type PurchaseService struct {
	apiconnect.UnimplementedPurchaseServiceHandler
	store storage.Store
}

// NewPurchaseService creates a new PurchaseService with the given storage backend.
func NewPurchaseService(store storage.Store) *PurchaseService {
	return &PurchaseService{store: store}
}

// ListPurchasers returns every purchaser in creation order.
func (s *PurchaseService) ListPurchasers(ctx context.Context, req *connect.Request[api.ListPurchasersRequest]) (*connect.Response[api.ListPurchasersResponse], error) {
	purchasers, err := s.store.ListPurchasers(ctx)
	if err != nil {
		slog.Error("ListPurchasers failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.ListPurchasersResponse{Purchasers: toAPIPurchasers(purchasers)}), nil
}

// CreatePurchasers adds purchasers by name and returns the refreshed list.
func (s *PurchaseService) CreatePurchasers(ctx context.Context, req *connect.Request[api.CreatePurchasersRequest]) (*connect.Response[api.CreatePurchasersResponse], error) {
	names := make([]string, 0, len(req.Msg.Names))
	for _, n := range req.Msg.Names {
		if n = strings.TrimSpace(n); n != "" {
			names = append(names, n)
		}
	}
	if len(names) == 0 {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("at least one purchaser name is required"))
	}

	slog.Info("CreatePurchasers request received", "count", len(names), "user_id", middleware.GetUserID(ctx))
	if err := s.store.CreatePurchasers(ctx, names); err != nil {
		slog.Error("CreatePurchasers failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	purchasers, err := s.store.ListPurchasers(ctx)
	if err != nil {
		slog.Error("Failed to fetch purchasers", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	return connect.NewResponse(&api.CreatePurchasersResponse{Purchasers: toAPIPurchasers(purchasers)}), nil
}

// ListPurchases returns one of the two purchase views.
func (s *PurchaseService) ListPurchases(ctx context.Context, req *connect.Request[api.ListPurchasesRequest]) (*connect.Response[api.ListPurchasesResponse], error) {
	filter, err := parseView(req.Msg.View)
	if err != nil {
		return nil, err
	}

	purchases, err := s.store.ListPurchases(ctx, filter)
	if err != nil {
		slog.Error("ListPurchases failed", "view", filter, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	out := make([]api.Purchase, len(purchases))
	for i := range purchases {
		out[i] = toAPIPurchase(&purchases[i])
	}
	slog.Debug("ListPurchases successful", "view", filter, "count", len(out))
	return connect.NewResponse(&api.ListPurchasesResponse{Purchases: out}), nil
}

// GetPurchase returns one purchase with its allocations.
func (s *PurchaseService) GetPurchase(ctx context.Context, req *connect.Request[api.GetPurchaseRequest]) (*connect.Response[api.GetPurchaseResponse], error) {
	p, err := s.store.GetPurchase(ctx, req.Msg.PurchaseID)
	if err != nil {
		slog.Error("GetPurchase failed", "purchase_id", req.Msg.PurchaseID, "error", err)
		return nil, storeError(err)
	}
	return connect.NewResponse(&api.GetPurchaseResponse{Purchase: toAPIPurchase(p)}), nil
}

// CreatePurchase validates the submitted form and records the purchase.
//
// The purchase row and its allocations are written separately. If the
// allocation write fails the purchase row is deleted again; if that fails
// too the error names the purchase left behind.
func (s *PurchaseService) CreatePurchase(ctx context.Context, req *connect.Request[api.CreatePurchaseRequest]) (*connect.Response[api.CreatePurchaseResponse], error) {
	draft, err := s.validate(ctx, req.Msg.Purchase)
	if err != nil {
		return nil, err
	}

	slog.Info("CreatePurchase request received",
		"title", draft.Title,
		"allocations", len(draft.Allocations),
		"user_id", middleware.GetUserID(ctx),
	)

	purchase, err := s.store.CreatePurchase(ctx, draft)
	if err != nil {
		slog.Error("CreatePurchase failed", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	if err := s.store.UpsertAllocations(ctx, purchase.ID, draft.Allocations); err != nil {
		slog.Error("Failed to save allocations", "purchase_id", purchase.ID, "error", err)
		if delErr := s.store.DeletePurchase(ctx, purchase.ID); delErr != nil {
			slog.Error("Failed to remove purchase without allocations", "purchase_id", purchase.ID, "error", delErr)
			return nil, connect.NewError(connect.CodeInternal,
				fmt.Errorf("purchase %d was saved without allocations and must be removed manually: %w", purchase.ID, errors.Join(err, delErr)))
		}
		return nil, connect.NewError(connect.CodeInternal, fmt.Errorf("failed to save allocations: %w", err))
	}

	saved, err := s.store.GetPurchase(ctx, purchase.ID)
	if err != nil {
		slog.Error("Failed to fetch created purchase", "purchase_id", purchase.ID, "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}

	slog.Info("Purchase created", "purchase_id", saved.ID, "total", saved.TotalAmount())
	return connect.NewResponse(&api.CreatePurchaseResponse{Purchase: toAPIPurchase(saved)}), nil
}

// UpdatePurchase rewrites the fields of a purchase and upserts its allocations.
func (s *PurchaseService) UpdatePurchase(ctx context.Context, req *connect.Request[api.UpdatePurchaseRequest]) (*connect.Response[api.UpdatePurchaseResponse], error) {
	draft, err := s.validate(ctx, req.Msg.Purchase)
	if err != nil {
		return nil, err
	}

	id := req.Msg.PurchaseID
	slog.Info("UpdatePurchase request received", "purchase_id", id, "user_id", middleware.GetUserID(ctx))

	if err := s.store.UpdatePurchase(ctx, id, draft); err != nil {
		slog.Error("UpdatePurchase failed", "purchase_id", id, "error", err)
		return nil, storeError(err)
	}
	if err := s.store.UpsertAllocations(ctx, id, draft.Allocations); err != nil {
		slog.Error("Failed to save allocations", "purchase_id", id, "error", err)
		return nil, storeError(err)
	}

	saved, err := s.store.GetPurchase(ctx, id)
	if err != nil {
		slog.Error("Failed to fetch updated purchase", "purchase_id", id, "error", err)
		return nil, storeError(err)
	}

	slog.Info("Purchase updated", "purchase_id", id)
	return connect.NewResponse(&api.UpdatePurchaseResponse{Purchase: toAPIPurchase(saved)}), nil
}

// SetSettled moves a purchase between the unsettled and settled views.
func (s *PurchaseService) SetSettled(ctx context.Context, req *connect.Request[api.SetSettledRequest]) (*connect.Response[api.SetSettledResponse], error) {
	if err := s.store.SetSettled(ctx, req.Msg.PurchaseID, req.Msg.Settled); err != nil {
		slog.Error("SetSettled failed", "purchase_id", req.Msg.PurchaseID, "error", err)
		return nil, storeError(err)
	}
	slog.Info("Purchase settlement changed", "purchase_id", req.Msg.PurchaseID, "settled", req.Msg.Settled)
	return connect.NewResponse(&api.SetSettledResponse{}), nil
}

// DeletePurchase removes a purchase and its allocations.
func (s *PurchaseService) DeletePurchase(ctx context.Context, req *connect.Request[api.DeletePurchaseRequest]) (*connect.Response[api.DeletePurchaseResponse], error) {
	if err := s.store.DeletePurchase(ctx, req.Msg.PurchaseID); err != nil {
		slog.Error("DeletePurchase failed", "purchase_id", req.Msg.PurchaseID, "error", err)
		return nil, storeError(err)
	}
	slog.Info("Purchase deleted", "purchase_id", req.Msg.PurchaseID)
	return connect.NewResponse(&api.DeletePurchaseResponse{}), nil
}

// GetBalances computes who owes whom across all unsettled purchases.
func (s *PurchaseService) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	purchases, err := s.store.ListPurchases(ctx, models.Unsettled)
	if err != nil {
		slog.Error("GetBalances failed - could not list purchases", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	purchasers, err := s.store.ListPurchasers(ctx)
	if err != nil {
		slog.Error("GetBalances failed - could not list purchasers", "error", err)
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	names := make(map[int64]string, len(purchasers))
	for _, p := range purchasers {
		names[p.ID] = p.Name
	}

	input := make([]calculator.PurchaseForBalance, len(purchases))
	for i, p := range purchases {
		allocs := make([]calculator.AllocationForBalance, len(p.Allocations))
		for j, a := range p.Allocations {
			allocs[j] = calculator.AllocationForBalance{
				PurchaserID: a.PurchaserID,
				AmountPaid:  valueOrZero(a.AmountPaid),
				AmountToPay: valueOrZero(a.AmountToPay),
			}
		}
		input[i] = calculator.PurchaseForBalance{Allocations: allocs}
	}

	balances, debts := calculator.CalculateBalances(input)

	resp := &api.GetBalancesResponse{
		Balances: make([]api.PurchaserBalance, len(balances)),
		Debts:    make([]api.Debt, len(debts)),
	}
	for i, b := range balances {
		resp.Balances[i] = api.PurchaserBalance{
			PurchaserID: b.PurchaserID,
			Name:        names[b.PurchaserID],
			NetBalance:  b.NetBalance,
			TotalPaid:   b.TotalPaid,
			TotalOwed:   b.TotalOwed,
		}
	}
	for i, d := range debts {
		resp.Debts[i] = api.Debt{
			From:     d.From,
			FromName: names[d.From],
			To:       d.To,
			ToName:   names[d.To],
			Amount:   d.Amount,
		}
	}

	slog.Info("GetBalances successful", "purchases", len(purchases), "debts", len(debts))
	return connect.NewResponse(resp), nil
}

// validate runs form validation and checks that every allocation names a
// known purchaser.
func (s *PurchaseService) validate(ctx context.Context, in api.PurchaseInput) (*models.PurchaseDraft, error) {
	draft, err := newPurchaseForm(in, nil).Validate()
	if err != nil {
		slog.Warn("Purchase rejected", "error", err)
		return nil, connect.NewError(connect.CodeInvalidArgument, err)
	}

	purchasers, err := s.store.ListPurchasers(ctx)
	if err != nil {
		return nil, connect.NewError(connect.CodeInternal, err)
	}
	known := make(map[int64]bool, len(purchasers))
	for _, p := range purchasers {
		known[p.ID] = true
	}
	for _, a := range draft.Allocations {
		if !known[a.PurchaserID] {
			return nil, connect.NewError(connect.CodeInvalidArgument, fmt.Errorf("unknown purchaser %d", a.PurchaserID))
		}
	}
	return draft, nil
}

func valueOrZero(v *int64) int64 {
	if v == nil {
		return 0
	}
	return *v
}
