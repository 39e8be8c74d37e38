package calculator

import (
	"slices"
	"testing"
)

func TestCalculateBalances(t *testing.T) {
	tests := []struct {
		name         string
		purchases    []PurchaseForBalance
		wantBalances []PurchaserBalance
		wantDebts    []DebtEdge
	}{
		{
			name:         "no purchases",
			purchases:    nil,
			wantBalances: []PurchaserBalance{},
			wantDebts:    nil,
		},
		{
			name: "one payer split three ways",
			purchases: []PurchaseForBalance{
				{Allocations: []AllocationForBalance{
					{PurchaserID: 1, AmountPaid: 300, AmountToPay: 100},
					{PurchaserID: 2, AmountPaid: 0, AmountToPay: 100},
					{PurchaserID: 3, AmountPaid: 0, AmountToPay: 100},
				}},
			},
			wantBalances: []PurchaserBalance{
				{PurchaserID: 1, NetBalance: 200, TotalPaid: 300, TotalOwed: 100},
				{PurchaserID: 2, NetBalance: -100, TotalPaid: 0, TotalOwed: 100},
				{PurchaserID: 3, NetBalance: -100, TotalPaid: 0, TotalOwed: 100},
			},
			wantDebts: []DebtEdge{
				{From: 2, To: 1, Amount: 100},
				{From: 3, To: 1, Amount: 100},
			},
		},
		{
			name: "purchases net out across payers",
			purchases: []PurchaseForBalance{
				{Allocations: []AllocationForBalance{
					{PurchaserID: 1, AmountPaid: 100, AmountToPay: 50},
					{PurchaserID: 2, AmountPaid: 0, AmountToPay: 50},
				}},
				{Allocations: []AllocationForBalance{
					{PurchaserID: 1, AmountPaid: 0, AmountToPay: 30},
					{PurchaserID: 2, AmountPaid: 60, AmountToPay: 30},
				}},
			},
			wantBalances: []PurchaserBalance{
				{PurchaserID: 1, NetBalance: 20, TotalPaid: 100, TotalOwed: 80},
				{PurchaserID: 2, NetBalance: -20, TotalPaid: 60, TotalOwed: 80},
			},
			wantDebts: []DebtEdge{
				{From: 2, To: 1, Amount: 20},
			},
		},
		{
			name: "even purchase produces no debts",
			purchases: []PurchaseForBalance{
				{Allocations: []AllocationForBalance{
					{PurchaserID: 1, AmountPaid: 45, AmountToPay: 45},
					{PurchaserID: 2, AmountPaid: 45, AmountToPay: 45},
				}},
			},
			wantBalances: []PurchaserBalance{
				{PurchaserID: 1, TotalPaid: 45, TotalOwed: 45},
				{PurchaserID: 2, TotalPaid: 45, TotalOwed: 45},
			},
			wantDebts: nil,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			balances, debts := CalculateBalances(tt.purchases)
			if !slices.Equal(balances, tt.wantBalances) {
				t.Errorf("balances = %+v, want %+v", balances, tt.wantBalances)
			}
			if !slices.Equal(debts, tt.wantDebts) {
				t.Errorf("debts = %+v, want %+v", debts, tt.wantDebts)
			}
		})
	}
}

func TestCalculateBalances_DebtsCoverNetBalances(t *testing.T) {
	purchases := []PurchaseForBalance{
		{Allocations: []AllocationForBalance{
			{PurchaserID: 1, AmountPaid: 1000, AmountToPay: 334},
			{PurchaserID: 2, AmountPaid: 0, AmountToPay: 333},
			{PurchaserID: 3, AmountPaid: 0, AmountToPay: 333},
		}},
		{Allocations: []AllocationForBalance{
			{PurchaserID: 2, AmountPaid: 500, AmountToPay: 250},
			{PurchaserID: 4, AmountPaid: 0, AmountToPay: 250},
		}},
	}

	balances, debts := CalculateBalances(purchases)

	flow := make(map[int64]int64)
	for _, d := range debts {
		if d.Amount <= 0 {
			t.Errorf("non-positive debt %+v", d)
		}
		flow[d.From] -= d.Amount
		flow[d.To] += d.Amount
	}
	for _, b := range balances {
		if flow[b.PurchaserID] != b.NetBalance {
			t.Errorf("purchaser %d: debts move %d, net balance %d", b.PurchaserID, flow[b.PurchaserID], b.NetBalance)
		}
	}
}
