package calculator

import "sort"

// AllocationForBalance is one purchaser's paid/owed pair on a purchase.
// Missing amounts are 0.
type AllocationForBalance struct {
	PurchaserID int64
	AmountPaid  int64
	AmountToPay int64
}

// PurchaseForBalance represents a purchase with the minimal information needed for balance calculations.
type PurchaseForBalance struct {
	Allocations []AllocationForBalance
}

// PurchaserBalance represents the balance information for one purchaser.
type PurchaserBalance struct {
	PurchaserID int64
	NetBalance  int64 // Positive = owed money, Negative = owes money
	TotalPaid   int64
	TotalOwed   int64
}

// DebtEdge represents a debt from one purchaser to another.
type DebtEdge struct {
	From   int64 // Purchaser who owes
	To     int64 // Purchaser who is owed
	Amount int64
}

// CalculateBalances computes balances across purchases.
//
// Algorithm:
//   - For each allocation: purchaser paid AmountPaid and owes AmountToPay
//   - Aggregate: net_balance = total_paid - total_owed
//   - Debts: greedy matching of the largest debtor with the largest creditor
//
// Balances are returned ordered by purchaser ID. When a purchase's paid and
// owed sums differ the imbalance stays visible in the net balances and the
// debt list settles only what can be matched.
func CalculateBalances(purchases []PurchaseForBalance) ([]PurchaserBalance, []DebtEdge) {
	balances := make(map[int64]*PurchaserBalance)

	for _, p := range purchases {
		for _, a := range p.Allocations {
			bal, ok := balances[a.PurchaserID]
			if !ok {
				bal = &PurchaserBalance{PurchaserID: a.PurchaserID}
				balances[a.PurchaserID] = bal
			}
			bal.TotalPaid += a.AmountPaid
			bal.TotalOwed += a.AmountToPay
		}
	}

	result := make([]PurchaserBalance, 0, len(balances))
	for _, bal := range balances {
		bal.NetBalance = bal.TotalPaid - bal.TotalOwed
		result = append(result, *bal)
	}
	sort.Slice(result, func(i, j int) bool {
		return result[i].PurchaserID < result[j].PurchaserID
	})

	type party struct {
		id     int64
		amount int64
	}
	var creditors, debtors []party
	for _, bal := range result {
		if bal.NetBalance > 0 {
			creditors = append(creditors, party{bal.PurchaserID, bal.NetBalance})
		} else if bal.NetBalance < 0 {
			debtors = append(debtors, party{bal.PurchaserID, -bal.NetBalance})
		}
	}
	byAmount := func(ps []party) func(i, j int) bool {
		return func(i, j int) bool {
			if ps[i].amount != ps[j].amount {
				return ps[i].amount > ps[j].amount
			}
			return ps[i].id < ps[j].id
		}
	}
	sort.Slice(creditors, byAmount(creditors))
	sort.Slice(debtors, byAmount(debtors))

	var edges []DebtEdge
	i, j := 0, 0
	for i < len(debtors) && j < len(creditors) {
		amount := min(debtors[i].amount, creditors[j].amount)
		edges = append(edges, DebtEdge{
			From:   debtors[i].id,
			To:     creditors[j].id,
			Amount: amount,
		})

		debtors[i].amount -= amount
		creditors[j].amount -= amount
		if debtors[i].amount == 0 {
			i++
		}
		if creditors[j].amount == 0 {
			j++
		}
	}

	return result, edges
}
