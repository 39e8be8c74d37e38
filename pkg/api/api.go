// Package api defines the request and response messages of the warikan
// RPC services. Messages travel as JSON; field names follow the lowerCamel
// convention of the web client.
package api

// Purchaser is a participant in shared purchases.
type Purchaser struct {
	ID        int64  `json:"id"`
	Name      string `json:"name"`
	CreatedAt int64  `json:"createdAt,omitempty"`
}

// Allocation is one purchaser's share of a stored purchase.
type Allocation struct {
	PurchaserID int64  `json:"purchaserId"`
	AmountPaid  *int64 `json:"amountPaid,omitempty"`
	AmountToPay *int64 `json:"amountToPay,omitempty"`
}

// Purchase is a stored purchase.
type Purchase struct {
	ID          int64        `json:"id"`
	Title       string       `json:"title"`
	Date        string       `json:"date,omitempty"`
	Note        string       `json:"note,omitempty"`
	IsSettled   bool         `json:"isSettled"`
	Allocations []Allocation `json:"allocations"`
	TotalAmount int64        `json:"totalAmount"`
	CreatedAt   int64        `json:"createdAt"`
}

// Entry is one purchaser's row in the purchase form. Amounts are the text
// as typed.
type Entry struct {
	PurchaserID int64  `json:"purchaserId"`
	Name        string `json:"name"`
	AmountPaid  string `json:"amountPaid,omitempty"`
	AmountToPay string `json:"amountToPay,omitempty"`
}

// PurchaseInput is a submitted purchase form.
type PurchaseInput struct {
	Title   string  `json:"title"`
	Date    string  `json:"date,omitempty"`
	Note    string  `json:"note,omitempty"`
	Entries []Entry `json:"entries"`
}

// User is a registered account.
type User struct {
	ID          string `json:"id"`
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	CreatedAt   int64  `json:"createdAt,omitempty"`
}

// PurchaserBalance is a purchaser's position across unsettled purchases.
type PurchaserBalance struct {
	PurchaserID int64  `json:"purchaserId"`
	Name        string `json:"name"`
	NetBalance  int64  `json:"netBalance"`
	TotalPaid   int64  `json:"totalPaid"`
	TotalOwed   int64  `json:"totalOwed"`
}

// Debt is a payment that settles part of the balances.
type Debt struct {
	From     int64  `json:"from"`
	FromName string `json:"fromName"`
	To       int64  `json:"to"`
	ToName   string `json:"toName"`
	Amount   int64  `json:"amount"`
}

// Purchase views accepted by ListPurchasesRequest.View.
const (
	ViewUnsettled = "unsettled"
	ViewSettled   = "settled"
)

type ListPurchasersRequest struct{}

type ListPurchasersResponse struct {
	Purchasers []Purchaser `json:"purchasers"`
}

type CreatePurchasersRequest struct {
	Names []string `json:"names"`
}

// CreatePurchasersResponse carries the refreshed purchaser list.
type CreatePurchasersResponse struct {
	Purchasers []Purchaser `json:"purchasers"`
}

type ListPurchasesRequest struct {
	View string `json:"view"`
}

type ListPurchasesResponse struct {
	Purchases []Purchase `json:"purchases"`
}

type GetPurchaseRequest struct {
	PurchaseID int64 `json:"purchaseId"`
}

type GetPurchaseResponse struct {
	Purchase Purchase `json:"purchase"`
}

type CreatePurchaseRequest struct {
	Purchase PurchaseInput `json:"purchase"`
}

type CreatePurchaseResponse struct {
	Purchase Purchase `json:"purchase"`
}

type UpdatePurchaseRequest struct {
	PurchaseID int64         `json:"purchaseId"`
	Purchase   PurchaseInput `json:"purchase"`
}

type UpdatePurchaseResponse struct {
	Purchase Purchase `json:"purchase"`
}

type SetSettledRequest struct {
	PurchaseID int64 `json:"purchaseId"`
	Settled    bool  `json:"settled"`
}

type SetSettledResponse struct{}

type DeletePurchaseRequest struct {
	PurchaseID int64 `json:"purchaseId"`
}

type DeletePurchaseResponse struct{}

type GetBalancesRequest struct{}

type GetBalancesResponse struct {
	Balances []PurchaserBalance `json:"balances"`
	Debts    []Debt             `json:"debts"`
}

type DistributeEquallyRequest struct {
	Entries []Entry `json:"entries"`
}

type DistributeEquallyResponse struct {
	Entries []Entry `json:"entries"`
	Total   int64   `json:"total"`
}

type FillRemainderRequest struct {
	Entries []Entry `json:"entries"`
	Index   int     `json:"index"`
}

type FillRemainderResponse struct {
	AmountToPay int64 `json:"amountToPay"`
}

// Roster sync policies accepted by SyncRosterRequest.Policy.
const (
	PolicyLength = "length"
	PolicyID     = "id"
)

type SyncRosterRequest struct {
	Entries []Entry `json:"entries"`
	Policy  string  `json:"policy,omitempty"`
}

type SyncRosterResponse struct {
	Entries []Entry `json:"entries"`
}

type ValidatePurchaseRequest struct {
	Purchase PurchaseInput `json:"purchase"`
}

type ValidatePurchaseResponse struct {
	Valid       bool              `json:"valid"`
	FieldErrors map[string]string `json:"fieldErrors,omitempty"`
}

type RegisterRequest struct {
	Email       string `json:"email"`
	DisplayName string `json:"displayName"`
	Password    string `json:"password"`
}

type RegisterResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	User  User   `json:"user"`
	Token string `json:"token"`
}

type GetCurrentUserRequest struct{}

type GetCurrentUserResponse struct {
	User User `json:"user"`
}
