package apiconnect

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/pkg/api"
)

// PurchaseServiceName is the fully-qualified name of the PurchaseService service.
const PurchaseServiceName = "warikan.v1.PurchaseService"

// Procedure paths of PurchaseService.
const (
	PurchaseServiceListPurchasersProcedure   = "/warikan.v1.PurchaseService/ListPurchasers"
	PurchaseServiceCreatePurchasersProcedure = "/warikan.v1.PurchaseService/CreatePurchasers"
	PurchaseServiceListPurchasesProcedure    = "/warikan.v1.PurchaseService/ListPurchases"
	PurchaseServiceGetPurchaseProcedure      = "/warikan.v1.PurchaseService/GetPurchase"
	PurchaseServiceCreatePurchaseProcedure   = "/warikan.v1.PurchaseService/CreatePurchase"
	PurchaseServiceUpdatePurchaseProcedure   = "/warikan.v1.PurchaseService/UpdatePurchase"
	PurchaseServiceSetSettledProcedure       = "/warikan.v1.PurchaseService/SetSettled"
	PurchaseServiceDeletePurchaseProcedure   = "/warikan.v1.PurchaseService/DeletePurchase"
	PurchaseServiceGetBalancesProcedure      = "/warikan.v1.PurchaseService/GetBalances"
)

// PurchaseServiceHandler is implemented by the purchase service.
type PurchaseServiceHandler interface {
	ListPurchasers(context.Context, *connect.Request[api.ListPurchasersRequest]) (*connect.Response[api.ListPurchasersResponse], error)
	CreatePurchasers(context.Context, *connect.Request[api.CreatePurchasersRequest]) (*connect.Response[api.CreatePurchasersResponse], error)
	ListPurchases(context.Context, *connect.Request[api.ListPurchasesRequest]) (*connect.Response[api.ListPurchasesResponse], error)
	GetPurchase(context.Context, *connect.Request[api.GetPurchaseRequest]) (*connect.Response[api.GetPurchaseResponse], error)
	CreatePurchase(context.Context, *connect.Request[api.CreatePurchaseRequest]) (*connect.Response[api.CreatePurchaseResponse], error)
	UpdatePurchase(context.Context, *connect.Request[api.UpdatePurchaseRequest]) (*connect.Response[api.UpdatePurchaseResponse], error)
	SetSettled(context.Context, *connect.Request[api.SetSettledRequest]) (*connect.Response[api.SetSettledResponse], error)
	DeletePurchase(context.Context, *connect.Request[api.DeletePurchaseRequest]) (*connect.Response[api.DeletePurchaseResponse], error)
	GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error)
}

// NewPurchaseServiceHandler builds an HTTP handler from the service
// implementation. It returns the path on which to mount the handler and the
// handler itself.
func NewPurchaseServiceHandler(svc PurchaseServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		PurchaseServiceListPurchasersProcedure:   connect.NewUnaryHandler(PurchaseServiceListPurchasersProcedure, svc.ListPurchasers, opts...),
		PurchaseServiceCreatePurchasersProcedure: connect.NewUnaryHandler(PurchaseServiceCreatePurchasersProcedure, svc.CreatePurchasers, opts...),
		PurchaseServiceListPurchasesProcedure:    connect.NewUnaryHandler(PurchaseServiceListPurchasesProcedure, svc.ListPurchases, opts...),
		PurchaseServiceGetPurchaseProcedure:      connect.NewUnaryHandler(PurchaseServiceGetPurchaseProcedure, svc.GetPurchase, opts...),
		PurchaseServiceCreatePurchaseProcedure:   connect.NewUnaryHandler(PurchaseServiceCreatePurchaseProcedure, svc.CreatePurchase, opts...),
		PurchaseServiceUpdatePurchaseProcedure:   connect.NewUnaryHandler(PurchaseServiceUpdatePurchaseProcedure, svc.UpdatePurchase, opts...),
		PurchaseServiceSetSettledProcedure:       connect.NewUnaryHandler(PurchaseServiceSetSettledProcedure, svc.SetSettled, opts...),
		PurchaseServiceDeletePurchaseProcedure:   connect.NewUnaryHandler(PurchaseServiceDeletePurchaseProcedure, svc.DeletePurchase, opts...),
		PurchaseServiceGetBalancesProcedure:      connect.NewUnaryHandler(PurchaseServiceGetBalancesProcedure, svc.GetBalances, opts...),
	}
	return "/" + PurchaseServiceName + "/", routeByPath(routes)
}

// PurchaseServiceClient is a client for the purchase service.
type PurchaseServiceClient interface {
	PurchaseServiceHandler
}

// NewPurchaseServiceClient constructs a client for the purchase service.
// baseURL is the server root, e.g. http://localhost:8080.
func NewPurchaseServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) PurchaseServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &purchaseServiceClient{
		listPurchasers:   connect.NewClient[api.ListPurchasersRequest, api.ListPurchasersResponse](httpClient, baseURL+PurchaseServiceListPurchasersProcedure, opts...),
		createPurchasers: connect.NewClient[api.CreatePurchasersRequest, api.CreatePurchasersResponse](httpClient, baseURL+PurchaseServiceCreatePurchasersProcedure, opts...),
		listPurchases:    connect.NewClient[api.ListPurchasesRequest, api.ListPurchasesResponse](httpClient, baseURL+PurchaseServiceListPurchasesProcedure, opts...),
		getPurchase:      connect.NewClient[api.GetPurchaseRequest, api.GetPurchaseResponse](httpClient, baseURL+PurchaseServiceGetPurchaseProcedure, opts...),
		createPurchase:   connect.NewClient[api.CreatePurchaseRequest, api.CreatePurchaseResponse](httpClient, baseURL+PurchaseServiceCreatePurchaseProcedure, opts...),
		updatePurchase:   connect.NewClient[api.UpdatePurchaseRequest, api.UpdatePurchaseResponse](httpClient, baseURL+PurchaseServiceUpdatePurchaseProcedure, opts...),
		setSettled:       connect.NewClient[api.SetSettledRequest, api.SetSettledResponse](httpClient, baseURL+PurchaseServiceSetSettledProcedure, opts...),
		deletePurchase:   connect.NewClient[api.DeletePurchaseRequest, api.DeletePurchaseResponse](httpClient, baseURL+PurchaseServiceDeletePurchaseProcedure, opts...),
		getBalances:      connect.NewClient[api.GetBalancesRequest, api.GetBalancesResponse](httpClient, baseURL+PurchaseServiceGetBalancesProcedure, opts...),
	}
}

type purchaseServiceClient struct {
	listPurchasers   *connect.Client[api.ListPurchasersRequest, api.ListPurchasersResponse]
	createPurchasers *connect.Client[api.CreatePurchasersRequest, api.CreatePurchasersResponse]
	listPurchases    *connect.Client[api.ListPurchasesRequest, api.ListPurchasesResponse]
	getPurchase      *connect.Client[api.GetPurchaseRequest, api.GetPurchaseResponse]
	createPurchase   *connect.Client[api.CreatePurchaseRequest, api.CreatePurchaseResponse]
	updatePurchase   *connect.Client[api.UpdatePurchaseRequest, api.UpdatePurchaseResponse]
	setSettled       *connect.Client[api.SetSettledRequest, api.SetSettledResponse]
	deletePurchase   *connect.Client[api.DeletePurchaseRequest, api.DeletePurchaseResponse]
	getBalances      *connect.Client[api.GetBalancesRequest, api.GetBalancesResponse]
}

func (c *purchaseServiceClient) ListPurchasers(ctx context.Context, req *connect.Request[api.ListPurchasersRequest]) (*connect.Response[api.ListPurchasersResponse], error) {
	return c.listPurchasers.CallUnary(ctx, req)
}

func (c *purchaseServiceClient) CreatePurchasers(ctx context.Context, req *connect.Request[api.CreatePurchasersRequest]) (*connect.Response[api.CreatePurchasersResponse], error) {
	return c.createPurchasers.CallUnary(ctx, req)
}

func (c *purchaseServiceClient) ListPurchases(ctx context.Context, req *connect.Request[api.ListPurchasesRequest]) (*connect.Response[api.ListPurchasesResponse], error) {
	return c.listPurchases.CallUnary(ctx, req)
}

func (c *purchaseServiceClient) GetPurchase(ctx context.Context, req *connect.Request[api.GetPurchaseRequest]) (*connect.Response[api.GetPurchaseResponse], error) {
	return c.getPurchase.CallUnary(ctx, req)
}

func (c *purchaseServiceClient) CreatePurchase(ctx context.Context, req *connect.Request[api.CreatePurchaseRequest]) (*connect.Response[api.CreatePurchaseResponse], error) {
	return c.createPurchase.CallUnary(ctx, req)
}

func (c *purchaseServiceClient) UpdatePurchase(ctx context.Context, req *connect.Request[api.UpdatePurchaseRequest]) (*connect.Response[api.UpdatePurchaseResponse], error) {
	return c.updatePurchase.CallUnary(ctx, req)
}

func (c *purchaseServiceClient) SetSettled(ctx context.Context, req *connect.Request[api.SetSettledRequest]) (*connect.Response[api.SetSettledResponse], error) {
	return c.setSettled.CallUnary(ctx, req)
}

func (c *purchaseServiceClient) DeletePurchase(ctx context.Context, req *connect.Request[api.DeletePurchaseRequest]) (*connect.Response[api.DeletePurchaseResponse], error) {
	return c.deletePurchase.CallUnary(ctx, req)
}

func (c *purchaseServiceClient) GetBalances(ctx context.Context, req *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return c.getBalances.CallUnary(ctx, req)
}

// UnimplementedPurchaseServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedPurchaseServiceHandler struct{}

func (UnimplementedPurchaseServiceHandler) ListPurchasers(context.Context, *connect.Request[api.ListPurchasersRequest]) (*connect.Response[api.ListPurchasersResponse], error) {
	return nil, unimplemented(PurchaseServiceListPurchasersProcedure)
}

func (UnimplementedPurchaseServiceHandler) CreatePurchasers(context.Context, *connect.Request[api.CreatePurchasersRequest]) (*connect.Response[api.CreatePurchasersResponse], error) {
	return nil, unimplemented(PurchaseServiceCreatePurchasersProcedure)
}

func (UnimplementedPurchaseServiceHandler) ListPurchases(context.Context, *connect.Request[api.ListPurchasesRequest]) (*connect.Response[api.ListPurchasesResponse], error) {
	return nil, unimplemented(PurchaseServiceListPurchasesProcedure)
}

func (UnimplementedPurchaseServiceHandler) GetPurchase(context.Context, *connect.Request[api.GetPurchaseRequest]) (*connect.Response[api.GetPurchaseResponse], error) {
	return nil, unimplemented(PurchaseServiceGetPurchaseProcedure)
}

func (UnimplementedPurchaseServiceHandler) CreatePurchase(context.Context, *connect.Request[api.CreatePurchaseRequest]) (*connect.Response[api.CreatePurchaseResponse], error) {
	return nil, unimplemented(PurchaseServiceCreatePurchaseProcedure)
}

func (UnimplementedPurchaseServiceHandler) UpdatePurchase(context.Context, *connect.Request[api.UpdatePurchaseRequest]) (*connect.Response[api.UpdatePurchaseResponse], error) {
	return nil, unimplemented(PurchaseServiceUpdatePurchaseProcedure)
}

func (UnimplementedPurchaseServiceHandler) SetSettled(context.Context, *connect.Request[api.SetSettledRequest]) (*connect.Response[api.SetSettledResponse], error) {
	return nil, unimplemented(PurchaseServiceSetSettledProcedure)
}

func (UnimplementedPurchaseServiceHandler) DeletePurchase(context.Context, *connect.Request[api.DeletePurchaseRequest]) (*connect.Response[api.DeletePurchaseResponse], error) {
	return nil, unimplemented(PurchaseServiceDeletePurchaseProcedure)
}

func (UnimplementedPurchaseServiceHandler) GetBalances(context.Context, *connect.Request[api.GetBalancesRequest]) (*connect.Response[api.GetBalancesResponse], error) {
	return nil, unimplemented(PurchaseServiceGetBalancesProcedure)
}

func unimplemented(procedure string) error {
	return connect.NewError(connect.CodeUnimplemented, errors.New(procedure+" is not implemented"))
}

// routeByPath dispatches on the exact procedure path.
func routeByPath(routes map[string]http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h, ok := routes[r.URL.Path]
		if !ok {
			http.NotFound(w, r)
			return
		}
		h.ServeHTTP(w, r)
	})
}
