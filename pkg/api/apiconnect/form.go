package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/pkg/api"
)

// FormServiceName is the fully-qualified name of the FormService service.
const FormServiceName = "warikan.v1.FormService"

// Procedure paths of FormService.
const (
	FormServiceDistributeEquallyProcedure = "/warikan.v1.FormService/DistributeEqually"
	FormServiceFillRemainderProcedure     = "/warikan.v1.FormService/FillRemainder"
	FormServiceSyncRosterProcedure        = "/warikan.v1.FormService/SyncRoster"
	FormServiceValidatePurchaseProcedure  = "/warikan.v1.FormService/ValidatePurchase"
)

// FormServiceHandler is implemented by the purchase form service.
type FormServiceHandler interface {
	DistributeEqually(context.Context, *connect.Request[api.DistributeEquallyRequest]) (*connect.Response[api.DistributeEquallyResponse], error)
	FillRemainder(context.Context, *connect.Request[api.FillRemainderRequest]) (*connect.Response[api.FillRemainderResponse], error)
	SyncRoster(context.Context, *connect.Request[api.SyncRosterRequest]) (*connect.Response[api.SyncRosterResponse], error)
	ValidatePurchase(context.Context, *connect.Request[api.ValidatePurchaseRequest]) (*connect.Response[api.ValidatePurchaseResponse], error)
}

// NewFormServiceHandler builds an HTTP handler from the service implementation.
func NewFormServiceHandler(svc FormServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		FormServiceDistributeEquallyProcedure: connect.NewUnaryHandler(FormServiceDistributeEquallyProcedure, svc.DistributeEqually, opts...),
		FormServiceFillRemainderProcedure:     connect.NewUnaryHandler(FormServiceFillRemainderProcedure, svc.FillRemainder, opts...),
		FormServiceSyncRosterProcedure:        connect.NewUnaryHandler(FormServiceSyncRosterProcedure, svc.SyncRoster, opts...),
		FormServiceValidatePurchaseProcedure:  connect.NewUnaryHandler(FormServiceValidatePurchaseProcedure, svc.ValidatePurchase, opts...),
	}
	return "/" + FormServiceName + "/", routeByPath(routes)
}

// FormServiceClient is a client for the purchase form service.
type FormServiceClient interface {
	FormServiceHandler
}

// NewFormServiceClient constructs a client for the purchase form service.
func NewFormServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) FormServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &formServiceClient{
		distributeEqually: connect.NewClient[api.DistributeEquallyRequest, api.DistributeEquallyResponse](httpClient, baseURL+FormServiceDistributeEquallyProcedure, opts...),
		fillRemainder:     connect.NewClient[api.FillRemainderRequest, api.FillRemainderResponse](httpClient, baseURL+FormServiceFillRemainderProcedure, opts...),
		syncRoster:        connect.NewClient[api.SyncRosterRequest, api.SyncRosterResponse](httpClient, baseURL+FormServiceSyncRosterProcedure, opts...),
		validatePurchase:  connect.NewClient[api.ValidatePurchaseRequest, api.ValidatePurchaseResponse](httpClient, baseURL+FormServiceValidatePurchaseProcedure, opts...),
	}
}

type formServiceClient struct {
	distributeEqually *connect.Client[api.DistributeEquallyRequest, api.DistributeEquallyResponse]
	fillRemainder     *connect.Client[api.FillRemainderRequest, api.FillRemainderResponse]
	syncRoster        *connect.Client[api.SyncRosterRequest, api.SyncRosterResponse]
	validatePurchase  *connect.Client[api.ValidatePurchaseRequest, api.ValidatePurchaseResponse]
}

func (c *formServiceClient) DistributeEqually(ctx context.Context, req *connect.Request[api.DistributeEquallyRequest]) (*connect.Response[api.DistributeEquallyResponse], error) {
	return c.distributeEqually.CallUnary(ctx, req)
}

func (c *formServiceClient) FillRemainder(ctx context.Context, req *connect.Request[api.FillRemainderRequest]) (*connect.Response[api.FillRemainderResponse], error) {
	return c.fillRemainder.CallUnary(ctx, req)
}

func (c *formServiceClient) SyncRoster(ctx context.Context, req *connect.Request[api.SyncRosterRequest]) (*connect.Response[api.SyncRosterResponse], error) {
	return c.syncRoster.CallUnary(ctx, req)
}

func (c *formServiceClient) ValidatePurchase(ctx context.Context, req *connect.Request[api.ValidatePurchaseRequest]) (*connect.Response[api.ValidatePurchaseResponse], error) {
	return c.validatePurchase.CallUnary(ctx, req)
}

// UnimplementedFormServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedFormServiceHandler struct{}

func (UnimplementedFormServiceHandler) DistributeEqually(context.Context, *connect.Request[api.DistributeEquallyRequest]) (*connect.Response[api.DistributeEquallyResponse], error) {
	return nil, unimplemented(FormServiceDistributeEquallyProcedure)
}

func (UnimplementedFormServiceHandler) FillRemainder(context.Context, *connect.Request[api.FillRemainderRequest]) (*connect.Response[api.FillRemainderResponse], error) {
	return nil, unimplemented(FormServiceFillRemainderProcedure)
}

func (UnimplementedFormServiceHandler) SyncRoster(context.Context, *connect.Request[api.SyncRosterRequest]) (*connect.Response[api.SyncRosterResponse], error) {
	return nil, unimplemented(FormServiceSyncRosterProcedure)
}

func (UnimplementedFormServiceHandler) ValidatePurchase(context.Context, *connect.Request[api.ValidatePurchaseRequest]) (*connect.Response[api.ValidatePurchaseResponse], error) {
	return nil, unimplemented(FormServiceValidatePurchaseProcedure)
}
