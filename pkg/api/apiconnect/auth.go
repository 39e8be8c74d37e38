package apiconnect

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/warikan/pkg/api"
)

// AuthServiceName is the fully-qualified name of the AuthService service.
const AuthServiceName = "warikan.v1.AuthService"

// Procedure paths of AuthService.
const (
	AuthServiceRegisterProcedure       = "/warikan.v1.AuthService/Register"
	AuthServiceLoginProcedure          = "/warikan.v1.AuthService/Login"
	AuthServiceGetCurrentUserProcedure = "/warikan.v1.AuthService/GetCurrentUser"
)

// AuthServiceHandler is implemented by the auth service.
type AuthServiceHandler interface {
	Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error)
	Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error)
	GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error)
}

// NewAuthServiceHandler builds an HTTP handler from the service implementation.
func NewAuthServiceHandler(svc AuthServiceHandler, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = handlerOptions(opts)
	routes := map[string]http.Handler{
		AuthServiceRegisterProcedure:       connect.NewUnaryHandler(AuthServiceRegisterProcedure, svc.Register, opts...),
		AuthServiceLoginProcedure:          connect.NewUnaryHandler(AuthServiceLoginProcedure, svc.Login, opts...),
		AuthServiceGetCurrentUserProcedure: connect.NewUnaryHandler(AuthServiceGetCurrentUserProcedure, svc.GetCurrentUser, opts...),
	}
	return "/" + AuthServiceName + "/", routeByPath(routes)
}

// AuthServiceClient is a client for the auth service.
type AuthServiceClient interface {
	AuthServiceHandler
}

// NewAuthServiceClient constructs a client for the auth service.
func NewAuthServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) AuthServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = clientOptions(opts)
	return &authServiceClient{
		register:       connect.NewClient[api.RegisterRequest, api.RegisterResponse](httpClient, baseURL+AuthServiceRegisterProcedure, opts...),
		login:          connect.NewClient[api.LoginRequest, api.LoginResponse](httpClient, baseURL+AuthServiceLoginProcedure, opts...),
		getCurrentUser: connect.NewClient[api.GetCurrentUserRequest, api.GetCurrentUserResponse](httpClient, baseURL+AuthServiceGetCurrentUserProcedure, opts...),
	}
}

type authServiceClient struct {
	register       *connect.Client[api.RegisterRequest, api.RegisterResponse]
	login          *connect.Client[api.LoginRequest, api.LoginResponse]
	getCurrentUser *connect.Client[api.GetCurrentUserRequest, api.GetCurrentUserResponse]
}

func (c *authServiceClient) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return c.register.CallUnary(ctx, req)
}

func (c *authServiceClient) Login(ctx context.Context, req *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return c.login.CallUnary(ctx, req)
}

func (c *authServiceClient) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return c.getCurrentUser.CallUnary(ctx, req)
}

// UnimplementedAuthServiceHandler returns CodeUnimplemented from all methods.
type UnimplementedAuthServiceHandler struct{}

func (UnimplementedAuthServiceHandler) Register(context.Context, *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return nil, unimplemented(AuthServiceRegisterProcedure)
}

func (UnimplementedAuthServiceHandler) Login(context.Context, *connect.Request[api.LoginRequest]) (*connect.Response[api.LoginResponse], error) {
	return nil, unimplemented(AuthServiceLoginProcedure)
}

func (UnimplementedAuthServiceHandler) GetCurrentUser(context.Context, *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return nil, unimplemented(AuthServiceGetCurrentUserProcedure)
}
