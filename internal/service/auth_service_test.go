package service

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"connectrpc.com/connect"
	"golang.org/x/crypto/bcrypt"

	"github.com/mmynk/warikan/internal/auth"
	"github.com/mmynk/warikan/internal/middleware"
	"github.com/mmynk/warikan/pkg/api"
	"github.com/mmynk/warikan/pkg/api/apiconnect"
)

func setupAuthServer(t *testing.T) apiconnect.AuthServiceClient {
	t.Helper()

	store := newTestStore(t)
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	svc := NewAuthService(
		auth.NewPasswordAuthenticator(store, bcrypt.MinCost),
		jwtManager,
		store,
		slog.New(slog.NewTextHandler(io.Discard, nil)),
	)

	path, handler := apiconnect.NewAuthServiceHandler(svc, connect.WithInterceptors(middleware.RequireAuth(jwtManager)))
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func withToken[T any](msg *T, token string) *connect.Request[T] {
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+token)
	return req
}

func TestAuthService(t *testing.T) {
	client := setupAuthServer(t)
	ctx := context.Background()

	reg, err := client.Register(ctx, connect.NewRequest(&api.RegisterRequest{
		Email:       "alice@example.com",
		DisplayName: "Alice",
		Password:    "correct horse",
	}))
	if err != nil {
		t.Fatalf("Register failed: %v", err)
	}
	if reg.Msg.Token == "" || reg.Msg.User.ID == "" || reg.Msg.User.DisplayName != "Alice" {
		t.Fatalf("unexpected register response: %+v", reg.Msg)
	}

	t.Run("Register errors", func(t *testing.T) {
		tests := []struct {
			name string
			req  *api.RegisterRequest
			want connect.Code
		}{
			{"duplicate email", &api.RegisterRequest{Email: "alice@example.com", DisplayName: "A", Password: "another password"}, connect.CodeAlreadyExists},
			{"weak password", &api.RegisterRequest{Email: "bob@example.com", DisplayName: "Bob", Password: "short"}, connect.CodeInvalidArgument},
			{"missing display name", &api.RegisterRequest{Email: "carol@example.com", Password: "long enough"}, connect.CodeInvalidArgument},
		}
		for _, tt := range tests {
			t.Run(tt.name, func(t *testing.T) {
				_, err := client.Register(ctx, connect.NewRequest(tt.req))
				if connect.CodeOf(err) != tt.want {
					t.Errorf("error = %v, want %v", err, tt.want)
				}
			})
		}
	})

	t.Run("Login", func(t *testing.T) {
		resp, err := client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "correct horse"}))
		if err != nil {
			t.Fatalf("Login failed: %v", err)
		}
		if resp.Msg.User.ID != reg.Msg.User.ID || resp.Msg.Token == "" {
			t.Errorf("unexpected login response: %+v", resp.Msg)
		}

		_, err = client.Login(ctx, connect.NewRequest(&api.LoginRequest{Email: "alice@example.com", Password: "wrong horse"}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("wrong password error = %v, want Unauthenticated", err)
		}
	})

	t.Run("GetCurrentUser", func(t *testing.T) {
		resp, err := client.GetCurrentUser(ctx, withToken(&api.GetCurrentUserRequest{}, reg.Msg.Token))
		if err != nil {
			t.Fatalf("GetCurrentUser failed: %v", err)
		}
		u := resp.Msg.User
		if u.ID != reg.Msg.User.ID || u.Email != "alice@example.com" || u.DisplayName != "Alice" || u.CreatedAt == 0 {
			t.Errorf("unexpected user: %+v", u)
		}

		_, err = client.GetCurrentUser(ctx, connect.NewRequest(&api.GetCurrentUserRequest{}))
		if connect.CodeOf(err) != connect.CodeUnauthenticated {
			t.Errorf("no token error = %v, want Unauthenticated", err)
		}
	})
}
