package middleware

import (
	"bytes"
	"context"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"

	"github.com/mmynk/warikan/internal/auth"
	"github.com/mmynk/warikan/internal/models"
	"github.com/mmynk/warikan/pkg/api"
	"github.com/mmynk/warikan/pkg/api/apiconnect"
)

// echoAuthService answers Register and echoes the context user from GetCurrentUser.
type echoAuthService struct {
	apiconnect.UnimplementedAuthServiceHandler
}

func (echoAuthService) Register(ctx context.Context, req *connect.Request[api.RegisterRequest]) (*connect.Response[api.RegisterResponse], error) {
	return connect.NewResponse(&api.RegisterResponse{Token: "issued"}), nil
}

func (echoAuthService) GetCurrentUser(ctx context.Context, req *connect.Request[api.GetCurrentUserRequest]) (*connect.Response[api.GetCurrentUserResponse], error) {
	return connect.NewResponse(&api.GetCurrentUserResponse{
		User: api.User{ID: GetUserID(ctx), Email: GetEmail(ctx)},
	}), nil
}

func setupAuthServer(t *testing.T, opts ...connect.HandlerOption) apiconnect.AuthServiceClient {
	t.Helper()
	path, handler := apiconnect.NewAuthServiceHandler(echoAuthService{}, opts...)
	mux := http.NewServeMux()
	mux.Handle(path, handler)
	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)
	return apiconnect.NewAuthServiceClient(http.DefaultClient, server.URL)
}

func TestRequireAuth(t *testing.T) {
	jwtManager := auth.NewJWTManager("test-secret", time.Hour)
	client := setupAuthServer(t, connect.WithInterceptors(RequireAuth(jwtManager)))

	token, err := jwtManager.Generate(&models.User{ID: "user-1", Email: "alice@example.com"})
	if err != nil {
		t.Fatalf("Generate failed: %v", err)
	}

	t.Run("public procedure without token", func(t *testing.T) {
		resp, err := client.Register(t.Context(), connect.NewRequest(&api.RegisterRequest{}))
		if err != nil {
			t.Fatalf("Register failed: %v", err)
		}
		if resp.Msg.Token != "issued" {
			t.Errorf("unexpected response: %+v", resp.Msg)
		}
	})

	tests := []struct {
		name     string
		header   string
		wantCode connect.Code
	}{
		{"missing header", "", connect.CodeUnauthenticated},
		{"not bearer", "Basic abc", connect.CodeUnauthenticated},
		{"bad token", "Bearer not.a.token", connect.CodeUnauthenticated},
		{"valid token", "Bearer " + token, 0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := connect.NewRequest(&api.GetCurrentUserRequest{})
			if tt.header != "" {
				req.Header().Set("Authorization", tt.header)
			}
			resp, err := client.GetCurrentUser(t.Context(), req)
			if tt.wantCode != 0 {
				if connect.CodeOf(err) != tt.wantCode {
					t.Fatalf("error = %v, want code %v", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("GetCurrentUser failed: %v", err)
			}
			if resp.Msg.User.ID != "user-1" || resp.Msg.User.Email != "alice@example.com" {
				t.Errorf("context user = %+v", resp.Msg.User)
			}
		})
	}
}

func TestMetricsInterceptor(t *testing.T) {
	reg := prometheus.NewRegistry()
	metrics := NewMetrics(reg)
	client := setupAuthServer(t, connect.WithInterceptors(metrics.Interceptor()))

	for range 2 {
		if _, err := client.Register(t.Context(), connect.NewRequest(&api.RegisterRequest{})); err != nil {
			t.Fatalf("Register failed: %v", err)
		}
	}
	if _, err := client.Login(t.Context(), connect.NewRequest(&api.LoginRequest{})); connect.CodeOf(err) != connect.CodeUnimplemented {
		t.Fatalf("Login error = %v, want unimplemented", err)
	}

	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(apiconnect.AuthServiceRegisterProcedure, "ok")); got != 2 {
		t.Errorf("register ok count = %v, want 2", got)
	}
	if got := testutil.ToFloat64(metrics.requests.WithLabelValues(apiconnect.AuthServiceLoginProcedure, "unimplemented")); got != 1 {
		t.Errorf("login unimplemented count = %v, want 1", got)
	}
	if got := testutil.CollectAndCount(metrics.duration); got != 2 {
		t.Errorf("duration series = %d, want 2", got)
	}
}

func TestRateLimit(t *testing.T) {
	handler := RateLimit(2, time.Hour)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNoContent)
	}))

	steps := []struct {
		addr string
		want int
	}{
		{"192.0.2.1:1000", http.StatusNoContent},
		{"192.0.2.1:2000", http.StatusNoContent},
		{"192.0.2.1:3000", http.StatusTooManyRequests},
		{"192.0.2.2:1000", http.StatusNoContent},
	}
	for i, s := range steps {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.RemoteAddr = s.addr
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if rec.Code != s.want {
			t.Errorf("request %d from %s: status %d, want %d", i, s.addr, rec.Code, s.want)
		}
		if rec.Header().Get("X-RateLimit-Limit") != "2" {
			t.Errorf("request %d: X-RateLimit-Limit = %q", i, rec.Header().Get("X-RateLimit-Limit"))
		}
	}
}

func TestRequestLogger(t *testing.T) {
	var buf bytes.Buffer
	logger := slog.New(slog.NewJSONHandler(&buf, nil))

	var seen string
	handler := RequestLogger(logger)(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		seen = GetRequestID(r.Context())
		w.WriteHeader(http.StatusTeapot)
	}))

	t.Run("generates id", func(t *testing.T) {
		buf.Reset()
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		id := rec.Header().Get(RequestIDHeader)
		if id == "" || id != seen {
			t.Fatalf("response id %q, handler saw %q", id, seen)
		}
		if !strings.Contains(buf.String(), `"status":418`) {
			t.Errorf("status not logged: %s", buf.String())
		}
	})

	t.Run("keeps incoming id", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/", nil)
		req.Header.Set(RequestIDHeader, "abc-123")
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, req)

		if got := rec.Header().Get(RequestIDHeader); got != "abc-123" || seen != "abc-123" {
			t.Errorf("request id = %q (handler %q), want abc-123", got, seen)
		}
	})
}
