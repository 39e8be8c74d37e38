// Package server assembles the HTTP surface: Connect services, health and
// metrics endpoints, and the static web client.
package server

import (
	"context"
	"log/slog"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"connectrpc.com/connect"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"

	"github.com/mmynk/warikan/internal/middleware"
	"github.com/mmynk/warikan/pkg/api/apiconnect"
)

// rpcPrefix starts the path of every Connect procedure.
const rpcPrefix = "/warikan.v1."

// Options configures NewRouter. Nil fields switch the matching feature off.
type Options struct {
	Logger *slog.Logger

	Purchases apiconnect.PurchaseServiceHandler
	Form      apiconnect.FormServiceHandler
	Auth      apiconnect.AuthServiceHandler

	// Interceptors run on every RPC, outermost first.
	Interceptors []connect.Interceptor

	// RateLimit throttles RPC calls, see middleware.RateLimit.
	RateLimit func(http.Handler) http.Handler

	// Metrics is served on /metrics.
	Metrics http.Handler

	// Ping backs /healthz.
	Ping func(ctx context.Context) error

	// StaticDir holds the web client. Unknown paths get index.html.
	StaticDir string
}

// NewRouter wires everything in opts onto a chi router.
func NewRouter(opts Options) http.Handler {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	r := chi.NewRouter()
	r.Use(chimw.Recoverer)
	r.Use(middleware.RequestLogger(logger))
	r.Use(cors)

	r.Get("/healthz", func(w http.ResponseWriter, req *http.Request) {
		if opts.Ping != nil {
			ctx, cancel := context.WithTimeout(req.Context(), 2*time.Second)
			defer cancel()
			if err := opts.Ping(ctx); err != nil {
				logger.Error("Health check failed", "error", err)
				http.Error(w, "unhealthy", http.StatusServiceUnavailable)
				return
			}
		}
		w.Write([]byte("ok"))
	})

	if opts.Metrics != nil {
		r.Method(http.MethodGet, "/metrics", opts.Metrics)
	}

	handlerOpts := []connect.HandlerOption{connect.WithInterceptors(opts.Interceptors...)}
	r.Group(func(r chi.Router) {
		if opts.RateLimit != nil {
			r.Use(opts.RateLimit)
		}
		if opts.Purchases != nil {
			r.Mount(apiconnect.NewPurchaseServiceHandler(opts.Purchases, handlerOpts...))
		}
		if opts.Form != nil {
			r.Mount(apiconnect.NewFormServiceHandler(opts.Form, handlerOpts...))
		}
		if opts.Auth != nil {
			r.Mount(apiconnect.NewAuthServiceHandler(opts.Auth, handlerOpts...))
		}
	})

	if opts.StaticDir != "" {
		r.NotFound(staticHandler(opts.StaticDir))
	}
	return r
}

// staticHandler serves files from dir and falls back to index.html so the
// web client can route on its own.
func staticHandler(dir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if strings.HasPrefix(r.URL.Path, rpcPrefix) {
			http.NotFound(w, r)
			return
		}

		urlPath := r.URL.Path
		if urlPath == "/" {
			urlPath = "/index.html"
		}

		filePath := filepath.Join(dir, filepath.Clean("/"+urlPath))
		if info, err := os.Stat(filePath); err != nil || info.IsDir() {
			http.ServeFile(w, r, filepath.Join(dir, "index.html"))
			return
		}
		http.ServeFile(w, r, filePath)
	}
}

// cors adds CORS headers for browser access.
func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "POST, GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization, Connect-Protocol-Version, Connect-Timeout-Ms, "+middleware.RequestIDHeader)
		w.Header().Set("Access-Control-Expose-Headers", "Connect-Protocol-Version, Connect-Timeout-Ms, "+middleware.RequestIDHeader)

		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusOK)
			return
		}
		next.ServeHTTP(w, r)
	})
}
