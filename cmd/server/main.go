package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"connectrpc.com/connect"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"golang.org/x/net/http2"
	"golang.org/x/net/http2/h2c"

	"github.com/mmynk/warikan/internal/auth"
	"github.com/mmynk/warikan/internal/cache"
	"github.com/mmynk/warikan/internal/config"
	"github.com/mmynk/warikan/internal/middleware"
	"github.com/mmynk/warikan/internal/server"
	"github.com/mmynk/warikan/internal/service"
	"github.com/mmynk/warikan/internal/storage/sqlite"
	"github.com/mmynk/warikan/pkg/logging"
)

func main() {
	if err := run(); err != nil {
		slog.Error("Server failed", "error", err)
		os.Exit(1)
	}
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	logger := logging.Setup(cfg.LogLevel, cfg.LogFormat)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	store, err := sqlite.New(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("failed to initialize storage: %w", err)
	}
	defer store.Close()
	logger.Info("Storage initialized", "database", cfg.DBPath)

	var viewCache cache.Cache = cache.NewMemory()
	if cfg.RedisAddr != "" {
		rc, err := cache.NewRedis(ctx, cfg.RedisAddr)
		if err != nil {
			return err
		}
		defer rc.Close()
		viewCache = rc
		logger.Info("Purchase cache using redis", "address", cfg.RedisAddr)
	}
	purchases := cache.NewStore(store, viewCache, cfg.CacheTTL)

	if cfg.UsesDevSecret() {
		logger.Warn("JWT_SECRET not set, signing tokens with the development secret")
	}
	jwtManager := auth.NewJWTManager(cfg.JWTSecret, cfg.TokenDuration)
	authenticator := auth.NewPasswordAuthenticator(store, 0)

	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector(), collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}))
	metrics := middleware.NewMetrics(reg)

	staticDir, err := filepath.Abs(cfg.StaticPath)
	if err != nil {
		return fmt.Errorf("failed to resolve static path: %w", err)
	}
	logger.Info("Serving static files", "path", staticDir)

	handler := server.NewRouter(server.Options{
		Logger:    logger,
		Purchases: service.NewPurchaseService(purchases),
		Form:      service.NewFormService(purchases),
		Auth:      service.NewAuthService(authenticator, jwtManager, store, logger),
		Interceptors: []connect.Interceptor{
			metrics.Interceptor(),
			middleware.RequireAuth(jwtManager),
			middleware.LoggingInterceptor(logger),
		},
		RateLimit: middleware.RateLimit(cfg.RateLimitCapacity, cfg.RateLimitRefill),
		Metrics:   promhttp.HandlerFor(reg, promhttp.HandlerOpts{}),
		Ping:      store.Ping,
		StaticDir: staticDir,
	})

	srv := &http.Server{
		Addr: cfg.Addr(),
		// h2c serves HTTP/2 without TLS for Connect clients.
		Handler:           h2c.NewHandler(handler, &http2.Server{}),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("Connect server starting", "address", srv.Addr, "url", fmt.Sprintf("http://localhost%s", srv.Addr))
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			return err
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info("Shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	return srv.Shutdown(shutdownCtx)
}
