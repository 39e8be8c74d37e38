package middleware

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"connectrpc.com/connect"
	"github.com/google/uuid"
)

// RequestIDHeader carries the request ID in both directions.
const RequestIDHeader = "X-Request-Id"

const requestIDKey contextKey = "request_id"

// GetRequestID returns the request ID set by RequestLogger, or "".
func GetRequestID(ctx context.Context) string {
	id, _ := ctx.Value(requestIDKey).(string)
	return id
}

// LoggingInterceptor returns a Connect interceptor that logs every RPC call.
// Client-side failures (bad input, missing rows, auth) log at warn, all
// other errors at error.
func LoggingInterceptor(logger *slog.Logger) connect.UnaryInterceptorFunc {
	return func(next connect.UnaryFunc) connect.UnaryFunc {
		return func(ctx context.Context, req connect.AnyRequest) (connect.AnyResponse, error) {
			start := time.Now()
			resp, err := next(ctx, req)

			attrs := []any{
				"procedure", req.Spec().Procedure,
				"user_id", GetUserID(ctx),
				"request_id", GetRequestID(ctx),
				"duration_ms", time.Since(start).Milliseconds(),
			}
			if err == nil {
				logger.Info("RPC ok", attrs...)
				return resp, nil
			}

			code := connect.CodeOf(err)
			attrs = append(attrs, "code", code.String())
			var connectErr *connect.Error
			if errors.As(err, &connectErr) {
				attrs = append(attrs, "error", connectErr.Message())
			} else {
				attrs = append(attrs, "error", err)
			}
			switch code {
			case connect.CodeInvalidArgument, connect.CodeNotFound, connect.CodeAlreadyExists,
				connect.CodeUnauthenticated, connect.CodeResourceExhausted:
				logger.Warn("RPC error", attrs...)
			default:
				logger.Error("RPC error", attrs...)
			}
			return resp, err
		}
	}
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

// Flush keeps streaming responses working through the recorder.
func (r *statusRecorder) Flush() {
	if f, ok := r.ResponseWriter.(http.Flusher); ok {
		f.Flush()
	}
}

// RequestLogger logs every HTTP request with its status and duration. It
// reuses an incoming X-Request-Id or generates one, and echoes it back.
func RequestLogger(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()

			id := r.Header.Get(RequestIDHeader)
			if id == "" {
				id = uuid.NewString()
			}
			w.Header().Set(RequestIDHeader, id)

			rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
			next.ServeHTTP(rec, r.WithContext(context.WithValue(r.Context(), requestIDKey, id)))

			logger.Info("Request completed",
				"method", r.Method,
				"path", r.URL.Path,
				"status", rec.status,
				"request_id", id,
				"remote_addr", r.RemoteAddr,
				"duration_ms", time.Since(start).Milliseconds(),
			)
		})
	}
}
