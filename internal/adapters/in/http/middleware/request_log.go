// internal/adapters/in/http/middleware/request_log.go
package middleware

import (
	"net/http"
	"time"

	chimw "github.com/go-chi/chi/v5/middleware"

	"storefront/internal/platform/logger"
)

// RequestLog logs one line per request after it completes.
func RequestLog(log *logger.Logger) func(http.Handler) http.Handler {
	l := logger.OrNop(log).Component("http")
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimw.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			status := ww.Status()
			if status == 0 {
				status = http.StatusOK
			}
			kv := []any{
				"method", r.Method,
				"path", r.URL.Path,
				"status", status,
				"bytes", ww.BytesWritten(),
				"elapsed", time.Since(start).String(),
				"requestId", chimw.GetReqID(r.Context()),
			}
			switch {
			case status >= 500:
				l.Error("request", kv...)
			case status >= 400:
				l.Warn("request", kv...)
			default:
				l.Info("request", kv...)
			}
		})
	}
}
