package middleware

import (
	"log/slog"
	"net/http"

	"github.com/openbasket/catalog/pkg/logger"
)

// RequestLogger stores a request-scoped logger in context, enriched with
// correlation ID, caller identity and trace/span IDs. Handlers read it
// back with logger.FromContext. Mount after RequestLogging and Tracing
// so both kinds of IDs are present.
func RequestLogger(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()

			// The gateway forwards the authenticated caller in X-User-ID.
			if uid := r.Header.Get("X-User-ID"); uid != "" {
				ctx = logger.WithUserID(ctx, uid)
			}

			ctx = logger.NewContext(ctx, logger.WithContext(ctx, base))
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
