package middleware

import (
	"log/slog"
	"net/http"

	"github.com/phrazzld/teamtasks/internal/api/shared"
	"github.com/phrazzld/teamtasks/internal/platform/logger"
)

// TraceMiddleware returns middleware that adds a trace ID to the request
// context together with a request logger derived from base that carries it.
// Apply it early so later handlers log with the trace ID.
func TraceMiddleware(base *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := shared.SetTraceID(r.Context())
			log := base.With(slog.String("trace_id", shared.GetTraceID(ctx)))

			log.Debug("request started",
				slog.String("method", r.Method),
				slog.String("path", r.URL.Path),
				slog.String("remote_addr", r.RemoteAddr))

			next.ServeHTTP(w, r.WithContext(logger.WithLogger(ctx, log)))
		})
	}
}
