package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog/log"

	"github.com/skorlabs/skorstaking/internal/auth"
	"github.com/skorlabs/skorstaking/internal/observability/metrics"
	"github.com/skorlabs/skorstaking/internal/observability/tracing"
)

// statusRecorder captures the status code written by the handler.
type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(code int) {
	r.status = code
	r.ResponseWriter.WriteHeader(code)
}

func traceMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(tracing.TraceIDHeader)
		ctx := tracing.WithTraceID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func metricsMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		observe := metrics.StartHTTPRequestDurationTimer(r.Method)
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)

		route := "unmatched"
		if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
			route = rctx.RoutePattern()
		}
		observe(route, rec.status)
	})
}

// authMiddleware rejects requests without a valid signature and exposes
// the signer to handlers.
func authMiddleware(verifier *auth.Verifier) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			pk, err := verifier.Verify(r)
			if err != nil {
				status, body := errorResponse(err)
				log.Ctx(r.Context()).Debug().Err(err).Msg("unauthenticated request")
				writeJSON(w, status, body)
				return
			}
			next.ServeHTTP(w, r.WithContext(auth.WithSigner(r.Context(), pk)))
		})
	}
}
