package http

import (
	"net/http"

	"sip-calculator/logging"
)

// NewRouter wires the API routes. Only the calculation endpoints are rate
// limited.
func NewRouter(
	logger *logging.Logger,
	limiter *RateLimiter,
	projection *ProjectionHandler,
	history *HistoryHandler,
) http.Handler {
	limited := func(h http.HandlerFunc) http.Handler {
		return RateLimitMiddleware(limiter, h)
	}

	mux := http.NewServeMux()
	mux.Handle("/api/calculate", limited(projection.Calculate))
	mux.Handle("/api/calculate-sip", limited(projection.Calculate))
	mux.Handle("/api/schedule", limited(projection.Schedule))
	mux.HandleFunc("/api/history", history.List)
	mux.HandleFunc("/healthz", handleHealth)

	return logging.Middleware(logger)(recoverMiddleware(mux))
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte("ok"))
}

// recoverMiddleware turns a panic into a generic 500.
func recoverMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if rec := recover(); rec != nil {
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				logging.FromContext(r.Context()).ErrorContext(r.Context(), "Recovered from panic", "panic", rec)
				writeError(w, r, http.StatusInternalServerError, "internal server error")
			}
		}()
		next.ServeHTTP(w, r)
	})
}
