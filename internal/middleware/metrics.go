package middleware

import (
	"net/http"
	"time"
)

// RequestObserver receives one observation per completed request.
type RequestObserver interface {
	ObserveRequest(route, method string, status int, duration time.Duration)
}

// Metrics reports each request under its chi route pattern so ids in the
// path do not explode label cardinality. It must be mounted on a chi router.
func Metrics(observer RequestObserver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			wrapped := &responseWriter{ResponseWriter: w}

			next.ServeHTTP(wrapped, r)

			observer.ObserveRequest(routePattern(r), r.Method, wrapped.Status(), time.Since(start))
		})
	}
}
