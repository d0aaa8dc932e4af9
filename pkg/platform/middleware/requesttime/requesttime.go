// Package requesttime provides middleware for request-scoped time. All
// operations within a single HTTP request observe the same "now", already
// normalized to the organization's local timezone, so window and lateness
// calculations can never straddle a tick.
package requesttime

import (
	"net/http"

	"presensi/internal/platform/clock"
	"presensi/pkg/requestcontext"
)

// Middleware captures the current time once at the start of the request,
// normalized through the given clock, and stores it in the context.
func Middleware(clk clock.Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := requestcontext.WithTime(r.Context(), clk.Now())
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}
