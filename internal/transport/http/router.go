// Package httptransport assembles the route tree. Handlers stay thin; this
// package decides which middleware chain guards each group.
package httptransport

import (
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	attendancehandler "presensi/internal/attendance/handler"
	authhandler "presensi/internal/auth/handler"
	facehandler "presensi/internal/face/handler"
	"presensi/internal/platform/clock"
	rosterhandler "presensi/internal/roster/handler"
	authmw "presensi/pkg/platform/middleware/auth"
	"presensi/pkg/platform/middleware/logging"
	"presensi/pkg/platform/middleware/metadata"
	"presensi/pkg/platform/middleware/requesttime"
)

// Deps carries everything the route tree needs. main builds it once.
type Deps struct {
	Logger       *slog.Logger
	Clock        clock.Clock
	JWTValidator authmw.JWTValidator

	Auth       *authhandler.Handler
	Attendance *attendancehandler.Handler
	Face       *facehandler.Handler
	Roster     *rosterhandler.Handler
}

// NewRouter wires the public, employee and admin route groups.
func NewRouter(deps Deps) http.Handler {
	r := chi.NewRouter()
	r.Use(logging.Recovery(deps.Logger))
	r.Use(metadata.Middleware)
	r.Use(requesttime.Middleware(deps.Clock))
	r.Use(logging.Logger(deps.Logger))
	r.Use(chimw.Timeout(30 * time.Second))

	r.Get("/healthz", handleHealth)
	r.Handle("/metrics", promhttp.Handler())
	deps.Auth.Register(r)

	// Attendance and face enrollment require a valid token of any role.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(deps.JWTValidator, deps.Logger))
		deps.Attendance.Register(r)
		deps.Face.Register(r)
	})

	// Account, shift and location administration is admin only.
	r.Group(func(r chi.Router) {
		r.Use(authmw.RequireAuth(deps.JWTValidator, deps.Logger))
		r.Use(authmw.RequireRole(authmw.RoleAdmin, deps.Logger))
		deps.Auth.RegisterAdmin(r)
		deps.Roster.Register(r)
	})

	return r
}

func handleHealth(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
