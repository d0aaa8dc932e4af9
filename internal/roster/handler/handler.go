// Package handler exposes roster administration over HTTP. Every route here
// is mounted behind the admin role guard.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"presensi/internal/roster"
	"presensi/internal/shiftwindow"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/platform/httputil"
	"presensi/pkg/requestcontext"
)

// Service defines the roster operations the admin surface needs.
type Service interface {
	CreateShift(ctx context.Context, name string, startMinute, endMinute, toleranceMinutes int) (roster.Shift, error)
	ListShifts(ctx context.Context) ([]roster.Shift, error)
	AssignShift(ctx context.Context, userID id.UserID, date string, shiftID id.ShiftID) (roster.ShiftAssignment, error)
	CreateLocation(ctx context.Context, name string, latitude, longitude, radiusMeters float64) (roster.OfficeLocation, error)
	UpdateLocation(ctx context.Context, locationID id.LocationID, name string, latitude, longitude, radiusMeters float64) (roster.OfficeLocation, error)
	DeactivateLocation(ctx context.Context, locationID id.LocationID) error
	ListLocations(ctx context.Context) ([]roster.OfficeLocation, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/shifts", h.handleCreateShift)
	r.Get("/shifts", h.handleListShifts)
	r.Post("/assignments", h.handleAssignShift)
	r.Post("/locations", h.handleCreateLocation)
	r.Get("/locations", h.handleListLocations)
	r.Put("/locations/{locationID}", h.handleUpdateLocation)
	r.Delete("/locations/{locationID}", h.handleDeactivateLocation)
}

type shiftResponse struct {
	ID                   string    `json:"id"`
	Name                 string    `json:"name"`
	StartTime            string    `json:"start_time"`
	EndTime              string    `json:"end_time"`
	LateToleranceMinutes int       `json:"late_tolerance_minutes"`
	Overnight            bool      `json:"overnight"`
	CreatedAt            time.Time `json:"created_at"`
}

func toShiftResponse(s roster.Shift) shiftResponse {
	return shiftResponse{
		ID:                   s.ID.String(),
		Name:                 s.Name,
		StartTime:            shiftwindow.FormatMinute(s.StartMinute),
		EndTime:              shiftwindow.FormatMinute(s.EndMinute),
		LateToleranceMinutes: s.LateToleranceMinutes,
		Overnight:            shiftwindow.IsOvernight(s.Window()),
		CreatedAt:            s.CreatedAt,
	}
}

type locationResponse struct {
	ID           string  `json:"id"`
	Name         string  `json:"name"`
	Latitude     float64 `json:"latitude"`
	Longitude    float64 `json:"longitude"`
	RadiusMeters float64 `json:"radius_meters"`
	Active       bool    `json:"active"`
}

func toLocationResponse(l roster.OfficeLocation) locationResponse {
	return locationResponse{
		ID:           l.ID.String(),
		Name:         l.Name,
		Latitude:     l.Latitude,
		Longitude:    l.Longitude,
		RadiusMeters: l.RadiusMeters,
		Active:       l.Active,
	}
}

func (h *Handler) handleCreateShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[CreateShiftRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	shift, err := h.service.CreateShift(ctx, req.Name, req.startMinute, req.endMinute, req.LateToleranceMinutes)
	if err != nil {
		h.writeServiceError(w, r, "create shift", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toShiftResponse(shift))
}

func (h *Handler) handleListShifts(w http.ResponseWriter, r *http.Request) {
	shifts, err := h.service.ListShifts(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list shifts", err)
		return
	}
	out := make([]shiftResponse, 0, len(shifts))
	for _, shift := range shifts {
		out = append(out, toShiftResponse(shift))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleAssignShift(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[AssignShiftRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	assignment, err := h.service.AssignShift(ctx, req.userID, req.Date, req.shiftID)
	if err != nil {
		h.writeServiceError(w, r, "assign shift", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, map[string]string{
		"user_id":  assignment.UserID.String(),
		"date":     assignment.Date,
		"shift_id": assignment.ShiftID.String(),
	})
}

func (h *Handler) handleCreateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	req, ok := httputil.DecodeAndPrepare[LocationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	location, err := h.service.CreateLocation(ctx, req.Name, req.Latitude, req.Longitude, req.RadiusMeters)
	if err != nil {
		h.writeServiceError(w, r, "create location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusCreated, toLocationResponse(location))
}

func (h *Handler) handleListLocations(w http.ResponseWriter, r *http.Request) {
	locations, err := h.service.ListLocations(r.Context())
	if err != nil {
		h.writeServiceError(w, r, "list locations", err)
		return
	}
	out := make([]locationResponse, 0, len(locations))
	for _, location := range locations {
		out = append(out, toLocationResponse(location))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

func (h *Handler) handleUpdateLocation(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	locationID, err := id.ParseLocationID(chi.URLParam(r, "locationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}
	req, ok := httputil.DecodeAndPrepare[LocationRequest](w, r, h.logger, ctx, requestcontext.RequestID(ctx))
	if !ok {
		return
	}

	location, err := h.service.UpdateLocation(ctx, locationID, req.Name, req.Latitude, req.Longitude, req.RadiusMeters)
	if err != nil {
		h.writeServiceError(w, r, "update location", err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, toLocationResponse(location))
}

func (h *Handler) handleDeactivateLocation(w http.ResponseWriter, r *http.Request) {
	locationID, err := id.ParseLocationID(chi.URLParam(r, "locationID"))
	if err != nil {
		httputil.WriteError(w, err)
		return
	}

	if err := h.service.DeactivateLocation(r.Context(), locationID); err != nil {
		h.writeServiceError(w, r, "deactivate location", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	if dErrors.CodeOf(err) == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err)
	}
	httputil.WriteError(w, err)
}
