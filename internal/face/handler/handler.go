// Package handler exposes face enrollment over HTTP.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"presensi/internal/face"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/platform/httputil"
	"presensi/pkg/requestcontext"
)

// Service defines the enrollment operations the handler needs.
type Service interface {
	Enroll(ctx context.Context, userID id.UserID, imageBase64 string) (face.Identity, error)
	Remove(ctx context.Context, userID id.UserID) error
	Status(ctx context.Context, userID id.UserID) (face.EnrollmentStatus, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

// Register mounts the enrollment routes. The caller wires authentication;
// every route here assumes a user id in the request context.
func (h *Handler) Register(r chi.Router) {
	r.Post("/face/register", h.handleEnroll)
	r.Delete("/face", h.handleRemove)
	r.Get("/face/status", h.handleStatus)
}

type enrollResponse struct {
	UserID     string    `json:"user_id"`
	EnrolledAt time.Time `json:"enrolled_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

type statusResponse struct {
	Enrolled   bool       `json:"enrolled"`
	EnrolledAt *time.Time `json:"enrolled_at,omitempty"`
	UpdatedAt  *time.Time `json:"updated_at,omitempty"`
}

func (h *Handler) handleEnroll(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		h.logger.ErrorContext(ctx, "user id missing from context", "request_id", requestID)
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[EnrollRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	identity, err := h.service.Enroll(ctx, userID, req.Image)
	if err != nil {
		h.writeServiceError(w, r, "enroll face", err)
		return
	}

	httputil.WriteJSON(w, http.StatusCreated, enrollResponse{
		UserID:     identity.UserID.String(),
		EnrolledAt: identity.EnrolledAt,
		UpdatedAt:  identity.UpdatedAt,
	})
}

func (h *Handler) handleRemove(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	if err := h.service.Remove(ctx, userID); err != nil {
		h.writeServiceError(w, r, "remove face", err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func (h *Handler) handleStatus(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	status, err := h.service.Status(ctx, userID)
	if err != nil {
		h.writeServiceError(w, r, "face status", err)
		return
	}

	httputil.WriteJSON(w, http.StatusOK, statusResponse{
		Enrolled:   status.Enrolled,
		EnrolledAt: status.EnrolledAt,
		UpdatedAt:  status.UpdatedAt,
	})
}

func (h *Handler) writeServiceError(w http.ResponseWriter, r *http.Request, op string, err error) {
	ctx := r.Context()
	code := dErrors.CodeOf(err)
	if code == dErrors.CodeInternal {
		h.logger.ErrorContext(ctx, op,
			"request_id", requestcontext.RequestID(ctx),
			"error", err)
	}
	httputil.WriteError(w, err)
}
