// Package handler exposes the attendance engine over HTTP. Policy rejections
// map to client statuses by reason; only failures to decide at all become
// 5xx responses.
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"

	"presensi/internal/attendance"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
	"presensi/pkg/platform/httputil"
	"presensi/pkg/requestcontext"
)

// Service defines the engine operations the handler needs.
type Service interface {
	CheckIn(ctx context.Context, userID id.UserID, coord attendance.Coordinate, liveImage string) (attendance.Decision, error)
	CheckOut(ctx context.Context, userID id.UserID, coord attendance.Coordinate, liveImage string) (attendance.Decision, error)
	TodayStatus(ctx context.Context, userID id.UserID) (attendance.DayStatus, error)
	History(ctx context.Context, userID id.UserID, limit int) ([]attendance.Record, error)
}

type Handler struct {
	service Service
	logger  *slog.Logger
}

func New(service Service, logger *slog.Logger) *Handler {
	return &Handler{service: service, logger: logger}
}

func (h *Handler) Register(r chi.Router) {
	r.Post("/attendance/check-in", h.handleCheckIn)
	r.Post("/attendance/check-out", h.handleCheckOut)
	r.Get("/attendance/today", h.handleToday)
	r.Get("/attendance/history", h.handleHistory)
}

type recordResponse struct {
	ID           string     `json:"id"`
	Date         string     `json:"date"`
	Status       string     `json:"status"`
	CheckInTime  time.Time  `json:"check_in_time"`
	CheckOutTime *time.Time `json:"check_out_time,omitempty"`
	FaceVerified bool       `json:"face_verified"`
}

func toRecordResponse(record attendance.Record) recordResponse {
	verified := record.CheckInVerified
	if record.CheckedOut() {
		verified = verified && record.CheckOutVerified
	}
	return recordResponse{
		ID:           record.ID.String(),
		Date:         record.Date,
		Status:       string(record.Status),
		CheckInTime:  record.CheckInTime,
		CheckOutTime: record.CheckOutTime,
		FaceVerified: verified,
	}
}

func (h *Handler) handleCheckIn(w http.ResponseWriter, r *http.Request) {
	h.handleSubmit(w, r, h.service.CheckIn, http.StatusCreated)
}

func (h *Handler) handleCheckOut(w http.ResponseWriter, r *http.Request) {
	h.handleSubmit(w, r, h.service.CheckOut, http.StatusOK)
}

func (h *Handler) handleSubmit(
	w http.ResponseWriter,
	r *http.Request,
	decide func(context.Context, id.UserID, attendance.Coordinate, string) (attendance.Decision, error),
	acceptStatus int,
) {
	ctx := r.Context()
	requestID := requestcontext.RequestID(ctx)

	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	req, ok := httputil.DecodeAndPrepare[SubmitRequest](w, r, h.logger, ctx, requestID)
	if !ok {
		return
	}

	coord := attendance.Coordinate{Latitude: *req.Latitude, Longitude: *req.Longitude}
	decision, err := decide(ctx, userID, coord, req.Image)
	if err != nil {
		h.logger.ErrorContext(ctx, "attendance decision failed",
			"request_id", requestID, "error", err)
		httputil.WriteError(w, err)
		return
	}

	if !decision.Accepted {
		httputil.WriteJSON(w, rejectionStatus(decision.Reason), httputil.ErrorResponse{
			Error:            decision.Reason,
			ErrorDescription: decision.Message,
			Details:          decision.Details,
		})
		return
	}
	httputil.WriteJSON(w, acceptStatus, toRecordResponse(*decision.Record))
}

func (h *Handler) handleToday(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	status, err := h.service.TodayStatus(ctx, userID)
	if err != nil {
		h.logger.ErrorContext(ctx, "today status failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	httputil.WriteJSON(w, http.StatusOK, status)
}

func (h *Handler) handleHistory(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	userID := requestcontext.UserID(ctx)
	if userID.IsZero() {
		httputil.WriteError(w, dErrors.New(dErrors.CodeInternal, "authentication context error"))
		return
	}

	limit := 31
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 1 || parsed > 366 {
			httputil.WriteError(w, dErrors.New(dErrors.CodeValidation, "limit must be between 1 and 366"))
			return
		}
		limit = parsed
	}

	records, err := h.service.History(ctx, userID, limit)
	if err != nil {
		h.logger.ErrorContext(ctx, "history failed",
			"request_id", requestcontext.RequestID(ctx), "error", err)
		httputil.WriteError(w, err)
		return
	}
	out := make([]recordResponse, 0, len(records))
	for _, record := range records {
		out = append(out, toRecordResponse(record))
	}
	httputil.WriteJSON(w, http.StatusOK, out)
}

// rejectionStatus maps policy rejection reasons onto HTTP statuses: state
// conflicts are 409, identity failures 403, missing schedule 404, and the
// remaining correctable ones 400.
func rejectionStatus(reason string) int {
	switch reason {
	case attendance.ReasonAlreadyCheckedIn, attendance.ReasonAlreadyCheckedOut:
		return http.StatusConflict
	case attendance.ReasonFaceMismatch:
		return http.StatusForbidden
	case attendance.ReasonFaceUnavailable:
		return http.StatusServiceUnavailable
	case attendance.ReasonNoSchedule:
		return http.StatusNotFound
	default:
		return http.StatusBadRequest
	}
}
