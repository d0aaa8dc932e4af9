//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
package handler_test

import (
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"presensi/internal/attendance"
	"presensi/internal/attendance/handler"
	"presensi/internal/attendance/handler/mocks"
	id "presensi/pkg/domain"
	"presensi/pkg/requestcontext"
)

func newTestRouter(t *testing.T, userID id.UserID) (*mocks.MockService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	h := handler.New(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	r.Use(func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, req *http.Request) {
			ctx := requestcontext.WithUserID(req.Context(), userID)
			next.ServeHTTP(w, req.WithContext(ctx))
		})
	})
	h.Register(r)
	return service, r
}

func submitBody() string {
	return `{"latitude":-6.2,"longitude":106.8}`
}

func TestHandleCheckIn(t *testing.T) {
	userID := id.NewUserID()

	t.Run("accepted returns 201 with record", func(t *testing.T) {
		service, router := newTestRouter(t, userID)
		record := attendance.Record{
			ID:              id.NewRecordID(),
			UserID:          userID,
			Date:            "2026-03-15",
			CheckInTime:     time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
			CheckInVerified: true,
			Status:          attendance.StatusPresent,
		}
		service.EXPECT().
			CheckIn(gomock.Any(), userID, attendance.Coordinate{Latitude: -6.2, Longitude: 106.8}, "").
			Return(attendance.Decision{Accepted: true, Record: &record}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance/check-in", strings.NewReader(submitBody()))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "present", body["status"])
		assert.Equal(t, true, body["face_verified"])
		assert.Equal(t, "2026-03-15", body["date"])
	})

	t.Run("missing coordinates fail validation", func(t *testing.T) {
		_, router := newTestRouter(t, userID)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance/check-in", strings.NewReader(`{"latitude":-6.2}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	rejections := []struct {
		reason string
		status int
	}{
		{attendance.ReasonNoSchedule, http.StatusNotFound},
		{attendance.ReasonAlreadyCheckedIn, http.StatusConflict},
		{attendance.ReasonOutsideGeofence, http.StatusBadRequest},
		{attendance.ReasonOutsideWindow, http.StatusBadRequest},
		{attendance.ReasonFaceMismatch, http.StatusForbidden},
		{attendance.ReasonFaceUnavailable, http.StatusServiceUnavailable},
	}
	for _, tc := range rejections {
		t.Run("rejection "+tc.reason, func(t *testing.T) {
			service, router := newTestRouter(t, userID)
			service.EXPECT().
				CheckIn(gomock.Any(), userID, gomock.Any(), "").
				Return(attendance.Decision{Accepted: false, Reason: tc.reason, Message: "rejected"}, nil)

			rec := httptest.NewRecorder()
			req := httptest.NewRequest(http.MethodPost, "/attendance/check-in", strings.NewReader(submitBody()))
			router.ServeHTTP(rec, req)

			require.Equal(t, tc.status, rec.Code)
			var body map[string]any
			require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
			assert.Equal(t, tc.reason, body["error"])
		})
	}
}

func TestHandleCheckOut(t *testing.T) {
	userID := id.NewUserID()

	t.Run("accepted returns 200", func(t *testing.T) {
		service, router := newTestRouter(t, userID)
		out := time.Date(2026, 3, 15, 16, 5, 0, 0, time.UTC)
		record := attendance.Record{
			ID:               id.NewRecordID(),
			UserID:           userID,
			Date:             "2026-03-15",
			CheckInTime:      time.Date(2026, 3, 15, 8, 0, 0, 0, time.UTC),
			CheckInVerified:  true,
			CheckOutTime:     &out,
			CheckOutVerified: false,
			Status:           attendance.StatusPresent,
		}
		service.EXPECT().
			CheckOut(gomock.Any(), userID, gomock.Any(), "").
			Return(attendance.Decision{Accepted: true, Record: &record}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance/check-out", strings.NewReader(submitBody()))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		// Combined flag: an unverified check-out downgrades the record.
		assert.Equal(t, false, body["face_verified"])
	})

	t.Run("not checked in maps to 400", func(t *testing.T) {
		service, router := newTestRouter(t, userID)
		service.EXPECT().
			CheckOut(gomock.Any(), userID, gomock.Any(), "").
			Return(attendance.Decision{Accepted: false, Reason: attendance.ReasonNotCheckedIn, Message: "no record"}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/attendance/check-out", strings.NewReader(submitBody()))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleHistory(t *testing.T) {
	userID := id.NewUserID()

	t.Run("default limit is a month", func(t *testing.T) {
		service, router := newTestRouter(t, userID)
		service.EXPECT().History(gomock.Any(), userID, 31).Return(nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/history", nil))
		require.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `[]`, rec.Body.String())
	})

	t.Run("explicit limit is honored", func(t *testing.T) {
		service, router := newTestRouter(t, userID)
		service.EXPECT().History(gomock.Any(), userID, 7).Return(nil, nil)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/history?limit=7", nil))
		require.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("out of range limit rejected", func(t *testing.T) {
		_, router := newTestRouter(t, userID)

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/attendance/history?limit=10000", nil))
		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
