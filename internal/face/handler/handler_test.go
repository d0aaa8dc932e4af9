//go:generate mockgen -source=handler.go -destination=mocks/mocks.go -package=mocks Service
package handler_test

import (
	"encoding/base64"
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

	"presensi/internal/face"
	"presensi/internal/face/handler"
	"presensi/internal/face/handler/mocks"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
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

func TestHandleEnroll(t *testing.T) {
	userID := id.NewUserID()
	image := base64.StdEncoding.EncodeToString([]byte("picture"))

	t.Run("success returns 201 with identity", func(t *testing.T) {
		service, router := newTestRouter(t, userID)
		now := time.Date(2025, 3, 15, 9, 0, 0, 0, time.UTC)
		service.EXPECT().Enroll(gomock.Any(), userID, image).
			Return(face.Identity{UserID: userID, EnrolledAt: now, UpdatedAt: now}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/face/register",
			strings.NewReader(`{"image":"`+image+`"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["user_id"])
	})

	t.Run("missing image rejected", func(t *testing.T) {
		_, router := newTestRouter(t, userID)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/face/register", strings.NewReader(`{}`))
		router.ServeHTTP(rec, req)

		assert.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("duplicate face surfaces conflict with details", func(t *testing.T) {
		service, router := newTestRouter(t, userID)
		other := id.NewUserID()
		service.EXPECT().Enroll(gomock.Any(), userID, image).
			Return(face.Identity{}, dErrors.New(dErrors.CodeConflict, "face already enrolled for another account").
				WithDetails(map[string]any{"duplicate_user_id": other.String()}))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/face/register",
			strings.NewReader(`{"image":"`+image+`"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
		var body struct {
			Error   string         `json:"error"`
			Details map[string]any `json:"details"`
		}
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "conflict", body.Error)
		assert.Equal(t, other.String(), body.Details["duplicate_user_id"])
	})
}

func TestHandleRemove(t *testing.T) {
	userID := id.NewUserID()
	service, router := newTestRouter(t, userID)
	service.EXPECT().Remove(gomock.Any(), userID).Return(nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodDelete, "/face", nil))

	assert.Equal(t, http.StatusNoContent, rec.Code)
}

func TestHandleStatus(t *testing.T) {
	userID := id.NewUserID()
	service, router := newTestRouter(t, userID)
	service.EXPECT().Status(gomock.Any(), userID).Return(face.EnrollmentStatus{Enrolled: false}, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/face/status", nil))

	require.Equal(t, http.StatusOK, rec.Code)
	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, false, body["enrolled"])
}
