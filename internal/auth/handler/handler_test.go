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

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"presensi/internal/auth"
	"presensi/internal/auth/handler"
	"presensi/internal/auth/handler/mocks"
	id "presensi/pkg/domain"
	dErrors "presensi/pkg/domain-errors"
)

func newTestRouter(t *testing.T) (*mocks.MockService, http.Handler) {
	t.Helper()
	ctrl := gomock.NewController(t)
	service := mocks.NewMockService(ctrl)
	h := handler.New(service, slog.New(slog.NewTextHandler(io.Discard, nil)))

	r := chi.NewRouter()
	h.Register(r)
	h.RegisterAdmin(r)
	return service, r
}

func TestHandleLogin(t *testing.T) {
	t.Run("success returns token payload", func(t *testing.T) {
		service, router := newTestRouter(t)
		userID := id.NewUserID()
		service.EXPECT().Login(gomock.Any(), "ana@example.com", "correct horse").
			Return(auth.TokenResult{
				AccessToken: "signed-token",
				TokenType:   "Bearer",
				ExpiresIn:   900,
				UserID:      userID,
				Role:        "employee",
			}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"correct horse"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, "signed-token", body["access_token"])
		assert.Equal(t, "Bearer", body["token_type"])
		assert.Equal(t, userID.String(), body["user_id"])
	})

	t.Run("bad credentials return 401", func(t *testing.T) {
		service, router := newTestRouter(t)
		service.EXPECT().Login(gomock.Any(), "ana@example.com", "wrong").
			Return(auth.TokenResult{}, dErrors.New(dErrors.CodeUnauthorized, "invalid email or password"))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"ana@example.com","password":"wrong"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid email fails validation", func(t *testing.T) {
		_, router := newTestRouter(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login",
			strings.NewReader(`{"email":"not-an-email","password":"whatever"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})

	t.Run("malformed body is rejected", func(t *testing.T) {
		_, router := newTestRouter(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/auth/login", strings.NewReader(`{`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}

func TestHandleCreateUser(t *testing.T) {
	t.Run("creates account", func(t *testing.T) {
		service, router := newTestRouter(t)
		userID := id.NewUserID()
		service.EXPECT().CreateUser(gomock.Any(), "budi@example.com", "Budi", "long password", "employee").
			Return(auth.User{ID: userID, Email: "budi@example.com", Name: "Budi", Role: "employee"}, nil)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users",
			strings.NewReader(`{"email":"budi@example.com","name":"Budi","password":"long password","role":"employee"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusCreated, rec.Code)
		var body map[string]any
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
		assert.Equal(t, userID.String(), body["id"])
	})

	t.Run("duplicate email returns 409", func(t *testing.T) {
		service, router := newTestRouter(t)
		service.EXPECT().CreateUser(gomock.Any(), "budi@example.com", "Budi", "long password", "employee").
			Return(auth.User{}, dErrors.New(dErrors.CodeConflict, "email already registered"))

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users",
			strings.NewReader(`{"email":"budi@example.com","name":"Budi","password":"long password","role":"employee"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusConflict, rec.Code)
	})

	t.Run("unknown role fails validation", func(t *testing.T) {
		_, router := newTestRouter(t)

		rec := httptest.NewRecorder()
		req := httptest.NewRequest(http.MethodPost, "/users",
			strings.NewReader(`{"email":"budi@example.com","name":"Budi","password":"long password","role":"superuser"}`))
		router.ServeHTTP(rec, req)

		require.Equal(t, http.StatusBadRequest, rec.Code)
	})
}
