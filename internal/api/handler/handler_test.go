package handler_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/deeppurple/deeppurple/internal/api/handler"
	"github.com/deeppurple/deeppurple/internal/api/middleware"
	"github.com/deeppurple/deeppurple/internal/llm"
	"github.com/deeppurple/deeppurple/internal/llm/mock"
	"github.com/deeppurple/deeppurple/internal/security"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestHealthCheck(t *testing.T) {
	req := httptest.NewRequest(http.MethodGet, "/api/v1/health", nil)
	rec := httptest.NewRecorder()

	handler.HealthCheck(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
	assert.Equal(t, true, response["success"])

	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "ok", data["status"])
}

func TestListLLMProviders(t *testing.T) {
	router := llm.NewRouter("mock")
	router.RegisterProvider(mock.NewProvider())

	req := httptest.NewRequest(http.MethodGet, "/api/v1/llm-providers", nil)
	rec := httptest.NewRecorder()

	handler.ListLLMProviders(router)(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var response map[string]any
	require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))

	data, ok := response["data"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "mock", data["default_provider"])

	providers, ok := data["providers"].([]any)
	require.True(t, ok)
	require.Len(t, providers, 1)
}

type stubCacheFlusher struct {
	deleted int64
	err     error
}

func (s *stubCacheFlusher) FlushAll(ctx context.Context) (int64, error) {
	return s.deleted, s.err
}

func TestFlushContextCache(t *testing.T) {
	t.Run("reports deleted key count", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/flush", nil)
		rec := httptest.NewRecorder()

		handler.FlushContextCache(&stubCacheFlusher{deleted: 7})(rec, req)

		require.Equal(t, http.StatusOK, rec.Code)

		var response map[string]any
		require.NoError(t, json.NewDecoder(rec.Body).Decode(&response))
		data, ok := response["data"].(map[string]any)
		require.True(t, ok)
		assert.Equal(t, float64(7), data["keys_deleted"])
	})

	t.Run("flush failure is a server error", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/admin/cache/flush", nil)
		rec := httptest.NewRecorder()

		handler.FlushContextCache(&stubCacheFlusher{err: errors.New("redis down")})(rec, req)

		assert.Equal(t, http.StatusInternalServerError, rec.Code)
	})
}

func TestAuthenticateMiddleware(t *testing.T) {
	manager := security.NewJWTManager("test-secret-key-32-characters!!!", 15*time.Minute, 7*24*time.Hour)
	authmw := middleware.NewAuthMiddleware(manager)

	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		userID, ok := middleware.GetUserID(r.Context())
		require.True(t, ok)
		assert.NotEqual(t, uuid.Nil, userID)
		w.WriteHeader(http.StatusOK)
	})

	t.Run("missing header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
		rec := httptest.NewRecorder()

		authmw.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("malformed header", func(t *testing.T) {
		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
		req.Header.Set("Authorization", "token abc")
		rec := httptest.NewRecorder()

		authmw.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(uuid.New(), "user@example.com", false)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/sessions", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		authmw.Authenticate(next).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("admin required", func(t *testing.T) {
		token, err := manager.GenerateAccessToken(uuid.New(), "user@example.com", false)
		require.NoError(t, err)

		req := httptest.NewRequest(http.MethodGet, "/api/v1/admin/users", nil)
		req.Header.Set("Authorization", "Bearer "+token)
		rec := httptest.NewRecorder()

		ok := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.WriteHeader(http.StatusOK)
		})
		authmw.Authenticate(authmw.RequireAdmin(ok)).ServeHTTP(rec, req)

		assert.Equal(t, http.StatusForbidden, rec.Code)
	})
}
