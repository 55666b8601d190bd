package httpapi

import (
	"context"
	"errors"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	verificationhandler "refguard/internal/verification/handler"
	"refguard/internal/verification/handler/mocks"

	"go.uber.org/mock/gomock"
)

type healthStub struct{ err error }

func (h healthStub) Health(context.Context) error { return h.err }

func newRouter(t *testing.T, health map[string]HealthChecker) http.Handler {
	t.Helper()
	ctrl := gomock.NewController(t)
	h := verificationhandler.New(mocks.NewMockService(ctrl), mocks.NewMockAuditLog(ctrl), slog.Default())
	return NewRouter(Deps{
		Verification: h,
		AdminAuth:    nil,
		Logger:       slog.Default(),
		Health:       health,
	})
}

func TestHealthz(t *testing.T) {
	t.Run("all dependencies healthy", func(t *testing.T) {
		router := newRouter(t, map[string]HealthChecker{
			"mongo":    healthStub{},
			"postgres": healthStub{},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"mongo":"ok","postgres":"ok"}`, rec.Body.String())
	})

	t.Run("failing dependency turns unhealthy", func(t *testing.T) {
		router := newRouter(t, map[string]HealthChecker{
			"mongo":    healthStub{},
			"postgres": healthStub{err: errors.New("connection refused")},
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("nil checkers are skipped", func(t *testing.T) {
		router := newRouter(t, map[string]HealthChecker{
			"mongo": healthStub{},
			"redis": nil,
		})

		rec := httptest.NewRecorder()
		router.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/healthz", nil))

		assert.Equal(t, http.StatusOK, rec.Code)
		assert.JSONEq(t, `{"mongo":"ok"}`, rec.Body.String())
	})
}

func TestRequestIDPropagation(t *testing.T) {
	router := newRouter(t, nil)

	rec := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodGet, "/healthz", nil)
	req.Header.Set("X-Request-ID", "req-42")
	router.ServeHTTP(rec, req)

	assert.Equal(t, "req-42", rec.Header().Get("X-Request-ID"))
}

func TestAdminSurfaceRequiresToken(t *testing.T) {
	router := newRouter(t, nil)

	rec := httptest.NewRecorder()
	router.ServeHTTP(rec, httptest.NewRequest(http.MethodPost, "/api/v1/admin/verifications/u1/override", nil))

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
}
