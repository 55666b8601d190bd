package notify

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"refguard/pkg/domain"
)

func TestClient_Send(t *testing.T) {
	userID := domain.UserID("u-9")

	t.Run("delivers templated notification", func(t *testing.T) {
		var got sendRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "/notifications", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusAccepted)
		}))
		defer srv.Close()

		ok := NewClient(srv.URL).Send(context.Background(), userID, "referral_verified", map[string]string{"referee": "u-10"})
		assert.True(t, ok)
		assert.Equal(t, "u-9", got.UserID)
		assert.Equal(t, "referral_verified", got.Template)
		assert.Equal(t, "u-10", got.Data["referee"])
	})

	t.Run("rejection reports failure without error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusBadRequest)
		}))
		defer srv.Close()

		assert.False(t, NewClient(srv.URL).Send(context.Background(), userID, "verification_started", nil))
	})

	t.Run("unreachable service reports failure", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		assert.False(t, NewClient(srv.URL).Send(context.Background(), userID, "verification_started", nil))
	})

	t.Run("unconfigured client never delivers", func(t *testing.T) {
		assert.False(t, NewClient("").Send(context.Background(), userID, "verification_started", nil))
	})
}
