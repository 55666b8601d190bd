package entitlement

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

func TestClient_Grant(t *testing.T) {
	userID := domain.UserID("u-123")

	t.Run("posts grant to membership service", func(t *testing.T) {
		var got grantRequest
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, http.MethodPost, r.Method)
			assert.Equal(t, "/entitlements/grants", r.URL.Path)
			require.NoError(t, json.NewDecoder(r.Body).Decode(&got))
			w.WriteHeader(http.StatusCreated)
		}))
		defer srv.Close()

		client, err := NewClient(srv.URL)
		require.NoError(t, err)

		require.NoError(t, client.Grant(context.Background(), userID, 30))
		assert.Equal(t, "u-123", got.UserID)
		assert.Equal(t, 30, got.Days)
		assert.Equal(t, "referral_reward", got.Source)
	})

	t.Run("non-2xx is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusUnprocessableEntity)
		}))
		defer srv.Close()

		client, err := NewClient(srv.URL)
		require.NoError(t, err)

		assert.Error(t, client.Grant(context.Background(), userID, 30))
	})

	t.Run("unreachable service is an error", func(t *testing.T) {
		srv := httptest.NewServer(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))
		srv.Close()

		client, err := NewClient(srv.URL)
		require.NoError(t, err)

		assert.Error(t, client.Grant(context.Background(), userID, 30))
	})

	t.Run("empty base url rejected", func(t *testing.T) {
		_, err := NewClient("")
		assert.Error(t, err)
	})
}
