package auth_test

import (
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/timada-org/taskhub/internal/auth"
)

func TestAuth(t *testing.T) {
	verifier, err := auth.New("", "test-secret")
	require.NoError(t, err)

	request := func(header string) *http.Request {
		r, err := http.NewRequest(http.MethodGet, "/api/todo/v1/items", nil)
		require.NoError(t, err)
		if header != "" {
			r.Header.Set("Authorization", header)
		}
		return r
	}

	t.Run("round trip", func(t *testing.T) {
		token, err := auth.Sign("test-secret", 42, time.Hour)
		require.NoError(t, err)

		userID, err := verifier.UserID(request("Bearer " + token))
		require.NoError(t, err)
		require.Equal(t, int64(42), userID)
	})

	t.Run("missing header", func(t *testing.T) {
		_, err := verifier.UserID(request(""))
		require.Error(t, err)
	})

	t.Run("wrong scheme", func(t *testing.T) {
		token, err := auth.Sign("test-secret", 42, time.Hour)
		require.NoError(t, err)

		_, err = verifier.UserID(request("Basic " + token))
		require.Error(t, err)
	})

	t.Run("wrong secret", func(t *testing.T) {
		token, err := auth.Sign("other-secret", 42, time.Hour)
		require.NoError(t, err)

		_, err = verifier.UserID(request("Bearer " + token))
		require.Error(t, err)
	})

	t.Run("expired token", func(t *testing.T) {
		token, err := auth.Sign("test-secret", 42, -time.Minute)
		require.NoError(t, err)

		_, err = verifier.UserID(request("Bearer " + token))
		require.Error(t, err)
	})

	t.Run("requires jwks url or secret", func(t *testing.T) {
		_, err := auth.New("", "")
		require.Error(t, err)
	})
}
