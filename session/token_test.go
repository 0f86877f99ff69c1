package session_test

import (
	"testing"
	"time"

	"github.com/DOFONSON/beliy-client/session"
	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/require"
)

func signedToken(t *testing.T, claims jwt.MapClaims) string {
	t.Helper()

	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, claims).SignedString([]byte("test-key"))
	require.NoError(t, err)
	return token
}

func TestSession_AccessTokenExpired(t *testing.T) {
	now := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)

	t.Run("expired token", func(t *testing.T) {
		s := session.Session{AccessToken: signedToken(t, jwt.MapClaims{
			"exp": now.Add(-time.Minute).Unix(),
		})}
		require.True(t, s.AccessTokenExpired(now))
	})

	t.Run("valid token", func(t *testing.T) {
		s := session.Session{AccessToken: signedToken(t, jwt.MapClaims{
			"exp": now.Add(time.Hour).Unix(),
		})}
		require.False(t, s.AccessTokenExpired(now))
	})

	t.Run("no exp claim", func(t *testing.T) {
		s := session.Session{AccessToken: signedToken(t, jwt.MapClaims{"sub": "1"})}
		require.False(t, s.AccessTokenExpired(now))
	})

	t.Run("opaque token", func(t *testing.T) {
		s := session.Session{AccessToken: "not-a-jwt"}
		require.False(t, s.AccessTokenExpired(now))
	})

	t.Run("empty token", func(t *testing.T) {
		require.False(t, session.Session{}.AccessTokenExpired(now))
	})
}
