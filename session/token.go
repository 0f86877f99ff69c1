package session

import (
	"time"

	"github.com/golang-jwt/jwt/v5"
)

// AccessTokenExpired reports whether the stored access token carries an exp
// claim in the past. The token is parsed without signature verification: the
// client has no key material and the server remains the authority, this is
// only a hint for display and debug logging. Opaque or claimless tokens
// report false, the eventual 401 handles those.
func (s Session) AccessTokenExpired(now time.Time) bool {
	if s.AccessToken == "" {
		return false
	}

	claims := jwt.MapClaims{}
	if _, _, err := jwt.NewParser().ParseUnverified(s.AccessToken, claims); err != nil {
		return false
	}

	exp, err := claims.GetExpirationTime()
	if err != nil || exp == nil {
		return false
	}
	return exp.Before(now)
}
