package api

import (
	"errors"
	"fmt"
	"net/http"
)

// Sentinel errors for the request gateway.
var (
	// ErrSessionExpired is returned when a token refresh fails terminally.
	// The session has been cleared; the user must log in again.
	ErrSessionExpired = errors.New("session expired")

	// ErrInvalidResponse is returned when the server's response is missing
	// fields the protocol requires (e.g. no access token after a login).
	ErrInvalidResponse = errors.New("invalid response from server")
)

// APIError is a structured error body returned by the works API with a
// 4xx/5xx status. It never causes the session to be cleared; only the 401
// recovery path touches the session.
type APIError struct {
	StatusCode int    `json:"-"`
	ErrText    string `json:"error"`
	Message    string `json:"message"`
}

func (e *APIError) Error() string {
	switch {
	case e.ErrText != "" && e.Message != "":
		return fmt.Sprintf("api error (%d): %s: %s", e.StatusCode, e.ErrText, e.Message)
	case e.ErrText != "":
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.ErrText)
	case e.Message != "":
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, e.Message)
	default:
		return fmt.Sprintf("api error (%d): %s", e.StatusCode, http.StatusText(e.StatusCode))
	}
}

// IsUnauthorized reports whether err is an APIError with a 401 status.
func IsUnauthorized(err error) bool {
	var apiErr *APIError
	return errors.As(err, &apiErr) && apiErr.StatusCode == http.StatusUnauthorized
}
