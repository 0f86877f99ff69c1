package api

import (
	"fmt"
	"strings"
)

const minPasswordLength = 8

// ValidateCredentials validates login input before any request is sent.
func ValidateCredentials(username, password string) error {
	username = strings.TrimSpace(username)
	if username == "" {
		return fmt.Errorf("username is required")
	}

	if password == "" {
		return fmt.Errorf("password is required")
	}

	return nil
}

// ValidateRegistration validates registration input before any request is
// sent. Server-side validation still applies; this catches the obvious
// mistakes without a round trip.
func ValidateRegistration(req RegisterRequest) error {
	username := strings.TrimSpace(req.Username)
	if username == "" {
		return fmt.Errorf("username is required")
	}
	if len(username) < 3 {
		return fmt.Errorf("username must be at least 3 characters")
	}

	email := strings.TrimSpace(req.Email)
	if email == "" {
		return fmt.Errorf("email is required")
	}
	if !strings.Contains(email, "@") || !strings.Contains(email, ".") {
		return fmt.Errorf("invalid email format")
	}

	if req.Password == "" {
		return fmt.Errorf("password is required")
	}
	if len(req.Password) < minPasswordLength {
		return fmt.Errorf("password must be at least %d characters", minPasswordLength)
	}

	return nil
}

// ValidateRatingValue validates a rating before it is submitted.
func ValidateRatingValue(value int) error {
	if value < 1 || value > 5 {
		return fmt.Errorf("rating must be between 1 and 5")
	}
	return nil
}

// ValidateCommentText validates a comment before it is submitted.
func ValidateCommentText(text string) error {
	if strings.TrimSpace(text) == "" {
		return fmt.Errorf("comment text is required")
	}
	return nil
}
