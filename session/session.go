package session

// User is the cached profile snapshot returned by the auth endpoints.
// It may be stale relative to the server; it exists so the UI can render
// immediately without a round trip.
type User struct {
	ID         int64   `json:"id"`
	Username   string  `json:"username"`
	Email      string  `json:"email"`
	FirstName  string  `json:"first_name"`
	LastName   string  `json:"last_name"`
	FullName   string  `json:"full_name"`
	AvatarURL  *string `json:"avatar_url"`
	Bio        *string `json:"bio"`
	DateJoined string  `json:"date_joined"`
}

// Session is the authentication state for the current process.
//
// AccessToken is the short-lived bearer credential attached to every
// authenticated call. RefreshToken is longer-lived and used only to mint a
// new access token. A Session is authenticated if and only if AccessToken is
// non-empty; User must never be treated as authenticated without one.
type Session struct {
	AccessToken  string `json:"access"`
	RefreshToken string `json:"refresh"`
	User         *User  `json:"user,omitempty"`
}

// Authenticated reports whether the session holds a bearer credential.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}

// clone returns a copy that shares no pointers with the receiver.
func (s Session) clone() Session {
	out := s
	if s.User != nil {
		u := *s.User
		out.User = &u
	}
	return out
}
