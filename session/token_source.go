package session

import (
	"github.com/pkg/errors"
	"golang.org/x/oauth2"
)

// ErrNotAuthenticated is returned when a bearer credential is required but
// the store holds none.
var ErrNotAuthenticated = errors.New("not authenticated")

var _ oauth2.TokenSource = (*tokenSource)(nil)

type tokenSource struct {
	store *Store
}

// TokenSource adapts the store to oauth2.TokenSource so oauth2-aware HTTP
// stacks can attach the current credential themselves. It performs no
// refreshing; the request gateway owns that.
func TokenSource(store *Store) oauth2.TokenSource {
	return &tokenSource{store: store}
}

func (ts *tokenSource) Token() (*oauth2.Token, error) {
	s := ts.store.Session()
	if !s.Authenticated() {
		return nil, ErrNotAuthenticated
	}
	return &oauth2.Token{
		AccessToken: s.AccessToken,
		TokenType:   "Bearer",
	}, nil
}
