// Package cart holds the shared cart badge state: a single item count that
// any component can read and trigger a refresh of, so fetch logic is not
// duplicated at every display site.
package cart

import (
	"context"
	"sync"

	"github.com/DOFONSON/beliy-client/api"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Fetcher fetches the server-side cart. *api.Client satisfies it.
type Fetcher interface {
	Cart(ctx context.Context) (*api.Cart, error)
}

var _ Fetcher = (*api.Client)(nil)

// Summary mirrors the server cart's item count. It is never incremented or
// decremented locally; Refresh recomputes it from the server's payload.
// Cart-mutating call sites are responsible for calling Refresh afterwards.
type Summary struct {
	fetcher Fetcher
	log     zerolog.Logger

	mu        sync.RWMutex
	itemCount int
}

// SummaryOption defines a function type to modify the Summary instance.
type SummaryOption func(*Summary)

// WithLogger sets the logger used when a refresh fails.
func WithLogger(logger zerolog.Logger) SummaryOption {
	return func(s *Summary) {
		s.log = logger
	}
}

// NewSummary creates the shared cart state. The owning scope should call
// Refresh once after construction.
func NewSummary(fetcher Fetcher, options ...SummaryOption) (*Summary, error) {
	if fetcher == nil {
		return nil, errors.New("[NewSummary] fetcher is required")
	}

	summary := &Summary{
		fetcher: fetcher,
		log:     log.Logger,
	}

	for _, opt := range options {
		opt(summary)
	}

	return summary, nil
}

// ItemCount returns the most recently fetched quantity sum.
func (s *Summary) ItemCount() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.itemCount
}

// Refresh re-fetches the cart and stores the quantity sum. Failures are
// logged and swallowed: a stale badge beats an error state for this
// non-critical indicator, so the previous count stays in place.
func (s *Summary) Refresh(ctx context.Context) {
	serverCart, err := s.fetcher.Cart(ctx)
	if err != nil {
		s.log.Warn().Err(err).Msg("cart refresh failed, keeping previous count")
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	s.itemCount = serverCart.TotalItems()
}
