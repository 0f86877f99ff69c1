// Package api is the client for the Beliy works REST API. Every outbound
// request goes through a single gateway that attaches the current bearer
// credential and transparently recovers from an expired access token with
// exactly one refresh-and-replay.
package api

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"time"

	"github.com/DOFONSON/beliy-client/session"
	"github.com/google/uuid"
	"github.com/pkg/errors"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

const contentTypeJSON = "application/json"

// Config provides the gateway's settings. The module's internal/config
// package satisfies it; embedders may supply their own.
type Config interface {
	GetBaseURL() string
	GetHTTPTimeout() time.Duration
}

// Client is the authenticated request gateway. It decorates every call with
// the session's bearer credential and owns the 401 recovery protocol; all
// other failures propagate unchanged to the caller.
type Client struct {
	baseURL          string
	httpClient       *http.Client
	store            *session.Store
	log              zerolog.Logger
	onSessionExpired func()
}

// Option defines a function type to modify the Client instance.
type Option func(*Client)

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(httpClient *http.Client) Option {
	return func(c *Client) {
		c.httpClient = httpClient
	}
}

// WithLogger sets the gateway's logger.
func WithLogger(logger zerolog.Logger) Option {
	return func(c *Client) {
		c.log = logger
	}
}

// WithSessionExpiredHook registers a callback invoked after a terminal
// refresh failure, once the session has been cleared. This is the CLI/UI's
// cue to send the user back to login. The hook must not call back into the
// Client.
func WithSessionExpiredHook(hook func()) Option {
	return func(c *Client) {
		c.onSessionExpired = hook
	}
}

// New creates a gateway bound to the given session store.
func New(cfg Config, store *session.Store, options ...Option) (*Client, error) {
	if cfg == nil {
		return nil, errors.New("[api.New] config is required")
	}
	if store == nil {
		return nil, errors.New("[api.New] session store is required")
	}

	client := &Client{
		baseURL:    cfg.GetBaseURL(),
		httpClient: &http.Client{Timeout: cfg.GetHTTPTimeout()},
		store:      store,
		log:        log.Logger,
	}

	for _, opt := range options {
		opt(client)
	}

	return client, nil
}

// Store returns the session store the gateway reads its credential from.
func (c *Client) Store() *session.Store {
	return c.store
}

// do sends one request through the gateway. On a 401 it runs the recovery
// protocol: at most one silent refresh followed by at most one replay. The
// replay's outcome is final and is never itself recovered, which caps the
// retries structurally.
func (c *Client) do(ctx context.Context, method, path string, body []byte, contentType string, out any) error {
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}

	if resp.StatusCode == http.StatusUnauthorized {
		return c.recover(ctx, method, path, body, contentType, resp, out)
	}

	return c.decode(resp, out)
}

// recover handles an unauthorized response: refresh the access token once
// and replay the original request, or clear the session and give up.
func (c *Client) recover(ctx context.Context, method, path string, body []byte, contentType string, failed *http.Response, out any) error {
	originalErr := apiErrorFrom(failed)

	refreshToken := c.store.Session().RefreshToken
	if refreshToken == "" {
		// Nothing to recover with. The original failure is the caller's.
		if err := c.store.Clear(); err != nil {
			c.log.Warn().Err(err).Msg("failed to clear session")
		}
		return originalErr
	}

	c.log.Debug().Str("path", path).Msg("access token rejected, attempting refresh")

	accessToken, err := c.refreshAccessToken(ctx, refreshToken)
	if err != nil {
		if clearErr := c.store.Clear(); clearErr != nil {
			c.log.Warn().Err(clearErr).Msg("failed to clear session")
		}
		if c.onSessionExpired != nil {
			c.onSessionExpired()
		}
		return errors.Wrapf(ErrSessionExpired, "token refresh failed: %s", err)
	}

	if err := c.store.UpdateAccessToken(accessToken); err != nil {
		return errors.Wrap(err, "[Client.recover] store.UpdateAccessToken")
	}

	// Replay exactly once with the new credential; whatever comes back,
	// including another 401, is returned to the caller as-is.
	resp, err := c.send(ctx, method, path, body, contentType)
	if err != nil {
		return err
	}
	return c.decode(resp, out)
}

// refreshAccessToken calls the refresh endpoint directly, bypassing do() so
// the refresh request is never itself decorated or recovered.
func (c *Client) refreshAccessToken(ctx context.Context, refreshToken string) (string, error) {
	payload, err := json.Marshal(map[string]string{"refresh": refreshToken})
	if err != nil {
		return "", errors.Wrap(err, "[Client.refreshAccessToken] json.Marshal")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+"/auth/refresh/", bytes.NewReader(payload))
	if err != nil {
		return "", errors.Wrap(err, "[Client.refreshAccessToken] http.NewRequestWithContext")
	}
	req.Header.Set("Content-Type", contentTypeJSON)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return "", errors.Wrap(err, "[Client.refreshAccessToken] httpClient.Do")
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return "", apiErrorFrom(resp)
	}

	var refreshed struct {
		Access string `json:"access"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&refreshed); err != nil {
		return "", errors.Wrap(err, "[Client.refreshAccessToken] decode response")
	}
	if refreshed.Access == "" {
		return "", errors.Wrap(ErrInvalidResponse, "refresh response has no access token")
	}
	return refreshed.Access, nil
}

// send builds and sends a single request. The bearer credential is read
// from the store at send time, so a replay after a refresh automatically
// carries the new token.
func (c *Client) send(ctx context.Context, method, path string, body []byte, contentType string) (*http.Response, error) {
	var reader io.Reader
	if body != nil {
		reader = bytes.NewReader(body)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, reader)
	if err != nil {
		return nil, errors.Wrap(err, "[Client.send] http.NewRequestWithContext")
	}

	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}
	req.Header.Set("X-Request-ID", uuid.New().String())

	if s := c.store.Session(); s.AccessToken != "" {
		req.Header.Set("Authorization", "Bearer "+s.AccessToken)
		if s.AccessTokenExpired(time.Now()) {
			c.log.Debug().Str("path", path).Msg("sending request with expired access token")
		}
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, errors.Wrapf(err, "[Client.send] %s %s", method, path)
	}
	return resp, nil
}

// decode consumes the response: non-2xx statuses become an *APIError, 2xx
// bodies are unmarshalled into out when out is non-nil.
func (c *Client) decode(resp *http.Response, out any) error {
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest {
		return apiErrorOf(resp.StatusCode, resp.Body)
	}

	if out == nil {
		_, _ = io.Copy(io.Discard, resp.Body)
		return nil
	}

	if err := json.NewDecoder(resp.Body).Decode(out); err != nil {
		return errors.Wrap(err, "[Client.decode] decode response body")
	}
	return nil
}

func (c *Client) getJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodGet, path, nil, "", out)
}

func (c *Client) postJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "[Client.postJSON] marshal body for %s", path)
	}
	return c.do(ctx, http.MethodPost, path, body, contentTypeJSON, out)
}

func (c *Client) putJSON(ctx context.Context, path string, in, out any) error {
	body, err := json.Marshal(in)
	if err != nil {
		return errors.Wrapf(err, "[Client.putJSON] marshal body for %s", path)
	}
	return c.do(ctx, http.MethodPut, path, body, contentTypeJSON, out)
}

func (c *Client) deleteJSON(ctx context.Context, path string, out any) error {
	return c.do(ctx, http.MethodDelete, path, nil, "", out)
}

func apiErrorFrom(resp *http.Response) *APIError {
	defer resp.Body.Close()
	return apiErrorOf(resp.StatusCode, resp.Body)
}

func apiErrorOf(statusCode int, body io.Reader) *APIError {
	apiErr := &APIError{StatusCode: statusCode}
	data, err := io.ReadAll(io.LimitReader(body, 1<<20))
	if err == nil && len(data) > 0 {
		// Best effort: the server usually sends {"error": ..., "message": ...}.
		_ = json.Unmarshal(data, apiErr)
	}
	return apiErr
}
