package api_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"sync/atomic"
	"testing"
	"time"

	"github.com/DOFONSON/beliy-client/api"
	"github.com/DOFONSON/beliy-client/session"
	"github.com/DOFONSON/beliy-client/session/repofakes"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/require"
)

const (
	testAccess    = "access-token-1"
	testNewAccess = "access-token-2"
	testRefresh   = "refresh-token-1"
	testUsername  = "john.doe"
)

type testConfig struct {
	baseURL string
}

func (c testConfig) GetBaseURL() string { return c.baseURL }

func (c testConfig) GetHTTPTimeout() time.Duration { return 5 * time.Second }

// gatewayFixture wires a fake session repo, a real store, and a client
// pointed at a local test server.
type gatewayFixture struct {
	t              *testing.T
	mux            *http.ServeMux
	server         *httptest.Server
	repo           *repofakes.FakeSessionRepo
	store          *session.Store
	client         *api.Client
	sessionExpired atomic.Bool
	refreshCalls   atomic.Int32
}

func setupGateway(t *testing.T) *gatewayFixture {
	t.Helper()

	f := &gatewayFixture{t: t, mux: http.NewServeMux()}
	f.server = httptest.NewServer(f.mux)
	t.Cleanup(f.server.Close)

	f.repo = repofakes.NewFakeSessionRepo()
	store, err := session.NewStore(f.repo, session.WithStoreLogger(zerolog.Nop()))
	require.NoError(t, err)
	f.store = store

	client, err := api.New(testConfig{baseURL: f.server.URL}, store,
		api.WithLogger(zerolog.Nop()),
		api.WithSessionExpiredHook(func() { f.sessionExpired.Store(true) }),
	)
	require.NoError(t, err)
	f.client = client

	return f
}

func (f *gatewayFixture) login(access, refresh string) {
	f.t.Helper()
	require.NoError(f.t, f.store.SetSession(access, refresh, &session.User{ID: 1, Username: testUsername}))
}

// serveRefresh registers a refresh endpoint that checks the protocol
// requirements: no bearer decoration, the stored refresh token in the body.
func (f *gatewayFixture) serveRefresh(newAccess string, status int) {
	f.mux.HandleFunc("/auth/refresh/", func(w http.ResponseWriter, r *http.Request) {
		f.refreshCalls.Add(1)
		require.Equal(f.t, http.MethodPost, r.Method)
		require.Empty(f.t, r.Header.Get("Authorization"), "refresh call must not be decorated")

		var body struct {
			Refresh string `json:"refresh"`
		}
		require.NoError(f.t, json.NewDecoder(r.Body).Decode(&body))
		require.Equal(f.t, testRefresh, body.Refresh)

		w.WriteHeader(status)
		if status == http.StatusOK {
			_ = json.NewEncoder(w).Encode(map[string]string{"access": newAccess})
		} else {
			_ = json.NewEncoder(w).Encode(map[string]string{"error": "token_not_valid"})
		}
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func TestClient_DecoratesOnlyWhenTokenPresent(t *testing.T) {
	f := setupGateway(t)

	var authHeaders []string
	f.mux.HandleFunc("/products/", func(w http.ResponseWriter, r *http.Request) {
		authHeaders = append(authHeaders, r.Header.Get("Authorization"))
		require.NotEmpty(t, r.Header.Get("X-Request-ID"))
		writeJSON(w, http.StatusOK, []api.Product{})
	})

	_, err := f.client.Products(context.Background())
	require.NoError(t, err)

	f.login(testAccess, testRefresh)
	_, err = f.client.Products(context.Background())
	require.NoError(t, err)

	require.Equal(t, []string{"", "Bearer " + testAccess}, authHeaders)
}

func TestClient_RecoveryRefreshesAndReplays(t *testing.T) {
	f := setupGateway(t)
	f.login(testAccess, testRefresh)
	f.serveRefresh(testNewAccess, http.StatusOK)

	var cartCalls atomic.Int32
	f.mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
		if cartCalls.Add(1) == 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token_not_valid"})
			return
		}
		require.Equal(t, "Bearer "+testNewAccess, r.Header.Get("Authorization"))
		writeJSON(w, http.StatusOK, map[string]any{
			"items":       []map[string]any{{"id": 1, "product": 2, "quantity": 3, "total_price": "30.00"}},
			"total_price": "30.00",
		})
	})

	serverCart, err := f.client.Cart(context.Background())
	require.NoError(t, err)
	require.Equal(t, 3, serverCart.TotalItems())

	require.Equal(t, int32(1), f.refreshCalls.Load())
	require.Equal(t, int32(2), cartCalls.Load())

	s := f.store.Session()
	require.Equal(t, testNewAccess, s.AccessToken)
	require.Equal(t, testRefresh, s.RefreshToken, "refresh token must survive recovery")
	require.False(t, f.sessionExpired.Load())
}

func TestClient_ReplayOutcomeIsFinal(t *testing.T) {
	f := setupGateway(t)
	f.login(testAccess, testRefresh)
	f.serveRefresh(testNewAccess, http.StatusOK)

	var cartCalls atomic.Int32
	f.mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
		cartCalls.Add(1)
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token_not_valid"})
	})

	_, err := f.client.Cart(context.Background())
	require.Error(t, err)
	require.True(t, api.IsUnauthorized(err))

	// One refresh, one replay, no further recovery on the replay's 401.
	require.Equal(t, int32(1), f.refreshCalls.Load())
	require.Equal(t, int32(2), cartCalls.Load())
}

func TestClient_NoRefreshTokenPropagatesOriginalFailure(t *testing.T) {
	f := setupGateway(t)
	f.login(testAccess, "")
	f.serveRefresh(testNewAccess, http.StatusOK)

	f.mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token_not_valid"})
	})

	_, err := f.client.Cart(context.Background())
	require.Error(t, err)
	require.True(t, api.IsUnauthorized(err), "caller receives the original 401, not a refresh failure")

	require.Equal(t, int32(0), f.refreshCalls.Load())
	require.False(t, f.store.Authenticated())
	require.Nil(t, f.repo.Stored())
}

func TestClient_RefreshFailureClearsSession(t *testing.T) {
	f := setupGateway(t)
	f.login(testAccess, testRefresh)
	f.serveRefresh("", http.StatusUnauthorized)

	f.mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "token_not_valid"})
	})

	_, err := f.client.Cart(context.Background())
	require.ErrorIs(t, err, api.ErrSessionExpired)

	require.False(t, f.store.Authenticated())
	require.Nil(t, f.repo.Stored())
	require.True(t, f.sessionExpired.Load())
}

func TestClient_ApplicationErrorLeavesSessionIntact(t *testing.T) {
	f := setupGateway(t)
	f.login(testAccess, testRefresh)

	f.mux.HandleFunc("/cart/", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": "boom", "message": "database down"})
	})

	_, err := f.client.Cart(context.Background())
	require.Error(t, err)

	var apiErr *api.APIError
	require.ErrorAs(t, err, &apiErr)
	require.Equal(t, http.StatusInternalServerError, apiErr.StatusCode)
	require.Equal(t, "boom", apiErr.ErrText)
	require.Equal(t, "database down", apiErr.Message)

	require.True(t, f.store.Authenticated())
	require.Equal(t, int32(0), f.refreshCalls.Load())
}

func TestClient_TransportErrorPropagates(t *testing.T) {
	f := setupGateway(t)
	f.login(testAccess, testRefresh)
	f.server.Close()

	_, err := f.client.Cart(context.Background())
	require.Error(t, err)

	var apiErr *api.APIError
	require.False(t, api.IsUnauthorized(err))
	require.NotErrorAs(t, err, &apiErr)
	require.True(t, f.store.Authenticated())
}

func TestNew_Validation(t *testing.T) {
	store, err := session.NewStore(repofakes.NewFakeSessionRepo())
	require.NoError(t, err)

	_, err = api.New(nil, store)
	require.Error(t, err)

	_, err = api.New(testConfig{baseURL: "http://localhost"}, nil)
	require.Error(t, err)
}
