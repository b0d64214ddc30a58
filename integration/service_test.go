package integration_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/atendhub/mercadolivre-integration/accounts"
	accountfake "github.com/atendhub/mercadolivre-integration/accounts/repofake"
	"github.com/atendhub/mercadolivre-integration/hooks"
	hookfake "github.com/atendhub/mercadolivre-integration/hooks/repofake"
	"github.com/atendhub/mercadolivre-integration/integration"
	"github.com/atendhub/mercadolivre-integration/internal/config"
	"github.com/atendhub/mercadolivre-integration/mercadolivre"
	"github.com/atendhub/mercadolivre-integration/statetoken"
)

const (
	testAccountID   = uint(7)
	testSellerID    = "123456789"
	testExpiresIn   = int64(21600)
	testOrderID     = "2000003508419013"
	testStateSecret = "test-state-secret"
)

type testConfig struct {
	config.EnvVars
	config.Cors
	config.MercadoLivre
	config.Security
	tokenURL string
	apiURL   string
}

func (c testConfig) GetFrontendURL() string { return "http://frontend.test" }

func (c testConfig) GetMLClientID() string { return "client-id-1" }

func (c testConfig) GetMLClientSecret() string { return "client-secret-1" }

func (c testConfig) GetMLAuthBaseURL() string { return "https://auth.mercadolibre.com.br" }

func (c testConfig) GetMLTokenURL() string { return c.tokenURL }

func (c testConfig) GetMLAPIBaseURL() string { return c.apiURL }

func (c testConfig) GetStateTokenSecret() []byte { return []byte(testStateSecret) }

// fakeMarketplace is an httptest double for the three upstream endpoints,
// with per-endpoint call counters and failure switches.
type fakeMarketplace struct {
	server *httptest.Server

	lock          sync.Mutex
	tokenCalls    int
	refreshCalls  int
	meCalls       int
	ordersCalls   int
	lastOrdersURL *url.URL

	failExchange bool
	failRefresh  bool
	failMe       bool
	failOrders   bool
}

func newFakeMarketplace(t *testing.T) *fakeMarketplace {
	t.Helper()
	fm := &fakeMarketplace{}

	mux := http.NewServeMux()
	mux.HandleFunc("POST /oauth/token", func(w http.ResponseWriter, r *http.Request) {
		fm.lock.Lock()
		defer fm.lock.Unlock()

		require.NoError(t, r.ParseForm())
		w.Header().Set("Content-Type", "application/json")

		switch r.PostForm.Get("grant_type") {
		case "authorization_code":
			fm.tokenCalls++
			if fm.failExchange {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-1",
				"token_type":    "bearer",
				"refresh_token": "refresh-1",
				"expires_in":    testExpiresIn,
				"scope":         "offline_access read",
			})
		case "refresh_token":
			fm.refreshCalls++
			if fm.failRefresh {
				w.WriteHeader(http.StatusBadRequest)
				_, _ = w.Write([]byte(`{"error":"invalid_grant"}`))
				return
			}
			_ = json.NewEncoder(w).Encode(map[string]any{
				"access_token":  "access-refreshed",
				"token_type":    "bearer",
				"refresh_token": "refresh-rotated",
				"expires_in":    testExpiresIn,
			})
		default:
			w.WriteHeader(http.StatusBadRequest)
			_, _ = w.Write([]byte(`{"error":"unsupported_grant_type"}`))
		}
	})
	mux.HandleFunc("GET /users/me", func(w http.ResponseWriter, r *http.Request) {
		fm.lock.Lock()
		defer fm.lock.Unlock()

		fm.meCalls++
		if fm.failMe {
			w.WriteHeader(http.StatusUnauthorized)
			_, _ = w.Write([]byte(`{"message":"invalid access token"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"id": ` + testSellerID + `, "nickname": "SELLERBR"}`))
	})
	mux.HandleFunc("GET /orders/search", func(w http.ResponseWriter, r *http.Request) {
		fm.lock.Lock()
		defer fm.lock.Unlock()

		fm.ordersCalls++
		fm.lastOrdersURL = r.URL
		if fm.failOrders {
			w.WriteHeader(http.StatusInternalServerError)
			_, _ = w.Write([]byte(`{"message":"server error"}`))
			return
		}
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(`{"results": [{"id": ` + testOrderID + `, "status": "paid", "total_amount": 149.9}]}`))
	})

	fm.server = httptest.NewServer(mux)
	t.Cleanup(fm.server.Close)
	return fm
}

type fixture struct {
	hooks    *hookfake.FakeHookRepo
	accounts *accountfake.FakeAccountRepo
	states   *statetoken.Issuer
	ml       *fakeMarketplace
	service  *integration.Service
}

func setupFixture(t *testing.T) *fixture {
	t.Helper()

	fm := newFakeMarketplace(t)
	cfg := testConfig{
		tokenURL: fm.server.URL + "/oauth/token",
		apiURL:   fm.server.URL,
	}

	hr := hookfake.NewFakeHookRepo()
	ar := accountfake.NewFakeAccountRepo()
	ar.Add(&accounts.Account{ID: testAccountID, Name: "Acme Store"})

	states := statetoken.NewIssuer(cfg)
	svc := integration.NewService(integration.Repos{Hooks: hr, Accounts: ar}, mercadolivre.NewClient(cfg), states, cfg)

	return &fixture{hooks: hr, accounts: ar, states: states, ml: fm, service: svc}
}

// connect runs the full happy-path callback for the fixture account.
func (f *fixture) connect(t *testing.T) {
	t.Helper()

	state, err := f.states.Issue(testAccountID)
	require.NoError(t, err)
	accountID, err := f.service.CompleteAuthorization(t.Context(), state, "auth-code-1")
	require.NoError(t, err)
	require.Equal(t, testAccountID, accountID)
}

func TestService_AuthorizationURL(t *testing.T) {
	f := setupFixture(t)

	rawURL, err := f.service.AuthorizationURL(testAccountID)
	require.NoError(t, err)

	parsed, err := url.Parse(rawURL)
	require.NoError(t, err)
	require.Equal(t, "auth.mercadolibre.com.br", parsed.Host)
	require.Equal(t, "/authorization", parsed.Path)

	query := parsed.Query()
	require.Equal(t, "code", query.Get("response_type"))
	require.Equal(t, "client-id-1", query.Get("client_id"))
	require.Equal(t, "http://frontend.test/mercado_livre/callback", query.Get("redirect_uri"))

	accountID, err := f.states.Verify(query.Get("state"))
	require.NoError(t, err)
	require.Equal(t, testAccountID, accountID)
}

func TestService_CompleteAuthorization(t *testing.T) {
	t.Run("creates one hook with seller identity and expiry", func(t *testing.T) {
		f := setupFixture(t)
		before := time.Now().Unix()
		f.connect(t)

		require.Equal(t, 1, f.hooks.Count())
		hook, err := f.hooks.GetByAccount(testAccountID)
		require.NoError(t, err)
		require.Equal(t, "access-1", hook.AccessToken)
		require.Equal(t, "refresh-1", hook.RefreshToken)
		require.Equal(t, testSellerID, hook.ReferenceID)
		require.Equal(t, "offline_access read", hook.Scope)
		require.Equal(t, hooks.StatusEnabled, hook.Status)
		require.InDelta(t, before+testExpiresIn, hook.TokenExpiresAt, 5)
	})

	t.Run("re-authorization overwrites, never duplicates", func(t *testing.T) {
		f := setupFixture(t)
		f.connect(t)
		f.connect(t)

		require.Equal(t, 1, f.hooks.Count())
		require.Equal(t, 2, f.ml.tokenCalls)
	})

	t.Run("tampered state fails without touching the store", func(t *testing.T) {
		f := setupFixture(t)

		_, err := f.service.CompleteAuthorization(t.Context(), "not-a-state", "auth-code-1")
		require.ErrorIs(t, err, integration.InvalidStateErr)
		require.Equal(t, 0, f.hooks.Count())
		require.Equal(t, 0, f.ml.tokenCalls)
	})

	t.Run("expired state fails without touching the store", func(t *testing.T) {
		f := setupFixture(t)
		state, err := f.states.Issue(testAccountID)
		require.NoError(t, err)

		defer func() { statetoken.NowTimeFunc = time.Now }()
		statetoken.NowTimeFunc = func() time.Time { return time.Now().Add(11 * time.Minute) }

		_, err = f.service.CompleteAuthorization(t.Context(), state, "auth-code-1")
		require.ErrorIs(t, err, integration.InvalidStateErr)
		require.Equal(t, 0, f.hooks.Count())
	})

	t.Run("state for an unknown account is invalid", func(t *testing.T) {
		f := setupFixture(t)
		state, err := f.states.Issue(999)
		require.NoError(t, err)

		_, err = f.service.CompleteAuthorization(t.Context(), state, "auth-code-1")
		require.ErrorIs(t, err, integration.InvalidStateErr)
	})

	t.Run("exchange failure reports upstream failure with account known", func(t *testing.T) {
		f := setupFixture(t)
		f.ml.failExchange = true

		state, err := f.states.Issue(testAccountID)
		require.NoError(t, err)
		accountID, err := f.service.CompleteAuthorization(t.Context(), state, "auth-code-1")
		require.ErrorIs(t, err, integration.UpstreamAuthFailureErr)
		require.Equal(t, testAccountID, accountID)
		require.Equal(t, 0, f.hooks.Count())
	})

	t.Run("identity lookup failure reports upstream failure", func(t *testing.T) {
		f := setupFixture(t)
		f.ml.failMe = true

		state, err := f.states.Issue(testAccountID)
		require.NoError(t, err)
		_, err = f.service.CompleteAuthorization(t.Context(), state, "auth-code-1")
		require.ErrorIs(t, err, integration.UpstreamAuthFailureErr)
		require.Equal(t, 0, f.hooks.Count())
	})
}

func TestService_Orders(t *testing.T) {
	t.Run("fresh token skips the refresh call", func(t *testing.T) {
		f := setupFixture(t)
		f.connect(t)

		result, err := f.service.Orders(t.Context(), testAccountID)
		require.NoError(t, err)
		require.Equal(t, 0, f.ml.refreshCalls)
		require.False(t, result.Refresh.Refreshed)
		require.False(t, result.Refresh.Skipped)
		require.Len(t, result.Orders, 1)
	})

	t.Run("token inside the skew window is refreshed first", func(t *testing.T) {
		f := setupFixture(t)
		f.connect(t)
		setHookExpiry(t, f, time.Now().Add(2*time.Minute).Unix())

		result, err := f.service.Orders(t.Context(), testAccountID)
		require.NoError(t, err)
		require.Equal(t, 1, f.ml.refreshCalls)
		require.True(t, result.Refresh.Refreshed)

		hook, err := f.hooks.GetByAccount(testAccountID)
		require.NoError(t, err)
		require.Equal(t, "access-refreshed", hook.AccessToken)
		require.Equal(t, "refresh-rotated", hook.RefreshToken)
		require.Greater(t, hook.TokenExpiresAt, time.Now().Add(time.Hour).Unix())
	})

	t.Run("failed refresh is skipped, stale token proceeds", func(t *testing.T) {
		f := setupFixture(t)
		f.connect(t)
		setHookExpiry(t, f, time.Now().Unix())
		f.ml.failRefresh = true

		result, err := f.service.Orders(t.Context(), testAccountID)
		require.NoError(t, err)
		require.True(t, result.Refresh.Skipped)
		require.Error(t, result.Refresh.Err)
		require.Equal(t, 1, f.ml.ordersCalls)
		require.Len(t, result.Orders, 1)

		// Tokens on the hook are untouched by the failed refresh.
		hook, err := f.hooks.GetByAccount(testAccountID)
		require.NoError(t, err)
		require.Equal(t, "access-1", hook.AccessToken)
	})

	t.Run("decorates each order with admin_url and nothing else", func(t *testing.T) {
		f := setupFixture(t)
		f.connect(t)

		result, err := f.service.Orders(t.Context(), testAccountID)
		require.NoError(t, err)
		require.Len(t, result.Orders, 1)

		order := result.Orders[0]
		require.Equal(t, "https://www.mercadolibre.com.br/ventas/"+testOrderID+"/detalle", order["admin_url"])
		require.Equal(t, json.Number(testOrderID), order["id"])
		require.Equal(t, "paid", order["status"])
		require.Equal(t, json.Number("149.9"), order["total_amount"])
		require.Len(t, order, 4) // id, status, total_amount, admin_url
	})

	t.Run("queries upstream by seller reference id", func(t *testing.T) {
		f := setupFixture(t)
		f.connect(t)

		_, err := f.service.Orders(t.Context(), testAccountID)
		require.NoError(t, err)
		require.Equal(t, testSellerID, f.ml.lastOrdersURL.Query().Get("seller"))
		require.Equal(t, "date_desc", f.ml.lastOrdersURL.Query().Get("sort"))
		require.Equal(t, "50", f.ml.lastOrdersURL.Query().Get("limit"))
	})

	t.Run("upstream non-success yields empty orders, not an error", func(t *testing.T) {
		f := setupFixture(t)
		f.connect(t)
		f.ml.failOrders = true

		result, err := f.service.Orders(t.Context(), testAccountID)
		require.NoError(t, err)
		require.Empty(t, result.Orders)
	})

	t.Run("no hook fails with integration not configured", func(t *testing.T) {
		f := setupFixture(t)

		_, err := f.service.Orders(t.Context(), testAccountID)
		require.ErrorIs(t, err, integration.IntegrationNotConfiguredErr)
	})
}

func TestService_Disconnect(t *testing.T) {
	t.Run("removes the hook, subsequent orders fail", func(t *testing.T) {
		f := setupFixture(t)
		f.connect(t)

		require.NoError(t, f.service.Disconnect(testAccountID))
		require.Equal(t, 0, f.hooks.Count())

		_, err := f.service.Orders(t.Context(), testAccountID)
		require.ErrorIs(t, err, integration.IntegrationNotConfiguredErr)
	})

	t.Run("disconnecting a missing hook fails", func(t *testing.T) {
		f := setupFixture(t)
		require.ErrorIs(t, f.service.Disconnect(testAccountID), integration.IntegrationNotConfiguredErr)
	})
}

// setHookExpiry rewrites the stored hook's expiry without touching tokens.
func setHookExpiry(t *testing.T, f *fixture, expiresAt int64) {
	t.Helper()
	hook, err := f.hooks.GetByAccount(testAccountID)
	require.NoError(t, err)
	require.NoError(t, f.hooks.UpdateTokens(testAccountID, hook.AccessToken, hook.RefreshToken, expiresAt))
}
