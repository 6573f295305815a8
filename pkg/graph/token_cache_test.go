package graph_test

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/camtang26/cre8tiveCA/pkg/graph"
)

type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newClock() *fakeClock {
	return &fakeClock{now: time.Date(2025, 6, 2, 9, 0, 0, 0, time.UTC)}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	c.mu.Unlock()
}

type tokenServer struct {
	*httptest.Server
	calls atomic.Int32
}

func newTokenServer(t *testing.T, h func(w http.ResponseWriter, r *http.Request, call int32)) *tokenServer {
	t.Helper()
	ts := &tokenServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		n := ts.calls.Add(1)
		h(w, r, n)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func okToken(w http.ResponseWriter, _ *http.Request, call int32) {
	writeJSON(w, http.StatusOK, map[string]any{
		"token_type":   "Bearer",
		"access_token": "token-" + string(rune('0'+call)),
		"expires_in":   3600,
	})
}

func testConfig() graph.Config {
	return graph.Config{
		TenantID:     "contoso-tenant",
		ClientID:     "client-id",
		ClientSecret: "client-secret",
	}
}

func newCache(t *testing.T, ts *tokenServer, clock *fakeClock, opts ...graph.Option) *graph.TokenCache {
	t.Helper()
	all := append([]graph.Option{
		graph.WithTokenURL(ts.URL + "/contoso-tenant/oauth2/v2.0/token"),
		graph.WithClock(clock.Now),
		graph.WithHTTPClient(ts.Client()),
	}, opts...)
	c, err := graph.NewTokenCache(testConfig(), all...)
	require.NoError(t, err)
	return c
}

func TestAccessToken_RequestShape(t *testing.T) {
	t.Parallel()

	ts := newTokenServer(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		assert.Equal(t, http.MethodPost, r.Method)
		assert.Equal(t, "/contoso-tenant/oauth2/v2.0/token", r.URL.Path)
		assert.Equal(t, "application/x-www-form-urlencoded", r.Header.Get("Content-Type"))
		require.NoError(t, r.ParseForm())
		assert.Equal(t, "client_credentials", r.PostForm.Get("grant_type"))
		assert.Equal(t, "client-id", r.PostForm.Get("client_id"))
		assert.Equal(t, "client-secret", r.PostForm.Get("client_secret"))
		assert.Equal(t, graph.DefaultScope, r.PostForm.Get("scope"))
		okToken(w, r, call)
	})

	tok, err := newCache(t, ts, newClock()).AccessToken(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok)
}

func TestAccessToken_CachedWhileValid(t *testing.T) {
	t.Parallel()

	ts := newTokenServer(t, okToken)
	clock := newClock()
	cache := newCache(t, ts, clock)

	first, err := cache.AccessToken(context.Background())
	require.NoError(t, err)

	clock.Advance(58 * time.Minute)
	second, err := cache.AccessToken(context.Background())
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.EqualValues(t, 1, ts.calls.Load(), "valid token must not hit the network")
}

func TestAccessToken_ExpiryIsLifetimeMinusSixtySeconds(t *testing.T) {
	t.Parallel()

	ts := newTokenServer(t, okToken)
	clock := newClock()
	fetchedAt := clock.Now()
	cache := newCache(t, ts, clock)

	_, err := cache.AccessToken(context.Background())
	require.NoError(t, err)

	cached, ok := cache.Cached()
	require.True(t, ok)
	assert.Equal(t, fetchedAt.Add(3600*time.Second-60*time.Second), cached.ExpiresAt)
	assert.Equal(t, fetchedAt.UnixMilli()+3600000-60000, cached.ExpiresAt.UnixMilli())
}

func TestAccessToken_RefetchesAtExpiry(t *testing.T) {
	t.Parallel()

	ts := newTokenServer(t, okToken)
	clock := newClock()
	cache := newCache(t, ts, clock)

	first, err := cache.AccessToken(context.Background())
	require.NoError(t, err)

	// now == expiresAt is already expired.
	clock.Advance(59 * time.Minute)
	_, ok := cache.Cached()
	assert.False(t, ok)

	second, err := cache.AccessToken(context.Background())
	require.NoError(t, err)
	assert.NotEqual(t, first, second)
	assert.Equal(t, "token-2", second)
	assert.EqualValues(t, 2, ts.calls.Load(), "exactly one call per expired lookup")

	cached, ok := cache.Cached()
	require.True(t, ok)
	assert.Equal(t, second, cached.Value)
}

func TestAccessToken_ProviderError(t *testing.T) {
	t.Parallel()

	ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request, _ int32) {
		writeJSON(w, http.StatusUnauthorized, map[string]any{
			"error":             "invalid_client",
			"error_description": "AADSTS7000215: Invalid client secret provided.",
		})
	})
	cache := newCache(t, ts, newClock())

	_, err := cache.AccessToken(context.Background())
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrTokenUnavailable)

	var authErr *graph.AuthTokenError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "invalid_client", authErr.ErrorCode)
	assert.Contains(t, authErr.Description, "AADSTS7000215")
	assert.Equal(t, http.StatusUnauthorized, authErr.StatusCode)
	assert.NotContains(t, err.Error(), "client-secret")

	_, ok := cache.Cached()
	assert.False(t, ok, "failures are never cached")

	_, err = cache.AccessToken(context.Background())
	require.Error(t, err)
	assert.EqualValues(t, 2, ts.calls.Load(), "no internal retry; next call tries again")
}

func TestAccessToken_MissingAccessToken(t *testing.T) {
	t.Parallel()

	ts := newTokenServer(t, func(w http.ResponseWriter, _ *http.Request, _ int32) {
		writeJSON(w, http.StatusOK, map[string]any{"token_type": "Bearer", "expires_in": 3600})
	})

	_, err := newCache(t, ts, newClock()).AccessToken(context.Background())
	var authErr *graph.AuthTokenError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "missing_access_token", authErr.ErrorCode)
	assert.EqualValues(t, 1, ts.calls.Load())
}

func TestAccessToken_Timeout(t *testing.T) {
	t.Parallel()

	release := make(chan struct{})
	ts := newTokenServer(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		select {
		case <-release:
		case <-r.Context().Done():
		}
	})
	t.Cleanup(func() { close(release) })

	cfg := testConfig()
	cfg.TokenTimeout = 50 * time.Millisecond
	cache, err := graph.NewTokenCache(cfg,
		graph.WithTokenURL(ts.URL),
		graph.WithHTTPClient(ts.Client()),
	)
	require.NoError(t, err)

	_, err = cache.AccessToken(context.Background())
	var authErr *graph.AuthTokenError
	require.ErrorAs(t, err, &authErr)
	assert.Equal(t, "timeout", authErr.ErrorCode)
	assert.Zero(t, authErr.StatusCode)
}

func TestAccessToken_ConcurrentMissesShareOneFetch(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	ts := newTokenServer(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		<-gate
		okToken(w, r, call)
	})
	cache := newCache(t, ts, newClock())

	const callers = 16
	var wg sync.WaitGroup
	results := make([]string, callers)
	errs := make([]error, callers)
	for i := range callers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			results[i], errs[i] = cache.AccessToken(context.Background())
		}()
	}

	// Let the callers pile up behind the in-flight request.
	time.Sleep(50 * time.Millisecond)
	close(gate)
	wg.Wait()

	for i := range callers {
		require.NoError(t, errs[i])
		assert.Equal(t, "token-1", results[i])
	}
	assert.EqualValues(t, 1, ts.calls.Load())
}

func TestAccessToken_CallerCancellation(t *testing.T) {
	t.Parallel()

	gate := make(chan struct{})
	ts := newTokenServer(t, func(w http.ResponseWriter, r *http.Request, call int32) {
		<-gate
		okToken(w, r, call)
	})
	cache := newCache(t, ts, newClock())

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	_, err := cache.AccessToken(ctx)
	assert.ErrorIs(t, err, graph.ErrTokenUnavailable)
	assert.ErrorIs(t, err, context.Canceled)

	close(gate)
	require.Eventually(t, func() bool {
		_, ok := cache.Cached()
		return ok
	}, time.Second, 10*time.Millisecond, "shared fetch completes for other callers")
}

func TestFetchUncached_DoesNotTouchCache(t *testing.T) {
	t.Parallel()

	ts := newTokenServer(t, okToken)
	cache := newCache(t, ts, newClock())

	tok, err := cache.FetchUncached(context.Background())
	require.NoError(t, err)
	assert.Equal(t, "token-1", tok.Value)

	_, ok := cache.Cached()
	assert.False(t, ok)
	assert.NotContains(t, tok.String(), "token-1")
}

func TestNewTokenCache_Misconfigured(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	cfg.TenantID = "your-azure-tenant-id"
	cfg.ClientSecret = ""

	_, err := graph.NewTokenCache(cfg)
	require.Error(t, err)
	assert.ErrorIs(t, err, graph.ErrMisconfigured)
	assert.Contains(t, err.Error(), "AZURE_TENANT_ID")
	assert.Contains(t, err.Error(), "AZURE_CLIENT_SECRET")
	assert.NotContains(t, err.Error(), "AZURE_CLIENT_ID")
}

func TestConfig_TokenURL(t *testing.T) {
	t.Parallel()

	cfg := testConfig()
	assert.Equal(t, "https://login.microsoftonline.com/contoso-tenant/oauth2/v2.0/token", cfg.TokenURL())

	cfg.AuthorityURL = "https://login.example.test/"
	assert.Equal(t, "https://login.example.test/contoso-tenant/oauth2/v2.0/token", cfg.TokenURL())
}

func TestAuthTokenError_Message(t *testing.T) {
	t.Parallel()

	err := &graph.AuthTokenError{ErrorCode: "invalid_client", Description: "bad secret", StatusCode: 401}
	assert.Equal(t, "graph: failed to obtain access token: invalid_client - bad secret", err.Error())
	assert.True(t, errors.Is(err, graph.ErrTokenUnavailable))
	assert.Equal(t, "graph: failed to obtain access token: unknown_error - no description", (&graph.AuthTokenError{}).Error())
}
