package graph

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"
	"golang.org/x/sync/singleflight"

	"github.com/camtang26/cre8tiveCA/pkg/logger"
)

// refreshSkew is subtracted from the provider lifetime so a token is replaced
// before in-flight requests could present an expired one.
const refreshSkew = 60 * time.Second

// CachedToken is a bearer token and the instant it stops being served.
type CachedToken struct {
	Value     string
	ExpiresAt time.Time
}

// Valid reports whether the token may be served at now.
func (t CachedToken) Valid(now time.Time) bool {
	return t.Value != "" && now.Before(t.ExpiresAt)
}

// TokenCache serves client-credentials tokens for one app registration.
// It is safe for concurrent use.
type TokenCache struct {
	cfg      Config
	tokenURL string
	now      func() time.Time
	client   *http.Client
	log      *slog.Logger
	observer Observer

	mu     sync.Mutex
	cached CachedToken
	flight singleflight.Group
}

type Option func(*TokenCache)

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(c *TokenCache) {
		if now != nil {
			c.now = now
		}
	}
}

// WithHTTPClient sets the client used for token requests.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *TokenCache) {
		if hc != nil {
			c.client = hc
		}
	}
}

// WithTokenURL overrides the endpoint derived from the tenant id.
func WithTokenURL(u string) Option {
	return func(c *TokenCache) {
		if u != "" {
			c.tokenURL = u
		}
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(c *TokenCache) {
		if l != nil {
			c.log = l
		}
	}
}

func WithObserver(o Observer) Option {
	return func(c *TokenCache) {
		if o != nil {
			c.observer = o
		}
	}
}

// NewTokenCache validates cfg and returns an empty cache. It returns
// ErrMisconfigured when credentials are missing.
func NewTokenCache(cfg Config, opts ...Option) (*TokenCache, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	cfg = cfg.withDefaults()

	c := &TokenCache{
		cfg:      cfg,
		tokenURL: cfg.TokenURL(),
		now:      time.Now,
		client:   http.DefaultClient,
		log:      logger.Discard(),
		observer: noopObserver{},
	}
	for _, opt := range opts {
		opt(c)
	}
	c.log = c.log.With(logger.Component("graph.token"), logger.Provider("azuread"))
	return c, nil
}

// AccessToken returns the cached token while it is valid and otherwise
// performs exactly one token request. Callers missing at the same time share
// that request. Failures are returned as *AuthTokenError and leave the cache
// untouched.
func (c *TokenCache) AccessToken(ctx context.Context) (string, error) {
	if tok, ok := c.Cached(); ok {
		c.observer.ObserveTokenHit()
		return tok.Value, nil
	}

	// The shared fetch must not die with whichever caller started it.
	ch := c.flight.DoChan("token", func() (any, error) {
		if tok, ok := c.Cached(); ok {
			return tok, nil
		}
		tok, err := c.fetch(context.WithoutCancel(ctx))
		if err != nil {
			return nil, err
		}
		c.mu.Lock()
		c.cached = tok
		c.mu.Unlock()
		return tok, nil
	})

	select {
	case <-ctx.Done():
		return "", &AuthTokenError{ErrorCode: "request_cancelled", Description: ctx.Err().Error(), Err: ctx.Err()}
	case res := <-ch:
		if res.Err != nil {
			return "", res.Err
		}
		return res.Val.(CachedToken).Value, nil
	}
}

// Cached returns the stored token when it is still valid.
func (c *TokenCache) Cached() (CachedToken, bool) {
	c.mu.Lock()
	tok := c.cached
	c.mu.Unlock()
	return tok, tok.Valid(c.now())
}

// FetchUncached requests a fresh token without reading or updating the cache.
// It backs the credentials diagnostics endpoint.
func (c *TokenCache) FetchUncached(ctx context.Context) (CachedToken, error) {
	return c.fetch(ctx)
}

func (c *TokenCache) fetch(ctx context.Context) (CachedToken, error) {
	ctx, cancel := context.WithTimeout(ctx, c.cfg.TokenTimeout)
	defer cancel()
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.client)

	cc := clientcredentials.Config{
		ClientID:     c.cfg.ClientID,
		ClientSecret: c.cfg.ClientSecret,
		TokenURL:     c.tokenURL,
		Scopes:       []string{c.cfg.Scope},
		AuthStyle:    oauth2.AuthStyleInParams,
	}

	started := time.Now()
	tok, err := cc.Token(ctx)
	elapsed := time.Since(started)
	if err != nil {
		authErr := toAuthTokenError(err)
		c.observer.ObserveTokenFetch(elapsed, authErr)
		c.log.ErrorContext(ctx, "token request failed",
			slog.String("error_code", authErr.ErrorCode),
			slog.String("error_description", authErr.Description),
			logger.StatusCode(authErr.StatusCode),
			slog.String("client_id", c.cfg.ClientID),
			slog.Bool("has_client_secret", c.cfg.ClientSecret != ""),
			slog.Int("secret_length", len(c.cfg.ClientSecret)),
			logger.Duration(elapsed),
		)
		return CachedToken{}, authErr
	}

	issuedAt := c.now()
	lifetime := expiresIn(tok, time.Now())
	out := CachedToken{
		Value:     tok.AccessToken,
		ExpiresAt: issuedAt.Add(lifetime - refreshSkew),
	}
	c.observer.ObserveTokenFetch(elapsed, nil)
	c.log.DebugContext(ctx, "token acquired",
		slog.Time("expires_at", out.ExpiresAt),
		logger.Duration(elapsed),
	)
	return out, nil
}

// expiresIn reads the provider's expires_in (seconds). Azure AD sends it as a
// number; some proxies stringify it. When absent the library-computed Expiry
// is used, and a token with no lifetime information is not cached.
func expiresIn(tok *oauth2.Token, wallNow time.Time) time.Duration {
	switch v := tok.Extra("expires_in").(type) {
	case float64:
		return time.Duration(v * float64(time.Second))
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return time.Duration(n) * time.Second
		}
	case string:
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return time.Duration(n) * time.Second
		}
	}
	if !tok.Expiry.IsZero() {
		return tok.Expiry.Sub(wallNow)
	}
	return 0
}

func toAuthTokenError(err error) *AuthTokenError {
	out := &AuthTokenError{Err: err}

	var re *oauth2.RetrieveError
	switch {
	case errors.As(err, &re):
		out.ErrorCode = re.ErrorCode
		out.Description = re.ErrorDescription
		if re.Response != nil {
			out.StatusCode = re.Response.StatusCode
		}
		if out.ErrorCode == "" {
			out.ErrorCode = "http_" + strconv.Itoa(out.StatusCode)
		}
	case strings.Contains(err.Error(), "missing access_token"):
		out.ErrorCode = "missing_access_token"
		out.Description = "token response did not contain access_token"
	case errors.Is(err, context.DeadlineExceeded):
		out.ErrorCode = "timeout"
		out.Description = "token endpoint did not respond in time"
	default:
		out.ErrorCode = "request_failed"
		out.Description = err.Error()
	}
	return out
}

// String keeps the token value out of fmt output and logs.
func (t CachedToken) String() string {
	return fmt.Sprintf("CachedToken{expires_at: %s}", t.ExpiresAt.Format(time.RFC3339))
}
