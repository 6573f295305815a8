// Package graph talks to Microsoft Graph on behalf of a single app
// registration.
//
// TokenCache obtains app-only bearer tokens with the OAuth2 client-credentials
// grant (golang.org/x/oauth2/clientcredentials) against
// https://login.microsoftonline.com/{tenant}/oauth2/v2.0/token and keeps the
// latest one in memory. A cached token is served until 60 seconds before the
// provider-side expiry. Concurrent misses share a single token request. Failed
// fetches are never cached and never retried; they surface as *AuthTokenError.
//
//	tokens, err := graph.NewTokenCache(cfg, graph.WithLogger(log))
//	if err != nil {
//		return err // ErrMisconfigured
//	}
//	mail := graph.NewMailClient(tokens, "bookings@example.com")
//	res, err := mail.SendMail(ctx, graph.Message{...})
//
// The clock and HTTP client are injectable for tests.
package graph
