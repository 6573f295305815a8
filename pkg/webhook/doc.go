// Package webhook authenticates inbound tool-call webhooks from the voice
// agent platform.
//
// The sender signs the raw request body with HMAC-SHA256 under a shared
// secret and puts the lowercase hex digest in one of the headers listed in
// SignatureHeaders. VerifySignature checks one signature; Authorize applies
// the full decision (misconfigured server, missing signature, invalid
// signature, authorized) to a request's headers and body; Middleware wraps an
// http.Handler with it and restores the body for downstream binders.
//
//	r.With(webhook.Middleware(cfg.Secret, webhook.WithLogger(log))).
//		Post("/api/email", emailHandler)
//
// Rejections answer 401 with the bare body "Unauthorized" and never say which
// part mismatched. A missing secret is an operator error and answers 500.
package webhook
