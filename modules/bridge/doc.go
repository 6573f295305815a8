// Package bridge is the HTTP surface voice agents call as tools.
//
// Service.Handle mounts:
//
//	POST /api/email, /webhook/outlook/send_email             send an email via the configured driver
//	POST /api/schedule, /webhook/cal/schedule_consultation   book a Cal.com consultation
//	GET|POST /api/current-time                               time lookup for a timezone
//	GET /, /health, /healthz, /readyz, /metrics              service info and probes
//	GET /api/debug-env, /api/test-azure-auth                 diagnostics, when enabled
//
// The email and schedule routes sit behind webhook signature verification
// unless WEBHOOK_AUTH_ENABLED=false. Every JSON reply uses the
// {"status","message","details"} envelope from the handler package, except
// the email success body which carries messageId at the top level.
package bridge
