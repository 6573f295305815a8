// Package requestid attaches a correlation id to every HTTP request.
//
// Middleware reuses a well-formed X-Request-ID supplied by the caller (voice
// agent platforms forward their own) or generates a UUIDv4, stores it in the
// request context and echoes it in the response header. LoggerExtractor plugs
// the id into pkg/logger so every log line of a request carries it:
//
//	log := logger.New(logger.WithContextExtractors(requestid.LoggerExtractor()))
//	r := chi.NewRouter()
//	r.Use(requestid.Middleware)
package requestid
