// Package clientip resolves the caller address of a request behind the usual
// edge proxies and carries it in the request context so log records can be
// tagged with it.
//
//	r.Use(clientip.Middleware)
//	log := logger.New(logger.WithContextExtractors(clientip.LoggerExtractor()))
package clientip
