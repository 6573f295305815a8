// Package logger builds the service's *slog.Logger.
//
// New assembles a JSON or text slog handler from functional options and wraps
// it in a decorator that pulls request-scoped attributes (such as the request
// id) out of context.Context on every record:
//
//	log := logger.New(
//		logger.WithEnvironment("production", "cre8tive-bridge"),
//		logger.WithContextExtractors(requestid.LoggerExtractor()),
//	)
//	log.InfoContext(ctx, "email sent", logger.Provider("graph"), logger.Duration(elapsed))
//
// Attribute helpers in attr.go keep key names consistent across packages.
// Credentials must never be passed to any of them; log presence flags instead.
package logger
