// Package httpserver runs the bridge's http.Handler with graceful shutdown.
//
// Run blocks until the supplied context is cancelled, SIGINT/SIGTERM arrives or
// the listener fails, then drains in-flight requests within the configured
// shutdown timeout. Upstream calls to Microsoft Graph and Cal.com can take
// several seconds, so the write timeout default leaves room for them.
//
// Health probes live here too: LivenessHandler always answers 200, while
// ReadinessHandler runs named checks and answers 503 listing the ones that
// failed.
//
//	srv := httpserver.NewFromConfig(cfg.HTTP, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server stopped", logger.Error(err))
//	}
package httpserver
