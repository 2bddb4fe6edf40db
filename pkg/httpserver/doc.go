// Package httpserver runs an http.Handler with graceful shutdown and exposes
// liveness and readiness handlers.
//
//	srv := httpserver.NewFromConfig(cfg, httpserver.WithLogger(log))
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// Run blocks until the context is cancelled or the process receives SIGINT or
// SIGTERM, then waits up to the shutdown timeout for in-flight requests.
package httpserver
