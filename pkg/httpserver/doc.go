// Package httpserver runs an http.Handler with graceful shutdown and provides
// liveness and readiness handlers.
//
//	srv := httpserver.New(
//		httpserver.WithAddr(":8080"),
//		httpserver.WithLogger(log),
//		httpserver.WithStopHook(func(ctx context.Context) error { return sync.Stop(ctx) }),
//	)
//	if err := srv.Run(ctx, router); err != nil {
//		log.Error("server failed", logger.Error(err))
//	}
//
// Run blocks until ctx is cancelled or the listener fails. Cancelling ctx
// drains in-flight requests for at most the shutdown timeout and then runs the
// stop hooks in registration order. Signal handling is left to the caller,
// typically through signal.NotifyContext.
package httpserver
