// Package handlers contains reusable HTTP pieces: health checks and middleware.
//
// # Health Checks
//
// A CompositeHealthChecker runs every registered check in parallel with a
// per-check timeout:
//
//	checker := handlers.NewCompositeHealthChecker("v0.1.0", handlers.DefaultCheckTimeout)
//	checker.AddCheck("store", handlers.NewStoreCheck(repo))
//
//	status := checker.Check(ctx)
//	if !status.Ready {
//	    // answer 503 on /ready
//	}
//
// # Middleware
//
// Middleware functions share the func(http.Handler) http.Handler shape and
// compose with Chain:
//
//	h := handlers.ChainHandler(mux,
//	    handlers.SecurityHeadersMiddleware,
//	    handlers.RequestSizeLimitMiddleware(1<<20),
//	)
package handlers
