// Package api hosts the HTTP server, middleware, and JSON handlers of the
// profile proxy. Routes:
//   - GET / for a self-describing API document.
//   - GET /api/health for liveness checks; never touches the upstream.
//   - GET /api/ig-profile.php?username=X and GET /api/profile/{username} for lookups.
//   - GET /metrics for Prometheus scraping when enabled.
//
// Lookups map profile.ErrNotFound to 404 and profile.FailureError to 500 with
// the failure reason as the error message.
package api
