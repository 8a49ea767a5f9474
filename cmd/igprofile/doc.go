// Package main hosts the profile proxy entrypoint.
//
// Architecture overview:
//   - HTTP API: internal/api.Server exposes the index document, a health check, the two lookup routes and
//     Prometheus metrics. Usernames are trimmed and stripped of leading @ before any upstream call.
//   - Fetch pipeline: internal/profile.Service asks the structured endpoint first. A 404 is final; any other
//     non-200 status, or a 200 without a user object, falls back to scraping the public profile page for its
//     JSON-LD Person block. Transport errors are final and never fall back.
//   - Transport: the Colly-based fetcher clones a base collector per call, so no mutable state is shared across
//     requests. Each call is bounded by http.timeout_seconds and nothing is retried.
//   - Configuration & plumbing: Viper populates config from env/files; zap provides structured logging with a
//     request ID on every line; Prometheus counters track lookups per strategy and outcome.
//
// Quick checklist:
//   - Configure env vars: IGPROFILE_SERVER_PORT or PORT, IGPROFILE_HTTP_TIMEOUT_SECONDS,
//     IGPROFILE_UPSTREAM_USER_AGENT, IGPROFILE_CORS_ALLOWED_ORIGINS, IGPROFILE_LOGGING_DEVELOPMENT.
//   - Run locally: go run ./cmd/igprofile serve --config config.yaml (or rely solely on env overrides).
//   - One-off lookup: go run ./cmd/igprofile fetch @instagram
package main
