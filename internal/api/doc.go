// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

/*
Package api provides HTTP routing and handlers for the leaderboard service.

Routes are served by a Chi router with request ID, real IP, panic recovery,
CORS (go-chi/cors), rate limiting (go-chi/httprate), and Prometheus
instrumentation applied as middleware. Every endpoint responds with the
standard envelope:

	{
	  "status": "success" | "error",
	  "data": ...,
	  "metadata": {"timestamp": "...", "query_time_ms": 3},
	  "error": {"code": "...", "message": "...", "retryable": false}
	}

Handler methods are split across files:
  - handlers.go: Handler struct, constructor, WebSocket upgrade
  - handlers_runs.go: run submission, deletion, leaderboard, run tree
  - handlers_history.go: snapshot creation and listing
  - handlers_admin.go: competition reset
  - handlers_health.go: liveness and readiness probes
  - handlers_helpers.go: shared response helpers
  - errors.go: domain error to HTTP status mapping
*/
package api
