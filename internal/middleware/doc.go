// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

/*
Package middleware provides HTTP middleware components for the application.

This package implements infrastructure middleware for request ID tracking,
Prometheus metrics instrumentation, and gzip compression. Cross-cutting
concerns handled at the router level (CORS, rate limiting, panic recovery)
live in the chi middleware stack assembled by internal/api.

Middleware Stack:

The typical stack for an endpoint is:

	middleware.PrometheusMetrics( // Layer 1: Metrics
	    middleware.Compression(    // Layer 2: Gzip
	        middleware.RequestID(  // Layer 3: Request tracking
	            handler,           // Layer 4: Business logic
	        ),
	    ),
	)

Request IDs propagate through the request context and integrate with the
logging package so that every log line emitted while serving a request
carries its request_id and correlation_id.

WebSocket upgrade requests bypass compression since the hijacked connection
manages its own framing.
*/
package middleware
