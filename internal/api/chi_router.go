// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package api

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/j00les/speednadrenaline-BE/internal/middleware"
)

// Router assembles the HTTP handler tree.
type Router struct {
	handler       *Handler
	chiMiddleware *ChiMiddleware
}

// NewRouter creates a Router from a handler and middleware factory.
func NewRouter(handler *Handler, chiMW *ChiMiddleware) *Router {
	if chiMW == nil {
		chiMW = NewChiMiddleware(nil)
	}
	return &Router{
		handler:       handler,
		chiMiddleware: chiMW,
	}
}

// chiAdapter adapts http.HandlerFunc middleware to Chi's
// func(http.Handler) http.Handler so it can be used with r.Use().
func chiAdapter(mw func(http.HandlerFunc) http.HandlerFunc) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return mw(next.ServeHTTP)
	}
}

// SetupChi configures all HTTP routes using the Chi router.
func (router *Router) SetupChi() http.Handler {
	r := chi.NewRouter()

	// Global middleware, applied to all routes in order
	r.Use(RequestIDWithLogging())
	r.Use(chimiddleware.RealIP)
	r.Use(chimiddleware.Recoverer)
	r.Use(router.chiMiddleware.CORS()) // global so OPTIONS preflight works

	// Health endpoints with permissive rate limiting for monitoring tools
	r.Route("/api/v1/health", func(r chi.Router) {
		r.Use(router.chiMiddleware.RateLimitHealth())
		r.Use(APISecurityHeaders())
		r.Get("/live", router.handler.HealthLive)
		r.Get("/ready", router.handler.HealthReady)
		r.Get("/", router.handler.Health)
	})

	// Core leaderboard endpoints
	r.Route("/api/v1", func(r chi.Router) {
		r.Use(APISecurityHeaders())
		r.Use(chiAdapter(middleware.PrometheusMetrics))

		// Reads use the default limit, writes the stricter one
		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimit())
			r.Use(chiAdapter(middleware.Compression))

			r.Get("/leaderboard", router.handler.Leaderboard)
			r.Get("/runs", router.handler.Runs)
			r.Get("/history", router.handler.History)
		})

		r.Group(func(r chi.Router) {
			r.Use(router.chiMiddleware.RateLimitWrite())

			r.Post("/runs", router.handler.SubmitRun)
			r.Delete("/runs", router.handler.DeleteRun)
			r.Post("/history/leaderboard", router.handler.SnapshotLeaderboard)
			r.Post("/history/runs", router.handler.SnapshotRuns)
			r.Post("/admin/clear", router.handler.ClearAll)
		})
	})

	// WebSocket upgrade, rate limited per IP. Kept outside the metrics and
	// compression middleware so the hijacked connection is untouched.
	r.With(router.chiMiddleware.RateLimitWebSocket()).Get("/api/v1/ws", router.handler.WebSocket)

	// Observability
	r.Handle("/metrics", promhttp.Handler())

	return r
}
