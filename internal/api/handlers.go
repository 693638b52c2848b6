// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package api

import (
	"net/http"
	"time"

	"github.com/gorilla/websocket"

	"github.com/j00les/speednadrenaline-BE/internal/config"
	"github.com/j00les/speednadrenaline-BE/internal/history"
	"github.com/j00les/speednadrenaline-BE/internal/logging"
	"github.com/j00les/speednadrenaline-BE/internal/ranking"
	"github.com/j00les/speednadrenaline-BE/internal/store"
	ws "github.com/j00les/speednadrenaline-BE/internal/websocket"
)

// Handler contains dependencies for API handlers
type Handler struct {
	engine    *ranking.Engine
	archiver  *history.Archiver
	store     *store.Store
	config    *config.Config
	wsHub     *ws.Hub
	startTime time.Time
}

// NewHandler creates a new API handler with all required dependencies.
//
// Dependencies:
//   - engine: ranking engine for run submission, deletion, and ranked views
//   - archiver: snapshot archiver for the history endpoints
//   - st: durable store, used only for readiness checks
//   - cfg: application configuration
//   - wsHub: WebSocket hub for real-time broadcasts
//
// Example:
//
//	handler := api.NewHandler(engine, archiver, st, cfg, wsHub)
//	router := api.NewRouter(handler, chiMW)
//	http.ListenAndServe(cfg.Server.ListenAddr(), router.SetupChi())
func NewHandler(engine *ranking.Engine, archiver *history.Archiver, st *store.Store, cfg *config.Config, wsHub *ws.Hub) *Handler {
	return &Handler{
		engine:    engine,
		archiver:  archiver,
		store:     st,
		config:    cfg,
		wsHub:     wsHub,
		startTime: time.Now(),
	}
}

// getUpgrader returns the websocket upgrader with origin checking configured
func (h *Handler) getUpgrader() websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:   1024,
		WriteBufferSize:  1024,
		CheckOrigin:      h.checkWebSocketOrigin,
		HandshakeTimeout: 10 * time.Second,
	}
}

// checkWebSocketOrigin validates WebSocket connection origins
func (h *Handler) checkWebSocketOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")

	// Browser WebSockets always include Origin; an empty one means a
	// non-browser client that bypasses CORS, so reject it.
	if origin == "" {
		logging.Warn().Msg("WebSocket connection rejected: missing Origin header")
		return false
	}

	// Nil config allows all origins (tests, development)
	if h.config == nil {
		return true
	}

	for _, allowedOrigin := range h.config.Security.CORSOrigins {
		if allowedOrigin == "*" || allowedOrigin == origin {
			return true
		}
	}

	logging.Warn().Str("origin", sanitizeLogValue(origin)).Msg("WebSocket connection rejected from unauthorized origin")
	return false
}

// WebSocket upgrades the connection and registers the client with the hub.
// Clients receive leaderboard events from the moment of registration; there
// is no replay of earlier events.
func (h *Handler) WebSocket(w http.ResponseWriter, r *http.Request) {
	if h.wsHub == nil {
		logging.Warn().Msg("WebSocket connection rejected: hub not initialized")
		respondError(w, http.StatusServiceUnavailable, "SERVICE_UNAVAILABLE", "WebSocket service unavailable", false, nil)
		return
	}

	upgrader := h.getUpgrader()
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		logging.Error().Err(err).Msg("WebSocket upgrade error")
		return
	}

	client := ws.NewClient(h.wsHub, conn)
	h.wsHub.Register <- client
	client.Start()
}
