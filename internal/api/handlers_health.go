// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package api

import (
	"net/http"
	"time"

	badger "github.com/dgraph-io/badger/v4"

	"github.com/j00les/speednadrenaline-BE/internal/models"
)

// storeHealthy reports whether the durable store accepts transactions.
func (h *Handler) storeHealthy() bool {
	if h.store == nil {
		return false
	}
	return h.store.View(func(txn *badger.Txn) error { return nil }) == nil
}

// Health handles GET /api/v1/health.
// Reports overall status, store connectivity, connected WebSocket clients,
// and uptime.
func (h *Handler) Health(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	storeConnected := h.storeHealthy()

	status := "healthy"
	if !storeConnected {
		status = "degraded"
	}

	clients := 0
	if h.wsHub != nil {
		clients = h.wsHub.GetClientCount()
	}

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"status":            status,
		"store_connected":   storeConnected,
		"websocket_clients": clients,
		"uptime":            time.Since(h.startTime).Seconds(),
	}, start)
}

// HealthLive handles GET /api/v1/health/live (Kubernetes-style liveness).
// Returns 200 OK if the process is alive, regardless of dependencies.
func (h *Handler) HealthLive(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"alive":  true,
		"uptime": time.Since(h.startTime).Seconds(),
	}, start)
}

// HealthReady handles GET /api/v1/health/ready (Kubernetes-style readiness).
// Returns 200 OK only when the store accepts transactions, 503 otherwise.
func (h *Handler) HealthReady(w http.ResponseWriter, r *http.Request) {
	ready := h.storeHealthy()

	statusCode := http.StatusOK
	status := "ready"
	if !ready {
		statusCode = http.StatusServiceUnavailable
		status = "not_ready"
	}

	respondJSON(w, statusCode, &models.APIResponse{
		Status: status,
		Data: map[string]interface{}{
			"ready_to_serve":  ready,
			"store_connected": ready,
			"uptime":          time.Since(h.startTime).Seconds(),
		},
		Metadata: models.Metadata{
			Timestamp: time.Now(),
		},
	})
}
