// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package metrics exposes Prometheus instrumentation for run submissions,
// leaderboard activity, snapshots, WebSocket fan-out and HTTP traffic.
package metrics

import (
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

var (
	// Run lifecycle
	RunsSubmitted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runs_submitted_total",
			Help: "Total number of runs submitted",
		},
	)

	RunsDeleted = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "runs_deleted_total",
			Help: "Total number of runs deleted",
		},
	)

	PersonalBests = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "personal_bests_total",
			Help: "Total number of personal-best replacements on the leaderboard",
		},
	)

	// History snapshots
	SnapshotsSaved = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "history_snapshots_total",
			Help: "Total number of history snapshots saved",
		},
		[]string{"kind"}, // "leaderboard" or "runs"
	)

	// WebSocket fan-out
	WSConnectedClients = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "websocket_connected_clients",
			Help: "Current number of connected WebSocket clients",
		},
	)

	WSBroadcastsDropped = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "websocket_broadcasts_dropped_total",
			Help: "Total number of broadcasts dropped because a client or the hub queue was full",
		},
	)

	// API Endpoint Metrics
	APIRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "api_requests_total",
			Help: "Total number of API requests",
		},
		[]string{"method", "endpoint", "status_code"},
	)

	APIRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "api_request_duration_seconds",
			Help:    "API request duration in seconds",
			Buckets: []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		},
		[]string{"method", "endpoint"},
	)

	APIActiveRequests = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "api_active_requests",
			Help: "Current number of active API requests",
		},
	)
)

// RecordRunSubmitted increments the submission counters.
func RecordRunSubmitted(personalBest bool) {
	RunsSubmitted.Inc()
	if personalBest {
		PersonalBests.Inc()
	}
}

// RecordRunDeleted increments the deletion counter.
func RecordRunDeleted() {
	RunsDeleted.Inc()
}

// RecordSnapshot increments the snapshot counter for a kind.
func RecordSnapshot(kind string) {
	SnapshotsSaved.WithLabelValues(kind).Inc()
}

// SetWebSocketClients updates the connected client gauge.
func SetWebSocketClients(count int) {
	WSConnectedClients.Set(float64(count))
}

// RecordBroadcastDropped increments the dropped broadcast counter.
func RecordBroadcastDropped() {
	WSBroadcastsDropped.Inc()
}

// RecordAPIRequest records one completed HTTP request.
func RecordAPIRequest(method, endpoint string, statusCode int, duration time.Duration) {
	APIRequestsTotal.WithLabelValues(method, endpoint, strconv.Itoa(statusCode)).Inc()
	APIRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// TrackActiveRequest adjusts the in-flight request gauge.
func TrackActiveRequest(inc bool) {
	if inc {
		APIActiveRequests.Inc()
	} else {
		APIActiveRequests.Dec()
	}
}
