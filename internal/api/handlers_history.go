// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package api

import (
	"net/http"
	"time"

	"github.com/j00les/speednadrenaline-BE/internal/metrics"
	"github.com/j00les/speednadrenaline-BE/internal/models"
)

// SnapshotLeaderboard handles POST /api/v1/history/leaderboard.
// Archives the current ranked leaderboard as an immutable snapshot.
func (h *Handler) SnapshotLeaderboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, err := h.archiver.SnapshotLeaderboard()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	metrics.RecordSnapshot(string(snap.Kind))

	respondSuccess(w, http.StatusCreated, snap, start)
}

// SnapshotRuns handles POST /api/v1/history/runs.
// Archives the grouped run tree as an immutable snapshot.
func (h *Handler) SnapshotRuns(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	snap, err := h.archiver.SnapshotRuns()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	metrics.RecordSnapshot(string(snap.Kind))

	respondSuccess(w, http.StatusCreated, snap, start)
}

// History handles GET /api/v1/history.
// Returns snapshots newest-first. The optional ?kind= query restricts the
// result to "leaderboard" or "runs" snapshots.
func (h *Handler) History(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	kind := r.URL.Query().Get("kind")
	if kind != "" && kind != string(models.SnapshotKindLeaderboard) && kind != string(models.SnapshotKindRuns) {
		respondError(w, http.StatusBadRequest, "VALIDATION_ERROR", "kind must be \"leaderboard\" or \"runs\"", false, nil)
		return
	}

	snapshots, err := h.archiver.List()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	if kind != "" {
		filtered := make([]models.HistorySnapshot, 0, len(snapshots))
		for _, snap := range snapshots {
			if snap.Kind == models.SnapshotKind(kind) {
				filtered = append(filtered, snap)
			}
		}
		snapshots = filtered
	}

	respondSuccess(w, http.StatusOK, snapshots, start)
}
