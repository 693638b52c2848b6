// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package api

import (
	"net/http"
	"time"

	"github.com/j00les/speednadrenaline-BE/internal/logging"
)

// ClearAll handles POST /api/v1/admin/clear.
// Wipes all runs and the leaderboard immediately; history snapshots survive.
// Connected WebSocket clients receive an empty leaderboard event.
func (h *Handler) ClearAll(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	if err := h.engine.ClearAll(r.Context()); err != nil {
		respondDomainError(w, err)
		return
	}

	logging.CtxInfo(r.Context()).Msg("Competition data cleared")

	respondSuccess(w, http.StatusOK, map[string]interface{}{
		"cleared": true,
	}, start)
}
