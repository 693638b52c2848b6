// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package api

import (
	"net/http"
	"time"

	"github.com/j00les/speednadrenaline-BE/internal/logging"
	"github.com/j00les/speednadrenaline-BE/internal/metrics"
)

// SubmitRun handles POST /api/v1/runs.
// Records a lap for a (driver, car) pair and returns the run, whether it set
// a new personal best, and the updated ranked leaderboard.
func (h *Handler) SubmitRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req SubmitRunRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	result, err := h.engine.SubmitRun(r.Context(), req.DriverName, req.CarName, req.Drivetrain, req.LapTime)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	metrics.RecordRunSubmitted(result.PersonalBest)

	logging.CtxInfo(r.Context()).
		Str("driver", sanitizeLogValue(req.DriverName)).
		Str("car", sanitizeLogValue(req.CarName)).
		Int("run_number", result.Run.RunNumber).
		Bool("personal_best", result.PersonalBest).
		Msg("Run submitted")

	respondSuccess(w, http.StatusCreated, result, start)
}

// Leaderboard handles GET /api/v1/leaderboard.
// The ranked view is computed fresh from the store on every request.
func (h *Handler) Leaderboard(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	leaderboard, err := h.engine.RankedView()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, leaderboard, start)
}

// DeleteRun handles DELETE /api/v1/runs.
// Removes every run of the pair matching the given time, recomputes the
// pair's best, and returns the updated ranked leaderboard.
func (h *Handler) DeleteRun(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	var req DeleteRunRequest
	if !decodeAndValidate(w, r, &req) {
		return
	}

	leaderboard, err := h.engine.DeleteRun(r.Context(), req.DriverName, req.CarName, req.Time)
	if err != nil {
		respondDomainError(w, err)
		return
	}

	metrics.RecordRunDeleted()

	logging.CtxInfo(r.Context()).
		Str("driver", sanitizeLogValue(req.DriverName)).
		Str("car", sanitizeLogValue(req.CarName)).
		Msg("Run deleted")

	respondSuccess(w, http.StatusOK, leaderboard, start)
}

// Runs handles GET /api/v1/runs.
// Returns the full run history grouped driver, then car, with runs in
// submission order and display-formatted times.
func (h *Handler) Runs(w http.ResponseWriter, r *http.Request) {
	start := time.Now()

	grouped, err := h.engine.GroupedRuns()
	if err != nil {
		respondDomainError(w, err)
		return
	}

	respondSuccess(w, http.StatusOK, grouped, start)
}
