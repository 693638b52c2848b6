// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package api

import (
	"errors"
	"net/http"

	"github.com/j00les/speednadrenaline-BE/internal/history"
	"github.com/j00les/speednadrenaline-BE/internal/laptime"
	"github.com/j00les/speednadrenaline-BE/internal/store"
)

// respondDomainError maps domain sentinel errors to their HTTP status and
// API error code. Anything unrecognized is a store failure and reported as
// retryable.
func respondDomainError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, laptime.ErrInvalidTimeFormat):
		respondError(w, http.StatusBadRequest, "INVALID_TIME_FORMAT", "Lap time must be MMSSmmm or MM:SS.mmm", false, err)
	case errors.Is(err, store.ErrRunNotFound):
		respondError(w, http.StatusNotFound, "RUN_NOT_FOUND", "No run matches the given driver, car, and time", false, err)
	case errors.Is(err, history.ErrNoDataToSnapshot):
		respondError(w, http.StatusNotFound, "NO_DATA_TO_SNAPSHOT", "Nothing to snapshot", false, err)
	default:
		respondError(w, http.StatusServiceUnavailable, "STORE_UNAVAILABLE", "Durable store unavailable, retry later", true, err)
	}
}
