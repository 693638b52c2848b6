// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package history captures immutable, timestamped snapshots of the
// leaderboard and the grouped run tree. Snapshots are append-only and
// survive the administrative clear-all, so past event results stay
// browsable after a reset.
package history

import (
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/j00les/speednadrenaline-BE/internal/logging"
	"github.com/j00les/speednadrenaline-BE/internal/models"
	"github.com/j00les/speednadrenaline-BE/internal/ranking"
	"github.com/j00les/speednadrenaline-BE/internal/store"
)

// ErrNoDataToSnapshot is returned when a snapshot is requested while the
// corresponding live data set is empty.
var ErrNoDataToSnapshot = errors.New("no data to snapshot")

// Archiver materializes snapshots from the live engine views and appends
// them to the history store.
type Archiver struct {
	store  *store.Store
	engine *ranking.Engine
	now    func() time.Time
	newID  func() string
}

// NewArchiver creates an archiver over the given store and engine.
func NewArchiver(s *store.Store, e *ranking.Engine) *Archiver {
	return &Archiver{
		store:  s,
		engine: e,
		now:    time.Now,
		newID:  uuid.NewString,
	}
}

// SnapshotLeaderboard captures the current ranked leaderboard. Returns
// ErrNoDataToSnapshot when the board is empty.
func (a *Archiver) SnapshotLeaderboard() (models.HistorySnapshot, error) {
	leaderboard, err := a.engine.RankedView()
	if err != nil {
		return models.HistorySnapshot{}, fmt.Errorf("snapshot leaderboard: %w", err)
	}
	if len(leaderboard) == 0 {
		return models.HistorySnapshot{}, ErrNoDataToSnapshot
	}

	snap := models.HistorySnapshot{
		ID:          a.newID(),
		Kind:        models.SnapshotKindLeaderboard,
		Timestamp:   a.now().UTC(),
		Leaderboard: leaderboard,
	}
	if err := a.store.AppendSnapshot(snap); err != nil {
		return models.HistorySnapshot{}, fmt.Errorf("snapshot leaderboard: %w", err)
	}

	lg := logging.Logger()

	lg.Info().
		Str("snapshot_id", snap.ID).
		Int("entries", len(leaderboard)).
		Msg("Leaderboard snapshot saved")

	return snap, nil
}

// SnapshotRuns captures the full grouped run tree. Returns
// ErrNoDataToSnapshot when no runs exist.
func (a *Archiver) SnapshotRuns() (models.HistorySnapshot, error) {
	grouped, err := a.engine.GroupedRuns()
	if err != nil {
		return models.HistorySnapshot{}, fmt.Errorf("snapshot runs: %w", err)
	}
	if len(grouped) == 0 {
		return models.HistorySnapshot{}, ErrNoDataToSnapshot
	}

	snap := models.HistorySnapshot{
		ID:           a.newID(),
		Kind:         models.SnapshotKindRuns,
		Timestamp:    a.now().UTC(),
		RunsByDriver: grouped,
	}
	if err := a.store.AppendSnapshot(snap); err != nil {
		return models.HistorySnapshot{}, fmt.Errorf("snapshot runs: %w", err)
	}

	lg := logging.Logger()

	lg.Info().
		Str("snapshot_id", snap.ID).
		Int("drivers", len(grouped)).
		Msg("Run history snapshot saved")

	return snap, nil
}

// List returns all snapshots, newest first.
func (a *Archiver) List() ([]models.HistorySnapshot, error) {
	snaps, err := a.store.SnapshotsNewestFirst()
	if err != nil {
		return nil, fmt.Errorf("list snapshots: %w", err)
	}
	return snaps, nil
}
