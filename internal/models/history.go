// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package models

import "time"

// SnapshotKind identifies what a history snapshot captured.
type SnapshotKind string

const (
	// SnapshotKindLeaderboard is a ranked leaderboard snapshot with
	// formatted times and gaps.
	SnapshotKindLeaderboard SnapshotKind = "leaderboard"

	// SnapshotKindRuns is a grouped run-tree snapshot (driver → car →
	// ordered runs).
	SnapshotKindRuns SnapshotKind = "runs"
)

// HistorySnapshot is an immutable, timestamped copy of either the ranked
// leaderboard or the grouped run set. Snapshots are append-only and listed
// newest-first; they survive the administrative clear-all.
//
// Exactly one of Leaderboard or RunsByDriver is populated, according to Kind.
type HistorySnapshot struct {
	ID           string         `json:"id"`
	Kind         SnapshotKind   `json:"kind"`
	Timestamp    time.Time      `json:"timestamp"`
	Leaderboard  []RankedEntry  `json:"leaderboard,omitempty"`
	RunsByDriver []DriverRecord `json:"runsByDriver,omitempty"`
}
