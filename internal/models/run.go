// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package models defines the domain types shared across the leaderboard
// service: runs, leaderboard entries, ranked views, history snapshots and the
// API response envelope.
package models

import "time"

// Drivetrain values recorded with a run. Free-form strings are accepted at
// the boundary and defaulted to DrivetrainUnknown when absent.
const (
	DrivetrainFWD     = "FWD"
	DrivetrainRWD     = "RWD"
	DrivetrainAWD     = "AWD"
	DrivetrainUnknown = "Unknown"
)

// Run is a single timed attempt by a driver in a car. Runs are immutable
// once recorded; they are only ever removed through the administrative
// delete and clear-all paths.
//
// RunNumber is assigned by the run store, strictly increasing from 1 within
// each (driver, car) pair. Time is the canonical raw 7-digit MMSSmmm
// encoding, which sorts lexicographically in magnitude order.
type Run struct {
	DriverName string    `json:"driverName"`
	CarName    string    `json:"carName"`
	Drivetrain string    `json:"drivetrain"`
	RunNumber  int       `json:"runNumber"`
	Time       string    `json:"time"`
	RecordedAt time.Time `json:"recordedAt"`
}

// LeaderboardEntry is the best known run per (driver, car) pair. Exactly one
// entry exists per pair that has at least one run; it is replaced only when
// a strictly faster time arrives.
//
// Gap-to-first is deliberately absent here: it is derived from the full
// entry set at read time and any persisted copy would go stale on the next
// submission.
type LeaderboardEntry struct {
	DriverName string    `json:"driverName"`
	CarName    string    `json:"carName"`
	Drivetrain string    `json:"drivetrain"`
	Time       string    `json:"time"`
	SetAt      time.Time `json:"setAt"`
}

// Key returns the (driver, car) identity of the entry.
func (e LeaderboardEntry) Key() (driver, car string) {
	return e.DriverName, e.CarName
}

// RankedEntry is one row of the computed leaderboard view: the stored entry
// plus its derived gap to the overall leader, in both machine (raw/millis)
// and display (formatted) forms.
type RankedEntry struct {
	Name          string `json:"name"`
	CarName       string `json:"carName"`
	Drivetrain    string `json:"drivetrain"`
	Time          string `json:"time"`
	GapMillis     int64  `json:"gapMillis"`
	FormattedTime string `json:"formattedTime"`
	GapToFirst    string `json:"gapToFirst"`
}

// RunRecord is a single run inside the grouped run tree.
type RunRecord struct {
	RunNumber int    `json:"runNumber"`
	Time      string `json:"time"`
}

// CarRecord groups one driver's runs in one car, ordered by run number.
type CarRecord struct {
	CarName    string      `json:"carName"`
	Drivetrain string      `json:"drivetrain"`
	Runs       []RunRecord `json:"runs"`
}

// DriverRecord groups all of a driver's cars. The full run tree is a list of
// DriverRecord sorted by driver name, with cars sorted by car name and runs
// ordered by run number.
type DriverRecord struct {
	Name string      `json:"name"`
	Cars []CarRecord `json:"cars"`
}
