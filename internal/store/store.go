// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package store provides the BadgerDB-backed persistence layer for runs,
// leaderboard entries and history snapshots.
//
// All records are stored as JSON values under prefixed keys:
//
//	run:<driver>\x00<car>\x00<runNumber>   -> models.Run
//	runseq:<driver>\x00<car>               -> last issued run number
//	lb:<driver>\x00<car>                   -> models.LeaderboardEntry
//	history:<inverted-nanos>:<uuid>        -> models.HistorySnapshot
//
// Run numbers are zero-padded so lexicographic key order matches numeric
// order, and history keys invert the timestamp so iteration in key order
// yields snapshots newest first.
package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"

	"github.com/j00les/speednadrenaline-BE/internal/config"
	"github.com/j00les/speednadrenaline-BE/internal/logging"
)

// ErrRunNotFound is returned when no run matches the requested
// driver, car and time combination.
var ErrRunNotFound = errors.New("run not found")

// Store wraps a Badger database and exposes typed accessors for the
// run, leaderboard and history record families. Composable variants
// that take a *badger.Txn allow callers to group multiple operations
// into a single atomic transaction.
type Store struct {
	db *badger.DB
}

// Open opens (or creates) the Badger database described by cfg.
func Open(cfg config.DatabaseConfig) (*Store, error) {
	opts := badger.DefaultOptions(cfg.Path).
		WithInMemory(cfg.InMemory).
		WithLogger(badgerLogger{})
	if cfg.InMemory {
		opts = opts.WithDir("").WithValueDir("")
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open badger database: %w", err)
	}

	return &Store{db: db}, nil
}

// OpenInMemory opens a throwaway in-memory store, primarily for tests.
func OpenInMemory() (*Store, error) {
	return Open(config.DatabaseConfig{InMemory: true})
}

// Close flushes and closes the underlying database.
func (s *Store) Close() error {
	return s.db.Close()
}

// View runs fn in a read-only transaction.
func (s *Store) View(fn func(txn *badger.Txn) error) error {
	return s.db.View(fn)
}

// Update runs fn in a read-write transaction.
func (s *Store) Update(fn func(txn *badger.Txn) error) error {
	return s.db.Update(fn)
}

// ClearCompetitionData drops all runs, run counters and leaderboard
// entries. History snapshots are preserved so past results remain
// browsable after a reset.
func (s *Store) ClearCompetitionData() error {
	for _, prefix := range [][]byte{
		[]byte(runKeyPrefix),
		[]byte(runSeqKeyPrefix),
		[]byte(leaderboardKeyPrefix),
	} {
		if err := s.db.DropPrefix(prefix); err != nil {
			return fmt.Errorf("drop prefix %s: %w", prefix, err)
		}
	}
	return nil
}

// badgerLogger routes Badger's internal logging through zerolog.
// Badger is chatty at INFO during compaction, so its info output is
// demoted to debug.
type badgerLogger struct{}

func (badgerLogger) Errorf(format string, args ...interface{}) {
	lg := logging.Logger()
	lg.Error().Msgf("badger: "+format, args...)
}

func (badgerLogger) Warningf(format string, args ...interface{}) {
	lg := logging.Logger()
	lg.Warn().Msgf("badger: "+format, args...)
}

func (badgerLogger) Infof(format string, args ...interface{}) {
	lg := logging.Logger()
	lg.Debug().Msgf("badger: "+format, args...)
}

func (badgerLogger) Debugf(format string, args ...interface{}) {
	lg := logging.Logger()
	lg.Debug().Msgf("badger: "+format, args...)
}
