// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package store

import (
	"errors"
	"fmt"
	"strconv"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/j00les/speednadrenaline-BE/internal/models"
)

// NextRunNumber increments and returns the run counter for a pair.
// The first run of a pair gets number 1. Must be called inside the
// same transaction that inserts the run so the counter never drifts
// from the stored runs.
func (s *Store) NextRunNumber(txn *badger.Txn, driver, car string) (int, error) {
	key := runSeqKey(driver, car)

	last := 0
	item, err := txn.Get(key)
	switch {
	case errors.Is(err, badger.ErrKeyNotFound):
		// First run for this pair
	case err != nil:
		return 0, fmt.Errorf("get run counter: %w", err)
	default:
		err = item.Value(func(val []byte) error {
			n, convErr := strconv.Atoi(string(val))
			if convErr != nil {
				return fmt.Errorf("corrupt run counter %q: %w", val, convErr)
			}
			last = n
			return nil
		})
		if err != nil {
			return 0, err
		}
	}

	next := last + 1
	if err := txn.Set(key, []byte(strconv.Itoa(next))); err != nil {
		return 0, fmt.Errorf("set run counter: %w", err)
	}
	return next, nil
}

// InsertRun stores a run under its pair-scoped key.
func (s *Store) InsertRun(txn *badger.Txn, run models.Run) error {
	data, err := json.Marshal(run)
	if err != nil {
		return fmt.Errorf("marshal run: %w", err)
	}
	if err := txn.Set(runKey(run.DriverName, run.CarName, run.RunNumber), data); err != nil {
		return fmt.Errorf("set run: %w", err)
	}
	return nil
}

// RunsForPair returns all runs of one (driver, car) pair in run-number order.
func (s *Store) RunsForPair(txn *badger.Txn, driver, car string) ([]models.Run, error) {
	var runs []models.Run

	opts := badger.DefaultIteratorOptions
	opts.PrefetchValues = true
	it := txn.NewIterator(opts)
	defer it.Close()

	prefix := runPairPrefix(driver, car)
	for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
		var run models.Run
		err := it.Item().Value(func(val []byte) error {
			return json.Unmarshal(val, &run)
		})
		if err != nil {
			return nil, fmt.Errorf("unmarshal run: %w", err)
		}
		runs = append(runs, run)
	}

	return runs, nil
}

// DeleteRunsByTime removes every run of the pair whose canonical time
// equals rawTime and returns how many were deleted.
func (s *Store) DeleteRunsByTime(txn *badger.Txn, driver, car, rawTime string) (int, error) {
	runs, err := s.RunsForPair(txn, driver, car)
	if err != nil {
		return 0, err
	}

	deleted := 0
	for _, run := range runs {
		if run.Time != rawTime {
			continue
		}
		if err := txn.Delete(runKey(driver, car, run.RunNumber)); err != nil {
			return deleted, fmt.Errorf("delete run %d: %w", run.RunNumber, err)
		}
		deleted++
	}

	return deleted, nil
}

// BestRunForPair returns the run with the lowest time for a pair.
// Ties keep the earliest run. The second return value is false when
// the pair has no runs left.
func (s *Store) BestRunForPair(txn *badger.Txn, driver, car string) (models.Run, bool, error) {
	runs, err := s.RunsForPair(txn, driver, car)
	if err != nil {
		return models.Run{}, false, err
	}
	if len(runs) == 0 {
		return models.Run{}, false, nil
	}

	best := runs[0]
	for _, run := range runs[1:] {
		// Canonical raw times compare correctly as strings
		if run.Time < best.Time {
			best = run
		}
	}
	return best, true, nil
}

// AllRuns returns every stored run. Key order groups runs by driver
// then car, with run numbers ascending within a pair.
func (s *Store) AllRuns() ([]models.Run, error) {
	var runs []models.Run

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(runKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var run models.Run
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &run)
			})
			if err != nil {
				return fmt.Errorf("unmarshal run: %w", err)
			}
			runs = append(runs, run)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return runs, nil
}
