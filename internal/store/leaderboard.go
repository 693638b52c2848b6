// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package store

import (
	"errors"
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/j00les/speednadrenaline-BE/internal/models"
)

// LeaderboardEntry returns the personal-best entry for a pair. The
// second return value is false when the pair has never set a time.
func (s *Store) LeaderboardEntry(txn *badger.Txn, driver, car string) (models.LeaderboardEntry, bool, error) {
	var entry models.LeaderboardEntry

	item, err := txn.Get(leaderboardKey(driver, car))
	if errors.Is(err, badger.ErrKeyNotFound) {
		return models.LeaderboardEntry{}, false, nil
	}
	if err != nil {
		return models.LeaderboardEntry{}, false, fmt.Errorf("get leaderboard entry: %w", err)
	}

	err = item.Value(func(val []byte) error {
		return json.Unmarshal(val, &entry)
	})
	if err != nil {
		return models.LeaderboardEntry{}, false, fmt.Errorf("unmarshal leaderboard entry: %w", err)
	}

	return entry, true, nil
}

// UpsertLeaderboardEntry writes the personal-best entry for a pair.
func (s *Store) UpsertLeaderboardEntry(txn *badger.Txn, entry models.LeaderboardEntry) error {
	data, err := json.Marshal(entry)
	if err != nil {
		return fmt.Errorf("marshal leaderboard entry: %w", err)
	}
	if err := txn.Set(leaderboardKey(entry.DriverName, entry.CarName), data); err != nil {
		return fmt.Errorf("set leaderboard entry: %w", err)
	}
	return nil
}

// DeleteLeaderboardEntry removes the personal-best entry for a pair.
// Deleting an absent entry is not an error.
func (s *Store) DeleteLeaderboardEntry(txn *badger.Txn, driver, car string) error {
	err := txn.Delete(leaderboardKey(driver, car))
	if err != nil && !errors.Is(err, badger.ErrKeyNotFound) {
		return fmt.Errorf("delete leaderboard entry: %w", err)
	}
	return nil
}

// AllLeaderboardEntries returns every personal-best entry in key order.
// Ranking by time is the caller's concern.
func (s *Store) AllLeaderboardEntries() ([]models.LeaderboardEntry, error) {
	var entries []models.LeaderboardEntry

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(leaderboardKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var entry models.LeaderboardEntry
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &entry)
			})
			if err != nil {
				return fmt.Errorf("unmarshal leaderboard entry: %w", err)
			}
			entries = append(entries, entry)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return entries, nil
}
