// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package store

import (
	"fmt"

	"github.com/dgraph-io/badger/v4"
	"github.com/goccy/go-json"

	"github.com/j00les/speednadrenaline-BE/internal/models"
)

// AppendSnapshot stores an immutable history snapshot. Snapshots are
// never updated or deleted, only appended.
func (s *Store) AppendSnapshot(snap models.HistorySnapshot) error {
	data, err := json.Marshal(snap)
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}

	return s.db.Update(func(txn *badger.Txn) error {
		if err := txn.Set(historyKey(snap.Timestamp, snap.ID), data); err != nil {
			return fmt.Errorf("set snapshot: %w", err)
		}
		return nil
	})
}

// SnapshotsNewestFirst returns all history snapshots, newest first.
// The inverted-timestamp key layout makes this a single forward scan.
func (s *Store) SnapshotsNewestFirst() ([]models.HistorySnapshot, error) {
	var snaps []models.HistorySnapshot

	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = true
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(historyKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			var snap models.HistorySnapshot
			err := it.Item().Value(func(val []byte) error {
				return json.Unmarshal(val, &snap)
			})
			if err != nil {
				return fmt.Errorf("unmarshal snapshot: %w", err)
			}
			snaps = append(snaps, snap)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	return snaps, nil
}
