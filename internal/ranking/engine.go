// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

// Package ranking implements the leaderboard engine: run submission with
// personal-best tracking, the ranked leaderboard view with gaps to first,
// run deletion with personal-best recomputation, and the grouped run tree.
package ranking

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/dgraph-io/badger/v4"

	"github.com/j00les/speednadrenaline-BE/internal/laptime"
	"github.com/j00les/speednadrenaline-BE/internal/logging"
	"github.com/j00les/speednadrenaline-BE/internal/models"
	"github.com/j00les/speednadrenaline-BE/internal/store"
)

// Publisher receives leaderboard change events after a mutation commits.
// Implementations must not block for long; delivery is best effort.
type Publisher interface {
	PublishRunAdded(ctx context.Context, leaderboard []models.RankedEntry) error
	PublishRunDeleted(ctx context.Context, leaderboard []models.RankedEntry) error
}

// Engine coordinates run submissions and deletions against the store and
// publishes the refreshed leaderboard after each mutation.
//
// Mutations for the same (driver, car) pair are serialized through a keyed
// mutex so the run counter, run insert and personal-best upsert always
// commit as one consistent unit even under concurrent submissions.
type Engine struct {
	store *store.Store
	pub   Publisher
	locks *keyedMutex
	now   func() time.Time
}

// NewEngine creates an engine. pub may be nil, in which case leaderboard
// change events are not published.
func NewEngine(s *store.Store, pub Publisher) *Engine {
	return &Engine{
		store: s,
		pub:   pub,
		locks: newKeyedMutex(),
		now:   time.Now,
	}
}

// SubmitResult describes the outcome of a run submission.
type SubmitResult struct {
	Run          models.Run           `json:"run"`
	PersonalBest bool                 `json:"personalBest"`
	Leaderboard  []models.RankedEntry `json:"leaderboard"`
}

// SubmitRun records a new run. timeValue may be raw (MMSSmmm) or formatted
// (MM:SS.mmm); it is normalized to the canonical raw encoding before
// storage. The run receives the next run number for its pair, and the
// pair's leaderboard entry is replaced only when the new time is strictly
// faster than the incumbent. Ties keep the existing entry.
func (e *Engine) SubmitRun(ctx context.Context, driver, car, drivetrain, timeValue string) (SubmitResult, error) {
	raw, err := laptime.Normalize(timeValue)
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submit run: %w", err)
	}
	if drivetrain == "" {
		drivetrain = models.DrivetrainUnknown
	}

	unlock := e.locks.lock(driver, car)
	defer unlock()

	var run models.Run
	var personalBest bool
	err = e.store.Update(func(txn *badger.Txn) error {
		n, err := e.store.NextRunNumber(txn, driver, car)
		if err != nil {
			return err
		}

		run = models.Run{
			DriverName: driver,
			CarName:    car,
			Drivetrain: drivetrain,
			RunNumber:  n,
			Time:       raw,
			RecordedAt: e.now().UTC(),
		}
		if err := e.store.InsertRun(txn, run); err != nil {
			return err
		}

		entry, found, err := e.store.LeaderboardEntry(txn, driver, car)
		if err != nil {
			return err
		}
		if !found || raw < entry.Time {
			personalBest = true
			return e.store.UpsertLeaderboardEntry(txn, models.LeaderboardEntry{
				DriverName: driver,
				CarName:    car,
				Drivetrain: drivetrain,
				Time:       raw,
				SetAt:      run.RecordedAt,
			})
		}
		return nil
	})
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submit run: %w", err)
	}

	leaderboard, err := e.RankedView()
	if err != nil {
		return SubmitResult{}, fmt.Errorf("submit run: %w", err)
	}

	e.publishRunAdded(ctx, leaderboard)

	lg := logging.Logger()

	lg.Info().
		Str("driver", driver).
		Str("car", car).
		Int("run_number", run.RunNumber).
		Str("time", raw).
		Bool("personal_best", personalBest).
		Msg("Run recorded")

	return SubmitResult{Run: run, PersonalBest: personalBest, Leaderboard: leaderboard}, nil
}

// DeleteRun removes every run of the pair whose time matches timeValue
// (raw or formatted) and recomputes the pair's leaderboard entry from the
// remaining runs. When no runs remain the entry is removed entirely.
// Returns store.ErrRunNotFound when nothing matched.
func (e *Engine) DeleteRun(ctx context.Context, driver, car, timeValue string) ([]models.RankedEntry, error) {
	raw, err := laptime.Normalize(timeValue)
	if err != nil {
		return nil, fmt.Errorf("delete run: %w", err)
	}

	unlock := e.locks.lock(driver, car)
	defer unlock()

	err = e.store.Update(func(txn *badger.Txn) error {
		deleted, err := e.store.DeleteRunsByTime(txn, driver, car, raw)
		if err != nil {
			return err
		}
		if deleted == 0 {
			return store.ErrRunNotFound
		}

		best, found, err := e.store.BestRunForPair(txn, driver, car)
		if err != nil {
			return err
		}
		if !found {
			return e.store.DeleteLeaderboardEntry(txn, driver, car)
		}
		return e.store.UpsertLeaderboardEntry(txn, models.LeaderboardEntry{
			DriverName: driver,
			CarName:    car,
			Drivetrain: best.Drivetrain,
			Time:       best.Time,
			SetAt:      best.RecordedAt,
		})
	})
	if err != nil {
		return nil, fmt.Errorf("delete run: %w", err)
	}

	leaderboard, err := e.RankedView()
	if err != nil {
		return nil, fmt.Errorf("delete run: %w", err)
	}

	e.publishRunDeleted(ctx, leaderboard)

	lg := logging.Logger()

	lg.Info().
		Str("driver", driver).
		Str("car", car).
		Str("time", raw).
		Msg("Run deleted")

	return leaderboard, nil
}

// RankedView computes the current leaderboard: all personal-best entries
// sorted fastest first, each with its gap to the overall leader. The view
// is derived fresh on every call and never persisted.
func (e *Engine) RankedView() ([]models.RankedEntry, error) {
	entries, err := e.store.AllLeaderboardEntries()
	if err != nil {
		return nil, fmt.Errorf("ranked view: %w", err)
	}
	return Rank(entries), nil
}

// Rank sorts entries fastest first and derives per-row gaps to the leader.
// The sort is stable so equal times keep their store key order, which makes
// repeated reads of an unchanged board identical.
func Rank(entries []models.LeaderboardEntry) []models.RankedEntry {
	sorted := make([]models.LeaderboardEntry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].Time < sorted[j].Time
	})

	ranked := make([]models.RankedEntry, 0, len(sorted))
	var bestMillis int64
	haveBest := false
	for _, entry := range sorted {
		millis, err := laptime.ParseLapTime(entry.Time)
		if err != nil {
			// Stored times are normalized on the way in, so this is
			// a data corruption signal rather than a user error.
			lg := logging.Logger()
			lg.Error().
				Str("driver", entry.DriverName).
				Str("car", entry.CarName).
				Str("time", entry.Time).
				Err(err).
				Msg("Skipping leaderboard entry with unparseable time")
			continue
		}
		// The leader is the first entry that parses, not index 0: a
		// corrupt row at the front must not pin the baseline at zero.
		if !haveBest {
			bestMillis = millis
			haveBest = true
		}

		gap := millis - bestMillis
		if gap < 0 {
			gap = 0
		}
		ranked = append(ranked, models.RankedEntry{
			Name:          entry.DriverName,
			CarName:       entry.CarName,
			Drivetrain:    entry.Drivetrain,
			Time:          entry.Time,
			GapMillis:     gap,
			FormattedTime: laptime.FormatLapTime(millis),
			GapToFirst:    laptime.FormatGapToFirstPlace(gap),
		})
	}

	return ranked
}

// GroupedRuns returns the full run history grouped by driver then car,
// with drivers and cars sorted by name and runs in run-number order.
// Times are rendered in the MM:SS.mmm display format.
func (e *Engine) GroupedRuns() ([]models.DriverRecord, error) {
	runs, err := e.store.AllRuns()
	if err != nil {
		return nil, fmt.Errorf("grouped runs: %w", err)
	}
	return GroupRuns(runs), nil
}

// GroupRuns builds the grouped run tree from a flat run list.
func GroupRuns(runs []models.Run) []models.DriverRecord {
	type carKey struct{ driver, car string }

	byDriver := make(map[string]map[string]*models.CarRecord)
	order := make(map[carKey][]models.RunRecord)

	for _, run := range runs {
		cars, ok := byDriver[run.DriverName]
		if !ok {
			cars = make(map[string]*models.CarRecord)
			byDriver[run.DriverName] = cars
		}
		if _, ok := cars[run.CarName]; !ok {
			cars[run.CarName] = &models.CarRecord{
				CarName:    run.CarName,
				Drivetrain: run.Drivetrain,
			}
		}

		display := run.Time
		if millis, err := laptime.ParseLapTime(run.Time); err == nil {
			display = laptime.FormatLapTime(millis)
		}
		key := carKey{run.DriverName, run.CarName}
		order[key] = append(order[key], models.RunRecord{
			RunNumber: run.RunNumber,
			Time:      display,
		})
	}

	drivers := make([]models.DriverRecord, 0, len(byDriver))
	for name, cars := range byDriver {
		record := models.DriverRecord{Name: name}
		for carName, car := range cars {
			runsForCar := order[carKey{name, carName}]
			sort.Slice(runsForCar, func(i, j int) bool {
				return runsForCar[i].RunNumber < runsForCar[j].RunNumber
			})
			car.Runs = runsForCar
			record.Cars = append(record.Cars, *car)
		}
		sort.Slice(record.Cars, func(i, j int) bool {
			return record.Cars[i].CarName < record.Cars[j].CarName
		})
		drivers = append(drivers, record)
	}
	sort.Slice(drivers, func(i, j int) bool {
		return drivers[i].Name < drivers[j].Name
	})

	return drivers
}

// ClearAll wipes all runs, run counters and leaderboard entries, then
// publishes an empty leaderboard so connected clients reset their views.
// History snapshots survive the clear.
func (e *Engine) ClearAll(ctx context.Context) error {
	if err := e.store.ClearCompetitionData(); err != nil {
		return fmt.Errorf("clear all: %w", err)
	}

	e.publishRunDeleted(ctx, []models.RankedEntry{})

	lg := logging.Logger()

	lg.Warn().Msg("All runs and leaderboard entries cleared")
	return nil
}

func (e *Engine) publishRunAdded(ctx context.Context, leaderboard []models.RankedEntry) {
	if e.pub == nil {
		return
	}
	if err := e.pub.PublishRunAdded(ctx, leaderboard); err != nil {
		lg := logging.Logger()
		lg.Warn().Err(err).Msg("Failed to publish run-added event")
	}
}

func (e *Engine) publishRunDeleted(ctx context.Context, leaderboard []models.RankedEntry) {
	if e.pub == nil {
		return
	}
	if err := e.pub.PublishRunDeleted(ctx, leaderboard); err != nil {
		lg := logging.Logger()
		lg.Warn().Err(err).Msg("Failed to publish run-deleted event")
	}
}
