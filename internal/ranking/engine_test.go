// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package ranking

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/j00les/speednadrenaline-BE/internal/laptime"
	"github.com/j00les/speednadrenaline-BE/internal/models"
	"github.com/j00les/speednadrenaline-BE/internal/store"
)

// capturingPublisher records published events for assertions.
type capturingPublisher struct {
	mu      sync.Mutex
	added   [][]models.RankedEntry
	deleted [][]models.RankedEntry
}

func (p *capturingPublisher) PublishRunAdded(_ context.Context, lb []models.RankedEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.added = append(p.added, lb)
	return nil
}

func (p *capturingPublisher) PublishRunDeleted(_ context.Context, lb []models.RankedEntry) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.deleted = append(p.deleted, lb)
	return nil
}

func newTestEngine(t *testing.T) (*Engine, *capturingPublisher) {
	t.Helper()
	s, err := store.OpenInMemory()
	if err != nil {
		t.Fatalf("OpenInMemory() error = %v", err)
	}
	t.Cleanup(func() { _ = s.Close() })

	pub := &capturingPublisher{}
	return NewEngine(s, pub), pub
}

func TestSubmitRun_AssignsSequentialRunNumbers(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	first, err := e.SubmitRun(ctx, "alice", "gt3", models.DrivetrainAWD, "0142500")
	if err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}
	second, err := e.SubmitRun(ctx, "alice", "gt3", models.DrivetrainAWD, "0141000")
	if err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}

	if first.Run.RunNumber != 1 {
		t.Errorf("first run number = %d, want 1", first.Run.RunNumber)
	}
	if second.Run.RunNumber != 2 {
		t.Errorf("second run number = %d, want 2", second.Run.RunNumber)
	}
}

func TestSubmitRun_PersonalBestTracking(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	res, err := e.SubmitRun(ctx, "bob", "m3", models.DrivetrainRWD, "0150000")
	if err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}
	if !res.PersonalBest {
		t.Error("first run PersonalBest = false, want true")
	}

	// Slower run keeps the incumbent
	res, err = e.SubmitRun(ctx, "bob", "m3", models.DrivetrainRWD, "0155000")
	if err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}
	if res.PersonalBest {
		t.Error("slower run PersonalBest = true, want false")
	}

	// Strictly faster run replaces it
	res, err = e.SubmitRun(ctx, "bob", "m3", models.DrivetrainRWD, "0149999")
	if err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}
	if !res.PersonalBest {
		t.Error("faster run PersonalBest = false, want true")
	}
	if len(res.Leaderboard) != 1 || res.Leaderboard[0].Time != "0149999" {
		t.Errorf("leaderboard = %+v, want single 0149999 entry", res.Leaderboard)
	}
}

func TestSubmitRun_TieKeepsIncumbent(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	firstAt := time.Date(2026, 5, 1, 10, 0, 0, 0, time.UTC)
	e.now = func() time.Time { return firstAt }
	if _, err := e.SubmitRun(ctx, "carol", "gt86", models.DrivetrainFWD, "0145000"); err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}

	e.now = func() time.Time { return firstAt.Add(time.Hour) }
	res, err := e.SubmitRun(ctx, "carol", "gt86", models.DrivetrainFWD, "0145000")
	if err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}
	if res.PersonalBest {
		t.Error("equal time PersonalBest = true, want false (tie keeps incumbent)")
	}

	entries, err := e.store.AllLeaderboardEntries()
	if err != nil {
		t.Fatalf("AllLeaderboardEntries() error = %v", err)
	}
	if len(entries) != 1 {
		t.Fatalf("len(entries) = %d, want 1", len(entries))
	}
	if !entries[0].SetAt.Equal(firstAt) {
		t.Errorf("SetAt = %v, want the original %v", entries[0].SetAt, firstAt)
	}
}

func TestSubmitRun_AcceptsFormattedTime(t *testing.T) {
	e, _ := newTestEngine(t)

	res, err := e.SubmitRun(context.Background(), "dave", "s2000", models.DrivetrainRWD, "1:23.456")
	if err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}
	if res.Run.Time != "0123456" {
		t.Errorf("stored time = %q, want canonical 0123456", res.Run.Time)
	}
}

func TestSubmitRun_InvalidTime(t *testing.T) {
	e, _ := newTestEngine(t)

	for _, timeValue := range []string{"0199000", "-123456", "-1:23.456"} {
		_, err := e.SubmitRun(context.Background(), "dave", "s2000", models.DrivetrainRWD, timeValue)
		if !errors.Is(err, laptime.ErrInvalidTimeFormat) {
			t.Errorf("SubmitRun(%q) error = %v, want ErrInvalidTimeFormat", timeValue, err)
		}
	}

	board, err := e.RankedView()
	if err != nil {
		t.Fatalf("RankedView: %v", err)
	}
	if len(board) != 0 {
		t.Errorf("leaderboard after rejected submissions = %+v, want empty", board)
	}
}

func TestSubmitRun_DefaultsDrivetrain(t *testing.T) {
	e, _ := newTestEngine(t)

	res, err := e.SubmitRun(context.Background(), "erin", "rx7", "", "0135000")
	if err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}
	if res.Run.Drivetrain != models.DrivetrainUnknown {
		t.Errorf("drivetrain = %q, want %q", res.Run.Drivetrain, models.DrivetrainUnknown)
	}
}

func TestSubmitRun_PublishesRunAdded(t *testing.T) {
	e, pub := newTestEngine(t)

	if _, err := e.SubmitRun(context.Background(), "alice", "gt3", models.DrivetrainAWD, "0142500"); err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.added) != 1 {
		t.Fatalf("published run-added events = %d, want 1", len(pub.added))
	}
	if len(pub.added[0]) != 1 || pub.added[0][0].Name != "alice" {
		t.Errorf("published leaderboard = %+v, want single alice entry", pub.added[0])
	}
}

func TestRank(t *testing.T) {
	entries := []models.LeaderboardEntry{
		{DriverName: "slow", CarName: "a", Drivetrain: models.DrivetrainFWD, Time: "0102234"},
		{DriverName: "fast", CarName: "b", Drivetrain: models.DrivetrainAWD, Time: "0101000"},
		{DriverName: "tied", CarName: "c", Drivetrain: models.DrivetrainRWD, Time: "0102234"},
	}

	ranked := Rank(entries)
	if len(ranked) != 3 {
		t.Fatalf("len(ranked) = %d, want 3", len(ranked))
	}

	if ranked[0].Name != "fast" {
		t.Errorf("ranked[0] = %q, want fast", ranked[0].Name)
	}
	if ranked[0].GapMillis != 0 || ranked[0].GapToFirst != "00.00" {
		t.Errorf("leader gap = %d/%q, want 0/00.00", ranked[0].GapMillis, ranked[0].GapToFirst)
	}
	if ranked[0].FormattedTime != "01:01.000" {
		t.Errorf("leader formatted time = %q, want 01:01.000", ranked[0].FormattedTime)
	}

	// Stable sort keeps input order for the tied pair
	if ranked[1].Name != "slow" || ranked[2].Name != "tied" {
		t.Errorf("tied order = %q, %q; want slow, tied", ranked[1].Name, ranked[2].Name)
	}
	if ranked[1].GapMillis != 1234 {
		t.Errorf("gap millis = %d, want 1234", ranked[1].GapMillis)
	}
	if ranked[1].GapToFirst != "01.23" {
		t.Errorf("gap to first = %q, want 01.23", ranked[1].GapToFirst)
	}
}

func TestRank_SkipsCorruptEntryWithoutShiftingBaseline(t *testing.T) {
	// "-" sorts before "0", so a corrupt stored time lands at the front of
	// the sorted slice. It must be dropped and the gap baseline taken from
	// the first entry that parses, not left at zero.
	entries := []models.LeaderboardEntry{
		{DriverName: "corrupt", CarName: "a", Drivetrain: models.DrivetrainFWD, Time: "0-36544"},
		{DriverName: "leader", CarName: "b", Drivetrain: models.DrivetrainAWD, Time: "0101000"},
		{DriverName: "chaser", CarName: "c", Drivetrain: models.DrivetrainRWD, Time: "0102234"},
	}

	ranked := Rank(entries)
	if len(ranked) != 2 {
		t.Fatalf("len(ranked) = %d, want 2", len(ranked))
	}

	if ranked[0].Name != "leader" {
		t.Errorf("ranked[0] = %q, want leader", ranked[0].Name)
	}
	if ranked[0].GapMillis != 0 || ranked[0].GapToFirst != "00.00" {
		t.Errorf("leader gap = %d/%q, want 0/00.00", ranked[0].GapMillis, ranked[0].GapToFirst)
	}
	if ranked[1].GapMillis != 1234 {
		t.Errorf("chaser gap millis = %d, want 1234", ranked[1].GapMillis)
	}
	if ranked[1].GapToFirst != "01.23" {
		t.Errorf("chaser gap to first = %q, want 01.23", ranked[1].GapToFirst)
	}
}

func TestRank_Empty(t *testing.T) {
	if got := Rank(nil); len(got) != 0 {
		t.Errorf("Rank(nil) = %v, want empty", got)
	}
}

func TestDeleteRun_RecomputesPersonalBest(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.SubmitRun(ctx, "alice", "gt3", models.DrivetrainAWD, "0145000"); err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}
	if _, err := e.SubmitRun(ctx, "alice", "gt3", models.DrivetrainAWD, "0141000"); err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}

	lb, err := e.DeleteRun(ctx, "alice", "gt3", "0141000")
	if err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	if len(lb) != 1 || lb[0].Time != "0145000" {
		t.Errorf("leaderboard after delete = %+v, want single 0145000 entry", lb)
	}
}

func TestDeleteRun_AcceptsFormattedTime(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.SubmitRun(ctx, "alice", "gt3", models.DrivetrainAWD, "0141000"); err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}

	lb, err := e.DeleteRun(ctx, "alice", "gt3", "1:41.000")
	if err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	if len(lb) != 0 {
		t.Errorf("leaderboard after delete = %+v, want empty", lb)
	}
}

func TestDeleteRun_LastRunRemovesEntry(t *testing.T) {
	e, pub := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.SubmitRun(ctx, "bob", "m3", models.DrivetrainRWD, "0150000"); err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}

	lb, err := e.DeleteRun(ctx, "bob", "m3", "0150000")
	if err != nil {
		t.Fatalf("DeleteRun() error = %v", err)
	}
	if len(lb) != 0 {
		t.Errorf("leaderboard = %+v, want empty", lb)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.deleted) != 1 {
		t.Errorf("published run-deleted events = %d, want 1", len(pub.deleted))
	}
}

func TestDeleteRun_NotFound(t *testing.T) {
	e, _ := newTestEngine(t)

	_, err := e.DeleteRun(context.Background(), "ghost", "none", "0150000")
	if !errors.Is(err, store.ErrRunNotFound) {
		t.Errorf("error = %v, want ErrRunNotFound", err)
	}
}

func TestSubmitRun_ConcurrentSamePair(t *testing.T) {
	e, _ := newTestEngine(t)
	ctx := context.Background()

	const n = 20
	var wg sync.WaitGroup
	results := make(chan int, n)
	errs := make(chan error, n)

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			res, err := e.SubmitRun(ctx, "alice", "gt3", models.DrivetrainAWD, "0142500")
			if err != nil {
				errs <- err
				return
			}
			results <- res.Run.RunNumber
		}()
	}
	wg.Wait()
	close(results)
	close(errs)

	for err := range errs {
		t.Fatalf("SubmitRun() error = %v", err)
	}

	seen := make(map[int]bool)
	for n := range results {
		if seen[n] {
			t.Errorf("duplicate run number %d", n)
		}
		seen[n] = true
	}
	for i := 1; i <= n; i++ {
		if !seen[i] {
			t.Errorf("missing run number %d", i)
		}
	}
}

func TestGroupRuns(t *testing.T) {
	runs := []models.Run{
		{DriverName: "bob", CarName: "m3", Drivetrain: models.DrivetrainRWD, RunNumber: 1, Time: "0150000"},
		{DriverName: "alice", CarName: "r34", Drivetrain: models.DrivetrainAWD, RunNumber: 1, Time: "0148000"},
		{DriverName: "alice", CarName: "gt3", Drivetrain: models.DrivetrainAWD, RunNumber: 2, Time: "0141000"},
		{DriverName: "alice", CarName: "gt3", Drivetrain: models.DrivetrainAWD, RunNumber: 1, Time: "0145000"},
	}

	grouped := GroupRuns(runs)
	if len(grouped) != 2 {
		t.Fatalf("len(grouped) = %d, want 2", len(grouped))
	}

	if grouped[0].Name != "alice" || grouped[1].Name != "bob" {
		t.Errorf("driver order = %q, %q; want alice, bob", grouped[0].Name, grouped[1].Name)
	}

	alice := grouped[0]
	if len(alice.Cars) != 2 || alice.Cars[0].CarName != "gt3" || alice.Cars[1].CarName != "r34" {
		t.Fatalf("alice cars = %+v, want gt3 then r34", alice.Cars)
	}

	gt3 := alice.Cars[0]
	if len(gt3.Runs) != 2 || gt3.Runs[0].RunNumber != 1 || gt3.Runs[1].RunNumber != 2 {
		t.Errorf("gt3 runs = %+v, want run numbers 1 then 2", gt3.Runs)
	}
	if gt3.Runs[0].Time != "01:45.000" {
		t.Errorf("run time = %q, want display format 01:45.000", gt3.Runs[0].Time)
	}
}

func TestClearAll(t *testing.T) {
	e, pub := newTestEngine(t)
	ctx := context.Background()

	if _, err := e.SubmitRun(ctx, "alice", "gt3", models.DrivetrainAWD, "0142500"); err != nil {
		t.Fatalf("SubmitRun() error = %v", err)
	}

	if err := e.ClearAll(ctx); err != nil {
		t.Fatalf("ClearAll() error = %v", err)
	}

	lb, err := e.RankedView()
	if err != nil {
		t.Fatalf("RankedView() error = %v", err)
	}
	if len(lb) != 0 {
		t.Errorf("leaderboard after clear = %+v, want empty", lb)
	}

	pub.mu.Lock()
	defer pub.mu.Unlock()
	if len(pub.deleted) != 1 {
		t.Errorf("published run-deleted events = %d, want 1", len(pub.deleted))
	}
	if len(pub.deleted[0]) != 0 {
		t.Errorf("published leaderboard = %+v, want empty", pub.deleted[0])
	}
}
