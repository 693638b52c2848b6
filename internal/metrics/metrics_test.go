// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus/testutil"
)

func TestRecordRunSubmitted(t *testing.T) {
	runsBefore := testutil.ToFloat64(RunsSubmitted)
	bestsBefore := testutil.ToFloat64(PersonalBests)

	RecordRunSubmitted(false)
	RecordRunSubmitted(true)

	if got := testutil.ToFloat64(RunsSubmitted) - runsBefore; got != 2 {
		t.Errorf("runs submitted delta = %v, want 2", got)
	}
	if got := testutil.ToFloat64(PersonalBests) - bestsBefore; got != 1 {
		t.Errorf("personal bests delta = %v, want 1", got)
	}
}

func TestRecordRunDeleted(t *testing.T) {
	before := testutil.ToFloat64(RunsDeleted)
	RecordRunDeleted()
	if got := testutil.ToFloat64(RunsDeleted) - before; got != 1 {
		t.Errorf("runs deleted delta = %v, want 1", got)
	}
}

func TestRecordSnapshot(t *testing.T) {
	before := testutil.ToFloat64(SnapshotsSaved.WithLabelValues("leaderboard"))
	RecordSnapshot("leaderboard")
	if got := testutil.ToFloat64(SnapshotsSaved.WithLabelValues("leaderboard")) - before; got != 1 {
		t.Errorf("leaderboard snapshots delta = %v, want 1", got)
	}
}

func TestSetWebSocketClients(t *testing.T) {
	SetWebSocketClients(7)
	if got := testutil.ToFloat64(WSConnectedClients); got != 7 {
		t.Errorf("connected clients = %v, want 7", got)
	}
	SetWebSocketClients(0)
	if got := testutil.ToFloat64(WSConnectedClients); got != 0 {
		t.Errorf("connected clients = %v, want 0", got)
	}
}

func TestTrackActiveRequest(t *testing.T) {
	before := testutil.ToFloat64(APIActiveRequests)
	TrackActiveRequest(true)
	TrackActiveRequest(true)
	TrackActiveRequest(false)
	if got := testutil.ToFloat64(APIActiveRequests) - before; got != 1 {
		t.Errorf("active requests delta = %v, want 1", got)
	}
	TrackActiveRequest(false)
}

func TestRecordAPIRequest(t *testing.T) {
	before := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/runs", "201"))
	RecordAPIRequest("POST", "/api/v1/runs", 201, 12*time.Millisecond)
	if got := testutil.ToFloat64(APIRequestsTotal.WithLabelValues("POST", "/api/v1/runs", "201")) - before; got != 1 {
		t.Errorf("api requests delta = %v, want 1", got)
	}
}
