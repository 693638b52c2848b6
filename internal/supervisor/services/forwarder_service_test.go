// Speed'n'Adrenaline - Lap Time Leaderboard Service
// Copyright 2026 j00les
// SPDX-License-Identifier: AGPL-3.0-or-later
// https://github.com/j00les/speednadrenaline-BE

package services

import (
	"context"
	"errors"
	"testing"
	"time"
)

type stubRunner struct {
	runs int
	err  error
}

func (s *stubRunner) Run(ctx context.Context) error {
	s.runs++
	if s.err != nil {
		return s.err
	}
	<-ctx.Done()
	return ctx.Err()
}

func TestForwarderService_DelegatesToRunner(t *testing.T) {
	runner := &stubRunner{}
	svc := NewForwarderService(runner)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- svc.Serve(ctx)
	}()

	time.Sleep(20 * time.Millisecond)
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, context.Canceled) {
			t.Errorf("Expected context.Canceled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("Serve did not return after cancel")
	}

	if runner.runs != 1 {
		t.Errorf("Expected one Run call, got %d", runner.runs)
	}
}

func TestForwarderService_PropagatesRunnerError(t *testing.T) {
	wantErr := errors.New("subscriber channel closed")
	svc := NewForwarderService(&stubRunner{err: wantErr})

	if err := svc.Serve(context.Background()); !errors.Is(err, wantErr) {
		t.Errorf("Expected runner error, got %v", err)
	}
}

func TestForwarderService_String(t *testing.T) {
	svc := NewForwarderService(&stubRunner{})
	if svc.String() != "eventbus-forwarder" {
		t.Errorf("Expected name eventbus-forwarder, got %q", svc.String())
	}
}
